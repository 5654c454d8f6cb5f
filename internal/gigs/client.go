package gigs

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/livemusiclocator/allptvlml/internal/models"
)

// EventSource lists live music events for a location and date.
type EventSource interface {
	GigsForDate(ctx context.Context, location string, date time.Time) ([]models.Gig, error)
}

// Client talks to the lml.live gigs API.
type Client struct {
	baseURL string
	client  *http.Client
	logger  *logrus.Logger
}

// NewClient creates a gigs API client.
func NewClient(baseURL string, logger *logrus.Logger) *Client {
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		client: &http.Client{
			Timeout: 30 * time.Second,
		},
		logger: logger,
	}
}

// GigsForDate returns every gig listed for the location on the given day.
func (c *Client) GigsForDate(ctx context.Context, location string, date time.Time) ([]models.Gig, error) {
	day := date.Format("2006-01-02")

	params := url.Values{}
	params.Set("location", location)
	params.Set("date_from", day)
	params.Set("date_to", day)
	endpoint := fmt.Sprintf("%s/gigs/query?%s", c.baseURL, params.Encode())

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to call gigs API: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		c.logger.WithFields(logrus.Fields{
			"status":   resp.StatusCode,
			"location": location,
			"date":     day,
		}).Error("Gigs API request failed")
		return nil, fmt.Errorf("gigs API returned status %d", resp.StatusCode)
	}

	var list []models.Gig
	if err := json.Unmarshal(body, &list); err != nil {
		return nil, fmt.Errorf("failed to parse response: %w", err)
	}
	return list, nil
}
