package ptv

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/livemusiclocator/allptvlml/internal/models"
	"github.com/livemusiclocator/allptvlml/pkg/signature"
)

// TimetableSource is the part of the PTV timetable API the aggregation layer
// consumes. Every call either returns structured data or an error; there are
// no retries.
type TimetableSource interface {
	RouteTypes(ctx context.Context) ([]models.RouteType, error)
	RoutesByType(ctx context.Context, routeType int) ([]models.Route, error)
	RouteName(ctx context.Context, routeID int) (string, error)
	Directions(ctx context.Context, routeID int) ([]models.Direction, error)
	StopsForDirection(ctx context.Context, routeID, routeType, directionID int) ([]models.Stop, error)
	StopDetails(ctx context.Context, stopID, routeType int) (*models.StopDetails, error)
	Pattern(ctx context.Context, routeID, routeType, directionID int) (models.PatternSequences, error)
}

// Client talks to the PTV timetable API with per-request signed URLs.
type Client struct {
	baseURL string
	signer  *signature.Signer
	client  *http.Client
	logger  *logrus.Logger
}

// NewClient creates a timetable API client for the given credentials.
func NewClient(baseURL, devID, apiKey string, logger *logrus.Logger) *Client {
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		signer:  signature.NewSigner(devID, apiKey),
		client: &http.Client{
			Timeout: 30 * time.Second,
		},
		logger: logger,
	}
}

// RouteTypes returns all transit mode categories.
func (c *Client) RouteTypes(ctx context.Context) ([]models.RouteType, error) {
	var resp routeTypesResponse
	if err := c.get(ctx, "/v3/route_types", &resp); err != nil {
		return nil, err
	}
	return resp.RouteTypes, nil
}

// RoutesByType returns all routes of the given transit mode.
func (c *Client) RoutesByType(ctx context.Context, routeType int) ([]models.Route, error) {
	var resp routesResponse
	if err := c.get(ctx, fmt.Sprintf("/v3/routes?route_types=%d", routeType), &resp); err != nil {
		return nil, err
	}
	return resp.Routes, nil
}

// RouteName returns the display name of a route.
func (c *Client) RouteName(ctx context.Context, routeID int) (string, error) {
	var resp routeResponse
	if err := c.get(ctx, fmt.Sprintf("/v3/routes/%d", routeID), &resp); err != nil {
		return "", err
	}
	if resp.Route == nil {
		return "", fmt.Errorf("route %d missing from response", routeID)
	}
	return resp.Route.Name, nil
}

// Directions returns the directions of travel for a route.
func (c *Client) Directions(ctx context.Context, routeID int) ([]models.Direction, error) {
	var resp directionsResponse
	if err := c.get(ctx, fmt.Sprintf("/v3/directions/route/%d", routeID), &resp); err != nil {
		return nil, err
	}
	return resp.Directions, nil
}

// StopsForDirection returns the raw stop listing for one direction of a route.
func (c *Client) StopsForDirection(ctx context.Context, routeID, routeType, directionID int) ([]models.Stop, error) {
	path := fmt.Sprintf("/v3/stops/route/%d/route_type/%d?direction_id=%d", routeID, routeType, directionID)
	var resp stopsResponse
	if err := c.get(ctx, path, &resp); err != nil {
		return nil, err
	}
	return resp.Stops, nil
}

// StopDetails returns the extended record for a single stop.
func (c *Client) StopDetails(ctx context.Context, stopID, routeType int) (*models.StopDetails, error) {
	path := fmt.Sprintf("/v3/stops/%d/route_type/%d", stopID, routeType)
	var resp stopDetailsResponse
	if err := c.get(ctx, path, &resp); err != nil {
		return nil, err
	}
	if resp.Stop == nil {
		return nil, fmt.Errorf("stop %d missing from response", stopID)
	}
	return resp.Stop, nil
}

// Pattern returns the stop id to sequence mapping observed on a scheduled run
// for the given direction. Departures without both a stop id and a sequence
// number are skipped.
func (c *Client) Pattern(ctx context.Context, routeID, routeType, directionID int) (models.PatternSequences, error) {
	path := fmt.Sprintf("/v3/pattern/run/%d/route_type/%d?direction_id=%d", routeID, routeType, directionID)
	var resp patternResponse
	if err := c.get(ctx, path, &resp); err != nil {
		return nil, err
	}

	sequences := make(models.PatternSequences, len(resp.Departures))
	for _, departure := range resp.Departures {
		if departure.StopID == nil || departure.Sequence == nil {
			continue
		}
		sequences[*departure.StopID] = *departure.Sequence
	}
	return sequences, nil
}

func (c *Client) get(ctx context.Context, requestPath string, v any) error {
	url := c.signer.SignedURL(c.baseURL, requestPath)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return fmt.Errorf("failed to call timetable API: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("failed to read response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		c.logger.WithFields(logrus.Fields{
			"path":   requestPath,
			"status": resp.StatusCode,
		}).Error("Timetable API request failed")
		return fmt.Errorf("timetable API returned status %d", resp.StatusCode)
	}

	if err := json.Unmarshal(body, v); err != nil {
		return fmt.Errorf("failed to parse response: %w", err)
	}
	return nil
}
