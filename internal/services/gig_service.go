package services

import (
	"context"
	"sort"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/livemusiclocator/allptvlml/internal/gigs"
	"github.com/livemusiclocator/allptvlml/internal/models"
)

// GigService fetches live gig listings. Gigs are never cached; the listing
// is live data.
type GigService struct {
	events   gigs.EventSource
	location string
	logger   *logrus.Logger
}

// NewGigService creates a gig listing service for the given location.
func NewGigService(events gigs.EventSource, location string, logger *logrus.Logger) *GigService {
	return &GigService{
		events:   events,
		location: location,
		logger:   logger,
	}
}

// TodaysGigs returns every gig listed for today.
func (s *GigService) TodaysGigs(ctx context.Context) ([]models.Gig, error) {
	list, err := s.events.GigsForDate(ctx, s.location, time.Now())
	if err != nil {
		s.logger.WithError(err).Error("Failed to fetch gigs")
		return nil, err
	}
	return list, nil
}

// SortedByStart returns a copy of the gigs ordered by date, then start time.
// Missing dates and times sort first.
func SortedByStart(list []models.Gig) []models.Gig {
	out := make([]models.Gig, len(list))
	copy(out, list)

	sort.SliceStable(out, func(i, j int) bool {
		if out[i].Date != out[j].Date {
			return out[i].Date < out[j].Date
		}
		return out[i].StartTime < out[j].StartTime
	})
	return out
}
