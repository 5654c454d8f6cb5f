package services

import (
	"fmt"
	"sort"

	"github.com/livemusiclocator/allptvlml/internal/models"
	"github.com/livemusiclocator/allptvlml/pkg/geo"
)

// NearbyRadiusMeters is the matching radius between a stop and a venue.
const NearbyRadiusMeters = 500.0

// GigMatcher associates gigs with stops by venue proximity.
type GigMatcher struct{}

// NewGigMatcher creates a matcher.
func NewGigMatcher() *GigMatcher {
	return &GigMatcher{}
}

// Nearby returns the stops that have at least one gig within
// NearbyRadiusMeters, each carrying its matches sorted ascending by
// distance, and whether any stop matched at all. Input stops are not
// mutated; matched stops are copies.
func (m *GigMatcher) Nearby(stops []models.Stop, gigList []models.Gig) ([]models.Stop, bool) {
	matched := make([]models.Stop, 0)
	found := false

	for _, stop := range stops {
		near := m.gigsNear(stop, gigList)
		if len(near) == 0 {
			continue
		}
		found = true
		matched = append(matched, stop.WithGigs(near))
	}
	return matched, found
}

// Ahead restricts matching to the stop with stopID plus the stops that
// follow it in its direction. "Follows" is judged on the raw upstream
// sequence number, not the reconciled absolute one; a stop without a raw
// sequence compares as 0. Returns the target stop, the matched stops with
// the target first, and whether anything matched.
func (m *GigMatcher) Ahead(stopsInDirection []models.Stop, stopID int, gigList []models.Gig) (*models.Stop, []models.Stop, bool, error) {
	var current *models.Stop
	for i := range stopsInDirection {
		if stopsInDirection[i].ID == stopID {
			stop := stopsInDirection[i]
			current = &stop
			break
		}
	}
	if current == nil {
		return nil, nil, false, fmt.Errorf("stop %d: %w", stopID, ErrNotFound)
	}

	candidates := make([]models.Stop, 0, len(stopsInDirection))
	candidates = append(candidates, *current)
	for _, stop := range stopsInDirection {
		if stop.ID == current.ID {
			continue
		}
		if stop.Sequence > current.Sequence {
			candidates = append(candidates, stop)
		}
	}

	matched, found := m.Nearby(candidates, gigList)
	return current, matched, found, nil
}

func (m *GigMatcher) gigsNear(stop models.Stop, gigList []models.Gig) []models.Gig {
	var near []models.Gig
	for _, gig := range gigList {
		if !gig.Venue.HasCoordinates() {
			continue
		}
		distance := geo.Distance(stop.Latitude, stop.Longitude, *gig.Venue.Latitude, *gig.Venue.Longitude)
		if distance <= NearbyRadiusMeters {
			gig.DistanceMeters = distance
			near = append(near, gig)
		}
	}

	sort.SliceStable(near, func(i, j int) bool {
		return near[i].DistanceMeters < near[j].DistanceMeters
	})
	return near
}
