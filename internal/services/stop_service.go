package services

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strconv"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/livemusiclocator/allptvlml/internal/cache"
	"github.com/livemusiclocator/allptvlml/internal/models"
	"github.com/livemusiclocator/allptvlml/internal/ptv"
)

// ErrNotFound marks a route, direction or stop the upstream does not know.
var ErrNotFound = errors.New("not found")

// StopService builds the ordered stop listing for a route. It reconciles the
// pattern-derived sequence numbers with the raw stop listing ones, sorts each
// direction and drops stops whose order could not be determined.
type StopService struct {
	timetable ptv.TimetableSource
	cache     cache.Cache
	ttl       time.Duration
	logger    *logrus.Logger
}

// NewStopService creates a stop aggregation service. ttl is the freshness
// window applied to cached results.
func NewStopService(timetable ptv.TimetableSource, c cache.Cache, ttl time.Duration, logger *logrus.Logger) *StopService {
	return &StopService{
		timetable: timetable,
		cache:     c,
		ttl:       ttl,
		logger:    logger,
	}
}

// RouteStops returns the directions and sequence-ordered stops for a route.
// Results are cached per (route id, route type). A failure fetching the
// directions or any direction's stop listing aborts the whole computation;
// missing pattern data or stop details degrade gracefully.
func (s *StopService) RouteStops(ctx context.Context, routeID, routeType int) (*models.RouteStopsResult, error) {
	key := fmt.Sprintf("stops_route_%d_%d", routeID, routeType)

	var cached models.RouteStopsResult
	if capturedAt, ok := s.cache.Get(key, &cached); ok && cache.Fresh(capturedAt, s.ttl) {
		s.logger.WithField("route_id", routeID).Info("Using cached data for route")
		return &cached, nil
	}
	s.logger.WithField("route_id", routeID).Info("Fetching fresh data for route")

	routeName := s.resolveRouteName(ctx, routeID)

	directions, err := s.timetable.Directions(ctx, routeID)
	if err != nil {
		s.logger.WithError(err).WithField("route_id", routeID).Error("Failed to get route directions")
		return nil, fmt.Errorf("directions for route %d: %w", routeID, ErrNotFound)
	}

	result := &models.RouteStopsResult{
		RouteID:          routeID,
		RouteType:        routeType,
		RouteName:        routeName,
		Directions:       directions,
		StopsByDirection: make(map[int][]models.Stop, len(directions)),
	}

	for _, direction := range directions {
		stops, err := s.directionStops(ctx, routeID, routeType, direction)
		if err != nil {
			return nil, err
		}
		result.StopsByDirection[direction.ID] = stops
	}

	s.cache.Put(key, result)
	return result, nil
}

// resolveRouteName falls back to the stringified route id when the lookup
// fails; a missing name never fails the aggregation.
func (s *StopService) resolveRouteName(ctx context.Context, routeID int) string {
	name, err := s.timetable.RouteName(ctx, routeID)
	if err != nil {
		s.logger.WithError(err).WithField("route_id", routeID).Error("Failed to get route name")
		return strconv.Itoa(routeID)
	}
	return name
}

func (s *StopService) directionStops(ctx context.Context, routeID, routeType int, direction models.Direction) ([]models.Stop, error) {
	log := s.logger.WithFields(logrus.Fields{
		"route_id":  routeID,
		"direction": direction.Name,
	})

	sequences, err := s.timetable.Pattern(ctx, routeID, routeType, direction.ID)
	if err != nil {
		log.WithError(err).Error("Failed to get pattern data")
		sequences = models.PatternSequences{}
	}

	stops, err := s.timetable.StopsForDirection(ctx, routeID, routeType, direction.ID)
	if err != nil {
		log.WithError(err).Error("Failed to get stops")
		return nil, fmt.Errorf("stops for direction %d: %w", direction.ID, err)
	}
	log.WithField("count", len(stops)).Info("Found stops in response")

	ordered := make([]models.Stop, 0, len(stops))
	for _, stop := range stops {
		stop.DirectionID = direction.ID
		stop.DirectionName = direction.Name
		stop = s.enrich(ctx, stop, routeType)

		patternSeq, hasPattern := sequences[stop.ID]
		stop.AbsoluteSequence = resolveSequence(patternSeq, hasPattern, stop.Sequence)
		ordered = append(ordered, stop)
	}

	sort.SliceStable(ordered, func(i, j int) bool {
		return ordered[i].AbsoluteSequence < ordered[j].AbsoluteSequence
	})

	valid := make([]models.Stop, 0, len(ordered))
	for _, stop := range ordered {
		if stop.AbsoluteSequence == models.UnorderedSequence {
			log.WithFields(logrus.Fields{
				"stop_id":   stop.ID,
				"stop_name": stop.Name,
			}).Info("Dropping stop without a determinable sequence")
			continue
		}
		valid = append(valid, stop)
	}
	return valid, nil
}

// enrich overlays the extended stop details onto the listing record. Detail
// lookups are cached per (stop id, route type) and failures leave the stop
// un-enriched.
func (s *StopService) enrich(ctx context.Context, stop models.Stop, routeType int) models.Stop {
	key := fmt.Sprintf("stop_details_%d_%d", stop.ID, routeType)

	var details models.StopDetails
	if capturedAt, ok := s.cache.Get(key, &details); ok && cache.Fresh(capturedAt, s.ttl) {
		return stop.WithDetails(details)
	}

	fetched, err := s.timetable.StopDetails(ctx, stop.ID, routeType)
	if err != nil {
		s.logger.WithError(err).WithField("stop_id", stop.ID).Warn("Failed to get stop details")
		return stop
	}

	s.cache.Put(key, fetched)
	return stop.WithDetails(*fetched)
}

// resolveSequence picks the absolute ordering value for a stop. Pattern data
// reflects the physical order of an actual run and wins when present; a
// strictly positive raw listing sequence is the fallback; anything else is
// unordered.
func resolveSequence(patternSeq int, hasPattern bool, rawSeq int) int {
	switch {
	case hasPattern:
		return patternSeq
	case rawSeq > 0:
		return rawSeq
	default:
		return models.UnorderedSequence
	}
}
