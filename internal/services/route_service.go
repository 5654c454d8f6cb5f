package services

import (
	"context"
	"fmt"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/livemusiclocator/allptvlml/internal/cache"
	"github.com/livemusiclocator/allptvlml/internal/models"
	"github.com/livemusiclocator/allptvlml/internal/ptv"
)

// RouteService serves the home view: every route type with its routes.
type RouteService struct {
	timetable ptv.TimetableSource
	cache     cache.Cache
	ttl       time.Duration
	logger    *logrus.Logger
}

// NewRouteService creates a route listing service.
func NewRouteService(timetable ptv.TimetableSource, c cache.Cache, ttl time.Duration, logger *logrus.Logger) *RouteService {
	return &RouteService{
		timetable: timetable,
		cache:     c,
		ttl:       ttl,
		logger:    logger,
	}
}

// RouteTypeIndex returns all route types, each carrying its routes. Upstream
// failures shrink the listing instead of failing it: a route type whose
// routes cannot be fetched is shown with none, and a route type fetch failure
// yields an empty index.
func (s *RouteService) RouteTypeIndex(ctx context.Context) []models.RouteTypeListing {
	var types []models.RouteType
	capturedAt, ok := s.cache.Get("route_types", &types)
	if !ok || !cache.Fresh(capturedAt, s.ttl) {
		fetched, err := s.timetable.RouteTypes(ctx)
		if err != nil {
			s.logger.WithError(err).Error("Failed to get route types")
			return nil
		}
		types = fetched
		s.cache.Put("route_types", types)
	}

	listings := make([]models.RouteTypeListing, 0, len(types))
	for _, rt := range types {
		listings = append(listings, models.RouteTypeListing{
			RouteType: rt,
			Routes:    s.routesByType(ctx, rt.Type),
		})
	}
	return listings
}

func (s *RouteService) routesByType(ctx context.Context, routeType int) []models.Route {
	key := fmt.Sprintf("routes_type_%d", routeType)

	var routes []models.Route
	if capturedAt, ok := s.cache.Get(key, &routes); ok && cache.Fresh(capturedAt, s.ttl) {
		return routes
	}

	fetched, err := s.timetable.RoutesByType(ctx, routeType)
	if err != nil {
		s.logger.WithError(err).WithField("route_type", routeType).Error("Failed to get routes")
		return nil
	}

	s.cache.Put(key, fetched)
	return fetched
}
