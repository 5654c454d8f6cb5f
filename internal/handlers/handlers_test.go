package handlers

import (
	"context"
	"errors"
	"io"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/require"

	"github.com/livemusiclocator/allptvlml/internal/cache"
	"github.com/livemusiclocator/allptvlml/internal/logging"
	"github.com/livemusiclocator/allptvlml/internal/models"
	"github.com/livemusiclocator/allptvlml/internal/services"
)

// Test fixtures model the Upfield tram with two stops in one direction and a
// single gig close to the first stop.
const (
	fixtureLat = -37.8136
	fixtureLon = 144.9631
)

type stubTimetable struct {
	routeTypesFn        func() ([]models.RouteType, error)
	routesByTypeFn      func(routeType int) ([]models.Route, error)
	routeNameFn         func(routeID int) (string, error)
	directionsFn        func(routeID int) ([]models.Direction, error)
	stopsForDirectionFn func(routeID, routeType, directionID int) ([]models.Stop, error)
	stopDetailsFn       func(stopID, routeType int) (*models.StopDetails, error)
	patternFn           func(routeID, routeType, directionID int) (models.PatternSequences, error)
}

func (s *stubTimetable) RouteTypes(ctx context.Context) ([]models.RouteType, error) {
	if s.routeTypesFn == nil {
		return nil, errors.New("unexpected RouteTypes call")
	}
	return s.routeTypesFn()
}

func (s *stubTimetable) RoutesByType(ctx context.Context, routeType int) ([]models.Route, error) {
	if s.routesByTypeFn == nil {
		return nil, errors.New("unexpected RoutesByType call")
	}
	return s.routesByTypeFn(routeType)
}

func (s *stubTimetable) RouteName(ctx context.Context, routeID int) (string, error) {
	if s.routeNameFn == nil {
		return "", errors.New("unexpected RouteName call")
	}
	return s.routeNameFn(routeID)
}

func (s *stubTimetable) Directions(ctx context.Context, routeID int) ([]models.Direction, error) {
	if s.directionsFn == nil {
		return nil, errors.New("unexpected Directions call")
	}
	return s.directionsFn(routeID)
}

func (s *stubTimetable) StopsForDirection(ctx context.Context, routeID, routeType, directionID int) ([]models.Stop, error) {
	if s.stopsForDirectionFn == nil {
		return nil, errors.New("unexpected StopsForDirection call")
	}
	return s.stopsForDirectionFn(routeID, routeType, directionID)
}

func (s *stubTimetable) StopDetails(ctx context.Context, stopID, routeType int) (*models.StopDetails, error) {
	if s.stopDetailsFn == nil {
		return nil, errors.New("unexpected StopDetails call")
	}
	return s.stopDetailsFn(stopID, routeType)
}

func (s *stubTimetable) Pattern(ctx context.Context, routeID, routeType, directionID int) (models.PatternSequences, error) {
	if s.patternFn == nil {
		return nil, errors.New("unexpected Pattern call")
	}
	return s.patternFn(routeID, routeType, directionID)
}

type stubEvents struct {
	gigsForDateFn func(location string, date time.Time) ([]models.Gig, error)
}

func (s *stubEvents) GigsForDate(ctx context.Context, location string, date time.Time) ([]models.Gig, error) {
	if s.gigsForDateFn == nil {
		return nil, errors.New("unexpected GigsForDate call")
	}
	return s.gigsForDateFn(location, date)
}

func fixtureTimetable() *stubTimetable {
	return &stubTimetable{
		routeTypesFn: func() ([]models.RouteType, error) {
			return []models.RouteType{{Name: "Tram", Type: 1}}, nil
		},
		routesByTypeFn: func(int) ([]models.Route, error) {
			return []models.Route{{ID: 721, Name: "Upfield", Number: "19", Type: 1}}, nil
		},
		routeNameFn: func(int) (string, error) { return "Upfield", nil },
		directionsFn: func(routeID int) ([]models.Direction, error) {
			return []models.Direction{{ID: 5, Name: "City", RouteID: routeID, RouteType: 1}}, nil
		},
		stopsForDirectionFn: func(int, int, int) ([]models.Stop, error) {
			return []models.Stop{
				{ID: 10, Name: "Brunswick Town Hall", Sequence: 1, Latitude: fixtureLat, Longitude: fixtureLon},
				{ID: 20, Name: "Jewell Station", Sequence: 2, Latitude: fixtureLat + 0.05, Longitude: fixtureLon},
			}, nil
		},
		stopDetailsFn: func(stopID, _ int) (*models.StopDetails, error) {
			return &models.StopDetails{ID: stopID, Suburb: "Brunswick"}, nil
		},
		patternFn: func(int, int, int) (models.PatternSequences, error) {
			return models.PatternSequences{10: 1, 20: 2}, nil
		},
	}
}

func fixtureEvents() *stubEvents {
	return &stubEvents{
		gigsForDateFn: func(string, time.Time) ([]models.Gig, error) {
			lat := fixtureLat + 0.001
			lon := fixtureLon
			return []models.Gig{
				{
					ID:        "g1",
					Name:      "Late Night Jazz",
					Date:      "2025-06-14",
					StartTime: "21:00",
					Venue:     models.Venue{Name: "The Retreat", Latitude: &lat, Longitude: &lon},
				},
			}, nil
		},
	}
}

func newTestRouter(t *testing.T, timetable *stubTimetable, events *stubEvents) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)

	logger := logrus.New()
	logger.SetOutput(io.Discard)

	diskCache, err := cache.NewDiskCache(t.TempDir(), logger)
	require.NoError(t, err)

	stopService := services.NewStopService(timetable, diskCache, time.Hour, logger)
	routeService := services.NewRouteService(timetable, diskCache, time.Hour, logger)
	gigService := services.NewGigService(events, "melbourne", logger)
	matcher := services.NewGigMatcher()

	routeHandler := NewRouteHandler(routeService, stopService)
	gigHandler := NewGigHandler(gigService, stopService, matcher)
	logHandler := NewLogHandler(logging.NewBuffer(logging.DefaultCapacity))

	router := gin.New()
	router.LoadHTMLGlob("../../web/templates/*.html")
	router.GET("/", routeHandler.Home)
	router.GET("/stops/:route_id/:route_type", routeHandler.ShowStops)
	router.GET("/allgigs", gigHandler.AllGigs)
	router.GET("/nearby_gigs/:route_id/:route_type", gigHandler.NearbyGigs)
	router.GET("/gigs_ahead/:route_id/:route_type/:stop_id/:direction_id", gigHandler.GigsAhead)
	router.GET("/api/logs", logHandler.Logs)
	return router
}
