package handlers

import (
	"fmt"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/livemusiclocator/allptvlml/internal/models"
	"github.com/livemusiclocator/allptvlml/internal/services"
)

// GigHandler serves the gig listing and gig/stop matching views.
type GigHandler struct {
	gigs    *services.GigService
	stops   *services.StopService
	matcher *services.GigMatcher
}

// NewGigHandler creates a new gig handler
func NewGigHandler(gigs *services.GigService, stops *services.StopService, matcher *services.GigMatcher) *GigHandler {
	return &GigHandler{
		gigs:    gigs,
		stops:   stops,
		matcher: matcher,
	}
}

// AllGigs renders today's gigs sorted by date and start time.
// GET /allgigs
func (h *GigHandler) AllGigs(c *gin.Context) {
	list, err := h.gigs.TodaysGigs(c.Request.Context())
	if err != nil {
		c.HTML(http.StatusBadGateway, "allgigs.html", gin.H{
			"error": "Could not fetch gigs data. Please try again later.",
		})
		return
	}

	c.HTML(http.StatusOK, "allgigs.html", gin.H{
		"gigs": services.SortedByStart(list),
	})
}

// NearbyGigs renders the stops of a route that have gigs within walking
// distance, across all directions.
// GET /nearby_gigs/:route_id/:route_type
func (h *GigHandler) NearbyGigs(c *gin.Context) {
	routeID, routeType, ok := routeParams(c)
	if !ok {
		c.HTML(http.StatusBadRequest, "nearby_gigs.html", gin.H{
			"error": "Invalid route parameters",
		})
		return
	}

	result, err := h.stops.RouteStops(c.Request.Context(), routeID, routeType)
	if err != nil {
		c.HTML(http.StatusNotFound, "nearby_gigs.html", gin.H{
			"error":    fmt.Sprintf("Could not find stops for route %d", routeID),
			"route_id": routeID,
		})
		return
	}

	list, err := h.gigs.TodaysGigs(c.Request.Context())
	if err != nil {
		c.HTML(http.StatusBadGateway, "nearby_gigs.html", gin.H{
			"error":    "Could not fetch gigs data",
			"route_id": routeID,
		})
		return
	}

	var allStops []models.Stop
	for _, direction := range result.Directions {
		allStops = append(allStops, result.StopsByDirection[direction.ID]...)
	}

	matched, found := h.matcher.Nearby(allStops, list)

	c.HTML(http.StatusOK, "nearby_gigs.html", gin.H{
		"route_id":        routeID,
		"stops_with_gigs": matched,
		"any_gigs_found":  found,
	})
}

// GigsAhead renders the gigs near a stop and near every stop ahead of it in
// the same direction of travel.
// GET /gigs_ahead/:route_id/:route_type/:stop_id/:direction_id
func (h *GigHandler) GigsAhead(c *gin.Context) {
	routeID, routeType, ok := routeParams(c)
	if !ok {
		c.HTML(http.StatusBadRequest, "gigs_ahead.html", gin.H{
			"error": "Invalid route parameters",
		})
		return
	}
	stopID, err := strconv.Atoi(c.Param("stop_id"))
	if err != nil {
		c.HTML(http.StatusBadRequest, "gigs_ahead.html", gin.H{
			"error": "Invalid stop id",
		})
		return
	}
	directionID, err := strconv.Atoi(c.Param("direction_id"))
	if err != nil {
		c.HTML(http.StatusBadRequest, "gigs_ahead.html", gin.H{
			"error": "Invalid direction id",
		})
		return
	}

	result, err := h.stops.RouteStops(c.Request.Context(), routeID, routeType)
	if err != nil {
		c.HTML(http.StatusNotFound, "gigs_ahead.html", gin.H{
			"error":      fmt.Sprintf("Could not find stops for route %d", routeID),
			"route_id":   routeID,
			"route_type": routeType,
		})
		return
	}

	list, err := h.gigs.TodaysGigs(c.Request.Context())
	if err != nil {
		c.HTML(http.StatusBadGateway, "gigs_ahead.html", gin.H{
			"error":      "Could not fetch gigs data",
			"route_id":   routeID,
			"route_type": routeType,
		})
		return
	}

	current, matched, found, err := h.matcher.Ahead(result.StopsByDirection[directionID], stopID, list)
	if err != nil {
		c.HTML(http.StatusNotFound, "gigs_ahead.html", gin.H{
			"error":      fmt.Sprintf("Could not find stop %d", stopID),
			"route_id":   routeID,
			"route_type": routeType,
		})
		return
	}

	c.HTML(http.StatusOK, "gigs_ahead.html", gin.H{
		"route_id":        routeID,
		"route_type":      routeType,
		"current_stop":    current,
		"stops_with_gigs": matched,
		"any_gigs_found":  found,
	})
}
