package handlers

import (
	"fmt"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/livemusiclocator/allptvlml/internal/services"
)

// RouteHandler serves the HTML views backed by the timetable API.
type RouteHandler struct {
	routes *services.RouteService
	stops  *services.StopService
}

// NewRouteHandler creates a new route handler
func NewRouteHandler(routes *services.RouteService, stops *services.StopService) *RouteHandler {
	return &RouteHandler{
		routes: routes,
		stops:  stops,
	}
}

// Home renders the route type index.
// GET /
func (h *RouteHandler) Home(c *gin.Context) {
	listings := h.routes.RouteTypeIndex(c.Request.Context())
	c.HTML(http.StatusOK, "index.html", gin.H{
		"route_types": listings,
	})
}

// ShowStops renders the ordered stops for a route, grouped by direction.
// GET /stops/:route_id/:route_type
func (h *RouteHandler) ShowStops(c *gin.Context) {
	routeID, routeType, ok := routeParams(c)
	if !ok {
		c.HTML(http.StatusBadRequest, "stops.html", gin.H{
			"error": "Invalid route parameters",
		})
		return
	}

	result, err := h.stops.RouteStops(c.Request.Context(), routeID, routeType)
	if err != nil {
		c.HTML(http.StatusNotFound, "stops.html", gin.H{
			"error":    fmt.Sprintf("Could not find stops for route %d with route type %d", routeID, routeType),
			"route_id": routeID,
		})
		return
	}

	c.HTML(http.StatusOK, "stops.html", gin.H{
		"stops_by_direction": result.StopsByDirection,
		"directions":         result.Directions,
		"route_id":           routeID,
		"route_type":         routeType,
		"route_name":         result.RouteName,
	})
}

// routeParams parses the :route_id and :route_type path parameters.
func routeParams(c *gin.Context) (routeID, routeType int, ok bool) {
	routeID, err := strconv.Atoi(c.Param("route_id"))
	if err != nil {
		return 0, 0, false
	}
	routeType, err = strconv.Atoi(c.Param("route_type"))
	if err != nil {
		return 0, 0, false
	}
	return routeID, routeType, true
}
