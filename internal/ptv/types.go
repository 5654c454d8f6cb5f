package ptv

import "github.com/livemusiclocator/allptvlml/internal/models"

type routeTypesResponse struct {
	RouteTypes []models.RouteType `json:"route_types"`
}

type routesResponse struct {
	Routes []models.Route `json:"routes"`
}

type routeResponse struct {
	Route *models.Route `json:"route"`
}

type directionsResponse struct {
	Directions []models.Direction `json:"directions"`
}

type stopsResponse struct {
	Stops []models.Stop `json:"stops"`
}

type stopDetailsResponse struct {
	Stop *models.StopDetails `json:"stop"`
}

// patternDeparture is one departure on a scheduled run. Both fields are
// optional in the upstream payload; departures missing either are skipped.
type patternDeparture struct {
	StopID   *int `json:"stop_id"`
	Sequence *int `json:"stop_sequence"`
}

type patternResponse struct {
	Departures []patternDeparture `json:"departures"`
}
