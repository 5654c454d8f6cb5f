package models

// Route is one transit route as returned by the timetable API.
type Route struct {
	ID     int    `json:"route_id"`
	Name   string `json:"route_name"`
	Number string `json:"route_number"`
	Type   int    `json:"route_type"`
}

// RouteType is a transit mode category (tram, train, bus, ...).
type RouteType struct {
	Name string `json:"route_type_name"`
	Type int    `json:"route_type"`
}

// RouteTypeListing pairs a route type with its routes for the home view.
type RouteTypeListing struct {
	RouteType
	Routes []Route `json:"routes"`
}
