package models

// UnorderedSequence marks a stop whose position along a direction could not
// be determined. Such stops sort last and are dropped from final listings
// instead of raising an error.
const UnorderedSequence = 999999

// Stop is one stop on a route, in one direction of travel.
//
// Sequence is the raw number from the upstream stop listing; zero means the
// upstream omitted it. AbsoluteSequence is the reconciled ordering value and
// is always populated once a stop has passed through the aggregator.
type Stop struct {
	ID               int     `json:"stop_id"`
	Name             string  `json:"stop_name"`
	Latitude         float64 `json:"stop_latitude"`
	Longitude        float64 `json:"stop_longitude"`
	Suburb           string  `json:"stop_suburb,omitempty"`
	Landmark         string  `json:"stop_landmark,omitempty"`
	Sequence         int     `json:"stop_sequence"`
	DirectionID      int     `json:"direction_id"`
	DirectionName    string  `json:"direction_name"`
	AbsoluteSequence int     `json:"absolute_sequence"`
	NearbyGigs       []Gig   `json:"nearby_gigs,omitempty"`
}

// StopDetails is the extended record from the per-stop detail endpoint.
type StopDetails struct {
	ID        int     `json:"stop_id"`
	Name      string  `json:"stop_name"`
	Latitude  float64 `json:"stop_latitude"`
	Longitude float64 `json:"stop_longitude"`
	Suburb    string  `json:"stop_suburb"`
	Landmark  string  `json:"stop_landmark"`
}

// WithDetails returns a copy of the stop overlaid with extended details.
// Identifiers, names and sequence numbers from the stop listing are kept;
// detail fields only fill in what the listing left blank.
func (s Stop) WithDetails(d StopDetails) Stop {
	if d.Suburb != "" {
		s.Suburb = d.Suburb
	}
	if d.Landmark != "" {
		s.Landmark = d.Landmark
	}
	if s.Latitude == 0 && d.Latitude != 0 {
		s.Latitude = d.Latitude
	}
	if s.Longitude == 0 && d.Longitude != 0 {
		s.Longitude = d.Longitude
	}
	return s
}

// WithGigs returns a copy of the stop carrying the given gigs.
func (s Stop) WithGigs(gigs []Gig) Stop {
	s.NearbyGigs = gigs
	return s
}

// Direction is one direction of travel on a route.
type Direction struct {
	ID        int    `json:"direction_id"`
	Name      string `json:"direction_name"`
	RouteID   int    `json:"route_id"`
	RouteType int    `json:"route_type"`
}

// PatternSequences maps stop id to the sequence number observed on a
// scheduled run. Pattern data is authoritative over the raw stop listing
// sequence when both are present.
type PatternSequences map[int]int

// RouteStopsResult is the aggregated, ordered stop listing for one route:
// its directions and, per direction, the stops sorted ascending by
// AbsoluteSequence with unordered stops removed.
type RouteStopsResult struct {
	RouteID          int            `json:"route_id"`
	RouteType        int            `json:"route_type"`
	RouteName        string         `json:"route_name"`
	Directions       []Direction    `json:"directions"`
	StopsByDirection map[int][]Stop `json:"stops_by_direction"`
}
