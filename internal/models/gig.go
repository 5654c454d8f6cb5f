package models

// Gig is a live music event from the gigs API. DistanceMeters is only set
// once the gig has been matched against a stop.
type Gig struct {
	ID             string  `json:"id"`
	Name           string  `json:"name"`
	Date           string  `json:"date"`
	StartTime      string  `json:"start_time"`
	Venue          Venue   `json:"venue"`
	DistanceMeters float64 `json:"distance_meters,omitempty"`
}

// Venue is where a gig takes place. Coordinates are optional; gigs whose
// venue has none are never matched to a stop.
type Venue struct {
	Name      string   `json:"name"`
	Address   string   `json:"address,omitempty"`
	Latitude  *float64 `json:"latitude,omitempty"`
	Longitude *float64 `json:"longitude,omitempty"`
}

// HasCoordinates reports whether the venue carries a usable location.
func (v Venue) HasCoordinates() bool {
	return v.Latitude != nil && v.Longitude != nil
}
