package services

import "context"

type Address struct {
	Line1 string
	City  string
	State string
	Zip   string
}

type Location struct {
	Latitude  float64
	Longitude float64
}

// Geocoder resolves an address to coordinates. The pipeline treats it as
// best-effort: a failed call is a row-level event and the row is stored
// without coordinates.
type Geocoder interface {
	Geocode(ctx context.Context, addr Address) (Location, error)
}
