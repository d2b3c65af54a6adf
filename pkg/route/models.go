package route

import (
	"fmt"
	"math"
)

// Coordinates is a WGS84 point.
type Coordinates struct {
	Longitude float64 `json:"longitude"`
	Latitude  float64 `json:"latitude"`
}

// Valid reports whether the point lies inside the WGS84 ranges.
func (c Coordinates) Valid() bool {
	if math.IsNaN(c.Longitude) || math.IsNaN(c.Latitude) {
		return false
	}
	return c.Longitude >= -180 && c.Longitude <= 180 &&
		c.Latitude >= -90 && c.Latitude <= 90
}

// Validate returns ErrInvalidCoordinates when the point is out of range.
func (c Coordinates) Validate() error {
	if !c.Valid() {
		return fmt.Errorf("%w: (%f, %f)", ErrInvalidCoordinates, c.Longitude, c.Latitude)
	}
	return nil
}

// LonLat returns the point as [lon, lat], the order used by GeoJSON and
// every provider we talk to.
func (c Coordinates) LonLat() []float64 {
	return []float64{c.Longitude, c.Latitude}
}

// FromLonLat builds Coordinates from a [lon, lat] pair.
func FromLonLat(pair []float64) (Coordinates, error) {
	if len(pair) < 2 {
		return Coordinates{}, fmt.Errorf("%w: expected [lon, lat], got %d values", ErrInvalidCoordinates, len(pair))
	}
	return Coordinates{Longitude: pair[0], Latitude: pair[1]}, nil
}

// Route is a driving route between two points. It is transient: computed
// per request and never stored.
type Route struct {
	Provider        string
	Origin          Coordinates
	Destination     Coordinates
	Geometry        []Coordinates // display only, may be empty
	DistanceMeters  float64
	DurationSeconds float64
}
