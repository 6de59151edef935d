// Package geo holds the spherical geometry used by the airport search:
// points, bounding boxes around a search circle and great-circle distances.
package geo

import (
	"fmt"
	"math"
)

const (
	// EarthRadiusMeters is the mean Earth radius used by every calculation in this package.
	EarthRadiusMeters = 6371e3

	MIN_LATITUDE  = -90.0
	MAX_LATITUDE  = 90.0
	MIN_LONGITUDE = -180.0
	MAX_LONGITUDE = 180.0
)

// Point is a latitude/longitude pair in degrees.
type Point struct {
	Latitude  float64 `json:"lat"`
	Longitude float64 `json:"lon"`
}

// NewPoint builds a Point and checks it against the coordinate ranges.
func NewPoint(lat, lon float64) (Point, error) {
	p := Point{Latitude: lat, Longitude: lon}
	if err := p.Validate(); err != nil {
		return Point{}, err
	}
	return p, nil
}

// Validate reports whether the point lies inside [-90, 90] x [-180, 180].
func (p Point) Validate() error {
	if math.IsNaN(p.Latitude) || p.Latitude < MIN_LATITUDE || p.Latitude > MAX_LATITUDE {
		return fmt.Errorf("latitude %v out of range [%v, %v]", p.Latitude, MIN_LATITUDE, MAX_LATITUDE)
	}
	if math.IsNaN(p.Longitude) || p.Longitude < MIN_LONGITUDE || p.Longitude > MAX_LONGITUDE {
		return fmt.Errorf("longitude %v out of range [%v, %v]", p.Longitude, MIN_LONGITUDE, MAX_LONGITUDE)
	}
	return nil
}

func (p Point) String() string {
	return fmt.Sprintf("(%f, %f)", p.Latitude, p.Longitude)
}

func toRadians(degrees float64) float64 {
	return degrees * (math.Pi / 180)
}

func toDegrees(radians float64) float64 {
	return radians * (180 / math.Pi)
}
