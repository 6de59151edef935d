package geo

import "math"

// BoundingBox is the smallest lat/lon rectangle containing a search circle.
// Min.Longitude > Max.Longitude means the box crosses the antimeridian.
type BoundingBox struct {
	Min Point `json:"min"`
	Max Point `json:"max"`
}

// Range is a closed interval in degrees.
type Range struct {
	Min float64 `json:"min"`
	Max float64 `json:"max"`
}

func (r Range) Contains(v float64) bool {
	return v >= r.Min && v <= r.Max
}

// Filter is a backend-neutral range query: Latitude AND (any of Longitudes).
type Filter struct {
	Latitude   Range   `json:"lat"`
	Longitudes []Range `json:"lon"`
}

// Matches reports whether p satisfies the filter.
func (f Filter) Matches(p Point) bool {
	if !f.Latitude.Contains(p.Latitude) {
		return false
	}
	for _, lon := range f.Longitudes {
		if lon.Contains(p.Longitude) {
			return true
		}
	}
	return false
}

// ComputeBoundingBox returns the bounding box of the circle of radiusMeters
// around center, following J. P. Matuschek's method. Near a pole the box
// covers every longitude.
func ComputeBoundingBox(center Point, radiusMeters float64) BoundingBox {
	latRad := toRadians(center.Latitude)
	lonRad := toRadians(center.Longitude)
	angular := radiusMeters / EarthRadiusMeters

	minLat := latRad - angular
	maxLat := latRad + angular

	var minLon, maxLon float64
	if minLat > -math.Pi/2 && maxLat < math.Pi/2 {
		deltaLon := math.Asin(math.Sin(angular) / math.Cos(latRad))
		minLon = lonRad - deltaLon
		if minLon < -math.Pi {
			minLon += 2 * math.Pi
		}
		maxLon = lonRad + deltaLon
		if maxLon > math.Pi {
			maxLon -= 2 * math.Pi
		}
	} else {
		minLat = math.Max(minLat, -math.Pi/2)
		maxLat = math.Min(maxLat, math.Pi/2)
		minLon = -math.Pi
		maxLon = math.Pi
	}

	return BoundingBox{
		Min: Point{Latitude: toDegrees(minLat), Longitude: toDegrees(minLon)},
		Max: Point{Latitude: toDegrees(maxLat), Longitude: toDegrees(maxLon)},
	}
}

// Wraps reports whether the box crosses the antimeridian.
func (b BoundingBox) Wraps() bool {
	return b.Min.Longitude > b.Max.Longitude
}

// LongitudeRanges splits a wrapping box into [min, 180] and [-180, max].
func (b BoundingBox) LongitudeRanges() []Range {
	if b.Wraps() {
		return []Range{
			{Min: b.Min.Longitude, Max: MAX_LONGITUDE},
			{Min: MIN_LONGITUDE, Max: b.Max.Longitude},
		}
	}
	return []Range{{Min: b.Min.Longitude, Max: b.Max.Longitude}}
}

func (b BoundingBox) Filter() Filter {
	return Filter{
		Latitude:   Range{Min: b.Min.Latitude, Max: b.Max.Latitude},
		Longitudes: b.LongitudeRanges(),
	}
}

// Contains reports whether p falls inside the box, honouring the wrap.
func (b BoundingBox) Contains(p Point) bool {
	return b.Filter().Matches(p)
}

// Corners returns SW, NW, NE, SE in that order.
func (b BoundingBox) Corners() [4]Point {
	return [4]Point{
		{Latitude: b.Min.Latitude, Longitude: b.Min.Longitude},
		{Latitude: b.Max.Latitude, Longitude: b.Min.Longitude},
		{Latitude: b.Max.Latitude, Longitude: b.Max.Longitude},
		{Latitude: b.Min.Latitude, Longitude: b.Max.Longitude},
	}
}
