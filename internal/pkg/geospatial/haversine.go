package geospatial

import (
	"math"
	"sort"
)

const earthRadiusKm = 6371.0

// Point is a WGS 84 coordinate in degrees.
type Point struct {
	Lat float64 `json:"lat"`
	Lon float64 `json:"lon"`
}

// HaversineKm calculates the great-circle distance in kilometres between two points.
// Out-of-range coordinates are not rejected.
func HaversineKm(lat1, lon1, lat2, lon2 float64) float64 {
	dLat := toRad(lat2 - lat1)
	dLon := toRad(lon2 - lon1)

	a := math.Sin(dLat/2)*math.Sin(dLat/2) +
		math.Cos(toRad(lat1))*math.Cos(toRad(lat2))*
			math.Sin(dLon/2)*math.Sin(dLon/2)

	// rounding can push a a hair above 1 for antipodal points
	return 2 * earthRadiusKm * math.Asin(math.Sqrt(math.Min(1, a)))
}

// DistanceKm is HaversineKm over points.
func DistanceKm(a, b Point) float64 {
	return HaversineKm(a.Lat, a.Lon, b.Lat, b.Lon)
}

// boxMargin widens BoundingBox so points on the circle survive float error.
const boxMargin = 1.01

// BoundingBox returns a box that contains every point within radiusKm of
// (lat, lon) as measured by HaversineKm. The longitude span is the widest
// extent of the spherical cap; a cap reaching a pole spans all longitudes.
func BoundingBox(lat, lon, radiusKm float64) (minLat, minLon, maxLat, maxLon float64) {
	angular := radiusKm / earthRadiusKm * boxMargin
	latDelta := angular * 180 / math.Pi

	minLat, maxLat = lat-latDelta, lat+latDelta
	if minLat <= -90 || maxLat >= 90 || angular >= math.Pi/2 {
		return math.Max(minLat, -90), -180, math.Min(maxLat, 90), 180
	}

	lonDelta := math.Asin(math.Sin(angular)/math.Cos(toRad(lat))) * 180 / math.Pi
	if lon-lonDelta < -180 || lon+lonDelta > 180 {
		return minLat, -180, maxLat, 180
	}
	return minLat, lon - lonDelta, maxLat, lon + lonDelta
}

// Ranked pairs an item with its distance from a search origin.
type Ranked[T any] struct {
	Item       T
	DistanceKm float64
}

// WithinRadius keeps the items located within radiusKm of origin and sorts
// them by ascending distance. locate reports false for items without a
// position; those are dropped. Ties keep their input order.
func WithinRadius[T any](items []T, origin Point, radiusKm float64, locate func(T) (Point, bool)) []Ranked[T] {
	out := make([]Ranked[T], 0, len(items))
	for _, it := range items {
		p, ok := locate(it)
		if !ok {
			continue
		}
		d := DistanceKm(origin, p)
		if d <= radiusKm {
			out = append(out, Ranked[T]{Item: it, DistanceKm: d})
		}
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].DistanceKm < out[j].DistanceKm })
	return out
}

func toRad(deg float64) float64 {
	return deg * math.Pi / 180
}
