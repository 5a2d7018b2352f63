package lawyerparse

import (
	"strings"

	"github.com/nyayasahayak/legallibrary/internal/pkg/geospatial"
)

type cityInfo struct {
	name  string
	state string
	point geospatial.Point
}

// Ordered so that "New Delhi" is tried before "Delhi".
var knownCities = []cityInfo{
	{"New Delhi", "Delhi", geospatial.Point{Lat: 28.6139, Lon: 77.2090}},
	{"Delhi", "Delhi", geospatial.Point{Lat: 28.6139, Lon: 77.2090}},
	{"Mumbai", "Maharashtra", geospatial.Point{Lat: 19.0760, Lon: 72.8777}},
	{"Bangalore", "Karnataka", geospatial.Point{Lat: 12.9716, Lon: 77.5946}},
	{"Chennai", "Tamil Nadu", geospatial.Point{Lat: 13.0827, Lon: 80.2707}},
	{"Kolkata", "West Bengal", geospatial.Point{Lat: 22.5726, Lon: 88.3639}},
	{"Hyderabad", "Telangana", geospatial.Point{Lat: 17.3850, Lon: 78.4867}},
	{"Pune", "Maharashtra", geospatial.Point{Lat: 18.5204, Lon: 73.8567}},
	{"Noida", "Uttar Pradesh", geospatial.Point{Lat: 28.5355, Lon: 77.3910}},
	{"Gurgaon", "Haryana", geospatial.Point{Lat: 28.4595, Lon: 77.0266}},
	{"Ghaziabad", "Uttar Pradesh", geospatial.Point{Lat: 28.6692, Lon: 77.4538}},
}

// CityFromAddress returns the first known city named in addr, or DefaultCity.
func CityFromAddress(addr string) string {
	for _, c := range knownCities {
		if strings.Contains(addr, c.name) {
			return c.name
		}
	}
	return DefaultCity
}

// StateForCity maps a known city to its state. Unknown cities map to Delhi,
// the seat of the Supreme Court.
func StateForCity(city string) string {
	for _, c := range knownCities {
		if c.name == city {
			return c.state
		}
	}
	return "Delhi"
}

// CityCoordinates returns the city centre used to place an advocate on the map.
func CityCoordinates(city string) geospatial.Point {
	for _, c := range knownCities {
		if c.name == city {
			return c.point
		}
	}
	return knownCities[0].point
}
