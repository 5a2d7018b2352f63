package geospatial

import (
	"math"
	"testing"
)

var (
	newDelhi = Point{Lat: 28.6139, Lon: 77.2090}
	mumbai   = Point{Lat: 19.0760, Lon: 72.8777}
)

func TestHaversineKm_SamePointIsZero(t *testing.T) {
	points := []Point{newDelhi, mumbai, {0, 0}, {-33.8688, 151.2093}, {89.9, -179.9}}
	for _, p := range points {
		if d := DistanceKm(p, p); d != 0 {
			t.Errorf("DistanceKm(%v, %v) = %f, want 0", p, p, d)
		}
	}
}

func TestHaversineKm_Symmetric(t *testing.T) {
	pairs := [][2]Point{
		{newDelhi, mumbai},
		{{51.5074, -0.1278}, {40.7128, -74.0060}},
		{{-90, 0}, {90, 0}},
	}
	for _, pr := range pairs {
		ab := DistanceKm(pr[0], pr[1])
		ba := DistanceKm(pr[1], pr[0])
		if math.Abs(ab-ba) > 1e-9 {
			t.Errorf("asymmetric distance: %f vs %f", ab, ba)
		}
	}
}

func TestHaversineKm_DelhiMumbai(t *testing.T) {
	// R = 6371 km gives 1148.09 km for these coordinates.
	d := HaversineKm(28.6139, 77.2090, 19.0760, 72.8777)
	if math.Abs(d-1148.1) > 0.5 {
		t.Fatalf("expected 1148.1 +/- 0.5 km, got %f", d)
	}
}

func TestHaversineKm_OneKilometreShift(t *testing.T) {
	d := HaversineKm(28.6139, 77.2090, 28.6139+0.009, 77.2090)
	if math.Abs(d-1.0) > 0.05 {
		t.Fatalf("expected ~1.0 km, got %f", d)
	}
}

func TestHaversineKm_Antipodal(t *testing.T) {
	d := HaversineKm(0, 0, 0, 180)
	want := math.Pi * earthRadiusKm
	if math.IsNaN(d) || math.Abs(d-want) > 1e-6 {
		t.Fatalf("expected %f, got %f", want, d)
	}
}

func TestHaversineKm_OutOfRangeDoesNotPanic(t *testing.T) {
	d := HaversineKm(200, 400, -300, -999)
	if math.IsNaN(d) {
		t.Fatal("expected a number for out-of-range input")
	}
}

type place struct {
	name string
	pos  *Point
}

func locatePlace(p place) (Point, bool) {
	if p.pos == nil {
		return Point{}, false
	}
	return *p.pos, true
}

func TestWithinRadius_FiltersAndSorts(t *testing.T) {
	noida := Point{Lat: 28.5355, Lon: 77.3910}
	gurgaon := Point{Lat: 28.4595, Lon: 77.0266}
	items := []place{
		{name: "mumbai", pos: &mumbai},
		{name: "gurgaon", pos: &gurgaon},
		{name: "nowhere"},
		{name: "noida", pos: &noida},
		{name: "delhi", pos: &newDelhi},
	}

	got := WithinRadius(items, newDelhi, 50, locatePlace)
	if len(got) != 3 {
		t.Fatalf("expected 3 places within 50 km, got %d", len(got))
	}
	wantOrder := []string{"delhi", "noida", "gurgaon"}
	for i, w := range wantOrder {
		if got[i].Item.name != w {
			t.Errorf("position %d: expected %s, got %s", i, w, got[i].Item.name)
		}
	}
	for i := 1; i < len(got); i++ {
		if got[i-1].DistanceKm > got[i].DistanceKm {
			t.Errorf("results not sorted at %d", i)
		}
	}
}

func TestWithinRadius_Empty(t *testing.T) {
	got := WithinRadius[place](nil, newDelhi, 10, locatePlace)
	if len(got) != 0 {
		t.Fatalf("expected no results, got %d", len(got))
	}
}

func inBox(p Point, minLat, minLon, maxLat, maxLon float64) bool {
	return p.Lat >= minLat && p.Lat <= maxLat && p.Lon >= minLon && p.Lon <= maxLon
}

// destination walks distKm from origin along bearing (degrees from north).
func destination(origin Point, bearing, distKm float64) Point {
	ang := distKm / earthRadiusKm
	lat1, lon1, brg := toRad(origin.Lat), toRad(origin.Lon), toRad(bearing)
	lat2 := math.Asin(math.Sin(lat1)*math.Cos(ang) + math.Cos(lat1)*math.Sin(ang)*math.Cos(brg))
	lon2 := lon1 + math.Atan2(math.Sin(brg)*math.Sin(ang)*math.Cos(lat1), math.Cos(ang)-math.Sin(lat1)*math.Sin(lat2))
	return Point{Lat: lat2 * 180 / math.Pi, Lon: lon2 * 180 / math.Pi}
}

func TestBoundingBox_KeepsNorthEdge(t *testing.T) {
	minLat, minLon, maxLat, maxLon := BoundingBox(newDelhi.Lat, newDelhi.Lon, 50)
	edge := Point{Lat: 29.0634, Lon: newDelhi.Lon}

	if d := DistanceKm(newDelhi, edge); d > 50 {
		t.Fatalf("fixture point is %f km away, want inside 50 km", d)
	}
	if !inBox(edge, minLat, minLon, maxLat, maxLon) {
		t.Fatalf("point at lat %f inside the radius but outside box maxLat %f", edge.Lat, maxLat)
	}
}

func TestBoundingBox_ContainsWholeCircle(t *testing.T) {
	origins := []Point{newDelhi, mumbai, {0, 0}, {-33.8688, 151.2093}, {64.1466, -21.9426}, {78.2232, 15.6267}}
	for _, o := range origins {
		for _, radius := range []float64{1, 10, 50, 500} {
			minLat, minLon, maxLat, maxLon := BoundingBox(o.Lat, o.Lon, radius)
			for brg := 0.0; brg < 360; brg += 5 {
				p := destination(o, brg, radius*0.9999)
				if !inBox(p, minLat, minLon, maxLat, maxLon) {
					t.Errorf("origin %v radius %.0f bearing %.0f: %v outside box", o, radius, brg, p)
				}
			}
		}
	}
}

func TestBoundingBox_Tight(t *testing.T) {
	_, _, maxLat, _ := BoundingBox(newDelhi.Lat, newDelhi.Lon, 10)
	d := HaversineKm(newDelhi.Lat, newDelhi.Lon, maxLat, newDelhi.Lon)
	if d < 10 || d > 10.2 {
		t.Errorf("expected box edge just beyond 10 km, got %f", d)
	}
}

func TestBoundingBox_PoleSpansAllLongitudes(t *testing.T) {
	_, minLon, maxLat, maxLon := BoundingBox(89.9, 10, 50)
	if minLon != -180 || maxLon != 180 || maxLat != 90 {
		t.Fatalf("expected full longitude span capped at the pole, got lon %f..%f maxLat %f", minLon, maxLon, maxLat)
	}
}
