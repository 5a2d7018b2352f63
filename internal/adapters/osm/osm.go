// Package osm resolves places through OpenStreetMap services and downloads
// the state/district catalogue.
package osm

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/nyayasahayak/legallibrary/internal/core/domain"
	"github.com/nyayasahayak/legallibrary/internal/pkg/httpclient"
)

// Config holds the service endpoints. Nominatim's usage policy requires an
// identifying User-Agent.
type Config struct {
	NominatimURL string
	OverpassURL  string
	CatalogueURL string
	UserAgent    string
	Timeout      time.Duration
}

func newClient(cfg Config) *httpclient.Client {
	c := httpclient.New(cfg.Timeout, map[string]string{"User-Agent": cfg.UserAgent})
	c.MaxRetries = 3
	return c
}

// Nominatim implements ports.Geocoder.
type Nominatim struct {
	baseURL string
	http    *httpclient.Client
}

func NewNominatim(cfg Config) *Nominatim {
	return &Nominatim{baseURL: strings.TrimRight(cfg.NominatimURL, "/"), http: newClient(cfg)}
}

type nominatimResult struct {
	Lat         string `json:"lat"`
	Lon         string `json:"lon"`
	DisplayName string `json:"display_name"`
}

// Geocode returns the best match within India.
func (n *Nominatim) Geocode(ctx context.Context, query string) (*domain.GeoPoint, error) {
	params := url.Values{}
	params.Set("q", query)
	params.Set("format", "json")
	params.Set("limit", "1")
	params.Set("countrycodes", "in")
	endpoint := n.baseURL + "/search?" + params.Encode()

	var results []nominatimResult
	err := n.http.DecodeJSON(ctx, func() (*http.Request, error) {
		return n.http.NewRequest(ctx, http.MethodGet, endpoint, nil)
	}, &results)
	if err != nil {
		return nil, upstream("geocode", err)
	}
	if len(results) == 0 {
		return nil, fmt.Errorf("geocode %q: %w", query, domain.ErrNotFound)
	}

	lat, err1 := strconv.ParseFloat(results[0].Lat, 64)
	lon, err2 := strconv.ParseFloat(results[0].Lon, 64)
	if err1 != nil || err2 != nil {
		return nil, fmt.Errorf("geocode %q: %w: bad coordinates", query, domain.ErrUpstream)
	}
	return &domain.GeoPoint{Lat: lat, Lon: lon}, nil
}

// Overpass implements ports.PlaceFinder.
type Overpass struct {
	endpoint string
	http     *httpclient.Client
}

func NewOverpass(cfg Config) *Overpass {
	return &Overpass{endpoint: cfg.OverpassURL, http: newClient(cfg)}
}

type overpassResponse struct {
	Elements []overpassElement `json:"elements"`
}

type overpassElement struct {
	Type   string  `json:"type"`
	ID     int64   `json:"id"`
	Lat    float64 `json:"lat"`
	Lon    float64 `json:"lon"`
	Center *struct {
		Lat float64 `json:"lat"`
		Lon float64 `json:"lon"`
	} `json:"center"`
	Tags map[string]string `json:"tags"`
}

// PoliceQuery builds the Overpass QL query for amenity=police around a point.
func PoliceQuery(origin domain.GeoPoint, radiusKm float64) string {
	around := fmt.Sprintf("(around:%d,%f,%f)", int(radiusKm*1000), origin.Lat, origin.Lon)
	return `[out:json][timeout:25];(` +
		`node["amenity"="police"]` + around + `;` +
		`way["amenity"="police"]` + around + `;` +
		`);out center tags;`
}

// PoliceStationsAround returns the police stations OSM knows around origin.
// Distances are not computed here.
func (o *Overpass) PoliceStationsAround(ctx context.Context, origin domain.GeoPoint, radiusKm float64) ([]domain.PoliceStation, error) {
	form := url.Values{}
	form.Set("data", PoliceQuery(origin, radiusKm))

	var out overpassResponse
	err := o.http.DecodeJSON(ctx, func() (*http.Request, error) {
		return o.http.NewFormRequest(ctx, o.endpoint, form)
	}, &out)
	if err != nil {
		return nil, upstream("overpass", err)
	}

	stations := make([]domain.PoliceStation, 0, len(out.Elements))
	for _, el := range out.Elements {
		if st, ok := el.station(); ok {
			stations = append(stations, st)
		}
	}
	return stations, nil
}

func (el overpassElement) station() (domain.PoliceStation, bool) {
	loc := domain.GeoPoint{Lat: el.Lat, Lon: el.Lon}
	if el.Center != nil {
		loc = domain.GeoPoint{Lat: el.Center.Lat, Lon: el.Center.Lon}
	}
	if loc.Lat == 0 && loc.Lon == 0 {
		return domain.PoliceStation{}, false
	}

	name := el.Tags["name"]
	if name == "" {
		name = el.Tags["name:en"]
	}
	if name == "" {
		name = "Police Station"
	}

	stationType := "regular"
	if t := el.Tags["police"]; t != "" {
		stationType = t
	}

	return domain.PoliceStation{
		Code:     fmt.Sprintf("OSM_%s_%d", strings.ToUpper(el.Type), el.ID),
		Name:     name,
		Type:     stationType,
		Address:  address(el.Tags),
		Phone:    firstNonEmpty(el.Tags["phone"], el.Tags["contact:phone"]),
		Location: &loc,
		Source:   "osm",
	}, true
}

func address(tags map[string]string) string {
	if full := tags["addr:full"]; full != "" {
		return full
	}
	var parts []string
	for _, k := range []string{"addr:housenumber", "addr:street", "addr:suburb", "addr:city", "addr:postcode"} {
		if v := tags[k]; v != "" {
			parts = append(parts, v)
		}
	}
	return strings.Join(parts, ", ")
}

func firstNonEmpty(vals ...string) string {
	for _, v := range vals {
		if v != "" {
			return v
		}
	}
	return ""
}

func upstream(op string, err error) error {
	if httpclient.IsTimeout(err) {
		return fmt.Errorf("%s: %w", op, domain.ErrUpstreamTimed)
	}
	return fmt.Errorf("%s: %w: %v", op, domain.ErrUpstream, err)
}
