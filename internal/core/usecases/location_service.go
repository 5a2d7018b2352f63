package usecases

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/nyayasahayak/legallibrary/internal/core/domain"
	"github.com/nyayasahayak/legallibrary/internal/core/ports"
	"github.com/nyayasahayak/legallibrary/internal/pkg/geospatial"
)

// DefaultStationRadiusKm applies when a nearby search gives no radius.
const DefaultStationRadiusKm = 10

// MaxStationRadiusKm bounds the Overpass query size.
const MaxStationRadiusKm = 50

// LocationService serves the state/district/station catalogue and live
// police station lookups.
type LocationService struct {
	repo     ports.LocationRepository
	geocoder ports.Geocoder
	places   ports.PlaceFinder
	cache    ports.CacheService
}

// NewLocationService creates a new LocationService. geocoder and places
// may be nil when OSM lookups are disabled.
func NewLocationService(repo ports.LocationRepository, geocoder ports.Geocoder, places ports.PlaceFinder, cache ports.CacheService) *LocationService {
	return &LocationService{repo: repo, geocoder: geocoder, places: places, cache: cache}
}

// ListStates returns all states and union territories.
func (s *LocationService) ListStates(ctx context.Context) ([]domain.State, error) {
	var states []domain.State
	if s.cached(ctx, "locations:states", &states) {
		return states, nil
	}
	states, err := s.repo.ListStates(ctx)
	if err != nil {
		return nil, fmt.Errorf("list states: %w", err)
	}
	s.store(ctx, "locations:states", states)
	return states, nil
}

// ListDistricts returns the districts of a state.
func (s *LocationService) ListDistricts(ctx context.Context, stateCode string) ([]domain.District, error) {
	stateCode = strings.ToUpper(strings.TrimSpace(stateCode))
	if stateCode == "" {
		return nil, fmt.Errorf("%w: state code is required", domain.ErrInvalidInput)
	}
	key := "locations:districts:" + stateCode
	var districts []domain.District
	if s.cached(ctx, key, &districts) {
		return districts, nil
	}
	districts, err := s.repo.ListDistricts(ctx, stateCode)
	if err != nil {
		return nil, fmt.Errorf("list districts: %w", err)
	}
	s.store(ctx, key, districts)
	return districts, nil
}

// ListStations returns the catalogue stations of a district.
func (s *LocationService) ListStations(ctx context.Context, districtCode string) ([]domain.PoliceStation, error) {
	districtCode = strings.ToUpper(strings.TrimSpace(districtCode))
	if districtCode == "" {
		return nil, fmt.Errorf("%w: district code is required", domain.ErrInvalidInput)
	}
	return s.repo.ListStations(ctx, districtCode)
}

// NearbyQuery locates police stations around a point or an address.
type NearbyQuery struct {
	Near     *domain.GeoPoint
	Address  string
	RadiusKm float64
}

// NearbyStations returns live OSM police stations within the radius,
// nearest first. An address is geocoded when no point is given.
func (s *LocationService) NearbyStations(ctx context.Context, q NearbyQuery) ([]domain.PoliceStation, error) {
	if s.places == nil {
		return nil, fmt.Errorf("%w: police station lookup not configured", domain.ErrUnavailable)
	}
	if q.RadiusKm <= 0 {
		q.RadiusKm = DefaultStationRadiusKm
	}
	if q.RadiusKm > MaxStationRadiusKm {
		return nil, fmt.Errorf("%w: radius must not exceed %d km", domain.ErrInvalidInput, MaxStationRadiusKm)
	}

	origin, err := s.resolve(ctx, q)
	if err != nil {
		return nil, err
	}

	found, err := s.places.PoliceStationsAround(ctx, *origin, q.RadiusKm)
	if err != nil {
		return nil, err
	}

	ranked := geospatial.WithinRadius(found, *origin, q.RadiusKm, func(p domain.PoliceStation) (geospatial.Point, bool) {
		if p.Location == nil {
			return geospatial.Point{}, false
		}
		return *p.Location, true
	})
	out := make([]domain.PoliceStation, 0, len(ranked))
	for _, r := range ranked {
		st := r.Item
		d := r.DistanceKm
		st.DistanceKm = &d
		out = append(out, st)
	}
	return out, nil
}

func (s *LocationService) resolve(ctx context.Context, q NearbyQuery) (*domain.GeoPoint, error) {
	if q.Near != nil {
		if q.Near.Lat < -90 || q.Near.Lat > 90 || q.Near.Lon < -180 || q.Near.Lon > 180 {
			return nil, fmt.Errorf("%w: coordinates out of range", domain.ErrInvalidInput)
		}
		return q.Near, nil
	}
	addr := strings.TrimSpace(q.Address)
	if addr == "" {
		return nil, fmt.Errorf("%w: lat/lng or address is required", domain.ErrInvalidInput)
	}
	if s.geocoder == nil {
		return nil, fmt.Errorf("%w: geocoding not configured", domain.ErrUnavailable)
	}
	return s.geocoder.Geocode(ctx, addr)
}

// AssignStation picks a station for an FIR: the nearest OSM station to the
// incident location when it can be geocoded, otherwise the main catalogue
// station of the FIR's district.
func (s *LocationService) AssignStation(ctx context.Context, fir *domain.FIR) (*domain.PoliceStation, error) {
	if fir.IncidentLocation != "" && s.geocoder != nil && s.places != nil {
		query := fir.IncidentLocation
		if d, err := s.repo.GetDistrict(ctx, fir.DistrictCode); err == nil {
			query = fmt.Sprintf("%s, %s, %s, India", fir.IncidentLocation, d.Name, d.StateName)
		}
		near, err := s.NearbyStations(ctx, NearbyQuery{Address: query, RadiusKm: DefaultStationRadiusKm})
		if err == nil && len(near) > 0 {
			st := near[0]
			st.DistrictCode = fir.DistrictCode
			st.StateCode = fir.StateCode
			return &st, nil
		}
	}

	stations, err := s.repo.ListStations(ctx, fir.DistrictCode)
	if err != nil {
		return nil, fmt.Errorf("list stations: %w", err)
	}
	if len(stations) == 0 {
		return nil, fmt.Errorf("%w: no police station for district %s", domain.ErrNotFound, fir.DistrictCode)
	}
	return &stations[0], nil
}

// SeedReport summarizes a catalogue seeding run.
type SeedReport struct {
	States    int `json:"states"`
	Districts int `json:"districts"`
	Stations  int `json:"stations"`
}

// Seed downloads the state/district listing, replaces the catalogue,
// generates stations for every district and returns the stored counts.
func (s *LocationService) Seed(ctx context.Context, src ports.CatalogueSource) (*SeedReport, error) {
	listing, err := src.StatesAndDistricts(ctx)
	if err != nil {
		return nil, fmt.Errorf("download catalogue: %w", err)
	}
	states, districts := BuildCatalogue(listing)
	if len(states) == 0 {
		return nil, fmt.Errorf("%w: catalogue has no states", domain.ErrInvalidInput)
	}
	if err := s.repo.ReplaceCatalogue(ctx, states, districts); err != nil {
		return nil, fmt.Errorf("replace catalogue: %w", err)
	}

	var stations []domain.PoliceStation
	for _, d := range districts {
		stations = append(stations, GenerateStations(d)...)
	}
	if err := s.repo.ReplaceStations(ctx, stations); err != nil {
		return nil, fmt.Errorf("replace stations: %w", err)
	}

	if s.cache != nil {
		_ = s.cache.Delete(ctx, "locations:states")
	}

	st, di, ps, err := s.repo.Counts(ctx)
	if err != nil {
		return nil, fmt.Errorf("verify counts: %w", err)
	}
	return &SeedReport{States: st, Districts: di, Stations: ps}, nil
}

func (s *LocationService) cached(ctx context.Context, key string, dst any) bool {
	if s.cache == nil {
		return false
	}
	data, err := s.cache.Get(ctx, key)
	if err != nil {
		return false
	}
	return json.Unmarshal(data, dst) == nil
}

// The catalogue changes only when seeded; one hour is plenty.
func (s *LocationService) store(ctx context.Context, key string, v any) {
	if s.cache == nil {
		return
	}
	if data, err := json.Marshal(v); err == nil {
		_ = s.cache.Set(ctx, key, data, 3600)
	}
}
