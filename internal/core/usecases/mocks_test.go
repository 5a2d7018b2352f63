package usecases_test

import (
	"context"
	"errors"
	"sort"
	"sync"
	"time"

	"github.com/nyayasahayak/legallibrary/internal/core/domain"
)

// --- Mock CacheService ---

type memCache struct {
	mu   sync.Mutex
	data map[string][]byte
	sets int
}

func newMemCache() *memCache { return &memCache{data: map[string][]byte{}} }

func (c *memCache) Get(ctx context.Context, key string) ([]byte, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if v, ok := c.data[key]; ok {
		return v, nil
	}
	return nil, errors.New("miss")
}

func (c *memCache) Set(ctx context.Context, key string, value []byte, ttlSeconds int) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.data[key] = value
	c.sets++
	return nil
}

func (c *memCache) Delete(ctx context.Context, key string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.data, key)
	return nil
}

// --- Mock LawyerRepository ---

type mockLawyerRepo struct {
	searchFn      func(ctx context.Context, f domain.LawyerFilter) ([]domain.Lawyer, error)
	upsertBatchFn func(ctx context.Context, lawyers []domain.Lawyer) error
}

func (m *mockLawyerRepo) Search(ctx context.Context, f domain.LawyerFilter) ([]domain.Lawyer, error) {
	if m.searchFn != nil {
		return m.searchFn(ctx, f)
	}
	return nil, nil
}

func (m *mockLawyerRepo) UpsertBatch(ctx context.Context, lawyers []domain.Lawyer) error {
	if m.upsertBatchFn != nil {
		return m.upsertBatchFn(ctx, lawyers)
	}
	return nil
}

// --- Mock ActRepository ---

type mockActRepo struct {
	listFn        func(ctx context.Context) ([]domain.Act, error)
	findFn        func(ctx context.Context, idOrName string) (*domain.Act, error)
	upsertBatchFn func(ctx context.Context, acts []domain.Act) error
}

func (m *mockActRepo) List(ctx context.Context) ([]domain.Act, error) {
	if m.listFn != nil {
		return m.listFn(ctx)
	}
	return nil, nil
}

func (m *mockActRepo) Find(ctx context.Context, idOrName string) (*domain.Act, error) {
	if m.findFn != nil {
		return m.findFn(ctx, idOrName)
	}
	return nil, domain.ErrNotFound
}

func (m *mockActRepo) UpsertBatch(ctx context.Context, acts []domain.Act) error {
	if m.upsertBatchFn != nil {
		return m.upsertBatchFn(ctx, acts)
	}
	return nil
}

type mockArticleRepo struct{ articles []domain.Article }

func (m *mockArticleRepo) List(ctx context.Context) ([]domain.Article, error) { return m.articles, nil }
func (m *mockArticleRepo) UpsertBatch(ctx context.Context, a []domain.Article) error {
	m.articles = append(m.articles, a...)
	return nil
}

type mockCaseRepo struct{ cases []domain.Case }

func (m *mockCaseRepo) List(ctx context.Context) ([]domain.Case, error) { return m.cases, nil }
func (m *mockCaseRepo) UpsertBatch(ctx context.Context, c []domain.Case) error {
	m.cases = append(m.cases, c...)
	return nil
}

// --- Mock LocationRepository ---

type mockLocationRepo struct {
	states    []domain.State
	districts []domain.District
	stations  []domain.PoliceStation

	listStatesCalls int
}

func (m *mockLocationRepo) ListStates(ctx context.Context) ([]domain.State, error) {
	m.listStatesCalls++
	return m.states, nil
}

func (m *mockLocationRepo) ListDistricts(ctx context.Context, stateCode string) ([]domain.District, error) {
	var out []domain.District
	for _, d := range m.districts {
		if d.StateCode == stateCode {
			out = append(out, d)
		}
	}
	return out, nil
}

func (m *mockLocationRepo) GetDistrict(ctx context.Context, code string) (*domain.District, error) {
	for _, d := range m.districts {
		if d.Code == code {
			return &d, nil
		}
	}
	return nil, domain.ErrNotFound
}

func (m *mockLocationRepo) ListStations(ctx context.Context, districtCode string) ([]domain.PoliceStation, error) {
	var out []domain.PoliceStation
	for _, s := range m.stations {
		if s.DistrictCode == districtCode {
			out = append(out, s)
		}
	}
	return out, nil
}

func (m *mockLocationRepo) ReplaceCatalogue(ctx context.Context, states []domain.State, districts []domain.District) error {
	m.states, m.districts = states, districts
	return nil
}

func (m *mockLocationRepo) ReplaceStations(ctx context.Context, stations []domain.PoliceStation) error {
	m.stations = stations
	return nil
}

func (m *mockLocationRepo) Counts(ctx context.Context) (int, int, int, error) {
	return len(m.states), len(m.districts), len(m.stations), nil
}

// --- Mock outbound ports ---

type mockGeocoder struct {
	geocodeFn func(ctx context.Context, q string) (*domain.GeoPoint, error)
}

func (m *mockGeocoder) Geocode(ctx context.Context, q string) (*domain.GeoPoint, error) {
	return m.geocodeFn(ctx, q)
}

type mockPlaces struct {
	aroundFn func(ctx context.Context, origin domain.GeoPoint, radiusKm float64) ([]domain.PoliceStation, error)
}

func (m *mockPlaces) PoliceStationsAround(ctx context.Context, origin domain.GeoPoint, radiusKm float64) ([]domain.PoliceStation, error) {
	return m.aroundFn(ctx, origin, radiusKm)
}

type mockCatalogue struct{ listing map[string][]string }

func (m *mockCatalogue) StatesAndDistricts(ctx context.Context) (map[string][]string, error) {
	return m.listing, nil
}

type mockCompleter struct {
	completeFn func(ctx context.Context, system, user string) (string, error)
}

func (m *mockCompleter) Complete(ctx context.Context, system, user string) (string, error) {
	return m.completeFn(ctx, system, user)
}

type mockIdentity struct {
	signUpFn func(ctx context.Context, email, password, name string) (string, error)
	signInFn func(ctx context.Context, email, password string) (*domain.Session, error)
	verifyFn func(ctx context.Context, token string) (*domain.TokenInfo, error)
}

func (m *mockIdentity) SignUp(ctx context.Context, email, password, name string) (string, error) {
	return m.signUpFn(ctx, email, password, name)
}

func (m *mockIdentity) SignIn(ctx context.Context, email, password string) (*domain.Session, error) {
	return m.signInFn(ctx, email, password)
}

func (m *mockIdentity) VerifyIDToken(ctx context.Context, token string) (*domain.TokenInfo, error) {
	return m.verifyFn(ctx, token)
}

type mockUserRepo struct{ users map[string]domain.User }

func (m *mockUserRepo) Upsert(ctx context.Context, u *domain.User) error {
	if m.users == nil {
		m.users = map[string]domain.User{}
	}
	m.users[u.UID] = *u
	return nil
}

func (m *mockUserRepo) GetByUID(ctx context.Context, uid string) (*domain.User, error) {
	u, ok := m.users[uid]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return &u, nil
}

// --- In-memory FIRRepository ---

type memFIRRepo struct {
	mu   sync.Mutex
	firs map[string]*domain.FIR
}

func newMemFIRRepo() *memFIRRepo { return &memFIRRepo{firs: map[string]*domain.FIR{}} }

func (m *memFIRRepo) Create(ctx context.Context, fir *domain.FIR) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	cp := *fir
	m.firs[fir.ID] = &cp
	return nil
}

func (m *memFIRRepo) GetByID(ctx context.Context, id string) (*domain.FIR, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	f, ok := m.firs[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	cp := *f
	cp.History = append([]domain.FIRStatusChange(nil), f.History...)
	return &cp, nil
}

func (m *memFIRRepo) ListByEmail(ctx context.Context, email string) ([]domain.FIR, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []domain.FIR
	for _, f := range m.firs {
		if f.Email == email {
			out = append(out, *f)
		}
	}
	return out, nil
}

func (m *memFIRRepo) AppendStatus(ctx context.Context, id string, change domain.FIRStatusChange) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	f, ok := m.firs[id]
	if !ok {
		return domain.ErrNotFound
	}
	f.Status = change.To
	f.UpdatedAt = change.At
	f.History = append(f.History, change)
	return nil
}

func (m *memFIRRepo) ListByStatus(ctx context.Context, status domain.FIRStatus, updatedBefore time.Time, limit int) ([]domain.FIR, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []domain.FIR
	for _, f := range m.firs {
		if f.Status == status && f.UpdatedAt.Before(updatedBefore) {
			out = append(out, *f)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].UpdatedAt.Before(out[j].UpdatedAt) })
	if len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (m *memFIRRepo) AssignStation(ctx context.Context, id, code string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	f, ok := m.firs[id]
	if !ok {
		return domain.ErrNotFound
	}
	f.StationCode = code
	return nil
}

// --- Recording EventPublisher ---

type recordingPublisher struct {
	filed    []string
	statuses []domain.FIRStatusChange
	err      error
}

func (p *recordingPublisher) PublishFIRFiled(ctx context.Context, fir *domain.FIR) error {
	if p.err != nil {
		return p.err
	}
	p.filed = append(p.filed, fir.ID)
	return nil
}

func (p *recordingPublisher) PublishFIRStatus(ctx context.Context, id string, change domain.FIRStatusChange) error {
	if p.err != nil {
		return p.err
	}
	p.statuses = append(p.statuses, change)
	return nil
}
