package workflows

import (
	"context"
	"errors"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	enumspb "go.temporal.io/api/enums/v1"
	"go.temporal.io/api/serviceerror"
	"go.temporal.io/sdk/activity"
	"go.temporal.io/sdk/client"
	"go.temporal.io/sdk/testsuite"

	"github.com/nyayasahayak/legallibrary/internal/core/domain"
	"github.com/nyayasahayak/legallibrary/internal/core/usecases"
)

func registerActivityName[T any](env *testsuite.TestWorkflowEnvironment, name string, fn T) {
	env.RegisterActivityWithOptions(fn, activity.RegisterOptions{Name: name})
}

func newIntakeEnv(t *testing.T) *testsuite.TestWorkflowEnvironment {
	t.Helper()
	var ts testsuite.WorkflowTestSuite
	env := ts.NewTestWorkflowEnvironment()
	env.RegisterWorkflow(FIRIntakeWorkflow)
	registerActivityName(env, "AssignStation", func(context.Context, string) (AssignedStation, error) {
		return AssignedStation{}, nil
	})
	registerActivityName(env, "Acknowledge", func(context.Context, string, string) error { return nil })
	registerActivityName(env, "SendAcknowledgement", func(context.Context, string, string) error { return nil })
	registerActivityName(env, "RevertAcknowledgement", func(context.Context, string, string) error { return nil })
	return env
}

func TestFIRIntakeWorkflow_Success(t *testing.T) {
	env := newIntakeEnv(t)
	station := AssignedStation{Code: "DL-NEW-DELHI-PS01", Name: "New Delhi Police Station 1"}

	env.OnActivity("AssignStation", mock.Anything, "DL2026AB12CD").Return(station, nil).Once()
	env.OnActivity("Acknowledge", mock.Anything, "DL2026AB12CD", station.Name).Return(nil).Once()
	env.OnActivity("SendAcknowledgement", mock.Anything, "DL2026AB12CD", station.Name).Return(nil).Once()

	env.ExecuteWorkflow(FIRIntakeWorkflow, IntakeInput{FIRID: "DL2026AB12CD"})
	require.True(t, env.IsWorkflowCompleted())
	require.NoError(t, env.GetWorkflowError())

	var out IntakeResult
	require.NoError(t, env.GetWorkflowResult(&out))
	assert.Equal(t, "DL-NEW-DELHI-PS01", out.StationCode)
	assert.Equal(t, "DL2026AB12CD", out.FIRID)
	env.AssertExpectations(t)
}

func TestFIRIntakeWorkflow_EmailFailureCompensates(t *testing.T) {
	env := newIntakeEnv(t)
	station := AssignedStation{Code: "DL-NEW-DELHI-PS01", Name: "PS 1"}

	env.OnActivity("AssignStation", mock.Anything, mock.Anything).Return(station, nil)
	env.OnActivity("Acknowledge", mock.Anything, mock.Anything, mock.Anything).Return(nil)
	env.OnActivity("SendAcknowledgement", mock.Anything, mock.Anything, mock.Anything).Return(errors.New("smtp: connection refused"))
	env.OnActivity("RevertAcknowledgement", mock.Anything, "DL2026AB12CD", mock.Anything).Return(nil).Once()

	env.ExecuteWorkflow(FIRIntakeWorkflow, IntakeInput{FIRID: "DL2026AB12CD"})
	require.True(t, env.IsWorkflowCompleted())
	require.Error(t, env.GetWorkflowError())
	assert.Contains(t, env.GetWorkflowError().Error(), "connection refused")
	env.AssertExpectations(t)
}

func TestFIRIntakeWorkflow_StationFailureStopsEarly(t *testing.T) {
	var ts testsuite.WorkflowTestSuite
	env := ts.NewTestWorkflowEnvironment()
	env.RegisterWorkflow(FIRIntakeWorkflow)
	var later int
	registerActivityName(env, "AssignStation", func(context.Context, string) (AssignedStation, error) {
		return AssignedStation{}, errors.New("no police station for district")
	})
	registerActivityName(env, "Acknowledge", func(context.Context, string, string) error { later++; return nil })
	registerActivityName(env, "SendAcknowledgement", func(context.Context, string, string) error { later++; return nil })

	env.ExecuteWorkflow(FIRIntakeWorkflow, IntakeInput{FIRID: "DL2026AB12CD"})
	require.True(t, env.IsWorkflowCompleted())
	require.Error(t, env.GetWorkflowError())
	assert.Zero(t, later)
}

func TestFIRIntakeWorkflow_RequiresID(t *testing.T) {
	env := newIntakeEnv(t)
	env.ExecuteWorkflow(FIRIntakeWorkflow, IntakeInput{})
	require.True(t, env.IsWorkflowCompleted())
	require.Error(t, env.GetWorkflowError())
}

func TestIntakeWorkflowID(t *testing.T) {
	assert.Equal(t, "fir-intake-KA2026FFEE0011", IntakeWorkflowID("KA2026FFEE0011"))
}

func TestAcknowledgementEmail(t *testing.T) {
	fir := &domain.FIR{
		ID:               "KA2026FFEE0011",
		ComplainantName:  "Asha Rao",
		IncidentType:     "Theft",
		IncidentDate:     time.Date(2026, 3, 4, 0, 0, 0, 0, time.UTC),
		IncidentLocation: "MG Road",
	}
	subject, body := AcknowledgementEmail(fir, "Bengaluru Police Station 1")

	assert.Equal(t, "FIR KA2026FFEE0011 received", subject)
	assert.True(t, strings.HasPrefix(body, "Dear Asha Rao,"))
	assert.Contains(t, body, "reference number KA2026FFEE0011")
	assert.Contains(t, body, "Incident date: 04 Mar 2026")
	assert.Contains(t, body, "Location: MG Road")
	assert.Contains(t, body, "Police station: Bengaluru Police Station 1")

	_, body = AcknowledgementEmail(&domain.FIR{ID: "X", ComplainantName: "A"}, "")
	assert.NotContains(t, body, "Police station:")
	assert.NotContains(t, body, "Location:")
}

// --- activities against the real services ---

type memFIRRepo struct {
	mu   sync.Mutex
	firs map[string]*domain.FIR
}

func newMemFIRRepo(firs ...domain.FIR) *memFIRRepo {
	r := &memFIRRepo{firs: map[string]*domain.FIR{}}
	for i := range firs {
		f := firs[i]
		r.firs[f.ID] = &f
	}
	return r
}

func (r *memFIRRepo) Create(ctx context.Context, fir *domain.FIR) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	cp := *fir
	r.firs[fir.ID] = &cp
	return nil
}

func (r *memFIRRepo) GetByID(ctx context.Context, id string) (*domain.FIR, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	f, ok := r.firs[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	cp := *f
	cp.History = append([]domain.FIRStatusChange(nil), f.History...)
	return &cp, nil
}

func (r *memFIRRepo) ListByEmail(ctx context.Context, email string) ([]domain.FIR, error) {
	return nil, nil
}

func (r *memFIRRepo) ListByStatus(ctx context.Context, status domain.FIRStatus, updatedBefore time.Time, limit int) ([]domain.FIR, error) {
	return nil, nil
}

func (r *memFIRRepo) AppendStatus(ctx context.Context, id string, change domain.FIRStatusChange) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	f, ok := r.firs[id]
	if !ok {
		return domain.ErrNotFound
	}
	f.Status = change.To
	f.History = append(f.History, change)
	return nil
}

func (r *memFIRRepo) AssignStation(ctx context.Context, id, stationCode string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	f, ok := r.firs[id]
	if !ok {
		return domain.ErrNotFound
	}
	f.StationCode = stationCode
	return nil
}

type stubLocationRepo struct {
	stations map[string][]domain.PoliceStation
}

func (s *stubLocationRepo) ListStates(ctx context.Context) ([]domain.State, error) { return nil, nil }
func (s *stubLocationRepo) ListDistricts(ctx context.Context, stateCode string) ([]domain.District, error) {
	return nil, nil
}
func (s *stubLocationRepo) GetDistrict(ctx context.Context, code string) (*domain.District, error) {
	return nil, domain.ErrNotFound
}
func (s *stubLocationRepo) ListStations(ctx context.Context, districtCode string) ([]domain.PoliceStation, error) {
	return s.stations[districtCode], nil
}
func (s *stubLocationRepo) ReplaceCatalogue(ctx context.Context, states []domain.State, districts []domain.District) error {
	return nil
}
func (s *stubLocationRepo) ReplaceStations(ctx context.Context, stations []domain.PoliceStation) error {
	return nil
}
func (s *stubLocationRepo) Counts(ctx context.Context) (int, int, int, error) { return 0, 0, 0, nil }

type mockNotifier struct {
	sendFn func(ctx context.Context, to, subject, body string) error
}

func (m *mockNotifier) SendEmail(ctx context.Context, to, subject, body string) error {
	if m.sendFn != nil {
		return m.sendFn(ctx, to, subject, body)
	}
	return nil
}

func newActivities(repo *memFIRRepo, notifier *mockNotifier) *IntakeActivities {
	locations := &stubLocationRepo{stations: map[string][]domain.PoliceStation{
		"DL-NEW-DELHI": {{Code: "DL-NEW-DELHI-PS01", Name: "New Delhi Police Station 1", DistrictCode: "DL-NEW-DELHI"}},
	}}
	return &IntakeActivities{
		FIRs:      usecases.NewFIRService(repo, nil, nil),
		Locations: usecases.NewLocationService(locations, nil, nil, nil),
		Notifier:  notifier,
	}
}

func submittedFIR() domain.FIR {
	return domain.FIR{
		ID:              "DL2026AB12CD",
		ComplainantName: "Ravi Kumar",
		Email:           "ravi@example.com",
		StateCode:       "DL",
		DistrictCode:    "DL-NEW-DELHI",
		IncidentType:    "Theft",
		Status:          domain.FIRSubmitted,
	}
}

func TestIntakeActivities_FullRun(t *testing.T) {
	ctx := context.Background()
	repo := newMemFIRRepo(submittedFIR())
	var sentTo, sentSubject string
	acts := newActivities(repo, &mockNotifier{sendFn: func(_ context.Context, to, subject, _ string) error {
		sentTo, sentSubject = to, subject
		return nil
	}})

	st, err := acts.AssignStation(ctx, "DL2026AB12CD")
	require.NoError(t, err)
	assert.Equal(t, "DL-NEW-DELHI-PS01", st.Code)

	require.NoError(t, acts.Acknowledge(ctx, "DL2026AB12CD", st.Name))
	// a retried acknowledgement is a no-op
	require.NoError(t, acts.Acknowledge(ctx, "DL2026AB12CD", st.Name))

	require.NoError(t, acts.SendAcknowledgement(ctx, "DL2026AB12CD", st.Name))
	assert.Equal(t, "ravi@example.com", sentTo)
	assert.Equal(t, "FIR DL2026AB12CD received", sentSubject)

	fir, err := repo.GetByID(ctx, "DL2026AB12CD")
	require.NoError(t, err)
	assert.Equal(t, domain.FIRAcknowledged, fir.Status)
	assert.Equal(t, "DL-NEW-DELHI-PS01", fir.StationCode)
	require.Len(t, fir.History, 1)
	assert.Equal(t, "Received by New Delhi Police Station 1", fir.History[0].Note)
}

func TestIntakeActivities_KeepsChosenStation(t *testing.T) {
	f := submittedFIR()
	f.StationCode = "DL-NEW-DELHI-PS03"
	acts := newActivities(newMemFIRRepo(f), &mockNotifier{})

	st, err := acts.AssignStation(context.Background(), f.ID)
	require.NoError(t, err)
	assert.Equal(t, "DL-NEW-DELHI-PS03", st.Code)
}

func TestIntakeActivities_RevertAcknowledgement(t *testing.T) {
	ctx := context.Background()
	repo := newMemFIRRepo(submittedFIR())
	acts := newActivities(repo, &mockNotifier{})

	require.NoError(t, acts.Acknowledge(ctx, "DL2026AB12CD", ""))
	require.NoError(t, acts.RevertAcknowledgement(ctx, "DL2026AB12CD", "email failed"))

	fir, err := repo.GetByID(ctx, "DL2026AB12CD")
	require.NoError(t, err)
	assert.Equal(t, domain.FIRSubmitted, fir.Status)
	require.Len(t, fir.History, 2)
	assert.Equal(t, "email failed", fir.History[1].Note)
}

func TestIntakeActivities_SkipsEmailWithoutAddress(t *testing.T) {
	f := submittedFIR()
	f.Email = ""
	called := false
	acts := newActivities(newMemFIRRepo(f), &mockNotifier{sendFn: func(context.Context, string, string, string) error {
		called = true
		return nil
	}})

	require.NoError(t, acts.SendAcknowledgement(context.Background(), f.ID, ""))
	assert.False(t, called)
}

func TestIntakeActivities_UnknownFIRIsNonRetryable(t *testing.T) {
	acts := newActivities(newMemFIRRepo(), &mockNotifier{})

	_, err := acts.AssignStation(context.Background(), "NOPE")
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

type fakeStarter struct {
	opts client.StartWorkflowOptions
	args []interface{}
	err  error
}

func (f *fakeStarter) ExecuteWorkflow(ctx context.Context, options client.StartWorkflowOptions, workflow interface{}, args ...interface{}) (client.WorkflowRun, error) {
	f.opts = options
	f.args = args
	return nil, f.err
}

func TestStartIntake(t *testing.T) {
	s := &fakeStarter{}
	started, err := StartIntake(context.Background(), s, "fir-intake", "DL2026AB12CD")
	require.NoError(t, err)
	assert.True(t, started)
	assert.Equal(t, "fir-intake-DL2026AB12CD", s.opts.ID)
	assert.Equal(t, "fir-intake", s.opts.TaskQueue)
	assert.Equal(t, enumspb.WORKFLOW_ID_REUSE_POLICY_ALLOW_DUPLICATE_FAILED_ONLY, s.opts.WorkflowIDReusePolicy)
	assert.Equal(t, []interface{}{IntakeInput{FIRID: "DL2026AB12CD"}}, s.args)
}

func TestStartIntake_AlreadyStarted(t *testing.T) {
	s := &fakeStarter{err: serviceerror.NewWorkflowExecutionAlreadyStarted("already started", "", "run-1")}
	started, err := StartIntake(context.Background(), s, "fir-intake", "DL2026AB12CD")
	require.NoError(t, err)
	assert.False(t, started)
}

func TestStartIntake_Error(t *testing.T) {
	s := &fakeStarter{err: errors.New("connection refused")}
	_, err := StartIntake(context.Background(), s, "fir-intake", "DL2026AB12CD")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "DL2026AB12CD")
}

type stalledFIRs struct {
	firs      []domain.FIR
	olderThan time.Duration
}

func (s *stalledFIRs) StalledIntakes(ctx context.Context, olderThan time.Duration, limit int) ([]domain.FIR, error) {
	s.olderThan = olderThan
	return s.firs, nil
}

// perIDStarter answers ExecuteWorkflow per workflow ID.
type perIDStarter struct {
	errs    map[string]error
	started []string
}

func (p *perIDStarter) ExecuteWorkflow(ctx context.Context, options client.StartWorkflowOptions, workflow interface{}, args ...interface{}) (client.WorkflowRun, error) {
	if err := p.errs[options.ID]; err != nil {
		return nil, err
	}
	p.started = append(p.started, options.ID)
	return nil, nil
}

func TestRestartStalled(t *testing.T) {
	lister := &stalledFIRs{firs: []domain.FIR{{ID: "FIR-A"}, {ID: "FIR-B"}, {ID: "FIR-C"}}}
	starter := &perIDStarter{errs: map[string]error{
		"fir-intake-FIR-B": serviceerror.NewWorkflowExecutionAlreadyStarted("running", "", "run-1"),
	}}

	n, err := RestartStalled(context.Background(), lister, starter, "fir-intake", 10*time.Minute, 50)
	require.NoError(t, err)
	assert.Equal(t, 2, n)
	assert.Equal(t, []string{"fir-intake-FIR-A", "fir-intake-FIR-C"}, starter.started)
	assert.Equal(t, 10*time.Minute, lister.olderThan)
}

func TestRestartStalled_KeepsGoingAfterError(t *testing.T) {
	lister := &stalledFIRs{firs: []domain.FIR{{ID: "FIR-A"}, {ID: "FIR-B"}}}
	starter := &perIDStarter{errs: map[string]error{"fir-intake-FIR-A": errors.New("unavailable")}}

	n, err := RestartStalled(context.Background(), lister, starter, "fir-intake", time.Minute, 50)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "FIR-A")
	assert.Equal(t, 1, n)
	assert.Equal(t, []string{"fir-intake-FIR-B"}, starter.started)
}
