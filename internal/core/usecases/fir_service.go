package usecases

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/mail"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/nyayasahayak/legallibrary/internal/core/domain"
	"github.com/nyayasahayak/legallibrary/internal/core/ports"
	"github.com/nyayasahayak/legallibrary/internal/pkg/metrics"
)

const minFIRDescriptionLen = 20

// IncidentZone is the zone a date-only incident_date is read in.
var IncidentZone = time.FixedZone("IST", 5*60*60+30*60)

// FileFIRRequest is the citizen-supplied part of an FIR.
type FileFIRRequest struct {
	ComplainantName  string `json:"complainant_name"`
	Phone            string `json:"phone"`
	Email            string `json:"email"`
	Address          string `json:"address"`
	StateCode        string `json:"state_code"`
	DistrictCode     string `json:"district_code"`
	StationCode      string `json:"police_station_code"`
	IncidentType     string `json:"incident_type"`
	IncidentDate     string `json:"incident_date"` // YYYY-MM-DD or RFC 3339
	IncidentLocation string `json:"incident_location"`
	Description      string `json:"description"`
}

// FIRService files and tracks first information reports.
type FIRService struct {
	firs      ports.FIRRepository
	catalogue ports.LocationRepository
	publisher ports.EventPublisher
	now       func() time.Time
}

// NewFIRService creates a new FIRService. When catalogue is set, filed
// district codes must exist in it and belong to the filed state. publisher
// may be nil.
func NewFIRService(firs ports.FIRRepository, catalogue ports.LocationRepository, publisher ports.EventPublisher) *FIRService {
	return &FIRService{firs: firs, catalogue: catalogue, publisher: publisher, now: time.Now}
}

// SetClock replaces the clock used for filing and status changes.
func (s *FIRService) SetClock(now func() time.Time) { s.now = now }

// File validates and stores a new FIR with status submitted, then announces it.
func (s *FIRService) File(ctx context.Context, req FileFIRRequest) (*domain.FIR, error) {
	now := s.now()
	incident, err := validateFIR(&req, now)
	if err != nil {
		return nil, err
	}
	if err := s.checkCatalogue(ctx, req.StateCode, req.DistrictCode); err != nil {
		return nil, err
	}

	id, err := newFIRID(req.StateCode, now)
	if err != nil {
		return nil, fmt.Errorf("generate fir id: %w", err)
	}

	fir := &domain.FIR{
		ID:               id,
		ComplainantName:  req.ComplainantName,
		Phone:            req.Phone,
		Email:            req.Email,
		Address:          req.Address,
		StateCode:        req.StateCode,
		DistrictCode:     req.DistrictCode,
		StationCode:      req.StationCode,
		IncidentType:     req.IncidentType,
		IncidentDate:     incident,
		IncidentLocation: req.IncidentLocation,
		Description:      req.Description,
		Status:           domain.FIRSubmitted,
		History: []domain.FIRStatusChange{
			{To: domain.FIRSubmitted, Note: "filed", At: now},
		},
		CreatedAt: now,
		UpdatedAt: now,
	}

	if err := s.firs.Create(ctx, fir); err != nil {
		return nil, fmt.Errorf("create fir: %w", err)
	}

	// The FIR is stored either way; a lost event is recovered by StalledIntakes.
	if s.publisher != nil {
		if err := s.publisher.PublishFIRFiled(ctx, fir); err != nil {
			metrics.FIREventFailures.WithLabelValues("filed").Inc()
			slog.WarnContext(ctx, "publish fir.filed failed", "fir_id", fir.ID, "error", err)
		}
	}
	return fir, nil
}

// StalledIntakes returns up to limit FIRs that are still submitted and have
// not changed for olderThan, oldest first.
func (s *FIRService) StalledIntakes(ctx context.Context, olderThan time.Duration, limit int) ([]domain.FIR, error) {
	if limit <= 0 {
		limit = 100
	}
	firs, err := s.firs.ListByStatus(ctx, domain.FIRSubmitted, s.now().Add(-olderThan), limit)
	if err != nil {
		return nil, fmt.Errorf("list stalled firs: %w", err)
	}
	return firs, nil
}

func (s *FIRService) checkCatalogue(ctx context.Context, stateCode, districtCode string) error {
	if s.catalogue == nil {
		return nil
	}
	d, err := s.catalogue.GetDistrict(ctx, districtCode)
	switch {
	case errors.Is(err, domain.ErrNotFound):
		return fmt.Errorf("%w: district_code %s is not in the catalogue", domain.ErrInvalidInput, districtCode)
	case err != nil:
		return fmt.Errorf("lookup district: %w", err)
	case d.StateCode != stateCode:
		return fmt.Errorf("%w: district_code %s is not in state %s", domain.ErrInvalidInput, districtCode, stateCode)
	}
	return nil
}

// Track returns an FIR with its history.
func (s *FIRService) Track(ctx context.Context, id string) (*domain.FIR, error) {
	id = strings.ToUpper(strings.TrimSpace(id))
	if id == "" {
		return nil, fmt.Errorf("%w: fir id is required", domain.ErrInvalidInput)
	}
	return s.firs.GetByID(ctx, id)
}

// ListByEmail returns the FIRs filed with the given email, newest first.
func (s *FIRService) ListByEmail(ctx context.Context, email string) ([]domain.FIR, error) {
	email = strings.TrimSpace(email)
	if email == "" {
		return nil, fmt.Errorf("%w: email is required", domain.ErrInvalidInput)
	}
	return s.firs.ListByEmail(ctx, email)
}

// UpdateStatus moves an FIR along its lifecycle.
func (s *FIRService) UpdateStatus(ctx context.Context, id string, next domain.FIRStatus, note string) (*domain.FIR, error) {
	if !next.Valid() {
		return nil, fmt.Errorf("%w: unknown status %q", domain.ErrInvalidInput, next)
	}
	fir, err := s.Track(ctx, id)
	if err != nil {
		return nil, err
	}
	if !fir.Status.CanTransition(next) {
		return nil, fmt.Errorf("%w: cannot move fir from %s to %s", domain.ErrConflict, fir.Status, next)
	}
	return s.apply(ctx, fir, next, note)
}

// RevertAcknowledgement puts an acknowledged FIR back to submitted. It is
// the compensation step of intake and bypasses the lifecycle rules.
func (s *FIRService) RevertAcknowledgement(ctx context.Context, id, note string) (*domain.FIR, error) {
	fir, err := s.Track(ctx, id)
	if err != nil {
		return nil, err
	}
	if fir.Status != domain.FIRAcknowledged {
		return fir, nil
	}
	return s.apply(ctx, fir, domain.FIRSubmitted, note)
}

// AssignStation records the police station responsible for an FIR.
func (s *FIRService) AssignStation(ctx context.Context, id, stationCode string) error {
	if strings.TrimSpace(stationCode) == "" {
		return fmt.Errorf("%w: station code is required", domain.ErrInvalidInput)
	}
	return s.firs.AssignStation(ctx, id, stationCode)
}

func (s *FIRService) apply(ctx context.Context, fir *domain.FIR, next domain.FIRStatus, note string) (*domain.FIR, error) {
	change := domain.FIRStatusChange{From: fir.Status, To: next, Note: strings.TrimSpace(note), At: s.now()}
	if err := s.firs.AppendStatus(ctx, fir.ID, change); err != nil {
		return nil, fmt.Errorf("update fir status: %w", err)
	}
	fir.Status = next
	fir.UpdatedAt = change.At
	fir.History = append(fir.History, change)

	if s.publisher != nil {
		if err := s.publisher.PublishFIRStatus(ctx, fir.ID, change); err != nil {
			metrics.FIREventFailures.WithLabelValues("status").Inc()
			slog.WarnContext(ctx, "publish fir.status failed", "fir_id", fir.ID, "status", next, "error", err)
		}
	}
	return fir, nil
}

// validateFIR normalizes req in place and returns the parsed incident date.
// Every problem is reported in one error.
func validateFIR(req *FileFIRRequest, now time.Time) (time.Time, error) {
	req.ComplainantName = strings.TrimSpace(req.ComplainantName)
	req.Phone = strings.TrimSpace(req.Phone)
	req.Email = strings.TrimSpace(req.Email)
	req.Address = strings.TrimSpace(req.Address)
	req.StateCode = strings.ToUpper(strings.TrimSpace(req.StateCode))
	req.DistrictCode = strings.ToUpper(strings.TrimSpace(req.DistrictCode))
	req.StationCode = strings.ToUpper(strings.TrimSpace(req.StationCode))
	req.IncidentType = strings.TrimSpace(req.IncidentType)
	req.IncidentLocation = strings.TrimSpace(req.IncidentLocation)
	req.Description = strings.TrimSpace(req.Description)

	var errs []string
	if req.ComplainantName == "" {
		errs = append(errs, "complainant_name is required")
	}
	if req.Phone == "" && req.Email == "" {
		errs = append(errs, "phone or email is required")
	}
	if req.Email != "" {
		if _, err := mail.ParseAddress(req.Email); err != nil {
			errs = append(errs, "email is invalid")
		}
	}
	if req.Phone != "" && !validPhone(req.Phone) {
		errs = append(errs, "phone must contain 10 to 13 digits")
	}
	if req.StateCode == "" {
		errs = append(errs, "state_code is required")
	}
	if req.DistrictCode == "" {
		errs = append(errs, "district_code is required")
	}
	if req.IncidentType == "" {
		errs = append(errs, "incident_type is required")
	}
	if len([]rune(req.Description)) < minFIRDescriptionLen {
		errs = append(errs, fmt.Sprintf("description must be at least %d characters", minFIRDescriptionLen))
	}

	var incident time.Time
	if req.IncidentDate == "" {
		errs = append(errs, "incident_date is required")
	} else if t, dateOnly, err := parseIncidentDate(req.IncidentDate); err != nil {
		errs = append(errs, "incident_date must be YYYY-MM-DD or RFC 3339")
	} else if (dateOnly && t.After(startOfDay(now))) || (!dateOnly && t.After(now)) {
		errs = append(errs, "incident_date cannot be in the future")
	} else {
		incident = t
	}

	if len(errs) > 0 {
		return time.Time{}, fmt.Errorf("%w: %s", domain.ErrInvalidInput, strings.Join(errs, "; "))
	}
	return incident, nil
}

// parseIncidentDate accepts RFC 3339 or a calendar date in IncidentZone.
func parseIncidentDate(s string) (t time.Time, dateOnly bool, err error) {
	if t, err := time.Parse(time.RFC3339, s); err == nil {
		return t, false, nil
	}
	t, err = time.ParseInLocation("2006-01-02", s, IncidentZone)
	return t, true, err
}

func startOfDay(t time.Time) time.Time {
	y, m, d := t.In(IncidentZone).Date()
	return time.Date(y, m, d, 0, 0, 0, 0, IncidentZone)
}

func validPhone(p string) bool {
	digits := 0
	for _, r := range p {
		switch {
		case r >= '0' && r <= '9':
			digits++
		case r == '+' || r == '-' || r == ' ':
		default:
			return false
		}
	}
	return digits >= 10 && digits <= 13
}

// newFIRID returns FIR-<STATE>-<YYYYMMDD>-<8 hex>.
func newFIRID(state string, at time.Time) (string, error) {
	u, err := uuid.NewRandom()
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("FIR-%s-%s-%s", state, at.Format("20060102"), strings.ToUpper(u.String()[:8])), nil
}
