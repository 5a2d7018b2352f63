package workflows

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"go.temporal.io/sdk/temporal"

	"github.com/nyayasahayak/legallibrary/internal/core/domain"
	"github.com/nyayasahayak/legallibrary/internal/core/ports"
	"github.com/nyayasahayak/legallibrary/internal/core/usecases"
)

// IntakeActivities holds the activity implementations for the FIR intake workflow.
type IntakeActivities struct {
	FIRs      *usecases.FIRService
	Locations *usecases.LocationService
	Notifier  ports.NotificationService
}

// AssignedStation is the station chosen for an FIR.
type AssignedStation struct {
	Code string
	Name string
}

// AssignStation keeps an already chosen station, otherwise picks one via
// the location service and stores it on the FIR.
func (a *IntakeActivities) AssignStation(ctx context.Context, firID string) (AssignedStation, error) {
	fir, err := a.FIRs.Track(ctx, firID)
	if err != nil {
		return AssignedStation{}, activityError("track fir", err)
	}
	if fir.StationCode != "" {
		return AssignedStation{Code: fir.StationCode, Name: fir.StationCode}, nil
	}

	st, err := a.Locations.AssignStation(ctx, fir)
	if err != nil {
		return AssignedStation{}, activityError("pick station", err)
	}
	if err := a.FIRs.AssignStation(ctx, firID, st.Code); err != nil {
		return AssignedStation{}, activityError("assign station", err)
	}
	slog.InfoContext(ctx, "station assigned", "fir_id", firID, "station", st.Code, "source", st.Source)
	return AssignedStation{Code: st.Code, Name: st.Name}, nil
}

// Acknowledge moves a submitted FIR to acknowledged. Retries after a
// successful attempt see the FIR already acknowledged and do nothing.
func (a *IntakeActivities) Acknowledge(ctx context.Context, firID, stationName string) error {
	fir, err := a.FIRs.Track(ctx, firID)
	if err != nil {
		return activityError("track fir", err)
	}
	if fir.Status != domain.FIRSubmitted {
		return nil
	}
	note := "Received"
	if stationName != "" {
		note = "Received by " + stationName
	}
	if _, err := a.FIRs.UpdateStatus(ctx, firID, domain.FIRAcknowledged, note); err != nil {
		return activityError("acknowledge fir", err)
	}
	return nil
}

// SendAcknowledgement emails the complainant. FIRs filed without an email
// address are skipped.
func (a *IntakeActivities) SendAcknowledgement(ctx context.Context, firID, stationName string) error {
	fir, err := a.FIRs.Track(ctx, firID)
	if err != nil {
		return activityError("track fir", err)
	}
	if fir.Email == "" {
		slog.InfoContext(ctx, "no email on fir, skipping acknowledgement", "fir_id", firID)
		return nil
	}
	subject, body := AcknowledgementEmail(fir, stationName)
	if a.Notifier == nil {
		slog.InfoContext(ctx, "EMAIL (no notifier)", "to", fir.Email, "subject", subject)
		return nil
	}
	return a.Notifier.SendEmail(ctx, fir.Email, subject, body)
}

// RevertAcknowledgement puts the FIR back to submitted (saga compensation).
func (a *IntakeActivities) RevertAcknowledgement(ctx context.Context, firID, reason string) error {
	if _, err := a.FIRs.RevertAcknowledgement(ctx, firID, reason); err != nil {
		return activityError("revert acknowledgement", err)
	}
	slog.WarnContext(ctx, "fir acknowledgement reverted", "fir_id", firID, "reason", reason)
	return nil
}

// AcknowledgementEmail renders the subject and plain text body sent to a
// complainant once their FIR has been received.
func AcknowledgementEmail(fir *domain.FIR, stationName string) (subject, body string) {
	subject = fmt.Sprintf("FIR %s received", fir.ID)

	var b strings.Builder
	fmt.Fprintf(&b, "Dear %s,\n\n", fir.ComplainantName)
	fmt.Fprintf(&b, "Your complaint has been registered with reference number %s.\n\n", fir.ID)
	fmt.Fprintf(&b, "Incident type: %s\n", fir.IncidentType)
	fmt.Fprintf(&b, "Incident date: %s\n", fir.IncidentDate.Format("02 Jan 2006"))
	if fir.IncidentLocation != "" {
		fmt.Fprintf(&b, "Location: %s\n", fir.IncidentLocation)
	}
	if stationName != "" {
		fmt.Fprintf(&b, "Police station: %s\n", stationName)
	}
	b.WriteString("\nYou can track the status of your FIR with the reference number above.\n")
	b.WriteString("Please keep it for any future correspondence.\n\n")
	b.WriteString("Nyaya Sahayak")
	return subject, b.String()
}

// activityError wraps err. Client errors are non-retryable.
func activityError(op string, err error) error {
	switch {
	case errors.Is(err, domain.ErrNotFound), errors.Is(err, domain.ErrInvalidInput), errors.Is(err, domain.ErrConflict):
		return temporal.NewNonRetryableApplicationError(fmt.Sprintf("%s: %v", op, err), "InvalidFIR", err)
	default:
		return fmt.Errorf("%s: %w", op, err)
	}
}
