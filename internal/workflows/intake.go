package workflows

import (
	"fmt"
	"time"

	"go.temporal.io/sdk/temporal"
	"go.temporal.io/sdk/workflow"
)

// IntakeWorkflowName is the registered name of FIRIntakeWorkflow.
const IntakeWorkflowName = "FIRIntakeWorkflow"

// IntakeInput is the input for the FIR intake workflow.
type IntakeInput struct {
	FIRID string
}

// IntakeResult reports what intake did for one FIR.
type IntakeResult struct {
	FIRID       string
	StationCode string
	StationName string
}

// IntakeWorkflowID is the workflow ID used for an FIR, so each FIR has at
// most one intake run.
func IntakeWorkflowID(firID string) string {
	return "fir-intake-" + firID
}

// FIRIntakeWorkflow assigns a police station to a newly filed FIR, marks it
// acknowledged and emails the complainant. If the email fails, the
// acknowledgement is reverted (saga compensation).
func FIRIntakeWorkflow(ctx workflow.Context, input IntakeInput) (*IntakeResult, error) {
	logger := workflow.GetLogger(ctx)
	logger.Info("Starting FIR intake workflow", "firID", input.FIRID)

	if input.FIRID == "" {
		return nil, temporal.NewNonRetryableApplicationError("fir id is required", "InvalidFIR", nil)
	}

	actOpts := workflow.ActivityOptions{
		StartToCloseTimeout: 30 * time.Second,
		RetryPolicy: &temporal.RetryPolicy{
			InitialInterval:    time.Second,
			BackoffCoefficient: 2,
			MaximumAttempts:    3,
		},
	}
	ctx = workflow.WithActivityOptions(ctx, actOpts)

	// Step 1: Pick a station
	var station AssignedStation
	if err := workflow.ExecuteActivity(ctx, "AssignStation", input.FIRID).Get(ctx, &station); err != nil {
		return nil, err
	}

	// Step 2: Acknowledge
	if err := workflow.ExecuteActivity(ctx, "Acknowledge", input.FIRID, station.Name).Get(ctx, nil); err != nil {
		return nil, err
	}

	// Step 3: Email the complainant
	err := workflow.ExecuteActivity(ctx, "SendAcknowledgement", input.FIRID, station.Name).Get(ctx, nil)
	if err != nil {
		logger.Warn("acknowledgement email failed, compensating", "error", err)
		reason := fmt.Sprintf("acknowledgement email failed: %v", err)
		if cerr := workflow.ExecuteActivity(ctx, "RevertAcknowledgement", input.FIRID, reason).Get(ctx, nil); cerr != nil {
			logger.Error("compensation failed", "error", cerr)
		}
		return nil, err
	}

	logger.Info("FIR intake complete", "firID", input.FIRID, "station", station.Code)
	return &IntakeResult{FIRID: input.FIRID, StationCode: station.Code, StationName: station.Name}, nil
}
