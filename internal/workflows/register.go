package workflows

import (
	"context"
	"errors"
	"fmt"
	"time"

	enumspb "go.temporal.io/api/enums/v1"
	"go.temporal.io/api/serviceerror"
	"go.temporal.io/sdk/client"
	"go.temporal.io/sdk/worker"
	"go.temporal.io/sdk/workflow"

	"github.com/nyayasahayak/legallibrary/internal/core/domain"
)

// Register adds the intake workflow and its activities to w.
func Register(w worker.Registry, acts *IntakeActivities) {
	w.RegisterWorkflowWithOptions(FIRIntakeWorkflow, workflow.RegisterOptions{Name: IntakeWorkflowName})
	w.RegisterActivity(acts)
}

// Starter is the part of client.Client used to start workflows.
type Starter interface {
	ExecuteWorkflow(ctx context.Context, options client.StartWorkflowOptions, workflow interface{}, args ...interface{}) (client.WorkflowRun, error)
}

// StartIntake starts the intake workflow for one FIR. A run that is already
// in progress or completed for the FIR is reported with started=false and no
// error; a failed run may be started again.
func StartIntake(ctx context.Context, c Starter, taskQueue, firID string) (started bool, err error) {
	_, err = c.ExecuteWorkflow(ctx, client.StartWorkflowOptions{
		ID:                                       IntakeWorkflowID(firID),
		TaskQueue:                                taskQueue,
		WorkflowIDReusePolicy:                    enumspb.WORKFLOW_ID_REUSE_POLICY_ALLOW_DUPLICATE_FAILED_ONLY,
		WorkflowExecutionErrorWhenAlreadyStarted: true,
	}, IntakeWorkflowName, IntakeInput{FIRID: firID})
	if err != nil {
		var already *serviceerror.WorkflowExecutionAlreadyStarted
		if errors.As(err, &already) {
			return false, nil
		}
		return false, fmt.Errorf("start intake workflow for %s: %w", firID, err)
	}
	return true, nil
}

// StalledLister finds FIRs that are still waiting for intake.
type StalledLister interface {
	StalledIntakes(ctx context.Context, olderThan time.Duration, limit int) ([]domain.FIR, error)
}

// RestartStalled starts intake for FIRs that stayed submitted for longer
// than olderThan, which covers fir.filed events that were never delivered.
// It returns how many workflows were started.
func RestartStalled(ctx context.Context, firs StalledLister, c Starter, taskQueue string, olderThan time.Duration, limit int) (int, error) {
	stalled, err := firs.StalledIntakes(ctx, olderThan, limit)
	if err != nil {
		return 0, err
	}
	started := 0
	var errs []error
	for _, fir := range stalled {
		ok, err := StartIntake(ctx, c, taskQueue, fir.ID)
		if err != nil {
			errs = append(errs, err)
			continue
		}
		if ok {
			started++
		}
	}
	return started, errors.Join(errs...)
}
