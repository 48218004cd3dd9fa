package tasks

import (
	"context"

	"github.com/charmbracelet/log"
	"github.com/picshuttle/picshuttle/internal/models"
	"github.com/picshuttle/picshuttle/internal/shared"
)

// BatchState is the resumable position of a synchronous import run. It is a
// value: Step returns a new state rather than mutating its input, so a caller
// can replay or inspect any tick deterministically.
type BatchState struct {
	Remaining []string `json:"remaining"`
	Processed int      `json:"processed"`
	Total     int      `json:"total"`
}

// NewBatchState snapshots the ids to import.
func NewBatchState(ids []string) BatchState {
	return BatchState{
		Remaining: append([]string(nil), ids...),
		Total:     len(ids),
	}
}

// Done reports whether every item has been consumed.
func (s BatchState) Done() bool {
	return len(s.Remaining) == 0
}

// Finished returns the fraction of items consumed so far. Callers keep
// invoking Step until it reaches 1.
func (s BatchState) Finished() float64 {
	if s.Total == 0 {
		return 1
	}
	return float64(s.Processed) / float64(s.Total)
}

// StepOutcome reports what one tick did.
type StepOutcome struct {
	Record  *models.MediaRecord // imported record, nil when the item failed
	Err     error               // item-level failure, nil on success
	Message string              // human-readable status for display
}

// BatchEngine imports a fixed selection one item per invocation. Each tick
// blocks on one remote fetch and one content download; spreading the work
// across short invocations keeps any single caller-imposed deadline intact
// while surfacing live progress.
type BatchEngine struct {
	runner ImportRunner
	logger *log.Logger
}

// NewBatchEngine creates a BatchEngine driving the given pipeline.
func NewBatchEngine(runner ImportRunner, logger *log.Logger) *BatchEngine {
	if logger == nil {
		logger = shared.NewLogger(nil)
	}
	return &BatchEngine{runner: runner, logger: logger}
}

// Step consumes exactly one remaining item and returns the advanced state.
// An item-level failure is reported in the outcome and the item is still
// consumed; the next tick moves on rather than retrying.
func (e *BatchEngine) Step(ctx context.Context, state BatchState, actorID string, importCtx models.ImportContext) (BatchState, StepOutcome) {
	if state.Done() {
		return state, StepOutcome{Message: importedUpdate(state.Processed).Message}
	}

	remoteID := state.Remaining[0]

	next := BatchState{
		Remaining: state.Remaining[1:],
		Processed: state.Processed + 1,
		Total:     state.Total,
	}

	update := processingUpdate(next.Processed, next.Total)

	record, err := e.runner.ImportOne(ctx, remoteID, actorID, importCtx)
	if err != nil {
		e.logger.Error("import failed", "remote_id", remoteID, "error", err)
		return next, StepOutcome{Err: err, Message: itemFailedUpdate(next.Processed, next.Total, remoteID, err).Message}
	}

	return next, StepOutcome{Record: record, Message: update.Message}
}

// Run drives Step to completion, reporting progress through the channel.
// Returns the number of items consumed; item-level failures do not abort
// the run.
func (e *BatchEngine) Run(ctx context.Context, ids []string, actorID string, importCtx models.ImportContext, progress chan<- ProgressUpdate) (int, error) {
	state := NewBatchState(ids)

	for !state.Done() {
		if err := ctx.Err(); err != nil {
			return state.Processed, err
		}

		var outcome StepOutcome
		state, outcome = e.Step(ctx, state, actorID, importCtx)

		update := processingUpdate(state.Processed, state.Total)
		if outcome.Err != nil {
			update = itemFailedUpdate(state.Processed, state.Total, "", outcome.Err)
			update.Message = outcome.Message
		}
		sendProgress(progress, update)
	}

	sendProgress(progress, importedUpdate(state.Processed))

	return state.Processed, nil
}

// sendProgress sends a progress update through the channel without blocking.
// Uses select with default to ensure progress reporting never blocks execution.
func sendProgress(progress chan<- ProgressUpdate, update ProgressUpdate) {
	if progress == nil {
		return
	}
	select {
	case progress <- update:
		// Sent successfully
	default:
		// Channel full or closed, skip this update
	}
}
