package tasks

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/charmbracelet/log"
	"github.com/picshuttle/picshuttle/internal/models"
	"github.com/picshuttle/picshuttle/internal/shared"
)

// QueueStore is the durable FIFO task storage the engine consumes from.
type QueueStore interface {
	Enqueue(kind string, payload []byte) (int64, error)
	ClaimNext() (*models.QueueTask, error)
	MarkDone(id int64) error
	MarkDead(id int64, reason string) error
	Retry(id int64, reason string) error
}

// QueueEngine processes durable import tasks under an external scheduler.
// Each submission enqueues one task per selected media id followed by exactly
// one completion notice. Task failures are classified: permanent ones go to
// the dead letter state, transient ones are retried with backoff up to the
// attempt budget.
type QueueEngine struct {
	store       QueueStore
	runner      ImportRunner
	notifier    Notifier
	maxAttempts int
	retryDelay  time.Duration
	logger      *log.Logger
}

// NewQueueEngine creates a QueueEngine with the given failure policy.
// maxAttempts bounds how often a transient failure is retried before the
// task is dead-lettered; retryDelay is the base backoff between attempts.
func NewQueueEngine(store QueueStore, runner ImportRunner, notifier Notifier, maxAttempts int, retryDelay time.Duration, logger *log.Logger) *QueueEngine {
	if maxAttempts <= 0 {
		maxAttempts = 3
	}
	if logger == nil {
		logger = shared.NewLogger(nil)
	}
	return &QueueEngine{
		store:       store,
		runner:      runner,
		notifier:    notifier,
		maxAttempts: maxAttempts,
		retryDelay:  retryDelay,
		logger:      logger,
	}
}

// EnqueueImports appends one import task per selected id, preserving
// selection order. Returns how many tasks were enqueued.
func (e *QueueEngine) EnqueueImports(selection *models.Selection, actorID string, importCtx models.ImportContext) (int, error) {
	ids := selection.IDs()

	for _, remoteID := range ids {
		payload, err := json.Marshal(models.ImportItemPayload{
			RemoteID: remoteID,
			ActorID:  actorID,
			Context:  importCtx,
		})
		if err != nil {
			return 0, fmt.Errorf("failed to encode import task: %w", err)
		}

		if _, err := e.store.Enqueue(models.TaskImportItem, payload); err != nil {
			return 0, fmt.Errorf("failed to enqueue import task: %w", err)
		}
	}

	return len(ids), nil
}

// EnqueueCompletionNotice appends the single trailing notification task for
// a submission. albumCount is nil for photo-only imports.
func (e *QueueEngine) EnqueueCompletionNotice(account *models.Account, photoCount int, albumCount *int) error {
	payload, err := json.Marshal(models.NotifyCompletionPayload{
		Username:   account.Username(),
		Email:      account.Email(),
		Language:   account.Language(),
		PhotoCount: photoCount,
		AlbumCount: albumCount,
	})
	if err != nil {
		return fmt.Errorf("failed to encode notification task: %w", err)
	}

	if _, err := e.store.Enqueue(models.TaskNotifyCompletion, payload); err != nil {
		return fmt.Errorf("failed to enqueue notification task: %w", err)
	}

	return nil
}

// ProcessNext claims and processes one task. Returns false when the queue is
// empty. Task-level failures are handled by the retry policy and never
// surface as an error; only storage failures do.
func (e *QueueEngine) ProcessNext(ctx context.Context) (bool, error) {
	task, err := e.store.ClaimNext()
	if err != nil {
		return false, fmt.Errorf("failed to claim task: %w", err)
	}
	if task == nil {
		return false, nil
	}

	switch task.Kind {
	case models.TaskImportItem:
		return true, e.processImport(ctx, task)
	case models.TaskNotifyCompletion:
		return true, e.processNotification(ctx, task)
	default:
		e.logger.Error("unknown task kind", "task", task.ID, "kind", task.Kind)
		return true, e.store.MarkDead(task.ID, fmt.Sprintf("unknown task kind %q", task.Kind))
	}
}

// Drain processes tasks until the queue is empty or max tasks were handled.
// max <= 0 means no bound. Returns the number of tasks processed.
func (e *QueueEngine) Drain(ctx context.Context, max int) (int, error) {
	processed := 0

	for max <= 0 || processed < max {
		if err := ctx.Err(); err != nil {
			return processed, err
		}

		ok, err := e.ProcessNext(ctx)
		if err != nil {
			return processed, err
		}
		if !ok {
			break
		}
		processed++
	}

	return processed, nil
}

func (e *QueueEngine) processImport(ctx context.Context, task *models.QueueTask) error {
	var payload models.ImportItemPayload
	if err := json.Unmarshal(task.Payload, &payload); err != nil {
		e.logger.Error("malformed import payload", "task", task.ID, "error", err)
		return e.store.MarkDead(task.ID, fmt.Sprintf("malformed payload: %v", err))
	}

	_, err := e.runner.ImportOne(ctx, payload.RemoteID, payload.ActorID, payload.Context)
	if err == nil {
		return e.store.MarkDone(task.ID)
	}

	return e.settleFailure(ctx, task, err)
}

func (e *QueueEngine) processNotification(ctx context.Context, task *models.QueueTask) error {
	var payload models.NotifyCompletionPayload
	if err := json.Unmarshal(task.Payload, &payload); err != nil {
		e.logger.Error("malformed notification payload", "task", task.ID, "error", err)
		return e.store.MarkDead(task.ID, fmt.Sprintf("malformed payload: %v", err))
	}

	if err := e.notifier.Notify(ctx, payload); err != nil {
		return e.settleFailure(ctx, task, err)
	}

	return e.store.MarkDone(task.ID)
}

// settleFailure applies the failure policy: a missing account connection can
// never heal on its own and dead-letters immediately; everything else retries
// with attempt-scaled backoff until the budget runs out.
func (e *QueueEngine) settleFailure(ctx context.Context, task *models.QueueTask, cause error) error {
	if errors.Is(cause, shared.ErrNotConnected) {
		e.logger.Error("task dead-lettered", "task", task.ID, "error", cause)
		return e.store.MarkDead(task.ID, cause.Error())
	}

	if task.Attempts+1 >= e.maxAttempts {
		e.logger.Error("task exhausted retries", "task", task.ID, "attempts", task.Attempts+1, "error", cause)
		return e.store.MarkDead(task.ID, cause.Error())
	}

	e.logger.Warn("task will retry", "task", task.ID, "attempt", task.Attempts+1, "error", cause)

	if e.retryDelay > 0 {
		backoff := e.retryDelay * time.Duration(task.Attempts+1)
		select {
		case <-time.After(backoff):
		case <-ctx.Done():
			return ctx.Err()
		}
	}

	return e.store.Retry(task.ID, cause.Error())
}
