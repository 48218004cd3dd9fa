package tasks

import (
	"context"
	"fmt"
	"testing"

	"github.com/picshuttle/picshuttle/internal/models"
)

type mockRunner struct {
	imported []string
	failOn   map[string]error
}

func newMockRunner() *mockRunner {
	return &mockRunner{failOn: make(map[string]error)}
}

func (m *mockRunner) ImportOne(ctx context.Context, remoteID, actorID string, importCtx models.ImportContext) (*models.MediaRecord, error) {
	if err, ok := m.failOn[remoteID]; ok {
		return nil, err
	}
	m.imported = append(m.imported, remoteID)

	record := models.NewMediaRecord(0, actorID, models.MediaItem{ID: remoteID})
	record.SetID("media-" + remoteID)
	return record, nil
}

func TestBatchEngine(t *testing.T) {
	ids := []string{"a", "b", "c", "d", "e"}

	t.Run("consumes one item per tick", func(t *testing.T) {
		runner := newMockRunner()
		engine := NewBatchEngine(runner, nil)

		state := NewBatchState(ids)
		if state.Total != 5 || state.Processed != 0 {
			t.Fatalf("unexpected initial state: %+v", state)
		}

		for i := 1; i <= 5; i++ {
			var outcome StepOutcome
			state, outcome = engine.Step(context.Background(), state, "acct-1", models.ImportContext{})

			if state.Processed != i {
				t.Errorf("tick %d: expected processed %d, got %d", i, i, state.Processed)
			}
			if want := float64(i) / 5; state.Finished() != want {
				t.Errorf("tick %d: expected finished %v, got %v", i, want, state.Finished())
			}
			if want := fmt.Sprintf("Processing photo %d of 5", i); outcome.Message != want {
				t.Errorf("tick %d: expected message %q, got %q", i, want, outcome.Message)
			}
			if len(runner.imported) != i {
				t.Errorf("tick %d: expected %d imports, got %d", i, i, len(runner.imported))
			}
		}

		if !state.Done() {
			t.Error("expected state to be done after 5 ticks")
		}
	})

	t.Run("step does not mutate its input state", func(t *testing.T) {
		engine := NewBatchEngine(newMockRunner(), nil)

		before := NewBatchState(ids)
		after, _ := engine.Step(context.Background(), before, "acct-1", models.ImportContext{})

		if before.Processed != 0 || len(before.Remaining) != 5 {
			t.Errorf("input state was mutated: %+v", before)
		}
		if after.Processed != 1 || len(after.Remaining) != 4 {
			t.Errorf("unexpected advanced state: %+v", after)
		}
	})

	t.Run("a failed item is consumed, not retried", func(t *testing.T) {
		runner := newMockRunner()
		runner.failOn["b"] = fmt.Errorf("remote library request failed")
		engine := NewBatchEngine(runner, nil)

		state := NewBatchState([]string{"a", "b", "c"})
		var failures int

		for !state.Done() {
			var outcome StepOutcome
			state, outcome = engine.Step(context.Background(), state, "acct-1", models.ImportContext{})
			if outcome.Err != nil {
				failures++
			}
		}

		if failures != 1 {
			t.Errorf("expected 1 failure, got %d", failures)
		}
		if state.Processed != 3 {
			t.Errorf("expected all 3 items consumed, got %d", state.Processed)
		}
		if len(runner.imported) != 2 {
			t.Errorf("expected 2 successful imports, got %d", len(runner.imported))
		}
	})

	t.Run("step on a finished state is a no-op", func(t *testing.T) {
		engine := NewBatchEngine(newMockRunner(), nil)

		state := BatchState{Processed: 3, Total: 3}
		next, outcome := engine.Step(context.Background(), state, "acct-1", models.ImportContext{})

		if next.Processed != 3 {
			t.Errorf("expected processed unchanged, got %d", next.Processed)
		}
		if outcome.Message != "Imported 3 photos" {
			t.Errorf("unexpected message: %q", outcome.Message)
		}
	})

	t.Run("run drives to completion with progress", func(t *testing.T) {
		runner := newMockRunner()
		engine := NewBatchEngine(runner, nil)

		progress := make(chan ProgressUpdate, 16)

		processed, err := engine.Run(context.Background(), ids, "acct-1", models.ImportContext{}, progress)
		if err != nil {
			t.Fatalf("run failed: %v", err)
		}
		if processed != 5 {
			t.Errorf("expected 5 processed, got %d", processed)
		}

		close(progress)
		var last ProgressUpdate
		for update := range progress {
			last = update
		}
		if last.Message != "Imported 5 photos" {
			t.Errorf("expected completion message, got %q", last.Message)
		}
	})

	t.Run("empty selection finishes immediately", func(t *testing.T) {
		state := NewBatchState(nil)

		if !state.Done() {
			t.Error("expected empty state to be done")
		}
		if state.Finished() != 1 {
			t.Errorf("expected finished 1, got %v", state.Finished())
		}
	})
}
