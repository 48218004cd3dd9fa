package tasks

import (
	"context"
	"fmt"
	"strings"
	"testing"

	"github.com/picshuttle/picshuttle/internal/models"
	"github.com/picshuttle/picshuttle/internal/shared"
)

// memoryQueue is an in-memory QueueStore for tests
type memoryQueue struct {
	tasks  []*models.QueueTask
	nextID int64
}

func (q *memoryQueue) Enqueue(kind string, payload []byte) (int64, error) {
	q.nextID++
	q.tasks = append(q.tasks, &models.QueueTask{
		ID:      q.nextID,
		Kind:    kind,
		Payload: payload,
		Status:  models.TaskPending,
	})
	return q.nextID, nil
}

func (q *memoryQueue) ClaimNext() (*models.QueueTask, error) {
	for _, task := range q.tasks {
		if task.Status == models.TaskPending {
			return task, nil
		}
	}
	return nil, nil
}

func (q *memoryQueue) MarkDone(id int64) error {
	return q.setStatus(id, models.TaskDone, "")
}

func (q *memoryQueue) MarkDead(id int64, reason string) error {
	return q.setStatus(id, models.TaskDead, reason)
}

func (q *memoryQueue) Retry(id int64, reason string) error {
	for _, task := range q.tasks {
		if task.ID == id {
			task.Attempts++
			task.LastError = reason
			task.Status = models.TaskPending
			return nil
		}
	}
	return fmt.Errorf("task not found: %d", id)
}

func (q *memoryQueue) setStatus(id int64, status, reason string) error {
	for _, task := range q.tasks {
		if task.ID == id {
			task.Status = status
			task.LastError = reason
			return nil
		}
	}
	return fmt.Errorf("task not found: %d", id)
}

func (q *memoryQueue) countByStatus(status string) int {
	count := 0
	for _, task := range q.tasks {
		if task.Status == status {
			count++
		}
	}
	return count
}

// recordingNotifier captures composed completion messages
type recordingNotifier struct {
	messages []string
	err      error
}

func (n *recordingNotifier) Notify(ctx context.Context, payload models.NotifyCompletionPayload) error {
	if n.err != nil {
		return n.err
	}
	n.messages = append(n.messages, CompletionMessage(payload))
	return nil
}

func testAccount() *models.Account {
	account := models.NewAccount(1, "vera", "vera@example.com")
	account.SetID("acct-1")
	return account
}

func TestQueueEngine(t *testing.T) {
	t.Run("a submission yields one dequeue per task", func(t *testing.T) {
		queue := &memoryQueue{}
		runner := newMockRunner()
		notifier := &recordingNotifier{}
		engine := NewQueueEngine(queue, runner, notifier, 3, 0, nil)

		selection := models.NewSelection("a", "b", "c")
		count, err := engine.EnqueueImports(selection, "acct-1", models.ImportContext{})
		if err != nil {
			t.Fatalf("enqueue failed: %v", err)
		}
		if count != 3 {
			t.Errorf("expected 3 tasks, got %d", count)
		}

		if err := engine.EnqueueCompletionNotice(testAccount(), count, nil); err != nil {
			t.Fatalf("enqueue notice failed: %v", err)
		}

		processed, err := engine.Drain(context.Background(), 0)
		if err != nil {
			t.Fatalf("drain failed: %v", err)
		}
		if processed != 4 {
			t.Errorf("expected 4 dequeues, got %d", processed)
		}

		if got := queue.countByStatus(models.TaskDone); got != 4 {
			t.Errorf("expected 4 done tasks, got %d", got)
		}
		if len(runner.imported) != 3 {
			t.Errorf("expected 3 imports, got %d", len(runner.imported))
		}
		if len(notifier.messages) != 1 {
			t.Fatalf("expected 1 notification, got %d", len(notifier.messages))
		}
		if want := "Dear vera! Your 3 selected photos were imported."; notifier.messages[0] != want {
			t.Errorf("expected %q, got %q", want, notifier.messages[0])
		}
	})

	t.Run("import tasks run before the completion notice", func(t *testing.T) {
		queue := &memoryQueue{}
		runner := newMockRunner()
		notifier := &recordingNotifier{}
		engine := NewQueueEngine(queue, runner, notifier, 3, 0, nil)

		if _, err := engine.EnqueueImports(models.NewSelection("a", "b"), "acct-1", models.ImportContext{}); err != nil {
			t.Fatalf("enqueue failed: %v", err)
		}
		if err := engine.EnqueueCompletionNotice(testAccount(), 2, nil); err != nil {
			t.Fatalf("enqueue notice failed: %v", err)
		}

		// process two tasks: both must be imports, the notice waits its turn
		for i := 0; i < 2; i++ {
			if _, err := engine.ProcessNext(context.Background()); err != nil {
				t.Fatalf("process failed: %v", err)
			}
		}

		if len(runner.imported) != 2 {
			t.Errorf("expected 2 imports before the notice, got %d", len(runner.imported))
		}
		if len(notifier.messages) != 0 {
			t.Error("notice should not fire before its turn")
		}
	})

	t.Run("album imports change the completion wording", func(t *testing.T) {
		queue := &memoryQueue{}
		notifier := &recordingNotifier{}
		engine := NewQueueEngine(queue, newMockRunner(), notifier, 3, 0, nil)

		albums := 2
		if err := engine.EnqueueCompletionNotice(testAccount(), 5, &albums); err != nil {
			t.Fatalf("enqueue notice failed: %v", err)
		}

		if _, err := engine.ProcessNext(context.Background()); err != nil {
			t.Fatalf("process failed: %v", err)
		}

		want := "Dear vera! Your 5 selected photos from 2 albums were imported."
		if len(notifier.messages) != 1 || notifier.messages[0] != want {
			t.Errorf("expected %q, got %v", want, notifier.messages)
		}
	})

	t.Run("disconnected account dead-letters immediately", func(t *testing.T) {
		queue := &memoryQueue{}
		runner := newMockRunner()
		runner.failOn["a"] = fmt.Errorf("%w: account vera", shared.ErrNotConnected)
		engine := NewQueueEngine(queue, runner, &recordingNotifier{}, 3, 0, nil)

		if _, err := engine.EnqueueImports(models.NewSelection("a"), "acct-1", models.ImportContext{}); err != nil {
			t.Fatalf("enqueue failed: %v", err)
		}

		if _, err := engine.ProcessNext(context.Background()); err != nil {
			t.Fatalf("process failed: %v", err)
		}

		if got := queue.countByStatus(models.TaskDead); got != 1 {
			t.Errorf("expected 1 dead task, got %d", got)
		}
		if queue.tasks[0].Attempts != 0 {
			t.Errorf("expected no retry attempts, got %d", queue.tasks[0].Attempts)
		}
		if !strings.Contains(queue.tasks[0].LastError, "not connected") {
			t.Errorf("expected cause in last error, got %q", queue.tasks[0].LastError)
		}
	})

	t.Run("transient failures retry until the budget runs out", func(t *testing.T) {
		queue := &memoryQueue{}
		runner := newMockRunner()
		runner.failOn["a"] = fmt.Errorf("%w: status 500", shared.ErrRemoteFetch)
		engine := NewQueueEngine(queue, runner, &recordingNotifier{}, 3, 0, nil)

		if _, err := engine.EnqueueImports(models.NewSelection("a"), "acct-1", models.ImportContext{}); err != nil {
			t.Fatalf("enqueue failed: %v", err)
		}

		processed, err := engine.Drain(context.Background(), 0)
		if err != nil {
			t.Fatalf("drain failed: %v", err)
		}

		if processed != 3 {
			t.Errorf("expected 3 attempts, got %d", processed)
		}
		if got := queue.countByStatus(models.TaskDead); got != 1 {
			t.Errorf("expected 1 dead task, got %d", got)
		}
		if queue.tasks[0].Attempts != 2 {
			t.Errorf("expected 2 recorded retries, got %d", queue.tasks[0].Attempts)
		}
	})

	t.Run("malformed payloads dead-letter", func(t *testing.T) {
		queue := &memoryQueue{}
		engine := NewQueueEngine(queue, newMockRunner(), &recordingNotifier{}, 3, 0, nil)

		if _, err := queue.Enqueue(models.TaskImportItem, []byte("{not json")); err != nil {
			t.Fatalf("enqueue failed: %v", err)
		}

		if _, err := engine.ProcessNext(context.Background()); err != nil {
			t.Fatalf("process failed: %v", err)
		}

		if got := queue.countByStatus(models.TaskDead); got != 1 {
			t.Errorf("expected 1 dead task, got %d", got)
		}
	})

	t.Run("unknown task kinds dead-letter", func(t *testing.T) {
		queue := &memoryQueue{}
		engine := NewQueueEngine(queue, newMockRunner(), &recordingNotifier{}, 3, 0, nil)

		if _, err := queue.Enqueue("reticulate_splines", []byte("{}")); err != nil {
			t.Fatalf("enqueue failed: %v", err)
		}

		if _, err := engine.ProcessNext(context.Background()); err != nil {
			t.Fatalf("process failed: %v", err)
		}

		if got := queue.countByStatus(models.TaskDead); got != 1 {
			t.Errorf("expected 1 dead task, got %d", got)
		}
	})

	t.Run("empty queue reports no work", func(t *testing.T) {
		engine := NewQueueEngine(&memoryQueue{}, newMockRunner(), &recordingNotifier{}, 3, 0, nil)

		ok, err := engine.ProcessNext(context.Background())
		if err != nil {
			t.Fatalf("process failed: %v", err)
		}
		if ok {
			t.Error("expected no work on an empty queue")
		}
	})
}
