package repositories

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/picshuttle/picshuttle/internal/models"
)

// QueueRepository persists durable background tasks. Tasks are claimed in
// insertion order, so import tasks enqueued before a completion notice are
// always processed first.
type QueueRepository struct {
	db *sql.DB
}

// NewQueueRepository creates a new [QueueRepository] with the given database connection
func NewQueueRepository(db *sql.DB) *QueueRepository {
	return &QueueRepository{db: db}
}

// Enqueue appends a pending task of the given kind with a JSON payload
func (r *QueueRepository) Enqueue(kind string, payload []byte) (int64, error) {
	now := time.Now()

	query := `
		INSERT INTO queue_tasks (kind, payload, status, attempts, created_at, updated_at)
		VALUES (?, ?, ?, 0, ?, ?)
	`

	result, err := r.db.Exec(query, kind, string(payload), models.TaskPending, now, now)
	if err != nil {
		return 0, fmt.Errorf("failed to enqueue task: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("failed to get task id: %w", err)
	}

	return id, nil
}

// ClaimNext returns the oldest pending task, or (nil, nil) when the queue is
// empty. The task stays pending until marked done, dead, or retried.
func (r *QueueRepository) ClaimNext() (*models.QueueTask, error) {
	query := `
		SELECT id, kind, payload, status, attempts, last_error, created_at, updated_at
		FROM queue_tasks
		WHERE status = ?
		ORDER BY id ASC
		LIMIT 1
	`

	task, err := scanTask(r.db.QueryRow(query, models.TaskPending).Scan)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	return task, nil
}

// MarkDone marks a task as successfully processed
func (r *QueueRepository) MarkDone(id int64) error {
	return r.setStatus(id, models.TaskDone, "")
}

// MarkDead moves a task to the dead letter state with its final error
func (r *QueueRepository) MarkDead(id int64, reason string) error {
	return r.setStatus(id, models.TaskDead, reason)
}

// Retry returns a task to the pending state with its attempt count bumped
// and the triggering error recorded
func (r *QueueRepository) Retry(id int64, reason string) error {
	query := `
		UPDATE queue_tasks
		SET status = ?, attempts = attempts + 1, last_error = ?, updated_at = ?
		WHERE id = ?
	`

	result, err := r.db.Exec(query, models.TaskPending, reason, time.Now(), id)
	if err != nil {
		return fmt.Errorf("failed to retry task: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get affected rows: %w", err)
	}
	if rows == 0 {
		return fmt.Errorf("task not found: %d", id)
	}

	return nil
}

// CountByStatus returns the number of tasks in the given status
func (r *QueueRepository) CountByStatus(status string) (int, error) {
	var count int

	err := r.db.QueryRow(`SELECT COUNT(*) FROM queue_tasks WHERE status = ?`, status).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("failed to count tasks: %w", err)
	}

	return count, nil
}

// List retrieves tasks filtered by status, or all tasks when status is empty
func (r *QueueRepository) List(status string) ([]*models.QueueTask, error) {
	query := `
		SELECT id, kind, payload, status, attempts, last_error, created_at, updated_at
		FROM queue_tasks
	`

	args := []any{}

	if status != "" {
		query += " WHERE status = ?"
		args = append(args, status)
	}

	query += " ORDER BY id ASC"

	rows, err := r.db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query tasks: %w", err)
	}
	defer rows.Close()

	var tasks []*models.QueueTask
	for rows.Next() {
		task, err := scanTask(rows.Scan)
		if err != nil {
			return nil, err
		}
		tasks = append(tasks, task)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("row iteration error: %w", err)
	}

	return tasks, nil
}

func (r *QueueRepository) setStatus(id int64, status, lastError string) error {
	query := `
		UPDATE queue_tasks
		SET status = ?, last_error = ?, updated_at = ?
		WHERE id = ?
	`

	result, err := r.db.Exec(query, status, lastError, time.Now(), id)
	if err != nil {
		return fmt.Errorf("failed to update task status: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get affected rows: %w", err)
	}
	if rows == 0 {
		return fmt.Errorf("task not found: %d", id)
	}

	return nil
}

// scanTask scans one queue task row through the given scan function
func scanTask(scan func(dest ...any) error) (*models.QueueTask, error) {
	var (
		task    models.QueueTask
		payload string
	)

	err := scan(&task.ID, &task.Kind, &payload, &task.Status, &task.Attempts, &task.LastError, &task.CreatedAt, &task.UpdatedAt)
	if err == sql.ErrNoRows {
		return nil, err
	}
	if err != nil {
		return nil, fmt.Errorf("failed to scan task: %w", err)
	}

	task.Payload = []byte(payload)

	return &task, nil
}
