package repositories

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/picshuttle/picshuttle/internal/models"
	"github.com/picshuttle/picshuttle/internal/shared"
)

// EventRepository implements [models.Repository] for [models.Event] persistence.
// The album id column carries a UNIQUE constraint so one remote album maps to
// at most one event.
type EventRepository struct {
	db *sql.DB
}

// NewEventRepository creates a new [EventRepository] with the given database connection
func NewEventRepository(db *sql.DB) *EventRepository {
	return &EventRepository{db: db}
}

// Create inserts a new event into the database with generated ID and sequence
func (r *EventRepository) Create(event *models.Event) error {
	sequence, err := NextSequence(r.db, "events")
	if err != nil {
		return fmt.Errorf("failed to generate sequence: %w", err)
	}

	id := shared.GenerateID()
	event.SetID(id)

	if err := event.Validate(); err != nil {
		return fmt.Errorf("validation failed: %w", err)
	}

	query := `
		INSERT INTO events (id, sequence, account_id, album_id, title, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)
	`

	_, err = r.db.Exec(query,
		id,
		sequence,
		event.AccountID(),
		event.AlbumID(),
		event.Title(),
		event.CreatedAt(),
		event.UpdatedAt(),
	)
	if err != nil {
		return fmt.Errorf("failed to insert event: %w", err)
	}

	return nil
}

// CreateIfAbsent inserts the event unless one already exists for its album id.
// It returns the stored event and whether this call created it.
func (r *EventRepository) CreateIfAbsent(event *models.Event) (*models.Event, bool, error) {
	sequence, err := NextSequence(r.db, "events")
	if err != nil {
		return nil, false, fmt.Errorf("failed to generate sequence: %w", err)
	}

	id := shared.GenerateID()
	event.SetID(id)

	if err := event.Validate(); err != nil {
		return nil, false, fmt.Errorf("validation failed: %w", err)
	}

	query := `
		INSERT INTO events (id, sequence, account_id, album_id, title, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(album_id) DO NOTHING
	`

	result, err := r.db.Exec(query,
		id,
		sequence,
		event.AccountID(),
		event.AlbumID(),
		event.Title(),
		event.CreatedAt(),
		event.UpdatedAt(),
	)
	if err != nil {
		return nil, false, fmt.Errorf("failed to insert event: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return nil, false, fmt.Errorf("failed to get affected rows: %w", err)
	}

	stored, err := r.GetByAlbumID(event.AlbumID())
	if err != nil {
		return nil, false, err
	}

	return stored, rows > 0, nil
}

// Get retrieves an event by ID, excluding soft-deleted events
func (r *EventRepository) Get(id string) (*models.Event, error) {
	query := `
		SELECT id, sequence, account_id, album_id, title, created_at, updated_at, deleted_at
		FROM events
		WHERE id = ? AND deleted_at IS NULL
	`

	return r.scanOne(r.db.QueryRow(query, id))
}

// GetByAlbumID retrieves an event by its remote album id
func (r *EventRepository) GetByAlbumID(albumID string) (*models.Event, error) {
	query := `
		SELECT id, sequence, account_id, album_id, title, created_at, updated_at, deleted_at
		FROM events
		WHERE album_id = ? AND deleted_at IS NULL
	`

	return r.scanOne(r.db.QueryRow(query, albumID))
}

// Update modifies an existing event in the database
func (r *EventRepository) Update(event *models.Event) error {
	if err := event.Validate(); err != nil {
		return fmt.Errorf("validation failed: %w", err)
	}

	now := time.Now()
	event.SetUpdatedAt(now)

	query := `
		UPDATE events
		SET title = ?, updated_at = ?
		WHERE id = ? AND deleted_at IS NULL
	`

	result, err := r.db.Exec(query, event.Title(), now, event.ID())
	if err != nil {
		return fmt.Errorf("failed to update event: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get affected rows: %w", err)
	}
	if rows == 0 {
		return fmt.Errorf("event not found or already deleted: %s", event.ID())
	}

	return nil
}

// Delete soft-deletes an event by ID
func (r *EventRepository) Delete(id string) error {
	now := time.Now()

	query := `
		UPDATE events
		SET deleted_at = ?
		WHERE id = ? AND deleted_at IS NULL
	`

	result, err := r.db.Exec(query, now, id)
	if err != nil {
		return fmt.Errorf("failed to delete event: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get affected rows: %w", err)
	}
	if rows == 0 {
		return fmt.Errorf("event not found or already deleted: %s", id)
	}

	return nil
}

// List retrieves all events matching the given criteria, excluding soft-deleted events
func (r *EventRepository) List(criteria map[string]any) ([]*models.Event, error) {
	query := `
		SELECT id, sequence, account_id, album_id, title, created_at, updated_at, deleted_at
		FROM events
		WHERE deleted_at IS NULL
	`

	args := []any{}

	if accountID, ok := criteria["account_id"].(string); ok && accountID != "" {
		query += " AND account_id = ?"
		args = append(args, accountID)
	}

	query += " ORDER BY sequence ASC"

	rows, err := r.db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query events: %w", err)
	}
	defer rows.Close()

	var events []*models.Event
	for rows.Next() {
		event, err := scanEvent(rows.Scan)
		if err != nil {
			return nil, err
		}
		events = append(events, event)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("row iteration error: %w", err)
	}

	return events, nil
}

// scanOne scans a single [sql.Row] into a [models.Event]
func (r *EventRepository) scanOne(row *sql.Row) (*models.Event, error) {
	event, err := scanEvent(row.Scan)
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("event not found")
	}
	return event, err
}

// scanEvent scans one event row through the given scan function
func scanEvent(scan func(dest ...any) error) (*models.Event, error) {
	var (
		id        string
		sequence  int
		accountID sql.NullString
		albumID   string
		title     string
		createdAt time.Time
		updatedAt time.Time
		deletedAt sql.NullTime
	)

	err := scan(&id, &sequence, &accountID, &albumID, &title, &createdAt, &updatedAt, &deletedAt)
	if err == sql.ErrNoRows {
		return nil, err
	}
	if err != nil {
		return nil, fmt.Errorf("failed to scan event: %w", err)
	}

	event := models.NewEvent(sequence, accountID.String, albumID, title)
	event.SetID(id)
	event.SetUpdatedAt(updatedAt)
	if deletedAt.Valid {
		event.SetDeletedAt(&deletedAt.Time)
	}

	return event, nil
}
