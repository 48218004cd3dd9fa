package repositories

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/picshuttle/picshuttle/internal/models"
	"github.com/picshuttle/picshuttle/internal/shared"
)

// MediaRepository implements [models.Repository] for [models.MediaRecord] persistence.
// The remote id column carries a UNIQUE constraint, which CreateIfAbsent relies
// on to keep imports idempotent under concurrent workers.
type MediaRepository struct {
	db *sql.DB
}

// NewMediaRepository creates a new [MediaRepository] with the given database connection
func NewMediaRepository(db *sql.DB) *MediaRepository {
	return &MediaRepository{db: db}
}

// Create inserts a new media record into the database with generated ID and sequence
func (r *MediaRepository) Create(media *models.MediaRecord) error {
	sequence, err := NextSequence(r.db, "media")
	if err != nil {
		return fmt.Errorf("failed to generate sequence: %w", err)
	}

	id := shared.GenerateID()
	media.SetID(id)

	if err := media.Validate(); err != nil {
		return fmt.Errorf("validation failed: %w", err)
	}

	query := `
		INSERT INTO media (id, sequence, account_id, remote_id, file_path, mime_type, width, height, description, filename, remote_created_at, event_id, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`

	_, err = r.db.Exec(query,
		id,
		sequence,
		media.AccountID(),
		media.RemoteID(),
		media.FilePath(),
		media.MimeType(),
		media.Width(),
		media.Height(),
		media.Description(),
		media.Filename(),
		media.RemoteCreatedAt(),
		nullString(media.EventID()),
		media.CreatedAt(),
		media.UpdatedAt(),
	)
	if err != nil {
		return fmt.Errorf("failed to insert media: %w", err)
	}

	return nil
}

// CreateIfAbsent inserts the media record unless one already exists for its
// remote id. It returns the stored record and whether this call created it.
// The insert and the conflict check happen in a single statement, so two
// workers racing on the same remote id both end up with the same row.
func (r *MediaRepository) CreateIfAbsent(media *models.MediaRecord) (*models.MediaRecord, bool, error) {
	sequence, err := NextSequence(r.db, "media")
	if err != nil {
		return nil, false, fmt.Errorf("failed to generate sequence: %w", err)
	}

	id := shared.GenerateID()
	media.SetID(id)

	if err := media.Validate(); err != nil {
		return nil, false, fmt.Errorf("validation failed: %w", err)
	}

	query := `
		INSERT INTO media (id, sequence, account_id, remote_id, file_path, mime_type, width, height, description, filename, remote_created_at, event_id, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(remote_id) DO NOTHING
	`

	result, err := r.db.Exec(query,
		id,
		sequence,
		media.AccountID(),
		media.RemoteID(),
		media.FilePath(),
		media.MimeType(),
		media.Width(),
		media.Height(),
		media.Description(),
		media.Filename(),
		media.RemoteCreatedAt(),
		nullString(media.EventID()),
		media.CreatedAt(),
		media.UpdatedAt(),
	)
	if err != nil {
		return nil, false, fmt.Errorf("failed to insert media: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return nil, false, fmt.Errorf("failed to get affected rows: %w", err)
	}

	stored, err := r.GetByRemoteID(media.RemoteID())
	if err != nil {
		return nil, false, err
	}

	return stored, rows > 0, nil
}

// Get retrieves a media record by ID, excluding soft-deleted records
func (r *MediaRepository) Get(id string) (*models.MediaRecord, error) {
	query := `
		SELECT id, sequence, account_id, remote_id, file_path, mime_type, width, height, description, filename, remote_created_at, event_id, created_at, updated_at, deleted_at
		FROM media
		WHERE id = ? AND deleted_at IS NULL
	`

	return r.scanOne(r.db.QueryRow(query, id))
}

// GetByRemoteID retrieves a media record by its remote library id
func (r *MediaRepository) GetByRemoteID(remoteID string) (*models.MediaRecord, error) {
	query := `
		SELECT id, sequence, account_id, remote_id, file_path, mime_type, width, height, description, filename, remote_created_at, event_id, created_at, updated_at, deleted_at
		FROM media
		WHERE remote_id = ? AND deleted_at IS NULL
	`

	return r.scanOne(r.db.QueryRow(query, remoteID))
}

// Update modifies an existing media record in the database
func (r *MediaRepository) Update(media *models.MediaRecord) error {
	if err := media.Validate(); err != nil {
		return fmt.Errorf("validation failed: %w", err)
	}

	now := time.Now()
	media.SetUpdatedAt(now)

	query := `
		UPDATE media
		SET file_path = ?, description = ?, event_id = ?, updated_at = ?
		WHERE id = ? AND deleted_at IS NULL
	`

	result, err := r.db.Exec(query,
		media.FilePath(),
		media.Description(),
		nullString(media.EventID()),
		now,
		media.ID(),
	)
	if err != nil {
		return fmt.Errorf("failed to update media: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get affected rows: %w", err)
	}
	if rows == 0 {
		return fmt.Errorf("media not found or already deleted: %s", media.ID())
	}

	return nil
}

// SetEvent assigns a media record to an event
func (r *MediaRepository) SetEvent(mediaID, eventID string) error {
	query := `
		UPDATE media
		SET event_id = ?, updated_at = ?
		WHERE id = ? AND deleted_at IS NULL
	`

	result, err := r.db.Exec(query, eventID, time.Now(), mediaID)
	if err != nil {
		return fmt.Errorf("failed to set media event: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get affected rows: %w", err)
	}
	if rows == 0 {
		return fmt.Errorf("media not found or already deleted: %s", mediaID)
	}

	return nil
}

// Delete soft-deletes a media record by ID
func (r *MediaRepository) Delete(id string) error {
	now := time.Now()

	query := `
		UPDATE media
		SET deleted_at = ?
		WHERE id = ? AND deleted_at IS NULL
	`

	result, err := r.db.Exec(query, now, id)
	if err != nil {
		return fmt.Errorf("failed to delete media: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get affected rows: %w", err)
	}
	if rows == 0 {
		return fmt.Errorf("media not found or already deleted: %s", id)
	}

	return nil
}

// List retrieves all media records matching the given criteria, excluding soft-deleted records
func (r *MediaRepository) List(criteria map[string]any) ([]*models.MediaRecord, error) {
	query := `
		SELECT id, sequence, account_id, remote_id, file_path, mime_type, width, height, description, filename, remote_created_at, event_id, created_at, updated_at, deleted_at
		FROM media
		WHERE deleted_at IS NULL
	`

	args := []any{}

	if accountID, ok := criteria["account_id"].(string); ok && accountID != "" {
		query += " AND account_id = ?"
		args = append(args, accountID)
	}

	if eventID, ok := criteria["event_id"].(string); ok && eventID != "" {
		query += " AND event_id = ?"
		args = append(args, eventID)
	}

	query += " ORDER BY sequence ASC"

	rows, err := r.db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query media: %w", err)
	}
	defer rows.Close()

	var records []*models.MediaRecord
	for rows.Next() {
		record, err := scanMedia(rows.Scan)
		if err != nil {
			return nil, err
		}
		records = append(records, record)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("row iteration error: %w", err)
	}

	return records, nil
}

// scanOne scans a single [sql.Row] into a [models.MediaRecord]
func (r *MediaRepository) scanOne(row *sql.Row) (*models.MediaRecord, error) {
	record, err := scanMedia(row.Scan)
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("media not found")
	}
	return record, err
}

// scanMedia scans one media row through the given scan function
func scanMedia(scan func(dest ...any) error) (*models.MediaRecord, error) {
	var (
		id              string
		sequence        int
		accountID       sql.NullString
		remoteID        string
		filePath        string
		mimeType        string
		width           int
		height          int
		description     string
		filename        string
		remoteCreatedAt sql.NullTime
		eventID         sql.NullString
		createdAt       time.Time
		updatedAt       time.Time
		deletedAt       sql.NullTime
	)

	err := scan(&id, &sequence, &accountID, &remoteID, &filePath, &mimeType, &width, &height, &description, &filename, &remoteCreatedAt, &eventID, &createdAt, &updatedAt, &deletedAt)
	if err == sql.ErrNoRows {
		return nil, err
	}
	if err != nil {
		return nil, fmt.Errorf("failed to scan media: %w", err)
	}

	item := models.MediaItem{
		ID:          remoteID,
		MimeType:    mimeType,
		Width:       width,
		Height:      height,
		Description: description,
		Filename:    filename,
	}
	if remoteCreatedAt.Valid {
		item.CreationTime = remoteCreatedAt.Time
	}

	record := models.NewMediaRecord(sequence, accountID.String, item)
	record.SetID(id)
	record.SetFilePath(filePath)
	if eventID.Valid {
		record.SetEventID(eventID.String)
	}
	record.SetUpdatedAt(updatedAt)
	if deletedAt.Valid {
		record.SetDeletedAt(&deletedAt.Time)
	}

	return record, nil
}

// nullString maps an empty string to SQL NULL for nullable foreign keys
func nullString(s string) any {
	if s == "" {
		return nil
	}
	return s
}
