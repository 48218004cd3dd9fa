package repositories

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/picshuttle/picshuttle/internal/models"
	"github.com/picshuttle/picshuttle/internal/shared"
)

// CollectionRepository implements [models.Repository] for [models.Collection]
// persistence, plus the attach tables linking media and events to collections.
type CollectionRepository struct {
	db *sql.DB
}

// NewCollectionRepository creates a new [CollectionRepository] with the given database connection
func NewCollectionRepository(db *sql.DB) *CollectionRepository {
	return &CollectionRepository{db: db}
}

// Create inserts a new collection into the database with generated ID and sequence
func (r *CollectionRepository) Create(collection *models.Collection) error {
	sequence, err := NextSequence(r.db, "collections")
	if err != nil {
		return fmt.Errorf("failed to generate sequence: %w", err)
	}

	id := shared.GenerateID()
	collection.SetID(id)

	if err := collection.Validate(); err != nil {
		return fmt.Errorf("validation failed: %w", err)
	}

	query := `
		INSERT INTO collections (id, sequence, account_id, name, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?)
	`

	_, err = r.db.Exec(query,
		id,
		sequence,
		collection.AccountID(),
		collection.Name(),
		collection.CreatedAt(),
		collection.UpdatedAt(),
	)
	if err != nil {
		return fmt.Errorf("failed to insert collection: %w", err)
	}

	return nil
}

// Get retrieves a collection by ID, excluding soft-deleted collections
func (r *CollectionRepository) Get(id string) (*models.Collection, error) {
	query := `
		SELECT id, sequence, account_id, name, created_at, updated_at, deleted_at
		FROM collections
		WHERE id = ? AND deleted_at IS NULL
	`

	collection, err := scanCollection(r.db.QueryRow(query, id).Scan)
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("collection not found: %s", id)
	}
	return collection, err
}

// Update modifies an existing collection in the database
func (r *CollectionRepository) Update(collection *models.Collection) error {
	if err := collection.Validate(); err != nil {
		return fmt.Errorf("validation failed: %w", err)
	}

	now := time.Now()
	collection.SetUpdatedAt(now)

	query := `
		UPDATE collections
		SET name = ?, updated_at = ?
		WHERE id = ? AND deleted_at IS NULL
	`

	result, err := r.db.Exec(query, collection.Name(), now, collection.ID())
	if err != nil {
		return fmt.Errorf("failed to update collection: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get affected rows: %w", err)
	}
	if rows == 0 {
		return fmt.Errorf("collection not found or already deleted: %s", collection.ID())
	}

	return nil
}

// Delete soft-deletes a collection by ID
func (r *CollectionRepository) Delete(id string) error {
	now := time.Now()

	query := `
		UPDATE collections
		SET deleted_at = ?
		WHERE id = ? AND deleted_at IS NULL
	`

	result, err := r.db.Exec(query, now, id)
	if err != nil {
		return fmt.Errorf("failed to delete collection: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get affected rows: %w", err)
	}
	if rows == 0 {
		return fmt.Errorf("collection not found or already deleted: %s", id)
	}

	return nil
}

// List retrieves all collections matching the given criteria, excluding soft-deleted collections
func (r *CollectionRepository) List(criteria map[string]any) ([]*models.Collection, error) {
	query := `
		SELECT id, sequence, account_id, name, created_at, updated_at, deleted_at
		FROM collections
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
		return nil, fmt.Errorf("failed to query collections: %w", err)
	}
	defer rows.Close()

	var collections []*models.Collection
	for rows.Next() {
		collection, err := scanCollection(rows.Scan)
		if err != nil {
			return nil, err
		}
		collections = append(collections, collection)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("row iteration error: %w", err)
	}

	return collections, nil
}

// AttachMedia links a media record to a collection. Attaching the same media
// twice is a no-op.
func (r *CollectionRepository) AttachMedia(collectionID, mediaID string) error {
	query := `
		INSERT OR IGNORE INTO collection_media (collection_id, media_id, created_at)
		VALUES (?, ?, ?)
	`

	_, err := r.db.Exec(query, collectionID, mediaID, time.Now())
	if err != nil {
		return fmt.Errorf("failed to attach media to collection: %w", err)
	}

	return nil
}

// AttachEvent links an event to a collection. Attaching the same event twice
// is a no-op.
func (r *CollectionRepository) AttachEvent(collectionID, eventID string) error {
	query := `
		INSERT OR IGNORE INTO collection_events (collection_id, event_id, created_at)
		VALUES (?, ?, ?)
	`

	_, err := r.db.Exec(query, collectionID, eventID, time.Now())
	if err != nil {
		return fmt.Errorf("failed to attach event to collection: %w", err)
	}

	return nil
}

// MediaIDs returns the ids of media attached to a collection in attach order
func (r *CollectionRepository) MediaIDs(collectionID string) ([]string, error) {
	query := `
		SELECT media_id FROM collection_media
		WHERE collection_id = ?
		ORDER BY created_at ASC, media_id ASC
	`

	return r.queryIDs(query, collectionID)
}

// EventIDs returns the ids of events attached to a collection in attach order
func (r *CollectionRepository) EventIDs(collectionID string) ([]string, error) {
	query := `
		SELECT event_id FROM collection_events
		WHERE collection_id = ?
		ORDER BY created_at ASC, event_id ASC
	`

	return r.queryIDs(query, collectionID)
}

func (r *CollectionRepository) queryIDs(query, collectionID string) ([]string, error) {
	rows, err := r.db.Query(query, collectionID)
	if err != nil {
		return nil, fmt.Errorf("failed to query collection links: %w", err)
	}
	defer rows.Close()

	var ids []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("failed to scan link: %w", err)
		}
		ids = append(ids, id)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("row iteration error: %w", err)
	}

	return ids, nil
}

// scanCollection scans one collection row through the given scan function
func scanCollection(scan func(dest ...any) error) (*models.Collection, error) {
	var (
		id        string
		sequence  int
		accountID sql.NullString
		name      string
		createdAt time.Time
		updatedAt time.Time
		deletedAt sql.NullTime
	)

	err := scan(&id, &sequence, &accountID, &name, &createdAt, &updatedAt, &deletedAt)
	if err == sql.ErrNoRows {
		return nil, err
	}
	if err != nil {
		return nil, fmt.Errorf("failed to scan collection: %w", err)
	}

	collection := models.NewCollection(sequence, accountID.String, name)
	collection.SetID(id)
	collection.SetUpdatedAt(updatedAt)
	if deletedAt.Valid {
		collection.SetDeletedAt(&deletedAt.Time)
	}

	return collection, nil
}
