package repositories

import (
	"database/sql"
	"fmt"
	"time"
)

// PageTokenRepository persists remote pagination tokens keyed by account,
// filter hash, and page number. Saving a token for a page that already has
// one overwrites it.
type PageTokenRepository struct {
	db *sql.DB
}

// NewPageTokenRepository creates a new [PageTokenRepository] with the given database connection
func NewPageTokenRepository(db *sql.DB) *PageTokenRepository {
	return &PageTokenRepository{db: db}
}

// Save stores the token that fetches the given page for this account and filter hash
func (r *PageTokenRepository) Save(accountID, filterHash string, page int, token string) error {
	query := `
		INSERT OR REPLACE INTO page_tokens (account_id, filter_hash, page, token, created_at)
		VALUES (?, ?, ?, ?, ?)
	`

	_, err := r.db.Exec(query, accountID, filterHash, page, token, time.Now())
	if err != nil {
		return fmt.Errorf("failed to save page token: %w", err)
	}

	return nil
}

// Find returns the stored token for the given page, or "" when no token was saved
func (r *PageTokenRepository) Find(accountID, filterHash string, page int) (string, error) {
	query := `
		SELECT token FROM page_tokens
		WHERE account_id = ? AND filter_hash = ? AND page = ?
	`

	var token string
	err := r.db.QueryRow(query, accountID, filterHash, page).Scan(&token)
	if err == sql.ErrNoRows {
		return "", nil
	}
	if err != nil {
		return "", fmt.Errorf("failed to query page token: %w", err)
	}

	return token, nil
}
