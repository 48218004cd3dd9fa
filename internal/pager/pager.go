// Package pager caches remote continuation tokens so the listing UI can page
// backward against an API that only hands out forward tokens.
//
// Tokens are keyed by account, a hash of the active date filters, and the
// page number the token advances past. A miss yields an empty token, which
// the remote API treats as the start of the listing.
package pager

import (
	"crypto/sha256"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"net/url"
	"strconv"

	"github.com/picshuttle/picshuttle/internal/models"
)

// PageTokenStore persists continuation tokens per account and filter hash.
type PageTokenStore interface {
	Save(accountID, filterHash string, page int, token string) error
	Find(accountID, filterHash string, page int) (string, error)
}

// FilterHash derives a stable cache key from the whitelisted filter fields.
// Only the date constraints participate, so unrelated request parameters
// never change the key.
func FilterHash(filters models.SearchFilters) string {
	canonical := struct {
		DateFrom string   `json:"date_from"`
		DateTo   string   `json:"date_to"`
		IsRange  bool     `json:"is_range"`
		DateList []string `json:"date_list"`
	}{
		DateFrom: filters.DateFrom,
		DateTo:   filters.DateTo,
		IsRange:  filters.IsRange,
		DateList: filters.DateList,
	}

	data, err := json.Marshal(canonical)
	if err != nil {
		// marshalling a struct of strings and bools cannot fail
		panic(fmt.Sprintf("pager: failed to marshal filters: %v", err))
	}

	sum := sha256.Sum256(data)
	return base64.RawURLEncoding.EncodeToString(sum[:])
}

// FiltersFromQuery extracts the whitelisted filter fields from request query
// parameters, ignoring everything else.
func FiltersFromQuery(values url.Values) models.SearchFilters {
	isRange, _ := strconv.ParseBool(values.Get("is_range"))

	filters := models.SearchFilters{
		DateFrom: values.Get("date_from"),
		DateTo:   values.Get("date_to"),
		IsRange:  isRange,
	}

	if list, ok := values["date_list"]; ok {
		filters.DateList = list
	}

	return filters
}

// TokenCache records the continuation token the remote API returned for each
// page so PreviousPageToken can rebuild the request that fetched an earlier one.
type TokenCache struct {
	store PageTokenStore
}

// NewTokenCache creates a TokenCache backed by the given store.
func NewTokenCache(store PageTokenStore) *TokenCache {
	return &TokenCache{store: store}
}

// SavePageToken stores the token that fetches the given page under the
// account and filter hash.
func (c *TokenCache) SavePageToken(accountID string, filters models.SearchFilters, page int, token string) error {
	if err := c.store.Save(accountID, FilterHash(filters), page, token); err != nil {
		return fmt.Errorf("failed to save page token: %w", err)
	}
	return nil
}

// PreviousPageToken returns the token that was active one page before
// currentPage, or "" when currentPage is at or before the start of the
// listing or no token was recorded. An empty token restarts the listing
// from its first page.
func (c *TokenCache) PreviousPageToken(accountID string, filters models.SearchFilters, currentPage int) (string, error) {
	if currentPage <= 0 {
		return "", nil
	}

	token, err := c.store.Find(accountID, FilterHash(filters), currentPage-1)
	if err != nil {
		return "", fmt.Errorf("failed to look up page token: %w", err)
	}

	return token, nil
}
