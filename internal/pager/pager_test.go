package pager

import (
	"fmt"
	"net/url"
	"testing"

	"github.com/picshuttle/picshuttle/internal/models"
)

// memoryTokenStore is an in-memory PageTokenStore for tests
type memoryTokenStore struct {
	tokens map[string]string
	err    error
}

func newMemoryTokenStore() *memoryTokenStore {
	return &memoryTokenStore{tokens: make(map[string]string)}
}

func (s *memoryTokenStore) key(accountID, filterHash string, page int) string {
	return fmt.Sprintf("%s:%s:%d", accountID, filterHash, page)
}

func (s *memoryTokenStore) Save(accountID, filterHash string, page int, token string) error {
	if s.err != nil {
		return s.err
	}
	s.tokens[s.key(accountID, filterHash, page)] = token
	return nil
}

func (s *memoryTokenStore) Find(accountID, filterHash string, page int) (string, error) {
	if s.err != nil {
		return "", s.err
	}
	return s.tokens[s.key(accountID, filterHash, page)], nil
}

func TestFilterHash(t *testing.T) {
	t.Run("identical filters hash equal", func(t *testing.T) {
		a := models.SearchFilters{DateFrom: "2024-06-01", DateTo: "2024-06-30", IsRange: true}
		b := models.SearchFilters{DateTo: "2024-06-30", IsRange: true, DateFrom: "2024-06-01"}

		if FilterHash(a) != FilterHash(b) {
			t.Error("expected equal hashes for identical filter values")
		}
	})

	t.Run("different filters hash differently", func(t *testing.T) {
		a := models.SearchFilters{DateFrom: "2024-06-01"}
		b := models.SearchFilters{DateFrom: "2024-07-01"}

		if FilterHash(a) == FilterHash(b) {
			t.Error("expected different hashes for different date_from")
		}

		c := models.SearchFilters{DateList: []string{"2024-06-01", "2024-06-02"}}
		d := models.SearchFilters{DateList: []string{"2024-06-02", "2024-06-01"}}

		if FilterHash(c) == FilterHash(d) {
			t.Error("date list order is part of the key")
		}
	})

	t.Run("extraneous query parameters are ignored", func(t *testing.T) {
		plain := url.Values{}
		plain.Set("date_from", "2024-06-01")
		plain.Set("date_to", "2024-06-30")
		plain.Set("is_range", "true")

		noisy := url.Values{}
		noisy.Set("date_from", "2024-06-01")
		noisy.Set("date_to", "2024-06-30")
		noisy.Set("is_range", "true")
		noisy.Set("page", "4")
		noisy.Set("sort", "newest")
		noisy.Set("utm_source", "newsletter")

		if FilterHash(FiltersFromQuery(plain)) != FilterHash(FiltersFromQuery(noisy)) {
			t.Error("unrelated query parameters should not change the hash")
		}
	})
}

func TestFiltersFromQuery(t *testing.T) {
	values := url.Values{}
	values.Set("date_from", "2024-06-01")
	values.Set("is_range", "true")
	values.Add("date_list", "2024-01-01")
	values.Add("date_list", "2024-01-02")

	filters := FiltersFromQuery(values)

	if filters.DateFrom != "2024-06-01" {
		t.Errorf("expected date_from 2024-06-01, got %s", filters.DateFrom)
	}
	if !filters.IsRange {
		t.Error("expected is_range true")
	}
	if len(filters.DateList) != 2 {
		t.Errorf("expected 2 date list entries, got %d", len(filters.DateList))
	}
}

func TestTokenCache(t *testing.T) {
	filters := models.SearchFilters{DateFrom: "2024-06-01", DateTo: "2024-06-30", IsRange: true}

	t.Run("previous page returns the saved token", func(t *testing.T) {
		cache := NewTokenCache(newMemoryTokenStore())

		if err := cache.SavePageToken("acct-1", filters, 2, "T2"); err != nil {
			t.Fatalf("failed to save token: %v", err)
		}

		token, err := cache.PreviousPageToken("acct-1", filters, 3)
		if err != nil {
			t.Fatalf("failed to look up token: %v", err)
		}
		if token != "T2" {
			t.Errorf("expected T2, got %q", token)
		}
	})

	t.Run("page zero has no previous token", func(t *testing.T) {
		cache := NewTokenCache(newMemoryTokenStore())

		if err := cache.SavePageToken("acct-1", filters, 0, "T0"); err != nil {
			t.Fatalf("failed to save token: %v", err)
		}

		token, err := cache.PreviousPageToken("acct-1", filters, 0)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if token != "" {
			t.Errorf("expected empty token for page 0, got %q", token)
		}
	})

	t.Run("cache miss yields empty token", func(t *testing.T) {
		cache := NewTokenCache(newMemoryTokenStore())

		token, err := cache.PreviousPageToken("acct-1", filters, 5)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if token != "" {
			t.Errorf("expected empty token on miss, got %q", token)
		}
	})

	t.Run("tokens never cross accounts", func(t *testing.T) {
		cache := NewTokenCache(newMemoryTokenStore())

		if err := cache.SavePageToken("acct-1", filters, 2, "T2"); err != nil {
			t.Fatalf("failed to save token: %v", err)
		}

		token, err := cache.PreviousPageToken("acct-2", filters, 3)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if token != "" {
			t.Errorf("expected empty token for other account, got %q", token)
		}
	})

	t.Run("store errors are wrapped", func(t *testing.T) {
		store := newMemoryTokenStore()
		store.err = fmt.Errorf("disk full")
		cache := NewTokenCache(store)

		if err := cache.SavePageToken("acct-1", filters, 1, "T1"); err == nil {
			t.Error("expected save error")
		}
		if _, err := cache.PreviousPageToken("acct-1", filters, 2); err == nil {
			t.Error("expected lookup error")
		}
	})
}
