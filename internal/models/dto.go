package models

import "time"

// MediaItem represents a photo in the remote library.
type MediaItem struct {
	ID           string    `json:"id"`
	BaseURL      string    `json:"base_url"`
	MimeType     string    `json:"mime_type"`
	Width        int       `json:"width"`
	Height       int       `json:"height"`
	CreationTime time.Time `json:"creation_time"`
	Description  string    `json:"description,omitempty"`
	Filename     string    `json:"filename,omitempty"`
	ProductURL   string    `json:"product_url,omitempty"`
}

// Album represents a shared album in the remote library.
type Album struct {
	ID        string `json:"id"`
	Title     string `json:"title"`
	CoverURL  string `json:"cover_url,omitempty"`
	ItemCount int    `json:"item_count"`
}

// MediaPage is one page of a media listing. An empty NextPageToken signals the last page.
type MediaPage struct {
	Items         []MediaItem `json:"items"`
	NextPageToken string      `json:"next_page_token,omitempty"`
}

// AlbumPage is one page of an album listing.
type AlbumPage struct {
	Albums        []Album `json:"albums"`
	NextPageToken string  `json:"next_page_token,omitempty"`
}

// SearchFilters carries the date constraints of a media listing.
// Dates use the YYYY-MM-DD form. When IsRange is set, DateFrom/DateTo
// bound a single range; otherwise DateList enumerates individual days.
type SearchFilters struct {
	DateFrom string   `json:"date_from,omitempty"`
	DateTo   string   `json:"date_to,omitempty"`
	IsRange  bool     `json:"is_range,omitempty"`
	DateList []string `json:"date_list,omitempty"`
}

// Empty reports whether no date constraint is set.
func (f SearchFilters) Empty() bool {
	return f.DateFrom == "" && f.DateTo == "" && len(f.DateList) == 0
}

// SearchQuery is a single media listing request.
type SearchQuery struct {
	Filters   SearchFilters `json:"filters"`
	AlbumID   string        `json:"album_id,omitempty"`
	PageSize  int           `json:"page_size,omitempty"`
	PageToken string        `json:"page_token,omitempty"`
}
