// package services defines interface Library for interacting with remote photo APIs
package services

import (
	"context"

	"github.com/picshuttle/picshuttle/internal/models"
)

// Library defines the interface for a remote photo provider that can list,
// search, and fetch media items and shared albums.
type Library interface {
	// SearchMedia lists media items matching the query's date filters,
	// one page per call. An empty page token starts from the beginning.
	SearchMedia(ctx context.Context, query models.SearchQuery) (*models.MediaPage, error)

	// ListAlbums retrieves the shared albums visible to the account.
	ListAlbums(ctx context.Context, pageSize int, pageToken string) (*models.AlbumPage, error)

	// AlbumMedia lists the media items belonging to an album.
	AlbumMedia(ctx context.Context, albumID string, pageSize int, pageToken string) (*models.MediaPage, error)

	// MediaItem retrieves a single media item by its remote id.
	MediaItem(ctx context.Context, id string) (*models.MediaItem, error)

	// Name returns the name of the provider (e.g., "Photos")
	Name() string
}
