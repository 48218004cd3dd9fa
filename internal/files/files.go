// Package files stores downloaded photo content on disk.
//
// Media is bucketed by capture month under the library root. Retrieval is
// idempotent: content already on disk is reused rather than downloaded again,
// so re-importing an item never re-fetches its bytes.
package files

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"

	"github.com/picshuttle/picshuttle/internal/models"
	"github.com/picshuttle/picshuttle/internal/shared"
)

// Store writes media content into a local library directory.
type Store struct {
	root       string
	httpClient *http.Client
}

// NewStore creates a Store rooted at the given directory. A nil client falls
// back to [http.DefaultClient].
func NewStore(root string, client *http.Client) *Store {
	if client == nil {
		client = http.DefaultClient
	}
	return &Store{root: root, httpClient: client}
}

// Retrieve ensures the item's content exists on disk and returns its path.
// Existing content is reused without contacting the remote library.
func (s *Store) Retrieve(ctx context.Context, item models.MediaItem) (string, error) {
	path := s.contentPath(item)

	if _, err := os.Stat(path); err == nil {
		return path, nil
	}

	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return "", fmt.Errorf("%w: failed to prepare directory: %v", shared.ErrContentRetrieval, err)
	}

	if err := s.download(ctx, item.BaseURL, path); err != nil {
		return "", err
	}

	return path, nil
}

// contentPath buckets items by capture month, falling back to the remote id
// when no filename was supplied.
func (s *Store) contentPath(item models.MediaItem) string {
	bucket := "undated"
	if !item.CreationTime.IsZero() {
		bucket = item.CreationTime.Format("2006-01")
	}

	filename := item.Filename
	if filename == "" {
		filename = item.ID + extensionFor(item.MimeType)
	}

	return filepath.Join(s.root, bucket, filename)
}

// download fetches the item's full-resolution bytes. The =d suffix asks the
// content server for the original file rather than a scaled preview.
func (s *Store) download(ctx context.Context, baseURL, path string) error {
	if baseURL == "" {
		return fmt.Errorf("%w: item has no content URL", shared.ErrContentRetrieval)
	}

	req, err := http.NewRequestWithContext(ctx, "GET", baseURL+"=d", nil)
	if err != nil {
		return fmt.Errorf("%w: failed to create request: %v", shared.ErrContentRetrieval, err)
	}

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %v", shared.ErrContentRetrieval, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return fmt.Errorf("%w: status %d", shared.ErrContentRetrieval, resp.StatusCode)
	}

	tmp, err := os.CreateTemp(filepath.Dir(path), ".download-*")
	if err != nil {
		return fmt.Errorf("%w: failed to create temp file: %v", shared.ErrContentRetrieval, err)
	}

	if _, err := io.Copy(tmp, resp.Body); err != nil {
		tmp.Close()
		os.Remove(tmp.Name())
		return fmt.Errorf("%w: failed to write content: %v", shared.ErrContentRetrieval, err)
	}

	if err := tmp.Close(); err != nil {
		os.Remove(tmp.Name())
		return fmt.Errorf("%w: failed to close temp file: %v", shared.ErrContentRetrieval, err)
	}

	if err := os.Rename(tmp.Name(), path); err != nil {
		os.Remove(tmp.Name())
		return fmt.Errorf("%w: failed to move content into place: %v", shared.ErrContentRetrieval, err)
	}

	return nil
}

// extensionFor maps common photo and video mime types to file extensions
func extensionFor(mimeType string) string {
	switch mimeType {
	case "image/jpeg":
		return ".jpg"
	case "image/png":
		return ".png"
	case "image/gif":
		return ".gif"
	case "image/heic":
		return ".heic"
	case "image/webp":
		return ".webp"
	case "video/mp4":
		return ".mp4"
	case "video/quicktime":
		return ".mov"
	default:
		return ".bin"
	}
}
