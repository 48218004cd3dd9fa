package tasks

import (
	"context"
	"fmt"

	"github.com/picshuttle/picshuttle/internal/models"
	"github.com/picshuttle/picshuttle/internal/services"
)

// BuildAlbumMapping fetches the member ids of every selected album and
// attributes each id to the first album in submission order that contains it.
// An item appearing in several selected albums is claimed once; later albums
// see only their genuinely new members.
//
// Returns the album groups in submission order and the flat ordered list of
// all claimed ids, ready for enqueueing or batching.
func BuildAlbumMapping(ctx context.Context, lib services.Library, selection models.AlbumSelection, pageSize int, progress chan<- ProgressUpdate) ([]models.AlbumGroup, []string, error) {
	seen := make(map[string]bool)

	var groups []models.AlbumGroup
	var allIDs []string

	for i, entry := range selection {
		sendProgress(progress, mappingAlbumUpdate(i+1, len(selection), entry.Title))

		members, err := albumMemberIDs(ctx, lib, entry.ID, pageSize)
		if err != nil {
			return nil, nil, fmt.Errorf("failed to list album %s: %w", entry.ID, err)
		}

		group := models.AlbumGroup{ID: entry.ID, Title: entry.Title}
		for _, id := range members {
			if seen[id] {
				continue
			}
			seen[id] = true
			group.Members = append(group.Members, id)
			allIDs = append(allIDs, id)
		}

		groups = append(groups, group)
	}

	return groups, allIDs, nil
}

// albumMemberIDs pages through an album until the remote library reports no
// further page.
func albumMemberIDs(ctx context.Context, lib services.Library, albumID string, pageSize int) ([]string, error) {
	var ids []string
	pageToken := ""

	for {
		page, err := lib.AlbumMedia(ctx, albumID, pageSize, pageToken)
		if err != nil {
			return nil, err
		}

		for _, item := range page.Items {
			ids = append(ids, item.ID)
		}

		if page.NextPageToken == "" {
			return ids, nil
		}
		pageToken = page.NextPageToken
	}
}
