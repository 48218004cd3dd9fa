// package tasks implements the photo import pipeline and the engines that drive it.
//
// The core abstraction is Importer, which turns one remote media id into a local
// record: connect as the acting account, fetch the item, store its content,
// dedup against existing records, and resolve its album grouping. BatchEngine
// drives the pipeline synchronously one item per tick; QueueEngine drives it
// from durable tasks under a scheduler.
package tasks

import (
	"context"
	"fmt"
	"time"

	"github.com/charmbracelet/log"
	"github.com/picshuttle/picshuttle/internal/models"
	"github.com/picshuttle/picshuttle/internal/services"
	"github.com/picshuttle/picshuttle/internal/shared"
)

// AccountSource loads the acting account for a pipeline run.
type AccountSource interface {
	Get(id string) (*models.Account, error)
}

// MediaStore persists local media records keyed by remote id.
type MediaStore interface {
	GetByRemoteID(remoteID string) (*models.MediaRecord, error)
	CreateIfAbsent(media *models.MediaRecord) (*models.MediaRecord, bool, error)
	SetEvent(mediaID, eventID string) error
}

// EventStore persists grouping events keyed by remote album id.
type EventStore interface {
	CreateIfAbsent(event *models.Event) (*models.Event, bool, error)
}

// CollectionStore resolves destination collections and links imported content
// to them.
type CollectionStore interface {
	Get(id string) (*models.Collection, error)
	AttachMedia(collectionID, mediaID string) error
	AttachEvent(collectionID, eventID string) error
}

// ContentStore downloads and stores item content, returning the local path.
type ContentStore interface {
	Retrieve(ctx context.Context, item models.MediaItem) (string, error)
}

// Connector builds a remote library client authenticated as the given account.
type Connector interface {
	Connect(ctx context.Context, account *models.Account) (services.Library, error)
}

// ImportRunner is the pipeline surface the engines drive.
type ImportRunner interface {
	ImportOne(ctx context.Context, remoteID, actorID string, importCtx models.ImportContext) (*models.MediaRecord, error)
}

// Importer orchestrates a single item import end to end. It holds no per-run
// state; the acting account's credentials are loaded fresh on every call, so
// runs on behalf of different accounts never share a client.
type Importer struct {
	accounts    AccountSource
	media       MediaStore
	events      EventStore
	collections CollectionStore
	content     ContentStore
	connector   Connector
	logger      *log.Logger
}

// NewImporter creates an Importer with the provided collaborators.
func NewImporter(accounts AccountSource, media MediaStore, events EventStore, collections CollectionStore, content ContentStore, connector Connector, logger *log.Logger) *Importer {
	if logger == nil {
		logger = shared.NewLogger(nil)
	}
	return &Importer{
		accounts:    accounts,
		media:       media,
		events:      events,
		collections: collections,
		content:     content,
		connector:   connector,
		logger:      logger,
	}
}

// ImportOne imports a single remote media item on behalf of actorID.
//
// The flow: authenticate as the actor, fetch the remote item, find or create
// the local record, resolve the album grouping from the submission context,
// and attach everything to the destination collection. Returns the resulting
// record; callers own retry and failure policy.
func (i *Importer) ImportOne(ctx context.Context, remoteID, actorID string, importCtx models.ImportContext) (*models.MediaRecord, error) {
	account, err := i.accounts.Get(actorID)
	if err != nil {
		return nil, fmt.Errorf("failed to load acting account: %w", err)
	}

	lib, err := i.connector.Connect(ctx, account)
	if err != nil {
		return nil, err
	}

	record, err := i.findOrCreateMedia(ctx, lib, remoteID, account)
	if err != nil {
		return nil, err
	}

	event, err := i.resolveEvent(account, importCtx, remoteID, record.RemoteCreatedAt())
	if err != nil {
		return nil, err
	}

	if importCtx.CollectionID != "" {
		if err := i.collections.AttachMedia(importCtx.CollectionID, record.ID()); err != nil {
			return nil, fmt.Errorf("failed to attach media to collection: %w", err)
		}
	}

	if event != nil {
		if record.EventID() == "" {
			if err := i.media.SetEvent(record.ID(), event.ID()); err != nil {
				return nil, fmt.Errorf("failed to link media to event: %w", err)
			}
		}
		if importCtx.CollectionID != "" {
			if err := i.collections.AttachEvent(importCtx.CollectionID, event.ID()); err != nil {
				return nil, fmt.Errorf("failed to attach event to collection: %w", err)
			}
		}
	}

	return record, nil
}

// findOrCreateMedia returns the record for the remote id, importing it when
// absent. An existing record is returned unchanged: re-import never refreshes
// already-imported metadata or content.
func (i *Importer) findOrCreateMedia(ctx context.Context, lib services.Library, remoteID string, account *models.Account) (*models.MediaRecord, error) {
	if existing, err := i.media.GetByRemoteID(remoteID); err == nil {
		i.logger.Debug("media already imported", "remote_id", remoteID)
		return existing, nil
	}

	item, err := lib.MediaItem(ctx, remoteID)
	if err != nil {
		return nil, err
	}

	path, err := i.content.Retrieve(ctx, *item)
	if err != nil {
		return nil, err
	}

	record := models.NewMediaRecord(0, account.ID(), *item)
	record.SetFilePath(path)

	stored, created, err := i.media.CreateIfAbsent(record)
	if err != nil {
		return nil, fmt.Errorf("failed to persist media: %w", err)
	}
	if !created {
		// another worker won the insert race; their record stands
		i.logger.Debug("media imported concurrently", "remote_id", remoteID)
	}

	return stored, nil
}

// resolveEvent finds which album of the submission claims this item and
// returns its grouping event, creating it on first use. Returns nil when the
// item was imported outside any album context.
func (i *Importer) resolveEvent(account *models.Account, importCtx models.ImportContext, remoteID string, createdAt time.Time) (*models.Event, error) {
	if !importCtx.CreateEvents {
		return nil, nil
	}

	for _, group := range importCtx.Albums {
		if !group.Contains(remoteID) {
			continue
		}

		title := group.Title
		if title == "" {
			title = i.compositeTitle(account, importCtx.CollectionID, createdAt)
		}

		event, _, err := i.events.CreateIfAbsent(models.NewEvent(0, account.ID(), group.ID, title))
		if err != nil {
			return nil, fmt.Errorf("failed to resolve event for album %s: %w", group.ID, err)
		}
		return event, nil
	}

	return nil, nil
}

// compositeTitle builds an event title for albums the remote library returned
// without one.
func (i *Importer) compositeTitle(account *models.Account, collectionID string, createdAt time.Time) string {
	name := "photos"
	if collectionID != "" {
		if collection, err := i.collections.Get(collectionID); err == nil {
			name = collection.Name()
		}
	}

	when := "undated"
	if !createdAt.IsZero() {
		when = createdAt.Format("January 2, 2006")
	}

	return fmt.Sprintf("%s - %s - %s", account.Username(), name, when)
}
