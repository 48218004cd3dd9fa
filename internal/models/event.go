package models

import (
	"fmt"
	"time"
)

// Event is the grouping entity derived from a remote album. The album id is
// the dedup key: at most one event exists per album id.
type Event struct {
	id        string
	sequence  int
	accountID string
	albumID   string
	title     string
	createdAt time.Time
	updatedAt time.Time
	deletedAt *time.Time
}

// NewEvent creates an Event for the given album owned by accountID.
func NewEvent(sequence int, accountID, albumID, title string) *Event {
	now := time.Now()
	return &Event{
		sequence:  sequence,
		accountID: accountID,
		albumID:   albumID,
		title:     title,
		createdAt: now,
		updatedAt: now,
	}
}

func (e *Event) ID() string            { return e.id }
func (e *Event) Sequence() int         { return e.sequence }
func (e *Event) AccountID() string     { return e.accountID }
func (e *Event) AlbumID() string       { return e.albumID }
func (e *Event) Title() string         { return e.title }
func (e *Event) CreatedAt() time.Time  { return e.createdAt }
func (e *Event) UpdatedAt() time.Time  { return e.updatedAt }
func (e *Event) DeletedAt() *time.Time { return e.deletedAt }

func (e *Event) SetID(id string)           { e.id = id }
func (e *Event) SetTitle(title string)     { e.title = title }
func (e *Event) SetUpdatedAt(t time.Time)  { e.updatedAt = t }
func (e *Event) SetDeletedAt(t *time.Time) { e.deletedAt = t }

// Validate checks that required event fields are set.
func (e *Event) Validate() error {
	if e.albumID == "" {
		return fmt.Errorf("event album id is required")
	}
	if e.title == "" {
		return fmt.Errorf("event title is required")
	}
	return nil
}
