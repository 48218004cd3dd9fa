package models

import (
	"fmt"
	"time"
)

// MediaRecord represents an imported photo. The remote id is the dedup key:
// at most one record exists per remote id, and re-importing an already
// imported item returns the existing record without refreshing its fields.
type MediaRecord struct {
	id              string
	sequence        int
	accountID       string
	remoteID        string
	filePath        string
	mimeType        string
	width           int
	height          int
	description     string
	filename        string
	remoteCreatedAt time.Time
	eventID         string
	createdAt       time.Time
	updatedAt       time.Time
	deletedAt       *time.Time
}

// NewMediaRecord projects a remote MediaItem into a local record owned by accountID.
func NewMediaRecord(sequence int, accountID string, item MediaItem) *MediaRecord {
	now := time.Now()
	return &MediaRecord{
		sequence:        sequence,
		accountID:       accountID,
		remoteID:        item.ID,
		mimeType:        item.MimeType,
		width:           item.Width,
		height:          item.Height,
		description:     item.Description,
		filename:        item.Filename,
		remoteCreatedAt: item.CreationTime,
		createdAt:       now,
		updatedAt:       now,
	}
}

func (m *MediaRecord) ID() string                 { return m.id }
func (m *MediaRecord) Sequence() int              { return m.sequence }
func (m *MediaRecord) AccountID() string          { return m.accountID }
func (m *MediaRecord) RemoteID() string           { return m.remoteID }
func (m *MediaRecord) FilePath() string           { return m.filePath }
func (m *MediaRecord) MimeType() string           { return m.mimeType }
func (m *MediaRecord) Width() int                 { return m.width }
func (m *MediaRecord) Height() int                { return m.height }
func (m *MediaRecord) Description() string        { return m.description }
func (m *MediaRecord) Filename() string           { return m.filename }
func (m *MediaRecord) RemoteCreatedAt() time.Time { return m.remoteCreatedAt }
func (m *MediaRecord) EventID() string            { return m.eventID }
func (m *MediaRecord) CreatedAt() time.Time       { return m.createdAt }
func (m *MediaRecord) UpdatedAt() time.Time       { return m.updatedAt }
func (m *MediaRecord) DeletedAt() *time.Time      { return m.deletedAt }

func (m *MediaRecord) SetID(id string)           { m.id = id }
func (m *MediaRecord) SetFilePath(path string)   { m.filePath = path }
func (m *MediaRecord) SetEventID(id string)      { m.eventID = id }
func (m *MediaRecord) SetUpdatedAt(t time.Time)  { m.updatedAt = t }
func (m *MediaRecord) SetDeletedAt(t *time.Time) { m.deletedAt = t }

// Validate checks that required media fields are set.
func (m *MediaRecord) Validate() error {
	if m.remoteID == "" {
		return fmt.Errorf("media remote id is required")
	}
	return nil
}
