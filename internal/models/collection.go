package models

import (
	"fmt"
	"time"
)

// Collection is the destination content entity imported media and events
// attach to. Attachment is idempotent at the persistence layer.
type Collection struct {
	id        string
	sequence  int
	accountID string
	name      string
	createdAt time.Time
	updatedAt time.Time
	deletedAt *time.Time
}

// NewCollection creates a Collection owned by accountID.
func NewCollection(sequence int, accountID, name string) *Collection {
	now := time.Now()
	return &Collection{
		sequence:  sequence,
		accountID: accountID,
		name:      name,
		createdAt: now,
		updatedAt: now,
	}
}

func (c *Collection) ID() string            { return c.id }
func (c *Collection) Sequence() int         { return c.sequence }
func (c *Collection) AccountID() string     { return c.accountID }
func (c *Collection) Name() string          { return c.name }
func (c *Collection) CreatedAt() time.Time  { return c.createdAt }
func (c *Collection) UpdatedAt() time.Time  { return c.updatedAt }
func (c *Collection) DeletedAt() *time.Time { return c.deletedAt }

func (c *Collection) SetID(id string)           { c.id = id }
func (c *Collection) SetName(name string)       { c.name = name }
func (c *Collection) SetUpdatedAt(t time.Time)  { c.updatedAt = t }
func (c *Collection) SetDeletedAt(t *time.Time) { c.deletedAt = t }

// Validate checks that required collection fields are set.
func (c *Collection) Validate() error {
	if c.name == "" {
		return fmt.Errorf("collection name is required")
	}
	return nil
}
