package models

import (
	"bytes"
	"encoding/json"
	"fmt"
)

// Selection is an ordered, deduplicated set of remote media ids chosen by the user.
// It is never persisted; it travels once per submission as a serialized payload.
type Selection struct {
	ids  []string
	seen map[string]bool
}

// NewSelection creates a Selection from the given ids, preserving order and dropping duplicates.
func NewSelection(ids ...string) *Selection {
	s := &Selection{seen: make(map[string]bool)}
	for _, id := range ids {
		s.Add(id)
	}
	return s
}

// Add appends an id unless it is empty or already selected.
func (s *Selection) Add(id string) {
	if id == "" || s.seen[id] {
		return
	}
	s.seen[id] = true
	s.ids = append(s.ids, id)
}

// Contains reports whether the id is selected.
func (s *Selection) Contains(id string) bool { return s.seen[id] }

// IDs returns the selected ids in insertion order.
func (s *Selection) IDs() []string { return append([]string(nil), s.ids...) }

// Len returns the number of selected ids.
func (s *Selection) Len() int { return len(s.ids) }

// ParseSelection decodes a selection payload, a JSON array of media id strings.
func ParseSelection(payload []byte) (*Selection, error) {
	var ids []string
	if err := json.Unmarshal(payload, &ids); err != nil {
		return nil, fmt.Errorf("failed to parse selection payload: %w", err)
	}
	return NewSelection(ids...), nil
}

// AlbumEntry pairs an album id with its title.
type AlbumEntry struct {
	ID    string
	Title string
}

// AlbumSelection is an ordered list of selected albums. Order matters:
// an item present in several albums is attributed to the first album
// in submission order that contains it.
type AlbumSelection []AlbumEntry

// ParseAlbumSelection decodes an album selection payload, a JSON object
// of album id to title. Key order in the document is preserved.
func ParseAlbumSelection(payload []byte) (AlbumSelection, error) {
	dec := json.NewDecoder(bytes.NewReader(payload))

	tok, err := dec.Token()
	if err != nil {
		return nil, fmt.Errorf("failed to parse album selection payload: %w", err)
	}
	if delim, ok := tok.(json.Delim); !ok || delim != '{' {
		return nil, fmt.Errorf("album selection payload must be a JSON object")
	}

	var selection AlbumSelection
	seen := make(map[string]bool)

	for dec.More() {
		keyTok, err := dec.Token()
		if err != nil {
			return nil, fmt.Errorf("failed to parse album selection payload: %w", err)
		}
		id, ok := keyTok.(string)
		if !ok {
			return nil, fmt.Errorf("album selection key is not a string")
		}

		var title string
		if err := dec.Decode(&title); err != nil {
			return nil, fmt.Errorf("failed to parse album title for %s: %w", id, err)
		}

		if seen[id] {
			continue
		}
		seen[id] = true
		selection = append(selection, AlbumEntry{ID: id, Title: title})
	}

	return selection, nil
}

// AlbumGroup is one album of a submission together with the media ids
// attributed to it. Built by the album mapping step; overlapping items
// belong to the earliest group.
type AlbumGroup struct {
	ID      string   `json:"id"`
	Title   string   `json:"title"`
	Members []string `json:"members"`
}

// Contains reports whether the remote media id belongs to this group.
func (g AlbumGroup) Contains(remoteID string) bool {
	for _, m := range g.Members {
		if m == remoteID {
			return true
		}
	}
	return false
}

// ImportContext carries the per-submission settings every imported item
// shares: the destination collection, the album mapping and whether
// events should be created from albums. JSON-serializable so it can ride
// inside queue task payloads.
type ImportContext struct {
	CollectionID string       `json:"collection_id"`
	Albums       []AlbumGroup `json:"albums,omitempty"`
	CreateEvents bool         `json:"create_events,omitempty"`
}
