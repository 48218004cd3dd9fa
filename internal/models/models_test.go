package models

import (
	"testing"
	"time"
)

func TestSelection(t *testing.T) {
	t.Run("preserves order and drops duplicates", func(t *testing.T) {
		s := NewSelection("p3", "p1", "p3", "p2", "", "p1")

		ids := s.IDs()
		want := []string{"p3", "p1", "p2"}

		if len(ids) != len(want) {
			t.Fatalf("expected %d ids, got %d", len(want), len(ids))
		}
		for i, id := range want {
			if ids[i] != id {
				t.Errorf("expected id %s at position %d, got %s", id, i, ids[i])
			}
		}

		if !s.Contains("p2") {
			t.Error("expected selection to contain p2")
		}
		if s.Contains("p4") {
			t.Error("expected selection to not contain p4")
		}
	})

	t.Run("ParseSelection", func(t *testing.T) {
		s, err := ParseSelection([]byte(`["a","b","a","c"]`))
		if err != nil {
			t.Fatalf("failed to parse selection: %v", err)
		}
		if s.Len() != 3 {
			t.Errorf("expected 3 ids, got %d", s.Len())
		}

		if _, err := ParseSelection([]byte(`{"a":"b"}`)); err == nil {
			t.Error("expected error for object payload")
		}
	})
}

func TestParseAlbumSelection(t *testing.T) {
	t.Run("preserves document order", func(t *testing.T) {
		payload := []byte(`{"alb-z":"Zoo Trip","alb-a":"Anniversary","alb-m":"Mountains"}`)

		selection, err := ParseAlbumSelection(payload)
		if err != nil {
			t.Fatalf("failed to parse album selection: %v", err)
		}

		if len(selection) != 3 {
			t.Fatalf("expected 3 albums, got %d", len(selection))
		}

		wantOrder := []string{"alb-z", "alb-a", "alb-m"}
		for i, id := range wantOrder {
			if selection[i].ID != id {
				t.Errorf("expected album %s at position %d, got %s", id, i, selection[i].ID)
			}
		}

		if selection[1].Title != "Anniversary" {
			t.Errorf("expected title Anniversary, got %s", selection[1].Title)
		}
	})

	t.Run("rejects non-object payload", func(t *testing.T) {
		if _, err := ParseAlbumSelection([]byte(`["alb-1"]`)); err == nil {
			t.Error("expected error for array payload")
		}
	})

	t.Run("skips duplicate keys", func(t *testing.T) {
		selection, err := ParseAlbumSelection([]byte(`{"alb-1":"First","alb-1":"Second"}`))
		if err != nil {
			t.Fatalf("failed to parse album selection: %v", err)
		}
		if len(selection) != 1 {
			t.Fatalf("expected 1 album, got %d", len(selection))
		}
		if selection[0].Title != "First" {
			t.Errorf("expected first occurrence to win, got %s", selection[0].Title)
		}
	})
}

func TestAlbumGroup_Contains(t *testing.T) {
	group := AlbumGroup{ID: "alb-1", Title: "Trip", Members: []string{"p1", "p2"}}

	if !group.Contains("p1") {
		t.Error("expected group to contain p1")
	}
	if group.Contains("p9") {
		t.Error("expected group to not contain p9")
	}
}

func TestModelValidation(t *testing.T) {
	tc := []struct {
		name    string
		model   Model
		wantErr bool
	}{
		{"valid account", NewAccount(0, "alice", "alice@example.com"), false},
		{"account missing username", NewAccount(0, "", "alice@example.com"), true},
		{"account missing email", NewAccount(0, "alice", ""), true},
		{"valid media", NewMediaRecord(0, "acct-1", MediaItem{ID: "remote-1"}), false},
		{"media missing remote id", NewMediaRecord(0, "acct-1", MediaItem{}), true},
		{"valid event", NewEvent(0, "acct-1", "alb-1", "Trip"), false},
		{"event missing album id", NewEvent(0, "acct-1", "", "Trip"), true},
		{"event missing title", NewEvent(0, "acct-1", "alb-1", ""), true},
		{"valid collection", NewCollection(0, "acct-1", "Family"), false},
		{"collection missing name", NewCollection(0, "acct-1", ""), true},
	}

	for _, tt := range tc {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.model.Validate()
			if tt.wantErr && err == nil {
				t.Error("expected validation error")
			}
			if !tt.wantErr && err != nil {
				t.Errorf("expected no error, got %v", err)
			}
		})
	}
}

func TestAccountToken(t *testing.T) {
	account := NewAccount(0, "alice", "alice@example.com")

	if account.Connected() {
		t.Error("new account should not be connected")
	}

	expiry := time.Now().Add(time.Hour)
	account.SetToken("access", "refresh", expiry)

	if !account.Connected() {
		t.Error("account with access token should be connected")
	}
	if account.RefreshToken() != "refresh" {
		t.Errorf("expected refresh token, got %s", account.RefreshToken())
	}
	if !account.TokenExpiry().Equal(expiry) {
		t.Errorf("expected expiry %v, got %v", expiry, account.TokenExpiry())
	}
}

func TestMediaRecordProjection(t *testing.T) {
	created := time.Date(2024, 6, 15, 10, 0, 0, 0, time.UTC)
	item := MediaItem{
		ID:           "remote-1",
		BaseURL:      "https://photos.example.com/content/remote-1",
		MimeType:     "image/jpeg",
		Width:        4000,
		Height:       3000,
		CreationTime: created,
		Description:  "Beach day",
		Filename:     "IMG_0042.jpg",
	}

	record := NewMediaRecord(0, "acct-1", item)

	if record.RemoteID() != "remote-1" {
		t.Errorf("expected remote id remote-1, got %s", record.RemoteID())
	}
	if record.MimeType() != "image/jpeg" {
		t.Errorf("expected mime type image/jpeg, got %s", record.MimeType())
	}
	if record.Width() != 4000 || record.Height() != 3000 {
		t.Errorf("expected 4000x3000, got %dx%d", record.Width(), record.Height())
	}
	if !record.RemoteCreatedAt().Equal(created) {
		t.Errorf("expected remote creation time %v, got %v", created, record.RemoteCreatedAt())
	}
	if record.Filename() != "IMG_0042.jpg" {
		t.Errorf("expected filename IMG_0042.jpg, got %s", record.Filename())
	}
}
