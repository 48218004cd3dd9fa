package ui

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/charmbracelet/bubbles/list"
	"github.com/picshuttle/picshuttle/internal/models"
	"github.com/picshuttle/picshuttle/internal/tasks"
	tu "github.com/picshuttle/picshuttle/internal/testing"
)

func testPhotos() []models.MediaItem {
	return []models.MediaItem{
		{ID: "remote-1", Filename: "IMG_0001.jpg", MimeType: "image/jpeg", CreationTime: time.Date(2024, 6, 15, 0, 0, 0, 0, time.UTC)},
		{ID: "remote-2", Filename: "IMG_0002.jpg", MimeType: "image/jpeg"},
		{ID: "remote-3", MimeType: "video/mp4"},
	}
}

func newTestModel(t *testing.T) *Model {
	t.Helper()

	m := NewModel(context.Background(), &tu.MockLibrary{}, nil, "acct-1", models.ImportContext{}, 10)

	photos := testPhotos()
	items := make([]list.Item, len(photos))
	for i, item := range photos {
		items[i] = photoItem{item: item}
	}
	m.photos = photos
	m.photoList = list.New(items, list.NewDefaultDelegate(), 40, 20)

	return m
}

func TestToggleSelected(t *testing.T) {
	t.Run("toggling marks the item and records order", func(t *testing.T) {
		m := newTestModel(t)

		m.toggleSelected()

		if !m.selected["remote-1"] {
			t.Error("expected remote-1 to be selected")
		}
		if len(m.order) != 1 || m.order[0] != "remote-1" {
			t.Errorf("expected order [remote-1], got %v", m.order)
		}

		item, ok := m.photoList.Items()[0].(photoItem)
		if !ok || !item.selected {
			t.Error("expected the list item marker to be set")
		}
	})

	t.Run("toggling twice deselects", func(t *testing.T) {
		m := newTestModel(t)

		m.toggleSelected()
		m.toggleSelected()

		if m.selected["remote-1"] {
			t.Error("expected remote-1 to be deselected")
		}
		if len(m.order) != 0 {
			t.Errorf("expected empty order, got %v", m.order)
		}
	})

	t.Run("selection order follows toggle order", func(t *testing.T) {
		m := newTestModel(t)

		m.photoList.Select(2)
		m.toggleSelected()
		m.photoList.Select(0)
		m.toggleSelected()

		if len(m.order) != 2 || m.order[0] != "remote-3" || m.order[1] != "remote-1" {
			t.Errorf("expected order [remote-3 remote-1], got %v", m.order)
		}
	})
}

func TestUpdatePhotosFetched(t *testing.T) {
	t.Run("populates the photo list", func(t *testing.T) {
		m := NewModel(context.Background(), &tu.MockLibrary{}, nil, "acct-1", models.ImportContext{}, 10)

		updated, _ := m.Update(photosFetchedMsg{photos: testPhotos()})

		model := updated.(*Model)
		if len(model.photoList.Items()) != 3 {
			t.Errorf("expected 3 list items, got %d", len(model.photoList.Items()))
		}
	})

	t.Run("fetch error quits", func(t *testing.T) {
		m := NewModel(context.Background(), &tu.MockLibrary{}, nil, "acct-1", models.ImportContext{}, 10)

		updated, cmd := m.Update(photosFetchedMsg{err: errors.New("listing failed")})

		model := updated.(*Model)
		if model.err == nil {
			t.Error("expected error to be recorded")
		}
		if cmd == nil {
			t.Error("expected quit command")
		}
	})
}

func TestUpdateStepDone(t *testing.T) {
	t.Run("successful final step moves to result view", func(t *testing.T) {
		m := newTestModel(t)
		m.view = ImportView
		m.order = []string{"remote-1"}

		record := models.NewMediaRecord(1, "acct-1", testPhotos()[0])
		updated, cmd := m.Update(stepDoneMsg{
			state:   tasks.BatchState{Processed: 1, Total: 1},
			outcome: tasks.StepOutcome{Record: record, Message: "Processing photo 1 of 1"},
		})

		model := updated.(*Model)
		if model.view != ResultView {
			t.Errorf("expected ResultView, got %v", model.view)
		}
		if model.imported != 1 {
			t.Errorf("expected 1 imported, got %d", model.imported)
		}
		if cmd != nil {
			t.Error("expected no further step command")
		}
	})

	t.Run("failed step records the failure and continues", func(t *testing.T) {
		m := newTestModel(t)
		m.view = ImportView
		m.order = []string{"remote-1", "remote-2"}
		m.engine = tasks.NewBatchEngine(nil, nil)

		updated, cmd := m.Update(stepDoneMsg{
			state:   tasks.BatchState{Remaining: []string{"remote-2"}, Processed: 1, Total: 2},
			outcome: tasks.StepOutcome{Err: errors.New("remote fetch failed"), Message: "failed"},
		})

		model := updated.(*Model)
		if model.view != ImportView {
			t.Errorf("expected to stay in ImportView, got %v", model.view)
		}
		if len(model.failed) != 1 {
			t.Fatalf("expected 1 failure, got %d", len(model.failed))
		}
		if model.failed[0].remoteID != "remote-1" {
			t.Errorf("expected failure attributed to remote-1, got %s", model.failed[0].remoteID)
		}
		if cmd == nil {
			t.Error("expected the next step command")
		}
	})
}
