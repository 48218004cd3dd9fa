package ui

import (
	"context"
	"fmt"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/list"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/picshuttle/picshuttle/internal/models"
	"github.com/picshuttle/picshuttle/internal/services"
	"github.com/picshuttle/picshuttle/internal/tasks"
)

// ViewState represents the current view in the TUI.
type ViewState int

const (
	PhotoListView ViewState = iota
	ConfirmView
	ImportView
	ResultView
)

// failedImport records one item the import pass gave up on.
type failedImport struct {
	remoteID string
	err      error
}

// Model represents the TUI application state.
type Model struct {
	ctx       context.Context
	view      ViewState
	library   services.Library
	engine    *tasks.BatchEngine
	actorID   string
	importCtx models.ImportContext
	pageSize  int
	width     int
	height    int
	photoList list.Model
	photos    []models.MediaItem
	selected  map[string]bool
	order     []string
	state     tasks.BatchState
	status    string
	imported  int
	failed    []failedImport
	err       error
	help      help.Model
	keys      keyMap
}

type photosFetchedMsg struct {
	photos []models.MediaItem
	err    error
}

type stepDoneMsg struct {
	state   tasks.BatchState
	outcome tasks.StepOutcome
}

// NewModel creates a new TUI model with the provided dependencies.
func NewModel(ctx context.Context, library services.Library, engine *tasks.BatchEngine, actorID string, importCtx models.ImportContext, pageSize int) *Model {
	if pageSize <= 0 {
		pageSize = 50
	}
	return &Model{
		ctx:       ctx,
		view:      PhotoListView,
		library:   library,
		engine:    engine,
		actorID:   actorID,
		importCtx: importCtx,
		pageSize:  pageSize,
		selected:  make(map[string]bool),
		help:      help.New(),
		keys:      newKeyMap(),
	}
}

// Init initializes the TUI by fetching photos from the remote library.
func (m *Model) Init() tea.Cmd {
	return m.fetchPhotos()
}

// Update handles incoming messages and updates the model state.
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		if m.photoList.Width() == 0 {
			m.photoList.SetSize(msg.Width-4, msg.Height-8)
		}
		return m, nil

	case tea.KeyMsg:
		switch m.view {
		case PhotoListView:
			return m.handlePhotoListKeys(msg)
		case ConfirmView:
			return m.handleConfirmKeys(msg)
		case ResultView:
			return m.handleResultKeys(msg)
		}

	case photosFetchedMsg:
		if msg.err != nil {
			m.err = msg.err
			return m, tea.Quit
		}
		m.photos = msg.photos
		items := make([]list.Item, len(msg.photos))
		for i, item := range msg.photos {
			items[i] = photoItem{item: item}
		}
		m.photoList = list.New(items, list.NewDefaultDelegate(), 0, 0)
		m.photoList.Title = "Library Photos"
		m.photoList.SetSize(m.width-4, m.height-8)
		return m, nil

	case stepDoneMsg:
		m.state = msg.state
		m.status = msg.outcome.Message
		if msg.outcome.Err != nil {
			failed := failedImport{err: msg.outcome.Err}
			if n := msg.state.Processed - 1; n >= 0 && n < len(m.order) {
				failed.remoteID = m.order[n]
			}
			m.failed = append(m.failed, failed)
		} else if msg.outcome.Record != nil {
			m.imported++
		}
		if msg.state.Done() {
			m.view = ResultView
			return m, nil
		}
		return m, m.stepImport()
	}

	if m.view == PhotoListView {
		var cmd tea.Cmd
		m.photoList, cmd = m.photoList.Update(msg)
		return m, cmd
	}
	return m, nil
}

// View renders the UI based on the current view state.
func (m *Model) View() string {
	if m.err != nil && m.view != ResultView {
		return styles.err.Render(fmt.Sprintf("Error: %v\n\nPress q to quit", m.err))
	}

	switch m.view {
	case PhotoListView:
		return m.renderPhotoList()
	case ConfirmView:
		return m.renderConfirm()
	case ImportView:
		return m.renderImport()
	case ResultView:
		return m.renderResult()
	default:
		return ""
	}
}

func (m *Model) handlePhotoListKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "q", "ctrl+c":
		return m, tea.Quit
	case " ":
		m.toggleSelected()
		return m, nil
	case "enter":
		if len(m.order) > 0 {
			m.view = ConfirmView
		}
		return m, nil
	}

	var cmd tea.Cmd
	m.photoList, cmd = m.photoList.Update(msg)
	return m, cmd
}

func (m *Model) handleConfirmKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "q", "ctrl+c":
		return m, tea.Quit
	case "n", "esc":
		m.view = PhotoListView
		return m, nil
	case "y":
		m.view = ImportView
		return m, m.startImport()
	}
	return m, nil
}

func (m *Model) handleResultKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "q", "ctrl+c":
		return m, tea.Quit
	case "r":
		m.view = PhotoListView
		m.selected = make(map[string]bool)
		m.order = nil
		m.state = tasks.BatchState{}
		m.status = ""
		m.imported = 0
		m.failed = nil
		m.err = nil
		m.syncMarkers()
		return m, nil
	}
	return m, nil
}

// toggleSelected flips the selection marker on the item under the cursor,
// keeping submission order stable across toggles.
func (m *Model) toggleSelected() {
	item, ok := m.photoList.SelectedItem().(photoItem)
	if !ok {
		return
	}

	id := item.item.ID
	if m.selected[id] {
		delete(m.selected, id)
		for i, existing := range m.order {
			if existing == id {
				m.order = append(m.order[:i], m.order[i+1:]...)
				break
			}
		}
	} else {
		m.selected[id] = true
		m.order = append(m.order, id)
	}

	item.selected = m.selected[id]
	m.photoList.SetItem(m.photoList.Index(), item)
}

func (m *Model) syncMarkers() {
	for i, li := range m.photoList.Items() {
		if item, ok := li.(photoItem); ok && item.selected != m.selected[item.item.ID] {
			item.selected = m.selected[item.item.ID]
			m.photoList.SetItem(i, item)
		}
	}
}

func (m *Model) fetchPhotos() tea.Cmd {
	return func() tea.Msg {
		var photos []models.MediaItem
		token := ""
		for {
			page, err := m.library.SearchMedia(m.ctx, models.SearchQuery{PageSize: m.pageSize, PageToken: token})
			if err != nil {
				return photosFetchedMsg{err: err}
			}
			photos = append(photos, page.Items...)
			if page.NextPageToken == "" {
				return photosFetchedMsg{photos: photos}
			}
			token = page.NextPageToken
		}
	}
}

func (m *Model) startImport() tea.Cmd {
	m.state = tasks.NewBatchState(m.order)
	m.status = ""
	m.imported = 0
	m.failed = nil
	return m.stepImport()
}

func (m *Model) stepImport() tea.Cmd {
	state := m.state
	return func() tea.Msg {
		next, outcome := m.engine.Step(m.ctx, state, m.actorID, m.importCtx)
		return stepDoneMsg{state: next, outcome: outcome}
	}
}

func (m *Model) renderPhotoList() string {
	helpKeys := []key.Binding{m.keys.toggle, m.keys.enter, m.keys.quit}
	helpView := m.help.ShortHelpView(helpKeys)
	count := styles.help.Render(fmt.Sprintf("%d selected", len(m.order)))
	return fmt.Sprintf("%s\n%s\n\n%s", m.photoList.View(), count, helpView)
}

func (m *Model) renderConfirm() string {
	title := styles.title.Render(fmt.Sprintf("Import %d selected photos?", len(m.order)))
	info := fmt.Sprintf("\nPhotos: %d\n", len(m.order))
	if m.importCtx.CollectionID != "" {
		info = fmt.Sprintf("%sCollection: %s\n", info, m.importCtx.CollectionID)
	}

	helpKeys := []key.Binding{m.keys.yes, m.keys.no, m.keys.quit}
	helpView := m.help.ShortHelpView(helpKeys)

	return fmt.Sprintf("%s\n%s\n%s", title, info, helpView)
}

func (m *Model) renderImport() string {
	title := styles.title.Render("Importing Photos")
	progress := fmt.Sprintf("%.0f%% (%d/%d)", m.state.Finished()*100, m.state.Processed, m.state.Total)
	return fmt.Sprintf("%s\n\n%s\n%s", title, progress, m.status)
}

func (m *Model) renderResult() string {
	title := styles.ok.Render("✓ Import Complete!")
	info := fmt.Sprintf("\nImported: %d/%d", m.imported, m.state.Total)

	var failed string
	if len(m.failed) > 0 {
		failed = fmt.Sprintf("\n\n%s", styles.warn.Render(fmt.Sprintf("Failed to import %d photos:", len(m.failed))))
		for _, f := range m.failed {
			failed += fmt.Sprintf("\n  • %s: %v", f.remoteID, f.err)
		}
	}

	helpKeys := []key.Binding{m.keys.restart, m.keys.quit}
	helpView := m.help.ShortHelpView(helpKeys)

	return fmt.Sprintf("%s\n%s%s\n\n%s", title, info, failed, helpView)
}
