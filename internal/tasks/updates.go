package tasks

import "fmt"

// ProgressUpdate represents a progress event during a long-running operation.
//
// Used to send real-time updates to the CLI or UI layer for display.
type ProgressUpdate struct {
	Phase   Phase  // Operation phase
	Step    int    // Current step number within phase
	Total   int    // Total steps in this phase
	Message string // Human-readable message for display
	Data    any    // Optional phase-specific data for advanced UIs
}

// Operation phase enumeration
type Phase int

const (
	ConnectLibrary Phase = iota
	FetchItem
	StoreContent
	ResolveEvent
	ImportTick
	MapAlbums
	Notify
)

func (p Phase) String() string {
	switch p {
	case ConnectLibrary:
		return "connect_library"
	case FetchItem:
		return "fetch_item"
	case StoreContent:
		return "store_content"
	case ResolveEvent:
		return "resolve_event"
	case ImportTick:
		return "import_tick"
	case MapAlbums:
		return "map_albums"
	case Notify:
		return "notify"
	default:
		return ""
	}
}

func processingUpdate(step, total int) ProgressUpdate {
	return ProgressUpdate{
		Phase:   ImportTick,
		Step:    step,
		Total:   total,
		Message: fmt.Sprintf("Processing photo %d of %d", step, total),
	}
}

func importedUpdate(processed int) ProgressUpdate {
	return ProgressUpdate{
		Phase:   ImportTick,
		Step:    processed,
		Total:   processed,
		Message: fmt.Sprintf("Imported %d photos", processed),
	}
}

func itemFailedUpdate(step, total int, remoteID string, err error) ProgressUpdate {
	return ProgressUpdate{
		Phase:   ImportTick,
		Step:    step,
		Total:   total,
		Message: fmt.Sprintf("[%d/%d] ✗ %s: %v", step, total, remoteID, err),
	}
}

func mappingAlbumUpdate(step, total int, title string) ProgressUpdate {
	return ProgressUpdate{
		Phase:   MapAlbums,
		Step:    step,
		Total:   total,
		Message: fmt.Sprintf("[%d/%d] Collecting album: %s...", step, total, title),
	}
}
