package models

import "time"

// Queue task kinds.
const (
	TaskImportItem       = "import_item"
	TaskNotifyCompletion = "notify_completion"
)

// Queue task statuses.
const (
	TaskPending = "pending"
	TaskDone    = "done"
	TaskDead    = "dead"
)

// QueueTask is a durable background task row. The autoincrement id gives
// FIFO order within and across submissions.
type QueueTask struct {
	ID        int64
	Kind      string
	Payload   []byte
	Status    string
	Attempts  int
	LastError string
	CreatedAt time.Time
	UpdatedAt time.Time
}

// ImportItemPayload is the payload of an import_item task: one remote media
// id imported on behalf of one account under a shared ImportContext.
type ImportItemPayload struct {
	RemoteID string        `json:"remote_id"`
	ActorID  string        `json:"actor_id"`
	Context  ImportContext `json:"context"`
}

// NotifyCompletionPayload is the payload of the trailing notify_completion
// task appended once per submission. AlbumCount is nil for photo-only imports.
type NotifyCompletionPayload struct {
	Username   string `json:"username"`
	Email      string `json:"email"`
	Language   string `json:"language"`
	PhotoCount int    `json:"photo_count"`
	AlbumCount *int   `json:"album_count,omitempty"`
}
