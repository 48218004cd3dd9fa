package tasks

import (
	"context"
	"fmt"

	"github.com/charmbracelet/log"
	"github.com/picshuttle/picshuttle/internal/models"
	"github.com/picshuttle/picshuttle/internal/shared"
)

// Notifier delivers a completion message to an account's contact address.
type Notifier interface {
	Notify(ctx context.Context, payload models.NotifyCompletionPayload) error
}

// CompletionMessage composes the completion notice text. The wording changes
// when an album count is present.
func CompletionMessage(payload models.NotifyCompletionPayload) string {
	if payload.AlbumCount != nil {
		return fmt.Sprintf("Dear %s! Your %d selected photos from %d albums were imported.",
			payload.Username, payload.PhotoCount, *payload.AlbumCount)
	}
	return fmt.Sprintf("Dear %s! Your %d selected photos were imported.",
		payload.Username, payload.PhotoCount)
}

// LogNotifier writes completion notices to the log. Stands in for a mail or
// push channel in deployments that have none configured.
type LogNotifier struct {
	logger *log.Logger
}

// NewLogNotifier creates a LogNotifier.
func NewLogNotifier(logger *log.Logger) *LogNotifier {
	if logger == nil {
		logger = shared.NewLogger(nil)
	}
	return &LogNotifier{logger: logger}
}

// Notify logs the composed completion message.
func (n *LogNotifier) Notify(ctx context.Context, payload models.NotifyCompletionPayload) error {
	n.logger.Info("notification sent",
		"to", payload.Email,
		"language", payload.Language,
		"message", CompletionMessage(payload),
	)
	return nil
}
