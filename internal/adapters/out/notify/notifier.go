// Package notify provides the notification sender. The real delivery
// channel (push, SMS, email) lives in a separate service; this adapter
// records what would be sent.
package notify

import (
	"context"
	"log/slog"

	"fooddelivery/internal/core/domain/model/kernel"
)

// SlogNotifier writes notifications to the structured log. It stands in
// for the external notification service in environments without one.
type SlogNotifier struct {
	logger *slog.Logger
}

// NewSlogNotifier creates a notifier writing to the given logger.
func NewSlogNotifier(logger *slog.Logger) *SlogNotifier {
	return &SlogNotifier{logger: logger}
}

// Notify logs the notification. It never fails the calling operation.
func (n *SlogNotifier) Notify(ctx context.Context, userID kernel.UUID, message string) {
	n.logger.InfoContext(ctx, "user notification",
		"user_id", userID.String(),
		"message", message,
	)
}
