package ports

import (
	"context"

	"fooddelivery/internal/core/domain/model/kernel"
)

// Notifier pushes order updates to users. Calls are fire-and-forget: a
// notification failure never fails the order operation that triggered it.
type Notifier interface {
	Notify(ctx context.Context, userID kernel.UUID, message string)
}
