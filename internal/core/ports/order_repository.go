// Package ports defines the contracts between the application core and the
// outside world: repositories, the unit of work, payment gateways, the live
// tracking publisher, and external collaborators. Adapters implement these
// interfaces; the core never imports an adapter.
package ports

import (
	"context"

	"fooddelivery/internal/core/domain/model/kernel"
	"fooddelivery/internal/core/domain/model/order"

	"github.com/shopspring/decimal"
)

// OrderRepository defines the persistence contract for order aggregates.
type OrderRepository interface {
	// Add persists a new order aggregate to storage.
	// The order must be valid and not already exist in the repository.
	Add(ctx context.Context, aggregate *order.Order) error

	// Update persists changes to an existing order aggregate. The write is a
	// compare-and-swap on the aggregate version; a concurrent writer makes it
	// fail with errs.VersionIsInvalidError and the caller reloads and retries.
	Update(ctx context.Context, aggregate *order.Order) error

	// Get retrieves an order aggregate by its unique identifier.
	// Returns the complete order with items, history, payment and delivery state.
	Get(ctx context.Context, id kernel.UUID) (*order.Order, error)

	// GetByPaymentIntent retrieves the order holding the given payment intent.
	// Payment callbacks carry the intent id, not the order id.
	GetByPaymentIntent(ctx context.Context, intentID string) (*order.Order, error)

	// GetFirstPendingUnassigned retrieves the oldest pending or confirmed
	// order with no delivery agent bound to it. Used by the dispatch job.
	GetFirstPendingUnassigned(ctx context.Context) (*order.Order, error)

	// GetRatedOveralls returns the overall rating score of every rated order
	// placed against the given restaurant. Input to the full rating recompute.
	GetRatedOveralls(ctx context.Context, restaurantID kernel.UUID) ([]decimal.Decimal, error)
}
