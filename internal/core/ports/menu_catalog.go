package ports

import (
	"context"

	"fooddelivery/internal/core/domain/model/kernel"

	"github.com/shopspring/decimal"
)

// MenuItem is a catalog snapshot of a single menu entry at lookup time.
type MenuItem struct {
	ID    kernel.UUID
	Name  string
	Price decimal.Decimal
}

// MenuCatalog resolves menu items against the external catalog service.
// Orders snapshot the returned names and prices at placement time, so later
// catalog edits never change an already placed order.
type MenuCatalog interface {
	// GetItems resolves the requested item ids for one restaurant. A missing
	// id is an error: an order cannot be priced from a partial snapshot.
	GetItems(ctx context.Context, restaurantID kernel.UUID, ids []kernel.UUID) ([]MenuItem, error)
}
