package queries

import (
	"errors"
	"time"

	"fooddelivery/internal/core/domain/model/kernel"
	"fooddelivery/internal/pkg/guard"

	"github.com/shopspring/decimal"
)

var ErrGetOrderQueryIsNotConstructed = errors.New(
	"GetOrderQuery must be created via NewGetOrderQuery constructor",
)

// GetOrderQuery retrieves the full read model of a single order: its
// frozen pricing and line items, both status tracks, the courier
// assignment and last known location, and the complete status history.
//
// Example:
//
//	query, err := NewGetOrderQuery(orderID)
//	if err != nil {
//	    return err
//	}
//
//	view, err := handler.Handle(ctx, query)
//	if err != nil {
//	    return err
//	}
//	fmt.Printf("order %s is %s\n", view.ID, view.Status)
type GetOrderQuery struct {
	orderID kernel.UUID

	guard guard.ConstructorGuard
}

// NewGetOrderQuery creates a query for a single order's read model.
func NewGetOrderQuery(orderID kernel.UUID) (GetOrderQuery, error) {
	if err := orderID.Validate(); err != nil {
		return GetOrderQuery{}, err
	}
	return GetOrderQuery{
		orderID: orderID,
		guard:   guard.NewConstructorGuard(),
	}, nil
}

// OrderID returns the id of the order being queried.
func (q GetOrderQuery) OrderID() kernel.UUID {
	return q.orderID
}

// Validate ensures the query was created through the constructor.
func (q GetOrderQuery) Validate() error {
	return q.guard.Validate(ErrGetOrderQueryIsNotConstructed)
}

// GetOrderQueryResponse is the full order read model.
type GetOrderQueryResponse struct {
	ID           kernel.UUID
	UserID       kernel.UUID
	RestaurantID kernel.UUID
	Status       string
	Address      string
	Phone        string

	Subtotal    decimal.Decimal
	DeliveryFee decimal.Decimal
	Tax         decimal.Decimal
	Discount    decimal.Decimal
	Total       decimal.Decimal

	PaymentMethod string
	PaymentStatus string
	PaidAt        *time.Time

	AgentID         *kernel.UUID
	CurrentLocation *kernel.GeoPoint

	RatingOverall *decimal.Decimal

	Items   []GetOrderQueryItem
	History []GetOrderQueryHistoryEntry
}

// GetOrderQueryItem is one line of the frozen item snapshot.
type GetOrderQueryItem struct {
	MenuItemID kernel.UUID
	Name       string
	Quantity   int
	UnitPrice  decimal.Decimal
}

// GetOrderQueryHistoryEntry is one recorded fulfillment transition.
type GetOrderQueryHistoryEntry struct {
	Status string
	At     time.Time
	Note   string
}
