package commands

import (
	"context"
	"errors"
	"fmt"
	"time"

	"fooddelivery/internal/core/domain/model/kernel"
	"fooddelivery/internal/core/domain/model/order"
	"fooddelivery/internal/core/ports"
)

var (
	// ErrBelowMinimumOrderAmount is returned when the item subtotal does not
	// reach the restaurant's minimum order amount.
	ErrBelowMinimumOrderAmount = errors.New("order is below the restaurant's minimum amount")
	// ErrUnknownMenuItem is returned when a requested item cannot be resolved
	// against the menu catalog. Orders are never priced from partial snapshots.
	ErrUnknownMenuItem = errors.New("unknown menu item")
)

// PlaceOrderCommandHandler handles the business logic for order placement.
// Resolves the requested items against the menu catalog, freezes the pricing
// snapshot using the restaurant's current fee and tax parameters, and
// persists the new order in pending status.
type PlaceOrderCommandHandler struct {
	uowFactory OrderRestaurantUoWFactory
	catalog    ports.MenuCatalog
	notifier   ports.Notifier
}

// NewPlaceOrderCommandHandler creates a handler for order placement.
func NewPlaceOrderCommandHandler(
	uowFactory OrderRestaurantUoWFactory,
	catalog ports.MenuCatalog,
	notifier ports.Notifier,
) PlaceOrderCommandHandler {
	return PlaceOrderCommandHandler{
		uowFactory: uowFactory,
		catalog:    catalog,
		notifier:   notifier,
	}
}

// Handle processes the order placement command.
// Prices are snapshotted at this moment: later menu or restaurant edits never
// change the placed order. The user notification goes out only after commit.
func (h PlaceOrderCommandHandler) Handle(ctx context.Context, cmd PlaceOrderCommand) error {
	if err := cmd.Validate(); err != nil {
		return err
	}

	items, err := h.resolveItems(ctx, cmd)
	if err != nil {
		return err
	}

	uow := h.uowFactory.Create()
	if err = uow.Begin(ctx); err != nil {
		return err
	}

	defer func() {
		_ = uow.Rollback(ctx)
	}()

	rest, err := uow.RestaurantRepository().Get(ctx, cmd.RestaurantID())
	if err != nil {
		return err
	}

	newOrder, err := order.NewOrder(
		cmd.OrderID(),
		cmd.UserID(),
		cmd.RestaurantID(),
		items,
		cmd.Address(),
		cmd.Phone(),
		cmd.PaymentMethod(),
		rest.DeliveryFee(),
		rest.TaxPercent(),
		cmd.Discount(),
		time.Now(),
	)
	if err != nil {
		return err
	}

	if newOrder.Pricing().Subtotal().LessThan(rest.MinOrderAmount()) {
		return ErrBelowMinimumOrderAmount
	}

	if err = uow.OrderRepository().Add(ctx, newOrder); err != nil {
		return err
	}

	if err = uow.Commit(ctx); err != nil {
		return err
	}

	h.notifier.Notify(ctx, cmd.UserID(),
		fmt.Sprintf("order %s placed, total %s", newOrder.ID(), newOrder.Pricing().Total()))

	return nil
}

// resolveItems snapshots names and prices from the menu catalog.
func (h PlaceOrderCommandHandler) resolveItems(
	ctx context.Context,
	cmd PlaceOrderCommand,
) ([]order.Item, error) {
	requested := cmd.Items()

	itemIDs := make([]kernel.UUID, 0, len(requested))
	for _, r := range requested {
		itemIDs = append(itemIDs, r.MenuItemID)
	}

	menuItems, err := h.catalog.GetItems(ctx, cmd.RestaurantID(), itemIDs)
	if err != nil {
		return nil, err
	}

	byID := make(map[string]ports.MenuItem, len(menuItems))
	for _, mi := range menuItems {
		byID[mi.ID.String()] = mi
	}

	items := make([]order.Item, 0, len(requested))
	for _, r := range requested {
		mi, ok := byID[r.MenuItemID.String()]
		if !ok {
			return nil, fmt.Errorf("%w: %s", ErrUnknownMenuItem, r.MenuItemID)
		}

		item, err := order.NewItem(mi.ID, mi.Name, r.Quantity, mi.Price, r.Customizations)
		if err != nil {
			return nil, err
		}
		items = append(items, item)
	}

	return items, nil
}
