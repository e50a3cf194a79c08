package commands

import (
	"errors"

	"fooddelivery/internal/core/domain/model/kernel"
	"fooddelivery/internal/core/domain/model/order"
	"fooddelivery/internal/pkg/guard"

	"github.com/shopspring/decimal"
)

var (
	ErrPlaceOrderCommandIsNotConstructed = errors.New(
		"PlaceOrderCommand must be created via NewPlaceOrderCommand constructor",
	)
	ErrAddressIsRequired = errors.New("delivery address is required")
	ErrPhoneIsRequired   = errors.New("contact phone is required")
	ErrItemsAreRequired  = errors.New("order must contain at least one item")
	ErrQuantityIsInvalid = errors.New("item quantity must be greater than 0")
)

// OrderItemRequest is one requested line item. The price is not part of the
// request: it is snapshotted from the menu catalog at placement time.
type OrderItemRequest struct {
	MenuItemID     kernel.UUID
	Quantity       int
	Customizations []order.Customization
}

// PlaceOrderCommand represents a request to place a new food order against a
// restaurant.
//
// Example:
//
//	cmd, err := NewPlaceOrderCommand(kernel.NewUUID(), userID, restaurantID,
//	    items, "12 Abay Ave", "+77011234567", order.PaymentMethodCard, decimal.Zero)
//	if err != nil {
//	    return fmt.Errorf("invalid order data: %w", err)
//	}
//	if err := handler.Handle(ctx, cmd); err != nil {
//	    return fmt.Errorf("failed to place order: %w", err)
//	}
type PlaceOrderCommand struct { //nolint:recvcheck //using for validation
	orderID       kernel.UUID
	userID        kernel.UUID
	restaurantID  kernel.UUID
	items         []OrderItemRequest
	address       string
	phone         string
	paymentMethod order.PaymentMethod
	discount      decimal.Decimal

	guard guard.ConstructorGuard
}

// NewPlaceOrderCommand creates a command to place a new order.
// Validates identifiers, the item list, contact details and the payment
// method. Returns an error if any validation fails.
func NewPlaceOrderCommand(
	orderID, userID, restaurantID kernel.UUID,
	items []OrderItemRequest,
	address, phone string,
	paymentMethod order.PaymentMethod,
	discount decimal.Decimal,
) (PlaceOrderCommand, error) {
	cmd := PlaceOrderCommand{
		discount: discount,
		guard:    guard.NewConstructorGuard(),
	}

	if err := errors.Join(
		cmd.setOrderID(orderID),
		cmd.setUserID(userID),
		cmd.setRestaurantID(restaurantID),
		cmd.setItems(items),
		cmd.setAddress(address),
		cmd.setPhone(phone),
		cmd.setPaymentMethod(paymentMethod),
	); err != nil {
		return PlaceOrderCommand{}, err
	}

	return cmd, nil
}

// Validate ensures the command was created through the constructor.
func (c PlaceOrderCommand) Validate() error {
	return c.guard.Validate(ErrPlaceOrderCommandIsNotConstructed)
}

// OrderID returns the unique identifier for the new order.
func (c PlaceOrderCommand) OrderID() kernel.UUID { return c.orderID }

// UserID returns the identifier of the ordering customer.
func (c PlaceOrderCommand) UserID() kernel.UUID { return c.userID }

// RestaurantID returns the identifier of the target restaurant.
func (c PlaceOrderCommand) RestaurantID() kernel.UUID { return c.restaurantID }

// Items returns the requested line items.
func (c PlaceOrderCommand) Items() []OrderItemRequest {
	return append([]OrderItemRequest(nil), c.items...)
}

// Address returns the delivery destination address.
func (c PlaceOrderCommand) Address() string { return c.address }

// Phone returns the contact phone number.
func (c PlaceOrderCommand) Phone() string { return c.phone }

// PaymentMethod returns the chosen payment method.
func (c PlaceOrderCommand) PaymentMethod() order.PaymentMethod { return c.paymentMethod }

// Discount returns the discount amount to subtract from the order total.
func (c PlaceOrderCommand) Discount() decimal.Decimal { return c.discount }

func (c *PlaceOrderCommand) setOrderID(id kernel.UUID) error {
	if err := id.Validate(); err != nil {
		return err
	}
	c.orderID = id
	return nil
}

func (c *PlaceOrderCommand) setUserID(id kernel.UUID) error {
	if err := id.Validate(); err != nil {
		return err
	}
	c.userID = id
	return nil
}

func (c *PlaceOrderCommand) setRestaurantID(id kernel.UUID) error {
	if err := id.Validate(); err != nil {
		return err
	}
	c.restaurantID = id
	return nil
}

func (c *PlaceOrderCommand) setItems(items []OrderItemRequest) error {
	if len(items) == 0 {
		return ErrItemsAreRequired
	}

	for _, item := range items {
		if err := item.MenuItemID.Validate(); err != nil {
			return err
		}
		if item.Quantity <= 0 {
			return ErrQuantityIsInvalid
		}
	}

	c.items = append([]OrderItemRequest(nil), items...)
	return nil
}

func (c *PlaceOrderCommand) setAddress(address string) error {
	if address == "" {
		return ErrAddressIsRequired
	}
	c.address = address
	return nil
}

func (c *PlaceOrderCommand) setPhone(phone string) error {
	if phone == "" {
		return ErrPhoneIsRequired
	}
	c.phone = phone
	return nil
}

func (c *PlaceOrderCommand) setPaymentMethod(method order.PaymentMethod) error {
	if err := method.Validate(); err != nil {
		return err
	}
	c.paymentMethod = method
	return nil
}
