package commands

import (
	"errors"

	"fooddelivery/internal/core/domain/model/kernel"
	"fooddelivery/internal/core/domain/model/order"
	"fooddelivery/internal/pkg/guard"
)

var ErrUpdateOrderStatusCommandIsNotConstructed = errors.New(
	"UpdateOrderStatusCommand must be created via NewUpdateOrderStatusCommand constructor",
)

// UpdateOrderStatusCommand requests moving an order to a new fulfillment
// status on behalf of an actor. Cancellation does not go through here; it has
// its own command carrying the mandatory reason.
type UpdateOrderStatusCommand struct { //nolint:recvcheck //using for validation
	orderID kernel.UUID
	target  order.Status
	actor   order.Actor
	note    string

	guard guard.ConstructorGuard
}

// NewUpdateOrderStatusCommand creates a status transition command. The note
// is optional and lands in the order's status history.
func NewUpdateOrderStatusCommand(
	orderID kernel.UUID,
	target order.Status,
	actor order.Actor,
	note string,
) (UpdateOrderStatusCommand, error) {
	cmd := UpdateOrderStatusCommand{
		note:  note,
		guard: guard.NewConstructorGuard(),
	}

	if err := errors.Join(
		cmd.setOrderID(orderID),
		cmd.setTarget(target),
		cmd.setActor(actor),
	); err != nil {
		return UpdateOrderStatusCommand{}, err
	}

	return cmd, nil
}

// Validate ensures the command was created through the constructor.
func (c UpdateOrderStatusCommand) Validate() error {
	return c.guard.Validate(ErrUpdateOrderStatusCommandIsNotConstructed)
}

// OrderID returns the targeted order.
func (c UpdateOrderStatusCommand) OrderID() kernel.UUID { return c.orderID }

// Target returns the requested fulfillment status.
func (c UpdateOrderStatusCommand) Target() order.Status { return c.target }

// Actor returns who requests the transition.
func (c UpdateOrderStatusCommand) Actor() order.Actor { return c.actor }

// Note returns the optional history annotation.
func (c UpdateOrderStatusCommand) Note() string { return c.note }

func (c *UpdateOrderStatusCommand) setOrderID(id kernel.UUID) error {
	if err := id.Validate(); err != nil {
		return err
	}
	c.orderID = id
	return nil
}

func (c *UpdateOrderStatusCommand) setTarget(target order.Status) error {
	if err := target.Validate(); err != nil {
		return err
	}
	c.target = target
	return nil
}

func (c *UpdateOrderStatusCommand) setActor(actor order.Actor) error {
	if err := actor.Validate(); err != nil {
		return err
	}
	c.actor = actor
	return nil
}
