package commands

import (
	"errors"

	"fooddelivery/internal/core/domain/model/kernel"
	"fooddelivery/internal/pkg/guard"
)

var ErrCreatePaymentIntentCommandIsNotConstructed = errors.New(
	"CreatePaymentIntentCommand must be created via NewCreatePaymentIntentCommand constructor",
)

// CreatePaymentIntentCommand requests registering the order's total with the
// payment provider matching the order's payment method.
type CreatePaymentIntentCommand struct { //nolint:recvcheck //using for validation
	orderID kernel.UUID

	guard guard.ConstructorGuard
}

// NewCreatePaymentIntentCommand creates a payment intent command.
func NewCreatePaymentIntentCommand(orderID kernel.UUID) (CreatePaymentIntentCommand, error) {
	if err := orderID.Validate(); err != nil {
		return CreatePaymentIntentCommand{}, err
	}

	return CreatePaymentIntentCommand{
		orderID: orderID,
		guard:   guard.NewConstructorGuard(),
	}, nil
}

// Validate ensures the command was created through the constructor.
func (c CreatePaymentIntentCommand) Validate() error {
	return c.guard.Validate(ErrCreatePaymentIntentCommandIsNotConstructed)
}

// OrderID returns the targeted order.
func (c CreatePaymentIntentCommand) OrderID() kernel.UUID { return c.orderID }
