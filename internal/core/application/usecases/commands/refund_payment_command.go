package commands

import (
	"errors"

	"fooddelivery/internal/core/domain/model/kernel"
	"fooddelivery/internal/pkg/errs"
	"fooddelivery/internal/pkg/guard"

	"github.com/shopspring/decimal"
)

var ErrRefundPaymentCommandIsNotConstructed = errors.New(
	"RefundPaymentCommand must be created via NewRefundPaymentCommand constructor",
)

// RefundPaymentCommand requests refunding part or all of a completed payment.
type RefundPaymentCommand struct { //nolint:recvcheck //using for validation
	orderID kernel.UUID
	amount  decimal.Decimal

	guard guard.ConstructorGuard
}

// NewRefundPaymentCommand creates a refund command. The amount must be
// positive; the upper bound against the order total is enforced by the
// aggregate.
func NewRefundPaymentCommand(
	orderID kernel.UUID,
	amount decimal.Decimal,
) (RefundPaymentCommand, error) {
	if err := orderID.Validate(); err != nil {
		return RefundPaymentCommand{}, err
	}
	if !amount.IsPositive() {
		return RefundPaymentCommand{}, errs.NewValueIsInvalidError("amount")
	}

	return RefundPaymentCommand{
		orderID: orderID,
		amount:  amount,
		guard:   guard.NewConstructorGuard(),
	}, nil
}

// Validate ensures the command was created through the constructor.
func (c RefundPaymentCommand) Validate() error {
	return c.guard.Validate(ErrRefundPaymentCommandIsNotConstructed)
}

// OrderID returns the targeted order.
func (c RefundPaymentCommand) OrderID() kernel.UUID { return c.orderID }

// Amount returns the refund amount.
func (c RefundPaymentCommand) Amount() decimal.Decimal { return c.amount }
