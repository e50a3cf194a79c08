package commands

import (
	"context"
	"fmt"
	"time"

	"fooddelivery/internal/core/ports"
)

// RefundPaymentCommandHandler handles refunds of completed payments.
// The refund is a state change on the order's payment record; settlement
// with the provider happens out of band.
type RefundPaymentCommandHandler struct {
	uowFactory OrderUoWFactory
	notifier   ports.Notifier
}

// NewRefundPaymentCommandHandler creates a handler for payment refunds.
func NewRefundPaymentCommandHandler(
	uowFactory OrderUoWFactory,
	notifier ports.Notifier,
) RefundPaymentCommandHandler {
	return RefundPaymentCommandHandler{
		uowFactory: uowFactory,
		notifier:   notifier,
	}
}

// Handle processes the refund command. Only a completed payment can be
// refunded and the amount cannot exceed the order total; both rules are
// enforced by the aggregate.
func (h RefundPaymentCommandHandler) Handle(ctx context.Context, cmd RefundPaymentCommand) error {
	if err := cmd.Validate(); err != nil {
		return err
	}

	uow := h.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return err
	}

	defer func() {
		_ = uow.Rollback(ctx)
	}()

	orderRepo := uow.OrderRepository()

	target, err := orderRepo.Get(ctx, cmd.OrderID())
	if err != nil {
		return err
	}

	if err = target.RefundPayment(cmd.Amount(), time.Now()); err != nil {
		return err
	}

	if err = orderRepo.Update(ctx, target); err != nil {
		return err
	}

	if err = uow.Commit(ctx); err != nil {
		return err
	}

	h.notifier.Notify(ctx, target.UserID(),
		fmt.Sprintf("refund of %s issued for order %s", cmd.Amount(), target.ID()))

	return nil
}
