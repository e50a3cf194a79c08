package commands

import (
	"context"
	"fmt"
	"time"

	"fooddelivery/internal/core/ports"
)

// ErrUnknownProvider is returned when a callback names a provider no gateway
// is configured for.
var ErrUnknownProvider = fmt.Errorf("unknown payment provider")

// ApplyPaymentCallbackCommandHandler processes verified provider callbacks.
// Signature verification happens before any state is read: a forged callback
// is rejected without touching the database. A replayed callback for an
// already completed intent succeeds without changing anything.
//
// Payment status and fulfillment status are independent tracks; a callback
// never moves the order through its fulfillment machine.
type ApplyPaymentCallbackCommandHandler struct {
	uowFactory OrderUoWFactory
	gateways   map[string]ports.PaymentGateway
	notifier   ports.Notifier
}

// NewApplyPaymentCallbackCommandHandler creates a handler for payment
// callbacks. The gateways map is keyed by the provider name used in the
// callback URL.
func NewApplyPaymentCallbackCommandHandler(
	uowFactory OrderUoWFactory,
	gateways map[string]ports.PaymentGateway,
	notifier ports.Notifier,
) ApplyPaymentCallbackCommandHandler {
	return ApplyPaymentCallbackCommandHandler{
		uowFactory: uowFactory,
		gateways:   gateways,
		notifier:   notifier,
	}
}

// Handle verifies and applies the callback.
func (h ApplyPaymentCallbackCommandHandler) Handle(
	ctx context.Context,
	cmd ApplyPaymentCallbackCommand,
) error {
	if err := cmd.Validate(); err != nil {
		return err
	}

	gateway, ok := h.gateways[cmd.Provider()]
	if !ok {
		return fmt.Errorf("%w: %s", ErrUnknownProvider, cmd.Provider())
	}

	event, err := gateway.VerifyCallback(cmd.Payload(), cmd.Signature())
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

	orderRepo := uow.OrderRepository()

	target, err := orderRepo.GetByPaymentIntent(ctx, event.IntentID)
	if err != nil {
		return err
	}

	if event.Succeeded {
		err = target.CompletePayment(time.Now())
	} else {
		err = target.FailPayment()
	}
	if err != nil {
		return err
	}

	if err = orderRepo.Update(ctx, target); err != nil {
		return err
	}

	if err = uow.Commit(ctx); err != nil {
		return err
	}

	outcome := "failed"
	if event.Succeeded {
		outcome = "completed"
	}
	h.notifier.Notify(ctx, target.UserID(),
		fmt.Sprintf("payment for order %s %s", target.ID(), outcome))

	return nil
}
