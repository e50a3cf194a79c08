package commands

import (
	"context"
	"fmt"

	"fooddelivery/internal/core/domain/model/order"
	"fooddelivery/internal/core/ports"
)

// ErrNoGatewayForMethod is returned when no payment gateway is configured
// for the order's payment method.
var ErrNoGatewayForMethod = fmt.Errorf("no payment gateway for method")

// CreatePaymentIntentCommandHandler registers an order's total with the
// payment provider matching its payment method and stores the issued intent
// id on the order.
//
// The operation is idempotent: repeating it for an order already in
// processing returns the stored intent without calling the provider again.
// A provider failure leaves the payment status pending, so the client can
// simply retry.
type CreatePaymentIntentCommandHandler struct {
	uowFactory OrderUoWFactory
	gateways   map[order.PaymentMethod]ports.PaymentGateway
}

// NewCreatePaymentIntentCommandHandler creates a handler for payment intent
// creation. The gateways map binds each gateway-settled payment method to
// its provider adapter.
func NewCreatePaymentIntentCommandHandler(
	uowFactory OrderUoWFactory,
	gateways map[order.PaymentMethod]ports.PaymentGateway,
) CreatePaymentIntentCommandHandler {
	return CreatePaymentIntentCommandHandler{
		uowFactory: uowFactory,
		gateways:   gateways,
	}
}

// Handle processes the intent creation command and returns the intent id.
func (h CreatePaymentIntentCommandHandler) Handle(
	ctx context.Context,
	cmd CreatePaymentIntentCommand,
) (string, error) {
	if err := cmd.Validate(); err != nil {
		return "", err
	}

	uow := h.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return "", err
	}

	defer func() {
		_ = uow.Rollback(ctx)
	}()

	orderRepo := uow.OrderRepository()

	target, err := orderRepo.Get(ctx, cmd.OrderID())
	if err != nil {
		return "", err
	}

	payment := target.Payment()
	if !payment.Method().UsesGateway() {
		return "", order.ErrNoGatewayForCash
	}
	if payment.Status() == order.PaymentStatusProcessing && payment.IntentID() != "" {
		return payment.IntentID(), nil
	}

	gateway, ok := h.gateways[payment.Method()]
	if !ok {
		return "", fmt.Errorf("%w: %s", ErrNoGatewayForMethod, payment.Method())
	}

	intentID, err := gateway.CreateIntent(ctx, target.ID(), target.Pricing().Total())
	if err != nil {
		return "", err
	}

	if err = target.BeginPayment(intentID); err != nil {
		return "", err
	}

	if err = orderRepo.Update(ctx, target); err != nil {
		return "", err
	}

	if err = uow.Commit(ctx); err != nil {
		return "", err
	}

	return intentID, nil
}
