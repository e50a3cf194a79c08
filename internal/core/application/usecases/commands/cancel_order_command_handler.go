package commands

import (
	"context"
	"fmt"
	"time"

	"fooddelivery/internal/core/ports"
)

// CancelOrderCommandHandler handles order cancellation. If a delivery agent
// is bound to the order it is released without earnings, in the same
// transaction as the cancellation itself.
type CancelOrderCommandHandler struct {
	uowFactory UoWFactory
	publisher  ports.TrackingPublisher
	notifier   ports.Notifier
}

// NewCancelOrderCommandHandler creates a handler for order cancellation.
func NewCancelOrderCommandHandler(
	uowFactory UoWFactory,
	publisher ports.TrackingPublisher,
	notifier ports.Notifier,
) CancelOrderCommandHandler {
	return CancelOrderCommandHandler{
		uowFactory: uowFactory,
		publisher:  publisher,
		notifier:   notifier,
	}
}

// Handle processes the cancellation command. Two concurrent cancellations
// race on the order version: the first writer wins and the second fails with
// a version conflict, keeping a single cancellation record.
func (h CancelOrderCommandHandler) Handle(ctx context.Context, cmd CancelOrderCommand) error {
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

	now := time.Now()
	if err = target.Cancel(cmd.Actor(), cmd.Reason(), now); err != nil {
		return err
	}

	if agentID := target.Delivery().AgentID(); agentID != nil {
		agentRepo := uow.AgentRepository()

		boundAgent, err := agentRepo.Get(ctx, *agentID)
		if err != nil {
			return err
		}

		if err = boundAgent.Release(); err != nil {
			return err
		}

		if err = agentRepo.Update(ctx, boundAgent); err != nil {
			return err
		}
	}

	if err = orderRepo.Update(ctx, target); err != nil {
		return err
	}

	if err = uow.Commit(ctx); err != nil {
		return err
	}

	h.publisher.Publish(ports.TrackingEvent{
		OrderID: target.ID(),
		Kind:    ports.TrackingOrderStatusUpdated,
		Status:  target.Status().String(),
		At:      now,
	})
	h.notifier.Notify(ctx, target.UserID(),
		fmt.Sprintf("order %s was cancelled: %s", target.ID(), cmd.Reason()))

	return nil
}
