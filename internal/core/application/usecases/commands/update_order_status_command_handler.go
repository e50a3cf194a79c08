package commands

import (
	"context"
	"fmt"
	"time"

	"fooddelivery/internal/core/domain/model/order"
	"fooddelivery/internal/core/ports"
)

// UpdateOrderStatusCommandHandler handles fulfillment status transitions.
// The aggregate enforces edge legality; the handler adds the cross-aggregate
// part: when an order becomes delivered the assigned agent is credited with
// its delivery fee share and released, within the same transaction.
type UpdateOrderStatusCommandHandler struct {
	uowFactory UoWFactory
	publisher  ports.TrackingPublisher
	notifier   ports.Notifier
}

// NewUpdateOrderStatusCommandHandler creates a handler for status transitions.
func NewUpdateOrderStatusCommandHandler(
	uowFactory UoWFactory,
	publisher ports.TrackingPublisher,
	notifier ports.Notifier,
) UpdateOrderStatusCommandHandler {
	return UpdateOrderStatusCommandHandler{
		uowFactory: uowFactory,
		publisher:  publisher,
		notifier:   notifier,
	}
}

// Handle processes the status transition command. The status write and its
// history entry persist atomically; the tracking event and user notification
// go out only after commit.
func (h UpdateOrderStatusCommandHandler) Handle(ctx context.Context, cmd UpdateOrderStatusCommand) error {
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
	if err = target.TransitionTo(cmd.Target(), cmd.Actor(), cmd.Note(), now); err != nil {
		return err
	}

	if cmd.Target() == order.StatusDelivered {
		if err = h.creditAgent(ctx, uow, target); err != nil {
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
		fmt.Sprintf("order %s is now %s", target.ID(), target.Status()))

	return nil
}

// creditAgent pays out the courier fee share and frees the agent for the
// next dispatch.
func (h UpdateOrderStatusCommandHandler) creditAgent(
	ctx context.Context,
	uow UoW,
	deliveredOrder *order.Order,
) error {
	agentID := deliveredOrder.Delivery().AgentID()
	if agentID == nil {
		return nil
	}

	agentRepo := uow.AgentRepository()
	deliveryAgent, err := agentRepo.Get(ctx, *agentID)
	if err != nil {
		return err
	}

	if err = deliveryAgent.CompleteDelivery(deliveredOrder.Pricing().DeliveryFee()); err != nil {
		return err
	}

	return agentRepo.Update(ctx, deliveryAgent)
}
