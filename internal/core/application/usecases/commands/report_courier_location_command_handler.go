package commands

import (
	"context"
	"time"

	"fooddelivery/internal/core/ports"
)

// ReportCourierLocationCommandHandler handles courier position pings.
// The agent's last known position always updates; when the agent has an
// active order the order's tracking position updates too and a location
// event goes out to its subscribers after commit. A ping from an agent
// without an active order is acknowledged silently.
type ReportCourierLocationCommandHandler struct {
	uowFactory UoWFactory
	publisher  ports.TrackingPublisher
}

// NewReportCourierLocationCommandHandler creates a handler for location pings.
func NewReportCourierLocationCommandHandler(
	uowFactory UoWFactory,
	publisher ports.TrackingPublisher,
) ReportCourierLocationCommandHandler {
	return ReportCourierLocationCommandHandler{
		uowFactory: uowFactory,
		publisher:  publisher,
	}
}

// Handle processes the location report.
func (h ReportCourierLocationCommandHandler) Handle(
	ctx context.Context,
	cmd ReportCourierLocationCommand,
) error {
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

	agentRepo := uow.AgentRepository()

	reporter, err := agentRepo.Get(ctx, cmd.AgentID())
	if err != nil {
		return err
	}

	now := time.Now()
	if err = reporter.RecordLocation(cmd.Location(), now); err != nil {
		return err
	}

	if err = agentRepo.Update(ctx, reporter); err != nil {
		return err
	}

	activeOrder := reporter.ActiveOrder()
	if activeOrder != nil {
		orderRepo := uow.OrderRepository()

		tracked, err := orderRepo.Get(ctx, *activeOrder)
		if err != nil {
			return err
		}

		if err = tracked.UpdateLocation(cmd.Location()); err != nil {
			return err
		}

		if err = orderRepo.Update(ctx, tracked); err != nil {
			return err
		}
	}

	if err = uow.Commit(ctx); err != nil {
		return err
	}

	if activeOrder != nil {
		location := cmd.Location()
		h.publisher.Publish(ports.TrackingEvent{
			OrderID:  *activeOrder,
			Kind:     ports.TrackingLocationUpdated,
			Location: &location,
			At:       now,
		})
	}

	return nil
}
