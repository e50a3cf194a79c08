package commands

import (
	"context"
	"errors"
	"time"

	"fooddelivery/internal/core/domain/model/agent"
	"fooddelivery/internal/core/domain/model/order"
	"fooddelivery/internal/core/domain/services"
	"fooddelivery/internal/core/ports"
	"fooddelivery/internal/pkg/errs"
)

var (
	ErrNoOrderFound      = errors.New("no order found")
	ErrNoAgentsAvailable = errors.New("no agents available")
)

// AssignCourierCommandHandler orchestrates binding delivery agents to orders.
// Both aggregates are updated within a single transaction; the repository
// version checks make concurrent dispatchers racing for the same agent or
// order safe, with the loser failing on a version conflict.
//
// Example:
//
//	handler := NewAssignCourierCommandHandler(uowFactory, publisher)
//	err := handler.Handle(ctx, NewAssignCourierCommand())
//	switch {
//	case errors.Is(err, ErrNoOrderFound):
//	    log.Println("no unassigned orders")
//	case errors.Is(err, ErrNoAgentsAvailable):
//	    log.Println("all agents are busy or off duty")
//	case err != nil:
//	    log.Printf("assignment failed: %v", err)
//	}
type AssignCourierCommandHandler struct {
	uowFactory UoWFactory
	publisher  ports.TrackingPublisher
}

// NewAssignCourierCommandHandler creates a handler for agent assignment.
func NewAssignCourierCommandHandler(
	uowFactory UoWFactory,
	publisher ports.TrackingPublisher,
) AssignCourierCommandHandler {
	return AssignCourierCommandHandler{
		uowFactory: uowFactory,
		publisher:  publisher,
	}
}

// Handle processes the assignment command. Automatic dispatch picks the
// oldest unassigned order and the available agent with the fewest total
// deliveries; manual dispatch validates the requested agent's eligibility.
// The status tracking event goes out only after the transaction commits.
func (h AssignCourierCommandHandler) Handle(ctx context.Context, cmd AssignCourierCommand) error {
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
	agentRepo := uow.AgentRepository()
	now := time.Now()

	var (
		assignedOrder *order.Order
		assignedAgent *agent.Agent
		err           error
	)
	if cmd.IsManual() {
		assignedOrder, assignedAgent, err = h.matchRequested(ctx, orderRepo, agentRepo, cmd, now)
	} else {
		assignedOrder, assignedAgent, err = h.matchAuto(ctx, orderRepo, agentRepo, now)
	}
	if err != nil {
		return err
	}

	if err = orderRepo.Update(ctx, assignedOrder); err != nil {
		return err
	}

	if err = agentRepo.Update(ctx, assignedAgent); err != nil {
		return err
	}

	if err = uow.Commit(ctx); err != nil {
		return err
	}

	h.publisher.Publish(ports.TrackingEvent{
		OrderID: assignedOrder.ID(),
		Kind:    ports.TrackingOrderStatusUpdated,
		Status:  assignedOrder.Status().String(),
		At:      now,
	})

	return nil
}

func (h AssignCourierCommandHandler) matchAuto(
	ctx context.Context,
	orderRepo ports.OrderRepository,
	agentRepo ports.AgentRepository,
	now time.Time,
) (*order.Order, *agent.Agent, error) {
	pendingOrder, err := orderRepo.GetFirstPendingUnassigned(ctx)
	if errors.Is(err, errs.ErrObjectNotFound) {
		return nil, nil, ErrNoOrderFound
	}
	if err != nil {
		return nil, nil, err
	}

	candidates, err := agentRepo.GetAllAvailable(ctx)
	if err != nil {
		return nil, nil, err
	}
	if len(candidates) == 0 {
		return nil, nil, ErrNoAgentsAvailable
	}

	matched, err := services.NewDispatchMatcher().Match(pendingOrder, candidates, now)
	if errors.Is(err, services.ErrNoAgentAvailable) {
		return nil, nil, ErrNoAgentsAvailable
	}
	if err != nil {
		return nil, nil, err
	}

	return pendingOrder, matched, nil
}

func (h AssignCourierCommandHandler) matchRequested(
	ctx context.Context,
	orderRepo ports.OrderRepository,
	agentRepo ports.AgentRepository,
	cmd AssignCourierCommand,
	now time.Time,
) (*order.Order, *agent.Agent, error) {
	targetOrder, err := orderRepo.Get(ctx, *cmd.OrderID())
	if err != nil {
		return nil, nil, err
	}

	targetAgent, err := agentRepo.Get(ctx, *cmd.AgentID())
	if err != nil {
		return nil, nil, err
	}

	if err = services.NewDispatchMatcher().MatchRequested(targetOrder, targetAgent, now); err != nil {
		return nil, nil, err
	}

	return targetOrder, targetAgent, nil
}
