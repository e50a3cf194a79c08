package commands

import (
	"errors"

	"fooddelivery/internal/core/domain/model/kernel"
	"fooddelivery/internal/pkg/guard"
)

var ErrAssignCourierCommandIsNotConstructed = errors.New(
	"AssignCourierCommand must be created via a constructor",
)

// AssignCourierCommand requests binding a delivery agent to an order.
//
// Two flavors exist: the automatic one (NewAssignCourierCommand) lets the
// dispatch matcher pick the oldest unassigned order and the best available
// agent; the manual one (NewManualAssignCourierCommand) names both sides and
// is used by dispatcher tooling.
type AssignCourierCommand struct { //nolint:recvcheck //using for validation
	orderID *kernel.UUID
	agentID *kernel.UUID

	guard guard.ConstructorGuard
}

// NewAssignCourierCommand creates the automatic dispatch command.
func NewAssignCourierCommand() AssignCourierCommand {
	return AssignCourierCommand{
		guard: guard.NewConstructorGuard(),
	}
}

// NewManualAssignCourierCommand creates a command binding a specific agent to
// a specific order.
func NewManualAssignCourierCommand(orderID, agentID kernel.UUID) (AssignCourierCommand, error) {
	if err := errors.Join(orderID.Validate(), agentID.Validate()); err != nil {
		return AssignCourierCommand{}, err
	}

	return AssignCourierCommand{
		orderID: &orderID,
		agentID: &agentID,
		guard:   guard.NewConstructorGuard(),
	}, nil
}

// Validate ensures the command was created through a constructor.
func (c AssignCourierCommand) Validate() error {
	return c.guard.Validate(ErrAssignCourierCommandIsNotConstructed)
}

// IsManual reports whether the command names an explicit order/agent pair.
func (c AssignCourierCommand) IsManual() bool {
	return c.orderID != nil
}

// OrderID returns the explicitly targeted order, nil for automatic dispatch.
func (c AssignCourierCommand) OrderID() *kernel.UUID { return c.orderID }

// AgentID returns the explicitly requested agent, nil for automatic dispatch.
func (c AssignCourierCommand) AgentID() *kernel.UUID { return c.agentID }
