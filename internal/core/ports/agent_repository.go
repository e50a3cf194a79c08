package ports

import (
	"context"

	"fooddelivery/internal/core/domain/model/agent"
	"fooddelivery/internal/core/domain/model/kernel"
)

// AgentRepository defines the persistence contract for delivery agent
// aggregates.
type AgentRepository interface {
	// Add persists a new agent aggregate to storage.
	Add(ctx context.Context, aggregate *agent.Agent) error

	// Update persists changes to an existing agent aggregate. Like order
	// updates it is a compare-and-swap on the aggregate version, which is
	// what makes two dispatchers racing for the same agent safe: the loser's
	// write matches zero rows and fails with errs.VersionIsInvalidError.
	Update(ctx context.Context, aggregate *agent.Agent) error

	// Get retrieves an agent aggregate by its unique identifier.
	Get(ctx context.Context, id kernel.UUID) (*agent.Agent, error)

	// GetAllAvailable retrieves all agents that are on duty with no active
	// order. Candidate pool for the dispatch matcher.
	GetAllAvailable(ctx context.Context) ([]*agent.Agent, error)
}
