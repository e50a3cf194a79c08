// Package commands contains business operations that modify system state.
// Implements the Command pattern for write operations in the CQRS architecture.
// All commands follow a consistent pattern: validation, transaction management, and persistence.
package commands

import (
	"context"

	"fooddelivery/internal/core/ports"
)

// Unit of Work interfaces provide transaction management for command handlers.
// These abstractions ensure data consistency across aggregate boundaries.
type (
	// TxManager handles database transaction lifecycle.
	// Ensures atomic operations across multiple repository calls.
	TxManager interface {
		Begin(ctx context.Context) error
		Commit(ctx context.Context) error
		Rollback(ctx context.Context) error
	}

	// OrderRepoFactory provides access to the order repository within a transaction.
	OrderRepoFactory interface {
		OrderRepository() ports.OrderRepository
	}

	// AgentRepoFactory provides access to the agent repository within a transaction.
	AgentRepoFactory interface {
		AgentRepository() ports.AgentRepository
	}

	// RestaurantRepoFactory provides access to the restaurant repository within a transaction.
	RestaurantRepoFactory interface {
		RestaurantRepository() ports.RestaurantRepository
	}

	// OrderUoW manages transactions for order-only operations,
	// such as the payment reconciliation commands.
	OrderUoW interface {
		TxManager
		OrderRepoFactory
	}

	// OrderUoWFactory creates new order unit of work instances.
	OrderUoWFactory interface {
		Create() OrderUoW
	}

	// OrderRestaurantUoW manages transactions spanning order and restaurant
	// aggregates. Placement reads the restaurant's pricing parameters while
	// writing the order; rating submission writes the order's rating and the
	// restaurant's recomputed average together.
	OrderRestaurantUoW interface {
		TxManager
		OrderRepoFactory
		RestaurantRepoFactory
	}

	// OrderRestaurantUoWFactory creates new order+restaurant unit of work instances.
	OrderRestaurantUoWFactory interface {
		Create() OrderRestaurantUoW
	}

	// UoW manages transactions across order and agent aggregates.
	// Dispatch, cancellation, delivery completion and location reporting all
	// touch both, and the agent↔order binding must commit atomically.
	UoW interface {
		TxManager
		OrderRepoFactory
		AgentRepoFactory
	}

	// UoWFactory creates new unit of work instances for order+agent operations.
	UoWFactory interface {
		Create() UoW
	}

)
