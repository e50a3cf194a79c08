package services

import (
	"errors"
	"time"

	"fooddelivery/internal/core/domain/model/agent"
	"fooddelivery/internal/core/domain/model/order"
)

// ErrNoAgentAvailable is returned when no delivery agent can take the order.
// This occurs when either no agents are provided or none of the provided
// agents is on duty and free of an active order.
var ErrNoAgentAvailable = errors.New("no agent available")

// DispatchMatcher is a domain service responsible for pairing a pending order
// with a delivery agent. It mutates both aggregates in memory; the caller
// persists them in one transaction so the agent↔order binding is atomic.
//
// Business rules:
//   - Only on-duty agents without an active order are eligible
//   - Among eligible agents the one with the fewest total deliveries wins,
//     first-listed on ties
//   - A matched order auto-confirms if it is still pending
type DispatchMatcher struct{}

// NewDispatchMatcher creates a new DispatchMatcher instance.
func NewDispatchMatcher() DispatchMatcher {
	return DispatchMatcher{}
}

// Match selects the best candidate for the order and binds the pair. Returns
// ErrNoAgentAvailable when no candidate is eligible.
func (m DispatchMatcher) Match(
	o *order.Order,
	candidates []*agent.Agent,
	at time.Time,
) (*agent.Agent, error) {
	if err := o.Validate(); err != nil {
		return nil, err
	}

	best, err := m.findBestAgent(candidates)
	if err != nil {
		return nil, err
	}

	if err := m.bind(o, best, at); err != nil {
		return nil, err
	}

	return best, nil
}

// MatchRequested binds the order to an explicitly chosen agent. Unlike Match
// it does not rank: the agent either is eligible or the assignment fails with
// agent.ErrAgentUnavailable.
func (m DispatchMatcher) MatchRequested(o *order.Order, a *agent.Agent, at time.Time) error {
	if err := errors.Join(o.Validate(), a.Validate()); err != nil {
		return err
	}

	return m.bind(o, a, at)
}

func (m DispatchMatcher) findBestAgent(candidates []*agent.Agent) (*agent.Agent, error) {
	var best *agent.Agent

	for _, a := range candidates {
		if err := a.Validate(); err != nil {
			return nil, err
		}

		if !a.IsAvailable() {
			continue
		}

		if best == nil || a.TotalDeliveries() < best.TotalDeliveries() {
			best = a
		}
	}

	if best == nil {
		return nil, ErrNoAgentAvailable
	}

	return best, nil
}

func (m DispatchMatcher) bind(o *order.Order, a *agent.Agent, at time.Time) error {
	if err := a.Take(o.ID()); err != nil {
		return err
	}

	if err := o.AssignAgent(a.ID(), at); err != nil {
		return err
	}

	return nil
}
