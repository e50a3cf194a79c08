// Package agent contains the DeliveryAgent aggregate: a courier capable of
// carrying exactly one active order at a time.
//
// The agent's duty state is a single tagged value (Offline, OnlineIdle,
// OnlineBusy) instead of a pair of independently settable booleans. The
// legacy flags are derived from it: IsOnline is "not offline" and
// IsAvailable is "online and idle", so isAvailable can never drift out of
// sync with isOnline or with the active-order reference.
package agent

import (
	"errors"
	"fmt"
	"time"

	"fooddelivery/internal/core/domain/model/kernel"
	"fooddelivery/internal/pkg/errs"
	"fooddelivery/internal/pkg/guard"

	"github.com/shopspring/decimal"
)

// courierFeeShare is the fixed fraction of an order's delivery fee credited
// to the courier on successful delivery.
var courierFeeShare = decimal.New(7, -1) // 0.7

// Domain errors for agent operations.
var (
	// ErrAgentIsNotConstructed is returned when an Agent instance was not
	// created through NewAgent or RestoreAgent.
	ErrAgentIsNotConstructed = errors.New("Agent must be created via NewAgent or RestoreAgent")
	// ErrAgentUnavailable is returned when binding an order to an agent that
	// is offline or already carrying one.
	ErrAgentUnavailable = errors.New("agent is not available for assignment")
	// ErrAgentBusy is returned when an agent tries to go off duty while
	// still carrying an order.
	ErrAgentBusy = errors.New("agent has an active order")
	// ErrNoActiveOrder is returned when completing or releasing a delivery
	// on an agent that carries none.
	ErrNoActiveOrder = errors.New("agent has no active order")
)

// State is the agent's duty state.
type State int

const (
	// StateOffline means the courier is off duty.
	StateOffline State = iota
	// StateOnlineIdle means the courier is on duty with no active order.
	StateOnlineIdle
	// StateOnlineBusy means the courier is on duty and bound to an order.
	StateOnlineBusy
)

func getStateStrings() map[State]string {
	return map[State]string{
		StateOffline:    "offline",
		StateOnlineIdle: "online-idle",
		StateOnlineBusy: "online-busy",
	}
}

// StateFromString parses the wire representation of a duty state.
func StateFromString(s string) (State, error) {
	for state, str := range getStateStrings() {
		if str == s {
			return state, nil
		}
	}
	return StateOffline, errs.NewValueIsInvalidErrorWithCause("state",
		fmt.Errorf("%q is not a valid agent state", s))
}

// String returns the wire representation of the duty state.
func (s State) String() string {
	if str, ok := getStateStrings()[s]; ok {
		return str
	}
	return "offline"
}

// Agent is the aggregate root for a delivery courier.
//
// Agent follows these invariants:
//   - activeOrder is non-nil if and only if the state is OnlineBusy
//   - IsAvailable implies IsOnline and activeOrder == nil
//   - Earnings and delivery counters change only on completed deliveries
type Agent struct {
	id          kernel.UUID
	userID      kernel.UUID
	state       State
	activeOrder *kernel.UUID

	earnings            decimal.Decimal
	completedDeliveries int
	totalDeliveries     int

	lastLocation *kernel.GeoPoint
	lastSeenAt   *time.Time

	// version is the optimistic-concurrency token assigned by persistence.
	// Assignment races on the same agent are decided by a compare-and-swap
	// on it, never by last-write-wins.
	version int

	guard guard.ConstructorGuard
}

// NewAgent creates an off-duty agent linked 1:1 to a user account.
func NewAgent(id, userID kernel.UUID) (*Agent, error) {
	a := &Agent{
		state:    StateOffline,
		earnings: decimal.Zero,
		guard:    guard.NewConstructorGuard(),
	}

	if err := errors.Join(a.setID(id), a.setUserID(userID)); err != nil {
		return nil, err
	}

	return a, nil
}

// RestoreAgentParams carries the persisted state of an agent aggregate.
type RestoreAgentParams struct {
	ID                  kernel.UUID
	UserID              kernel.UUID
	State               State
	ActiveOrder         *kernel.UUID
	Earnings            decimal.Decimal
	CompletedDeliveries int
	TotalDeliveries     int
	LastLocation        *kernel.GeoPoint
	LastSeenAt          *time.Time
	Version             int
}

// RestoreAgent reconstructs an Agent aggregate from persistent storage and
// re-checks the state/active-order consistency invariant.
func RestoreAgent(params RestoreAgentParams) (*Agent, error) {
	if (params.State == StateOnlineBusy) != (params.ActiveOrder != nil) {
		return nil, errs.NewValueIsInvalidErrorWithCause("agent state",
			fmt.Errorf("state %s is inconsistent with active order", params.State))
	}

	a := &Agent{
		state:               params.State,
		activeOrder:         params.ActiveOrder,
		earnings:            params.Earnings,
		completedDeliveries: params.CompletedDeliveries,
		totalDeliveries:     params.TotalDeliveries,
		lastLocation:        params.LastLocation,
		lastSeenAt:          params.LastSeenAt,
		version:             params.Version,
		guard:               guard.NewConstructorGuard(),
	}

	if err := errors.Join(a.setID(params.ID), a.setUserID(params.UserID)); err != nil {
		return nil, err
	}

	return a, nil
}

// Validate ensures the Agent instance was properly constructed.
func (a *Agent) Validate() error {
	if a == nil {
		return ErrAgentIsNotConstructed
	}
	return a.guard.Validate(ErrAgentIsNotConstructed)
}

// ID returns the agent's unique identifier.
func (a *Agent) ID() kernel.UUID { return a.id }

// UserID returns the linked user account id.
func (a *Agent) UserID() kernel.UUID { return a.userID }

// State returns the duty state.
func (a *Agent) State() State { return a.state }

// IsOnline reports whether the agent is on duty.
func (a *Agent) IsOnline() bool { return a.state != StateOffline }

// IsAvailable reports whether the agent can take an order: on duty and not
// currently assigned.
func (a *Agent) IsAvailable() bool { return a.state == StateOnlineIdle }

// ActiveOrder returns the id of the order the agent is carrying, nil when
// idle or offline.
func (a *Agent) ActiveOrder() *kernel.UUID { return a.activeOrder }

// Earnings returns the cumulative credited earnings.
func (a *Agent) Earnings() decimal.Decimal { return a.earnings }

// CompletedDeliveries returns the successful delivery counter.
func (a *Agent) CompletedDeliveries() int { return a.completedDeliveries }

// TotalDeliveries returns the total delivery counter.
func (a *Agent) TotalDeliveries() int { return a.totalDeliveries }

// LastLocation returns the last reported position, nil before the first ping.
func (a *Agent) LastLocation() *kernel.GeoPoint { return a.lastLocation }

// LastSeenAt returns when the last position ping arrived.
func (a *Agent) LastSeenAt() *time.Time { return a.lastSeenAt }

// Version returns the optimistic-concurrency token last read from storage.
func (a *Agent) Version() int { return a.version }

// GoOnline puts the agent on duty. Going online while already online is a
// no-op.
func (a *Agent) GoOnline() error {
	if err := a.Validate(); err != nil {
		return err
	}
	if a.state == StateOffline {
		a.state = StateOnlineIdle
	}
	return nil
}

// GoOffline takes the agent off duty. Illegal while carrying an order.
func (a *Agent) GoOffline() error {
	if err := a.Validate(); err != nil {
		return err
	}
	if a.state == StateOnlineBusy {
		return ErrAgentBusy
	}
	a.state = StateOffline
	return nil
}

// Take binds the agent to an order exclusively. Only an online idle agent
// may take an order; any other state fails with ErrAgentUnavailable.
func (a *Agent) Take(orderID kernel.UUID) error {
	if err := a.Validate(); err != nil {
		return err
	}
	if err := orderID.Validate(); err != nil {
		return err
	}
	if a.state != StateOnlineIdle {
		return ErrAgentUnavailable
	}

	id := orderID
	a.activeOrder = &id
	a.state = StateOnlineBusy
	return nil
}

// Release unbinds the agent from its active order without crediting
// earnings, restoring availability. Used on cancellation.
func (a *Agent) Release() error {
	if err := a.Validate(); err != nil {
		return err
	}
	if a.state != StateOnlineBusy {
		return ErrNoActiveOrder
	}

	a.activeOrder = nil
	a.state = StateOnlineIdle
	return nil
}

// CompleteDelivery finishes the active delivery: credits the courier's
// share of the order's delivery fee, increments both delivery counters, and
// restores availability.
func (a *Agent) CompleteDelivery(deliveryFee decimal.Decimal) error {
	if err := a.Validate(); err != nil {
		return err
	}
	if a.state != StateOnlineBusy {
		return ErrNoActiveOrder
	}
	if deliveryFee.IsNegative() {
		return errs.NewValueIsInvalidErrorWithCause("delivery fee",
			fmt.Errorf("%s is negative", deliveryFee))
	}

	a.earnings = a.earnings.Add(deliveryFee.Mul(courierFeeShare))
	a.completedDeliveries++
	a.totalDeliveries++
	a.activeOrder = nil
	a.state = StateOnlineIdle
	return nil
}

// RecordLocation stores the courier's latest reported position.
func (a *Agent) RecordLocation(point kernel.GeoPoint, at time.Time) error {
	if err := a.Validate(); err != nil {
		return err
	}
	if err := point.Validate(); err != nil {
		return err
	}

	a.lastLocation = &point
	a.lastSeenAt = &at
	return nil
}

func (a *Agent) setID(id kernel.UUID) error {
	if err := id.Validate(); err != nil {
		return err
	}
	a.id = id
	return nil
}

func (a *Agent) setUserID(id kernel.UUID) error {
	if err := id.Validate(); err != nil {
		return errs.NewValueIsRequiredErrorWithCause("user id", err)
	}
	a.userID = id
	return nil
}
