package order

import (
	"fmt"

	"fooddelivery/internal/pkg/errs"
)

// Status represents the fulfillment state of an order.
// It implements a state machine with a fixed legal transition set:
//
//	Pending ──> Confirmed ──> Preparing ──> OutForDelivery ──> Delivered
//	   │            │
//	   └────────────┴──> Cancelled   (any non-terminal state when an
//	                                  admin cancels)
//
// Delivered and Cancelled are terminal: no further transition is legal from
// either.
type Status int

const (
	// StatusUnknown represents an invalid or undefined status.
	// This value (0) helps catch uninitialized Status values.
	StatusUnknown Status = iota

	// StatusPending is the initial status assigned at order placement.
	StatusPending

	// StatusConfirmed indicates the restaurant accepted the order.
	// Courier assignment moves a pending order here implicitly.
	StatusConfirmed

	// StatusPreparing indicates the kitchen started preparing the order.
	StatusPreparing

	// StatusOutForDelivery indicates the courier picked the order up.
	StatusOutForDelivery

	// StatusDelivered indicates the courier handed the order over. Terminal.
	StatusDelivered

	// StatusCancelled indicates the order was cancelled by the customer,
	// the restaurant, or an admin. Terminal.
	StatusCancelled
)

// Actor identifies who requested a fulfillment transition. The legality of
// some edges depends on it: only an admin may cancel an order that already
// left the confirmed stage.
type Actor int

const (
	ActorUnknown Actor = iota
	ActorUser
	ActorRestaurant
	ActorCourier
	ActorAdmin
)

func getActorStrings() map[Actor]string {
	return map[Actor]string{
		ActorUnknown:    "unknown",
		ActorUser:       "user",
		ActorRestaurant: "restaurant",
		ActorCourier:    "courier",
		ActorAdmin:      "admin",
	}
}

// ActorFromString parses the wire representation of an actor.
func ActorFromString(s string) (Actor, error) {
	for actor, str := range getActorStrings() {
		if str == s && actor != ActorUnknown {
			return actor, nil
		}
	}
	return ActorUnknown, errs.NewValueIsInvalidErrorWithCause("actor",
		fmt.Errorf("%q is not a valid actor", s))
}

// String returns the wire representation of the actor.
func (a Actor) String() string {
	if str, ok := getActorStrings()[a]; ok {
		return str
	}
	return "unknown"
}

// Validate checks that the Actor value is one of the defined actors.
func (a Actor) Validate() error {
	if _, ok := getActorStrings()[a]; !ok || a == ActorUnknown {
		return errs.NewValueIsInvalidErrorWithCause("actor",
			fmt.Errorf("%d is not a valid actor", a))
	}
	return nil
}

// InvalidTransitionError indicates an attempted fulfillment transition that
// is not in the legal edge set.
type InvalidTransitionError struct {
	From Status
	To   Status
}

func (e *InvalidTransitionError) Error() string {
	return fmt.Sprintf("invalid order status transition: %s -> %s", e.From, e.To)
}

func getStatusStrings() map[Status]string {
	return map[Status]string{
		StatusUnknown:        "unknown",
		StatusPending:        "pending",
		StatusConfirmed:      "confirmed",
		StatusPreparing:      "preparing",
		StatusOutForDelivery: "out-for-delivery",
		StatusDelivered:      "delivered",
		StatusCancelled:      "cancelled",
	}
}

// StatusFromString parses the wire representation of a status.
func StatusFromString(s string) (Status, error) {
	for status, str := range getStatusStrings() {
		if str == s && status != StatusUnknown {
			return status, nil
		}
	}
	return StatusUnknown, errs.NewValueIsInvalidErrorWithCause("status",
		fmt.Errorf("%q is not a valid order status", s))
}

// String returns the wire representation of the status.
// It implements the fmt.Stringer interface and is safe to call on any
// Status value, including invalid ones.
func (s Status) String() string {
	if str, ok := getStatusStrings()[s]; ok {
		return str
	}
	return "unknown"
}

// Validate checks that the Status value is one of the defined states.
func (s Status) Validate() error {
	if _, ok := getStatusStrings()[s]; !ok || s == StatusUnknown {
		return errs.NewValueIsInvalidErrorWithCause("status",
			fmt.Errorf("%d is not a valid status", s))
	}
	return nil
}

// IsTerminal reports whether no further fulfillment transition is legal
// from this status.
func (s Status) IsTerminal() bool {
	return s == StatusDelivered || s == StatusCancelled
}

// forwardEdges is the legal non-cancellation transition set.
func forwardEdges() map[Status]Status {
	return map[Status]Status{
		StatusPending:        StatusConfirmed,
		StatusConfirmed:      StatusPreparing,
		StatusPreparing:      StatusOutForDelivery,
		StatusOutForDelivery: StatusDelivered,
	}
}

// CanTransitionTo checks whether moving from s to target is legal for the
// given actor, without performing the transition.
//
// Returns nil when the edge is legal and an *InvalidTransitionError
// otherwise. Transitions out of a terminal state are never legal.
func (s Status) CanTransitionTo(target Status, actor Actor) error {
	if err := target.Validate(); err != nil {
		return err
	}

	if s.IsTerminal() {
		return &InvalidTransitionError{From: s, To: target}
	}

	if target == StatusCancelled {
		if s == StatusPending || s == StatusConfirmed || actor == ActorAdmin {
			return nil
		}
		return &InvalidTransitionError{From: s, To: target}
	}

	if next, ok := forwardEdges()[s]; ok && next == target {
		return nil
	}

	return &InvalidTransitionError{From: s, To: target}
}
