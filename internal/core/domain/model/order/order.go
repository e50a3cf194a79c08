package order

import (
	"errors"
	"strings"
	"time"

	"fooddelivery/internal/core/domain/model/kernel"
	"fooddelivery/internal/pkg/errs"
	"fooddelivery/internal/pkg/guard"

	"github.com/shopspring/decimal"
)

// Domain errors for order operations.
var (
	// ErrOrderIsNotConstructed is returned when an Order instance was not
	// created through NewOrder or RestoreOrder.
	ErrOrderIsNotConstructed = errors.New("Order must be created via NewOrder or RestoreOrder")
	// ErrAlreadyCancelled is returned when cancelling an order that already
	// carries a cancellation record. The first cancellation wins.
	ErrAlreadyCancelled = errors.New("order is already cancelled")
	// ErrCannotCancelAtThisStage is returned when the requesting actor may
	// not cancel the order in its current fulfillment status.
	ErrCannotCancelAtThisStage = errors.New("order cannot be cancelled at this stage")
	// ErrAlreadyRated is returned when a rating was already recorded.
	ErrAlreadyRated = errors.New("order is already rated")
	// ErrNotDelivered is returned when rating an order that has not been
	// delivered.
	ErrNotDelivered = errors.New("order is not delivered")
	// ErrCourierAlreadyAssigned is returned when assigning a courier to an
	// order that already has one.
	ErrCourierAlreadyAssigned = errors.New("order already has an assigned courier")
	// ErrNoItems is returned when an order is placed without line items.
	ErrNoItems = errs.NewValueIsRequiredError("items")
)

// StatusChange is one entry of the append-only status history.
type StatusChange struct {
	Status Status
	At     time.Time
	Note   string
}

// Delivery is the order's courier-assignment sub-record.
type Delivery struct {
	agentID         *kernel.UUID
	assignedAt      *time.Time
	pickedUpAt      *time.Time
	deliveredAt     *time.Time
	currentLocation *kernel.GeoPoint
}

// AgentID returns the assigned courier's id, nil when unassigned.
func (d Delivery) AgentID() *kernel.UUID {
	return d.agentID
}

// AssignedAt returns when the courier was bound to the order.
func (d Delivery) AssignedAt() *time.Time {
	return d.assignedAt
}

// PickedUpAt returns when the courier picked the order up.
func (d Delivery) PickedUpAt() *time.Time {
	return d.pickedUpAt
}

// DeliveredAt returns when the courier handed the order over.
func (d Delivery) DeliveredAt() *time.Time {
	return d.deliveredAt
}

// CurrentLocation returns the courier's last reported position for this
// order, nil before the first ping.
func (d Delivery) CurrentLocation() *kernel.GeoPoint {
	return d.currentLocation
}

// RestoreDeliveryParams carries the persisted state of a delivery record.
type RestoreDeliveryParams struct {
	AgentID         *kernel.UUID
	AssignedAt      *time.Time
	PickedUpAt      *time.Time
	DeliveredAt     *time.Time
	CurrentLocation *kernel.GeoPoint
}

// RestoreDelivery reconstructs the delivery record from persistent storage.
func RestoreDelivery(params RestoreDeliveryParams) Delivery {
	return Delivery{
		agentID:         params.AgentID,
		assignedAt:      params.AssignedAt,
		pickedUpAt:      params.PickedUpAt,
		deliveredAt:     params.DeliveredAt,
		currentLocation: params.CurrentLocation,
	}
}

// Cancellation records who cancelled the order, why, and when.
// It is written exactly once, on entry to the cancelled status.
type Cancellation struct {
	Reason string
	Actor  Actor
	At     time.Time
}

// Rating is the customer's one-shot review of a delivered order.
type Rating struct {
	food     int
	delivery int
	overall  decimal.Decimal
	review   string
	at       time.Time
}

// NewRating validates the food and delivery scores (1 to 5 each) and
// derives the overall score as their mean rounded to one decimal place.
func NewRating(food, delivery int, review string, at time.Time) (Rating, error) {
	if food < 1 || food > 5 {
		return Rating{}, errs.NewValueIsOutOfRangeError("food rating", food, 1, 5)
	}
	if delivery < 1 || delivery > 5 {
		return Rating{}, errs.NewValueIsOutOfRangeError("delivery rating", delivery, 1, 5)
	}

	overall := decimal.NewFromInt(int64(food + delivery)).
		Div(decimal.NewFromInt(2)).
		Round(1)

	return Rating{
		food:     food,
		delivery: delivery,
		overall:  overall,
		review:   review,
		at:       at,
	}, nil
}

// Food returns the food score.
func (r Rating) Food() int { return r.food }

// Delivery returns the delivery score.
func (r Rating) Delivery() int { return r.delivery }

// Overall returns round1((food + delivery) / 2).
func (r Rating) Overall() decimal.Decimal { return r.overall }

// Review returns the free-text review, possibly empty.
func (r Rating) Review() string { return r.review }

// At returns when the rating was submitted.
func (r Rating) At() time.Time { return r.at }

// Order is the aggregate root of the food-delivery lifecycle. It owns the
// fulfillment state machine, the independent payment state machine, the
// immutable line-item and pricing snapshot, the courier assignment, and the
// one-shot cancellation and rating records.
//
// Order follows these invariants:
//   - Items and pricing are frozen at creation and never recomputed
//   - pricing.Total() always equals subtotal + deliveryFee + tax - discount
//   - Every fulfillment transition appends exactly one history entry
//   - The cancellation record is written at most once; first write wins
//   - A rating can be set exactly once and only when delivered
//   - Payment status never changes fulfillment status and vice versa
type Order struct {
	id           kernel.UUID
	userID       kernel.UUID
	restaurantID kernel.UUID
	items        []Item
	pricing      Pricing
	address      string
	phone        string
	status       Status
	history      []StatusChange
	payment      Payment
	delivery     Delivery
	rating       *Rating
	cancellation *Cancellation

	// version is the optimistic-concurrency token assigned by persistence.
	version int

	guard guard.ConstructorGuard
}

// NewOrder creates a pending order with a frozen pricing snapshot.
//
// The subtotal is derived from the line items, the tax from the
// restaurant's tax percent at placement time. The implicit first status
// history entry (pending) is seeded here.
func NewOrder(
	id kernel.UUID,
	userID kernel.UUID,
	restaurantID kernel.UUID,
	items []Item,
	address string,
	phone string,
	method PaymentMethod,
	deliveryFee decimal.Decimal,
	taxPercent decimal.Decimal,
	discount decimal.Decimal,
	now time.Time,
) (*Order, error) {
	if len(items) == 0 {
		return nil, ErrNoItems
	}

	subtotal := decimal.Zero
	for _, item := range items {
		if err := item.Validate(); err != nil {
			return nil, err
		}
		subtotal = subtotal.Add(item.LineTotal())
	}

	tax := subtotal.Mul(taxPercent).Div(decimal.NewFromInt(100)).Round(2)
	pricing, err := NewPricing(subtotal, deliveryFee, tax, discount)
	if err != nil {
		return nil, err
	}

	o := &Order{
		items:   append([]Item(nil), items...),
		pricing: pricing,
		status:  StatusPending,
		history: []StatusChange{{Status: StatusPending, At: now, Note: "order placed"}},
		payment: Payment{method: method, status: PaymentStatusPending},
		guard:   guard.NewConstructorGuard(),
	}

	if err := errors.Join(
		o.setID(id),
		o.setUserID(userID),
		o.setRestaurantID(restaurantID),
		o.setAddress(address),
		o.setPhone(phone),
		o.setPaymentMethod(method),
	); err != nil {
		return nil, err
	}

	return o, nil
}

// RestoreOrderParams carries the persisted state of an order aggregate.
type RestoreOrderParams struct {
	ID           kernel.UUID
	UserID       kernel.UUID
	RestaurantID kernel.UUID
	Items        []Item
	Pricing      Pricing
	Address      string
	Phone        string
	Status       Status
	History      []StatusChange
	Payment      Payment
	Delivery     Delivery
	Rating       *Rating
	Cancellation *Cancellation
	Version      int
}

// RestoreOrder reconstructs an Order aggregate from persistent storage.
// Unlike NewOrder it does not derive pricing or seed history; the restored
// order behaves identically to one built through normal domain operations.
func RestoreOrder(params RestoreOrderParams) (*Order, error) {
	if len(params.Items) == 0 {
		return nil, ErrNoItems
	}
	if err := params.Pricing.Validate(); err != nil {
		return nil, err
	}
	if err := params.Status.Validate(); err != nil {
		return nil, err
	}
	if len(params.History) == 0 {
		return nil, errs.NewValueIsRequiredError("status history")
	}

	o := &Order{
		items:        append([]Item(nil), params.Items...),
		pricing:      params.Pricing,
		status:       params.Status,
		history:      append([]StatusChange(nil), params.History...),
		payment:      params.Payment,
		delivery:     params.Delivery,
		rating:       params.Rating,
		cancellation: params.Cancellation,
		version:      params.Version,
		guard:        guard.NewConstructorGuard(),
	}

	if err := errors.Join(
		o.setID(params.ID),
		o.setUserID(params.UserID),
		o.setRestaurantID(params.RestaurantID),
		o.setAddress(params.Address),
		o.setPhone(params.Phone),
		o.setPaymentMethod(params.Payment.method),
	); err != nil {
		return nil, err
	}

	return o, nil
}

// Validate ensures the Order instance was properly constructed.
func (o *Order) Validate() error {
	if o == nil {
		return ErrOrderIsNotConstructed
	}
	return o.guard.Validate(ErrOrderIsNotConstructed)
}

// IsEqual compares two orders by their unique identifiers.
func (o *Order) IsEqual(other *Order) bool {
	return other != nil && o.id.IsEqual(other.id)
}

// ID returns the order's unique identifier.
func (o *Order) ID() kernel.UUID { return o.id }

// UserID returns the owning customer's id.
func (o *Order) UserID() kernel.UUID { return o.userID }

// RestaurantID returns the restaurant the order was placed with.
func (o *Order) RestaurantID() kernel.UUID { return o.restaurantID }

// Items returns a copy of the frozen line items.
func (o *Order) Items() []Item {
	out := make([]Item, len(o.items))
	copy(out, o.items)
	return out
}

// Pricing returns the frozen money breakdown.
func (o *Order) Pricing() Pricing { return o.pricing }

// Address returns the delivery address.
func (o *Order) Address() string { return o.address }

// Phone returns the customer's contact phone.
func (o *Order) Phone() string { return o.phone }

// Status returns the current fulfillment status.
func (o *Order) Status() Status { return o.status }

// History returns a copy of the append-only status history, in
// chronological order.
func (o *Order) History() []StatusChange {
	out := make([]StatusChange, len(o.history))
	copy(out, o.history)
	return out
}

// Payment returns the payment sub-record.
func (o *Order) Payment() Payment { return o.payment }

// Delivery returns the courier-assignment sub-record.
func (o *Order) Delivery() Delivery { return o.delivery }

// Rating returns the customer rating, nil until submitted.
func (o *Order) Rating() *Rating { return o.rating }

// Cancellation returns the cancellation record, nil unless cancelled.
func (o *Order) Cancellation() *Cancellation { return o.cancellation }

// Version returns the optimistic-concurrency token last read from storage.
func (o *Order) Version() int { return o.version }

// TransitionTo moves the order along a legal fulfillment edge and appends
// the corresponding history entry.
//
// Side effects on entry:
//   - out-for-delivery: stamps the pickup time
//   - delivered: stamps the delivery time
//
// Cancellation is not reachable through this method: it carries a reason
// and an exactly-once record, so it goes through Cancel.
func (o *Order) TransitionTo(target Status, actor Actor, note string, at time.Time) error {
	if err := o.Validate(); err != nil {
		return err
	}
	if target == StatusCancelled {
		return &InvalidTransitionError{From: o.status, To: target}
	}
	if err := o.status.CanTransitionTo(target, actor); err != nil {
		return err
	}

	switch target {
	case StatusOutForDelivery:
		pickedUp := at
		o.delivery.pickedUpAt = &pickedUp
	case StatusDelivered:
		delivered := at
		o.delivery.deliveredAt = &delivered
	}

	o.applyStatus(target, note, at)
	return nil
}

// Cancel terminates the order into the cancelled status and writes the
// cancellation record. The first cancellation wins: a second attempt fails
// with ErrAlreadyCancelled. Non-admin actors may only cancel pending or
// confirmed orders; an admin may cancel from any non-terminal status.
func (o *Order) Cancel(actor Actor, reason string, at time.Time) error {
	if err := o.Validate(); err != nil {
		return err
	}
	if strings.TrimSpace(reason) == "" {
		return errs.NewValueIsRequiredError("cancellation reason")
	}
	if o.status == StatusCancelled || o.cancellation != nil {
		return ErrAlreadyCancelled
	}
	if o.status == StatusDelivered {
		return ErrCannotCancelAtThisStage
	}
	if err := o.status.CanTransitionTo(StatusCancelled, actor); err != nil {
		return ErrCannotCancelAtThisStage
	}

	o.cancellation = &Cancellation{Reason: reason, Actor: actor, At: at}
	o.applyStatus(StatusCancelled, reason, at)
	return nil
}

// AssignAgent binds a courier to the order and stamps the assignment time.
// A pending order moves to confirmed as part of the assignment. Orders that
// already carry a courier or have left the preparing stage reject the
// assignment.
func (o *Order) AssignAgent(agentID kernel.UUID, at time.Time) error {
	if err := o.Validate(); err != nil {
		return err
	}
	if err := agentID.Validate(); err != nil {
		return err
	}
	if o.delivery.agentID != nil {
		return ErrCourierAlreadyAssigned
	}
	switch o.status {
	case StatusPending, StatusConfirmed, StatusPreparing:
	default:
		return &InvalidTransitionError{From: o.status, To: o.status}
	}

	id := agentID
	assigned := at
	o.delivery.agentID = &id
	o.delivery.assignedAt = &assigned

	if o.status == StatusPending {
		o.applyStatus(StatusConfirmed, "courier assigned", at)
	}
	return nil
}

// UpdateLocation overwrites the courier's live position for this order.
// Updates are accepted at whatever frequency the courier client sends them.
func (o *Order) UpdateLocation(location kernel.GeoPoint) error {
	if err := o.Validate(); err != nil {
		return err
	}
	if err := location.Validate(); err != nil {
		return err
	}
	o.delivery.currentLocation = &location
	return nil
}

// Rate records the customer's rating. Legal exactly once, and only when
// the order is delivered.
func (o *Order) Rate(food, delivery int, review string, at time.Time) error {
	if err := o.Validate(); err != nil {
		return err
	}
	if o.status != StatusDelivered {
		return ErrNotDelivered
	}
	if o.rating != nil {
		return ErrAlreadyRated
	}

	rating, err := NewRating(food, delivery, review, at)
	if err != nil {
		return err
	}
	o.rating = &rating
	return nil
}

// BeginPayment stores the gateway correlation id and moves the payment to
// processing. Calling it again while already processing with the same
// intent is a no-op, which makes intent creation idempotent. Cash orders
// never interact with a gateway.
func (o *Order) BeginPayment(intentID string) error {
	if err := o.Validate(); err != nil {
		return err
	}
	if !o.payment.method.UsesGateway() {
		return ErrNoGatewayForCash
	}
	if strings.TrimSpace(intentID) == "" {
		return errs.NewValueIsRequiredError("intent id")
	}
	if o.payment.status == PaymentStatusProcessing && o.payment.intentID == intentID {
		return nil
	}
	if o.payment.status != PaymentStatusPending && o.payment.status != PaymentStatusFailed {
		return &InvalidPaymentTransitionError{From: o.payment.status, To: PaymentStatusProcessing}
	}

	o.payment.intentID = intentID
	o.payment.status = PaymentStatusProcessing
	return nil
}

// CompletePayment marks the payment settled and stamps the paid time.
// Completing an already completed payment is a no-op: gateways retry
// webhooks, and the retried confirmation must still succeed. It does not
// touch the fulfillment status.
func (o *Order) CompletePayment(at time.Time) error {
	if err := o.Validate(); err != nil {
		return err
	}
	if o.payment.status == PaymentStatusCompleted {
		return nil
	}
	if o.payment.status != PaymentStatusProcessing {
		return &InvalidPaymentTransitionError{From: o.payment.status, To: PaymentStatusCompleted}
	}

	paid := at
	o.payment.status = PaymentStatusCompleted
	o.payment.paidAt = &paid
	return nil
}

// FailPayment marks a processing payment as failed. Failing an already
// failed payment is a no-op.
func (o *Order) FailPayment() error {
	if err := o.Validate(); err != nil {
		return err
	}
	if o.payment.status == PaymentStatusFailed {
		return nil
	}
	if o.payment.status != PaymentStatusProcessing {
		return &InvalidPaymentTransitionError{From: o.payment.status, To: PaymentStatusFailed}
	}

	o.payment.status = PaymentStatusFailed
	return nil
}

// RefundPayment moves a completed payment to refunded, stamping the refund
// time and amount. Refunding a non-completed payment fails with
// ErrRefundNotEligible.
func (o *Order) RefundPayment(amount decimal.Decimal, at time.Time) error {
	if err := o.Validate(); err != nil {
		return err
	}
	if o.payment.status != PaymentStatusCompleted {
		return ErrRefundNotEligible
	}
	if !amount.IsPositive() || amount.GreaterThan(o.pricing.Total()) {
		return errs.NewValueIsInvalidErrorWithCause("refund amount",
			errors.New("refund amount must be positive and not exceed the order total"))
	}

	refunded := at
	o.payment.status = PaymentStatusRefunded
	o.payment.refundedAt = &refunded
	o.payment.refundAmount = amount
	return nil
}

// applyStatus is the single write path for the fulfillment status. The
// status change and its history entry always happen together.
func (o *Order) applyStatus(target Status, note string, at time.Time) {
	o.status = target
	o.history = append(o.history, StatusChange{Status: target, At: at, Note: note})
}

func (o *Order) setID(id kernel.UUID) error {
	if err := id.Validate(); err != nil {
		return err
	}
	o.id = id
	return nil
}

func (o *Order) setUserID(id kernel.UUID) error {
	if err := id.Validate(); err != nil {
		return errs.NewValueIsRequiredErrorWithCause("user id", err)
	}
	o.userID = id
	return nil
}

func (o *Order) setRestaurantID(id kernel.UUID) error {
	if err := id.Validate(); err != nil {
		return errs.NewValueIsRequiredErrorWithCause("restaurant id", err)
	}
	o.restaurantID = id
	return nil
}

func (o *Order) setAddress(address string) error {
	if strings.TrimSpace(address) == "" {
		return errs.NewValueIsRequiredError("address")
	}
	o.address = address
	return nil
}

func (o *Order) setPhone(phone string) error {
	if strings.TrimSpace(phone) == "" {
		return errs.NewValueIsRequiredError("phone")
	}
	o.phone = phone
	return nil
}

func (o *Order) setPaymentMethod(method PaymentMethod) error {
	return method.Validate()
}
