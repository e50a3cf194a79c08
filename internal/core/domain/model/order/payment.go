package order

import (
	"errors"
	"fmt"
	"time"

	"fooddelivery/internal/pkg/errs"

	"github.com/shopspring/decimal"
)

// Payment errors surfaced to the reconciliation flow.
var (
	// ErrRefundNotEligible is returned when a refund is requested for a
	// payment that has not completed.
	ErrRefundNotEligible = errors.New("payment is not eligible for refund")
	// ErrNoGatewayForCash is returned when a gateway interaction is
	// attempted for a cash-on-delivery order.
	ErrNoGatewayForCash = errors.New("cash orders have no payment gateway interaction")
)

// PaymentStatus represents the settlement state of an order's payment.
// It is an independent state machine from the fulfillment Status: an order
// can be preparing before its payment settles, and a cash order stays
// pending for its whole lifetime.
//
//	Pending ──> Processing ──> Completed ──> Refunded
//	                 │
//	                 └──> Failed ──> Processing   (retried intent)
type PaymentStatus int

const (
	PaymentStatusUnknown PaymentStatus = iota
	PaymentStatusPending
	PaymentStatusProcessing
	PaymentStatusCompleted
	PaymentStatusFailed
	PaymentStatusRefunded
)

func getPaymentStatusStrings() map[PaymentStatus]string {
	return map[PaymentStatus]string{
		PaymentStatusUnknown:    "unknown",
		PaymentStatusPending:    "pending",
		PaymentStatusProcessing: "processing",
		PaymentStatusCompleted:  "completed",
		PaymentStatusFailed:     "failed",
		PaymentStatusRefunded:   "refunded",
	}
}

// PaymentStatusFromString parses the wire representation of a payment status.
func PaymentStatusFromString(s string) (PaymentStatus, error) {
	for status, str := range getPaymentStatusStrings() {
		if str == s && status != PaymentStatusUnknown {
			return status, nil
		}
	}
	return PaymentStatusUnknown, errs.NewValueIsInvalidErrorWithCause("paymentStatus",
		fmt.Errorf("%q is not a valid payment status", s))
}

// String returns the wire representation of the payment status.
func (s PaymentStatus) String() string {
	if str, ok := getPaymentStatusStrings()[s]; ok {
		return str
	}
	return "unknown"
}

// InvalidPaymentTransitionError indicates an attempted payment transition
// that is not in the legal edge set.
type InvalidPaymentTransitionError struct {
	From PaymentStatus
	To   PaymentStatus
}

func (e *InvalidPaymentTransitionError) Error() string {
	return fmt.Sprintf("invalid payment status transition: %s -> %s", e.From, e.To)
}

// PaymentMethod identifies how the customer pays for an order.
type PaymentMethod int

const (
	PaymentMethodUnknown PaymentMethod = iota
	// PaymentMethodCash settles on delivery; no gateway is involved and the
	// payment status stays pending permanently.
	PaymentMethodCash
	// PaymentMethodCard settles through the HMAC-verified card gateway.
	PaymentMethodCard
	// PaymentMethodWallet settles through the signed-event wallet gateway.
	PaymentMethodWallet
)

func getPaymentMethodStrings() map[PaymentMethod]string {
	return map[PaymentMethod]string{
		PaymentMethodUnknown: "unknown",
		PaymentMethodCash:    "cash",
		PaymentMethodCard:    "card",
		PaymentMethodWallet:  "wallet",
	}
}

// PaymentMethodFromString parses the wire representation of a payment method.
func PaymentMethodFromString(s string) (PaymentMethod, error) {
	for method, str := range getPaymentMethodStrings() {
		if str == s && method != PaymentMethodUnknown {
			return method, nil
		}
	}
	return PaymentMethodUnknown, errs.NewValueIsInvalidErrorWithCause("paymentMethod",
		fmt.Errorf("%q is not a valid payment method", s))
}

// String returns the wire representation of the payment method.
func (m PaymentMethod) String() string {
	if str, ok := getPaymentMethodStrings()[m]; ok {
		return str
	}
	return "unknown"
}

// Validate rejects unknown payment methods.
func (m PaymentMethod) Validate() error {
	if _, ok := getPaymentMethodStrings()[m]; !ok || m == PaymentMethodUnknown {
		return errs.NewValueIsRequiredError("payment method")
	}
	return nil
}

// UsesGateway reports whether the method settles through an external
// payment gateway.
func (m PaymentMethod) UsesGateway() bool {
	return m == PaymentMethodCard || m == PaymentMethodWallet
}

// Payment is the order's payment sub-record. Its status track is
// independent of the order's fulfillment status.
type Payment struct {
	method       PaymentMethod
	status       PaymentStatus
	intentID     string
	paidAt       *time.Time
	refundedAt   *time.Time
	refundAmount decimal.Decimal
}

// RestorePaymentParams carries the persisted state of a payment record.
type RestorePaymentParams struct {
	Method       PaymentMethod
	Status       PaymentStatus
	IntentID     string
	PaidAt       *time.Time
	RefundedAt   *time.Time
	RefundAmount decimal.Decimal
}

// RestorePayment reconstructs a payment record from persistent storage.
func RestorePayment(params RestorePaymentParams) (Payment, error) {
	if err := params.Method.Validate(); err != nil {
		return Payment{}, err
	}
	if _, ok := getPaymentStatusStrings()[params.Status]; !ok || params.Status == PaymentStatusUnknown {
		return Payment{}, errs.NewValueIsRequiredError("payment status")
	}

	return Payment{
		method:       params.Method,
		status:       params.Status,
		intentID:     params.IntentID,
		paidAt:       params.PaidAt,
		refundedAt:   params.RefundedAt,
		refundAmount: params.RefundAmount,
	}, nil
}

// Method returns how the customer pays.
func (p Payment) Method() PaymentMethod {
	return p.method
}

// Status returns the settlement state.
func (p Payment) Status() PaymentStatus {
	return p.status
}

// IntentID returns the gateway correlation id, empty until an intent is
// created.
func (p Payment) IntentID() string {
	return p.intentID
}

// PaidAt returns when the payment completed, nil if it has not.
func (p Payment) PaidAt() *time.Time {
	return p.paidAt
}

// RefundedAt returns when the payment was refunded, nil if it was not.
func (p Payment) RefundedAt() *time.Time {
	return p.refundedAt
}

// RefundAmount returns the refunded amount, zero if no refund happened.
func (p Payment) RefundAmount() decimal.Decimal {
	return p.refundAmount
}
