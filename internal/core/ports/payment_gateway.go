package ports

import (
	"context"
	"errors"

	"fooddelivery/internal/core/domain/model/kernel"

	"github.com/shopspring/decimal"
)

// ErrSignatureInvalid is returned by VerifyCallback when the payload
// signature does not check out. Callbacks failing verification are rejected
// before any state is read or written.
var ErrSignatureInvalid = errors.New("callback signature is invalid")

// CallbackEvent is a verified, provider-neutral payment notification.
type CallbackEvent struct {
	IntentID  string
	OrderID   kernel.UUID
	Succeeded bool
}

// PaymentGateway abstracts an external payment provider. One adapter exists
// per provider signature scheme; the reconciliation commands only see this
// interface.
type PaymentGateway interface {
	// CreateIntent registers a payment of the given amount with the provider
	// and returns the provider-issued intent id. The call is not retried
	// internally; on failure the order's payment stays pending.
	CreateIntent(ctx context.Context, orderID kernel.UUID, amount decimal.Decimal) (string, error)

	// VerifyCallback checks the provider signature over the raw payload and,
	// only if it is authentic, decodes it into a CallbackEvent. Returns
	// ErrSignatureInvalid on any verification failure.
	VerifyCallback(payload []byte, signature string) (CallbackEvent, error)
}
