package commands

import (
	"errors"

	"fooddelivery/internal/pkg/guard"
)

var (
	ErrApplyPaymentCallbackCommandIsNotConstructed = errors.New(
		"ApplyPaymentCallbackCommand must be created via NewApplyPaymentCallbackCommand constructor",
	)
	ErrProviderIsRequired = errors.New("payment provider is required")
	ErrPayloadIsRequired  = errors.New("callback payload is required")
)

// ApplyPaymentCallbackCommand carries a raw provider callback: the provider
// name from the URL, the request body and the signature header. Nothing in it
// is trusted until the gateway adapter verifies the signature.
type ApplyPaymentCallbackCommand struct { //nolint:recvcheck //using for validation
	provider  string
	payload   []byte
	signature string

	guard guard.ConstructorGuard
}

// NewApplyPaymentCallbackCommand creates a payment callback command.
func NewApplyPaymentCallbackCommand(
	provider string,
	payload []byte,
	signature string,
) (ApplyPaymentCallbackCommand, error) {
	if provider == "" {
		return ApplyPaymentCallbackCommand{}, ErrProviderIsRequired
	}
	if len(payload) == 0 {
		return ApplyPaymentCallbackCommand{}, ErrPayloadIsRequired
	}

	return ApplyPaymentCallbackCommand{
		provider:  provider,
		payload:   append([]byte(nil), payload...),
		signature: signature,
		guard:     guard.NewConstructorGuard(),
	}, nil
}

// Validate ensures the command was created through the constructor.
func (c ApplyPaymentCallbackCommand) Validate() error {
	return c.guard.Validate(ErrApplyPaymentCallbackCommandIsNotConstructed)
}

// Provider returns the provider name from the callback URL.
func (c ApplyPaymentCallbackCommand) Provider() string { return c.provider }

// Payload returns the raw callback body.
func (c ApplyPaymentCallbackCommand) Payload() []byte {
	return append([]byte(nil), c.payload...)
}

// Signature returns the provider signature header.
func (c ApplyPaymentCallbackCommand) Signature() string { return c.signature }
