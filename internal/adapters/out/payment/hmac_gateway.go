// Package payment normalizes two external payment providers to the
// ports.PaymentGateway contract: a card provider signing callbacks with a
// plain HMAC over the payload, and a wallet provider using timestamped
// signed events. Outbound calls carry a client timeout and are never
// retried here; retrying is the caller's decision.
package payment

import (
	"bytes"
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"fooddelivery/internal/core/domain/model/kernel"
	"fooddelivery/internal/core/ports"
	"fooddelivery/internal/pkg/errs"

	"github.com/shopspring/decimal"
)

const clientTimeout = 10 * time.Second

// HMACGateway talks to the card provider. Callbacks are authenticated with
// an HMAC-SHA256 hex digest of the raw payload under the shared secret.
type HMACGateway struct {
	baseURL string
	secret  []byte
	client  *http.Client
}

// NewHMACGateway creates a card provider gateway.
func NewHMACGateway(baseURL, secret string) *HMACGateway {
	return &HMACGateway{
		baseURL: strings.TrimRight(baseURL, "/"),
		secret:  []byte(secret),
		client:  &http.Client{Timeout: clientTimeout},
	}
}

type createIntentRequest struct {
	OrderID string          `json:"order_id"`
	Amount  decimal.Decimal `json:"amount"`
}

type createIntentResponse struct {
	IntentID string `json:"intent_id"`
}

// CreateIntent registers a charge with the provider and returns the
// provider-issued intent id.
func (g *HMACGateway) CreateIntent(ctx context.Context, orderID kernel.UUID, amount decimal.Decimal) (string, error) {
	if err := orderID.Validate(); err != nil {
		return "", err
	}

	body, err := json.Marshal(createIntentRequest{
		OrderID: orderID.String(),
		Amount:  amount,
	})
	if err != nil {
		return "", err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, g.baseURL+"/v1/intents", bytes.NewReader(body))
	if err != nil {
		return "", err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := g.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("create intent: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return "", fmt.Errorf("create intent: gateway returned status %d", resp.StatusCode)
	}

	var decoded createIntentResponse
	if err = json.NewDecoder(resp.Body).Decode(&decoded); err != nil {
		return "", fmt.Errorf("create intent: %w", err)
	}
	if decoded.IntentID == "" {
		return "", fmt.Errorf("create intent: gateway returned no intent id")
	}

	return decoded.IntentID, nil
}

type hmacCallbackPayload struct {
	IntentID string `json:"intent_id"`
	OrderID  string `json:"order_id"`
	Status   string `json:"status"`
}

// VerifyCallback checks the HMAC digest over the raw payload and decodes
// it. The digest comparison is constant-time.
func (g *HMACGateway) VerifyCallback(payload []byte, signature string) (ports.CallbackEvent, error) {
	mac := hmac.New(sha256.New, g.secret)
	mac.Write(payload)
	expected := hex.EncodeToString(mac.Sum(nil))

	if !hmac.Equal([]byte(expected), []byte(strings.ToLower(signature))) {
		return ports.CallbackEvent{}, ports.ErrSignatureInvalid
	}

	var decoded hmacCallbackPayload
	if err := json.Unmarshal(payload, &decoded); err != nil {
		return ports.CallbackEvent{}, errs.NewValueIsInvalidErrorWithCause("payload", err)
	}

	orderID, err := kernel.UUIDFromString(decoded.OrderID)
	if err != nil {
		return ports.CallbackEvent{}, errs.NewValueIsInvalidErrorWithCause("payload", err)
	}
	if decoded.IntentID == "" {
		return ports.CallbackEvent{}, errs.NewValueIsRequiredError("intent_id")
	}

	return ports.CallbackEvent{
		IntentID:  decoded.IntentID,
		OrderID:   orderID,
		Succeeded: decoded.Status == "succeeded",
	}, nil
}
