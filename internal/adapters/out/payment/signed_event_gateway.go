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
	"strconv"
	"strings"
	"time"

	"fooddelivery/internal/core/domain/model/kernel"
	"fooddelivery/internal/core/ports"
	"fooddelivery/internal/pkg/errs"

	"github.com/shopspring/decimal"
)

// replayTolerance bounds how old a signed event timestamp may be. Events
// outside the window are rejected even with a valid digest, so a captured
// callback cannot be replayed later.
const replayTolerance = 5 * time.Minute

// SignedEventGateway talks to the wallet provider. Callbacks carry a
// signature header of the form "t=<unix>,v1=<hex>" where the digest is an
// HMAC-SHA256 over "<t>.<payload>".
type SignedEventGateway struct {
	baseURL string
	secret  []byte
	client  *http.Client
	now     func() time.Time
}

// NewSignedEventGateway creates a wallet provider gateway.
func NewSignedEventGateway(baseURL, secret string) *SignedEventGateway {
	return &SignedEventGateway{
		baseURL: strings.TrimRight(baseURL, "/"),
		secret:  []byte(secret),
		client:  &http.Client{Timeout: clientTimeout},
		now:     time.Now,
	}
}

// CreateIntent registers a charge with the provider and returns the
// provider-issued intent id.
func (g *SignedEventGateway) CreateIntent(ctx context.Context, orderID kernel.UUID, amount decimal.Decimal) (string, error) {
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

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, g.baseURL+"/v1/payment_intents", bytes.NewReader(body))
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

type signedEvent struct {
	ID   string `json:"id"`
	Type string `json:"type"`
	Data struct {
		IntentID string `json:"intent_id"`
		OrderID  string `json:"order_id"`
	} `json:"data"`
}

const (
	eventIntentSucceeded = "payment_intent.succeeded"
	eventIntentFailed    = "payment_intent.failed"
)

// VerifyCallback parses the signature header, checks the timestamp against
// the replay window, and verifies the digest over "<t>.<payload>" before
// decoding the event envelope.
func (g *SignedEventGateway) VerifyCallback(payload []byte, signature string) (ports.CallbackEvent, error) {
	timestamp, digest, err := parseSignatureHeader(signature)
	if err != nil {
		return ports.CallbackEvent{}, err
	}

	age := g.now().Sub(time.Unix(timestamp, 0))
	if age > replayTolerance || age < -replayTolerance {
		return ports.CallbackEvent{}, ports.ErrSignatureInvalid
	}

	mac := hmac.New(sha256.New, g.secret)
	fmt.Fprintf(mac, "%d.", timestamp)
	mac.Write(payload)
	expected := hex.EncodeToString(mac.Sum(nil))

	if !hmac.Equal([]byte(expected), []byte(strings.ToLower(digest))) {
		return ports.CallbackEvent{}, ports.ErrSignatureInvalid
	}

	var event signedEvent
	if err = json.Unmarshal(payload, &event); err != nil {
		return ports.CallbackEvent{}, errs.NewValueIsInvalidErrorWithCause("payload", err)
	}
	if event.Type != eventIntentSucceeded && event.Type != eventIntentFailed {
		return ports.CallbackEvent{}, errs.NewValueIsInvalidErrorWithCause("payload",
			fmt.Errorf("%q is not a known event type", event.Type))
	}

	orderID, err := kernel.UUIDFromString(event.Data.OrderID)
	if err != nil {
		return ports.CallbackEvent{}, errs.NewValueIsInvalidErrorWithCause("payload", err)
	}
	if event.Data.IntentID == "" {
		return ports.CallbackEvent{}, errs.NewValueIsRequiredError("intent_id")
	}

	return ports.CallbackEvent{
		IntentID:  event.Data.IntentID,
		OrderID:   orderID,
		Succeeded: event.Type == eventIntentSucceeded,
	}, nil
}

// parseSignatureHeader splits "t=<unix>,v1=<hex>". Unknown elements are
// ignored so the provider can extend the header.
func parseSignatureHeader(signature string) (int64, string, error) {
	var timestampRaw, digest string

	for _, part := range strings.Split(signature, ",") {
		key, value, found := strings.Cut(strings.TrimSpace(part), "=")
		if !found {
			continue
		}
		switch key {
		case "t":
			timestampRaw = value
		case "v1":
			digest = value
		}
	}

	if timestampRaw == "" || digest == "" {
		return 0, "", ports.ErrSignatureInvalid
	}

	timestamp, err := strconv.ParseInt(timestampRaw, 10, 64)
	if err != nil {
		return 0, "", ports.ErrSignatureInvalid
	}

	return timestamp, digest, nil
}
