package http

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"fooddelivery/internal/core/application/usecases/commands"
	"fooddelivery/internal/core/domain/model/agent"
	"fooddelivery/internal/core/domain/model/order"
	"fooddelivery/internal/core/ports"
	"fooddelivery/internal/pkg/errs"

	"github.com/stretchr/testify/assert"
)

func TestErrorStatus(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		expected int
	}{
		{"required value", errs.NewValueIsRequiredError("address"), http.StatusBadRequest},
		{"invalid value", errs.NewValueIsInvalidErrorWithCause("rating", errors.New("out of scale")), http.StatusBadRequest},
		{"below minimum amount", commands.ErrBelowMinimumOrderAmount, http.StatusBadRequest},
		{"unknown menu item", fmt.Errorf("item abc: %w", commands.ErrUnknownMenuItem), http.StatusBadRequest},
		{"invalid signature", ports.ErrSignatureInvalid, http.StatusUnauthorized},
		{"object not found", errs.NewObjectNotFoundError("order", "42"), http.StatusNotFound},
		{"unknown provider", commands.ErrUnknownProvider, http.StatusNotFound},
		{"invalid transition", &order.InvalidTransitionError{From: order.StatusDelivered, To: order.StatusPending}, http.StatusConflict},
		{"stale version", errs.NewVersionIsInvalidErrorWithCause("order"), http.StatusConflict},
		{"already cancelled", order.ErrAlreadyCancelled, http.StatusConflict},
		{"agent busy", agent.ErrAgentBusy, http.StatusConflict},
		{"no agents available", commands.ErrNoAgentsAvailable, http.StatusConflict},
		{"wrapped refund rule", fmt.Errorf("refund order 42: %w", order.ErrRefundNotEligible), http.StatusConflict},
		{"unexpected", errors.New("connection reset"), http.StatusInternalServerError},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			assert.Equal(t, test.expected, errorStatus(test.err))
		})
	}
}
