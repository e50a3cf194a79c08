package http

import (
	"errors"
	"net/http"

	"fooddelivery/internal/core/application/usecases/commands"
	"fooddelivery/internal/core/domain/model/agent"
	"fooddelivery/internal/core/domain/model/order"
	"fooddelivery/internal/core/ports"
	"fooddelivery/internal/pkg/errs"

	"github.com/labstack/echo/v4"
)

// ErrorResponse is the JSON error body returned by every handler.
type ErrorResponse struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}

// writeError maps a use-case error to an HTTP status. Business-rule and
// validation failures surface their message; anything unexpected is an
// opaque 500 so internals never leak to the caller.
func writeError(ctx echo.Context, err error) error {
	status := errorStatus(err)

	message := err.Error()
	if status == http.StatusInternalServerError {
		ctx.Logger().Error(err)
		message = "internal error"
	}

	return ctx.JSON(status, ErrorResponse{
		Code:    status,
		Message: message,
	})
}

func errorStatus(err error) int {
	switch {
	case isValidationError(err):
		return http.StatusBadRequest
	case errors.Is(err, ports.ErrSignatureInvalid):
		return http.StatusUnauthorized
	case isNotFoundError(err):
		return http.StatusNotFound
	case isStateError(err):
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}

func isValidationError(err error) bool {
	for _, candidate := range []error{
		errs.ErrValueIsRequired,
		errs.ErrValueIsInvalid,
		errs.ErrValueIsOutOfRange,
		commands.ErrAddressIsRequired,
		commands.ErrPhoneIsRequired,
		commands.ErrItemsAreRequired,
		commands.ErrQuantityIsInvalid,
		commands.ErrCancelReasonIsRequired,
		commands.ErrProviderIsRequired,
		commands.ErrPayloadIsRequired,
		commands.ErrBelowMinimumOrderAmount,
		commands.ErrUnknownMenuItem,
		order.ErrNoItems,
	} {
		if errors.Is(err, candidate) {
			return true
		}
	}
	return false
}

func isNotFoundError(err error) bool {
	return errors.Is(err, errs.ErrObjectNotFound) ||
		errors.Is(err, commands.ErrNoOrderFound) ||
		errors.Is(err, commands.ErrUnknownProvider)
}

func isStateError(err error) bool {
	var invalidTransition *order.InvalidTransitionError
	var invalidPaymentTransition *order.InvalidPaymentTransitionError
	if errors.As(err, &invalidTransition) || errors.As(err, &invalidPaymentTransition) {
		return true
	}

	for _, candidate := range []error{
		errs.ErrVersionIsInvalid,
		order.ErrAlreadyCancelled,
		order.ErrCannotCancelAtThisStage,
		order.ErrAlreadyRated,
		order.ErrNotDelivered,
		order.ErrCourierAlreadyAssigned,
		order.ErrRefundNotEligible,
		order.ErrNoGatewayForCash,
		agent.ErrAgentBusy,
		agent.ErrAgentUnavailable,
		agent.ErrNoActiveOrder,
		commands.ErrNoAgentsAvailable,
		commands.ErrNoGatewayForMethod,
	} {
		if errors.Is(err, candidate) {
			return true
		}
	}
	return false
}
