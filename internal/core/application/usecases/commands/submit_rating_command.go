package commands

import (
	"errors"

	"fooddelivery/internal/core/domain/model/kernel"
	"fooddelivery/internal/pkg/errs"
	"fooddelivery/internal/pkg/guard"
)

var ErrSubmitRatingCommandIsNotConstructed = errors.New(
	"SubmitRatingCommand must be created via NewSubmitRatingCommand constructor",
)

const (
	ratingScaleMin = 1
	ratingScaleMax = 5
)

// SubmitRatingCommand requests rating a delivered order. Food and delivery
// scores are on a 1..5 scale; the review text is optional.
type SubmitRatingCommand struct { //nolint:recvcheck //using for validation
	orderID  kernel.UUID
	food     int
	delivery int
	review   string

	guard guard.ConstructorGuard
}

// NewSubmitRatingCommand creates a rating submission command.
func NewSubmitRatingCommand(
	orderID kernel.UUID,
	food, delivery int,
	review string,
) (SubmitRatingCommand, error) {
	cmd := SubmitRatingCommand{
		review: review,
		guard:  guard.NewConstructorGuard(),
	}

	if err := errors.Join(
		cmd.setOrderID(orderID),
		cmd.setFood(food),
		cmd.setDelivery(delivery),
	); err != nil {
		return SubmitRatingCommand{}, err
	}

	return cmd, nil
}

// Validate ensures the command was created through the constructor.
func (c SubmitRatingCommand) Validate() error {
	return c.guard.Validate(ErrSubmitRatingCommandIsNotConstructed)
}

// OrderID returns the targeted order.
func (c SubmitRatingCommand) OrderID() kernel.UUID { return c.orderID }

// Food returns the food score.
func (c SubmitRatingCommand) Food() int { return c.food }

// Delivery returns the delivery score.
func (c SubmitRatingCommand) Delivery() int { return c.delivery }

// Review returns the optional review text.
func (c SubmitRatingCommand) Review() string { return c.review }

func (c *SubmitRatingCommand) setOrderID(id kernel.UUID) error {
	if err := id.Validate(); err != nil {
		return err
	}
	c.orderID = id
	return nil
}

func (c *SubmitRatingCommand) setFood(food int) error {
	if food < ratingScaleMin || food > ratingScaleMax {
		return errs.NewValueIsOutOfRangeError("food", food, ratingScaleMin, ratingScaleMax)
	}
	c.food = food
	return nil
}

func (c *SubmitRatingCommand) setDelivery(delivery int) error {
	if delivery < ratingScaleMin || delivery > ratingScaleMax {
		return errs.NewValueIsOutOfRangeError("delivery", delivery, ratingScaleMin, ratingScaleMax)
	}
	c.delivery = delivery
	return nil
}
