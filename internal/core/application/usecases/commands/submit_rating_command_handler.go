package commands

import (
	"context"
	"time"

	"fooddelivery/internal/core/domain/services"
)

// SubmitRatingCommandHandler handles rating submission for delivered orders.
// The order's rating and the restaurant's recomputed average persist in one
// transaction; the restaurant's version check serializes concurrent
// recomputes for the same restaurant.
type SubmitRatingCommandHandler struct {
	uowFactory OrderRestaurantUoWFactory
}

// NewSubmitRatingCommandHandler creates a handler for rating submission.
func NewSubmitRatingCommandHandler(uowFactory OrderRestaurantUoWFactory) SubmitRatingCommandHandler {
	return SubmitRatingCommandHandler{
		uowFactory: uowFactory,
	}
}

// Handle processes the rating submission. The restaurant average is a full
// recompute over every rated order of that restaurant, including the one
// being rated now, rounded to one decimal place.
func (h SubmitRatingCommandHandler) Handle(ctx context.Context, cmd SubmitRatingCommand) error {
	if err := cmd.Validate(); err != nil {
		return err
	}

	uow := h.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return err
	}

	defer func() {
		_ = uow.Rollback(ctx)
	}()

	orderRepo := uow.OrderRepository()
	restaurantRepo := uow.RestaurantRepository()

	target, err := orderRepo.Get(ctx, cmd.OrderID())
	if err != nil {
		return err
	}

	if err = target.Rate(cmd.Food(), cmd.Delivery(), cmd.Review(), time.Now()); err != nil {
		return err
	}

	if err = orderRepo.Update(ctx, target); err != nil {
		return err
	}

	rest, err := restaurantRepo.Get(ctx, target.RestaurantID())
	if err != nil {
		return err
	}

	// The rated order is already written in this transaction, so the
	// recompute read sees its overall score.
	overalls, err := orderRepo.GetRatedOveralls(ctx, target.RestaurantID())
	if err != nil {
		return err
	}

	if err = services.NewRatingAggregator().Recompute(rest, overalls); err != nil {
		return err
	}

	if err = restaurantRepo.Update(ctx, rest); err != nil {
		return err
	}

	return uow.Commit(ctx)
}
