// Package restaurant contains the Restaurant aggregate.
//
// The aggregate carries the order-pricing parameters (delivery fee, minimum
// order amount, tax percent) snapshotted into every order placed against it,
// plus the public rating derived from customer reviews. The rating pair is
// written only through SetRating, so the stored average and count always
// describe the same recompute pass.
package restaurant

import (
	"errors"

	"fooddelivery/internal/core/domain/model/kernel"
	"fooddelivery/internal/pkg/errs"
	"fooddelivery/internal/pkg/guard"

	"github.com/shopspring/decimal"
)

var ErrRestaurantIsNotConstructed = errs.NewValueIsRequiredError(
	"restaurant must be created via the NewRestaurant constructor")

// Restaurant is the aggregate root for a partner restaurant.
type Restaurant struct {
	id   kernel.UUID
	name string

	location kernel.GeoPoint

	deliveryFee      decimal.Decimal
	minOrderAmount   decimal.Decimal
	taxPercent       decimal.Decimal
	estimatedMinutes int

	ratingAvg   decimal.Decimal
	ratingCount int

	version int

	guard guard.ConstructorGuard
}

// NewRestaurant creates a restaurant with no ratings yet.
func NewRestaurant(
	id kernel.UUID,
	name string,
	location kernel.GeoPoint,
	deliveryFee, minOrderAmount, taxPercent decimal.Decimal,
	estimatedMinutes int,
) (*Restaurant, error) {
	r := &Restaurant{
		ratingAvg: decimal.Zero,
		guard:     guard.NewConstructorGuard(),
	}

	err := errors.Join(
		r.setID(id),
		r.setName(name),
		r.setLocation(location),
		r.setDeliveryFee(deliveryFee),
		r.setMinOrderAmount(minOrderAmount),
		r.setTaxPercent(taxPercent),
		r.setEstimatedMinutes(estimatedMinutes),
	)
	if err != nil {
		return nil, err
	}

	return r, nil
}

// RestoreRestaurantParams carries the persisted state of a restaurant.
type RestoreRestaurantParams struct {
	ID               kernel.UUID
	Name             string
	Location         kernel.GeoPoint
	DeliveryFee      decimal.Decimal
	MinOrderAmount   decimal.Decimal
	TaxPercent       decimal.Decimal
	EstimatedMinutes int
	RatingAvg        decimal.Decimal
	RatingCount      int
	Version          int
}

// RestoreRestaurant reconstructs a Restaurant aggregate from persistent
// storage.
func RestoreRestaurant(params RestoreRestaurantParams) (*Restaurant, error) {
	r, err := NewRestaurant(
		params.ID,
		params.Name,
		params.Location,
		params.DeliveryFee,
		params.MinOrderAmount,
		params.TaxPercent,
		params.EstimatedMinutes,
	)
	if err != nil {
		return nil, err
	}

	if err := r.SetRating(params.RatingAvg, params.RatingCount); err != nil {
		return nil, err
	}
	r.version = params.Version

	return r, nil
}

// Validate ensures the Restaurant was created through a constructor.
func (r *Restaurant) Validate() error {
	return r.guard.Validate(ErrRestaurantIsNotConstructed)
}

func (r *Restaurant) ID() kernel.UUID { return r.id }

func (r *Restaurant) Name() string { return r.name }

func (r *Restaurant) Location() kernel.GeoPoint { return r.location }

// DeliveryFee is the flat fee added to every order from this restaurant.
func (r *Restaurant) DeliveryFee() decimal.Decimal { return r.deliveryFee }

// MinOrderAmount is the minimum item subtotal accepted for an order.
func (r *Restaurant) MinOrderAmount() decimal.Decimal { return r.minOrderAmount }

// TaxPercent is the tax rate applied to an order's item subtotal.
func (r *Restaurant) TaxPercent() decimal.Decimal { return r.taxPercent }

// EstimatedMinutes is the advertised preparation-plus-delivery estimate.
func (r *Restaurant) EstimatedMinutes() int { return r.estimatedMinutes }

// RatingAvg is the mean of overall ratings across all rated orders,
// rounded to one decimal place.
func (r *Restaurant) RatingAvg() decimal.Decimal { return r.ratingAvg }

// RatingCount is the number of rated orders behind RatingAvg.
func (r *Restaurant) RatingCount() int { return r.ratingCount }

// Version is the optimistic-concurrency token assigned by persistence.
func (r *Restaurant) Version() int { return r.version }

// SetRating replaces the rating pair with the result of a full recompute.
// It is the only write path for the rating fields, so average and count
// cannot drift apart.
func (r *Restaurant) SetRating(avg decimal.Decimal, count int) error {
	if err := r.Validate(); err != nil {
		return err
	}

	if count < 0 {
		return errs.NewValueIsInvalidError("ratingCount")
	}
	if count == 0 && !avg.IsZero() {
		return errs.NewValueIsInvalidError("ratingAvg")
	}
	if count > 0 && (avg.LessThan(decimal.New(1, 0)) || avg.GreaterThan(decimal.New(5, 0))) {
		return errs.NewValueIsOutOfRangeError("ratingAvg", avg, 1, 5)
	}

	r.ratingAvg = avg
	r.ratingCount = count
	return nil
}

func (r *Restaurant) setID(id kernel.UUID) error {
	if err := id.Validate(); err != nil {
		return errs.NewValueIsInvalidErrorWithCause("id", err)
	}
	r.id = id
	return nil
}

func (r *Restaurant) setName(name string) error {
	if name == "" {
		return errs.NewValueIsRequiredError("name")
	}
	r.name = name
	return nil
}

func (r *Restaurant) setLocation(location kernel.GeoPoint) error {
	if err := location.Validate(); err != nil {
		return errs.NewValueIsInvalidErrorWithCause("location", err)
	}
	r.location = location
	return nil
}

func (r *Restaurant) setDeliveryFee(fee decimal.Decimal) error {
	if fee.IsNegative() {
		return errs.NewValueIsInvalidError("deliveryFee")
	}
	r.deliveryFee = fee
	return nil
}

func (r *Restaurant) setMinOrderAmount(amount decimal.Decimal) error {
	if amount.IsNegative() {
		return errs.NewValueIsInvalidError("minOrderAmount")
	}
	r.minOrderAmount = amount
	return nil
}

func (r *Restaurant) setTaxPercent(percent decimal.Decimal) error {
	if percent.IsNegative() || percent.GreaterThan(decimal.New(100, 0)) {
		return errs.NewValueIsOutOfRangeError("taxPercent", percent, 0, 100)
	}
	r.taxPercent = percent
	return nil
}

func (r *Restaurant) setEstimatedMinutes(minutes int) error {
	if minutes <= 0 {
		return errs.NewValueIsInvalidError("estimatedMinutes")
	}
	r.estimatedMinutes = minutes
	return nil
}
