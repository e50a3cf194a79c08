package order

import (
	"fmt"

	"fooddelivery/internal/pkg/errs"
	"fooddelivery/internal/pkg/guard"

	"github.com/shopspring/decimal"
)

var ErrPricingIsNotConstructed = errs.NewValueIsRequiredError(
	"pricing must be created via the NewPricing constructor")

// Pricing is the frozen money breakdown of an order. The total is derived
// as subtotal + delivery fee + tax - discount and always equals that sum;
// no component may change after the order is created.
type Pricing struct {
	subtotal    decimal.Decimal
	deliveryFee decimal.Decimal
	tax         decimal.Decimal
	discount    decimal.Decimal
	total       decimal.Decimal
	guard       guard.ConstructorGuard
}

// NewPricing derives the total from its components. All components must be
// non-negative and the discount may not exceed the gross amount.
func NewPricing(subtotal, deliveryFee, tax, discount decimal.Decimal) (Pricing, error) {
	for name, v := range map[string]decimal.Decimal{
		"subtotal":    subtotal,
		"deliveryFee": deliveryFee,
		"tax":         tax,
		"discount":    discount,
	} {
		if v.IsNegative() {
			return Pricing{}, errs.NewValueIsInvalidErrorWithCause(name,
				fmt.Errorf("%s is negative", v))
		}
	}

	gross := subtotal.Add(deliveryFee).Add(tax)
	if discount.GreaterThan(gross) {
		return Pricing{}, errs.NewValueIsInvalidErrorWithCause("discount",
			fmt.Errorf("%s exceeds gross amount %s", discount, gross))
	}

	return Pricing{
		subtotal:    subtotal,
		deliveryFee: deliveryFee,
		tax:         tax,
		discount:    discount,
		total:       gross.Sub(discount),
		guard:       guard.NewConstructorGuard(),
	}, nil
}

// RestorePricing reconstructs a Pricing from persistence and verifies the
// stored total still equals the derived sum.
func RestorePricing(subtotal, deliveryFee, tax, discount, total decimal.Decimal) (Pricing, error) {
	pricing, err := NewPricing(subtotal, deliveryFee, tax, discount)
	if err != nil {
		return Pricing{}, err
	}

	if !pricing.total.Equal(total) {
		return Pricing{}, errs.NewValueIsInvalidErrorWithCause("total",
			fmt.Errorf("stored total %s does not equal derived total %s", total, pricing.total))
	}

	return pricing, nil
}

// Validate ensures the Pricing was created through NewPricing.
func (p Pricing) Validate() error {
	return p.guard.Validate(ErrPricingIsNotConstructed)
}

// Subtotal returns the sum of line totals.
func (p Pricing) Subtotal() decimal.Decimal {
	return p.subtotal
}

// DeliveryFee returns the restaurant's delivery fee at placement time.
func (p Pricing) DeliveryFee() decimal.Decimal {
	return p.deliveryFee
}

// Tax returns the tax amount at placement time.
func (p Pricing) Tax() decimal.Decimal {
	return p.tax
}

// Discount returns the discount applied at placement time.
func (p Pricing) Discount() decimal.Decimal {
	return p.discount
}

// Total returns subtotal + delivery fee + tax - discount.
func (p Pricing) Total() decimal.Decimal {
	return p.total
}
