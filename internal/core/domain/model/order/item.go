package order

import (
	"errors"
	"fmt"
	"strings"

	"fooddelivery/internal/core/domain/model/kernel"
	"fooddelivery/internal/pkg/errs"
	"fooddelivery/internal/pkg/guard"

	"github.com/shopspring/decimal"
)

var ErrItemIsNotConstructed = errs.NewValueIsRequiredError(
	"item must be created via the NewItem constructor")

// Customization is a selected option on a line item carrying an additional
// price, e.g. an extra topping. Its price is part of the frozen snapshot.
type Customization struct {
	Name  string
	Price decimal.Decimal
}

// Item is one line of an order: a menu item snapshot frozen at placement
// time. Unit price and customization prices are never re-read from the
// catalog after the order is created.
type Item struct {
	menuItemID     kernel.UUID
	name           string
	quantity       int
	unitPrice      decimal.Decimal
	customizations []Customization
	guard          guard.ConstructorGuard
}

// NewItem creates a validated order line. Quantity must be at least 1 and
// the unit price must not be negative.
func NewItem(
	menuItemID kernel.UUID,
	name string,
	quantity int,
	unitPrice decimal.Decimal,
	customizations []Customization,
) (Item, error) {
	item := Item{
		guard: guard.NewConstructorGuard(),
	}

	if err := errors.Join(
		item.setMenuItemID(menuItemID),
		item.setName(name),
		item.setQuantity(quantity),
		item.setUnitPrice(unitPrice),
		item.setCustomizations(customizations),
	); err != nil {
		return Item{}, err
	}

	return item, nil
}

// Validate ensures the Item was created through NewItem.
func (i Item) Validate() error {
	return i.guard.Validate(ErrItemIsNotConstructed)
}

// MenuItemID returns the catalog item id the snapshot was taken from.
func (i Item) MenuItemID() kernel.UUID {
	return i.menuItemID
}

// Name returns the catalog item name at snapshot time.
func (i Item) Name() string {
	return i.name
}

// Quantity returns the ordered quantity.
func (i Item) Quantity() int {
	return i.quantity
}

// UnitPrice returns the frozen per-unit price.
func (i Item) UnitPrice() decimal.Decimal {
	return i.unitPrice
}

// Customizations returns a copy of the selected customizations.
func (i Item) Customizations() []Customization {
	out := make([]Customization, len(i.customizations))
	copy(out, i.customizations)
	return out
}

// LineTotal returns (unit price + customization prices) * quantity.
func (i Item) LineTotal() decimal.Decimal {
	perUnit := i.unitPrice
	for _, c := range i.customizations {
		perUnit = perUnit.Add(c.Price)
	}
	return perUnit.Mul(decimal.NewFromInt(int64(i.quantity)))
}

func (i *Item) setMenuItemID(id kernel.UUID) error {
	if err := id.Validate(); err != nil {
		return err
	}
	i.menuItemID = id
	return nil
}

func (i *Item) setName(name string) error {
	if strings.TrimSpace(name) == "" {
		return errs.NewValueIsRequiredError("item name")
	}
	i.name = name
	return nil
}

func (i *Item) setQuantity(quantity int) error {
	if quantity < 1 {
		return errs.NewValueIsInvalidErrorWithCause("quantity",
			fmt.Errorf("%d is less than 1", quantity))
	}
	i.quantity = quantity
	return nil
}

func (i *Item) setUnitPrice(price decimal.Decimal) error {
	if price.IsNegative() {
		return errs.NewValueIsInvalidErrorWithCause("unit price",
			fmt.Errorf("%s is negative", price))
	}
	i.unitPrice = price
	return nil
}

func (i *Item) setCustomizations(customizations []Customization) error {
	for _, c := range customizations {
		if strings.TrimSpace(c.Name) == "" {
			return errs.NewValueIsRequiredError("customization name")
		}
		if c.Price.IsNegative() {
			return errs.NewValueIsInvalidErrorWithCause("customization price",
				fmt.Errorf("%s is negative", c.Price))
		}
	}
	i.customizations = make([]Customization, len(customizations))
	copy(i.customizations, customizations)
	return nil
}
