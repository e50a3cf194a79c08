package kernel

import (
	"fmt"

	"fooddelivery/internal/pkg/errs"

	"github.com/google/uuid"
)

// ErrUUIDIsNotConstructed is returned when validating a zero-value UUID,
// i.e. one that did not come out of NewUUID, UUIDFromString, or
// UUIDFromBytes.
var ErrUUIDIsNotConstructed = errs.NewValueIsRequiredError("UUID must be created via NewUUID, UUIDFromString, or UUIDFromBytes")

// UUID is the identifier value object for every aggregate in the system:
// orders, delivery agents, restaurants, users, and menu items all carry one.
// It wraps github.com/google/uuid so that identity comparison and validation
// live in one place instead of leaking the library type through the domain.
//
// The zero value is invalid; aggregate constructors reject it via Validate.
// UUID is immutable and safe for concurrent use.
//
// Example usage:
//
//	// Generate an id when placing an order
//	orderID := kernel.NewUUID()
//
//	// Parse an id arriving on the HTTP surface
//	agentID, err := kernel.UUIDFromString(ctx.Param("id"))
//	if err != nil {
//	    // handle error
//	}
type UUID struct {
	id uuid.UUID
}

// NewUUID generates a new random (version 4) identifier. This is how every
// aggregate gets its id at creation time.
func NewUUID() UUID {
	return UUID{
		id: uuid.New(),
	}
}

// UUIDFromString parses a UUID from its string form. It accepts the standard
// textual representations, e.g.:
//   - "1f0a6f2c-5b3d-4e8a-9c41-7d2f05a7b93e"
//   - "{1f0a6f2c-5b3d-4e8a-9c41-7d2f05a7b93e}"
//   - "urn:uuid:1f0a6f2c-5b3d-4e8a-9c41-7d2f05a7b93e"
//
// This is the entry point for ids arriving from outside: path parameters,
// request bodies, gateway callbacks, and seed files.
//
// Example:
//
//	restaurantID, err := kernel.UUIDFromString(req.RestaurantID)
//	if err != nil {
//	    return fmt.Errorf("invalid restaurant id: %w", err)
//	}
func UUIDFromString(s string) (UUID, error) {
	id, err := uuid.Parse(s)
	if err != nil {
		return UUID{}, fmt.Errorf("invalid UUID format: %w", err)
	}
	return UUID{id: id}, nil
}

// UUIDFromBytes creates a UUID from a 16-byte slice. The persistence
// adapters use it when restoring aggregates from scanned database rows.
// A slice of the wrong length or the all-zero id is rejected.
//
// Example:
//
//	var raw uuid.UUID // scanned from a row
//	orderID, err := kernel.UUIDFromBytes(raw[:])
//	if err != nil {
//	    return fmt.Errorf("invalid order id: %w", err)
//	}
func UUIDFromBytes(b []byte) (UUID, error) {
	id, err := uuid.FromBytes(b)
	if err != nil {
		return UUID{}, fmt.Errorf("invalid UUID format: %w", err)
	}
	newID := UUID{id: id}
	if err = newID.Validate(); err != nil {
		return UUID{}, err
	}

	return newID, nil
}

// String returns the canonical "xxxxxxxx-xxxx-xxxx-xxxx-xxxxxxxxxxxx" form.
// A zero value renders as "00000000-0000-0000-0000-000000000000". Used for
// response bodies, SQL arguments, and log fields.
func (u UUID) String() string {
	return u.id.String()
}

// Bytes returns the underlying uuid.UUID value, not a byte slice; take
// Bytes()[:] for one. It exists for the persistence DTOs, which store ids
// as the library type directly. Everything else should stay on the value
// object.
func (u UUID) Bytes() uuid.UUID {
	return u.id
}

// IsEqual reports whether two UUIDs identify the same entity.
//
// Example:
//
//	if !o.RestaurantID().IsEqual(r.ID()) {
//	    return errs.NewValueIsInvalidError("restaurantID")
//	}
func (u UUID) IsEqual(other UUID) bool {
	return u.id == other.id
}

// Validate returns ErrUUIDIsNotConstructed for the zero value. Aggregate
// and command constructors call it on every id they are handed, so an
// unset id never reaches the repositories.
//
// Example:
//
//	func NewGetOrderQuery(orderID kernel.UUID) (GetOrderQuery, error) {
//	    if err := orderID.Validate(); err != nil {
//	        return GetOrderQuery{}, err
//	    }
//	    // ...
//	}
func (u UUID) Validate() error {
	if u.id == uuid.Nil {
		return ErrUUIDIsNotConstructed
	}
	return nil
}
