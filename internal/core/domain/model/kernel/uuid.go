package kernel

import (
	"fmt"

	"fulfillment/internal/pkg/errs"

	"github.com/google/uuid"
)

// ErrUUIDIsNotConstructed is returned when validating a zero-value UUID.
var ErrUUIDIsNotConstructed = errs.NewValueIsRequiredError(
	"UUID must be created via NewUUID, NewNameBasedUUID, UUIDFromString, or UUIDFromBytes",
)

// fulfillmentNamespace scopes name-based identifiers derived by this service.
var fulfillmentNamespace = uuid.MustParse("5b0a3c4e-9f7d-4a53-8f0e-2f1d6c9b7e41")

// UUID is the identifier value object used by every aggregate. It wraps
// github.com/google/uuid; the zero value is invalid.
//
// Example:
//
//	orderID := kernel.NewUUID()
//	same, err := kernel.UUIDFromString(orderID.String())
type UUID struct {
	id uuid.UUID
}

// NewUUID generates a random (version 4) identifier.
func NewUUID() UUID {
	return UUID{id: uuid.New()}
}

// NewNameBasedUUID derives a stable (version 5) identifier from a parent id and
// a name. The same inputs always produce the same identifier, which makes it
// usable as an idempotency key for records derived from another record.
//
// Example:
//
//	restaurantPayoutID := kernel.NewNameBasedUUID(orderID, "payout:restaurant")
func NewNameBasedUUID(parent UUID, name string) UUID {
	return UUID{id: uuid.NewSHA1(fulfillmentNamespace, []byte(parent.String()+"/"+name))}
}

// UUIDFromString parses the canonical, braced, urn and hyphen-less forms.
func UUIDFromString(s string) (UUID, error) {
	id, err := uuid.Parse(s)
	if err != nil {
		return UUID{}, fmt.Errorf("invalid UUID format: %w", err)
	}
	parsed := UUID{id: id}
	if err = parsed.Validate(); err != nil {
		return UUID{}, err
	}
	return parsed, nil
}

// UUIDFromBytes builds a UUID from exactly 16 bytes.
func UUIDFromBytes(b []byte) (UUID, error) {
	id, err := uuid.FromBytes(b)
	if err != nil {
		return UUID{}, fmt.Errorf("invalid UUID format: %w", err)
	}
	parsed := UUID{id: id}
	if err = parsed.Validate(); err != nil {
		return UUID{}, err
	}
	return parsed, nil
}

// String returns the canonical "xxxxxxxx-xxxx-xxxx-xxxx-xxxxxxxxxxxx" form.
func (u UUID) String() string {
	return u.id.String()
}

// Bytes returns the underlying google/uuid value, as stored by the repositories.
func (u UUID) Bytes() uuid.UUID {
	return u.id
}

// IsEqual reports whether both identifiers hold the same value.
func (u UUID) IsEqual(other UUID) bool {
	return u.id == other.id
}

// Validate rejects the nil UUID.
func (u UUID) Validate() error {
	if u.id == uuid.Nil {
		return ErrUUIDIsNotConstructed
	}
	return nil
}

// MarshalText renders the canonical form, so identifiers inside event payloads
// serialize as plain strings.
func (u UUID) MarshalText() ([]byte, error) {
	return []byte(u.String()), nil
}
