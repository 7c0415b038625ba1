package order

import (
	"errors"
	"fmt"

	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/pkg/errs"
)

// ErrActorNotPermitted is returned when the caller's role or identity is not
// allowed to trigger a transition the current status would otherwise allow.
var ErrActorNotPermitted = errors.New("actor is not permitted")

// Role identifies who triggers a transition.
type Role int

const (
	RoleUnknown Role = iota
	RoleCustomer
	RoleRestaurant
	RoleWorker
	RoleAdministrator
	// RolePartner is an external delivery partner reporting through a webhook.
	RolePartner
)

func getRoleStrings() map[Role]string {
	return map[Role]string{
		RoleCustomer:      "customer",
		RoleRestaurant:    "restaurant",
		RoleWorker:        "worker",
		RoleAdministrator: "administrator",
		RolePartner:       "partner",
	}
}

// ParseRole converts the wire name of a role.
func ParseRole(s string) (Role, error) {
	for role, name := range getRoleStrings() {
		if name == s {
			return role, nil
		}
	}
	return RoleUnknown, errs.NewValueIsInvalidErrorWithCause("actor role", fmt.Errorf("%q is not a valid role", s))
}

func (r Role) String() string {
	if str, ok := getRoleStrings()[r]; ok {
		return str
	}
	return "unknown"
}

func (r Role) MarshalText() ([]byte, error) {
	return []byte(r.String()), nil
}

// Actor is who performs a transition. Partner actors may be anonymous.
type Actor struct {
	id   kernel.UUID
	role Role
}

// NewActor validates the role and, for identified roles, the identifier.
func NewActor(id kernel.UUID, role Role) (Actor, error) {
	if _, ok := getRoleStrings()[role]; !ok {
		return Actor{}, errs.NewValueIsInvalidErrorWithCause("actor role", fmt.Errorf("%d is not a valid role", role))
	}
	if role != RolePartner {
		if err := id.Validate(); err != nil {
			return Actor{}, errs.NewValueIsRequiredErrorWithCause("actor id", err)
		}
	}
	return Actor{id: id, role: role}, nil
}

// PartnerActor is the anonymous actor behind partner delivery webhooks.
func PartnerActor() Actor {
	return Actor{role: RolePartner}
}

// ID returns the actor identifier and whether one is present.
func (a Actor) ID() (kernel.UUID, bool) {
	return a.id, a.id.Validate() == nil
}

func (a Actor) Role() Role {
	return a.role
}

func (a Actor) is(role Role, id kernel.UUID) bool {
	return a.role == role && a.id.Validate() == nil && a.id.IsEqual(id)
}

func newActorNotPermittedError(a Actor, to Status) error {
	return fmt.Errorf("%w: %s cannot move order to %s", ErrActorNotPermitted, a.role, to)
}
