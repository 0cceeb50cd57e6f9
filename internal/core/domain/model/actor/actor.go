// Package actor identifies the party performing an operation and its role.
// Aggregates evaluate a single reusable authorization predicate against the
// acting party ("is this actor the customer / the assigned party / an admin
// for this entity") instead of scattering per-route role checks.
package actor

import (
	"errors"
	"fmt"

	"fastdispatch/internal/core/domain/model/kernel"
	"fastdispatch/internal/pkg/errs"
)

// Role classifies the acting party for authorization decisions.
type Role int

const (
	// RoleUnknown represents an invalid or undefined role.
	RoleUnknown Role = iota

	// RoleCustomer placed the order and pays into escrow.
	RoleCustomer

	// RoleMerchant fulfills the order.
	RoleMerchant

	// RoleCourier delivers the order.
	RoleCourier

	// RoleAdmin may drive any transition and resolve disputes.
	RoleAdmin
)

// ErrActorIsNotConstructed is returned when using an Actor that was not
// created via the New constructor.
var ErrActorIsNotConstructed = errors.New("Actor must be created via New constructor")

func roleStrings() map[Role]string {
	return map[Role]string{
		RoleUnknown:  "UNKNOWN",
		RoleCustomer: "CUSTOMER",
		RoleMerchant: "MERCHANT",
		RoleCourier:  "COURIER",
		RoleAdmin:    "ADMIN",
	}
}

// RoleFromString parses a role name as it appears on the wire.
func RoleFromString(s string) (Role, error) {
	for role, str := range roleStrings() {
		if role != RoleUnknown && str == s {
			return role, nil
		}
	}
	return RoleUnknown, errs.NewValueIsInvalidErrorWithCause("role",
		fmt.Errorf("%q is not a valid role", s))
}

// String returns the wire name of the role.
func (r Role) String() string {
	if s, ok := roleStrings()[r]; ok {
		return s
	}
	return "UNKNOWN"
}

// Validate checks the role is one of the defined values.
func (r Role) Validate() error {
	switch r {
	case RoleCustomer, RoleMerchant, RoleCourier, RoleAdmin:
		return nil
	default:
		return errs.NewValueIsInvalidErrorWithCause("role",
			fmt.Errorf("%d is not a valid role", r))
	}
}

// Actor is the identity performing an operation. It is an immutable value
// object; the zero value is invalid.
type Actor struct {
	id            kernel.UUID
	role          Role
	isConstructed bool
}

// New creates an Actor with a validated identity and role.
func New(id kernel.UUID, role Role) (Actor, error) {
	if err := errors.Join(id.Validate(), role.Validate()); err != nil {
		return Actor{}, err
	}

	return Actor{id: id, role: role, isConstructed: true}, nil
}

// Validate ensures the actor was created through New.
func (a Actor) Validate() error {
	if !a.isConstructed {
		return ErrActorIsNotConstructed
	}
	return nil
}

// ID returns the actor's identity.
func (a Actor) ID() kernel.UUID {
	return a.id
}

// Role returns the actor's role.
func (a Actor) Role() Role {
	return a.role
}

// IsAdmin reports whether the actor holds the admin role.
func (a Actor) IsAdmin() bool {
	return a.role == RoleAdmin
}

// Is reports whether the actor is the party with the given identity.
func (a Actor) Is(id kernel.UUID) bool {
	return a.id.IsEqual(id)
}

// String renders the actor for error messages and logs.
func (a Actor) String() string {
	return fmt.Sprintf("%s(%s)", a.role, a.id)
}
