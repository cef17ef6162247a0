package kernel

import (
	"fmt"
	"strings"

	"pharmacy/internal/pkg/errs"
)

// Role is the kind of participant performing an operation.
type Role int

const (
	RoleUnknown Role = iota
	RolePatient
	RolePharmacist
	RoleCourier
	RoleAdmin
	// RoleSystem is used by timers and sweeps. It never comes from the inbound adapter.
	RoleSystem
)

var roleNames = map[Role]string{
	RoleUnknown:    "unknown",
	RolePatient:    "patient",
	RolePharmacist: "pharmacist",
	RoleCourier:    "courier",
	RoleAdmin:      "admin",
	RoleSystem:     "system",
}

func (r Role) String() string {
	if s, ok := roleNames[r]; ok {
		return s
	}
	return roleNames[RoleUnknown]
}

func (r Role) Validate() error {
	if r <= RoleUnknown || r > RoleSystem {
		return errs.NewValueIsInvalidErrorWithCause("role", fmt.Errorf("%d is not a valid role", r))
	}
	return nil
}

// ParseRole maps a role name to a Role. RoleSystem cannot be parsed.
func ParseRole(s string) (Role, error) {
	name := strings.ToLower(strings.TrimSpace(s))
	for r, n := range roleNames {
		if r != RoleUnknown && r != RoleSystem && n == name {
			return r, nil
		}
	}
	return RoleUnknown, errs.NewValueIsInvalidErrorWithCause("role", fmt.Errorf("%q is not a valid role", s))
}

// Actor is an authenticated participant. Identity is trusted as given.
type Actor struct {
	id   UUID
	role Role
}

// NewActor builds an actor for the given user id and role.
func NewActor(id UUID, role Role) (Actor, error) {
	if err := id.Validate(); err != nil {
		return Actor{}, err
	}
	if err := role.Validate(); err != nil {
		return Actor{}, err
	}
	return Actor{id: id, role: role}, nil
}

// SystemActor is the actor used by timers.
func SystemActor() Actor {
	return Actor{role: RoleSystem}
}

func (a Actor) ID() UUID {
	return a.id
}

func (a Actor) Role() Role {
	return a.role
}

func (a Actor) Is(role Role) bool {
	return a.role == role
}

func (a Actor) String() string {
	if a.role == RoleSystem {
		return a.role.String()
	}
	return fmt.Sprintf("%s %s", a.role, a.id)
}

func (a Actor) Validate() error {
	if a.role == RoleSystem {
		return nil
	}
	if err := a.id.Validate(); err != nil {
		return err
	}
	return a.role.Validate()
}
