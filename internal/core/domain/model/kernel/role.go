package kernel

import (
	"fmt"

	"roadside/internal/pkg/errs"
)

// Role identifies the kind of service provider a job requires. It doubles as
// the provider's own specialization: a job with RoleTowTruck is only ever
// offered to tow-truck operators.
type Role string

const (
	// RoleTowTruck is a mobile tow-truck operator.
	RoleTowTruck Role = "TOW_TRUCK"
	// RoleMechanic is a mobile mechanic.
	RoleMechanic Role = "MECHANIC"
)

// ParseRole converts a raw string into a Role, validating it against the
// known set. Used when reconstructing aggregates from persistence and when
// binding transport payloads.
func ParseRole(s string) (Role, error) {
	r := Role(s)
	if err := r.Validate(); err != nil {
		return "", err
	}
	return r, nil
}

// Validate checks the Role against the known set. The zero value ("") is
// invalid.
func (r Role) Validate() error {
	switch r {
	case RoleTowTruck, RoleMechanic:
		return nil
	default:
		return errs.NewValueIsInvalidErrorWithCause("role",
			fmt.Errorf("%q is not a known provider role", string(r)))
	}
}

// String returns the wire representation of the role.
func (r Role) String() string {
	return string(r)
}
