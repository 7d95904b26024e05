package tenancy

import "strings"

// Sides is a flag set of multi-tenancy sides a permission applies to.
type Sides uint8

const (
	// SideHost marks the host side, operating above all tenants.
	SideHost Sides = 1 << iota
	// SideTenant marks the side of a single tenant.
	SideTenant

	// SideBoth applies to host and tenant sides alike.
	SideBoth = SideHost | SideTenant
)

// Includes reports whether the flag set contains every flag of side.
func (s Sides) Includes(side Sides) bool {
	if side == 0 {
		return false
	}
	return s&side == side
}

func (s Sides) String() string {
	if s == 0 {
		return "none"
	}
	parts := make([]string, 0, 2)
	if s&SideHost != 0 {
		parts = append(parts, "host")
	}
	if s&SideTenant != 0 {
		parts = append(parts, "tenant")
	}
	return strings.Join(parts, "|")
}
