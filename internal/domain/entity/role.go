// Package entity contains the core business objects of the project.
package entity

// Role represents the type of role an account can have in the system.
type Role string

const (
	// RoleAdmin indicates an administrator who manages listings.
	RoleAdmin Role = "admin"
	// RoleCustomer indicates a customer who browses and purchases.
	RoleCustomer Role = "customer"
)

// String returns the string representation of the Role.
func (r Role) String() string {
	return string(r)
}

// IsValid checks if the Role is a valid value.
func (r Role) IsValid() bool {
	switch r {
	case RoleAdmin, RoleCustomer:
		return true
	default:
		return false
	}
}

// RoleFromString converts a raw string to a Role, falling back to
// RoleCustomer for unknown values. The remote identity path stores roles as
// plain string markers, so recovery has to tolerate missing or stale ones.
func RoleFromString(s string) Role {
	role := Role(s)
	if !role.IsValid() {
		return RoleCustomer
	}

	return role
}
