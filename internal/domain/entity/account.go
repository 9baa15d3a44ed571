// Package entity contains the core business objects of the project,
// each representing a unique, identifiable concept within the domain.
package entity

import (
	"time"
)

// Account is a registered identity in the marketplace. It is created once at
// signup and never mutated or deleted afterwards.
type Account struct {
	// ID is the unique, stable identifier for this account. Opaque: a
	// generated UUID on the local path, the provider's external ID on the
	// remote path.
	ID          string
	Username    string // The login identifier. Unique, matched case-sensitively.
	DisplayName string // The name shown in the UI. Falls back to Username when empty.
	// PasswordHash stores the bcrypt-hashed credential. Only the local
	// fallback identity backend uses it; the remote backend keeps
	// credentials on the provider side and this field stays empty.
	PasswordHash string
	Role         Role      // The capability role of this account (admin or customer).
	CreatedAt    time.Time // Timestamp of when this account was registered.
}

// Session is a snapshot of the currently authenticated account for the running
// client. At most one session is active at a time; it is persisted so it can be
// restored at startup and cleared on logout.
type Session struct {
	AccountID string // Identifier of the authenticated account.
	Username  string // Display username of the authenticated account.
	Role      Role   // Role of the authenticated account.
}

// IsAdmin reports whether the session belongs to an administrator.
// A nil session never carries any capability.
func (s *Session) IsAdmin() bool {
	return s != nil && s.Role == RoleAdmin
}

// IsCustomer reports whether the session belongs to a customer.
func (s *Session) IsCustomer() bool {
	return s != nil && s.Role == RoleCustomer
}
