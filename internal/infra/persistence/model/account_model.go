// Package model holds the JSON persistence shapes for local snapshot storage.
// They are kept separate from the domain entities so the stored wire format
// stays stable even when the entities evolve.
package model

import (
	"time"

	"surplus/internal/domain/entity"
)

// AccountModel mirrors one element of the 'accounts' snapshot.
type AccountModel struct {
	ID           string    `json:"id"`
	Username     string    `json:"username"`
	DisplayName  string    `json:"displayName,omitempty"`
	PasswordHash string    `json:"passwordHash"`
	Role         string    `json:"role"`
	CreatedAt    time.Time `json:"createdAt"`
}

// SessionModel mirrors the 'session' snapshot: the authenticated account
// without its credential.
type SessionModel struct {
	ID       string `json:"id"`
	Username string `json:"username"`
	Role     string `json:"role"`
}

// FromAccount maps a domain account to its persistence shape.
func FromAccount(a *entity.Account) *AccountModel {
	return &AccountModel{
		ID:           a.ID,
		Username:     a.Username,
		DisplayName:  a.DisplayName,
		PasswordHash: a.PasswordHash,
		Role:         a.Role.String(),
		CreatedAt:    a.CreatedAt,
	}
}

// ToAccount maps a persistence shape back to a pure domain entity.
func (m *AccountModel) ToAccount() *entity.Account {
	return &entity.Account{
		ID:           m.ID,
		Username:     m.Username,
		DisplayName:  m.DisplayName,
		PasswordHash: m.PasswordHash,
		Role:         entity.RoleFromString(m.Role),
		CreatedAt:    m.CreatedAt,
	}
}

// FromSession maps a domain session to its persistence shape.
func FromSession(s *entity.Session) *SessionModel {
	return &SessionModel{
		ID:       s.AccountID,
		Username: s.Username,
		Role:     s.Role.String(),
	}
}

// ToSession maps a persistence shape back to a pure domain entity.
func (m *SessionModel) ToSession() *entity.Session {
	return &entity.Session{
		AccountID: m.ID,
		Username:  m.Username,
		Role:      entity.RoleFromString(m.Role),
	}
}
