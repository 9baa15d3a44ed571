// Package repository defines the interfaces for the persistence layer.
package repository

import (
	"context"
	"errors"

	"surplus/internal/domain/entity"
)

// ErrSessionNotFound is returned when no session snapshot is persisted.
var ErrSessionNotFound = errors.New("session not found")

// SessionRepository persists the single active session snapshot so it can be
// restored at startup. Save overwrites unconditionally: the latest resolved
// login wins.
type SessionRepository interface {
	// Load retrieves the persisted session snapshot, if any.
	Load(ctx context.Context) (*entity.Session, error)

	// Save overwrites the persisted session snapshot.
	Save(ctx context.Context, session *entity.Session) error

	// Clear removes the persisted session snapshot. Clearing an absent
	// session is not an error.
	Clear(ctx context.Context) error
}
