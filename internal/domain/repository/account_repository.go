// Package repository defines the interfaces for the persistence layer.
// These interfaces act as a contract between the domain/application layers and the infrastructure layer.
package repository

import (
	"context"
	"errors"

	"surplus/internal/domain/entity"
)

// ErrAccountNotFound is a domain-specific error returned when an account is not found.
var ErrAccountNotFound = errors.New("account not found")

// AccountRepository defines the standard operations for account persistence.
// The application layer will depend on this interface, not the concrete implementation.
// Accounts are append-only: there is no update or delete.
type AccountRepository interface {
	// FindByID retrieves a single account by its unique ID.
	FindByID(ctx context.Context, id string) (*entity.Account, error)

	// FindByUsername retrieves a single account by its exact, case-sensitive username.
	FindByUsername(ctx context.Context, username string) (*entity.Account, error)

	// Create persists a new account to the storage.
	Create(ctx context.Context, account *entity.Account) error
}
