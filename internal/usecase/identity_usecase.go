// Package usecase contains the application-specific business rules.
// It orchestrates the domain layer to perform tasks.
package usecase

import (
	"context"

	"surplus/internal/domain/entity"
)

// --- Input DTOs ---

// RegisterInput defines the data required to register a new account.
type RegisterInput struct {
	Username    string `validate:"required"`
	Password    string `validate:"required,min=6"`
	Role        string `validate:"required,oneof=admin customer"`
	DisplayName string
}

// LoginInput defines the data required to log in.
type LoginInput struct {
	Username string `validate:"required"`
	Password string `validate:"required"`
}

// --- Output DTOs ---

// AuthOutput returns the authenticated account, the session snapshot that was
// persisted, and a signed session token for subsequent requests.
type AuthOutput struct {
	Account *entity.Account
	Session *entity.Session
	Token   string
}

// IdentityUsecase is the contract of the identity store. Two interchangeable
// implementations exist (local fallback and remote provider); the choice is
// made once at startup from configuration, never per call.
type IdentityUsecase interface {
	// Register creates a new account and signs it in. Fails with
	// DuplicateUsername when the username is taken, leaving accounts and
	// session untouched.
	Register(ctx context.Context, input *RegisterInput) (*AuthOutput, error)

	// Login authenticates by exact username and credential match. Any
	// mismatch fails with the same InvalidCredentials outcome.
	Login(ctx context.Context, input *LoginInput) (*AuthOutput, error)

	// Logout clears the persisted session. Idempotent.
	Logout(ctx context.Context) error

	// CurrentSession returns the active session, or nil when none exists.
	CurrentSession(ctx context.Context) (*entity.Session, error)
}
