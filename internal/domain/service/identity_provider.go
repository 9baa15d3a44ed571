package service

import (
	"context"
	"errors"
)

// Provider-level errors. The identity usecase collapses everything the remote
// backend reports into these two outcomes; no structured provider error codes
// leak to callers.
var (
	// ErrProviderRejected is returned when the provider rejected the
	// credentials or the account already exists.
	ErrProviderRejected = errors.New("identity provider rejected the request")

	// ErrProviderUnavailable is returned when the provider could not be
	// reached or answered with a transport-level failure.
	ErrProviderUnavailable = errors.New("identity provider unavailable")
)

// IdentityProvider is the contract of the remote identity backend. Accounts
// there are keyed by an opaque external ID; the provider stores credentials
// and display names but knows nothing about roles.
type IdentityProvider interface {
	// CreateAccount registers a new account with the provider and returns
	// its external ID. Returns ErrProviderRejected when the username is
	// already registered.
	CreateAccount(ctx context.Context, username, password string) (externalID string, err error)

	// Authenticate verifies credentials and returns the external ID along
	// with the stored display name. Returns ErrProviderRejected on any
	// credential mismatch, without distinguishing which part was wrong.
	Authenticate(ctx context.Context, username, password string) (externalID, displayName string, err error)

	// SetDisplayName updates the display name stored with the provider.
	SetDisplayName(ctx context.Context, externalID, displayName string) error

	// SignOut invalidates the provider-side session, if the provider keeps one.
	SignOut(ctx context.Context) error
}
