// Package repository defines the interfaces for the persistence layer.
package repository

import (
	"context"
	"errors"

	"surplus/internal/domain/entity"
)

// ErrRoleMarkerNotFound is returned when no role marker exists for an account.
var ErrRoleMarkerNotFound = errors.New("role marker not found")

// RoleMarkerRepository stores a per-account role marker keyed by the identity
// provider's external account ID. Only the remote identity path uses it: the
// remote provider authenticates accounts but does not store their role.
type RoleMarkerRepository interface {
	// Set records the role for an external account ID.
	Set(ctx context.Context, externalID string, role entity.Role) error

	// Get retrieves the role recorded for an external account ID.
	Get(ctx context.Context, externalID string) (entity.Role, error)
}
