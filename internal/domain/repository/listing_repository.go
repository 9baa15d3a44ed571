// Package repository defines the interfaces for the persistence layer.
package repository

import (
	"context"
	"errors"

	"surplus/internal/domain/entity"

	"github.com/google/uuid"
)

// ErrListingNotFound is a domain-specific error returned when a listing is not found.
var ErrListingNotFound = errors.New("listing not found")

// ListingRepository defines the standard operations for listing persistence.
// The collection is an ordered sequence; every mutation persists the full
// snapshot write-through, so reads after a returned call observe the change.
type ListingRepository interface {
	// List retrieves the full ordered listing collection.
	List(ctx context.Context) ([]*entity.Listing, error)

	// FindByID retrieves a single listing by its unique ID.
	FindByID(ctx context.Context, id uuid.UUID) (*entity.Listing, error)

	// Create appends a new listing to the collection.
	Create(ctx context.Context, listing *entity.Listing) error

	// Save replaces the stored listing with the same ID.
	Save(ctx context.Context, listing *entity.Listing) error

	// Delete removes the listing with the given ID. Deleting an absent
	// listing is not an error.
	Delete(ctx context.Context, id uuid.UUID) error
}
