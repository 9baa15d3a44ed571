// Package usecase contains the application-specific business rules.
package usecase

import (
	"context"

	"surplus/internal/domain/entity"

	"github.com/google/uuid"
)

// --- Input DTOs ---

// CreateListingInput defines the data required to create a listing.
// When both OriginalPrice and DiscountPercentage are set, the stored price is
// derived from them and any caller-supplied Price is overridden.
type CreateListingInput struct {
	Name               string `validate:"required"`
	Description        string
	Price              float64  `validate:"gte=0"`
	OriginalPrice      *float64 `validate:"omitempty,gte=0"`
	DiscountPercentage *float64 `validate:"omitempty,gte=0,lte=100"`
	ImageURL           string
}

// UpdateListingInput is a partial patch: nil fields are left unchanged.
// If either OriginalPrice or DiscountPercentage is present, the price is
// recomputed from the resulting pair, with prior stored values filling in
// whichever of the two was not supplied.
type UpdateListingInput struct {
	Name               *string
	Description        *string
	Price              *float64 `validate:"omitempty,gte=0"`
	OriginalPrice      *float64 `validate:"omitempty,gte=0"`
	DiscountPercentage *float64 `validate:"omitempty,gte=0,lte=100"`
	ImageURL           *string
}

// ListingUsecase is the contract of the listing store. Mutating operations
// take the caller's session and enforce role capabilities at the store
// boundary: create/update/delete require an admin, purchase a customer.
type ListingUsecase interface {
	// Create adds a new available listing and returns it.
	Create(ctx context.Context, actor *entity.Session, input *CreateListingInput) (*entity.Listing, error)

	// Update merges the patch into an existing listing. Updating an absent
	// ID is a silent no-op.
	Update(ctx context.Context, actor *entity.Session, id uuid.UUID, input *UpdateListingInput) error

	// Delete removes a listing. Deleting an absent ID is a silent no-op.
	Delete(ctx context.Context, actor *entity.Session, id uuid.UUID) error

	// Purchase marks a listing sold exactly once. Purchasing an absent ID
	// is a silent no-op; purchasing a sold listing fails.
	Purchase(ctx context.Context, actor *entity.Session, id uuid.UUID) error

	// Get retrieves a single listing.
	Get(ctx context.Context, id uuid.UUID) (*entity.Listing, error)

	// Available returns the listings that have not been sold, in insertion order.
	Available(ctx context.Context) ([]*entity.Listing, error)

	// SoldListings returns the listings that have been sold, in insertion order.
	SoldListings(ctx context.Context) ([]*entity.Listing, error)
}
