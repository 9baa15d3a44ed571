// Package impl contains the implementation of the application's business logic.
package impl

import (
	"context"
	"log/slog"
	"time"

	deliverycontext "surplus/internal/delivery/context"
	"surplus/internal/domain/entity"
	domainerrors "surplus/internal/domain/errors"
	"surplus/internal/domain/repository"
	"surplus/internal/errors"
	"surplus/internal/infra/metrics"
	"surplus/internal/usecase"

	"github.com/google/uuid"
	"go.uber.org/fx"
)

// listingService implements the ListingUsecase interface.
type listingService struct {
	listingRepo repository.ListingRepository
	now         func() time.Time
	logger      *slog.Logger
}

// ListingServiceParams holds dependencies for listingService, injected by Fx.
type ListingServiceParams struct {
	fx.In

	ListingRepo repository.ListingRepository
	Logger      *slog.Logger
}

// NewListingService is the constructor for listingService.
func NewListingService(params ListingServiceParams) usecase.ListingUsecase {
	return &listingService{
		listingRepo: params.ListingRepo,
		now:         func() time.Time { return time.Now().UTC() },
		logger:      params.Logger,
	}
}

// log returns a request-scoped logger if available, otherwise falls back to the service's logger.
func (srv *listingService) log(ctx context.Context) *slog.Logger {
	return deliverycontext.GetLoggerOrDefault(ctx, srv.logger)
}

// Create adds a new available listing. A supplied (original price, discount)
// pair overrides whatever price the caller sent.
func (srv *listingService) Create(ctx context.Context, actor *entity.Session, input *usecase.CreateListingInput) (*entity.Listing, error) {
	if !actor.IsAdmin() {
		return nil, errors.Wrap(domainerrors.ErrPermissionDenied, "only admins can create listings")
	}

	listing := &entity.Listing{
		ID:                 uuid.New(),
		Name:               input.Name,
		Description:        input.Description,
		Price:              input.Price,
		OriginalPrice:      input.OriginalPrice,
		DiscountPercentage: input.DiscountPercentage,
		ImageURL:           input.ImageURL,
		CreatedAt:          srv.now(),
	}
	listing.ApplyDiscount()

	if err := srv.listingRepo.Create(ctx, listing); err != nil {
		srv.log(ctx).Error("Failed to create listing", slog.String("name", input.Name), slog.Any("error", err))

		return nil, errors.Wrap(err, "failed to create listing")
	}

	metrics.ListingsCreatedTotal.Inc()
	srv.log(ctx).Info("Listing created", slog.Any("listingID", listing.ID), slog.String("name", listing.Name))

	return listing, nil
}

// Update merges the patch into the stored listing. When either discount field
// appears in the patch the price is recomputed from the resulting pair, with
// prior stored values filling in the absent side. An absent ID is a silent
// no-op.
func (srv *listingService) Update(ctx context.Context, actor *entity.Session, id uuid.UUID, input *usecase.UpdateListingInput) error {
	if !actor.IsAdmin() {
		return errors.Wrap(domainerrors.ErrPermissionDenied, "only admins can update listings")
	}

	listing, err := srv.listingRepo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrListingNotFound) {
			srv.log(ctx).Debug("Update of absent listing ignored", slog.Any("listingID", id))

			return nil
		}

		return errors.Wrap(err, "failed to load listing for update")
	}

	applyListingPatch(listing, input)

	if err := srv.listingRepo.Save(ctx, listing); err != nil {
		srv.log(ctx).Error("Failed to update listing", slog.Any("listingID", id), slog.Any("error", err))

		return errors.Wrap(err, "failed to save updated listing")
	}

	srv.log(ctx).Info("Listing updated", slog.Any("listingID", id))

	return nil
}

func applyListingPatch(listing *entity.Listing, input *usecase.UpdateListingInput) {
	if input.Name != nil {
		listing.Name = *input.Name
	}
	if input.Description != nil {
		listing.Description = *input.Description
	}
	if input.Price != nil {
		listing.Price = *input.Price
	}
	if input.ImageURL != nil {
		listing.ImageURL = *input.ImageURL
	}

	// The presence of either discount field triggers a recompute, even when
	// the supplied value equals the stored one.
	recompute := input.OriginalPrice != nil || input.DiscountPercentage != nil
	if input.OriginalPrice != nil {
		listing.OriginalPrice = input.OriginalPrice
	}
	if input.DiscountPercentage != nil {
		listing.DiscountPercentage = input.DiscountPercentage
	}
	if recompute {
		listing.ApplyDiscount()
	}
}

// Delete removes a listing. An absent ID is a silent no-op.
func (srv *listingService) Delete(ctx context.Context, actor *entity.Session, id uuid.UUID) error {
	if !actor.IsAdmin() {
		return errors.Wrap(domainerrors.ErrPermissionDenied, "only admins can delete listings")
	}

	if err := srv.listingRepo.Delete(ctx, id); err != nil {
		srv.log(ctx).Error("Failed to delete listing", slog.Any("listingID", id), slog.Any("error", err))

		return errors.Wrap(err, "failed to delete listing")
	}

	srv.log(ctx).Info("Listing deleted", slog.Any("listingID", id))

	return nil
}

// Purchase marks a listing sold exactly once. An absent ID is a silent no-op;
// a listing that is already sold cannot be purchased again and keeps its
// original sold timestamp.
func (srv *listingService) Purchase(ctx context.Context, actor *entity.Session, id uuid.UUID) error {
	if !actor.IsCustomer() {
		metrics.PurchaseRejectionsTotal.WithLabelValues("permission_denied").Inc()

		return errors.Wrap(domainerrors.ErrPermissionDenied, "only customers can purchase listings")
	}

	listing, err := srv.listingRepo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrListingNotFound) {
			srv.log(ctx).Debug("Purchase of absent listing ignored", slog.Any("listingID", id))

			return nil
		}

		return errors.Wrap(err, "failed to load listing for purchase")
	}

	if listing.Sold {
		metrics.PurchaseRejectionsTotal.WithLabelValues("already_sold").Inc()

		return errors.Wrap(domainerrors.ErrListingAlreadySold, "listing was already purchased")
	}

	listing.MarkSold(srv.now())

	if err := srv.listingRepo.Save(ctx, listing); err != nil {
		srv.log(ctx).Error("Failed to record purchase", slog.Any("listingID", id), slog.Any("error", err))

		return errors.Wrap(err, "failed to save purchased listing")
	}

	metrics.ListingsSoldTotal.Inc()
	srv.log(ctx).Info("Listing purchased", slog.Any("listingID", id))

	return nil
}

// Get retrieves a single listing by ID.
func (srv *listingService) Get(ctx context.Context, id uuid.UUID) (*entity.Listing, error) {
	listing, err := srv.listingRepo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrListingNotFound) {
			return nil, errors.Wrap(domainerrors.ErrListingNotFound, "listing lookup failed")
		}

		return nil, errors.Wrap(err, "failed to load listing")
	}

	return listing, nil
}

// Available returns the unsold part of the collection, in insertion order.
func (srv *listingService) Available(ctx context.Context) ([]*entity.Listing, error) {
	return srv.filtered(ctx, false)
}

// SoldListings returns the sold part of the collection, in insertion order.
func (srv *listingService) SoldListings(ctx context.Context) ([]*entity.Listing, error) {
	return srv.filtered(ctx, true)
}

func (srv *listingService) filtered(ctx context.Context, sold bool) ([]*entity.Listing, error) {
	all, err := srv.listingRepo.List(ctx)
	if err != nil {
		return nil, errors.Wrap(err, "failed to list listings")
	}

	filtered := make([]*entity.Listing, 0, len(all))
	for _, listing := range all {
		if listing.Sold == sold {
			filtered = append(filtered, listing)
		}
	}

	return filtered, nil
}
