package impl

import (
	"context"
	"log/slog"
	"testing"
	"time"

	"surplus/config"
	"surplus/internal/domain/entity"
	domainerrors "surplus/internal/domain/errors"
	"surplus/internal/domain/repository"
	"surplus/internal/infra/persistence/localstore"
	"surplus/internal/usecase"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gocloud.dev/blob/memblob"
)

// listingServiceFixtures holds all test dependencies for listing service tests.
type listingServiceFixtures struct {
	service     usecase.ListingUsecase
	listingRepo repository.ListingRepository
	now         time.Time
	admin       *entity.Session
	customer    *entity.Session
}

func createTestListingService(t *testing.T) listingServiceFixtures {
	t.Helper()

	bucket := memblob.OpenBucket(nil)
	t.Cleanup(func() { _ = bucket.Close() })

	cfg := &config.Config{}
	cfg.Seed = &config.SeedConfig{Demo: false}

	listingRepo, err := localstore.NewListingRepository(context.Background(), localstore.NewWithBucket(bucket), cfg)
	require.NoError(t, err)

	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	service := &listingService{
		listingRepo: listingRepo,
		now:         func() time.Time { return now },
		logger:      slog.Default(),
	}

	return listingServiceFixtures{
		service:     service,
		listingRepo: listingRepo,
		now:         now,
		admin:       &entity.Session{AccountID: "admin-1", Username: "admin", Role: entity.RoleAdmin},
		customer:    &entity.Session{AccountID: "cust-1", Username: "customer", Role: entity.RoleCustomer},
	}
}

func floatPtr(v float64) *float64 { return &v }

func strPtr(v string) *string { return &v }

func TestListingService_Create_DerivesDiscountedPrice(t *testing.T) {
	fx := createTestListingService(t)
	ctx := context.Background()

	listing, err := fx.service.Create(ctx, fx.admin, &usecase.CreateListingInput{
		Name:               "Pasta Primavera",
		Price:              99.99, // overridden by the discount pair
		OriginalPrice:      floatPtr(10.00),
		DiscountPercentage: floatPtr(25),
	})
	require.NoError(t, err)

	assert.InDelta(t, 7.50, listing.Price, 1e-9)
	assert.Equal(t, fx.now, listing.CreatedAt)
	assert.False(t, listing.Sold)

	stored, err := fx.listingRepo.FindByID(ctx, listing.ID)
	require.NoError(t, err)
	assert.InDelta(t, 7.50, stored.Price, 1e-9)
}

func TestListingService_Create_KeepsExplicitPriceWithoutPair(t *testing.T) {
	fx := createTestListingService(t)
	ctx := context.Background()

	listing, err := fx.service.Create(ctx, fx.admin, &usecase.CreateListingInput{
		Name:          "Vegetable Curry",
		Price:         6.75,
		OriginalPrice: floatPtr(10.00), // discount missing, no derivation
	})
	require.NoError(t, err)
	assert.InDelta(t, 6.75, listing.Price, 1e-9)
}

func TestListingService_Create_RequiresAdmin(t *testing.T) {
	fx := createTestListingService(t)
	ctx := context.Background()

	_, err := fx.service.Create(ctx, fx.customer, &usecase.CreateListingInput{Name: "Nope", Price: 1})
	assert.ErrorIs(t, err, domainerrors.ErrPermissionDenied)

	_, err = fx.service.Create(ctx, nil, &usecase.CreateListingInput{Name: "Nope", Price: 1})
	assert.ErrorIs(t, err, domainerrors.ErrPermissionDenied)
}

func TestListingService_Update_RecomputesFromPatchedDiscount(t *testing.T) {
	fx := createTestListingService(t)
	ctx := context.Background()

	listing, err := fx.service.Create(ctx, fx.admin, &usecase.CreateListingInput{
		Name:               "Chocolate Cake",
		OriginalPrice:      floatPtr(10.00),
		DiscountPercentage: floatPtr(25),
	})
	require.NoError(t, err)
	require.InDelta(t, 7.50, listing.Price, 1e-9)

	// Patching only the discount recomputes against the stored original price
	err = fx.service.Update(ctx, fx.admin, listing.ID, &usecase.UpdateListingInput{
		DiscountPercentage: floatPtr(50),
	})
	require.NoError(t, err)

	updated, err := fx.service.Get(ctx, listing.ID)
	require.NoError(t, err)
	assert.InDelta(t, 5.00, updated.Price, 1e-9)
}

func TestListingService_Update_PlainFieldsLeavePriceAlone(t *testing.T) {
	fx := createTestListingService(t)
	ctx := context.Background()

	listing, err := fx.service.Create(ctx, fx.admin, &usecase.CreateListingInput{
		Name:               "Chocolate Cake",
		OriginalPrice:      floatPtr(10.00),
		DiscountPercentage: floatPtr(25),
	})
	require.NoError(t, err)

	err = fx.service.Update(ctx, fx.admin, listing.ID, &usecase.UpdateListingInput{
		Name:        strPtr("Chocolate Cake Slices"),
		Description: strPtr("Three slices left"),
	})
	require.NoError(t, err)

	updated, err := fx.service.Get(ctx, listing.ID)
	require.NoError(t, err)
	assert.Equal(t, "Chocolate Cake Slices", updated.Name)
	assert.InDelta(t, 7.50, updated.Price, 1e-9)
}

func TestListingService_Update_AbsentIDIsNoOp(t *testing.T) {
	fx := createTestListingService(t)
	ctx := context.Background()

	err := fx.service.Update(ctx, fx.admin, uuid.New(), &usecase.UpdateListingInput{
		Name: strPtr("ghost"),
	})
	assert.NoError(t, err)
}

func TestListingService_Update_RequiresAdmin(t *testing.T) {
	fx := createTestListingService(t)
	ctx := context.Background()

	err := fx.service.Update(ctx, fx.customer, uuid.New(), &usecase.UpdateListingInput{})
	assert.ErrorIs(t, err, domainerrors.ErrPermissionDenied)
}

func TestListingService_Delete_ThenUpdateIsNoOp(t *testing.T) {
	fx := createTestListingService(t)
	ctx := context.Background()

	listing, err := fx.service.Create(ctx, fx.admin, &usecase.CreateListingInput{Name: "Soup", Price: 2})
	require.NoError(t, err)

	require.NoError(t, fx.service.Delete(ctx, fx.admin, listing.ID))

	// Neither a repeat delete nor a late update errors
	assert.NoError(t, fx.service.Delete(ctx, fx.admin, listing.ID))
	assert.NoError(t, fx.service.Update(ctx, fx.admin, listing.ID, &usecase.UpdateListingInput{Name: strPtr("gone")}))

	_, err = fx.service.Get(ctx, listing.ID)
	assert.ErrorIs(t, err, domainerrors.ErrListingNotFound)
}

func TestListingService_Delete_RequiresAdmin(t *testing.T) {
	fx := createTestListingService(t)
	ctx := context.Background()

	err := fx.service.Delete(ctx, fx.customer, uuid.New())
	assert.ErrorIs(t, err, domainerrors.ErrPermissionDenied)
}

func TestListingService_Purchase_MovesListingToSold(t *testing.T) {
	fx := createTestListingService(t)
	ctx := context.Background()

	listing, err := fx.service.Create(ctx, fx.admin, &usecase.CreateListingInput{Name: "Pasta", Price: 7.50})
	require.NoError(t, err)

	require.NoError(t, fx.service.Purchase(ctx, fx.customer, listing.ID))

	sold, err := fx.service.SoldListings(ctx)
	require.NoError(t, err)
	require.Len(t, sold, 1)
	assert.Equal(t, listing.ID, sold[0].ID)
	require.NotNil(t, sold[0].SoldAt)
	assert.Equal(t, fx.now, *sold[0].SoldAt)

	available, err := fx.service.Available(ctx)
	require.NoError(t, err)
	assert.Empty(t, available)
}

func TestListingService_Purchase_SoldListingFails(t *testing.T) {
	fx := createTestListingService(t)
	ctx := context.Background()

	listing, err := fx.service.Create(ctx, fx.admin, &usecase.CreateListingInput{Name: "Pasta", Price: 7.50})
	require.NoError(t, err)

	require.NoError(t, fx.service.Purchase(ctx, fx.customer, listing.ID))

	err = fx.service.Purchase(ctx, fx.customer, listing.ID)
	assert.ErrorIs(t, err, domainerrors.ErrListingAlreadySold)

	// The failed second purchase did not refresh the sold timestamp
	sold, err := fx.service.SoldListings(ctx)
	require.NoError(t, err)
	require.Len(t, sold, 1)
	assert.Equal(t, fx.now, *sold[0].SoldAt)
}

func TestListingService_Purchase_AbsentIDIsNoOp(t *testing.T) {
	fx := createTestListingService(t)
	ctx := context.Background()

	assert.NoError(t, fx.service.Purchase(ctx, fx.customer, uuid.New()))
}

func TestListingService_Purchase_RequiresCustomer(t *testing.T) {
	fx := createTestListingService(t)
	ctx := context.Background()

	listing, err := fx.service.Create(ctx, fx.admin, &usecase.CreateListingInput{Name: "Pasta", Price: 7.50})
	require.NoError(t, err)

	err = fx.service.Purchase(ctx, fx.admin, listing.ID)
	require.ErrorIs(t, err, domainerrors.ErrPermissionDenied)

	// The listing stayed available
	available, err := fx.service.Available(ctx)
	require.NoError(t, err)
	assert.Len(t, available, 1)
}

func TestListingService_AvailableAndSoldPartition(t *testing.T) {
	fx := createTestListingService(t)
	ctx := context.Background()

	first, err := fx.service.Create(ctx, fx.admin, &usecase.CreateListingInput{Name: "First", Price: 1})
	require.NoError(t, err)
	second, err := fx.service.Create(ctx, fx.admin, &usecase.CreateListingInput{Name: "Second", Price: 2})
	require.NoError(t, err)
	third, err := fx.service.Create(ctx, fx.admin, &usecase.CreateListingInput{Name: "Third", Price: 3})
	require.NoError(t, err)

	require.NoError(t, fx.service.Purchase(ctx, fx.customer, second.ID))

	available, err := fx.service.Available(ctx)
	require.NoError(t, err)
	require.Len(t, available, 2)
	assert.Equal(t, first.ID, available[0].ID)
	assert.Equal(t, third.ID, available[1].ID)

	sold, err := fx.service.SoldListings(ctx)
	require.NoError(t, err)
	require.Len(t, sold, 1)
	assert.Equal(t, second.ID, sold[0].ID)
}

func TestListingService_Get_MapsNotFound(t *testing.T) {
	fx := createTestListingService(t)
	ctx := context.Background()

	_, err := fx.service.Get(ctx, uuid.New())
	require.ErrorIs(t, err, domainerrors.ErrListingNotFound)

	var appErr domainerrors.AppError
	require.True(t, errors.As(err, &appErr))
	assert.Equal(t, "LISTING_NOT_FOUND", appErr.ErrorCode())
}
