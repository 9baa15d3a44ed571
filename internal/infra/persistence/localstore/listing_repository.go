package localstore

import (
	"context"
	"sync"
	"time"

	"surplus/config"
	"surplus/internal/domain/entity"
	"surplus/internal/domain/repository"
	"surplus/internal/errors"
	"surplus/internal/infra/persistence/model"

	"github.com/google/uuid"
)

// listingRepository implements repository.ListingRepository on the local
// snapshot store. The ordered collection lives in memory; every mutation
// writes the full snapshot through before returning.
type listingRepository struct {
	mu       sync.RWMutex
	store    *Store
	listings []*entity.Listing
}

// NewListingRepository loads the listings snapshot, seeding the demo catalog
// on first run when enabled, and returns the repository as a domain interface.
func NewListingRepository(ctx context.Context, store *Store, cfg *config.Config) (repository.ListingRepository, error) {
	repo := &listingRepository{store: store}

	var snapshot []*model.ListingModel
	err := store.Get(ctx, keyListings, &snapshot)
	switch {
	case errors.Is(err, ErrKeyNotFound):
		if cfg.Seed != nil && cfg.Seed.Demo {
			repo.listings = seedListings()
			if err := repo.persist(ctx); err != nil {
				return nil, err
			}
		}
	case err != nil:
		return nil, errors.Wrap(err, "failed to load listings snapshot")
	default:
		repo.listings = make([]*entity.Listing, 0, len(snapshot))
		for _, m := range snapshot {
			repo.listings = append(repo.listings, m.ToListing())
		}
	}

	return repo, nil
}

// seedListings returns the demo catalog used on first run.
func seedListings() []*entity.Listing {
	now := time.Now().UTC()
	originalPrice := 5.00
	discount := 30.0

	return []*entity.Listing{
		{
			ID:          uuid.New(),
			Name:        "Pasta Primavera",
			Description: "Leftover pasta with fresh vegetables, only made today",
			Price:       4.99,
			ImageURL:    "https://images.unsplash.com/photo-1473093295043-cdd812d0e601",
			CreatedAt:   now,
		},
		{
			ID:                 uuid.New(),
			Name:               "Chocolate Cake Slices",
			Description:        "3 slices of chocolate cake, perfect condition",
			Price:              3.50,
			OriginalPrice:      &originalPrice,
			DiscountPercentage: &discount,
			ImageURL:           "https://images.unsplash.com/photo-1578985545062-69928b1d9587",
			CreatedAt:          now,
		},
		{
			ID:          uuid.New(),
			Name:        "Vegetable Curry",
			Description: "Homemade vegetable curry, enough for 2 people",
			Price:       6.75,
			ImageURL:    "https://images.unsplash.com/photo-1505253758473-96b7015fcd40",
			CreatedAt:   now,
		},
	}
}

// List retrieves the full ordered listing collection.
func (repo *listingRepository) List(ctx context.Context) ([]*entity.Listing, error) {
	repo.mu.RLock()
	defer repo.mu.RUnlock()

	listings := make([]*entity.Listing, 0, len(repo.listings))
	for _, listing := range repo.listings {
		listings = append(listings, cloneListing(listing))
	}

	return listings, nil
}

// FindByID retrieves a single listing by its unique ID.
func (repo *listingRepository) FindByID(ctx context.Context, id uuid.UUID) (*entity.Listing, error) {
	repo.mu.RLock()
	defer repo.mu.RUnlock()

	for _, listing := range repo.listings {
		if listing.ID == id {
			return cloneListing(listing), nil
		}
	}

	return nil, repository.ErrListingNotFound
}

// Create appends a new listing and persists the collection snapshot.
func (repo *listingRepository) Create(ctx context.Context, listing *entity.Listing) error {
	repo.mu.Lock()
	defer repo.mu.Unlock()

	repo.listings = append(repo.listings, cloneListing(listing))
	if err := repo.persist(ctx); err != nil {
		repo.listings = repo.listings[:len(repo.listings)-1]

		return err
	}

	return nil
}

// Save replaces the stored listing with the same ID and persists the snapshot.
func (repo *listingRepository) Save(ctx context.Context, listing *entity.Listing) error {
	repo.mu.Lock()
	defer repo.mu.Unlock()

	for i, stored := range repo.listings {
		if stored.ID == listing.ID {
			repo.listings[i] = cloneListing(listing)
			if err := repo.persist(ctx); err != nil {
				repo.listings[i] = stored

				return err
			}

			return nil
		}
	}

	return repository.ErrListingNotFound
}

// Delete removes the listing with the given ID. Absent IDs are a no-op.
func (repo *listingRepository) Delete(ctx context.Context, id uuid.UUID) error {
	repo.mu.Lock()
	defer repo.mu.Unlock()

	for i, stored := range repo.listings {
		if stored.ID == id {
			prior := repo.listings
			repo.listings = append(repo.listings[:i:i], repo.listings[i+1:]...)
			if err := repo.persist(ctx); err != nil {
				repo.listings = prior

				return err
			}

			return nil
		}
	}

	return nil
}

func (repo *listingRepository) persist(ctx context.Context) error {
	snapshot := make([]*model.ListingModel, 0, len(repo.listings))
	for _, listing := range repo.listings {
		snapshot = append(snapshot, model.FromListing(listing))
	}

	return errors.Wrap(repo.store.Put(ctx, keyListings, snapshot), "failed to persist listings snapshot")
}

func cloneListing(l *entity.Listing) *entity.Listing {
	clone := *l
	if l.OriginalPrice != nil {
		v := *l.OriginalPrice
		clone.OriginalPrice = &v
	}
	if l.DiscountPercentage != nil {
		v := *l.DiscountPercentage
		clone.DiscountPercentage = &v
	}
	if l.SoldAt != nil {
		v := *l.SoldAt
		clone.SoldAt = &v
	}

	return &clone
}
