package localstore

import (
	"context"
	"sync"
	"time"

	"surplus/config"
	"surplus/internal/domain/entity"
	"surplus/internal/domain/repository"
	"surplus/internal/domain/service"
	"surplus/internal/errors"
	"surplus/internal/infra/persistence/model"

	"github.com/google/uuid"
)

// Demo credentials seeded when the accounts snapshot is absent and demo
// seeding is enabled.
var demoAccounts = []struct {
	username string
	password string
	role     entity.Role
}{
	{username: "admin", password: "admin123", role: entity.RoleAdmin},
	{username: "customer", password: "customer123", role: entity.RoleCustomer},
}

// accountRepository implements repository.AccountRepository on the local
// snapshot store. It keeps the collection in memory and writes the full
// snapshot through on every mutation.
type accountRepository struct {
	mu       sync.RWMutex
	store    *Store
	accounts []*entity.Account
}

// NewAccountRepository loads the accounts snapshot (seeding the demo accounts
// on first run when enabled) and returns the repository as a domain interface.
func NewAccountRepository(ctx context.Context, store *Store, cfg *config.Config, hasher service.PasswordHasher) (repository.AccountRepository, error) {
	repo := &accountRepository{store: store}

	var snapshot []*model.AccountModel
	err := store.Get(ctx, keyAccounts, &snapshot)
	switch {
	case errors.Is(err, ErrKeyNotFound):
		if cfg.Seed != nil && cfg.Seed.Demo {
			if err := repo.seed(ctx, hasher); err != nil {
				return nil, err
			}
		}
	case err != nil:
		return nil, errors.Wrap(err, "failed to load accounts snapshot")
	default:
		repo.accounts = make([]*entity.Account, 0, len(snapshot))
		for _, m := range snapshot {
			repo.accounts = append(repo.accounts, m.ToAccount())
		}
	}

	return repo, nil
}

func (repo *accountRepository) seed(ctx context.Context, hasher service.PasswordHasher) error {
	for _, demo := range demoAccounts {
		hash, err := hasher.Hash(demo.password)
		if err != nil {
			return errors.Wrap(err, "failed to hash demo credential")
		}

		repo.accounts = append(repo.accounts, &entity.Account{
			ID:           uuid.New().String(),
			Username:     demo.username,
			DisplayName:  demo.username,
			PasswordHash: hash,
			Role:         demo.role,
			CreatedAt:    time.Now().UTC(),
		})
	}

	return repo.persist(ctx)
}

// FindByID retrieves a single account by its unique ID.
func (repo *accountRepository) FindByID(ctx context.Context, id string) (*entity.Account, error) {
	repo.mu.RLock()
	defer repo.mu.RUnlock()

	for _, account := range repo.accounts {
		if account.ID == id {
			return cloneAccount(account), nil
		}
	}

	return nil, repository.ErrAccountNotFound
}

// FindByUsername retrieves a single account by its exact username.
// Matching is case-sensitive.
func (repo *accountRepository) FindByUsername(ctx context.Context, username string) (*entity.Account, error) {
	repo.mu.RLock()
	defer repo.mu.RUnlock()

	for _, account := range repo.accounts {
		if account.Username == username {
			return cloneAccount(account), nil
		}
	}

	return nil, repository.ErrAccountNotFound
}

// Create appends a new account and persists the collection snapshot.
func (repo *accountRepository) Create(ctx context.Context, account *entity.Account) error {
	repo.mu.Lock()
	defer repo.mu.Unlock()

	repo.accounts = append(repo.accounts, cloneAccount(account))
	if err := repo.persist(ctx); err != nil {
		// Keep the in-memory state consistent with storage.
		repo.accounts = repo.accounts[:len(repo.accounts)-1]

		return err
	}

	return nil
}

func (repo *accountRepository) persist(ctx context.Context) error {
	snapshot := make([]*model.AccountModel, 0, len(repo.accounts))
	for _, account := range repo.accounts {
		snapshot = append(snapshot, model.FromAccount(account))
	}

	return errors.Wrap(repo.store.Put(ctx, keyAccounts, snapshot), "failed to persist accounts snapshot")
}

func cloneAccount(a *entity.Account) *entity.Account {
	clone := *a

	return &clone
}
