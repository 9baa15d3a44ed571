package localstore

import (
	"context"

	"surplus/internal/domain/entity"
	"surplus/internal/domain/repository"
	"surplus/internal/errors"
)

// roleMarkerRepository implements repository.RoleMarkerRepository. Each marker
// is its own key under role/<externalID>, so markers survive independently of
// the account snapshots.
type roleMarkerRepository struct {
	store *Store
}

// NewRoleMarkerRepository is the constructor for roleMarkerRepository.
func NewRoleMarkerRepository(store *Store) repository.RoleMarkerRepository {
	return &roleMarkerRepository{store: store}
}

// Set records the role for an external account ID.
func (repo *roleMarkerRepository) Set(ctx context.Context, externalID string, role entity.Role) error {
	return errors.Wrap(
		repo.store.Put(ctx, roleMarkerScope+externalID, role.String()),
		"failed to persist role marker",
	)
}

// Get retrieves the role recorded for an external account ID.
func (repo *roleMarkerRepository) Get(ctx context.Context, externalID string) (entity.Role, error) {
	var raw string
	if err := repo.store.Get(ctx, roleMarkerScope+externalID, &raw); err != nil {
		if errors.Is(err, ErrKeyNotFound) {
			return "", repository.ErrRoleMarkerNotFound
		}

		return "", errors.Wrap(err, "failed to load role marker")
	}

	return entity.RoleFromString(raw), nil
}
