package localstore

import (
	"context"

	"surplus/internal/domain/entity"
	"surplus/internal/domain/repository"
	"surplus/internal/errors"
	"surplus/internal/infra/persistence/model"
)

// sessionRepository implements repository.SessionRepository on the local
// snapshot store. The session is a single record under one key; Save is
// last-write-wins, so the latest resolved login owns the session state.
type sessionRepository struct {
	store *Store
}

// NewSessionRepository is the constructor for sessionRepository.
func NewSessionRepository(store *Store) repository.SessionRepository {
	return &sessionRepository{store: store}
}

// Load retrieves the persisted session snapshot.
func (repo *sessionRepository) Load(ctx context.Context) (*entity.Session, error) {
	var snapshot model.SessionModel
	if err := repo.store.Get(ctx, keySession, &snapshot); err != nil {
		if errors.Is(err, ErrKeyNotFound) {
			return nil, repository.ErrSessionNotFound
		}

		return nil, errors.Wrap(err, "failed to load session snapshot")
	}

	return snapshot.ToSession(), nil
}

// Save overwrites the persisted session snapshot.
func (repo *sessionRepository) Save(ctx context.Context, session *entity.Session) error {
	return errors.Wrap(
		repo.store.Put(ctx, keySession, model.FromSession(session)),
		"failed to persist session snapshot",
	)
}

// Clear removes the persisted session snapshot. Idempotent.
func (repo *sessionRepository) Clear(ctx context.Context) error {
	return errors.Wrap(repo.store.Delete(ctx, keySession), "failed to clear session snapshot")
}
