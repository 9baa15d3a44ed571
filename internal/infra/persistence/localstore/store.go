// Package localstore contains the concrete implementation of the persistence
// layer on top of client-local durable key/value storage. Snapshots are
// JSON-encoded blobs in a gocloud.dev bucket: a directory on disk in
// production, an in-memory bucket in tests.
package localstore

import (
	"context"
	"encoding/json"
	"log/slog"

	"surplus/config"
	"surplus/internal/errors"

	"go.uber.org/fx"
	"gocloud.dev/blob"
	"gocloud.dev/blob/fileblob"
	"gocloud.dev/gcerrors"
)

// Storage keys. Each key holds one JSON-encoded snapshot.
const (
	keyAccounts     = "accounts"
	keySession      = "session"
	keyListings     = "listings"
	roleMarkerScope = "role/" // per-account markers live under role/<externalID>
)

// ErrKeyNotFound is returned when no snapshot exists under a key.
var ErrKeyNotFound = errors.New("key not found")

// Store is a JSON key/value snapshot store. Writes are synchronous
// write-through: once Put returns, a subsequent Get observes the new value.
type Store struct {
	bucket *blob.Bucket
}

// Params holds dependencies for the store, injected by Fx.
type Params struct {
	fx.In
	fx.Lifecycle

	Config *config.Config
	Logger *slog.Logger
}

// New opens the file-backed store at the configured path.
func New(params Params) (*Store, error) {
	bucket, err := fileblob.OpenBucket(params.Config.Storage.Path, &fileblob.Options{
		CreateDir: true,
	})
	if err != nil {
		return nil, errors.Wrapf(err, "failed to open local store at %s", params.Config.Storage.Path)
	}

	params.Logger.Info("Opened local store", slog.String("path", params.Config.Storage.Path))

	store := &Store{bucket: bucket}
	params.Append(fx.Hook{
		OnStop: func(context.Context) error {
			return errors.WithStack(bucket.Close())
		},
	})

	return store, nil
}

// NewWithBucket wraps an already-open bucket. Tests use this with memblob.
func NewWithBucket(bucket *blob.Bucket) *Store {
	return &Store{bucket: bucket}
}

// Get decodes the snapshot stored under key into dest.
func (s *Store) Get(ctx context.Context, key string, dest any) error {
	data, err := s.bucket.ReadAll(ctx, key)
	if err != nil {
		if gcerrors.Code(err) == gcerrors.NotFound {
			return ErrKeyNotFound
		}

		return errors.Wrapf(err, "failed to read key %s", key)
	}

	if err := json.Unmarshal(data, dest); err != nil {
		return errors.Wrapf(err, "failed to decode snapshot for key %s", key)
	}

	return nil
}

// Put encodes val as JSON and overwrites the snapshot under key.
func (s *Store) Put(ctx context.Context, key string, val any) error {
	data, err := json.Marshal(val)
	if err != nil {
		return errors.Wrapf(err, "failed to encode snapshot for key %s", key)
	}

	if err := s.bucket.WriteAll(ctx, key, data, nil); err != nil {
		return errors.Wrapf(err, "failed to write key %s", key)
	}

	return nil
}

// Delete removes the snapshot under key. Deleting an absent key is not an error.
func (s *Store) Delete(ctx context.Context, key string) error {
	if err := s.bucket.Delete(ctx, key); err != nil && gcerrors.Code(err) != gcerrors.NotFound {
		return errors.Wrapf(err, "failed to delete key %s", key)
	}

	return nil
}
