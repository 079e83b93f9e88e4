package badger

import (
	"context"
	"errors"
	"time"

	"github.com/dgraph-io/badger/v4"
	"github.com/planora/catalog/core"
	"github.com/planora/catalog/storage"
)

// PlatformRepository implements storage.PlatformRepository for BadgerDB.
type PlatformRepository struct {
	backend *Backend
	idSeq   *badger.Sequence
}

var _ storage.PlatformRepository = (*PlatformRepository)(nil)

// NewPlatformRepository creates a new PlatformRepository.
func NewPlatformRepository(backend *Backend) (*PlatformRepository, error) {
	idSeq, err := backend.GetSequence(platformIDSeq)
	if err != nil {
		return nil, err
	}

	return &PlatformRepository{
		backend: backend,
		idSeq:   idSeq,
	}, nil
}

// Close releases the ID sequence.
func (r *PlatformRepository) Close() error {
	return r.idSeq.Release()
}

// HybridMatch delegates to the backend.
func (r *PlatformRepository) HybridMatch(ctx context.Context, queryVector []float32, queryText string, threshold float32, limit int) ([]*core.RetrievalMatch, error) {
	return r.backend.HybridMatch(ctx, queryVector, queryText, threshold, limit)
}

// WithTransaction delegates to the backend.
func (r *PlatformRepository) WithTransaction(ctx context.Context, fn func(ctx context.Context) error) error {
	return r.backend.WithTransaction(ctx, fn)
}

// AddPlatforms adds one or more platforms to storage.
func (r *PlatformRepository) AddPlatforms(ctx context.Context, platforms ...*core.Platform) ([]*core.Platform, error) {
	err := r.backend.WithTx(func(tx *badger.Txn) error {
		for _, platform := range platforms {
			if platform.Id == 0 {
				nextID, err := r.idSeq.Next()
				if err != nil {
					return err
				}
				// BadgerDB sequences can return 0 on first call, so we skip it
				if nextID == 0 {
					nextID, err = r.idSeq.Next()
					if err != nil {
						return err
					}
				}
				platform.Id = core.ID(nextID)
			}

			if platform.InsertedAt.IsZero() {
				platform.InsertedAt = time.Now().UTC()
			}
			platform.UpdatedAt = platform.InsertedAt

			key := makePlatformKey(platform.Id)
			if err := tx.Set(key, storage.MarshalPlatform(platform)); err != nil {
				return err
			}
		}
		return tx.Commit()
	}, true)

	return platforms, err
}

// UpdatePlatforms updates existing platforms.
func (r *PlatformRepository) UpdatePlatforms(ctx context.Context, platforms ...*core.Platform) ([]*core.Platform, error) {
	err := r.backend.WithTx(func(tx *badger.Txn) error {
		for _, platform := range platforms {
			key := makePlatformKey(platform.Id)

			old, err := readPlatform(tx, key)
			if err != nil {
				return err
			}
			if old == nil {
				return storage.ErrNotFound
			}

			platform.InsertedAt = old.InsertedAt
			platform.UpdatedAt = time.Now().UTC()

			if err := tx.Set(key, storage.MarshalPlatform(platform)); err != nil {
				return err
			}
		}
		return tx.Commit()
	}, true)

	return platforms, err
}

// DeletePlatforms removes platforms by their IDs.
func (r *PlatformRepository) DeletePlatforms(ctx context.Context, ids ...core.ID) error {
	return r.backend.WithTx(func(tx *badger.Txn) error {
		for _, id := range ids {
			key := makePlatformKey(id)

			platform, err := readPlatform(tx, key)
			if err != nil {
				return err
			}
			if platform == nil {
				return storage.ErrNotFound
			}

			if err := tx.Delete(key); err != nil {
				return err
			}
		}
		return tx.Commit()
	}, true)
}

// GetPlatform retrieves a single platform by ID.
func (r *PlatformRepository) GetPlatform(ctx context.Context, id core.ID) (*core.Platform, error) {
	var result *core.Platform
	err := r.backend.WithTx(func(tx *badger.Txn) error {
		var err error
		result, err = readPlatform(tx, makePlatformKey(id))
		if err != nil {
			return err
		}
		if result == nil {
			return storage.ErrNotFound
		}
		return nil
	}, false)
	return result, err
}

// ListPlatforms retrieves all platforms ordered by ascending id. Record
// keys are id-ordered, so iteration order is the result order.
func (r *PlatformRepository) ListPlatforms(ctx context.Context) ([]*core.Platform, error) {
	var platforms []*core.Platform
	err := r.backend.WithTx(func(tx *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.Prefix = []byte(platformRecordPrefix)
		iter := tx.NewIterator(opts)
		defer iter.Close()

		for iter.Rewind(); iter.Valid(); iter.Next() {
			item := iter.Item()

			var platform *core.Platform
			err := item.Value(func(val []byte) error {
				var err error
				platform, err = storage.UnmarshalPlatform(val)
				return err
			})
			if err != nil {
				return err
			}
			if platform != nil {
				platforms = append(platforms, platform)
			}
		}
		return nil
	}, false)
	if err != nil {
		return nil, err
	}

	return platforms, nil
}

// readPlatform reads one platform by key. Returns nil without error when
// the key does not exist.
func readPlatform(tx *badger.Txn, key []byte) (*core.Platform, error) {
	item, err := tx.Get(key)
	if err != nil {
		if errors.Is(err, badger.ErrKeyNotFound) {
			return nil, nil
		}
		return nil, err
	}

	var platform *core.Platform
	err = item.Value(func(val []byte) error {
		var err error
		platform, err = storage.UnmarshalPlatform(val)
		return err
	})
	if err != nil {
		return nil, err
	}
	return platform, nil
}
