package badger

import (
	"bytes"
	"context"
	"errors"
	"time"

	"github.com/dgraph-io/badger/v4"
	"github.com/planora/catalog/core"
	"github.com/planora/catalog/storage"
)

// AssetRepository implements storage.AssetRepository for BadgerDB.
type AssetRepository struct {
	backend *Backend
	idSeq   *badger.Sequence
}

var _ storage.AssetRepository = (*AssetRepository)(nil)

// NewAssetRepository creates a new AssetRepository.
func NewAssetRepository(backend *Backend) (*AssetRepository, error) {
	idSeq, err := backend.GetSequence(assetIDSeq)
	if err != nil {
		return nil, err
	}

	return &AssetRepository{
		backend: backend,
		idSeq:   idSeq,
	}, nil
}

// Close releases the ID sequence.
func (r *AssetRepository) Close() error {
	return r.idSeq.Release()
}

// HybridMatch delegates to the backend.
func (r *AssetRepository) HybridMatch(ctx context.Context, queryVector []float32, queryText string, threshold float32, limit int) ([]*core.RetrievalMatch, error) {
	return r.backend.HybridMatch(ctx, queryVector, queryText, threshold, limit)
}

// WithTransaction delegates to the backend.
func (r *AssetRepository) WithTransaction(ctx context.Context, fn func(ctx context.Context) error) error {
	return r.backend.WithTransaction(ctx, fn)
}

// AddAssets adds one or more assets to storage.
func (r *AssetRepository) AddAssets(ctx context.Context, assets ...*core.Asset) ([]*core.Asset, error) {
	err := r.backend.WithTx(func(tx *badger.Txn) error {
		for _, asset := range assets {
			// Content-derived IDs from seeding are preserved; only
			// unset IDs come from the sequence.
			if asset.Id == 0 {
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
				asset.Id = core.ID(nextID)
			}

			if asset.InsertedAt.IsZero() {
				asset.InsertedAt = time.Now().UTC()
			}
			asset.UpdatedAt = asset.InsertedAt

			key := makeAssetKey(asset.Id)
			value := storage.MarshalAsset(asset)
			if err := tx.Set(key, value); err != nil {
				return err
			}
		}
		return tx.Commit()
	}, true)

	return assets, err
}

// UpdateAssets updates existing assets.
func (r *AssetRepository) UpdateAssets(ctx context.Context, assets ...*core.Asset) ([]*core.Asset, error) {
	err := r.backend.WithTx(func(tx *badger.Txn) error {
		for _, asset := range assets {
			key := makeAssetKey(asset.Id)

			old, err := r.readAsset(tx, key)
			if err != nil {
				return err
			}
			if old == nil {
				return storage.ErrNotFound
			}

			asset.InsertedAt = old.InsertedAt
			asset.UpdatedAt = time.Now().UTC()

			value := storage.MarshalAsset(asset)
			if err := tx.Set(key, value); err != nil {
				return err
			}
		}
		return tx.Commit()
	}, true)

	return assets, err
}

// UpdateAssetVector overwrites only the stored vector of one asset.
// The read-modify-write happens in a single transaction, so a failure at
// any point leaves the previously stored vector untouched.
func (r *AssetRepository) UpdateAssetVector(ctx context.Context, id core.ID, vector []float32) error {
	return r.backend.WithTx(func(tx *badger.Txn) error {
		key := makeAssetKey(id)

		asset, err := r.readAsset(tx, key)
		if err != nil {
			return err
		}
		if asset == nil {
			return storage.ErrNotFound
		}

		asset.Vector = vector
		asset.UpdatedAt = time.Now().UTC()

		if err := tx.Set(key, storage.MarshalAsset(asset)); err != nil {
			return err
		}
		return tx.Commit()
	}, true)
}

// DeleteAssets removes assets by their IDs.
func (r *AssetRepository) DeleteAssets(ctx context.Context, ids ...core.ID) error {
	return r.backend.WithTx(func(tx *badger.Txn) error {
		for _, id := range ids {
			key := makeAssetKey(id)

			asset, err := r.readAsset(tx, key)
			if err != nil {
				return err
			}
			if asset == nil {
				return storage.ErrNotFound
			}

			if err := tx.Delete(key); err != nil {
				return err
			}
		}
		return tx.Commit()
	}, true)
}

// GetAsset retrieves a single asset by ID.
func (r *AssetRepository) GetAsset(ctx context.Context, id core.ID) (*core.Asset, error) {
	var result *core.Asset
	err := r.backend.WithTx(func(tx *badger.Txn) error {
		var err error
		result, err = r.readAsset(tx, makeAssetKey(id))
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

// GetAssets retrieves multiple assets by their IDs.
func (r *AssetRepository) GetAssets(ctx context.Context, ids ...core.ID) ([]*core.Asset, error) {
	var result []*core.Asset
	err := r.backend.WithTx(func(tx *badger.Txn) error {
		for _, id := range ids {
			asset, err := r.readAsset(tx, makeAssetKey(id))
			if err != nil {
				return err
			}
			if asset != nil {
				result = append(result, asset)
			}
		}
		return nil
	}, false)
	return result, err
}

// ListAssets retrieves a page of assets with id greater than afterID,
// ordered by ascending id. Record keys are id-ordered, so the page is a
// single seek followed by at most limit reads.
func (r *AssetRepository) ListAssets(ctx context.Context, afterID core.ID, limit int) ([]*core.Asset, error) {
	var page []*core.Asset
	err := r.backend.WithTx(func(tx *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.Prefix = []byte(assetRecordPrefix)
		iter := tx.NewIterator(opts)
		defer iter.Close()

		cursor := makeAssetKey(afterID)
		for iter.Seek(cursor); iter.Valid(); iter.Next() {
			item := iter.Item()

			// Seek lands on the cursor key itself when it exists; the
			// page starts strictly after it.
			if bytes.Equal(item.Key(), cursor) {
				continue
			}

			var asset *core.Asset
			err := item.Value(func(val []byte) error {
				var err error
				asset, err = storage.UnmarshalAsset(val)
				return err
			})
			if err != nil {
				return err
			}

			page = append(page, asset)
			if limit > 0 && len(page) == limit {
				break
			}
		}
		return nil
	}, false)
	if err != nil {
		return nil, err
	}

	return page, nil
}

// readAsset reads one asset by key. Returns nil without error when the key
// does not exist.
func (r *AssetRepository) readAsset(tx *badger.Txn, key []byte) (*core.Asset, error) {
	item, err := tx.Get(key)
	if err != nil {
		if errors.Is(err, badger.ErrKeyNotFound) {
			return nil, nil
		}
		return nil, err
	}

	var asset *core.Asset
	err = item.Value(func(val []byte) error {
		var err error
		asset, err = storage.UnmarshalAsset(val)
		return err
	})
	if err != nil {
		return nil, err
	}
	return asset, nil
}
