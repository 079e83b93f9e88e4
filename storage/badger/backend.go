package badger

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"slices"

	"github.com/dgraph-io/badger/v4"
	"github.com/dgraph-io/badger/v4/options"
	"github.com/planora/catalog/core"
	"github.com/planora/catalog/storage"
)

const (
	defaultSequenceBandwidth = 100

	// lexicalBoostWeight scales the lexical term-overlap component when it
	// is combined with vector similarity. Full overlap adds 0.3.
	lexicalBoostWeight = 0.3
)

// Backend wraps a BadgerDB instance and provides low-level operations.
type Backend struct {
	db     *badger.DB
	logger *slog.Logger
}

// badgerLoggerAdapter adapts slog.Logger to badger.Logger interface.
type badgerLoggerAdapter struct {
	logger *slog.Logger
}

var _ badger.Logger = (*badgerLoggerAdapter)(nil)

func (bl *badgerLoggerAdapter) Errorf(msg string, items ...any) {
	bl.logger.Error(fmt.Sprintf(msg, items...))
}

func (bl *badgerLoggerAdapter) Warningf(msg string, items ...any) {
	bl.logger.Warn(fmt.Sprintf(msg, items...))
}

func (bl *badgerLoggerAdapter) Infof(msg string, items ...any) {
	bl.logger.Info(fmt.Sprintf(msg, items...))
}

func (bl *badgerLoggerAdapter) Debugf(msg string, items ...any) {
	bl.logger.Debug(fmt.Sprintf(msg, items...))
}

// OpenBackend opens a BadgerDB database at the specified path.
// Creates the directory if it doesn't exist.
func OpenBackend(filePath string, inMemory bool) (*Backend, error) {
	var opts badger.Options

	if inMemory {
		opts = badger.DefaultOptions("").WithInMemory(true)
	} else {
		// Ensure directory exists
		info, err := os.Stat(filePath)
		if err != nil {
			if os.IsNotExist(err) {
				if err := os.MkdirAll(filePath, 0755); err != nil {
					return nil, err
				}
				info, err = os.Stat(filePath)
				if err != nil {
					return nil, err
				}
			} else {
				return nil, err
			}
		}
		if !info.IsDir() {
			return nil, fmt.Errorf("%s is not a directory", filePath)
		}
		opts = badger.DefaultOptions(filePath)
	}

	opts.Logger = &badgerLoggerAdapter{logger: slog.Default()}
	opts.Compression = options.None

	db, err := badger.Open(opts)
	if err != nil {
		return nil, err
	}

	return &Backend{
		db:     db,
		logger: slog.Default(),
	}, nil
}

// Close closes the BadgerDB database.
func (b *Backend) Close() error {
	return b.db.Close()
}

// IsClosed returns true if the database is closed.
func (b *Backend) IsClosed() bool {
	return b.db.IsClosed()
}

// WithTx executes a function within a BadgerDB transaction.
// If isWrite is true, creates a read-write transaction.
// The transaction is automatically discarded if fn returns an error.
func (b *Backend) WithTx(fn func(tx *badger.Txn) error, isWrite bool) error {
	tx := b.db.NewTransaction(isWrite)
	defer tx.Discard()
	return fn(tx)
}

// GetSequence returns a BadgerDB sequence for generating sequential IDs.
func (b *Backend) GetSequence(name string) (*badger.Sequence, error) {
	return b.db.GetSequence([]byte(name), defaultSequenceBandwidth)
}

// WithTransaction executes a function within a transaction.
// Implements the storage.Repository transaction contract.
func (b *Backend) WithTransaction(ctx context.Context, fn func(ctx context.Context) error) error {
	return b.WithTx(func(tx *badger.Txn) error {
		if err := fn(ctx); err != nil {
			return err
		}
		return tx.Commit()
	}, true)
}

// HybridMatch ranks the asset corpus against a query vector and query text
// in one pass. Assets without a stored vector never match; assets whose
// similarity component is below threshold are discarded before the lexical
// component is considered. Vectors are stored normalized, so dot product is
// cosine similarity.
func (b *Backend) HybridMatch(ctx context.Context, queryVector []float32, queryText string, threshold float32, limit int) ([]*core.RetrievalMatch, error) {
	if limit <= 0 {
		return nil, fmt.Errorf("%w: limit must be positive", storage.ErrInvalidQuery)
	}
	if threshold < 0 || threshold > 1 {
		return nil, fmt.Errorf("%w: threshold must be in [0,1]", storage.ErrInvalidQuery)
	}

	var matches []*core.RetrievalMatch

	err := b.WithTx(func(tx *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.Prefix = []byte(assetRecordPrefix)
		iter := tx.NewIterator(opts)
		defer iter.Close()

		for iter.Rewind(); iter.Valid(); iter.Next() {
			item := iter.Item()

			var asset *core.Asset
			err := item.Value(func(val []byte) error {
				var err error
				asset, err = storage.UnmarshalAsset(val)
				return err
			})
			if err != nil {
				return err
			}
			if asset == nil {
				continue
			}

			// Assets that have never been synced cannot match
			if len(asset.Vector) == 0 {
				continue
			}

			similarity := dotProduct(queryVector, asset.Vector)
			if similarity < threshold {
				continue
			}

			lexScore := lexicalScore(assetSearchText(asset), queryText)
			matches = append(matches, &core.RetrievalMatch{
				Asset:      asset,
				Similarity: similarity,
				LexScore:   lexScore,
				Combined:   similarity + lexicalBoostWeight*lexScore,
			})
		}

		// Join platform context for matched assets inside the same
		// transaction so rows are consistent.
		for _, match := range matches {
			if match.Asset.PlatformId == 0 {
				continue
			}
			platform, err := readPlatform(tx, makePlatformKey(match.Asset.PlatformId))
			if err != nil {
				return err
			}
			match.Platform = platform
		}

		return nil
	}, false)

	if err != nil {
		return nil, err
	}

	// Descending combined score; equal scores resolve to the lower asset
	// id so identical queries always rank identically.
	slices.SortFunc(matches, func(a, b *core.RetrievalMatch) int {
		if a.Combined > b.Combined {
			return -1
		}
		if a.Combined < b.Combined {
			return 1
		}
		if a.Asset.Id < b.Asset.Id {
			return -1
		}
		if a.Asset.Id > b.Asset.Id {
			return 1
		}
		return 0
	})

	if len(matches) > limit {
		matches = matches[:limit]
	}

	return matches, nil
}

// assetSearchText concatenates the asset's textual fields for lexical scoring.
func assetSearchText(asset *core.Asset) string {
	return asset.Name + " " + asset.Description + " " + asset.Type + " " + asset.Category
}

// dotProduct calculates the dot product of two vectors.
func dotProduct(a, b []float32) float32 {
	var sum float32
	minLen := len(a)
	if len(b) < minLen {
		minLen = len(b)
	}
	for i := 0; i < minLen; i++ {
		sum += a[i] * b[i]
	}
	return sum
}
