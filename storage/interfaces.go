package storage

import (
	"context"

	"github.com/planora/catalog/core"
)

// Repository provides common storage operations shared across all repositories.
// Implementations must be thread-safe and support concurrent access.
type Repository interface {
	// HybridMatch ranks the persisted asset corpus against a query in a
	// single operation. Every asset with a stored vector is scored by
	// vector similarity against queryVector and by lexical term overlap
	// of queryText against its text fields. Assets whose similarity
	// component is below threshold are discarded regardless of lexical
	// score. Rows are returned ordered by descending combined score with
	// ties broken by ascending asset id, up to limit results, with the
	// linked platform joined in when present.
	HybridMatch(ctx context.Context, queryVector []float32, queryText string, threshold float32, limit int) ([]*core.RetrievalMatch, error)

	// WithTransaction executes a function within a transaction.
	// If fn returns an error, the transaction is rolled back.
	// If fn returns nil, the transaction is committed.
	WithTransaction(ctx context.Context, fn func(ctx context.Context) error) error

	// Close closes the storage backend and releases resources.
	Close() error
}

// AssetRepository provides operations for managing catalog assets.
type AssetRepository interface {
	Repository

	// AddAssets adds one or more assets to storage.
	// For assets with ID=0, generates new IDs from sequence.
	// Sets InsertedAt timestamp if not already set.
	// Returns the assets with generated IDs and timestamps populated.
	AddAssets(ctx context.Context, assets ...*core.Asset) ([]*core.Asset, error)

	// UpdateAssets updates existing assets.
	// Updates the UpdatedAt timestamp automatically.
	// Returns ErrNotFound if any asset doesn't exist.
	UpdateAssets(ctx context.Context, assets ...*core.Asset) ([]*core.Asset, error)

	// UpdateAssetVector overwrites only the stored embedding vector (and
	// UpdatedAt) of one asset, leaving content fields untouched. The write
	// is transactional: on failure the previous vector remains intact.
	// Returns ErrNotFound if the asset doesn't exist.
	UpdateAssetVector(ctx context.Context, id core.ID, vector []float32) error

	// DeleteAssets removes assets by their IDs.
	// Returns ErrNotFound if any asset doesn't exist.
	DeleteAssets(ctx context.Context, ids ...core.ID) error

	// GetAsset retrieves a single asset by ID.
	// Returns ErrNotFound if the asset doesn't exist.
	GetAsset(ctx context.Context, id core.ID) (*core.Asset, error)

	// GetAssets retrieves multiple assets by their IDs.
	// Returns only the assets that exist (no error for missing assets).
	GetAssets(ctx context.Context, ids ...core.ID) ([]*core.Asset, error)

	// ListAssets retrieves a page of assets ordered by ascending id,
	// starting after afterID (0 starts from the beginning). A limit <= 0
	// returns all remaining assets in one page. Cursor pagination keeps
	// bulk enumeration correct at any page size.
	ListAssets(ctx context.Context, afterID core.ID, limit int) ([]*core.Asset, error)
}

// PlatformRepository provides operations for managing platforms.
// Platforms are read-only context for the sync and retrieval pipelines;
// writes exist for seeding and administration.
type PlatformRepository interface {
	Repository

	// AddPlatforms adds one or more platforms to storage.
	// For platforms with ID=0, generates new IDs from sequence.
	// Sets InsertedAt timestamp if not already set.
	AddPlatforms(ctx context.Context, platforms ...*core.Platform) ([]*core.Platform, error)

	// UpdatePlatforms updates existing platforms.
	// Updates the UpdatedAt timestamp automatically.
	// Returns ErrNotFound if any platform doesn't exist.
	UpdatePlatforms(ctx context.Context, platforms ...*core.Platform) ([]*core.Platform, error)

	// DeletePlatforms removes platforms by their IDs.
	// Returns ErrNotFound if any platform doesn't exist.
	DeletePlatforms(ctx context.Context, ids ...core.ID) error

	// GetPlatform retrieves a single platform by ID.
	// Returns ErrNotFound if the platform doesn't exist.
	GetPlatform(ctx context.Context, id core.ID) (*core.Platform, error)

	// ListPlatforms retrieves all platforms ordered by ascending id.
	ListPlatforms(ctx context.Context) ([]*core.Platform, error)
}
