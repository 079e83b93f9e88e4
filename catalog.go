// Copyright 2025 Planora
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.


package catalog

import (
	"log/slog"

	"github.com/planora/catalog/ai"
	"github.com/planora/catalog/ai/openai"
	"github.com/planora/catalog/search"
	"github.com/planora/catalog/storage"
	"github.com/planora/catalog/storage/badger"
	"github.com/planora/catalog/syncer"
)

// Catalog bundles the storage backend, repositories, and embedding
// provider behind one handle. It is the entry point for embedding
// applications and for the planora CLI.
type Catalog struct {
	backend      *badger.Backend
	assetRepo    storage.AssetRepository
	platformRepo storage.PlatformRepository
	embedder     ai.Embedder
	logger       *slog.Logger
}

// CatalogOption configures a Catalog.
type CatalogOption func(*catalogOptions)

type catalogOptions struct {
	aiConfig *ai.Config
	embedder ai.Embedder
	inMemory bool
}

// WithAIConfig sets the embedding provider configuration.
func WithAIConfig(config *ai.Config) CatalogOption {
	return func(o *catalogOptions) {
		if config != nil {
			o.aiConfig = config
		}
	}
}

// WithEmbedder overrides the embedding provider entirely. Used by tests
// and callers that bring their own provider.
func WithEmbedder(embedder ai.Embedder) CatalogOption {
	return func(o *catalogOptions) {
		o.embedder = embedder
	}
}

// WithInMemory opens the backend in memory instead of on disk.
func WithInMemory() CatalogOption {
	return func(o *catalogOptions) {
		o.inMemory = true
	}
}

// NewCatalog opens the catalog at filePath.
func NewCatalog(filePath string, opts ...CatalogOption) (*Catalog, error) {
	options := &catalogOptions{
		aiConfig: ai.DefaultConfig(),
	}
	for _, opt := range opts {
		opt(options)
	}

	backend, err := badger.OpenBackend(filePath, options.inMemory)
	if err != nil {
		return nil, err
	}

	assetRepo, err := badger.NewAssetRepository(backend)
	if err != nil {
		backend.Close()
		return nil, err
	}

	platformRepo, err := badger.NewPlatformRepository(backend)
	if err != nil {
		assetRepo.Close()
		backend.Close()
		return nil, err
	}

	embedder := options.embedder
	if embedder == nil {
		embedder, err = openai.NewEmbedder(options.aiConfig)
		if err != nil {
			platformRepo.Close()
			assetRepo.Close()
			backend.Close()
			return nil, err
		}
	}

	return &Catalog{
		backend:      backend,
		assetRepo:    assetRepo,
		platformRepo: platformRepo,
		embedder:     embedder,
		logger:       slog.Default(),
	}, nil
}

func (c *Catalog) Close() error {
	if err := c.platformRepo.Close(); err != nil {
		c.logger.Error("error closing platform repository", "err", err)
		return err
	}
	if err := c.assetRepo.Close(); err != nil {
		c.logger.Error("error closing asset repository", "err", err)
		return err
	}
	if err := c.backend.Close(); err != nil {
		c.logger.Error("error closing backend storage", "err", err)
		return err
	}
	return nil
}

func (c *Catalog) AssetRepository() storage.AssetRepository {
	return c.assetRepo
}

func (c *Catalog) PlatformRepository() storage.PlatformRepository {
	return c.platformRepo
}

func (c *Catalog) Embedder() ai.Embedder {
	return c.embedder
}

func (c *Catalog) NewSyncer(opts ...syncer.SyncerOption) (*syncer.Syncer, error) {
	return syncer.NewSyncer(c.assetRepo, c.platformRepo, c.embedder, opts...)
}

func (c *Catalog) NewBulkSyncJob(opts ...syncer.BulkOption) (*syncer.BulkSyncJob, error) {
	sync, err := c.NewSyncer()
	if err != nil {
		return nil, err
	}
	return syncer.NewBulkSyncJob(sync, c.assetRepo, opts...)
}

func (c *Catalog) NewSearcher(opts ...search.Option) (*search.Searcher, error) {
	return search.NewSearcher(c.assetRepo, c.embedder, opts...)
}
