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


package syncer

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/planora/catalog/ai"
	"github.com/planora/catalog/compose"
	"github.com/planora/catalog/core"
	"github.com/planora/catalog/storage"
)

// Syncer keeps the stored embedding of a single asset in step with its
// content. It loads the asset and its linked platform, composes the
// canonical content text, embeds it, and persists the result through a
// vector-only write. Nothing is written when any earlier stage fails.
type Syncer struct {
	assetRepo    storage.AssetRepository
	platformRepo storage.PlatformRepository
	embedder     ai.Embedder
	maxRetries   int
	retryDelay   time.Duration
	logger       *slog.Logger
}

// SyncerOption configures a Syncer.
type SyncerOption func(*Syncer)

// WithMaxRetries sets the maximum number of embedding attempts for
// transient provider failures. Default is 3.
func WithMaxRetries(n int) SyncerOption {
	return func(s *Syncer) {
		if n > 0 {
			s.maxRetries = n
		}
	}
}

// WithRetryDelay sets the base delay for exponential backoff between
// embedding attempts. Default is 1 second.
func WithRetryDelay(d time.Duration) SyncerOption {
	return func(s *Syncer) {
		if d > 0 {
			s.retryDelay = d
		}
	}
}

// WithLogger sets a custom logger. Default is slog.Default().
func WithLogger(logger *slog.Logger) SyncerOption {
	return func(s *Syncer) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// NewSyncer creates a new single-asset syncer.
func NewSyncer(assetRepo storage.AssetRepository, platformRepo storage.PlatformRepository, embedder ai.Embedder, opts ...SyncerOption) (*Syncer, error) {
	if assetRepo == nil {
		return nil, ErrAssetRepositoryRequired
	}
	if platformRepo == nil {
		return nil, ErrPlatformRepositoryRequired
	}
	if embedder == nil {
		return nil, ErrEmbedderRequired
	}

	s := &Syncer{
		assetRepo:    assetRepo,
		platformRepo: platformRepo,
		embedder:     embedder,
		maxRetries:   3,
		retryDelay:   1 * time.Second,
		logger:       slog.Default(),
	}
	for _, opt := range opts {
		opt(s)
	}
	s.logger = s.logger.With("component", "syncer")
	return s, nil
}

// Sync recomputes and persists the embedding for one asset from its
// stored content. Returns storage.ErrNotFound if the asset doesn't
// exist, core.ErrEmptyContent if the asset has nothing to embed (the
// provider is never called in that case), the provider's error kind
// unchanged on embedding failure, and ErrPersistFailed if the final
// write fails. The previously stored vector survives every failure.
func (s *Syncer) Sync(ctx context.Context, id core.ID) error {
	asset, err := s.assetRepo.GetAsset(ctx, id)
	if err != nil {
		return fmt.Errorf("failed to load asset %d: %w", id, err)
	}

	if !core.HasContent(asset) {
		return fmt.Errorf("asset %d: %w", id, core.ErrEmptyContent)
	}

	platform := s.loadPlatform(ctx, asset)
	return s.embedAndPersist(ctx, id, compose.Content(asset, platform))
}

// SyncContent embeds caller-supplied content text for an asset instead
// of the composed stored content. The asset must still exist; the write
// path and error contract match Sync.
func (s *Syncer) SyncContent(ctx context.Context, id core.ID, content string) error {
	if _, err := s.assetRepo.GetAsset(ctx, id); err != nil {
		return fmt.Errorf("failed to load asset %d: %w", id, err)
	}

	if content == "" {
		return fmt.Errorf("asset %d: %w", id, core.ErrEmptyContent)
	}

	return s.embedAndPersist(ctx, id, content)
}

// loadPlatform resolves the linked platform, tolerating a dangling
// link: a missing platform degrades to asset-only content rather than
// failing the sync.
func (s *Syncer) loadPlatform(ctx context.Context, asset *core.Asset) *core.Platform {
	if asset.PlatformId == 0 {
		return nil
	}

	platform, err := s.platformRepo.GetPlatform(ctx, asset.PlatformId)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			s.logger.Warn("asset links missing platform", "assetId", asset.Id, "platformId", asset.PlatformId)
			return nil
		}
		s.logger.Error("failed to load platform", "platformId", asset.PlatformId, "err", err)
		return nil
	}
	return platform
}

func (s *Syncer) embedAndPersist(ctx context.Context, id core.ID, content string) error {
	var vector []float32
	err := RetryWithBackoff(ctx, func() error {
		var embedErr error
		vector, embedErr = s.embedder.EmbedText(ctx, content)
		return embedErr
	}, s.maxRetries, s.retryDelay)
	if err != nil {
		return fmt.Errorf("failed to embed asset %d: %w", id, err)
	}

	if err := s.assetRepo.UpdateAssetVector(ctx, id, NormalizeVector(vector)); err != nil {
		return fmt.Errorf("%w: asset %d: %w", ErrPersistFailed, id, err)
	}

	s.logger.Debug("asset vector synced", "assetId", id, "dimensions", len(vector))
	return nil
}
