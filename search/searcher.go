package search

import (
	"context"
	"fmt"
	"log/slog"
	"sort"
	"strings"

	"github.com/planora/catalog/ai"
	"github.com/planora/catalog/core"
	"github.com/planora/catalog/storage"
)

const (
	// DefaultThreshold is the similarity floor for requests that carry no
	// explicit threshold. The HTTP and CLI layers apply it; Search itself
	// passes the caller's threshold through, so an explicit zero disables
	// the floor.
	DefaultThreshold float32 = 0.30

	// DefaultLimit is the result cap applied when the caller passes a
	// non-positive limit.
	DefaultLimit = 10
)

// Searcher provides hybrid semantic and lexical retrieval over the
// asset catalog.
type Searcher struct {
	assetRepository storage.AssetRepository
	embedder        ai.Embedder
	logger          *slog.Logger
}

// Option configures a Searcher.
type Option func(*Searcher) error

// WithLogger sets a custom logger.
// Default is slog.Default().
func WithLogger(logger *slog.Logger) Option {
	return func(s *Searcher) error {
		if logger == nil {
			logger = slog.Default()
		}
		s.logger = logger
		return nil
	}
}

// NewSearcher creates a new searcher.
func NewSearcher(assetRepository storage.AssetRepository, embedder ai.Embedder, opts ...Option) (*Searcher, error) {
	if assetRepository == nil {
		return nil, ErrAssetRepositoryRequired
	}
	if embedder == nil {
		return nil, ErrEmbedderRequired
	}

	s := &Searcher{
		assetRepository: assetRepository,
		embedder:        embedder,
		logger:          slog.Default(),
	}

	for _, opt := range opts {
		if err := opt(s); err != nil {
			return nil, err
		}
	}

	return s, nil
}

// Search finds catalog assets relevant to the query. The query is
// embedded and every synced asset is scored by vector similarity plus a
// lexically weighted term-overlap boost; assets whose similarity falls
// below threshold are discarded before the lexical component is
// considered. A threshold of zero keeps every synced asset in play.
// Results come back ordered by descending combined score with ties
// broken by ascending asset id, truncated to limit.
//
// A blank query fails with ErrEmptyQuery before the provider is
// touched. An embedding failure is fatal; there is no lexical-only
// fallback.
func (s *Searcher) Search(ctx context.Context, query string, threshold float32, limit int) ([]*core.RetrievalMatch, error) {
	if strings.TrimSpace(query) == "" {
		return nil, ErrEmptyQuery
	}

	if limit <= 0 {
		limit = DefaultLimit
	}

	embedding, err := s.embedder.EmbedText(ctx, query)
	if err != nil {
		s.logger.Error("error generating embedding for query", "query", query, "err", err)
		return nil, err
	}

	matches, err := s.assetRepository.HybridMatch(ctx, embedding, query, threshold, limit)
	if err != nil {
		s.logger.Error("error ranking assets", "err", err)
		return nil, fmt.Errorf("%w: %w", ErrBackend, err)
	}

	// The backend already orders results; re-sorting here keeps the
	// ordering contract independent of the backend implementation.
	sort.Slice(matches, func(i, j int) bool {
		if matches[i].Combined != matches[j].Combined {
			return matches[i].Combined > matches[j].Combined
		}
		return matches[i].Asset.Id < matches[j].Asset.Id
	})
	if len(matches) > limit {
		matches = matches[:limit]
	}

	s.logger.Debug("search complete", "query", query, "hits", len(matches))
	return matches, nil
}
