package badger

import (
	"context"
	"errors"
	"math"
	"testing"

	"github.com/planora/catalog/core"
	"github.com/planora/catalog/storage"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// unitVector builds a 2-d unit vector whose dot product with [1, 0]
// equals sim, so tests can dial in exact similarity components.
func unitVector(sim float64) []float32 {
	return []float32{float32(sim), float32(math.Sqrt(1 - sim*sim))}
}

var queryVector = []float32{1, 0}

func addScoredAsset(t *testing.T, repo storage.AssetRepository, asset *core.Asset, sim float64) core.ID {
	t.Helper()

	added, err := repo.AddAssets(context.Background(), asset)
	require.NoError(t, err)
	require.NoError(t, repo.UpdateAssetVector(context.Background(), added[0].Id, unitVector(sim)))
	return added[0].Id
}

func TestHybridMatch_ThresholdGatesSimilarityOnly(t *testing.T) {
	assetRepo, _, backend, err := NewMemoryRepositories()
	require.NoError(t, err)
	defer backend.Close()
	defer assetRepo.Close()
	ctx := context.Background()

	// Strong lexical hit but weak vector: the query text matches every
	// token of the asset name, yet similarity sits below the threshold.
	addScoredAsset(t, assetRepo, &core.Asset{Name: "summer banner campaign"}, 0.10)
	keptID := addScoredAsset(t, assetRepo, &core.Asset{Name: "unrelated placement"}, 0.95)

	matches, err := backend.HybridMatch(ctx, queryVector, "summer banner campaign", 0.5, 10)
	require.NoError(t, err)
	require.Len(t, matches, 1)
	assert.Equal(t, keptID, matches[0].Asset.Id)
}

func TestHybridMatch_LexicalBoostsRanking(t *testing.T) {
	assetRepo, _, backend, err := NewMemoryRepositories()
	require.NoError(t, err)
	defer backend.Close()
	defer assetRepo.Close()
	ctx := context.Background()

	// Identical similarity; only the lexical component separates them.
	plainID := addScoredAsset(t, assetRepo, &core.Asset{Name: "generic slot"}, 0.8)
	boostedID := addScoredAsset(t, assetRepo, &core.Asset{Name: "podcast midroll"}, 0.8)

	matches, err := backend.HybridMatch(ctx, queryVector, "podcast midroll", 0.1, 10)
	require.NoError(t, err)
	require.Len(t, matches, 2)
	assert.Equal(t, boostedID, matches[0].Asset.Id)
	assert.Equal(t, plainID, matches[1].Asset.Id)
	assert.Greater(t, matches[0].Combined, matches[1].Combined)
	assert.InDelta(t, 1.0, matches[0].LexScore, 1e-6)
	assert.Zero(t, matches[1].LexScore)
}

func TestHybridMatch_TieBreakAscendingID(t *testing.T) {
	assetRepo, _, backend, err := NewMemoryRepositories()
	require.NoError(t, err)
	defer backend.Close()
	defer assetRepo.Close()
	ctx := context.Background()

	// Same vector, same (empty) lexical overlap: combined scores tie.
	var ids []core.ID
	for i := 0; i < 4; i++ {
		ids = append(ids, addScoredAsset(t, assetRepo, &core.Asset{Name: "clone"}, 0.7))
	}

	for run := 0; run < 5; run++ {
		matches, err := backend.HybridMatch(ctx, queryVector, "zzz", 0.1, 10)
		require.NoError(t, err)
		require.Len(t, matches, 4)
		for i, match := range matches {
			assert.Equal(t, ids[i], match.Asset.Id, "run %d position %d", run, i)
		}
	}
}

func TestHybridMatch_LimitTruncates(t *testing.T) {
	assetRepo, _, backend, err := NewMemoryRepositories()
	require.NoError(t, err)
	defer backend.Close()
	defer assetRepo.Close()
	ctx := context.Background()

	for i := 0; i < 6; i++ {
		addScoredAsset(t, assetRepo, &core.Asset{Name: "asset"}, 0.9)
	}

	matches, err := backend.HybridMatch(ctx, queryVector, "asset", 0.1, 3)
	require.NoError(t, err)
	assert.Len(t, matches, 3)
}

func TestHybridMatch_SkipsUnsyncedAssets(t *testing.T) {
	assetRepo, _, backend, err := NewMemoryRepositories()
	require.NoError(t, err)
	defer backend.Close()
	defer assetRepo.Close()
	ctx := context.Background()

	_, err = assetRepo.AddAssets(ctx, &core.Asset{Name: "never embedded"})
	require.NoError(t, err)
	syncedID := addScoredAsset(t, assetRepo, &core.Asset{Name: "embedded"}, 0.9)

	matches, err := backend.HybridMatch(ctx, queryVector, "embedded", 0.1, 10)
	require.NoError(t, err)
	require.Len(t, matches, 1)
	assert.Equal(t, syncedID, matches[0].Asset.Id)
}

func TestHybridMatch_JoinsPlatform(t *testing.T) {
	assetRepo, platformRepo, backend, err := NewMemoryRepositories()
	require.NoError(t, err)
	defer backend.Close()
	defer platformRepo.Close()
	defer assetRepo.Close()
	ctx := context.Background()

	platforms, err := platformRepo.AddPlatforms(ctx, &core.Platform{
		Name:     "StreamView",
		Industry: "entertainment",
	})
	require.NoError(t, err)

	linkedID := addScoredAsset(t, assetRepo, &core.Asset{
		Name:       "preroll",
		PlatformId: platforms[0].Id,
	}, 0.9)
	orphanID := addScoredAsset(t, assetRepo, &core.Asset{Name: "preroll"}, 0.8)

	matches, err := backend.HybridMatch(ctx, queryVector, "preroll", 0.1, 10)
	require.NoError(t, err)
	require.Len(t, matches, 2)

	byID := map[core.ID]*core.RetrievalMatch{}
	for _, m := range matches {
		byID[m.Asset.Id] = m
	}
	require.NotNil(t, byID[linkedID].Platform)
	assert.Equal(t, "StreamView", byID[linkedID].Platform.Name)
	assert.Nil(t, byID[orphanID].Platform)
}

func TestHybridMatch_InvalidQuery(t *testing.T) {
	assetRepo, _, backend, err := NewMemoryRepositories()
	require.NoError(t, err)
	defer backend.Close()
	defer assetRepo.Close()
	ctx := context.Background()

	_, err = backend.HybridMatch(ctx, queryVector, "q", 0.5, 0)
	assert.True(t, errors.Is(err, storage.ErrInvalidQuery))

	_, err = backend.HybridMatch(ctx, queryVector, "q", 1.5, 10)
	assert.True(t, errors.Is(err, storage.ErrInvalidQuery))
}

func TestLexicalScore(t *testing.T) {
	tests := []struct {
		name     string
		document string
		query    string
		want     float64
	}{
		{"all terms hit", "summer banner campaign", "summer banner", 1.0},
		{"partial hit", "summer banner campaign", "summer skyscraper", 0.5},
		{"no overlap", "summer banner campaign", "podcast midroll", 0.0},
		{"stop words ignored", "the summer banner", "the a an summer", 1.0},
		{"empty query", "summer banner", "", 0.0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.InDelta(t, tt.want, lexicalScore(tt.document, tt.query), 1e-9)
		})
	}
}
