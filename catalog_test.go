package catalog

import (
	"context"
	"testing"

	"github.com/planora/catalog/ai/mock"
	"github.com/planora/catalog/core"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCatalog_EndToEnd(t *testing.T) {
	// A fixed embedding keeps every similarity at 1.0 so ranking is
	// driven purely by the lexical component.
	embedder := mock.NewMockEmbedder()
	embedder.EmbedTextFunc = func(ctx context.Context, text string) ([]float32, error) {
		return []float32{1, 0, 0, 0}, nil
	}

	cat, err := NewCatalog("", WithInMemory(), WithEmbedder(embedder))
	require.NoError(t, err)
	defer cat.Close()
	ctx := context.Background()

	platforms, err := cat.PlatformRepository().AddPlatforms(ctx, &core.Platform{
		Name:     "StreamView",
		Industry: "entertainment",
		Audience: map[string]string{"age": "18-34"},
	})
	require.NoError(t, err)

	assets, err := cat.AssetRepository().AddAssets(ctx,
		&core.Asset{
			Name:        "Homepage takeover",
			Description: "full width display on the landing page",
			Type:        "display",
			PlatformId:  platforms[0].Id,
		},
		&core.Asset{
			Name: "Podcast midroll",
			Type: "audio",
		},
	)
	require.NoError(t, err)
	require.Len(t, assets, 2)

	job, err := cat.NewBulkSyncJob()
	require.NoError(t, err)
	defer job.Release()

	ledger, err := job.Run(ctx)
	require.NoError(t, err)
	assert.Equal(t, 2, ledger.Succeeded())

	searcher, err := cat.NewSearcher()
	require.NoError(t, err)

	matches, err := searcher.Search(ctx, "homepage takeover display", 0.5, 10)
	require.NoError(t, err)
	require.Len(t, matches, 2)
	assert.Equal(t, assets[0].Id, matches[0].Asset.Id, "lexical overlap ranks the homepage asset first")
	require.NotNil(t, matches[0].Platform)
	assert.Equal(t, "StreamView", matches[0].Platform.Name)
}

func TestCatalog_SingleSync(t *testing.T) {
	embedder := mock.NewMockEmbedder()
	embedder.Dimensions = 8

	cat, err := NewCatalog("", WithInMemory(), WithEmbedder(embedder))
	require.NoError(t, err)
	defer cat.Close()
	ctx := context.Background()

	assets, err := cat.AssetRepository().AddAssets(ctx, &core.Asset{Name: "Banner"})
	require.NoError(t, err)

	sync, err := cat.NewSyncer()
	require.NoError(t, err)
	require.NoError(t, sync.Sync(ctx, assets[0].Id))

	got, err := cat.AssetRepository().GetAsset(ctx, assets[0].Id)
	require.NoError(t, err)
	assert.Len(t, got.Vector, 8)
}
