package badger

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/planora/catalog/core"
	"github.com/planora/catalog/storage"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupRepos(t *testing.T) (storage.AssetRepository, storage.PlatformRepository) {
	t.Helper()

	assetRepo, platformRepo, backend, err := NewMemoryRepositories()
	require.NoError(t, err)
	t.Cleanup(func() {
		platformRepo.Close()
		assetRepo.Close()
		backend.Close()
	})
	return assetRepo, platformRepo
}

func TestAssetRepository_AddAndGet(t *testing.T) {
	repo, _ := setupRepos(t)
	ctx := context.Background()

	added, err := repo.AddAssets(ctx, &core.Asset{
		Name:     "Homepage takeover",
		Type:     "display",
		Category: "premium",
	})
	require.NoError(t, err)
	require.Len(t, added, 1)
	assert.NotZero(t, added[0].Id)
	assert.False(t, added[0].InsertedAt.IsZero())

	got, err := repo.GetAsset(ctx, added[0].Id)
	require.NoError(t, err)
	assert.Equal(t, "Homepage takeover", got.Name)
	assert.Empty(t, got.Vector)
}

func TestAssetRepository_PresetIDPreserved(t *testing.T) {
	repo, _ := setupRepos(t)
	ctx := context.Background()

	id := core.IDFromContent("Homepage takeover")
	added, err := repo.AddAssets(ctx, &core.Asset{Id: id, Name: "Homepage takeover"})
	require.NoError(t, err)
	assert.Equal(t, id, added[0].Id)
}

func TestAssetRepository_GetMissing(t *testing.T) {
	repo, _ := setupRepos(t)

	_, err := repo.GetAsset(context.Background(), 12345)
	assert.True(t, errors.Is(err, storage.ErrNotFound))
}

func TestAssetRepository_UpdateAssetVector(t *testing.T) {
	repo, _ := setupRepos(t)
	ctx := context.Background()

	added, err := repo.AddAssets(ctx, &core.Asset{
		Name:        "Podcast midroll",
		Description: "30 second host-read spot",
		Type:        "audio",
	})
	require.NoError(t, err)
	id := added[0].Id

	vector := []float32{0.6, 0.8}
	require.NoError(t, repo.UpdateAssetVector(ctx, id, vector))

	got, err := repo.GetAsset(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, vector, got.Vector)
	// Content fields untouched by a vector-only write
	assert.Equal(t, "Podcast midroll", got.Name)
	assert.Equal(t, "30 second host-read spot", got.Description)

	t.Run("missing asset", func(t *testing.T) {
		err := repo.UpdateAssetVector(ctx, 99999, vector)
		assert.True(t, errors.Is(err, storage.ErrNotFound))
	})
}

func TestAssetRepository_ListAssets(t *testing.T) {
	repo, _ := setupRepos(t)
	ctx := context.Background()

	for _, name := range []string{"a", "b", "c", "d", "e"} {
		_, err := repo.AddAssets(ctx, &core.Asset{Name: name})
		require.NoError(t, err)
	}

	t.Run("all in one page", func(t *testing.T) {
		all, err := repo.ListAssets(ctx, 0, 0)
		require.NoError(t, err)
		require.Len(t, all, 5)
		for i := 1; i < len(all); i++ {
			assert.Greater(t, all[i].Id, all[i-1].Id, "ids must be ascending")
		}
	})

	t.Run("cursor pagination covers everything exactly once", func(t *testing.T) {
		var seen []core.ID
		var cursor core.ID
		for {
			page, err := repo.ListAssets(ctx, cursor, 2)
			require.NoError(t, err)
			if len(page) == 0 {
				break
			}
			for _, asset := range page {
				seen = append(seen, asset.Id)
			}
			cursor = page[len(page)-1].Id
		}
		assert.Len(t, seen, 5)
	})
}

func TestAssetRepository_ListAssets_IdOrderedKeys(t *testing.T) {
	repo, _ := setupRepos(t)
	ctx := context.Background()

	// Enough sequential ids to cross a decimal digit boundary, plus a
	// content-derived id that lands far out in the id space.
	for i := 0; i < 12; i++ {
		_, err := repo.AddAssets(ctx, &core.Asset{Name: fmt.Sprintf("asset %d", i)})
		require.NoError(t, err)
	}
	far, err := repo.AddAssets(ctx, &core.Asset{
		Id:   core.IDFromContent("interstitial"),
		Name: "interstitial",
	})
	require.NoError(t, err)

	all, err := repo.ListAssets(ctx, 0, 0)
	require.NoError(t, err)
	require.Len(t, all, 13)

	var ids []core.ID
	for i, asset := range all {
		ids = append(ids, asset.Id)
		if i > 0 {
			assert.Greater(t, asset.Id, all[i-1].Id, "ids must be ascending across digit boundaries")
		}
	}
	assert.Contains(t, ids, far[0].Id)

	t.Run("page starts strictly after the cursor", func(t *testing.T) {
		page, err := repo.ListAssets(ctx, all[8].Id, 3)
		require.NoError(t, err)
		require.Len(t, page, 3)
		assert.Equal(t, all[9].Id, page[0].Id)
		assert.Equal(t, all[11].Id, page[2].Id)
	})
}

func TestAssetRepository_Delete(t *testing.T) {
	repo, _ := setupRepos(t)
	ctx := context.Background()

	added, err := repo.AddAssets(ctx, &core.Asset{Name: "ephemeral"})
	require.NoError(t, err)

	require.NoError(t, repo.DeleteAssets(ctx, added[0].Id))

	_, err = repo.GetAsset(ctx, added[0].Id)
	assert.True(t, errors.Is(err, storage.ErrNotFound))

	err = repo.DeleteAssets(ctx, added[0].Id)
	assert.True(t, errors.Is(err, storage.ErrNotFound))
}

func TestPlatformRepository_RoundTrip(t *testing.T) {
	_, repo := setupRepos(t)
	ctx := context.Background()

	added, err := repo.AddPlatforms(ctx, &core.Platform{
		Name:     "StreamView",
		Industry: "entertainment",
		Audience: map[string]string{"age": "18-34"},
		DeviceSplit: map[string]string{
			"mobile": "70%",
			"ctv":    "30%",
		},
	})
	require.NoError(t, err)
	require.Len(t, added, 1)

	got, err := repo.GetPlatform(ctx, added[0].Id)
	require.NoError(t, err)
	assert.Equal(t, "StreamView", got.Name)
	assert.Equal(t, "18-34", got.Audience["age"])
	assert.Equal(t, "30%", got.DeviceSplit["ctv"])

	all, err := repo.ListPlatforms(ctx)
	require.NoError(t, err)
	assert.Len(t, all, 1)
}
