package syncer

import (
	"bytes"
	"context"
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/planora/catalog/ai"
	"github.com/planora/catalog/ai/mock"
	"github.com/planora/catalog/core"
	"github.com/planora/catalog/storage"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func seedAssets(t *testing.T, repo storage.AssetRepository, names ...string) []core.ID {
	t.Helper()

	var ids []core.ID
	for _, name := range names {
		added, err := repo.AddAssets(context.Background(), &core.Asset{Name: name})
		require.NoError(t, err)
		ids = append(ids, added[0].Id)
	}
	return ids
}

func TestBulkSyncJob_Run(t *testing.T) {
	embedder := mock.NewMockEmbedder()
	embedder.Dimensions = 4
	s, assetRepo, _ := setupSyncer(t, embedder)
	ids := seedAssets(t, assetRepo, "a", "b", "c", "d", "e")

	job, err := NewBulkSyncJob(s, assetRepo, WithWorkers(2), WithPageSize(2))
	require.NoError(t, err)
	defer job.Release()

	ledger, err := job.Run(context.Background())
	require.NoError(t, err)
	require.Len(t, ledger.Results, 5)
	assert.Equal(t, 5, ledger.Succeeded())
	assert.Zero(t, ledger.Failed())

	// Ledger entries follow enumeration order, not completion order.
	for i, result := range ledger.Results {
		assert.Equal(t, ids[i], result.AssetId)
	}

	for _, id := range ids {
		got, err := assetRepo.GetAsset(context.Background(), id)
		require.NoError(t, err)
		assert.Len(t, got.Vector, 4)
	}
}

func TestBulkSyncJob_FailuresRecoverIntoLedger(t *testing.T) {
	embedder := mock.NewMockEmbedder()
	embedder.Dimensions = 4
	embedder.EmbedTextFunc = func(ctx context.Context, text string) ([]float32, error) {
		if strings.Contains(text, "poison") {
			return nil, fmt.Errorf("%w: bad input", ai.ErrPermanent)
		}
		return []float32{1, 0, 0, 0}, nil
	}
	s, assetRepo, _ := setupSyncer(t, embedder)
	seedAssets(t, assetRepo, "good one", "poison pill", "good two")

	job, err := NewBulkSyncJob(s, assetRepo, WithWorkers(2))
	require.NoError(t, err)
	defer job.Release()

	ledger, err := job.Run(context.Background())
	require.NoError(t, err, "per-asset failures must not abort the batch")
	require.Len(t, ledger.Results, 3)
	assert.Equal(t, 2, ledger.Succeeded())
	assert.Equal(t, 1, ledger.Failed())

	failed := ledger.Results[1]
	assert.ErrorIs(t, failed.Err, ai.ErrPermanent)
}

func TestBulkSyncJob_WorkerBoundDoesNotChangeOutcome(t *testing.T) {
	names := make([]string, 12)
	for i := range names {
		names[i] = fmt.Sprintf("asset %d", i)
	}

	for _, workers := range []int{1, 3, 8} {
		t.Run(fmt.Sprintf("workers=%d", workers), func(t *testing.T) {
			embedder := mock.NewMockEmbedder()
			embedder.Dimensions = 4
			s, assetRepo, _ := setupSyncer(t, embedder)
			ids := seedAssets(t, assetRepo, names...)

			job, err := NewBulkSyncJob(s, assetRepo, WithWorkers(workers), WithPageSize(5))
			require.NoError(t, err)
			defer job.Release()

			ledger, err := job.Run(context.Background())
			require.NoError(t, err)
			require.Len(t, ledger.Results, len(ids))
			assert.Equal(t, len(ids), ledger.Succeeded())
			for i, result := range ledger.Results {
				assert.Equal(t, ids[i], result.AssetId)
			}
		})
	}
}

func TestBulkSyncJob_CancelledContextStopsScheduling(t *testing.T) {
	embedder := mock.NewMockEmbedder()
	s, assetRepo, _ := setupSyncer(t, embedder)
	seedAssets(t, assetRepo, "a", "b", "c")

	job, err := NewBulkSyncJob(s, assetRepo, WithWorkers(1))
	require.NoError(t, err)
	defer job.Release()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	ledger, err := job.Run(ctx)
	assert.ErrorIs(t, err, context.Canceled)
	require.NotNil(t, ledger)
	assert.Empty(t, ledger.Results, "nothing scheduled after cancellation")
	assert.Zero(t, embedder.CallCount())
}

func TestBulkSyncJob_EmptyCatalog(t *testing.T) {
	embedder := mock.NewMockEmbedder()
	s, assetRepo, _ := setupSyncer(t, embedder)

	var progress bytes.Buffer
	job, err := NewBulkSyncJob(s, assetRepo, WithProgress(&progress, 1))
	require.NoError(t, err)
	defer job.Release()

	ledger, err := job.Run(context.Background())
	require.NoError(t, err)
	assert.Empty(t, ledger.Results)
	assert.Contains(t, progress.String(), "No assets found")
}

func TestProgressTracker(t *testing.T) {
	var out bytes.Buffer
	tracker := NewProgressTracker(&out, 10, 5)

	tracker.Increment(5)
	assert.Empty(t, out.String(), "no output before Start")

	tracker.Start()
	tracker.Increment(5)
	assert.Contains(t, out.String(), "5/10")

	tracker.Finish()
	assert.Contains(t, out.String(), "10/10 (100.0%)")
	assert.GreaterOrEqual(t, tracker.Elapsed(), time.Duration(0))
}
