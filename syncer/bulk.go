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
	"fmt"
	"io"
	"runtime"
	"sync"

	"github.com/panjf2000/ants/v2"
	"github.com/planora/catalog/core"
	"github.com/planora/catalog/storage"
)

const (
	defaultPageSize       = 100
	defaultReportInterval = 100
)

// BulkSyncJob resynchronizes the embedding of every asset in the
// catalog. Assets are enumerated in ascending id order and fanned out
// over a bounded worker pool; each asset either succeeds or records its
// own failure in the ledger, so one bad asset never aborts the batch.
type BulkSyncJob struct {
	syncer         *Syncer
	assetRepo      storage.AssetRepository
	pool           *ants.Pool
	pageSize       int
	reportInterval int
	progress       io.Writer
}

// BulkOption configures a BulkSyncJob.
type BulkOption func(*BulkSyncJob) error

// WithWorkers sets the worker pool size for concurrent syncing.
// Default is runtime.NumCPU() / 2, with a minimum of 1.
func WithWorkers(size int) BulkOption {
	return func(j *BulkSyncJob) error {
		if size < 1 {
			size = 1
		}

		if j.pool != nil {
			j.pool.Release()
		}

		pool, err := ants.NewPool(size)
		if err != nil {
			return err
		}
		j.pool = pool
		return nil
	}
}

// WithPageSize sets how many assets are fetched per listing page during
// enumeration. Default is 100.
func WithPageSize(size int) BulkOption {
	return func(j *BulkSyncJob) error {
		if size > 0 {
			j.pageSize = size
		}
		return nil
	}
}

// WithProgress sets the writer for progress output and the interval (in
// assets) between reports. A nil writer disables reporting.
func WithProgress(w io.Writer, reportInterval int) BulkOption {
	return func(j *BulkSyncJob) error {
		j.progress = w
		if reportInterval > 0 {
			j.reportInterval = reportInterval
		}
		return nil
	}
}

// NewBulkSyncJob creates a bulk sync job over the given syncer.
func NewBulkSyncJob(syncer *Syncer, assetRepo storage.AssetRepository, opts ...BulkOption) (*BulkSyncJob, error) {
	if syncer == nil {
		return nil, ErrSyncerRequired
	}
	if assetRepo == nil {
		return nil, ErrAssetRepositoryRequired
	}

	poolSize := runtime.NumCPU() / 2
	if poolSize < 1 {
		poolSize = 1
	}
	pool, err := ants.NewPool(poolSize)
	if err != nil {
		return nil, err
	}

	j := &BulkSyncJob{
		syncer:         syncer,
		assetRepo:      assetRepo,
		pool:           pool,
		pageSize:       defaultPageSize,
		reportInterval: defaultReportInterval,
		progress:       io.Discard,
	}

	for _, opt := range opts {
		if optErr := opt(j); optErr != nil {
			j.Release()
			return nil, optErr
		}
	}
	if j.progress == nil {
		j.progress = io.Discard
	}

	return j, nil
}

// Run executes the bulk sync. The returned ledger holds one entry per
// scheduled asset in enumeration order regardless of completion order.
// Per-asset failures are recorded, not retried, and never abort the
// run. When ctx is cancelled no further assets are scheduled; in-flight
// work completes and the partial ledger is returned alongside ctx's
// error.
func (j *BulkSyncJob) Run(ctx context.Context) (*core.SyncLedger, error) {
	assets, err := j.enumerate(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to enumerate assets: %w", err)
	}

	if len(assets) == 0 {
		fmt.Fprintf(j.progress, "No assets found (0 assets)\n")
		return &core.SyncLedger{}, nil
	}

	tracker := NewProgressTracker(j.progress, len(assets), j.reportInterval)
	tracker.Start()

	// One slot per enumerated asset so results land in enumeration
	// order no matter which worker finishes first.
	results := make([]core.SyncResult, len(assets))
	var wg sync.WaitGroup

	scheduled := 0
	for i, asset := range assets {
		if ctx.Err() != nil {
			break
		}

		i, id := i, asset.Id
		wg.Add(1)
		submitErr := j.pool.Submit(func() {
			defer wg.Done()
			results[i] = core.SyncResult{AssetId: id, Err: j.syncer.Sync(ctx, id)}
			tracker.Increment(1)
		})
		if submitErr != nil {
			wg.Done()
			results[i] = core.SyncResult{AssetId: id, Err: submitErr}
			tracker.Increment(1)
		}
		scheduled++
	}

	wg.Wait()
	tracker.Finish()

	ledger := &core.SyncLedger{Results: results[:scheduled]}
	if ctxErr := ctx.Err(); ctxErr != nil {
		return ledger, ctxErr
	}
	return ledger, nil
}

// Release releases the worker pool. The job should not be used after
// calling Release.
func (j *BulkSyncJob) Release() {
	if j.pool != nil {
		j.pool.Release()
	}
}

// enumerate walks the asset listing page by page. Paged fetches keep
// memory bounded on large catalogs without changing scheduling order.
func (j *BulkSyncJob) enumerate(ctx context.Context) ([]*core.Asset, error) {
	var all []*core.Asset
	var cursor core.ID
	for {
		page, err := j.assetRepo.ListAssets(ctx, cursor, j.pageSize)
		if err != nil {
			return nil, err
		}
		if len(page) == 0 {
			return all, nil
		}
		all = append(all, page...)
		cursor = page[len(page)-1].Id
	}
}
