package server

import "errors"

var (
	// ErrSyncerRequired is returned when a syncer is not provided.
	ErrSyncerRequired = errors.New("syncer required")

	// ErrSearcherRequired is returned when a searcher is not provided.
	ErrSearcherRequired = errors.New("searcher required")

	// ErrAssetRepositoryRequired is returned when an asset repository is not provided.
	ErrAssetRepositoryRequired = errors.New("asset repository required")
)
