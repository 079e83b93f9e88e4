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

import "errors"

var (
	// ErrAssetRepositoryRequired is returned when the asset repository is nil
	ErrAssetRepositoryRequired = errors.New("asset repository is required")

	// ErrPlatformRepositoryRequired is returned when the platform repository is nil
	ErrPlatformRepositoryRequired = errors.New("platform repository is required")

	// ErrEmbedderRequired is returned when the embedder is nil
	ErrEmbedderRequired = errors.New("embedder is required")

	// ErrSyncerRequired is returned when a bulk job is built without a syncer
	ErrSyncerRequired = errors.New("syncer is required")

	// ErrPersistFailed is returned when the vector write fails after a
	// successful embedding call. It is distinct from provider errors so
	// callers can tell the two failure stages apart.
	ErrPersistFailed = errors.New("failed to persist vector")

	// ErrInvalidMaxAttempts is returned when maxAttempts is <= 0
	ErrInvalidMaxAttempts = errors.New("maxAttempts must be greater than 0")
)
