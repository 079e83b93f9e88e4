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


// Package storage defines the persistence interfaces for the catalog.
//
// The package holds the repository abstractions (AssetRepository,
// PlatformRepository) plus shared errors and MUS serialization helpers.
// Concrete backends live in subpackages; storage/badger provides the
// BadgerDB implementation, which is the single source of truth for asset
// vectors: retrieval always reads fresh, never from an in-memory cache.
//
// The HybridMatch operation on Repository is the one ranking call the
// retrieval pipeline makes: it takes a query vector, the raw query text, a
// similarity threshold, and a result cap, and returns ranked rows with
// platform context joined in.
package storage
