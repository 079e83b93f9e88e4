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


// Package ai provides the embedding provider abstraction used by the catalog.
//
// The sync and search pipelines depend on the Embedder interface rather than
// a concrete client, so business logic can be tested without an external
// embedding service and providers can be swapped without touching callers.
//
// # Implementation Packages
//
//   - ai/openai: Production implementation using OpenAI-compatible APIs
//   - ai/mock: Test doubles for unit testing without external dependencies
//
// # Error Classification
//
// Providers never retry. Every failure wraps one of two sentinels so callers
// can pick a retry policy:
//
//   - ErrTransient: timeouts, rate limits, 5xx responses
//   - ErrPermanent: auth/config errors, invalid input, dimensionality mismatch
//
// # Usage Example
//
//	cfg := ai.NewConfig(
//	    ai.WithHost("http://localhost:11434"),
//	    ai.WithModel("embeddinggemma"),
//	    ai.WithDimensions(768),
//	)
//	embedder, err := openai.NewEmbedder(cfg)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	vector, err := embedder.EmbedText(ctx, "connected TV video spot")
package ai
