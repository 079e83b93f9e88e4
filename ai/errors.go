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


package ai

import "errors"

var (
	// ErrTransient marks provider failures that may succeed on retry
	// (timeouts, rate limits, 5xx responses).
	ErrTransient = errors.New("transient embedding provider failure")

	// ErrPermanent marks provider failures that will not succeed on retry
	// (auth or configuration errors, invalid input, wrong dimensionality).
	ErrPermanent = errors.New("permanent embedding provider failure")

	// ErrDimensionMismatch indicates the provider returned a vector whose
	// dimensionality does not match the configuration. Always permanent.
	ErrDimensionMismatch = errors.New("embedding dimensionality mismatch")
)
