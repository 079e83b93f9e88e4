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


package core

import "errors"

// Domain validation errors
var (
	// ErrInvalidAsset indicates an Asset failed validation.
	ErrInvalidAsset = errors.New("invalid asset")

	// ErrInvalidPlatform indicates a Platform failed validation.
	ErrInvalidPlatform = errors.New("invalid platform")

	// ErrEmptyContent indicates an asset has no content to embed.
	ErrEmptyContent = errors.New("asset has no content")

	// ErrEmptyAssetName indicates the asset Name field is empty.
	ErrEmptyAssetName = errors.New("asset name cannot be empty")

	// ErrEmptyPlatformName indicates the platform Name field is empty.
	ErrEmptyPlatformName = errors.New("platform name cannot be empty")
)
