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

import "fmt"

// ValidateAsset validates an Asset according to domain rules.
//
// Validation rules:
//   - Name must not be empty
//
// NOT validated (populated by the sync pipeline):
//   - Vector (can be empty until the asset is synced)
//   - ID (0 is valid from database sequences)
//   - PlatformId (0 means no linked platform)
func ValidateAsset(asset *Asset) error {
	if asset == nil {
		return fmt.Errorf("%w: asset is nil", ErrInvalidAsset)
	}

	if asset.Name == "" {
		return fmt.Errorf("%w: %w", ErrInvalidAsset, ErrEmptyAssetName)
	}

	return nil
}

// ValidatePlatform validates a Platform according to domain rules.
//
// Validation rules:
//   - Name must not be empty
func ValidatePlatform(platform *Platform) error {
	if platform == nil {
		return fmt.Errorf("%w: platform is nil", ErrInvalidPlatform)
	}

	if platform.Name == "" {
		return fmt.Errorf("%w: %w", ErrInvalidPlatform, ErrEmptyPlatformName)
	}

	return nil
}

// HasContent reports whether the asset has any text content worth embedding.
// An asset with an empty name, empty description, and no type has nothing
// to feed the embedding provider.
func HasContent(asset *Asset) bool {
	if asset == nil {
		return false
	}
	return asset.Name != "" || asset.Description != "" || asset.Type != ""
}
