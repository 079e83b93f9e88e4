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


package storage

import (
	"github.com/planora/catalog/core"
)

// MarshalID serializes an ID to bytes.
func MarshalID(id core.ID) []byte {
	buf := make([]byte, core.IDMUS.Size(id))
	core.IDMUS.Marshal(id, buf)
	return buf
}

// UnmarshalID deserializes an ID from bytes.
func UnmarshalID(data []byte) (core.ID, error) {
	id, _, err := core.IDMUS.Unmarshal(data)
	return id, err
}

// MarshalAsset serializes an Asset to bytes.
func MarshalAsset(asset *core.Asset) []byte {
	buf := make([]byte, core.AssetMUS.Size(*asset))
	core.AssetMUS.Marshal(*asset, buf)
	return buf
}

// UnmarshalAsset deserializes an Asset from bytes.
func UnmarshalAsset(data []byte) (*core.Asset, error) {
	asset, _, err := core.AssetMUS.Unmarshal(data)
	if err != nil {
		return nil, err
	}
	return &asset, nil
}

// MarshalPlatform serializes a Platform to bytes.
func MarshalPlatform(platform *core.Platform) []byte {
	buf := make([]byte, core.PlatformMUS.Size(*platform))
	core.PlatformMUS.Marshal(*platform, buf)
	return buf
}

// UnmarshalPlatform deserializes a Platform from bytes.
func UnmarshalPlatform(data []byte) (*core.Platform, error) {
	platform, _, err := core.PlatformMUS.Unmarshal(data)
	if err != nil {
		return nil, err
	}
	return &platform, nil
}
