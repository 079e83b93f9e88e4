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


package compose

import (
	"maps"
	"slices"
	"strings"

	"github.com/planora/catalog/core"
)

// Content builds the canonical text representation of an asset that is fed
// to the embedding provider. It is a pure function: no I/O, no randomness,
// and equal inputs always yield byte-identical output.
//
// Concatenation order is fixed: name, description, type, category, then,
// only when a platform is linked, platform name, industry, serialized
// audience attributes, and serialized device-split attributes. Missing or
// empty optional fields contribute empty segments rather than failing.
func Content(asset *core.Asset, platform *core.Platform) string {
	if asset == nil {
		return ""
	}

	parts := []string{
		asset.Name,
		asset.Description,
		asset.Type,
		asset.Category,
	}

	if platform != nil {
		parts = append(parts,
			platform.Name,
			platform.Industry,
			formatAttributes("audience", platform.Audience),
			formatAttributes("devices", platform.DeviceSplit),
		)
	}

	return strings.Join(parts, "\n")
}

// formatAttributes serializes a free-form attribute map with stable key
// ordering. The attributes are opaque to the pipeline; they only matter as
// embedding context.
func formatAttributes(label string, attrs map[string]string) string {
	if len(attrs) == 0 {
		return ""
	}

	keys := slices.Sorted(maps.Keys(attrs))
	pairs := make([]string, 0, len(keys))
	for _, key := range keys {
		pairs = append(pairs, key+": "+attrs[key])
	}

	return label + " " + strings.Join(pairs, ", ")
}
