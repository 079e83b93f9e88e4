package compose

import (
	"strings"
	"testing"

	"github.com/planora/catalog/core"
	"github.com/stretchr/testify/assert"
)

func testAsset() *core.Asset {
	return &core.Asset{
		Id:          1,
		Name:        "Homepage takeover",
		Description: "Full-width hero placement",
		Type:        "display",
		Category:    "premium",
	}
}

func testPlatform() *core.Platform {
	return &core.Platform{
		Id:       2,
		Name:     "StreamView",
		Industry: "entertainment",
		Audience: map[string]string{
			"age":    "18-34",
			"gender": "all",
			"region": "nationwide",
		},
		DeviceSplit: map[string]string{
			"mobile":  "60%",
			"desktop": "30%",
			"ctv":     "10%",
		},
	}
}

func TestContent_Deterministic(t *testing.T) {
	asset := testAsset()
	platform := testPlatform()

	// Maps iterate in random order; repeated calls must still be
	// byte-identical or embeddings drift without content changes.
	first := Content(asset, platform)
	for i := 0; i < 50; i++ {
		assert.Equal(t, first, Content(asset, platform))
	}
}

func TestContent_FixedOrder(t *testing.T) {
	content := Content(testAsset(), testPlatform())

	nameIdx := strings.Index(content, "Homepage takeover")
	descIdx := strings.Index(content, "Full-width hero placement")
	typeIdx := strings.Index(content, "display")
	platIdx := strings.Index(content, "StreamView")
	audIdx := strings.Index(content, "audience ")
	devIdx := strings.Index(content, "devices ")

	assert.GreaterOrEqual(t, nameIdx, 0)
	assert.Greater(t, descIdx, nameIdx)
	assert.Greater(t, typeIdx, descIdx)
	assert.Greater(t, platIdx, typeIdx)
	assert.Greater(t, audIdx, platIdx)
	assert.Greater(t, devIdx, audIdx)
}

func TestContent_SortedAttributeKeys(t *testing.T) {
	content := Content(testAsset(), testPlatform())

	assert.Contains(t, content, "audience age: 18-34, gender: all, region: nationwide")
	assert.Contains(t, content, "devices ctv: 10%, desktop: 30%, mobile: 60%")
}

func TestContent_NoPlatform(t *testing.T) {
	content := Content(testAsset(), nil)

	assert.Contains(t, content, "Homepage takeover")
	assert.NotContains(t, content, "StreamView")
	assert.NotContains(t, content, "audience")
}

func TestContent_MissingOptionalFields(t *testing.T) {
	t.Run("empty description", func(t *testing.T) {
		asset := testAsset()
		asset.Description = ""
		content := Content(asset, nil)
		assert.Contains(t, content, "Homepage takeover")
	})

	t.Run("platform without attributes", func(t *testing.T) {
		platform := &core.Platform{Name: "StreamView", Industry: "entertainment"}
		content := Content(testAsset(), platform)
		assert.Contains(t, content, "StreamView")
		assert.NotContains(t, content, "audience ")
	})

	t.Run("nil asset", func(t *testing.T) {
		assert.Equal(t, "", Content(nil, testPlatform()))
	})
}
