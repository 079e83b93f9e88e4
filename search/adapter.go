package search

import "github.com/planora/catalog/core"

// Result is the transport-friendly projection of a retrieval match.
// Platform fields are denormalized onto the row; missing platforms and
// scores surface as zero values rather than nulls.
type Result struct {
	AssetId          core.ID `json:"asset_id"`
	Name             string  `json:"name"`
	Description      string  `json:"description,omitempty"`
	Type             string  `json:"type,omitempty"`
	Category         string  `json:"category,omitempty"`
	PlatformName     string  `json:"platform_name,omitempty"`
	PlatformIndustry string  `json:"platform_industry,omitempty"`
	Similarity       float32 `json:"similarity"`
	LexScore         float32 `json:"lexical_score"`
	Combined         float32 `json:"combined_score"`
}

// ToResults maps retrieval matches to transport results, preserving
// order.
func ToResults(matches []*core.RetrievalMatch) []Result {
	results := make([]Result, 0, len(matches))
	for _, match := range matches {
		if match == nil || match.Asset == nil {
			continue
		}

		result := Result{
			AssetId:     match.Asset.Id,
			Name:        match.Asset.Name,
			Description: match.Asset.Description,
			Type:        match.Asset.Type,
			Category:    match.Asset.Category,
			Similarity:  match.Similarity,
			LexScore:    match.LexScore,
			Combined:    match.Combined,
		}
		if match.Platform != nil {
			result.PlatformName = match.Platform.Name
			result.PlatformIndustry = match.Platform.Industry
		}
		results = append(results, result)
	}
	return results
}
