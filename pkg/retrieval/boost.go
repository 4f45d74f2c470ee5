package retrieval

import "sort"

// DomainBoost multiplies a document's fused score based on metadata match,
// letting config-driven domain priorities (e.g. favor "collections" stage
// documents during a collections call) skew ranking without retraining a
// model.
type DomainBoost struct {
	// Field is the Document.Metadata key inspected (e.g. "stage", "segment").
	Field string
	// Multipliers maps a metadata value to its score multiplier. Values
	// absent from the map are left at 1.0.
	Multipliers map[string]float64
}

// ApplyBoosts multiplies each document's score by the product of every
// matching boost's multiplier, then re-sorts and re-ranks.
func ApplyBoosts(docs []ScoredDocument, boosts []DomainBoost) []ScoredDocument {
	if len(boosts) == 0 {
		return docs
	}
	out := make([]ScoredDocument, len(docs))
	copy(out, docs)

	for i, sd := range out {
		factor := 1.0
		for _, b := range boosts {
			val, ok := sd.Document.Metadata[b.Field]
			if !ok {
				continue
			}
			if mult, ok := b.Multipliers[val]; ok {
				factor *= mult
			}
		}
		out[i].Score *= factor
	}

	sort.SliceStable(out, func(i, j int) bool { return out[i].Score > out[j].Score })
	for i := range out {
		out[i].Rank = i + 1
	}
	return out
}
