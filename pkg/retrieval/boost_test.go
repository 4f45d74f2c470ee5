package retrieval

import "testing"

func TestApplyBoostsReordersByMultiplier(t *testing.T) {
	docs := []ScoredDocument{
		{Document: Document{ID: "a", Metadata: map[string]string{"stage": "discovery"}}, Score: 1.0},
		{Document: Document{ID: "b", Metadata: map[string]string{"stage": "collections"}}, Score: 0.9},
	}
	boosts := []DomainBoost{{Field: "stage", Multipliers: map[string]float64{"collections": 2.0}}}

	out := ApplyBoosts(docs, boosts)
	if out[0].Document.ID != "b" {
		t.Fatalf("expected boosted doc b to rank first, got %q", out[0].Document.ID)
	}
	if out[0].Rank != 1 {
		t.Fatalf("expected rank reassigned after boost, got %d", out[0].Rank)
	}
}

func TestApplyBoostsNoBoostsReturnsUnchanged(t *testing.T) {
	docs := []ScoredDocument{{Document: Document{ID: "a"}, Score: 1.0}}
	out := ApplyBoosts(docs, nil)
	if len(out) != 1 || out[0].Document.ID != "a" {
		t.Fatalf("expected passthrough, got %+v", out)
	}
}

func TestApplyBoostsMissingMetadataFieldLeavesScoreUnchanged(t *testing.T) {
	docs := []ScoredDocument{{Document: Document{ID: "a"}, Score: 1.0}}
	boosts := []DomainBoost{{Field: "stage", Multipliers: map[string]float64{"collections": 5.0}}}
	out := ApplyBoosts(docs, boosts)
	if out[0].Score != 1.0 {
		t.Fatalf("expected unchanged score when metadata field absent, got %v", out[0].Score)
	}
}
