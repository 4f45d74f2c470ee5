package retrieval

import "testing"

func TestFuseRRFCombinesAndOrders(t *testing.T) {
	dense := []ScoredDocument{
		{Document: Document{ID: "a"}, Rank: 1},
		{Document: Document{ID: "b"}, Rank: 2},
	}
	sparse := []ScoredDocument{
		{Document: Document{ID: "b"}, Rank: 1},
		{Document: Document{ID: "c"}, Rank: 2},
	}
	denseRank := map[string]int{"a": 1, "b": 2}

	fused := FuseRRF(60, denseRank, dense, sparse)
	if len(fused) != 3 {
		t.Fatalf("expected 3 fused docs, got %d", len(fused))
	}
	// "b" appears in both lists so should score highest.
	if fused[0].Document.ID != "b" {
		t.Fatalf("expected b to rank first, got %q", fused[0].Document.ID)
	}
	if fused[0].Rank != 1 {
		t.Fatalf("expected rank 1 assigned to top doc, got %d", fused[0].Rank)
	}
}

func TestFuseRRFTieBreaksByDenseRankThenID(t *testing.T) {
	// Both appear only in a single list at the same rank, producing equal
	// scores; tie-break should fall to dense rank, then lexicographic id.
	sparse := []ScoredDocument{
		{Document: Document{ID: "z"}, Rank: 1},
		{Document: Document{ID: "y"}, Rank: 1},
	}
	denseRank := map[string]int{"y": 1}

	fused := FuseRRF(60, denseRank, sparse)
	if fused[0].Document.ID != "y" {
		t.Fatalf("expected y (has dense rank) to win tie, got %q", fused[0].Document.ID)
	}
}

func TestFuseRRFDefaultsConstantWhenNonPositive(t *testing.T) {
	dense := []ScoredDocument{{Document: Document{ID: "a"}, Rank: 1}}
	fused := FuseRRF(0, nil, dense)
	if len(fused) != 1 || fused[0].Score <= 0 {
		t.Fatalf("expected positive score with default k, got %+v", fused)
	}
}
