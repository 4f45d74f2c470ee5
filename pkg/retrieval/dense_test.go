package retrieval

import (
	"context"
	"strings"
	"testing"
)

// wordCountEmbedder is a trivial deterministic Embedder for tests: it
// produces a small bag-of-words vector over a fixed vocabulary so cosine
// similarity behaves predictably without a real embedding backend.
type wordCountEmbedder struct {
	vocab []string
}

func (e *wordCountEmbedder) Embed(ctx context.Context, text string) ([]float64, error) {
	vec := make([]float64, len(e.vocab))
	words := strings.Fields(strings.ToLower(text))
	for _, w := range words {
		for i, v := range e.vocab {
			if v == w {
				vec[i]++
			}
		}
	}
	return vec, nil
}

func testEmbedder() *wordCountEmbedder {
	return &wordCountEmbedder{vocab: []string{"loan", "emi", "interest", "collateral"}}
}

func TestInMemoryDenseRetrieverRanksBySimilarity(t *testing.T) {
	r := NewInMemoryDenseRetriever(testEmbedder())
	ctx := context.Background()
	r.Add(ctx, Document{ID: "emi-doc", Content: "emi interest calculation"})
	r.Add(ctx, Document{ID: "collateral-doc", Content: "collateral requirements"})

	results, err := r.Retrieve(ctx, Query{Text: "emi interest"}, 2)
	if err != nil {
		t.Fatalf("Retrieve: %v", err)
	}
	if len(results) != 2 {
		t.Fatalf("expected 2 results, got %d", len(results))
	}
	if results[0].Document.ID != "emi-doc" {
		t.Fatalf("expected emi-doc to rank first, got %q", results[0].Document.ID)
	}
	if results[0].Rank != 1 {
		t.Fatalf("expected rank 1, got %d", results[0].Rank)
	}
}

func TestInMemoryDenseRetrieverAppliesFilters(t *testing.T) {
	r := NewInMemoryDenseRetriever(testEmbedder())
	ctx := context.Background()
	r.Add(ctx, Document{ID: "hi", Content: "loan emi", Metadata: map[string]string{"lang": "hi"}})
	r.Add(ctx, Document{ID: "en", Content: "loan emi", Metadata: map[string]string{"lang": "en"}})

	results, err := r.Retrieve(ctx, Query{Text: "loan emi", Filters: map[string]string{"lang": "en"}}, 5)
	if err != nil {
		t.Fatalf("Retrieve: %v", err)
	}
	if len(results) != 1 || results[0].Document.ID != "en" {
		t.Fatalf("expected only en doc to match filter, got %+v", results)
	}
}

func TestInMemoryDenseRetrieverAddReplacesExistingID(t *testing.T) {
	r := NewInMemoryDenseRetriever(testEmbedder())
	ctx := context.Background()
	r.Add(ctx, Document{ID: "doc", Content: "loan"})
	r.Add(ctx, Document{ID: "doc", Content: "emi"})

	if len(r.docs) != 1 {
		t.Fatalf("expected re-adding same ID to replace, got %d docs", len(r.docs))
	}
	if r.docs[0].doc.Content != "emi" {
		t.Fatalf("expected replaced content, got %q", r.docs[0].doc.Content)
	}
}
