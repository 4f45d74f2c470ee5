package retrieval

import (
	"context"
	"testing"
)

func TestBM25RetrieverRanksByTermRelevance(t *testing.T) {
	r := NewBM25Retriever()
	r.Add(Document{ID: "emi", Content: "the emi amount depends on the loan principal and interest rate"})
	r.Add(Document{ID: "collateral", Content: "collateral documents must be verified before disbursement"})

	results, err := r.Retrieve(context.Background(), Query{Text: "emi interest rate"}, 5)
	if err != nil {
		t.Fatalf("Retrieve: %v", err)
	}
	if len(results) == 0 {
		t.Fatal("expected at least one result")
	}
	if results[0].Document.ID != "emi" {
		t.Fatalf("expected emi doc to rank first, got %q", results[0].Document.ID)
	}
}

func TestBM25RetrieverExcludesNonMatchingDocuments(t *testing.T) {
	r := NewBM25Retriever()
	r.Add(Document{ID: "a", Content: "completely unrelated text about weather"})

	results, err := r.Retrieve(context.Background(), Query{Text: "emi loan"}, 5)
	if err != nil {
		t.Fatalf("Retrieve: %v", err)
	}
	if len(results) != 0 {
		t.Fatalf("expected no matches, got %+v", results)
	}
}

func TestBM25RetrieverAddReplacesDocumentAndUpdatesStats(t *testing.T) {
	r := NewBM25Retriever()
	r.Add(Document{ID: "doc", Content: "loan emi"})
	r.Add(Document{ID: "doc", Content: "collateral"})

	results, err := r.Retrieve(context.Background(), Query{Text: "loan emi"}, 5)
	if err != nil {
		t.Fatalf("Retrieve: %v", err)
	}
	if len(results) != 0 {
		t.Fatalf("expected old terms gone after replace, got %+v", results)
	}
}

func TestBM25RetrieverAppliesFilters(t *testing.T) {
	r := NewBM25Retriever()
	r.Add(Document{ID: "hi", Content: "loan emi", Metadata: map[string]string{"lang": "hi"}})
	r.Add(Document{ID: "en", Content: "loan emi", Metadata: map[string]string{"lang": "en"}})

	results, err := r.Retrieve(context.Background(), Query{Text: "loan emi", Filters: map[string]string{"lang": "en"}}, 5)
	if err != nil {
		t.Fatalf("Retrieve: %v", err)
	}
	if len(results) != 1 || results[0].Document.ID != "en" {
		t.Fatalf("expected only en doc, got %+v", results)
	}
}
