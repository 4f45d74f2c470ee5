package retrieval

import (
	"context"
	"errors"
	"testing"
)

type fakeRetriever struct {
	docs []ScoredDocument
	err  error
}

func (f *fakeRetriever) Retrieve(ctx context.Context, query Query, k int) ([]ScoredDocument, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.docs, nil
}

func TestEngineRetrieveFusesDenseAndSparse(t *testing.T) {
	dense := &fakeRetriever{docs: []ScoredDocument{
		{Document: Document{ID: "1", Content: "loan eligibility rules"}, Rank: 1},
	}}
	sparse := &fakeRetriever{docs: []ScoredDocument{
		{Document: Document{ID: "2", Content: "emi calculation steps"}, Rank: 1},
	}}

	cfg := DefaultConfig()
	e := NewEngine(cfg, nil, dense, sparse, nil)

	result := e.Retrieve(context.Background(), Query{Text: "emi"})
	if len(result.Documents) != 2 {
		t.Fatalf("expected 2 fused documents, got %d: %+v", len(result.Documents), result.Documents)
	}
	if result.Degraded {
		t.Fatal("did not expect degraded result when both backends succeed")
	}
}

func TestEngineRetrieveDegradesWhenBothBackendsFail(t *testing.T) {
	dense := &fakeRetriever{err: errors.New("timeout")}
	sparse := &fakeRetriever{err: errors.New("timeout")}

	e := NewEngine(DefaultConfig(), nil, dense, sparse, nil)
	result := e.Retrieve(context.Background(), Query{Text: "emi"})

	if !result.Degraded {
		t.Fatal("expected Degraded when both retrievers fail")
	}
	if len(result.Documents) != 0 {
		t.Fatalf("expected no documents, got %d", len(result.Documents))
	}
}

func TestEngineRetrieveCachesRepeatedQuery(t *testing.T) {
	dense := &fakeRetriever{docs: []ScoredDocument{{Document: Document{ID: "1", Content: "x"}, Rank: 1}}}
	e := NewEngine(DefaultConfig(), nil, dense, nil, nil)

	q := Query{Text: "emi"}
	first := e.Retrieve(context.Background(), q)
	dense.docs = nil // backend now empty; cached result should still be returned
	second := e.Retrieve(context.Background(), q)

	if len(second.Documents) != len(first.Documents) {
		t.Fatalf("expected cached result reused, got %+v vs %+v", first, second)
	}
}

func TestTruncateToBudgetKeepsWholeDocuments(t *testing.T) {
	docs := []ScoredDocument{
		{Document: Document{ID: "1", Content: "0123456789"}},
		{Document: Document{ID: "2", Content: "0123456789"}},
		{Document: Document{ID: "3", Content: "0123456789"}},
	}
	out := truncateToBudget(docs, 15)
	if len(out) != 1 {
		t.Fatalf("expected only the first document to fit budget 15, got %d", len(out))
	}
}

func TestTruncateToBudgetZeroMeansUnbounded(t *testing.T) {
	docs := []ScoredDocument{{Document: Document{ID: "1", Content: "hello"}}}
	out := truncateToBudget(docs, 0)
	if len(out) != 1 {
		t.Fatal("expected zero budget to mean unbounded")
	}
}
