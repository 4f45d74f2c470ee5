package retrieval

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"gonum.org/v1/gonum/floats"
)

// Embedder turns text into a fixed-dimension vector for dense retrieval.
type Embedder interface {
	Embed(ctx context.Context, text string) ([]float64, error)
}

type embeddedDoc struct {
	doc    Document
	vector []float64
}

// InMemoryDenseRetriever scores documents by cosine similarity against an
// embedded query, holding every document's vector in memory. It is meant
// for domain knowledge bases small enough to fit in a process (product
// catalogs, FAQ sets, script libraries) rather than a full vector database.
type InMemoryDenseRetriever struct {
	mu       sync.RWMutex
	embedder Embedder
	docs     []embeddedDoc
}

// NewInMemoryDenseRetriever creates an empty retriever backed by embedder.
func NewInMemoryDenseRetriever(embedder Embedder) *InMemoryDenseRetriever {
	return &InMemoryDenseRetriever{embedder: embedder}
}

// Add embeds and stores a document, replacing any prior entry with the
// same ID.
func (r *InMemoryDenseRetriever) Add(ctx context.Context, doc Document) error {
	vec, err := r.embedder.Embed(ctx, doc.Content)
	if err != nil {
		return fmt.Errorf("retrieval: embed document %q: %w", doc.ID, err)
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	for i, ed := range r.docs {
		if ed.doc.ID == doc.ID {
			r.docs[i] = embeddedDoc{doc: doc, vector: vec}
			return nil
		}
	}
	r.docs = append(r.docs, embeddedDoc{doc: doc, vector: vec})
	return nil
}

// Retrieve embeds query.Text and returns the k documents with highest
// cosine similarity, highest first.
func (r *InMemoryDenseRetriever) Retrieve(ctx context.Context, query Query, k int) ([]ScoredDocument, error) {
	qvec, err := r.embedder.Embed(ctx, query.Text)
	if err != nil {
		return nil, fmt.Errorf("retrieval: embed query: %w", err)
	}

	r.mu.RLock()
	defer r.mu.RUnlock()

	scored := make([]ScoredDocument, 0, len(r.docs))
	for _, ed := range r.docs {
		if !matchesFilters(ed.doc, query.Filters) {
			continue
		}
		scored = append(scored, ScoredDocument{
			Document: ed.doc,
			Score:    cosineSimilarity(qvec, ed.vector),
		})
	}

	sort.SliceStable(scored, func(i, j int) bool { return scored[i].Score > scored[j].Score })
	if k > 0 && k < len(scored) {
		scored = scored[:k]
	}
	for i := range scored {
		scored[i].Rank = i + 1
	}
	return scored, nil
}

func matchesFilters(doc Document, filters map[string]string) bool {
	for k, v := range filters {
		if doc.Metadata[k] != v {
			return false
		}
	}
	return true
}

func cosineSimilarity(a, b []float64) float64 {
	if len(a) == 0 || len(b) == 0 || len(a) != len(b) {
		return 0
	}
	dot := floats.Dot(a, b)
	normA := floats.Norm(a, 2)
	normB := floats.Norm(b, 2)
	if normA == 0 || normB == 0 {
		return 0
	}
	return dot / (normA * normB)
}
