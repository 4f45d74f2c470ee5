// Package retrieval returns the top-k most relevant documents for a
// (query, language, stage) context: query expansion, concurrent dense and
// sparse retrieval fused by RRF, cross-encoder reranking, domain boosting,
// and an LRU+single-flight cache, all under a latency budget.
package retrieval

import "context"

// Document is one retrievable unit of domain knowledge.
type Document struct {
	ID       string
	Content  string
	Metadata map[string]string
}

// Query is a fully-formed retrieval request after expansion.
type Query struct {
	Text     string
	Language string
	Stage    string
	Filters  map[string]string
}

// ScoredDocument pairs a Document with its retrieval score and the rank it
// held in its source list, used by RRF fusion's tie-break rule.
type ScoredDocument struct {
	Document Document
	Score    float64
	Rank     int
}

// DenseRetriever returns the k nearest documents to query by vector
// similarity.
type DenseRetriever interface {
	Retrieve(ctx context.Context, query Query, k int) ([]ScoredDocument, error)
}

// SparseRetriever returns the k best documents by a lexical scoring model
// (BM25-style).
type SparseRetriever interface {
	Retrieve(ctx context.Context, query Query, k int) ([]ScoredDocument, error)
}

// Reranker reorders a candidate set by a stronger, more expensive scorer.
type Reranker interface {
	Rerank(ctx context.Context, query Query, candidates []ScoredDocument) ([]ScoredDocument, error)
}

// Result is what the pipeline returns for one query.
type Result struct {
	Documents []ScoredDocument
	Degraded  bool
	Partial   bool
}
