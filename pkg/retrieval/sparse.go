package retrieval

import (
	"context"
	"math"
	"sort"
	"strings"
	"sync"
)

// BM25 tuning constants; standard defaults per Robertson/Zaragoza.
const (
	bm25K1 = 1.2
	bm25B  = 0.75
)

type postedDoc struct {
	doc     Document
	terms   []string
	termSet map[string]int
	length  int
}

// BM25Retriever is a lexical SparseRetriever scoring documents by the
// Okapi BM25 formula over whitespace-tokenized text.
type BM25Retriever struct {
	mu         sync.RWMutex
	docs       []postedDoc
	docFreq    map[string]int
	avgDocLen  float64
	totalTerms int
}

// NewBM25Retriever creates an empty BM25 index.
func NewBM25Retriever() *BM25Retriever {
	return &BM25Retriever{docFreq: make(map[string]int)}
}

// Add tokenizes and indexes a document, replacing any prior entry with the
// same ID.
func (r *BM25Retriever) Add(doc Document) {
	terms := tokenize(doc.Content)
	termSet := make(map[string]int, len(terms))
	for _, t := range terms {
		termSet[t]++
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	for i, pd := range r.docs {
		if pd.doc.ID == doc.ID {
			r.removeLocked(i)
			break
		}
	}

	for t := range termSet {
		r.docFreq[t]++
	}
	r.docs = append(r.docs, postedDoc{doc: doc, terms: terms, termSet: termSet, length: len(terms)})
	r.totalTerms += len(terms)
	r.avgDocLen = float64(r.totalTerms) / float64(len(r.docs))
}

func (r *BM25Retriever) removeLocked(i int) {
	old := r.docs[i]
	for t := range old.termSet {
		r.docFreq[t]--
	}
	r.totalTerms -= old.length
	r.docs = append(r.docs[:i], r.docs[i+1:]...)
}

// Retrieve scores every indexed document against query.Text by BM25 and
// returns the top k, highest score first.
func (r *BM25Retriever) Retrieve(ctx context.Context, query Query, k int) ([]ScoredDocument, error) {
	queryTerms := tokenize(query.Text)

	r.mu.RLock()
	defer r.mu.RUnlock()

	n := len(r.docs)
	if n == 0 {
		return nil, nil
	}

	scored := make([]ScoredDocument, 0, n)
	for _, pd := range r.docs {
		if !matchesFilters(pd.doc, query.Filters) {
			continue
		}
		score := r.bm25Score(pd, queryTerms, n)
		if score <= 0 {
			continue
		}
		scored = append(scored, ScoredDocument{Document: pd.doc, Score: score})
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

func (r *BM25Retriever) bm25Score(pd postedDoc, queryTerms []string, n int) float64 {
	var score float64
	for _, t := range queryTerms {
		tf := pd.termSet[t]
		if tf == 0 {
			continue
		}
		df := r.docFreq[t]
		idf := math.Log(1 + (float64(n)-float64(df)+0.5)/(float64(df)+0.5))
		denom := float64(tf) + bm25K1*(1-bm25B+bm25B*float64(pd.length)/r.avgDocLen)
		score += idf * (float64(tf) * (bm25K1 + 1) / denom)
	}
	return score
}

func tokenize(text string) []string {
	return strings.Fields(strings.ToLower(text))
}
