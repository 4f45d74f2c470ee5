package retrieval

import (
	"context"
	"strings"
	"time"

	"golang.org/x/sync/errgroup"
)

// Config tunes one Engine's behavior; all fields are expected to come from
// a domain config file.
type Config struct {
	DenseK       int
	SparseK      int
	RerankTopM   int
	RRFConstant  float64
	Boosts       []DomainBoost
	ContextChars int
	CacheSize    int
	Timeout      time.Duration
}

// DefaultConfig returns conservative defaults for fields left at zero.
func DefaultConfig() Config {
	return Config{
		DenseK:       20,
		SparseK:      20,
		RerankTopM:   10,
		RRFConstant:  DefaultRRFConstant,
		ContextChars: 4000,
		CacheSize:    DefaultCacheSize,
		Timeout:      800 * time.Millisecond,
	}
}

// Engine is the retrieval pipeline: expand, fan out to dense and sparse
// retrievers concurrently, fuse by RRF, rerank the top candidates, apply
// domain boosts, truncate to a context budget, and cache the outcome.
type Engine struct {
	cfg      Config
	expander *Expander
	dense    DenseRetriever
	sparse   SparseRetriever
	reranker Reranker
	cache    *Cache
}

// NewEngine wires the retrieval pipeline. reranker may be nil to skip the
// rerank stage.
func NewEngine(cfg Config, expander *Expander, dense DenseRetriever, sparse SparseRetriever, reranker Reranker) *Engine {
	if cfg.RRFConstant <= 0 {
		cfg.RRFConstant = DefaultRRFConstant
	}
	return &Engine{
		cfg:      cfg,
		expander: expander,
		dense:    dense,
		sparse:   sparse,
		reranker: reranker,
		cache:    NewCache(cfg.CacheSize),
	}
}

// Retrieve runs the full pipeline for query, never returning an error to
// the caller: a failed backend contributes no documents, so the Result
// holds whatever the other backend returned, and Degraded is set when
// neither backend returned any document. A retrieval hiccup never stalls a
// conversational turn.
func (e *Engine) Retrieve(ctx context.Context, query Query) Result {
	expanded := query
	if e.expander != nil {
		expanded.Text = e.expander.Expand(query.Text)
	}
	key := Fingerprint(expanded)

	result, err := e.cache.GetOrLoad(key, func() (Result, error) {
		return e.retrieveUncached(ctx, expanded), nil
	})
	if err != nil {
		return Result{Degraded: true}
	}
	return result
}

func (e *Engine) retrieveUncached(ctx context.Context, query Query) Result {
	timeout := e.cfg.Timeout
	if timeout <= 0 {
		timeout = DefaultConfig().Timeout
	}
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	var dense, sparse []ScoredDocument
	g, gctx := errgroup.WithContext(ctx)

	if e.dense != nil {
		g.Go(func() error {
			docs, err := e.dense.Retrieve(gctx, query, e.cfg.DenseK)
			if err != nil {
				return nil
			}
			dense = docs
			return nil
		})
	}
	if e.sparse != nil {
		g.Go(func() error {
			docs, err := e.sparse.Retrieve(gctx, query, e.cfg.SparseK)
			if err != nil {
				return nil
			}
			sparse = docs
			return nil
		})
	}
	_ = g.Wait()

	partial := len(dense) == 0 && len(sparse) == 0
	denseRank := make(map[string]int, len(dense))
	for i, sd := range dense {
		rank := sd.Rank
		if rank <= 0 {
			rank = i + 1
		}
		denseRank[sd.Document.ID] = rank
	}

	fused := FuseRRF(e.cfg.RRFConstant, denseRank, dense, sparse)

	reranked := fused
	if e.reranker != nil && len(fused) > 0 {
		topM := e.cfg.RerankTopM
		if topM <= 0 || topM > len(fused) {
			topM = len(fused)
		}
		candidates := fused[:topM]
		if out, err := e.reranker.Rerank(ctx, query, candidates); err == nil {
			reranked = append(append([]ScoredDocument{}, out...), fused[topM:]...)
		}
	}

	boosted := ApplyBoosts(reranked, e.cfg.Boosts)
	truncated := truncateToBudget(boosted, e.cfg.ContextChars)

	return Result{
		Documents: truncated,
		Degraded:  partial,
		Partial:   len(truncated) < len(boosted),
	}
}

// truncateToBudget keeps whole documents in rank order until adding the
// next one would exceed the character budget, never splitting a document
// mid-content.
func truncateToBudget(docs []ScoredDocument, budget int) []ScoredDocument {
	if budget <= 0 {
		return docs
	}
	used := 0
	out := make([]ScoredDocument, 0, len(docs))
	for _, sd := range docs {
		n := len(strings.TrimSpace(sd.Document.Content))
		if used > 0 && used+n > budget {
			break
		}
		out = append(out, sd)
		used += n
	}
	return out
}
