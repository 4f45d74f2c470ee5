// Package fake provides a deterministic turn.CompletionScorer double.
package fake

import "context"

// Scorer returns a fixed completion score regardless of input, useful for
// forcing the orchestrator through the short- or long-silence path in
// tests without depending on real transcript text.
type Scorer struct {
	Score_ float64
}

// New creates a fake scorer that always reports score.
func New(score float64) *Scorer {
	return &Scorer{Score_: score}
}

func (s *Scorer) Score(ctx context.Context, text, langCode string) (float64, error) {
	return s.Score_, nil
}
