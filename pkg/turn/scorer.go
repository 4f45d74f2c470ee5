package turn

import "context"

// CompletionScorer estimates the probability, in [0,1], that text is a
// grammatically complete utterance in language langCode. The turn Detector
// uses this to pick between a short and a long required silence duration.
type CompletionScorer interface {
	Score(ctx context.Context, text, langCode string) (float64, error)
}

// HeuristicScorer is the pure-heuristic fallback: it scores 1.0 when text
// ends in a recognized sentence terminator, 0.0 otherwise. It never errors.
type HeuristicScorer struct{}

func (HeuristicScorer) Score(ctx context.Context, text, langCode string) (float64, error) {
	if HasSentenceTerminator(text, langCode) {
		return 1.0, nil
	}
	return 0.0, nil
}
