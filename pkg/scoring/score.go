// Package scoring computes a lead-quality score from a session's filled
// slots, detected behavioral signals, and current stage, weighted per
// scoring.yaml. No weight or threshold is hardcoded.
package scoring

import (
	"sort"

	"github.com/vaak-ai/voicecore/pkg/dialogue"
	"github.com/vaak-ai/voicecore/pkg/frame"
)

// Weights is the configured scoring table; it mirrors config.Scoring so
// this package doesn't need to import the config loader.
type Weights struct {
	SlotWeights   map[string]float64
	SignalWeights map[string]float64
	StageWeights  map[string]float64
	Thresholds    []Threshold
}

// Threshold is one lead-quality tier boundary, highest MinScore first once
// Sorted is called.
type Threshold struct {
	MinScore float64
	Label    string
}

// Score sums the configured weight for every filled slot, every detected
// signal kind, and the current stage. Unweighted slots/signals/stages
// contribute zero rather than erroring, since scoring is advisory.
func Score(state *dialogue.State, signals []frame.Signal, stage string, w Weights) float64 {
	slots, _, _, _ := state.Snapshot()
	total := 0.0
	for name := range slots {
		total += w.SlotWeights[name]
	}
	for _, sig := range signals {
		total += w.SignalWeights[sig.Kind]
	}
	total += w.StageWeights[stage]
	return total
}

// Classify maps a score to the highest threshold it clears. It returns ""
// if the score clears no configured threshold.
func Classify(score float64, thresholds []Threshold) string {
	sorted := append([]Threshold{}, thresholds...)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i].MinScore > sorted[j].MinScore })
	for _, t := range sorted {
		if score >= t.MinScore {
			return t.Label
		}
	}
	return ""
}
