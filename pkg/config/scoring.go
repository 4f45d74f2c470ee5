package config

import "github.com/vaak-ai/voicecore/pkg/scoring"

// Weights converts the loaded scoring.yaml table into the shape
// pkg/scoring consumes.
func (s Scoring) Weights() scoring.Weights {
	thresholds := make([]scoring.Threshold, 0, len(s.Thresholds))
	for _, t := range s.Thresholds {
		thresholds = append(thresholds, scoring.Threshold{MinScore: t.MinScore, Label: t.Label})
	}
	return scoring.Weights{
		SlotWeights:   s.SlotWeights,
		SignalWeights: s.SignalWeights,
		StageWeights:  s.StageWeights,
		Thresholds:    thresholds,
	}
}
