package speculative

import "github.com/agnivade/levenshtein"

// withinTolerance reports whether the accepted final transcript is close
// enough to the speculated prefix to keep the speculation's result,
// computing Levenshtein edit distance as a fraction of the final
// transcript's length against a configured tolerance ratio.
func withinTolerance(speculatedPrefix, finalTranscript string, toleranceRatio float64) bool {
	if finalTranscript == "" {
		return speculatedPrefix == ""
	}
	distance := levenshtein.ComputeDistance(speculatedPrefix, finalTranscript)
	ratio := float64(distance) / float64(len([]rune(finalTranscript)))
	return ratio <= toleranceRatio
}
