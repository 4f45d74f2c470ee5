package speculative

import "testing"

func TestWithinToleranceAcceptsCloseMatch(t *testing.T) {
	if !withinTolerance("mujhe paanch lakh chahiye", "mujhe paanch lakh chahiye", 0.1) {
		t.Fatal("expected identical strings to be within tolerance")
	}
}

func TestWithinToleranceRejectsFarMismatch(t *testing.T) {
	if withinTolerance("mujhe paanch lakh chahiye", "mujhe paanch hazaar chahiye", 0.05) {
		t.Fatal("expected a large edit distance to exceed tolerance")
	}
}

func TestWithinToleranceHandlesEmptyFinalTranscript(t *testing.T) {
	if !withinTolerance("", "", 0.1) {
		t.Fatal("expected two empty strings to match")
	}
	if withinTolerance("something", "", 0.1) {
		t.Fatal("expected a non-empty prefix against an empty final transcript to fail")
	}
}
