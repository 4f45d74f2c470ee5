package persuasion

import (
	"strings"
	"testing"

	"github.com/vaak-ai/voicecore/pkg/frame"
)

func testDetector(t *testing.T) *Detector {
	t.Helper()
	d, err := NewDetector([]SignalPattern{
		{Kind: "price_objection", Language: "en", Regex: `(?i)too expensive|can't afford`, Weight: 1.0},
		{Kind: "trust_concern", Language: "en", Regex: `(?i)is this a scam|legit`, Weight: 0.8},
	})
	if err != nil {
		t.Fatalf("NewDetector: %v", err)
	}
	return d
}

func TestDetectorDetectsMatchingSignal(t *testing.T) {
	d := testDetector(t)
	signals := d.Detect("this is too expensive for me", "en", 1000)
	if len(signals) != 1 || signals[0].Kind != "price_objection" {
		t.Fatalf("expected one price_objection signal, got %+v", signals)
	}
}

func TestDetectorNoMatchReturnsEmpty(t *testing.T) {
	d := testDetector(t)
	signals := d.Detect("sounds good, let's proceed", "en", 1000)
	if len(signals) != 0 {
		t.Fatalf("expected no signals, got %+v", signals)
	}
}

func TestDetectorIgnoresOtherLanguages(t *testing.T) {
	d := testDetector(t)
	signals := d.Detect("too expensive", "hi", 1000)
	if len(signals) != 0 {
		t.Fatal("expected no signals for a language with no configured patterns")
	}
}

func TestObjectionResponseRenderIncludesAllParts(t *testing.T) {
	resp := ObjectionResponse{
		Acknowledge:  "I understand cost matters.",
		Reframe:      "Think of it as a monthly investment.",
		Evidence:     "Our customers save 20% on average.",
		CallToAction: "Would a longer tenure help lower the EMI?",
	}
	rendered := resp.Render()
	for _, part := range []string{"understand cost", "monthly investment", "save 20%", "longer tenure"} {
		if !strings.Contains(rendered, part) {
			t.Fatalf("expected rendered response to contain %q, got %q", part, rendered)
		}
	}
}

func TestBuildGuidanceRendersObjectionAndGenericSignals(t *testing.T) {
	lib := ObjectionLibrary{
		"price_objection": {Acknowledge: "ack", Reframe: "reframe", Evidence: "evidence", CallToAction: "cta"},
	}
	signals := []frame.Signal{
		{Kind: "price_objection", DetectedAtMS: 1},
		{Kind: "urgency", DetectedAtMS: 2},
	}
	out := BuildGuidance(signals, lib)
	if !strings.Contains(out, "ack") {
		t.Fatalf("expected ACRE response rendered, got %q", out)
	}
	if !strings.Contains(out, "urgency") {
		t.Fatalf("expected generic signal noted, got %q", out)
	}
}

func TestBuildGuidanceDedupesRepeatedSignalKinds(t *testing.T) {
	signals := []frame.Signal{{Kind: "urgency"}, {Kind: "urgency"}}
	out := BuildGuidance(signals, nil)
	if strings.Count(out, "urgency") != 1 {
		t.Fatalf("expected deduped output, got %q", out)
	}
}

func TestBuildGuidanceEmptyInputReturnsEmptyString(t *testing.T) {
	if out := BuildGuidance(nil, nil); out != "" {
		t.Fatalf("expected empty string for no signals, got %q", out)
	}
}
