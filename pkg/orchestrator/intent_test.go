package orchestrator

import "testing"

func TestIntentDetectorMatchesFirstPattern(t *testing.T) {
	d, err := NewIntentDetector([]IntentPattern{
		{Intent: "loan_request", Regex: `(?i)loan|karz`},
		{Intent: "complaint", Regex: `(?i)complain`},
	})
	if err != nil {
		t.Fatalf("NewIntentDetector: %v", err)
	}
	if got := d.Detect("I need a loan please"); got != "loan_request" {
		t.Fatalf("expected loan_request, got %q", got)
	}
}

func TestIntentDetectorNoMatchReturnsEmpty(t *testing.T) {
	d, _ := NewIntentDetector([]IntentPattern{{Intent: "loan_request", Regex: `loan`}})
	if got := d.Detect("what's the weather"); got != "" {
		t.Fatalf("expected no intent, got %q", got)
	}
}

func TestNewIntentDetectorRejectsBadRegex(t *testing.T) {
	_, err := NewIntentDetector([]IntentPattern{{Intent: "x", Regex: "("}})
	if err == nil {
		t.Fatal("expected compile error for invalid regex")
	}
}
