package audit

import (
	"testing"
	"time"

	"github.com/vaak-ai/voicecore/pkg/tools"
)

func TestAppendChainsHashesAndVerifyPasses(t *testing.T) {
	l := NewLogger(DefaultConfig())

	first := l.Append("sess-1", "check_eligibility", []byte(`{"loan_amount":500000}`), tools.ToolResult{OK: true, LatencyMS: 12})
	second := l.Append("sess-1", "lookup_competitor", []byte(`{"name":"QuickLoan"}`), tools.ToolResult{OK: false, Error: "not found"})

	if first.PrevHash != "" {
		t.Fatalf("expected first entry to have no prev hash, got %q", first.PrevHash)
	}
	if second.PrevHash != first.Hash {
		t.Fatalf("expected second entry's PrevHash to equal first entry's Hash")
	}
	if idx := l.Verify(); idx != -1 {
		t.Fatalf("expected an intact chain, broke at index %d", idx)
	}
}

func TestVerifyDetectsTamperedEntry(t *testing.T) {
	l := NewLogger(DefaultConfig())
	l.Append("sess-1", "check_eligibility", []byte(`{}`), tools.ToolResult{OK: true})
	l.Append("sess-1", "lookup_competitor", []byte(`{}`), tools.ToolResult{OK: true})

	l.entries[0].ResultSummary = "tampered"

	if idx := l.Verify(); idx == -1 {
		t.Fatal("expected tampering to be detected")
	}
}

func TestPruneDropsEntriesOlderThanRetention(t *testing.T) {
	l := NewLogger(Config{RetentionDays: 30})
	l.entries = append(l.entries, Entry{
		Timestamp: time.Now().AddDate(0, 0, -31),
		Hash:      "stale",
	})

	l.Append("sess-1", "check_eligibility", []byte(`{}`), tools.ToolResult{OK: true})

	entries := l.Entries()
	if len(entries) != 1 {
		t.Fatalf("expected stale entry pruned, got %d entries", len(entries))
	}
}

func TestHookRecordsUnderBoundSessionID(t *testing.T) {
	l := NewLogger(DefaultConfig())
	hook := l.Hook("sess-42")
	hook("check_eligibility", []byte(`{"loan_amount":100000}`), tools.ToolResult{OK: true, LatencyMS: 5})

	entries := l.Entries()
	if len(entries) != 1 || entries[0].SessionID != "sess-42" {
		t.Fatalf("expected one entry bound to sess-42, got %+v", entries)
	}
}
