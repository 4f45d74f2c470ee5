// Package audit implements an append-only, tamper-evident log of every
// tool call a session executes. Each entry's hash covers the previous
// entry's hash, so altering or dropping a historical entry breaks every
// hash after it — the same SHA-256 chaining idiom the teacher uses to
// verify a downloaded model file, applied to a sequence instead of a blob.
package audit

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"github.com/vaak-ai/voicecore/pkg/tools"
)

// Entry is one recorded tool call, per spec.md §6's audit schema.
type Entry struct {
	Timestamp     time.Time `json:"ts"`
	SessionID     string    `json:"session_id"`
	Tool          string    `json:"tool"`
	ArgsHash      string    `json:"args_hash"`
	ResultSummary string    `json:"result_summary"`
	PrevHash      string    `json:"prev_hash"`
	Hash          string    `json:"hash"`
}

// Config controls retention and is always explicit; Logger never applies
// an undeclared default beyond DefaultConfig.
type Config struct {
	RetentionDays int
}

// DefaultConfig is the decided Open Question answer: SHA-256 over a
// 90-day retention window, both overridable per deployment.
func DefaultConfig() Config {
	return Config{RetentionDays: 90}
}

// Logger appends Entry records to an in-memory hash chain and prunes
// entries older than Config.RetentionDays on every Append.
type Logger struct {
	cfg Config

	mu      sync.Mutex
	entries []Entry
	last    string
}

// NewLogger creates a Logger with the given retention configuration.
func NewLogger(cfg Config) *Logger {
	if cfg.RetentionDays <= 0 {
		cfg.RetentionDays = DefaultConfig().RetentionDays
	}
	return &Logger{cfg: cfg}
}

// Append records one tool call, chaining its hash onto the previous entry
// and dropping anything older than the configured retention window.
func (l *Logger) Append(sessionID, tool string, arguments []byte, result tools.ToolResult) Entry {
	l.mu.Lock()
	defer l.mu.Unlock()

	now := time.Now().UTC()
	argsHash := hashBytes(arguments)
	summary := summarize(result)

	entry := Entry{
		Timestamp:     now,
		SessionID:     sessionID,
		Tool:          tool,
		ArgsHash:      argsHash,
		ResultSummary: summary,
		PrevHash:      l.last,
	}
	entry.Hash = chainHash(entry)

	l.entries = append(l.entries, entry)
	l.last = entry.Hash
	l.prune(now)
	return entry
}

// Entries returns every retained entry, oldest first.
func (l *Logger) Entries() []Entry {
	l.mu.Lock()
	defer l.mu.Unlock()
	out := make([]Entry, len(l.entries))
	copy(out, l.entries)
	return out
}

// Verify walks the retained chain and reports the index of the first
// entry whose Hash doesn't match its recomputed value, or -1 if the
// entire retained chain is intact. A gap from pruning is not a tamper
// signal: Verify only checks internal consistency of what remains.
func (l *Logger) Verify() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	for i, e := range l.entries {
		if i > 0 && e.PrevHash != l.entries[i-1].Hash {
			return i
		}
		if chainHash(e) != e.Hash {
			return i
		}
	}
	return -1
}

func (l *Logger) prune(now time.Time) {
	cutoff := now.AddDate(0, 0, -l.cfg.RetentionDays)
	i := 0
	for i < len(l.entries) && l.entries[i].Timestamp.Before(cutoff) {
		i++
	}
	if i > 0 {
		l.entries = l.entries[i:]
	}
}

// Hook returns a tools.AuditFunc bound to sessionID, suitable for
// tools.NewRegistry(logger.Hook(sessionID)) when a deployment wants a
// per-session tool-call trail.
func (l *Logger) Hook(sessionID string) tools.AuditFunc {
	return func(name string, arguments json.RawMessage, result tools.ToolResult) {
		l.Append(sessionID, name, arguments, result)
	}
}

func hashBytes(b []byte) string {
	sum := sha256.Sum256(b)
	return hex.EncodeToString(sum[:])
}

func chainHash(e Entry) string {
	h := sha256.New()
	fmt.Fprintf(h, "%d|%s|%s|%s|%s|%s",
		e.Timestamp.UnixNano(), e.SessionID, e.Tool, e.ArgsHash, e.ResultSummary, e.PrevHash)
	return hex.EncodeToString(h.Sum(nil))
}

// summarize renders a short, non-sensitive description of a tool result
// for the log — the full value is never stored, only its hash-adjacent
// outcome, since audit entries may be retained and reviewed long after
// the arguments that produced them stop being relevant.
func summarize(result tools.ToolResult) string {
	if result.OK {
		return fmt.Sprintf("ok latency_ms=%d", result.LatencyMS)
	}
	return fmt.Sprintf("error=%s", result.Error)
}
