// Package stt wraps an ai/stt backend with the incremental
// stable/unstable transcript accumulation the pipeline needs: stable text
// is append-only, the unstable suffix is replaced wholesale as better
// guesses arrive, and the whole thing resets per utterance.
package stt

import (
	"context"
	"strings"
	"sync"

	"github.com/vaak-ai/voicecore/pkg/ai/stt"
	"github.com/vaak-ai/voicecore/pkg/rtc"
)

// Utterance is the finalized result of one user turn.
type Utterance struct {
	Text     string
	Language string
	StartMS  int64
	EndMS    int64
}

// Accumulator owns the incremental transcript state for a single
// in-progress utterance. It must only be driven by the goroutine owning
// the underlying stream; Snapshot is the sanctioned way for other
// goroutines to read current state.
type Accumulator struct {
	mu         sync.Mutex
	stableText strings.Builder
	unstable   string
	language   string
	startMS    int64
	endMS      int64
	haveStart  bool
}

// NewAccumulator creates an empty accumulator.
func NewAccumulator() *Accumulator {
	return &Accumulator{}
}

// Push applies one incremental segment from the backend. A stable segment
// is appended to the stable prefix and clears any unstable suffix the
// backend had previously guessed; an unstable segment replaces the
// previous unstable guess wholesale.
func (a *Accumulator) Push(seg stt.Segment) {
	a.mu.Lock()
	defer a.mu.Unlock()

	if seg.Stable {
		a.stableText.WriteString(seg.Text)
		a.unstable = ""
	} else {
		a.unstable = seg.Text
	}
	if seg.Language != "" {
		a.language = seg.Language
	}
	if !a.haveStart || seg.StartMS < a.startMS {
		a.startMS = seg.StartMS
		a.haveStart = true
	}
	if seg.EndMS > a.endMS {
		a.endMS = seg.EndMS
	}
}

// Snapshot returns the current best-guess text (stable prefix + unstable
// suffix) and the stable-only prefix, without mutating state.
func (a *Accumulator) Snapshot() (full string, stableOnly string) {
	a.mu.Lock()
	defer a.mu.Unlock()
	stableOnly = a.stableText.String()
	return stableOnly + a.unstable, stableOnly
}

// Finalize returns the accumulated utterance and resets the accumulator
// for the next turn.
func (a *Accumulator) Finalize() Utterance {
	a.mu.Lock()
	defer a.mu.Unlock()

	u := Utterance{
		Text:     strings.TrimSpace(a.stableText.String() + a.unstable),
		Language: a.language,
		StartMS:  a.startMS,
		EndMS:    a.endMS,
	}
	a.resetLocked()
	return u
}

// DiscardIfShort clears accumulated state and reports true when the
// current text is shorter than minChars runes, the rule used on BargeIn so
// a barely-started partial is not treated as a real interruption.
func (a *Accumulator) DiscardIfShort(minChars int) bool {
	a.mu.Lock()
	defer a.mu.Unlock()

	combined := a.stableText.String() + a.unstable
	if len([]rune(combined)) < minChars {
		a.resetLocked()
		return true
	}
	return false
}

func (a *Accumulator) resetLocked() {
	a.stableText.Reset()
	a.unstable = ""
	a.language = ""
	a.startMS = 0
	a.endMS = 0
	a.haveStart = false
}

// Engine drives one ai/stt backend stream and keeps an Accumulator in sync
// with its incremental segments.
type Engine struct {
	backend stt.STT
	acc     *Accumulator

	mu     sync.Mutex
	stream stt.Stream
	done   chan struct{}
}

// NewEngine creates an Engine over backend.
func NewEngine(backend stt.STT) *Engine {
	return &Engine{backend: backend, acc: NewAccumulator()}
}

// Start opens a new recognition stream for one utterance and begins
// draining its segments into the accumulator.
func (e *Engine) Start(ctx context.Context, cfg stt.StreamConfig) error {
	s, err := e.backend.StartStream(ctx, cfg)
	if err != nil {
		return err
	}

	e.mu.Lock()
	e.stream = s
	e.done = make(chan struct{})
	e.mu.Unlock()

	go e.drain(s, e.done)
	return nil
}

func (e *Engine) drain(s stt.Stream, done chan struct{}) {
	defer close(done)
	for seg := range s.Segments() {
		e.acc.Push(seg)
	}
}

// Push forwards one audio frame to the active stream.
func (e *Engine) Push(f *rtc.AudioFrame) error {
	e.mu.Lock()
	s := e.stream
	e.mu.Unlock()
	if s == nil {
		return nil
	}
	return s.Push(f)
}

// Snapshot returns the current best-guess transcript without finalizing.
func (e *Engine) Snapshot() (full string, stableOnly string) {
	return e.acc.Snapshot()
}

// FinalizeOnTurnEnd signals end of audio, waits for the backend to flush,
// and returns the finalized Utterance.
func (e *Engine) FinalizeOnTurnEnd(ctx context.Context) (Utterance, error) {
	e.mu.Lock()
	s := e.stream
	e.mu.Unlock()
	if s == nil {
		return Utterance{}, nil
	}

	segs, err := s.Finalize(ctx)
	for _, seg := range segs {
		e.acc.Push(seg)
	}
	<-e.done
	return e.acc.Finalize(), err
}

// CancelOnBargeIn aborts the in-flight stream immediately and discards the
// accumulated partial if it is shorter than minBargeInChars, per the
// spec's min_barge_in_transcript_chars rule. It reports whether the
// partial was discarded.
func (e *Engine) CancelOnBargeIn(minBargeInChars int) bool {
	e.mu.Lock()
	s := e.stream
	e.mu.Unlock()
	if s != nil {
		s.Cancel()
	}
	return e.acc.DiscardIfShort(minBargeInChars)
}
