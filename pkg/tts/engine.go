package tts

import (
	"context"
	"fmt"
	"sync"

	"github.com/vaak-ai/voicecore/pkg/ai/tts"
	"github.com/vaak-ai/voicecore/pkg/rtc"
	"github.com/vaak-ai/voicecore/pkg/voice"
)

// InterruptMode selects how an in-flight response reacts to BargeIn.
type InterruptMode int

const (
	// Immediate stops at the next frame boundary.
	Immediate InterruptMode = iota
	// WordBoundary finishes the word currently being emitted, then stops.
	WordBoundary
	// SentenceBoundary finishes the current sentence and discards the rest
	// of the turn's pending sentences.
	SentenceBoundary
	// Disabled ignores BargeIn entirely; the response completes.
	Disabled
)

func (m InterruptMode) String() string {
	switch m {
	case Immediate:
		return "immediate"
	case WordBoundary:
		return "word_boundary"
	case SentenceBoundary:
		return "sentence_boundary"
	case Disabled:
		return "disabled"
	default:
		return "unknown"
	}
}

// Sentence is one unit of text queued for synthesis.
type Sentence struct {
	Text     string
	Language string
}

// EventKind tags an Engine output event.
type EventKind int

const (
	EventFrame EventKind = iota
	EventCancelled
	EventSentenceError
	EventDone
)

// Event is emitted on the Engine's output channel as playback proceeds.
type Event struct {
	Kind       EventKind
	Frame      *rtc.AudioFrame
	PositionMS int64
	Sentence   string
	Err        error
}

// Engine synthesizes queued sentences through a backend and applies
// interrupt-mode policy when BargeIn is signaled mid-response.
type Engine struct {
	backend tts.TTS
	gate    voice.AudioGate
	mode    InterruptMode

	mu        sync.Mutex
	interrupt chan struct{}
}

// New creates an Engine over backend using gate to mute capture during
// playback and mode to govern BargeIn behavior.
func New(backend tts.TTS, gate voice.AudioGate, mode InterruptMode) *Engine {
	return &Engine{backend: backend, gate: gate, mode: mode}
}

// Interrupt signals BargeIn to any in-flight Speak call.
func (e *Engine) Interrupt() {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.interrupt != nil {
		close(e.interrupt)
		e.interrupt = nil
	}
}

// Speak synthesizes sentences in order and streams Events on the returned
// channel, which closes once every sentence completes, the context is
// cancelled, or an interrupt stops playback per the configured mode.
func (e *Engine) Speak(ctx context.Context, req tts.SynthesizeRequest, sentences []Sentence) <-chan Event {
	out := make(chan Event, 16)

	e.mu.Lock()
	e.interrupt = make(chan struct{})
	interrupt := e.interrupt
	e.mu.Unlock()

	go func() {
		defer close(out)
		e.gate.SetTTSPlaying(true)
		defer e.gate.SetTTSPlaying(false)

		var positionMS int64
		for _, sent := range sentences {
			if e.mode == Disabled {
				positionMS = e.speakSentence(ctx, nil, req, sent, positionMS, out)
				continue
			}

			stop := false
			positionMS, stop = e.speakSentenceInterruptible(ctx, interrupt, req, sent, positionMS, out)
			if stop {
				return
			}
		}
		out <- Event{Kind: EventDone, PositionMS: positionMS}
	}()

	return out
}

func (e *Engine) speakSentence(ctx context.Context, interrupt <-chan struct{}, req tts.SynthesizeRequest, sent Sentence, startMS int64, out chan<- Event) int64 {
	r := req
	r.Text = Normalize(sent.Text, sent.Language)
	r.Language = sent.Language

	frames, err := e.backend.Synthesize(ctx, r)
	if err != nil {
		out <- Event{Kind: EventSentenceError, Sentence: sent.Text, Err: fmt.Errorf("tts: synthesizing sentence: %w", err)}
		return startMS
	}

	pos := startMS
	for frame := range frames {
		select {
		case <-ctx.Done():
			return pos
		default:
		}
		out <- Event{Kind: EventFrame, Frame: frame, PositionMS: pos}
		pos += frame.Duration().Milliseconds()
	}
	return pos
}

// speakSentenceInterruptible emits one sentence's frames, applying
// WordBoundary/SentenceBoundary/Immediate policy if interrupt fires
// mid-sentence. Word boundaries are approximated by frame count (see
// framesPerWordEstimate) since the backend interface exposes no
// phoneme-level alignment.
func (e *Engine) speakSentenceInterruptible(ctx context.Context, interrupt <-chan struct{}, req tts.SynthesizeRequest, sent Sentence, startMS int64, out chan<- Event) (int64, bool) {
	r := req
	normalized := Normalize(sent.Text, sent.Language)
	r.Text = normalized
	r.Language = sent.Language

	frames, err := e.backend.Synthesize(ctx, r)
	if err != nil {
		out <- Event{Kind: EventSentenceError, Sentence: sent.Text, Err: fmt.Errorf("tts: synthesizing sentence: %w", err)}
		return startMS, false
	}

	pos := startMS
	framesSeen := 0
	interrupted := false
	for frame := range frames {
		select {
		case <-ctx.Done():
			return pos, true
		case <-interrupt:
			interrupted = true
		default:
		}

		if interrupted {
			switch e.mode {
			case Immediate:
				out <- Event{Kind: EventCancelled, PositionMS: pos}
				drain(frames)
				return pos, true
			case WordBoundary:
				if isWordBoundaryFrame(framesSeen) {
					out <- Event{Kind: EventCancelled, PositionMS: pos}
					drain(frames)
					return pos, true
				}
			case SentenceBoundary:
				// finish this sentence's frames, then stop queueing more.
			}
		}

		out <- Event{Kind: EventFrame, Frame: frame, PositionMS: pos}
		pos += frame.Duration().Milliseconds()
		framesSeen++
	}

	if interrupted && e.mode == SentenceBoundary {
		out <- Event{Kind: EventCancelled, PositionMS: pos}
		return pos, true
	}
	return pos, false
}

func drain(frames <-chan *rtc.AudioFrame) {
	for range frames {
	}
}

// framesPerWordEstimate approximates word duration at ~200ms per word for
// 10ms frames (the fake backend's frame size; the OpenAI adapter emits 20ms
// frames, so there it counts ~400ms), since the backend interface exposes
// no true phoneme-level word alignment.
const framesPerWordEstimate = 20

func isWordBoundaryFrame(framesSeen int) bool {
	return (framesSeen+1)%framesPerWordEstimate == 0
}
