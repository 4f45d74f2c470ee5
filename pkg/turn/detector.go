// Package turn detects speech start/end and turn-end from a stream of
// audio frames, a frame-level VAD backend, and the latest stable
// transcript text. It never talks to a backend directly beyond the VAD and
// CompletionScorer interfaces it is constructed with.
package turn

import (
	"context"
	"errors"

	"github.com/vaak-ai/voicecore/pkg/ai/vad"
	"github.com/vaak-ai/voicecore/pkg/rtc"
)

// Event is the outcome of observing one audio frame.
type Event int

const (
	EventNone Event = iota
	EventTurnStart
	EventTurnEnd
	EventBargeIn
)

func (e Event) String() string {
	switch e {
	case EventTurnStart:
		return "TurnStart"
	case EventTurnEnd:
		return "TurnEnd"
	case EventBargeIn:
		return "BargeIn"
	default:
		return "None"
	}
}

// Config holds the thresholds that drive turn detection. All are expected
// to be loaded from domain configuration, never hardcoded by a caller.
type Config struct {
	SpeechThresholdStart float64 // frame speech probability to count toward TurnStart
	SpeechThresholdEnd   float64 // frame speech probability below which silence accrues
	MinSpeechFrames      int     // consecutive frames above threshold before TurnStart
	MinSilenceFrames     int     // consecutive frames below threshold before a TurnEnd candidate
	ShortSilenceMS       int64   // required silence when the completion score clears CompletionThreshold
	LongSilenceMS        int64   // required silence otherwise
	CompletionThreshold  float64 // scorer output at/above which ShortSilenceMS applies
	FrameDurationMS      int64   // audio duration represented by one ClassifyFrame call
}

// DefaultConfig matches the spec's example timings: 200ms short silence,
// 1000ms long silence.
func DefaultConfig() Config {
	return Config{
		SpeechThresholdStart: 0.5,
		SpeechThresholdEnd:   0.35,
		MinSpeechFrames:      3,
		MinSilenceFrames:     7,
		ShortSilenceMS:       200,
		LongSilenceMS:        1000,
		CompletionThreshold:  0.5,
		FrameDurationMS:      30,
	}
}

type state int

const (
	stateIdle state = iota
	stateInSpeech
)

// Detector is a single-stream, single-goroutine-owned turn detector. It is
// not safe for concurrent use from multiple goroutines.
type Detector struct {
	cfg    Config
	vad    vad.VAD
	scorer CompletionScorer

	state      state
	speechRun  int
	silenceRun int
	silenceMS  int64
	ttsActive  bool
}

// New creates a Detector backed by a frame-level VAD and a completion
// scorer. Pass HeuristicScorer{} for the pure-heuristic fallback.
func New(cfg Config, backend vad.VAD, scorer CompletionScorer) *Detector {
	if scorer == nil {
		scorer = HeuristicScorer{}
	}
	return &Detector{cfg: cfg, vad: backend, scorer: scorer}
}

// SetTTSActive marks whether the system is currently speaking, which turns
// a would-be TurnStart into a BargeIn instead.
func (d *Detector) SetTTSActive(active bool) {
	d.ttsActive = active
}

// Observe classifies one audio frame against the current state machine and
// returns at most one Event. latestStableText/langCode feed the
// grammatical-completion heuristic; pass the most recent stable
// TranscriptSegment text accumulated for the in-progress utterance.
//
// A non-nil error means a backend (VAD or scorer) degraded; Observe still
// returns a best-effort Event computed with the failed signal treated as
// its most conservative value, matching the spec's "degrade to pure
// silence-timeout mode" rule. Callers should surface the error as a
// Signal, not abort.
func (d *Detector) Observe(ctx context.Context, f *rtc.AudioFrame, latestStableText, langCode string) (Event, error) {
	prob, vadErr := d.vad.ClassifyFrame(ctx, f)
	if vadErr != nil {
		prob = 0
	}

	switch d.state {
	case stateIdle:
		if prob >= d.cfg.SpeechThresholdStart {
			d.speechRun++
		} else {
			d.speechRun = 0
		}
		if d.speechRun < d.cfg.MinSpeechFrames {
			return EventNone, vadErr
		}

		d.state = stateInSpeech
		d.speechRun = 0
		d.silenceRun = 0
		d.silenceMS = 0

		if d.ttsActive {
			return EventBargeIn, vadErr
		}
		return EventTurnStart, vadErr

	case stateInSpeech:
		if prob < d.cfg.SpeechThresholdEnd {
			d.silenceRun++
			d.silenceMS += d.cfg.FrameDurationMS
		} else {
			d.silenceRun = 0
			d.silenceMS = 0
		}

		if d.silenceRun < d.cfg.MinSilenceFrames {
			return EventNone, vadErr
		}

		score, scoreErr := d.scorer.Score(ctx, latestStableText, langCode)
		if scoreErr != nil {
			score = 0
		}

		required := d.cfg.LongSilenceMS
		if score >= d.cfg.CompletionThreshold {
			required = d.cfg.ShortSilenceMS
		}
		if d.silenceMS < required {
			return EventNone, errors.Join(vadErr, scoreErr)
		}

		d.state = stateIdle
		d.speechRun = 0
		d.silenceRun = 0
		d.silenceMS = 0
		return EventTurnEnd, errors.Join(vadErr, scoreErr)
	}
	return EventNone, vadErr
}

// InSpeech reports whether the detector currently believes speech is
// ongoing.
func (d *Detector) InSpeech() bool {
	return d.state == stateInSpeech
}
