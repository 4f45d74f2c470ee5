// Package stt defines the contract the core requires from a speech-to-text
// backend: start a stream, push audio, and finalize into stable/unstable
// transcript segments. pkg/stt.Accumulator consumes this; concrete backends
// live under pkg/providers/stt.
package stt

import (
	"context"

	"github.com/vaak-ai/voicecore/pkg/ai"
	"github.com/vaak-ai/voicecore/pkg/rtc"
)

var (
	ErrRecoverable = ai.ErrRecoverable
	ErrFatal       = ai.ErrFatal
)

// StreamConfig configures a single recognition stream.
type StreamConfig struct {
	SampleRate  int
	NumChannels int
	Language    string
}

// Segment is one incremental recognition result. Once Stable is true its
// Text is append-only; unstable segments may be replaced wholesale by a
// later segment covering the same span.
type Segment struct {
	Text       string
	Stable     bool
	StartMS    int64
	EndMS      int64
	Confidence float64
	Language   string
}

// Capabilities describes what a backend supports.
type Capabilities struct {
	SupportedLanguages []string
	SampleRates        []int
}

// STT is the contract a speech-to-text backend must satisfy.
type STT interface {
	// StartStream opens a new recognition session for one utterance turn.
	StartStream(ctx context.Context, cfg StreamConfig) (Stream, error)

	Capabilities() Capabilities
}

// Stream is a single in-flight recognition session.
type Stream interface {
	// Push sends one audio frame for recognition.
	Push(frame *rtc.AudioFrame) error

	// Segments delivers incremental results as they become available. The
	// channel closes when the stream finalizes or the context is cancelled.
	Segments() <-chan Segment

	// Finalize signals end of audio and returns the final stable segments,
	// blocking until the backend flushes any buffered audio.
	Finalize(ctx context.Context) ([]Segment, error)

	// Cancel aborts the stream immediately, used on barge-in; no further
	// segments are guaranteed after Cancel returns.
	Cancel()
}
