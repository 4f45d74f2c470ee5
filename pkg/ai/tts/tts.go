// Package tts defines the contract the core requires from a text-to-speech
// backend: synthesize normalized text into a stream of audio frames that
// can be cancelled mid-flight. Interrupt-mode policy (Immediate,
// WordBoundary, SentenceBoundary, Disabled) lives one layer up in pkg/tts;
// a backend only needs to honor context cancellation promptly.
package tts

import (
	"context"

	"github.com/vaak-ai/voicecore/pkg/ai"
	"github.com/vaak-ai/voicecore/pkg/rtc"
)

var (
	ErrRecoverable = ai.ErrRecoverable
	ErrFatal       = ai.ErrFatal
)

// SynthesizeRequest is normalized text (post G2P/number expansion) ready
// for synthesis.
type SynthesizeRequest struct {
	Text       string
	Voice      string
	Language   string
	SampleRate int
	Speed      float32
}

// Capabilities describes what a backend supports.
type Capabilities struct {
	SupportedLanguages []string
	SupportedVoices    []string
	SampleRates        []int
}

// TTS is the contract a text-to-speech backend must satisfy.
type TTS interface {
	// Synthesize streams audio frames for req. The channel closes when
	// synthesis completes or ctx is cancelled; cancellation must stop the
	// underlying network call, not merely stop draining the channel.
	Synthesize(ctx context.Context, req SynthesizeRequest) (<-chan *rtc.AudioFrame, error)

	Capabilities() Capabilities
}
