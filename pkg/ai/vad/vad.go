// Package vad defines the contract the core requires from a frame-level
// voice-activity model: a speech probability per ~20-30ms audio frame.
// Turn-start/turn-end decision logic (thresholds, hysteresis, grammatical
// completion) lives one layer up in pkg/turn; a VAD backend only classifies.
package vad

import (
	"context"
	"time"

	"github.com/vaak-ai/voicecore/pkg/ai"
	"github.com/vaak-ai/voicecore/pkg/rtc"
)

var (
	ErrRecoverable = ai.ErrRecoverable
	ErrFatal       = ai.ErrFatal
)

// Capabilities describes what a VAD backend supports.
type Capabilities struct {
	SampleRates    []int
	UpdateInterval time.Duration // how much audio one ClassifyFrame call expects
}

// VAD is the contract a frame-level voice-activity backend must satisfy.
type VAD interface {
	// ClassifyFrame returns the probability in [0,1] that frame contains
	// speech.
	ClassifyFrame(ctx context.Context, frame *rtc.AudioFrame) (probability float64, err error)

	Capabilities() Capabilities
}
