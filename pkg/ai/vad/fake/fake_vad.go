// Package fake provides a deterministic VAD double for tests that need to
// drive the turn detector without a real model backend.
package fake

import (
	"context"
	"time"

	"github.com/vaak-ai/voicecore/pkg/ai/vad"
	"github.com/vaak-ai/voicecore/pkg/rtc"
)

// VAD returns a scripted probability for each successive call, repeating
// the last value once the script is exhausted.
type VAD struct {
	Script []float64
	calls  int
}

// New creates a scripted fake VAD. An empty script always reports silence.
func New(script ...float64) *VAD {
	return &VAD{Script: script}
}

func (f *VAD) ClassifyFrame(ctx context.Context, frame *rtc.AudioFrame) (float64, error) {
	if len(f.Script) == 0 {
		return 0, nil
	}
	idx := f.calls
	if idx >= len(f.Script) {
		idx = len(f.Script) - 1
	}
	f.calls++
	return f.Script[idx], nil
}

func (f *VAD) Capabilities() vad.Capabilities {
	return vad.Capabilities{
		SampleRates:    []int{8000, 16000, 24000, 48000},
		UpdateInterval: 30 * time.Millisecond,
	}
}

// Calls reports how many times ClassifyFrame has been invoked.
func (f *VAD) Calls() int { return f.calls }
