// Package fake provides a deterministic TTS double that synthesizes a sine
// tone instead of calling a real backend.
package fake

import (
	"context"
	"math"
	"time"

	"github.com/vaak-ai/voicecore/pkg/ai/tts"
	"github.com/vaak-ai/voicecore/pkg/rtc"
)

const frameDuration = 10 * time.Millisecond

// TTS synthesizes a sine tone scaled to the requested text length, enough to
// exercise interrupt-mode and frame-consumption logic without a real model.
type TTS struct{}

// New creates a fake TTS backend.
func New() *TTS { return &TTS{} }

func (f *TTS) Synthesize(ctx context.Context, req tts.SynthesizeRequest) (<-chan *rtc.AudioFrame, error) {
	out := make(chan *rtc.AudioFrame, 10)

	sampleRate := req.SampleRate
	if sampleRate == 0 {
		sampleRate = 48000
	}
	samplesPerFrame := sampleRate / 100
	frameCount := len(req.Text) * 10
	const frequency = 220.0

	go func() {
		defer close(out)
		for i := 0; i < frameCount; i++ {
			select {
			case <-ctx.Done():
				return
			default:
			}

			samples := make([]float64, samplesPerFrame)
			for j := range samples {
				t := float64(i*samplesPerFrame+j) / float64(sampleRate)
				samples[j] = 0.3 * math.Sin(2*math.Pi*frequency*t)
			}

			frame, err := rtc.NewAudioFrame(rtc.EncodePCM16(samples), rtc.SampleFormatPCM16, sampleRate, 1, uint64(i), time.Time{})
			if err != nil {
				return
			}

			select {
			case out <- frame:
			case <-ctx.Done():
				return
			}
		}
	}()

	return out, nil
}

func (f *TTS) Capabilities() tts.Capabilities {
	return tts.Capabilities{
		SupportedLanguages: []string{"hi-IN", "en-IN", "ta-IN", "te-IN", "bn-IN"},
		SupportedVoices:    []string{"fake-voice-1", "fake-voice-2"},
		SampleRates:        []int{8000, 16000, 24000, 48000},
	}
}
