// Package openai adapts the OpenAI speech synthesis API to the ai/tts.TTS
// contract, requesting raw PCM so frames can be handed straight to the
// pipeline without an intermediate container format.
package openai

import (
	"context"
	"io"
	"time"

	goopenai "github.com/sashabaranov/go-openai"

	"github.com/vaak-ai/voicecore/pkg/ai"
	"github.com/vaak-ai/voicecore/pkg/ai/tts"
	"github.com/vaak-ai/voicecore/pkg/rtc"
)

// outputSampleRate is the rate OpenAI's PCM response format is documented
// to emit at.
const outputSampleRate = 24000

// frameSamples is the per-frame sample count at a 20ms frame size.
const frameSamples = outputSampleRate / 50

// TTS is an ai/tts.TTS backed by the OpenAI speech synthesis model.
type TTS struct {
	client *goopenai.Client
	model  goopenai.SpeechModel
}

// New creates a speech-backed TTS using apiKey.
func New(apiKey string) *TTS {
	return &TTS{client: goopenai.NewClient(apiKey), model: goopenai.TTSModel1HD}
}

func (t *TTS) Synthesize(ctx context.Context, req tts.SynthesizeRequest) (<-chan *rtc.AudioFrame, error) {
	out := make(chan *rtc.AudioFrame, 16)
	if req.Text == "" {
		close(out)
		return out, nil
	}

	voice := req.Voice
	if voice == "" {
		voice = "alloy"
	}
	speed := float64(req.Speed)
	if speed == 0 {
		speed = 1.0
	}

	resp, err := t.client.CreateSpeech(ctx, goopenai.CreateSpeechRequest{
		Model:          t.model,
		Input:          req.Text,
		Voice:          goopenai.SpeechVoice(voice),
		ResponseFormat: "pcm",
		Speed:          speed,
	})
	if err != nil {
		close(out)
		return out, ai.NewRecoverableError(err, "openai speech synthesis failed")
	}

	go func() {
		defer close(out)
		defer resp.Close()

		buf := make([]byte, frameSamples*2)
		var frameIdx uint64
		for {
			n, readErr := io.ReadFull(resp, buf)
			if n > 0 {
				frame, ferr := rtc.NewAudioFrame(append([]byte(nil), buf[:n]...), rtc.SampleFormatPCM16, outputSampleRate, 1, frameIdx, time.Time{})
				if ferr == nil {
					select {
					case out <- frame:
						frameIdx++
					case <-ctx.Done():
						return
					}
				}
			}
			if readErr != nil {
				return
			}
		}
	}()

	return out, nil
}

func (t *TTS) Capabilities() tts.Capabilities {
	return tts.Capabilities{
		SupportedLanguages: []string{"hi", "en", "ta", "te", "bn", "mr", "gu", "kn", "ml", "pa", "ur"},
		SupportedVoices:    []string{"alloy", "echo", "fable", "onyx", "nova", "shimmer"},
		SampleRates:        []int{outputSampleRate},
	}
}
