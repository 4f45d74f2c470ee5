package openai

import (
	"context"
	"testing"

	"github.com/vaak-ai/voicecore/pkg/ai/tts"
)

func TestCapabilities(t *testing.T) {
	tt := New("test-key")
	caps := tt.Capabilities()
	if len(caps.SupportedVoices) == 0 {
		t.Fatal("expected non-empty supported voices")
	}
	if caps.SampleRates[0] != outputSampleRate {
		t.Fatalf("expected sample rate %d, got %v", outputSampleRate, caps.SampleRates)
	}
}

func TestSynthesizeEmptyTextProducesNoFrames(t *testing.T) {
	tt := New("test-key")
	frames, err := tt.Synthesize(context.Background(), tts.SynthesizeRequest{Text: ""})
	if err != nil {
		t.Fatalf("Synthesize: %v", err)
	}
	count := 0
	for range frames {
		count++
	}
	if count != 0 {
		t.Fatalf("expected no frames for empty text, got %d", count)
	}
}
