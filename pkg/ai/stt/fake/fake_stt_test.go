package fake

import (
	"context"
	"testing"
	"time"

	"github.com/vaak-ai/voicecore/pkg/ai/stt"
	"github.com/vaak-ai/voicecore/pkg/rtc"
)

func testFrame(t *testing.T) *rtc.AudioFrame {
	t.Helper()
	f, err := rtc.NewAudioFrame(make([]byte, 320), rtc.SampleFormatPCM16, 16000, 1, 0, time.Time{})
	if err != nil {
		t.Fatalf("NewAudioFrame() error = %v", err)
	}
	return f
}

func TestFakeSTTCapabilities(t *testing.T) {
	provider := New("test")
	caps := provider.Capabilities()

	if len(caps.SupportedLanguages) == 0 {
		t.Error("expected SupportedLanguages to be non-empty")
	}
	if len(caps.SampleRates) == 0 {
		t.Error("expected SampleRates to be non-empty")
	}
}

func TestFakeSTTStreamFinalizesWithTranscript(t *testing.T) {
	transcript := "hello world"
	provider := New(transcript)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	s, err := provider.StartStream(ctx, stt.StreamConfig{SampleRate: 16000, NumChannels: 1, Language: "en-IN"})
	if err != nil {
		t.Fatalf("StartStream() error = %v", err)
	}

	f := testFrame(t)
	for i := 0; i < 15; i++ {
		if err := s.Push(f); err != nil {
			t.Fatalf("Push() error = %v", err)
		}
	}

	segs, err := s.Finalize(ctx)
	if err != nil {
		t.Fatalf("Finalize() error = %v", err)
	}
	if len(segs) != 1 || segs[0].Text != transcript || !segs[0].Stable {
		t.Fatalf("unexpected final segments: %+v", segs)
	}
}

func TestFakeSTTPushAfterCloseFails(t *testing.T) {
	provider := New("test")
	ctx := context.Background()

	s, err := provider.StartStream(ctx, stt.StreamConfig{SampleRate: 16000, NumChannels: 1})
	if err != nil {
		t.Fatalf("StartStream() error = %v", err)
	}
	if _, err := s.Finalize(ctx); err != nil {
		t.Fatalf("Finalize() error = %v", err)
	}

	if err := s.Push(testFrame(t)); err == nil {
		t.Error("expected error pushing to a finalized stream")
	}
}

func TestFakeSTTCancelClosesSegmentsWithoutFinal(t *testing.T) {
	provider := New("test")
	ctx := context.Background()

	s, err := provider.StartStream(ctx, stt.StreamConfig{SampleRate: 16000, NumChannels: 1})
	if err != nil {
		t.Fatalf("StartStream() error = %v", err)
	}
	s.Cancel()

	segs, err := s.Finalize(ctx)
	if err != nil {
		t.Fatalf("Finalize() error = %v", err)
	}
	if segs != nil {
		t.Errorf("expected no final segments after Cancel, got %+v", segs)
	}

	if _, ok := <-s.Segments(); ok {
		t.Error("expected Segments() channel to be closed after Cancel")
	}
}
