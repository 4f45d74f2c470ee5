package fake

import (
	"context"
	"testing"
	"time"

	"github.com/vaak-ai/voicecore/pkg/rtc"
)

func frame(t *testing.T) *rtc.AudioFrame {
	t.Helper()
	f, err := rtc.NewAudioFrame(make([]byte, 320), rtc.SampleFormatPCM16, 16000, 1, 0, time.Time{})
	if err != nil {
		t.Fatalf("NewAudioFrame() error = %v", err)
	}
	return f
}

func TestFakeVADCapabilities(t *testing.T) {
	v := New(0.5)
	caps := v.Capabilities()

	if len(caps.SampleRates) == 0 {
		t.Error("expected SampleRates to be non-empty")
	}
	if caps.UpdateInterval <= 0 {
		t.Error("expected UpdateInterval to be positive")
	}
}

func TestFakeVADScriptedSequence(t *testing.T) {
	v := New(0.1, 0.9, 0.9, 0.2)
	ctx := context.Background()
	f := frame(t)

	want := []float64{0.1, 0.9, 0.9, 0.2}
	for i, w := range want {
		got, err := v.ClassifyFrame(ctx, f)
		if err != nil {
			t.Fatalf("ClassifyFrame() iteration %d error = %v", i, err)
		}
		if got != w {
			t.Errorf("iteration %d: got %v, want %v", i, got, w)
		}
	}
	if v.Calls() != len(want) {
		t.Errorf("Calls() = %d, want %d", v.Calls(), len(want))
	}
}

func TestFakeVADRepeatsLastValueOnceExhausted(t *testing.T) {
	v := New(0.3, 0.7)
	ctx := context.Background()
	f := frame(t)

	for i := 0; i < 2; i++ {
		if _, err := v.ClassifyFrame(ctx, f); err != nil {
			t.Fatalf("ClassifyFrame() error = %v", err)
		}
	}
	got, err := v.ClassifyFrame(ctx, f)
	if err != nil {
		t.Fatalf("ClassifyFrame() error = %v", err)
	}
	if got != 0.7 {
		t.Errorf("got %v, want 0.7 (last scripted value repeated)", got)
	}
}

func TestFakeVADEmptyScriptReportsSilence(t *testing.T) {
	v := New()
	got, err := v.ClassifyFrame(context.Background(), frame(t))
	if err != nil {
		t.Fatalf("ClassifyFrame() error = %v", err)
	}
	if got != 0 {
		t.Errorf("got %v, want 0", got)
	}
}
