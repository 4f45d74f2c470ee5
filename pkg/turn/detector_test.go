package turn

import (
	"context"
	"testing"
	"time"

	vadfake "github.com/vaak-ai/voicecore/pkg/ai/vad/fake"
	"github.com/vaak-ai/voicecore/pkg/rtc"
)

func audioFrame(t *testing.T) *rtc.AudioFrame {
	t.Helper()
	f, err := rtc.NewAudioFrame(make([]byte, 320), rtc.SampleFormatPCM16, 16000, 1, 0, time.Time{})
	if err != nil {
		t.Fatalf("NewAudioFrame() error = %v", err)
	}
	return f
}

func observeN(t *testing.T, d *Detector, probs []float64, text, lang string) []Event {
	t.Helper()
	var events []Event
	for range probs {
		// frame values are driven by the fake VAD's script, not the frame
		// contents itself.
		ev, err := d.Observe(context.Background(), audioFrame(t), text, lang)
		if err != nil {
			t.Fatalf("Observe() error = %v", err)
		}
		events = append(events, ev)
	}
	return events
}

func TestTurnStartRequiresMinSpeechFrames(t *testing.T) {
	cfg := DefaultConfig()
	cfg.MinSpeechFrames = 3
	v := vadfake.New(0.9, 0.9, 0.2, 0.9, 0.9, 0.9)
	d := New(cfg, v, HeuristicScorer{})

	events := observeN(t, d, []float64{0, 0, 0, 0, 0, 0}, "", "en-IN")

	count := 0
	for _, e := range events {
		if e == EventTurnStart {
			count++
		}
	}
	if count != 1 {
		t.Fatalf("expected exactly one TurnStart after the run is broken and restarted, got %d in %v", count, events)
	}
	if events[5] != EventTurnStart {
		t.Errorf("expected TurnStart at the 6th frame, got sequence %v", events)
	}
}

func TestSilenceShorterThanMinNeverYieldsTurnEnd(t *testing.T) {
	cfg := DefaultConfig()
	cfg.MinSpeechFrames = 1
	cfg.MinSilenceFrames = 5
	v := vadfake.New(0.9, 0.1, 0.1, 0.1)
	d := New(cfg, v, HeuristicScorer{})

	events := observeN(t, d, []float64{0, 0, 0, 0}, "hello", "en-IN")
	for _, e := range events {
		if e == EventTurnEnd {
			t.Fatalf("TurnEnd fired before MinSilenceFrames elapsed: %v", events)
		}
	}
}

func TestGrammaticalTerminatorShortensRequiredSilence(t *testing.T) {
	cfg := DefaultConfig()
	cfg.MinSpeechFrames = 1
	cfg.MinSilenceFrames = 1
	cfg.FrameDurationMS = 100
	cfg.ShortSilenceMS = 100
	cfg.LongSilenceMS = 1000

	v := vadfake.New(0.9, 0.1)
	d := New(cfg, v, HeuristicScorer{})

	events := observeN(t, d, []float64{0, 0}, "मुझे पाँच लाख चाहिए।", "hi-IN")
	if events[1] != EventTurnEnd {
		t.Fatalf("expected TurnEnd at short silence with terminator present, got %v", events)
	}
}

func TestNoTerminatorRequiresLongerSilence(t *testing.T) {
	cfg := DefaultConfig()
	cfg.MinSpeechFrames = 1
	cfg.MinSilenceFrames = 1
	cfg.FrameDurationMS = 100
	cfg.ShortSilenceMS = 100
	cfg.LongSilenceMS = 300

	v := vadfake.New(0.9, 0.1, 0.1, 0.1)
	d := New(cfg, v, HeuristicScorer{})

	events := observeN(t, d, []float64{0, 0, 0, 0}, "मुझे पाँच लाख चाहिए", "hi-IN")
	if events[1] == EventTurnEnd {
		t.Fatalf("TurnEnd fired too early without a terminator: %v", events)
	}
	if events[3] != EventTurnEnd {
		t.Fatalf("expected TurnEnd once long silence elapsed, got %v", events)
	}
}

func TestTurnStartBecomesBargeInWhenTTSActive(t *testing.T) {
	cfg := DefaultConfig()
	cfg.MinSpeechFrames = 2
	v := vadfake.New(0.9, 0.9)
	d := New(cfg, v, HeuristicScorer{})
	d.SetTTSActive(true)

	events := observeN(t, d, []float64{0, 0}, "", "en-IN")
	if events[1] != EventBargeIn {
		t.Fatalf("expected BargeIn while TTS active, got %v", events)
	}
}
