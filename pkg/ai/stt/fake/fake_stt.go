// Package fake provides deterministic STT doubles for tests that need to
// drive pkg/stt.Accumulator and the orchestrator without a network backend.
package fake

import (
	"context"
	"fmt"
	"sync"

	"github.com/vaak-ai/voicecore/pkg/ai/stt"
	"github.com/vaak-ai/voicecore/pkg/rtc"
)

const (
	// InterimResultFrameInterval controls how often an unstable segment is
	// emitted while audio is still streaming in.
	InterimResultFrameInterval = 10
	// DefaultTranscript is used when no transcript is provided.
	DefaultTranscript = "this is a fake transcript from the fake STT backend"
)

// STT is a fixed-transcript fake speech recognizer for testing.
type STT struct {
	Transcript string
}

// New creates a fake STT backend with a fixed transcript.
func New(transcript string) *STT {
	if transcript == "" {
		transcript = DefaultTranscript
	}
	return &STT{Transcript: transcript}
}

func (f *STT) StartStream(ctx context.Context, cfg stt.StreamConfig) (stt.Stream, error) {
	return &stream{
		transcript: f.Transcript,
		language:   cfg.Language,
		events:     make(chan stt.Segment, 10),
	}, nil
}

func (f *STT) Capabilities() stt.Capabilities {
	return stt.Capabilities{
		SupportedLanguages: []string{"hi-IN", "en-IN", "ta-IN", "te-IN", "bn-IN"},
		SampleRates:        []int{8000, 16000, 24000, 48000},
	}
}

type stream struct {
	mu         sync.Mutex
	transcript string
	language   string
	events     chan stt.Segment
	frameCount int
	closed     bool
	cancelled  bool
}

func (s *stream) Push(frame *rtc.AudioFrame) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return fmt.Errorf("fake stt: stream is closed")
	}

	s.frameCount++
	if s.frameCount%InterimResultFrameInterval == 0 {
		end := min(len(s.transcript), s.frameCount/2)
		select {
		case s.events <- stt.Segment{
			Text:     s.transcript[:end],
			Stable:   false,
			EndMS:    int64(s.frameCount) * 10,
			Language: s.language,
		}:
		default:
		}
	}
	return nil
}

func (s *stream) Segments() <-chan stt.Segment {
	return s.events
}

func (s *stream) Finalize(ctx context.Context) ([]stt.Segment, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return nil, nil
	}
	s.closed = true
	close(s.events)

	if s.cancelled {
		return nil, nil
	}
	return []stt.Segment{{
		Text:       s.transcript,
		Stable:     true,
		EndMS:      int64(s.frameCount) * 10,
		Confidence: 0.95,
		Language:   s.language,
	}}, nil
}

func (s *stream) Cancel() {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.cancelled = true
	if !s.closed {
		s.closed = true
		close(s.events)
	}
}

func min(a, b int) int {
	if a < b {
		return a
	}
	return b
}
