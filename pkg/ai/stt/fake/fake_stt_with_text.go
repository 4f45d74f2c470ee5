package fake

import (
	"context"
	"sync"

	"github.com/vaak-ai/voicecore/pkg/ai/stt"
	"github.com/vaak-ai/voicecore/pkg/rtc"
)

// STTWithText cycles through a fixed set of realistic transcripts instead of
// always returning the same one, useful for exercising DST slot extraction
// against varied utterances.
type STTWithText struct {
	mu        sync.Mutex
	Responses []string
	index     int
}

// NewWithText creates a fake STT that cycles through sample Hindi/English
// code-switched responses when no custom set is supplied.
func NewWithText(responses ...string) *STTWithText {
	if len(responses) == 0 {
		responses = []string{
			"namaste, mujhe ek loan chahiye",
			"how much EMI will I have to pay every month?",
			"theek hai, main interested hoon",
			"can you repeat the interest rate please?",
			"nahi, abhi nahi, baad mein call karna",
		}
	}
	return &STTWithText{Responses: responses}
}

func (f *STTWithText) StartStream(ctx context.Context, cfg stt.StreamConfig) (stt.Stream, error) {
	return &textStream{parent: f, events: make(chan stt.Segment, 10), language: cfg.Language}, nil
}

func (f *STTWithText) Capabilities() stt.Capabilities {
	return stt.Capabilities{
		SupportedLanguages: []string{"hi-IN", "en-IN"},
		SampleRates:        []int{8000, 16000, 24000, 48000},
	}
}

func (f *STTWithText) next() string {
	f.mu.Lock()
	defer f.mu.Unlock()
	r := f.Responses[f.index]
	f.index = (f.index + 1) % len(f.Responses)
	return r
}

type textStream struct {
	parent     *STTWithText
	events     chan stt.Segment
	language   string
	frameCount int
	generated  bool
	closed     bool
}

func (s *textStream) Push(frame *rtc.AudioFrame) error {
	s.frameCount++

	if s.frameCount == 50 && !s.generated {
		s.generated = true
		response := s.parent.next()

		partial := response
		if len(partial) > 5 {
			partial = partial[:5] + "..."
		}
		select {
		case s.events <- stt.Segment{Text: partial, Stable: false, EndMS: int64(s.frameCount) * 10, Language: s.language}:
		default:
		}
		select {
		case s.events <- stt.Segment{Text: response, Stable: true, EndMS: int64(s.frameCount+20) * 10, Confidence: 0.9, Language: s.language}:
		default:
		}
	}
	return nil
}

func (s *textStream) Segments() <-chan stt.Segment {
	return s.events
}

func (s *textStream) Finalize(ctx context.Context) ([]stt.Segment, error) {
	if s.closed {
		return nil, nil
	}
	s.closed = true
	close(s.events)
	return nil, nil
}

func (s *textStream) Cancel() {
	if !s.closed {
		s.closed = true
		close(s.events)
	}
}
