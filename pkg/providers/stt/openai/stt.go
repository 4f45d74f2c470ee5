// Package openai adapts the OpenAI Whisper transcription API to the
// ai/stt.STT contract. Whisper has no true streaming mode, so Stream
// buffers pushed audio and transcribes it in rolling windows, emitting
// unstable segments per window and a stable segment on Finalize.
package openai

import (
	"bytes"
	"context"
	"encoding/binary"
	"fmt"
	"sync"
	"time"

	goopenai "github.com/sashabaranov/go-openai"

	"github.com/vaak-ai/voicecore/pkg/ai"
	"github.com/vaak-ai/voicecore/pkg/ai/stt"
	"github.com/vaak-ai/voicecore/pkg/rtc"
)

// WindowInterval controls how often buffered audio is transcribed into an
// unstable segment while a stream is open.
const WindowInterval = 3 * time.Second

// MinAudioDuration is OpenAI's minimum accepted clip length.
const MinAudioDuration = 100 * time.Millisecond

// STT is an ai/stt.STT backed by the OpenAI Whisper transcription model.
type STT struct {
	client *goopenai.Client
	model  string
}

// New creates a Whisper-backed STT using apiKey.
func New(apiKey string) *STT {
	return &STT{client: goopenai.NewClient(apiKey), model: goopenai.Whisper1}
}

func (s *STT) StartStream(ctx context.Context, cfg stt.StreamConfig) (stt.Stream, error) {
	st := &stream{
		client:   s.client,
		model:    s.model,
		cfg:      cfg,
		events:   make(chan stt.Segment, 10),
		done:     make(chan struct{}),
	}
	go st.run()
	return st, nil
}

func (s *STT) Capabilities() stt.Capabilities {
	return stt.Capabilities{
		SupportedLanguages: []string{"hi", "en", "ta", "te", "bn", "mr", "gu", "kn", "ml", "pa", "ur"},
		SampleRates:        []int{16000, 24000, 48000},
	}
}

type stream struct {
	client *goopenai.Client
	model  string
	cfg    stt.StreamConfig

	mu       sync.Mutex
	frames   []*rtc.AudioFrame
	closed   bool
	cancelled bool
	events   chan stt.Segment
	done     chan struct{}
}

func (st *stream) run() {
	ticker := time.NewTicker(WindowInterval)
	defer ticker.Stop()
	for {
		select {
		case <-ticker.C:
			st.transcribeWindow(context.Background(), false)
		case <-st.done:
			return
		}
	}
}

func (st *stream) Push(frame *rtc.AudioFrame) error {
	st.mu.Lock()
	defer st.mu.Unlock()
	if st.closed {
		return fmt.Errorf("stt/openai: stream is closed")
	}
	st.frames = append(st.frames, frame)
	return nil
}

func (st *stream) Segments() <-chan stt.Segment {
	return st.events
}

func (st *stream) Finalize(ctx context.Context) ([]stt.Segment, error) {
	st.mu.Lock()
	if st.closed {
		st.mu.Unlock()
		return nil, nil
	}
	st.closed = true
	st.mu.Unlock()

	close(st.done)

	if st.cancelled {
		close(st.events)
		return nil, nil
	}

	seg, err := st.transcribeWindow(ctx, true)
	close(st.events)
	if err != nil {
		return nil, err
	}
	if seg == nil {
		return nil, nil
	}
	return []stt.Segment{*seg}, nil
}

func (st *stream) Cancel() {
	st.mu.Lock()
	alreadyClosed := st.closed
	st.closed = true
	st.cancelled = true
	st.mu.Unlock()
	if !alreadyClosed {
		close(st.done)
		close(st.events)
	}
}

// transcribeWindow sends currently buffered audio to Whisper and, on
// success, emits a segment (stable only when final). It never returns a
// fatal error for "audio too short"; that case is treated as a no-op.
func (st *stream) transcribeWindow(ctx context.Context, final bool) (*stt.Segment, error) {
	st.mu.Lock()
	frames := st.frames
	if !final {
		// keep the tail for continuity across windows
		keep := 2
		if len(st.frames) > keep {
			st.frames = st.frames[len(st.frames)-keep:]
		}
	} else {
		st.frames = nil
	}
	st.mu.Unlock()

	if len(frames) == 0 {
		return nil, nil
	}

	wav, duration, err := framesToWAV(frames)
	if err != nil {
		return nil, fmt.Errorf("stt/openai: encoding wav: %w", err)
	}
	if duration < MinAudioDuration {
		return nil, nil
	}

	req := goopenai.AudioRequest{
		Model:    st.model,
		Language: st.cfg.Language,
		Format:   goopenai.AudioResponseFormatJSON,
		Reader:   bytes.NewReader(wav),
		FilePath: "audio.wav",
	}

	resp, err := st.client.CreateTranscription(ctx, req)
	if err != nil {
		return nil, ai.NewRecoverableError(err, "whisper transcription failed")
	}

	seg := stt.Segment{
		Text:     resp.Text,
		Stable:   final,
		Language: resp.Language,
	}
	select {
	case st.events <- seg:
	default:
	}
	return &seg, nil
}

func framesToWAV(frames []*rtc.AudioFrame) ([]byte, time.Duration, error) {
	if len(frames) == 0 {
		return nil, 0, fmt.Errorf("no audio frames to encode")
	}

	sampleRate := frames[0].SampleRate
	numChannels := frames[0].NumChannels

	var data bytes.Buffer
	var duration time.Duration
	for _, f := range frames {
		data.Write(f.Data)
		duration += f.Duration()
	}

	var buf bytes.Buffer
	buf.WriteString("RIFF")
	binary.Write(&buf, binary.LittleEndian, uint32(36+data.Len()))
	buf.WriteString("WAVE")

	buf.WriteString("fmt ")
	binary.Write(&buf, binary.LittleEndian, uint32(16))
	binary.Write(&buf, binary.LittleEndian, uint16(1)) // PCM
	binary.Write(&buf, binary.LittleEndian, uint16(numChannels))
	binary.Write(&buf, binary.LittleEndian, uint32(sampleRate))
	byteRate := uint32(sampleRate * numChannels * 2)
	binary.Write(&buf, binary.LittleEndian, byteRate)
	binary.Write(&buf, binary.LittleEndian, uint16(numChannels*2))
	binary.Write(&buf, binary.LittleEndian, uint16(16))

	buf.WriteString("data")
	binary.Write(&buf, binary.LittleEndian, uint32(data.Len()))
	buf.Write(data.Bytes())

	return buf.Bytes(), duration, nil
}
