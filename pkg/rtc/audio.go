// Package rtc defines the wire-level audio types shared by every component
// that touches raw samples: VAD, STT, TTS, and the frame pipeline.
package rtc

import (
	"fmt"
	"time"
)

// SampleFormat distinguishes the two sample encodings a backend may hand us.
type SampleFormat int

const (
	// SampleFormatPCM16 is signed 16-bit little-endian PCM.
	SampleFormatPCM16 SampleFormat = iota
	// SampleFormatF32 is 32-bit float PCM in [-1.0, 1.0].
	SampleFormatF32
)

func (f SampleFormat) String() string {
	switch f {
	case SampleFormatPCM16:
		return "pcm16"
	case SampleFormatF32:
		return "f32"
	default:
		return "unknown"
	}
}

// SupportedSampleRates enumerates the rates the pipeline accepts, per
// the AudioFrame invariant: rate must be one of these.
var SupportedSampleRates = [...]int{8000, 16000, 24000, 48000}

func isSupportedRate(rate int) bool {
	for _, r := range SupportedSampleRates {
		if r == rate {
			return true
		}
	}
	return false
}

// AudioFrame is an immutable chunk of audio with a declared format and a
// monotonically increasing index within its stream.
//
// A zero CapturedAt means "live"; otherwise it is the wall-clock capture
// time, used for barge-in position accounting.
type AudioFrame struct {
	Data        []byte
	Format      SampleFormat
	SampleRate  int
	NumChannels int
	FrameIndex  uint64
	CapturedAt  time.Time
}

// NewAudioFrame validates and constructs an AudioFrame.
func NewAudioFrame(data []byte, format SampleFormat, sampleRate, numChannels int, frameIndex uint64, capturedAt time.Time) (*AudioFrame, error) {
	if !isSupportedRate(sampleRate) {
		return nil, fmt.Errorf("rtc: unsupported sample rate %d", sampleRate)
	}
	if numChannels <= 0 {
		return nil, fmt.Errorf("rtc: invalid channel count %d", numChannels)
	}
	bytesPerSample := 2
	if format == SampleFormatF32 {
		bytesPerSample = 4
	}
	if len(data)%(bytesPerSample*numChannels) != 0 {
		return nil, fmt.Errorf("rtc: data length %d is not a whole number of %d-channel samples", len(data), numChannels)
	}
	return &AudioFrame{
		Data:        data,
		Format:      format,
		SampleRate:  sampleRate,
		NumChannels: numChannels,
		FrameIndex:  frameIndex,
		CapturedAt:  capturedAt,
	}, nil
}

// SampleCount returns the number of per-channel samples in the frame.
func (f *AudioFrame) SampleCount() int {
	bytesPerSample := 2
	if f.Format == SampleFormatF32 {
		bytesPerSample = 4
	}
	return len(f.Data) / (bytesPerSample * f.NumChannels)
}

// Duration returns the playback duration of the frame.
func (f *AudioFrame) Duration() time.Duration {
	if f.SampleRate == 0 {
		return 0
	}
	return time.Duration(f.SampleCount()) * time.Second / time.Duration(f.SampleRate)
}

// Clone returns a deep copy; a processor that mutates Data must clone first
// since a frame may be fanned out to more than one consumer.
func (f *AudioFrame) Clone() *AudioFrame {
	data := make([]byte, len(f.Data))
	copy(data, f.Data)
	clone := *f
	clone.Data = data
	return &clone
}
