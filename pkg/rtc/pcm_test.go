package rtc

import (
	"testing"
	"time"
)

func TestPCM16RoundTripWithinOneLSB(t *testing.T) {
	original := []byte{0x00, 0x80, 0xff, 0x7f, 0x34, 0x12, 0x00, 0x00}
	decoded := DecodePCM16(original)
	reencoded := EncodePCM16(decoded)

	for i := 0; i < len(original); i += 2 {
		a := int16(uint16(original[i]) | uint16(original[i+1])<<8)
		b := int16(uint16(reencoded[i]) | uint16(reencoded[i+1])<<8)
		diff := int(a) - int(b)
		if diff < 0 {
			diff = -diff
		}
		if diff > 1 {
			t.Fatalf("sample %d: got %d, want within 1 LSB of %d", i/2, b, a)
		}
	}
}

func TestNewAudioFrameRejectsUnsupportedRate(t *testing.T) {
	_, err := NewAudioFrame(make([]byte, 320), SampleFormatPCM16, 44100, 1, 0, time.Time{})
	if err == nil {
		t.Fatal("expected error for unsupported sample rate")
	}
}

func TestNewAudioFrameSampleCount(t *testing.T) {
	f, err := NewAudioFrame(make([]byte, 640), SampleFormatPCM16, 16000, 1, 0, time.Time{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got := f.SampleCount(); got != 320 {
		t.Fatalf("got %d samples, want 320", got)
	}
}
