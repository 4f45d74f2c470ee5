package rtc

import "math"

// PCM16 normalization follows one fixed convention everywhere in this
// module: decode divides by 32768, encode multiplies by 32767 and clamps.
// The two constants are intentionally different (see SPEC_FULL.md, Open
// Questions — Decisions) and must never be swapped.
const (
	pcm16DecodeDivisor = 32768.0
	pcm16EncodeScale   = 32767.0
)

// DecodePCM16 converts little-endian signed 16-bit samples to float64 in
// [-1.0, 1.0).
func DecodePCM16(data []byte) []float64 {
	out := make([]float64, len(data)/2)
	for i := range out {
		s := int16(uint16(data[2*i]) | uint16(data[2*i+1])<<8)
		out[i] = float64(s) / pcm16DecodeDivisor
	}
	return out
}

// EncodePCM16 converts float64 samples in [-1.0, 1.0] back to little-endian
// signed 16-bit PCM, clamping out-of-range input.
func EncodePCM16(samples []float64) []byte {
	out := make([]byte, len(samples)*2)
	for i, s := range samples {
		if s > 1.0 {
			s = 1.0
		} else if s < -1.0 {
			s = -1.0
		}
		v := int16(s * pcm16EncodeScale)
		out[2*i] = byte(v)
		out[2*i+1] = byte(v >> 8)
	}
	return out
}

// DecodeF32 reinterprets little-endian IEEE-754 float32 samples as float64.
func DecodeF32(data []byte) []float64 {
	out := make([]float64, len(data)/4)
	for i := range out {
		bits := uint32(data[4*i]) | uint32(data[4*i+1])<<8 | uint32(data[4*i+2])<<16 | uint32(data[4*i+3])<<24
		out[i] = float64(math.Float32frombits(bits))
	}
	return out
}
