// Package audio holds the canonical sample and format types shared by the
// ring buffer, the VAD, the wake-word detector, and the streaming ASR layer.
package audio

import "fmt"

// CanonicalSampleRate is the sample rate every downstream consumer (VAD,
// wake-word classifier, ASR engine) expects its input at.
const CanonicalSampleRate = 16000

// Format describes the shape of a PCM stream: sample rate in Hz, channel
// count, and bit depth. The zero value is invalid; use Validate before
// trusting a Format obtained from outside the package.
type Format struct {
	SampleRate    int
	Channels      int
	BitsPerSample int
}

// CanonicalFormat is the required input to the ASR callable: 16 kHz, mono,
// 32-bit float.
func CanonicalFormat() Format {
	return Format{SampleRate: CanonicalSampleRate, Channels: 1, BitsPerSample: 32}
}

// Validate rejects a zero sample rate and any channel count other than 1 or 2.
func (f Format) Validate() error {
	if f.SampleRate <= 0 {
		return fmt.Errorf("audio: invalid sample rate %d", f.SampleRate)
	}
	if f.Channels != 1 && f.Channels != 2 {
		return fmt.Errorf("audio: invalid channel count %d, want 1 or 2", f.Channels)
	}
	return nil
}

// I16ToF32 converts a single signed 16-bit PCM sample to a float32 normalized
// to [-1.0, 1.0]. MaxInt16 maps to +1.0; MinInt16 is clamped to -MaxInt16
// first so it maps to exactly -1.0 rather than overshooting past it.
func I16ToF32(s int16) float32 {
	if s < -maxInt16 {
		s = -maxInt16
	}
	return float32(s) / float32(maxInt16)
}

// F32ToI16 converts a float32 sample to signed 16-bit PCM. The input is
// clamped to [-1, 1] before scaling by MaxInt16 (not MinInt16), so the
// negative extreme becomes -32767, never -32768.
func F32ToI16(s float32) int16 {
	if s > 1 {
		s = 1
	} else if s < -1 {
		s = -1
	}
	return int16(s * float32(maxInt16))
}

const maxInt16 = 32767
