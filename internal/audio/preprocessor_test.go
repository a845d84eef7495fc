package audio

import (
	"math"
	"testing"

	"pgregory.net/rapid"
)

// Scenario 2 from spec.md §8: resampling 48k zero samples to 16kHz.
func TestResampleLengthWithinTolerance(t *testing.T) {
	p, err := NewPreprocessor(Format{SampleRate: 48000, Channels: 1, BitsPerSample: 32})
	if err != nil {
		t.Fatal(err)
	}

	in := make([]float32, 48000)
	out, err := p.Process(in)
	if err != nil {
		t.Fatalf("Process returned error: %v", err)
	}

	want := 16000
	if diff := abs(len(out) - want); diff > 500 {
		t.Fatalf("len(out) = %d, want within 500 of %d", len(out), want)
	}
}

func TestProcessEmptyBufferError(t *testing.T) {
	p, err := NewPreprocessor(CanonicalFormat())
	if err != nil {
		t.Fatal(err)
	}
	if _, err := p.Process(nil); err != ErrEmptyBuffer {
		t.Fatalf("Process(nil) error = %v, want ErrEmptyBuffer", err)
	}
}

// Scenario 3 from spec.md §8: peak normalization.
func TestPeakNormalizeClipping(t *testing.T) {
	out := peakNormalize([]float32{1.5, -2.0, 0.8, -1.2})

	var peak float32
	for _, s := range out {
		a := s
		if a < 0 {
			a = -a
		}
		if a > peak {
			peak = a
		}
		if s > 1 || s < -1 {
			t.Fatalf("sample %v out of [-1,1] range", s)
		}
	}
	if peak > 0.96 {
		t.Fatalf("peak = %v, want <= 0.96", peak)
	}
}

func TestPeakNormalizeLeavesNonClippingUnchanged(t *testing.T) {
	in := make([]float32, 100)
	out := peakNormalize(in)
	for i := range in {
		if out[i] != in[i] {
			t.Fatalf("sample %d changed: %v -> %v", i, in[i], out[i])
		}
	}
}

func TestDownmixStereoAveragesPairsAndDropsOddTail(t *testing.T) {
	out := downmixStereo([]float32{1, 3, 2, -2, 0.5})
	want := []float32{2, 0}
	if len(out) != len(want) {
		t.Fatalf("len(out) = %d, want %d", len(out), len(want))
	}
	for i := range want {
		if out[i] != want[i] {
			t.Fatalf("out[%d] = %v, want %v", i, out[i], want[i])
		}
	}
}

func TestI16F32RoundTripInvariant(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		x := int16(rapid.IntRange(-32768, 32767).Draw(t, "x"))
		back := F32ToI16(I16ToF32(x))
		if abs(int(back)-int(x)) > 1 {
			t.Fatalf("round trip %d -> %d exceeds tolerance of 1", x, back)
		}
	})
}

func TestI16ToF32MinInt16MapsToExactlyMinusOne(t *testing.T) {
	got := I16ToF32(math.MinInt16)
	if got != -1.0 {
		t.Fatalf("I16ToF32(MinInt16) = %v, want -1.0", got)
	}
}

func abs(n int) int {
	if n < 0 {
		return -n
	}
	return n
}
