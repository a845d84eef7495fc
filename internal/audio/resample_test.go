package audio

import (
	"math"
	"testing"
)

func TestResampleEmptyInputReturnsEmpty(t *testing.T) {
	out, err := resample(nil, 48000, 16000)
	if err != nil {
		t.Fatal(err)
	}
	if len(out) != 0 {
		t.Fatalf("len(out) = %d, want 0", len(out))
	}
}

func TestResampleSameRateIsIdentity(t *testing.T) {
	in := []float32{0.1, -0.2, 0.3}
	out, err := resample(in, 16000, 16000)
	if err != nil {
		t.Fatal(err)
	}
	for i := range in {
		if out[i] != in[i] {
			t.Fatalf("out[%d] = %v, want %v", i, out[i], in[i])
		}
	}
}

// For inputs of at least 1 second, output length must be within +/-3% of
// ceil(input_length * outputRate / inputRate).
func TestResampleLengthToleranceForOneSecondOrLonger(t *testing.T) {
	cases := []struct {
		inputRate, outputRate int
	}{
		{44100, 16000},
		{8000, 16000},
		{22050, 16000},
		{48000, 16000},
	}

	for _, c := range cases {
		in := make([]float32, c.inputRate) // exactly 1 second
		out, err := resample(in, c.inputRate, c.outputRate)
		if err != nil {
			t.Fatalf("rate %d->%d: %v", c.inputRate, c.outputRate, err)
		}

		want := math.Ceil(float64(len(in)) * float64(c.outputRate) / float64(c.inputRate))
		tolerance := want * 0.03
		if math.Abs(float64(len(out))-want) > tolerance {
			t.Fatalf("rate %d->%d: len(out) = %d, want within %.0f of %.0f",
				c.inputRate, c.outputRate, len(out), tolerance, want)
		}
	}
}

func TestResampleInvalidRatesError(t *testing.T) {
	if _, err := resample([]float32{1}, 0, 16000); err == nil {
		t.Fatal("expected error for zero input rate")
	}
	if _, err := resample([]float32{1}, 16000, 0); err == nil {
		t.Fatal("expected error for zero output rate")
	}
}
