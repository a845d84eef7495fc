package audio

import (
	"fmt"
	"math"
)

// Resampling parameters required by spec.md §4.2: a windowed sinc kernel of
// length >= 256 (128 taps either side of center), cutoff ~0.95 of Nyquist,
// and a Blackman-Harris window. No Go sinc-resampling library was found
// among the retrieved examples (the teacher's domain used Rust's `rubato`
// for this), so the kernel is implemented directly here — see DESIGN.md.
const (
	sincKernelHalfWidth = 128
	sincCutoffRatio     = 0.95
)

// resample converts samples from inputRate to outputRate using a
// windowed-sinc interpolator. The output length is
// ceil(len(samples) * outputRate / inputRate); boundary taps that fall
// outside the input are treated as zero.
func resample(samples []float32, inputRate, outputRate int) ([]float32, error) {
	if inputRate <= 0 || outputRate <= 0 {
		return nil, fmt.Errorf("audio: invalid resample rates %d -> %d", inputRate, outputRate)
	}
	if len(samples) == 0 {
		return nil, nil
	}
	if inputRate == outputRate {
		out := make([]float32, len(samples))
		copy(out, samples)
		return out, nil
	}

	ratio := float64(outputRate) / float64(inputRate)
	outLen := int(math.Ceil(float64(len(samples)) * ratio))
	if outLen <= 0 {
		return nil, nil
	}

	// When downsampling, scale the cutoff by the ratio to keep the
	// passband below the new, lower Nyquist frequency and avoid aliasing.
	cutoff := sincCutoffRatio
	if ratio < 1 {
		cutoff *= ratio
	}

	out := make([]float32, outLen)
	for n := 0; n < outLen; n++ {
		t := float64(n) / ratio
		i0 := int(math.Floor(t))
		frac := t - float64(i0)

		var acc float64
		for k := -sincKernelHalfWidth + 1; k <= sincKernelHalfWidth; k++ {
			idx := i0 + k
			if idx < 0 || idx >= len(samples) {
				continue
			}
			x := float64(k) - frac
			acc += float64(samples[idx]) * sincKernelTap(x, cutoff)
		}
		out[n] = float32(acc)
	}
	return out, nil
}

// sincKernelTap evaluates the windowed-sinc filter at offset x (in input
// samples) for a lowpass cutoff expressed as a fraction of Nyquist. The
// window is a 4-term Blackman-Harris function over [-halfWidth, halfWidth].
func sincKernelTap(x, cutoff float64) float64 {
	if x <= -sincKernelHalfWidth || x >= sincKernelHalfWidth {
		return 0
	}
	return normalizedSinc(cutoff*x) * cutoff * blackmanHarris(x)
}

// normalizedSinc returns sin(pi*x)/(pi*x), with sinc(0) = 1.
func normalizedSinc(x float64) float64 {
	if x == 0 {
		return 1
	}
	px := math.Pi * x
	return math.Sin(px) / px
}

// Blackman-Harris window coefficients (4-term, per spec.md §4.2).
const (
	bhA0 = 0.35875
	bhA1 = 0.48829
	bhA2 = 0.14128
	bhA3 = 0.01168
)

func blackmanHarris(x float64) float64 {
	u := (x + sincKernelHalfWidth) / (2 * sincKernelHalfWidth)
	return bhA0 -
		bhA1*math.Cos(2*math.Pi*u) +
		bhA2*math.Cos(4*math.Pi*u) -
		bhA3*math.Cos(6*math.Pi*u)
}
