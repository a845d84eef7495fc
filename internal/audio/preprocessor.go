package audio

import "errors"

// ErrEmptyBuffer is returned by Preprocessor.Process when given zero samples.
var ErrEmptyBuffer = errors.New("audio: empty buffer")

// peakNormalizeTarget is the ceiling a clipping signal is rescaled to.
const peakNormalizeTarget = 0.95

// Preprocessor converts arbitrary-format PCM into the canonical 16 kHz mono
// float32 stream the VAD, wake-word classifier, and ASR engine all expect.
type Preprocessor struct {
	source Format
}

// NewPreprocessor builds a Preprocessor for samples arriving in sourceFormat.
func NewPreprocessor(sourceFormat Format) (*Preprocessor, error) {
	if err := sourceFormat.Validate(); err != nil {
		return nil, err
	}
	return &Preprocessor{source: sourceFormat}, nil
}

// Process downmixes to mono, resamples to CanonicalSampleRate, and
// peak-normalizes a block of float32 samples in the Preprocessor's source
// format. It returns ErrEmptyBuffer for a zero-length input.
func (p *Preprocessor) Process(samples []float32) ([]float32, error) {
	if len(samples) == 0 {
		return nil, ErrEmptyBuffer
	}

	mono := samples
	if p.source.Channels == 2 {
		mono = downmixStereo(samples)
	}

	out := mono
	if p.source.SampleRate != CanonicalSampleRate {
		resampled, err := resample(mono, p.source.SampleRate, CanonicalSampleRate)
		if err != nil {
			return nil, err
		}
		out = resampled
	}

	return peakNormalize(out), nil
}

// downmixStereo averages consecutive left/right pairs into a single mono
// sample. A trailing unpaired sample (odd-length input) is dropped.
func downmixStereo(interleaved []float32) []float32 {
	n := len(interleaved) / 2
	out := make([]float32, n)
	for i := 0; i < n; i++ {
		out[i] = (interleaved[2*i] + interleaved[2*i+1]) / 2
	}
	return out
}

// peakNormalize rescales samples so their peak magnitude is at most
// peakNormalizeTarget. Signals that never exceed 1.0 are left unchanged.
func peakNormalize(samples []float32) []float32 {
	var peak float32
	for _, s := range samples {
		a := s
		if a < 0 {
			a = -a
		}
		if a > peak {
			peak = a
		}
	}
	if peak <= 1.0 {
		return samples
	}

	scale := peakNormalizeTarget / peak
	out := make([]float32, len(samples))
	for i, s := range samples {
		out[i] = s * scale
	}
	return out
}
