package detector

import "math"

// StubEnergyThreshold is the RMS energy above which the stub classifier
// reports a detection. It exists so the pipeline can be exercised end to
// end without a trained wake-word model.
const StubEnergyThreshold = 0.4

// StubConfidence is the fixed confidence value the stub classifier reports.
const StubConfidence float32 = 0.85

// StubClassifier is a trivial energy-threshold wake-word classifier. It
// fires keyword 0 once every StubTriggerPeriod high-energy frames, so tests
// exercising the full pipeline get occasional, deterministic detections
// rather than either constant or zero firing.
type StubClassifier struct {
	// StubTriggerPeriod is the number of qualifying high-energy frames
	// between detections. A zero value is treated as 1 (fire every time).
	StubTriggerPeriod int

	qualifyingFrames int
}

// Classify reports a detection when the frame's RMS energy exceeds
// StubEnergyThreshold and enough qualifying frames have passed since the
// last detection.
func (s *StubClassifier) Classify(frame []int16) (keywordIndex int, confidence float32, detected bool, err error) {
	period := s.StubTriggerPeriod
	if period <= 0 {
		period = 1
	}

	energy := rmsEnergy(frame)
	if energy <= StubEnergyThreshold {
		return 0, 0, false, nil
	}

	s.qualifyingFrames++
	if s.qualifyingFrames < period {
		return 0, 0, false, nil
	}
	s.qualifyingFrames = 0
	return 0, StubConfidence, true, nil
}

func rmsEnergy(frame []int16) float64 {
	if len(frame) == 0 {
		return 0
	}
	var sumSquares float64
	for _, s := range frame {
		normalized := float64(s) / 32767.0
		sumSquares += normalized * normalized
	}
	return math.Sqrt(sumSquares / float64(len(frame)))
}
