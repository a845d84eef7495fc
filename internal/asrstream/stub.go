package asrstream

import "fmt"

// StubEngine is a deterministic ASR engine for tests and for exercising the
// pipeline without a trained model: it reports the chunk's sample count as
// text rather than performing real recognition.
type StubEngine struct {
	calls int
}

// Transcribe returns a fixed-confidence result whose text names the call
// index and chunk length, so callers can assert on ordering without needing
// real speech recognition.
func (e *StubEngine) Transcribe(chunk []float32) (TranscriptionResult, error) {
	e.calls++
	return TranscriptionResult{
		Text:       fmt.Sprintf("chunk-%d-%d-samples", e.calls, len(chunk)),
		Confidence: 0.6,
	}, nil
}
