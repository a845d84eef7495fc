package metrics

import (
	"errors"
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"

	"github.com/aethervoice/assistant/internal/asrstream"
)

type fakeClassifier struct {
	detected bool
}

func (f fakeClassifier) Classify(frame []int16) (int, float32, bool, error) {
	return 0, 0.9, f.detected, nil
}

type fakeEngine struct {
	err error
}

func (f fakeEngine) Transcribe(chunk []float32) (asrstream.TranscriptionResult, error) {
	if f.err != nil {
		return asrstream.TranscriptionResult{}, f.err
	}
	return asrstream.TranscriptionResult{Text: "ok"}, nil
}

func TestInstrumentedClassifierIncrementsCounters(t *testing.T) {
	reg := NewRegistry()
	c := WrapClassifier(fakeClassifier{detected: true}, reg)

	if _, _, _, err := c.Classify(make([]int16, 4)); err != nil {
		t.Fatal(err)
	}

	if got := testutil.ToFloat64(reg.FramesProcessedTotal); got != 1 {
		t.Errorf("FramesProcessedTotal = %v, want 1", got)
	}
	if got := testutil.ToFloat64(reg.WakeWordsDetectedTotal); got != 1 {
		t.Errorf("WakeWordsDetectedTotal = %v, want 1", got)
	}
}

func TestInstrumentedEngineIncrementsChunksOnSuccess(t *testing.T) {
	reg := NewRegistry()
	e := WrapEngine(fakeEngine{}, reg)

	if _, err := e.Transcribe(make([]float32, 4)); err != nil {
		t.Fatal(err)
	}

	if got := testutil.ToFloat64(reg.ChunksProcessedTotal); got != 1 {
		t.Errorf("ChunksProcessedTotal = %v, want 1", got)
	}
	if got := testutil.ToFloat64(reg.TranscribeErrorsTotal); got != 0 {
		t.Errorf("TranscribeErrorsTotal = %v, want 0", got)
	}
}

func TestInstrumentedEngineIncrementsErrorsOnFailure(t *testing.T) {
	reg := NewRegistry()
	e := WrapEngine(fakeEngine{err: errors.New("boom")}, reg)

	if _, err := e.Transcribe(make([]float32, 4)); err == nil {
		t.Fatal("expected error")
	}

	if got := testutil.ToFloat64(reg.TranscribeErrorsTotal); got != 1 {
		t.Errorf("TranscribeErrorsTotal = %v, want 1", got)
	}
}
