package metrics

import (
	"time"

	"github.com/aethervoice/assistant/internal/asrstream"
	"github.com/aethervoice/assistant/internal/detector"
)

// InstrumentedClassifier wraps a detector.Classifier, incrementing
// Registry counters and recording call latency at the point each
// classification occurs, rather than sampling them periodically.
type InstrumentedClassifier struct {
	next     detector.Classifier
	registry *Registry
}

// WrapClassifier returns next instrumented against registry.
func WrapClassifier(next detector.Classifier, registry *Registry) *InstrumentedClassifier {
	return &InstrumentedClassifier{next: next, registry: registry}
}

func (c *InstrumentedClassifier) Classify(frame []int16) (keywordIndex int, confidence float32, detected bool, err error) {
	start := time.Now()
	keywordIndex, confidence, detected, err = c.next.Classify(frame)
	c.registry.ClassifyDuration.Observe(time.Since(start).Seconds())
	c.registry.FramesProcessedTotal.Inc()
	if detected {
		c.registry.WakeWordsDetectedTotal.Inc()
	}
	return keywordIndex, confidence, detected, err
}

// InstrumentedEngine wraps an asrstream.Engine, incrementing Registry
// counters and recording call latency at the point each transcription
// occurs.
type InstrumentedEngine struct {
	next     asrstream.Engine
	registry *Registry
}

// WrapEngine returns next instrumented against registry.
func WrapEngine(next asrstream.Engine, registry *Registry) *InstrumentedEngine {
	return &InstrumentedEngine{next: next, registry: registry}
}

func (e *InstrumentedEngine) Transcribe(chunk []float32) (asrstream.TranscriptionResult, error) {
	start := time.Now()
	result, err := e.next.Transcribe(chunk)
	e.registry.TranscribeDuration.Observe(time.Since(start).Seconds())
	if err != nil {
		e.registry.TranscribeErrorsTotal.Inc()
		return result, err
	}
	e.registry.ChunksProcessedTotal.Inc()
	return result, nil
}
