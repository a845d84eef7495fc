package metrics

import (
	"context"
	"time"

	"github.com/aethervoice/assistant/internal/asrstream"
	"github.com/aethervoice/assistant/internal/detector"
)

// DefaultSampleInterval is how often Sampler polls the pipeline's Stats
// accessors and republishes them as gauges.
const DefaultSampleInterval = 2 * time.Second

// Sampler periodically reads the gauge-shaped values (the detector's buffer
// fill from detector.Stats, the streaming ASR event queue's current length)
// and republishes them onto a Registry. The counter-shaped fields are driven directly by their
// components via Counter.Inc at the point of occurrence, not sampled here.
type Sampler struct {
	registry *Registry
	detector *detector.Detector
	asr      *asrstream.StreamingASR
	interval time.Duration
}

// NewSampler wires a Registry to the live detector and streaming ASR
// instances it should poll.
func NewSampler(registry *Registry, det *detector.Detector, asr *asrstream.StreamingASR) *Sampler {
	return &Sampler{registry: registry, detector: det, asr: asr, interval: DefaultSampleInterval}
}

// Run blocks, sampling on s.interval until ctx is canceled.
func (s *Sampler) Run(ctx context.Context) {
	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			s.sampleOnce()
		}
	}
}

func (s *Sampler) sampleOnce() {
	if s.detector != nil {
		stats := s.detector.Stats()
		s.registry.BufferFillPercent.Set(float64(stats.BufferFillPercent))
	}
	if s.asr != nil {
		s.registry.StreamingQueueDepth.Set(float64(s.asr.Events().Len()))
	}
}
