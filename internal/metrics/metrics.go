// Package metrics exposes Prometheus counters and gauges for the
// capture -> VAD -> wake-word -> streaming ASR pipeline, and an HTTP
// handler to scrape them.
package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Registry owns every metric this process exports. A single instance is
// created at startup and passed to whichever components need to record
// against it; nothing here is global state so tests can use independent
// registries.
type Registry struct {
	registry *prometheus.Registry

	FramesProcessedTotal   prometheus.Counter
	WakeWordsDetectedTotal prometheus.Counter
	BufferFillPercent      prometheus.Gauge

	ChunksProcessedTotal prometheus.Counter
	StreamingQueueDepth  prometheus.Gauge

	ClassifyDuration      prometheus.Histogram
	TranscribeDuration    prometheus.Histogram
	TranscribeErrorsTotal prometheus.Counter
}

// NewRegistry builds a Registry backed by a fresh prometheus.Registry
// (rather than the global DefaultRegisterer), so multiple assistants can
// run in the same test binary without colliding on metric names.
func NewRegistry() *Registry {
	reg := prometheus.NewRegistry()
	factory := promauto.With(reg)

	return &Registry{
		registry: reg,

		FramesProcessedTotal: factory.NewCounter(prometheus.CounterOpts{
			Name: "assistant_frames_processed_total",
			Help: "Total number of audio frames processed by the wake-word detector.",
		}),
		WakeWordsDetectedTotal: factory.NewCounter(prometheus.CounterOpts{
			Name: "assistant_wake_words_detected_total",
			Help: "Total number of wake-word detections.",
		}),
		BufferFillPercent: factory.NewGauge(prometheus.GaugeOpts{
			Name: "assistant_buffer_fill_percent",
			Help: "Wake-word detector ring buffer occupancy as a percentage of capacity.",
		}),
		ChunksProcessedTotal: factory.NewCounter(prometheus.CounterOpts{
			Name: "assistant_chunks_processed_total",
			Help: "Total number of streaming ASR windows transcribed.",
		}),
		StreamingQueueDepth: factory.NewGauge(prometheus.GaugeOpts{
			Name: "assistant_streaming_queue_depth",
			Help: "Current depth of the streaming ASR bounded event queue.",
		}),
		ClassifyDuration: factory.NewHistogram(prometheus.HistogramOpts{
			Name:    "assistant_classify_duration_seconds",
			Help:    "Wake-word classifier call latency.",
			Buckets: prometheus.DefBuckets,
		}),
		TranscribeDuration: factory.NewHistogram(prometheus.HistogramOpts{
			Name:    "assistant_transcribe_duration_seconds",
			Help:    "Streaming ASR engine transcription latency per chunk.",
			Buckets: []float64{0.05, 0.1, 0.25, 0.5, 1, 2, 5},
		}),
		TranscribeErrorsTotal: factory.NewCounter(prometheus.CounterOpts{
			Name: "assistant_transcribe_errors_total",
			Help: "Total number of streaming ASR engine Transcribe calls that returned an error.",
		}),
	}
}

// Handler returns the HTTP handler to mount at the metrics listen address.
func (r *Registry) Handler() http.Handler {
	return promhttp.HandlerFor(r.registry, promhttp.HandlerOpts{})
}
