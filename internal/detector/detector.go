// Package detector implements the wake-word detector: it drains a ring
// buffer in frame-sized chunks, optionally pre-filters with a voice
// activity detector, and hands speech frames to an opaque wake-word
// classifier, emitting a WakeWordEvent whenever the classifier fires.
package detector

import (
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/aethervoice/assistant/internal/audio"
	"github.com/aethervoice/assistant/internal/eventbus"
	"github.com/aethervoice/assistant/internal/vad"
)

// Classifier is the opaque wake-word callable. Implementations may wrap a
// native model (behind a build tag) or a trivial stub for tests.
type Classifier interface {
	// Classify inspects a frame of 16-bit PCM samples and reports whether a
	// keyword fired, its index, and a confidence score.
	Classify(frame []int16) (keywordIndex int, confidence float32, detected bool, err error)
}

// Config holds the wake-word detector's configuration.
type Config struct {
	// Sensitivity tunes the classifier's trigger threshold, 0.0-1.0.
	Sensitivity float32
	// SampleRate must equal audio.CanonicalSampleRate.
	SampleRate int
	// VAD is the pre-filter's configuration.
	VAD vad.Config
	// EnableVADPrefilter skips classification on frames the VAD reports as
	// silence, saving compute.
	EnableVADPrefilter bool
}

// DefaultConfig returns sensible defaults: sensitivity 0.5, the canonical
// sample rate, default VAD thresholds, and the VAD pre-filter enabled.
func DefaultConfig() Config {
	return Config{
		Sensitivity:        0.5,
		SampleRate:         audio.CanonicalSampleRate,
		VAD:                vad.DefaultConfig(),
		EnableVADPrefilter: true,
	}
}

// Validate checks the sensitivity range, sample rate, and VAD configuration.
func (c Config) Validate() error {
	if c.Sensitivity < 0 || c.Sensitivity > 1 {
		return fmt.Errorf("detector: sensitivity must be between 0.0 and 1.0, got %v", c.Sensitivity)
	}
	if c.SampleRate != audio.CanonicalSampleRate {
		return fmt.Errorf("detector: sample rate must be %d Hz, got %d", audio.CanonicalSampleRate, c.SampleRate)
	}
	if err := c.VAD.Validate(); err != nil {
		return fmt.Errorf("detector: vad config error: %w", err)
	}
	return nil
}

// Event is a wake-word detection: the classifier fired on a frame.
type Event struct {
	// TimestampMicros is microseconds since the Unix epoch when the
	// keyword was detected.
	TimestampMicros int64
	// Confidence is the classifier's confidence score, 0.0-1.0.
	Confidence float32
	// AudioContext is the ring buffer's full contents at detection time,
	// up to the last 3 seconds of raw PCM.
	AudioContext []int16
	// KeywordIndex identifies which configured keyword fired.
	KeywordIndex int
}

// Stats reports the detector's running counters.
type Stats struct {
	FramesProcessed   uint64
	WakeWordsDetected uint64
	BufferFillPercent float32
	IsRunning         bool
}

// Detector wraps a ring buffer, a VAD pre-filter, and a Classifier into the
// end-to-end wake-word pipeline.
type Detector struct {
	config     Config
	classifier Classifier
	logger     *slog.Logger

	mu                sync.Mutex
	buffer            *audio.RingBuffer
	vadDetector       *vad.Detector
	running           bool
	framesProcessed   uint64
	wakeWordsDetected uint64

	events *eventbus.Unbounded[Event]

	now func() time.Time
}

// New creates a Detector. classifier must not be nil.
func New(config Config, classifier Classifier) (*Detector, error) {
	if err := config.Validate(); err != nil {
		return nil, err
	}
	if classifier == nil {
		return nil, fmt.Errorf("detector: classifier must not be nil")
	}

	v, err := vad.New(config.VAD)
	if err != nil {
		return nil, err
	}

	return &Detector{
		config:      config,
		classifier:  classifier,
		logger:      slog.Default(),
		buffer:      audio.NewRingBuffer(audio.DefaultCapacity),
		vadDetector: v,
		events:      eventbus.NewUnbounded[Event](),
		now:         time.Now,
	}, nil
}

// SetLogger overrides the detector's logger.
func (d *Detector) SetLogger(logger *slog.Logger) {
	d.logger = logger
}

// Start marks the detector running. It is idempotent.
func (d *Detector) Start() {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.running {
		d.logger.Warn("detector already running")
		return
	}
	d.running = true
	d.logger.Info("wake-word detector started")
}

// Stop marks the detector stopped. It is idempotent.
func (d *Detector) Stop() {
	d.mu.Lock()
	defer d.mu.Unlock()
	if !d.running {
		d.logger.Warn("detector not running")
		return
	}
	d.running = false
	d.logger.Info("wake-word detector stopped")
}

// ProcessAudio is the hot-path entry point: it appends samples to the ring
// buffer and drains it in VAD-frame-sized chunks, classifying each one and
// emitting a wake-word Event whenever the Classifier fires.
func (d *Detector) ProcessAudio(samples []int16) error {
	d.mu.Lock()

	if !d.running {
		d.mu.Unlock()
		return nil
	}

	d.buffer.Write(samples)

	frameSize := d.config.VAD.FrameSize
	for d.buffer.Len() >= frameSize {
		frame := d.buffer.Peek(frameSize)

		shouldClassify := true
		if d.config.EnableVADPrefilter {
			isSpeech, err := d.vadDetector.ProcessFrame(frame)
			if err != nil {
				d.logger.Warn("vad prefilter error, classifying anyway", "error", err)
			} else if !isSpeech {
				shouldClassify = false
			}
		}

		if _, err := d.buffer.Read(frameSize); err != nil {
			d.mu.Unlock()
			return fmt.Errorf("detector: unexpected read error: %w", err)
		}

		if !shouldClassify {
			continue
		}

		d.mu.Unlock()
		keywordIndex, confidence, detected, err := d.classifier.Classify(frame)
		d.mu.Lock()

		if err != nil {
			d.logger.Error("wake-word classification error", "error", err)
		} else if detected {
			d.recordDetection(keywordIndex, confidence)
		}

		d.framesProcessed++
		if d.framesProcessed%1000 == 0 {
			d.logger.Debug("detector progress", "frames_processed", d.framesProcessed, "wake_words_detected", d.wakeWordsDetected)
		}
	}

	d.mu.Unlock()
	return nil
}

// recordDetection builds and emits a wake-word Event. Called with d.mu held.
func (d *Detector) recordDetection(keywordIndex int, confidence float32) {
	d.logger.Info("wake-word detected", "keyword_index", keywordIndex, "confidence", confidence)

	event := Event{
		TimestampMicros: d.now().UnixMicro(),
		Confidence:      confidence,
		AudioContext:    d.buffer.Peek(d.buffer.Len()),
		KeywordIndex:    keywordIndex,
	}
	d.events.Send(event)
	d.wakeWordsDetected++
}

// Events returns the queue wake-word detections are delivered on. Detections
// must never be dropped, so this is an unbounded queue.
func (d *Detector) Events() *eventbus.Unbounded[Event] {
	return d.events
}

// Stats returns a snapshot of the detector's running counters.
func (d *Detector) Stats() Stats {
	d.mu.Lock()
	defer d.mu.Unlock()
	return Stats{
		FramesProcessed:   d.framesProcessed,
		WakeWordsDetected: d.wakeWordsDetected,
		BufferFillPercent: float32(d.buffer.Len()) / float32(d.buffer.Capacity()) * 100,
		IsRunning:         d.running,
	}
}

// Reset clears the ring buffer, resets the VAD, and zeroes the counters.
func (d *Detector) Reset() {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.buffer.Clear()
	d.vadDetector.Reset()
	d.framesProcessed = 0
	d.wakeWordsDetected = 0
	d.logger.Info("detector reset")
}
