// Package asrstream implements chunked, overlapping-window streaming
// speech-to-text: it accumulates preprocessed audio, slices it into
// fixed-duration chunks with a small overlap for context continuity, and
// hands each chunk to an opaque ASR engine, emitting tagged StreamingEvents.
package asrstream

import (
	"context"
	"fmt"
	"log/slog"
	"sync"

	"github.com/aethervoice/assistant/internal/audio"
	"github.com/aethervoice/assistant/internal/eventbus"
)

// Default streaming parameters, matching the non-streaming STT processor's
// chunking window.
const (
	DefaultChunkDurationMs      = 500
	DefaultOverlapMs            = 50
	DefaultMaxBufferDurationSec = 30
	DefaultMinPartialConfidence = 0.5
	DefaultMaxQueueSize         = 100
)

// TranscriptionResult is a single engine call's output.
type TranscriptionResult struct {
	Text       string
	Confidence float32
}

// Engine is the opaque ASR callable.
type Engine interface {
	// Transcribe converts a chunk of canonical-format float32 PCM into text.
	Transcribe(chunk []float32) (TranscriptionResult, error)
}

// Config holds the streaming processor's chunking and backpressure
// parameters.
type Config struct {
	ChunkDurationMs      uint64
	OverlapMs            uint64
	MaxBufferDurationSec uint64
	MinPartialConfidence float32
	EnablePartialResults bool
	MaxQueueSize         int
}

// DefaultConfig returns 500ms chunks with 50ms overlap, partial results
// enabled, a 30-second context buffer, and a 100-event queue.
func DefaultConfig() Config {
	return Config{
		ChunkDurationMs:      DefaultChunkDurationMs,
		OverlapMs:            DefaultOverlapMs,
		MaxBufferDurationSec: DefaultMaxBufferDurationSec,
		MinPartialConfidence: DefaultMinPartialConfidence,
		EnablePartialResults: true,
		MaxQueueSize:         DefaultMaxQueueSize,
	}
}

// Validate rejects an overlap that is not smaller than the chunk duration
// and a non-positive queue size.
func (c Config) Validate() error {
	if c.OverlapMs >= c.ChunkDurationMs {
		return fmt.Errorf("asrstream: overlap_ms (%d) must be smaller than chunk_duration_ms (%d)", c.OverlapMs, c.ChunkDurationMs)
	}
	if c.MaxQueueSize <= 0 {
		return fmt.Errorf("asrstream: max_queue_size must be greater than 0")
	}
	return nil
}

// EventKind tags a StreamingEvent's variant.
type EventKind int

const (
	// EventPartial is a transcription that may still change.
	EventPartial EventKind = iota
	// EventFinal is a stable transcription that will not change.
	EventFinal
	// EventEndOfSpeech signals the input stream closed.
	EventEndOfSpeech
	// EventError carries a processing error that does not tear down the
	// session.
	EventError
)

// StreamingEvent is a tagged transcription-pipeline event.
type StreamingEvent struct {
	Kind       EventKind
	Text       string
	Confidence float32
	// TimestampMs is set for Partial events.
	TimestampMs uint64
	// StartMs/EndMs are set for Final events.
	StartMs uint64
	EndMs   uint64
	// Err is set for Error events.
	Err error
}

// Stats reports the streaming processor's running counters.
type Stats struct {
	TotalSamplesProcessed int
	ChunksProcessed       int
	BufferSize            int
	IsActive              bool
}

// StreamingASR is the chunked streaming transcription pipeline.
type StreamingASR struct {
	engine       Engine
	preprocessor *audio.Preprocessor
	config       Config
	logger       *slog.Logger

	mu                    sync.Mutex
	buffer                []float32
	totalSamplesProcessed int
	chunksProcessed       int
	active                bool

	events *eventbus.Bounded[StreamingEvent]

	// sideChannel, if set, receives a best-effort copy of every event sent
	// to events. Never blocks: a full side channel just drops the event.
	// Used to fan transcripts out to wsbridge without the bridge applying
	// backpressure to the primary queue.
	sideChannel chan<- StreamingEvent
}

// New creates a StreamingASR over the given input format and chunking
// configuration.
func New(engine Engine, inputFormat audio.Format, config Config) (*StreamingASR, error) {
	if engine == nil {
		return nil, fmt.Errorf("asrstream: engine must not be nil")
	}
	if err := config.Validate(); err != nil {
		return nil, err
	}
	preprocessor, err := audio.NewPreprocessor(inputFormat)
	if err != nil {
		return nil, err
	}

	return &StreamingASR{
		engine:       engine,
		preprocessor: preprocessor,
		config:       config,
		logger:       slog.Default(),
		events:       eventbus.NewBounded[StreamingEvent](config.MaxQueueSize),
	}, nil
}

// SetLogger overrides the processor's logger.
func (s *StreamingASR) SetLogger(logger *slog.Logger) {
	s.logger = logger
}

// Start resets the accumulation buffer and counters and marks the processor
// active.
func (s *StreamingASR) Start() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.active = true
	s.buffer = nil
	s.totalSamplesProcessed = 0
	s.chunksProcessed = 0
	s.logger.Info("streaming asr started", "chunk_duration_ms", s.config.ChunkDurationMs, "overlap_ms", s.config.OverlapMs)
}

// Stop marks the processor inactive.
func (s *StreamingASR) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.active = false
	s.logger.Info("streaming asr stopped")
}

func (s *StreamingASR) chunkSamples() int {
	return int(s.config.ChunkDurationMs * audio.CanonicalSampleRate / 1000)
}

func (s *StreamingASR) overlapSamples() int {
	return int(s.config.OverlapMs * audio.CanonicalSampleRate / 1000)
}

func (s *StreamingASR) maxBufferSamples() int {
	return int(s.config.MaxBufferDurationSec) * audio.CanonicalSampleRate
}

// Push preprocesses one chunk of raw audio in the configured input format
// and accumulates it, then drains every full chunk the accumulated buffer
// now covers — a single Push carrying several chunk-durations' worth of
// audio yields one StreamingEvent per window, not just one. Each event is
// pushed onto the bounded event queue, blocking (applying backpressure) if
// the queue is full, unless ctx is canceled first.
func (s *StreamingASR) Push(ctx context.Context, samples []float32) error {
	s.mu.Lock()

	if !s.active {
		s.mu.Unlock()
		return nil
	}
	if len(samples) == 0 {
		s.mu.Unlock()
		return nil
	}

	processed, err := s.preprocessor.Process(samples)
	if err != nil {
		s.mu.Unlock()
		return s.emitError(ctx, err)
	}

	s.buffer = append(s.buffer, processed...)
	s.totalSamplesProcessed += len(processed)

	if max := s.maxBufferSamples(); len(s.buffer) > max {
		drop := len(s.buffer) - max
		s.buffer = s.buffer[drop:]
		s.logger.Warn("context buffer overflow, dropping oldest samples", "dropped", drop)
	}

	chunkSamples := s.chunkSamples()
	overlap := s.overlapSamples()
	toRemove := chunkSamples - overlap
	if toRemove < 0 {
		toRemove = 0
	}

	var chunks [][]float32
	for len(s.buffer) >= chunkSamples {
		chunk := make([]float32, chunkSamples)
		copy(chunk, s.buffer[:chunkSamples])
		chunks = append(chunks, chunk)
		s.buffer = s.buffer[toRemove:]
		s.chunksProcessed++
	}
	timestampMs := uint64(chunkSamples) * 1000 / audio.CanonicalSampleRate

	s.mu.Unlock()

	for _, chunk := range chunks {
		result, err := s.engine.Transcribe(chunk)
		if err != nil {
			if err := s.emitError(ctx, err); err != nil {
				return err
			}
			continue
		}

		event := StreamingEvent{Text: result.Text, Confidence: result.Confidence}
		if s.config.EnablePartialResults {
			event.Kind = EventPartial
			event.TimestampMs = timestampMs
		} else {
			event.Kind = EventFinal
			event.StartMs = 0
			event.EndMs = timestampMs
		}

		if err := s.send(ctx, event); err != nil {
			return err
		}
	}
	return nil
}

// Close signals end of input: it emits an EndOfSpeech event and closes the
// event queue. Callers must not call Push or Close again afterward.
func (s *StreamingASR) Close(ctx context.Context) error {
	if err := s.send(ctx, StreamingEvent{Kind: EventEndOfSpeech}); err != nil {
		return err
	}
	s.events.Close()
	return nil
}

func (s *StreamingASR) emitError(ctx context.Context, err error) error {
	s.logger.Error("streaming asr error", "error", err)
	return s.send(ctx, StreamingEvent{Kind: EventError, Err: err})
}

// send delivers event to the primary queue, then best-effort mirrors it to
// the side channel if one is attached.
func (s *StreamingASR) send(ctx context.Context, event StreamingEvent) error {
	if err := s.events.Send(ctx, event); err != nil {
		return err
	}
	s.mu.Lock()
	side := s.sideChannel
	s.mu.Unlock()
	if side != nil {
		select {
		case side <- event:
		default:
		}
	}
	return nil
}

// Events returns the queue StreamingEvents are delivered on.
func (s *StreamingASR) Events() *eventbus.Bounded[StreamingEvent] {
	return s.events
}

// SetSideChannel attaches a channel that receives a best-effort copy of
// every event also sent to the primary queue. A full side channel drops
// the event rather than blocking the caller; this lets a slow fan-out
// consumer (wsbridge) observe the stream without throttling it.
func (s *StreamingASR) SetSideChannel(ch chan<- StreamingEvent) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sideChannel = ch
}

// Stats returns a snapshot of the processor's running counters.
func (s *StreamingASR) Stats() Stats {
	s.mu.Lock()
	defer s.mu.Unlock()
	return Stats{
		TotalSamplesProcessed: s.totalSamplesProcessed,
		ChunksProcessed:       s.chunksProcessed,
		BufferSize:            len(s.buffer),
		IsActive:              s.active,
	}
}

// ClearBuffer discards accumulated, not-yet-chunked audio.
func (s *StreamingASR) ClearBuffer() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.buffer = nil
	s.logger.Debug("context buffer cleared")
}
