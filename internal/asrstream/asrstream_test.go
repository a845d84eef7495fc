package asrstream

import (
	"context"
	"testing"
	"time"

	"github.com/aethervoice/assistant/internal/audio"
)

func TestDefaultConfigValid(t *testing.T) {
	c := DefaultConfig()
	if err := c.Validate(); err != nil {
		t.Fatal(err)
	}
	if c.ChunkDurationMs != 500 || c.OverlapMs != 50 {
		t.Fatalf("unexpected defaults: %+v", c)
	}
}

func TestValidateRejectsOverlapNotSmallerThanChunk(t *testing.T) {
	c := DefaultConfig()
	c.OverlapMs = c.ChunkDurationMs
	if err := c.Validate(); err == nil {
		t.Fatal("expected error when overlap_ms >= chunk_duration_ms")
	}
}

// Scenario 6 from spec.md §8: chunk_duration_ms=500, overlap_ms=50 at 16kHz;
// 3 seconds of audio pushed in one call yields 6 Partial events, followed by
// EndOfSpeech once the stream is closed.
func TestThreeSecondsYieldsSixPartialWindows(t *testing.T) {
	engine := &StubEngine{}
	asr, err := New(engine, audio.CanonicalFormat(), DefaultConfig())
	if err != nil {
		t.Fatal(err)
	}
	asr.Start()

	samples := make([]float32, 3*audio.CanonicalSampleRate)
	ctx := context.Background()
	if err := asr.Push(ctx, samples); err != nil {
		t.Fatal(err)
	}

	var partials int
	var lastTimestamp uint64
	for {
		event, ok := tryRecvWithTimeout(asr, 50*time.Millisecond)
		if !ok {
			break
		}
		if event.Kind != EventPartial {
			t.Fatalf("unexpected event kind %v before EndOfSpeech", event.Kind)
		}
		if event.TimestampMs < lastTimestamp {
			t.Fatalf("timestamps must be non-decreasing: got %d after %d", event.TimestampMs, lastTimestamp)
		}
		lastTimestamp = event.TimestampMs
		partials++
	}

	if partials != 6 {
		t.Fatalf("partials = %d, want 6", partials)
	}

	if err := asr.Close(ctx); err != nil {
		t.Fatal(err)
	}
	final, ok := tryRecvWithTimeout(asr, 50*time.Millisecond)
	if !ok || final.Kind != EventEndOfSpeech {
		t.Fatalf("expected EndOfSpeech after Close, got ok=%v kind=%v", ok, final.Kind)
	}
}

func TestPushIgnoredWhenNotActive(t *testing.T) {
	engine := &StubEngine{}
	asr, err := New(engine, audio.CanonicalFormat(), DefaultConfig())
	if err != nil {
		t.Fatal(err)
	}

	if err := asr.Push(context.Background(), make([]float32, 8000)); err != nil {
		t.Fatal(err)
	}
	if asr.Stats().ChunksProcessed != 0 {
		t.Fatal("Push should be a no-op when the processor is not active")
	}
}

func TestBackpressureBlocksWhenQueueFull(t *testing.T) {
	engine := &StubEngine{}
	config := DefaultConfig()
	config.MaxQueueSize = 1
	asr, err := New(engine, audio.CanonicalFormat(), config)
	if err != nil {
		t.Fatal(err)
	}
	asr.Start()

	// Two chunk-durations' worth of audio: first window fills the
	// capacity-1 queue, second window's Send must block on a full queue.
	samples := make([]float32, 2*asr.chunkSamples())
	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()

	if err := asr.Push(ctx, samples); err == nil {
		t.Fatal("expected Push to block and time out once the bounded queue fills")
	}
}

func TestChunkingSumInvariant(t *testing.T) {
	engine := &StubEngine{}
	asr, err := New(engine, audio.CanonicalFormat(), DefaultConfig())
	if err != nil {
		t.Fatal(err)
	}
	asr.Start()

	samples := make([]float32, 48000)
	ctx := context.Background()
	go func() {
		for {
			if _, ok := tryRecvWithTimeout(asr, 100*time.Millisecond); !ok {
				return
			}
		}
	}()
	if err := asr.Push(ctx, samples); err != nil {
		t.Fatal(err)
	}

	if asr.Stats().TotalSamplesProcessed != len(samples) {
		t.Fatalf("TotalSamplesProcessed = %d, want %d", asr.Stats().TotalSamplesProcessed, len(samples))
	}

	stats := asr.Stats()
	advanced := stats.ChunksProcessed * (asr.chunkSamples() - asr.overlapSamples())
	if advanced != stats.TotalSamplesProcessed-stats.BufferSize {
		t.Fatalf("chunks*(chunk-overlap) = %d, want total-remainder = %d", advanced, stats.TotalSamplesProcessed-stats.BufferSize)
	}
	if stats.BufferSize >= asr.chunkSamples() {
		t.Fatalf("remainder = %d, want < chunk size %d", stats.BufferSize, asr.chunkSamples())
	}
}

func tryRecvWithTimeout(asr *StreamingASR, d time.Duration) (StreamingEvent, bool) {
	ctx, cancel := context.WithTimeout(context.Background(), d)
	defer cancel()
	return asr.Events().Recv(ctx)
}
