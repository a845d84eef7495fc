package capture

import (
	"context"
	"testing"
	"time"
)

func TestNullSourceEmitsSilenceFrames(t *testing.T) {
	src := NewNullSource()
	ctx, cancel := context.WithTimeout(context.Background(), 100*time.Millisecond)
	defer cancel()

	frames, err := src.Start(ctx)
	if err != nil {
		t.Fatal(err)
	}

	select {
	case frame, ok := <-frames:
		if !ok {
			t.Fatal("channel closed before first frame")
		}
		if len(frame) != nullFrameSamples {
			t.Errorf("frame length = %d, want %d", len(frame), nullFrameSamples)
		}
		for i, sample := range frame {
			if sample != 0 {
				t.Fatalf("frame[%d] = %d, want silence (0)", i, sample)
			}
		}
	case <-time.After(time.Second):
		t.Fatal("timed out waiting for first frame")
	}

	if err := src.Close(); err != nil {
		t.Fatal(err)
	}
}

func TestNullSourceClosesChannelOnContextCancel(t *testing.T) {
	src := NewNullSource()
	ctx, cancel := context.WithCancel(context.Background())

	frames, err := src.Start(ctx)
	if err != nil {
		t.Fatal(err)
	}
	cancel()

	deadline := time.After(time.Second)
	for {
		select {
		case _, ok := <-frames:
			if !ok {
				return
			}
		case <-deadline:
			t.Fatal("channel never closed after context cancellation")
		}
	}
}
