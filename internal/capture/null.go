package capture

import (
	"context"
	"time"

	"github.com/aethervoice/assistant/internal/audio"
)

// NullFrameDuration is the period between silence frames NullSource emits,
// matching the teacher's convention of frame-sized chunks at a fixed
// cadence rather than free-running as fast as possible.
const NullFrameDuration = 20 * time.Millisecond

// nullFrameSamples is the number of samples per NullFrameDuration at the
// canonical sample rate.
const nullFrameSamples = audio.CanonicalSampleRate * 20 / 1000

// NullSource is a Source that emits silence on a fixed cadence. It is the
// default when no "mic" build tag (and so no real device) is available,
// and is useful in tests and headless deployments where wake-word
// detection is driven by pushed audio instead of a live microphone.
type NullSource struct {
	out    chan []int16
	cancel context.CancelFunc
}

// NewNullSource creates an idle NullSource; call Start to begin emitting.
func NewNullSource() *NullSource {
	return &NullSource{}
}

func (n *NullSource) Start(ctx context.Context) (<-chan []int16, error) {
	ctx, cancel := context.WithCancel(ctx)
	n.cancel = cancel
	out := make(chan []int16)
	n.out = out

	go func() {
		defer close(out)
		ticker := time.NewTicker(NullFrameDuration)
		defer ticker.Stop()
		silence := make([]int16, nullFrameSamples)

		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				select {
				case out <- silence:
				case <-ctx.Done():
					return
				}
			}
		}
	}()

	return out, nil
}

func (n *NullSource) Close() error {
	if n.cancel != nil {
		n.cancel()
	}
	return nil
}
