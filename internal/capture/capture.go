// Package capture supplies the audio source at the head of the
// capture -> VAD -> wake-word -> streaming ASR pipeline. The default
// build only wires a silence-generating NullSource; a real microphone
// source is available behind the "mic" build tag so the rest of the
// module stays buildable without cgo/malgo's native dependency.
package capture

import "context"

// Source produces a stream of i16 PCM frames at audio.CanonicalSampleRate
// mono until Close is called or its context is canceled.
type Source interface {
	// Start begins capture and returns a channel of frames. The channel
	// is closed when capture stops, whether from ctx cancellation, Close,
	// or a fatal device error.
	Start(ctx context.Context) (<-chan []int16, error)
	// Close releases any underlying device resources. Safe to call more
	// than once.
	Close() error
}
