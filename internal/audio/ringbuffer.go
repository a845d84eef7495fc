package audio

import (
	"errors"
	"sync/atomic"
)

// DefaultCapacity is 3 seconds of 16 kHz mono audio: 48,000 samples.
const DefaultCapacity = 3 * CanonicalSampleRate

// ErrUnderflow is returned by Read when fewer samples are available than
// requested. It is an audio-framing error: callers recover locally and it
// never propagates past the RingBuffer boundary.
var ErrUnderflow = errors.New("audio: ring buffer underflow")

// RingBuffer is a fixed-capacity single-producer/single-consumer sample
// store with drop-oldest-on-overflow semantics. Write and Read use monotonic
// counters into a fixed backing array rather than a mutex, so a producer and
// a single consumer can operate concurrently without blocking each other;
// concurrent writers, or concurrent readers, still need an external critical
// section. writePos and readPos sit on separate cache lines (via the padding
// fields below) so the producer advancing one never invalidates the
// consumer's cache line for the other.
type RingBuffer struct {
	data []int16
	cap  uint64

	writePos uint64
	_        [7]uint64 // pad writePos to its own cache line

	readPos uint64
	_       [7]uint64 // pad readPos to its own cache line

	// overflow is the running count of samples ever discarded by
	// drop-oldest overflow. It is a metered policy, not an error — §7.
	overflow uint64
}

// NewRingBuffer creates a RingBuffer with the given capacity in samples.
// A non-positive capacity is replaced with DefaultCapacity.
func NewRingBuffer(capacity int) *RingBuffer {
	if capacity <= 0 {
		capacity = DefaultCapacity
	}
	return &RingBuffer{
		data: make([]int16, capacity),
		cap:  uint64(capacity),
	}
}

// Capacity returns the fixed capacity in samples.
func (b *RingBuffer) Capacity() int {
	return int(b.cap)
}

// Len returns the number of samples currently occupied.
func (b *RingBuffer) Len() int {
	w := atomic.LoadUint64(&b.writePos)
	r := atomic.LoadUint64(&b.readPos)
	return int(w - r)
}

// FreeSpace returns capacity - Len(). Len()+FreeSpace() == Capacity() always.
func (b *RingBuffer) FreeSpace() int {
	return int(b.cap) - b.Len()
}

// OverflowCount returns the number of samples ever discarded by drop-oldest
// overflow, for operators to detect sustained overruns.
func (b *RingBuffer) OverflowCount() uint64 {
	return atomic.LoadUint64(&b.overflow)
}

// Write copies samples into the buffer. It never blocks. If occupied +
// len(samples) would exceed capacity, the buffer first advances the read
// cursor by exactly the overflow amount — dropping that many oldest samples
// — then writes every new sample. If len(samples) > capacity, only the
// trailing capacity samples are retained; the earlier ones are logically
// dropped within the same call. Write always returns len(samples).
func (b *RingBuffer) Write(samples []int16) int {
	n := len(samples)
	if n == 0 {
		return 0
	}

	toStore := samples
	effective := n
	if effective > int(b.cap) {
		toStore = samples[n-int(b.cap):]
		effective = int(b.cap)
	}
	eff := uint64(effective)

	for {
		oldWrite := atomic.LoadUint64(&b.writePos)
		oldRead := atomic.LoadUint64(&b.readPos)
		occupied := oldWrite - oldRead
		vacant := b.cap - occupied

		var drop uint64
		if eff > vacant {
			drop = eff - vacant
		}

		if drop > 0 {
			newRead := oldRead + drop
			if !atomic.CompareAndSwapUint64(&b.readPos, oldRead, newRead) {
				continue // consumer advanced concurrently; recompute occupancy
			}
			atomic.AddUint64(&b.overflow, drop)
		}

		for i, s := range toStore {
			b.data[(oldWrite+uint64(i))%b.cap] = s
		}
		atomic.StoreUint64(&b.writePos, oldWrite+eff)
		return n
	}
}

// Read removes and returns n samples in FIFO order (oldest first). It fails
// with ErrUnderflow if n exceeds the number of occupied samples.
func (b *RingBuffer) Read(n int) ([]int16, error) {
	if n == 0 {
		return nil, nil
	}
	for {
		oldRead := atomic.LoadUint64(&b.readPos)
		curWrite := atomic.LoadUint64(&b.writePos)
		occupied := curWrite - oldRead
		if uint64(n) > occupied {
			return nil, ErrUnderflow
		}

		out := make([]int16, n)
		for i := range out {
			out[i] = b.data[(oldRead+uint64(i))%b.cap]
		}

		if atomic.CompareAndSwapUint64(&b.readPos, oldRead, oldRead+uint64(n)) {
			return out, nil
		}
		// A concurrent reader (outside the documented single-consumer
		// contract) raced us; retry against the new occupancy.
	}
}

// Peek copies min(n, Len()) samples in FIFO order without advancing the
// read cursor.
func (b *RingBuffer) Peek(n int) []int16 {
	curWrite := atomic.LoadUint64(&b.writePos)
	oldRead := atomic.LoadUint64(&b.readPos)
	occupied := int(curWrite - oldRead)
	if n > occupied {
		n = occupied
	}
	if n <= 0 {
		return nil
	}
	out := make([]int16, n)
	for i := range out {
		out[i] = b.data[(oldRead+uint64(i))%b.cap]
	}
	return out
}

// Clear discards all occupied samples.
func (b *RingBuffer) Clear() {
	w := atomic.LoadUint64(&b.writePos)
	atomic.StoreUint64(&b.readPos, w)
}
