package audiocodec

import (
	"math"
	"testing"
)

func generateTestTone(samples int) []int16 {
	pcm := make([]int16, samples)
	for i := range pcm {
		pcm[i] = int16(10000 * math.Sin(2*math.Pi*440*float64(i)/16000))
	}
	return pcm
}

func TestEncodeDecodeFrameRoundTrip(t *testing.T) {
	enc, err := NewEncoder()
	if err != nil {
		t.Fatal(err)
	}
	dec, err := NewDecoder()
	if err != nil {
		t.Fatal(err)
	}

	frame := generateTestTone(FrameSizeSamples())
	packet, err := enc.Encode(frame)
	if err != nil {
		t.Fatal(err)
	}
	if len(packet) == 0 {
		t.Fatal("Encode produced an empty packet")
	}

	decoded, err := dec.Decode(packet, FrameSizeSamples(), false)
	if err != nil {
		t.Fatal(err)
	}
	if len(decoded) != FrameSizeSamples() {
		t.Errorf("decoded length = %d, want %d", len(decoded), FrameSizeSamples())
	}
}

func TestEncodeDecodeAudioContextPreservesSampleCount(t *testing.T) {
	enc, err := NewEncoder()
	if err != nil {
		t.Fatal(err)
	}
	dec, err := NewDecoder()
	if err != nil {
		t.Fatal(err)
	}

	// Intentionally not a multiple of the frame size, to exercise the
	// zero-padded final frame and its trim back down to sampleCount.
	pcm := generateTestTone(FrameSizeSamples()*3 + 123)

	data, sampleCount, err := EncodeAudioContext(enc, pcm)
	if err != nil {
		t.Fatal(err)
	}
	if sampleCount != len(pcm) {
		t.Fatalf("sampleCount = %d, want %d", sampleCount, len(pcm))
	}

	decoded, err := DecodeAudioContext(dec, data, sampleCount)
	if err != nil {
		t.Fatal(err)
	}
	if len(decoded) != len(pcm) {
		t.Errorf("decoded length = %d, want %d", len(decoded), len(pcm))
	}
}

func TestDecodeAudioContextTruncatedLengthPrefixErrors(t *testing.T) {
	dec, err := NewDecoder()
	if err != nil {
		t.Fatal(err)
	}
	if _, err := DecodeAudioContext(dec, []byte{0x00, 0x01}, 0); err == nil {
		t.Fatal("expected error for truncated length prefix")
	}
}
