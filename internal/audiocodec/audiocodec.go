// Package audiocodec Opus-encodes audio context bytes at the transport
// boundary. In-process, a wake-word event always carries raw i16 PCM at
// 16 kHz mono; encoding only happens when that PCM crosses the
// gRPC/websocket wire.
package audiocodec

import (
	"fmt"

	"layeh.com/gopus"

	"github.com/aethervoice/assistant/internal/audio"
)

// frameSizeSamples is the Opus frame size in samples per channel for
// audio.CanonicalSampleRate (16 kHz) at a 20ms frame, matching the frame
// duration convention used elsewhere in this module.
const frameSizeSamples = audio.CanonicalSampleRate * 20 / 1000

const channels = 1

// Encoder Opus-encodes mono 16 kHz PCM frames.
type Encoder struct {
	enc *gopus.Encoder
}

// NewEncoder creates an Encoder tuned for voice (gopus.Voip) at the
// canonical sample rate.
func NewEncoder() (*Encoder, error) {
	enc, err := gopus.NewEncoder(audio.CanonicalSampleRate, channels, gopus.Voip)
	if err != nil {
		return nil, fmt.Errorf("audiocodec: create opus encoder: %w", err)
	}
	return &Encoder{enc: enc}, nil
}

// Encode compresses one frame of PCM samples into an Opus packet. pcm must
// contain exactly FrameSizeSamples() samples; frames of a different length
// are padded or truncated by the caller before reaching this point.
func (e *Encoder) Encode(pcm []int16) ([]byte, error) {
	maxBytes := len(pcm) * 2
	packet, err := e.enc.Encode(pcm, len(pcm), maxBytes)
	if err != nil {
		return nil, fmt.Errorf("audiocodec: opus encode: %w", err)
	}
	return packet, nil
}

// Decoder decodes Opus packets back into mono 16 kHz PCM frames.
type Decoder struct {
	dec *gopus.Decoder
}

// NewDecoder creates a Decoder tuned for the canonical sample rate.
func NewDecoder() (*Decoder, error) {
	dec, err := gopus.NewDecoder(audio.CanonicalSampleRate, channels)
	if err != nil {
		return nil, fmt.Errorf("audiocodec: create opus decoder: %w", err)
	}
	return &Decoder{dec: dec}, nil
}

// Decode expands an Opus packet into frameSize PCM samples. fec requests
// forward error concealment for a packet known to have been lost.
func (d *Decoder) Decode(packet []byte, frameSize int, fec bool) ([]int16, error) {
	pcm, err := d.dec.Decode(packet, frameSize, fec)
	if err != nil {
		return nil, fmt.Errorf("audiocodec: opus decode: %w", err)
	}
	return pcm, nil
}

// FrameSizeSamples returns the frame size, in samples, Encode expects at
// the canonical sample rate.
func FrameSizeSamples() int {
	return frameSizeSamples
}
