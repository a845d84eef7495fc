package audiocodec

import (
	"encoding/binary"
	"fmt"
)

// EncodeAudioContext splits an arbitrary-length PCM buffer into
// FrameSizeSamples()-sized frames (zero-padding the final partial frame),
// Opus-encodes each, and concatenates them as [uint32 length][packet]...
// so DecodeAudioContext can recover frame boundaries without a side
// channel. sampleCount preserves the original, unpadded sample count.
func EncodeAudioContext(enc *Encoder, pcm []int16) (data []byte, sampleCount int, err error) {
	sampleCount = len(pcm)
	frameSize := FrameSizeSamples()

	for offset := 0; offset < len(pcm); offset += frameSize {
		end := offset + frameSize
		frame := make([]int16, frameSize)
		if end > len(pcm) {
			end = len(pcm)
		}
		copy(frame, pcm[offset:end])

		packet, encErr := enc.Encode(frame)
		if encErr != nil {
			return nil, 0, fmt.Errorf("audiocodec: encode context frame at offset %d: %w", offset, encErr)
		}

		var lengthPrefix [4]byte
		binary.BigEndian.PutUint32(lengthPrefix[:], uint32(len(packet)))
		data = append(data, lengthPrefix[:]...)
		data = append(data, packet...)
	}
	return data, sampleCount, nil
}

// DecodeAudioContext reverses EncodeAudioContext, trimming the final
// frame's zero padding back down to sampleCount.
func DecodeAudioContext(dec *Decoder, data []byte, sampleCount int) ([]int16, error) {
	frameSize := FrameSizeSamples()
	var pcm []int16

	for len(data) > 0 {
		if len(data) < 4 {
			return nil, fmt.Errorf("audiocodec: truncated length prefix")
		}
		length := binary.BigEndian.Uint32(data[:4])
		data = data[4:]
		if uint32(len(data)) < length {
			return nil, fmt.Errorf("audiocodec: truncated opus packet, want %d bytes, have %d", length, len(data))
		}
		packet := data[:length]
		data = data[length:]

		frame, err := dec.Decode(packet, frameSize, false)
		if err != nil {
			return nil, err
		}
		pcm = append(pcm, frame...)
	}

	if len(pcm) > sampleCount {
		pcm = pcm[:sampleCount]
	}
	return pcm, nil
}
