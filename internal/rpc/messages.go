package rpc

// AudioChunkMsg is a single inbound audio frame on either streaming RPC.
type AudioChunkMsg struct {
	SessionID    string  `json:"session_id"`
	StreamID     string  `json:"stream_id"`
	SampleRateHz int     `json:"sample_rate_hz"`
	Channels     int     `json:"channels"`
	PCM          []int16 `json:"pcm"`
}

// WakeWordEventMsg is the wire form of detector.Event.
type WakeWordEventMsg struct {
	TimestampMicros int64   `json:"timestamp_micros"`
	Confidence      float32 `json:"confidence"`
	AudioContext    []int16 `json:"audio_context"`
	KeywordIndex    int     `json:"keyword_index"`
}

// StreamingEventMsg is the wire form of asrstream.StreamingEvent.
type StreamingEventMsg struct {
	Kind        string  `json:"kind"`
	Text        string  `json:"text,omitempty"`
	Confidence  float32 `json:"confidence,omitempty"`
	TimestampMs uint64  `json:"timestamp_ms,omitempty"`
	StartMs     uint64  `json:"start_ms,omitempty"`
	EndMs       uint64  `json:"end_ms,omitempty"`
	Error       string  `json:"error,omitempty"`
}

const (
	kindPartial     = "partial"
	kindFinal       = "final"
	kindEndOfSpeech = "end_of_speech"
	kindError       = "error"
)
