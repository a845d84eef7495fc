// Package config loads the assistant's configuration from environment
// variables, an optional .env file, and an optional YAML file, following
// the teacher's env-var Loader pattern with a JSON-blob override.
package config

import "fmt"

const (
	DefaultListenAddr   = "localhost:0"
	DefaultMetricsAddr  = "localhost:9090"
	DefaultLogLevel     = "info"
	DefaultLogFormat    = "text"
	DefaultSensitivity  = 0.5
	DefaultASRLanguage  = "en"
	DefaultASRThreads   = 4
	DefaultChunkMs      = 500
	DefaultOverlapMs    = 50
	DefaultMaxQueueSize = 100
)

// Config holds every tunable setting for the capture -> VAD -> wake-word ->
// streaming ASR pipeline and the transports fronting it.
type Config struct {
	ListenAddr  string `json:"listen_addr" yaml:"listen_addr"`
	MetricsAddr string `json:"metrics_addr" yaml:"metrics_addr"`
	LogLevel    string `json:"log_level" yaml:"log_level"`
	LogFormat   string `json:"log_format" yaml:"log_format"`

	// VAD thresholds.
	VADEnergyThreshold       float64 `json:"vad_energy_threshold" yaml:"vad_energy_threshold"`
	VADZCRThreshold          float64 `json:"vad_zcr_threshold" yaml:"vad_zcr_threshold"`
	VADFrameSize             int     `json:"vad_frame_size" yaml:"vad_frame_size"`
	VADSpeechFramesRequired  int     `json:"vad_speech_frames_required" yaml:"vad_speech_frames_required"`
	VADSilenceFramesRequired int     `json:"vad_silence_frames_required" yaml:"vad_silence_frames_required"`

	// Wake-word classifier.
	WakewordModelPath string  `json:"wakeword_model_path" yaml:"wakeword_model_path"`
	WakewordAccessKey string  `json:"wakeword_access_key" yaml:"wakeword_access_key"`
	WakewordSensitivity float64 `json:"wakeword_sensitivity" yaml:"wakeword_sensitivity"`

	// ASR engine and streaming.
	ASRModelPath    string `json:"asr_model_path" yaml:"asr_model_path"`
	ASRLanguage     string `json:"asr_language" yaml:"asr_language"`
	ASRThreads      int    `json:"asr_threads" yaml:"asr_threads"`
	ASRUseGPU       bool   `json:"asr_use_gpu" yaml:"asr_use_gpu"`
	ChunkDurationMs int    `json:"chunk_duration_ms" yaml:"chunk_duration_ms"`
	OverlapMs       int    `json:"overlap_ms" yaml:"overlap_ms"`
	MaxQueueSize    int    `json:"max_queue_size" yaml:"max_queue_size"`
}

// Default returns the configuration with every field at its documented
// default value.
func Default() Config {
	return Config{
		ListenAddr:  DefaultListenAddr,
		MetricsAddr: DefaultMetricsAddr,
		LogLevel:    DefaultLogLevel,
		LogFormat:   DefaultLogFormat,

		VADEnergyThreshold:       0.02,
		VADZCRThreshold:          0.15,
		VADFrameSize:             480,
		VADSpeechFramesRequired:  3,
		VADSilenceFramesRequired: 10,

		WakewordModelPath:   "models/aether.ppn",
		WakewordSensitivity: DefaultSensitivity,

		ASRLanguage:     DefaultASRLanguage,
		ASRThreads:      DefaultASRThreads,
		ChunkDurationMs: DefaultChunkMs,
		OverlapMs:       DefaultOverlapMs,
		MaxQueueSize:    DefaultMaxQueueSize,
	}
}

// Validate applies the Configuration error taxonomy: invalid sensitivity,
// invalid sample/frame parameters, and a missing wake-word access key are
// all fatal at startup.
func (c Config) Validate() error {
	if c.WakewordAccessKey == "" {
		return fmt.Errorf("config: wakeword access key is required (MissingAccessKey)")
	}
	if c.WakewordSensitivity < 0 || c.WakewordSensitivity > 1 {
		return fmt.Errorf("config: wakeword_sensitivity must be between 0.0 and 1.0, got %v (InvalidSensitivity)", c.WakewordSensitivity)
	}
	if c.VADEnergyThreshold < 0 || c.VADEnergyThreshold > 1 {
		return fmt.Errorf("config: vad_energy_threshold must be between 0.0 and 1.0, got %v", c.VADEnergyThreshold)
	}
	if c.VADZCRThreshold < 0 || c.VADZCRThreshold > 1 {
		return fmt.Errorf("config: vad_zcr_threshold must be between 0.0 and 1.0, got %v", c.VADZCRThreshold)
	}
	if c.VADFrameSize <= 0 {
		return fmt.Errorf("config: vad_frame_size must be greater than 0 (InvalidFrameSize)")
	}
	if c.ChunkDurationMs <= 0 || c.OverlapMs < 0 || c.OverlapMs >= c.ChunkDurationMs {
		return fmt.Errorf("config: overlap_ms must be smaller than chunk_duration_ms")
	}
	if c.MaxQueueSize <= 0 {
		return fmt.Errorf("config: max_queue_size must be greater than 0")
	}
	if c.ASRThreads <= 0 {
		return fmt.Errorf("config: asr_threads must be greater than 0")
	}
	return nil
}
