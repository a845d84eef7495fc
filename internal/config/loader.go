package config

import (
	"encoding/json"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// Loader loads configuration from an optional YAML file, the optional
// VOICE_ADAPTER_CONFIG JSON blob, and environment variables, in that order
// of increasing precedence. An optional .env file is loaded into the process
// environment first, so with the default Lookup its entries act as
// environment variables: they override the YAML file and the JSON blob, but
// not variables that were already set. Tests can override Lookup to inject a
// deterministic map instead of the real environment.
type Loader struct {
	// Lookup defaults to os.LookupEnv.
	Lookup func(string) (string, bool)
	// EnvFilePath, if non-empty, is loaded into the process environment
	// with godotenv before Lookup is consulted. Existing environment
	// variables are never overwritten by the .env file.
	EnvFilePath string
	// YAMLFilePath, if non-empty, is unmarshaled over the defaults before
	// environment variable overrides are applied.
	YAMLFilePath string
}

// Load resolves the final Config, applying file and environment overrides on
// top of Default and validating the result.
func (l Loader) Load() (Config, error) {
	if l.EnvFilePath != "" {
		if err := godotenv.Load(l.EnvFilePath); err != nil && !os.IsNotExist(err) {
			return Config{}, fmt.Errorf("config: load .env file %s: %w", l.EnvFilePath, err)
		}
	}

	if l.Lookup == nil {
		l.Lookup = os.LookupEnv
	}

	cfg := Default()

	if l.YAMLFilePath != "" {
		data, err := os.ReadFile(l.YAMLFilePath)
		if err != nil {
			return Config{}, fmt.Errorf("config: read yaml file %s: %w", l.YAMLFilePath, err)
		}
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return Config{}, fmt.Errorf("config: parse yaml file %s: %w", l.YAMLFilePath, err)
		}
	}

	if raw, ok := l.Lookup("VOICE_ADAPTER_CONFIG"); ok && strings.TrimSpace(raw) != "" {
		if err := applyJSON(raw, &cfg); err != nil {
			return Config{}, err
		}
	}

	overrideString(l.Lookup, "VOICE_LISTEN_ADDR", &cfg.ListenAddr)
	overrideString(l.Lookup, "VOICE_METRICS_ADDR", &cfg.MetricsAddr)
	overrideString(l.Lookup, "VOICE_LOG_LEVEL", &cfg.LogLevel)
	overrideString(l.Lookup, "VOICE_LOG_FORMAT", &cfg.LogFormat)

	if err := overrideFloat(l.Lookup, "VAD_ENERGY_THRESHOLD", &cfg.VADEnergyThreshold); err != nil {
		return Config{}, err
	}
	if err := overrideFloat(l.Lookup, "VAD_ZCR_THRESHOLD", &cfg.VADZCRThreshold); err != nil {
		return Config{}, err
	}
	if err := overrideInt(l.Lookup, "VAD_FRAME_SIZE", &cfg.VADFrameSize); err != nil {
		return Config{}, err
	}
	if err := overrideInt(l.Lookup, "VAD_SPEECH_FRAMES_REQUIRED", &cfg.VADSpeechFramesRequired); err != nil {
		return Config{}, err
	}
	if err := overrideInt(l.Lookup, "VAD_SILENCE_FRAMES_REQUIRED", &cfg.VADSilenceFramesRequired); err != nil {
		return Config{}, err
	}

	overrideString(l.Lookup, "WAKEWORD_MODEL_PATH", &cfg.WakewordModelPath)
	overrideString(l.Lookup, "WAKEWORD_ACCESS_KEY", &cfg.WakewordAccessKey)
	if err := overrideFloat(l.Lookup, "WAKEWORD_SENSITIVITY", &cfg.WakewordSensitivity); err != nil {
		return Config{}, err
	}

	overrideString(l.Lookup, "ASR_MODEL_PATH", &cfg.ASRModelPath)
	overrideString(l.Lookup, "ASR_LANGUAGE", &cfg.ASRLanguage)
	if err := overrideInt(l.Lookup, "ASR_THREADS", &cfg.ASRThreads); err != nil {
		return Config{}, err
	}
	if err := overrideBool(l.Lookup, "ASR_USE_GPU", &cfg.ASRUseGPU); err != nil {
		return Config{}, err
	}
	if err := overrideInt(l.Lookup, "ASR_CHUNK_DURATION_MS", &cfg.ChunkDurationMs); err != nil {
		return Config{}, err
	}
	if err := overrideInt(l.Lookup, "ASR_OVERLAP_MS", &cfg.OverlapMs); err != nil {
		return Config{}, err
	}
	if err := overrideInt(l.Lookup, "ASR_MAX_QUEUE_SIZE", &cfg.MaxQueueSize); err != nil {
		return Config{}, err
	}

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func applyJSON(raw string, cfg *Config) error {
	var payload Config
	if err := json.Unmarshal([]byte(raw), &payload); err != nil {
		return fmt.Errorf("config: decode VOICE_ADAPTER_CONFIG: %w", err)
	}

	// Only keys present in the payload override cfg, whatever their value
	// (an explicit zero overrides too); absent keys keep cfg's value. This
	// mirrors the teacher's pointer-field jsonConfig approach.
	merge := json.RawMessage(raw)
	var probe map[string]json.RawMessage
	if err := json.Unmarshal(merge, &probe); err != nil {
		return fmt.Errorf("config: decode VOICE_ADAPTER_CONFIG: %w", err)
	}
	applyIfPresent(probe, "listen_addr", &cfg.ListenAddr, payload.ListenAddr)
	applyIfPresent(probe, "metrics_addr", &cfg.MetricsAddr, payload.MetricsAddr)
	applyIfPresent(probe, "log_level", &cfg.LogLevel, payload.LogLevel)
	applyIfPresent(probe, "log_format", &cfg.LogFormat, payload.LogFormat)
	applyIfPresent(probe, "vad_energy_threshold", &cfg.VADEnergyThreshold, payload.VADEnergyThreshold)
	applyIfPresent(probe, "vad_zcr_threshold", &cfg.VADZCRThreshold, payload.VADZCRThreshold)
	applyIfPresent(probe, "vad_frame_size", &cfg.VADFrameSize, payload.VADFrameSize)
	applyIfPresent(probe, "vad_speech_frames_required", &cfg.VADSpeechFramesRequired, payload.VADSpeechFramesRequired)
	applyIfPresent(probe, "vad_silence_frames_required", &cfg.VADSilenceFramesRequired, payload.VADSilenceFramesRequired)
	applyIfPresent(probe, "wakeword_model_path", &cfg.WakewordModelPath, payload.WakewordModelPath)
	applyIfPresent(probe, "wakeword_access_key", &cfg.WakewordAccessKey, payload.WakewordAccessKey)
	applyIfPresent(probe, "wakeword_sensitivity", &cfg.WakewordSensitivity, payload.WakewordSensitivity)
	applyIfPresent(probe, "asr_model_path", &cfg.ASRModelPath, payload.ASRModelPath)
	applyIfPresent(probe, "asr_language", &cfg.ASRLanguage, payload.ASRLanguage)
	applyIfPresent(probe, "asr_threads", &cfg.ASRThreads, payload.ASRThreads)
	applyIfPresent(probe, "asr_use_gpu", &cfg.ASRUseGPU, payload.ASRUseGPU)
	applyIfPresent(probe, "chunk_duration_ms", &cfg.ChunkDurationMs, payload.ChunkDurationMs)
	applyIfPresent(probe, "overlap_ms", &cfg.OverlapMs, payload.OverlapMs)
	applyIfPresent(probe, "max_queue_size", &cfg.MaxQueueSize, payload.MaxQueueSize)
	return nil
}

func applyIfPresent[T any](probe map[string]json.RawMessage, key string, target *T, value T) {
	if _, present := probe[key]; present {
		*target = value
	}
}

func overrideString(lookup func(string) (string, bool), key string, target *string) {
	if value, ok := lookup(key); ok && strings.TrimSpace(value) != "" {
		*target = strings.TrimSpace(value)
	}
}

func overrideFloat(lookup func(string) (string, bool), key string, target *float64) error {
	if value, ok := lookup(key); ok && strings.TrimSpace(value) != "" {
		parsed, err := strconv.ParseFloat(strings.TrimSpace(value), 64)
		if err != nil {
			return fmt.Errorf("config: invalid value for %s: %w", key, err)
		}
		*target = parsed
	}
	return nil
}

func overrideInt(lookup func(string) (string, bool), key string, target *int) error {
	if value, ok := lookup(key); ok && strings.TrimSpace(value) != "" {
		parsed, err := strconv.Atoi(strings.TrimSpace(value))
		if err != nil {
			return fmt.Errorf("config: invalid value for %s: %w", key, err)
		}
		*target = parsed
	}
	return nil
}

func overrideBool(lookup func(string) (string, bool), key string, target *bool) error {
	if value, ok := lookup(key); ok && strings.TrimSpace(value) != "" {
		parsed, err := strconv.ParseBool(strings.TrimSpace(value))
		if err != nil {
			return fmt.Errorf("config: invalid value for %s: %w", key, err)
		}
		*target = parsed
	}
	return nil
}
