package config

import "testing"

func lookupFrom(env map[string]string) func(string) (string, bool) {
	return func(key string) (string, bool) {
		v, ok := env[key]
		return v, ok
	}
}

func TestLoaderDefaults(t *testing.T) {
	loader := Loader{Lookup: lookupFrom(map[string]string{
		"WAKEWORD_ACCESS_KEY": "test-key",
	})}
	cfg, err := loader.Load()
	if err != nil {
		t.Fatal(err)
	}
	if cfg.ListenAddr != DefaultListenAddr {
		t.Errorf("ListenAddr = %q, want %q", cfg.ListenAddr, DefaultListenAddr)
	}
	if cfg.WakewordSensitivity != DefaultSensitivity {
		t.Errorf("WakewordSensitivity = %v, want %v", cfg.WakewordSensitivity, DefaultSensitivity)
	}
	if cfg.ChunkDurationMs != DefaultChunkMs {
		t.Errorf("ChunkDurationMs = %d, want %d", cfg.ChunkDurationMs, DefaultChunkMs)
	}
}

func TestLoaderMissingAccessKeyFails(t *testing.T) {
	loader := Loader{Lookup: lookupFrom(map[string]string{})}
	if _, err := loader.Load(); err == nil {
		t.Fatal("expected error for missing wakeword access key")
	}
}

func TestLoaderJSON(t *testing.T) {
	loader := Loader{Lookup: lookupFrom(map[string]string{
		"VOICE_ADAPTER_CONFIG": `{"wakeword_access_key":"from-json","wakeword_sensitivity":0.7,"listen_addr":"localhost:9999"}`,
	})}
	cfg, err := loader.Load()
	if err != nil {
		t.Fatal(err)
	}
	if cfg.WakewordSensitivity != 0.7 {
		t.Errorf("WakewordSensitivity = %v, want 0.7", cfg.WakewordSensitivity)
	}
	if cfg.ListenAddr != "localhost:9999" {
		t.Errorf("ListenAddr = %q, want %q", cfg.ListenAddr, "localhost:9999")
	}
	// Unset fields keep defaults.
	if cfg.ASRLanguage != DefaultASRLanguage {
		t.Errorf("ASRLanguage = %q, want default %q", cfg.ASRLanguage, DefaultASRLanguage)
	}
}

func TestLoaderEnvOverridesJSON(t *testing.T) {
	loader := Loader{Lookup: lookupFrom(map[string]string{
		"VOICE_ADAPTER_CONFIG": `{"wakeword_access_key":"from-json","wakeword_sensitivity":0.3}`,
		"WAKEWORD_SENSITIVITY": "0.8",
		"VOICE_LISTEN_ADDR":    "127.0.0.1:5555",
	})}
	cfg, err := loader.Load()
	if err != nil {
		t.Fatal(err)
	}
	if cfg.WakewordSensitivity != 0.8 {
		t.Errorf("WakewordSensitivity = %v, want 0.8 (env override)", cfg.WakewordSensitivity)
	}
	if cfg.ListenAddr != "127.0.0.1:5555" {
		t.Errorf("ListenAddr = %q, want %q", cfg.ListenAddr, "127.0.0.1:5555")
	}
}

func TestLoaderInvalidJSON(t *testing.T) {
	loader := Loader{Lookup: lookupFrom(map[string]string{
		"VOICE_ADAPTER_CONFIG": `{bad json}`,
	})}
	if _, err := loader.Load(); err == nil {
		t.Fatal("expected error for invalid JSON")
	}
}

func TestLoaderInvalidSensitivityRejected(t *testing.T) {
	loader := Loader{Lookup: lookupFrom(map[string]string{
		"WAKEWORD_ACCESS_KEY":  "test-key",
		"WAKEWORD_SENSITIVITY": "1.5",
	})}
	if _, err := loader.Load(); err == nil {
		t.Fatal("expected error for sensitivity out of range")
	}
}

func TestLoaderInvalidIntegerOverride(t *testing.T) {
	loader := Loader{Lookup: lookupFrom(map[string]string{
		"WAKEWORD_ACCESS_KEY": "test-key",
		"VAD_FRAME_SIZE":      "not-a-number",
	})}
	if _, err := loader.Load(); err == nil {
		t.Fatal("expected error for non-numeric VAD_FRAME_SIZE")
	}
}
