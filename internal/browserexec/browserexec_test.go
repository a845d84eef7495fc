package browserexec

import "testing"

func TestDefaultConfigMatchesExecutorDefaults(t *testing.T) {
	cfg := DefaultConfig()
	if !cfg.Headless {
		t.Error("expected headless by default")
	}
	if cfg.DefaultTimeout <= 0 {
		t.Error("expected positive default timeout")
	}
	if cfg.MaxExecutionTime <= cfg.DefaultTimeout {
		t.Error("expected max execution time to exceed default timeout")
	}
	if cfg.ViewportWidth == 0 || cfg.ViewportHeight == 0 {
		t.Error("expected non-zero viewport dimensions")
	}
}

func TestNewDoesNotLaunchBrowser(t *testing.T) {
	a := New(DefaultConfig())
	if a.browser != nil {
		t.Error("expected browser to remain unlaunched until first use")
	}
	if err := a.Close(); err != nil {
		t.Fatalf("closing an unlaunched automator should be a no-op: %v", err)
	}
}

func TestStatsStartAtZero(t *testing.T) {
	a := New(DefaultConfig())
	stats := a.Stats()
	if stats.TotalActions != 0 || stats.SuccessfulActions != 0 || stats.FailedActions != 0 {
		t.Errorf("expected zeroed stats, got %+v", stats)
	}
}
