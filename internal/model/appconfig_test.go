package model

import (
	"math"
	"testing"
	"time"
)

func TestDefaultAppConfig(t *testing.T) {
	cfg := DefaultAppConfig()

	if cfg.InitialShapeSize != InitShapeSize {
		t.Errorf("expected InitialShapeSize=%d, got %d", InitShapeSize, cfg.InitialShapeSize)
	}
	if cfg.InitialWorldSize != InitWorldSize {
		t.Errorf("expected InitialWorldSize=%d, got %d", InitWorldSize, cfg.InitialWorldSize)
	}
	if cfg.PollInterval() != 50*time.Millisecond {
		t.Errorf("expected 50ms poll interval, got %s", cfg.PollInterval())
	}
	if cfg.Delay() != 0 {
		t.Errorf("expected no delay, got %s", cfg.Delay())
	}
	if cfg.Theme != "system" {
		t.Errorf("expected default theme=system, got %s", cfg.Theme)
	}
	if cfg.RecentPatterns == nil {
		t.Error("RecentPatterns should not be nil")
	}
}

func TestAppConfig_Durations(t *testing.T) {
	cfg := AppConfig{DelayMillis: 120, PausePollMillis: -1}
	if cfg.Delay() != 120*time.Millisecond {
		t.Errorf("expected 120ms, got %s", cfg.Delay())
	}
	if cfg.PollInterval() != 50*time.Millisecond {
		t.Errorf("expected fallback of 50ms, got %s", cfg.PollInterval())
	}
}

func TestAppConfig_FillProbability(t *testing.T) {
	for _, tc := range []struct {
		percent int
		want    float64
	}{{-5, 0}, {0, 0}, {50, 0.5}, {100, 1}, {250, 1}} {
		cfg := AppConfig{WorldFillPercent: tc.percent}
		if got := cfg.FillProbability(); got != tc.want {
			t.Errorf("FillProbability(%d%%) = %f, want %f", tc.percent, got, tc.want)
		}
	}
}

func TestAppConfig_AddRecent(t *testing.T) {
	cfg := DefaultAppConfig()
	for i := 0; i < 12; i++ {
		cfg.AddRecent(string(rune('a' + i)))
	}
	if len(cfg.RecentPatterns) != 10 {
		t.Fatalf("expected 10 recent entries, got %d", len(cfg.RecentPatterns))
	}
	if cfg.RecentPatterns[0] != "l" {
		t.Errorf("expected most recent first, got %s", cfg.RecentPatterns[0])
	}
	cfg.AddRecent("e")
	if cfg.RecentPatterns[0] != "e" || cfg.RecentPatterns[1] != "l" {
		t.Errorf("re-adding should move to front: %v", cfg.RecentPatterns)
	}
	for _, p := range cfg.RecentPatterns[1:] {
		if p == "e" {
			t.Error("duplicate entry left behind")
		}
	}
}

func TestClampSize(t *testing.T) {
	tests := []struct{ size, lo, hi, want int }{
		{2, MinShapeSize, MaxShapeSize, MinShapeSize},
		{60, MinShapeSize, MaxShapeSize, MaxShapeSize},
		{17, MinWorldSize, MaxWorldSize, 17},
		{0, 0, 10, 1},
	}
	for _, tt := range tests {
		if got := ClampSize(tt.size, tt.lo, tt.hi); got != tt.want {
			t.Errorf("ClampSize(%d, %d, %d) = %d, want %d", tt.size, tt.lo, tt.hi, got, tt.want)
		}
	}
}

func TestDelayAdjust(t *testing.T) {
	if got := BumpDelay(0); got != 1 {
		t.Errorf("BumpDelay(0) = %f, want 1", got)
	}
	if got := BumpDelay(100); math.Abs(got-120) > 1e-9 {
		t.Errorf("BumpDelay(100) = %f, want 120", got)
	}
	if got := DropDelay(0.5); got != 0.5 {
		t.Errorf("DropDelay(0.5) = %f, want 0.5", got)
	}
	if got := DropDelay(120); math.Abs(got-100) > 1e-9 {
		t.Errorf("DropDelay(120) = %f, want 100", got)
	}
	if got := DropDelay(2); got != 1 {
		t.Errorf("DropDelay(2) = %f, want 1", got)
	}
}
