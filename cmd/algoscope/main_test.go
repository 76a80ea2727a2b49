package main

import (
	"strings"
	"testing"
	"time"

	"algoscope/internal/config"
	"algoscope/internal/history"
)

func TestResolveConfigPath(t *testing.T) {
	t.Setenv("ALGOSCOPE_CONFIG_PATH", "")
	if got := resolveConfigPath(""); got != "config.toml" {
		t.Errorf("default path = %q, want config.toml", got)
	}

	t.Setenv("ALGOSCOPE_CONFIG_PATH", "/etc/algoscope.toml")
	if got := resolveConfigPath(""); got != "/etc/algoscope.toml" {
		t.Errorf("env path = %q, want /etc/algoscope.toml", got)
	}

	// The flag outranks the environment.
	if got := resolveConfigPath("./custom.toml"); got != "./custom.toml" {
		t.Errorf("flag path = %q, want ./custom.toml", got)
	}
}

func TestApplyOverrides(t *testing.T) {
	cfg := config.DefaultConfig()
	applyOverrides(cfg, 7, 30*time.Second)

	if cfg.Analysis.DaysBack != 7 {
		t.Errorf("DaysBack = %d, want 7", cfg.Analysis.DaysBack)
	}
	if cfg.Schedule.PollInterval.Duration != 30*time.Second {
		t.Errorf("PollInterval = %v, want 30s", cfg.Schedule.PollInterval.Duration)
	}
}

func TestApplyOverrides_ZeroMeansUnset(t *testing.T) {
	cfg := config.DefaultConfig()
	days := cfg.Analysis.DaysBack
	interval := cfg.Schedule.PollInterval.Duration

	applyOverrides(cfg, 0, 0)

	if cfg.Analysis.DaysBack != days {
		t.Errorf("DaysBack changed to %d without a flag", cfg.Analysis.DaysBack)
	}
	if cfg.Schedule.PollInterval.Duration != interval {
		t.Errorf("PollInterval changed to %v without a flag", cfg.Schedule.PollInterval.Duration)
	}
}

func TestFormatRuns(t *testing.T) {
	if got := formatRuns(nil); got != "no archived analysis runs\n" {
		t.Errorf("empty listing = %q", got)
	}

	runs := []history.Run{{
		RunID:        "abc-123",
		Algorithm:    "Martingale-Based EA",
		Confidence:   0.8,
		PatternCount: 3,
		PeriodDays:   30,
		TotalTrades:  42,
		CreatedAt:    time.Date(2026, 8, 30, 18, 0, 0, 0, time.UTC),
	}}
	out := formatRuns(runs)
	for _, want := range []string{"abc-123", "Martingale-Based EA", "confidence 80.0%", "trades 42", "2026-08-30 18:00"} {
		if !strings.Contains(out, want) {
			t.Errorf("listing missing %q in %q", want, out)
		}
	}
}
