package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestLoad_OverridesDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	content := `
[general]
db_path = "/tmp/test.db"
log_level = "debug"

[schedule]
poll_interval = "5m"
report_cron = "0 18 * * *"

[analysis]
days_back = 7

[detector.sizing]
enabled = false
`
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatal(err)
	}

	if cfg.General.DBPath != "/tmp/test.db" {
		t.Errorf("DBPath = %q", cfg.General.DBPath)
	}
	if cfg.Schedule.PollInterval.Duration != 5*time.Minute {
		t.Errorf("PollInterval = %v, want 5m", cfg.Schedule.PollInterval.Duration)
	}
	if cfg.Schedule.ReportCron != "0 18 * * *" {
		t.Errorf("ReportCron = %q", cfg.Schedule.ReportCron)
	}
	if cfg.Analysis.DaysBack != 7 {
		t.Errorf("DaysBack = %d, want 7", cfg.Analysis.DaysBack)
	}
	if cfg.Detector.Sizing.Enabled {
		t.Error("detector.sizing should be disabled by the file")
	}

	// Untouched sections keep their defaults.
	if !cfg.Detector.Grid.Enabled {
		t.Error("detector.grid should stay enabled by default")
	}
	if cfg.Detector.Frequency.HFTTradesPerDay != 50 {
		t.Errorf("HFTTradesPerDay = %v, want the default 50", cfg.Detector.Frequency.HFTTradesPerDay)
	}
}

func TestLoad_MissingFile(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "absent.toml")); err == nil {
		t.Error("expected an error for a missing config file")
	}
}

func TestDuration_UnmarshalText(t *testing.T) {
	var d Duration
	if err := d.UnmarshalText([]byte("90s")); err != nil {
		t.Fatal(err)
	}
	if d.Duration != 90*time.Second {
		t.Errorf("Duration = %v, want 90s", d.Duration)
	}
	if err := d.UnmarshalText([]byte("not-a-duration")); err == nil {
		t.Error("expected an error for a malformed duration")
	}
}
