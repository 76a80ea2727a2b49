package config

import (
	"fmt"
	"os"
	"time"

	"github.com/BurntSushi/toml"
)

type Config struct {
	General  GeneralConfig  `toml:"general"`
	Schedule ScheduleConfig `toml:"schedule"`
	Analysis AnalysisConfig `toml:"analysis"`
	Detector DetectorConfig `toml:"detector"`
}

type GeneralConfig struct {
	DBPath    string `toml:"db_path"`
	LogLevel  string `toml:"log_level"`
	ReportDir string `toml:"report_dir"`
}

type ScheduleConfig struct {
	PollInterval Duration `toml:"poll_interval"`
	// ReportCron optionally schedules report export in live mode,
	// e.g. "0 18 * * *". Empty disables the job.
	ReportCron string `toml:"report_cron"`
}

type AnalysisConfig struct {
	DaysBack     int     `toml:"days_back"`
	MinDeals     int     `toml:"min_deals"`
	RiskFreeRate float64 `toml:"risk_free_rate"`
}

type DetectorConfig struct {
	Sizing      SizingConfig      `toml:"sizing"`
	Timing      TimingConfig      `toml:"timing"`
	Risk        RiskConfig        `toml:"risk"`
	Frequency   FrequencyConfig   `toml:"frequency"`
	Symbol      SymbolConfig      `toml:"symbol"`
	Grid        GridConfig        `toml:"grid"`
	News        NewsConfig        `toml:"news"`
	Correlation CorrelationConfig `toml:"correlation"`
	Hedging     HedgingConfig     `toml:"hedging"`
	Scaling     ScalingConfig     `toml:"scaling"`
	Precision   PrecisionConfig   `toml:"precision"`
}

type SizingConfig struct {
	Enabled                 bool    `toml:"enabled"`
	MinSamples              int     `toml:"min_samples"`
	MartingaleMinTrades     int     `toml:"martingale_min_trades"`
	MartingaleVolumeFactor  float64 `toml:"martingale_volume_factor"`
	MartingaleStepRatio     float64 `toml:"martingale_step_ratio"`
	ProportionalCVThreshold float64 `toml:"proportional_cv_threshold"`
}

type TimingConfig struct {
	Enabled              bool    `toml:"enabled"`
	MinSamples           int     `toml:"min_samples"`
	ScheduledHourPct     float64 `toml:"scheduled_hour_pct"`
	PreferredHourPct     float64 `toml:"preferred_hour_pct"`
	IntervalSpreadFactor float64 `toml:"interval_spread_factor"`
	IntervalMaxMinutes   float64 `toml:"interval_max_minutes"`
	WeekdayPct           float64 `toml:"weekday_pct"`
}

type RiskConfig struct {
	Enabled          bool    `toml:"enabled"`
	UsagePct         float64 `toml:"usage_pct"`
	FavorableRR      float64 `toml:"favorable_rr"`
	MartingaleHintRR float64 `toml:"martingale_hint_rr"`
}

type FrequencyConfig struct {
	Enabled             bool    `toml:"enabled"`
	MinSamples          int     `toml:"min_samples"`
	HFTTradesPerDay     float64 `toml:"hft_trades_per_day"`
	ScalpTradesPerDay   float64 `toml:"scalp_trades_per_day"`
	DayTradesPerDay     float64 `toml:"day_trades_per_day"`
	SwingTradesPerDay   float64 `toml:"swing_trades_per_day"`
	ConsistencyCVFactor float64 `toml:"consistency_cv_factor"`
}

type SymbolConfig struct {
	Enabled       bool    `toml:"enabled"`
	FocusedPct    float64 `toml:"focused_pct"`
	MultiMaxCount int     `toml:"multi_max_count"`
}

type GridConfig struct {
	Enabled          bool    `toml:"enabled"`
	MinPendingOrders int     `toml:"min_pending_orders"`
	SpacingCVFactor  float64 `toml:"spacing_cv_factor"`
}

type NewsConfig struct {
	Enabled         bool    `toml:"enabled"`
	MinSamples      int     `toml:"min_samples"`
	ShortGapMinutes float64 `toml:"short_gap_minutes"`
	LongGapMinutes  float64 `toml:"long_gap_minutes"`
	ClusterRatio    float64 `toml:"cluster_ratio"`
}

type CorrelationConfig struct {
	Enabled           bool    `toml:"enabled"`
	MinSamples        int     `toml:"min_samples"`
	SimultaneousRatio float64 `toml:"simultaneous_ratio"`
}

type HedgingConfig struct {
	Enabled       bool    `toml:"enabled"`
	MinSamples    int     `toml:"min_samples"`
	WindowMinutes float64 `toml:"window_minutes"`
	Ratio         float64 `toml:"ratio"`
}

type ScalingConfig struct {
	Enabled        bool `toml:"enabled"`
	MinSymbolDeals int  `toml:"min_symbol_deals"`
}

type PrecisionConfig struct {
	Enabled              bool    `toml:"enabled"`
	MinSamples           int     `toml:"min_samples"`
	ConsistencyThreshold float64 `toml:"consistency_threshold"`
	RoundNumberRatio     float64 `toml:"round_number_ratio"`
}

// Duration wraps time.Duration for TOML unmarshaling.
type Duration struct {
	time.Duration
}

func (d *Duration) UnmarshalText(text []byte) error {
	var err error
	d.Duration, err = time.ParseDuration(string(text))
	return err
}

func Load(path string) (*Config, error) {
	cfg := DefaultConfig()

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading config: %w", err)
	}

	if err := toml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}

	return cfg, nil
}

// DefaultConfig carries the reference thresholds. Confidence values are
// calibration constants and live with their detectors, not here.
func DefaultConfig() *Config {
	return &Config{
		General: GeneralConfig{
			DBPath:    "./data/algoscope.db",
			LogLevel:  "info",
			ReportDir: "./reports",
		},
		Schedule: ScheduleConfig{
			PollInterval: Duration{60 * time.Second},
		},
		Analysis: AnalysisConfig{
			DaysBack:     30,
			MinDeals:     1,
			RiskFreeRate: 0.02,
		},
		Detector: DetectorConfig{
			Sizing: SizingConfig{
				Enabled:                 true,
				MinSamples:              2,
				MartingaleMinTrades:     4,
				MartingaleVolumeFactor:  1.8,
				MartingaleStepRatio:     0.3,
				ProportionalCVThreshold: 0.2,
			},
			Timing: TimingConfig{
				Enabled:              true,
				MinSamples:           2,
				ScheduledHourPct:     50,
				PreferredHourPct:     30,
				IntervalSpreadFactor: 0.3,
				IntervalMaxMinutes:   60,
				WeekdayPct:           40,
			},
			Risk: RiskConfig{
				Enabled:          true,
				UsagePct:         80,
				FavorableRR:      2,
				MartingaleHintRR: 0.5,
			},
			Frequency: FrequencyConfig{
				Enabled:             true,
				MinSamples:          2,
				HFTTradesPerDay:     50,
				ScalpTradesPerDay:   20,
				DayTradesPerDay:     5,
				SwingTradesPerDay:   1,
				ConsistencyCVFactor: 0.3,
			},
			Symbol: SymbolConfig{
				Enabled:       true,
				FocusedPct:    70,
				MultiMaxCount: 5,
			},
			Grid: GridConfig{
				Enabled:          true,
				MinPendingOrders: 3,
				SpacingCVFactor:  0.3,
			},
			News: NewsConfig{
				Enabled:         true,
				MinSamples:      4,
				ShortGapMinutes: 5,
				LongGapMinutes:  60,
				ClusterRatio:    0.1,
			},
			Correlation: CorrelationConfig{
				Enabled:           true,
				MinSamples:        2,
				SimultaneousRatio: 0.3,
			},
			Hedging: HedgingConfig{
				Enabled:       true,
				MinSamples:    2,
				WindowMinutes: 10,
				Ratio:         0.3,
			},
			Scaling: ScalingConfig{
				Enabled:        true,
				MinSymbolDeals: 3,
			},
			Precision: PrecisionConfig{
				Enabled:              true,
				MinSamples:           2,
				ConsistencyThreshold: 0.7,
				RoundNumberRatio:     0.5,
			},
		},
	}
}
