package detect

import (
	"algoscope/internal/config"
	"algoscope/internal/trade"
)

// Pattern is one detector's verdict: a named trading behaviour with a
// confidence in [0,1], human-readable evidence, and numeric metrics.
// Patterns are never mutated after creation.
type Pattern struct {
	Name        string
	Confidence  float64
	Description string
	Evidence    []string
	Metrics     map[string]float64
}

// Detector is the interface every pattern detector implements. Detect
// returns (Pattern, true) when it can classify the input and (zero, false)
// when the input is empty or below the detector's minimum sample size.
// Insufficient data is absence, never a low-confidence guess and never an
// error.
type Detector interface {
	Name() string
	Enabled() bool
	Detect(deals []trade.Deal, orders []trade.Order) (Pattern, bool)
}

// Registry builds the full detector battery from config, in evaluation order.
func Registry(cfg config.DetectorConfig) []Detector {
	return []Detector{
		NewSizing(cfg.Sizing),
		NewTiming(cfg.Timing),
		NewRiskManagement(cfg.Risk),
		NewFrequency(cfg.Frequency),
		NewSymbol(cfg.Symbol),
		NewGrid(cfg.Grid),
		NewNews(cfg.News),
		NewCorrelation(cfg.Correlation),
		NewHedging(cfg.Hedging),
		NewScaling(cfg.Scaling),
		NewPrecision(cfg.Precision),
	}
}

func clamp01(c float64) float64 {
	if c < 0 {
		return 0
	}
	if c > 1 {
		return 1
	}
	return c
}
