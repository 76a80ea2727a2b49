package analyzer

import (
	"log/slog"

	"algoscope/internal/config"
	"algoscope/internal/detect"
	"algoscope/internal/metrics"
	"algoscope/internal/signature"
	"algoscope/internal/stats"
	"algoscope/internal/trade"
)

// Analyzer runs the full detection pipeline over one immutable snapshot of
// deal/order tables. It holds no state between runs.
type Analyzer struct {
	detectors []detect.Detector
	cfg       config.AnalysisConfig
}

func New(detectors []detect.Detector, cfg config.AnalysisConfig) *Analyzer {
	return &Analyzer{detectors: detectors, cfg: cfg}
}

// Analyze evaluates every enabled detector and resolves the combined
// signature. Detectors that return absence are non-votes; a panicking
// detector is logged and skipped so the rest of the battery still reports.
func (a *Analyzer) Analyze(deals []trade.Deal, orders []trade.Order) signature.Signature {
	var patterns []detect.Pattern

	for _, det := range a.detectors {
		if !det.Enabled() {
			continue
		}
		p, ok := a.runDetector(det, deals, orders)
		if !ok {
			continue
		}
		patterns = append(patterns, p)
		slog.Debug("pattern detected", "detector", det.Name(), "pattern", p.Name, "confidence", p.Confidence)
	}

	summary := stats.Trade(deals)
	sig := signature.Build(patterns, summary, trade.PeriodDays(deals))

	slog.Info("analysis complete",
		"run_id", sig.RunID,
		"algorithm", sig.LikelyAlgorithm,
		"confidence", sig.Confidence,
		"patterns", len(sig.Patterns),
		"deals", len(deals),
		"orders", len(orders),
	)
	return sig
}

func (a *Analyzer) runDetector(det detect.Detector, deals []trade.Deal, orders []trade.Order) (p detect.Pattern, ok bool) {
	defer func() {
		if r := recover(); r != nil {
			slog.Error("detector panicked", "detector", det.Name(), "panic", r)
			p, ok = detect.Pattern{}, false
		}
	}()
	return det.Detect(deals, orders)
}

// Advanced bundles the secondary analytics: every fired pattern keyed by
// detector name plus the pure performance reductions.
type Advanced struct {
	Patterns map[string]detect.Pattern
	Sharpe   float64
	Drawdown metrics.Drawdown
	Duration metrics.Duration
	// HasDuration is false when no deal carries a position grouping and
	// duration therefore cannot be measured.
	HasDuration bool
}

// Advanced computes the advanced-analytics bundle over the same snapshot.
func (a *Analyzer) Advanced(deals []trade.Deal, orders []trade.Order) Advanced {
	adv := Advanced{Patterns: make(map[string]detect.Pattern)}

	for _, det := range a.detectors {
		if !det.Enabled() {
			continue
		}
		if p, ok := a.runDetector(det, deals, orders); ok {
			adv.Patterns[det.Name()] = p
		}
	}

	adv.Sharpe = metrics.SharpeRatio(deals, a.cfg.RiskFreeRate)
	adv.Drawdown = metrics.MaxDrawdown(deals)
	adv.Duration, adv.HasDuration = metrics.TradeDuration(deals)
	return adv
}
