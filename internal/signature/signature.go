package signature

import (
	"strings"
	"time"

	"github.com/google/uuid"

	"algoscope/internal/detect"
	"algoscope/internal/stats"
)

// Characteristics carries the context a signature was derived from.
type Characteristics struct {
	Statistics         stats.Summary
	PatternCount       int
	AnalysisPeriodDays int
}

// Signature is the terminal artifact of one analysis run: the resolved
// algorithm label, the patterns that voted for it, and the statistics
// behind the fallback rules. Immutable once built.
type Signature struct {
	RunID           string
	LikelyAlgorithm string
	Confidence      float64
	Patterns        []detect.Pattern
	Characteristics Characteristics
	Timestamp       time.Time
}

// Build assembles a signature from detector output. Overall confidence is
// the arithmetic mean of pattern confidences, 0 when nothing fired.
func Build(patterns []detect.Pattern, summary stats.Summary, periodDays int) Signature {
	confidence := 0.0
	if len(patterns) > 0 {
		for _, p := range patterns {
			confidence += p.Confidence
		}
		confidence /= float64(len(patterns))
	}

	return Signature{
		RunID:           uuid.NewString(),
		LikelyAlgorithm: Resolve(patterns, summary),
		Confidence:      confidence,
		Patterns:        patterns,
		Characteristics: Characteristics{
			Statistics:         summary,
			PatternCount:       len(patterns),
			AnalysisPeriodDays: periodDays,
		},
		Timestamp: time.Now(),
	}
}

// Resolve maps detected pattern names to an algorithm label through an
// ordered cascade of mutually exclusive rules; the first match wins. With no
// rule match it falls back to win-rate/profit-factor heuristics.
func Resolve(patterns []detect.Pattern, summary stats.Summary) string {
	names := make(map[string]bool, len(patterns))
	anyGrid := false
	for _, p := range patterns {
		names[p.Name] = true
		if strings.Contains(p.Name, "Grid") {
			anyGrid = true
		}
	}

	switch {
	case names["High-Frequency Trading (HFT)"]:
		return "High-Frequency Trading Bot"

	case names["Scalping Strategy"]:
		if names["Time-Scheduled Trading"] {
			return "Scheduled Scalping EA"
		}
		return "Scalping Bot/EA"

	case names["Martingale/Anti-Martingale"]:
		if anyGrid {
			return "Grid Martingale EA"
		}
		return "Martingale-Based EA"

	case names["Day Trading Strategy"]:
		if names["Strict Risk Management (SL + TP)"] {
			return "Professional Day Trading EA"
		}
		return "Day Trading Bot"

	case names["Swing Trading Strategy"]:
		return "Swing Trading Algorithm"

	case names["Position Trading Strategy"]:
		return "Long-Term Position Trading EA"
	}

	if summary.WinRate < 40 && summary.ProfitFactor > 1.5 {
		return "High Risk-Reward Trend Following EA"
	}
	if summary.WinRate > 70 && summary.ProfitFactor < 2 {
		return "High Win-Rate Mean Reversion EA"
	}
	return "Custom/Hybrid Trading Algorithm"
}
