package report

import (
	"encoding/json"
	"fmt"
	"math"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"algoscope/internal/analyzer"
	"algoscope/internal/detect"
	"algoscope/internal/signature"
	"algoscope/internal/stats"
)

const bannerWidth = 80

// Text renders the full human-readable analysis report.
func Text(sig signature.Signature) string {
	var b strings.Builder
	banner := strings.Repeat("=", bannerWidth)
	rule := strings.Repeat("-", bannerWidth)

	fmt.Fprintln(&b, banner)
	fmt.Fprintln(&b, "ALGORITHM ANALYSIS REPORT")
	fmt.Fprintln(&b, banner)
	fmt.Fprintf(&b, "Generated: %s\n", sig.Timestamp.Format(time.RFC3339))
	fmt.Fprintf(&b, "\nIdentified Algorithm: %s\n", sig.LikelyAlgorithm)
	fmt.Fprintf(&b, "Overall Confidence: %.1f%%\n", sig.Confidence*100)

	fmt.Fprintln(&b, "\n"+rule)
	fmt.Fprintln(&b, "TRADE STATISTICS")
	fmt.Fprintln(&b, rule)
	writeStatistics(&b, sig.Characteristics.Statistics)

	fmt.Fprintln(&b, "\n"+rule)
	fmt.Fprintln(&b, "DETECTED PATTERNS")
	fmt.Fprintln(&b, rule)

	for i, p := range sig.Patterns {
		fmt.Fprintf(&b, "\n%d. %s\n", i+1, p.Name)
		fmt.Fprintf(&b, "   Confidence: %.1f%%\n", p.Confidence*100)
		fmt.Fprintf(&b, "   Description: %s\n", p.Description)
		fmt.Fprintln(&b, "   Evidence:")
		for _, ev := range p.Evidence {
			fmt.Fprintf(&b, "   - %s\n", ev)
		}
		if len(p.Metrics) > 0 {
			fmt.Fprintln(&b, "   Metrics:")
			for _, k := range sortedKeys(p.Metrics) {
				fmt.Fprintf(&b, "   - %s: %v\n", k, p.Metrics[k])
			}
		}
	}

	fmt.Fprintln(&b, "\n"+banner)
	return b.String()
}

func writeStatistics(b *strings.Builder, s stats.Summary) {
	fmt.Fprintf(b, "total_trades: %d\n", s.TotalTrades)
	fmt.Fprintf(b, "winning_trades: %d\n", s.WinningTrades)
	fmt.Fprintf(b, "losing_trades: %d\n", s.LosingTrades)
	fmt.Fprintf(b, "break_even_trades: %d\n", s.BreakEvenTrades)
	fmt.Fprintf(b, "total_profit: %.2f\n", s.TotalProfit)
	fmt.Fprintf(b, "average_profit: %.2f\n", s.AverageProfit)
	fmt.Fprintf(b, "max_profit: %.2f\n", s.MaxProfit)
	fmt.Fprintf(b, "max_loss: %.2f\n", s.MaxLoss)
	fmt.Fprintf(b, "average_volume: %.2f\n", s.AverageVolume)
	fmt.Fprintf(b, "total_volume: %.2f\n", s.TotalVolume)
	fmt.Fprintf(b, "win_rate: %.2f\n", s.WinRate)
	if math.IsInf(s.ProfitFactor, 1) {
		fmt.Fprintln(b, "profit_factor: inf")
	} else {
		fmt.Fprintf(b, "profit_factor: %.2f\n", s.ProfitFactor)
	}
	fmt.Fprintf(b, "most_active_hour: %d\n", s.MostActiveHour)
	fmt.Fprintf(b, "most_active_day: %s\n", s.MostActiveDay)
	fmt.Fprintf(b, "avg_time_between_trades_minutes: %.2f\n", s.AvgGapMinutes)
	fmt.Fprintf(b, "median_time_between_trades_minutes: %.2f\n", s.MedianGapMinutes)
}

func sortedKeys(m map[string]float64) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// infFloat serializes like a plain float64 except that +Inf becomes the
// string "inf", which plain encoding/json refuses to emit.
type infFloat float64

func (f infFloat) MarshalJSON() ([]byte, error) {
	if math.IsInf(float64(f), 1) {
		return []byte(`"inf"`), nil
	}
	return json.Marshal(float64(f))
}

func (f *infFloat) UnmarshalJSON(data []byte) error {
	if string(data) == `"inf"` {
		*f = infFloat(math.Inf(1))
		return nil
	}
	var v float64
	if err := json.Unmarshal(data, &v); err != nil {
		return err
	}
	*f = infFloat(v)
	return nil
}

type jsonPattern struct {
	PatternName string             `json:"pattern_name"`
	Confidence  float64            `json:"confidence"`
	Description string             `json:"description"`
	Evidence    []string           `json:"evidence"`
	Metrics     map[string]float64 `json:"metrics"`
}

type jsonStatistics struct {
	TotalTrades      int      `json:"total_trades"`
	WinningTrades    int      `json:"winning_trades"`
	LosingTrades     int      `json:"losing_trades"`
	BreakEvenTrades  int      `json:"break_even_trades"`
	TotalProfit      float64  `json:"total_profit"`
	AverageProfit    float64  `json:"average_profit"`
	MaxProfit        float64  `json:"max_profit"`
	MaxLoss          float64  `json:"max_loss"`
	AverageVolume    float64  `json:"average_volume"`
	TotalVolume      float64  `json:"total_volume"`
	WinRate          float64  `json:"win_rate"`
	ProfitFactor     infFloat `json:"profit_factor"`
	MostActiveHour   int      `json:"most_active_hour"`
	MostActiveDay    string   `json:"most_active_day"`
	AvgGapMinutes    float64  `json:"avg_time_between_trades_minutes"`
	MedianGapMinutes float64  `json:"median_time_between_trades_minutes"`
}

type jsonCharacteristics struct {
	Statistics         jsonStatistics `json:"statistics"`
	PatternCount       int            `json:"pattern_count"`
	AnalysisPeriodDays int            `json:"analysis_period_days"`
}

type jsonSignature struct {
	RunID           string              `json:"run_id"`
	Algorithm       string              `json:"algorithm"`
	Confidence      float64             `json:"confidence"`
	Patterns        []jsonPattern       `json:"patterns"`
	Characteristics jsonCharacteristics `json:"characteristics"`
	Timestamp       time.Time           `json:"timestamp"`
}

// JSON renders the machine-readable report.
func JSON(sig signature.Signature) ([]byte, error) {
	out := jsonSignature{
		RunID:      sig.RunID,
		Algorithm:  sig.LikelyAlgorithm,
		Confidence: sig.Confidence,
		Patterns:   make([]jsonPattern, 0, len(sig.Patterns)),
		Characteristics: jsonCharacteristics{
			Statistics:         toJSONStatistics(sig.Characteristics.Statistics),
			PatternCount:       sig.Characteristics.PatternCount,
			AnalysisPeriodDays: sig.Characteristics.AnalysisPeriodDays,
		},
		Timestamp: sig.Timestamp,
	}
	for _, p := range sig.Patterns {
		out.Patterns = append(out.Patterns, jsonPattern{
			PatternName: p.Name,
			Confidence:  p.Confidence,
			Description: p.Description,
			Evidence:    p.Evidence,
			Metrics:     p.Metrics,
		})
	}
	return json.MarshalIndent(out, "", "  ")
}

func toJSONStatistics(s stats.Summary) jsonStatistics {
	return jsonStatistics{
		TotalTrades:      s.TotalTrades,
		WinningTrades:    s.WinningTrades,
		LosingTrades:     s.LosingTrades,
		BreakEvenTrades:  s.BreakEvenTrades,
		TotalProfit:      s.TotalProfit,
		AverageProfit:    s.AverageProfit,
		MaxProfit:        s.MaxProfit,
		MaxLoss:          s.MaxLoss,
		AverageVolume:    s.AverageVolume,
		TotalVolume:      s.TotalVolume,
		WinRate:          s.WinRate,
		ProfitFactor:     infFloat(s.ProfitFactor),
		MostActiveHour:   s.MostActiveHour,
		MostActiveDay:    s.MostActiveDay.String(),
		AvgGapMinutes:    s.AvgGapMinutes,
		MedianGapMinutes: s.MedianGapMinutes,
	}
}

// AdvancedText renders the secondary analytics bundle.
func AdvancedText(adv analyzer.Advanced) string {
	var b strings.Builder
	banner := strings.Repeat("=", bannerWidth)

	fmt.Fprintln(&b, "\n"+banner)
	fmt.Fprintln(&b, "ADVANCED ANALYTICS REPORT")
	fmt.Fprintln(&b, banner)

	writeSection(&b, "GRID TRADING ANALYSIS", "Is Grid Trading", adv.Patterns, "grid")
	writeSection(&b, "NEWS TRADING ANALYSIS", "Is News Trading", adv.Patterns, "news")
	writeSection(&b, "CORRELATION TRADING ANALYSIS", "Is Correlation Trading", adv.Patterns, "correlation")
	writeSection(&b, "HEDGING ANALYSIS", "Uses Hedging", adv.Patterns, "hedging")
	writeSection(&b, "POSITION SCALING ANALYSIS", "Uses Scaling", adv.Patterns, "scaling")

	fmt.Fprintln(&b, "\n[ENTRY PRECISION ANALYSIS]")
	if p, ok := adv.Patterns["precision"]; ok {
		if v, ok := p.Metrics["most_common_decimal_places"]; ok {
			fmt.Fprintf(&b, "Most Common Decimal Places: %d\n", int(v))
		}
		fmt.Fprintf(&b, "Precision Consistency: %.1f%%\n", p.Confidence*100)
		fmt.Fprintln(&b, "Algorithmic Precision: true")
	} else {
		fmt.Fprintln(&b, "Algorithmic Precision: false")
	}

	fmt.Fprintln(&b, "\n[PERFORMANCE METRICS]")
	fmt.Fprintf(&b, "Sharpe Ratio: %.2f\n", adv.Sharpe)
	fmt.Fprintf(&b, "Maximum Drawdown: %.2f\n", adv.Drawdown.Max)
	fmt.Fprintf(&b, "Maximum Drawdown %%: %.2f%%\n", adv.Drawdown.Pct)
	fmt.Fprintf(&b, "Drawdown Duration: %d days\n", adv.Drawdown.DurationDays)

	if adv.HasDuration {
		fmt.Fprintln(&b, "\n[TRADE DURATION ANALYSIS]")
		fmt.Fprintf(&b, "Average Duration: %.1f minutes\n", adv.Duration.Mean)
		fmt.Fprintf(&b, "Median Duration: %.1f minutes\n", adv.Duration.Median)
		fmt.Fprintf(&b, "Min Duration: %.1f minutes\n", adv.Duration.Min)
		fmt.Fprintf(&b, "Max Duration: %.1f minutes\n", adv.Duration.Max)
	}

	fmt.Fprintln(&b, "\n"+banner)
	return b.String()
}

func writeSection(b *strings.Builder, header, verdict string, patterns map[string]detect.Pattern, key string) {
	fmt.Fprintf(b, "\n[%s]\n", header)
	p, ok := patterns[key]
	fmt.Fprintf(b, "%s: %t\n", verdict, ok)
	fmt.Fprintf(b, "Confidence: %.1f%%\n", p.Confidence*100)
	for _, ev := range p.Evidence {
		fmt.Fprintf(b, "  - %s\n", ev)
	}
}

// Save writes the text and JSON renderings side by side under dir, named by
// the run timestamp. It returns the two paths.
func Save(dir string, sig signature.Signature) (txtPath, jsonPath string, err error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", "", fmt.Errorf("creating report dir: %w", err)
	}

	stamp := sig.Timestamp.Format("20060102_150405")
	txtPath = filepath.Join(dir, fmt.Sprintf("analysis_%s.txt", stamp))
	jsonPath = filepath.Join(dir, fmt.Sprintf("analysis_%s.json", stamp))

	if err := os.WriteFile(txtPath, []byte(Text(sig)), 0o644); err != nil {
		return "", "", fmt.Errorf("writing text report: %w", err)
	}

	data, err := JSON(sig)
	if err != nil {
		return "", "", fmt.Errorf("encoding json report: %w", err)
	}
	if err := os.WriteFile(jsonPath, data, 0o644); err != nil {
		return "", "", fmt.Errorf("writing json report: %w", err)
	}
	return txtPath, jsonPath, nil
}
