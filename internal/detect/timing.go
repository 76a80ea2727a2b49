package detect

import (
	"fmt"

	"algoscope/internal/config"
	"algoscope/internal/stats"
	"algoscope/internal/trade"
)

const (
	scheduledConfidence       = 0.85
	preferredWindowConfidence = 0.7
	continuousConfidence      = 0.6
	regularIntervalConfidence = 0.8
)

// Timing classifies hour-of-day concentration and regular trade intervals.
type Timing struct {
	cfg config.TimingConfig
}

func NewTiming(cfg config.TimingConfig) *Timing { return &Timing{cfg: cfg} }

func (t *Timing) Name() string  { return "timing" }
func (t *Timing) Enabled() bool { return t.cfg.Enabled }

func (t *Timing) Detect(deals []trade.Deal, _ []trade.Order) (Pattern, bool) {
	if len(deals) < t.cfg.MinSamples {
		return Pattern{}, false
	}

	sorted := trade.SortByTime(deals)
	n := float64(len(sorted))

	p := Pattern{
		Description: "Time-based trading pattern analysis",
		Metrics:     map[string]float64{},
	}

	topHour, topHourCount := modalInt(sorted, func(d trade.Deal) int { return d.Time.Hour() })
	topHourPct := float64(topHourCount) / n * 100

	switch {
	case topHourPct > t.cfg.ScheduledHourPct:
		p.Name = "Time-Scheduled Trading"
		p.Confidence = scheduledConfidence
		p.Evidence = append(p.Evidence, fmt.Sprintf("%.1f%% of trades occur at hour %d", topHourPct, topHour))
	case topHourPct > t.cfg.PreferredHourPct:
		p.Name = "Preferred Time Window Trading"
		p.Confidence = preferredWindowConfidence
		p.Evidence = append(p.Evidence, fmt.Sprintf("%.1f%% of trades occur at hour %d", topHourPct, topHour))
	default:
		p.Name = "Continuous/24-Hour Trading"
		p.Confidence = continuousConfidence
		p.Evidence = append(p.Evidence, "Trades distributed across multiple hours")
	}
	p.Metrics["top_trading_hour"] = float64(topHour)
	p.Metrics["top_hour_concentration"] = topHourPct

	// Regular-interval check: a tight spread around a sub-hour median gap
	// raises confidence even when no single hour dominates.
	gaps := make([]float64, 0, len(sorted)-1)
	for i := 1; i < len(sorted); i++ {
		gaps = append(gaps, sorted[i].Time.Sub(sorted[i-1].Time).Minutes())
	}
	if len(gaps) > 0 {
		median := stats.Median(gaps)
		spread := stats.SampleStdDev(gaps)
		if spread < median*t.cfg.IntervalSpreadFactor && median < t.cfg.IntervalMaxMinutes {
			p.Evidence = append(p.Evidence, fmt.Sprintf("Regular trading intervals (~%.1f minutes)", median))
			if p.Confidence < regularIntervalConfidence {
				p.Confidence = regularIntervalConfidence
			}
			p.Metrics["avg_interval_minutes"] = median
		}
	}

	topDay, topDayCount := modalInt(sorted, func(d trade.Deal) int { return int(d.Time.Weekday()) })
	topDayPct := float64(topDayCount) / n * 100
	if topDayPct > t.cfg.WeekdayPct {
		p.Evidence = append(p.Evidence, fmt.Sprintf("Concentrated trading on %s (%.1f%%)", weekdayName(topDay), topDayPct))
	}

	p.Confidence = clamp01(p.Confidence)
	return p, true
}

// modalInt returns the most frequent key and its count; ties go to the key
// encountered first in deal order.
func modalInt(deals []trade.Deal, key func(trade.Deal) int) (int, int) {
	counts := make(map[int]int)
	for _, d := range deals {
		counts[key(d)]++
	}
	best, bestCount := 0, -1
	for _, d := range deals {
		k := key(d)
		if counts[k] > bestCount {
			best, bestCount = k, counts[k]
		}
	}
	return best, bestCount
}

func weekdayName(d int) string {
	names := []string{"Sunday", "Monday", "Tuesday", "Wednesday", "Thursday", "Friday", "Saturday"}
	if d < 0 || d > 6 {
		return "Unknown"
	}
	return names[d]
}
