package metrics

import (
	"math"
	"time"

	"algoscope/internal/stats"
	"algoscope/internal/trade"
)

// Annualization assumes the conventional 252 trading days.
const tradingDaysPerYear = 252

// SharpeRatio treats each calendar day's summed profit as one return
// observation. Returns 0 for fewer than 2 days or zero variance.
func SharpeRatio(deals []trade.Deal, riskFreeRate float64) float64 {
	if len(deals) < 2 {
		return 0
	}

	perDay := make(map[string]float64)
	var order []string
	for _, d := range deals {
		day := d.Time.Format("2006-01-02")
		if _, ok := perDay[day]; !ok {
			order = append(order, day)
		}
		perDay[day] += d.Profit
	}
	if len(order) < 2 {
		return 0
	}

	returns := make([]float64, 0, len(order))
	for _, day := range order {
		returns = append(returns, perDay[day])
	}

	std := stats.StdDev(returns)
	if std == 0 {
		return 0
	}

	dailyRF := riskFreeRate / tradingDaysPerYear
	return (stats.Mean(returns) - dailyRF) / std * math.Sqrt(tradingDaysPerYear)
}

// Drawdown describes the worst peak-to-trough decline of cumulative profit.
type Drawdown struct {
	Max          float64
	Pct          float64 // relative to the running max at the trough, in percent
	DurationDays int
	Start        time.Time // when the breached running max was set
	End          time.Time // the trough
}

// MaxDrawdown walks the time-ordered cumulative profit series and reports
// the deepest running_max - cumulative gap.
func MaxDrawdown(deals []trade.Deal) Drawdown {
	if len(deals) == 0 {
		return Drawdown{}
	}

	sorted := trade.SortByTime(deals)

	cumulative := make([]float64, len(sorted))
	runningMax := make([]float64, len(sorted))
	var cum float64
	for i, d := range sorted {
		cum += d.Profit
		cumulative[i] = cum
		if i == 0 || cum > runningMax[i-1] {
			runningMax[i] = cum
		} else {
			runningMax[i] = runningMax[i-1]
		}
	}

	var dd Drawdown
	troughIdx := 0
	for i := range sorted {
		gap := runningMax[i] - cumulative[i]
		if gap > dd.Max {
			dd.Max = gap
			troughIdx = i
		}
	}
	if dd.Max == 0 {
		return Drawdown{}
	}

	peak := runningMax[troughIdx]
	if peak > 0 {
		dd.Pct = dd.Max / peak * 100
	}

	// The drawdown starts where its running max was first reached.
	startIdx := troughIdx
	for i := 0; i <= troughIdx; i++ {
		if cumulative[i] == peak {
			startIdx = i
			break
		}
	}
	dd.Start = sorted[startIdx].Time
	dd.End = sorted[troughIdx].Time
	dd.DurationDays = int(dd.End.Sub(dd.Start).Hours() / 24)
	return dd
}

// Duration summarizes position holding times in minutes.
type Duration struct {
	Positions int
	Mean      float64
	Median    float64
	Min       float64
	Max       float64
	Std       float64
}

// TradeDuration groups deals by position ID and measures the span between a
// position's first and last deal. Returns false when no deal carries a
// position grouping, rather than fabricating durations.
func TradeDuration(deals []trade.Deal) (Duration, bool) {
	byPosition := make(map[int64][]time.Time)
	for _, d := range deals {
		if d.PositionID == 0 {
			continue
		}
		byPosition[d.PositionID] = append(byPosition[d.PositionID], d.Time)
	}

	var durations []float64
	for _, times := range byPosition {
		if len(times) < 2 {
			continue
		}
		min, max := times[0], times[0]
		for _, t := range times[1:] {
			if t.Before(min) {
				min = t
			}
			if t.After(max) {
				max = t
			}
		}
		durations = append(durations, max.Sub(min).Minutes())
	}
	if len(durations) == 0 {
		return Duration{}, false
	}

	d := Duration{
		Positions: len(durations),
		Mean:      stats.Mean(durations),
		Median:    stats.Median(durations),
		Min:       durations[0],
		Max:       durations[0],
		Std:       stats.StdDev(durations),
	}
	for _, v := range durations {
		if v < d.Min {
			d.Min = v
		}
		if v > d.Max {
			d.Max = v
		}
	}
	return d, true
}

// Series carries the derived equity curves consumed by external
// visualization; detection never reads it back.
type Series struct {
	Times       []time.Time
	Cumulative  []float64
	RunningMax  []float64
	Drawdown    []float64
	DrawdownPct []float64
}

// EquitySeries computes cumulative profit, running maximum, and drawdown
// point-by-point over the time-ordered deals.
func EquitySeries(deals []trade.Deal) Series {
	sorted := trade.SortByTime(deals)
	s := Series{
		Times:       make([]time.Time, len(sorted)),
		Cumulative:  make([]float64, len(sorted)),
		RunningMax:  make([]float64, len(sorted)),
		Drawdown:    make([]float64, len(sorted)),
		DrawdownPct: make([]float64, len(sorted)),
	}

	var cum, peak float64
	for i, d := range sorted {
		cum += d.Profit
		if i == 0 || cum > peak {
			peak = cum
		}
		s.Times[i] = d.Time
		s.Cumulative[i] = cum
		s.RunningMax[i] = peak
		s.Drawdown[i] = peak - cum
		if peak > 0 {
			s.DrawdownPct[i] = (peak - cum) / peak * 100
		}
	}
	return s
}
