package stats

import (
	"math"
	"sort"
	"time"

	"algoscope/internal/trade"
)

// Summary holds the aggregate trade statistics for one analysis run.
// Only executed fills contribute; deposits and pending entries are excluded.
type Summary struct {
	TotalTrades     int
	WinningTrades   int
	LosingTrades    int
	BreakEvenTrades int

	TotalProfit   float64
	AverageProfit float64
	MaxProfit     float64
	MaxLoss       float64

	AverageVolume float64
	TotalVolume   float64

	WinRate      float64 // percent
	ProfitFactor float64 // +Inf when gross loss is zero and gross profit > 0

	MostActiveHour int
	MostActiveDay  time.Weekday

	AvgGapMinutes    float64
	MedianGapMinutes float64
}

// Empty reports whether the summary was computed from zero fills.
func (s Summary) Empty() bool { return s.TotalTrades == 0 }

// Trade computes the full statistics summary. An input with no fills yields
// the zero Summary rather than an error.
func Trade(deals []trade.Deal) Summary {
	fills := trade.SortByTime(trade.Fills(deals))
	if len(fills) == 0 {
		return Summary{}
	}

	var s Summary
	s.TotalTrades = len(fills)
	s.MaxProfit = fills[0].Profit
	s.MaxLoss = fills[0].Profit

	var grossProfit, grossLoss float64
	for _, d := range fills {
		switch {
		case d.Profit > 0:
			s.WinningTrades++
			grossProfit += d.Profit
		case d.Profit < 0:
			s.LosingTrades++
			grossLoss += -d.Profit
		default:
			s.BreakEvenTrades++
		}
		s.TotalProfit += d.Profit
		s.TotalVolume += d.Volume
		if d.Profit > s.MaxProfit {
			s.MaxProfit = d.Profit
		}
		if d.Profit < s.MaxLoss {
			s.MaxLoss = d.Profit
		}
	}
	s.AverageProfit = s.TotalProfit / float64(s.TotalTrades)
	s.AverageVolume = s.TotalVolume / float64(s.TotalTrades)
	s.WinRate = float64(s.WinningTrades) / float64(s.TotalTrades) * 100

	switch {
	case grossLoss > 0:
		s.ProfitFactor = grossProfit / grossLoss
	case grossProfit > 0:
		s.ProfitFactor = math.Inf(1)
	default:
		s.ProfitFactor = 0
	}

	s.MostActiveHour = modalHour(fills)
	s.MostActiveDay = modalWeekday(fills)
	s.AvgGapMinutes, s.MedianGapMinutes = gapMinutes(fills)

	return s
}

// modalHour picks the busiest hour of day; ties go to the hour seen first.
func modalHour(fills []trade.Deal) int {
	var counts [24]int
	for _, d := range fills {
		counts[d.Time.Hour()]++
	}
	best, bestCount := 0, -1
	for _, d := range fills {
		h := d.Time.Hour()
		if counts[h] > bestCount {
			best, bestCount = h, counts[h]
		}
	}
	return best
}

func modalWeekday(fills []trade.Deal) time.Weekday {
	var counts [7]int
	for _, d := range fills {
		counts[d.Time.Weekday()]++
	}
	best, bestCount := time.Sunday, -1
	for _, d := range fills {
		w := d.Time.Weekday()
		if counts[w] > bestCount {
			best, bestCount = w, counts[w]
		}
	}
	return best
}

func gapMinutes(sorted []trade.Deal) (mean, median float64) {
	if len(sorted) < 2 {
		return 0, 0
	}
	gaps := make([]float64, 0, len(sorted)-1)
	for i := 1; i < len(sorted); i++ {
		gaps = append(gaps, sorted[i].Time.Sub(sorted[i-1].Time).Minutes())
	}
	return Mean(gaps), Median(gaps)
}

// Mean of a sample; 0 for an empty slice.
func Mean(xs []float64) float64 {
	if len(xs) == 0 {
		return 0
	}
	var sum float64
	for _, x := range xs {
		sum += x
	}
	return sum / float64(len(xs))
}

// Median of a sample; 0 for an empty slice. Does not reorder the input.
func Median(xs []float64) float64 {
	if len(xs) == 0 {
		return 0
	}
	sorted := make([]float64, len(xs))
	copy(sorted, xs)
	sort.Float64s(sorted)
	mid := len(sorted) / 2
	if len(sorted)%2 == 0 {
		return (sorted[mid-1] + sorted[mid]) / 2
	}
	return sorted[mid]
}

// StdDev is the population standard deviation; 0 for fewer than 2 values.
func StdDev(xs []float64) float64 {
	if len(xs) < 2 {
		return 0
	}
	m := Mean(xs)
	var ss float64
	for _, x := range xs {
		ss += (x - m) * (x - m)
	}
	return math.Sqrt(ss / float64(len(xs)))
}

// SampleStdDev is the Bessel-corrected standard deviation; 0 for fewer
// than 2 values.
func SampleStdDev(xs []float64) float64 {
	if len(xs) < 2 {
		return 0
	}
	m := Mean(xs)
	var ss float64
	for _, x := range xs {
		ss += (x - m) * (x - m)
	}
	return math.Sqrt(ss / float64(len(xs)-1))
}
