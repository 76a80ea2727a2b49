package detect

import (
	"fmt"

	"algoscope/internal/config"
	"algoscope/internal/stats"
	"algoscope/internal/trade"
)

const (
	hftConfidence         = 0.85
	scalpingConfidence    = 0.8
	dayTradingConfidence  = 0.75
	swingConfidence       = 0.7
	positionConfidence    = 0.7
	consistentCadenceBump = 0.05
)

// Frequency classifies how many trades the algorithm places per active day.
type Frequency struct {
	cfg config.FrequencyConfig
}

func NewFrequency(cfg config.FrequencyConfig) *Frequency { return &Frequency{cfg: cfg} }

func (f *Frequency) Name() string  { return "frequency" }
func (f *Frequency) Enabled() bool { return f.cfg.Enabled }

func (f *Frequency) Detect(deals []trade.Deal, _ []trade.Order) (Pattern, bool) {
	if len(deals) < f.cfg.MinSamples {
		return Pattern{}, false
	}

	perDay := make(map[string]int)
	var order []string
	for _, d := range deals {
		day := d.Time.Format("2006-01-02")
		if _, ok := perDay[day]; !ok {
			order = append(order, day)
		}
		perDay[day]++
	}
	counts := make([]float64, 0, len(order))
	for _, day := range order {
		counts = append(counts, float64(perDay[day]))
	}

	avg := stats.Mean(counts)
	spread := stats.SampleStdDev(counts)

	p := Pattern{
		Description: "Trading frequency analysis",
		Metrics: map[string]float64{
			"avg_trades_per_day": avg,
			"std_trades_per_day": spread,
		},
	}

	switch {
	case avg > f.cfg.HFTTradesPerDay:
		p.Name = "High-Frequency Trading (HFT)"
		p.Confidence = hftConfidence
	case avg > f.cfg.ScalpTradesPerDay:
		p.Name = "Scalping Strategy"
		p.Confidence = scalpingConfidence
	case avg > f.cfg.DayTradesPerDay:
		p.Name = "Day Trading Strategy"
		p.Confidence = dayTradingConfidence
	case avg > f.cfg.SwingTradesPerDay:
		p.Name = "Swing Trading Strategy"
		p.Confidence = swingConfidence
	default:
		p.Name = "Position Trading Strategy"
		p.Confidence = positionConfidence
	}
	p.Evidence = append(p.Evidence, fmt.Sprintf("Average %.1f trades per day", avg))

	if spread < avg*f.cfg.ConsistencyCVFactor {
		p.Evidence = append(p.Evidence, "Consistent daily trading frequency")
		p.Confidence += consistentCadenceBump
	} else {
		p.Evidence = append(p.Evidence, "Variable daily trading frequency")
	}

	p.Confidence = clamp01(p.Confidence)
	return p, true
}
