package detect

import (
	"fmt"

	"algoscope/internal/config"
	"algoscope/internal/stats"
	"algoscope/internal/trade"
)

// Calibration constants, fixed rather than configurable.
const (
	fixedLotConfidence     = 0.95
	martingaleConfidence   = 0.8
	proportionalConfidence = 0.7
	variableConfidence     = 0.6
)

// Sizing classifies the position-sizing rule: fixed lots, martingale-style
// escalation after losses, or proportional/variable sizing by lot-size CV.
type Sizing struct {
	cfg config.SizingConfig
}

func NewSizing(cfg config.SizingConfig) *Sizing { return &Sizing{cfg: cfg} }

func (s *Sizing) Name() string  { return "sizing" }
func (s *Sizing) Enabled() bool { return s.cfg.Enabled }

func (s *Sizing) Detect(deals []trade.Deal, _ []trade.Order) (Pattern, bool) {
	if len(deals) < s.cfg.MinSamples {
		return Pattern{}, false
	}

	sorted := trade.SortByTime(deals)
	volumes := make([]float64, len(sorted))
	for i, d := range sorted {
		volumes[i] = d.Volume
	}

	p := Pattern{
		Description: "Position sizing strategy analysis",
		Metrics:     map[string]float64{},
	}

	if allEqual(volumes) {
		p.Name = "Fixed Lot Size"
		p.Confidence = fixedLotConfidence
		p.Evidence = append(p.Evidence, fmt.Sprintf("All trades use identical lot size: %g", volumes[0]))
		p.Metrics["lot_size"] = volumes[0]
		return p, true
	}

	if len(sorted) >= s.cfg.MartingaleMinTrades {
		steps := 0
		for i := 1; i < len(sorted); i++ {
			if sorted[i-1].Profit < 0 && volumes[i] >= volumes[i-1]*s.cfg.MartingaleVolumeFactor {
				steps++
			}
		}
		ratio := float64(steps) / float64(len(sorted)-1)
		if ratio >= s.cfg.MartingaleStepRatio {
			p.Name = "Martingale/Anti-Martingale"
			p.Confidence = martingaleConfidence
			p.Evidence = append(p.Evidence, fmt.Sprintf("Position size increases after losses in %d instances", steps))
			p.Metrics["martingale_ratio"] = ratio
			return p, true
		}
	}

	mean := stats.Mean(volumes)
	cv := 0.0
	if mean > 0 {
		cv = stats.StdDev(volumes) / mean
	}
	p.Metrics["coefficient_variation"] = cv
	if cv < s.cfg.ProportionalCVThreshold {
		p.Name = "Consistent Proportional Sizing"
		p.Confidence = proportionalConfidence
		p.Evidence = append(p.Evidence, fmt.Sprintf("Low variation in lot sizes (CV: %.2f)", cv))
	} else {
		p.Name = "Dynamic/Variable Sizing"
		p.Confidence = variableConfidence
		p.Evidence = append(p.Evidence, fmt.Sprintf("High variation in lot sizes (CV: %.2f)", cv))
	}
	return p, true
}

func allEqual(xs []float64) bool {
	for _, x := range xs[1:] {
		if x != xs[0] {
			return false
		}
	}
	return true
}
