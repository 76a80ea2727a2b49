package detect

import (
	"fmt"
	"math"

	"algoscope/internal/config"
	"algoscope/internal/trade"
)

const (
	hedgingConfidenceScale = 2
	hedgingConfidenceCap   = 0.85
)

// Hedging looks for opposite-direction deals on the same symbol placed close
// together in time.
type Hedging struct {
	cfg config.HedgingConfig
}

func NewHedging(cfg config.HedgingConfig) *Hedging { return &Hedging{cfg: cfg} }

func (h *Hedging) Name() string  { return "hedging" }
func (h *Hedging) Enabled() bool { return h.cfg.Enabled }

func (h *Hedging) Detect(deals []trade.Deal, _ []trade.Order) (Pattern, bool) {
	if len(deals) < h.cfg.MinSamples {
		return Pattern{}, false
	}

	sorted := trade.SortByTime(deals)
	instances, opportunities := 0, 0

	for _, symbol := range trade.Symbols(sorted) {
		symbolDeals := trade.BySymbol(sorted, symbol)
		if len(symbolDeals) < 2 {
			continue
		}
		for i := 0; i < len(symbolDeals)-1; i++ {
			opportunities++
			gap := symbolDeals[i+1].Time.Sub(symbolDeals[i].Time).Minutes()
			if gap < h.cfg.WindowMinutes && symbolDeals[i].Type != symbolDeals[i+1].Type {
				instances++
			}
		}
	}

	if opportunities == 0 {
		return Pattern{}, false
	}
	ratio := float64(instances) / float64(opportunities)
	if ratio <= h.cfg.Ratio {
		return Pattern{}, false
	}

	return Pattern{
		Name:        "Hedging Strategy",
		Confidence:  clamp01(math.Min(ratio*hedgingConfidenceScale, hedgingConfidenceCap)),
		Description: "Opposite-position hedging analysis",
		Evidence: []string{
			fmt.Sprintf("Detected %d potential hedging instances", instances),
			"Algorithm appears to use opposite positions for risk management",
		},
		Metrics: map[string]float64{
			"hedging_ratio":     ratio,
			"hedging_instances": float64(instances),
		},
	}, true
}
