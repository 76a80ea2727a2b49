package detect

import (
	"fmt"
	"math"

	"algoscope/internal/config"
	"algoscope/internal/trade"
)

const (
	scalingConfidencePerRun = 0.2
	scalingConfidenceCap    = 0.85
)

// Scaling counts runs of consecutive same-direction deals per symbol:
// entering a position in several tranches instead of one fill.
type Scaling struct {
	cfg config.ScalingConfig
}

func NewScaling(cfg config.ScalingConfig) *Scaling { return &Scaling{cfg: cfg} }

func (s *Scaling) Name() string  { return "scaling" }
func (s *Scaling) Enabled() bool { return s.cfg.Enabled }

func (s *Scaling) Detect(deals []trade.Deal, _ []trade.Order) (Pattern, bool) {
	if len(deals) == 0 {
		return Pattern{}, false
	}

	sorted := trade.SortByTime(deals)
	runs := 0

	for _, symbol := range trade.Symbols(sorted) {
		symbolDeals := trade.BySymbol(sorted, symbol)
		if len(symbolDeals) < s.cfg.MinSymbolDeals {
			continue
		}

		runLen := 1
		for i := 1; i < len(symbolDeals); i++ {
			if symbolDeals[i].Type == symbolDeals[i-1].Type {
				runLen++
				continue
			}
			if runLen >= 2 {
				runs++
			}
			runLen = 1
		}
		if runLen >= 2 {
			runs++
		}
	}

	if runs == 0 {
		return Pattern{}, false
	}

	return Pattern{
		Name:        "Position Scaling",
		Confidence:  clamp01(math.Min(float64(runs)*scalingConfidencePerRun, scalingConfidenceCap)),
		Description: "Scaling in/out of positions analysis",
		Evidence: []string{
			fmt.Sprintf("Detected %d instances of position scaling", runs),
			"Algorithm adds to winning/losing positions",
		},
		Metrics: map[string]float64{
			"scaling_instances": float64(runs),
		},
	}, true
}
