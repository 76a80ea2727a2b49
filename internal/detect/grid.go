package detect

import (
	"fmt"
	"sort"

	"algoscope/internal/config"
	"algoscope/internal/stats"
	"algoscope/internal/trade"
)

const gridConfidence = 0.8

// Grid looks for batches of pending limit orders placed at regular price
// intervals on the same symbol.
type Grid struct {
	cfg config.GridConfig
}

func NewGrid(cfg config.GridConfig) *Grid { return &Grid{cfg: cfg} }

func (g *Grid) Name() string  { return "grid" }
func (g *Grid) Enabled() bool { return g.cfg.Enabled }

func (g *Grid) Detect(_ []trade.Deal, orders []trade.Order) (Pattern, bool) {
	if len(orders) == 0 {
		return Pattern{}, false
	}

	p := Pattern{
		Description: "Grid trading analysis",
		Metrics:     map[string]float64{},
	}
	found := false

	for _, symbol := range trade.OrderSymbols(orders) {
		var prices []float64
		for _, o := range trade.OrdersBySymbol(orders, symbol) {
			if o.Type.IsPendingLimit() {
				prices = append(prices, o.PriceOpen)
			}
		}
		if len(prices) < g.cfg.MinPendingOrders {
			continue
		}

		sort.Float64s(prices)
		diffs := make([]float64, 0, len(prices)-1)
		for i := 1; i < len(prices); i++ {
			diffs = append(diffs, prices[i]-prices[i-1])
		}

		meanDiff := stats.Mean(diffs)
		if stats.StdDev(diffs) < meanDiff*g.cfg.SpacingCVFactor {
			found = true
			p.Evidence = append(p.Evidence, fmt.Sprintf("Regular price intervals detected for %s (avg: %.5f)", symbol, meanDiff))
			p.Metrics["grid_spacing"] = meanDiff
		}
	}

	if !found {
		return Pattern{}, false
	}
	p.Name = "Grid Trading"
	p.Confidence = gridConfidence
	return p, true
}
