package detect

import (
	"fmt"
	"math"
	"time"

	"algoscope/internal/config"
	"algoscope/internal/trade"
)

const (
	correlationConfidenceScale = 2
	correlationConfidenceCap   = 0.85
)

// Correlation looks for deals on more than one symbol placed within the same
// minute, the footprint of basket or correlated-pair strategies.
type Correlation struct {
	cfg config.CorrelationConfig
}

func NewCorrelation(cfg config.CorrelationConfig) *Correlation { return &Correlation{cfg: cfg} }

func (c *Correlation) Name() string  { return "correlation" }
func (c *Correlation) Enabled() bool { return c.cfg.Enabled }

func (c *Correlation) Detect(deals []trade.Deal, _ []trade.Order) (Pattern, bool) {
	if len(deals) < c.cfg.MinSamples {
		return Pattern{}, false
	}

	groups := make(map[time.Time]map[string]bool)
	for _, d := range deals {
		minute := d.Time.Truncate(time.Minute)
		if groups[minute] == nil {
			groups[minute] = make(map[string]bool)
		}
		groups[minute][d.Symbol] = true
	}

	multi := 0
	for _, symbols := range groups {
		if len(symbols) > 1 {
			multi++
		}
	}

	ratio := float64(multi) / float64(len(groups))
	if ratio <= c.cfg.SimultaneousRatio {
		return Pattern{}, false
	}

	return Pattern{
		Name:        "Correlation/Basket Trading",
		Confidence:  clamp01(math.Min(ratio*correlationConfidenceScale, correlationConfidenceCap)),
		Description: "Simultaneous multi-symbol trading analysis",
		Evidence: []string{
			fmt.Sprintf("Trades multiple symbols simultaneously in %d instances", multi),
			"Suggests correlation-based or basket trading strategy",
		},
		Metrics: map[string]float64{
			"simultaneous_ratio": ratio,
			"simultaneous_count": float64(multi),
		},
	}, true
}
