package detect

import (
	"fmt"

	"github.com/shopspring/decimal"

	"algoscope/internal/config"
	"algoscope/internal/trade"
)

const strongConsistencyEvidence = 0.8

// Precision inspects the decimal places of entry prices. A dominant,
// consistent precision suggests algorithmic entries; a high share of prices
// landing on round x.x0/x.x5 levels suggests manual, psychological-level
// trading.
type Precision struct {
	cfg config.PrecisionConfig
}

func NewPrecision(cfg config.PrecisionConfig) *Precision { return &Precision{cfg: cfg} }

func (p *Precision) Name() string  { return "precision" }
func (p *Precision) Enabled() bool { return p.cfg.Enabled }

func (p *Precision) Detect(deals []trade.Deal, _ []trade.Order) (Pattern, bool) {
	if len(deals) < p.cfg.MinSamples {
		return Pattern{}, false
	}

	places := make([]int, 0, len(deals))
	roundPrices := 0
	for _, d := range deals {
		places = append(places, decimalPlaces(d.Price))

		// Second-decimal digit of 0 or 5 marks a round-number level.
		digit := secondDecimalDigit(d.Price)
		if digit == 0 || digit == 5 {
			roundPrices++
		}
	}

	counts := make(map[int]int)
	for _, pl := range places {
		counts[pl]++
	}
	modal, modalCount := places[0], -1
	for _, pl := range places {
		if counts[pl] > modalCount {
			modal, modalCount = pl, counts[pl]
		}
	}

	consistency := float64(modalCount) / float64(len(places))
	roundRatio := float64(roundPrices) / float64(len(deals))

	if consistency <= p.cfg.ConsistencyThreshold {
		return Pattern{}, false
	}

	pat := Pattern{
		Name:        "Algorithmic Entry Precision",
		Confidence:  clamp01(consistency),
		Description: "Entry price precision analysis",
		Metrics: map[string]float64{
			"most_common_decimal_places": float64(modal),
			"precision_consistency":      consistency,
			"round_number_ratio":         roundRatio,
		},
	}
	if roundRatio > p.cfg.RoundNumberRatio {
		pat.Evidence = append(pat.Evidence, "High percentage of round-number entries suggests psychological levels or manual trading")
	} else if consistency > strongConsistencyEvidence {
		pat.Evidence = append(pat.Evidence, fmt.Sprintf("Consistent decimal precision (%d places) suggests algorithmic entry", modal))
	}

	return pat, true
}

// secondDecimalDigit truncates the price to two decimals and returns the
// last digit kept, e.g. 1.10999 -> 0. Truncation, not rounding: 1.10999 sits
// on the 1.10 level.
func secondDecimalDigit(price float64) int {
	shifted := decimal.NewFromFloat(price).Shift(2).Truncate(0)
	return int(shifted.Mod(decimal.NewFromInt(10)).IntPart())
}

// decimalPlaces counts significant decimal places with trailing zeros
// stripped, e.g. 1.2300 -> 2.
func decimalPlaces(price float64) int {
	exp := decimal.NewFromFloat(price).Exponent()
	if exp >= 0 {
		return 0
	}
	return int(-exp)
}
