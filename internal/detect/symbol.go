package detect

import (
	"fmt"

	"algoscope/internal/config"
	"algoscope/internal/trade"
)

const (
	singleInstrumentConfidence = 0.95
	focusedConfidence          = 0.85
	multiInstrumentConfidence  = 0.75
	diversifiedConfidence      = 0.7
)

// Symbol classifies instrument concentration.
type Symbol struct {
	cfg config.SymbolConfig
}

func NewSymbol(cfg config.SymbolConfig) *Symbol { return &Symbol{cfg: cfg} }

func (s *Symbol) Name() string  { return "symbol" }
func (s *Symbol) Enabled() bool { return s.cfg.Enabled }

func (s *Symbol) Detect(deals []trade.Deal, _ []trade.Order) (Pattern, bool) {
	if len(deals) == 0 {
		return Pattern{}, false
	}

	counts := make(map[string]int)
	for _, d := range deals {
		counts[d.Symbol]++
	}

	// Ties go to the symbol traded first.
	topSymbol, topCount := "", -1
	for _, d := range deals {
		if counts[d.Symbol] > topCount {
			topSymbol, topCount = d.Symbol, counts[d.Symbol]
		}
	}
	total := len(counts)
	topPct := float64(topCount) / float64(len(deals)) * 100

	p := Pattern{
		Description: "Instrument selection analysis",
		Metrics: map[string]float64{
			"total_symbols_traded":     float64(total),
			"top_symbol_concentration": topPct,
		},
	}

	switch {
	case total == 1:
		p.Name = "Single Instrument Specialist"
		p.Confidence = singleInstrumentConfidence
		p.Evidence = append(p.Evidence, fmt.Sprintf("Only trades %s", topSymbol))
	case topPct > s.cfg.FocusedPct:
		p.Name = "Focused Instrument Strategy"
		p.Confidence = focusedConfidence
		p.Evidence = append(p.Evidence, fmt.Sprintf("%.1f%% concentration on %s", topPct, topSymbol))
	case total <= s.cfg.MultiMaxCount:
		p.Name = "Multi-Instrument Strategy"
		p.Confidence = multiInstrumentConfidence
		p.Evidence = append(p.Evidence, fmt.Sprintf("Trades %d different instruments", total))
	default:
		p.Name = "Diversified Portfolio Strategy"
		p.Confidence = diversifiedConfidence
		p.Evidence = append(p.Evidence, fmt.Sprintf("Trades %d different instruments", total))
	}

	return p, true
}
