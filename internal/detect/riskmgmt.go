package detect

import (
	"fmt"

	"algoscope/internal/config"
	"algoscope/internal/stats"
	"algoscope/internal/trade"
)

const (
	strictRiskConfidence   = 0.9
	slOnlyConfidence       = 0.8
	tpOnlyConfidence       = 0.75
	flexibleRiskConfidence = 0.6
	unknownRiskConfidence  = 0.5
)

// RiskManagement classifies stop-loss/take-profit discipline from the order
// table and notes the risk/reward ratio from realized profits.
type RiskManagement struct {
	cfg config.RiskConfig
}

func NewRiskManagement(cfg config.RiskConfig) *RiskManagement { return &RiskManagement{cfg: cfg} }

func (r *RiskManagement) Name() string  { return "risk" }
func (r *RiskManagement) Enabled() bool { return r.cfg.Enabled }

func (r *RiskManagement) Detect(deals []trade.Deal, orders []trade.Order) (Pattern, bool) {
	if len(deals) == 0 {
		return Pattern{}, false
	}

	p := Pattern{
		Description: "Risk management strategy analysis",
		Metrics:     map[string]float64{},
	}

	if len(orders) > 0 {
		withSL, withTP := 0, 0
		for _, o := range orders {
			if o.SL > 0 {
				withSL++
			}
			if o.TP > 0 {
				withTP++
			}
		}
		slPct := float64(withSL) / float64(len(orders)) * 100
		tpPct := float64(withTP) / float64(len(orders)) * 100
		p.Metrics["stop_loss_usage_pct"] = slPct
		p.Metrics["take_profit_usage_pct"] = tpPct

		switch {
		case slPct > r.cfg.UsagePct && tpPct > r.cfg.UsagePct:
			p.Name = "Strict Risk Management (SL + TP)"
			p.Confidence = strictRiskConfidence
			p.Evidence = append(p.Evidence,
				fmt.Sprintf("Stop Loss used in %.1f%% of trades", slPct),
				fmt.Sprintf("Take Profit used in %.1f%% of trades", tpPct))
		case slPct > r.cfg.UsagePct:
			p.Name = "Conservative (SL Only)"
			p.Confidence = slOnlyConfidence
			p.Evidence = append(p.Evidence, fmt.Sprintf("Stop Loss used in %.1f%% of trades", slPct))
		case tpPct > r.cfg.UsagePct:
			p.Name = "Profit Target Based"
			p.Confidence = tpOnlyConfidence
			p.Evidence = append(p.Evidence, fmt.Sprintf("Take Profit used in %.1f%% of trades", tpPct))
		default:
			p.Name = "Flexible/Manual Risk Management"
			p.Confidence = flexibleRiskConfidence
			p.Evidence = append(p.Evidence, "Variable use of stop loss and take profit")
		}
	} else {
		// No order history to inspect; the risk/reward note below may
		// still carry useful evidence.
		p.Name = "Unknown Risk Management"
		p.Confidence = unknownRiskConfidence
	}

	var wins, losses []float64
	for _, d := range deals {
		if d.Profit > 0 {
			wins = append(wins, d.Profit)
		} else if d.Profit < 0 {
			losses = append(losses, -d.Profit)
		}
	}
	if len(wins) > 0 && len(losses) > 0 {
		avgWin := stats.Mean(wins)
		avgLoss := stats.Mean(losses)
		rr := 0.0
		if avgLoss > 0 {
			rr = avgWin / avgLoss
		}
		p.Metrics["average_win"] = avgWin
		p.Metrics["average_loss"] = avgLoss
		p.Metrics["risk_reward_ratio"] = rr

		if rr > r.cfg.FavorableRR {
			p.Evidence = append(p.Evidence, fmt.Sprintf("High risk-reward ratio: %.2f", rr))
		} else if rr < r.cfg.MartingaleHintRR {
			p.Evidence = append(p.Evidence, fmt.Sprintf("Low risk-reward ratio: %.2f (potential martingale)", rr))
		}
	}

	return p, true
}
