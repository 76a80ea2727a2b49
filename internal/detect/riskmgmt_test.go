package detect

import (
	"testing"
	"time"

	"algoscope/internal/config"
	"algoscope/internal/trade"
)

func riskOrder(ticket int64, sl, tp float64) trade.Order {
	return trade.Order{
		Ticket:    ticket,
		Symbol:    "EURUSD",
		Type:      trade.Buy,
		PriceOpen: 1.1000,
		SL:        sl,
		TP:        tp,
		TimeSetup: time.Date(2026, 3, 2, 9, 0, 0, 0, time.UTC),
	}
}

func TestRiskManagement_Strict(t *testing.T) {
	deals := []trade.Deal{
		mkDeal(0, "EURUSD", trade.Buy, 0.10, 10),
		mkDeal(60, "EURUSD", trade.Buy, 0.10, -5),
	}
	var orders []trade.Order
	for i := int64(1); i <= 10; i++ {
		orders = append(orders, riskOrder(i, 1.0950, 1.1050))
	}

	p, ok := NewRiskManagement(config.DefaultConfig().Detector.Risk).Detect(deals, orders)
	if !ok {
		t.Fatal("expected a risk pattern")
	}
	if p.Name != "Strict Risk Management (SL + TP)" {
		t.Errorf("got %q, want Strict Risk Management (SL + TP)", p.Name)
	}
	if p.Confidence != 0.9 {
		t.Errorf("confidence = %v, want 0.9", p.Confidence)
	}
	if got := p.Metrics["risk_reward_ratio"]; got != 2 {
		t.Errorf("risk_reward_ratio = %v, want 2", got)
	}
}

func TestRiskManagement_SLOnly(t *testing.T) {
	deals := []trade.Deal{mkDeal(0, "EURUSD", trade.Buy, 0.10, 10)}
	var orders []trade.Order
	for i := int64(1); i <= 10; i++ {
		orders = append(orders, riskOrder(i, 1.0950, 0))
	}

	p, ok := NewRiskManagement(config.DefaultConfig().Detector.Risk).Detect(deals, orders)
	if !ok {
		t.Fatal("expected a risk pattern")
	}
	if p.Name != "Conservative (SL Only)" {
		t.Errorf("got %q, want Conservative (SL Only)", p.Name)
	}
}

func TestRiskManagement_NoOrders(t *testing.T) {
	deals := []trade.Deal{mkDeal(0, "EURUSD", trade.Buy, 0.10, 10)}

	p, ok := NewRiskManagement(config.DefaultConfig().Detector.Risk).Detect(deals, nil)
	if !ok {
		t.Fatal("expected a risk pattern")
	}
	if p.Name != "Unknown Risk Management" {
		t.Errorf("got %q, want Unknown Risk Management", p.Name)
	}
	if p.Confidence != 0.5 {
		t.Errorf("confidence = %v, want 0.5", p.Confidence)
	}
}

func TestRiskManagement_NoDeals(t *testing.T) {
	orders := []trade.Order{riskOrder(1, 1.0950, 1.1050)}
	if _, ok := NewRiskManagement(config.DefaultConfig().Detector.Risk).Detect(nil, orders); ok {
		t.Error("no deals should yield absence")
	}
}
