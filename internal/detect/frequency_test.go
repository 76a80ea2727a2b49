package detect

import (
	"testing"

	"algoscope/internal/config"
	"algoscope/internal/trade"
)

func TestFrequency_HFT(t *testing.T) {
	// 60 trades inside one day.
	var deals []trade.Deal
	for i := 0; i < 60; i++ {
		deals = append(deals, mkDeal(i, "EURUSD", trade.Buy, 0.10, 1))
	}

	p, ok := NewFrequency(config.DefaultConfig().Detector.Frequency).Detect(deals, nil)
	if !ok {
		t.Fatal("expected a frequency pattern")
	}
	if p.Name != "High-Frequency Trading (HFT)" {
		t.Errorf("got %q, want High-Frequency Trading (HFT)", p.Name)
	}
	if got := p.Metrics["avg_trades_per_day"]; got != 60 {
		t.Errorf("avg_trades_per_day = %v, want 60", got)
	}
}

func TestFrequency_DayTrading(t *testing.T) {
	// 8 trades a day for three days, evenly spread.
	var deals []trade.Deal
	for day := 0; day < 3; day++ {
		for i := 0; i < 8; i++ {
			deals = append(deals, mkDeal(day*24*60+i*60, "EURUSD", trade.Buy, 0.10, 1))
		}
	}

	p, ok := NewFrequency(config.DefaultConfig().Detector.Frequency).Detect(deals, nil)
	if !ok {
		t.Fatal("expected a frequency pattern")
	}
	if p.Name != "Day Trading Strategy" {
		t.Errorf("got %q, want Day Trading Strategy", p.Name)
	}
	// 0.75 base plus the consistent-cadence bump.
	if p.Confidence != 0.8 {
		t.Errorf("confidence = %v, want 0.8", p.Confidence)
	}
}

func TestFrequency_ConfidenceBounded(t *testing.T) {
	var deals []trade.Deal
	for i := 0; i < 100; i++ {
		deals = append(deals, mkDeal(i, "EURUSD", trade.Buy, 0.10, 1))
	}
	p, ok := NewFrequency(config.DefaultConfig().Detector.Frequency).Detect(deals, nil)
	if !ok {
		t.Fatal("expected a frequency pattern")
	}
	if p.Confidence < 0 || p.Confidence > 1 {
		t.Errorf("confidence %v outside [0,1]", p.Confidence)
	}
}
