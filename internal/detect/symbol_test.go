package detect

import (
	"testing"

	"algoscope/internal/config"
	"algoscope/internal/trade"
)

func TestSymbol_Focused(t *testing.T) {
	var deals []trade.Deal
	for i := 0; i < 8; i++ {
		deals = append(deals, mkDeal(i*60, "EURUSD", trade.Buy, 0.10, 5))
	}
	for i := 8; i < 10; i++ {
		deals = append(deals, mkDeal(i*60, "GBPUSD", trade.Buy, 0.10, 5))
	}

	p, ok := NewSymbol(config.DefaultConfig().Detector.Symbol).Detect(deals, nil)
	if !ok {
		t.Fatal("expected a symbol pattern")
	}
	if p.Name != "Focused Instrument Strategy" {
		t.Errorf("got %q, want Focused Instrument Strategy", p.Name)
	}
	if p.Confidence != 0.85 {
		t.Errorf("confidence = %v, want 0.85", p.Confidence)
	}
	if got := p.Metrics["top_symbol_concentration"]; got != 80 {
		t.Errorf("top_symbol_concentration = %v, want 80", got)
	}
}

func TestSymbol_SingleInstrument(t *testing.T) {
	deals := []trade.Deal{
		mkDeal(0, "XAUUSD", trade.Buy, 0.10, 5),
		mkDeal(60, "XAUUSD", trade.Sell, 0.10, -3),
	}

	p, ok := NewSymbol(config.DefaultConfig().Detector.Symbol).Detect(deals, nil)
	if !ok {
		t.Fatal("expected a symbol pattern")
	}
	if p.Name != "Single Instrument Specialist" {
		t.Errorf("got %q, want Single Instrument Specialist", p.Name)
	}
	if p.Confidence != 0.95 {
		t.Errorf("confidence = %v, want 0.95", p.Confidence)
	}
}

func TestSymbol_Diversified(t *testing.T) {
	symbols := []string{"EURUSD", "GBPUSD", "USDJPY", "AUDUSD", "XAUUSD", "US500", "BTCUSD"}
	var deals []trade.Deal
	for i, s := range symbols {
		deals = append(deals, mkDeal(i*60, s, trade.Buy, 0.10, 5))
	}

	p, ok := NewSymbol(config.DefaultConfig().Detector.Symbol).Detect(deals, nil)
	if !ok {
		t.Fatal("expected a symbol pattern")
	}
	if p.Name != "Diversified Portfolio Strategy" {
		t.Errorf("got %q, want Diversified Portfolio Strategy", p.Name)
	}
}

func TestSymbol_Empty(t *testing.T) {
	if _, ok := NewSymbol(config.DefaultConfig().Detector.Symbol).Detect(nil, nil); ok {
		t.Error("empty input should yield absence")
	}
}
