package detect

import (
	"testing"

	"algoscope/internal/config"
	"algoscope/internal/trade"
)

func TestTiming_Scheduled(t *testing.T) {
	// Same hour every day for a week.
	var deals []trade.Deal
	for day := 0; day < 7; day++ {
		deals = append(deals, mkDeal(day*24*60, "EURUSD", trade.Buy, 0.10, 5))
	}

	p, ok := NewTiming(config.DefaultConfig().Detector.Timing).Detect(deals, nil)
	if !ok {
		t.Fatal("expected a timing pattern")
	}
	if p.Name != "Time-Scheduled Trading" {
		t.Errorf("got %q, want Time-Scheduled Trading", p.Name)
	}
	if p.Confidence != 0.85 {
		t.Errorf("confidence = %v, want 0.85", p.Confidence)
	}
	if got := p.Metrics["top_hour_concentration"]; got != 100 {
		t.Errorf("top_hour_concentration = %v, want 100", got)
	}
}

func TestTiming_Continuous(t *testing.T) {
	// Spread across distinct hours, four hours apart.
	var deals []trade.Deal
	for i := 0; i < 6; i++ {
		deals = append(deals, mkDeal(i*4*60, "EURUSD", trade.Buy, 0.10, 5))
	}

	p, ok := NewTiming(config.DefaultConfig().Detector.Timing).Detect(deals, nil)
	if !ok {
		t.Fatal("expected a timing pattern")
	}
	if p.Name != "Continuous/24-Hour Trading" {
		t.Errorf("got %q, want Continuous/24-Hour Trading", p.Name)
	}
}

func TestTiming_RegularIntervalsRaiseConfidence(t *testing.T) {
	// Every 15 minutes like clockwork, but spilling across hours so no
	// single hour dominates enough to outrank the interval rule.
	var deals []trade.Deal
	for i := 0; i < 12; i++ {
		deals = append(deals, mkDeal(i*15, "EURUSD", trade.Buy, 0.10, 5))
	}

	p, ok := NewTiming(config.DefaultConfig().Detector.Timing).Detect(deals, nil)
	if !ok {
		t.Fatal("expected a timing pattern")
	}
	if p.Confidence < 0.8 {
		t.Errorf("confidence = %v, want at least 0.8 for clockwork intervals", p.Confidence)
	}
	if got := p.Metrics["avg_interval_minutes"]; got != 15 {
		t.Errorf("avg_interval_minutes = %v, want 15", got)
	}
}

func TestTiming_InsufficientData(t *testing.T) {
	one := []trade.Deal{mkDeal(0, "EURUSD", trade.Buy, 0.10, 5)}
	if _, ok := NewTiming(config.DefaultConfig().Detector.Timing).Detect(one, nil); ok {
		t.Error("single deal should yield absence")
	}
}
