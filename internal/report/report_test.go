package report

import (
	"encoding/json"
	"math"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"algoscope/internal/detect"
	"algoscope/internal/signature"
	"algoscope/internal/stats"
)

func sampleSignature() signature.Signature {
	return signature.Build([]detect.Pattern{
		{
			Name:        "Fixed Lot Size",
			Confidence:  0.95,
			Description: "Position sizing strategy analysis",
			Evidence:    []string{"All trades use identical lot size: 0.1"},
			Metrics:     map[string]float64{"lot_size": 0.1},
		},
	}, stats.Summary{
		TotalTrades:   10,
		WinningTrades: 6,
		WinRate:       60,
		ProfitFactor:  math.Inf(1),
	}, 30)
}

func TestText_Layout(t *testing.T) {
	out := Text(sampleSignature())

	for _, want := range []string{
		"ALGORITHM ANALYSIS REPORT",
		"TRADE STATISTICS",
		"DETECTED PATTERNS",
		"1. Fixed Lot Size",
		"Confidence: 95.0%",
		"- All trades use identical lot size: 0.1",
		"profit_factor: inf",
		"win_rate: 60.00",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("report missing %q", want)
		}
	}
}

func TestJSON_InfinitySentinel(t *testing.T) {
	data, err := JSON(sampleSignature())
	if err != nil {
		t.Fatal(err)
	}

	var decoded struct {
		Algorithm       string `json:"algorithm"`
		Characteristics struct {
			Statistics struct {
				ProfitFactor any `json:"profit_factor"`
				WinRate      any `json:"win_rate"`
			} `json:"statistics"`
			PatternCount int `json:"pattern_count"`
		} `json:"characteristics"`
		Patterns []struct {
			PatternName string `json:"pattern_name"`
		} `json:"patterns"`
	}
	if err := json.Unmarshal(data, &decoded); err != nil {
		t.Fatalf("invalid JSON output: %v", err)
	}

	if decoded.Characteristics.Statistics.ProfitFactor != "inf" {
		t.Errorf("profit_factor = %v, want the string sentinel \"inf\"", decoded.Characteristics.Statistics.ProfitFactor)
	}
	if decoded.Characteristics.PatternCount != 1 {
		t.Errorf("pattern_count = %d, want 1", decoded.Characteristics.PatternCount)
	}
	if len(decoded.Patterns) != 1 || decoded.Patterns[0].PatternName != "Fixed Lot Size" {
		t.Errorf("patterns = %+v, want the fixed-lot pattern", decoded.Patterns)
	}
}

func TestJSON_FiniteProfitFactorStaysNumeric(t *testing.T) {
	sig := signature.Build(nil, stats.Summary{ProfitFactor: 1.5}, 0)
	data, err := JSON(sig)
	if err != nil {
		t.Fatal(err)
	}
	var decoded struct {
		Characteristics struct {
			Statistics struct {
				ProfitFactor float64 `json:"profit_factor"`
			} `json:"statistics"`
		} `json:"characteristics"`
	}
	if err := json.Unmarshal(data, &decoded); err != nil {
		t.Fatal(err)
	}
	if decoded.Characteristics.Statistics.ProfitFactor != 1.5 {
		t.Errorf("profit_factor = %v, want 1.5", decoded.Characteristics.Statistics.ProfitFactor)
	}
}

func TestSave_WritesPair(t *testing.T) {
	dir := t.TempDir()
	txt, js, err := Save(dir, sampleSignature())
	if err != nil {
		t.Fatal(err)
	}

	for _, path := range []string{txt, js} {
		if filepath.Dir(path) != dir {
			t.Errorf("report %s written outside %s", path, dir)
		}
		info, err := os.Stat(path)
		if err != nil {
			t.Fatalf("stat %s: %v", path, err)
		}
		if info.Size() == 0 {
			t.Errorf("report %s is empty", path)
		}
	}
	if strings.TrimSuffix(txt, ".txt") != strings.TrimSuffix(js, ".json") {
		t.Errorf("report pair not co-named: %s / %s", txt, js)
	}
}
