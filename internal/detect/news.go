package detect

import (
	"fmt"
	"math"

	"algoscope/internal/config"
	"algoscope/internal/trade"
)

// Calibration constants for the cluster-ratio to confidence mapping.
const (
	newsConfidenceScale = 5
	newsConfidenceCap   = 0.9
)

// News looks for burst clusters: a long quiet gap followed by several trades
// in quick succession, the footprint of reacting to external events.
type News struct {
	cfg config.NewsConfig
}

func NewNews(cfg config.NewsConfig) *News { return &News{cfg: cfg} }

func (n *News) Name() string  { return "news" }
func (n *News) Enabled() bool { return n.cfg.Enabled }

func (n *News) Detect(deals []trade.Deal, _ []trade.Order) (Pattern, bool) {
	if len(deals) < n.cfg.MinSamples {
		return Pattern{}, false
	}

	sorted := trade.SortByTime(deals)
	gaps := make([]float64, 0, len(sorted)-1)
	for i := 1; i < len(sorted); i++ {
		gaps = append(gaps, sorted[i].Time.Sub(sorted[i-1].Time).Minutes())
	}

	clusters := 0
	for i, gap := range gaps {
		if gap <= n.cfg.LongGapMinutes {
			continue
		}
		short := 0
		for j := i + 1; j < len(gaps) && j <= i+3; j++ {
			if gaps[j] < n.cfg.ShortGapMinutes {
				short++
			}
		}
		if short >= 2 {
			clusters++
		}
	}

	ratio := float64(clusters) / float64(len(sorted))
	if ratio <= n.cfg.ClusterRatio {
		return Pattern{}, false
	}

	return Pattern{
		Name:        "News-Reaction Trading",
		Confidence:  clamp01(math.Min(ratio*newsConfidenceScale, newsConfidenceCap)),
		Description: "News/event burst trading analysis",
		Evidence: []string{
			fmt.Sprintf("Detected %d trading clusters", clusters),
			"Trading pattern suggests reaction to external events",
		},
		Metrics: map[string]float64{
			"clusters_detected": float64(clusters),
			"cluster_ratio":     ratio,
		},
	}, true
}
