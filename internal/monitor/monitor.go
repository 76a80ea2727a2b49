// Package monitor runs the live analysis loop: poll the terminal feed for
// fresh history, archive it, rerun the detector battery, and surface the
// latest signature.
package monitor

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/robfig/cron/v3"

	"algoscope/internal/analyzer"
	"algoscope/internal/config"
	"algoscope/internal/history"
	"algoscope/internal/report"
	"algoscope/internal/signature"
	"algoscope/internal/terminal"
)

// Monitor orchestrates the polling loop.
type Monitor struct {
	feed      terminal.Feed
	store     *history.Store
	analyzer  *analyzer.Analyzer
	schedule  config.ScheduleConfig
	analysis  config.AnalysisConfig
	reportDir string

	mu      sync.Mutex
	lastSig *signature.Signature
}

func New(feed terminal.Feed, store *history.Store, an *analyzer.Analyzer, cfg config.Config) *Monitor {
	return &Monitor{
		feed:      feed,
		store:     store,
		analyzer:  an,
		schedule:  cfg.Schedule,
		analysis:  cfg.Analysis,
		reportDir: cfg.General.ReportDir,
	}
}

// LastSignature returns the most recent analysis result, nil before the
// first completed cycle.
func (m *Monitor) LastSignature() *signature.Signature {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.lastSig
}

// Run starts the poll loop and blocks until context is cancelled. When a
// report cron expression is configured, report files are exported on that
// schedule as well.
func (m *Monitor) Run(ctx context.Context) error {
	slog.Info("monitor starting",
		"poll_interval", m.schedule.PollInterval.Duration,
		"days_back", m.analysis.DaysBack,
	)

	var c *cron.Cron
	if m.schedule.ReportCron != "" {
		c = cron.New()
		if _, err := c.AddFunc(m.schedule.ReportCron, m.exportReport); err != nil {
			slog.Error("invalid report cron expression", "expr", m.schedule.ReportCron, "error", err)
			return err
		}
		c.Start()
		defer c.Stop()
		slog.Info("report export scheduled", "cron", m.schedule.ReportCron)
	}

	// Run first cycle immediately.
	m.runCycle(ctx)

	ticker := time.NewTicker(m.schedule.PollInterval.Duration)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			slog.Info("monitor shutting down")
			return ctx.Err()
		case <-ticker.C:
			m.runCycle(ctx)
		}
	}
}

func (m *Monitor) runCycle(ctx context.Context) {
	to := time.Now()
	from := to.AddDate(0, 0, -m.analysis.DaysBack)

	deals, err := m.feed.Deals(ctx, from, to)
	if err != nil {
		slog.Error("deal fetch failed", "error", err)
		return
	}
	orders, err := m.feed.Orders(ctx, from, to)
	if err != nil {
		slog.Error("order fetch failed", "error", err)
		return
	}

	if n, err := m.store.ImportDeals(ctx, deals); err != nil {
		slog.Error("deal import failed", "error", err)
	} else if n > 0 {
		slog.Info("new deals archived", "count", n)
	}
	if n, err := m.store.ImportOrders(ctx, orders); err != nil {
		slog.Error("order import failed", "error", err)
	} else if n > 0 {
		slog.Info("new orders archived", "count", n)
	}

	if len(deals) < m.analysis.MinDeals {
		slog.Info("not enough deals to analyze", "deals", len(deals), "min", m.analysis.MinDeals)
		return
	}

	sig := m.analyzer.Analyze(deals, orders)
	if err := m.store.SaveSignature(ctx, sig); err != nil {
		slog.Error("signature archive failed", "error", err, "run_id", sig.RunID)
	}

	m.mu.Lock()
	m.lastSig = &sig
	m.mu.Unlock()
}

func (m *Monitor) exportReport() {
	sig := m.LastSignature()
	if sig == nil {
		slog.Info("report export skipped, no analysis yet")
		return
	}
	txt, js, err := report.Save(m.reportDir, *sig)
	if err != nil {
		slog.Error("report export failed", "error", err)
		return
	}
	slog.Info("reports saved", "txt", txt, "json", js)
}
