package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"algoscope/internal/analyzer"
	"algoscope/internal/config"
	"algoscope/internal/db"
	"algoscope/internal/detect"
	"algoscope/internal/history"
	"algoscope/internal/monitor"
	"algoscope/internal/report"
	"algoscope/internal/terminal"
	"algoscope/internal/trade"
)

func main() {
	// Parse CLI flags.
	configFlag := flag.String("config", "", "Path to the TOML config file")
	dealsPath := flag.String("deals", "", "Path to a deal history CSV export")
	ordersPath := flag.String("orders", "", "Path to an order history CSV export")
	days := flag.Int("days", 0, "Override the analysis window in days")
	liveMode := flag.Bool("live", false, "Keep polling the history source and re-analyzing")
	interval := flag.Duration("interval", 0, "Override the live poll interval, e.g. 30s")
	replayMode := flag.Bool("replay", false, "Analyze previously archived history instead of a feed")
	replayFrom := flag.String("from", "", "Replay start date (YYYY-MM-DD)")
	replayTo := flag.String("to", "", "Replay end date (YYYY-MM-DD)")
	listRuns := flag.Int("runs", 0, "List the N most recent archived analysis runs and exit")
	flag.Parse()

	// .env is optional; real deployments set variables directly.
	_ = godotenv.Load()

	cfg, err := config.Load(resolveConfigPath(*configFlag))
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}
	applyOverrides(cfg, *days, *interval)

	// Set up structured logging.
	slog.SetDefault(slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: logLevel(cfg.General.LogLevel),
	})))

	slog.Info("algoscope starting")

	// Initialize database.
	database, err := db.Open(cfg.General.DBPath)
	if err != nil {
		slog.Error("failed to open database", "error", err)
		os.Exit(1)
	}
	defer database.Close()

	if err := db.Migrate(database); err != nil {
		slog.Error("failed to run migrations", "error", err)
		os.Exit(1)
	}
	slog.Info("database initialized", "path", cfg.General.DBPath)

	store := history.New(database)
	an := analyzer.New(detect.Registry(cfg.Detector), cfg.Analysis)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		sig := <-sigCh
		slog.Info("received signal, shutting down", "signal", sig)
		cancel()
	}()

	if *listRuns > 0 {
		runs, err := store.RecentRuns(ctx, *listRuns)
		if err != nil {
			slog.Error("listing runs failed", "error", err)
			os.Exit(1)
		}
		fmt.Print(formatRuns(runs))
		return
	}

	// Replay mode works entirely off the archive.
	if *replayMode {
		if err := runReplay(ctx, store, an, cfg, *replayFrom, *replayTo); err != nil {
			slog.Error("replay failed", "error", err)
			os.Exit(1)
		}
		return
	}

	feed := &terminal.CSVFeed{DealsPath: *dealsPath, OrdersPath: *ordersPath}
	logAccount(ctx, feed)

	if *liveMode {
		mon := monitor.New(feed, store, an, *cfg)
		if err := mon.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
			slog.Error("monitor error", "error", err)
			os.Exit(1)
		}
		slog.Info("algoscope stopped")
		return
	}

	if err := runOnce(ctx, feed, store, an, cfg); err != nil {
		slog.Error("analysis failed", "error", err)
		os.Exit(1)
	}
}

// runOnce fetches the window once, archives it, and prints plus saves the
// full report pair.
func runOnce(ctx context.Context, feed terminal.Feed, store *history.Store, an *analyzer.Analyzer, cfg *config.Config) error {
	to := time.Now()
	from := to.AddDate(0, 0, -cfg.Analysis.DaysBack)

	deals, err := feed.Deals(ctx, from, to)
	if err != nil {
		return fmt.Errorf("fetching deals: %w", err)
	}
	orders, err := feed.Orders(ctx, from, to)
	if err != nil {
		return fmt.Errorf("fetching orders: %w", err)
	}
	slog.Info("history loaded", "deals", len(deals), "orders", len(orders))

	if _, err := store.ImportDeals(ctx, deals); err != nil {
		return fmt.Errorf("archiving deals: %w", err)
	}
	if _, err := store.ImportOrders(ctx, orders); err != nil {
		return fmt.Errorf("archiving orders: %w", err)
	}

	return analyzeAndReport(ctx, store, an, cfg, deals, orders)
}

// runReplay re-analyzes an archived date range.
func runReplay(ctx context.Context, store *history.Store, an *analyzer.Analyzer, cfg *config.Config, fromStr, toStr string) error {
	from, to, err := replayRange(fromStr, toStr, cfg.Analysis.DaysBack)
	if err != nil {
		return err
	}

	deals, err := store.LoadDeals(ctx, from, to)
	if err != nil {
		return fmt.Errorf("loading archived deals: %w", err)
	}
	orders, err := store.LoadOrders(ctx, from, to)
	if err != nil {
		return fmt.Errorf("loading archived orders: %w", err)
	}
	slog.Info("replaying archive", "from", from.Format("2006-01-02"), "to", to.Format("2006-01-02"),
		"deals", len(deals), "orders", len(orders))

	return analyzeAndReport(ctx, store, an, cfg, deals, orders)
}

func analyzeAndReport(ctx context.Context, store *history.Store, an *analyzer.Analyzer, cfg *config.Config, deals []trade.Deal, orders []trade.Order) error {
	if len(deals) < cfg.Analysis.MinDeals {
		return fmt.Errorf("only %d deals in window, need at least %d", len(deals), cfg.Analysis.MinDeals)
	}

	sig := an.Analyze(deals, orders)
	if err := store.SaveSignature(ctx, sig); err != nil {
		return fmt.Errorf("archiving signature: %w", err)
	}

	fmt.Print(report.Text(sig))
	fmt.Print(report.AdvancedText(an.Advanced(deals, orders)))

	txt, js, err := report.Save(cfg.General.ReportDir, sig)
	if err != nil {
		return err
	}
	slog.Info("reports saved", "txt", txt, "json", js)
	return nil
}

func replayRange(fromStr, toStr string, daysBack int) (time.Time, time.Time, error) {
	to := time.Now()
	if toStr != "" {
		var err error
		if to, err = time.Parse("2006-01-02", toStr); err != nil {
			return time.Time{}, time.Time{}, fmt.Errorf("parsing -to: %w", err)
		}
		// Include the whole end day.
		to = to.AddDate(0, 0, 1).Add(-time.Second)
	}

	from := to.AddDate(0, 0, -daysBack)
	if fromStr != "" {
		var err error
		if from, err = time.Parse("2006-01-02", fromStr); err != nil {
			return time.Time{}, time.Time{}, fmt.Errorf("parsing -from: %w", err)
		}
	}
	return from, to, nil
}

func logAccount(ctx context.Context, feed terminal.Feed) {
	acct, err := feed.AccountInfo(ctx)
	if err != nil {
		if errors.Is(err, terminal.ErrUnavailable) {
			slog.Debug("account info not provided by this feed")
		} else {
			slog.Warn("account info fetch failed", "error", err)
		}
		return
	}
	slog.Info("account",
		"login", acct.Login,
		"balance", acct.Balance,
		"equity", acct.Equity,
		"currency", acct.Currency,
		"leverage", acct.Leverage,
		"server", acct.Server,
	)
}

// resolveConfigPath prefers the -config flag, then the environment, then
// the conventional file next to the binary.
func resolveConfigPath(flagValue string) string {
	if flagValue != "" {
		return flagValue
	}
	if p := os.Getenv("ALGOSCOPE_CONFIG_PATH"); p != "" {
		return p
	}
	return "config.toml"
}

// applyOverrides layers CLI flags over the loaded config. Zero values mean
// the flag was not given.
func applyOverrides(cfg *config.Config, days int, interval time.Duration) {
	if days > 0 {
		cfg.Analysis.DaysBack = days
	}
	if interval > 0 {
		cfg.Schedule.PollInterval = config.Duration{Duration: interval}
	}
}

func formatRuns(runs []history.Run) string {
	if len(runs) == 0 {
		return "no archived analysis runs\n"
	}
	var b strings.Builder
	for _, r := range runs {
		fmt.Fprintf(&b, "%s  %s  confidence %.1f%%  patterns %d  trades %d  period %dd  %s\n",
			r.CreatedAt.Format("2006-01-02 15:04"), r.RunID, r.Confidence*100,
			r.PatternCount, r.TotalTrades, r.PeriodDays, r.Algorithm)
	}
	return b.String()
}

func logLevel(name string) slog.Level {
	switch name {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
