// Package history archives terminal trade history and analysis results in
// SQLite so runs can be replayed and compared offline.
package history

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"math"
	"time"

	"algoscope/internal/signature"
	"algoscope/internal/trade"
)

const timeLayout = time.RFC3339

// Store wraps the archive database. All methods are safe for concurrent use;
// database/sql handles connection serialization.
type Store struct {
	db *sql.DB
}

func New(db *sql.DB) *Store {
	return &Store{db: db}
}

// ImportDeals inserts deals keyed by ticket, skipping ones already archived.
// It returns the number of newly stored rows.
func (s *Store) ImportDeals(ctx context.Context, deals []trade.Deal) (int, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("beginning import: %w", err)
	}
	defer tx.Rollback()

	stmt, err := tx.PrepareContext(ctx, `
		INSERT OR IGNORE INTO deals (ticket, time, symbol, type, price, volume, profit, position_id)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return 0, fmt.Errorf("preparing deal insert: %w", err)
	}
	defer stmt.Close()

	var stored int
	for _, d := range deals {
		res, err := stmt.ExecContext(ctx,
			d.Ticket, d.Time.UTC().Format(timeLayout), d.Symbol, int(d.Type),
			d.Price, d.Volume, d.Profit, d.PositionID)
		if err != nil {
			return 0, fmt.Errorf("inserting deal %d: %w", d.Ticket, err)
		}
		if n, _ := res.RowsAffected(); n > 0 {
			stored++
		}
	}
	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("committing deal import: %w", err)
	}
	return stored, nil
}

// ImportOrders inserts orders keyed by ticket, skipping duplicates.
func (s *Store) ImportOrders(ctx context.Context, orders []trade.Order) (int, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("beginning import: %w", err)
	}
	defer tx.Rollback()

	stmt, err := tx.PrepareContext(ctx, `
		INSERT OR IGNORE INTO orders (ticket, symbol, type, price_open, sl, tp, time_setup, time_done)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return 0, fmt.Errorf("preparing order insert: %w", err)
	}
	defer stmt.Close()

	var stored int
	for _, o := range orders {
		var done any
		if !o.TimeDone.IsZero() {
			done = o.TimeDone.UTC().Format(timeLayout)
		}
		res, err := stmt.ExecContext(ctx,
			o.Ticket, o.Symbol, int(o.Type), o.PriceOpen, o.SL, o.TP,
			o.TimeSetup.UTC().Format(timeLayout), done)
		if err != nil {
			return 0, fmt.Errorf("inserting order %d: %w", o.Ticket, err)
		}
		if n, _ := res.RowsAffected(); n > 0 {
			stored++
		}
	}
	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("committing order import: %w", err)
	}
	return stored, nil
}

// LoadDeals returns archived deals with time in [from, to], ordered by time.
func (s *Store) LoadDeals(ctx context.Context, from, to time.Time) ([]trade.Deal, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT ticket, time, symbol, type, price, volume, profit, position_id
		FROM deals WHERE time >= ? AND time <= ? ORDER BY time`,
		from.UTC().Format(timeLayout), to.UTC().Format(timeLayout))
	if err != nil {
		return nil, fmt.Errorf("querying deals: %w", err)
	}
	defer rows.Close()

	var deals []trade.Deal
	for rows.Next() {
		var d trade.Deal
		var ts string
		var typ int
		if err := rows.Scan(&d.Ticket, &ts, &d.Symbol, &typ, &d.Price, &d.Volume, &d.Profit, &d.PositionID); err != nil {
			return nil, fmt.Errorf("scanning deal: %w", err)
		}
		if d.Time, err = time.Parse(timeLayout, ts); err != nil {
			return nil, fmt.Errorf("parsing deal time %q: %w", ts, err)
		}
		d.Type = trade.DealType(typ)
		deals = append(deals, d)
	}
	return deals, rows.Err()
}

// LoadOrders returns archived orders with setup time in [from, to], ordered
// by setup time.
func (s *Store) LoadOrders(ctx context.Context, from, to time.Time) ([]trade.Order, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT ticket, symbol, type, price_open, sl, tp, time_setup, time_done
		FROM orders WHERE time_setup >= ? AND time_setup <= ? ORDER BY time_setup`,
		from.UTC().Format(timeLayout), to.UTC().Format(timeLayout))
	if err != nil {
		return nil, fmt.Errorf("querying orders: %w", err)
	}
	defer rows.Close()

	var orders []trade.Order
	for rows.Next() {
		var o trade.Order
		var setup string
		var done sql.NullString
		var typ int
		if err := rows.Scan(&o.Ticket, &o.Symbol, &typ, &o.PriceOpen, &o.SL, &o.TP, &setup, &done); err != nil {
			return nil, fmt.Errorf("scanning order: %w", err)
		}
		if o.TimeSetup, err = time.Parse(timeLayout, setup); err != nil {
			return nil, fmt.Errorf("parsing order time %q: %w", setup, err)
		}
		if done.Valid {
			if o.TimeDone, err = time.Parse(timeLayout, done.String); err != nil {
				return nil, fmt.Errorf("parsing order time %q: %w", done.String, err)
			}
		}
		o.Type = trade.DealType(typ)
		orders = append(orders, o)
	}
	return orders, rows.Err()
}

// SaveSignature archives one analysis run with its patterns. Evidence and
// metrics serialize as JSON columns. An infinite profit factor is stored as
// -1; SQLite has no portable encoding for it.
func (s *Store) SaveSignature(ctx context.Context, sig signature.Signature) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning save: %w", err)
	}
	defer tx.Rollback()

	pf := sig.Characteristics.Statistics.ProfitFactor
	if math.IsInf(pf, 1) {
		pf = -1
	}

	_, err = tx.ExecContext(ctx, `
		INSERT INTO analysis_runs (run_id, algorithm, confidence, pattern_count, period_days, total_trades, win_rate, profit_factor)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		sig.RunID, sig.LikelyAlgorithm, sig.Confidence,
		sig.Characteristics.PatternCount, sig.Characteristics.AnalysisPeriodDays,
		sig.Characteristics.Statistics.TotalTrades,
		sig.Characteristics.Statistics.WinRate, pf)
	if err != nil {
		return fmt.Errorf("inserting run %s: %w", sig.RunID, err)
	}

	for _, p := range sig.Patterns {
		evidence, err := json.Marshal(p.Evidence)
		if err != nil {
			return fmt.Errorf("encoding evidence: %w", err)
		}
		metrics, err := json.Marshal(p.Metrics)
		if err != nil {
			return fmt.Errorf("encoding metrics: %w", err)
		}
		_, err = tx.ExecContext(ctx, `
			INSERT INTO analysis_patterns (run_id, pattern_name, confidence, description, evidence, metrics)
			VALUES (?, ?, ?, ?, ?, ?)`,
			sig.RunID, p.Name, p.Confidence, p.Description, string(evidence), string(metrics))
		if err != nil {
			return fmt.Errorf("inserting pattern %q: %w", p.Name, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("committing save: %w", err)
	}
	return nil
}

// Run is one archived analysis summary row.
type Run struct {
	RunID        string
	Algorithm    string
	Confidence   float64
	PatternCount int
	PeriodDays   int
	TotalTrades  int
	CreatedAt    time.Time
}

// RecentRuns returns the latest archived runs, newest first.
func (s *Store) RecentRuns(ctx context.Context, limit int) ([]Run, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT run_id, algorithm, confidence, pattern_count, period_days, total_trades, created_at
		FROM analysis_runs ORDER BY created_at DESC LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("querying runs: %w", err)
	}
	defer rows.Close()

	var runs []Run
	for rows.Next() {
		var r Run
		var created string
		if err := rows.Scan(&r.RunID, &r.Algorithm, &r.Confidence, &r.PatternCount, &r.PeriodDays, &r.TotalTrades, &created); err != nil {
			return nil, fmt.Errorf("scanning run: %w", err)
		}
		// sqlite datetime('now') format
		if r.CreatedAt, err = time.Parse("2006-01-02 15:04:05", created); err != nil {
			return nil, fmt.Errorf("parsing run time %q: %w", created, err)
		}
		runs = append(runs, r)
	}
	return runs, rows.Err()
}
