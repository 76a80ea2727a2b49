package terminal

import (
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
	"time"

	"algoscope/internal/trade"
)

// Terminal history exports use local wall-clock timestamps without a zone.
const exportTimeLayout = "2006-01-02 15:04:05"

// CSVFeed reads deal and order history from terminal CSV exports. Either
// path may be empty, in which case that side of the history is empty. It
// never reports account state.
type CSVFeed struct {
	DealsPath  string
	OrdersPath string
}

func (f *CSVFeed) Deals(ctx context.Context, from, to time.Time) ([]trade.Deal, error) {
	if f.DealsPath == "" {
		return nil, nil
	}
	rows, header, err := readCSV(ctx, f.DealsPath)
	if err != nil {
		return nil, err
	}

	var deals []trade.Deal
	for i, row := range rows {
		d, err := parseDeal(header, row)
		if err != nil {
			return nil, fmt.Errorf("%s row %d: %w", f.DealsPath, i+2, err)
		}
		if d.Time.Before(from) || d.Time.After(to) {
			continue
		}
		deals = append(deals, d)
	}
	return deals, nil
}

func (f *CSVFeed) Orders(ctx context.Context, from, to time.Time) ([]trade.Order, error) {
	if f.OrdersPath == "" {
		return nil, nil
	}
	rows, header, err := readCSV(ctx, f.OrdersPath)
	if err != nil {
		return nil, err
	}

	var orders []trade.Order
	for i, row := range rows {
		o, err := parseOrder(header, row)
		if err != nil {
			return nil, fmt.Errorf("%s row %d: %w", f.OrdersPath, i+2, err)
		}
		if o.TimeSetup.Before(from) || o.TimeSetup.After(to) {
			continue
		}
		orders = append(orders, o)
	}
	return orders, nil
}

func (f *CSVFeed) AccountInfo(ctx context.Context) (Account, error) {
	return Account{}, ErrUnavailable
}

func readCSV(ctx context.Context, path string) (rows [][]string, header map[string]int, err error) {
	fh, err := os.Open(path)
	if err != nil {
		return nil, nil, fmt.Errorf("opening history export: %w", err)
	}
	defer fh.Close()

	r := csv.NewReader(fh)
	r.TrimLeadingSpace = true

	head, err := r.Read()
	if err != nil {
		return nil, nil, fmt.Errorf("reading header of %s: %w", path, err)
	}
	header = make(map[string]int, len(head))
	for i, col := range head {
		header[strings.ToLower(strings.TrimSpace(col))] = i
	}

	for {
		if err := ctx.Err(); err != nil {
			return nil, nil, err
		}
		row, err := r.Read()
		if err == io.EOF {
			return rows, header, nil
		}
		if err != nil {
			return nil, nil, fmt.Errorf("reading %s: %w", path, err)
		}
		rows = append(rows, row)
	}
}

func parseDeal(header map[string]int, row []string) (trade.Deal, error) {
	var d trade.Deal
	var err error

	if d.Ticket, err = intField(header, row, "ticket"); err != nil {
		return d, err
	}
	if d.Time, err = timeField(header, row, "time"); err != nil {
		return d, err
	}
	d.Symbol = strField(header, row, "symbol")
	if d.Type, err = typeField(header, row, "type"); err != nil {
		return d, err
	}
	if d.Price, err = floatField(header, row, "price"); err != nil {
		return d, err
	}
	if d.Volume, err = floatField(header, row, "volume"); err != nil {
		return d, err
	}
	if d.Profit, err = floatField(header, row, "profit"); err != nil {
		return d, err
	}
	if _, ok := header["position_id"]; ok {
		if d.PositionID, err = intField(header, row, "position_id"); err != nil {
			return d, err
		}
	}
	return d, nil
}

func parseOrder(header map[string]int, row []string) (trade.Order, error) {
	var o trade.Order
	var err error

	if o.Ticket, err = intField(header, row, "ticket"); err != nil {
		return o, err
	}
	o.Symbol = strField(header, row, "symbol")
	if o.Type, err = typeField(header, row, "type"); err != nil {
		return o, err
	}
	if o.PriceOpen, err = floatField(header, row, "price_open"); err != nil {
		return o, err
	}
	if o.SL, err = floatField(header, row, "sl"); err != nil {
		return o, err
	}
	if o.TP, err = floatField(header, row, "tp"); err != nil {
		return o, err
	}
	if o.TimeSetup, err = timeField(header, row, "time_setup"); err != nil {
		return o, err
	}
	if _, ok := header["time_done"]; ok {
		if o.TimeDone, err = timeField(header, row, "time_done"); err != nil {
			return o, err
		}
	}
	return o, nil
}

func strField(header map[string]int, row []string, name string) string {
	i, ok := header[name]
	if !ok || i >= len(row) {
		return ""
	}
	return strings.TrimSpace(row[i])
}

func intField(header map[string]int, row []string, name string) (int64, error) {
	s := strField(header, row, name)
	if s == "" {
		return 0, nil
	}
	v, err := strconv.ParseInt(s, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("column %s: %w", name, err)
	}
	return v, nil
}

func floatField(header map[string]int, row []string, name string) (float64, error) {
	s := strField(header, row, name)
	if s == "" {
		return 0, nil
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, fmt.Errorf("column %s: %w", name, err)
	}
	return v, nil
}

func timeField(header map[string]int, row []string, name string) (time.Time, error) {
	s := strField(header, row, name)
	if s == "" {
		return time.Time{}, nil
	}
	if t, err := time.Parse(exportTimeLayout, s); err == nil {
		return t, nil
	}
	t, err := time.Parse(time.RFC3339, s)
	if err != nil {
		return time.Time{}, fmt.Errorf("column %s: unrecognized timestamp %q", name, s)
	}
	return t, nil
}

func typeField(header map[string]int, row []string, name string) (trade.DealType, error) {
	s := strField(header, row, name)
	// Raw exports may carry the numeric code instead of the label.
	if code, err := strconv.Atoi(s); err == nil {
		return trade.DealType(code), nil
	}
	t, err := trade.ParseType(s)
	if err != nil {
		return 0, fmt.Errorf("column %s: %w", name, err)
	}
	return t, nil
}
