package terminal

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"algoscope/internal/trade"
)

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestCSVFeed_Deals(t *testing.T) {
	path := writeFile(t, "deals.csv", `ticket,time,symbol,type,price,volume,profit,position_id
1,2026-03-02 10:00:00,EURUSD,buy,1.10000,0.10,5.50,100
2,2026-03-02 11:30:00,EURUSD,sell,1.10100,0.10,-2.25,100
3,2026-03-03 09:15:00,GBPUSD,buy,1.26500,0.20,12.00,101
`)

	feed := &CSVFeed{DealsPath: path}
	from := time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)
	to := time.Date(2026, 3, 4, 0, 0, 0, 0, time.UTC)

	deals, err := feed.Deals(context.Background(), from, to)
	if err != nil {
		t.Fatal(err)
	}
	if len(deals) != 3 {
		t.Fatalf("parsed %d deals, want 3", len(deals))
	}

	d := deals[0]
	if d.Ticket != 1 || d.Symbol != "EURUSD" || d.Type != trade.Buy {
		t.Errorf("first deal mismatch: %+v", d)
	}
	if d.Price != 1.10000 || d.Volume != 0.10 || d.Profit != 5.50 || d.PositionID != 100 {
		t.Errorf("first deal values mismatch: %+v", d)
	}
	if deals[1].Type != trade.Sell {
		t.Errorf("second deal type = %v, want sell", deals[1].Type)
	}
}

func TestCSVFeed_DealsWindowFilter(t *testing.T) {
	path := writeFile(t, "deals.csv", `ticket,time,symbol,type,price,volume,profit
1,2026-03-02 10:00:00,EURUSD,buy,1.1,0.1,5
2,2026-03-09 10:00:00,EURUSD,buy,1.1,0.1,5
`)

	feed := &CSVFeed{DealsPath: path}
	from := time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)
	to := time.Date(2026, 3, 5, 0, 0, 0, 0, time.UTC)

	deals, err := feed.Deals(context.Background(), from, to)
	if err != nil {
		t.Fatal(err)
	}
	if len(deals) != 1 {
		t.Fatalf("parsed %d deals inside window, want 1", len(deals))
	}
	if deals[0].Ticket != 1 {
		t.Errorf("ticket = %d, want 1", deals[0].Ticket)
	}
}

func TestCSVFeed_Orders(t *testing.T) {
	path := writeFile(t, "orders.csv", `ticket,symbol,type,price_open,sl,tp,time_setup,time_done
10,EURUSD,buy limit,1.09900,1.09500,1.10500,2026-03-02 09:00:00,
11,EURUSD,2,1.09800,0,0,2026-03-02 09:05:00,2026-03-02 12:00:00
`)

	feed := &CSVFeed{OrdersPath: path}
	from := time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)
	to := time.Date(2026, 3, 4, 0, 0, 0, 0, time.UTC)

	orders, err := feed.Orders(context.Background(), from, to)
	if err != nil {
		t.Fatal(err)
	}
	if len(orders) != 2 {
		t.Fatalf("parsed %d orders, want 2", len(orders))
	}
	if orders[0].Type != trade.BuyLimit || orders[1].Type != trade.BuyLimit {
		t.Errorf("types = %v/%v, want buy limit for both label and code", orders[0].Type, orders[1].Type)
	}
	if orders[0].SL != 1.09500 || orders[0].TP != 1.10500 {
		t.Errorf("SL/TP = %v/%v", orders[0].SL, orders[0].TP)
	}
	if !orders[0].TimeDone.IsZero() {
		t.Errorf("TimeDone = %v, want zero for a pending order", orders[0].TimeDone)
	}
}

func TestCSVFeed_BadType(t *testing.T) {
	path := writeFile(t, "deals.csv", `ticket,time,symbol,type,price,volume,profit
1,2026-03-02 10:00:00,EURUSD,banana,1.1,0.1,5
`)

	feed := &CSVFeed{DealsPath: path}
	_, err := feed.Deals(context.Background(), time.Time{}, time.Now())
	if err == nil {
		t.Fatal("expected an error for an unknown deal type")
	}
}

func TestCSVFeed_EmptyPaths(t *testing.T) {
	feed := &CSVFeed{}
	deals, err := feed.Deals(context.Background(), time.Time{}, time.Now())
	if err != nil || deals != nil {
		t.Errorf("empty path should yield nil, nil; got %v, %v", deals, err)
	}
}

func TestCSVFeed_NoAccountInfo(t *testing.T) {
	feed := &CSVFeed{}
	if _, err := feed.AccountInfo(context.Background()); !errors.Is(err, ErrUnavailable) {
		t.Errorf("err = %v, want ErrUnavailable", err)
	}
}
