package terminal

import (
	"context"
	"errors"
	"time"

	"algoscope/internal/trade"
)

var (
	// ErrNotConnected is returned when the feed has no live terminal session.
	ErrNotConnected = errors.New("terminal: not connected")
	// ErrUnavailable is returned when the terminal reports no data for a
	// request that should have some.
	ErrUnavailable = errors.New("terminal: data unavailable")
)

// Account mirrors the terminal's account summary.
type Account struct {
	Login      int64
	Balance    float64
	Equity     float64
	Margin     float64
	FreeMargin float64
	Leverage   int
	Currency   string
	Server     string
	Company    string
}

// Feed supplies trade history from a brokerage terminal or an offline
// export of one. Implementations return deals/orders whose times fall
// inside [from, to], in whatever order the source provides them.
type Feed interface {
	Deals(ctx context.Context, from, to time.Time) ([]trade.Deal, error)
	Orders(ctx context.Context, from, to time.Time) ([]trade.Order, error)
	AccountInfo(ctx context.Context) (Account, error)
}
