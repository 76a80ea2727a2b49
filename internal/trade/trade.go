package trade

import (
	"fmt"
	"sort"
	"strings"
	"time"
)

// DealType matches the MT5 deal/order type codes. Pending order types (limit
// and stop) only appear on orders; executed deals are Buy or Sell.
type DealType int

const (
	Buy DealType = iota
	Sell
	BuyLimit
	SellLimit
	BuyStop
	SellStop
)

var typeNames = [...]string{"buy", "sell", "buy limit", "sell limit", "buy stop", "sell stop"}

func (t DealType) String() string {
	if t < 0 || int(t) >= len(typeNames) {
		return fmt.Sprintf("type(%d)", int(t))
	}
	return typeNames[t]
}

// ParseType maps a terminal type label ("buy", "Sell Limit") to its code.
func ParseType(s string) (DealType, error) {
	norm := strings.ToLower(strings.TrimSpace(s))
	norm = strings.ReplaceAll(norm, "_", " ")
	for i, name := range typeNames {
		if norm == name {
			return DealType(i), nil
		}
	}
	return 0, fmt.Errorf("unknown deal type %q", s)
}

// IsFill reports whether the type is an executed market fill.
func (t DealType) IsFill() bool { return t == Buy || t == Sell }

// IsPendingLimit reports whether the type is a pending limit order.
func (t DealType) IsPendingLimit() bool { return t == BuyLimit || t == SellLimit }

// Deal is one executed entry in account history.
type Deal struct {
	Ticket     int64
	Time       time.Time
	Symbol     string
	Type       DealType
	Price      float64
	Volume     float64
	Profit     float64
	PositionID int64 // 0 when the terminal did not report a position grouping
}

// Order is a placed (often pending) order instruction.
type Order struct {
	Ticket    int64
	Symbol    string
	Type      DealType
	PriceOpen float64
	SL        float64 // 0 = no stop loss
	TP        float64 // 0 = no take profit
	TimeSetup time.Time
	TimeDone  time.Time
}

// SortByTime returns a copy of deals ordered by execution time. Detectors
// work on sorted copies so the caller's slice is never reordered.
func SortByTime(deals []Deal) []Deal {
	out := make([]Deal, len(deals))
	copy(out, deals)
	sort.SliceStable(out, func(i, j int) bool { return out[i].Time.Before(out[j].Time) })
	return out
}

// Fills returns only executed buy/sell deals, excluding deposits and
// pending-order entries.
func Fills(deals []Deal) []Deal {
	var out []Deal
	for _, d := range deals {
		if d.Type.IsFill() {
			out = append(out, d)
		}
	}
	return out
}

// Symbols returns the distinct symbols in first-appearance order.
func Symbols(deals []Deal) []string {
	seen := make(map[string]bool, len(deals))
	var out []string
	for _, d := range deals {
		if !seen[d.Symbol] {
			seen[d.Symbol] = true
			out = append(out, d.Symbol)
		}
	}
	return out
}

// BySymbol returns the deals for one symbol, preserving input order.
func BySymbol(deals []Deal, symbol string) []Deal {
	var out []Deal
	for _, d := range deals {
		if d.Symbol == symbol {
			out = append(out, d)
		}
	}
	return out
}

// OrderSymbols returns the distinct order symbols in first-appearance order.
func OrderSymbols(orders []Order) []string {
	seen := make(map[string]bool, len(orders))
	var out []string
	for _, o := range orders {
		if !seen[o.Symbol] {
			seen[o.Symbol] = true
			out = append(out, o.Symbol)
		}
	}
	return out
}

// OrdersBySymbol returns the orders for one symbol, preserving input order.
func OrdersBySymbol(orders []Order, symbol string) []Order {
	var out []Order
	for _, o := range orders {
		if o.Symbol == symbol {
			out = append(out, o)
		}
	}
	return out
}

// PeriodDays is the whole-day span between the earliest and latest deal.
func PeriodDays(deals []Deal) int {
	if len(deals) == 0 {
		return 0
	}
	min, max := deals[0].Time, deals[0].Time
	for _, d := range deals[1:] {
		if d.Time.Before(min) {
			min = d.Time
		}
		if d.Time.After(max) {
			max = d.Time
		}
	}
	return int(max.Sub(min).Hours() / 24)
}
