package tradebook

import (
	"fmt"
	"iter"
	"maps"
	"slices"
	"sort"
	"strings"
)

// Action is the kind of a trade.
type Action int

const (
	// Buy acquires shares for cash.
	Buy Action = iota
	// Sell disposes shares for cash.
	Sell
	// RSU is a stock grant. It behaves exactly like a Buy at the stated
	// price (typically zero or fair market value), it only differs in how
	// reports account for the cash flow.
	RSU
)

func (a Action) String() string {
	switch a {
	case Buy:
		return "Buy"
	case Sell:
		return "Sell"
	case RSU:
		return "RSU"
	default:
		return "unknown"
	}
}

// ParseAction parses an action name as found in the trade log.
func ParseAction(s string) (Action, error) {
	switch strings.TrimSpace(s) {
	case "Buy":
		return Buy, nil
	case "Sell":
		return Sell, nil
	case "RSU":
		return RSU, nil
	default:
		return Buy, fmt.Errorf("unknown trade action %q", s)
	}
}

// Trade is a single entry of the trade log. Immutable once loaded.
type Trade struct {
	Date     Date
	Action   Action
	Symbol   string
	Quantity Quantity
	Price    Money // per share
	Account  string
}

// Value returns the trade's cash value, quantity times price.
func (t Trade) Value() Money { return t.Price.Mul(t.Quantity) }

// Acquires reports whether the trade increases the position (Buy or RSU).
func (t Trade) Acquires() bool { return t.Action == Buy || t.Action == RSU }

func (t Trade) String() string {
	return fmt.Sprintf("%s %s %s %s @ %s", t.Date, t.Action, t.Quantity, t.Symbol, t.Price)
}

// TradeLog is a list of trades, always kept in chronological order.
// The stable sort preserves the original relative order of same-day trades.
type TradeLog struct {
	trades []Trade
}

// NewTradeLog creates an empty trade log.
func NewTradeLog() *TradeLog {
	return &TradeLog{trades: make([]Trade, 0)}
}

// Append appends trades and restores the chronological order.
func (l *TradeLog) Append(trades ...Trade) {
	l.trades = append(l.trades, trades...)
	sort.SliceStable(l.trades, func(i, j int) bool {
		return l.trades[i].Date.Before(l.trades[j].Date)
	})
}

// Len returns the number of trades in the log.
func (l *TradeLog) Len() int { return len(l.trades) }

// FirstDate returns the date of the earliest trade, and false on an empty log.
func (l *TradeLog) FirstDate() (Date, bool) {
	if len(l.trades) == 0 {
		return Date{}, false
	}
	return l.trades[0].Date, true
}

// Trades returns an iterator over all trades in chronological order.
func (l *TradeLog) Trades() iter.Seq2[int, Trade] {
	return func(yield func(int, Trade) bool) {
		for i, t := range l.trades {
			if !yield(i, t) {
				return
			}
		}
	}
}

// Before returns an iterator over trades strictly before 'day'.
func (l *TradeLog) Before(day Date) iter.Seq[Trade] {
	return func(yield func(Trade) bool) {
		for _, t := range l.trades {
			if !t.Date.Before(day) {
				// The log is sorted, so it is safe to stop here.
				return
			}
			if !yield(t) {
				return
			}
		}
	}
}

// On returns an iterator over trades dated exactly 'day'.
func (l *TradeLog) On(day Date) iter.Seq[Trade] {
	return func(yield func(Trade) bool) {
		for _, t := range l.trades {
			if t.Date.After(day) {
				return
			}
			if t.Date == day && !yield(t) {
				return
			}
		}
	}
}

// Symbols iterates over all symbols that appear in the log, sorted.
func (l *TradeLog) Symbols() iter.Seq[string] {
	return func(yield func(string) bool) {
		seen := make(map[string]struct{})
		for _, t := range l.trades {
			seen[t.Symbol] = struct{}{}
		}
		symbols := slices.Collect(maps.Keys(seen))
		slices.Sort(symbols)
		for _, s := range symbols {
			if !yield(s) {
				return
			}
		}
	}
}

// Accounts iterates over all accounts that appear in the log, sorted.
func (l *TradeLog) Accounts() iter.Seq[string] {
	return func(yield func(string) bool) {
		seen := make(map[string]struct{})
		for _, t := range l.trades {
			seen[t.Account] = struct{}{}
		}
		accounts := slices.Collect(maps.Keys(seen))
		slices.Sort(accounts)
		for _, a := range accounts {
			if !yield(a) {
				return
			}
		}
	}
}
