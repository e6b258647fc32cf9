package tradebook

import (
	"iter"
	"log"
	"maps"
	"slices"
)

// longTermDays is the holding period beyond which a lot counts as long term.
const longTermDays = 365

// Lot is one acquisition or disposal of shares, tracked per account so tax
// treatment stays correct when the same symbol is held in several places.
// Remaining starts at the trade quantity and is depleted by matching.
type Lot struct {
	Trade
	Remaining Quantity
}

// lotKey identifies the matching bucket: lots never match across accounts
// or symbols.
type lotKey struct{ account, symbol string }

// LotBook partitions a trade log into acquisition and disposal lots per
// account and symbol, and matches disposals against acquisitions in
// first-in-first-out order.
type LotBook struct {
	acquisitions map[lotKey][]*Lot
	disposals    map[lotKey][]*Lot
}

// NewLotBook builds a balanced lot book from a trade log. The log's
// chronological order fixes the first-in-first-out order of the lots.
func NewLotBook(trades *TradeLog) *LotBook {
	b := &LotBook{
		acquisitions: make(map[lotKey][]*Lot),
		disposals:    make(map[lotKey][]*Lot),
	}
	for _, t := range trades.Trades() {
		key := lotKey{t.Account, t.Symbol}
		lot := &Lot{Trade: t, Remaining: t.Quantity}
		if t.Acquires() {
			b.acquisitions[key] = append(b.acquisitions[key], lot)
		} else {
			b.disposals[key] = append(b.disposals[key], lot)
		}
	}
	b.balance()
	return b
}

// balance depletes each disposal against the oldest acquisitions of its
// bucket. A disposal exceeding the acquired shares keeps its unmatched
// remainder, it usually means the opening position predates the log.
func (b *LotBook) balance() {
	for key, disposals := range b.disposals {
		acquisitions := b.acquisitions[key]
		i := 0
		for _, d := range disposals {
			for !d.Remaining.IsZero() && i < len(acquisitions) {
				a := acquisitions[i]
				if a.Remaining.IsZero() {
					i++
					continue
				}
				q := d.Remaining.Min(a.Remaining)
				a.Remaining = a.Remaining.Sub(q)
				d.Remaining = d.Remaining.Sub(q)
			}
		}
	}
}

// keys returns all buckets sorted by account then symbol.
func (b *LotBook) keys() []lotKey {
	keys := slices.Collect(maps.Keys(b.acquisitions))
	slices.SortFunc(keys, func(x, y lotKey) int {
		if x.account != y.account {
			if x.account < y.account {
				return -1
			}
			return 1
		}
		if x.symbol < y.symbol {
			return -1
		}
		if x.symbol > y.symbol {
			return 1
		}
		return 0
	})
	return keys
}

// Open iterates over the acquisition lots still holding shares, by account,
// symbol, then age.
func (b *LotBook) Open() iter.Seq[*Lot] {
	return func(yield func(*Lot) bool) {
		for _, key := range b.keys() {
			for _, lot := range b.acquisitions[key] {
				if lot.Remaining.IsZero() {
					continue
				}
				if !yield(lot) {
					return
				}
			}
		}
	}
}

// Lots returns the acquisition lots of one bucket, oldest first.
func (b *LotBook) Lots(account, symbol string) []*Lot {
	return b.acquisitions[lotKey{account, symbol}]
}

// AccountsHoldingSymbol returns the accounts with open lots of a symbol,
// sorted.
func (b *LotBook) AccountsHoldingSymbol(symbol string) []string {
	var accounts []string
	for lot := range b.Open() {
		if lot.Symbol == symbol && !slices.Contains(accounts, lot.Account) {
			accounts = append(accounts, lot.Account)
		}
	}
	slices.Sort(accounts)
	return accounts
}

// ValuedLot is an open lot priced at a reference day, the unit of
// tax-loss-harvesting reports.
type ValuedLot struct {
	Lot
	InitialValue Money
	CurrentValue Money
	LongTerm     bool
}

// Loss returns current minus initial value, so a lot under water reports a
// negative amount.
func (v ValuedLot) Loss() Money { return v.CurrentValue.Sub(v.InitialValue) }

// LotMatcher values the open lots of a book against a price series.
type LotMatcher struct {
	Book   *LotBook
	Series *PriceSeries
}

// value prices one open lot as of a day. It returns false when no price is
// within reach of the series.
func (m LotMatcher) value(on Date, lot *Lot) (ValuedLot, bool) {
	price, ok := m.Series.Price(on, lot.Symbol)
	if !ok {
		log.Printf("%s: no price for %s, skipping lot of %s", on, lot.Symbol, lot.Date)
		return ValuedLot{}, false
	}
	return ValuedLot{
		Lot:          *lot,
		InitialValue: lot.Price.Mul(lot.Remaining),
		CurrentValue: price.Mul(lot.Remaining),
		LongTerm:     on.Sub(lot.Date) > longTermDays,
	}, true
}

// LotsAtLoss returns the open lots whose current value has fallen below
// 'threshold' times their initial value, ordered by account, symbol, age.
// A threshold of 0.8 selects lots that lost at least a fifth of their value.
func (m LotMatcher) LotsAtLoss(on Date, threshold float64) []ValuedLot {
	var lots []ValuedLot
	for lot := range m.Book.Open() {
		v, ok := m.value(on, lot)
		if !ok {
			continue
		}
		if v.CurrentValue.AsFloat() < threshold*v.InitialValue.AsFloat() {
			lots = append(lots, v)
		}
	}
	return lots
}

// LossByAccount sums the losses of LotsAtLoss per account.
func (m LotMatcher) LossByAccount(on Date, threshold float64) map[string]Money {
	losses := make(map[string]Money)
	for _, v := range m.LotsAtLoss(on, threshold) {
		losses[v.Account] = losses[v.Account].Add(v.Loss())
	}
	return losses
}
