package tradebook

import (
	"iter"
	"log"
	"maps"
	"slices"

	"github.com/tbower/tradebook/date"
)

// maxPriceLookback is how many calendar days a price lookup walks back to
// bridge weekends and market holidays before giving up.
const maxPriceLookback = 6

// PriceSeries holds per-symbol daily closing prices. The series is sparse:
// weekends, holidays and fetch gaps have no entry, lookups bridge short
// gaps by reusing the previous close.
type PriceSeries struct {
	histories map[string]*date.History[float64]
}

// NewPriceSeries creates an empty price series.
func NewPriceSeries() *PriceSeries {
	return &PriceSeries{histories: make(map[string]*date.History[float64])}
}

// Append records the closing price of a symbol on a given day, overwriting
// any previous value for that day.
func (s *PriceSeries) Append(symbol string, on Date, price float64) {
	h := s.histories[symbol]
	if h == nil {
		h = &date.History[float64]{}
		s.histories[symbol] = h
	}
	h.Append(on, price)
}

// Symbols iterates over all symbols with at least one price, sorted.
func (s *PriceSeries) Symbols() iter.Seq[string] {
	return func(yield func(string) bool) {
		symbols := slices.Collect(maps.Keys(s.histories))
		slices.Sort(symbols)
		for _, sym := range symbols {
			if !yield(sym) {
				return
			}
		}
	}
}

// Has reports whether the series has any price for the symbol.
func (s *PriceSeries) Has(symbol string) bool { return s.histories[symbol] != nil }

// Latest returns the most recent recorded close for a symbol.
func (s *PriceSeries) Latest(symbol string) (Date, float64, bool) {
	h := s.histories[symbol]
	if h == nil || h.Len() == 0 {
		return Date{}, 0, false
	}
	on, v := h.Latest()
	return on, v, true
}

// Price returns the closing price of a symbol on a given day. When the day
// has no entry it walks back up to maxPriceLookback days and reuses the
// previous close. It returns false when no close is found within reach.
func (s *PriceSeries) Price(on Date, symbol string) (Money, bool) {
	h := s.histories[symbol]
	if h == nil {
		return Money{}, false
	}
	for i := 0; i <= maxPriceLookback; i++ {
		if v, ok := h.Get(on.Add(-i)); ok {
			return M(v), true
		}
	}
	return Money{}, false
}

// PositionValue returns the market value of a position on a given day.
// An empty position is worth zero. When no usable price exists the cost
// basis stands in for the market value, with a warning.
func (s *PriceSeries) PositionValue(on Date, p *Position) Money {
	if p.Quantity.IsZero() {
		return Money{}
	}
	price, ok := s.Price(on, p.Symbol)
	if !ok {
		log.Printf("%s: no price for %s, using cost basis %s", on, p.Symbol, p.CostBasis)
		return p.CostBasis
	}
	return price.Mul(p.Quantity)
}

// MovingAverage returns the mean close over roughly the last 'tradingDays'
// trading days, anchored at the symbol's most recent recorded close. The
// calendar window is widened by 7/5 to account for closed market days.
func (s *PriceSeries) MovingAverage(symbol string, tradingDays int) (Money, bool) {
	h := s.histories[symbol]
	if h == nil || h.Len() == 0 {
		return Money{}, false
	}
	anchor, _ := h.Latest()
	from := anchor.Add(-(tradingDays * 7 / 5))
	var sum float64
	var n int
	for on, v := range h.Values() {
		if on.After(from) {
			sum += v
			n++
		}
	}
	if n == 0 {
		return Money{}, false
	}
	return M(sum / float64(n)), true
}

// Between returns one close per calendar day of the range, forward-filling
// gaps with the previous close. Days before the first recorded close get
// the first close, days after the last get the last one, so the slice is
// always fully populated when the symbol has any data at all.
func (s *PriceSeries) Between(symbol string, rng Range) ([]float64, bool) {
	h := s.histories[symbol]
	if h == nil || h.Len() == 0 {
		return nil, false
	}
	_, first := h.First()
	values := make([]float64, 0, rng.Len())
	for on := range rng.Days() {
		v, ok := h.ValueAsOf(on)
		if !ok {
			v = first
		}
		values = append(values, v)
	}
	return values, true
}

// Max returns the highest close over roughly the last 'tradingDays' trading
// days, anchored at the most recent recorded close.
func (s *PriceSeries) Max(symbol string, tradingDays int) (float64, bool) {
	return s.extremum(symbol, tradingDays, func(a, b float64) bool { return a > b })
}

// Min returns the lowest close over roughly the last 'tradingDays' trading
// days, anchored at the most recent recorded close.
func (s *PriceSeries) Min(symbol string, tradingDays int) (float64, bool) {
	return s.extremum(symbol, tradingDays, func(a, b float64) bool { return a < b })
}

func (s *PriceSeries) extremum(symbol string, tradingDays int, better func(a, b float64) bool) (float64, bool) {
	h := s.histories[symbol]
	if h == nil || h.Len() == 0 {
		return 0, false
	}
	anchor, best := h.Latest()
	from := anchor.Add(-(tradingDays * 7 / 5))
	found := false
	for on, v := range h.Values() {
		if !on.After(from) {
			continue
		}
		if !found || better(v, best) {
			best, found = v, true
		}
	}
	return best, found
}
