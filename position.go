package tradebook

import (
	"iter"
	"log"
	"maps"
	"slices"
)

// Position is the aggregate holding of one symbol across all accounts.
//
// CostBasis is the running total paid for the currently held shares, it
// grows with each acquisition and shrinks with each disposal at the
// disposal price. startValue and startQuantity freeze the state at the
// opening of a reporting window so gains can be measured against it.
type Position struct {
	Symbol    string
	Quantity  Quantity
	CostBasis Money

	startValue    Money
	startQuantity Quantity
}

// StartValue returns the position's cost basis at the opening of the window.
func (p *Position) StartValue() Money { return p.startValue }

// StartQuantity returns the position's quantity at the opening of the window.
func (p *Position) StartQuantity() Quantity { return p.startQuantity }

// CostBasisPerShare returns the average cost of one held share,
// zero for an empty position.
func (p *Position) CostBasisPerShare() Money { return p.CostBasis.Div(p.Quantity) }

// resetStart re-bases the window markers on the current state. The caller
// is expected to have just replaced CostBasis with the market value.
func (p *Position) resetStart() {
	p.startValue = p.CostBasis
	p.startQuantity = p.Quantity
}

// Holdings maps a symbol to its opening quantity and cost basis. It is
// the usual way to seed a Book from a starting-positions file.
type Holdings map[string]struct {
	Quantity  Quantity
	CostBasis Money
}

// Book holds the per-symbol positions produced by replaying a trade log.
type Book struct {
	positions map[string]*Position
}

// NewBook creates a book seeded with the given opening holdings. The
// opening cost basis doubles as each position's window start value.
func NewBook(holdings Holdings) *Book {
	b := &Book{positions: make(map[string]*Position)}
	for symbol, h := range holdings {
		b.positions[symbol] = &Position{
			Symbol:        symbol,
			Quantity:      h.Quantity,
			CostBasis:     h.CostBasis,
			startValue:    h.CostBasis,
			startQuantity: h.Quantity,
		}
	}
	return b
}

// Get returns the position for a symbol, or nil if the book has none.
func (b *Book) Get(symbol string) *Position { return b.positions[symbol] }

// Len returns the number of positions in the book.
func (b *Book) Len() int { return len(b.positions) }

// Apply folds one trade into the book.
//
// Acquisitions (Buy, RSU) create the position on first sight and increase
// quantity and cost basis by the trade value. Disposals are clamped to the
// held quantity: selling more than held is recorded as selling exactly the
// held amount, with a warning, and never drives the quantity negative.
func (b *Book) Apply(t Trade) {
	p := b.positions[t.Symbol]
	if p == nil {
		p = &Position{Symbol: t.Symbol}
		b.positions[t.Symbol] = p
	}
	switch t.Action {
	case Buy, RSU:
		p.Quantity = p.Quantity.Add(t.Quantity)
		p.CostBasis = p.CostBasis.Add(t.Value())
	case Sell:
		q := t.Quantity
		if p.Quantity.LessThan(q) {
			log.Printf("%s: sold %s %s shares but held only %s", t.Date, q, t.Symbol, p.Quantity)
			q = p.Quantity
		}
		p.Quantity = p.Quantity.Sub(q)
		p.CostBasis = p.CostBasis.Sub(t.Price.Mul(q))
	}
}

// All iterates over the positions in symbol order.
func (b *Book) All() iter.Seq[*Position] {
	return func(yield func(*Position) bool) {
		symbols := slices.Collect(maps.Keys(b.positions))
		slices.Sort(symbols)
		for _, s := range symbols {
			if !yield(b.positions[s]) {
				return
			}
		}
	}
}
