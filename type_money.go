package tradebook

import (
	"github.com/Rhymond/go-money"
	"github.com/shopspring/decimal"
)

// Money represents a dollar amount. The whole book is single-currency, so
// Money carries only an exact decimal value; formatting goes through the
// go-money USD currency definition.
type Money struct {
	value decimal.Decimal
}

// M creates a Money from any numeric value.
func M[T float32 | float64 | int | int32 | int64 | decimal.Decimal](value T) Money {
	return Money{value: newDecimal(value)}
}

func (m Money) Equal(n Money) bool              { return m.value.Equal(n.value) }
func (m Money) IsZero() bool                    { return m.value.IsZero() }
func (m Money) IsPositive() bool                { return m.value.IsPositive() }
func (m Money) IsNegative() bool                { return m.value.IsNegative() }
func (m Money) LessThan(n Money) bool           { return m.value.LessThan(n.value) }
func (m Money) GreaterThan(n Money) bool        { return m.value.GreaterThan(n.value) }
func (m Money) GreaterThanOrEqual(n Money) bool { return m.value.GreaterThanOrEqual(n.value) }
func (m Money) Neg() Money                      { return Money{value: m.value.Neg()} }
func (m Money) Add(n Money) Money               { return Money{value: m.value.Add(n.value)} }
func (m Money) Sub(n Money) Money               { return Money{value: m.value.Sub(n.value)} }

// Mul returns the amount for a quantity of shares at this per-share price.
func (m Money) Mul(q Quantity) Money { return Money{value: m.value.Mul(q.value)} }

// Div returns the per-share amount for a quantity of shares.
// Dividing by a zero quantity is defined as zero, never a panic.
func (m Money) Div(q Quantity) Money {
	if q.IsZero() {
		return Money{}
	}
	return Money{value: m.value.Div(q.value)}
}

// Ratio returns m/n as a plain ratio. A zero denominator yields zero.
func (m Money) Ratio(n Money) float64 {
	if n.IsZero() {
		return 0
	}
	return m.value.Div(n.value).InexactFloat64()
}

// AsFloat returns the amount as a float64, for rendering and charting only;
// all bookkeeping stays exact.
func (m Money) AsFloat() float64 { return m.value.InexactFloat64() }

// usd is the currency used for all display formatting.
var usd = *money.New(0, money.USD).Currency()

// String returns the formatted dollar amount, e.g. "$1,234.50".
func (m Money) String() string {
	dec := m.value.Shift(int32(usd.Fraction))
	return usd.Formatter().Format(dec.Round(0).IntPart())
}

// SignedString returns the formatted amount with an explicit sign, and "-"
// for zero.
func (m Money) SignedString() string {
	if m.value.IsZero() {
		return "-"
	}
	if m.value.IsPositive() {
		return "+" + m.String()
	}
	return m.String()
}

// MarshalCSV encodes the raw decimal amount for CSV cells, rounded to cents.
func (m Money) MarshalCSV() (string, error) {
	return m.value.Round(int32(usd.Fraction)).String(), nil
}

// UnmarshalCSV decodes an amount from a CSV cell.
func (m *Money) UnmarshalCSV(field string) error {
	d, err := decimal.NewFromString(field)
	if err != nil {
		return err
	}
	m.value = d
	return nil
}

// MarshalJSON implements the json.Marshaler interface.
func (m Money) MarshalJSON() ([]byte, error) { return m.value.MarshalJSON() }

// UnmarshalJSON implements the json.Unmarshaler interface.
func (m *Money) UnmarshalJSON(b []byte) error { return m.value.UnmarshalJSON(b) }
