package tradebook

import "fmt"

// Percent is a percentage value: Percent(5) renders as "5.00%".
type Percent float64

// PercentOf returns the ratio a/b expressed as a Percent.
// A zero denominator is defined as zero.
func PercentOf(a, b Money) Percent { return Percent(a.Ratio(b) * 100) }

func (p Percent) Equal(q Percent) bool {
	// compared with limited precision
	const precision = 0.0001
	diff := float64(p - q)
	if diff < 0 {
		diff = -diff
	}
	return diff < precision
}

func (p Percent) String() string {
	return fmt.Sprintf("%.2f%%", float64(p))
}

func (p Percent) SignedString() string {
	res := fmt.Sprintf("%+.2f%%", float64(p))
	if res == "+0.00%" {
		return "-"
	}
	return res
}

// MarshalCSV encodes the percent for CSV cells as a bare number.
func (p Percent) MarshalCSV() (string, error) { return fmt.Sprintf("%.4f", float64(p)), nil }
