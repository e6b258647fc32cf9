package tradebook

import (
	"math"
	"testing"

	"github.com/tbower/tradebook/date"
)

func TestPriceSeriesPriceBridgesShortGaps(t *testing.T) {
	s := NewPriceSeries()
	s.Append("AAA", day(2021, 1, 4), 100) // Monday
	s.Append("AAA", day(2021, 1, 8), 110) // Friday

	// exact day
	if p, ok := s.Price(day(2021, 1, 4), "AAA"); !ok || !p.Equal(M(100)) {
		t.Errorf("Price(Mon) = %s, %v", p, ok)
	}
	// weekend bridges back to Friday's close
	if p, ok := s.Price(day(2021, 1, 10), "AAA"); !ok || !p.Equal(M(110)) {
		t.Errorf("Price(Sun) = %s, %v, want $110", p, ok)
	}
	// six days back is still within reach
	if p, ok := s.Price(day(2021, 1, 14), "AAA"); !ok || !p.Equal(M(110)) {
		t.Errorf("Price(+6d) = %s, %v, want $110", p, ok)
	}
	// seven days back is not
	if _, ok := s.Price(day(2021, 1, 15), "AAA"); ok {
		t.Error("Price(+7d) should fail")
	}
	// unknown symbol
	if _, ok := s.Price(day(2021, 1, 4), "BBB"); ok {
		t.Error("Price(unknown symbol) should fail")
	}
}

func TestPriceSeriesPositionValue(t *testing.T) {
	s := NewPriceSeries()
	s.Append("AAA", day(2021, 1, 4), 120)

	p := &Position{Symbol: "AAA", Quantity: Q(15), CostBasis: M(1550)}
	if v := s.PositionValue(day(2021, 1, 4), p); !v.Equal(M(1800)) {
		t.Errorf("PositionValue = %s, want $1,800", v)
	}

	// no price in reach falls back to cost basis
	if v := s.PositionValue(day(2021, 3, 1), p); !v.Equal(M(1550)) {
		t.Errorf("PositionValue fallback = %s, want $1,550", v)
	}

	// empty position is worth nothing even without prices
	empty := &Position{Symbol: "ZZZ"}
	if v := s.PositionValue(day(2021, 1, 4), empty); !v.IsZero() {
		t.Errorf("PositionValue(empty) = %s, want $0", v)
	}
}

func TestPriceSeriesMovingAverage(t *testing.T) {
	s := NewPriceSeries()
	// 5 trading days window covers 7 calendar days from the anchor
	s.Append("AAA", day(2021, 1, 4), 100)
	s.Append("AAA", day(2021, 1, 6), 110)
	s.Append("AAA", day(2021, 1, 8), 120)
	s.Append("AAA", day(2021, 1, 1), 500) // outside the window, ignored

	avg, ok := s.MovingAverage("AAA", 5)
	if !ok {
		t.Fatal("MovingAverage failed")
	}
	if !avg.Equal(M(110)) {
		t.Errorf("MovingAverage = %s, want $110", avg)
	}

	if _, ok := s.MovingAverage("BBB", 5); ok {
		t.Error("MovingAverage(unknown symbol) should fail")
	}
}

func TestPriceSeriesBetweenForwardFills(t *testing.T) {
	s := NewPriceSeries()
	s.Append("AAA", day(2021, 1, 5), 100)
	s.Append("AAA", day(2021, 1, 8), 130)

	values, ok := s.Between("AAA", date.NewRange(day(2021, 1, 4), day(2021, 1, 10)))
	if !ok {
		t.Fatal("Between failed")
	}
	want := []float64{100, 100, 100, 100, 130, 130, 130}
	if len(values) != len(want) {
		t.Fatalf("Between len = %d, want %d", len(values), len(want))
	}
	for i := range want {
		if math.Abs(values[i]-want[i]) > 1e-9 {
			t.Errorf("Between[%d] = %v, want %v", i, values[i], want[i])
		}
	}
}

func TestPriceSeriesMaxMin(t *testing.T) {
	s := NewPriceSeries()
	s.Append("AAA", day(2021, 1, 4), 100)
	s.Append("AAA", day(2021, 1, 6), 150)
	s.Append("AAA", day(2021, 1, 8), 90)
	s.Append("AAA", day(2020, 9, 1), 999) // far outside the window

	if max, ok := s.Max("AAA", 50); !ok || max != 150 {
		t.Errorf("Max = %v, %v, want 150", max, ok)
	}
	if min, ok := s.Min("AAA", 50); !ok || min != 90 {
		t.Errorf("Min = %v, %v, want 90", min, ok)
	}
}

func TestPriceSeriesAppendOverwrites(t *testing.T) {
	s := NewPriceSeries()
	s.Append("AAA", day(2021, 1, 4), 100)
	s.Append("AAA", day(2021, 1, 4), 105)
	if p, ok := s.Price(day(2021, 1, 4), "AAA"); !ok || !p.Equal(M(105)) {
		t.Errorf("Price = %s, %v, want $105", p, ok)
	}
	on, v, ok := s.Latest("AAA")
	if !ok || on != day(2021, 1, 4) || v != 105 {
		t.Errorf("Latest = %v, %v, %v", on, v, ok)
	}
}
