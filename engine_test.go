package tradebook

import (
	"reflect"
	"testing"

	"github.com/tbower/tradebook/date"
)

// flatSeries records the same close for a symbol on every day of the range.
func flatSeries(symbol string, rng Range, price float64) *PriceSeries {
	s := NewPriceSeries()
	for on := range rng.Days() {
		s.Append(symbol, on, price)
	}
	return s
}

func TestEngineTimeSeriesEndToEnd(t *testing.T) {
	window := date.NewRange(day(2021, 1, 4), day(2021, 1, 8))

	trades := NewTradeLog()
	trades.Append(Trade{Date: day(2021, 1, 5), Action: Buy, Symbol: "AAA", Quantity: Q(5), Price: M(110), Account: "broker"})

	e := &Engine{
		Trades:   trades,
		Holdings: Holdings{"AAA": {Quantity: Q(10), CostBasis: M(1000)}},
		Series:   flatSeries("AAA", window, 120),
	}
	rows, summaries, err := e.TimeSeries(window)
	if err != nil {
		t.Fatal(err)
	}

	if len(rows) != 5 {
		t.Fatalf("got %d rows, want 5", len(rows))
	}
	// opening day: basis re-based on market value, so the gain is zero
	first := rows[0]
	if !first.TotalValue.Equal(M(1200)) || !first.TotalCostBasis.Equal(M(1200)) || !first.TotalGain.IsZero() {
		t.Errorf("opening row = %+v", first)
	}
	// buy day
	buyDay := rows[1]
	if !buyDay.TotalValue.Equal(M(1800)) {
		t.Errorf("buy day value = %s, want $1,800", buyDay.TotalValue)
	}
	if !buyDay.TotalGain.Equal(M(50)) {
		t.Errorf("buy day gain = %s, want $50", buyDay.TotalGain)
	}
	if !buyDay.Deposits.Equal(M(550)) {
		t.Errorf("buy day deposits = %s, want $550", buyDay.Deposits)
	}
	if !buyDay.NetCoreValue.Equal(M(1250)) {
		t.Errorf("buy day net value = %s, want $1,250", buyDay.NetCoreValue)
	}
	if !buyDay.DayCoreGain.Equal(Percent(50)) {
		t.Errorf("buy day gain pct = %s, want 50%%", buyDay.DayCoreGain)
	}

	if len(summaries) != 1 {
		t.Fatalf("got %d summaries, want 1", len(summaries))
	}
	s := summaries[0]
	if !s.Quantity.Equal(Q(15)) {
		t.Errorf("quantity = %s, want 15", s.Quantity)
	}
	if !s.Value.Equal(M(1800)) {
		t.Errorf("value = %s, want $1,800", s.Value)
	}
	if !s.StartValue.Equal(M(1200)) || !s.StartQuantity.Equal(Q(10)) {
		t.Errorf("start = %s / %s, want $1,200 / 10", s.StartValue, s.StartQuantity)
	}
	if !s.Bought.Equal(M(550)) || !s.Sold.IsZero() {
		t.Errorf("bought/sold = %s / %s, want $550 / $0", s.Bought, s.Sold)
	}
	if !s.Gain.Equal(M(50)) {
		t.Errorf("gain = %s, want $50", s.Gain)
	}
	// netted gain on start value: (1800 + 0 - 550 - 1200) / 1200
	if !s.GainOnStartValue.Equal(Percent(50.0 / 1200 * 100)) {
		t.Errorf("gain on start value = %s", s.GainOnStartValue)
	}
	if !s.CurrentPrice.Equal(M(120)) || !s.Mean50.Equal(M(120)) {
		t.Errorf("price/mean50 = %s / %s, want $120 both", s.CurrentPrice, s.Mean50)
	}
	if !s.GainOnMean50.Equal(Percent(0)) {
		t.Errorf("gain on mean50 = %s, want 0%%", s.GainOnMean50)
	}
}

func TestEngineTimeSeriesPreconditions(t *testing.T) {
	trades := NewTradeLog()
	trades.Append(Trade{Date: day(2021, 6, 1), Action: Buy, Symbol: "AAA", Quantity: Q(1), Price: M(10)})
	e := &Engine{Trades: trades, Series: NewPriceSeries()}

	// empty window
	if _, _, err := e.TimeSeries(date.NewRange(day(2021, 7, 1), day(2021, 7, 1))); err == nil {
		t.Error("an empty window must be refused")
	}
	// window before history, with no opening holdings to anchor the replay
	if _, _, err := e.TimeSeries(date.NewRange(day(2021, 1, 1), day(2021, 2, 1))); err == nil {
		t.Error("a window before the first trade must be refused")
	}
	// the same window is fine once holdings anchor the book
	e.Holdings = Holdings{"AAA": {Quantity: Q(1), CostBasis: M(10)}}
	if _, _, err := e.TimeSeries(date.NewRange(day(2021, 1, 1), day(2021, 2, 1))); err != nil {
		t.Errorf("anchored window refused: %v", err)
	}
}

func TestEngineTimeSeriesExclusions(t *testing.T) {
	window := date.NewRange(day(2021, 1, 4), day(2021, 1, 6))
	trades := NewTradeLog()
	trades.Append(
		Trade{Date: day(2021, 1, 5), Action: Sell, Symbol: "COMP", Quantity: Q(2), Price: M(100), Account: "espp"},
		Trade{Date: day(2021, 1, 5), Action: Sell, Symbol: "AAA", Quantity: Q(1), Price: M(120), Account: "broker"},
	)
	series := flatSeries("AAA", window, 120)
	for on := range window.Days() {
		series.Append("COMP", on, 100)
	}

	e := &Engine{
		Trades: trades,
		Holdings: Holdings{
			"AAA":  {Quantity: Q(10), CostBasis: M(1000)},
			"COMP": {Quantity: Q(5), CostBasis: M(400)},
		},
		Series:     series,
		Exclusions: []string{"COMP"},
	}
	rows, _, err := e.TimeSeries(window)
	if err != nil {
		t.Fatal(err)
	}

	sellDay := rows[1]
	// only the AAA sale counts as a withdrawal
	if !sellDay.Withdrawals.Equal(M(120)) {
		t.Errorf("withdrawals = %s, want $120", sellDay.Withdrawals)
	}
	// core value is AAA only: 9 shares at 120
	if !sellDay.CoreValue.Equal(M(1080)) {
		t.Errorf("core value = %s, want $1,080", sellDay.CoreValue)
	}
	// total still includes the excluded symbol: 1080 + 3 shares at 100
	if !sellDay.TotalValue.Equal(M(1380)) {
		t.Errorf("total value = %s, want $1,380", sellDay.TotalValue)
	}
}

func TestEngineTimeSeriesDropsDeadSymbols(t *testing.T) {
	window := date.NewRange(day(2021, 2, 1), day(2021, 2, 5))
	trades := NewTradeLog()
	trades.Append(
		// bought and fully sold before the window: dead by the opening
		Trade{Date: day(2021, 1, 5), Action: Buy, Symbol: "DEAD", Quantity: Q(5), Price: M(10), Account: "broker"},
		Trade{Date: day(2021, 1, 6), Action: Sell, Symbol: "DEAD", Quantity: Q(5), Price: M(11), Account: "broker"},
		// bought and fully sold within the window: still reported
		Trade{Date: day(2021, 2, 2), Action: Buy, Symbol: "FLIP", Quantity: Q(5), Price: M(10), Account: "broker"},
		Trade{Date: day(2021, 2, 3), Action: Sell, Symbol: "FLIP", Quantity: Q(5), Price: M(12), Account: "broker"},
	)
	series := flatSeries("KEEP", window, 100)
	for on := range window.Days() {
		series.Append("FLIP", on, 12)
	}

	e := &Engine{
		Trades:   trades,
		Holdings: Holdings{"KEEP": {Quantity: Q(1), CostBasis: M(90)}},
		Series:   series,
	}
	_, summaries, err := e.TimeSeries(window)
	if err != nil {
		t.Fatal(err)
	}

	var symbols []string
	for _, s := range summaries {
		symbols = append(symbols, s.Symbol)
	}
	want := []string{"FLIP", "KEEP"}
	if !reflect.DeepEqual(symbols, want) {
		t.Errorf("summary symbols = %v, want %v", symbols, want)
	}
}

func TestEngineTimeSeriesIdempotent(t *testing.T) {
	window := date.NewRange(day(2021, 1, 4), day(2021, 1, 8))
	trades := NewTradeLog()
	trades.Append(
		Trade{Date: day(2021, 1, 5), Action: Buy, Symbol: "AAA", Quantity: Q(5), Price: M(110), Account: "broker"},
		Trade{Date: day(2021, 1, 6), Action: Sell, Symbol: "AAA", Quantity: Q(2), Price: M(120), Account: "broker"},
	)
	e := &Engine{
		Trades:   trades,
		Holdings: Holdings{"AAA": {Quantity: Q(10), CostBasis: M(1000)}},
		Series:   flatSeries("AAA", window, 120),
	}

	rows1, sums1, err := e.TimeSeries(window)
	if err != nil {
		t.Fatal(err)
	}
	rows2, sums2, err := e.TimeSeries(window)
	if err != nil {
		t.Fatal(err)
	}
	if !reflect.DeepEqual(rows1, rows2) || !reflect.DeepEqual(sums1, sums2) {
		t.Error("two runs over identical inputs must agree")
	}
}

func TestEngineCurrentState(t *testing.T) {
	trades := NewTradeLog()
	trades.Append(Trade{Date: day(2021, 1, 5), Action: Buy, Symbol: "AAA", Quantity: Q(5), Price: M(100), Account: "broker"})

	series := NewPriceSeries()
	series.Append("AAA", day(2021, 2, 1), 120)
	series.Append("COMP", day(2021, 2, 1), 50)

	e := &Engine{
		Trades: trades,
		Holdings: Holdings{
			"AAA":  {Quantity: Q(10), CostBasis: M(1000)},
			"COMP": {Quantity: Q(2), CostBasis: M(120)},
		},
		Series:     series,
		Exclusions: []string{"COMP"},
	}
	rows, totalGain, coreGain := e.CurrentState(day(2021, 2, 1))
	if len(rows) != 2 {
		t.Fatalf("got %d rows, want 2", len(rows))
	}
	aaa := rows[0]
	if aaa.Symbol != "AAA" || !aaa.Quantity.Equal(Q(15)) {
		t.Errorf("row 0 = %+v", aaa)
	}
	if !aaa.Value.Equal(M(1800)) || !aaa.Gain.Equal(M(300)) {
		t.Errorf("AAA value/gain = %s / %s, want $1,800 / $300", aaa.Value, aaa.Gain)
	}
	if !aaa.CostBasisPerShare.Equal(M(100)) {
		t.Errorf("AAA basis per share = %s, want $100", aaa.CostBasisPerShare)
	}
	// COMP: 2 shares at 50 = 100, basis 120, gain -20
	if !totalGain.Equal(M(280)) {
		t.Errorf("total gain = %s, want $280", totalGain)
	}
	if !coreGain.Equal(M(300)) {
		t.Errorf("core gain = %s, want $300", coreGain)
	}
}
