package tradebook

import (
	"fmt"
	"slices"
)

// Engine replays the trade log against the opening holdings and values the
// resulting positions with the price series. A run is a pure function of
// its inputs, nothing is kept between runs.
//
// Exclusions lists compensation symbols (employer stock grants) that are
// kept out of the "core" aggregates and of the withdrawal totals, so the
// core series reflects the investable portfolio only.
type Engine struct {
	Trades     *TradeLog
	Holdings   Holdings
	Series     *PriceSeries
	Exclusions []string
}

func (e *Engine) excluded(symbol string) bool {
	return slices.Contains(e.Exclusions, symbol)
}

// PerfRow is one day of the aggregate performance series. Core columns
// exclude the engine's excluded symbols. NetCoreValue strips cumulative
// deposits and adds back cumulative withdrawals, isolating market
// performance from cash flows.
type PerfRow struct {
	Date           Date    `csv:"date"`
	TotalCostBasis Money   `csv:"total_cost_basis"`
	TotalValue     Money   `csv:"total_value"`
	TotalGain      Money   `csv:"total_gain"`
	CoreCostBasis  Money   `csv:"core_cost_basis"`
	CoreValue      Money   `csv:"core_value"`
	CoreGain       Money   `csv:"core_gain"`
	Deposits       Money   `csv:"deposits"`
	Withdrawals    Money   `csv:"withdrawals"`
	NetCoreValue   Money   `csv:"net_core_value"`
	DayCoreGain    Percent `csv:"day_core_gain"`
}

// SymbolSummary is the end-of-window report line of one symbol.
//
// Gain measures against the cost basis re-based at the window start, so it
// reads as "gain since the window opened". GainOnStartValue nets out the
// window's own buys and sells before comparing to the start value.
type SymbolSummary struct {
	Symbol           string   `csv:"symbol"`
	StartValue       Money    `csv:"start_value"`
	StartQuantity    Quantity `csv:"start_quantity"`
	Value            Money    `csv:"value"`
	Quantity         Quantity `csv:"quantity"`
	Gain             Money    `csv:"gain"`
	GainOnValue      Percent  `csv:"gain_on_value"`
	Bought           Money    `csv:"bought"`
	Sold             Money    `csv:"sold"`
	CurrentPrice     Money    `csv:"current_price"`
	Mean50           Money    `csv:"mean_50d"`
	Mean200          Money    `csv:"mean_200d"`
	GainOnStartValue Percent  `csv:"gain_on_start_value"`
	GainOnMean50     Percent  `csv:"gain_on_mean_50d"`
	GainOnMean200    Percent  `csv:"gain_on_mean_200d"`
}

// TimeSeries replays the portfolio over the window and returns one PerfRow
// per calendar day plus one SymbolSummary per symbol with any activity.
//
// The window must open on or after the first trade and must not be empty.
// Trades before the window are folded in silently, then every open
// position's cost basis is re-based on its market value at the opening so
// the window's gains are measured from its own start.
func (e *Engine) TimeSeries(window Range) ([]PerfRow, []SymbolSummary, error) {
	// Opening holdings anchor the replay, without them the book is
	// undefined before the first trade.
	if first, ok := e.Trades.FirstDate(); ok && len(e.Holdings) == 0 && window.From.Before(first) {
		return nil, nil, fmt.Errorf("window opens %s before the first trade on %s", window.From, first)
	}
	if !window.From.Before(window.To) {
		return nil, nil, fmt.Errorf("empty window %s", window)
	}

	book := NewBook(e.Holdings)
	for t := range e.Trades.Before(window.From) {
		book.Apply(t)
	}
	for p := range book.All() {
		p.CostBasis = e.Series.PositionValue(window.From, p)
		p.resetStart()
	}

	bought := make(map[string]Money)
	sold := make(map[string]Money)
	var cumDeposits, cumWithdrawals Money

	var rows []PerfRow
	for on := range window.Days() {
		var deposits, withdrawals Money
		for t := range e.Trades.On(on) {
			book.Apply(t)
			v := t.Value()
			switch {
			case t.Action == Buy:
				deposits = deposits.Add(v)
				bought[t.Symbol] = bought[t.Symbol].Add(v)
			case t.Action == Sell && !e.excluded(t.Symbol):
				withdrawals = withdrawals.Add(v)
				sold[t.Symbol] = sold[t.Symbol].Add(v)
			}
		}
		cumDeposits = cumDeposits.Add(deposits)
		cumWithdrawals = cumWithdrawals.Add(withdrawals)

		row := PerfRow{Date: on, Deposits: deposits, Withdrawals: withdrawals}
		for p := range book.All() {
			value := e.Series.PositionValue(on, p)
			gain := value.Sub(p.CostBasis)
			row.TotalCostBasis = row.TotalCostBasis.Add(p.CostBasis)
			row.TotalValue = row.TotalValue.Add(value)
			row.TotalGain = row.TotalGain.Add(gain)
			if !e.excluded(p.Symbol) {
				row.CoreCostBasis = row.CoreCostBasis.Add(p.CostBasis)
				row.CoreValue = row.CoreValue.Add(value)
				row.CoreGain = row.CoreGain.Add(gain)
			}
		}
		row.NetCoreValue = row.CoreValue.Sub(cumDeposits).Add(cumWithdrawals)
		if len(rows) > 0 {
			prev := rows[len(rows)-1].CoreValue
			row.DayCoreGain = PercentOf(row.CoreValue.Sub(prev), prev)
		}
		rows = append(rows, row)
	}

	var summaries []SymbolSummary
	for p := range book.All() {
		b, s := bought[p.Symbol], sold[p.Symbol]
		// A symbol that was never held nor bought over the window is
		// only report noise.
		if p.StartQuantity().IsZero() && p.Quantity.IsZero() && b.IsZero() {
			continue
		}
		value := e.Series.PositionValue(window.To, p)
		gain := value.Sub(p.CostBasis)
		netGain := value.Add(s).Sub(b).Sub(p.StartValue())
		price, _ := e.Series.Price(window.To, p.Symbol)
		mean50, _ := e.Series.MovingAverage(p.Symbol, 50)
		mean200, _ := e.Series.MovingAverage(p.Symbol, 200)
		summaries = append(summaries, SymbolSummary{
			Symbol:           p.Symbol,
			StartValue:       p.StartValue(),
			StartQuantity:    p.StartQuantity(),
			Value:            value,
			Quantity:         p.Quantity,
			Gain:             gain,
			GainOnValue:      PercentOf(gain, value),
			Bought:           b,
			Sold:             s,
			CurrentPrice:     price,
			Mean50:           mean50,
			Mean200:          mean200,
			GainOnStartValue: PercentOf(netGain, p.StartValue()),
			GainOnMean50:     PercentOf(price.Sub(mean50), mean50),
			GainOnMean200:    PercentOf(price.Sub(mean200), mean200),
		})
	}
	return rows, summaries, nil
}

// ActiveSymbols returns the symbols still held after replaying the whole
// trade log, sorted. Alert scans are restricted to these.
func (e *Engine) ActiveSymbols() []string {
	book := NewBook(e.Holdings)
	for _, t := range e.Trades.Trades() {
		book.Apply(t)
	}
	var symbols []string
	for p := range book.All() {
		if p.Quantity.IsPositive() {
			symbols = append(symbols, p.Symbol)
		}
	}
	return symbols
}

// StateRow is one line of the point-in-time portfolio state.
type StateRow struct {
	Symbol            string   `csv:"symbol"`
	Quantity          Quantity `csv:"quantity"`
	CostBasis         Money    `csv:"cost_basis"`
	Value             Money    `csv:"current_value"`
	Gain              Money    `csv:"gain"`
	CostBasisPerShare Money    `csv:"cost_basis_per_share"`
	CurrentPrice      Money    `csv:"current_price"`
}

// CurrentState replays the whole trade log and values every position as of
// 'on'. It returns the per-symbol rows in symbol order, the overall gain,
// and the gain excluding the excluded symbols.
func (e *Engine) CurrentState(on Date) ([]StateRow, Money, Money) {
	book := NewBook(e.Holdings)
	for _, t := range e.Trades.Trades() {
		book.Apply(t)
	}

	var rows []StateRow
	var totalGain, coreGain Money
	for p := range book.All() {
		value := e.Series.PositionValue(on, p)
		gain := value.Sub(p.CostBasis)
		price, _ := e.Series.Price(on, p.Symbol)
		rows = append(rows, StateRow{
			Symbol:            p.Symbol,
			Quantity:          p.Quantity,
			CostBasis:         p.CostBasis,
			Value:             value,
			Gain:              gain,
			CostBasisPerShare: p.CostBasisPerShare(),
			CurrentPrice:      price,
		})
		totalGain = totalGain.Add(gain)
		if !e.excluded(p.Symbol) {
			coreGain = coreGain.Add(gain)
		}
	}
	return rows, totalGain, coreGain
}
