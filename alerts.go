package tradebook

import (
	"fmt"
	"log"
)

// defaultMoveThreshold flags daily moves larger than 5 percent.
const defaultMoveThreshold = 0.05

// Alert is one notable price event for a held symbol.
type Alert struct {
	Symbol  string
	Message string
}

func (a Alert) String() string { return a.Symbol + " " + a.Message }

// Alerter scans the price series for moving-average crossings, outsized
// daily moves and 50 day extremes.
type Alerter struct {
	Series *PriceSeries

	// MoveThreshold is the fraction of yesterday's close beyond which a
	// daily move is flagged. Zero means the default of 0.05.
	MoveThreshold float64
}

// Alerts compares 'on' against the previous day for every held symbol and
// returns the triggered alerts. Symbols without two usable closes are
// skipped, a stale series should not produce phantom crossings.
func (a Alerter) Alerts(on Date, held []string) []Alert {
	threshold := a.MoveThreshold
	if threshold == 0 {
		threshold = defaultMoveThreshold
	}

	var alerts []Alert
	for _, symbol := range held {
		if !a.Series.Has(symbol) {
			continue
		}
		today, okToday := a.Series.Price(on, symbol)
		yesterday, okYesterday := a.Series.Price(on.Add(-1), symbol)
		if !okToday || !okYesterday {
			log.Printf("%s: not enough prices to scan %s", on, symbol)
			continue
		}

		alerts = append(alerts, a.crossings(symbol, today, yesterday, 50)...)
		alerts = append(alerts, a.crossings(symbol, today, yesterday, 200)...)

		move := today.Sub(yesterday).Ratio(yesterday)
		if move > threshold || move < -threshold {
			alerts = append(alerts, Alert{symbol, fmt.Sprintf("moved by %s", Percent(move * 100).SignedString())})
		}

		if max, ok := a.Series.Max(symbol, 50); ok && today.AsFloat() >= max {
			alerts = append(alerts, Alert{symbol, fmt.Sprintf("at 50 day high %s", today)})
		}
		if min, ok := a.Series.Min(symbol, 50); ok && today.AsFloat() <= min {
			alerts = append(alerts, Alert{symbol, fmt.Sprintf("at 50 day low %s", today)})
		}
	}
	return alerts
}

// crossings flags the symbol when the close crossed its moving average
// between yesterday and today, in either direction. Touching the average
// counts on both sides so a close landing exactly on it is reported once
// per direction of approach.
func (a Alerter) crossings(symbol string, today, yesterday Money, tradingDays int) []Alert {
	mean, ok := a.Series.MovingAverage(symbol, tradingDays)
	if !ok {
		return nil
	}
	var alerts []Alert
	if yesterday.GreaterThanOrEqual(mean) && !today.GreaterThan(mean) {
		alerts = append(alerts, Alert{symbol, fmt.Sprintf("dipped under %dda %s", tradingDays, mean)})
	}
	if !yesterday.GreaterThan(mean) && today.GreaterThanOrEqual(mean) {
		alerts = append(alerts, Alert{symbol, fmt.Sprintf("went above %dda %s", tradingDays, mean)})
	}
	return alerts
}
