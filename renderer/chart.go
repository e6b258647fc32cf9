package renderer

import (
	"fmt"
	"path/filepath"

	"github.com/tbower/tradebook"
	charts "github.com/vicanso/go-charts/v2"
)

// PerfChart writes the window's performance chart: core value, net-of-flows
// value and the benchmark scaled to the same starting point. It returns the
// PNG path.
func PerfChart(dir string, rows []tradebook.PerfRow, benchmark string, benchmarkCloses []float64, window tradebook.Range) (string, error) {
	if len(rows) == 0 {
		return "", fmt.Errorf("nothing to chart for %s", window)
	}

	labels := make([]string, len(rows))
	value := make([]float64, len(rows))
	net := make([]float64, len(rows))
	for i, r := range rows {
		labels[i] = r.Date.String()
		value[i] = r.CoreValue.AsFloat()
		net[i] = r.NetCoreValue.AsFloat()
	}

	series := [][]float64{value, net}
	legends := []string{"Value", "Net value"}
	if scaled := scaleTo(benchmarkCloses, value[0]); len(scaled) == len(value) {
		series = append(series, scaled)
		legends = append(legends, benchmark)
	}

	p, err := charts.LineRender(
		series,
		charts.TitleTextOptionFunc("Portfolio "+window.String()),
		charts.XAxisDataOptionFunc(labels),
		charts.LegendLabelsOptionFunc(legends),
		charts.WidthOptionFunc(1200),
		charts.HeightOptionFunc(500),
	)
	if err != nil {
		return "", fmt.Errorf("cannot render performance chart: %w", err)
	}
	data, err := p.Bytes()
	if err != nil {
		return "", fmt.Errorf("cannot render performance chart: %w", err)
	}
	path := filepath.Join(dir, fmt.Sprintf("Plot %s.png", window))
	return path, writeFile(path, data)
}

// FlowsChart writes the deposits and withdrawals bars for the window and
// returns the PNG path. Withdrawals point down.
func FlowsChart(dir string, rows []tradebook.PerfRow, window tradebook.Range) (string, error) {
	if len(rows) == 0 {
		return "", fmt.Errorf("nothing to chart for %s", window)
	}

	labels := make([]string, len(rows))
	deposits := make([]float64, len(rows))
	withdrawals := make([]float64, len(rows))
	for i, r := range rows {
		labels[i] = r.Date.String()
		deposits[i] = r.Deposits.AsFloat()
		withdrawals[i] = -r.Withdrawals.AsFloat()
	}

	p, err := charts.BarRender(
		[][]float64{deposits, withdrawals},
		charts.TitleTextOptionFunc("Transactions "+window.String()),
		charts.XAxisDataOptionFunc(labels),
		charts.LegendLabelsOptionFunc([]string{"Deposits", "Withdrawals"}),
		charts.WidthOptionFunc(1200),
		charts.HeightOptionFunc(400),
	)
	if err != nil {
		return "", fmt.Errorf("cannot render flows chart: %w", err)
	}
	data, err := p.Bytes()
	if err != nil {
		return "", fmt.Errorf("cannot render flows chart: %w", err)
	}
	path := filepath.Join(dir, fmt.Sprintf("Flows %s.png", window))
	return path, writeFile(path, data)
}

// scaleTo rescales a close series so it starts at 'to', lining the
// benchmark up with the portfolio for comparison. An empty series or a
// zero first close yields nil.
func scaleTo(closes []float64, to float64) []float64 {
	if len(closes) == 0 || closes[0] == 0 {
		return nil
	}
	multiplier := to / closes[0]
	out := make([]float64, len(closes))
	for i, v := range closes {
		out[i] = multiplier * v
	}
	return out
}
