package tradebook

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"slices"
	"strconv"
	"strings"
	"time"

	"github.com/gocarina/gocsv"
	"github.com/tbower/tradebook/date"
)

// this file handles the on-disk formats: the broker exports feeding the
// engine (trades, starting positions), the wide price table, and the CSV
// report artifacts.

// tradeDate wraps Date to read and write the broker's m/d/yy export format.
type tradeDate struct{ date.Date }

func (d *tradeDate) UnmarshalCSV(field string) error {
	t, err := time.Parse("1/2/06", strings.TrimSpace(field))
	if err != nil {
		return fmt.Errorf("invalid trade date %q: %w", field, err)
	}
	d.Date = date.New(t.Date())
	return nil
}

func (d tradeDate) MarshalCSV() (string, error) { return d.Format("1/2/06"), nil }

// tradeRecord mirrors one row of the trades file.
type tradeRecord struct {
	Date     tradeDate `csv:"Date"`
	Action   string    `csv:"Action"`
	Symbol   string    `csv:"Symbol"`
	Quantity float64   `csv:"Quantity"`
	Price    float64   `csv:"Price"`
	Account  string    `csv:"Account"`
}

// ImportTrades reads a trade log in the broker export format from 'r'.
// Rows may come in any order, the returned log is chronological.
func ImportTrades(r io.Reader) (*TradeLog, error) {
	var records []tradeRecord
	if err := gocsv.Unmarshal(r, &records); err != nil {
		return nil, fmt.Errorf("cannot parse trades: %w", err)
	}
	trades := make([]Trade, 0, len(records))
	for _, rec := range records {
		action, err := ParseAction(rec.Action)
		if err != nil {
			return nil, fmt.Errorf("trade of %s on %s: %w", rec.Symbol, rec.Date, err)
		}
		trades = append(trades, Trade{
			Date:     rec.Date.Date,
			Action:   action,
			Symbol:   rec.Symbol,
			Quantity: Q(rec.Quantity),
			Price:    M(rec.Price),
			Account:  rec.Account,
		})
	}
	log := NewTradeLog()
	log.Append(trades...)
	return log, nil
}

// holdingRecord mirrors one row of the starting positions file.
type holdingRecord struct {
	Symbol    string  `csv:"Symbol"`
	Quantity  float64 `csv:"Quantity"`
	CostBasis float64 `csv:"Cost Basis"`
}

// ImportHoldings reads the opening positions from 'r'. A symbol held in
// several accounts appears on several rows, they are summed since the
// aggregate book does not track accounts.
func ImportHoldings(r io.Reader) (Holdings, error) {
	var records []holdingRecord
	if err := gocsv.Unmarshal(r, &records); err != nil {
		return nil, fmt.Errorf("cannot parse starting positions: %w", err)
	}
	holdings := make(Holdings)
	for _, rec := range records {
		h := holdings[rec.Symbol]
		h.Quantity = h.Quantity.Add(Q(rec.Quantity))
		h.CostBasis = h.CostBasis.Add(M(rec.CostBasis))
		holdings[rec.Symbol] = h
	}
	return holdings, nil
}

// ImportPrices reads the wide price table from 'r': a Date column followed
// by one column per symbol, empty cells marking days without a close.
func ImportPrices(r io.Reader) (*PriceSeries, error) {
	cr := csv.NewReader(r)
	header, err := cr.Read()
	if err != nil {
		return nil, fmt.Errorf("cannot read price table header: %w", err)
	}
	if len(header) == 0 || header[0] != "Date" {
		return nil, fmt.Errorf("price table must start with a Date column, got %q", header)
	}
	series := NewPriceSeries()
	for {
		rec, err := cr.Read()
		if err == io.EOF {
			return series, nil
		}
		if err != nil {
			return nil, fmt.Errorf("cannot read price table: %w", err)
		}
		on, err := date.Parse(rec[0])
		if err != nil {
			return nil, fmt.Errorf("price table: %w", err)
		}
		for i := 1; i < len(rec); i++ {
			cell := strings.TrimSpace(rec[i])
			if cell == "" {
				continue
			}
			v, err := strconv.ParseFloat(cell, 64)
			if err != nil {
				return nil, fmt.Errorf("price table %s %s: %w", on, header[i], err)
			}
			series.Append(header[i], on, v)
		}
	}
}

// ExportPrices writes the price series to 'w' in the wide table format,
// one row per day having any close, keeping gaps as empty cells.
func ExportPrices(w io.Writer, s *PriceSeries) error {
	symbols := slices.Collect(s.Symbols())

	seen := make(map[Date]struct{})
	var days []Date
	for _, h := range s.histories {
		for on := range h.Values() {
			if _, ok := seen[on]; !ok {
				seen[on] = struct{}{}
				days = append(days, on)
			}
		}
	}
	slices.SortFunc(days, func(a, b Date) int { return a.Sub(b) })

	cw := csv.NewWriter(w)
	if err := cw.Write(append([]string{"Date"}, symbols...)); err != nil {
		return fmt.Errorf("cannot write price table: %w", err)
	}
	for _, on := range days {
		row := make([]string, 0, len(symbols)+1)
		row = append(row, on.String())
		for _, symbol := range symbols {
			v, ok := s.histories[symbol].Get(on)
			if !ok {
				row = append(row, "")
				continue
			}
			row = append(row, strconv.FormatFloat(v, 'f', -1, 64))
		}
		if err := cw.Write(row); err != nil {
			return fmt.Errorf("cannot write price table: %w", err)
		}
	}
	cw.Flush()
	return cw.Error()
}

// LoadTrades reads the trade log from a file.
func LoadTrades(path string) (*TradeLog, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return ImportTrades(f)
}

// LoadHoldings reads the opening positions from a file.
func LoadHoldings(path string) (Holdings, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return ImportHoldings(f)
}

// LoadPrices reads the price table from a file. A missing file yields an
// empty series so a first run can start from nothing.
func LoadPrices(path string) (*PriceSeries, error) {
	f, err := os.Open(path)
	if os.IsNotExist(err) {
		return NewPriceSeries(), nil
	}
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return ImportPrices(f)
}

// SavePrices writes the price table to a file.
func SavePrices(path string, s *PriceSeries) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()
	return ExportPrices(f, s)
}

// WriteArtifact writes report rows as a CSV file under 'dir', creating the
// directory on first use, and returns the file path.
func WriteArtifact[T any](dir, name string, rows []T) (string, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", err
	}
	path := filepath.Join(dir, name)
	f, err := os.Create(path)
	if err != nil {
		return "", err
	}
	defer f.Close()
	if err := gocsv.Marshal(&rows, f); err != nil {
		return "", fmt.Errorf("cannot write %s: %w", path, err)
	}
	return path, nil
}
