package tradebook

import (
	"bufio"
	"bytes"
	"crypto/sha1"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"net/http/httputil"
	"net/url"
	"os"
	"path/filepath"
	"slices"
	"time"

	"github.com/PaesslerAG/jsonpath"
	"github.com/tbower/tradebook/date"
)

// this file fetches daily closes from the Yahoo chart API and keeps the
// on-disk price table current.

// defaultHistoryStart is how far back a fresh fetch reaches.
var defaultHistoryStart = date.New(2019, time.January, 1)

// diskCache is a RoundTripper caching HTTP responses on disk with a key
// that changes every day, so quotes are fetched at most once a day.
type diskCache struct {
	base http.RoundTripper
}

func (c *diskCache) RoundTrip(req *http.Request) (resp *http.Response, err error) {
	key := fmt.Sprintf("%s %s %s", date.Today(), req.Method, req.URL.String())
	key = fmt.Sprintf("%x", sha1.Sum([]byte(key)))

	cachedResp, err := c.get(key, req)
	if err == nil { // Cache hit
		return cachedResp, nil
	}

	resp, err = c.base.RoundTrip(req)
	if err != nil {
		return nil, err
	}
	log.Printf("%v %v/%v %v", resp.Request.Method, resp.Request.URL.Host, resp.Request.URL.Path, resp.Status)
	if resp.StatusCode >= 300 {
		return resp, nil
	}

	if err := c.put(key, resp); err != nil {
		log.Printf("cache write err (ignored): %v", err)
	}
	return resp, nil
}

func (c *diskCache) get(key string, req *http.Request) (*http.Response, error) {
	content, err := os.ReadFile(filepath.Join(os.TempDir(), key))
	if err != nil {
		return nil, err
	}
	return http.ReadResponse(bufio.NewReader(bytes.NewBuffer(content)), req)
}

func (c *diskCache) put(key string, resp *http.Response) error {
	content, err := httputil.DumpResponse(resp, true)
	if err != nil {
		return err
	}
	f, err := os.Create(filepath.Join(os.TempDir(), key))
	if err != nil {
		return err
	}
	_, err = f.Write(content)
	f.Close()
	return err
}

// daily returns a client whose cache expires every day.
func daily() *http.Client {
	client := new(http.Client)
	client.Transport = &diskCache{http.DefaultTransport}
	return client
}

// jwget performs an HTTP GET request and unmarshals the JSON response into
// the provided data structure.
func jwget(client *http.Client, addr string, data interface{}) error {
	resp, err := client.Get(addr)
	if err != nil {
		return err
	}
	if resp.StatusCode != 200 {
		return fmt.Errorf("cannot http GET %v/%v: %v", resp.Request.URL.Host, resp.Request.URL.Path, resp.Status)
	}
	var buf bytes.Buffer
	_, err = io.Copy(&buf, resp.Body)
	if err != nil {
		return err
	}
	resp.Body.Close()
	return json.Unmarshal(buf.Bytes(), data)
}

func epoch(d Date) int64 {
	return time.Date(d.Year(), d.Month(), d.Day(), 0, 0, 0, 0, time.UTC).Unix()
}

// yahooDaily returns the daily closes for one symbol over the range.
func yahooDaily(client *http.Client, symbol string, rng Range) (prices date.History[float64], err error) {
	// https://query1.finance.yahoo.com/v8/finance/chart/VTI?interval=1d&period1=...&period2=...
	// {
	//   "chart": {
	//     "result": [{
	//       "timestamp": [1609770600, ...],
	//       "indicators": {"quote": [{"close": [194.16, ...]}]}
	//     }]
	//   }
	// }
	addr := fmt.Sprintf("https://query1.finance.yahoo.com/v8/finance/chart/%s?interval=1d&period1=%d&period2=%d",
		url.PathEscape(symbol), epoch(rng.From), epoch(rng.To.Add(1)))

	var payload interface{}
	if err := jwget(client, addr, &payload); err != nil {
		return prices, fmt.Errorf("cannot fetch %s: %w", symbol, err)
	}
	stamps, err := jsonpath.Get("$.chart.result[0].timestamp", payload)
	if err != nil {
		return prices, fmt.Errorf("no quotes for %s: %w", symbol, err)
	}
	closes, err := jsonpath.Get("$.chart.result[0].indicators.quote[0].close", payload)
	if err != nil {
		return prices, fmt.Errorf("no closes for %s: %w", symbol, err)
	}
	stampList, ok1 := stamps.([]interface{})
	closeList, ok2 := closes.([]interface{})
	if !ok1 || !ok2 || len(stampList) != len(closeList) {
		return prices, fmt.Errorf("malformed chart payload for %s", symbol)
	}
	for i, s := range stampList {
		stamp, ok := s.(float64)
		if !ok {
			continue
		}
		close, ok := closeList[i].(float64) // null on halted days
		if !ok {
			continue
		}
		on := date.New(time.Unix(int64(stamp), 0).UTC().Date())
		prices.Append(on, close)
	}
	return prices, nil
}

// Watchlist returns the symbols worth quoting: everything ever held or
// traded, plus the benchmark used in charts.
func Watchlist(holdings Holdings, trades *TradeLog, benchmark string) []string {
	var watch []string
	for symbol := range holdings {
		watch = append(watch, symbol)
	}
	for symbol := range trades.Symbols() {
		if !slices.Contains(watch, symbol) {
			watch = append(watch, symbol)
		}
	}
	if benchmark != "" && !slices.Contains(watch, benchmark) {
		watch = append(watch, benchmark)
	}
	slices.Sort(watch)
	return watch
}

// PriceStore maintains the wide price table on disk.
type PriceStore struct {
	Path string

	// Client overrides the default daily cached HTTP client in tests.
	Client *http.Client
}

func (ps *PriceStore) client() *http.Client {
	if ps.Client != nil {
		return ps.Client
	}
	return daily()
}

// fetch downloads the range for every watched symbol into the series.
// A symbol failing to quote is logged and skipped, one delisted ticker
// must not starve the rest of the table.
func (ps *PriceStore) fetch(series *PriceSeries, watch []string, rng Range) {
	client := ps.client()
	for _, symbol := range watch {
		prices, err := yahooDaily(client, symbol, rng)
		if err != nil {
			log.Printf("skipping %s: %v", symbol, err)
			continue
		}
		for on, v := range prices.Values() {
			series.Append(symbol, on, v)
		}
	}
}

// FetchFresh downloads the full history for the watchlist and replaces the
// table on disk.
func (ps *PriceStore) FetchFresh(watch []string, today Date) (*PriceSeries, error) {
	series := NewPriceSeries()
	ps.fetch(series, watch, date.NewRange(defaultHistoryStart, today))
	return series, SavePrices(ps.Path, series)
}

// FetchIncremental extends the stored table from its last day with data
// through today. When the table is already current it is returned as is,
// and an empty table falls back to a fresh fetch.
func (ps *PriceStore) FetchIncremental(watch []string, today Date) (*PriceSeries, error) {
	series, err := LoadPrices(ps.Path)
	if err != nil {
		return nil, err
	}

	var last Date
	for symbol := range series.Symbols() {
		if on, _, ok := series.Latest(symbol); ok && on.After(last) {
			last = on
		}
	}
	if last.IsZero() {
		return ps.FetchFresh(watch, today)
	}
	if !last.Before(today) {
		log.Printf("not updating %s, it has today's data", ps.Path)
		return series, nil
	}

	ps.fetch(series, watch, date.NewRange(last.Add(1), today))
	return series, SavePrices(ps.Path, series)
}
