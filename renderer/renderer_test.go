package renderer

import (
	"os"
	"strings"
	"testing"
	"time"

	"github.com/tbower/tradebook"
	"github.com/tbower/tradebook/date"
)

func window() tradebook.Range {
	return date.NewRange(date.New(2021, time.January, 4), date.New(2021, time.January, 8))
}

func summaryFixture() []tradebook.SymbolSummary {
	mk := func(symbol string, gain float64, pct tradebook.Percent, bought, sold float64) tradebook.SymbolSummary {
		return tradebook.SymbolSummary{
			Symbol:           symbol,
			Gain:             tradebook.M(gain),
			GainOnStartValue: pct,
			Bought:           tradebook.M(bought),
			Sold:             tradebook.M(sold),
		}
	}
	return []tradebook.SymbolSummary{
		mk("AAA", 500, 10, 0, 0),
		mk("BBB", -300, -20, 100, 0),
		mk("CCC", 50, 40, 0, 250),
		mk("DDD", -10, -1, 0, 0),
	}
}

func TestNewSummaryRankings(t *testing.T) {
	s := NewSummary(summaryFixture(), window())

	if got := s.AbsoluteWinners[0].Symbol; got != "AAA" {
		t.Errorf("top absolute winner = %s, want AAA", got)
	}
	if got := s.AbsoluteLosers[0].Symbol; got != "BBB" {
		t.Errorf("top absolute loser = %s, want BBB", got)
	}
	if got := s.PercentWinners[0].Symbol; got != "CCC" {
		t.Errorf("top percent winner = %s, want CCC", got)
	}
	if len(s.AbsoluteWinners) != 4 {
		t.Errorf("winners = %d rows, want all 4 with fewer than five symbols", len(s.AbsoluteWinners))
	}
	if len(s.Bought) != 1 || s.Bought[0].Symbol != "BBB" {
		t.Errorf("bought = %v", s.Bought)
	}
	if len(s.Sold) != 1 || s.Sold[0].Symbol != "CCC" {
		t.Errorf("sold = %v", s.Sold)
	}
}

func TestSummaryMarkdown(t *testing.T) {
	got := NewSummary(summaryFixture(), window()).Markdown()

	for _, want := range []string{
		"## Summary from 2021-01-04 to 2021-01-08",
		"### Biggest winners",
		"### Biggest losers by percent",
		"### Bought",
		"### Sold",
		"AAA",
	} {
		if !strings.Contains(got, want) {
			t.Errorf("markdown is missing %q:\n%s", want, got)
		}
	}
}

func TestAlertsMarkdown(t *testing.T) {
	got := AlertsMarkdown([]tradebook.Alert{
		{Symbol: "AAA", Message: "at 50 day high $120"},
	})
	if !strings.Contains(got, "# Stock alerts") || !strings.Contains(got, "AAA at 50 day high $120") {
		t.Errorf("alerts markdown:\n%s", got)
	}

	quiet := AlertsMarkdown(nil)
	if !strings.Contains(quiet, "Nothing notable") {
		t.Errorf("quiet day markdown:\n%s", quiet)
	}
}

func TestHTMLRendersTables(t *testing.T) {
	got, err := HTML("| Symbol | Delta |\n| --- | --- |\n| AAA | $500 |\n")
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(got, "<table>") || !strings.Contains(got, "AAA") {
		t.Errorf("HTML = %s", got)
	}
}

func TestScaleTo(t *testing.T) {
	got := scaleTo([]float64{50, 100}, 1000)
	if len(got) != 2 || got[0] != 1000 || got[1] != 2000 {
		t.Errorf("scaleTo = %v", got)
	}
	if scaleTo(nil, 1000) != nil {
		t.Error("empty input must scale to nil")
	}
	if scaleTo([]float64{0, 1}, 1000) != nil {
		t.Error("a zero first close must scale to nil")
	}
}

func TestPerfChartWritesPNG(t *testing.T) {
	rows := []tradebook.PerfRow{
		{Date: date.New(2021, time.January, 4), CoreValue: tradebook.M(1200), NetCoreValue: tradebook.M(1200)},
		{Date: date.New(2021, time.January, 5), CoreValue: tradebook.M(1250), NetCoreValue: tradebook.M(1210)},
		{Date: date.New(2021, time.January, 6), CoreValue: tradebook.M(1300), NetCoreValue: tradebook.M(1220)},
	}
	dir := t.TempDir()
	path, err := PerfChart(dir, rows, "VTI", []float64{100, 101, 103}, window())
	if err != nil {
		t.Fatal(err)
	}
	info, err := os.Stat(path)
	if err != nil {
		t.Fatal(err)
	}
	if info.Size() == 0 {
		t.Error("chart file is empty")
	}
}
