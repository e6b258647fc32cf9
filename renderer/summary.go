package renderer

import (
	"bytes"
	"slices"

	md "github.com/nao1215/markdown"
	"github.com/tbower/tradebook"
)

// topCount is how many winners and losers each ranking shows.
const topCount = 5

// Summary ranks the window's symbol summaries for the report email.
type Summary struct {
	AbsoluteWinners []tradebook.SymbolSummary
	AbsoluteLosers  []tradebook.SymbolSummary
	PercentWinners  []tradebook.SymbolSummary
	PercentLosers   []tradebook.SymbolSummary
	Bought          []tradebook.SymbolSummary
	Sold            []tradebook.SymbolSummary
	Window          tradebook.Range
}

// NewSummary ranks the summaries by absolute and percent gain and gathers
// the window's purchases and sales.
func NewSummary(summaries []tradebook.SymbolSummary, window tradebook.Range) *Summary {
	byGain := slices.Clone(summaries)
	slices.SortFunc(byGain, func(a, b tradebook.SymbolSummary) int {
		return cmpFloat(a.Gain.AsFloat(), b.Gain.AsFloat())
	})
	byPercent := slices.Clone(summaries)
	slices.SortFunc(byPercent, func(a, b tradebook.SymbolSummary) int {
		return cmpFloat(float64(a.GainOnStartValue), float64(b.GainOnStartValue))
	})

	var bought, sold []tradebook.SymbolSummary
	for _, s := range summaries {
		if !s.Bought.IsZero() {
			bought = append(bought, s)
		}
		if !s.Sold.IsZero() {
			sold = append(sold, s)
		}
	}
	slices.SortFunc(bought, func(a, b tradebook.SymbolSummary) int {
		return cmpFloat(b.Bought.AsFloat(), a.Bought.AsFloat())
	})
	slices.SortFunc(sold, func(a, b tradebook.SymbolSummary) int {
		return cmpFloat(b.Sold.AsFloat(), a.Sold.AsFloat())
	})

	return &Summary{
		AbsoluteWinners: lastReversed(byGain, topCount),
		AbsoluteLosers:  firstN(byGain, topCount),
		PercentWinners:  lastReversed(byPercent, topCount),
		PercentLosers:   firstN(byPercent, topCount),
		Bought:          bought,
		Sold:            sold,
		Window:          window,
	}
}

func cmpFloat(a, b float64) int {
	switch {
	case a < b:
		return -1
	case a > b:
		return 1
	default:
		return 0
	}
}

func firstN(s []tradebook.SymbolSummary, n int) []tradebook.SymbolSummary {
	if len(s) < n {
		n = len(s)
	}
	return s[:n]
}

func lastReversed(s []tradebook.SymbolSummary, n int) []tradebook.SymbolSummary {
	if len(s) < n {
		n = len(s)
	}
	out := slices.Clone(s[len(s)-n:])
	slices.Reverse(out)
	return out
}

// Markdown renders the summary for the report email.
func (s *Summary) Markdown() string {
	var buf bytes.Buffer
	doc := md.NewMarkdown(&buf)

	doc.H2("Summary from " + s.Window.String())

	rankTable := func(title string, rows []tradebook.SymbolSummary, cell func(tradebook.SymbolSummary) string) {
		doc.H3(title)
		table := md.TableSet{
			Alignment: []md.TableAlignment{md.AlignLeft, md.AlignRight},
			Header:    []string{"Symbol", "Delta"},
		}
		for _, r := range rows {
			table.Rows = append(table.Rows, []string{r.Symbol, cell(r)})
		}
		doc.Table(table)
	}

	gain := func(r tradebook.SymbolSummary) string { return r.Gain.SignedString() }
	percent := func(r tradebook.SymbolSummary) string { return r.GainOnStartValue.SignedString() }
	rankTable("Biggest winners", s.AbsoluteWinners, gain)
	rankTable("Biggest losers", s.AbsoluteLosers, gain)
	rankTable("Biggest winners by percent", s.PercentWinners, percent)
	rankTable("Biggest losers by percent", s.PercentLosers, percent)

	flowTable := func(title string, rows []tradebook.SymbolSummary, cell func(tradebook.SymbolSummary) string) {
		doc.H3(title)
		table := md.TableSet{
			Alignment: []md.TableAlignment{md.AlignLeft, md.AlignRight},
			Header:    []string{"Symbol", "Amount"},
		}
		for _, r := range rows {
			table.Rows = append(table.Rows, []string{r.Symbol, cell(r)})
		}
		doc.Table(table)
	}
	flowTable("Bought", s.Bought, func(r tradebook.SymbolSummary) string { return r.Bought.String() })
	flowTable("Sold", s.Sold, func(r tradebook.SymbolSummary) string { return r.Sold.String() })

	return doc.String()
}
