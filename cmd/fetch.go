package cmd

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/google/subcommands"
	"github.com/tbower/tradebook"
)

// fetchCmd holds the flags for the 'fetch' subcommand.
type fetchCmd struct{}

func (*fetchCmd) Name() string     { return "fetch" }
func (*fetchCmd) Synopsis() string { return "update the price table from the quote provider" }
func (*fetchCmd) Usage() string {
	return `tbk fetch fresh|incremental

  'fresh' replaces the price table with the full history for every symbol
  ever held or traded plus the benchmark. 'incremental' extends it from
  its last day with data through today.
`
}

func (*fetchCmd) SetFlags(f *flag.FlagSet) {}

func (c *fetchCmd) Execute(_ context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	method := f.Arg(0)
	if method != "fresh" && method != "incremental" {
		fmt.Fprintf(os.Stderr, "Error: want a method, fresh or incremental\n")
		return subcommands.ExitUsageError
	}

	cfg, err := loadConfig()
	if err != nil {
		return fail(err)
	}
	trades, err := tradebook.LoadTrades(cfg.TradesFile)
	if err != nil {
		return fail(err)
	}
	holdings, err := tradebook.LoadHoldings(cfg.HoldingsFile)
	if err != nil {
		return fail(err)
	}

	watch := tradebook.Watchlist(holdings, trades, cfg.Benchmark)
	store := &tradebook.PriceStore{Path: cfg.PricesFile}
	today := tradebook.Today()

	var series *tradebook.PriceSeries
	if method == "fresh" {
		series, err = store.FetchFresh(watch, today)
	} else {
		series, err = store.FetchIncremental(watch, today)
	}
	if err != nil {
		return fail(err)
	}

	var n int
	for range series.Symbols() {
		n++
	}
	fmt.Printf("Wrote %s with %d symbols\n", cfg.PricesFile, n)
	return subcommands.ExitSuccess
}
