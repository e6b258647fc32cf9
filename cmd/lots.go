package cmd

import (
	"context"
	"flag"
	"fmt"
	"os"
	"strings"

	"github.com/google/subcommands"
	"github.com/tbower/tradebook"
)

// lotsCmd holds the flags for the 'lots' subcommand.
type lotsCmd struct {
	threshold float64
	symbol    string
}

func (*lotsCmd) Name() string     { return "lots" }
func (*lotsCmd) Synopsis() string { return "tax-lot queries: harvesting candidates, holding accounts" }
func (*lotsCmd) Usage() string {
	return `tbk lots losses [-t <threshold>]
tbk lots accounts -sym <symbol>

  'losses' matches disposals against acquisitions first-in-first-out and
  reports the open lots trading below the threshold fraction of their
  purchase value, per account. 'accounts' lists the accounts with open
  lots of a symbol.
`
}

func (c *lotsCmd) SetFlags(f *flag.FlagSet) {
	f.Float64Var(&c.threshold, "t", 0, "Loss threshold as a fraction of purchase value, 0 means the configured one")
	f.StringVar(&c.symbol, "sym", "", "Symbol for the accounts query")
}

// lotRow is one line of the loss lots artifact.
type lotRow struct {
	Account      string             `csv:"Account"`
	Symbol       string             `csv:"Symbol"`
	Date         tradebook.Date     `csv:"Date"`
	InitialValue tradebook.Money    `csv:"Initial Value"`
	CurrentValue tradebook.Money    `csv:"Current Value"`
	Loss         tradebook.Money    `csv:"Loss"`
	PercentLoss  tradebook.Percent  `csv:"Percent Loss"`
	Remaining    tradebook.Quantity `csv:"Remaining Quantity"`
	Initial      tradebook.Quantity `csv:"Initial Quantity"`
	LongTerm     bool               `csv:"Long term"`
}

func (c *lotsCmd) Execute(_ context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	query := f.Arg(0)
	if query != "losses" && query != "accounts" {
		fmt.Fprintf(os.Stderr, "Error: want a query, losses or accounts\n")
		return subcommands.ExitUsageError
	}

	cfg, engine, err := loadEngine()
	if err != nil {
		return fail(err)
	}
	book := tradebook.NewLotBook(engine.Trades)

	if query == "accounts" {
		if c.symbol == "" {
			fmt.Fprintf(os.Stderr, "Error: accounts query needs -sym\n")
			return subcommands.ExitUsageError
		}
		accounts := book.AccountsHoldingSymbol(c.symbol)
		if len(accounts) == 0 {
			fmt.Printf("No accounts hold %s\n", c.symbol)
		} else {
			fmt.Printf("Following accounts hold %s: %s\n", c.symbol, strings.Join(accounts, ", "))
		}
		return subcommands.ExitSuccess
	}

	threshold := c.threshold
	if threshold == 0 {
		threshold = cfg.LossThreshold
	}
	matcher := tradebook.LotMatcher{Book: book, Series: engine.Series}
	on := tradebook.Today()
	lots := matcher.LotsAtLoss(on, threshold)

	rows := make([]lotRow, 0, len(lots))
	for _, v := range lots {
		rows = append(rows, lotRow{
			Account:      v.Account,
			Symbol:       v.Symbol,
			Date:         v.Date,
			InitialValue: v.InitialValue,
			CurrentValue: v.CurrentValue,
			Loss:         v.Loss(),
			PercentLoss:  tradebook.PercentOf(v.CurrentValue.Sub(v.InitialValue), v.InitialValue),
			Remaining:    v.Remaining,
			Initial:      v.Quantity,
			LongTerm:     v.LongTerm,
		})
	}
	path, err := tradebook.WriteArtifact(cfg.ArtifactsDir, "loss_lots.csv", rows)
	if err != nil {
		return fail(err)
	}
	fmt.Printf("Wrote %s\n", path)

	for account, loss := range matcher.LossByAccount(on, threshold) {
		fmt.Printf("%s\t%s\n", account, loss)
	}
	return subcommands.ExitSuccess
}
