package cmd

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/google/subcommands"
	"github.com/tbower/tradebook"
)

// stateCmd holds the flags for the 'state' subcommand.
type stateCmd struct {
	end string
}

func (*stateCmd) Name() string     { return "state" }
func (*stateCmd) Synopsis() string { return "point-in-time portfolio state from the full trade log" }
func (*stateCmd) Usage() string {
	return `tbk state [-d <date>]

  Replays the whole trade log, values every position at the given date,
  writes the state CSV artifact and prints the overall gains.
`
}

func (c *stateCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.end, "d", tradebook.Today().String(), "Valuation date")
}

func (c *stateCmd) Execute(_ context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	on, err := tradebook.ParseDate(c.end)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error parsing date: %v\n", err)
		return subcommands.ExitUsageError
	}

	cfg, engine, err := loadEngine()
	if err != nil {
		return fail(err)
	}
	rows, totalGain, coreGain := engine.CurrentState(on)

	path, err := tradebook.WriteArtifact(cfg.ArtifactsDir, fmt.Sprintf("State %s.csv", on), rows)
	if err != nil {
		return fail(err)
	}
	fmt.Printf("Wrote %s\n", path)
	fmt.Printf("Overall gain: %s\n", totalGain.SignedString())
	fmt.Printf("Core gain: %s\n", coreGain.SignedString())
	return subcommands.ExitSuccess
}
