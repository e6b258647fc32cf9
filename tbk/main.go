package main

import (
	"context"
	"flag"
	"os"
	"path"

	"github.com/google/subcommands"
	"github.com/posener/complete/v2"
	"github.com/posener/complete/v2/predict"
	"github.com/tbower/tradebook/cmd"
)

// completion describes the CLI for shell tab completion. It only acts when
// the shell invokes the binary as a completer.
var completion = &complete.Command{
	Sub: map[string]*complete.Command{
		"report": {Flags: map[string]complete.Predictor{
			"p":    predict.Set{"week", "month", "quarter", "year", "ytd"},
			"s":    predict.Something,
			"d":    predict.Something,
			"dest": predict.Set{"console", "email"},
		}},
		"state": {Flags: map[string]complete.Predictor{
			"d": predict.Something,
		}},
		"lots": {
			Args: predict.Set{"losses", "accounts"},
			Flags: map[string]complete.Predictor{
				"t":   predict.Something,
				"sym": predict.Something,
			},
		},
		"alerts": {Flags: map[string]complete.Predictor{
			"dest": predict.Set{"console", "email"},
		}},
		"fetch": {Args: predict.Set{"fresh", "incremental"}},
	},
	Flags: map[string]complete.Predictor{
		"config": predict.Files("*.yaml"),
	},
}

func main() {
	completion.Complete("tbk")

	commander := subcommands.NewCommander(flag.CommandLine, path.Base(os.Args[0]))
	for _, c := range cmd.Commands {
		commander.Register(c, "")
	}
	commander.Register(commander.HelpCommand(), "")
	commander.Register(commander.FlagsCommand(), "")

	flag.Parse()
	os.Exit(int(commander.Execute(context.Background())))
}
