package cmd

import (
	"context"
	"flag"

	"github.com/google/subcommands"
	"github.com/tbower/tradebook"
	"github.com/tbower/tradebook/renderer"
)

// alertsCmd holds the flags for the 'alerts' subcommand.
type alertsCmd struct {
	dest string
}

func (*alertsCmd) Name() string     { return "alerts" }
func (*alertsCmd) Synopsis() string { return "price alerts for the held symbols" }
func (*alertsCmd) Usage() string {
	return `tbk alerts [-dest console|email]

  Scans today's closes for moving-average crossings, outsized daily moves
  and 50 day extremes on the symbols still held.
`
}

func (c *alertsCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.dest, "dest", "console", "Where to deliver the alerts (console, email)")
}

func (c *alertsCmd) Execute(_ context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	cfg, engine, err := loadEngine()
	if err != nil {
		return fail(err)
	}

	alerter := tradebook.Alerter{Series: engine.Series, MoveThreshold: cfg.MoveThreshold}
	alerts := alerter.Alerts(tradebook.Today(), engine.ActiveSymbols())

	markdown := renderer.AlertsMarkdown(alerts)
	if err := deliver(cfg, c.dest, "Stock alerts", markdown, nil); err != nil {
		return fail(err)
	}
	return subcommands.ExitSuccess
}
