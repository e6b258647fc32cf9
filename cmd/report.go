package cmd

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/google/subcommands"
	"github.com/tbower/tradebook"
	"github.com/tbower/tradebook/renderer"
)

// reportCmd holds the flags for the 'report' subcommand.
type reportCmd struct {
	period string
	start  string
	end    string
	dest   string
}

func (*reportCmd) Name() string     { return "report" }
func (*reportCmd) Synopsis() string { return "portfolio performance over a reporting window" }
func (*reportCmd) Usage() string {
	return `tbk report [-p <period>] [-s <date>] [-d <date>] [-dest console|email]

  Replays the trade log over the window, writes the time series and
  per-symbol CSV artifacts plus the performance charts, and delivers the
  summary to the console or by email.
`
}

func (c *reportCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.period, "p", tradebook.Month.String(), "Reporting period (week, month, quarter, year, ytd)")
	f.StringVar(&c.start, "s", "", "Window start date, overrides -p")
	f.StringVar(&c.end, "d", tradebook.Today().String(), "Window end date")
	f.StringVar(&c.dest, "dest", "console", "Where to deliver the summary (console, email)")
}

func (c *reportCmd) Execute(_ context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	end, err := tradebook.ParseDate(c.end)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error parsing end date: %v\n", err)
		return subcommands.ExitUsageError
	}
	var window tradebook.Range
	if c.start != "" {
		start, err := tradebook.ParseDate(c.start)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error parsing start date: %v\n", err)
			return subcommands.ExitUsageError
		}
		window = tradebook.Range{From: start, To: end}
	} else {
		period, err := tradebook.ParsePeriod(c.period)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error parsing period: %v\n", err)
			return subcommands.ExitUsageError
		}
		window = period.Range(end)
	}

	cfg, engine, err := loadEngine()
	if err != nil {
		return fail(err)
	}
	rows, summaries, err := engine.TimeSeries(window)
	if err != nil {
		return fail(err)
	}

	if path, err := tradebook.WriteArtifact(cfg.ArtifactsDir, fmt.Sprintf("Timeseries %s.csv", window), rows); err != nil {
		return fail(err)
	} else {
		fmt.Printf("Wrote %s\n", path)
	}
	if path, err := tradebook.WriteArtifact(cfg.ArtifactsDir, fmt.Sprintf("Stocks %s.csv", window), summaries); err != nil {
		return fail(err)
	} else {
		fmt.Printf("Wrote %s\n", path)
	}

	var attachments []string
	benchmark, _ := engine.Series.Between(cfg.Benchmark, window)
	if path, err := renderer.PerfChart(cfg.ArtifactsDir, rows, cfg.Benchmark, benchmark, window); err != nil {
		fmt.Fprintf(os.Stderr, "Warning: %v\n", err)
	} else {
		fmt.Printf("Wrote %s\n", path)
		attachments = append(attachments, path)
	}
	if path, err := renderer.FlowsChart(cfg.ArtifactsDir, rows, window); err != nil {
		fmt.Fprintf(os.Stderr, "Warning: %v\n", err)
	} else {
		fmt.Printf("Wrote %s\n", path)
		attachments = append(attachments, path)
	}

	markdown := renderer.NewSummary(summaries, window).Markdown()
	subject := fmt.Sprintf("Investment summary %s", window)
	if err := deliver(cfg, c.dest, subject, markdown, attachments); err != nil {
		return fail(err)
	}
	return subcommands.ExitSuccess
}
