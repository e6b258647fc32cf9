// Package cmd implements the tbk CLI to replay and report a portfolio.
package cmd

import (
	"flag"
	"fmt"
	"os"

	"github.com/charmbracelet/glamour"
	"github.com/google/subcommands"
	"github.com/tbower/tradebook"
	"github.com/tbower/tradebook/renderer"
)

// Commands lists the subcommands for the main package to register.
var Commands = []subcommands.Command{
	&reportCmd{},
	&stateCmd{},
	&lotsCmd{},
	&alertsCmd{},
	&fetchCmd{},
}

// as a CLI application, it has a very short lived lifecycle, so it is ok to use global variables.

var configFile = flag.String("config", "tradebook.yaml", "Path to the config file. A missing file falls back to defaults.")

func loadConfig() (tradebook.Config, error) {
	return tradebook.LoadConfig(*configFile)
}

// loadEngine builds the replay engine from the configured files.
func loadEngine() (tradebook.Config, *tradebook.Engine, error) {
	cfg, err := loadConfig()
	if err != nil {
		return cfg, nil, err
	}
	engine, err := tradebook.LoadEngine(cfg)
	return cfg, engine, err
}

// printMarkdown renders markdown for the terminal, falling back to the
// raw text when the terminal cannot be styled.
func printMarkdown(md string) {
	out, err := glamour.Render(md, "auto")
	if err != nil {
		fmt.Print(md)
		return
	}
	fmt.Print(out)
}

// deliver sends a markdown report to the console or by email, with optional
// image attachments for the email path.
func deliver(cfg tradebook.Config, dest, subject, markdown string, attachments []string) error {
	switch dest {
	case "console":
		printMarkdown(markdown)
		return nil
	case "email":
		html, err := renderer.HTML(markdown)
		if err != nil {
			return err
		}
		return tradebook.Mailer{SMTP: cfg.SMTP}.SendHTML(subject, html, attachments)
	default:
		return fmt.Errorf("unknown dest %q, want console or email", dest)
	}
}

func fail(err error) subcommands.ExitStatus {
	fmt.Fprintf(os.Stderr, "Error: %v\n", err)
	return subcommands.ExitFailure
}
