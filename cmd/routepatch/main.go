package main

import (
	"context"
	"errors"
	"fmt"
	"os"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/sirupsen/logrus"
	"github.com/spf13/pflag"

	"github.com/sokinpui/routepatch/cli"
	"github.com/sokinpui/routepatch/internal/tui"
	"github.com/sokinpui/routepatch/internal/ui"
	"github.com/sokinpui/routepatch/routepatch"
)

func main() {
	cfg, err := cli.ParseFlags(os.Args[1:])
	if err != nil {
		if errors.Is(err, pflag.ErrHelp) {
			return
		}
		// pflag already prints the error message.
		os.Exit(1)
	}

	logrus.SetOutput(os.Stderr)
	logrus.SetLevel(logrus.WarnLevel)
	if cfg.Verbose {
		logrus.SetLevel(logrus.DebugLevel)
	}
	if cfg.NoColor {
		ui.DisableColor()
	}

	app, err := routepatch.New(cfg)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize application: %v\n", err)
		os.Exit(1)
	}
	ctx := context.Background()

	if cfg.Interactive {
		p := tea.NewProgram(tui.New(ctx, app))
		final, err := p.Run()
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error running program: %v\n", err)
			os.Exit(1)
		}
		if m, ok := final.(tui.Model); ok && m.Err() != nil {
			os.Exit(1)
		}
		return
	}

	summary, err := app.Execute(ctx)
	if err != nil {
		// Replacements attempted before the failure are still reported.
		ui.PrintSteps(summary.Steps)
		var detailed *routepatch.DetailedError
		if errors.As(err, &detailed) {
			fmt.Fprintf(os.Stderr, "\n--- Stack Trace ---\n%s\n", detailed.Stack)
		}
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	ui.PrintSummary(summary)
}
