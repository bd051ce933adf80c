package main

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/sirupsen/logrus"
	"github.com/spf13/pflag"

	"github.com/sokinpui/routepatch/cli"
	"github.com/sokinpui/routepatch/internal/ui"
	"github.com/sokinpui/routepatch/routepatch"
)

func main() {
	cfg, err := cli.ParseInspectFlags(os.Args[1:])
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

	in, err := routepatch.NewInspector(cfg)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize inspector: %v\n", err)
		os.Exit(1)
	}

	m, ok, err := in.Run(context.Background())
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	if !ok {
		ui.NoMatch()
		return
	}
	ui.Match(m)
}
