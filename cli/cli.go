package cli

import (
	"fmt"
	"os"

	"github.com/spf13/pflag"

	"github.com/sokinpui/routepatch/internal/inspector"
	"github.com/sokinpui/routepatch/internal/rules"
)

// Config holds the routepatch command-line flag values.
type Config struct {
	File        string
	From        string
	To          string
	Keys        []string
	RulesFile   string
	LookupDirs  []string
	StateDir    string
	DryRun      bool
	Undo        bool
	Redo        bool
	Buffer      bool
	NvimAddr    string
	Interactive bool
	Verbose     bool
	NoColor     bool
}

// InspectConfig holds the routeinspect command-line flag values.
type InspectConfig struct {
	File       string
	Route      string
	LookupDirs []string
	Copy       bool
	Verbose    bool
	NoColor    bool
}

// ParseFlags defines and parses the routepatch flags from args.
func ParseFlags(args []string) (*Config, error) {
	cfg := &Config{}
	fs := pflag.NewFlagSet("routepatch", pflag.ContinueOnError)

	fs.StringVarP(&cfg.File, "file", "f", rules.DefaultFile, "Bundle to patch.")
	fs.StringVar(&cfg.From, "from", rules.DefaultFrom, "Route to rename.")
	fs.StringVar(&cfg.To, "to", rules.DefaultTo, "New route path.")
	fs.StringSliceVarP(&cfg.Keys, "key", "k", rules.DefaultKeys, "Object keys the route is attached to.")
	fs.StringVarP(&cfg.RulesFile, "rules", "c", "", "YAML rules file overriding file, from, to and keys.")
	fs.StringSliceVarP(&cfg.LookupDirs, "lookup-dir", "l", []string{}, "Directories to look for the bundle in (default: current directory).")
	fs.StringVar(&cfg.StateDir, "state-dir", "", "Where to keep undo history (default: repository root).")
	fs.BoolVarP(&cfg.DryRun, "dry-run", "n", false, "Print the diff without writing the file.")
	fs.BoolVarP(&cfg.Buffer, "buffer", "b", false, "Update the buffer in a running Neovim instead of writing the file.")
	fs.StringVar(&cfg.NvimAddr, "nvim-addr", "", "Neovim socket (default: $NVIM_LISTEN_ADDRESS).")
	fs.BoolVarP(&cfg.Interactive, "interactive", "i", false, "Show a spinner and a styled summary.")
	fs.BoolVarP(&cfg.Verbose, "verbose", "v", false, "Enable debug logging on stderr.")
	fs.BoolVar(&cfg.NoColor, "no-color", false, "Disable colored output.")

	// Mutually exclusive history group
	fs.BoolVarP(&cfg.Undo, "undo", "u", false, "Undo the last patch.")
	fs.BoolVarP(&cfg.Redo, "redo", "r", false, "Redo the last undone patch.")

	fs.Usage = func() {
		fmt.Fprintln(os.Stderr, "Usage: routepatch [flags]")
		fmt.Fprintln(os.Stderr, "\nRename a route inside a pre-built JavaScript bundle by literal replacement.")
		fmt.Fprintln(os.Stderr, "\nExample: routepatch -f dist/assets/index.js --from /team --to /about-team")
		fmt.Fprintln(os.Stderr, "\nFlags:")
		fs.PrintDefaults()
	}

	if err := fs.Parse(args); err != nil {
		return nil, err
	}

	modes := 0
	for _, on := range []bool{cfg.Undo, cfg.Redo, cfg.DryRun} {
		if on {
			modes++
		}
	}
	if modes > 1 {
		return nil, usageError(fs, "--undo, --redo and --dry-run are mutually exclusive")
	}
	if cfg.From == "" || cfg.To == "" {
		return nil, usageError(fs, "--from and --to must not be empty")
	}
	if cfg.Buffer && (cfg.Undo || cfg.Redo) {
		return nil, usageError(fs, "--buffer cannot be combined with --undo or --redo")
	}

	return cfg, nil
}

// usageError reports a flag combination error the way pflag reports parse
// errors, so callers only need to exit.
func usageError(fs *pflag.FlagSet, msg string) error {
	err := fmt.Errorf("error: %s", msg)
	fmt.Fprintln(os.Stderr, err)
	fs.Usage()
	return err
}

// ParseInspectFlags defines and parses the routeinspect flags from args.
func ParseInspectFlags(args []string) (*InspectConfig, error) {
	cfg := &InspectConfig{}
	fs := pflag.NewFlagSet("routeinspect", pflag.ContinueOnError)

	fs.StringVarP(&cfg.File, "file", "f", rules.DefaultFile, "Bundle to inspect.")
	fs.StringVar(&cfg.Route, "route", inspector.DefaultRoute, "Route whose registration object to find.")
	fs.StringSliceVarP(&cfg.LookupDirs, "lookup-dir", "l", []string{}, "Directories to look for the bundle in (default: current directory).")
	fs.BoolVar(&cfg.Copy, "copy", false, "Copy the matched object to the clipboard.")
	fs.BoolVarP(&cfg.Verbose, "verbose", "v", false, "Enable debug logging on stderr.")
	fs.BoolVar(&cfg.NoColor, "no-color", false, "Disable colored output.")

	fs.Usage = func() {
		fmt.Fprintln(os.Stderr, "Usage: routeinspect [flags]")
		fmt.Fprintln(os.Stderr, "\nPrint the route-registration object of a route found in a bundle.")
		fmt.Fprintln(os.Stderr, "\nFlags:")
		fs.PrintDefaults()
	}

	if err := fs.Parse(args); err != nil {
		return nil, err
	}
	return cfg, nil
}
