package ui

import (
	"fmt"
	"io"
	"os"

	"github.com/fatih/color"

	"github.com/sokinpui/routepatch/model"
)

var (
	HeaderColor  = color.New(color.FgBlue, color.Bold)
	InfoColor    = color.New(color.FgCyan)
	SuccessColor = color.New(color.FgGreen)
	WarningColor = color.New(color.FgYellow)
	ErrorColor   = color.New(color.FgRed)
	PathColor    = color.New(color.FgYellow)
)

// Out receives every progress line.
var Out io.Writer = os.Stdout

// DisableColor turns off ANSI colors for all output.
func DisableColor() {
	color.NoColor = true
}

func Header(format string, a ...interface{}) {
	HeaderColor.Fprintf(Out, format+"\n", a...)
}

func Info(format string, a ...interface{}) {
	InfoColor.Fprintf(Out, format+"\n", a...)
}

func Success(format string, a ...interface{}) {
	SuccessColor.Fprintf(Out, format+"\n", a...)
}

func Warning(format string, a ...interface{}) {
	WarningColor.Fprintf(Out, format+"\n", a...)
}

func Error(format string, a ...interface{}) {
	ErrorColor.Fprintf(Out, format+"\n", a...)
}

func Path(format string, a ...interface{}) {
	PathColor.Fprintf(Out, "  "+format+"\n", a...)
}

// --- Patcher ---

func Step(s model.Step) {
	if s.Found {
		Info("Found '%s', replacing with '%s'", s.Target, s.Replacement)
		return
	}
	Warning("Target '%s' not found (might be already patched or different format)", s.Target)
}

func Updated() {
	Success("SUCCESS: File updated")
}

func NoChange() {
	Warning("NO CHANGE: Content appeared already up to date or strings not found.")
}

// PrintSteps prints one line per attempted replacement.
func PrintSteps(steps []model.Step) {
	for _, s := range steps {
		Step(s)
	}
}

// PrintSummary prints every step followed by the outcome line.
func PrintSummary(summary model.Summary) {
	PrintSteps(summary.Steps)
	if summary.Diff != "" {
		fmt.Fprint(Out, summary.Diff)
	}
	switch {
	case summary.Written:
		Updated()
	case summary.Message != "":
		Info("%s", summary.Message)
	case !summary.Changed:
		NoChange()
	}
}

// --- Inspector ---

func Match(m model.Match) {
	Success("FOUND: %s", m.Text)
}

func NoMatch() {
	Warning("NOT FOUND")
}
