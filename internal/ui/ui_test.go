package ui_test

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/sokinpui/routepatch/internal/ui"
	"github.com/sokinpui/routepatch/model"
)

func capture(t *testing.T) *bytes.Buffer {
	t.Helper()
	ui.DisableColor()
	var buf bytes.Buffer
	old := ui.Out
	ui.Out = &buf
	t.Cleanup(func() { ui.Out = old })
	return &buf
}

func TestPrintSummary(t *testing.T) {
	buf := capture(t)

	ui.PrintSummary(model.Summary{
		Steps: []model.Step{
			{Target: `path: "/founder"`, Replacement: `path: "/founder-bhanudeep"`},
			{Target: `path:"/founder"`, Replacement: `path:"/founder-bhanudeep"`, Found: true, Count: 1},
		},
		Changed: true,
		Written: true,
	})

	want := `Target 'path: "/founder"' not found (might be already patched or different format)` + "\n" +
		`Found 'path:"/founder"', replacing with 'path:"/founder-bhanudeep"'` + "\n" +
		"SUCCESS: File updated\n"
	assert.Equal(t, want, buf.String())
}

func TestPrintSummaryNoChange(t *testing.T) {
	buf := capture(t)

	ui.PrintSummary(model.Summary{})

	assert.Equal(t, "NO CHANGE: Content appeared already up to date or strings not found.\n", buf.String())
}

func TestInspectorLines(t *testing.T) {
	buf := capture(t)

	ui.Match(model.Match{Text: `{path:"/founder",element:r.jsx(O4,{})`})
	ui.NoMatch()

	assert.Equal(t, "FOUND: {path:\"/founder\",element:r.jsx(O4,{})\nNOT FOUND\n", buf.String())
}

func TestPrintStepsWithoutOutcome(t *testing.T) {
	buf := capture(t)

	ui.PrintSteps([]model.Step{
		{Target: `to:"/founder"`, Replacement: `to:"/founder-bhanudeep"`, Found: true, Count: 2},
	})

	assert.Equal(t, `Found 'to:"/founder"', replacing with 'to:"/founder-bhanudeep"'`+"\n", buf.String())
}
