package routepatch_test

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sokinpui/routepatch/cli"
	"github.com/sokinpui/routepatch/internal/ui"
	"github.com/sokinpui/routepatch/routepatch"
)

const bundle = `import{r}from"./vendor.js";` +
	`const Nav=()=>r.jsx(Lk,{to:"/founder",children:"Founder"});` +
	`children:[r.jsx(Cn,{path:"/",element:r.jsx(H1,{})}),r.jsx(Cn,{path:"/founder",element:r.jsx(O4,{})})]`

const patched = `import{r}from"./vendor.js";` +
	`const Nav=()=>r.jsx(Lk,{to:"/founder-bhanudeep",children:"Founder"});` +
	`children:[r.jsx(Cn,{path:"/",element:r.jsx(H1,{})}),r.jsx(Cn,{path:"/founder-bhanudeep",element:r.jsx(O4,{})})]`

// setup writes content to assets/index.js under a fresh directory and
// returns a config pointing at it.
func setup(t *testing.T, content string) (*cli.Config, string) {
	t.Helper()
	t.Setenv("NVIM_LISTEN_ADDRESS", "")

	root := t.TempDir()
	path := filepath.Join(root, "assets", "index.js")
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))

	cfg, err := cli.ParseFlags([]string{"-f", "assets/index.js", "-l", root, "--state-dir", root})
	require.NoError(t, err)
	return cfg, path
}

func run(t *testing.T, cfg *cli.Config) string {
	t.Helper()
	app, err := routepatch.New(cfg)
	require.NoError(t, err)
	_, err = app.Execute(context.Background())
	require.NoError(t, err)
	data, err := os.ReadFile(app.Path())
	require.NoError(t, err)
	return string(data)
}

func TestExecutePatchesBundle(t *testing.T) {
	cfg, path := setup(t, bundle)

	app, err := routepatch.New(cfg)
	require.NoError(t, err)
	assert.Equal(t, path, app.Path())

	summary, err := app.Execute(context.Background())
	require.NoError(t, err)
	assert.True(t, summary.Changed)
	assert.True(t, summary.Written)

	var found []bool
	for _, s := range summary.Steps {
		found = append(found, s.Found)
	}
	assert.Equal(t, []bool{false, true, false, true}, found)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, patched, string(data))
}

func TestExecuteNoChangeLeavesFileUntouched(t *testing.T) {
	content := `r.jsx(Cn,{path:"/about",element:r.jsx(A1,{})})`
	cfg, path := setup(t, content)

	old := time.Unix(1_000_000, 0)
	require.NoError(t, os.Chtimes(path, old, old))

	app, err := routepatch.New(cfg)
	require.NoError(t, err)
	summary, err := app.Execute(context.Background())
	require.NoError(t, err)
	assert.False(t, summary.Changed)
	assert.False(t, summary.Written)

	info, err := os.Stat(path)
	require.NoError(t, err)
	assert.True(t, info.ModTime().Equal(old), "file was rewritten")
	assert.Equal(t, content, run(t, cfg))

	_, err = os.Stat(filepath.Join(filepath.Dir(filepath.Dir(path)), ".routepatch", "state.routepatch"))
	assert.True(t, os.IsNotExist(err), "no history expected without a write")
}

func TestExecuteSecondRunIsNoop(t *testing.T) {
	cfg, _ := setup(t, bundle)
	assert.Equal(t, patched, run(t, cfg))

	app, err := routepatch.New(cfg)
	require.NoError(t, err)
	summary, err := app.Execute(context.Background())
	require.NoError(t, err)
	assert.False(t, summary.Changed)
	for _, s := range summary.Steps {
		assert.False(t, s.Found, s.Target)
	}
}

func TestExecuteDryRun(t *testing.T) {
	cfg, path := setup(t, bundle)
	cfg.DryRun = true

	app, err := routepatch.New(cfg)
	require.NoError(t, err)
	summary, err := app.Execute(context.Background())
	require.NoError(t, err)
	assert.True(t, summary.Changed)
	assert.False(t, summary.Written)
	assert.Contains(t, summary.Diff, "+++ b/")
	assert.Contains(t, summary.Diff, `path:"/founder-bhanudeep"`)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, bundle, string(data))
}

func TestExecuteUndoRedo(t *testing.T) {
	cfg, _ := setup(t, bundle)
	assert.Equal(t, patched, run(t, cfg))

	cfg.Undo = true
	assert.Equal(t, bundle, run(t, cfg))

	app, err := routepatch.New(cfg)
	require.NoError(t, err)
	summary, err := app.Execute(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "No operation to undo.", summary.Message)

	cfg.Undo = false
	cfg.Redo = true
	assert.Equal(t, patched, run(t, cfg))
}

func TestExecuteMissingFile(t *testing.T) {
	cfg, path := setup(t, "")
	require.NoError(t, os.Remove(path))

	app, err := routepatch.New(cfg)
	require.NoError(t, err)
	_, err = app.Execute(context.Background())
	assert.Error(t, err)
}

func TestExecuteRulesFile(t *testing.T) {
	cfg, path := setup(t, `{path:"/team"},{to:"/team"},{path:"/founder"}`)
	rulesPath := filepath.Join(t.TempDir(), "rules.yaml")
	body := "file: " + path + "\nfrom: /team\nto: /crew\nkeys: [path]\n"
	require.NoError(t, os.WriteFile(rulesPath, []byte(body), 0644))
	cfg.RulesFile = rulesPath

	assert.Equal(t, `{path:"/crew"},{to:"/team"},{path:"/founder"}`, run(t, cfg))
}

func TestExecuteOutputLines(t *testing.T) {
	cfg, _ := setup(t, `{path: "/founder"},{path:"/founder"},{to: "/founder"},{to:"/founder"}`)

	ui.DisableColor()
	var buf bytes.Buffer
	old := ui.Out
	ui.Out = &buf
	t.Cleanup(func() { ui.Out = old })

	app, err := routepatch.New(cfg)
	require.NoError(t, err)
	summary, err := app.Execute(context.Background())
	require.NoError(t, err)
	ui.PrintSummary(summary)

	want := `Found 'path: "/founder"', replacing with 'path: "/founder-bhanudeep"'` + "\n" +
		`Found 'path:"/founder"', replacing with 'path:"/founder-bhanudeep"'` + "\n" +
		`Found 'to: "/founder"', replacing with 'to: "/founder-bhanudeep"'` + "\n" +
		`Found 'to:"/founder"', replacing with 'to:"/founder-bhanudeep"'` + "\n" +
		"SUCCESS: File updated\n"
	assert.Equal(t, want, buf.String())

	buf.Reset()
	summary, err = app.Execute(context.Background())
	require.NoError(t, err)
	ui.PrintSummary(summary)

	want = `Target 'path: "/founder"' not found (might be already patched or different format)` + "\n" +
		`Target 'path:"/founder"' not found (might be already patched or different format)` + "\n" +
		`Target 'to: "/founder"' not found (might be already patched or different format)` + "\n" +
		`Target 'to:"/founder"' not found (might be already patched or different format)` + "\n" +
		"NO CHANGE: Content appeared already up to date or strings not found.\n"
	assert.Equal(t, want, buf.String())
}

func TestExecuteKeepsStepsOnError(t *testing.T) {
	cfg, path := setup(t, bundle)
	cfg.Buffer = true

	app, err := routepatch.New(cfg)
	require.NoError(t, err)
	summary, err := app.Execute(context.Background())
	require.Error(t, err)
	require.Len(t, summary.Steps, 4)
	assert.True(t, summary.Steps[1].Found)
	assert.True(t, summary.Steps[3].Found)
	assert.False(t, summary.Written)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, bundle, string(data))
}
