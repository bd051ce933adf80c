package routepatch

import (
	"context"

	"github.com/sokinpui/routepatch/cli"
	"github.com/sokinpui/routepatch/internal/patcher"
	"github.com/sokinpui/routepatch/internal/rules"
	"github.com/sokinpui/routepatch/model"
)

// Config for using routepatch as a library. Empty fields take the defaults.
type Config struct {
	// Route to rename.
	From string
	// New route path.
	To string
	// Object keys the route is attached to, e.g. "path" and "to".
	Keys []string
	// Where to keep undo history. Empty means the repository root.
	StateDir string
}

func (c Config) ruleSet() *rules.File {
	f := &rules.File{From: c.From, To: c.To, Keys: c.Keys}
	f.Normalize()
	return f
}

// Patch applies the route replacements to content in memory.
func Patch(content string, config Config) (string, []model.Step) {
	return patcher.Apply(content, config.ruleSet().List())
}

// PatchFile rewrites the bundle at path and records the change for undo.
func PatchFile(ctx context.Context, path string, config Config) (model.Summary, error) {
	rs := config.ruleSet()
	app, err := New(&cli.Config{
		File:     path,
		From:     rs.From,
		To:       rs.To,
		Keys:     rs.Keys,
		StateDir: config.StateDir,
	})
	if err != nil {
		return model.Summary{}, err
	}
	return app.Execute(ctx)
}
