package routepatch

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"runtime/debug"

	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"

	"github.com/sokinpui/routepatch/cli"
	"github.com/sokinpui/routepatch/internal/diff"
	"github.com/sokinpui/routepatch/internal/fs"
	"github.com/sokinpui/routepatch/internal/nvim"
	"github.com/sokinpui/routepatch/internal/patcher"
	"github.com/sokinpui/routepatch/internal/rules"
	"github.com/sokinpui/routepatch/internal/state"
	"github.com/sokinpui/routepatch/model"
)

// App orchestrates one routepatch run.
type App struct {
	cfg          *cli.Config
	store        *fs.Store
	path         string
	replacements []model.Replacement
}

// DetailedError enhances a standard error with a stack trace.
type DetailedError struct {
	Err   error
	Stack []byte
}

func (e *DetailedError) Error() string {
	return e.Err.Error()
}

func (e *DetailedError) Unwrap() error {
	return e.Err
}

// New creates a new App instance. A rules file, when given, overrides the
// file and route flags.
func New(cfg *cli.Config) (*App, error) {
	ruleSet := &rules.File{File: cfg.File, From: cfg.From, To: cfg.To, Keys: cfg.Keys}
	if cfg.RulesFile != "" {
		loaded, err := rules.Load(cfg.RulesFile)
		if err != nil {
			return nil, err
		}
		ruleSet = loaded
	}
	ruleSet.Normalize()
	if err := ruleSet.Validate(); err != nil {
		return nil, err
	}

	resolver, err := fs.NewPathResolver(cfg.LookupDirs)
	if err != nil {
		return nil, err
	}

	return &App{
		cfg:          cfg,
		store:        fs.NewStore(),
		path:         resolver.Resolve(ruleSet.File),
		replacements: ruleSet.List(),
	}, nil
}

// Path returns the resolved bundle path.
func (a *App) Path() string {
	return a.path
}

// Replacements returns the ordered replacement list.
func (a *App) Replacements() []model.Replacement {
	return a.replacements
}

// Execute runs the mode selected by the flags.
func (a *App) Execute(ctx context.Context) (summary model.Summary, err error) {
	// Centralized panic recovery.
	defer func() {
		if r := recover(); r != nil {
			err = &DetailedError{
				Err:   fmt.Errorf("internal panic: %v", r),
				Stack: debug.Stack(),
			}
		}
	}()

	switch {
	case a.cfg.Undo:
		return a.undoLastPatch(ctx)
	case a.cfg.Redo:
		return a.redoLastPatch(ctx)
	default:
		return a.patch(ctx)
	}
}

// patch reads the bundle, applies every replacement and writes the result
// back only when the content changed.
func (a *App) patch(ctx context.Context) (model.Summary, error) {
	before, err := a.store.Read(ctx, a.path)
	if err != nil {
		return model.Summary{}, err
	}

	after, steps := patcher.Apply(before, a.replacements)
	summary := model.Summary{
		Path:    displayPath(a.path),
		Steps:   steps,
		Changed: after != before,
	}
	if !summary.Changed {
		return summary, nil
	}

	switch {
	case a.cfg.DryRun:
		unified, err := diff.Unified(summary.Path, before, after)
		if err != nil {
			return summary, errors.Wrap(err, "failed to render diff")
		}
		summary.Diff = unified
		summary.Message = "DRY RUN: file not written."
		return summary, nil
	case a.cfg.Buffer:
		manager, err := nvim.New(a.cfg.NvimAddr)
		if err != nil {
			return summary, err
		}
		defer manager.Close()
		if err := manager.UpdateBuffer(a.path, after); err != nil {
			return summary, err
		}
		summary.Message = "Neovim buffer updated; file not written."
		return summary, nil
	}

	if err := a.store.Write(ctx, a.path, after); err != nil {
		return summary, err
	}
	summary.Written = true

	a.record(before, after)
	a.reloadEditor()
	return summary, nil
}

// record keeps the run in the undo history. Failing to do so does not undo
// the write.
func (a *App) record(before, after string) {
	manager, err := state.New(a.cfg.StateDir)
	if err != nil {
		logrus.Warnf("undo history unavailable: %v", err)
		return
	}
	if _, err := manager.Record(a.path, before, after); err != nil {
		logrus.Warnf("failed to record undo history: %v", err)
	}
}

// reloadEditor asks a running Neovim, if any, to pick up the new content.
func (a *App) reloadEditor() {
	manager, err := nvim.New(a.cfg.NvimAddr)
	if err != nil {
		if !errors.Is(err, nvim.ErrNoInstance) {
			logrus.Debugf("skipping neovim reload: %v", err)
		}
		return
	}
	defer manager.Close()
	if err := manager.Reload(); err != nil {
		logrus.Debugf("neovim checktime failed: %v", err)
	}
}

func (a *App) writeOperation(ctx context.Context) state.ApplyFunc {
	return func(op state.Operation, content string) error {
		return a.store.Write(ctx, op.Path, content)
	}
}

// undoLastPatch restores the content replaced by the last recorded patch.
func (a *App) undoLastPatch(ctx context.Context) (model.Summary, error) {
	manager, err := state.New(a.cfg.StateDir)
	if err != nil {
		return model.Summary{}, err
	}
	ops, err := manager.Undo(a.writeOperation(ctx))
	if errors.Is(err, state.ErrNothingToUndo) {
		return model.Summary{Message: "No operation to undo."}, nil
	}
	if err != nil {
		return model.Summary{}, err
	}
	a.reloadEditor()
	return historySummary(ops, "Undid last patch of %s."), nil
}

// redoLastPatch reapplies the last undone patch.
func (a *App) redoLastPatch(ctx context.Context) (model.Summary, error) {
	manager, err := state.New(a.cfg.StateDir)
	if err != nil {
		return model.Summary{}, err
	}
	ops, err := manager.Redo(a.writeOperation(ctx))
	if errors.Is(err, state.ErrNothingToRedo) {
		return model.Summary{Message: "No operation to redo."}, nil
	}
	if err != nil {
		return model.Summary{}, err
	}
	a.reloadEditor()
	return historySummary(ops, "Redid last undone patch of %s."), nil
}

func historySummary(ops []state.Operation, format string) model.Summary {
	var path string
	if len(ops) > 0 {
		path = displayPath(ops[0].Path)
	}
	return model.Summary{
		Path:    path,
		Changed: true,
		Message: fmt.Sprintf(format, path),
	}
}

// displayPath makes p relative to the working directory for cleaner display.
func displayPath(p string) string {
	wd, err := os.Getwd()
	if err != nil {
		return p
	}
	rel, err := filepath.Rel(wd, p)
	if err != nil {
		return p
	}
	return rel
}
