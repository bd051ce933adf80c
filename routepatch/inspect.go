package routepatch

import (
	"context"

	"github.com/atotto/clipboard"
	"github.com/sirupsen/logrus"

	"github.com/sokinpui/routepatch/cli"
	"github.com/sokinpui/routepatch/internal/fs"
	"github.com/sokinpui/routepatch/internal/inspector"
	"github.com/sokinpui/routepatch/model"
)

// Inspector finds a route object in the bundle without touching it.
type Inspector struct {
	cfg   *cli.InspectConfig
	store *fs.Store
	path  string
}

// NewInspector creates an Inspector for cfg.
func NewInspector(cfg *cli.InspectConfig) (*Inspector, error) {
	resolver, err := fs.NewPathResolver(cfg.LookupDirs)
	if err != nil {
		return nil, err
	}
	route := cfg.Route
	if route == "" {
		route = inspector.DefaultRoute
	}
	return &Inspector{
		cfg:   &cli.InspectConfig{File: cfg.File, Route: route, Copy: cfg.Copy},
		store: fs.NewStore(),
		path:  resolver.Resolve(cfg.File),
	}, nil
}

// Run reads the bundle and returns the first route object, if any.
func (i *Inspector) Run(ctx context.Context) (model.Match, bool, error) {
	content, err := i.store.Read(ctx, i.path)
	if err != nil {
		return model.Match{}, false, err
	}

	m, ok := inspector.InspectRoute(content, i.cfg.Route)
	if ok && i.cfg.Copy {
		if err := clipboard.WriteAll(m.Text); err != nil {
			logrus.Warnf("failed to copy match to clipboard: %v", err)
		}
	}
	return m, ok, nil
}
