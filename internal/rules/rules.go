package rules

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"

	"github.com/sokinpui/routepatch/model"
)

const (
	DefaultFile = "assets/index-DyCuOWM7.js"
	DefaultFrom = "/founder"
	DefaultTo   = "/founder-bhanudeep"
)

// DefaultKeys are the object keys a route string is attached to in the bundle:
// route definitions use `path`, links use `to`.
var DefaultKeys = []string{"path", "to"}

var ErrEmptyTarget = errors.New("replacement target must not be empty")

// File is the on-disk rules format.
type File struct {
	File         string              `yaml:"file"`
	From         string              `yaml:"from"`
	To           string              `yaml:"to"`
	Keys         []string            `yaml:"keys"`
	Replacements []model.Replacement `yaml:"replacements"`
}

// Default builds the literal replacement list for moving a route. Each key
// yields its spaced form first, then its compact form.
func Default(from, to string, keys []string) []model.Replacement {
	reps := make([]model.Replacement, 0, len(keys)*2)
	for _, key := range keys {
		reps = append(reps,
			model.Replacement{
				Target:      fmt.Sprintf(`%s: "%s"`, key, from),
				Replacement: fmt.Sprintf(`%s: "%s"`, key, to),
			},
			model.Replacement{
				Target:      fmt.Sprintf(`%s:"%s"`, key, from),
				Replacement: fmt.Sprintf(`%s:"%s"`, key, to),
			},
		)
	}
	return reps
}

// Load reads a YAML rules file. Missing fields fall back to the defaults.
func Load(path string) (*File, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, errors.Wrapf(err, "invalid rules path %q", path)
	}
	data, err := os.ReadFile(abs)
	if err != nil {
		return nil, errors.Wrap(err, "failed to read rules file")
	}

	f := &File{}
	if err := yaml.Unmarshal(data, f); err != nil {
		return nil, errors.Wrapf(err, "failed to parse rules file %s", path)
	}
	f.Normalize()
	if err := f.Validate(); err != nil {
		return nil, err
	}
	return f, nil
}

// Normalize fills empty fields with the defaults.
func (f *File) Normalize() {
	if f.File == "" {
		f.File = DefaultFile
	}
	if f.From == "" {
		f.From = DefaultFrom
	}
	if f.To == "" {
		f.To = DefaultTo
	}
	if len(f.Keys) == 0 {
		f.Keys = DefaultKeys
	}
}

// Validate rejects replacements that would match everywhere.
func (f *File) Validate() error {
	for i, r := range f.Replacements {
		if r.Target == "" {
			return errors.Wrapf(ErrEmptyTarget, "replacement #%d", i+1)
		}
	}
	return nil
}

// List returns the explicit replacements when given, otherwise the list
// derived from From, To and Keys.
func (f *File) List() []model.Replacement {
	if len(f.Replacements) > 0 {
		return f.Replacements
	}
	return Default(f.From, f.To, f.Keys)
}
