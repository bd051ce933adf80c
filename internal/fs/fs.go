package fs

import (
	"bytes"
	"context"
	"crypto/sha256"
	"encoding/hex"
	"os"
	"path/filepath"

	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
	"github.com/viant/afs"
)

const defaultFileMode os.FileMode = 0644

// Store reads and writes whole files. Paths may be plain filesystem paths or
// any URL afs understands.
type Store struct {
	fs afs.Service
}

// NewStore creates a Store backed by the default afs service.
func NewStore() *Store {
	return &Store{fs: afs.New()}
}

// Read loads the full content of path.
func (s *Store) Read(ctx context.Context, path string) (string, error) {
	data, err := s.fs.DownloadWithURL(ctx, path)
	if err != nil {
		return "", errors.Wrapf(err, "failed to read %s", path)
	}
	logrus.WithField("path", path).Debugf("read %d bytes", len(data))
	return string(data), nil
}

// Write overwrites path with content, keeping the existing file mode.
// There is no temp file and rename: an interrupted write leaves a partial file.
func (s *Store) Write(ctx context.Context, path, content string) error {
	mode := defaultFileMode
	if info, err := os.Stat(path); err == nil {
		mode = info.Mode().Perm()
	}
	if err := s.fs.Upload(ctx, path, mode, bytes.NewReader([]byte(content))); err != nil {
		return errors.Wrapf(err, "failed to write %s", path)
	}
	logrus.WithField("path", path).Debugf("wrote %d bytes", len(content))
	return nil
}

// Exists reports whether path exists.
func (s *Store) Exists(ctx context.Context, path string) bool {
	ok, err := s.fs.Exists(ctx, path)
	return err == nil && ok
}

// PathResolver finds absolute paths for files.
type PathResolver struct {
	lookupDirs []string
}

// NewPathResolver creates a new PathResolver. Without lookup directories the
// working directory is used.
func NewPathResolver(lookupDirs []string) (*PathResolver, error) {
	if len(lookupDirs) == 0 {
		wd, err := os.Getwd()
		if err != nil {
			return nil, errors.Wrap(err, "could not get current working directory")
		}
		return &PathResolver{lookupDirs: []string{wd}}, nil
	}

	absDirs := make([]string, 0, len(lookupDirs))
	for _, dir := range lookupDirs {
		abs, err := filepath.Abs(dir)
		if err != nil {
			logrus.Warnf("invalid lookup directory '%s', ignoring: %v", dir, err)
			continue
		}
		absDirs = append(absDirs, abs)
	}
	if len(absDirs) == 0 {
		return nil, errors.New("no usable lookup directory")
	}
	return &PathResolver{lookupDirs: absDirs}, nil
}

// Resolve returns the first existing match for path, or path joined to the
// first lookup directory when none exists. Absolute paths are returned as is.
func (r *PathResolver) Resolve(path string) string {
	if filepath.IsAbs(path) {
		return path
	}
	for _, dir := range r.lookupDirs {
		absPath := filepath.Join(dir, path)
		if _, err := os.Stat(absPath); err == nil {
			return absPath
		}
	}
	return filepath.Join(r.lookupDirs[0], path)
}

// SHA256 returns the hex encoded SHA256 of content.
func SHA256(content string) string {
	sum := sha256.Sum256([]byte(content))
	return hex.EncodeToString(sum[:])
}

// FileSHA256 hashes the file at path.
func FileSHA256(path string) (string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return "", err
	}
	return SHA256(string(data)), nil
}
