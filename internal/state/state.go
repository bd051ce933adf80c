package state

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/go-git/go-git/v5"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"

	"github.com/sokinpui/routepatch/internal/fs"
)

const (
	stateDirName  = ".routepatch"
	stateFileName = "state.routepatch"
	ObjectsDir    = "objects"

	actionModify = "modify"
)

var (
	ErrNothingToUndo = errors.New("no operation to undo")
	ErrNothingToRedo = errors.New("no operation to redo")
	// ErrContentDrift means the file changed since the operation was recorded.
	ErrContentDrift = errors.New("file content does not match recorded history")
)

// Operation is one rewrite of one file.
type Operation struct {
	Action     string
	Path       string
	BeforeHash string
	AfterHash  string
}

// HistoryEntry represents one complete run of the tool.
type HistoryEntry struct {
	Timestamp  int64
	Operations []Operation
}

// State represents the entire state file.
type State struct {
	History      []HistoryEntry
	CurrentIndex int
}

// ApplyFunc writes content to the operation's file.
type ApplyFunc func(op Operation, content string) error

// Manager handles the lifecycle of the state file and content snapshots.
type Manager struct {
	statePath string
	state     *State
	StateDir  string
}

// FindRoot returns the top of the git worktree containing dir, or dir itself
// when it is not inside a repository.
func FindRoot(dir string) string {
	repo, err := git.PlainOpenWithOptions(dir, &git.PlainOpenOptions{DetectDotGit: true})
	if err != nil {
		return dir
	}
	wt, err := repo.Worktree()
	if err != nil {
		return dir
	}
	return wt.Filesystem.Root()
}

// New creates and loads a state manager rooted at rootDir. An empty rootDir
// means the repository root of the working directory.
func New(rootDir string) (*Manager, error) {
	if rootDir == "" {
		wd, err := os.Getwd()
		if err != nil {
			return nil, errors.Wrap(err, "could not get current working directory")
		}
		rootDir = FindRoot(wd)
	}

	stateDir := filepath.Join(rootDir, stateDirName)
	if err := os.MkdirAll(filepath.Join(stateDir, ObjectsDir), 0755); err != nil {
		return nil, errors.Wrap(err, "could not create state directory")
	}
	m := &Manager{
		statePath: filepath.Join(stateDir, stateFileName),
		StateDir:  stateDir,
	}
	if err := m.load(); err != nil {
		logrus.Warnf("discarding unreadable history %s: %v", m.statePath, err)
		m.state = &State{CurrentIndex: -1}
	}
	return m, nil
}

func (m *Manager) load() error {
	m.state = &State{CurrentIndex: -1}

	data, err := os.ReadFile(m.statePath)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return err
	}

	content := strings.ReplaceAll(string(data), "\r\n", "\n")
	blocks := strings.Split(content, "\n\n")
	if len(blocks) == 0 || strings.TrimSpace(blocks[0]) == "" {
		return nil
	}

	index, err := strconv.Atoi(strings.TrimSpace(blocks[0]))
	if err != nil {
		return errors.Wrap(err, "invalid state file: could not parse current index")
	}

	var history []HistoryEntry
	for _, block := range blocks[1:] {
		block = strings.TrimSpace(block)
		if block == "" {
			continue
		}
		lines := strings.Split(block, "\n")

		ts, err := strconv.ParseInt(lines[0], 10, 64)
		if err != nil {
			return errors.Wrapf(err, "invalid state file: could not parse timestamp from '%s'", lines[0])
		}

		entry := HistoryEntry{Timestamp: ts}
		opLines := lines[1:]
		if len(opLines)%4 != 0 {
			return errors.New("invalid state file: incomplete operation record")
		}
		for i := 0; i < len(opLines); i += 4 {
			entry.Operations = append(entry.Operations, Operation{
				Action:     opLines[i],
				Path:       opLines[i+1],
				BeforeHash: opLines[i+2],
				AfterHash:  opLines[i+3],
			})
		}
		history = append(history, entry)
	}

	if index >= len(history) {
		return errors.Errorf("invalid state file: index %d out of range", index)
	}
	m.state = &State{CurrentIndex: index, History: history}
	return nil
}

func (m *Manager) save() error {
	blocks := []string{strconv.Itoa(m.state.CurrentIndex)}

	for _, entry := range m.state.History {
		var b strings.Builder
		b.WriteString(fmt.Sprintf("%d", entry.Timestamp))
		for _, op := range entry.Operations {
			b.WriteString("\n" + strings.Join([]string{op.Action, op.Path, op.BeforeHash, op.AfterHash}, "\n"))
		}
		blocks = append(blocks, b.String())
	}

	content := strings.Join(blocks, "\n\n") + "\n"
	if err := os.WriteFile(m.statePath, []byte(content), 0644); err != nil {
		return errors.Wrap(err, "failed to save history")
	}
	return nil
}

func (m *Manager) objectPath(hash string) string {
	return filepath.Join(m.StateDir, ObjectsDir, hash)
}

func (m *Manager) storeObject(content string) (string, error) {
	hash := fs.SHA256(content)
	path := m.objectPath(hash)
	if _, err := os.Stat(path); err == nil {
		return hash, nil
	}
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		return "", errors.Wrap(err, "failed to store snapshot")
	}
	return hash, nil
}

// Snapshot returns the content stored under hash.
func (m *Manager) Snapshot(hash string) (string, error) {
	data, err := os.ReadFile(m.objectPath(hash))
	if err != nil {
		return "", errors.Wrapf(err, "missing snapshot %s", hash)
	}
	return string(data), nil
}

// Record stores both versions of path and appends a history entry. Any
// undone entries past the current one are dropped.
func (m *Manager) Record(path, before, after string) (Operation, error) {
	beforeHash, err := m.storeObject(before)
	if err != nil {
		return Operation{}, err
	}
	afterHash, err := m.storeObject(after)
	if err != nil {
		return Operation{}, err
	}
	abs, err := filepath.Abs(path)
	if err != nil {
		return Operation{}, errors.Wrapf(err, "invalid path %s", path)
	}
	op := Operation{Action: actionModify, Path: abs, BeforeHash: beforeHash, AfterHash: afterHash}

	if m.state.CurrentIndex < len(m.state.History)-1 {
		m.state.History = m.state.History[:m.state.CurrentIndex+1]
	}
	m.state.History = append(m.state.History, HistoryEntry{
		Timestamp:  time.Now().UTC().Unix(),
		Operations: []Operation{op},
	})
	m.state.CurrentIndex++
	return op, m.save()
}

// Undo restores the content every operation of the current entry replaced,
// then moves the history pointer back.
func (m *Manager) Undo(apply ApplyFunc) ([]Operation, error) {
	if m.state.CurrentIndex < 0 {
		return nil, ErrNothingToUndo
	}
	ops := m.state.History[m.state.CurrentIndex].Operations
	for _, op := range ops {
		if err := m.restore(op, op.AfterHash, op.BeforeHash, apply); err != nil {
			return nil, err
		}
	}
	m.state.CurrentIndex--
	return ops, m.save()
}

// Redo reapplies the entry after the history pointer.
func (m *Manager) Redo(apply ApplyFunc) ([]Operation, error) {
	next := m.state.CurrentIndex + 1
	if next >= len(m.state.History) {
		return nil, ErrNothingToRedo
	}
	ops := m.state.History[next].Operations
	for _, op := range ops {
		if err := m.restore(op, op.BeforeHash, op.AfterHash, apply); err != nil {
			return nil, err
		}
	}
	m.state.CurrentIndex = next
	return ops, m.save()
}

func (m *Manager) restore(op Operation, expectHash, targetHash string, apply ApplyFunc) error {
	current, err := fs.FileSHA256(op.Path)
	if err != nil {
		return errors.Wrapf(err, "failed to hash %s", op.Path)
	}
	if current != expectHash {
		return errors.Wrap(ErrContentDrift, op.Path)
	}
	content, err := m.Snapshot(targetHash)
	if err != nil {
		return err
	}
	return apply(op, content)
}

// Len reports the number of recorded entries and the current index.
func (m *Manager) Len() (int, int) {
	return len(m.state.History), m.state.CurrentIndex
}
