package nvim

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/neovim/go-client/nvim"
	"github.com/pkg/errors"
)

// AddressEnv names the variable a running Neovim exports with its socket.
const AddressEnv = "NVIM_LISTEN_ADDRESS"

// ErrNoInstance is returned when no Neovim address is known.
var ErrNoInstance = errors.New("no running neovim instance")

// Manager handles the connection and interaction with a Neovim instance.
type Manager struct {
	nvim *nvim.Nvim
}

// New connects to the instance at addr, or at $NVIM_LISTEN_ADDRESS when
// addr is empty.
func New(addr string) (*Manager, error) {
	if addr == "" {
		addr = os.Getenv(AddressEnv)
	}
	if addr == "" {
		return nil, ErrNoInstance
	}
	v, err := nvim.Dial(addr)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to connect to neovim at %s", addr)
	}
	return &Manager{nvim: v}, nil
}

// Close disconnects from Neovim.
func (m *Manager) Close() {
	if m.nvim != nil {
		m.nvim.Close()
	}
}

// Reload makes Neovim re-read buffers whose files changed on disk.
func (m *Manager) Reload() error {
	return m.nvim.Command("checktime")
}

// fnameEscape escapes path for use as an Ex command argument, like
// fnameescape().
func fnameEscape(path string) string {
	var sb strings.Builder
	for _, r := range path {
		if strings.ContainsRune(" \t\n*?[{`$\\%#'\"|!<", r) {
			sb.WriteByte('\\')
		}
		sb.WriteRune(r)
	}
	return sb.String()
}

// UpdateBuffer opens filePath and replaces the whole buffer with content
// without writing it.
func (m *Manager) UpdateBuffer(filePath, content string) error {
	absPath, err := filepath.Abs(filePath)
	if err != nil {
		return err
	}

	lines := strings.Split(strings.TrimSuffix(content, "\n"), "\n")
	byteContent := make([][]byte, len(lines))
	for i, s := range lines {
		byteContent[i] = []byte(s)
	}

	b := m.nvim.NewBatch()
	b.Command("edit " + fnameEscape(absPath))
	b.SetBufferLines(0, 0, -1, true, byteContent)
	if err := b.Execute(); err != nil {
		return errors.Wrapf(err, "failed to update buffer for %s", filePath)
	}
	return nil
}
