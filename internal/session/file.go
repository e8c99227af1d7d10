// internal/session/file.go
//
// JSON-file session adapter.
//
// Context
// -------
// The portal's session must survive a process restart the same way browser
// local storage survives a page reload.  This adapter mirrors the whole
// session map to one JSON file: mutations update the in-memory copy and
// rewrite the file via a temp-file rename, so a crash mid-write never
// leaves a truncated store.

package session

import (
	"context"
	"encoding/json"
	"errors"
	"io/fs"
	"maps"
	"os"
	"path/filepath"
	"sync"
)

// FileAdapter persists sessions to a single JSON file.
type FileAdapter struct {
	mu   sync.Mutex
	path string
	data map[string]map[string]string
}

// NewFileAdapter loads (or creates) the store at path.
func NewFileAdapter(path string) (*FileAdapter, error) {
	fa := &FileAdapter{path: path, data: make(map[string]map[string]string)}

	raw, err := os.ReadFile(path)
	switch {
	case errors.Is(err, fs.ErrNotExist):
		// First run; the file appears on the first write.
	case err != nil:
		return nil, err
	default:
		if len(raw) > 0 {
			if uerr := json.Unmarshal(raw, &fa.data); uerr != nil {
				return nil, uerr
			}
		}
	}
	return fa, nil
}

func (f *FileAdapter) Get(_ context.Context, sid string) (map[string]string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	vals, ok := f.data[sid]
	if !ok {
		return map[string]string{}, nil
	}
	return maps.Clone(vals), nil
}

func (f *FileAdapter) Set(_ context.Context, sid string, values map[string]string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.data[sid] = maps.Clone(values)
	return f.persistLocked()
}

func (f *FileAdapter) Clear(_ context.Context, sid string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.data[sid]; !ok {
		return nil // idempotent
	}
	delete(f.data, sid)
	return f.persistLocked()
}

// persistLocked writes the full map to a sibling temp file and renames it
// over the store.  Caller holds f.mu.
func (f *FileAdapter) persistLocked() error {
	raw, err := json.Marshal(f.data)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(f.path), 0o755); err != nil {
		return err
	}
	tmp := f.path + ".tmp"
	if err := os.WriteFile(tmp, raw, 0o600); err != nil {
		return err
	}
	return os.Rename(tmp, f.path)
}
