// SPDX-License-Identifier: MPL-2.0

package storage

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/charmbracelet/log"
)

// FileBackend keeps one <key>.json file per record under a state directory.
// Writes go through a temp file followed by an atomic rename, so a crash
// mid-write leaves the previous document intact.
type FileBackend struct {
	dir    string
	logger *log.Logger
}

// NewFileBackend creates the state directory if needed and returns a backend
// rooted at it.
func NewFileBackend(dir string, logger *log.Logger) (*FileBackend, error) {
	if logger == nil {
		logger = log.Default()
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create state directory %s: %w", dir, err)
	}
	return &FileBackend{dir: dir, logger: logger.WithPrefix("storage")}, nil
}

// Dir returns the state directory the backend writes into.
func (b *FileBackend) Dir() string { return b.dir }

func (b *FileBackend) recordPath(key string) (string, error) {
	// Keys are fixed identifiers, but reject anything that would escape the
	// state directory in case a caller ever passes user input.
	if key == "" || strings.ContainsAny(key, `/\`) {
		return "", fmt.Errorf("invalid record key %q", key)
	}
	return filepath.Join(b.dir, key+".json"), nil
}

// Get reads the document stored under key.
func (b *FileBackend) Get(key string) ([]byte, bool, error) {
	path, err := b.recordPath(key)
	if err != nil {
		return nil, false, err
	}
	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("read record %s: %w", key, err)
	}
	return data, true, nil
}

// Put atomically replaces the document stored under key.
func (b *FileBackend) Put(key string, data []byte) error {
	path, err := b.recordPath(key)
	if err != nil {
		return err
	}
	tmp, err := os.CreateTemp(b.dir, key+".*.tmp")
	if err != nil {
		return fmt.Errorf("stage record %s: %w", key, err)
	}
	tmpName := tmp.Name()
	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return fmt.Errorf("stage record %s: %w", key, err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("stage record %s: %w", key, err)
	}
	if err := os.Rename(tmpName, path); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("commit record %s: %w", key, err)
	}
	b.logger.Debug("record written", "key", key, "bytes", len(data))
	return nil
}

// Delete removes the document stored under key, ignoring missing records.
func (b *FileBackend) Delete(key string) error {
	path, err := b.recordPath(key)
	if err != nil {
		return err
	}
	if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("delete record %s: %w", key, err)
	}
	return nil
}
