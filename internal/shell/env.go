// SPDX-License-Identifier: MPL-2.0

package shell

import (
	"encoding/json"
	"fmt"
	"sync"

	"github.com/charmbracelet/log"
	"golang.org/x/exp/maps"
	"golang.org/x/exp/slices"

	"clamshell/internal/storage"
	"clamshell/internal/vfs"
)

// DefaultPathDir is the PATH entry every environment carries. It is
// force-appended on load when missing so script lookup always has a home.
const DefaultPathDir = "/bin"

// envRecord is the durable document under the "env" key. The field names
// match the record format the shell has always persisted.
type envRecord struct {
	Path  []string          `json:"PATH"`
	Alias map[string]string `json:"ALIAS"`
}

// Environment holds the shell's PATH and alias table. It is not part of the
// VFS tree; it persists as a sibling record and is written through on every
// mutation, like the store.
type Environment struct {
	mu      sync.Mutex
	backend storage.Backend
	logger  *log.Logger
	path    []string
	alias   map[string]string
}

// NewEnvironment loads the persisted environment, falling back to defaults
// on a missing or invalid record.
func NewEnvironment(backend storage.Backend, logger *log.Logger) (*Environment, error) {
	if logger == nil {
		logger = log.Default()
	}
	e := &Environment{backend: backend, logger: logger.WithPrefix("env")}

	data, ok, err := backend.Get(storage.KeyEnv)
	if err != nil {
		return nil, fmt.Errorf("load environment: %w", err)
	}
	var rec envRecord
	if ok {
		if err := json.Unmarshal(data, &rec); err != nil {
			e.logger.Warn("persisted environment invalid, starting fresh")
			rec = envRecord{}
		}
	}
	e.path = rec.Path
	e.alias = rec.Alias
	if e.alias == nil {
		e.alias = make(map[string]string)
	}
	if !slices.Contains(e.path, DefaultPathDir) {
		e.path = append(e.path, DefaultPathDir)
	}
	return e, nil
}

// persist writes the record through the backend. Callers hold e.mu.
func (e *Environment) persist() error {
	data, err := json.Marshal(envRecord{Path: e.path, Alias: e.alias})
	if err != nil {
		return fmt.Errorf("serialize environment: %w", err)
	}
	if err := e.backend.Put(storage.KeyEnv, data); err != nil {
		return fmt.Errorf("persist environment: %w", err)
	}
	return nil
}

// Alias returns the expansion bound to name.
func (e *Environment) Alias(name string) (string, bool) {
	e.mu.Lock()
	defer e.mu.Unlock()
	exp, ok := e.alias[name]
	return exp, ok
}

// SetAlias binds name to expansion.
func (e *Environment) SetAlias(name, expansion string) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.alias[name] = expansion
	return e.persist()
}

// RemoveAlias unbinds name, reporting whether it was bound.
func (e *Environment) RemoveAlias(name string) (bool, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if _, ok := e.alias[name]; !ok {
		return false, nil
	}
	delete(e.alias, name)
	return true, e.persist()
}

// AliasNames returns the bound alias names in sorted order.
func (e *Environment) AliasNames() []string {
	e.mu.Lock()
	defer e.mu.Unlock()
	names := maps.Keys(e.alias)
	slices.Sort(names)
	return names
}

// PathDirs returns a copy of the PATH entries in search order.
func (e *Environment) PathDirs() []string {
	e.mu.Lock()
	defer e.mu.Unlock()
	out := make([]string, len(e.path))
	copy(out, e.path)
	return out
}

// AddPathDir appends an absolute folder path to PATH, ignoring duplicates.
func (e *Environment) AddPathDir(dir string) error {
	canonical := vfs.DisplayPath(vfs.Resolve(nil, dir))
	e.mu.Lock()
	defer e.mu.Unlock()
	if slices.Contains(e.path, canonical) {
		return nil
	}
	e.path = append(e.path, canonical)
	return e.persist()
}

// RemovePathDir removes a PATH entry, reporting whether it was present.
func (e *Environment) RemovePathDir(dir string) (bool, error) {
	canonical := vfs.DisplayPath(vfs.Resolve(nil, dir))
	e.mu.Lock()
	defer e.mu.Unlock()
	i := slices.Index(e.path, canonical)
	if i < 0 {
		return false, nil
	}
	e.path = slices.Delete(e.path, i, i+1)
	return true, e.persist()
}
