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
)

// SettingColorScheme selects the markdown render style (dark or light).
const SettingColorScheme = "color_scheme"

// Settings is the persisted display settings record: a flat string map
// written through on every mutation, like the environment.
type Settings struct {
	mu      sync.Mutex
	backend storage.Backend
	logger  *log.Logger
	values  map[string]string
}

// NewSettings loads the persisted display settings, starting empty on a
// missing or invalid record.
func NewSettings(backend storage.Backend, logger *log.Logger) (*Settings, error) {
	if logger == nil {
		logger = log.Default()
	}
	s := &Settings{backend: backend, logger: logger.WithPrefix("settings")}

	data, ok, err := backend.Get(storage.KeyConfig)
	if err != nil {
		return nil, fmt.Errorf("load settings: %w", err)
	}
	if ok {
		if err := json.Unmarshal(data, &s.values); err != nil {
			s.logger.Warn("persisted settings invalid, starting fresh")
			s.values = nil
		}
	}
	if s.values == nil {
		s.values = make(map[string]string)
	}
	return s, nil
}

// Get returns the value bound to key.
func (s *Settings) Get(key string) (string, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	v, ok := s.values[key]
	return v, ok
}

// GetDefault returns the value bound to key, or fallback when unset.
func (s *Settings) GetDefault(key, fallback string) string {
	if v, ok := s.Get(key); ok {
		return v
	}
	return fallback
}

// Set binds key to value and persists the record.
func (s *Settings) Set(key, value string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.values[key] = value
	data, err := json.Marshal(s.values)
	if err != nil {
		return fmt.Errorf("serialize settings: %w", err)
	}
	if err := s.backend.Put(storage.KeyConfig, data); err != nil {
		return fmt.Errorf("persist settings: %w", err)
	}
	return nil
}

// Keys returns the bound setting keys in sorted order.
func (s *Settings) Keys() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	keys := maps.Keys(s.values)
	slices.Sort(keys)
	return keys
}
