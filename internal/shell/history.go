// SPDX-License-Identifier: MPL-2.0

package shell

import (
	"encoding/json"
	"fmt"
	"strings"
	"sync"

	"github.com/charmbracelet/log"

	"clamshell/internal/storage"
)

// DefaultHistoryLimit caps the history when no limit record exists.
const DefaultHistoryLimit = 500

// History is the append-only record of past input lines, capped at a
// configurable limit with oldest-first eviction. Every append writes
// through; blank lines and immediate duplicates are never recorded.
type History struct {
	mu      sync.Mutex
	backend storage.Backend
	logger  *log.Logger
	limit   int
	lines   []string
}

// NewHistory loads persisted history and its limit record.
func NewHistory(backend storage.Backend, logger *log.Logger) (*History, error) {
	if logger == nil {
		logger = log.Default()
	}
	h := &History{backend: backend, logger: logger.WithPrefix("history"), limit: DefaultHistoryLimit}

	if data, ok, err := backend.Get(storage.KeyHistoryLimit); err != nil {
		return nil, fmt.Errorf("load history limit: %w", err)
	} else if ok {
		var limit int
		if err := json.Unmarshal(data, &limit); err == nil && limit > 0 {
			h.limit = limit
		}
	}

	if data, ok, err := backend.Get(storage.KeyHistory); err != nil {
		return nil, fmt.Errorf("load history: %w", err)
	} else if ok {
		if err := json.Unmarshal(data, &h.lines); err != nil {
			h.logger.Warn("persisted history invalid, starting fresh")
			h.lines = nil
		}
	}
	h.trim()
	return h, nil
}

// trim evicts oldest entries past the limit. Callers hold h.mu or own h.
func (h *History) trim() {
	if over := len(h.lines) - h.limit; over > 0 {
		h.lines = h.lines[over:]
	}
}

// persist writes the line record through the backend. Callers hold h.mu.
func (h *History) persist() error {
	data, err := json.Marshal(h.lines)
	if err != nil {
		return fmt.Errorf("serialize history: %w", err)
	}
	if err := h.backend.Put(storage.KeyHistory, data); err != nil {
		return fmt.Errorf("persist history: %w", err)
	}
	return nil
}

// Append records line unless it is blank or repeats the previous entry.
func (h *History) Append(line string) error {
	if strings.TrimSpace(line) == "" {
		return nil
	}
	h.mu.Lock()
	defer h.mu.Unlock()
	if n := len(h.lines); n > 0 && h.lines[n-1] == line {
		return nil
	}
	h.lines = append(h.lines, line)
	h.trim()
	return h.persist()
}

// Lines returns a copy of the recorded lines, oldest first.
func (h *History) Lines() []string {
	h.mu.Lock()
	defer h.mu.Unlock()
	out := make([]string, len(h.lines))
	copy(out, h.lines)
	return out
}

// Clear discards all recorded lines.
func (h *History) Clear() error {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.lines = nil
	return h.persist()
}

// Limit returns the active cap.
func (h *History) Limit() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.limit
}

// SetLimit persists a new cap and trims immediately.
func (h *History) SetLimit(limit int) error {
	if limit <= 0 {
		return fmt.Errorf("history limit must be positive, got %d", limit)
	}
	h.mu.Lock()
	defer h.mu.Unlock()
	h.limit = limit
	data, err := json.Marshal(limit)
	if err != nil {
		return fmt.Errorf("serialize history limit: %w", err)
	}
	if err := h.backend.Put(storage.KeyHistoryLimit, data); err != nil {
		return fmt.Errorf("persist history limit: %w", err)
	}
	h.trim()
	return h.persist()
}
