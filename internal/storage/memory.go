// SPDX-License-Identifier: MPL-2.0

package storage

import "sync"

// MemoryBackend is a map-backed Backend. It exists so the store and the
// shell can be exercised in tests without touching the filesystem.
type MemoryBackend struct {
	mu   sync.RWMutex
	docs map[string][]byte
}

// NewMemoryBackend returns an empty in-memory backend.
func NewMemoryBackend() *MemoryBackend {
	return &MemoryBackend{docs: make(map[string][]byte)}
}

// Get returns the stored document for key.
func (b *MemoryBackend) Get(key string) ([]byte, bool, error) {
	b.mu.RLock()
	defer b.mu.RUnlock()
	data, ok := b.docs[key]
	if !ok {
		return nil, false, nil
	}
	out := make([]byte, len(data))
	copy(out, data)
	return out, true, nil
}

// Put replaces the document stored under key.
func (b *MemoryBackend) Put(key string, data []byte) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	stored := make([]byte, len(data))
	copy(stored, data)
	b.docs[key] = stored
	return nil
}

// Delete removes the document stored under key.
func (b *MemoryBackend) Delete(key string) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	delete(b.docs, key)
	return nil
}

// Keys returns the keys that currently hold documents.
func (b *MemoryBackend) Keys() []string {
	b.mu.RLock()
	defer b.mu.RUnlock()
	keys := make([]string, 0, len(b.docs))
	for k := range b.docs {
		keys = append(keys, k)
	}
	return keys
}
