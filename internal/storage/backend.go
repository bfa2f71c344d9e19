// SPDX-License-Identifier: MPL-2.0

package storage

// Well-known record keys. Every durable piece of shell state lives under
// exactly one of these.
const (
	KeyVFS          = "vfs"
	KeyEnv          = "env"
	KeyHistory      = "history"
	KeyHistoryLimit = "history-limit"
	KeyConfig       = "config"
)

// Backend stores serialized records by logical key.
//
// Implementations must make Put atomic with respect to crashes: a reader
// observes either the previous document or the new one, never a torn write.
type Backend interface {
	// Get returns the stored document for key. The second return value is
	// false when no document exists; that is not an error.
	Get(key string) ([]byte, bool, error)

	// Put replaces the document stored under key.
	Put(key string, data []byte) error

	// Delete removes the document stored under key. Deleting a missing key
	// is a no-op.
	Delete(key string) error
}
