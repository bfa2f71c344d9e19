// SPDX-License-Identifier: MPL-2.0

// Package vfs implements the shell's virtual filesystem: a tree of named
// folder and file nodes with a current-directory pointer, persisted in full
// after every mutation. Paths are pure string algebra (Resolve, DisplayPath);
// existence is only checked by Store operations, which always re-resolve
// from the root rather than caching node references.
package vfs
