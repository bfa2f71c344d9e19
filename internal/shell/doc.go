// SPDX-License-Identifier: MPL-2.0

// Package shell is the interpreter core: per-line dispatch (aliases,
// built-ins, explicit and PATH-resolved scripts), strict script execution,
// the stateful tab-completion engine, and the interactive session loop
// that ties them to a line editor. All durable state (environment, history,
// the VFS itself) persists through the storage backend on every mutation.
package shell
