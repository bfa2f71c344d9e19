// SPDX-License-Identifier: MPL-2.0

package vfs

import (
	"errors"
	"fmt"
)

var (
	// ErrNotFound indicates a path segment does not resolve to an existing
	// node of the expected kind.
	ErrNotFound = errors.New("no such file or directory")

	// ErrAlreadyExists indicates a same-named entry already occupies the
	// target folder.
	ErrAlreadyExists = errors.New("already exists")

	// ErrNotEmpty indicates an attempt to remove a folder that still has
	// children.
	ErrNotEmpty = errors.New("directory not empty")

	// ErrInvalidName indicates a bare name that is empty or contains a
	// path separator.
	ErrInvalidName = errors.New("invalid name")
)

// Error wraps a store failure with the operation and the path it targeted.
type Error struct {
	Op   string
	Path string
	Err  error
}

// Error implements the error interface.
func (e *Error) Error() string {
	if e.Path == "" {
		return fmt.Sprintf("%s: %v", e.Op, e.Err)
	}
	return fmt.Sprintf("%s %s: %v", e.Op, e.Path, e.Err)
}

// Unwrap supports errors.Is/As against the sentinel errors.
func (e *Error) Unwrap() error {
	return e.Err
}

func newError(op, path string, err error) *Error {
	return &Error{Op: op, Path: path, Err: err}
}
