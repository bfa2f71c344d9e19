// SPDX-License-Identifier: MPL-2.0

// Package sshserver exposes the shell over SSH using the Wish library.
// Each accepted connection runs its own shell session against the shared
// state backend.
package sshserver
