// SPDX-License-Identifier: MPL-2.0

// Package term is the thin presentation layer: a raw-mode line editor over
// any io.ReadWriter (a local TTY or an SSH PTY). It renders the prompt,
// walks history, and forwards Tab presses to a pluggable completion engine;
// it contains no interpreter logic of its own.
package term
