// SPDX-License-Identifier: MPL-2.0

// Package cmdline lexes raw shell input into quote- and escape-aware
// tokens. The lexer is pure: it never errors, reporting an unterminated
// quote as a flag while still returning everything accumulated.
package cmdline
