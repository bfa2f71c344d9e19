// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"context"
	"fmt"
	"io"
	"os"

	xterm "golang.org/x/term"

	"clamshell/internal/shell"
)

// stdioReadWriter joins stdin and stdout into the io.ReadWriter the line
// editor expects.
type stdioReadWriter struct {
	in  io.Reader
	out io.Writer
}

func (s stdioReadWriter) Read(p []byte) (int, error)  { return s.in.Read(p) }
func (s stdioReadWriter) Write(p []byte) (int, error) { return s.out.Write(p) }

// runInteractiveShell puts the local terminal into raw mode and drives one
// shell session over it.
func runInteractiveShell(ctx context.Context) error {
	fd := int(os.Stdin.Fd())
	if !xterm.IsTerminal(fd) {
		return fmt.Errorf("standard input is not a terminal (use 'clamshell run' for scripts)")
	}

	state, err := openShellState(ctx)
	if err != nil {
		return err
	}

	oldState, err := xterm.MakeRaw(fd)
	if err != nil {
		return fmt.Errorf("failed to enter raw mode: %w", err)
	}
	defer func() { _ = xterm.Restore(fd, oldState) }()

	rw := stdioReadWriter{in: os.Stdin, out: os.Stdout}
	session := shell.NewSession(state.store, state.env, state.history, state.settings, rw, state.logger)
	return session.Run(ctx, rw)
}
