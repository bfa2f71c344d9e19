// SPDX-License-Identifier: MPL-2.0

package shell

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/log"
	"github.com/google/uuid"

	"clamshell/internal/cmdline"
	"clamshell/internal/term"
	"clamshell/internal/vfs"
)

// Styles groups the lipgloss styles used for session output.
type Styles struct {
	Prompt lipgloss.Style
	Error  lipgloss.Style
	Folder lipgloss.Style
}

// DefaultStyles returns the standard session styling.
func DefaultStyles() Styles {
	return Styles{
		Prompt: lipgloss.NewStyle().Foreground(lipgloss.Color("6")).Bold(true),
		Error:  lipgloss.NewStyle().Foreground(lipgloss.Color("9")),
		Folder: lipgloss.NewStyle().Foreground(lipgloss.Color("12")).Bold(true),
	}
}

// Session is one interactive shell over the shared store. It owns its
// environment view, history, dispatcher, and completion engine; output goes
// to a single writer (the local TTY or an SSH channel).
type Session struct {
	ID         string
	store      *vfs.Store
	env        *Environment
	history    *History
	settings   *Settings
	dispatcher *Dispatcher
	completer  *Completer
	out        io.Writer
	styles     Styles
	logger     *log.Logger
}

// NewSession wires a session over the given store-backed state.
func NewSession(store *vfs.Store, env *Environment, history *History, settings *Settings, out io.Writer, logger *log.Logger) *Session {
	if logger == nil {
		logger = log.Default()
	}
	id := uuid.NewString()
	logger = logger.With("session", id[:8])
	s := &Session{
		ID:       id,
		store:    store,
		env:      env,
		history:  history,
		settings: settings,
		out:      out,
		styles:   DefaultStyles(),
		logger:   logger,
	}
	s.dispatcher = NewDispatcher(store, env, logger)
	s.completer = NewCompleter(store, env, s.dispatcher, logger)
	return s
}

// Completer exposes the session's completion engine for the line editor.
func (s *Session) Completer() *Completer { return s.completer }

// History exposes the session's history for the line editor.
func (s *Session) History() *History { return s.history }

// Dispatcher exposes the dispatcher for non-interactive callers (the run
// subcommand feeds script files through it directly).
func (s *Session) Dispatcher() *Dispatcher { return s.dispatcher }

// Prompt renders the prompt for the current directory.
func (s *Session) Prompt() string {
	return s.styles.Prompt.Render(s.store.CwdPath()) + " $ "
}

// Printf writes formatted output to the session terminal. In raw mode every
// newline needs a carriage return, so \n is expanded on the way out.
func (s *Session) Printf(format string, args ...any) {
	fmt.Fprint(s.out, crlf(fmt.Sprintf(format, args...)))
}

// Println writes one output line.
func (s *Session) Println(text string) {
	s.Printf("%s\n", text)
}

// Errorf prints a user-facing error line.
func (s *Session) Errorf(format string, args ...any) {
	s.Printf("%s\n", s.styles.Error.Render(fmt.Sprintf(format, args...)))
}

func crlf(text string) string {
	var b []byte
	for i := 0; i < len(text); i++ {
		if text[i] == '\n' && (i == 0 || text[i-1] != '\r') {
			b = append(b, '\r')
		}
		b = append(b, text[i])
	}
	return string(b)
}

// Run drives the interactive loop: read a line, record it, dispatch it
// leniently, repeat until exit or EOF. Ctrl+C cancels the line, not the
// session.
func (s *Session) Run(ctx context.Context, rw io.ReadWriter) error {
	editor := term.NewEditor(rw,
		term.WithPrompt(s.Prompt),
		term.WithCompleter(s.completer),
		term.WithHistory(s.history.Lines),
	)
	s.logger.Info("session started")
	defer s.logger.Info("session ended")

	for {
		line, err := editor.ReadLine(ctx)
		switch {
		case errors.Is(err, term.ErrInterrupted):
			continue
		case errors.Is(err, io.EOF):
			return nil
		case err != nil:
			return err
		}

		if err := s.history.Append(line); err != nil {
			s.logger.Error("history append failed", "err", err)
		}

		res := s.dispatcher.Dispatch(ctx, s, line, Lenient)
		if !res.Handled {
			command, _ := cmdline.ParseCommandLine(line)
			s.Errorf("%s: command not found", command)
		}
		if !res.ShouldContinue {
			return nil
		}
	}
}
