// SPDX-License-Identifier: MPL-2.0

package term

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// ErrInterrupted reports that the user cancelled the current line (Ctrl+C).
var ErrInterrupted = errors.New("interrupted")

type (
	// CompletionResult is what the completion engine hands back for one
	// request. An empty Line means the input is unchanged; Candidates, when
	// non-empty, are displayed below the prompt with ActiveIndex marked.
	CompletionResult struct {
		Line        string
		Candidates  []string
		ActiveIndex int
		NoMatch     bool
	}

	// Completer is the stateful completion engine. Complete is called on
	// Tab (backward on Shift+Tab); Invalidate on any other keystroke so the
	// engine can discard its cycling session.
	Completer interface {
		Complete(line string, backward bool) CompletionResult
		Invalidate()
	}

	// HistoryProvider exposes past input lines, oldest first.
	HistoryProvider struct {
		Lines func() []string
	}

	// Editor reads edited lines from a raw-mode terminal. Editing happens
	// at the end of the line; Up/Down walk history, Tab cycles completion.
	Editor struct {
		rw        io.ReadWriter
		in        *bufio.Reader
		prompt    func() string
		completer Completer
		history   HistoryProvider

		markerStyle lipgloss.Style
		dimStyle    lipgloss.Style
	}

	// Option configures an Editor.
	Option func(*Editor)
)

// WithPrompt sets the prompt callback, re-evaluated before every render.
func WithPrompt(prompt func() string) Option {
	return func(e *Editor) { e.prompt = prompt }
}

// WithCompleter attaches a completion engine.
func WithCompleter(c Completer) Option {
	return func(e *Editor) { e.completer = c }
}

// WithHistory attaches a history source for Up/Down navigation.
func WithHistory(lines func() []string) Option {
	return func(e *Editor) { e.history = HistoryProvider{Lines: lines} }
}

// NewEditor wraps rw, which must already be in raw mode.
func NewEditor(rw io.ReadWriter, opts ...Option) *Editor {
	e := &Editor{
		rw:          rw,
		in:          bufio.NewReader(rw),
		prompt:      func() string { return "> " },
		markerStyle: lipgloss.NewStyle().Reverse(true),
		dimStyle:    lipgloss.NewStyle().Faint(true),
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// render redraws the prompt and the current buffer on the active row.
func (e *Editor) render(buf []rune) {
	fmt.Fprintf(e.rw, "\r\x1b[K%s%s", e.prompt(), string(buf))
}

// showCandidates prints the candidate list on its own line, marking the
// active index, then returns to a fresh prompt row.
func (e *Editor) showCandidates(candidates []string, active int) {
	parts := make([]string, len(candidates))
	for i, c := range candidates {
		if i == active {
			parts[i] = e.markerStyle.Render(c)
		} else {
			parts[i] = e.dimStyle.Render(c)
		}
	}
	fmt.Fprintf(e.rw, "\r\n%s\r\n", strings.Join(parts, "  "))
}

// ReadLine reads one edited line. It returns ErrInterrupted on Ctrl+C and
// io.EOF on Ctrl+D at an empty line.
func (e *Editor) ReadLine(ctx context.Context) (string, error) {
	var buf []rune
	histLines := []string(nil)
	if e.history.Lines != nil {
		histLines = e.history.Lines()
	}
	histIdx := len(histLines)
	draft := ""

	invalidate := func() {
		if e.completer != nil {
			e.completer.Invalidate()
		}
	}

	e.render(buf)
	for {
		if err := ctx.Err(); err != nil {
			return "", err
		}
		r, _, err := e.in.ReadRune()
		if err != nil {
			if len(buf) > 0 {
				return string(buf), nil
			}
			return "", err
		}

		switch r {
		case '\r', '\n':
			invalidate()
			fmt.Fprint(e.rw, "\r\n")
			return string(buf), nil

		case 0x03: // Ctrl+C
			invalidate()
			fmt.Fprint(e.rw, "^C\r\n")
			return "", ErrInterrupted

		case 0x04: // Ctrl+D
			invalidate()
			if len(buf) == 0 {
				fmt.Fprint(e.rw, "\r\n")
				return "", io.EOF
			}

		case 0x7f, 0x08: // Backspace
			invalidate()
			if len(buf) > 0 {
				buf = buf[:len(buf)-1]
			}
			e.render(buf)

		case 0x15: // Ctrl+U
			invalidate()
			buf = buf[:0]
			e.render(buf)

		case 0x0c: // Ctrl+L
			invalidate()
			fmt.Fprint(e.rw, "\x1b[2J\x1b[H")
			e.render(buf)

		case '\t':
			buf = e.complete(buf, false)

		case 0x1b: // ESC sequence
			seq, ok := e.readEscape()
			if !ok {
				continue
			}
			switch seq {
			case "[Z": // Shift+Tab
				buf = e.complete(buf, true)
			case "[A": // Up
				invalidate()
				if histIdx > 0 {
					if histIdx == len(histLines) {
						draft = string(buf)
					}
					histIdx--
					buf = []rune(histLines[histIdx])
					e.render(buf)
				}
			case "[B": // Down
				invalidate()
				if histIdx < len(histLines) {
					histIdx++
					if histIdx == len(histLines) {
						buf = []rune(draft)
					} else {
						buf = []rune(histLines[histIdx])
					}
					e.render(buf)
				}
			default:
				// Other sequences (left/right, etc.) are ignored.
				invalidate()
			}

		default:
			if r >= ' ' {
				invalidate()
				buf = append(buf, r)
				e.render(buf)
			}
		}
	}
}

// complete forwards one completion request and applies the reply.
func (e *Editor) complete(buf []rune, backward bool) []rune {
	if e.completer == nil {
		return buf
	}
	res := e.completer.Complete(string(buf), backward)
	if res.NoMatch {
		fmt.Fprint(e.rw, "\a")
		return buf
	}
	if res.Line != "" {
		buf = []rune(res.Line)
	}
	if len(res.Candidates) > 0 {
		e.showCandidates(res.Candidates, res.ActiveIndex)
	}
	e.render(buf)
	return buf
}

// readEscape consumes the remainder of a short CSI sequence.
func (e *Editor) readEscape() (string, bool) {
	b1, err := e.in.ReadByte()
	if err != nil {
		return "", false
	}
	if b1 != '[' && b1 != 'O' {
		return string(b1), true
	}
	b2, err := e.in.ReadByte()
	if err != nil {
		return "", false
	}
	return string(b1) + string(b2), true
}
