// SPDX-License-Identifier: MPL-2.0

package shell

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"clamshell/internal/vfs"
)

const (
	// ScriptExt is the extension command-script files carry in the store.
	ScriptExt = ".sh"
	// explicitPrefix marks a current-directory-relative script invocation.
	explicitPrefix = "." + vfs.Separator
)

// ErrScriptFailure tags any script line failure for errors.Is checks.
var ErrScriptFailure = errors.New("script failed")

// ScriptError reports the line that aborted a command script.
type ScriptError struct {
	Script string
	Line   int
	Text   string
	Cause  error
}

// Error implements the error interface.
func (e *ScriptError) Error() string {
	return fmt.Sprintf("%s:%d: %s", e.Script, e.Line, e.Text)
}

// Unwrap reports ErrScriptFailure and the per-line cause.
func (e *ScriptError) Unwrap() error {
	if e.Cause != nil {
		return e.Cause
	}
	return ErrScriptFailure
}

// Is lets errors.Is(err, ErrScriptFailure) match regardless of cause.
func (e *ScriptError) Is(target error) bool {
	return target == ErrScriptFailure
}

// RunScript executes a command script: one command per line, strict
// dispatch, stop at the first failing line. Comment and blank lines are
// skipped by dispatch itself. Mutations already applied by earlier lines
// stay in place; there is no rollback.
func (d *Dispatcher) RunScript(ctx context.Context, s *Session, name, content string) Result {
	for i, raw := range strings.Split(content, "\n") {
		if err := ctx.Err(); err != nil {
			return resultFail(&ScriptError{Script: name, Line: i + 1, Text: "interrupted", Cause: err})
		}
		res := d.Dispatch(ctx, s, raw, Strict)
		if !res.Handled || !res.OK {
			serr := &ScriptError{Script: name, Line: i + 1, Text: strings.TrimSpace(raw), Cause: res.Err}
			s.Errorf("%s", serr)
			return Result{Handled: true, ShouldContinue: res.ShouldContinue, OK: false, Err: serr}
		}
		if !res.ShouldContinue {
			// An exit inside a script stops the script and the session.
			return res
		}
	}
	return resultOK()
}

// explicitScriptHandler recognizes "./name.sh" invocations, resolves them
// against the current directory, and executes them. A failed read reports
// an error but the command still counts as handled.
func explicitScriptHandler(ctx context.Context, s *Session, command string, _ []string) (Result, bool) {
	if !strings.HasPrefix(command, explicitPrefix) || !strings.HasSuffix(command, ScriptExt) {
		return Result{}, false
	}
	content, err := s.store.ReadFile(command)
	if err != nil {
		s.Errorf("%s: %v", command, err)
		return resultFail(err), true
	}
	return s.dispatcher.RunScript(ctx, s, command, content), true
}
