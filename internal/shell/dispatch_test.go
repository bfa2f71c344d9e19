// SPDX-License-Identifier: MPL-2.0

package shell

import (
	"bytes"
	"context"
	"errors"
	"reflect"
	"strings"
	"testing"

	"clamshell/internal/storage"
	"clamshell/internal/vfs"
)

// newTestSession builds a session over an in-memory backend.
func newTestSession(t *testing.T) (*Session, *bytes.Buffer) {
	t.Helper()
	backend := storage.NewMemoryBackend()
	store, err := vfs.NewStore(backend, nil)
	if err != nil {
		t.Fatalf("NewStore() error = %v", err)
	}
	env, err := NewEnvironment(backend, nil)
	if err != nil {
		t.Fatalf("NewEnvironment() error = %v", err)
	}
	history, err := NewHistory(backend, nil)
	if err != nil {
		t.Fatalf("NewHistory() error = %v", err)
	}
	settings, err := NewSettings(backend, nil)
	if err != nil {
		t.Fatalf("NewSettings() error = %v", err)
	}
	var out bytes.Buffer
	return NewSession(store, env, history, settings, &out, nil), &out
}

func dispatch(t *testing.T, s *Session, line string, mode Mode) Result {
	t.Helper()
	return s.dispatcher.Dispatch(context.Background(), s, line, mode)
}

func TestDispatchBuiltin(t *testing.T) {
	t.Parallel()
	s, out := newTestSession(t)

	res := dispatch(t, s, "echo hello world", Lenient)
	if !res.Handled || !res.OK {
		t.Fatalf("Dispatch(echo) = %+v, want handled ok", res)
	}
	if !strings.Contains(out.String(), "hello world") {
		t.Errorf("output = %q, want hello world", out.String())
	}
}

func TestDispatchIsCaseInsensitive(t *testing.T) {
	t.Parallel()
	s, _ := newTestSession(t)

	if res := dispatch(t, s, "PWD", Lenient); !res.Handled || !res.OK {
		t.Errorf("Dispatch(PWD) = %+v, want handled ok", res)
	}
}

func TestDispatchBlankAndComments(t *testing.T) {
	t.Parallel()
	s, out := newTestSession(t)

	for _, line := range []string{"", "   ", "# a comment", "// another"} {
		res := dispatch(t, s, line, Lenient)
		if !res.Handled || !res.OK {
			t.Errorf("Dispatch(%q) = %+v, want no-op success", line, res)
		}
	}
	if out.Len() != 0 {
		t.Errorf("no-op lines produced output: %q", out.String())
	}
}

func TestDispatchNotFound(t *testing.T) {
	t.Parallel()
	s, _ := newTestSession(t)

	res := dispatch(t, s, "frobnicate", Lenient)
	if res.Handled {
		t.Errorf("Dispatch(frobnicate) = %+v, want unhandled", res)
	}
	if !res.ShouldContinue {
		t.Error("unknown command terminated the session")
	}
}

func TestAliasExpansion(t *testing.T) {
	t.Parallel()
	s, _ := newTestSession(t)

	if err := s.env.SetAlias("ll", "ls -la"); err != nil {
		t.Fatalf("SetAlias() error = %v", err)
	}
	command, args := s.dispatcher.expandAliases("ll", []string{"/tmp"})
	if command != "ls" {
		t.Errorf("command = %q, want ls", command)
	}
	if !reflect.DeepEqual(args, []string{"-la", "/tmp"}) {
		t.Errorf("args = %#v, want [-la /tmp]", args)
	}
}

func TestAliasChain(t *testing.T) {
	t.Parallel()
	s, _ := newTestSession(t)

	if err := s.env.SetAlias("l", "ll"); err != nil {
		t.Fatalf("SetAlias() error = %v", err)
	}
	if err := s.env.SetAlias("ll", "ls -la"); err != nil {
		t.Fatalf("SetAlias() error = %v", err)
	}
	command, args := s.dispatcher.expandAliases("l", nil)
	if command != "ls" || !reflect.DeepEqual(args, []string{"-la"}) {
		t.Errorf("expansion = %q %#v, want ls [-la]", command, args)
	}
}

func TestAliasCycleTerminates(t *testing.T) {
	t.Parallel()
	s, _ := newTestSession(t)

	if err := s.env.SetAlias("a", "b"); err != nil {
		t.Fatalf("SetAlias() error = %v", err)
	}
	if err := s.env.SetAlias("b", "a"); err != nil {
		t.Fatalf("SetAlias() error = %v", err)
	}
	// Must terminate; the defused command is one of the cycle members.
	command, _ := s.dispatcher.expandAliases("a", nil)
	if command != "a" && command != "b" {
		t.Errorf("defused command = %q, want a or b", command)
	}
	res := dispatch(t, s, "a", Lenient)
	if res.Handled {
		t.Errorf("cyclic alias dispatch = %+v, want unhandled", res)
	}
}

func TestStrictModeSkipsAliases(t *testing.T) {
	t.Parallel()
	s, _ := newTestSession(t)

	if err := s.env.SetAlias("p", "pwd"); err != nil {
		t.Fatalf("SetAlias() error = %v", err)
	}
	if res := dispatch(t, s, "p", Lenient); !res.Handled {
		t.Error("lenient dispatch did not expand alias")
	}
	if res := dispatch(t, s, "p", Strict); res.Handled {
		t.Error("strict dispatch expanded alias")
	}
}

func TestPathScriptFallback(t *testing.T) {
	t.Parallel()
	s, out := newTestSession(t)

	if err := s.store.WriteFile("/bin/greet.sh", "echo hi from script\n"); err != nil {
		t.Fatalf("WriteFile() error = %v", err)
	}
	res := dispatch(t, s, "greet", Lenient)
	if !res.Handled || !res.OK {
		t.Fatalf("Dispatch(greet) = %+v, want handled ok", res)
	}
	if !strings.Contains(out.String(), "hi from script") {
		t.Errorf("output = %q, want script output", out.String())
	}

	if res := dispatch(t, s, "greet", Strict); res.Handled {
		t.Error("strict dispatch searched PATH")
	}
}

func TestPathSearchOrder(t *testing.T) {
	t.Parallel()
	s, out := newTestSession(t)

	if err := s.store.Mkdir("local"); err != nil {
		t.Fatalf("Mkdir() error = %v", err)
	}
	if err := s.store.WriteFile("/local/tool.sh", "echo local wins"); err != nil {
		t.Fatalf("WriteFile() error = %v", err)
	}
	if err := s.store.WriteFile("/bin/tool.sh", "echo bin wins"); err != nil {
		t.Fatalf("WriteFile() error = %v", err)
	}
	// /local comes after /bin by default; reorder by rebuilding PATH.
	if _, err := s.env.RemovePathDir("/bin"); err != nil {
		t.Fatalf("RemovePathDir() error = %v", err)
	}
	if err := s.env.AddPathDir("/local"); err != nil {
		t.Fatalf("AddPathDir() error = %v", err)
	}
	if err := s.env.AddPathDir("/bin"); err != nil {
		t.Fatalf("AddPathDir() error = %v", err)
	}

	if res := dispatch(t, s, "tool", Lenient); !res.OK {
		t.Fatalf("Dispatch(tool) = %+v", res)
	}
	if !strings.Contains(out.String(), "local wins") {
		t.Errorf("output = %q, want first PATH match", out.String())
	}
}

func TestExplicitScriptInvocation(t *testing.T) {
	t.Parallel()
	s, out := newTestSession(t)

	if err := s.store.Mkdir("work"); err != nil {
		t.Fatalf("Mkdir() error = %v", err)
	}
	if err := s.store.WriteFile("/work/setup.sh", "mkdir made-by-script"); err != nil {
		t.Fatalf("WriteFile() error = %v", err)
	}
	if err := s.store.ChangeDirectory("work"); err != nil {
		t.Fatalf("ChangeDirectory() error = %v", err)
	}

	res := dispatch(t, s, "./setup.sh", Lenient)
	if !res.Handled || !res.OK {
		t.Fatalf("Dispatch(./setup.sh) = %+v, want handled ok", res)
	}
	if s.store.Stat("/work/made-by-script") != vfs.KindFolder {
		t.Error("script did not run in the current directory")
	}

	// A missing script is an error but still counts as handled.
	res = dispatch(t, s, "./nope.sh", Lenient)
	if !res.Handled || res.OK {
		t.Errorf("Dispatch(./nope.sh) = %+v, want handled failure", res)
	}
	if !strings.Contains(out.String(), "nope.sh") {
		t.Error("missing script produced no error output")
	}
}

func TestScriptAbortsAtFirstFailure(t *testing.T) {
	t.Parallel()
	s, _ := newTestSession(t)

	script := "mkdir x\ncd nowhere\nmkdir y\n"
	res := s.dispatcher.RunScript(context.Background(), s, "test.sh", script)
	if res.OK {
		t.Fatalf("RunScript() = %+v, want failure", res)
	}

	var serr *ScriptError
	if !errors.As(res.Err, &serr) {
		t.Fatalf("error type = %T, want *ScriptError", res.Err)
	}
	if serr.Line != 2 || serr.Text != "cd nowhere" {
		t.Errorf("failure at %d (%q), want line 2 (cd nowhere)", serr.Line, serr.Text)
	}
	if !errors.Is(res.Err, ErrScriptFailure) {
		t.Error("script error does not match ErrScriptFailure")
	}

	if s.store.Stat("/x") != vfs.KindFolder {
		t.Error("line before the failure was rolled back")
	}
	if s.store.Stat("/y") != vfs.KindNone {
		t.Error("line after the failure still ran")
	}
}

func TestScriptSkipsCommentsAndBlanks(t *testing.T) {
	t.Parallel()
	s, _ := newTestSession(t)

	script := "# heading\n\n// note\nmkdir ok\n"
	res := s.dispatcher.RunScript(context.Background(), s, "test.sh", script)
	if !res.OK {
		t.Fatalf("RunScript() = %+v, want success", res)
	}
	if s.store.Stat("/ok") != vfs.KindFolder {
		t.Error("command line did not run")
	}
}

func TestScriptUnknownCommandFails(t *testing.T) {
	t.Parallel()
	s, _ := newTestSession(t)

	res := s.dispatcher.RunScript(context.Background(), s, "test.sh", "bogus\n")
	if res.OK {
		t.Errorf("RunScript() = %+v, want failure on unknown command", res)
	}
}

func TestExitStopsSession(t *testing.T) {
	t.Parallel()
	s, _ := newTestSession(t)

	res := dispatch(t, s, "exit", Lenient)
	if res.ShouldContinue {
		t.Errorf("Dispatch(exit) = %+v, want ShouldContinue false", res)
	}
}
