// SPDX-License-Identifier: MPL-2.0

package shell

import (
	"reflect"
	"testing"
)

func TestCompleteSingleCommandMatch(t *testing.T) {
	t.Parallel()
	s, _ := newTestSession(t)

	res := s.completer.Complete("ech", false)
	if res.NoMatch {
		t.Fatal("Complete(ech) reported no match")
	}
	if res.Line != "echo " {
		t.Errorf("Line = %q, want %q", res.Line, "echo ")
	}
	if len(res.Candidates) != 0 {
		t.Errorf("single match opened a session: %v", res.Candidates)
	}
}

func TestCompleteNoMatch(t *testing.T) {
	t.Parallel()
	s, _ := newTestSession(t)

	res := s.completer.Complete("zzz", false)
	if !res.NoMatch {
		t.Errorf("Complete(zzz) = %+v, want NoMatch", res)
	}
}

func TestCompleteCyclesThroughCandidates(t *testing.T) {
	t.Parallel()
	s, _ := newTestSession(t)

	// "l" matches the ls built-in and a PATH script named lint.
	if err := s.store.WriteFile("/bin/lint.sh", "echo lint"); err != nil {
		t.Fatalf("WriteFile() error = %v", err)
	}

	res := s.completer.Complete("l", false)
	if res.Line != "lint" {
		t.Fatalf("first proposal = %q, want lint", res.Line)
	}
	if !reflect.DeepEqual(res.Candidates, []string{"lint", "ls"}) {
		t.Fatalf("candidates = %v, want [lint ls]", res.Candidates)
	}
	if res.ActiveIndex != 0 {
		t.Errorf("ActiveIndex = %d, want 0", res.ActiveIndex)
	}

	// Repeating the request against the proposed input advances.
	res = s.completer.Complete(res.Line, false)
	if res.Line != "ls" || res.ActiveIndex != 1 {
		t.Errorf("second proposal = %q (index %d), want ls (1)", res.Line, res.ActiveIndex)
	}

	// And wraps around.
	res = s.completer.Complete(res.Line, false)
	if res.Line != "lint" || res.ActiveIndex != 0 {
		t.Errorf("third proposal = %q (index %d), want lint (0)", res.Line, res.ActiveIndex)
	}
}

func TestCompleteBackwardCycling(t *testing.T) {
	t.Parallel()
	s, _ := newTestSession(t)

	if err := s.store.WriteFile("/bin/lint.sh", ""); err != nil {
		t.Fatalf("WriteFile() error = %v", err)
	}

	res := s.completer.Complete("l", false)
	if res.Line != "lint" {
		t.Fatalf("first proposal = %q, want lint", res.Line)
	}
	res = s.completer.Complete(res.Line, true)
	if res.Line != "ls" || res.ActiveIndex != 1 {
		t.Errorf("backward proposal = %q (index %d), want ls (1)", res.Line, res.ActiveIndex)
	}
}

func TestCompleteSessionDiscardedOnOtherInput(t *testing.T) {
	t.Parallel()
	s, _ := newTestSession(t)

	if err := s.store.WriteFile("/bin/lint.sh", ""); err != nil {
		t.Fatalf("WriteFile() error = %v", err)
	}

	res := s.completer.Complete("l", false)
	if res.Line != "lint" {
		t.Fatalf("first proposal = %q, want lint", res.Line)
	}

	// Input changed since the proposal: a fresh request, not an advance.
	res = s.completer.Complete("li", false)
	if res.Line != "lint " {
		t.Errorf("fresh request = %q, want committed lint", res.Line)
	}
}

func TestCompleteInvalidateDiscardsSession(t *testing.T) {
	t.Parallel()
	s, _ := newTestSession(t)

	if err := s.store.WriteFile("/bin/lint.sh", ""); err != nil {
		t.Fatalf("WriteFile() error = %v", err)
	}

	first := s.completer.Complete("l", false)
	s.completer.Invalidate()
	// Same input again starts a fresh session at the first candidate.
	again := s.completer.Complete(first.Line, false)
	if again.NoMatch {
		t.Fatal("fresh request after invalidate found nothing")
	}
	if again.Line != "lint " {
		t.Errorf("fresh request = %q, want committed lint", again.Line)
	}
}

func TestCompletePathSingleFolder(t *testing.T) {
	t.Parallel()
	s, _ := newTestSession(t)

	if err := s.store.Mkdir("docs"); err != nil {
		t.Fatalf("Mkdir() error = %v", err)
	}

	res := s.completer.Complete("cd d", false)
	if res.Line != "cd docs/" {
		t.Errorf("Line = %q, want %q", res.Line, "cd docs/")
	}
}

func TestCompletePathSingleFile(t *testing.T) {
	t.Parallel()
	s, _ := newTestSession(t)

	if err := s.store.WriteFile("/notes.txt", ""); err != nil {
		t.Fatalf("WriteFile() error = %v", err)
	}

	res := s.completer.Complete("cat n", false)
	if res.Line != "cat notes.txt " {
		t.Errorf("Line = %q, want %q", res.Line, "cat notes.txt ")
	}
}

func TestCompletePathInsideFolder(t *testing.T) {
	t.Parallel()
	s, _ := newTestSession(t)

	if err := s.store.Mkdir("docs"); err != nil {
		t.Fatalf("Mkdir() error = %v", err)
	}
	if err := s.store.WriteFile("/docs/guide.md", ""); err != nil {
		t.Fatalf("WriteFile() error = %v", err)
	}

	res := s.completer.Complete("cat docs/g", false)
	if res.Line != "cat docs/guide.md " {
		t.Errorf("Line = %q, want %q", res.Line, "cat docs/guide.md ")
	}
}

func TestCompletePathRequotes(t *testing.T) {
	t.Parallel()
	s, _ := newTestSession(t)

	if err := s.store.Mkdir("My Folder"); err != nil {
		t.Fatalf("Mkdir() error = %v", err)
	}

	res := s.completer.Complete(`cat "My F`, false)
	if res.Line != `cat "My Folder/"` {
		t.Errorf("Line = %q, want %q", res.Line, `cat "My Folder/"`)
	}
}

func TestCompletePathEmptyWordListsCwd(t *testing.T) {
	t.Parallel()
	s, _ := newTestSession(t)

	if err := s.store.WriteFile("/a.txt", ""); err != nil {
		t.Fatalf("WriteFile() error = %v", err)
	}

	res := s.completer.Complete("cat ", false)
	if res.NoMatch {
		t.Fatal("empty word completion found nothing")
	}
	// /bin and a.txt both exist, so a session opens over both, sorted.
	if !reflect.DeepEqual(res.Candidates, []string{"a.txt", "bin/"}) {
		t.Errorf("candidates = %v, want [a.txt bin/]", res.Candidates)
	}
	if res.Line != "cat a.txt" {
		t.Errorf("proposal = %q, want %q", res.Line, "cat a.txt")
	}
}

func TestCompleteMissingDirIsNoMatch(t *testing.T) {
	t.Parallel()
	s, _ := newTestSession(t)

	res := s.completer.Complete("cat nowhere/x", false)
	if !res.NoMatch {
		t.Errorf("Complete into missing dir = %+v, want NoMatch", res)
	}
}

func TestCompleteExplicitScriptPrefixUsesPaths(t *testing.T) {
	t.Parallel()
	s, _ := newTestSession(t)

	if err := s.store.WriteFile("/setup.sh", ""); err != nil {
		t.Fatalf("WriteFile() error = %v", err)
	}

	res := s.completer.Complete("./se", false)
	if res.Line != "./setup.sh " {
		t.Errorf("Line = %q, want %q", res.Line, "./setup.sh ")
	}
}
