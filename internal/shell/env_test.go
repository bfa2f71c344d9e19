// SPDX-License-Identifier: MPL-2.0

package shell

import (
	"reflect"
	"testing"

	"clamshell/internal/storage"
)

func TestEnvironmentDefaults(t *testing.T) {
	t.Parallel()

	env, err := NewEnvironment(storage.NewMemoryBackend(), nil)
	if err != nil {
		t.Fatalf("NewEnvironment() error = %v", err)
	}
	if got := env.PathDirs(); !reflect.DeepEqual(got, []string{DefaultPathDir}) {
		t.Errorf("PathDirs() = %v, want [%s]", got, DefaultPathDir)
	}
	if names := env.AliasNames(); len(names) != 0 {
		t.Errorf("AliasNames() = %v, want empty", names)
	}
}

func TestEnvironmentForceAppendsBin(t *testing.T) {
	t.Parallel()

	backend := storage.NewMemoryBackend()
	if err := backend.Put(storage.KeyEnv, []byte(`{"PATH":["/scripts"],"ALIAS":{}}`)); err != nil {
		t.Fatalf("Put() error = %v", err)
	}
	env, err := NewEnvironment(backend, nil)
	if err != nil {
		t.Fatalf("NewEnvironment() error = %v", err)
	}
	want := []string{"/scripts", DefaultPathDir}
	if got := env.PathDirs(); !reflect.DeepEqual(got, want) {
		t.Errorf("PathDirs() = %v, want %v", got, want)
	}
}

func TestEnvironmentAliasRoundTrip(t *testing.T) {
	t.Parallel()

	backend := storage.NewMemoryBackend()
	env, err := NewEnvironment(backend, nil)
	if err != nil {
		t.Fatalf("NewEnvironment() error = %v", err)
	}
	if err := env.SetAlias("ll", "ls -la"); err != nil {
		t.Fatalf("SetAlias() error = %v", err)
	}

	reloaded, err := NewEnvironment(backend, nil)
	if err != nil {
		t.Fatalf("NewEnvironment() reload error = %v", err)
	}
	if exp, ok := reloaded.Alias("ll"); !ok || exp != "ls -la" {
		t.Errorf("reloaded Alias(ll) = %q, %v; want ls -la, true", exp, ok)
	}

	removed, err := reloaded.RemoveAlias("ll")
	if err != nil || !removed {
		t.Errorf("RemoveAlias() = %v, %v; want true, nil", removed, err)
	}
	if removed, _ := reloaded.RemoveAlias("ll"); removed {
		t.Error("RemoveAlias() of missing alias reported true")
	}
}

func TestEnvironmentPathEdits(t *testing.T) {
	t.Parallel()

	env, err := NewEnvironment(storage.NewMemoryBackend(), nil)
	if err != nil {
		t.Fatalf("NewEnvironment() error = %v", err)
	}
	if err := env.AddPathDir("scripts/../tools"); err != nil {
		t.Fatalf("AddPathDir() error = %v", err)
	}
	want := []string{DefaultPathDir, "/tools"}
	if got := env.PathDirs(); !reflect.DeepEqual(got, want) {
		t.Errorf("PathDirs() = %v, want %v", got, want)
	}

	// Duplicates are ignored.
	if err := env.AddPathDir("/tools"); err != nil {
		t.Fatalf("AddPathDir() duplicate error = %v", err)
	}
	if got := env.PathDirs(); !reflect.DeepEqual(got, want) {
		t.Errorf("PathDirs() after duplicate add = %v, want %v", got, want)
	}

	removed, err := env.RemovePathDir("/tools")
	if err != nil || !removed {
		t.Errorf("RemovePathDir() = %v, %v; want true, nil", removed, err)
	}
}
