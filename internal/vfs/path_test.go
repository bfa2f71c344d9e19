// SPDX-License-Identifier: MPL-2.0

package vfs

import "testing"

func TestResolve(t *testing.T) {
	t.Parallel()

	cwd := []string{"home", "user"}
	tests := []struct {
		name string
		path string
		want []string
	}{
		{"absolute", "/a/b", []string{"a", "b"}},
		{"relative", "docs", []string{"home", "user", "docs"}},
		{"empty keeps base", "", []string{"home", "user"}},
		{"dot keeps base", ".", []string{"home", "user"}},
		{"dot segments dropped", "./a/./b", []string{"home", "user", "a", "b"}},
		{"parent pops", "../other", []string{"home", "other"}},
		{"parent chains", "../../..", []string{}},
		{"parent past root ignored", "/../../a", []string{"a"}},
		{"double separators collapse", "/a//b/", []string{"a", "b"}},
		{"root", "/", []string{}},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			got := Resolve(cwd, tt.path)
			if DisplayPath(got) != DisplayPath(tt.want) {
				t.Errorf("Resolve(%v, %q) = %v, want %v", cwd, tt.path, got, tt.want)
			}
		})
	}
}

func TestResolveNeverUnderflows(t *testing.T) {
	t.Parallel()

	segs := Resolve(nil, "..")
	if len(segs) != 0 {
		t.Errorf("Resolve(root, ..) = %v, want root", segs)
	}
	segs = Resolve(nil, "../../../../..")
	if len(segs) != 0 {
		t.Errorf("Resolve(root, deep ..) = %v, want root", segs)
	}
}

func TestResolveRoundTrip(t *testing.T) {
	t.Parallel()

	cwd := []string{"var", "log"}
	for _, p := range []string{"/", "/a", "/a/b/c", "x/y", "../x", "./a/../b"} {
		once := Resolve(cwd, p)
		twice := Resolve(cwd, DisplayPath(once))
		if DisplayPath(once) != DisplayPath(twice) {
			t.Errorf("round trip of %q: %v != %v", p, once, twice)
		}
	}
}

func TestDisplayPath(t *testing.T) {
	t.Parallel()

	if got := DisplayPath(nil); got != "/" {
		t.Errorf("DisplayPath(nil) = %q, want /", got)
	}
	if got := DisplayPath([]string{"a", "b"}); got != "/a/b" {
		t.Errorf("DisplayPath([a b]) = %q, want /a/b", got)
	}
}

func TestSplitEntry(t *testing.T) {
	t.Parallel()

	tests := []struct {
		path, dir, name string
	}{
		{"a", "", "a"},
		{"a/b", "a/", "b"},
		{"/a/b", "/a/", "b"},
		{"/", "/", ""},
		{"", "", ""},
		{"a/", "a/", ""},
	}
	for _, tt := range tests {
		dir, name := SplitEntry(tt.path)
		if dir != tt.dir || name != tt.name {
			t.Errorf("SplitEntry(%q) = (%q, %q), want (%q, %q)", tt.path, dir, name, tt.dir, tt.name)
		}
	}
}

func TestValidateName(t *testing.T) {
	t.Parallel()

	if err := ValidateName("ok"); err != nil {
		t.Errorf("ValidateName(ok) error = %v", err)
	}
	if err := ValidateName(""); err == nil {
		t.Error("ValidateName(empty) did not fail")
	}
	if err := ValidateName("a/b"); err == nil {
		t.Error("ValidateName(a/b) did not fail")
	}
}
