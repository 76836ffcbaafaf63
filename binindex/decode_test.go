// Copyright 2017 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package binindex

import (
	"strings"
	"testing"
)

const sampleIndex = `
pkg-a:
    version: 1.0.0
    source: pkg-a-src
    sha256: 0123456789abcdef0123456789abcdef0123456789abcdef0123456789abcdef
    filename: pkg-a_1.0.0.mpk
    depends: {pkg-b: [0.0.1, any], pkg-c: [1.0.0, 1.0.0]}
    sysdepends: [libfoo1]
pkg-a:
    version: 2.0.0
    source: pkg-a-src
    sha256: fedcba9876543210fedcba9876543210fedcba9876543210fedcba9876543210
    filename: pkg-a_2.0.0.mpk
pkg-b:
    version: 0.0.2
    source: pkg-b-src
    sha256: 1111111111111111111111111111111111111111111111111111111111111111
    filename: pkg-b_0.0.2.mpk
    unknown-field: ignored
`

func TestParsePkgList(t *testing.T) {
	pkgs, err := ParsePkgList([]byte(sampleIndex), 3)
	if err != nil {
		t.Fatal(err)
	}

	if len(pkgs) != 3 {
		t.Fatalf("parsed %d packages, want 3 (duplicate name kept)", len(pkgs))
	}

	a := pkgs[0]
	if a.Name != "pkg-a" || a.Version != "1.0.0" || a.Source != "pkg-a-src" {
		t.Errorf("first entry mismatch: %+v", a)
	}
	if a.RepoIndex != 3 {
		t.Errorf("RepoIndex = %d, want 3", a.RepoIndex)
	}
	if a.Filename != "pkg-a_1.0.0.mpk" || len(a.SHA256) != 64 {
		t.Errorf("file fields mismatch: %+v", a)
	}

	if len(a.Deps) != 2 {
		t.Fatalf("pkg-a has %d deps, want 2", len(a.Deps))
	}
	// Declaration order is preserved.
	if a.Deps[0].Name != "pkg-b" || a.Deps[0].MinVersion != "0.0.1" || a.Deps[0].MaxVersion != "any" {
		t.Errorf("dep 0 mismatch: %+v", a.Deps[0])
	}
	if a.Deps[1].Name != "pkg-c" || a.Deps[1].MinVersion != "1.0.0" || a.Deps[1].MaxVersion != "1.0.0" {
		t.Errorf("dep 1 mismatch: %+v", a.Deps[1])
	}

	if len(a.SysDeps) != 1 || a.SysDeps[0] != "libfoo1" {
		t.Errorf("sysdepends mismatch: %v", a.SysDeps)
	}

	if pkgs[1].Version != "2.0.0" {
		t.Errorf("duplicate-key second variant lost: %+v", pkgs[1])
	}
	if pkgs[2].Name != "pkg-b" {
		t.Errorf("third entry mismatch: %+v", pkgs[2])
	}
}

func TestParsePkgListScalarDependency(t *testing.T) {
	doc := `
pkg-a:
    version: 1.0
    depends: {pkg-b: 2.0}
`
	pkgs, err := ParsePkgList([]byte(doc), 0)
	if err != nil {
		t.Fatal(err)
	}
	d := pkgs[0].Deps[0]
	if d.MinVersion != "2.0" || d.MaxVersion != "2.0" {
		t.Errorf("scalar constraint should pin exactly: %+v", d)
	}
}

func TestParsePkgListErrors(t *testing.T) {
	cases := []struct {
		n   string
		doc string
	}{
		{"top level not a mapping", "- a\n- b\n"},
		{"entry not a mapping", "pkg-a: 12\n"},
		{"missing version", "pkg-a:\n    source: x\n"},
		{"bad depends", "pkg-a:\n    version: 1\n    depends: [x]\n"},
		{"bad range arity", "pkg-a:\n    version: 1\n    depends: {b: [1, 2, 3]}\n"},
		{"unparseable yaml", "pkg-a: [\n"},
	}

	for _, tc := range cases {
		if _, err := ParsePkgList([]byte(tc.doc), 0); err == nil {
			t.Errorf("%s: expected failure", tc.n)
		}
	}
}

func TestParsePkgListEmpty(t *testing.T) {
	pkgs, err := ParsePkgList(nil, 0)
	if err != nil || len(pkgs) != 0 {
		t.Errorf("empty document: pkgs=%v err=%v", pkgs, err)
	}
}

func TestEncodePkgListRoundTrip(t *testing.T) {
	orig := []*Pkg{
		{
			Name:     "pkg-a",
			Version:  "1.0.0",
			Source:   "pkg-a-src",
			SHA256:   strings.Repeat("ab", 32),
			Filename: "pkg-a_1.0.0.mpk",
			SysDeps:  []string{"libfoo1", "libbar2"},
			Deps: []Dependency{
				depOn("pkg-b", "0.0.1", "any"),
				depOn("pkg-c", "1.0.0", "1.0.0"),
			},
		},
		{
			Name:     "pkg-b",
			Version:  "0.0.2",
			Source:   "pkg-b-src",
			SHA256:   strings.Repeat("cd", 32),
			Filename: "pkg-b_0.0.2.mpk",
		},
	}

	data, err := EncodePkgList(orig)
	if err != nil {
		t.Fatal(err)
	}

	back, err := ParsePkgList(data, InstalledRepoIndex)
	if err != nil {
		t.Fatalf("re-parsing encoded list: %v\n%s", err, data)
	}
	if len(back) != len(orig) {
		t.Fatalf("round trip lost entries: %d != %d", len(back), len(orig))
	}

	for i := range orig {
		o, b := orig[i], back[i]
		if b.Name != o.Name || b.Version != o.Version || b.Source != o.Source ||
			b.SHA256 != o.SHA256 || b.Filename != o.Filename {
			t.Errorf("entry %d fields changed: %+v != %+v", i, b, o)
		}
		if len(b.Deps) != len(o.Deps) {
			t.Fatalf("entry %d deps changed: %v != %v", i, b.Deps, o.Deps)
		}
		for j := range o.Deps {
			if b.Deps[j] != o.Deps[j] {
				t.Errorf("entry %d dep %d changed: %+v != %+v", i, j, b.Deps[j], o.Deps[j])
			}
		}
		if len(b.SysDeps) != len(o.SysDeps) {
			t.Errorf("entry %d sysdeps changed: %v != %v", i, b.SysDeps, o.SysDeps)
		}
	}
}

func TestEncodePkgListEmpty(t *testing.T) {
	data, err := EncodePkgList(nil)
	if err != nil {
		t.Fatal(err)
	}
	pkgs, err := ParsePkgList(data, 0)
	if err != nil || len(pkgs) != 0 {
		t.Errorf("empty encode should parse to nothing: %v, %v", pkgs, err)
	}
}
