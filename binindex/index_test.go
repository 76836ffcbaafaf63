// Copyright 2017 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package binindex

import (
	"testing"
)

func newTestPkg(name, version string, repo int, deps ...Dependency) *Pkg {
	return &Pkg{
		Name:      name,
		Version:   version,
		RepoIndex: repo,
		Deps:      deps,
	}
}

func TestInternNameStable(t *testing.T) {
	idx := NewIndex()

	idA := idx.InternName("A")
	idB := idx.InternName("B")
	if idA == idB {
		t.Fatal("distinct names share an id")
	}
	if idx.InternName("A") != idA {
		t.Error("re-interning changed the id")
	}
	if got := idx.Name(idA); got != "A" {
		t.Errorf("Name(%d) = %q, want A", idA, got)
	}
	if idx.NumNames() != 2 {
		t.Errorf("NumNames = %d, want 2", idx.NumNames())
	}
}

func TestAddPkgInternsDependencyNames(t *testing.T) {
	idx := NewIndex()
	idx.AddPkg(newTestPkg("A", "1", 0, Dependency{Name: "B", MinVersion: "any", MaxVersion: "any"}))

	if _, ok := idx.GetID("B"); !ok {
		t.Error("dependency name was not interned")
	}
}

func TestAddPkgOrdering(t *testing.T) {
	idx := NewIndex()
	idx.AddPkg(newTestPkg("A", "1.0", 1))
	idx.AddPkg(newTestPkg("A", "2.0", 1))
	idx.AddPkg(newTestPkg("A", "1.5", 0))
	idx.AddPkg(newTestPkg("A", "2.0", 0)) // same version, lower repo

	id, _ := idx.GetID("A")
	var got []string
	for _, p := range idx.Pkgs(id) {
		got = append(got, p.Version)
	}

	// Decreasing version; the 2.0 tie broken by lower repo first.
	want := []string{"2.0", "2.0", "1.5", "1.0"}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("selection order %v, want %v", got, want)
		}
	}
	if idx.Pkgs(id)[0].RepoIndex != 0 || idx.Pkgs(id)[1].RepoIndex != 1 {
		t.Error("version tie not broken by lower repo index")
	}
}

func TestAddPkgDeduplicates(t *testing.T) {
	idx := NewIndex()
	first := idx.AddPkg(newTestPkg("A", "1.0", 0))
	second := idx.AddPkg(newTestPkg("A", "1.0", 0))

	if first != second {
		t.Error("duplicate (name, version, repo) was not collapsed")
	}

	id, _ := idx.GetID("A")
	if len(idx.Pkgs(id)) != 1 {
		t.Errorf("duplicate entry kept: %d variants", len(idx.Pkgs(id)))
	}
}

func TestGetLatest(t *testing.T) {
	idx := NewIndex()
	idx.AddPkg(newTestPkg("A", "1.0", 0))
	idx.AddPkg(newTestPkg("A", "2.0", 0))

	pkg, err := idx.GetLatest("A", AnyVersion)
	if err != nil {
		t.Fatal(err)
	}
	if pkg.Version != "2.0" {
		t.Errorf("GetLatest any = %s, want 2.0", pkg.Version)
	}

	pkg, err = idx.GetLatest("A", "1.5")
	if err != nil {
		t.Fatal(err)
	}
	if pkg.Version != "2.0" {
		t.Errorf("GetLatest >=1.5 = %s, want 2.0", pkg.Version)
	}

	if _, err = idx.GetLatest("A", "3.0"); err == nil {
		t.Error("expected no-matching-version failure")
	}
	if _, err = idx.GetLatest("Z", AnyVersion); err == nil {
		t.Error("expected unknown-package failure")
	}
}

func TestWalkNames(t *testing.T) {
	idx := NewIndex()
	idx.AddPkg(newTestPkg("foo", "1", 0))
	idx.AddPkg(newTestPkg("foobar", "1", 0))
	idx.AddPkg(newTestPkg("bar", "1", 0))
	// Interned via a dependency only: carries no variant, not listed.
	idx.InternName("foovirtual")

	var got []string
	idx.WalkNames("foo", func(name string, pkgs []*Pkg) bool {
		got = append(got, name)
		return false
	})

	want := []string{"foo", "foobar"}
	if len(got) != len(want) {
		t.Fatalf("WalkNames(foo) = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("WalkNames(foo) = %v, want %v", got, want)
		}
	}
}
