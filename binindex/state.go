// Copyright 2017 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package binindex

import "sort"

// InstallState is the set of packages currently installed in a prefix,
// keyed by name. The real state of a prefix is mutated by the executor;
// the remove planner simulates on a Copy.
type InstallState struct {
	pkgs map[string]*Pkg
}

// NewInstallState returns an empty install state.
func NewInstallState() *InstallState {
	return &InstallState{pkgs: make(map[string]*Pkg)}
}

// Get returns the installed package of the given name, or nil.
func (st *InstallState) Get(name string) *Pkg {
	return st.pkgs[name]
}

// Add registers pkg as installed, replacing any previous variant of the
// same name.
func (st *InstallState) Add(pkg *Pkg) {
	st.pkgs[pkg.Name] = pkg
}

// Remove unregisters the named package. Removing an absent name is a
// no-op.
func (st *InstallState) Remove(name string) {
	delete(st.pkgs, name)
}

// Len returns the number of installed packages.
func (st *InstallState) Len() int {
	return len(st.pkgs)
}

// Copy returns a deep copy of the state (the Pkg records themselves are
// immutable and shared).
func (st *InstallState) Copy() *InstallState {
	dup := &InstallState{pkgs: make(map[string]*Pkg, len(st.pkgs))}
	for name, p := range st.pkgs {
		dup.pkgs[name] = p
	}
	return dup
}

// Names returns the installed package names in lexical order.
func (st *InstallState) Names() []string {
	names := make([]string, 0, len(st.pkgs))
	for name := range st.pkgs {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Walk calls fn for every installed package, in lexical name order.
func (st *InstallState) Walk(fn func(*Pkg)) {
	for _, name := range st.Names() {
		fn(st.pkgs[name])
	}
}

// RDeps returns the installed packages whose declared dependencies
// reference pkg's name, in lexical name order. Determined by scanning
// the installed set, which stays correct under circular dependencies.
func (st *InstallState) RDeps(pkg *Pkg) []*Pkg {
	var rdeps []*Pkg
	for _, name := range st.Names() {
		p := st.pkgs[name]
		for _, d := range p.Deps {
			if d.Name == pkg.Name {
				rdeps = append(rdeps, p)
				break
			}
		}
	}
	return rdeps
}

// FillLookupTable returns a dense name-id-indexed view of the state,
// sized for idx. Installed packages whose name the index never interned
// are skipped (they cannot be referenced by any compiled dependency).
func (st *InstallState) FillLookupTable(idx *BinIndex) []*Pkg {
	lut := make([]*Pkg, idx.NumNames())
	for name, p := range st.pkgs {
		if id, ok := idx.GetID(name); ok {
			lut[id] = p
		}
	}
	return lut
}
