// Copyright 2017 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package binindex

import (
	"github.com/pkg/errors"
)

// CompiledDep is a dependency after candidate enumeration: the ordered
// list of package variants satisfying one raw constraint. Lists of
// compiled dependencies are chained; iteration is forward-only and a
// list is never mutated once built.
//
// The original layout packed these as variable-length records in one
// buffer, linked by byte offsets. Boxed records linked by pointer keep
// the same contract (tail-terminated forward walk) without the
// use-after-realloc hazard.
type CompiledDep struct {
	// PkgnameID is the interned id of the constrained name.
	PkgnameID int

	// Pkgs holds the candidates in selection order. Empty means the
	// constraint is not satisfiable by any known variant.
	Pkgs []*Pkg

	dep  Dependency
	next *CompiledDep
}

// Next returns the following compiled dependency of the list, or nil at
// the tail.
func (cd *CompiledDep) Next() *CompiledDep {
	return cd.next
}

// Match reports whether pkg is one of the candidates of cd.
func (cd *CompiledDep) Match(pkg *Pkg) bool {
	if pkg.NameID != cd.PkgnameID {
		return false
	}
	return cd.dep.Matches(pkg.Version)
}

// Dep returns the raw constraint cd was compiled from, for diagnostics.
func (cd *CompiledDep) Dep() Dependency {
	return cd.dep
}

// DepChain accumulates compiled dependencies into one chained list, the
// moral equivalent of the original's contiguous buffer.
type DepChain struct {
	head, tail *CompiledDep
}

// Head returns the first compiled dependency of the chain, nil when
// nothing was appended.
func (c *DepChain) Head() *CompiledDep {
	return c.head
}

func (c *DepChain) append(cd *CompiledDep) {
	if c.tail == nil {
		c.head = cd
	} else {
		c.tail.next = cd
	}
	c.tail = cd
}

// CompileDep appends to chain a new compiled dependency for dep:
// the variants of dep.Name whose version lies in the declared range, in
// the index's selection order. A name entirely unknown to the index is
// an error, distinguishable from a known name with no matching variant
// (which yields an entry with empty Pkgs).
func (bi *BinIndex) CompileDep(dep Dependency, chain *DepChain) (*CompiledDep, error) {
	id, ok := bi.ids[dep.Name]
	if !ok {
		return nil, errors.WithStack(&UnknownPackageError{Name: dep.Name})
	}

	cd := bi.compile(id, dep)
	chain.append(cd)
	return cd, nil
}

func (bi *BinIndex) compile(id int, dep Dependency) *CompiledDep {
	cd := &CompiledDep{PkgnameID: id, dep: dep}
	if id < 0 {
		return cd
	}
	for _, p := range bi.pkgLists[id] {
		if dep.Matches(p.Version) {
			cd.Pkgs = append(cd.Pkgs, p)
		}
	}
	return cd
}

// CompilePkgDeps produces the compiled dependency list for pkg's
// declared dependencies, or nil when pkg has none.
//
// Every dependency name of an indexed package was interned by AddPkg,
// so a name can only be unknown for a hand-built Pkg that never went
// through the index; such an entry carries PkgnameID -1 and no
// candidates, a dead end the solver backtracks from. A known name whose
// range no variant satisfies likewise yields an empty entry.
func (bi *BinIndex) CompilePkgDeps(pkg *Pkg) *CompiledDep {
	if len(pkg.Deps) == 0 {
		return nil
	}

	var chain DepChain
	for _, d := range pkg.Deps {
		id, ok := bi.ids[d.Name]
		if !ok {
			id = -1
		}
		chain.append(bi.compile(id, d))
	}
	return chain.Head()
}
