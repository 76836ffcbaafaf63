// Copyright 2017 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package binindex

import (
	"sort"

	"github.com/pkg/errors"
)

// BinIndex is the in-memory catalog of available packages. For each
// interned name it keeps the ordered list of known variants, highest
// version first, version ties broken by lower repo index.
//
// A BinIndex is populated once (from repository index files and the
// installed list) and then only read; it outlives individual solver
// runs.
type BinIndex struct {
	ids     map[string]int
	names   []string
	pkgLists [][]*Pkg // indexed by name id, selection order

	trie pkgTrie
}

// NewIndex returns an empty index.
func NewIndex() *BinIndex {
	return &BinIndex{
		ids:  make(map[string]int),
		trie: newPkgTrie(),
	}
}

// InternName returns the dense id of name, assigning one if the name
// has never been seen. Ids never change once assigned.
func (bi *BinIndex) InternName(name string) int {
	if id, ok := bi.ids[name]; ok {
		return id
	}
	id := len(bi.names)
	bi.ids[name] = id
	bi.names = append(bi.names, name)
	bi.pkgLists = append(bi.pkgLists, nil)
	bi.trie.Insert(name, id)
	return id
}

// GetID returns the id of name, and whether the name is known at all.
func (bi *BinIndex) GetID(name string) (int, bool) {
	id, ok := bi.ids[name]
	return id, ok
}

// Name returns the interned name for id.
func (bi *BinIndex) Name(id int) string {
	return bi.names[id]
}

// NumNames returns the number of interned names. Solver lookup tables
// are sized with this.
func (bi *BinIndex) NumNames() int {
	return len(bi.names)
}

// AddPkg registers a package variant, interning its name and every
// dependency name so that lookup tables cover them. A (name, version,
// repo) triple already present is dropped.
//
// Returns the canonical *Pkg for the variant (the existing record when
// the triple was already known).
func (bi *BinIndex) AddPkg(p *Pkg) *Pkg {
	id := bi.InternName(p.Name)
	p.NameID = id

	for _, d := range p.Deps {
		bi.InternName(d.Name)
	}

	list := bi.pkgLists[id]
	for _, other := range list {
		if other.Version == p.Version && other.RepoIndex == p.RepoIndex {
			return other
		}
	}

	// Insert keeping decreasing version order, version ties by
	// increasing repo index. This order is the solver's candidate
	// enumeration, so it must be deterministic.
	list = append(list, p)
	sort.SliceStable(list, func(i, j int) bool {
		c := CompareVersions(list[i].Version, list[j].Version)
		if c != 0 {
			return c > 0
		}
		return list[i].RepoIndex < list[j].RepoIndex
	})
	bi.pkgLists[id] = list
	return p
}

// Pkgs returns the variants known under id, in selection order. The
// returned slice is owned by the index and must not be mutated.
func (bi *BinIndex) Pkgs(id int) []*Pkg {
	if id < 0 || id >= len(bi.pkgLists) {
		return nil
	}
	return bi.pkgLists[id]
}

// GetLatest returns the preferred package of the given name whose
// version is at least minVersion ("any" accepts everything). It is the
// lookup behind the download and source subcommands.
func (bi *BinIndex) GetLatest(name, minVersion string) (*Pkg, error) {
	id, ok := bi.ids[name]
	if !ok {
		return nil, errors.WithStack(&UnknownPackageError{Name: name})
	}
	for _, p := range bi.pkgLists[id] {
		if versionInRange(p.Version, minVersion, anyVersion) {
			return p, nil
		}
	}
	return nil, errors.WithStack(&NoMatchingVersionError{Name: name, Version: minVersion})
}

// WalkNames calls fn for every interned name carrying at least one
// package variant, in lexical order of the underlying trie, optionally
// restricted to names starting with prefix. fn returning true stops the
// walk.
func (bi *BinIndex) WalkNames(prefix string, fn func(name string, pkgs []*Pkg) bool) {
	bi.trie.WalkPrefix(prefix, func(name string, id int) bool {
		if len(bi.pkgLists[id]) == 0 {
			return false
		}
		return fn(name, bi.pkgLists[id])
	})
}

// UnknownPackageError reports a name absent from the index.
type UnknownPackageError struct {
	Name string
}

func (e *UnknownPackageError) Error() string {
	return "cannot find package: " + e.Name
}

// NoMatchingVersionError reports a known name with no variant in the
// requested range.
type NoMatchingVersionError struct {
	Name    string
	Version string
}

func (e *NoMatchingVersionError) Error() string {
	return "cannot find version " + e.Version + " of package " + e.Name
}
