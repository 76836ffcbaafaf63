// Copyright 2017 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package binindex implements the in-memory catalog of binary packages
// available across configured repositories, together with the install
// state and the compiled dependency lists consumed by the solver.
//
// Names are interned: every package name seen while populating the
// index is assigned a dense integer id, usable as an index into lookup
// tables. Ids are stable for the life of the index.
package binindex

import (
	"fmt"
)

// Pkg is a single binary package variant known to the index. It is
// immutable once the index has been populated.
type Pkg struct {
	// NameID is the dense id assigned to Name by the owning index.
	NameID int

	Name     string
	Version  string
	Source   string
	Filename string
	SHA256   string

	// RepoIndex identifies the repository supplying this package, as
	// an index into the configured repository list. Packages recovered
	// from the installed list carry InstalledRepoIndex.
	RepoIndex int

	// SysDeps lists OS-level prerequisites that must be present on the
	// host before this package may be installed.
	SysDeps []string

	// Deps holds the raw declared dependencies of the package.
	Deps []Dependency
}

// InstalledRepoIndex is the RepoIndex of packages whose only known
// provenance is the installed list of the prefix.
const InstalledRepoIndex = -1

// Dependency is a raw version-range constraint on another package, as
// declared in a package record. The range is inclusive on both ends;
// either end may be the wildcard "any".
type Dependency struct {
	Name       string
	MinVersion string
	MaxVersion string
}

// String returns the rendering used in diagnostics: the bare name for
// an unbounded range, "name (= v)" for an exact version, and
// "name (>= min, <= max)" otherwise.
func (d Dependency) String() string {
	if d.MinVersion == anyVersion && d.MaxVersion == anyVersion {
		return d.Name
	}
	if d.MinVersion == d.MaxVersion {
		return fmt.Sprintf("%s (= %s)", d.Name, d.MinVersion)
	}
	return fmt.Sprintf("%s (>= %s, <= %s)", d.Name, d.MinVersion, d.MaxVersion)
}

// Matches reports whether version lies within the dependency range.
func (d Dependency) Matches(version string) bool {
	return versionInRange(version, d.MinVersion, d.MaxVersion)
}

func (p *Pkg) String() string {
	return fmt.Sprintf("%s (%s)", p.Name, p.Version)
}
