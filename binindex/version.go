// Copyright 2017 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package binindex

import (
	"strings"

	goversion "github.com/hashicorp/go-version"
)

// anyVersion is the wildcard accepted anywhere a version or a range
// boundary is expected. It is not itself a version: it never takes part
// in ordering, it only makes a range boundary unbounded.
const anyVersion = "any"

// AnyVersion is the exported wildcard, for callers assembling requests.
const AnyVersion = anyVersion

// CompareVersions provides the total order used to sort package
// variants within a name. It returns a negative value if a sorts before
// b, zero if they are equivalent, positive otherwise.
//
// Repository versions are not required to be semver; go-version accepts
// the usual "1.0-r2" / "0.4.1" class of strings, and anything neither
// side can parse falls back to a bytewise comparison so that the order
// stays total and deterministic.
func CompareVersions(a, b string) int {
	va, erra := goversion.NewVersion(a)
	vb, errb := goversion.NewVersion(b)
	if erra == nil && errb == nil {
		// go-version considers "1.0" and "1.0.0" equal; version
		// ties are legitimate and are broken by repo index when
		// sorting index entries.
		return va.Compare(vb)
	}
	if erra == nil {
		// Parseable sorts after unparseable, arbitrarily but stably.
		return 1
	}
	if errb == nil {
		return -1
	}
	return strings.Compare(a, b)
}

// versionInRange reports whether version lies in [min, max], either
// bound possibly being the "any" wildcard.
func versionInRange(version, min, max string) bool {
	if min != anyVersion && CompareVersions(version, min) < 0 {
		return false
	}
	if max != anyVersion && CompareVersions(version, max) > 0 {
		return false
	}
	return true
}
