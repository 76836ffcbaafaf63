// Copyright 2017 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package solver

import (
	"github.com/nbourdau/mmpack/binindex"
)

// RemoveList computes the plan removing the requested packages and,
// transitively, every installed package depending on them. The real
// install state is not touched: the traversal simulates on a copy.
//
// The plan lists dependents before dependees, so applying it in order
// never leaves an installed package with a missing dependency.
// Requested names that are not installed contribute nothing to the plan
// (the caller is expected to have warned about them).
func RemoveList(st *binindex.InstallState, reqs []Request) *ActionStack {
	stack := &ActionStack{}
	state := st.Copy()

	for _, req := range reqs {
		removePackage(req.Name, state, stack)
	}

	return stack
}

// removePackage appends the removal of name and of its reverse
// dependencies, dependents first. The name is dropped from the
// simulated state before its reverse dependencies are visited, which
// short-circuits revisits and keeps the recursion finite under
// circular dependencies.
func removePackage(name string, state *binindex.InstallState, stack *ActionStack) {
	pkg := state.Get(name)
	if pkg == nil {
		// Not installed, or already planned for removal.
		return
	}

	state.Remove(name)

	for _, rdep := range state.RDeps(pkg) {
		removePackage(rdep.Name, state, stack)
	}

	stack.Push(ActionRemove, pkg)
}
