// Copyright 2017 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package solver

import (
	"fmt"
	"io"

	"github.com/nbourdau/mmpack/binindex"
)

// ActionKind discriminates the two effects an executor can apply.
type ActionKind uint8

const (
	// ActionInstall unpacks a package into the prefix.
	ActionInstall ActionKind = iota
	// ActionRemove deletes a package's files from the prefix.
	ActionRemove
)

func (k ActionKind) String() string {
	if k == ActionInstall {
		return "INSTALL"
	}
	return "REMOVE"
}

// Action is one step of a plan. Pathname is filled in by the executor
// once the package archive has been fetched; the planners leave it
// empty.
type Action struct {
	Kind     ActionKind
	Pkg      *binindex.Pkg
	Pathname string
}

// ActionStack is the ordered plan produced by the install solver or the
// remove planner and consumed strictly in order by the executor.
type ActionStack struct {
	Actions []Action
}

// Push appends an action to the plan.
func (st *ActionStack) Push(kind ActionKind, pkg *binindex.Pkg) {
	st.Actions = append(st.Actions, Action{Kind: kind, Pkg: pkg})
}

// Len returns the number of planned actions.
func (st *ActionStack) Len() int {
	return len(st.Actions)
}

// Dump writes the plan summary, one action per line, in apply order.
func (st *ActionStack) Dump(w io.Writer) {
	for _, act := range st.Actions {
		fmt.Fprintf(w, "%s: %s (%s)\n", act.Kind, act.Pkg.Name, act.Pkg.Version)
	}
}
