// Copyright 2017 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package solver

import (
	"log"
	"strings"

	"github.com/pkg/errors"

	"github.com/nbourdau/mmpack/binindex"
)

// Request names one package a user asked to install or remove. An
// empty Version means any version.
type Request struct {
	Name    string
	Version string
}

// ParseRequest splits a command-line "name" or "name=version" argument.
func ParseRequest(arg string) Request {
	if i := strings.IndexByte(arg, '='); i >= 0 {
		return Request{Name: arg[:i], Version: arg[i+1:]}
	}
	return Request{Name: arg}
}

func (r Request) String() string {
	if r.Version == "" {
		return r.Name
	}
	return r.Name + "=" + r.Version
}

// compileRequests builds the initial compiled dependency list from the
// request list. A request without a version compiles with the "any"
// wildcard on both bounds. Unknown names and known names with no
// matching variant are rejected here, naming the offending constraint,
// so the solver never starts on an unsatisfiable top-level request.
func compileRequests(idx *binindex.BinIndex, reqs []Request) (*binindex.CompiledDep, error) {
	var chain binindex.DepChain

	for _, req := range reqs {
		version := req.Version
		if version == "" {
			version = binindex.AnyVersion
		}
		dep := binindex.Dependency{
			Name:       req.Name,
			MinVersion: version,
			MaxVersion: version,
		}

		cd, err := idx.CompileDep(dep, &chain)
		if err != nil {
			return nil, err
		}
		if len(cd.Pkgs) == 0 {
			return nil, errors.WithStack(&binindex.NoMatchingVersionError{
				Name:    req.Name,
				Version: version,
			})
		}
	}

	return chain.Head(), nil
}

// InstallList computes the ordered action plan installing every
// requested package together with its dependencies, against the given
// index and install state. Neither input is mutated. A nil trace logger
// disables trace output.
//
// The returned plan installs dependees before dependents. When the
// requests are already satisfied by the install state, the plan is
// empty.
func InstallList(idx *binindex.BinIndex, st *binindex.InstallState, reqs []Request, tl *log.Logger) (*ActionStack, error) {
	if len(reqs) == 0 {
		return &ActionStack{}, nil
	}

	initial, err := compileRequests(idx, reqs)
	if err != nil {
		return nil, err
	}

	s := newSolver(idx, st, tl)
	if !s.solve(initial) {
		return nil, errors.WithStack(&UnsatisfiableError{Requests: reqs})
	}

	return s.createActionStack(), nil
}
