// Copyright 2017 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package solver turns installation and removal requests into ordered
// action plans against a binary index and an install state.
//
// The install planner is a backtracking search over pre-enumerated
// candidates: each dependency compiles to an ordered candidate list,
// the solver walks dependency lists depth-first, staging one candidate
// at a time, and rewinds to the most recent decision point whenever a
// constraint contradicts an earlier choice. It decides among
// alternatives; it never invents new candidates or rewrites
// constraints.
package solver

import (
	"log"

	"github.com/nbourdau/mmpack/binindex"
)

// solverState is the next step to perform on a processing frame.
type solverState uint8

const (
	stateValidation solverState = iota
	stateSelection
	stateInstallDeps
	stateNext
	stateBacktrack
)

func (s solverState) String() string {
	switch s {
	case stateValidation:
		return "validation"
	case stateSelection:
		return "selection"
	case stateInstallDeps:
		return "install-deps"
	case stateNext:
		return "next"
	case stateBacktrack:
		return "backtrack"
	}
	return "unknown"
}

// procFrame tracks the processing of one dependency list: which entry
// is being considered, which candidate within it, and what to do next.
// One frame is active at a time; walking into a selected package's own
// dependency list pushes the current frame onto the processing stack.
type procFrame struct {
	dep   *binindex.CompiledDep
	ipkg  int
	state solverState
}

// opKind is the type of a planned operation.
type opKind uint8

const (
	opStage opKind = iota
	opInstall
	opRemove
)

// plannedOp records one change to the solver lookup tables, carrying
// enough to reverse the operation locally, without consulting the
// index. For an install, prev is the package the entry held before the
// commit: committing over an installed-but-displaced package must
// restore it on undo, or rewinding would forget the package is
// installed.
type plannedOp struct {
	kind opKind
	id   int
	pkg  *binindex.Pkg
	prev *binindex.Pkg
}

// solver holds the working state of one solve. All of it is created per
// call and dropped on return; only the index and the install state
// outlive a run.
type solver struct {
	idx *binindex.BinIndex

	// instLUT maps name id to the package that would be installed
	// after applying every committed operation so far. stageLUT maps
	// name id to the package tentatively chosen but whose dependency
	// walk has not yet completed.
	instLUT  []*binindex.Pkg
	stageLUT []*binindex.Pkg

	// procStack holds the suspended frames of the depth-first walk.
	procStack []procFrame

	// decStore is the stack of decision snapshots used to backtrack.
	decStore []decisionState

	// ops is the append-only log of planned operations. Truncating it
	// to a previous length, undoing each popped entry, restores the
	// lookup tables to their state at that length.
	ops []plannedOp

	// tl, when non-nil, receives trace output.
	tl *log.Logger
}

func newSolver(idx *binindex.BinIndex, st *binindex.InstallState, tl *log.Logger) *solver {
	return &solver{
		idx:      idx,
		instLUT:  st.FillLookupTable(idx),
		stageLUT: make([]*binindex.Pkg, idx.NumNames()),
		tl:       tl,
	}
}

func (s *solver) tracef(format string, args ...interface{}) {
	if s.tl != nil {
		s.tl.Printf(format, args...)
	}
}

// revertPlannedOps undoes operations from the top of the log down to
// prevLen. Afterwards stageLUT and instLUT are exactly what they were
// when the log last had that length.
func (s *solver) revertPlannedOps(prevLen int) {
	for len(s.ops) > prevLen {
		op := s.ops[len(s.ops)-1]
		s.ops = s.ops[:len(s.ops)-1]

		switch op.kind {
		case opStage:
			s.stageLUT[op.id] = nil
		case opInstall:
			s.instLUT[op.id] = op.prev
		case opRemove:
			s.instLUT[op.id] = op.pkg
		}
	}
}

// stagePkgInstall marks pkg as tentatively chosen for id and logs the
// change.
func (s *solver) stagePkgInstall(id int, pkg *binindex.Pkg) {
	s.stageLUT[id] = pkg
	s.ops = append(s.ops, plannedOp{kind: opStage, id: id, pkg: pkg})
}

// commitPkgInstall registers the installation of the package staged for
// id. Only valid after stagePkgInstall for the same id.
func (s *solver) commitPkgInstall(id int) {
	pkg := s.stageLUT[id]
	s.ops = append(s.ops, plannedOp{kind: opInstall, id: id, pkg: pkg, prev: s.instLUT[id]})
	s.instLUT[id] = pkg
	s.tracef("commit %s", pkg)
}

// addDepsToProcess suspends frame and makes deps the active dependency
// list. A nil deps leaves the frame untouched.
func (s *solver) addDepsToProcess(frame *procFrame, deps *binindex.CompiledDep) {
	if deps == nil {
		return
	}

	s.procStack = append(s.procStack, *frame)
	frame.dep = deps
	frame.state = stateValidation
}

// advanceProcessing moves frame past the committed/exhausted positions:
// it commits a package whose dependency list has just been fully
// processed, steps to the next dependency of the current list, and pops
// suspended frames when a list is exhausted. It reports true when the
// whole walk is complete, meaning a solution has been found.
func (s *solver) advanceProcessing(frame *procFrame) bool {
	for frame.state == stateInstallDeps || frame.state == stateNext {
		if frame.state == stateInstallDeps {
			// The dependency list of the selected package has been
			// fully processed: the package itself can be committed.
			s.commitPkgInstall(frame.dep.PkgnameID)
			frame.state = stateNext
		}

		if frame.state == stateNext {
			frame.dep = frame.dep.Next()
			if frame.dep != nil {
				frame.state = stateValidation
				break
			}

			// End of the dependency list. If no frame is suspended,
			// the initial request list is fully processed.
			if len(s.procStack) == 0 {
				return true
			}

			*frame = s.procStack[len(s.procStack)-1]
			s.procStack = s.procStack[:len(s.procStack)-1]
		}
	}

	return false
}

// stepValidation checks the current dependency against the tables. A
// staged or committed package matching the constraint satisfies it
// outright; a staged package that contradicts it forces a backtrack; an
// installed (but unstaged) package that contradicts it falls through to
// selection, where a different variant will be staged over it.
func (s *solver) stepValidation(frame *procFrame) {
	id := frame.dep.PkgnameID

	if id >= 0 {
		pkg := s.stageLUT[id]
		staged := pkg != nil
		if pkg == nil {
			pkg = s.instLUT[id]
		}

		if pkg != nil {
			if frame.dep.Match(pkg) {
				frame.state = stateNext
				return
			}

			if staged {
				s.tracef("conflict on %s: staged %s does not match %s",
					s.idx.Name(id), pkg, frame.dep.Dep())
				frame.state = stateBacktrack
				return
			}
			// Installed but not matching: a new variant will be
			// staged over it. No removal is planned for the
			// displaced package; unpacking over the existing files
			// is what the executor does.
		}
	}

	frame.ipkg = 0
	frame.state = stateSelection
}

// stepSelectPkg stages the current candidate of the dependency being
// processed, after snapshotting the solver state if an alternative
// candidate remains to be tried.
func (s *solver) stepSelectPkg(frame *procFrame) {
	if frame.ipkg >= len(frame.dep.Pkgs) {
		// No candidate can satisfy this dependency (an empty
		// candidate list arising mid-search lands here too).
		frame.state = stateBacktrack
		return
	}

	s.saveDecisionState(frame)

	pkg := frame.dep.Pkgs[frame.ipkg]
	s.stagePkgInstall(frame.dep.PkgnameID, pkg)
	s.tracef("stage %s for %s", pkg, frame.dep.Dep())
	frame.state = stateInstallDeps
}

// stepInstallDeps queues the dependency list of the staged package for
// processing.
func (s *solver) stepInstallDeps(frame *procFrame) {
	pkg := frame.dep.Pkgs[frame.ipkg]
	deps := s.idx.CompilePkgDeps(pkg)
	s.addDepsToProcess(frame, deps)
}

// solve runs the search over the initial compiled dependency list.
// It returns false when the constraints are not satisfiable.
//
// Termination: every iteration advances the current dependency, pops a
// suspended frame, or consumes a decision snapshot; each backtrack
// advances the candidate cursor of the restored frame, so the finite
// (dependency, candidate) space shrinks monotonically.
func (s *solver) solve(initial *binindex.CompiledDep) bool {
	frame := procFrame{dep: initial, state: stateValidation}

	for !s.advanceProcessing(&frame) {
		if frame.state == stateBacktrack {
			if !s.backtrackOnDecision(&frame) {
				return false
			}
		}

		if frame.state == stateValidation {
			s.stepValidation(&frame)
			if frame.state == stateBacktrack {
				continue
			}
		}

		if frame.state == stateSelection {
			s.stepSelectPkg(&frame)
		}

		if frame.state == stateInstallDeps {
			s.stepInstallDeps(&frame)
		}
	}

	return true
}

// createActionStack converts the operation log of a successful solve
// into the executable plan: STAGE entries are dropped, INSTALL and
// REMOVE map to their actions. The log order is the installation order,
// which is topological because a package is only committed after its
// dependency sub-walk has returned.
func (s *solver) createActionStack() *ActionStack {
	stack := &ActionStack{}

	for _, op := range s.ops {
		switch op.kind {
		case opStage:
			// ignore
		case opInstall:
			stack.Push(ActionInstall, op.pkg)
		case opRemove:
			stack.Push(ActionRemove, op.pkg)
		}
	}

	return stack
}
