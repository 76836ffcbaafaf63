// Copyright 2017 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package solver

// decisionState is a snapshot of everything needed to rewind the solver
// to a decision point: the operation-log length to truncate to, the
// suspended frames, and the frame that was active when the decision was
// made.
//
// The snapshots form a stack. The original packed them as
// variable-length records chained through a size field in one append
// buffer; a slice of owned records keeps the contract that matters —
// last written, first popped, and rewind by truncation.
type decisionState struct {
	opsLen int
	frames []procFrame
	cur    procFrame
}

// saveDecisionState snapshots the solver state before a candidate is
// staged. Nothing is saved when the candidate about to be tried is the
// last one: a decision without alternatives is not a choice point, and
// recording it would only make backtracking revisit dead ends.
func (s *solver) saveDecisionState(frame *procFrame) {
	if frame.ipkg >= len(frame.dep.Pkgs)-1 {
		return
	}

	frames := make([]procFrame, len(s.procStack))
	copy(frames, s.procStack)

	s.decStore = append(s.decStore, decisionState{
		opsLen: len(s.ops),
		frames: frames,
		cur:    *frame,
	})
}

// backtrackOnDecision pops the most recent snapshot, undoes every
// operation planned since, restores the processing stack and active
// frame, and advances the restored frame to its next candidate. It
// reports false when no snapshot remains, meaning the overall request
// is not satisfiable.
func (s *solver) backtrackOnDecision(frame *procFrame) bool {
	if len(s.decStore) == 0 {
		return false
	}

	st := s.decStore[len(s.decStore)-1]
	s.decStore = s.decStore[:len(s.decStore)-1]

	s.revertPlannedOps(st.opsLen)

	s.procStack = s.procStack[:0]
	s.procStack = append(s.procStack, st.frames...)

	*frame = st.cur
	frame.ipkg++
	s.tracef("backtrack to %s, trying candidate %d", frame.dep.Dep(), frame.ipkg)
	return true
}
