// Copyright 2017 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package main

import (
	"bufio"
	"log"
	"os"
	"strings"

	"github.com/nbourdau/mmpack"
	"github.com/nbourdau/mmpack/solver"
)

// confirmActionStack prints the transaction summary and asks the user
// to confirm it. The prompt is skipped when --assume-yes was given, and
// also when the plan holds exactly as many actions as the user made
// requests: the plan is then precisely what was asked for, with no
// extra dependencies and no conflicts.
//
// A declined prompt aborts with errExitSilently: the exit code is
// non-zero but nothing further is reported.
func confirmActionStack(ctx *mmpack.Ctx, nreq int, stack *solver.ActionStack) error {
	if stack.Len() == 0 {
		ctx.Infof("Nothing to do.")
		return nil
	}

	ctx.Infof("Transaction summary:")
	stack.Dump(ctx.Out.Writer())

	if ctx.AssumeYes || stack.Len() == nreq {
		return nil
	}

	if !promptUserConfirm(ctx) {
		ctx.Infof("Abort.")
		return errExitSilently
	}
	return nil
}

// promptUserConfirm asks on stdin; only an explicit yes proceeds.
func promptUserConfirm(ctx *mmpack.Ctx) bool {
	ctx.Infof("Do you want to proceed? [y/N] ")

	line, err := bufio.NewReader(os.Stdin).ReadString('\n')
	if err != nil {
		return false
	}
	switch strings.ToLower(strings.TrimSpace(line)) {
	case "y", "yes":
		return true
	}
	return false
}

// traceLogger returns the solver trace destination: the error stream
// when verbose output is on, nothing otherwise.
func traceLogger(ctx *mmpack.Ctx) *log.Logger {
	if ctx.Verbose {
		return ctx.Err
	}
	return nil
}
