// Copyright 2017 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package main

import (
	"flag"

	"github.com/pkg/errors"

	"github.com/nbourdau/mmpack"
	"github.com/nbourdau/mmpack/solver"
)

const removeShortHelp = `Remove packages and their dependents`
const removeLongHelp = `
Remove deletes the given packages and every installed package depending
on them from the current prefix. If the transaction covers packages
beyond the requested ones, user confirmation is asked before
proceeding.`

type removeCommand struct {
	assumeYes bool
}

func (cmd *removeCommand) Name() string      { return "remove" }
func (cmd *removeCommand) Args() string      { return "<pkgname>..." }
func (cmd *removeCommand) ShortHelp() string { return removeShortHelp }
func (cmd *removeCommand) LongHelp() string  { return removeLongHelp }
func (cmd *removeCommand) Hidden() bool      { return false }

func (cmd *removeCommand) Register(fs *flag.FlagSet) {
	fs.BoolVar(&cmd.assumeYes, "y", false, "assume \"yes\" as answer to all prompts and run non-interactively")
	fs.BoolVar(&cmd.assumeYes, "assume-yes", false, "assume \"yes\" as answer to all prompts and run non-interactively")
}

func (cmd *removeCommand) Run(ctx *mmpack.Ctx, args []string) error {
	if len(args) == 0 {
		return errors.New("missing package list argument in command line\nRun \"mmpack help remove\" to see usage")
	}
	ctx.AssumeYes = cmd.assumeYes

	if err := ctx.UsePrefix(); err != nil {
		return err
	}

	reqs := make([]solver.Request, len(args))
	for i, arg := range args {
		reqs[i] = solver.Request{Name: arg}
		if ctx.Installed.Get(arg) == nil {
			ctx.Infof("%s is not installed, thus will not be removed", arg)
		}
	}

	stack := solver.RemoveList(ctx.Installed, reqs)

	if err := confirmActionStack(ctx, len(reqs), stack); err != nil {
		return err
	}
	if stack.Len() == 0 {
		return nil
	}

	return ctx.ApplyActionStack(stack)
}
