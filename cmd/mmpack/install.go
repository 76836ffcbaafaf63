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

const installShortHelp = `Install packages and their dependencies`
const installLongHelp = `
Install downloads and installs the given packages and their
dependencies into the current prefix. If mmpack finds missing system
dependencies, it aborts the installation and reports them.

Each argument is a package name, optionally constrained to an exact
version with name=version.`

type installCommand struct {
	assumeYes bool
}

func (cmd *installCommand) Name() string      { return "install" }
func (cmd *installCommand) Args() string      { return "<pkgname>[=<version>]..." }
func (cmd *installCommand) ShortHelp() string { return installShortHelp }
func (cmd *installCommand) LongHelp() string  { return installLongHelp }
func (cmd *installCommand) Hidden() bool      { return false }

func (cmd *installCommand) Register(fs *flag.FlagSet) {
	fs.BoolVar(&cmd.assumeYes, "y", false, "assume \"yes\" as answer to all prompts and run non-interactively")
	fs.BoolVar(&cmd.assumeYes, "assume-yes", false, "assume \"yes\" as answer to all prompts and run non-interactively")
}

func (cmd *installCommand) Run(ctx *mmpack.Ctx, args []string) error {
	if len(args) == 0 {
		return errors.New("missing package list argument in command line\nRun \"mmpack help install\" to see usage")
	}
	ctx.AssumeYes = cmd.assumeYes

	if err := ctx.UsePrefix(); err != nil {
		return err
	}

	reqs := make([]solver.Request, len(args))
	for i, arg := range args {
		reqs[i] = solver.ParseRequest(arg)
	}

	stack, err := solver.InstallList(ctx.Index, ctx.Installed, reqs, traceLogger(ctx))
	if err != nil {
		return err
	}

	if err := confirmActionStack(ctx, len(reqs), stack); err != nil {
		return err
	}
	if stack.Len() == 0 {
		return nil
	}

	return ctx.ApplyActionStack(stack)
}
