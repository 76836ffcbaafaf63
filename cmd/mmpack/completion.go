// Copyright 2017 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package main

import (
	"flag"
	"strings"

	"github.com/nbourdau/mmpack"
	"github.com/nbourdau/mmpack/binindex"
)

// completePkgnameCommand backs shell completion scripts: it prints the
// package names starting with the given prefix, one per line, and
// nothing else.
type completePkgnameCommand struct {
	installed bool
}

func (cmd *completePkgnameCommand) Name() string      { return "complete-pkgname" }
func (cmd *completePkgnameCommand) Args() string      { return "[prefix]" }
func (cmd *completePkgnameCommand) ShortHelp() string { return "Print package names for shell completion" }
func (cmd *completePkgnameCommand) LongHelp() string  { return "Print package names for shell completion." }
func (cmd *completePkgnameCommand) Hidden() bool      { return true }

func (cmd *completePkgnameCommand) Register(fs *flag.FlagSet) {
	fs.BoolVar(&cmd.installed, "installed", false, "complete against installed packages only")
}

func (cmd *completePkgnameCommand) Run(ctx *mmpack.Ctx, args []string) error {
	if err := ctx.UsePrefix(); err != nil {
		return err
	}

	prefix := ""
	if len(args) > 0 {
		prefix = args[0]
	}

	if cmd.installed {
		ctx.Installed.Walk(func(p *binindex.Pkg) {
			if strings.HasPrefix(p.Name, prefix) {
				ctx.Infof("%s", p.Name)
			}
		})
		return nil
	}

	ctx.Index.WalkNames(prefix, func(name string, pkgs []*binindex.Pkg) bool {
		ctx.Infof("%s", name)
		return false
	})
	return nil
}
