// Copyright 2017 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package main

import (
	"flag"
	"runtime"

	"github.com/nbourdau/mmpack"
)

var (
	// VERSION indicates which version of the binary is running.
	VERSION = "devel"

	// GITCOMMIT indicates which git hash the binary was built off of.
	GITCOMMIT string
)

type versionCommand struct{}

func (cmd *versionCommand) Name() string      { return "version" }
func (cmd *versionCommand) Args() string      { return "" }
func (cmd *versionCommand) ShortHelp() string { return "Print the version" }
func (cmd *versionCommand) LongHelp() string {
	return "Version prints the version, git commit, runtime OS and ARCH."
}
func (cmd *versionCommand) Hidden() bool              { return false }
func (cmd *versionCommand) Register(fs *flag.FlagSet) {}

func (cmd *versionCommand) Run(ctx *mmpack.Ctx, args []string) error {
	ctx.Infof("mmpack version %s %s %s/%s", VERSION, GITCOMMIT, runtime.GOOS, runtime.GOARCH)
	return nil
}
