// Copyright 2017 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package main

import (
	"flag"
	"path"

	"github.com/pkg/errors"

	"github.com/nbourdau/mmpack"
	"github.com/nbourdau/mmpack/binindex"
	"github.com/nbourdau/mmpack/solver"
)

const downloadShortHelp = `Download a package archive without installing it`
const downloadLongHelp = `
Download fetches the archive of the given package into the current
directory. Nothing is installed and the prefix state is not modified.`

type downloadCommand struct{}

func (cmd *downloadCommand) Name() string      { return "download" }
func (cmd *downloadCommand) Args() string      { return "<pkgname>[=<version>]" }
func (cmd *downloadCommand) ShortHelp() string { return downloadShortHelp }
func (cmd *downloadCommand) LongHelp() string  { return downloadLongHelp }
func (cmd *downloadCommand) Hidden() bool      { return false }

func (cmd *downloadCommand) Register(fs *flag.FlagSet) {}

func (cmd *downloadCommand) Run(ctx *mmpack.Ctx, args []string) error {
	if len(args) != 1 {
		return errors.New("missing package argument in command line\nRun \"mmpack help download\" to see usage")
	}

	if err := ctx.UsePrefix(); err != nil {
		return err
	}

	req := solver.ParseRequest(args[0])
	version := req.Version
	if version == "" {
		version = binindex.AnyVersion
	}

	pkg, err := ctx.Index.GetLatest(req.Name, version)
	if err != nil {
		return err
	}

	repoURL, err := ctx.Settings.RepoURL(pkg.RepoIndex)
	if err != nil {
		return errors.Wrapf(err, "package %s is not provided by any configured repository", pkg.Name)
	}

	dest := path.Base(pkg.Filename)
	if err := ctx.DownloadFromRepo(repoURL, pkg.Filename, dest); err != nil {
		return err
	}
	if err := mmpack.CheckFileHash(pkg.SHA256, dest); err != nil {
		return err
	}

	ctx.Infof("Downloaded: %s", dest)
	return nil
}
