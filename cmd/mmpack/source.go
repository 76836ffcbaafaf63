// Copyright 2017 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package main

import (
	"flag"
	"fmt"

	"github.com/pkg/errors"

	"github.com/nbourdau/mmpack"
	"github.com/nbourdau/mmpack/binindex"
)

const sourceShortHelp = `Download the source archive of a package`
const sourceLongHelp = `
Source fetches the source archive matching the latest known version of
the given package into the current directory.`

type sourceCommand struct{}

func (cmd *sourceCommand) Name() string      { return "source" }
func (cmd *sourceCommand) Args() string      { return "<pkgname>" }
func (cmd *sourceCommand) ShortHelp() string { return sourceShortHelp }
func (cmd *sourceCommand) LongHelp() string  { return sourceLongHelp }
func (cmd *sourceCommand) Hidden() bool      { return false }

func (cmd *sourceCommand) Register(fs *flag.FlagSet) {}

func (cmd *sourceCommand) Run(ctx *mmpack.Ctx, args []string) error {
	if len(args) != 1 {
		return errors.New("missing package argument in command line\nRun \"mmpack help source\" to see usage")
	}

	if err := ctx.UsePrefix(); err != nil {
		return err
	}

	pkg, err := ctx.Index.GetLatest(args[0], binindex.AnyVersion)
	if err != nil {
		return errors.Wrapf(err, "could not find source package for %q", args[0])
	}

	repoURL, err := ctx.Settings.RepoURL(pkg.RepoIndex)
	if err != nil {
		return errors.Wrapf(err, "package %s is not provided by any configured repository", pkg.Name)
	}

	// Source archives are published as <source>_<version>_src.tar.gz
	// next to the binary packages.
	srcname := fmt.Sprintf("%s_%s_src.tar.gz", pkg.Source, pkg.Version)
	if err := ctx.DownloadFromRepo(repoURL, srcname, srcname); err != nil {
		ctx.Warnf("Failed to download: %s", srcname)
		return err
	}

	ctx.Infof("Downloaded: %s", srcname)
	return nil
}
