// Copyright 2017 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package main

import (
	"flag"

	"golang.org/x/sync/errgroup"

	"github.com/nbourdau/mmpack"
)

const updateShortHelp = `Refresh the package list of every repository`
const updateLongHelp = `
Update downloads the binary index of every configured repository and
stores it in the prefix, so that subsequent install and download
commands see the current package lists.`

// indexFilename is the name under which every repository publishes its
// package list.
const indexFilename = "binary-index"

type updateCommand struct{}

func (cmd *updateCommand) Name() string      { return "update" }
func (cmd *updateCommand) Args() string      { return "" }
func (cmd *updateCommand) ShortHelp() string { return updateShortHelp }
func (cmd *updateCommand) LongHelp() string  { return updateLongHelp }
func (cmd *updateCommand) Hidden() bool      { return false }

func (cmd *updateCommand) Register(fs *flag.FlagSet) {}

func (cmd *updateCommand) Run(ctx *mmpack.Ctx, args []string) error {
	if err := ctx.UsePrefix(); err != nil {
		return err
	}

	var g errgroup.Group
	for i := range ctx.Settings.Repositories {
		repo := ctx.Settings.Repositories[i]
		dest := ctx.IndexCachePath(i)

		g.Go(func() error {
			if err := ctx.DownloadFromRepo(repo.URL, indexFilename, dest); err != nil {
				ctx.Warnf("Failed to download package list from %s", repo.URL)
				return err
			}
			ctx.Infof("Updated package list from repository: %s", repo.URL)
			return nil
		})
	}

	return g.Wait()
}
