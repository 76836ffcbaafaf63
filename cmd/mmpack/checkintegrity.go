// Copyright 2017 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package main

import (
	"flag"
	"path/filepath"

	"github.com/nbourdau/mmpack"
	"github.com/nbourdau/mmpack/binindex"
)

const checkIntegrityShortHelp = `Verify files of installed packages against their recorded hashes`
const checkIntegrityLongHelp = `
Check-integrity recomputes the SHA-256 digest of every file installed
by the given package (or by all installed packages when no argument is
supplied) and compares it against the digest recorded at installation
time.`

type checkIntegrityCommand struct{}

func (cmd *checkIntegrityCommand) Name() string      { return "check-integrity" }
func (cmd *checkIntegrityCommand) Args() string      { return "[pkgname]" }
func (cmd *checkIntegrityCommand) ShortHelp() string { return checkIntegrityShortHelp }
func (cmd *checkIntegrityCommand) LongHelp() string  { return checkIntegrityLongHelp }
func (cmd *checkIntegrityCommand) Hidden() bool      { return false }

func (cmd *checkIntegrityCommand) Register(fs *flag.FlagSet) {}

func (cmd *checkIntegrityCommand) Run(ctx *mmpack.Ctx, args []string) error {
	if err := ctx.UsePrefix(); err != nil {
		return err
	}

	var failed error
	check := func(p *binindex.Pkg) {
		sumsha := filepath.Join(ctx.MetadataDir(), p.Name+".sha256sums")
		if err := mmpack.CheckPkgIntegrity(ctx.Prefix, sumsha); err != nil {
			ctx.Warnf("%s: %v", p.Name, err)
			failed = errExitSilently
			return
		}
		ctx.Debugf("%s: ok", p.Name)
	}

	if len(args) > 0 {
		for _, name := range args {
			pkg := ctx.Installed.Get(name)
			if pkg == nil {
				ctx.Infof("%s is not installed", name)
				continue
			}
			check(pkg)
		}
	} else {
		ctx.Installed.Walk(check)
	}

	return failed
}
