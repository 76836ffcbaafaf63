// Copyright 2017 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package main

import (
	"flag"
	"strings"

	"github.com/pkg/errors"

	"github.com/nbourdau/mmpack"
	"github.com/nbourdau/mmpack/binindex"
)

const listShortHelp = `List available or installed packages`
const listLongHelp = `
List enumerates package names known to the prefix. The first argument
selects the set: "all" (the default) lists every available package,
"installed" restricts to what is currently installed. An optional
second argument restricts the listing to names starting with it.`

type listCommand struct{}

func (cmd *listCommand) Name() string      { return "list" }
func (cmd *listCommand) Args() string      { return "[all|installed] [prefix]" }
func (cmd *listCommand) ShortHelp() string { return listShortHelp }
func (cmd *listCommand) LongHelp() string  { return listLongHelp }
func (cmd *listCommand) Hidden() bool      { return false }

func (cmd *listCommand) Register(fs *flag.FlagSet) {}

func (cmd *listCommand) Run(ctx *mmpack.Ctx, args []string) error {
	mode := "all"
	pattern := ""
	if len(args) > 0 {
		mode = args[0]
	}
	if len(args) > 1 {
		pattern = args[1]
	}

	if err := ctx.UsePrefix(); err != nil {
		return err
	}

	found := false
	switch mode {
	case "all":
		ctx.Index.WalkNames(pattern, func(name string, pkgs []*binindex.Pkg) bool {
			for _, p := range pkgs {
				marker := ""
				if inst := ctx.Installed.Get(name); inst != nil && inst.Version == p.Version {
					marker = " [installed]"
				}
				ctx.Infof("%s (%s)%s", p.Name, p.Version, marker)
				found = true
			}
			return false
		})

	case "installed":
		ctx.Installed.Walk(func(p *binindex.Pkg) {
			if pattern != "" && !strings.HasPrefix(p.Name, pattern) {
				return
			}
			ctx.Infof("%s (%s)", p.Name, p.Version)
			found = true
		})

	default:
		return errors.Errorf("unknown list mode %q", mode)
	}

	if !found {
		ctx.Infof("No package found")
	}
	return nil
}
