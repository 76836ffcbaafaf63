// Copyright 2017 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package mmpack

import (
	"os"
	"path/filepath"

	"github.com/google/renameio"
	"github.com/pkg/errors"

	"github.com/nbourdau/mmpack/binindex"
	"github.com/nbourdau/mmpack/internal/fs"
)

// loadInstalledList populates the install state from the prefix's
// installed list. The recorded packages are also fed to the index so
// that reverse-dependency scans and solver lookup tables cover them.
// When an indexed variant with the same name, version and repository
// exists, the index returns the canonical record, which is the one
// registered as installed.
func (c *Ctx) loadInstalledList() error {
	data, err := os.ReadFile(c.InstalledListPath())
	if os.IsNotExist(err) {
		return nil
	}
	if err != nil {
		return errors.Wrap(err, "cannot read installed list")
	}

	pkgs, err := binindex.ParsePkgList(data, binindex.InstalledRepoIndex)
	if err != nil {
		return errors.Wrap(err, "installed list")
	}

	for _, p := range pkgs {
		c.Installed.Add(c.Index.AddPkg(p))
	}
	return nil
}

// SaveInstalledList atomically rewrites the installed list of the
// prefix from the current install state. It is only called after an
// action stack has been fully applied, so a crash mid-apply leaves the
// previous list in place.
func (c *Ctx) SaveInstalledList() error {
	var pkgs []*binindex.Pkg
	c.Installed.Walk(func(p *binindex.Pkg) {
		pkgs = append(pkgs, p)
	})

	data, err := binindex.EncodePkgList(pkgs)
	if err != nil {
		return err
	}

	path := c.InstalledListPath()
	if err := fs.EnsureDir(filepath.Dir(path), 0777); err != nil {
		return err
	}
	return errors.Wrap(renameio.WriteFile(path, data, 0644), "cannot write installed list")
}
