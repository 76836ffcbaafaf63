// Copyright 2017 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package mmpack

import (
	"os"
	"path"
	"path/filepath"
	"strings"

	"github.com/pkg/errors"

	"github.com/nbourdau/mmpack/internal/fs"
	"github.com/nbourdau/mmpack/solver"
)

// ApplyActionStack executes a plan: it checks system dependencies,
// fetches and verifies the archives of every package to install, then
// applies the actions strictly in order, and finally persists the
// updated installed list.
//
// The prefix is assumed to be this process's exclusive working area for
// the duration of the call; an exclusive lock enforces that against
// other mmpack processes, and the process chdirs into the prefix so
// every prefix-relative path applies directly. A failing action aborts
// the remainder of the stack; the installed list is only rewritten when
// every action succeeded, so the metadata view of an interrupted apply
// stays the pre-apply one.
func (c *Ctx) ApplyActionStack(stack *solver.ActionStack) error {
	if err := c.checkNewSysDeps(stack); err != nil {
		return err
	}

	unlock, err := c.LockPrefix()
	if err != nil {
		return err
	}
	defer unlock()

	olddir, err := os.Getwd()
	if err != nil {
		return errors.Wrap(err, "cannot get current directory")
	}
	// Prefix-joined paths (ledger, installed list) must still name the
	// prefix once the working directory has changed.
	prefix, err := filepath.Abs(c.Prefix)
	if err != nil {
		return errors.Wrap(err, "cannot resolve prefix")
	}
	c.Prefix = prefix
	if err := fs.EnsureDir(c.Prefix, 0777); err != nil {
		return err
	}
	if err := os.Chdir(c.Prefix); err != nil {
		return errors.Wrapf(err, "cannot enter prefix %s", c.Prefix)
	}
	defer os.Chdir(olddir)

	if err := os.MkdirAll(metadataRelPath, 0777); err != nil {
		return errors.Wrap(err, "cannot create metadata directory")
	}

	if err := c.fetchPkgs(stack); err != nil {
		return err
	}

	for i := range stack.Actions {
		act := &stack.Actions[i]
		switch act.Kind {
		case solver.ActionInstall:
			err = c.installPackage(act)
		case solver.ActionRemove:
			err = c.removePackage(act)
		}
		if err != nil {
			return err
		}
	}

	return c.SaveInstalledList()
}

// checkNewSysDeps verifies the union of system dependencies across all
// packages the stack installs, before anything touches the filesystem.
func (c *Ctx) checkNewSysDeps(stack *solver.ActionStack) error {
	seen := make(map[string]struct{})
	var sysdeps []string
	for _, act := range stack.Actions {
		if act.Kind != solver.ActionInstall {
			continue
		}
		for _, dep := range act.Pkg.SysDeps {
			if _, ok := seen[dep]; !ok {
				seen[dep] = struct{}{}
				sysdeps = append(sysdeps, dep)
			}
		}
	}

	missing, err := c.CheckSysDeps(sysdeps)
	if err != nil {
		return errors.Wrap(err, "cannot check system dependencies")
	}
	if len(missing) > 0 {
		return errors.Errorf("missing system dependencies: %s", strings.Join(missing, ", "))
	}
	return nil
}

// fetchPkgs ensures every archive the stack installs sits verified in
// the package cache, downloading the missing ones, and records the
// cache location in each action's Pathname.
//
// Paths are relative: the caller already changed into the prefix.
func (c *Ctx) fetchPkgs(stack *solver.ActionStack) error {
	cache, err := OpenCacheDB(c.path(cacheDBRelPath))
	if err != nil {
		c.Debugf("cannot open package cache ledger: %v", err)
		cache = nil
	}
	defer cache.Close()

	for i := range stack.Actions {
		act := &stack.Actions[i]
		if act.Kind != solver.ActionInstall {
			continue
		}
		pkg := act.Pkg

		base := path.Base(pkg.Filename)
		mpkfile := filepath.Join(filepath.FromSlash(pkgCacheRelPath), base)
		act.Pathname = mpkfile

		if err := fs.EnsureDir(filepath.Dir(mpkfile), 0777); err != nil {
			return err
		}

		// A previously downloaded archive is reused if its digest
		// still matches; the ledger remembers archives already hashed.
		if fs.FileExists(mpkfile) {
			if cache.Verified(base, pkg.SHA256) || CheckFileHash(pkg.SHA256, mpkfile) == nil {
				cache.MarkVerified(base, pkg.SHA256)
				c.Debugf("going to install %s (%s) from cache", pkg.Name, pkg.Version)
				continue
			}
		}

		repoURL, err := c.Settings.RepoURL(pkg.RepoIndex)
		if err != nil {
			return errors.Wrapf(err, "package %s is not provided by any configured repository", pkg.Name)
		}

		c.Infof("Downloading %s (%s)...", pkg.Name, pkg.Version)
		if err := c.DownloadFromRepo(repoURL, pkg.Filename, mpkfile); err != nil {
			c.Infof("Failed!")
			return err
		}
		if err := CheckFileHash(pkg.SHA256, mpkfile); err != nil {
			c.Infof("Integrity check failed!")
			return err
		}
		cache.MarkVerified(base, pkg.SHA256)
		c.Infof("OK")
	}

	return nil
}

// installPackage unpacks a fetched archive into the prefix and
// registers the package as installed.
func (c *Ctx) installPackage(act *solver.Action) error {
	pkg := act.Pkg

	c.Infof("Installing package %s (%s)...", pkg.Name, pkg.Version)
	if err := unpackMPKFiles(pkg.Name, act.Pathname); err != nil {
		c.Infof("Failed!")
		return err
	}

	c.Installed.Add(pkg)
	c.Infof("OK")
	return nil
}

// removePackage unlinks every file the package installed and
// unregisters it. A file already absent is logged and skipped; any
// other unlink failure halts the apply.
func (c *Ctx) removePackage(act *solver.Action) error {
	pkg := act.Pkg

	c.Infof("Removing package %s...", pkg.Name)
	files, err := listRmFiles(pkg.Name)
	if err != nil {
		c.Infof("Failed!")
		return err
	}

	for _, file := range files {
		missing, err := fs.UnlinkTolerant(file)
		if err != nil {
			c.Infof("Failed!")
			return err
		}
		if missing {
			c.Debugf("file %s was already gone", file)
		}
	}

	c.Installed.Remove(pkg.Name)
	c.Infof("OK")
	return nil
}
