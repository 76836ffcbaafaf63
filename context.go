// Copyright 2017 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package mmpack ties the binary index, the install state and the
// prefix together: configuration, prefix layout, persisted state, the
// downloader and the executor applying action plans.
package mmpack

import (
	"fmt"
	"log"
	"os"
	"path/filepath"
	"time"

	"github.com/nightlyone/lockfile"
	"github.com/pkg/errors"

	"github.com/nbourdau/mmpack/binindex"
	"github.com/nbourdau/mmpack/internal/fs"
)

// Relative locations inside a prefix. Every path the tool touches
// during an apply is relative to the prefix root.
const (
	metadataRelPath  = "var/lib/mmpack/metadata"
	installedRelPath = "var/lib/mmpack/installed"
	indexCacheRelDir = "var/lib/mmpack"
	pkgCacheRelPath  = "var/cache/mmpack/pkgs"
	cacheDBRelPath   = "var/cache/mmpack/cache.db"
	lockRelPath      = "var/lib/mmpack/lock"
	prefixConfigRel  = "etc/mmpack-config.yaml"
)

// PrefixEnvVar overrides the configured default prefix when set.
const PrefixEnvVar = "MMPACK_PREFIX"

// Ctx carries everything a command needs: the resolved prefix, the
// settings, the loaded catalog and install state, and the output
// loggers.
type Ctx struct {
	Prefix   string
	Settings *Settings

	Index     *binindex.BinIndex
	Installed *binindex.InstallState

	// Out is where regular output goes; Err is for errors and
	// warnings. Verbose additionally enables debug output on Err.
	Out     *log.Logger
	Err     *log.Logger
	Verbose bool

	// CheckSysDeps reports which of the given OS-level prerequisites
	// are missing on the host. Replaceable for testing.
	CheckSysDeps func(names []string) (missing []string, err error)

	// AssumeYes suppresses confirmation prompts.
	AssumeYes bool
}

// NewContext assembles a context from settings and an explicit prefix.
// An empty prefix resolves through MMPACK_PREFIX and then the
// configured default.
func NewContext(prefix string, settings *Settings, out, errOut *log.Logger) *Ctx {
	if prefix == "" {
		prefix = os.Getenv(PrefixEnvVar)
	}
	if prefix == "" {
		prefix = settings.DefaultPrefix
	}

	return &Ctx{
		Prefix:       prefix,
		Settings:     settings,
		Out:          out,
		Err:          errOut,
		CheckSysDeps: checkSysDepsInstalled,
	}
}

// Infof logs to the regular output stream.
func (c *Ctx) Infof(format string, args ...interface{}) {
	c.Out.Printf(format, args...)
}

// Warnf logs to the error stream.
func (c *Ctx) Warnf(format string, args ...interface{}) {
	c.Err.Printf(format, args...)
}

// Debugf logs to the error stream when verbose output is enabled.
func (c *Ctx) Debugf(format string, args ...interface{}) {
	if c.Verbose {
		c.Err.Printf(format, args...)
	}
}

// path joins a prefix-relative location onto the prefix root.
func (c *Ctx) path(rel string) string {
	return filepath.Join(c.Prefix, filepath.FromSlash(rel))
}

// MetadataDir returns the per-package metadata directory of the prefix.
func (c *Ctx) MetadataDir() string {
	return c.path(metadataRelPath)
}

// PkgCacheDir returns the downloaded-archive cache of the prefix.
func (c *Ctx) PkgCacheDir() string {
	return c.path(pkgCacheRelPath)
}

// IndexCachePath returns the cached binary-index file of the repository
// at the given index.
func (c *Ctx) IndexCachePath(repoIndex int) string {
	return filepath.Join(c.path(indexCacheRelDir), fmt.Sprintf("binindex.%d.yaml", repoIndex))
}

// InstalledListPath returns the installed-package list file.
func (c *Ctx) InstalledListPath() string {
	return c.path(installedRelPath)
}

// UsePrefix loads everything the prefix holds: the prefix-local
// configuration (merged over the user settings), the cached repository
// indices, and the installed list. Packages recovered from the
// installed list are registered in the index too, so that they remain
// known even when no repository lists them anymore.
func (c *Ctx) UsePrefix() error {
	if err := c.Settings.LoadFile(c.path(prefixConfigRel)); err != nil {
		return err
	}

	c.Index = binindex.NewIndex()
	c.Installed = binindex.NewInstallState()

	for i := range c.Settings.Repositories {
		path := c.IndexCachePath(i)
		data, err := os.ReadFile(path)
		if os.IsNotExist(err) {
			c.Debugf("no cached index for repository %s, run \"mmpack update\"",
				c.Settings.Repositories[i].Name)
			continue
		}
		if err != nil {
			return errors.Wrapf(err, "cannot read %s", path)
		}

		pkgs, err := binindex.ParsePkgList(data, i)
		if err != nil {
			return errors.Wrapf(err, "index of repository %s", c.Settings.Repositories[i].Name)
		}
		for _, p := range pkgs {
			c.Index.AddPkg(p)
		}
	}

	return c.loadInstalledList()
}

// LockPrefix takes the exclusive prefix lock, retrying briefly if
// another mmpack process holds it. The returned function releases it.
func (c *Ctx) LockPrefix() (func(), error) {
	path := c.path(lockRelPath)
	if err := fs.EnsureDir(filepath.Dir(path), 0777); err != nil {
		return nil, err
	}

	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, errors.Wrap(err, "cannot resolve lock path")
	}

	lock, err := lockfile.New(abs)
	if err != nil {
		return nil, errors.Wrap(err, "cannot init prefix lock")
	}

	for i := 0; ; i++ {
		err = lock.TryLock()
		if err == nil {
			break
		}
		if i >= 3 {
			return nil, errors.Wrapf(err, "prefix %s is locked by another process", c.Prefix)
		}
		time.Sleep(250 * time.Millisecond)
	}

	return func() {
		if err := lock.Unlock(); err != nil {
			c.Warnf("cannot release prefix lock: %v", err)
		}
	}, nil
}
