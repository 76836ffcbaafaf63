// Copyright 2017 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package mmpack

import (
	"bufio"
	"os"
	"path/filepath"
	"strings"

	"github.com/pkg/errors"
)

// maxSumshaPath bounds the path field of a sha256sums line. A longer
// path is a format error.
const maxSumshaPath = 512

// sumshaEntry is one line of a <pkgname>.sha256sums file:
// "<relative-path>: sha256 <64 hex>". The hash label is optional on
// input. A path with a trailing slash denotes a directory and carries
// no meaningful hash.
type sumshaEntry struct {
	Path string
	SHA  string
}

func (e sumshaEntry) isDir() bool {
	return strings.HasSuffix(e.Path, "/")
}

// parseSumsha reads a sha256sums file.
func parseSumsha(path string) ([]sumshaEntry, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, errors.Wrapf(err, "cannot open %s", path)
	}
	defer f.Close()

	var entries []sumshaEntry
	sc := bufio.NewScanner(f)
	for sc.Scan() {
		line := sc.Text()
		if line == "" {
			continue
		}

		i := strings.LastIndex(line, ": ")
		if i < 0 {
			return nil, errors.Errorf("error while parsing SHA-256 file %s", path)
		}
		entry := sumshaEntry{Path: line[:i], SHA: line[i+2:]}
		entry.SHA = strings.TrimPrefix(entry.SHA, "sha256 ")

		if len(entry.Path) > maxSumshaPath {
			return nil, errors.Errorf("path of file listed in %s is too long (%.64s...)", path, entry.Path)
		}
		if !entry.isDir() && len(entry.SHA) != shaHexLen {
			return nil, errors.Errorf("error while parsing SHA-256 file %s", path)
		}

		entries = append(entries, entry)
	}
	if err := sc.Err(); err != nil {
		return nil, errors.Wrapf(err, "cannot read %s", path)
	}
	return entries, nil
}

// sumshaPath returns the prefix-relative sha256sums file of a package.
func sumshaPath(pkgname string) string {
	return metadataPrefix(pkgname) + "sha256sums"
}

// listRmFiles returns the prefix-relative files to delete when removing
// pkgname: the files its sha256sums lists (metadata entries redirected
// to their real location, directories skipped) plus the sha256sums file
// itself.
func listRmFiles(pkgname string) ([]string, error) {
	sumsha := sumshaPath(pkgname)
	entries, err := parseSumsha(sumsha)
	if err != nil {
		return nil, err
	}

	mdprefix := metadataPrefix(pkgname)
	files := []string{sumsha}
	for _, e := range entries {
		if e.isDir() {
			continue
		}
		dest, skip := redirectMetadata(e.Path, mdprefix)
		if skip {
			continue
		}
		files = append(files, dest)
	}
	return files, nil
}

// CheckPkgIntegrity verifies every non-metadata file listed in the
// sha256sums file at sumsha against its recorded digest. Paths resolve
// relative to parent when non-empty.
func CheckPkgIntegrity(parent, sumsha string) error {
	entries, err := parseSumsha(sumsha)
	if err != nil {
		return err
	}

	for _, e := range entries {
		if e.isDir() || isMetadataPath(e.Path) {
			continue
		}

		path := filepath.FromSlash(e.Path)
		if parent != "" {
			path = filepath.Join(parent, path)
		}
		if err := CheckFileHash(e.SHA, path); err != nil {
			return err
		}
	}
	return nil
}
