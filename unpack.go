// Copyright 2017 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package mmpack

import (
	"archive/tar"
	"bufio"
	"bytes"
	"compress/gzip"
	"io"
	"os"
	"path"
	"path/filepath"
	"strings"

	"github.com/klauspost/compress/zstd"
	"github.com/pkg/errors"
	"github.com/ulikunitz/xz"
)

// A .mpk archive is a tar stream compressed with gzip, xz or zstd,
// recognized by magic bytes. Entry paths begin with "./".
//
// Entries under MMPACK/ are package metadata: MMPACK/info and the
// MMPACK/ directory itself are never extracted, every other MMPACK/<x>
// file lands at var/lib/mmpack/metadata/<pkgname>.<x>. All other
// entries extract at their literal paths.

var (
	gzipMagic = []byte{0x1f, 0x8b}
	xzMagic   = []byte{0xfd, '7', 'z', 'X', 'Z', 0x00}
	zstdMagic = []byte{0x28, 0xb5, 0x2f, 0xfd}
)

// decompressor wraps r with the decoder matching its leading magic
// bytes. An unrecognized stream is assumed to be plain tar.
func decompressor(r io.Reader) (io.Reader, error) {
	br := bufio.NewReader(r)
	magic, err := br.Peek(6)
	if err != nil && !errors.Is(err, io.EOF) {
		return nil, err
	}

	switch {
	case bytes.HasPrefix(magic, gzipMagic):
		return gzip.NewReader(br)
	case bytes.HasPrefix(magic, xzMagic):
		return xz.NewReader(br)
	case bytes.HasPrefix(magic, zstdMagic):
		zr, err := zstd.NewReader(br)
		if err != nil {
			return nil, err
		}
		return zr.IOReadCloser(), nil
	}
	return br, nil
}

// metadataPrefix returns "var/lib/mmpack/metadata/<pkgname>." with the
// platform separator, the destination prefix of redirected metadata.
func metadataPrefix(pkgname string) string {
	return filepath.Join(filepath.FromSlash(metadataRelPath), pkgname) + "."
}

// isMetadataPath reports whether the archive-relative path names an
// internal metadata entry.
func isMetadataPath(p string) bool {
	return strings.HasPrefix(p, "MMPACK")
}

// redirectMetadata inspects an archive-relative path and rewrites
// metadata entries to their metadata-directory destination. The second
// return reports that the entry must be skipped entirely.
func redirectMetadata(p, mdprefix string) (string, bool) {
	if p == "" {
		return "", true
	}
	if !isMetadataPath(p) {
		return filepath.FromSlash(p), false
	}
	if p == "MMPACK/info" || p == "MMPACK/" || p == "MMPACK" {
		return "", true
	}
	return mdprefix + path.Base(p), false
}

// unpackMPKFiles extracts the package archive at mpkfile. Paths are
// interpreted relative to the current directory, which the executor has
// set to the prefix root.
func unpackMPKFiles(pkgname, mpkfile string) error {
	f, err := os.Open(mpkfile)
	if err != nil {
		return errors.Wrapf(err, "opening mpk %s failed", mpkfile)
	}
	defer f.Close()

	dec, err := decompressor(f)
	if err != nil {
		return errors.Wrapf(err, "opening mpk %s failed", mpkfile)
	}

	mdprefix := metadataPrefix(pkgname)
	tr := tar.NewReader(dec)
	for {
		hdr, err := tr.Next()
		if err == io.EOF {
			return nil
		}
		if err != nil {
			return errors.Wrapf(err, "reading mpk %s failed", mpkfile)
		}

		dest, skip := redirectMetadata(strings.TrimPrefix(hdr.Name, "./"), mdprefix)
		if skip {
			continue
		}

		if err := unpackEntry(tr, hdr, dest); err != nil {
			return err
		}
	}
}

func unpackEntry(tr *tar.Reader, hdr *tar.Header, dest string) error {
	switch hdr.Typeflag {
	case tar.TypeDir:
		return errors.Wrapf(os.MkdirAll(dest, 0777), "cannot create %s", dest)

	case tar.TypeReg:
		return unpackRegFile(tr, hdr, dest)

	case tar.TypeSymlink:
		return unpackSymlink(hdr.Linkname, dest)

	default:
		return errors.Errorf("unexpected file type of %s", dest)
	}
}

func unpackRegFile(tr *tar.Reader, hdr *tar.Header, dest string) error {
	// If a previous file exists, remove it first.
	if err := removeExisting(dest); err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(dest), 0777); err != nil {
		return errors.Wrapf(err, "cannot create parent of %s", dest)
	}

	f, err := os.OpenFile(dest, os.O_CREATE|os.O_EXCL|os.O_WRONLY, os.FileMode(hdr.Mode)&os.ModePerm)
	if err != nil {
		return errors.Wrapf(err, "unpacking %s failed", dest)
	}

	if _, err := io.Copy(f, tr); err != nil {
		f.Close()
		return errors.Wrapf(err, "unpacking %s failed", dest)
	}
	return errors.Wrapf(f.Close(), "unpacking %s failed", dest)
}

func unpackSymlink(target, dest string) error {
	if err := removeExisting(dest); err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(dest), 0777); err != nil {
		return errors.Wrapf(err, "cannot create parent of %s", dest)
	}
	return errors.Wrapf(os.Symlink(target, dest), "unpacking %s failed", dest)
}

func removeExisting(path string) error {
	if _, err := os.Lstat(path); err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return errors.Wrapf(err, "cannot inspect %s", path)
	}
	return errors.Wrapf(os.Remove(path), "cannot replace %s", path)
}
