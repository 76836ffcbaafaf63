// Copyright 2017 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package fs holds the few filesystem helpers shared by the downloader
// and the executor.
package fs

import (
	"io"
	"os"
	"path/filepath"

	"github.com/pkg/errors"
)

// FileExists reports whether path names an existing file or directory.
func FileExists(path string) bool {
	_, err := os.Lstat(path)
	return err == nil
}

// IsDir determines if the path given is a directory or not.
func IsDir(name string) (bool, error) {
	fi, err := os.Stat(name)
	if err != nil {
		return false, err
	}
	if !fi.IsDir() {
		return false, errors.Errorf("%q is not a directory", name)
	}
	return true, nil
}

// EnsureDir creates dir and any missing parents.
func EnsureDir(dir string, perm os.FileMode) error {
	return errors.Wrapf(os.MkdirAll(dir, perm), "cannot create directory %s", dir)
}

// RenameWithFallback attempts to rename a file, but falls back to
// copying in the event of a cross-device link error. If the fallback
// copy succeeds, src is still removed, emulating normal rename
// behavior.
func RenameWithFallback(src, dst string) error {
	if _, err := os.Stat(src); err != nil {
		return errors.Wrapf(err, "cannot stat %s", src)
	}

	if err := os.Rename(src, dst); err == nil {
		return nil
	}

	if err := copyFile(src, dst); err != nil {
		return errors.Wrapf(err, "rename fallback failed: cannot rename %s to %s", src, dst)
	}
	return errors.Wrapf(os.Remove(src), "cannot delete %s", src)
}

// copyFile copies the contents and mode of the file named src to the
// file named by dst. The destination is created or truncated.
func copyFile(src, dst string) error {
	in, err := os.Open(src)
	if err != nil {
		return err
	}
	defer in.Close()

	fi, err := in.Stat()
	if err != nil {
		return err
	}

	out, err := os.OpenFile(dst, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, fi.Mode())
	if err != nil {
		return err
	}

	if _, err = io.Copy(out, in); err != nil {
		out.Close()
		return err
	}
	return out.Close()
}

// UnlinkTolerant removes path, treating an already-absent file as
// success. The second return reports whether the file was actually
// missing.
func UnlinkTolerant(path string) (missing bool, err error) {
	err = os.Remove(path)
	if err == nil {
		return false, nil
	}
	if os.IsNotExist(err) {
		return true, nil
	}
	return false, errors.Wrapf(err, "cannot remove %s", filepath.Clean(path))
}
