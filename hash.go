// Copyright 2017 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package mmpack

import (
	"crypto/sha256"
	"encoding/hex"
	"io"
	"os"

	"github.com/pkg/errors"
)

// shaHexLen is the length of a hex-encoded SHA-256 digest.
const shaHexLen = 64

// HashFile computes the hex-encoded SHA-256 digest of the named file.
func HashFile(path string) (string, error) {
	f, err := os.Open(path)
	if err != nil {
		return "", errors.Wrapf(err, "cannot hash %s", path)
	}
	defer f.Close()

	h := sha256.New()
	if _, err := io.Copy(h, f); err != nil {
		return "", errors.Wrapf(err, "cannot hash %s", path)
	}
	return hex.EncodeToString(h.Sum(nil)), nil
}

// IntegrityError reports a file whose digest does not match the digest
// the index or the metadata recorded for it.
type IntegrityError struct {
	Path string
}

func (e *IntegrityError) Error() string {
	return "bad SHA-256 detected on " + e.Path
}

// CheckFileHash compares the digest of the named file against refSHA
// and fails with an IntegrityError on mismatch.
func CheckFileHash(refSHA, path string) error {
	sha, err := HashFile(path)
	if err != nil {
		return err
	}
	if sha != refSHA {
		return errors.WithStack(&IntegrityError{Path: path})
	}
	return nil
}
