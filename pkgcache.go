// Copyright 2017 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package mmpack

import (
	"path/filepath"
	"time"

	bolt "go.etcd.io/bbolt"

	"github.com/nbourdau/mmpack/internal/fs"
)

// CacheDB is a small bolt-backed ledger of downloaded archives whose
// SHA-256 has already been verified, letting repeated installs skip
// re-hashing archives sitting in the package cache.
//
// The ledger is strictly an optimization: all methods are safe on a nil
// receiver, and opening failures degrade to running without a ledger.
type CacheDB struct {
	db *bolt.DB
}

var verifiedBucket = []byte("verified-archives")

// OpenCacheDB opens (creating if needed) the ledger at path.
func OpenCacheDB(path string) (*CacheDB, error) {
	if err := fs.EnsureDir(filepath.Dir(path), 0777); err != nil {
		return nil, err
	}

	db, err := bolt.Open(path, 0600, &bolt.Options{Timeout: time.Second})
	if err != nil {
		return nil, err
	}
	return &CacheDB{db: db}, nil
}

// Close releases the ledger.
func (c *CacheDB) Close() error {
	if c == nil || c.db == nil {
		return nil
	}
	return c.db.Close()
}

// Verified reports whether the archive named base was previously
// verified to carry the digest sha.
func (c *CacheDB) Verified(base, sha string) bool {
	if c == nil || c.db == nil {
		return false
	}

	var ok bool
	_ = c.db.View(func(tx *bolt.Tx) error {
		b := tx.Bucket(verifiedBucket)
		if b == nil {
			return nil
		}
		ok = string(b.Get([]byte(base))) == sha
		return nil
	})
	return ok
}

// MarkVerified records that the archive named base carries the digest
// sha. Failures are swallowed; the worst outcome is a re-hash later.
func (c *CacheDB) MarkVerified(base, sha string) {
	if c == nil || c.db == nil {
		return
	}

	_ = c.db.Update(func(tx *bolt.Tx) error {
		b, err := tx.CreateBucketIfNotExists(verifiedBucket)
		if err != nil {
			return err
		}
		return b.Put([]byte(base), []byte(sha))
	})
}
