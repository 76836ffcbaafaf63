// Copyright 2017 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package mmpack

import (
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestCacheDB(t *testing.T) {
	path := filepath.Join(t.TempDir(), "sub", "cache.db")

	cache, err := OpenCacheDB(path)
	require.NoError(t, err)
	defer cache.Close()

	sha := strings.Repeat("a", 64)
	require.False(t, cache.Verified("pkg-a_1.0.mpk", sha))

	cache.MarkVerified("pkg-a_1.0.mpk", sha)
	require.True(t, cache.Verified("pkg-a_1.0.mpk", sha))

	// A different digest for the same archive does not pass.
	require.False(t, cache.Verified("pkg-a_1.0.mpk", strings.Repeat("b", 64)))
	require.False(t, cache.Verified("other.mpk", sha))
}

func TestCacheDBPersists(t *testing.T) {
	path := filepath.Join(t.TempDir(), "cache.db")
	sha := strings.Repeat("c", 64)

	cache, err := OpenCacheDB(path)
	require.NoError(t, err)
	cache.MarkVerified("pkg.mpk", sha)
	require.NoError(t, cache.Close())

	reopened, err := OpenCacheDB(path)
	require.NoError(t, err)
	defer reopened.Close()
	require.True(t, reopened.Verified("pkg.mpk", sha))
}

func TestCacheDBNilReceiver(t *testing.T) {
	var cache *CacheDB

	// All operations degrade gracefully without a ledger.
	require.False(t, cache.Verified("pkg.mpk", strings.Repeat("a", 64)))
	cache.MarkVerified("pkg.mpk", strings.Repeat("a", 64))
	require.NoError(t, cache.Close())
}
