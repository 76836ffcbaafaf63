// Copyright 2017 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package mmpack

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/nbourdau/mmpack/binindex"
)

func TestInstalledListRoundTrip(t *testing.T) {
	ctx, _ := testCtx(t)

	a := ctx.Index.AddPkg(&binindex.Pkg{
		Name: "pkg-a", Version: "1.0", Source: "pkg-a",
		Filename: "pkg-a_1.0.mpk", SHA256: strings.Repeat("a", 64),
		Deps: []binindex.Dependency{{Name: "pkg-b", MinVersion: "any", MaxVersion: "any"}},
	})
	b := ctx.Index.AddPkg(&binindex.Pkg{
		Name: "pkg-b", Version: "2.0", Source: "pkg-b",
		Filename: "pkg-b_2.0.mpk", SHA256: strings.Repeat("b", 64),
	})
	ctx.Installed.Add(a)
	ctx.Installed.Add(b)

	require.NoError(t, ctx.SaveInstalledList())

	// A fresh context over the same prefix recovers the state.
	reloaded := NewContext(ctx.Prefix, ctx.Settings, ctx.Out, ctx.Err)
	require.NoError(t, reloaded.UsePrefix())

	require.Equal(t, 2, reloaded.Installed.Len())
	got := reloaded.Installed.Get("pkg-a")
	require.NotNil(t, got)
	require.Equal(t, "1.0", got.Version)
	require.Len(t, got.Deps, 1)
	require.Equal(t, "pkg-b", got.Deps[0].Name)

	// Installed packages are also visible through the index.
	_, ok := reloaded.Index.GetID("pkg-a")
	require.True(t, ok)
	latest, err := reloaded.Index.GetLatest("pkg-b", binindex.AnyVersion)
	require.NoError(t, err)
	require.Equal(t, "2.0", latest.Version)
}

func TestUsePrefixEmpty(t *testing.T) {
	ctx, _ := testCtx(t)
	require.NoError(t, ctx.UsePrefix())
	require.Equal(t, 0, ctx.Installed.Len())
}

func TestUsePrefixLoadsRepositoryIndex(t *testing.T) {
	ctx, _ := testCtx(t)

	writeFile(t, ctx.Prefix, "var/lib/mmpack/binindex.0.yaml", `
pkg-a:
    version: 1.0
    filename: pkg-a_1.0.mpk
    sha256: `+strings.Repeat("a", 64)+`
`)

	require.NoError(t, ctx.UsePrefix())

	pkg, err := ctx.Index.GetLatest("pkg-a", binindex.AnyVersion)
	require.NoError(t, err)
	require.Equal(t, 0, pkg.RepoIndex)
}

func TestUsePrefixMergesPrefixConfig(t *testing.T) {
	ctx, _ := testCtx(t)

	writeFile(t, ctx.Prefix, "etc/mmpack-config.yaml", `
repositories:
  - override: http://prefix-local.example.com
`)

	require.NoError(t, ctx.UsePrefix())
	require.Equal(t, []Repository{{Name: "override", URL: "http://prefix-local.example.com"}},
		ctx.Settings.Repositories)
}

func TestUsePrefixMalformedInstalledList(t *testing.T) {
	ctx, _ := testCtx(t)
	writeFile(t, ctx.Prefix, "var/lib/mmpack/installed", "]]] not yaml [[[")
	require.Error(t, ctx.UsePrefix())
}
