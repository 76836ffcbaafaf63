// Copyright 2017 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package mmpack

import (
	"io"
	"log"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func quietCtx(t *testing.T) *Ctx {
	t.Helper()
	quiet := log.New(io.Discard, "", 0)
	return NewContext(t.TempDir(), NewSettings(), quiet, quiet)
}

func TestDownloadFromHTTPRepo(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/repo/pkg-a_1.0.mpk":
			io.WriteString(w, "archive bytes")
		default:
			http.NotFound(w, r)
		}
	}))
	defer srv.Close()

	ctx := quietCtx(t)
	dest := filepath.Join(t.TempDir(), "pkg-a_1.0.mpk")

	require.NoError(t, ctx.DownloadFromRepo(srv.URL+"/repo", "pkg-a_1.0.mpk", dest))

	data, err := os.ReadFile(dest)
	require.NoError(t, err)
	require.Equal(t, "archive bytes", string(data))

	// No .part leftover.
	require.NoFileExists(t, dest+".part")
}

func TestDownloadNotFound(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	defer srv.Close()

	ctx := quietCtx(t)
	dest := filepath.Join(t.TempDir(), "missing.mpk")

	require.Error(t, ctx.DownloadFromRepo(srv.URL, "missing.mpk", dest))
	require.NoFileExists(t, dest)
}

func TestDownloadFromLocalRepo(t *testing.T) {
	repoDir := t.TempDir()
	writeFile(t, repoDir, "pkg-a_1.0.mpk", "local archive")

	ctx := quietCtx(t)
	dest := filepath.Join(t.TempDir(), "pkg-a_1.0.mpk")

	require.NoError(t, ctx.DownloadFromRepo(repoDir, "pkg-a_1.0.mpk", dest))

	data, err := os.ReadFile(dest)
	require.NoError(t, err)
	require.Equal(t, "local archive", string(data))
}

func TestDownloadFromFileURL(t *testing.T) {
	repoDir := t.TempDir()
	writeFile(t, repoDir, "binary-index", "pkg-a:\n    version: 1.0\n")

	ctx := quietCtx(t)
	dest := filepath.Join(t.TempDir(), "index.yaml")

	require.NoError(t, ctx.DownloadFromRepo("file://"+repoDir, "binary-index", dest))
	require.FileExists(t, dest)
}

func TestDownloadLocalMissingFile(t *testing.T) {
	ctx := quietCtx(t)
	dest := filepath.Join(t.TempDir(), "nope.mpk")

	require.Error(t, ctx.DownloadFromRepo(t.TempDir(), "nope.mpk", dest))
}
