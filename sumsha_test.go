// Copyright 2017 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package mmpack

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestParseSumsha(t *testing.T) {
	sha := strings.Repeat("a", 64)
	dir := t.TempDir()
	path := writeFile(t, dir, "pkg.sha256sums", fmt.Sprintf(
		"bin/tool: sha256 %s\nshare/doc/readme: %s\nshare/dir/: %s\n",
		sha, sha, strings.Repeat("0", 64)))

	entries, err := parseSumsha(path)
	require.NoError(t, err)
	require.Len(t, entries, 3)

	require.Equal(t, "bin/tool", entries[0].Path)
	require.Equal(t, sha, entries[0].SHA)
	require.Equal(t, "share/doc/readme", entries[1].Path)
	require.Equal(t, sha, entries[1].SHA)
	require.True(t, entries[2].isDir())
}

func TestParseSumshaPathTooLong(t *testing.T) {
	long := strings.Repeat("x", maxSumshaPath+1)
	dir := t.TempDir()
	path := writeFile(t, dir, "pkg.sha256sums",
		long+": "+strings.Repeat("a", 64)+"\n")

	_, err := parseSumsha(path)
	require.Error(t, err)
}

func TestParseSumshaMalformed(t *testing.T) {
	dir := t.TempDir()
	for i, content := range []string{
		"no separator line\n",
		"file: tooshort\n",
	} {
		path := writeFile(t, dir, fmt.Sprintf("bad%d.sha256sums", i), content)
		_, err := parseSumsha(path)
		require.Error(t, err, "content %q", content)
	}
}

func TestListRmFiles(t *testing.T) {
	sha := strings.Repeat("b", 64)
	dir := t.TempDir()
	chdir(t, dir)

	writeFile(t, dir, sumshaPath("pkg-a"), fmt.Sprintf(
		"bin/tool: %s\nshare/dir/: %s\nMMPACK/extra: %s\n",
		sha, sha, sha))

	files, err := listRmFiles("pkg-a")
	require.NoError(t, err)

	require.Equal(t, []string{
		sumshaPath("pkg-a"),
		filepath.FromSlash("bin/tool"),
		metadataPrefix("pkg-a") + "extra",
	}, files)
}

func TestCheckPkgIntegrity(t *testing.T) {
	dir := t.TempDir()
	content := []byte("payload")
	writeFile(t, dir, "bin/tool", string(content))

	sha, err := HashFile(filepath.Join(dir, "bin/tool"))
	require.NoError(t, err)

	sumsha := writeFile(t, dir, "pkg.sha256sums", fmt.Sprintf(
		"bin/tool: %s\nshare/dir/: %s\n", sha, strings.Repeat("0", 64)))

	require.NoError(t, CheckPkgIntegrity(dir, sumsha))

	// Tamper with the file: the digest no longer matches.
	writeFile(t, dir, "bin/tool", "tampered")
	err = CheckPkgIntegrity(dir, sumsha)
	require.Error(t, err)

	var integrity *IntegrityError
	require.ErrorAs(t, err, &integrity)
}

// chdir switches into dir for the duration of the test. Tests using it
// must not run in parallel.
func chdir(t *testing.T, dir string) {
	t.Helper()
	old, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(dir))
	t.Cleanup(func() { _ = os.Chdir(old) })
}
