// Copyright 2017 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package mmpack

import (
	"io"
	"net/url"
	"os"
	"path/filepath"
	"strings"

	"github.com/hashicorp/go-retryablehttp"
	"github.com/pkg/errors"

	"github.com/nbourdau/mmpack/internal/fs"
)

// newHTTPClient returns the retrying client used for every repository
// transfer. Retry noise is kept off the user-facing streams.
func newHTTPClient() *retryablehttp.Client {
	client := retryablehttp.NewClient()
	client.RetryMax = 3
	client.Logger = nil
	return client
}

// DownloadFromRepo fetches filename from the repository at repoURL into
// dest. The transfer goes to a temporary sibling of dest first, so a
// failed download never leaves a partial file at the final path.
//
// Besides http(s), a repository url may be a file:// url or a bare
// filesystem path; local repositories are served by plain copies.
func (c *Ctx) DownloadFromRepo(repoURL, filename, dest string) error {
	if err := fs.EnsureDir(filepath.Dir(dest), 0777); err != nil {
		return err
	}

	if dir, ok := localRepoDir(repoURL); ok {
		src := filepath.Join(dir, filepath.FromSlash(filename))
		tmp := dest + ".part"
		if err := copyLocal(src, tmp); err != nil {
			return err
		}
		return fs.RenameWithFallback(tmp, dest)
	}

	fetchURL := strings.TrimRight(repoURL, "/") + "/" + filename
	resp, err := newHTTPClient().Get(fetchURL)
	if err != nil {
		return errors.Wrapf(err, "cannot download %s", fetchURL)
	}
	defer resp.Body.Close()

	if resp.StatusCode != 200 {
		return errors.Errorf("cannot download %s: server returned %s", fetchURL, resp.Status)
	}

	tmp := dest + ".part"
	out, err := os.OpenFile(tmp, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, 0644)
	if err != nil {
		return errors.Wrapf(err, "cannot create %s", tmp)
	}

	if _, err := io.Copy(out, resp.Body); err != nil {
		out.Close()
		os.Remove(tmp)
		return errors.Wrapf(err, "cannot download %s", fetchURL)
	}
	if err := out.Close(); err != nil {
		os.Remove(tmp)
		return errors.Wrapf(err, "cannot write %s", tmp)
	}

	return fs.RenameWithFallback(tmp, dest)
}

// localRepoDir recognizes repository urls that designate a local
// directory and returns that directory.
func localRepoDir(repoURL string) (string, bool) {
	if strings.HasPrefix(repoURL, "file://") {
		u, err := url.Parse(repoURL)
		if err != nil {
			return "", false
		}
		return u.Path, true
	}
	if !strings.Contains(repoURL, "://") {
		return repoURL, true
	}
	return "", false
}

func copyLocal(src, dst string) error {
	in, err := os.Open(src)
	if err != nil {
		return errors.Wrapf(err, "cannot open %s", src)
	}
	defer in.Close()

	out, err := os.OpenFile(dst, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, 0644)
	if err != nil {
		return errors.Wrapf(err, "cannot create %s", dst)
	}
	if _, err := io.Copy(out, in); err != nil {
		out.Close()
		os.Remove(dst)
		return errors.Wrapf(err, "cannot copy %s", src)
	}
	return out.Close()
}
