package resolve

import (
	"context"
	"io"
	"net/http"
	"net/url"
	"os"
	"path"
	"strings"
	"time"

	"github.com/rotisserie/eris"
	"github.com/schollz/progressbar/v3"

	"github.com/setrixhq/forge/internal/lockfile"
	"github.com/setrixhq/forge/internal/paths"
)

// A fetched dependency snapshot on the local filesystem.
//
// Path is either an archive file or a source directory. Temporary
// snapshots (downloads) are cleaned up after they are installed into
// the store.
type snapshot struct {
	path         string
	lastModified int64
	temporary    bool
}

// Removes a temporary snapshot file.
func (s *snapshot) cleanup() {
	if s.temporary {
		os.Remove(s.path)
	}
}

// Fetches the snapshot behind a locator (version fragment already
// stripped).
//
// Supported locator forms: http(s) URLs, file:// URLs, and bare
// filesystem paths. An unreachable locator is an unresolved-dependency
// condition.
func (r *Resolver) fetch(ctx context.Context, name, locator string) (*snapshot, error) {
	u, err := url.Parse(locator)
	if err != nil {
		return nil, eris.Wrapf(lockfile.ErrUnresolvedDependency, "dependency %q: bad locator %q: %v", name, locator, err)
	}

	switch u.Scheme {
	case "http", "https":
		return r.fetchHTTP(ctx, name, locator)
	case "file":
		return fetchLocal(name, u.Path)
	case "":
		return fetchLocal(name, locator)
	default:
		return nil, eris.Wrapf(lockfile.ErrUnresolvedDependency, "dependency %q: unsupported locator scheme %q", name, u.Scheme)
	}
}

// Resolves a local filesystem locator.
func fetchLocal(name, p string) (*snapshot, error) {
	info, err := os.Stat(p)
	if err != nil {
		return nil, eris.Wrapf(lockfile.ErrUnresolvedDependency, "dependency %q: locator %q: %v", name, p, err)
	}

	return &snapshot{
		path:         p,
		lastModified: info.ModTime().Unix(),
	}, nil
}

// Downloads a locator over HTTP into the downloads directory.
//
// The download is written to a temporary file; it only becomes a store
// entry after its integrity hash has been computed. Progress is shown on
// interactive terminals.
func (r *Resolver) fetchHTTP(ctx context.Context, name, locator string) (*snapshot, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, locator, nil)
	if err != nil {
		return nil, eris.Wrapf(lockfile.ErrUnresolvedDependency, "dependency %q: %v", name, err)
	}

	resp, err := r.client.Do(req)
	if err != nil {
		return nil, eris.Wrapf(lockfile.ErrUnresolvedDependency, "dependency %q: fetching %s: %v", name, locator, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, eris.Wrapf(lockfile.ErrUnresolvedDependency, "dependency %q: fetching %s: HTTP %d", name, locator, resp.StatusCode)
	}

	if err := os.MkdirAll(paths.Downloads(), paths.DefaultDirMode); err != nil {
		return nil, eris.Wrapf(err, "creating %s", paths.Downloads())
	}

	// Preserve the archive suffix so unpack can pick the right decompressor.
	tmp, err := os.CreateTemp(paths.Downloads(), "fetch-*-"+path.Base(req.URL.Path))
	if err != nil {
		return nil, eris.Wrap(err, "creating download file")
	}
	defer tmp.Close()

	body := r.progressReader(resp, name)

	if _, err := io.Copy(tmp, body); err != nil {
		os.Remove(tmp.Name())
		return nil, eris.Wrapf(lockfile.ErrUnresolvedDependency, "dependency %q: downloading %s: %v", name, locator, err)
	}

	return &snapshot{
		path:         tmp.Name(),
		lastModified: parseLastModified(resp),
		temporary:    true,
	}, nil
}

// Wraps the response body with a progress bar on interactive terminals.
func (r *Resolver) progressReader(resp *http.Response, name string) io.Reader {
	if !r.progress {
		return resp.Body
	}

	bar := progressbar.DefaultBytes(resp.ContentLength, "fetch "+name)
	return io.TeeReader(resp.Body, bar)
}

// Extracts the snapshot timestamp from the Last-Modified header, or 0.
func parseLastModified(resp *http.Response) int64 {
	lm := resp.Header.Get("Last-Modified")
	if lm == "" {
		return 0
	}

	t, err := time.Parse(http.TimeFormat, lm)
	if err != nil {
		return 0
	}
	return t.Unix()
}

// Splits a locator into its fetchable part and an optional version carried
// in the URL fragment (e.g. "https://host/dep.tar.xz#1.2.0").
func splitVersion(locator string) (string, string) {
	i := strings.LastIndexByte(locator, '#')
	if i < 0 {
		return locator, ""
	}
	return locator[:i], locator[i+1:]
}
