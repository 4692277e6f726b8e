package cli

import (
	"path/filepath"

	"github.com/rotisserie/eris"

	"github.com/setrixhq/forge/internal/lockfile"
	"github.com/setrixhq/forge/internal/manifest"
)

// A loaded project: the manifest plus the paths derived from its location.
type project struct {
	mf   *manifest.Manifest
	root string
}

// Loads the manifest named by the root --manifest flag.
//
// The project root is the directory containing the manifest; the lock file
// and relative output paths are resolved against it.
func loadProject() (*project, error) {
	path, err := filepath.Abs(RootCmd.Manifest)
	if err != nil {
		return nil, eris.Wrapf(err, "resolving %s", RootCmd.Manifest)
	}

	mf, err := manifest.Load(path)
	if err != nil {
		return nil, err
	}

	return &project{
		mf:   mf,
		root: filepath.Dir(path),
	}, nil
}

// Loads the lock file and verifies it against the manifest.
//
// Called before any build step: a missing or inconsistent lock aborts the
// evaluation here, before the build helper is ever invoked.
func (p *project) verifiedLock() (*lockfile.File, error) {
	lock, err := lockfile.Load(p.lockPath())
	if err != nil {
		return nil, err
	}

	if err := lock.Verify(p.mf); err != nil {
		return nil, err
	}

	return lock, nil
}

// Returns the lock file path for this project.
func (p *project) lockPath() string {
	return lockfile.Path(p.root)
}

// Resolves a possibly-relative directory against the project root.
func (p *project) resolveDir(dir string) string {
	if filepath.IsAbs(dir) {
		return dir
	}
	return filepath.Join(p.root, dir)
}
