package resolve

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/rotisserie/eris"
	"golang.org/x/sync/errgroup"

	"github.com/setrixhq/forge/internal/lockfile"
	"github.com/setrixhq/forge/internal/manifest"
	"github.com/setrixhq/forge/internal/paths"
)

// Maximum number of dependencies fetched concurrently.
const fetchConcurrency = 4

// Fetches dependency snapshots and maintains the content-addressed store.
type Resolver struct {
	store    string       // Root directory of the content-addressed store.
	client   *http.Client // Client for HTTP locators.
	progress bool         // Whether to show download progress bars.
}

// Creates a resolver backed by the given store directory.
func New(store string) *Resolver {
	return &Resolver{
		store:  store,
		client: &http.Client{},
	}
}

// Enables or disables download progress bars.
func (r *Resolver) SetProgress(enabled bool) {
	r.progress = enabled
}

// Resolves every declared dependency to an exact pin.
//
// Each dependency is fetched from its locator, hashed, and installed into
// the store. Dependencies are independent and fetched concurrently. Any
// unreachable locator fails the whole resolution; no partial lock file is
// produced.
func (r *Resolver) Resolve(ctx context.Context, deps []manifest.Dependency) (*lockfile.File, error) {
	pins := make(map[string]lockfile.Pin, len(deps))
	var mu sync.Mutex

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(fetchConcurrency)

	for _, dep := range deps {
		dep := dep
		g.Go(func() error {
			pin, err := r.resolveOne(ctx, dep)
			if err != nil {
				return err
			}

			mu.Lock()
			pins[dep.Name] = *pin
			mu.Unlock()
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}

	return &lockfile.File{Version: lockfile.Version, Pins: pins}, nil
}

// Resolves a single dependency to a pin.
func (r *Resolver) resolveOne(ctx context.Context, dep manifest.Dependency) (*lockfile.Pin, error) {
	loc, version := splitVersion(dep.Locator)

	snap, err := r.fetch(ctx, dep.Name, loc)
	if err != nil {
		return nil, err
	}
	defer snap.cleanup()

	integrity, err := hashPath(snap.path)
	if err != nil {
		return nil, err
	}

	if _, err := r.install(snap, integrity); err != nil {
		return nil, err
	}

	slog.Debug("dependency pinned", "name", dep.Name, "integrity", integrity)

	return &lockfile.Pin{
		Locator:      dep.Locator,
		Version:      version,
		Integrity:    integrity,
		LastModified: snap.lastModified,
	}, nil
}

// Materializes every pinned dependency and returns its store path.
//
// Store hits skip the network entirely. Misses are re-fetched from the
// pinned locator and verified against the pinned integrity hash before
// they are installed; a mismatch means the locator no longer serves the
// pinned content and resolution fails.
func (r *Resolver) EnsureAll(ctx context.Context, deps []manifest.Dependency, lock *lockfile.File) (map[string]string, error) {
	out := make(map[string]string, len(deps))
	var mu sync.Mutex

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(fetchConcurrency)

	for _, dep := range deps {
		dep := dep
		g.Go(func() error {
			pin, ok := lock.Pins[dep.Name]
			if !ok {
				return eris.Wrapf(lockfile.ErrUnresolvedDependency, "dependency %q has no pin", dep.Name)
			}

			path, err := r.ensure(ctx, dep, pin)
			if err != nil {
				return err
			}

			mu.Lock()
			out[dep.Name] = path
			mu.Unlock()
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}

	return out, nil
}

// Materializes one pinned dependency.
func (r *Resolver) ensure(ctx context.Context, dep manifest.Dependency, pin lockfile.Pin) (string, error) {
	if entry := r.entryPath(pin.Integrity); exists(entry) {
		return entry, nil
	}

	loc, _ := splitVersion(pin.Locator)

	snap, err := r.fetch(ctx, dep.Name, loc)
	if err != nil {
		return "", err
	}
	defer snap.cleanup()

	integrity, err := hashPath(snap.path)
	if err != nil {
		return "", err
	}

	if integrity != pin.Integrity {
		return "", eris.Wrapf(lockfile.ErrUnresolvedDependency,
			"dependency %q: locator content does not match pin (got %s, want %s)", dep.Name, integrity, pin.Integrity)
	}

	return r.install(snap, integrity)
}

// Installs a snapshot into the store under its integrity hash.
//
// Archives are unpacked into the store entry. Directory snapshots are
// used in place: a local source tree is its own store entry. Installation
// goes through a partial directory and a final rename so a crashed unpack
// never leaves a half-populated entry behind.
func (r *Resolver) install(snap *snapshot, integrity string) (string, error) {
	info, err := os.Stat(snap.path)
	if err != nil {
		return "", eris.Wrapf(err, "stat %s", snap.path)
	}

	if info.IsDir() {
		return snap.path, nil
	}

	entry := r.entryPath(integrity)
	if exists(entry) {
		return entry, nil
	}

	if !isArchive(snap.path) {
		return "", eris.Errorf("snapshot %s is neither a directory nor a supported archive", snap.path)
	}

	partial := entry + ".partial"
	os.RemoveAll(partial)

	if err := os.MkdirAll(partial, paths.DefaultDirMode); err != nil {
		return "", eris.Wrapf(err, "creating %s", partial)
	}

	if err := unpack(snap.path, partial); err != nil {
		os.RemoveAll(partial)
		return "", err
	}

	if err := os.Rename(partial, entry); err != nil {
		os.RemoveAll(partial)
		return "", eris.Wrapf(err, "installing %s", entry)
	}

	slog.Debug("store entry installed", "path", entry)
	return entry, nil
}

// Returns the store directory for an integrity hash.
func (r *Resolver) entryPath(integrity string) string {
	return filepath.Join(r.store, strings.TrimPrefix(integrity, lockfile.IntegrityPrefix))
}

// Whether a path exists.
func exists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}
