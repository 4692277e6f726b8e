package lockfile

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strings"

	"github.com/Masterminds/semver/v3"
	"github.com/rotisserie/eris"

	"github.com/setrixhq/forge/internal/manifest"
	"github.com/setrixhq/forge/internal/paths"
)

const (

	// Default lock file name, kept next to the manifest.
	DefaultFile = "forge.lock"

	// Current lock file schema version.
	Version = 1

	// Prefix of integrity hashes recorded in pins.
	IntegrityPrefix = "blake3-"
)

// Records the exact resolved reference for every declared dependency.
//
// The lock file is the only durable artifact this layer owns. It is loaded
// once per evaluation and treated as immutable; only the lock command
// rewrites it.
type File struct {
	Version int            `json:"version"`
	Pins    map[string]Pin `json:"pins"`
}

// An exact, content-addressed resolution of one dependency.
type Pin struct {
	Locator      string `json:"locator"`                // Locator the pin was resolved from.
	Version      string `json:"version,omitempty"`      // Resolved version, when the locator carries one.
	Integrity    string `json:"integrity"`              // Content hash of the fetched snapshot.
	LastModified int64  `json:"lastModified,omitempty"` // Unix timestamp of the snapshot.
}

// Reads a lock file from the given path.
//
// A missing lock file is an unresolved-dependency condition: evaluation
// must not proceed to any build step without pins.
func Load(path string) (*File, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, eris.Wrapf(ErrUnresolvedDependency, "lock file %s not found (run 'forge lock' first)", path)
		}
		return nil, eris.Wrapf(ErrUnresolvedDependency, "reading lock file %s: %v", path, err)
	}

	var f File
	if err := json.Unmarshal(data, &f); err != nil {
		return nil, eris.Wrapf(ErrUnresolvedDependency, "lock file %s is corrupt: %v", path, err)
	}

	if f.Version != Version {
		return nil, eris.Wrapf(ErrUnresolvedDependency, "lock file %s has schema version %d, want %d", path, f.Version, Version)
	}
	if f.Pins == nil {
		f.Pins = make(map[string]Pin)
	}

	return &f, nil
}

// Writes the lock file atomically.
//
// The encoding is deterministic (pins are emitted in key order), so an
// unchanged resolution produces a byte-identical file.
func (f *File) Save(path string) error {
	data, err := json.MarshalIndent(f, "", "  ")
	if err != nil {
		return eris.Wrap(err, "encoding lock file")
	}
	data = append(data, '\n')

	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, data, paths.DefaultFileMode); err != nil {
		return eris.Wrapf(err, "writing %s", tmp)
	}
	if err := os.Rename(tmp, path); err != nil {
		os.Remove(tmp)
		return eris.Wrapf(err, "renaming %s", tmp)
	}

	return nil
}

// Checks the lock file against the manifest's dependency list.
//
// Every declared dependency must have exactly one pin whose locator matches
// the declaration, whose integrity hash is well-formed, and whose resolved
// version satisfies the declared constraint (when one is declared).
func (f *File) Verify(mf *manifest.Manifest) error {
	for _, dep := range mf.Dependencies {
		pin, ok := f.Pins[dep.Name]
		if !ok {
			return eris.Wrapf(ErrUnresolvedDependency, "dependency %q has no pin", dep.Name)
		}

		if pin.Locator != dep.Locator {
			return eris.Wrapf(ErrUnresolvedDependency,
				"dependency %q: pin locator %q does not match manifest locator %q (run 'forge lock')",
				dep.Name, pin.Locator, dep.Locator)
		}

		if !strings.HasPrefix(pin.Integrity, IntegrityPrefix) {
			return eris.Wrapf(ErrUnresolvedDependency, "dependency %q: malformed integrity %q", dep.Name, pin.Integrity)
		}

		if err := checkConstraint(dep, pin); err != nil {
			return err
		}
	}

	return nil
}

// Validates a pin's version against the dependency's semver constraint.
func checkConstraint(dep manifest.Dependency, pin Pin) error {
	c, err := dep.Constraint()
	if err != nil {
		return err
	}
	if c == nil {
		return nil
	}

	if pin.Version == "" {
		return eris.Wrapf(ErrUnresolvedDependency,
			"dependency %q declares constraint %q but its pin has no version", dep.Name, dep.Version)
	}

	v, err := semver.NewVersion(pin.Version)
	if err != nil {
		return eris.Wrapf(ErrUnresolvedDependency, "dependency %q: pinned version %q is not semver", dep.Name, pin.Version)
	}

	if !c.Check(v) {
		return eris.Wrapf(ErrUnresolvedDependency,
			"dependency %q: pinned version %s does not satisfy %q", dep.Name, pin.Version, dep.Version)
	}

	return nil
}

// Returns the most recent snapshot timestamp across all pins.
//
// Used as SOURCE_DATE_EPOCH for the build so repeated evaluations with the
// same lock see the same clock. Returns 0 when no pin carries a timestamp.
func (f *File) Epoch() int64 {
	var epoch int64
	for _, pin := range f.Pins {
		if pin.LastModified > epoch {
			epoch = pin.LastModified
		}
	}
	return epoch
}

// Returns the default lock file path for a project root.
func Path(root string) string {
	return filepath.Join(root, DefaultFile)
}
