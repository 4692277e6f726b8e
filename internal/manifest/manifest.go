package manifest

import (
	"os"
	"strings"

	"github.com/Masterminds/semver/v3"
	"github.com/rotisserie/eris"
	"gopkg.in/yaml.v3"
)

// Default manifest file name, looked up in the project root.
const DefaultFile = "forge.yaml"

// Declares a project: the package to build, its pinned external
// dependencies, the platforms to build for, and the toolchain that the
// build is delegated to.
type Manifest struct {
	Package      Package      `yaml:"package"`
	Dependencies []Dependency `yaml:"dependencies"`
	Platforms    []string     `yaml:"platforms"`
	Toolchain    Toolchain    `yaml:"toolchain"`
	DevShell     DevShell     `yaml:"devshell"`
	App          App          `yaml:"app"`
}

// Identifies the package built from the local source tree.
type Package struct {
	Name   string `yaml:"name"`   // Package name, also the output binary name unless overridden by App.
	Source string `yaml:"source"` // Source directory relative to the project root. Defaults to ".".
}

// A named external input with a URI-like locator.
//
// Dependencies are resolved once, pinned in the lock file, and exposed to
// the build as store paths. Version is an optional semver constraint
// validated against the pinned version.
type Dependency struct {
	Name    string `yaml:"name"`
	Locator string `yaml:"locator"`
	Version string `yaml:"version,omitempty"`
}

// Names the toolchain binaries the project is built and developed with.
//
// Builder is the external build helper the compilation is delegated to.
// The remaining binaries are surfaced in the development shell.
type Toolchain struct {
	Builder        string `yaml:"builder"`
	Compiler       string `yaml:"compiler"`
	PackageManager string `yaml:"package-manager"`
	Formatter      string `yaml:"formatter"`
	Linter         string `yaml:"linter"`
}

// Configures the development shell.
type DevShell struct {
	Banner string `yaml:"banner"` // Startup text printed when entering the shell.
}

// Configures the default application invocation.
type App struct {
	Binary string `yaml:"binary"` // Binary name under bin/. Defaults to the package name.
}

// Reads and validates a manifest from the given path.
func Load(path string) (*Manifest, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, eris.Wrapf(ErrInvalidManifest, "reading %s: %v", path, err)
	}

	var mf Manifest
	if err := yaml.Unmarshal(data, &mf); err != nil {
		return nil, eris.Wrapf(ErrInvalidManifest, "parsing %s: %v", path, err)
	}

	mf.applyDefaults()

	if err := mf.validate(); err != nil {
		return nil, err
	}

	return &mf, nil
}

// Fills in defaulted fields after parsing.
func (m *Manifest) applyDefaults() {
	if m.Package.Source == "" {
		m.Package.Source = "."
	}
	if m.App.Binary == "" {
		m.App.Binary = m.Package.Name
	}
}

// Checks structural invariants that parsing alone does not enforce.
func (m *Manifest) validate() error {
	if m.Package.Name == "" {
		return eris.Wrap(ErrInvalidManifest, "package.name is required")
	}
	if m.Toolchain.Builder == "" {
		return eris.Wrap(ErrInvalidManifest, "toolchain.builder is required")
	}

	seen := make(map[string]bool, len(m.Dependencies))
	for _, dep := range m.Dependencies {
		if dep.Name == "" {
			return eris.Wrap(ErrInvalidManifest, "dependency with empty name")
		}
		if dep.Locator == "" {
			return eris.Wrapf(ErrInvalidManifest, "dependency %q has no locator", dep.Name)
		}
		if seen[dep.Name] {
			return eris.Wrapf(ErrInvalidManifest, "duplicate dependency %q", dep.Name)
		}
		seen[dep.Name] = true

		if _, err := dep.Constraint(); err != nil {
			return err
		}
	}

	for _, p := range m.Platforms {
		if !strings.Contains(p, "/") {
			return eris.Wrapf(ErrInvalidManifest, "platform %q is not an os/arch pair", p)
		}
	}

	return nil
}

// Returns the dependency's version constraint, or nil when none is declared.
func (d Dependency) Constraint() (*semver.Constraints, error) {
	if d.Version == "" {
		return nil, nil
	}

	c, err := semver.NewConstraint(d.Version)
	if err != nil {
		return nil, eris.Wrapf(ErrInvalidManifest, "dependency %q: bad version constraint %q: %v", d.Name, d.Version, err)
	}
	return c, nil
}

// Returns the toolchain binaries surfaced in the development shell, in a
// stable order with empty entries dropped.
func (t Toolchain) Binaries() []string {
	bins := make([]string, 0, 4)
	for _, b := range []string{t.Compiler, t.PackageManager, t.Formatter, t.Linter} {
		if b != "" {
			bins = append(bins, b)
		}
	}
	return bins
}
