package manifest

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/rotisserie/eris"
)

const validManifest = `
package:
  name: setrixtui
toolchain:
  builder: cargo
  compiler: rustc
  package-manager: cargo
  formatter: rustfmt
  linter: clippy
platforms:
  - linux/amd64
  - darwin/arm64
dependencies:
  - name: pkgs
    locator: https://example.org/pkgs.tar.xz#24.5.0
    version: ">=24.5"
devshell:
  banner: setrixtui dev shell
`

func writeManifest(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), DefaultFile)
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("writing manifest: %v", err)
	}
	return path
}

func TestLoad(t *testing.T) {
	mf, err := Load(writeManifest(t, validManifest))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if mf.Package.Name != "setrixtui" {
		t.Errorf("package.name = %q, want setrixtui", mf.Package.Name)
	}
	if mf.Package.Source != "." {
		t.Errorf("package.source = %q, want . (default)", mf.Package.Source)
	}
	if mf.App.Binary != "setrixtui" {
		t.Errorf("app.binary = %q, want setrixtui (defaulted from package name)", mf.App.Binary)
	}
	if len(mf.Platforms) != 2 {
		t.Errorf("len(platforms) = %d, want 2", len(mf.Platforms))
	}
	if mf.Toolchain.Builder != "cargo" {
		t.Errorf("toolchain.builder = %q, want cargo", mf.Toolchain.Builder)
	}
	if mf.DevShell.Banner != "setrixtui dev shell" {
		t.Errorf("devshell.banner = %q", mf.DevShell.Banner)
	}
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	if !eris.Is(err, ErrInvalidManifest) {
		t.Fatalf("err = %v, want ErrInvalidManifest", err)
	}
}

func TestLoadInvalid(t *testing.T) {
	tests := []struct {
		name    string
		content string
	}{
		{
			name:    "not yaml",
			content: "{{{",
		},
		{
			name: "missing package name",
			content: `
toolchain:
  builder: cargo
`,
		},
		{
			name: "missing builder",
			content: `
package:
  name: setrixtui
`,
		},
		{
			name: "dependency without locator",
			content: `
package:
  name: setrixtui
toolchain:
  builder: cargo
dependencies:
  - name: pkgs
`,
		},
		{
			name: "duplicate dependency",
			content: `
package:
  name: setrixtui
toolchain:
  builder: cargo
dependencies:
  - name: pkgs
    locator: https://example.org/a.tar.xz
  - name: pkgs
    locator: https://example.org/b.tar.xz
`,
		},
		{
			name: "bad version constraint",
			content: `
package:
  name: setrixtui
toolchain:
  builder: cargo
dependencies:
  - name: pkgs
    locator: https://example.org/a.tar.xz
    version: "not-a-constraint!!"
`,
		},
		{
			name: "platform without arch",
			content: `
package:
  name: setrixtui
toolchain:
  builder: cargo
platforms:
  - linux
`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Load(writeManifest(t, tt.content))
			if !eris.Is(err, ErrInvalidManifest) {
				t.Fatalf("err = %v, want ErrInvalidManifest", err)
			}
		})
	}
}

func TestConstraint(t *testing.T) {
	dep := Dependency{Name: "pkgs", Locator: "x", Version: ">=1.2"}
	c, err := dep.Constraint()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if c == nil {
		t.Fatal("constraint = nil, want parsed constraint")
	}

	none := Dependency{Name: "pkgs", Locator: "x"}
	c, err = none.Constraint()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if c != nil {
		t.Fatal("constraint without version should be nil")
	}
}

func TestToolchainBinaries(t *testing.T) {
	tc := Toolchain{
		Builder:        "cargo",
		Compiler:       "rustc",
		PackageManager: "cargo",
		Formatter:      "rustfmt",
		Linter:         "clippy",
	}

	bins := tc.Binaries()
	want := []string{"rustc", "cargo", "rustfmt", "clippy"}
	if len(bins) != len(want) {
		t.Fatalf("len(binaries) = %d, want %d", len(bins), len(want))
	}
	for i := range want {
		if bins[i] != want[i] {
			t.Errorf("binaries[%d] = %q, want %q", i, bins[i], want[i])
		}
	}
}

func TestToolchainBinariesSparse(t *testing.T) {
	tc := Toolchain{Builder: "cargo", Compiler: "rustc"}

	bins := tc.Binaries()
	if len(bins) != 1 || bins[0] != "rustc" {
		t.Fatalf("binaries = %v, want [rustc]", bins)
	}
}
