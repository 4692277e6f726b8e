package lockfile

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/rotisserie/eris"

	"github.com/setrixhq/forge/internal/manifest"
)

func validPin() Pin {
	return Pin{
		Locator:      "https://example.org/pkgs.tar.xz#24.5.0",
		Version:      "24.5.0",
		Integrity:    IntegrityPrefix + "abcdef",
		LastModified: 1700000000,
	}
}

func manifestWith(deps ...manifest.Dependency) *manifest.Manifest {
	return &manifest.Manifest{
		Package:      manifest.Package{Name: "setrixtui"},
		Dependencies: deps,
	}
}

func TestLoadMissing(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), DefaultFile))
	if !eris.Is(err, ErrUnresolvedDependency) {
		t.Fatalf("err = %v, want ErrUnresolvedDependency", err)
	}
}

func TestLoadCorrupt(t *testing.T) {
	path := filepath.Join(t.TempDir(), DefaultFile)
	if err := os.WriteFile(path, []byte("{not json"), 0644); err != nil {
		t.Fatal(err)
	}

	_, err := Load(path)
	if !eris.Is(err, ErrUnresolvedDependency) {
		t.Fatalf("err = %v, want ErrUnresolvedDependency", err)
	}
}

func TestLoadWrongVersion(t *testing.T) {
	path := filepath.Join(t.TempDir(), DefaultFile)
	if err := os.WriteFile(path, []byte(`{"version": 99, "pins": {}}`), 0644); err != nil {
		t.Fatal(err)
	}

	_, err := Load(path)
	if !eris.Is(err, ErrUnresolvedDependency) {
		t.Fatalf("err = %v, want ErrUnresolvedDependency", err)
	}
}

func TestSaveLoadRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), DefaultFile)

	f := &File{Version: Version, Pins: map[string]Pin{"pkgs": validPin()}}
	if err := f.Save(path); err != nil {
		t.Fatalf("save: %v", err)
	}

	loaded, err := Load(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}

	if loaded.Pins["pkgs"] != f.Pins["pkgs"] {
		t.Fatalf("pin = %+v, want %+v", loaded.Pins["pkgs"], f.Pins["pkgs"])
	}
}

func TestSaveDeterministic(t *testing.T) {
	dir := t.TempDir()
	f := &File{Version: Version, Pins: map[string]Pin{
		"zeta":  validPin(),
		"alpha": validPin(),
	}}

	a := filepath.Join(dir, "a.lock")
	b := filepath.Join(dir, "b.lock")
	if err := f.Save(a); err != nil {
		t.Fatal(err)
	}
	if err := f.Save(b); err != nil {
		t.Fatal(err)
	}

	da, _ := os.ReadFile(a)
	db, _ := os.ReadFile(b)
	if !bytes.Equal(da, db) {
		t.Fatal("repeated saves produced different bytes")
	}
}

func TestVerify(t *testing.T) {
	tests := []struct {
		name    string
		dep     manifest.Dependency
		mutate  func(*Pin)
		drop    bool
		wantErr bool
	}{
		{
			name: "consistent pin",
			dep:  manifest.Dependency{Name: "pkgs", Locator: "https://example.org/pkgs.tar.xz#24.5.0", Version: ">=24.5"},
		},
		{
			name:    "missing pin",
			dep:     manifest.Dependency{Name: "pkgs", Locator: "https://example.org/pkgs.tar.xz#24.5.0"},
			drop:    true,
			wantErr: true,
		},
		{
			name:    "locator mismatch",
			dep:     manifest.Dependency{Name: "pkgs", Locator: "https://example.org/other.tar.xz"},
			wantErr: true,
		},
		{
			name:    "malformed integrity",
			dep:     manifest.Dependency{Name: "pkgs", Locator: "https://example.org/pkgs.tar.xz#24.5.0"},
			mutate:  func(p *Pin) { p.Integrity = "sha256-ffff" },
			wantErr: true,
		},
		{
			name:    "constraint violated",
			dep:     manifest.Dependency{Name: "pkgs", Locator: "https://example.org/pkgs.tar.xz#24.5.0", Version: ">=25.0"},
			wantErr: true,
		},
		{
			name:    "constraint without pinned version",
			dep:     manifest.Dependency{Name: "pkgs", Locator: "https://example.org/pkgs.tar.xz#24.5.0", Version: ">=24.5"},
			mutate:  func(p *Pin) { p.Version = "" },
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			pin := validPin()
			if tt.mutate != nil {
				tt.mutate(&pin)
			}

			f := &File{Version: Version, Pins: map[string]Pin{"pkgs": pin}}
			if tt.drop {
				delete(f.Pins, "pkgs")
			}

			err := f.Verify(manifestWith(tt.dep))
			if tt.wantErr {
				if !eris.Is(err, ErrUnresolvedDependency) {
					t.Fatalf("err = %v, want ErrUnresolvedDependency", err)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
		})
	}
}

func TestEpoch(t *testing.T) {
	f := &File{Version: Version, Pins: map[string]Pin{}}
	if f.Epoch() != 0 {
		t.Fatalf("empty epoch = %d, want 0", f.Epoch())
	}

	f.Pins["a"] = Pin{LastModified: 100}
	f.Pins["b"] = Pin{LastModified: 300}
	f.Pins["c"] = Pin{LastModified: 200}

	if f.Epoch() != 300 {
		t.Fatalf("epoch = %d, want 300", f.Epoch())
	}
}
