package orchestrate

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/rotisserie/eris"
)

func TestResolveApp(t *testing.T) {
	mf := testManifest()
	output := t.TempDir()

	binary := filepath.Join(output, "linux-amd64", "bin", "setrixtui")
	if err := os.MkdirAll(filepath.Dir(binary), 0755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(binary, []byte("elf"), 0755); err != nil {
		t.Fatal(err)
	}

	app, err := ResolveApp(mf, output, "linux/amd64")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if app.Binary != binary {
		t.Fatalf("binary = %q, want %q", app.Binary, binary)
	}
}

func TestResolveAppMissingBinary(t *testing.T) {
	_, err := ResolveApp(testManifest(), t.TempDir(), "linux/amd64")
	if !eris.Is(err, ErrMissingBinary) {
		t.Fatalf("err = %v, want ErrMissingBinary", err)
	}
}

func TestResolveAppNameMismatch(t *testing.T) {
	mf := testManifest()
	mf.App.Binary = "renamed"

	output := t.TempDir()
	built := filepath.Join(output, "linux-amd64", "bin", "setrixtui")
	if err := os.MkdirAll(filepath.Dir(built), 0755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(built, []byte("elf"), 0755); err != nil {
		t.Fatal(err)
	}

	_, err := ResolveApp(mf, output, "linux/amd64")
	if !eris.Is(err, ErrMissingBinary) {
		t.Fatalf("err = %v, want ErrMissingBinary", err)
	}
}

func TestResolveAppBadPlatform(t *testing.T) {
	_, err := ResolveApp(testManifest(), t.TempDir(), "not a platform!")
	if !eris.Is(err, ErrUnsupportedPlatform) {
		t.Fatalf("err = %v, want ErrUnsupportedPlatform", err)
	}
}
