package orchestrate

import (
	"os"
	"os/exec"
	"path/filepath"
	"syscall"

	"github.com/rotisserie/eris"

	"github.com/setrixhq/forge/internal/builder"
	"github.com/setrixhq/forge/internal/manifest"
)

// Maps the default invocation to a concrete executable path.
type AppDescriptor struct {
	Binary string // Absolute or output-relative path to the executable.
}

// Derives the application descriptor from a package artifact.
//
// The binary name must match the name the artifact was produced under; an
// absent binary is a configuration bug (name mismatch between package
// declaration and application descriptor), not a recoverable condition.
func makeApp(artifact *builder.Artifact, binary string) (*AppDescriptor, error) {
	path := filepath.Join(artifact.Output, "bin", binary)

	info, err := os.Stat(path)
	if err != nil {
		return nil, eris.Wrapf(ErrMissingBinary,
			"%s not found in build output (does app.binary match the package name?)", path)
	}
	if info.IsDir() {
		return nil, eris.Wrapf(ErrMissingBinary, "%s is a directory", path)
	}

	return &AppDescriptor{Binary: path}, nil
}

// Resolves the application descriptor for an already-built platform.
//
// Used by the run command: no build is triggered, the binary must already
// exist under the platform's output directory.
func ResolveApp(mf *manifest.Manifest, output, platform string) (*AppDescriptor, error) {
	p, err := normalize(platform)
	if err != nil {
		return nil, err
	}

	artifact := &builder.Artifact{
		Name:   mf.Package.Name,
		Output: platformOutput(output, p),
	}

	return makeApp(artifact, mf.App.Binary)
}

// Replaces the current process with the application binary.
//
// The binary inherits the caller's environment and receives the given
// arguments. On success this never returns; the application's exit code
// becomes the process exit code, forwarded unchanged.
func (a *AppDescriptor) Exec(args []string) error {
	path, err := filepath.Abs(a.Binary)
	if err != nil {
		return eris.Wrapf(err, "resolving %s", a.Binary)
	}

	argv := append([]string{path}, args...)
	if err := syscall.Exec(path, argv, os.Environ()); err != nil {
		return eris.Wrapf(err, "executing %s", path)
	}

	return nil
}

// Reports whether the descriptor's binary is executable by the current
// user. Used for diagnostics before handing off to Exec.
func (a *AppDescriptor) Executable() bool {
	_, err := exec.LookPath(a.Binary)
	return err == nil
}
