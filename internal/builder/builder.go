package builder

import (
	"bytes"
	"context"
	"log/slog"
	"os"
	"os/exec"
	"path/filepath"
	"strings"

	"github.com/rotisserie/eris"
)

// Build mode passed to the build helper.
type Mode string

const (
	ModeRelease Mode = "release"
	ModeDebug   Mode = "debug"
)

// Inputs for one package build.
type Request struct {
	Source   string   // Source directory to build from.
	Name     string   // Package name.
	Mode     Mode     // Build mode. Defaults to release.
	Platform string   // Target platform (e.g., "linux/amd64").
	Output   string   // Output directory for the artifact.
	Env      []string // Extra environment entries (pins, SOURCE_DATE_EPOCH).
}

// A built package for one platform.
type Artifact struct {
	Name   string // Package name.
	Output string // Directory containing the build output.
}

// Returns the expected executable path within the artifact.
func (a *Artifact) BinaryPath() string {
	return filepath.Join(a.Output, "bin", a.Name)
}

// Compiles a source tree into a package artifact.
//
// Implementations delegate to an external build helper; the orchestrator
// only supplies inputs and surfaces failures. The interface exists so the
// orchestration logic can be tested without invoking a real compiler.
type Builder interface {
	Build(ctx context.Context, req Request) (*Artifact, error)
}

// Delegates builds to an external helper command.
//
// The helper is invoked as:
//
//	<command> build <source> --name <name> --mode <mode>
//	    --platform <platform> --out <output>
//
// and is expected to place the executable at <output>/bin/<name>. Helper
// diagnostics are surfaced verbatim on failure; this layer performs no
// retries and no interpretation of the helper's output.
type Toolchain struct {
	command string
}

// Creates a builder that shells out to the given helper command.
func NewToolchain(command string) *Toolchain {
	return &Toolchain{command: command}
}

// Runs the build helper for one platform.
//
// The helper sees a scrubbed environment: a minimal host passthrough plus
// the entries in req.Env. Host variables beyond the passthrough set never
// reach the helper, so two builds with the same request see the same
// environment.
func (t *Toolchain) Build(ctx context.Context, req Request) (*Artifact, error) {
	if req.Mode == "" {
		req.Mode = ModeRelease
	}

	args := []string{
		"build", req.Source,
		"--name", req.Name,
		"--mode", string(req.Mode),
		"--platform", req.Platform,
		"--out", req.Output,
	}

	slog.Debug("invoking build helper", "command", t.command, "args", strings.Join(args, " "))

	cmd := exec.CommandContext(ctx, t.command, args...)
	cmd.Env = scrubbedEnv(req.Env)
	cmd.Stdout = os.Stderr // Helper chatter goes to the user, not our stdout.

	var stderr bytes.Buffer
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		diag := strings.TrimSpace(stderr.String())
		if diag == "" {
			diag = err.Error()
		}
		return nil, eris.Wrapf(ErrBuildFailure, "%s %s: %s", t.command, args[0], diag)
	}

	return &Artifact{Name: req.Name, Output: req.Output}, nil
}

// Host variables forwarded to the build helper.
var envPassthrough = []string{"PATH", "HOME", "TMPDIR", "USER", "SHELL"}

// Assembles the helper environment from the passthrough set and the
// request's extra entries. Extra entries win on conflict.
func scrubbedEnv(extra []string) []string {
	env := make([]string, 0, len(envPassthrough)+len(extra))
	for _, key := range envPassthrough {
		if v, ok := os.LookupEnv(key); ok {
			env = append(env, key+"="+v)
		}
	}
	return append(env, extra...)
}
