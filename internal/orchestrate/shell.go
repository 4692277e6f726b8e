package orchestrate

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/exec"
	"strings"

	"github.com/rotisserie/eris"

	"github.com/setrixhq/forge/internal/manifest"
)

// Shell used when the invoker has no $SHELL.
const fallbackShell = "/bin/sh"

// A named collection of toolchain binaries plus an initialization message.
//
// The descriptor is pure data; it is materialized on demand by [Enter] and
// never triggers a build.
type ShellDescriptor struct {
	Banner string   // Startup text printed when the shell is entered.
	Tools  []string // Toolchain binaries expected on the search path.
}

// Assembles the development environment descriptor from the manifest.
//
// Pure data assembly with no failure mode: missing toolchain entries are
// simply absent from the descriptor.
func NewShellDescriptor(mf *manifest.Manifest) *ShellDescriptor {
	return &ShellDescriptor{
		Banner: mf.DevShell.Banner,
		Tools:  mf.Toolchain.Binaries(),
	}
}

// Returns a printable form of the descriptor.
func (s *ShellDescriptor) String() string {
	var b strings.Builder

	if s.Banner != "" {
		b.WriteString(s.Banner)
		b.WriteByte('\n')
	}
	fmt.Fprintf(&b, "tools: %s", strings.Join(s.Tools, ", "))

	return b.String()
}

// Drops the invoker into an interactive shell with the descriptor's
// banner printed and the toolchain binaries verified on the search path.
//
// Tools that cannot be found are reported as warnings; entering the shell
// is not blocked on them. The shell's exit status is propagated.
func (s *ShellDescriptor) Enter(ctx context.Context) error {
	for _, tool := range s.Tools {
		if _, err := exec.LookPath(tool); err != nil {
			slog.Warn("toolchain binary not found on PATH", "tool", tool)
		}
	}

	if s.Banner != "" {
		fmt.Fprintln(os.Stderr, s.Banner)
	}

	shell := os.Getenv("SHELL")
	if shell == "" {
		shell = fallbackShell
	}

	slog.Debug("entering development shell", "shell", shell, "tools", s.Tools)

	cmd := exec.CommandContext(ctx, shell)
	cmd.Stdin = os.Stdin
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr
	cmd.Env = append(os.Environ(), "FORGE_DEV_SHELL=1")

	if err := cmd.Run(); err != nil {
		if _, ok := err.(*exec.ExitError); ok {
			// A non-zero shell exit is the user's doing, not a failure.
			return nil
		}
		return eris.Wrapf(err, "starting %s", shell)
	}

	return nil
}
