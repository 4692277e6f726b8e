package cli

import (
	"context"
	"log/slog"
	"os"

	"github.com/setrixhq/forge/internal/builder"
	"github.com/setrixhq/forge/internal/orchestrate"
	"github.com/setrixhq/forge/internal/paths"
	"github.com/setrixhq/forge/internal/resolve"
)

// Represents the 'forge build' command.
type BuildCmd struct {
	Platform []string `short:"p" help:"Target platform(s) (e.g. linux/amd64). Defaults to every declared platform." placeholder:"OS/ARCH"`
	Output   string   `short:"o" help:"Output root directory." placeholder:"DIR" default:"output"`
	Debug    bool     `help:"Build in debug mode instead of release."`
}

// Executes the build command.
//
// Verifies the lock file, materializes the pinned dependencies, then
// evaluates the project for the selected platforms. Any failure surfaces
// with the platform and stage that produced it; there are no partial
// outputs.
func (c *BuildCmd) Run(ctx context.Context) error {
	p, err := loadProject()
	if err != nil {
		return err
	}

	lock, err := p.verifiedLock()
	if err != nil {
		return err
	}

	resolver := resolve.New(paths.Store())
	resolver.SetProgress(isatty(os.Stderr) && !RootCmd.Quiet)

	deps, err := resolver.EnsureAll(ctx, p.mf.Dependencies, lock)
	if err != nil {
		return err
	}

	mode := builder.ModeRelease
	if c.Debug {
		mode = builder.ModeDebug
	}

	result, err := orchestrate.Run(ctx, builder.NewToolchain(p.mf.Toolchain.Builder), orchestrate.Options{
		Manifest:  p.mf,
		Lock:      lock,
		Deps:      deps,
		Root:      p.root,
		Output:    p.resolveDir(c.Output),
		Mode:      mode,
		Platforms: c.Platform,
	})
	if err != nil {
		return err
	}

	for platform, app := range result.Apps {
		slog.Info("package built", "platform", platform, "binary", app.Binary)
	}

	return nil
}
