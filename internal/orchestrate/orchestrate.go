package orchestrate

import (
	"context"
	"log/slog"
	"os"
	"path/filepath"
	"sync"

	"github.com/rotisserie/eris"
	"golang.org/x/sync/errgroup"

	"github.com/setrixhq/forge/internal/builder"
	"github.com/setrixhq/forge/internal/lockfile"
	"github.com/setrixhq/forge/internal/manifest"
	"github.com/setrixhq/forge/internal/paths"
)

// Controls one evaluation of a project.
type Options struct {
	Manifest  *manifest.Manifest // Project declaration.
	Lock      *lockfile.File     // Verified pins for every dependency.
	Deps      map[string]string  // Dependency name to store path, from resolve.EnsureAll.
	Root      string             // Project root, for resolving the package source.
	Output    string             // Output root. Artifacts land under per-platform subdirectories.
	Mode      builder.Mode       // Build mode. Defaults to release.
	Platforms []string           // Requested platforms. Empty means every declared platform.
}

// Produced by a successful evaluation.
type Result struct {
	Packages map[string]*builder.Artifact // Per-platform package artifacts.
	Apps     map[string]*AppDescriptor    // Per-platform application descriptors.
	Shell    *ShellDescriptor             // Development environment descriptor.
}

// Evaluates the project: for every target platform, a package artifact and
// an application descriptor, plus the development shell descriptor.
//
// Platforms are independent and build concurrently; each platform writes
// to its own output directory, so no coordination beyond the errgroup is
// needed. The first error aborts the evaluation with no partial result.
func Run(ctx context.Context, b builder.Builder, opts Options) (*Result, error) {
	targets, err := targetPlatforms(opts.Manifest.Platforms, opts.Platforms)
	if err != nil {
		return nil, err
	}

	slog.Info("evaluating project",
		"package", opts.Manifest.Package.Name,
		"output", opts.Output,
		"mode", mode(opts),
		"platforms", targets,
	)

	if err := os.MkdirAll(opts.Output, paths.DefaultDirMode); err != nil {
		return nil, eris.Wrapf(err, "creating %s", opts.Output)
	}

	env := buildEnviron(opts.Lock, opts.Deps)

	packages := make(map[string]*builder.Artifact, len(targets))
	var mu sync.Mutex

	g, ctx := errgroup.WithContext(ctx)

	for _, platform := range targets {
		platform := platform
		g.Go(func() error {
			artifact, err := buildPlatform(ctx, b, opts, platform, env)
			if err != nil {
				return err
			}

			mu.Lock()
			packages[platform] = artifact
			mu.Unlock()
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}

	apps := make(map[string]*AppDescriptor, len(targets))
	for platform, artifact := range packages {
		app, err := makeApp(artifact, opts.Manifest.App.Binary)
		if err != nil {
			return nil, eris.Wrapf(err, "platform %s", platform)
		}
		apps[platform] = app
	}

	return &Result{
		Packages: packages,
		Apps:     apps,
		Shell:    NewShellDescriptor(opts.Manifest),
	}, nil
}

// Builds the package artifact for a single platform.
//
// The platform's output directory is recreated from scratch so a failed
// build never leaves a binary from an earlier run behind.
func buildPlatform(ctx context.Context, b builder.Builder, opts Options, platform string, env []string) (*builder.Artifact, error) {
	slog.Info("building platform", "platform", platform)

	output := platformOutput(opts.Output, platform)

	if err := os.RemoveAll(output); err != nil {
		return nil, eris.Wrapf(err, "clearing %s", output)
	}
	if err := os.MkdirAll(output, paths.DefaultDirMode); err != nil {
		return nil, eris.Wrapf(err, "creating %s", output)
	}

	artifact, err := b.Build(ctx, builder.Request{
		Source:   filepath.Join(opts.Root, opts.Manifest.Package.Source),
		Name:     opts.Manifest.Package.Name,
		Mode:     mode(opts),
		Platform: platform,
		Output:   output,
		Env:      env,
	})
	if err != nil {
		return nil, eris.Wrapf(err, "platform %s", platform)
	}

	return artifact, nil
}

// Returns the effective build mode.
func mode(opts Options) builder.Mode {
	if opts.Mode == "" {
		return builder.ModeRelease
	}
	return opts.Mode
}

// Returns the output directory for a specific platform.
func platformOutput(output, platform string) string {
	return filepath.Join(output, platformSlug(platform))
}
