package cli

import (
	"context"

	"github.com/setrixhq/forge/internal/orchestrate"
)

// Represents the 'forge run' command.
type RunCmd struct {
	Platform string   `short:"p" help:"Platform whose artifact to run. Defaults to the host." placeholder:"OS/ARCH"`
	Output   string   `short:"o" help:"Output root directory the artifact was built into." placeholder:"DIR" default:"output"`
	Args     []string `arg:"" optional:"" passthrough:"" help:"Arguments forwarded to the application."`
}

// Executes the run command.
//
// Resolves the application descriptor for the selected platform and
// replaces this process with the binary, forwarding arguments and exit
// code unchanged. The binary must already have been built.
func (c *RunCmd) Run(ctx context.Context) error {
	p, err := loadProject()
	if err != nil {
		return err
	}

	platform := c.Platform
	if platform == "" {
		platform = orchestrate.Host()
	}

	app, err := orchestrate.ResolveApp(p.mf, p.resolveDir(c.Output), platform)
	if err != nil {
		return err
	}

	return app.Exec(c.Args)
}
