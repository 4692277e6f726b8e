package cli

import (
	"context"
	"fmt"

	"github.com/setrixhq/forge/internal/orchestrate"
)

// Represents the 'forge develop' command.
type DevelopCmd struct {
	Print bool `help:"Print the environment descriptor instead of entering the shell."`
}

// Executes the develop command.
//
// Materializes the development environment descriptor: prints the banner
// and drops the invoker into a shell with the toolchain binaries checked
// on the search path. Entering the environment never triggers a build.
func (c *DevelopCmd) Run(ctx context.Context) error {
	p, err := loadProject()
	if err != nil {
		return err
	}

	shell := orchestrate.NewShellDescriptor(p.mf)

	if c.Print {
		fmt.Println(shell)
		return nil
	}

	return shell.Enter(ctx)
}
