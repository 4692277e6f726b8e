package cli

import (
	"context"
	"fmt"

	"github.com/setrixhq/forge/internal/orchestrate"
)

// Represents the 'forge platforms' command.
type PlatformsCmd struct{}

// Executes the platforms command, listing every supported platform and
// marking the host.
func (c *PlatformsCmd) Run(ctx context.Context) error {
	p, err := loadProject()
	if err != nil {
		return err
	}

	declared, err := orchestrate.DeclaredPlatforms(p.mf.Platforms)
	if err != nil {
		return err
	}

	host := orchestrate.Host()
	for _, platform := range declared {
		if platform == host {
			fmt.Printf("%s (host)\n", platform)
		} else {
			fmt.Println(platform)
		}
	}

	return nil
}
