package cli

import (
	"context"
	"log/slog"
	"os"

	"github.com/setrixhq/forge/internal/paths"
	"github.com/setrixhq/forge/internal/resolve"
)

// Represents the 'forge lock' command.
type LockCmd struct {
	Check bool `help:"Verify the lock file against the manifest without writing."`
}

// Executes the lock command.
//
// Re-resolves every manifest dependency to an exact pin and writes the
// lock file. This is the only operation that mutates the lock; everything
// else treats it as immutable input. With --check, the existing lock is
// verified against the manifest instead (suitable for CI).
func (c *LockCmd) Run(ctx context.Context) error {
	p, err := loadProject()
	if err != nil {
		return err
	}

	if c.Check {
		if _, err := p.verifiedLock(); err != nil {
			return err
		}
		slog.Info("lock file is consistent", "path", p.lockPath(), "dependencies", len(p.mf.Dependencies))
		return nil
	}

	resolver := resolve.New(paths.Store())
	resolver.SetProgress(isatty(os.Stderr) && !RootCmd.Quiet)

	lock, err := resolver.Resolve(ctx, p.mf.Dependencies)
	if err != nil {
		return err
	}

	if err := lock.Save(p.lockPath()); err != nil {
		return err
	}

	slog.Info("lock file written", "path", p.lockPath(), "pins", len(lock.Pins))
	return nil
}
