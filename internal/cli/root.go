package cli

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/alecthomas/kong"
	"github.com/lmittmann/tint"

	"github.com/setrixhq/forge/internal"
)

// Represents the root command for the forge CLI.
var RootCmd struct {
	Quiet    bool   `short:"q" help:"Suppress informational output."`
	Verbose  bool   `short:"v" help:"Enable verbose output."`
	Debug    bool   `short:"d" help:"Enable debug output."`
	Manifest string `short:"f" help:"Override the manifest path." placeholder:"PATH" default:"forge.yaml"`

	Build     BuildCmd     `cmd:"" help:"Build the package artifact for the target platforms."`
	Develop   DevelopCmd   `cmd:"" help:"Enter the development shell."`
	Run       RunCmd       `cmd:"" help:"Run the application binary for the current platform."`
	Lock      LockCmd      `cmd:"" help:"Resolve dependencies and write the lock file."`
	Platforms PlatformsCmd `cmd:"" help:"List the supported platforms."`
	Version   VersionCmd   `cmd:"" help:"Show version information."`
}

// Parses arguments, configures logging, and runs the selected subcommand.
func Execute() error {

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	kongCtx := kong.Parse(&RootCmd,
		kong.Name(internal.Name),
		kong.Description("Reproducible build orchestrator.\n\nEvaluates a declarative manifest with pinned dependencies into per-platform package, shell, and app outputs."),
		kong.UsageOnError(),
		kong.Vars{
			"version": internal.VersionString(),
		},
		kong.BindTo(ctx, (*context.Context)(nil)),
	)

	configureLogger()

	return kongCtx.Run()
}

// Configures the global logger based on CLI flags.
//
// Flags override build-time defaults set via linker flags. Colors are
// disabled when stderr is not an interactive terminal.
func configureLogger() {
	debug := RootCmd.Debug || internal.IsDebug()
	quiet := RootCmd.Quiet || internal.IsQuiet()
	verbose := RootCmd.Verbose || internal.IsVerbose()

	level := slog.LevelInfo
	if debug {
		level = slog.LevelDebug
	} else if quiet {
		level = slog.LevelWarn
	}

	handler := tint.NewHandler(os.Stderr, &tint.Options{
		Level:     level,
		AddSource: verbose,
		NoColor:   !isatty(os.Stderr),
	})

	slog.SetDefault(slog.New(handler).WithGroup(internal.Name))
}

// Whether the given file is an interactive terminal.
func isatty(f *os.File) bool {
	info, err := f.Stat()
	if err != nil {
		return false
	}
	return (info.Mode() & os.ModeCharDevice) != 0
}
