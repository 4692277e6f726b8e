// Parses flags and dispatches the forge subcommands.
//
// The CLI accepts the following global flags:
//
//	-q, --quiet      Suppress informational output.
//	-v, --verbose    Enable verbose output.
//	-d, --debug      Enable debug output.
//	-f, --manifest   Manifest path (default forge.yaml).
//
// Flags override build-time defaults set via linker flags. After parsing,
// the global logger is reconfigured to reflect the final level before the
// selected command runs. Commands that evaluate the project (build, run)
// verify the lock file first and fail before any build helper invocation
// when a pin is missing or inconsistent.
package cli
