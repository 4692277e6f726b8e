// Package orchestrate evaluates a project into its three outputs.
//
// One evaluation takes a manifest, its verified lock file, and the
// materialized dependency store paths, and produces for every target
// platform: a package artifact (delegated to the builder package), an
// application descriptor pointing at the artifact's bin/<name> executable,
// and the shared development environment descriptor.
//
// Evaluation is stateless and idempotent. Platforms are independent and
// build in parallel into platform-scoped output directories; each
// platform's directory is recreated from scratch so stale binaries never
// survive a failed build. The first error aborts the evaluation with no
// partial outputs, carrying the platform and stage in its message.
//
// Example usage:
//
//	result, err := orchestrate.Run(ctx, builder.NewToolchain("cargo"), orchestrate.Options{
//	    Manifest: mf,
//	    Lock:     lock,
//	    Deps:     deps,
//	    Root:     ".",
//	    Output:   "output",
//	})
//	if err != nil {
//	    return err
//	}
package orchestrate
