// Package resolve fetches dependency snapshots and pins them.
//
// A [Resolver] turns the manifest's dependency declarations into exact,
// content-addressed pins and keeps a shared store of unpacked snapshots
// keyed by integrity hash. Resolution supports HTTP(S) locators (tar,
// tar.gz, and tar.xz archives) and local filesystem locators (archives or
// source directories). A locator may carry a version in its URL fragment;
// the version is recorded in the pin and checked against the manifest's
// semver constraint by the lockfile package.
//
// Two operations cover the lifecycle: Resolve re-fetches everything and
// produces a fresh lock file (the "forge lock" path), while EnsureAll
// materializes an existing lock's pins into store paths before a build,
// re-fetching only store misses and failing loudly on any integrity
// mismatch. Neither operation ever falls back to stale content.
package resolve
