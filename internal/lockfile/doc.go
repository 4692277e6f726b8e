// Package lockfile models the pinned dependency set.
//
// A lock file (forge.lock) maps every dependency declared in the manifest
// to an exact, content-addressed pin: the locator it was resolved from,
// the resolved version, and a blake3 integrity hash of the fetched
// snapshot. Repeated resolution with the same lock state yields identical
// build inputs.
//
// The lock file is loaded once per evaluation and treated as immutable.
// A missing lock file, a missing pin, or a pin that no longer matches the
// manifest all surface as [ErrUnresolvedDependency] before any build step
// runs. There is no fallback to stale or floating references.
package lockfile
