// Package builder defines the build delegation seam.
//
// Compilation is never performed by forge itself: a [Builder] turns a
// build [Request] into an [Artifact] by delegating to an external build
// helper (the project's native toolchain). The production implementation,
// [Toolchain], shells out to the helper command named in the manifest.
// Tests substitute a fake so orchestration logic runs without a compiler.
package builder
