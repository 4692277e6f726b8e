// Package manifest models the declarative project description.
//
// A manifest (forge.yaml) names the package built from the local source
// tree, the external dependencies it needs, the platforms it targets, and
// the toolchain binaries used to build and develop it. The manifest is
// pure declaration: resolving dependencies to exact pins is the job of the
// resolve package, and the pins live in the companion lock file.
//
// Example manifest:
//
//	package:
//	  name: setrixtui
//	toolchain:
//	  builder: cargo
//	  compiler: rustc
//	  package-manager: cargo
//	  formatter: rustfmt
//	  linter: clippy
//	platforms:
//	  - linux/amd64
//	  - darwin/arm64
//	dependencies:
//	  - name: pkgs
//	    locator: https://example.org/snapshots/pkgs.tar.xz#24.5.0
//	    version: ">=24.5"
//	devshell:
//	  banner: setrixtui dev shell
package manifest
