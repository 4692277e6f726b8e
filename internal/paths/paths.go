package paths

import (
	"os"
	"path/filepath"

	"github.com/adrg/xdg"
)

const (

	// Name used for directory and file naming.
	toolName = "forge"

	// Default permission mode for directories.
	DefaultDirMode os.FileMode = 0755

	// Default permission mode for files.
	DefaultFileMode os.FileMode = 0644
)

// Path to the content-addressed dependency store.
//
// Fetched dependency snapshots are unpacked here, one directory per
// integrity hash. The store is shared across projects; identical pins
// resolve to identical store paths.
//
//	Linux:   $XDG_CACHE_HOME/forge/store or ~/.cache/forge/store
//	macOS:   ~/Library/Caches/forge/store
func Store() string {
	return filepath.Join(xdg.CacheHome, toolName, "store")
}

// Path to the directory for partial downloads.
//
// Downloads land here before they are verified and moved into the store,
// so an interrupted fetch never leaves a corrupt store entry.
func Downloads() string {
	return filepath.Join(xdg.CacheHome, toolName, "downloads")
}
