package resolve

import (
	"encoding/hex"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"sort"

	"github.com/rotisserie/eris"
	"github.com/zeebo/blake3"

	"github.com/setrixhq/forge/internal/lockfile"
)

// Computes the integrity hash for a snapshot path.
//
// Regular files (archives) are hashed over their raw bytes. Directories are
// hashed over a deterministic walk so the same tree always produces the
// same hash regardless of filesystem iteration order.
func hashPath(path string) (string, error) {
	info, err := os.Stat(path)
	if err != nil {
		return "", eris.Wrapf(err, "stat %s", path)
	}

	h := blake3.New()

	if info.IsDir() {
		if err := hashDir(h, path); err != nil {
			return "", err
		}
	} else {
		f, err := os.Open(path)
		if err != nil {
			return "", eris.Wrapf(err, "open %s", path)
		}
		defer f.Close()

		if _, err := io.Copy(h, f); err != nil {
			return "", eris.Wrapf(err, "hashing %s", path)
		}
	}

	return lockfile.IntegrityPrefix + hex.EncodeToString(h.Sum(nil)), nil
}

// Hashes a directory tree deterministically.
//
// Entries are visited in sorted relative-path order. Each entry contributes
// a header (path, type, size) followed by its contents for regular files
// and the target for symlinks. Mode bits are excluded so checkouts with
// different umasks hash identically.
func hashDir(w io.Writer, root string) error {
	var rels []string

	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if path == root {
			return nil
		}

		rel, err := filepath.Rel(root, path)
		if err != nil {
			return err
		}
		rels = append(rels, filepath.ToSlash(rel))
		return nil
	})
	if err != nil {
		return eris.Wrapf(err, "walking %s", root)
	}

	sort.Strings(rels)

	for _, rel := range rels {
		if err := hashEntry(w, root, rel); err != nil {
			return err
		}
	}

	return nil
}

// Writes one directory entry's header and contents to the hasher.
func hashEntry(w io.Writer, root, rel string) error {
	full := filepath.Join(root, filepath.FromSlash(rel))

	info, err := os.Lstat(full)
	if err != nil {
		return eris.Wrapf(err, "lstat %s", full)
	}

	switch {
	case info.Mode()&os.ModeSymlink != 0:
		target, err := os.Readlink(full)
		if err != nil {
			return eris.Wrapf(err, "readlink %s", full)
		}
		fmt.Fprintf(w, "link\x00%s\x00%s\x00", rel, target)

	case info.IsDir():
		fmt.Fprintf(w, "dir\x00%s\x00", rel)

	case info.Mode().IsRegular():
		fmt.Fprintf(w, "file\x00%s\x00%d\x00", rel, info.Size())

		f, err := os.Open(full)
		if err != nil {
			return eris.Wrapf(err, "open %s", full)
		}
		if _, err := io.Copy(w, f); err != nil {
			f.Close()
			return eris.Wrapf(err, "hashing %s", full)
		}
		f.Close()
	}

	// Sockets, devices, and other irregular entries are skipped: they
	// cannot be part of a reproducible source snapshot.
	return nil
}
