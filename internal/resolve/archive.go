package resolve

import (
	"archive/tar"
	"compress/gzip"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/rotisserie/eris"
	"github.com/ulikunitz/xz"

	"github.com/setrixhq/forge/internal/paths"
)

// Reports whether the path looks like a supported archive.
func isArchive(path string) bool {
	switch {
	case strings.HasSuffix(path, ".tar.xz"),
		strings.HasSuffix(path, ".tar.gz"),
		strings.HasSuffix(path, ".tgz"),
		strings.HasSuffix(path, ".tar"):
		return true
	}
	return false
}

// Unpacks a tar archive (optionally xz- or gzip-compressed) into dest.
func unpack(archive, dest string) error {
	f, err := os.Open(archive)
	if err != nil {
		return eris.Wrapf(err, "open %s", archive)
	}
	defer f.Close()

	var reader io.Reader = f

	switch {
	case strings.HasSuffix(archive, ".tar.xz"):
		reader, err = xz.NewReader(f)
		if err != nil {
			return eris.Wrapf(err, "xz stream in %s", archive)
		}
	case strings.HasSuffix(archive, ".tar.gz"), strings.HasSuffix(archive, ".tgz"):
		gz, err := gzip.NewReader(f)
		if err != nil {
			return eris.Wrapf(err, "gzip stream in %s", archive)
		}
		defer gz.Close()
		reader = gz
	}

	return extractTar(reader, dest)
}

// Extracts a tar stream into dest.
//
// Entry names are sanitized against path traversal: an entry that would
// escape dest aborts the extraction.
func extractTar(r io.Reader, dest string) error {
	tr := tar.NewReader(r)

	for {
		header, err := tr.Next()
		if err == io.EOF {
			return nil
		}
		if err != nil {
			return eris.Wrap(err, "reading tar stream")
		}

		target, err := safeJoin(dest, header.Name)
		if err != nil {
			return err
		}

		switch header.Typeflag {
		case tar.TypeDir:
			if err := os.MkdirAll(target, paths.DefaultDirMode); err != nil {
				return eris.Wrapf(err, "mkdir %s", target)
			}

		case tar.TypeReg:
			if err := extractFile(tr, target, header.FileInfo().Mode()); err != nil {
				return err
			}

		case tar.TypeSymlink:
			if err := os.MkdirAll(filepath.Dir(target), paths.DefaultDirMode); err != nil {
				return eris.Wrapf(err, "mkdir %s", filepath.Dir(target))
			}
			os.Remove(target)
			if err := os.Symlink(header.Linkname, target); err != nil {
				return eris.Wrapf(err, "symlink %s", target)
			}
		}
	}
}

// Writes one regular file from the tar stream.
func extractFile(r io.Reader, target string, mode os.FileMode) error {
	if err := os.MkdirAll(filepath.Dir(target), paths.DefaultDirMode); err != nil {
		return eris.Wrapf(err, "mkdir %s", filepath.Dir(target))
	}

	f, err := os.OpenFile(target, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, mode.Perm())
	if err != nil {
		return eris.Wrapf(err, "create %s", target)
	}

	if _, err := io.Copy(f, r); err != nil {
		f.Close()
		return eris.Wrapf(err, "write %s", target)
	}

	return f.Close()
}

// Joins an archive entry name onto dest, rejecting names that escape it.
func safeJoin(dest, name string) (string, error) {
	cleaned := filepath.Clean(filepath.FromSlash(name))
	if cleaned == ".." || strings.HasPrefix(cleaned, ".."+string(os.PathSeparator)) || filepath.IsAbs(cleaned) {
		return "", eris.Errorf("archive entry %q escapes the extraction root", name)
	}
	return filepath.Join(dest, cleaned), nil
}
