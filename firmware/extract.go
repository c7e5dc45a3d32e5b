package firmware

import (
	"archive/tar"
	"compress/gzip"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
)

// extractConfigTree unpacks a gzipped source tarball into dest, keeping
// only the .ini configuration files the resolver reads. GitHub archives
// prefix every entry with a single <owner>-<repo>-<sha>/ component, which
// is stripped so dest becomes the tree root. It returns the number of
// files written.
func extractConfigTree(archive io.Reader, dest string) (int, error) {
	gz, err := gzip.NewReader(archive)
	if err != nil {
		return 0, fmt.Errorf("open gzip stream: %w", err)
	}
	defer gz.Close()

	written := 0
	tr := tar.NewReader(gz)
	for {
		hdr, err := tr.Next()
		if err == io.EOF {
			break
		}
		if err != nil {
			return written, fmt.Errorf("read archive: %w", err)
		}
		if hdr.Typeflag != tar.TypeReg {
			continue
		}

		rel := stripArchivePrefix(hdr.Name)
		if rel == "" || !strings.HasSuffix(rel, ".ini") {
			continue
		}
		target, err := secureJoin(dest, rel)
		if err != nil {
			return written, err
		}

		if err := os.MkdirAll(filepath.Dir(target), 0o755); err != nil {
			return written, fmt.Errorf("create directory for %s: %w", rel, err)
		}
		f, err := os.OpenFile(target, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, 0o644)
		if err != nil {
			return written, fmt.Errorf("create %s: %w", rel, err)
		}
		if _, err := io.Copy(f, tr); err != nil {
			f.Close()
			return written, fmt.Errorf("write %s: %w", rel, err)
		}
		if err := f.Close(); err != nil {
			return written, fmt.Errorf("close %s: %w", rel, err)
		}
		written++
	}

	if written == 0 {
		return 0, ErrEmptyArchive
	}
	return written, nil
}

// stripArchivePrefix drops the leading path component GitHub adds to
// archive entries. Entries without a nested path (the prefix directory
// itself) map to the empty string.
func stripArchivePrefix(name string) string {
	name = strings.TrimPrefix(name, "./")
	if i := strings.IndexByte(name, '/'); i >= 0 {
		return name[i+1:]
	}
	return ""
}

// secureJoin joins rel onto dest, rejecting entries that would escape it.
func secureJoin(dest, rel string) (string, error) {
	target := filepath.Join(dest, filepath.FromSlash(rel))
	if !strings.HasPrefix(target, filepath.Clean(dest)+string(os.PathSeparator)) {
		return "", fmt.Errorf("%w: %s", ErrUnsafeArchivePath, rel)
	}
	return target, nil
}
