// Package filex holds small filesystem helpers for the download sink.
package filex

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
)

// EnsureDir creates dir (relative paths resolve against the working directory)
// and returns its absolute path.
func EnsureDir(dir string) (string, error) {
	if !filepath.IsAbs(dir) {
		cwd, err := os.Getwd()
		if err != nil {
			return "", fmt.Errorf("getwd: %w", err)
		}
		dir = filepath.Join(cwd, dir)
	}

	if err := os.MkdirAll(dir, 0o770); err != nil {
		return "", fmt.Errorf("mkdir %s: %w", dir, err)
	}

	return dir, nil
}

// SafeName strips path separators and characters that are awkward in file
// names. An empty result falls back to "note".
func SafeName(name string) string {
	name = filepath.Base(strings.TrimSpace(name))
	name = strings.Map(func(r rune) rune {
		switch r {
		case '/', '\\', ':', '*', '?', '"', '<', '>', '|':
			return '_'
		}
		return r
	}, name)
	if name == "" || name == "." || name == ".." {
		return "note"
	}
	return name
}

// WriteFile streams r into dir/name through a temporary file so that a failed
// download never leaves a truncated file behind. It returns the final path and
// the number of bytes written.
func WriteFile(dir, name string, r io.Reader) (string, int64, error) {
	tmp, err := os.CreateTemp(dir, ".part-*")
	if err != nil {
		return "", 0, fmt.Errorf("create temp: %w", err)
	}
	defer func() { _ = os.Remove(tmp.Name()) }()

	n, err := io.Copy(tmp, r)
	if err != nil {
		_ = tmp.Close()
		return "", n, fmt.Errorf("write %s: %w", name, err)
	}
	if err := tmp.Close(); err != nil {
		return "", n, fmt.Errorf("close %s: %w", name, err)
	}

	dst := filepath.Join(dir, SafeName(name))
	if err := os.Rename(tmp.Name(), dst); err != nil {
		return "", n, fmt.Errorf("rename %s: %w", dst, err)
	}
	return dst, n, nil
}
