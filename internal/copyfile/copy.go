// Package copyfile carries untracked-but-needed files (.env files,
// local tool config) from an existing worktree into a new one. Selection
// is glob-based and conservative: only plain files, never overwriting
// unless asked.
package copyfile

import (
	"fmt"
	"os"
	"path"
	"path/filepath"
	"strings"
)

// CopyMatching copies files under srcDir matching any include glob into
// the same relative location under dstDir, skipping files matching any
// exclude glob. Globs follow filepath.Glob syntax and are evaluated
// relative to srcDir. Returns the relative paths of the files copied.
//
// Existing destination files are left alone unless overwrite is set.
// Directories matched by a glob are skipped; include dir/* to copy a
// directory's contents.
func CopyMatching(srcDir, dstDir string, includes, excludes []string, overwrite bool) ([]string, error) {
	var copied []string
	seen := make(map[string]bool)

	for _, pattern := range includes {
		matches, err := filepath.Glob(filepath.Join(srcDir, pattern))
		if err != nil {
			return copied, fmt.Errorf("invalid copy pattern %q: %w", pattern, err)
		}
		for _, match := range matches {
			rel, err := filepath.Rel(srcDir, match)
			if err != nil || seen[rel] {
				continue
			}
			seen[rel] = true

			if excluded(rel, excludes) {
				continue
			}
			info, err := os.Lstat(match)
			if err != nil || !info.Mode().IsRegular() {
				continue
			}

			dst := filepath.Join(dstDir, rel)
			if !overwrite {
				if _, err := os.Lstat(dst); err == nil {
					continue
				}
			}
			if err := os.MkdirAll(filepath.Dir(dst), 0o755); err != nil {
				return copied, fmt.Errorf("copy %s: %w", rel, err)
			}
			if err := copyFile(match, dst, info.Mode().Perm()); err != nil {
				return copied, fmt.Errorf("copy %s: %w", rel, err)
			}
			copied = append(copied, rel)
		}
	}

	return copied, nil
}

// excluded matches the slash-normalized relative path against the
// exclude globs.
func excluded(rel string, excludes []string) bool {
	slashed := filepath.ToSlash(rel)
	for _, pattern := range excludes {
		if ok, _ := path.Match(pattern, slashed); ok {
			return true
		}
		// A bare directory pattern excludes everything beneath it.
		if strings.HasPrefix(slashed, strings.TrimSuffix(pattern, "/")+"/") {
			return true
		}
	}
	return false
}
