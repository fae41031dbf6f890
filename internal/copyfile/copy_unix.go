//go:build linux || darwin

package copyfile

import (
	"io/fs"
	"os/exec"
	"runtime"
)

// copyFile prefers the platform cp so copy-on-write filesystems (APFS,
// btrfs, XFS) clone instead of duplicating blocks. Falls back to a plain
// byte copy when cp is unavailable.
func copyFile(src, dst string, perm fs.FileMode) error {
	var args []string
	if runtime.GOOS == "darwin" {
		args = []string{"-c", src, dst}
	} else {
		args = []string{"--reflink=auto", src, dst}
	}
	if path, err := exec.LookPath("cp"); err == nil {
		if err := exec.Command(path, args...).Run(); err == nil {
			return nil
		}
	}
	return copyFileContents(src, dst, perm)
}
