//go:build !linux && !darwin

package copyfile

import "io/fs"

func copyFile(src, dst string, perm fs.FileMode) error {
	return copyFileContents(src, dst, perm)
}
