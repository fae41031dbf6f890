package copyfile

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeFile(t *testing.T, dir, rel, content string) {
	t.Helper()
	path := filepath.Join(dir, rel)
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
}

func readFile(t *testing.T, dir, rel string) string {
	t.Helper()
	data, err := os.ReadFile(filepath.Join(dir, rel))
	require.NoError(t, err)
	return string(data)
}

func TestCopyMatchingBasic(t *testing.T) {
	src, dst := t.TempDir(), t.TempDir()
	writeFile(t, src, ".env", "SECRET=1\n")
	writeFile(t, src, ".env.local", "LOCAL=1\n")
	writeFile(t, src, "main.go", "package main\n")

	copied, err := CopyMatching(src, dst, []string{".env*"}, nil, false)
	require.NoError(t, err)

	assert.ElementsMatch(t, []string{".env", ".env.local"}, copied)
	assert.Equal(t, "SECRET=1\n", readFile(t, dst, ".env"))
	_, statErr := os.Stat(filepath.Join(dst, "main.go"))
	assert.True(t, os.IsNotExist(statErr))
}

func TestCopyMatchingExcludes(t *testing.T) {
	src, dst := t.TempDir(), t.TempDir()
	writeFile(t, src, ".env", "keep\n")
	writeFile(t, src, ".env.production", "secret\n")

	copied, err := CopyMatching(src, dst, []string{".env*"}, []string{".env.production"}, false)
	require.NoError(t, err)

	assert.Equal(t, []string{".env"}, copied)
	_, statErr := os.Stat(filepath.Join(dst, ".env.production"))
	assert.True(t, os.IsNotExist(statErr))
}

func TestCopyMatchingNestedPattern(t *testing.T) {
	src, dst := t.TempDir(), t.TempDir()
	writeFile(t, src, "config/local.yaml", "a: 1\n")
	writeFile(t, src, "config/shared.yaml", "b: 2\n")

	copied, err := CopyMatching(src, dst, []string{"config/*.yaml"}, nil, false)
	require.NoError(t, err)

	assert.ElementsMatch(t, []string{
		filepath.Join("config", "local.yaml"),
		filepath.Join("config", "shared.yaml"),
	}, copied)
	assert.Equal(t, "a: 1\n", readFile(t, dst, "config/local.yaml"))
}

func TestCopyMatchingDirectoryExclude(t *testing.T) {
	src, dst := t.TempDir(), t.TempDir()
	writeFile(t, src, "secrets/key.pem", "key\n")
	writeFile(t, src, "notes.txt", "hi\n")

	copied, err := CopyMatching(src, dst, []string{"*", "secrets/*"}, []string{"secrets"}, false)
	require.NoError(t, err)

	assert.Equal(t, []string{"notes.txt"}, copied)
}

func TestCopyMatchingSkipsDirectories(t *testing.T) {
	src, dst := t.TempDir(), t.TempDir()
	writeFile(t, src, "dir/file.txt", "x\n")
	writeFile(t, src, "top.txt", "y\n")

	// "*" matches the directory entry itself; only plain files copy.
	copied, err := CopyMatching(src, dst, []string{"*"}, nil, false)
	require.NoError(t, err)
	assert.Equal(t, []string{"top.txt"}, copied)
}

func TestCopyMatchingNoOverwrite(t *testing.T) {
	src, dst := t.TempDir(), t.TempDir()
	writeFile(t, src, ".env", "new\n")
	writeFile(t, dst, ".env", "existing\n")

	copied, err := CopyMatching(src, dst, []string{".env"}, nil, false)
	require.NoError(t, err)

	assert.Empty(t, copied)
	assert.Equal(t, "existing\n", readFile(t, dst, ".env"))
}

func TestCopyMatchingOverwrite(t *testing.T) {
	src, dst := t.TempDir(), t.TempDir()
	writeFile(t, src, ".env", "new\n")
	writeFile(t, dst, ".env", "existing\n")

	copied, err := CopyMatching(src, dst, []string{".env"}, nil, true)
	require.NoError(t, err)

	assert.Equal(t, []string{".env"}, copied)
	assert.Equal(t, "new\n", readFile(t, dst, ".env"))
}

func TestCopyMatchingDeduplicatesAcrossPatterns(t *testing.T) {
	src, dst := t.TempDir(), t.TempDir()
	writeFile(t, src, ".env", "x\n")

	copied, err := CopyMatching(src, dst, []string{".env", ".env*"}, nil, false)
	require.NoError(t, err)
	assert.Equal(t, []string{".env"}, copied)
}

func TestCopyMatchingNoMatches(t *testing.T) {
	copied, err := CopyMatching(t.TempDir(), t.TempDir(), []string{"*.nothing"}, nil, false)
	require.NoError(t, err)
	assert.Empty(t, copied)
}

func TestCopyFilePreservesContents(t *testing.T) {
	src, dst := t.TempDir(), t.TempDir()
	writeFile(t, src, "data.bin", "binary-ish content\x00\x01\n")

	copied, err := CopyMatching(src, dst, []string{"data.bin"}, nil, false)
	require.NoError(t, err)
	require.Len(t, copied, 1)
	assert.Equal(t, "binary-ish content\x00\x01\n", readFile(t, dst, "data.bin"))
}
