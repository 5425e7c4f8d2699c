package fsutil_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"tmm/internal/fsutil"
)

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
}

func readFile(t *testing.T, path string) string {
	t.Helper()
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	return string(data)
}

func TestCopyFile(t *testing.T) {
	dir := t.TempDir()
	src := filepath.Join(dir, "src.txt")
	dst := filepath.Join(dir, "nested", "dst.txt")
	writeFile(t, src, "hello")
	require.NoError(t, os.Chmod(src, 0755))

	require.NoError(t, fsutil.CopyFile(src, dst))

	assert.Equal(t, "hello", readFile(t, dst))
	info, err := os.Stat(dst)
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0755), info.Mode().Perm())
}

func TestCopyDir(t *testing.T) {
	dir := t.TempDir()
	src := filepath.Join(dir, "src")
	writeFile(t, filepath.Join(src, "a.txt"), "a")
	writeFile(t, filepath.Join(src, "sub", "b.txt"), "b")

	dst := filepath.Join(dir, "dst")
	require.NoError(t, fsutil.CopyDir(src, dst))

	assert.Equal(t, "a", readFile(t, filepath.Join(dst, "a.txt")))
	assert.Equal(t, "b", readFile(t, filepath.Join(dst, "sub", "b.txt")))
}

func TestCopyDir_OverwritesExisting(t *testing.T) {
	dir := t.TempDir()
	src := filepath.Join(dir, "src")
	dst := filepath.Join(dir, "dst")
	writeFile(t, filepath.Join(src, "a.txt"), "new")
	writeFile(t, filepath.Join(dst, "a.txt"), "old")

	require.NoError(t, fsutil.CopyDir(src, dst))
	assert.Equal(t, "new", readFile(t, filepath.Join(dst, "a.txt")))
}

func TestFlattenIfExists(t *testing.T) {
	dir := t.TempDir()
	wrapper := filepath.Join(dir, "BepInExPack")
	writeFile(t, filepath.Join(wrapper, "a.txt"), "a")
	writeFile(t, filepath.Join(wrapper, "sub", "b.txt"), "b")

	require.NoError(t, fsutil.FlattenIfExists(wrapper))

	assert.Equal(t, "a", readFile(t, filepath.Join(dir, "a.txt")))
	assert.Equal(t, "b", readFile(t, filepath.Join(dir, "sub", "b.txt")))
	_, err := os.Stat(wrapper)
	assert.True(t, os.IsNotExist(err))
}

func TestFlattenIfExists_MissingDirIsNoop(t *testing.T) {
	dir := t.TempDir()
	assert.NoError(t, fsutil.FlattenIfExists(filepath.Join(dir, "absent")))
}

func TestFlattenIfExists_KeepsCollidingChildren(t *testing.T) {
	dir := t.TempDir()
	wrapper := filepath.Join(dir, "wrapper")
	writeFile(t, filepath.Join(wrapper, "a.txt"), "inner")
	writeFile(t, filepath.Join(dir, "a.txt"), "outer")

	require.NoError(t, fsutil.FlattenIfExists(wrapper))

	// The sibling wins; the colliding child stays inside the wrapper.
	assert.Equal(t, "outer", readFile(t, filepath.Join(dir, "a.txt")))
	assert.Equal(t, "inner", readFile(t, filepath.Join(wrapper, "a.txt")))
}

func TestCleanupEmptyDirs(t *testing.T) {
	root := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(root, "a", "b", "c"), 0755))
	writeFile(t, filepath.Join(root, "keep", "file.txt"), "x")

	fsutil.CleanupEmptyDirs(root)

	_, err := os.Stat(filepath.Join(root, "a"))
	assert.True(t, os.IsNotExist(err))
	_, err = os.Stat(filepath.Join(root, "keep", "file.txt"))
	assert.NoError(t, err)

	// Root itself stays.
	_, err = os.Stat(root)
	assert.NoError(t, err)
}
