package core_test

import (
	"archive/zip"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"tmm/internal/core"
	"tmm/internal/loader"
)

// writeZip builds a zip archive on disk from a name→content map. Names
// ending in "/" become directory entries.
func writeZip(t *testing.T, entries map[string]string) string {
	t.Helper()

	path := filepath.Join(t.TempDir(), "archive.zip")
	f, err := os.Create(path)
	require.NoError(t, err)

	w := zip.NewWriter(f)
	for name, content := range entries {
		entry, err := w.Create(name)
		require.NoError(t, err)
		_, err = entry.Write([]byte(content))
		require.NoError(t, err)
	}
	require.NoError(t, w.Close())
	require.NoError(t, f.Close())
	return path
}

func TestExtract(t *testing.T) {
	archive := writeZip(t, map[string]string{
		"manifest.json":         `{"name":"Mod"}`,
		"plugins/Mod.dll":       "binary",
		"plugins/sub/extra.cfg": "key=value",
	})
	dest := filepath.Join(t.TempDir(), "out")

	err := core.NewExtractor().Extract(archive, dest)
	require.NoError(t, err)

	got, err := os.ReadFile(filepath.Join(dest, "plugins", "sub", "extra.cfg"))
	require.NoError(t, err)
	assert.Equal(t, "key=value", string(got))

	_, err = os.Stat(filepath.Join(dest, "manifest.json"))
	assert.NoError(t, err)
}

func TestExtract_RejectsPathTraversal(t *testing.T) {
	archive := writeZip(t, map[string]string{
		"../escape.txt": "nope",
	})
	parent := t.TempDir()
	dest := filepath.Join(parent, "out")

	err := core.NewExtractor().Extract(archive, dest)
	require.Error(t, err)

	_, statErr := os.Stat(filepath.Join(parent, "escape.txt"))
	assert.True(t, os.IsNotExist(statErr), "entry must not escape the destination")
}

func TestNormalize_FlattensWrapperDirs(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(dir, "BepInExPack", "BepInEx", "core"), 0755))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "BepInExPack", "BepInEx", "core", "BepInEx.dll"), []byte("x"), 0644))

	err := core.NewExtractor().Normalize(dir, loader.BepInEx)
	require.NoError(t, err)

	// Both wrapper levels stripped: BepInExPack, then BepInEx.
	_, err = os.Stat(filepath.Join(dir, "core", "BepInEx.dll"))
	assert.NoError(t, err)
	_, err = os.Stat(filepath.Join(dir, "BepInExPack"))
	assert.True(t, os.IsNotExist(err))
}

func TestNormalize_NoWrapperIsNoop(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "Mod.dll"), []byte("x"), 0644))

	err := core.NewExtractor().Normalize(dir, loader.MelonLoader)
	require.NoError(t, err)

	_, err = os.Stat(filepath.Join(dir, "Mod.dll"))
	assert.NoError(t, err)
}
