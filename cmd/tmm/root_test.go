package main

import (
	"fmt"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"tmm/internal/domain"
)

// setupTestConfig points the CLI at a throwaway config whose data and
// cache dirs live under the test's temp directory.
func setupTestConfig(t *testing.T) {
	t.Helper()

	dir := t.TempDir()
	cfg := fmt.Sprintf("data_dir: %s\ncache_dir: %s\n",
		filepath.Join(dir, "data"), filepath.Join(dir, "cache"))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "config.yaml"), []byte(cfg), 0644))

	configDir = dir
	t.Cleanup(func() {
		configDir = ""
		gameSlug = ""
		jsonOutput = false
		yesFlag = false
	})
}

func TestRootCmd_GlobalFlags(t *testing.T) {
	for _, name := range []string{"config", "game", "verbose", "json", "yes"} {
		assert.NotNil(t, rootCmd.PersistentFlags().Lookup(name), "missing --%s", name)
	}

	assert.Equal(t, "g", rootCmd.PersistentFlags().Lookup("game").Shorthand)
	assert.Equal(t, "y", rootCmd.PersistentFlags().Lookup("yes").Shorthand)
}

func TestRootCmd_SilencesUsageOnRuntimeErrors(t *testing.T) {
	assert.True(t, rootCmd.SilenceUsage)
	assert.True(t, rootCmd.SilenceErrors)
}

func TestInitService_NoGameFlag(t *testing.T) {
	setupTestConfig(t)

	svc, err := initService()
	require.NoError(t, err)
	t.Cleanup(func() { svc.Close() })

	// Without --game no game is active yet.
	_, err = svc.ActiveGame()
	assert.ErrorIs(t, err, domain.ErrGameNotFound)
}

func TestInitService_GameFlagActivatesGame(t *testing.T) {
	setupTestConfig(t)
	gameSlug = "lethal-company"

	svc, err := initService()
	require.NoError(t, err)
	t.Cleanup(func() { svc.Close() })

	game, err := svc.ActiveGame()
	require.NoError(t, err)
	assert.Equal(t, "lethal-company", game.Game.Slug)
}

func TestInitService_UnknownGameFails(t *testing.T) {
	setupTestConfig(t)
	gameSlug = "not-a-game"

	_, err := initService()
	assert.ErrorIs(t, err, domain.ErrGameNotFound)
}
