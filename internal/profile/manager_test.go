package profile_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"tmm/internal/domain"
	"tmm/internal/loader"
	"tmm/internal/profile"
)

func newManagedGame(t *testing.T) (*profile.Manager, *profile.ManagedGame) {
	t.Helper()
	manager := profile.NewManager()
	game, err := manager.EnsureGame("lethal-company", t.TempDir())
	require.NoError(t, err)
	return manager, game
}

func TestManager_EnsureGame_CreatesDefaultProfile(t *testing.T) {
	manager, game := newManagedGame(t)

	require.Len(t, game.Profiles, 1)
	assert.Equal(t, profile.DefaultProfileName, game.Profiles[0].Name)
	assert.DirExists(t, game.Profiles[0].Path)

	// First game becomes active.
	active, err := manager.ActiveGame()
	require.NoError(t, err)
	assert.Equal(t, "lethal-company", active.Game.Slug)
}

func TestManager_EnsureGame_Idempotent(t *testing.T) {
	manager := profile.NewManager()
	dataDir := t.TempDir()

	first, err := manager.EnsureGame("valheim", dataDir)
	require.NoError(t, err)
	second, err := manager.EnsureGame("valheim", dataDir)
	require.NoError(t, err)

	assert.Same(t, first, second)
}

func TestManager_EnsureGame_UnknownSlug(t *testing.T) {
	manager := profile.NewManager()
	_, err := manager.EnsureGame("no-such-game", t.TempDir())
	assert.ErrorIs(t, err, domain.ErrGameNotFound)
}

func TestManager_SetActiveGame(t *testing.T) {
	manager, _ := newManagedGame(t)

	assert.ErrorIs(t, manager.SetActiveGame("valheim"), domain.ErrGameNotFound)

	_, err := manager.EnsureGame("valheim", t.TempDir())
	require.NoError(t, err)
	require.NoError(t, manager.SetActiveGame("valheim"))

	active, err := manager.ActiveGame()
	require.NoError(t, err)
	assert.Equal(t, "valheim", active.Game.Slug)
}

func TestManagedGame_CreateProfile(t *testing.T) {
	_, game := newManagedGame(t)

	p, err := game.CreateProfile("modded")
	require.NoError(t, err)
	assert.DirExists(t, p.Path)

	// The new profile becomes active.
	assert.Equal(t, "modded", game.ActiveProfile().Name)

	_, err = game.CreateProfile("modded")
	assert.ErrorIs(t, err, domain.ErrProfileExists)

	_, err = game.CreateProfile("bad/name")
	assert.ErrorIs(t, err, domain.ErrInvalidProfileName)
}

func TestManagedGame_RenameProfile(t *testing.T) {
	_, game := newManagedGame(t)
	oldPath := game.ActiveProfile().Path

	require.NoError(t, game.RenameProfile(profile.DefaultProfileName, "renamed"))

	p, err := game.Profile("renamed")
	require.NoError(t, err)
	assert.DirExists(t, p.Path)
	assert.NoDirExists(t, oldPath)

	assert.ErrorIs(t, game.RenameProfile("missing", "x"), domain.ErrProfileNotFound)
	assert.ErrorIs(t, game.RenameProfile("renamed", `bad\name`), domain.ErrInvalidProfileName)
}

func TestManagedGame_DeleteProfile(t *testing.T) {
	_, game := newManagedGame(t)

	// The only profile cannot be deleted.
	assert.ErrorIs(t, game.DeleteProfile(profile.DefaultProfileName), domain.ErrLastProfile)

	second, err := game.CreateProfile("second")
	require.NoError(t, err)

	require.NoError(t, game.DeleteProfile("second"))
	assert.NoDirExists(t, second.Path)
	assert.Equal(t, profile.DefaultProfileName, game.ActiveProfile().Name)
}

func TestManagedGame_DeleteProfile_AdjustsActiveIndex(t *testing.T) {
	_, game := newManagedGame(t)
	_, err := game.CreateProfile("a")
	require.NoError(t, err)
	_, err = game.CreateProfile("b")
	require.NoError(t, err)

	// "b" is active at index 2; deleting "a" shifts it down.
	require.NoError(t, game.DeleteProfile("a"))
	assert.Equal(t, "b", game.ActiveProfile().Name)
}

func TestManagedGame_DuplicateProfile(t *testing.T) {
	_, game := newManagedGame(t)
	src := game.ActiveProfile()

	src.Mods = append(src.Mods, domain.NewRemoteMod(domain.ModIdentity{
		PackageUUID: uuid.New(),
		VersionUUID: uuid.New(),
	}, "Owner-Mod", true))
	src.IgnoreUpdate(uuid.New())
	require.NoError(t, os.WriteFile(filepath.Join(src.Path, "file.txt"), []byte("x"), 0644))

	require.NoError(t, game.DuplicateProfile(profile.DefaultProfileName, "copy"))

	dup, err := game.Profile("copy")
	require.NoError(t, err)
	assert.FileExists(t, filepath.Join(dup.Path, "file.txt"))
	require.Len(t, dup.Mods, 1)
	assert.Len(t, dup.IgnoredUpdates, 1)

	// The copies are independent.
	dup.Mods[0].Enabled = false
	assert.True(t, src.Mods[0].Enabled)
}

func TestManager_RestoreGame(t *testing.T) {
	manager := profile.NewManager()
	path := t.TempDir()

	mods := []domain.ProfileMod{domain.NewRemoteMod(domain.ModIdentity{
		PackageUUID: uuid.New(),
		VersionUUID: uuid.New(),
	}, "Owner-Mod", true)}
	ignored := []uuid.UUID{uuid.New()}

	restored := profile.RestoreProfile("Main", filepath.Join(path, "profiles", "Main"), loader.BepInEx, mods, ignored, nil)
	require.NoError(t, manager.RestoreGame("valheim", path, true, 0, []*profile.Profile{restored}))

	game, ok := manager.Games["valheim"]
	require.True(t, ok)
	assert.True(t, game.Favorite)
	require.Len(t, game.Profiles, 1)
	assert.Equal(t, "Main", game.ActiveProfile().Name)
	assert.True(t, game.ActiveProfile().IsUpdateIgnored(ignored[0]))
}
