package profile

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/google/uuid"

	"tmm/internal/domain"
	"tmm/internal/fsutil"
	"tmm/internal/loader"
	"tmm/internal/logging"
)

// DefaultProfileName is given to the profile auto-created when a game has
// none.
const DefaultProfileName = "Default"

// ManagedGame is one game under management: its ordered profiles, the
// active selection and a favorite flag.
type ManagedGame struct {
	Game        Game
	Path        string // <dataDir>/<slug>
	Profiles    []*Profile
	ActiveIndex int
	Favorite    bool
}

// Manager owns the set of managed games and the globally active game.
// It is plain state: the service layer guards it with a single lock
// (acquired before the registry index and preferences, in that order)
// and persists it after every durable mutation.
type Manager struct {
	Games      map[string]*ManagedGame
	ActiveSlug string
}

// NewManager creates an empty manager.
func NewManager() *Manager {
	return &Manager{Games: make(map[string]*ManagedGame)}
}

// EnsureGame returns the managed state for a game, creating its directory
// tree and a default profile on first use.
func (m *Manager) EnsureGame(slug, dataDir string) (*ManagedGame, error) {
	if game, ok := m.Games[slug]; ok {
		return game, nil
	}

	descriptor, err := GameBySlug(slug)
	if err != nil {
		return nil, err
	}

	managed := &ManagedGame{
		Game: descriptor,
		Path: filepath.Join(dataDir, slug),
	}
	if err := os.MkdirAll(filepath.Join(managed.Path, "profiles"), 0755); err != nil {
		return nil, fmt.Errorf("creating game directory: %w", err)
	}

	if _, err := managed.CreateProfile(DefaultProfileName); err != nil {
		return nil, err
	}

	m.Games[slug] = managed
	if m.ActiveSlug == "" {
		m.ActiveSlug = slug
	}

	log := logging.GetLogger("manager")
	log.Info().Str("game", slug).Msg("initialized game")
	return managed, nil
}

// ActiveGame returns the globally active game, or an error when none is
// set up yet.
func (m *Manager) ActiveGame() (*ManagedGame, error) {
	game, ok := m.Games[m.ActiveSlug]
	if !ok {
		return nil, fmt.Errorf("%w: no active game", domain.ErrGameNotFound)
	}
	return game, nil
}

// SetActiveGame switches the globally active game. The game must already
// be managed.
func (m *Manager) SetActiveGame(slug string) error {
	if _, ok := m.Games[slug]; !ok {
		return fmt.Errorf("%w: %s", domain.ErrGameNotFound, slug)
	}
	m.ActiveSlug = slug
	return nil
}

// ActiveProfile returns the game's active profile. Games always have at
// least one profile.
func (g *ManagedGame) ActiveProfile() *Profile {
	if g.ActiveIndex >= len(g.Profiles) {
		g.ActiveIndex = 0
	}
	return g.Profiles[g.ActiveIndex]
}

// Profile looks up a profile by name (case-sensitive).
func (g *ManagedGame) Profile(name string) (*Profile, error) {
	for _, p := range g.Profiles {
		if p.Name == name {
			return p, nil
		}
	}
	return nil, fmt.Errorf("%w: %s", domain.ErrProfileNotFound, name)
}

// SetActiveProfile switches the game's active profile by index.
func (g *ManagedGame) SetActiveProfile(index int) error {
	if index < 0 || index >= len(g.Profiles) {
		return fmt.Errorf("%w: index %d out of range", domain.ErrProfileNotFound, index)
	}
	g.ActiveIndex = index
	return nil
}

// CreateProfile creates a profile directory and makes the new profile
// active.
func (g *ManagedGame) CreateProfile(name string) (*Profile, error) {
	if !IsValidName(name) {
		return nil, fmt.Errorf("%w: %q", domain.ErrInvalidProfileName, name)
	}
	if _, err := g.Profile(name); err == nil {
		return nil, fmt.Errorf("%w: %s", domain.ErrProfileExists, name)
	}

	path := filepath.Join(g.Path, "profiles", name)
	if err := os.MkdirAll(path, 0755); err != nil {
		return nil, fmt.Errorf("creating profile directory: %w", err)
	}

	p := newProfile(name, path, g.Game.Loader)
	g.Profiles = append(g.Profiles, p)
	g.ActiveIndex = len(g.Profiles) - 1

	return p, nil
}

// RenameProfile renames a profile and its directory.
func (g *ManagedGame) RenameProfile(oldName, newName string) error {
	if !IsValidName(newName) {
		return fmt.Errorf("%w: %q", domain.ErrInvalidProfileName, newName)
	}
	if _, err := g.Profile(newName); err == nil {
		return fmt.Errorf("%w: %s", domain.ErrProfileExists, newName)
	}

	p, err := g.Profile(oldName)
	if err != nil {
		return err
	}

	newPath := filepath.Join(filepath.Dir(p.Path), newName)
	if err := os.Rename(p.Path, newPath); err != nil {
		return fmt.Errorf("renaming profile directory: %w", err)
	}

	p.Name = newName
	p.Path = newPath
	return nil
}

// DeleteProfile removes a profile and its directory. The last profile
// cannot be deleted; deleting the active profile resets the selection.
func (g *ManagedGame) DeleteProfile(name string) error {
	if len(g.Profiles) == 1 {
		return domain.ErrLastProfile
	}

	index := -1
	for i, p := range g.Profiles {
		if p.Name == name {
			index = i
			break
		}
	}
	if index == -1 {
		return fmt.Errorf("%w: %s", domain.ErrProfileNotFound, name)
	}

	if err := os.RemoveAll(g.Profiles[index].Path); err != nil {
		return fmt.Errorf("removing profile directory: %w", err)
	}

	g.Profiles = append(g.Profiles[:index], g.Profiles[index+1:]...)
	if g.ActiveIndex == index {
		g.ActiveIndex = 0
	} else if g.ActiveIndex > index {
		g.ActiveIndex--
	}

	return nil
}

// DuplicateProfile copies a profile's directory tree and mod list under a
// new name. The copy becomes active.
func (g *ManagedGame) DuplicateProfile(srcName, newName string) error {
	src, err := g.Profile(srcName)
	if err != nil {
		return err
	}

	dup, err := g.CreateProfile(newName)
	if err != nil {
		return err
	}

	if err := fsutil.CopyDir(src.Path, dup.Path); err != nil {
		return fmt.Errorf("copying profile directory: %w", err)
	}

	dup.Mods = append([]domain.ProfileMod(nil), src.Mods...)
	dup.IgnoredUpdates = make(map[uuid.UUID]struct{}, len(src.IgnoredUpdates))
	for id := range src.IgnoredUpdates {
		dup.IgnoredUpdates[id] = struct{}{}
	}

	return nil
}

// RestoreGame rebuilds a managed game from persisted state, bypassing the
// first-use setup of EnsureGame. Profile directories are assumed to exist
// on disk already.
func (m *Manager) RestoreGame(slug, path string, favorite bool, activeIndex int, profiles []*Profile) error {
	descriptor, err := GameBySlug(slug)
	if err != nil {
		return err
	}

	managed := &ManagedGame{
		Game:     descriptor,
		Path:     path,
		Profiles: profiles,
		Favorite: favorite,
	}
	if activeIndex >= 0 && activeIndex < len(profiles) {
		managed.ActiveIndex = activeIndex
	}

	m.Games[slug] = managed
	return nil
}

// RestoreProfile rebuilds a profile from persisted state.
func RestoreProfile(name, path string, kind loader.Kind, mods []domain.ProfileMod, ignored []uuid.UUID, modpack *ModpackArgs) *Profile {
	p := newProfile(name, path, kind)
	p.Mods = mods
	for _, id := range ignored {
		p.IgnoredUpdates[id] = struct{}{}
	}
	p.Modpack = modpack
	return p
}
