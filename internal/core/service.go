// Package core ties the registry, profile state and file engine together
// behind a single service facade. All mutating operations go through the
// service so state changes and persistence stay consistent.
package core

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strconv"
	"strings"
	"sync"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"tmm/internal/domain"
	"tmm/internal/logging"
	"tmm/internal/profile"
	"tmm/internal/registry"
	"tmm/internal/storage/cache"
	"tmm/internal/storage/config"
	"tmm/internal/storage/db"
)

// Service is the application core. A single mutex guards the manager
// state, the registry index and the preferences, acquired in that
// conceptual order; it is never held across network or disk transfers,
// only around state reads, mutations and persistence.
type Service struct {
	mu sync.Mutex

	configDir string
	prefs     *config.Prefs
	database  *db.DB
	cache     *cache.Cache
	client    *registry.Client
	index     *registry.Index
	manager   *profile.Manager

	cancel    *CancelToken
	progress  *ProgressBroadcaster
	installer *Installer

	log zerolog.Logger
}

// NewService loads preferences and persisted state from configDir and
// wires up the core. The registry index starts empty; call RefreshIndex
// before operations that resolve packages.
func NewService(configDir string) (*Service, error) {
	if configDir == "" {
		configDir = config.DefaultConfigDir()
	}

	prefs, err := config.Load(configDir)
	if err != nil {
		return nil, err
	}
	if err := os.MkdirAll(prefs.DataDir, 0755); err != nil {
		return nil, fmt.Errorf("creating data dir: %w", err)
	}

	database, err := db.New(filepath.Join(prefs.DataDir, "data.sqlite3"))
	if err != nil {
		return nil, err
	}

	s := &Service{
		configDir: configDir,
		prefs:     prefs,
		database:  database,
		cache:     cache.New(prefs.CacheDir),
		client:    registry.NewClient(prefs.RegistryURL),
		index:     registry.NewIndex(nil),
		manager:   profile.NewManager(),
		cancel:    NewCancelToken(),
		progress:  NewProgressBroadcaster(),
		log:       logging.GetLogger("service"),
	}
	s.installer = NewInstaller(s.cache, NewDownloader(nil), s.cancel, s.progress)

	if err := s.restore(); err != nil {
		database.Close()
		return nil, err
	}

	return s, nil
}

// Close releases the database handle.
func (s *Service) Close() error {
	return s.database.Close()
}

// Prefs returns a copy of the current preferences.
func (s *Service) Prefs() config.Prefs {
	s.mu.Lock()
	defer s.mu.Unlock()
	return *s.prefs
}

// SavePrefs persists updated preferences.
func (s *Service) SavePrefs(prefs config.Prefs) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	*s.prefs = prefs
	return s.prefs.Save(s.configDir)
}

// Progress exposes the install progress stream.
func (s *Service) Progress() *ProgressBroadcaster {
	return s.progress
}

// CancelInstall requests cooperative cancellation of the running
// download, taking effect at the next chunk boundary.
func (s *Service) CancelInstall() {
	s.cancel.Cancel()
}

// restore rebuilds manager state from the database snapshot.
func (s *Service) restore() error {
	snap, err := s.database.LoadSnapshot()
	if err != nil {
		return err
	}

	for _, game := range snap.Games {
		descriptor, err := profile.GameBySlug(game.Slug)
		if err != nil {
			s.log.Warn().Str("game", game.Slug).Msg("skipping unknown game in saved state")
			continue
		}

		profiles := make([]*profile.Profile, 0, len(game.Profiles))
		for _, p := range game.Profiles {
			var modpack *profile.ModpackArgs
			if len(p.Modpack) > 0 {
				modpack = &profile.ModpackArgs{}
				if err := json.Unmarshal(p.Modpack, modpack); err != nil {
					return fmt.Errorf("parsing modpack metadata for %s: %w", p.Name, err)
				}
			}
			profiles = append(profiles, profile.RestoreProfile(p.Name, p.Path, descriptor.Loader, p.Mods, p.IgnoredUpdates, modpack))
		}

		gamePath := filepath.Join(s.prefs.DataDir, game.Slug)
		if err := s.manager.RestoreGame(game.Slug, gamePath, game.Favorite, game.ActiveProfileIndex, profiles); err != nil {
			return err
		}
	}

	if snap.ActiveGameSlug != "" {
		s.manager.ActiveSlug = snap.ActiveGameSlug
	}
	return nil
}

// persistLocked writes the full manager state snapshot. Callers hold the
// lock.
func (s *Service) persistLocked() error {
	snap := db.Snapshot{ActiveGameSlug: s.manager.ActiveSlug}

	for slug, game := range s.manager.Games {
		gs := db.GameSnapshot{
			Slug:               slug,
			Favorite:           game.Favorite,
			ActiveProfileIndex: game.ActiveIndex,
		}
		for _, p := range game.Profiles {
			ps := db.ProfileSnapshot{
				Name: p.Name,
				Path: p.Path,
				Mods: p.Mods,
			}
			for id := range p.IgnoredUpdates {
				ps.IgnoredUpdates = append(ps.IgnoredUpdates, id)
			}
			if p.Modpack != nil {
				data, err := json.Marshal(p.Modpack)
				if err != nil {
					return fmt.Errorf("marshaling modpack metadata: %w", err)
				}
				ps.Modpack = data
			}
			gs.Profiles = append(gs.Profiles, ps)
		}
		snap.Games = append(snap.Games, gs)
	}

	return s.database.SaveSnapshot(snap)
}

// mutate runs fn under the lock and persists on success.
func (s *Service) mutate(fn func() error) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := fn(); err != nil {
		return err
	}
	return s.persistLocked()
}

// RefreshIndex fetches the active game's package listing and swaps in the
// new index. The fetch runs outside the lock.
func (s *Service) RefreshIndex(ctx context.Context) error {
	s.mu.Lock()
	game, err := s.manager.ActiveGame()
	s.mu.Unlock()
	if err != nil {
		return err
	}

	idx, err := s.client.FetchIndex(ctx, game.Game.Community)
	if err != nil {
		return err
	}

	s.mu.Lock()
	s.index = idx
	s.mu.Unlock()
	return nil
}

// Index returns the current registry index. The index is immutable;
// callers may read it without further locking.
func (s *Service) Index() *registry.Index {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.index
}

// SetActiveGame switches to a game, setting it up on first use.
func (s *Service) SetActiveGame(slug string) error {
	return s.mutate(func() error {
		if _, err := s.manager.EnsureGame(slug, s.prefs.DataDir); err != nil {
			return err
		}
		return s.manager.SetActiveGame(slug)
	})
}

// ActiveGame returns the active managed game.
func (s *Service) ActiveGame() (*profile.ManagedGame, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.manager.ActiveGame()
}

// ToggleFavoriteGame flips a game's favorite flag, returning the new
// value.
func (s *Service) ToggleFavoriteGame(slug string) (bool, error) {
	var favorite bool
	err := s.mutate(func() error {
		game, ok := s.manager.Games[slug]
		if !ok {
			return fmt.Errorf("%w: %s", domain.ErrGameNotFound, slug)
		}
		game.Favorite = !game.Favorite
		favorite = game.Favorite
		return nil
	})
	return favorite, err
}

// ActiveProfile returns the active game's active profile.
func (s *Service) ActiveProfile() (*profile.Profile, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.activeProfileLocked()
}

func (s *Service) activeProfileLocked() (*profile.Profile, error) {
	game, err := s.manager.ActiveGame()
	if err != nil {
		return nil, err
	}
	return game.ActiveProfile(), nil
}

// InstallByIdentity plans and installs the given mod versions plus their
// missing dependencies into the active profile.
func (s *Service) InstallByIdentity(ctx context.Context, requested []domain.ModIdentity, allowDuplicates bool) error {
	s.cancel.Reset()

	s.mu.Lock()
	prof, err := s.activeProfileLocked()
	if err != nil {
		s.mu.Unlock()
		return err
	}
	plan, err := PlanInstall(prof, s.index, requested, allowDuplicates)
	s.mu.Unlock()
	if err != nil {
		return err
	}
	return s.executePlan(ctx, plan, prof)
}

// InstallByName resolves Owner/Name (and optional version number) against
// the index and installs the result.
func (s *Service) InstallByName(ctx context.Context, owner, name, version string) error {
	s.mu.Lock()
	borrowed, err := s.index.FindByName(owner, name, version)
	s.mu.Unlock()
	if err != nil {
		return err
	}
	return s.InstallByIdentity(ctx, []domain.ModIdentity{borrowed.Identity()}, false)
}

// InstallDeepLink handles a one-click install URL against the active
// profile.
func (s *Service) InstallDeepLink(ctx context.Context, raw string) error {
	link, err := ParseDeepLink(raw)
	if err != nil {
		return err
	}
	return s.InstallByName(ctx, link.Owner, link.Name, link.Version)
}

// executePlan runs the installer outside the lock; state mutation for
// each step happens under the lock through the hooks. Replaced versions
// are removed just before their successor's files are placed, since both
// versions share the same per-mod directories.
func (s *Service) executePlan(ctx context.Context, plan Plan, prof *profile.Profile) error {
	if plan.IsEmpty() {
		s.progress.Publish(InstallProgress{Task: TaskDone, TotalProgress: 1})
		return nil
	}

	positions := make(map[uuid.UUID]int)

	hooks := Hooks{
		BeforePlace: func(step Step) error {
			if step.Replaces == nil {
				return nil
			}
			return s.mutate(func() error {
				for i := range prof.Mods {
					if prof.Mods[i].UUID == *step.Replaces {
						positions[*step.Replaces] = i
						break
					}
				}
				return prof.ForceRemove(*step.Replaces)
			})
		},
		Commit: func(step Step) error {
			return s.mutate(func() error {
				return commitStep(prof, step, positions)
			})
		},
	}

	return s.installer.Run(ctx, plan, prof, hooks)
}

// commitStep records one installed step. Replacement steps take over the
// removed entry's list position; new installs append. Steps planned
// disabled are toggled off right after recording so their files get the
// disabled marker.
func commitStep(prof *profile.Profile, step Step, positions map[uuid.UUID]int) error {
	entry := domain.NewRemoteMod(step.Mod.Identity(), step.Mod.Package.FullName(), true)

	position := len(prof.Mods)
	if step.Replaces != nil {
		if p, ok := positions[*step.Replaces]; ok {
			position = p
		}
	}

	if position >= len(prof.Mods) {
		prof.Mods = append(prof.Mods, entry)
	} else {
		prof.Mods = append(prof.Mods[:position], append([]domain.ProfileMod{entry}, prof.Mods[position:]...)...)
	}

	if !step.Enabled {
		return prof.ForceToggle(entry.UUID)
	}
	return nil
}

// ToggleMod enables or disables a mod, asking for confirmation when the
// change would break enabled dependants or rely on disabled dependencies.
func (s *Service) ToggleMod(id uuid.UUID) (domain.ActionResult, error) {
	var result domain.ActionResult
	err := s.mutate(func() error {
		prof, err := s.activeProfileLocked()
		if err != nil {
			return err
		}
		result, err = prof.Toggle(id, s.index)
		return err
	})
	return result, err
}

// ForceToggleMod flips a mod's state unconditionally.
func (s *Service) ForceToggleMod(id uuid.UUID) error {
	return s.mutate(func() error {
		prof, err := s.activeProfileLocked()
		if err != nil {
			return err
		}
		return prof.ForceToggle(id)
	})
}

// RemoveMod uninstalls a mod, asking for confirmation when enabled mods
// depend on it.
func (s *Service) RemoveMod(id uuid.UUID) (domain.ActionResult, error) {
	var result domain.ActionResult
	err := s.mutate(func() error {
		prof, err := s.activeProfileLocked()
		if err != nil {
			return err
		}
		result, err = prof.Remove(id, s.index)
		return err
	})
	return result, err
}

// ForceRemoveMod uninstalls a mod unconditionally.
func (s *Service) ForceRemoveMod(id uuid.UUID) error {
	return s.mutate(func() error {
		prof, err := s.activeProfileLocked()
		if err != nil {
			return err
		}
		return prof.ForceRemove(id)
	})
}

// ReorderMod moves a mod by delta positions in the profile's load order.
func (s *Service) ReorderMod(id uuid.UUID, delta int) error {
	return s.mutate(func() error {
		prof, err := s.activeProfileLocked()
		if err != nil {
			return err
		}
		return prof.Reorder(id, delta)
	})
}

// IgnoreUpdate dismisses a specific published version from future update
// checks of the active profile.
func (s *Service) IgnoreUpdate(versionUUID uuid.UUID) error {
	return s.mutate(func() error {
		prof, err := s.activeProfileLocked()
		if err != nil {
			return err
		}
		prof.IgnoreUpdate(versionUUID)
		return nil
	})
}

// AvailableUpdates lists pending updates for the active profile.
func (s *Service) AvailableUpdates(respectIgnored bool) ([]AvailableUpdate, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	prof, err := s.activeProfileLocked()
	if err != nil {
		return nil, err
	}
	return AvailableUpdates(prof, s.index, respectIgnored)
}

// UpdateMods updates the given installed packages to their latest
// versions, preserving each mod's position and enabled state.
func (s *Service) UpdateMods(ctx context.Context, ids []uuid.UUID, respectIgnored bool) error {
	s.cancel.Reset()

	s.mu.Lock()
	prof, err := s.activeProfileLocked()
	if err != nil {
		s.mu.Unlock()
		return err
	}
	plan, err := PlanUpdate(prof, s.index, ids, respectIgnored)
	s.mu.Unlock()
	if err != nil {
		return err
	}
	return s.executePlan(ctx, plan, prof)
}

// UpdateAll updates every remote mod in the active profile.
func (s *Service) UpdateAll(ctx context.Context, respectIgnored bool) error {
	s.mu.Lock()
	prof, err := s.activeProfileLocked()
	if err != nil {
		s.mu.Unlock()
		return err
	}
	targets := UpdateTargets(prof)
	s.mu.Unlock()
	return s.UpdateMods(ctx, targets, respectIgnored)
}

// CreateProfile adds a profile to the active game and makes it active.
func (s *Service) CreateProfile(name string) error {
	return s.mutate(func() error {
		game, err := s.manager.ActiveGame()
		if err != nil {
			return err
		}
		_, err = game.CreateProfile(name)
		return err
	})
}

// RenameProfile renames a profile of the active game.
func (s *Service) RenameProfile(oldName, newName string) error {
	return s.mutate(func() error {
		game, err := s.manager.ActiveGame()
		if err != nil {
			return err
		}
		return game.RenameProfile(oldName, newName)
	})
}

// DeleteProfile removes a profile of the active game. The last remaining
// profile cannot be deleted.
func (s *Service) DeleteProfile(name string) error {
	return s.mutate(func() error {
		game, err := s.manager.ActiveGame()
		if err != nil {
			return err
		}
		return game.DeleteProfile(name)
	})
}

// DuplicateProfile copies a profile of the active game under a new name.
func (s *Service) DuplicateProfile(srcName, newName string) error {
	return s.mutate(func() error {
		game, err := s.manager.ActiveGame()
		if err != nil {
			return err
		}
		return game.DuplicateProfile(srcName, newName)
	})
}

// SwitchProfile makes the named profile active for the active game.
func (s *Service) SwitchProfile(name string) error {
	return s.mutate(func() error {
		game, err := s.manager.ActiveGame()
		if err != nil {
			return err
		}
		for i, p := range game.Profiles {
			if p.Name == name {
				return game.SetActiveProfile(i)
			}
		}
		return fmt.Errorf("%w: %s", domain.ErrProfileNotFound, name)
	})
}

// ExportActiveProfile serializes the active profile's mod list for
// sharing.
func (s *Service) ExportActiveProfile() ([]byte, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	prof, err := s.activeProfileLocked()
	if err != nil {
		return nil, err
	}
	return prof.Export(s.index)
}

// ImportProfile creates a new profile from exported data and installs its
// mods. An empty name keeps the exported profile name.
func (s *Service) ImportProfile(ctx context.Context, name string, data []byte) error {
	s.cancel.Reset()

	exported, err := profile.ImportProfile(data)
	if err != nil {
		return err
	}
	if name == "" {
		name = exported.ProfileName
	}

	s.mu.Lock()
	game, err := s.manager.ActiveGame()
	if err != nil {
		s.mu.Unlock()
		return err
	}
	prof, err := game.CreateProfile(name)
	if err != nil {
		s.mu.Unlock()
		return err
	}

	requested := make([]domain.ModIdentity, 0, len(exported.Mods))
	for _, mod := range exported.Mods {
		owner, modName, ok := splitFullName(mod.Name)
		if !ok {
			s.mu.Unlock()
			return fmt.Errorf("%w: %s", domain.ErrMalformedDependency, mod.Name)
		}
		borrowed, err := s.index.FindByName(owner, modName, mod.Version)
		if err != nil {
			s.mu.Unlock()
			return fmt.Errorf("resolving %s: %w", mod.Name, err)
		}
		requested = append(requested, borrowed.Identity())
	}

	plan, err := PlanInstall(prof, s.index, requested, false)
	if err != nil {
		s.mu.Unlock()
		return err
	}
	if err := s.persistLocked(); err != nil {
		s.mu.Unlock()
		return err
	}
	s.mu.Unlock()

	if err := s.executePlan(ctx, plan, prof); err != nil {
		return err
	}

	// Exported disabled state applies after install since plans always
	// place mods enabled unless replacing.
	return s.mutate(func() error {
		for _, mod := range exported.Mods {
			if mod.Enabled {
				continue
			}
			for i := range prof.Mods {
				if prof.Mods[i].FullName == mod.Name && prof.Mods[i].Enabled {
					if err := prof.ForceToggle(prof.Mods[i].UUID); err != nil {
						return err
					}
				}
			}
		}
		return nil
	})
}

// LaunchGame starts the active game through Steam with the loader's
// profile redirection arguments.
func (s *Service) LaunchGame(ctx context.Context) error {
	s.mu.Lock()
	game, err := s.manager.ActiveGame()
	if err != nil {
		s.mu.Unlock()
		return err
	}
	prof := game.ActiveProfile()
	steamPath := s.prefs.SteamExePath
	s.mu.Unlock()

	if steamPath == "" {
		steamPath = "steam"
	}

	args := []string{"-applaunch", strconv.FormatUint(uint64(game.Game.SteamAppID), 10)}
	args = append(args, game.Game.Loader.LaunchArgs(prof.Path)...)

	cmd := exec.CommandContext(ctx, steamPath, args...)
	if err := cmd.Start(); err != nil {
		return fmt.Errorf("launching %s: %w", game.Game.Name, err)
	}

	s.log.Info().
		Str("game", game.Game.Slug).
		Str("profile", prof.Name).
		Msg("launched game")
	return cmd.Process.Release()
}

// splitFullName splits an Owner-Name string, keeping dashes in the owner
// part like dependency strings do.
func splitFullName(fullName string) (owner, name string, ok bool) {
	i := strings.LastIndexByte(fullName, '-')
	if i <= 0 || i == len(fullName)-1 {
		return "", "", false
	}
	return fullName[:i], fullName[i+1:], true
}
