package profile

import (
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"

	"tmm/internal/domain"
	"tmm/internal/fsutil"
	"tmm/internal/loader"
	"tmm/internal/logging"
	"tmm/internal/registry"
)

// DisabledExt is the marker extension appended to every file of a
// disabled mod. Stripping it restores the original name, so disabling is
// fully reversible.
const DisabledExt = ".old"

// Toggle flips a mod between enabled and disabled. Enabling a mod whose
// dependencies are installed but disabled, or disabling a mod that other
// enabled mods depend on, returns a Confirm result listing those mods
// instead of proceeding; ForceToggle skips the check.
func (p *Profile) Toggle(id uuid.UUID, idx *registry.Index) (domain.ActionResult, error) {
	mod, err := p.Mod(id)
	if err != nil {
		return domain.ActionResult{}, err
	}

	var blocking []domain.Dependant
	if mod.Enabled {
		blocking, err = p.checkDependants(id, idx)
	} else {
		blocking, err = p.checkDependencies(id, idx)
	}
	if err != nil {
		return domain.ActionResult{}, err
	}
	if len(blocking) > 0 {
		return domain.ConfirmResult(blocking), nil
	}

	if err := p.ForceToggle(id); err != nil {
		return domain.ActionResult{}, err
	}
	return domain.DoneResult(), nil
}

// ForceToggle flips a mod's enabled state unconditionally and renames its
// installed files to match. Toggling twice restores every file name.
func (p *Profile) ForceToggle(id uuid.UUID) error {
	mod, err := p.Mod(id)
	if err != nil {
		return err
	}

	enabled := mod.Enabled
	err = p.scanMod(mod.FullName, func(dir string) error {
		return toggleFiles(dir, enabled)
	})
	if err != nil {
		return err
	}

	mod.Enabled = !enabled

	log := logging.GetLogger("profile")
	log.Debug().
		Str("mod", mod.FullName).
		Bool("enabled", mod.Enabled).
		Msg("toggled mod")
	return nil
}

// toggleFiles renames every regular file and symlink under dir: appending
// the disabled marker when disabling, stripping it when enabling.
// Stacked markers are stripped in a loop in case several accumulated.
func toggleFiles(dir string, disable bool) error {
	var paths []string
	err := filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.Type().IsRegular() || d.Type()&fs.ModeSymlink != 0 {
			paths = append(paths, path)
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("scanning %s: %w", dir, err)
	}

	for _, path := range paths {
		newPath := path
		if disable {
			newPath += DisabledExt
		} else {
			for strings.HasSuffix(newPath, DisabledExt) {
				newPath = strings.TrimSuffix(newPath, DisabledExt)
			}
		}
		if newPath == path {
			continue
		}
		if err := os.Rename(path, newPath); err != nil {
			return fmt.Errorf("renaming %s: %w", path, err)
		}
	}

	return nil
}

// Remove uninstalls a mod. If other enabled, non-modpack mods depend on
// it, a Confirm result listing them is returned instead; ForceRemove
// skips the check.
func (p *Profile) Remove(id uuid.UUID, idx *registry.Index) (domain.ActionResult, error) {
	mod, err := p.Mod(id)
	if err != nil {
		return domain.ActionResult{}, err
	}

	if mod.Enabled {
		dependants, err := p.checkDependants(id, idx)
		if err != nil {
			return domain.ActionResult{}, err
		}
		if len(dependants) > 0 {
			return domain.ConfirmResult(dependants), nil
		}
	}

	if err := p.ForceRemove(id); err != nil {
		return domain.ActionResult{}, err
	}
	return domain.DoneResult(), nil
}

// ForceRemove deletes the mod's installed files and drops it from the
// profile. Only per-mod directories are deleted; files in Track-mode and
// untracked subdirs have no recorded ownership and are left in place.
func (p *Profile) ForceRemove(id uuid.UUID) error {
	index, err := p.indexOf(id)
	if err != nil {
		return err
	}
	mod := p.Mods[index]

	err = p.scanMod(mod.FullName, func(dir string) error {
		if err := os.RemoveAll(dir); err != nil {
			return fmt.Errorf("removing %s: %w", dir, err)
		}
		return nil
	})
	if err != nil {
		return err
	}

	p.Mods = append(p.Mods[:index], p.Mods[index+1:]...)
	fsutil.CleanupEmptyDirs(p.Path)

	log := logging.GetLogger("profile")
	log.Info().
		Str("mod", mod.FullName).
		Str("profile", p.Name).
		Msg("removed mod")
	return nil
}

// scanMod invokes fn on each existing per-mod directory of the mod, i.e.
// subdir/<full-name> for every subdir placed in Separate or
// SeparateFlatten mode.
func (p *Profile) scanMod(fullName string, fn func(dir string) error) error {
	for _, sub := range p.Loader.Subdirs() {
		switch sub.Mode {
		case loader.ModeSeparate, loader.ModeSeparateFlatten:
		default:
			continue
		}

		dir := filepath.Join(p.Path, filepath.FromSlash(sub.Target), fullName)
		if _, err := os.Stat(dir); os.IsNotExist(err) {
			continue
		}
		if err := fn(dir); err != nil {
			return err
		}
	}
	return nil
}
