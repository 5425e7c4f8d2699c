// Package profile owns the mutable per-profile mod lists and the
// game/profile hierarchy around them: enable state, ordering, dependency
// consistency checks and the on-disk directory lifecycle.
package profile

import (
	"fmt"
	"strings"

	"github.com/google/uuid"

	"tmm/internal/domain"
	"tmm/internal/loader"
	"tmm/internal/registry"
)

// Profile is an isolated, independently toggleable set of installed mods.
// Mod order is significant (load order) and preserved across toggles and
// updates.
type Profile struct {
	Name           string
	Path           string
	Loader         loader.Kind
	Mods           []domain.ProfileMod
	IgnoredUpdates map[uuid.UUID]struct{}
	Modpack        *ModpackArgs
}

// ModpackArgs is the export metadata attached to a profile when the user
// publishes it as a modpack.
type ModpackArgs struct {
	Name          string `json:"name" yaml:"name"`
	Description   string `json:"description" yaml:"description"`
	Author        string `json:"author" yaml:"author"`
	VersionNumber string `json:"versionNumber" yaml:"versionNumber"`
	WebsiteURL    string `json:"websiteUrl,omitempty" yaml:"websiteUrl,omitempty"`
}

func newProfile(name, path string, kind loader.Kind) *Profile {
	return &Profile{
		Name:           name,
		Path:           path,
		Loader:         kind,
		IgnoredUpdates: make(map[uuid.UUID]struct{}),
	}
}

// Mod returns the profile entry with the given uuid.
func (p *Profile) Mod(id uuid.UUID) (*domain.ProfileMod, error) {
	for i := range p.Mods {
		if p.Mods[i].UUID == id {
			return &p.Mods[i], nil
		}
	}
	return nil, fmt.Errorf("%w: %s", domain.ErrModNotFound, id)
}

// HasMod reports whether any entry matches the given package uuid.
func (p *Profile) HasMod(id uuid.UUID) bool {
	_, err := p.Mod(id)
	return err == nil
}

func (p *Profile) indexOf(id uuid.UUID) (int, error) {
	for i := range p.Mods {
		if p.Mods[i].UUID == id {
			return i, nil
		}
	}
	return 0, fmt.Errorf("%w: %s", domain.ErrModNotFound, id)
}

// Reorder moves a mod by delta positions, clamped to the list bounds.
// Moves at a boundary are a no-op, never an error.
func (p *Profile) Reorder(id uuid.UUID, delta int) error {
	index, err := p.indexOf(id)
	if err != nil {
		return err
	}

	target := index + delta
	if target < 0 {
		target = 0
	}
	if target > len(p.Mods)-1 {
		target = len(p.Mods) - 1
	}
	if target == index {
		return nil
	}

	mod := p.Mods[index]
	p.Mods = append(p.Mods[:index], p.Mods[index+1:]...)
	p.Mods = append(p.Mods[:target], append([]domain.ProfileMod{mod}, p.Mods[target:]...)...)
	return nil
}

// IgnoreUpdate excludes a version from future bulk updates.
func (p *Profile) IgnoreUpdate(versionUUID uuid.UUID) {
	if p.IgnoredUpdates == nil {
		p.IgnoredUpdates = make(map[uuid.UUID]struct{})
	}
	p.IgnoredUpdates[versionUUID] = struct{}{}
}

// IsUpdateIgnored reports whether a version is in the ignored-updates set.
func (p *Profile) IsUpdateIgnored(versionUUID uuid.UUID) bool {
	_, ok := p.IgnoredUpdates[versionUUID]
	return ok
}

// IsValidName reports whether a profile name is acceptable: non-empty,
// no path separators or characters unsafe in file names. Uniqueness
// against sibling profiles is case-sensitive.
func IsValidName(name string) bool {
	if strings.TrimSpace(name) == "" {
		return false
	}
	return !strings.ContainsAny(name, `/\:*?"<>|`)
}

// dependants returns the profile entries that declare the target package
// as a (transitive) dependency. Local mods have no registry dependencies
// and are skipped; a remote mod that fails to resolve, or a dependency
// walk that hits an unresolvable entry, fails the whole scan so the
// caller never acts on an incomplete answer.
func (p *Profile) dependants(target uuid.UUID, idx *registry.Index) ([]*domain.ProfileMod, error) {
	var result []*domain.ProfileMod

	for i := range p.Mods {
		other := &p.Mods[i]
		if other.UUID == target || other.IsLocal() {
			continue
		}

		borrowed, err := idx.Resolve(*other.Remote)
		if err != nil {
			return nil, fmt.Errorf("resolving %s: %w", other.FullName, err)
		}

		deps, unresolved := idx.DependenciesDeep(borrowed.Version)
		if len(unresolved) > 0 {
			return nil, fmt.Errorf("resolving dependencies of %s: %w: %s",
				other.FullName, domain.ErrPackageNotFound, strings.Join(unresolved, ", "))
		}

		for _, dep := range deps {
			if dep.Package.UUID == target {
				result = append(result, other)
				break
			}
		}
	}

	return result, nil
}

// checkDependants lists enabled, non-modpack mods depending on the target.
func (p *Profile) checkDependants(target uuid.UUID, idx *registry.Index) ([]domain.Dependant, error) {
	mods, err := p.dependants(target, idx)
	if err != nil {
		return nil, err
	}

	var result []domain.Dependant
	for _, mod := range mods {
		if !mod.Enabled {
			continue
		}
		if mod.Remote != nil {
			if borrowed, err := idx.Resolve(*mod.Remote); err == nil && borrowed.Package.IsModpack() {
				continue
			}
		}
		result = append(result, domain.Dependant{Name: mod.FullName, UUID: mod.UUID})
	}

	return result, nil
}

// checkDependencies lists the target's dependencies that are installed
// but currently disabled.
func (p *Profile) checkDependencies(target uuid.UUID, idx *registry.Index) ([]domain.Dependant, error) {
	mod, err := p.Mod(target)
	if err != nil {
		return nil, err
	}
	if mod.IsLocal() {
		return nil, nil
	}

	borrowed, err := idx.Resolve(*mod.Remote)
	if err != nil {
		return nil, fmt.Errorf("resolving %s: %w", mod.FullName, err)
	}

	deps, unresolved := idx.DependenciesDeep(borrowed.Version)
	if len(unresolved) > 0 {
		return nil, fmt.Errorf("resolving dependencies of %s: %w: %s",
			mod.FullName, domain.ErrPackageNotFound, strings.Join(unresolved, ", "))
	}

	var result []domain.Dependant
	for _, dep := range deps {
		installed, err := p.Mod(dep.Package.UUID)
		if err != nil || installed.Enabled {
			continue
		}
		result = append(result, domain.Dependant{Name: installed.FullName, UUID: installed.UUID})
	}

	return result, nil
}
