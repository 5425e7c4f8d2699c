package core

import (
	"fmt"
	"strings"

	"github.com/google/uuid"

	"tmm/internal/domain"
	"tmm/internal/profile"
	"tmm/internal/registry"
	"tmm/internal/storage/cache"
)

// Step is one entry of an install plan: a resolved mod, the enabled state
// it should end up in, and optional replacement bookkeeping for updates.
type Step struct {
	Mod     domain.BorrowedMod
	Enabled bool
	// Replaces names the installed package entry removed before this step
	// installs, preserving its list position (updates only).
	Replaces *uuid.UUID
}

// Plan is an ordered, deduplicated worklist of mods to install, with
// dependencies preceding dependents.
type Plan struct {
	Steps []Step
}

// IsEmpty reports whether the plan has no work.
func (p Plan) IsEmpty() bool {
	return len(p.Steps) == 0
}

// PlanInstall computes the full ordered worklist for installing the
// requested mods: the requests plus every missing dependency,
// deduplicated by package identity and ordered so dependencies install
// before their dependents. Any dependency string that fails to resolve
// aborts planning; no partial plan is returned.
func PlanInstall(prof *profile.Profile, idx *registry.Index, requested []domain.ModIdentity, allowDuplicates bool) (Plan, error) {
	if !allowDuplicates && len(requested) == 1 && prof.HasMod(requested[0].PackageUUID) {
		return Plan{}, fmt.Errorf("%w: %s", domain.ErrAlreadyInstalled, requested[0].PackageUUID)
	}

	var raw []domain.BorrowedMod
	for _, id := range requested {
		borrowed, err := idx.Resolve(id)
		if err != nil {
			return Plan{}, err
		}

		deps, unresolved := idx.DependenciesDeep(borrowed.Version)
		if len(unresolved) > 0 {
			return Plan{}, fmt.Errorf("resolving dependencies of %s: %w: %s",
				borrowed.Version.FullName, domain.ErrPackageNotFound, strings.Join(unresolved, ", "))
		}
		for _, dep := range deps {
			if prof.HasMod(dep.Package.UUID) {
				continue
			}
			raw = append(raw, dep)
		}
		raw = append(raw, borrowed)
	}

	// Each closure arrives in topological order with the requested mod
	// after its dependencies. Deduplicate keeping the first occurrence,
	// which keeps a shared dependency ahead of every dependent even
	// across multiple requested mods.
	seen := make(map[uuid.UUID]bool)
	var plan Plan
	for _, mod := range raw {
		if seen[mod.Package.UUID] {
			continue
		}
		seen[mod.Package.UUID] = true
		plan.Steps = append(plan.Steps, Step{Mod: mod, Enabled: true})
	}

	return plan, nil
}

// PlanUpdate computes the worklist for updating the given installed mods
// to their latest versions. Mods already at or beyond the latest version
// and, when respectIgnored is set, versions in the profile's
// ignored-updates set are skipped silently; a local (non-registry) mod is
// a distinct error.
func PlanUpdate(prof *profile.Profile, idx *registry.Index, uuids []uuid.UUID, respectIgnored bool) (Plan, error) {
	var plan Plan

	for _, id := range uuids {
		mod, err := prof.Mod(id)
		if err != nil {
			return Plan{}, err
		}
		if mod.IsLocal() {
			return Plan{}, fmt.Errorf("%w: cannot update %s", domain.ErrLocalMod, mod.FullName)
		}

		installed, err := idx.Resolve(*mod.Remote)
		if err != nil {
			return Plan{}, fmt.Errorf("resolving %s: %w", mod.FullName, err)
		}

		latest := installed.Package.Latest()
		if latest == nil || latest.UUID == installed.Version.UUID {
			continue
		}
		if respectIgnored && prof.IsUpdateIgnored(latest.UUID) {
			continue
		}

		installedVer, installedErr := installed.Version.SemVer()
		latestVer, latestErr := latest.SemVer()
		if installedErr == nil && latestErr == nil && !installedVer.LessThan(latestVer) {
			continue
		}

		replaces := mod.UUID
		plan.Steps = append(plan.Steps, Step{
			Mod:      domain.BorrowedMod{Package: installed.Package, Version: latest},
			Enabled:  mod.Enabled,
			Replaces: &replaces,
		})
	}

	return plan, nil
}

// DownloadSize estimates the bytes to download for a plan by summing the
// file sizes of steps not already cached. Progress reporting only, never
// correctness.
func DownloadSize(plan Plan, c *cache.Cache) int64 {
	var total int64
	for _, step := range plan.Steps {
		if c.Exists(step.Mod.Package.FullName(), step.Mod.Version.VersionNumber) {
			continue
		}
		total += step.Mod.Version.FileSize
	}
	return total
}
