package core

import (
	"fmt"

	"github.com/google/uuid"

	"tmm/internal/domain"
	"tmm/internal/profile"
	"tmm/internal/registry"
)

// AvailableUpdate describes a newer published version for an installed
// mod.
type AvailableUpdate struct {
	Mod       domain.ProfileMod
	Package   *domain.Package
	Installed *domain.PackageVersion
	Latest    *domain.PackageVersion
	Ignored   bool
}

// AvailableUpdates scans the profile for remote mods whose latest
// published version is newer than the installed one. Local mods are
// skipped. With respectIgnored set, versions the user dismissed are
// filtered out; otherwise they are reported with Ignored set so callers
// can surface them anyway.
func AvailableUpdates(prof *profile.Profile, idx *registry.Index, respectIgnored bool) ([]AvailableUpdate, error) {
	var updates []AvailableUpdate

	for _, mod := range prof.Mods {
		if mod.IsLocal() {
			continue
		}

		borrowed, err := idx.Resolve(*mod.Remote)
		if err != nil {
			return nil, fmt.Errorf("resolving %s: %w", mod.FullName, err)
		}
		pkg, installed := borrowed.Package, borrowed.Version

		latest := pkg.Latest()
		if latest == nil || latest.UUID == installed.UUID {
			continue
		}

		latestVer, err := latest.SemVer()
		if err != nil {
			continue
		}
		installedVer, err := installed.SemVer()
		if err != nil {
			continue
		}
		if !installedVer.LessThan(latestVer) {
			continue
		}

		ignored := prof.IsUpdateIgnored(latest.UUID)
		if ignored && respectIgnored {
			continue
		}

		updates = append(updates, AvailableUpdate{
			Mod:       mod,
			Package:   pkg,
			Installed: installed,
			Latest:    latest,
			Ignored:   ignored,
		})
	}

	return updates, nil
}

// UpdateTargets lists the package UUIDs of every remote mod in the
// profile, the input for a profile-wide update plan.
func UpdateTargets(prof *profile.Profile) []uuid.UUID {
	var targets []uuid.UUID
	for _, mod := range prof.Mods {
		if mod.IsLocal() {
			continue
		}
		targets = append(targets, mod.Remote.PackageUUID)
	}
	return targets
}
