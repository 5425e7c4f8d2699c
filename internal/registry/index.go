// Package registry holds a read-only snapshot of the remote package
// listing and resolves mod identities and dependency strings against it.
package registry

import (
	"fmt"

	"github.com/google/uuid"

	"tmm/internal/domain"
)

// Index is an immutable snapshot of the package listing. Build a new Index
// on refresh and swap the reference; never mutate one in place. Profiles
// reference packages by id, so a stale index only affects resolution.
type Index struct {
	byUUID     map[uuid.UUID]*domain.Package
	byFullName map[string]*domain.Package
	ordered    []*domain.Package
}

// NewIndex builds an index over the given packages.
func NewIndex(packages []domain.Package) *Index {
	idx := &Index{
		byUUID:     make(map[uuid.UUID]*domain.Package, len(packages)),
		byFullName: make(map[string]*domain.Package, len(packages)),
		ordered:    make([]*domain.Package, 0, len(packages)),
	}
	for i := range packages {
		pkg := &packages[i]
		idx.byUUID[pkg.UUID] = pkg
		idx.byFullName[pkg.FullName()] = pkg
		idx.ordered = append(idx.ordered, pkg)
	}
	return idx
}

// Len returns the number of packages in the snapshot.
func (idx *Index) Len() int {
	return len(idx.ordered)
}

// Packages returns all packages in listing order.
func (idx *Index) Packages() []*domain.Package {
	return idx.ordered
}

// Package looks up a package by id.
func (idx *Index) Package(id uuid.UUID) (*domain.Package, error) {
	pkg, ok := idx.byUUID[id]
	if !ok {
		return nil, fmt.Errorf("%w: %s", domain.ErrPackageNotFound, id)
	}
	return pkg, nil
}

// Resolve resolves a mod identity to a borrowed view of package and
// version. Either id being absent from the snapshot (package or version
// removed upstream) fails with a not-found error.
func (idx *Index) Resolve(id domain.ModIdentity) (domain.BorrowedMod, error) {
	pkg, err := idx.Package(id.PackageUUID)
	if err != nil {
		return domain.BorrowedMod{}, err
	}

	ver := pkg.Version(id.VersionUUID)
	if ver == nil {
		return domain.BorrowedMod{}, fmt.Errorf("%w: %s of %s", domain.ErrVersionNotFound, id.VersionUUID, pkg.FullName())
	}

	return domain.BorrowedMod{Package: pkg, Version: ver}, nil
}

// FindByName looks up a package by owner and name. An empty version
// returns the latest version; otherwise the exact version number is
// required.
func (idx *Index) FindByName(owner, name, version string) (domain.BorrowedMod, error) {
	fullName := fmt.Sprintf("%s-%s", owner, name)
	pkg, ok := idx.byFullName[fullName]
	if !ok {
		return domain.BorrowedMod{}, fmt.Errorf("%w: %s", domain.ErrPackageNotFound, fullName)
	}

	var ver *domain.PackageVersion
	if version == "" {
		ver = pkg.Latest()
	} else {
		ver = pkg.VersionNumbered(version)
	}
	if ver == nil {
		return domain.BorrowedMod{}, fmt.Errorf("%w: %s-%s", domain.ErrVersionNotFound, fullName, version)
	}

	return domain.BorrowedMod{Package: pkg, Version: ver}, nil
}

// Dependencies resolves the direct dependencies of a version. Entries that
// fail to resolve (unknown package, no satisfying version, or a malformed
// string) are reported in unresolved instead of aborting; partial results
// remain usable.
func (idx *Index) Dependencies(ver *domain.PackageVersion) (resolved []domain.BorrowedMod, unresolved []string) {
	for _, dep := range ver.Dependencies {
		borrowed, err := idx.resolveDependency(dep)
		if err != nil {
			unresolved = append(unresolved, dep)
			continue
		}
		resolved = append(resolved, borrowed)
	}
	return resolved, unresolved
}

// DependenciesDeep resolves the transitive dependency closure of a
// version, deduplicated by package identity. Each package is appended
// only after its own dependencies, so the result is a topological order:
// every dependency appears before all of its dependents, even when
// several dependents share one transitive dependency.
func (idx *Index) DependenciesDeep(ver *domain.PackageVersion) (resolved []domain.BorrowedMod, unresolved []string) {
	seen := make(map[uuid.UUID]bool)

	var walk func(v *domain.PackageVersion)
	walk = func(v *domain.PackageVersion) {
		for _, dep := range v.Dependencies {
			borrowed, err := idx.resolveDependency(dep)
			if err != nil {
				unresolved = append(unresolved, dep)
				continue
			}
			if seen[borrowed.Package.UUID] {
				continue
			}
			seen[borrowed.Package.UUID] = true
			walk(borrowed.Version)
			resolved = append(resolved, borrowed)
		}
	}

	walk(ver)
	return resolved, unresolved
}

// resolveDependency resolves a single Owner-Name-Version dependency
// string. The encoded version is treated as a floor: the exact version is
// preferred when still listed, otherwise the latest version satisfies as
// long as it is not older than the floor.
func (idx *Index) resolveDependency(dep string) (domain.BorrowedMod, error) {
	ref, err := ParseDependencyString(dep)
	if err != nil {
		return domain.BorrowedMod{}, err
	}

	fullName := fmt.Sprintf("%s-%s", ref.Owner, ref.Name)
	pkg, ok := idx.byFullName[fullName]
	if !ok {
		return domain.BorrowedMod{}, fmt.Errorf("%w: %s", domain.ErrPackageNotFound, fullName)
	}

	if ver := pkg.VersionNumbered(ref.Version); ver != nil {
		return domain.BorrowedMod{Package: pkg, Version: ver}, nil
	}

	latest := pkg.Latest()
	if latest == nil {
		return domain.BorrowedMod{}, fmt.Errorf("%w: %s has no versions", domain.ErrVersionNotFound, fullName)
	}
	if latestVer, err := latest.SemVer(); err == nil {
		if floor, err := semverParse(ref.Version); err == nil && latestVer.LessThan(floor) {
			return domain.BorrowedMod{}, fmt.Errorf("%w: %s-%s", domain.ErrVersionNotFound, fullName, ref.Version)
		}
	}

	return domain.BorrowedMod{Package: pkg, Version: latest}, nil
}
