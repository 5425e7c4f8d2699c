package core_test

import (
	"fmt"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"tmm/internal/core"
	"tmm/internal/domain"
	"tmm/internal/loader"
	"tmm/internal/profile"
	"tmm/internal/registry"
)

// world bundles a profile and an index for planner scenarios.
type world struct {
	prof *profile.Profile
	idx  *registry.Index
}

func newWorld(t *testing.T, packages ...domain.Package) *world {
	t.Helper()
	return &world{
		prof: profile.RestoreProfile("Default", t.TempDir(), loader.BepInEx, nil, nil, nil),
		idx:  registry.NewIndex(packages),
	}
}

func pkg(owner, name, version string, deps ...string) domain.Package {
	return domain.Package{
		Owner: owner,
		Name:  name,
		UUID:  uuid.New(),
		Versions: []domain.PackageVersion{{
			UUID:          uuid.New(),
			VersionNumber: version,
			FullName:      fmt.Sprintf("%s-%s-%s", owner, name, version),
			Dependencies:  deps,
		}},
	}
}

func (w *world) identity(t *testing.T, name string) domain.ModIdentity {
	t.Helper()
	borrowed, err := w.idx.FindByName("Owner", name, "")
	require.NoError(t, err)
	return borrowed.Identity()
}

func (w *world) markInstalled(t *testing.T, name string, enabled bool) uuid.UUID {
	t.Helper()
	borrowed, err := w.idx.FindByName("Owner", name, "")
	require.NoError(t, err)
	entry := domain.NewRemoteMod(borrowed.Identity(), borrowed.Package.FullName(), enabled)
	w.prof.Mods = append(w.prof.Mods, entry)
	return entry.UUID
}

func planNames(plan core.Plan) []string {
	names := make([]string, len(plan.Steps))
	for i, step := range plan.Steps {
		names[i] = step.Mod.Package.FullName()
	}
	return names
}

func TestPlanInstall_DependenciesBeforeDependents(t *testing.T) {
	w := newWorld(t,
		pkg("Owner", "Lib", "1.0.0"),
		pkg("Owner", "Mod", "1.0.0", "Owner-Lib-1.0.0"),
	)

	plan, err := core.PlanInstall(w.prof, w.idx, []domain.ModIdentity{w.identity(t, "Mod")}, false)
	require.NoError(t, err)

	assert.Equal(t, []string{"Owner-Lib", "Owner-Mod"}, planNames(plan))
	for _, step := range plan.Steps {
		assert.True(t, step.Enabled)
		assert.Nil(t, step.Replaces)
	}
}

func TestPlanInstall_SharedDependencyListedOnce(t *testing.T) {
	// A and B both depend on Lib; requesting both must list Lib once,
	// before either dependent.
	w := newWorld(t,
		pkg("Owner", "Lib", "1.0.0"),
		pkg("Owner", "A", "1.0.0", "Owner-Lib-1.0.0"),
		pkg("Owner", "B", "1.0.0", "Owner-Lib-1.0.0"),
	)

	plan, err := core.PlanInstall(w.prof, w.idx, []domain.ModIdentity{
		w.identity(t, "A"),
		w.identity(t, "B"),
	}, false)
	require.NoError(t, err)

	names := planNames(plan)
	require.Len(t, names, 3)
	assert.Less(t, indexOf(names, "Owner-Lib"), indexOf(names, "Owner-A"))
	assert.Less(t, indexOf(names, "Owner-Lib"), indexOf(names, "Owner-B"))
}

func indexOf(names []string, name string) int {
	for i, n := range names {
		if n == name {
			return i
		}
	}
	return -1
}

func TestPlanInstall_DiamondDependencyOrdered(t *testing.T) {
	// Top depends on Left and Right; both depend on Base. Base must be
	// planned before Left AND Right, not just before the branch it was
	// first discovered through.
	w := newWorld(t,
		pkg("Owner", "Base", "1.0.0"),
		pkg("Owner", "Left", "1.0.0", "Owner-Base-1.0.0"),
		pkg("Owner", "Right", "1.0.0", "Owner-Base-1.0.0"),
		pkg("Owner", "Top", "1.0.0", "Owner-Left-1.0.0", "Owner-Right-1.0.0"),
	)

	plan, err := core.PlanInstall(w.prof, w.idx, []domain.ModIdentity{w.identity(t, "Top")}, false)
	require.NoError(t, err)

	names := planNames(plan)
	require.Len(t, names, 4)
	for _, dependent := range []string{"Owner-Left", "Owner-Right", "Owner-Top"} {
		assert.Less(t, indexOf(names, "Owner-Base"), indexOf(names, dependent))
	}
	assert.Less(t, indexOf(names, "Owner-Left"), indexOf(names, "Owner-Top"))
	assert.Less(t, indexOf(names, "Owner-Right"), indexOf(names, "Owner-Top"))
}

func TestPlanInstall_TransitiveChainOrdered(t *testing.T) {
	w := newWorld(t,
		pkg("Owner", "C", "1.0.0"),
		pkg("Owner", "B", "1.0.0", "Owner-C-1.0.0"),
		pkg("Owner", "A", "1.0.0", "Owner-B-1.0.0"),
	)

	plan, err := core.PlanInstall(w.prof, w.idx, []domain.ModIdentity{w.identity(t, "A")}, false)
	require.NoError(t, err)
	assert.Equal(t, []string{"Owner-C", "Owner-B", "Owner-A"}, planNames(plan))
}

func TestPlanInstall_InstalledDependenciesSkipped(t *testing.T) {
	w := newWorld(t,
		pkg("Owner", "Lib", "1.0.0"),
		pkg("Owner", "Mod", "1.0.0", "Owner-Lib-1.0.0"),
	)
	w.markInstalled(t, "Lib", true)

	plan, err := core.PlanInstall(w.prof, w.idx, []domain.ModIdentity{w.identity(t, "Mod")}, false)
	require.NoError(t, err)
	assert.Equal(t, []string{"Owner-Mod"}, planNames(plan))
}

func TestPlanInstall_AlreadyInstalled(t *testing.T) {
	w := newWorld(t, pkg("Owner", "Mod", "1.0.0"))
	w.markInstalled(t, "Mod", true)

	_, err := core.PlanInstall(w.prof, w.idx, []domain.ModIdentity{w.identity(t, "Mod")}, false)
	assert.ErrorIs(t, err, domain.ErrAlreadyInstalled)

	// allowDuplicates bypasses the check.
	plan, err := core.PlanInstall(w.prof, w.idx, []domain.ModIdentity{w.identity(t, "Mod")}, true)
	require.NoError(t, err)
	assert.Len(t, plan.Steps, 1)
}

func TestPlanInstall_UnresolvableDependencyAborts(t *testing.T) {
	w := newWorld(t, pkg("Owner", "Mod", "1.0.0", "Ghost-Lib-1.0.0"))

	_, err := core.PlanInstall(w.prof, w.idx, []domain.ModIdentity{w.identity(t, "Mod")}, false)
	assert.ErrorIs(t, err, domain.ErrPackageNotFound)
}

func TestPlanUpdate_ReplacesWithLatest(t *testing.T) {
	mod := pkg("Owner", "Mod", "1.0.0")
	mod.Versions = append([]domain.PackageVersion{{
		UUID:          uuid.New(),
		VersionNumber: "2.0.0",
		FullName:      "Owner-Mod-2.0.0",
	}}, mod.Versions...)

	w := newWorld(t, mod)

	// Install the old version, disabled.
	entry := domain.NewRemoteMod(domain.ModIdentity{
		PackageUUID: mod.UUID,
		VersionUUID: mod.Versions[1].UUID,
	}, "Owner-Mod", false)
	w.prof.Mods = append(w.prof.Mods, entry)

	plan, err := core.PlanUpdate(w.prof, w.idx, []uuid.UUID{entry.UUID}, true)
	require.NoError(t, err)

	require.Len(t, plan.Steps, 1)
	step := plan.Steps[0]
	assert.Equal(t, "2.0.0", step.Mod.Version.VersionNumber)
	assert.False(t, step.Enabled, "update keeps the disabled state")
	require.NotNil(t, step.Replaces)
	assert.Equal(t, entry.UUID, *step.Replaces)
}

func TestPlanUpdate_UpToDateSkipped(t *testing.T) {
	w := newWorld(t, pkg("Owner", "Mod", "1.0.0"))
	id := w.markInstalled(t, "Mod", true)

	plan, err := core.PlanUpdate(w.prof, w.idx, []uuid.UUID{id}, true)
	require.NoError(t, err)
	assert.True(t, plan.IsEmpty())
}

func TestPlanUpdate_IgnoredVersionSkipped(t *testing.T) {
	mod := pkg("Owner", "Mod", "1.0.0")
	latest := domain.PackageVersion{UUID: uuid.New(), VersionNumber: "2.0.0", FullName: "Owner-Mod-2.0.0"}
	mod.Versions = append([]domain.PackageVersion{latest}, mod.Versions...)

	w := newWorld(t, mod)
	entry := domain.NewRemoteMod(domain.ModIdentity{
		PackageUUID: mod.UUID,
		VersionUUID: mod.Versions[1].UUID,
	}, "Owner-Mod", true)
	w.prof.Mods = append(w.prof.Mods, entry)
	w.prof.IgnoreUpdate(latest.UUID)

	plan, err := core.PlanUpdate(w.prof, w.idx, []uuid.UUID{entry.UUID}, true)
	require.NoError(t, err)
	assert.True(t, plan.IsEmpty())

	// Ignored versions still update when the caller opts in.
	plan, err = core.PlanUpdate(w.prof, w.idx, []uuid.UUID{entry.UUID}, false)
	require.NoError(t, err)
	assert.Len(t, plan.Steps, 1)
}

func TestPlanUpdate_LocalModFails(t *testing.T) {
	w := newWorld(t)
	entry := domain.NewLocalMod(domain.LocalMod{Name: "Custom"}, "Custom")
	w.prof.Mods = append(w.prof.Mods, entry)

	_, err := core.PlanUpdate(w.prof, w.idx, []uuid.UUID{entry.UUID}, true)
	assert.ErrorIs(t, err, domain.ErrLocalMod)
}
