package domain_test

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"tmm/internal/domain"
)

func TestPackage_FullName(t *testing.T) {
	pkg := domain.Package{Owner: "BepInEx", Name: "BepInExPack"}
	assert.Equal(t, "BepInEx-BepInExPack", pkg.FullName())
}

func TestPackage_Latest_PicksHighestSemver(t *testing.T) {
	pkg := domain.Package{
		Owner: "Owner",
		Name:  "Mod",
		Versions: []domain.PackageVersion{
			{UUID: uuid.New(), VersionNumber: "1.2.0"},
			{UUID: uuid.New(), VersionNumber: "2.0.1"},
			{UUID: uuid.New(), VersionNumber: "1.10.3"},
		},
	}

	latest := pkg.Latest()
	require.NotNil(t, latest)
	assert.Equal(t, "2.0.1", latest.VersionNumber)
}

func TestPackage_Latest_FallsBackOnUnparsable(t *testing.T) {
	pkg := domain.Package{
		Versions: []domain.PackageVersion{
			{VersionNumber: "not-a-version"},
			{VersionNumber: "also bad"},
		},
	}

	latest := pkg.Latest()
	require.NotNil(t, latest)
	assert.Equal(t, "not-a-version", latest.VersionNumber)
}

func TestPackage_Latest_Empty(t *testing.T) {
	pkg := domain.Package{}
	assert.Nil(t, pkg.Latest())
}

func TestPackage_IsModpack(t *testing.T) {
	pack := domain.Package{Categories: []string{"Misc", "Modpacks"}}
	mod := domain.Package{Categories: []string{"Misc"}}

	assert.True(t, pack.IsModpack())
	assert.False(t, mod.IsModpack())
}

func TestPackage_VersionLookups(t *testing.T) {
	id := uuid.New()
	pkg := domain.Package{
		Versions: []domain.PackageVersion{
			{UUID: id, VersionNumber: "1.0.0"},
			{UUID: uuid.New(), VersionNumber: "0.9.0"},
		},
	}

	byID := pkg.Version(id)
	require.NotNil(t, byID)
	assert.Equal(t, "1.0.0", byID.VersionNumber)

	byNumber := pkg.VersionNumbered("0.9.0")
	require.NotNil(t, byNumber)

	assert.Nil(t, pkg.Version(uuid.New()))
	assert.Nil(t, pkg.VersionNumbered("3.0.0"))
}

func TestNewRemoteMod(t *testing.T) {
	id := domain.ModIdentity{PackageUUID: uuid.New(), VersionUUID: uuid.New()}

	mod := domain.NewRemoteMod(id, "Owner-Mod", true)

	assert.Equal(t, id.PackageUUID, mod.UUID)
	assert.Equal(t, "Owner-Mod", mod.FullName)
	assert.True(t, mod.Enabled)
	assert.False(t, mod.IsLocal())
	assert.False(t, mod.InstalledAt.IsZero())
}

func TestNewLocalMod(t *testing.T) {
	mod := domain.NewLocalMod(domain.LocalMod{Name: "Custom"}, "Custom")

	assert.True(t, mod.IsLocal())
	assert.True(t, mod.Enabled)
	assert.NotEqual(t, uuid.Nil, mod.UUID)
}
