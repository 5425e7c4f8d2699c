package registry_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"tmm/internal/domain"
	"tmm/internal/registry"
)

func TestParseDependencyString(t *testing.T) {
	ref, err := registry.ParseDependencyString("BepInEx-BepInExPack-5.4.2100")
	require.NoError(t, err)

	assert.Equal(t, "BepInEx", ref.Owner)
	assert.Equal(t, "BepInExPack", ref.Name)
	assert.Equal(t, "5.4.2100", ref.Version)
}

func TestParseDependencyString_OwnerWithDashes(t *testing.T) {
	ref, err := registry.ParseDependencyString("some-team-name-CoolMod-1.0.0")
	require.NoError(t, err)

	assert.Equal(t, "some-team-name", ref.Owner)
	assert.Equal(t, "CoolMod", ref.Name)
	assert.Equal(t, "1.0.0", ref.Version)
}

func TestParseDependencyString_Malformed(t *testing.T) {
	cases := []string{
		"",
		"NoDashes",
		"Only-One",
		"Owner-Name-notaversion",
		"-Name-1.0.0",
		"Owner--1.0.0",
	}

	for _, input := range cases {
		_, err := registry.ParseDependencyString(input)
		assert.ErrorIs(t, err, domain.ErrMalformedDependency, "input %q", input)
	}
}
