package core_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"tmm/internal/core"
	"tmm/internal/domain"
)

func TestParseDeepLink(t *testing.T) {
	link, err := core.ParseDeepLink("tmm://v1/install/thunderstore.io/Owner/SomeMod/1.2.3")
	require.NoError(t, err)

	assert.Equal(t, "thunderstore.io", link.Host)
	assert.Equal(t, "Owner", link.Owner)
	assert.Equal(t, "SomeMod", link.Name)
	assert.Equal(t, "1.2.3", link.Version)
}

func TestParseDeepLink_Malformed(t *testing.T) {
	cases := []struct {
		name string
		raw  string
	}{
		{"wrong scheme", "https://v1/install/host/Owner/Mod/1.0.0"},
		{"unknown version", "tmm://v2/install/host/Owner/Mod/1.0.0"},
		{"not install", "tmm://v1/remove/host/Owner/Mod/1.0.0"},
		{"too few parts", "tmm://v1/install/host/Owner/Mod"},
		{"too many parts", "tmm://v1/install/host/Owner/Mod/1.0.0/extra"},
		{"empty owner", "tmm://v1/install/host//Mod/1.0.0"},
		{"empty string", ""},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := core.ParseDeepLink(tc.raw)
			assert.ErrorIs(t, err, domain.ErrMalformedLink)
		})
	}
}
