package profile

import (
	"fmt"

	"gopkg.in/yaml.v3"

	"tmm/internal/registry"
)

// ExportedProfile is the portable YAML format for sharing a profile. Only
// registry-backed mods are included; local mods have no stable identity
// to share.
type ExportedProfile struct {
	ProfileName string        `yaml:"profileName"`
	Mods        []ExportedMod `yaml:"mods"`
}

// ExportedMod pins one mod of an exported profile.
type ExportedMod struct {
	Name    string `yaml:"name"` // Owner-Name
	Version string `yaml:"version"`
	Enabled bool   `yaml:"enabled"`
}

// Export serializes the profile's registry-backed mods for sharing.
func (p *Profile) Export(idx *registry.Index) ([]byte, error) {
	exported := ExportedProfile{ProfileName: p.Name}

	for _, mod := range p.Mods {
		if mod.IsLocal() {
			continue
		}
		borrowed, err := idx.Resolve(*mod.Remote)
		if err != nil {
			return nil, fmt.Errorf("resolving %s: %w", mod.FullName, err)
		}
		exported.Mods = append(exported.Mods, ExportedMod{
			Name:    mod.FullName,
			Version: borrowed.Version.VersionNumber,
			Enabled: mod.Enabled,
		})
	}

	data, err := yaml.Marshal(&exported)
	if err != nil {
		return nil, fmt.Errorf("marshaling profile: %w", err)
	}
	return data, nil
}

// ImportProfile parses a previously exported profile.
func ImportProfile(data []byte) (ExportedProfile, error) {
	var exported ExportedProfile
	if err := yaml.Unmarshal(data, &exported); err != nil {
		return ExportedProfile{}, fmt.Errorf("parsing exported profile: %w", err)
	}
	return exported, nil
}
