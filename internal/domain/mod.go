package domain

import (
	"time"

	"github.com/google/uuid"
)

// ProfileMod is an installed entry in a profile's mod list. Exactly one of
// Remote or Local is set: Remote mods reference the registry by identity,
// Local mods were imported from disk and cannot be updated or resolved.
type ProfileMod struct {
	UUID        uuid.UUID    `json:"uuid"`
	FullName    string       `json:"fullName"` // Owner-Name, cached for file operations
	Remote      *ModIdentity `json:"remote,omitempty"`
	Local       *LocalMod    `json:"local,omitempty"`
	Enabled     bool         `json:"enabled"`
	InstalledAt time.Time    `json:"installedAt"`
}

// LocalMod describes a mod imported from a local archive rather than the
// registry.
type LocalMod struct {
	Name    string `json:"name"`
	Author  string `json:"author,omitempty"`
	Version string `json:"version,omitempty"`
}

// IsLocal reports whether the mod was installed from a local file.
func (m *ProfileMod) IsLocal() bool {
	return m.Local != nil
}

// NewRemoteMod creates a profile entry for a registry mod. The entry's uuid
// is the package uuid, keeping at most one entry per package identity.
func NewRemoteMod(id ModIdentity, fullName string, enabled bool) ProfileMod {
	return ProfileMod{
		UUID:        id.PackageUUID,
		FullName:    fullName,
		Remote:      &id,
		Enabled:     enabled,
		InstalledAt: time.Now(),
	}
}

// NewLocalMod creates a profile entry for a manually imported mod.
func NewLocalMod(local LocalMod, fullName string) ProfileMod {
	return ProfileMod{
		UUID:        uuid.New(),
		FullName:    fullName,
		Local:       &local,
		Enabled:     true,
		InstalledAt: time.Now(),
	}
}

// Dependant identifies a mod involved in a dependency relationship, for
// surfacing in confirmation prompts.
type Dependant struct {
	Name string    `json:"name"`
	UUID uuid.UUID `json:"uuid"`
}

// ActionResult is the outcome of a toggle or remove operation. When the
// operation needs explicit confirmation (dependants or disabled
// dependencies exist), Done is false and Dependants lists them; the caller
// re-invokes the forcing variant to proceed.
type ActionResult struct {
	Done       bool
	Dependants []Dependant
}

// DoneResult is the ActionResult for an operation that completed outright.
func DoneResult() ActionResult {
	return ActionResult{Done: true}
}

// ConfirmResult is the ActionResult for an operation that requires
// confirmation against the listed mods.
func ConfirmResult(dependants []Dependant) ActionResult {
	return ActionResult{Dependants: dependants}
}
