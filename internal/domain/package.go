package domain

import (
	"fmt"

	"github.com/Masterminds/semver/v3"
	"github.com/google/uuid"
)

// Package is a distributable mod on the registry, identified by owner+name.
// Versions are ordered newest first, as the registry serves them.
type Package struct {
	Owner        string    `json:"owner"`
	Name         string    `json:"name"`
	UUID         uuid.UUID `json:"uuid"`
	Categories   []string  `json:"categories,omitempty"`
	IsDeprecated bool      `json:"isDeprecated,omitempty"`
	IsPinned     bool      `json:"isPinned,omitempty"`
	Versions     []PackageVersion
}

// PackageVersion is one installable artifact of a package.
type PackageVersion struct {
	UUID          uuid.UUID `json:"uuid"`
	VersionNumber string    `json:"versionNumber"`
	FullName      string    `json:"fullName"` // Owner-Name-1.2.3
	Dependencies  []string  `json:"dependencies,omitempty"`
	DownloadURL   string    `json:"downloadUrl"`
	FileSize      int64     `json:"fileSize"`
	Description   string    `json:"description,omitempty"`
	WebsiteURL    string    `json:"websiteUrl,omitempty"`
}

// FullName returns the package identity string, e.g. "BepInEx-BepInExPack".
func (p *Package) FullName() string {
	return fmt.Sprintf("%s-%s", p.Owner, p.Name)
}

// IsModpack reports whether the package is categorized as a modpack.
// Modpacks are excluded from dependant checks: removing a mod a modpack
// pulled in should not require confirmation against the pack itself.
func (p *Package) IsModpack() bool {
	for _, c := range p.Categories {
		if c == "Modpacks" {
			return true
		}
	}
	return false
}

// Latest returns the newest version of the package by semantic version.
// Falls back to the first listed version when numbers fail to parse.
func (p *Package) Latest() *PackageVersion {
	if len(p.Versions) == 0 {
		return nil
	}
	latest := &p.Versions[0]
	latestVer, err := latest.SemVer()
	if err != nil {
		return latest
	}
	for i := 1; i < len(p.Versions); i++ {
		v, err := p.Versions[i].SemVer()
		if err != nil {
			continue
		}
		if v.GreaterThan(latestVer) {
			latest = &p.Versions[i]
			latestVer = v
		}
	}
	return latest
}

// Version looks up a version of the package by its id.
func (p *Package) Version(id uuid.UUID) *PackageVersion {
	for i := range p.Versions {
		if p.Versions[i].UUID == id {
			return &p.Versions[i]
		}
	}
	return nil
}

// VersionNumbered looks up a version of the package by version number.
func (p *Package) VersionNumbered(number string) *PackageVersion {
	for i := range p.Versions {
		if p.Versions[i].VersionNumber == number {
			return &p.Versions[i]
		}
	}
	return nil
}

// SemVer parses the version number as a semantic version.
func (v *PackageVersion) SemVer() (*semver.Version, error) {
	parsed, err := semver.NewVersion(v.VersionNumber)
	if err != nil {
		return nil, fmt.Errorf("parsing version %q: %w", v.VersionNumber, err)
	}
	return parsed, nil
}

// BorrowedMod is a resolved view of one installable artifact: references
// into the registry index, never owned copies. The index is refreshed
// independently of profiles, so profiles store ModIdentity ids instead.
type BorrowedMod struct {
	Package *Package
	Version *PackageVersion
}

// Identity returns the (package id, version id) pair for the borrowed mod.
func (m BorrowedMod) Identity() ModIdentity {
	return ModIdentity{
		PackageUUID: m.Package.UUID,
		VersionUUID: m.Version.UUID,
	}
}

// ModIdentity uniquely identifies one installable artifact.
type ModIdentity struct {
	PackageUUID uuid.UUID `json:"packageUuid"`
	VersionUUID uuid.UUID `json:"versionUuid"`
}
