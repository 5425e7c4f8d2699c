// Package loader defines the supported mod loaders and their directory
// layout rules. The loader set is small and fixed per release, so this is
// a closed enumeration with static rule tables rather than open dispatch.
package loader

import (
	"fmt"
	"path"
	"path/filepath"
	"strings"
)

// Mode describes how files of a subdir category are placed into a profile.
type Mode int

const (
	// ModeTrack places files directly under the subdir with no per-mod
	// folder. The loader scans the directory flat; file ownership is not
	// recorded, so uninstall never bulk-deletes here.
	ModeTrack Mode = iota
	// ModeSeparate places files under subdir/<mod-full-name>/.
	ModeSeparate
	// ModeSeparateFlatten is ModeSeparate with one level of source
	// nesting stripped before copying.
	ModeSeparateFlatten
	// ModeUntracked copies files but never deletes or diffs them;
	// used for config-like directories the user edits.
	ModeUntracked
)

// Subdir is one named directory category of a loader's layout.
type Subdir struct {
	Name      string // name matched against archive entries
	Target    string // slash-separated path under the profile root
	Mode      Mode
	Extension string // optional: file extension routed here, e.g. ".mm.dll"
	Mutable   bool   // user-editable; only meaningful with ModeUntracked
}

// Kind identifies a supported mod loader.
type Kind int

const (
	BepInEx Kind = iota
	MelonLoader
	GDWeave
	Shimloader
)

func (k Kind) String() string {
	switch k {
	case BepInEx:
		return "BepInEx"
	case MelonLoader:
		return "MelonLoader"
	case GDWeave:
		return "GDWeave"
	case Shimloader:
		return "Shimloader"
	default:
		return "unknown"
	}
}

// ParseKind converts a string to a loader Kind.
func ParseKind(s string) (Kind, error) {
	switch strings.ToLower(s) {
	case "bepinex":
		return BepInEx, nil
	case "melonloader":
		return MelonLoader, nil
	case "gdweave":
		return GDWeave, nil
	case "shimloader":
		return Shimloader, nil
	default:
		return 0, fmt.Errorf("unknown mod loader: %q", s)
	}
}

var bepInExSubdirs = []Subdir{
	{Name: "plugins", Target: "BepInEx/plugins", Mode: ModeSeparateFlatten},
	{Name: "patchers", Target: "BepInEx/patchers", Mode: ModeSeparateFlatten},
	{Name: "monomod", Target: "BepInEx/monomod", Mode: ModeSeparateFlatten, Extension: ".mm.dll"},
	{Name: "core", Target: "BepInEx/core", Mode: ModeSeparateFlatten},
	{Name: "config", Target: "BepInEx/config", Mode: ModeUntracked, Mutable: true},
}

var melonLoaderSubdirs = []Subdir{
	{Name: "UserLibs", Target: "UserLibs", Mode: ModeTrack, Extension: ".lib.dll"},
	{Name: "Managed", Target: "MelonLoader/Managed", Mode: ModeTrack, Extension: ".managed.dll"},
	{Name: "Mods", Target: "Mods", Mode: ModeTrack, Extension: ".dll"},
	{Name: "ModManager", Target: "UserData/ModManager", Mode: ModeSeparate},
	{Name: "MelonLoader", Target: "MelonLoader", Mode: ModeTrack},
	{Name: "Libs", Target: "MelonLoader/Libs", Mode: ModeTrack},
}

var gdWeaveSubdirs = []Subdir{
	{Name: "mods", Target: "GDWeave/mods", Mode: ModeSeparate},
	{Name: "configs", Target: "GDWeave/configs", Mode: ModeUntracked, Mutable: true},
}

var shimloaderSubdirs = []Subdir{
	{Name: "mod", Target: "shimloader/mod", Mode: ModeSeparate},
	{Name: "pak", Target: "shimloader/pak", Mode: ModeSeparate},
	{Name: "cfg", Target: "shimloader/cfg", Mode: ModeUntracked, Mutable: true},
}

// Subdirs returns the loader's subdir rule table.
func (k Kind) Subdirs() []Subdir {
	switch k {
	case MelonLoader:
		return melonLoaderSubdirs
	case GDWeave:
		return gdWeaveSubdirs
	case Shimloader:
		return shimloaderSubdirs
	default:
		return bepInExSubdirs
	}
}

// DefaultSubdir is the catch-all for archive entries not matched by a
// more specific rule.
func (k Kind) DefaultSubdir() Subdir {
	switch k {
	case MelonLoader:
		return melonLoaderSubdirs[2] // Mods
	case GDWeave:
		return gdWeaveSubdirs[0] // mods
	case Shimloader:
		return shimloaderSubdirs[0] // mod
	default:
		return bepInExSubdirs[0] // plugins
	}
}

// IgnoredFiles lists file names never copied into a profile.
func (k Kind) IgnoredFiles() []string {
	return []string{"manifest.json", "icon.png", "README.md", "CHANGELOG.md", "LICENSE"}
}

// IsLoaderPackage reports whether the package is the loader's own
// distribution, which installs at the profile root instead of through the
// subdir rules.
func (k Kind) IsLoaderPackage(fullName string) bool {
	switch k {
	case BepInEx:
		return strings.HasPrefix(fullName, "BepInEx-BepInExPack")
	case MelonLoader:
		return fullName == "LavaGang-MelonLoader"
	case GDWeave:
		return strings.HasPrefix(fullName, "NotNet-GDWeave")
	case Shimloader:
		return strings.HasPrefix(fullName, "Thunderstore-unreal_shimloader")
	default:
		return false
	}
}

// MatchSubdir finds the subdir rule for an archive entry by directory
// name, falling back to extension matching for unnested files.
func (k Kind) MatchSubdir(entryName string) (Subdir, bool) {
	for _, sub := range k.Subdirs() {
		if strings.EqualFold(sub.Name, entryName) {
			return sub, true
		}
	}
	for _, sub := range k.Subdirs() {
		if sub.Extension != "" && strings.HasSuffix(strings.ToLower(entryName), sub.Extension) {
			return sub, true
		}
	}
	return Subdir{}, false
}

// NormalizeDirs lists wrapper directory names flattened one level after
// extraction, so cache entries always have a canonical top-level layout.
func (k Kind) NormalizeDirs() []string {
	switch k {
	case MelonLoader:
		return []string{"MelonLoader"}
	case GDWeave:
		return []string{"GDWeave"}
	case Shimloader:
		return []string{"shimloader"}
	default:
		return []string{"BepInExPack", "BepInEx", "plugins"}
	}
}

// LogPath is the loader's log file path relative to the profile root.
func (k Kind) LogPath() string {
	switch k {
	case MelonLoader:
		return path.Join("MelonLoader", "Latest.log")
	case GDWeave:
		return path.Join("GDWeave", "GDWeave.log")
	case Shimloader:
		return path.Join("shimloader", "shimloader.log")
	default:
		return path.Join("BepInEx", "LogOutput.log")
	}
}

// LaunchArgs builds the extra game launch arguments that redirect the
// loader to a profile directory, so multiple profiles can share one game
// install.
func (k Kind) LaunchArgs(profilePath string) []string {
	switch k {
	case MelonLoader:
		return []string{"--melonloader.basedir", profilePath}
	case GDWeave:
		return []string{"--gdweave-folder-override=" + filepath.Join(profilePath, "GDWeave")}
	case Shimloader:
		return []string{
			"--mod-dir", filepath.Join(profilePath, "shimloader", "mod"),
			"--pak-dir", filepath.Join(profilePath, "shimloader", "pak"),
			"--cfg-dir", filepath.Join(profilePath, "shimloader", "cfg"),
		}
	default:
		return []string{
			"--doorstop-enable", "true",
			"--doorstop-target", filepath.Join(profilePath, "BepInEx", "core", "BepInEx.Preloader.dll"),
		}
	}
}
