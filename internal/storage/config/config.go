// Package config loads and saves application preferences.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/adrg/xdg"
	"gopkg.in/yaml.v3"
)

const appDirName = "tmm"

// Prefs holds the user preferences consumed by the core: where profile
// and cache data live and which registry to talk to.
type Prefs struct {
	DataDir      string `yaml:"data_dir"`
	CacheDir     string `yaml:"cache_dir"`
	RegistryURL  string `yaml:"registry_url,omitempty"`
	SteamExePath string `yaml:"steam_exe_path,omitempty"`
}

// DefaultConfigDir returns the platform config directory for the app.
func DefaultConfigDir() string {
	return filepath.Join(xdg.ConfigHome, appDirName)
}

func defaults() *Prefs {
	return &Prefs{
		DataDir:  filepath.Join(xdg.DataHome, appDirName),
		CacheDir: filepath.Join(xdg.CacheHome, appDirName, "mods"),
	}
}

// Load reads preferences from configDir, falling back to platform
// defaults on first run.
func Load(configDir string) (*Prefs, error) {
	path := filepath.Join(configDir, "config.yaml")
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return defaults(), nil
		}
		return nil, fmt.Errorf("reading config: %w", err)
	}

	prefs := defaults()
	if err := yaml.Unmarshal(data, prefs); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}

	if prefs.DataDir == "" {
		prefs.DataDir = defaults().DataDir
	}
	if prefs.CacheDir == "" {
		prefs.CacheDir = defaults().CacheDir
	}

	return prefs, nil
}

// Save writes preferences to configDir.
func (p *Prefs) Save(configDir string) error {
	data, err := yaml.Marshal(p)
	if err != nil {
		return fmt.Errorf("marshaling config: %w", err)
	}

	if err := os.MkdirAll(configDir, 0755); err != nil {
		return fmt.Errorf("creating config dir: %w", err)
	}

	path := filepath.Join(configDir, "config.yaml")
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("writing config: %w", err)
	}

	return nil
}
