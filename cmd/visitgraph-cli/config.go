package main

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// profileConfig holds connection settings for a single profile.
type profileConfig struct {
	URL string `yaml:"url"`
}

// configFile is the ~/.visitgraph/config.yaml structure.
type configFile struct {
	// Flat format, used when no profiles are defined.
	URL           string                   `yaml:"url,omitempty"`
	Profiles      map[string]profileConfig `yaml:"profiles,omitempty"`
	ActiveProfile string                   `yaml:"active_profile,omitempty"`
}

// profile returns the named profile, the active one when name is empty, or
// the flat settings when the file has no profiles.
func (c *configFile) profile(name string) (profileConfig, bool) {
	if c == nil {
		return profileConfig{}, false
	}
	if len(c.Profiles) == 0 {
		return profileConfig{URL: c.URL}, c.URL != ""
	}
	if name == "" {
		name = c.ActiveProfile
	}
	if name == "" {
		name = "default"
	}
	p, ok := c.Profiles[name]

	return p, ok
}

func configPath() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}

	return filepath.Join(home, ".visitgraph", "config.yaml"), nil
}

func loadConfig() (string, *configFile, error) {
	path, err := configPath()
	if err != nil {
		return "", nil, err
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return path, nil, err
	}

	var cfg configFile
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return path, nil, fmt.Errorf("parse %s: %w", path, err)
	}

	return path, &cfg, nil
}

// saveProfile stores url under profile, making it active, and keeps any
// other profiles already in the file.
func saveProfile(profile, url string) (string, error) {
	path, cfg, err := loadConfig()
	if err != nil && !os.IsNotExist(err) {
		return "", err
	}
	if path == "" {
		return "", fmt.Errorf("locating config: %w", err)
	}
	if cfg == nil {
		cfg = &configFile{}
	}
	if cfg.Profiles == nil {
		cfg.Profiles = make(map[string]profileConfig)
		if cfg.URL != "" {
			cfg.Profiles["default"] = profileConfig{URL: cfg.URL}
			cfg.URL = ""
		}
	}
	if profile == "" {
		profile = "default"
	}
	cfg.Profiles[profile] = profileConfig{URL: url}
	cfg.ActiveProfile = profile

	if err := os.MkdirAll(filepath.Dir(path), 0o700); err != nil {
		return "", err
	}

	data, err := yaml.Marshal(cfg)
	if err != nil {
		return "", err
	}

	return path, os.WriteFile(path, data, 0o600)
}
