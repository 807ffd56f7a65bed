package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"

	"polyprompt/model"
)

// LoadFile decodes only the settings file at path over the defaults, without
// the credential store or environment. Used when the file is rewritten.
func LoadFile(path string) (*Config, error) {
	cfg := DefaultConfig()
	if !FileExists(path) {
		return cfg, nil
	}
	if _, err := toml.DecodeFile(path, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse settings %s: %w", path, err)
	}
	return cfg, nil
}

// Save writes cfg to path with 0600 permissions (it may hold API keys).
func Save(cfg *Config, path string) error {
	if err := EnsureDir(filepath.Dir(path)); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	f, err := os.OpenFile(path, os.O_RDWR|os.O_CREATE|os.O_TRUNC, 0600)
	if err != nil {
		return fmt.Errorf("failed to create settings file: %w", err)
	}
	defer f.Close()

	if err := toml.NewEncoder(f).Encode(cfg); err != nil {
		return fmt.Errorf("failed to encode settings: %w", err)
	}
	return nil
}

// SetDefaultProvider rewrites default_provider in the settings file at path.
func SetDefaultProvider(path, name string) error {
	id, err := model.ParseIdentity(name)
	if err != nil {
		return err
	}

	cfg, err := LoadFile(path)
	if err != nil {
		return err
	}
	cfg.DefaultProvider = string(id)
	return Save(cfg, path)
}

// WriteConfigTemplate writes the commented default settings file to path.
// An existing file is only replaced when force is set.
func WriteConfigTemplate(path string, force bool) error {
	if FileExists(path) && !force {
		return fmt.Errorf("settings file already exists: %s", path)
	}
	if err := EnsureDir(filepath.Dir(path)); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}
	if err := os.WriteFile(path, []byte(GenerateConfigTemplate()), 0600); err != nil {
		return fmt.Errorf("failed to write settings file: %w", err)
	}
	return nil
}
