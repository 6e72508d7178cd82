package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
)

// Load reads the config at path (if any), loads the neighbouring .env,
// applies environment overrides, normalizes and validates. An empty path
// or a missing file yields the defaults.
func Load(path string) (Config, error) {
	var cfg Config
	envDir := "."
	if path != "" {
		envDir = filepath.Dir(path)
		data, err := os.ReadFile(path)
		switch {
		case err == nil:
			cfg, err = Parse(data)
			if err != nil {
				return Config{}, err
			}
		case errors.Is(err, fs.ErrNotExist):
		default:
			return Config{}, fmt.Errorf("read config: %w", err)
		}
	}
	if err := LoadDotEnv(filepath.Join(envDir, DotEnvFileName)); err != nil {
		return Config{}, err
	}
	if err := ApplyEnv(&cfg, os.LookupEnv); err != nil {
		return Config{}, err
	}
	Normalize(&cfg)
	if err := Validate(&cfg); err != nil {
		return Config{}, err
	}
	return cfg, nil
}
