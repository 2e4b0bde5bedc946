package config

import (
	"os"
	"path/filepath"

	"github.com/spf13/viper"

	"github.com/bitcoindevkit/bdk-ffi-bindgen/errors"
)

// NewViper returns a Viper instance with defaults and environment bindings.
// Callers bind command line flags on it before calling Load.
func NewViper() *viper.Viper {
	v := viper.New()
	BindEnvVars(v)

	SetDefaults(v)
	return v
}

// Load reads the config file (explicit path, or bindgen.toml found by
// searching upwards) into v and unmarshals the result. A missing project
// file is fine; a missing explicit file is an error.
func Load(v *viper.Viper, configPath string) (*Config, string, error) {
	path := configPath
	if path == "" {
		path = FindProjectConfig()
	}

	if path != "" {
		v.SetConfigFile(path)
		v.SetConfigType("toml")
		if err := v.ReadInConfig(); err != nil {
			return nil, "", errors.Wrapf(err, "failed to read config file %s", path)
		}
	}

	cfg, err := LoadWithViper(v)
	if err != nil {
		return nil, "", err
	}
	return cfg, path, nil
}

// LoadWithViper unmarshals v without touching any file
func LoadWithViper(v *viper.Viper) (*Config, error) {
	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, errors.Wrap(err, "failed to unmarshal config")
	}
	return &cfg, nil
}

// FindProjectConfig searches for bindgen.toml by walking up the directory
// tree from the working directory. Returns "" when none is found.
func FindProjectConfig() string {
	dir, err := os.Getwd()
	if err != nil {
		return ""
	}
	return findConfigFrom(dir)
}

func findConfigFrom(dir string) string {
	for {
		candidate := filepath.Join(dir, FileName)
		if info, err := os.Stat(candidate); err == nil && !info.IsDir() {
			return candidate
		}

		parent := filepath.Dir(dir)
		if parent == dir {
			return ""
		}
		dir = parent
	}
}
