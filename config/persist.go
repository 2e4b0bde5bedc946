package config

import (
	"bytes"
	"encoding/json"
	"os"

	"github.com/BurntSushi/toml"
	gotoml "github.com/pelletier/go-toml/v2"
	"gopkg.in/yaml.v3"

	"github.com/bitcoindevkit/bdk-ffi-bindgen/errors"
)

const fileHeader = "# bdk-ffi-bindgen configuration\n"

// Marshal renders cfg as toml, json or yaml
func Marshal(cfg *Config, format string) ([]byte, error) {
	switch format {
	case "toml", "":
		data, err := gotoml.Marshal(cfg)
		if err != nil {
			return nil, errors.Wrap(err, "failed to marshal config to TOML")
		}
		return append([]byte(fileHeader), data...), nil

	case "json":
		data, err := json.MarshalIndent(cfg, "", "  ")
		if err != nil {
			return nil, errors.Wrap(err, "failed to marshal config to JSON")
		}
		return append(data, '\n'), nil

	case "yaml":
		data, err := yaml.Marshal(cfg)
		if err != nil {
			return nil, errors.Wrap(err, "failed to marshal config to YAML")
		}
		return append([]byte(fileHeader), data...), nil

	default:
		return nil, errors.Newf("unsupported format: %s (supported: toml, json, yaml)", format)
	}
}

// Defaults returns the configuration SetDefaults produces
func Defaults() *Config {
	return &Config{
		UDLFile: DefaultUDLFile,
		Generator: GeneratorConfig{
			Command: DefaultGeneratorCommand,
		},
		Log: LogConfig{
			Theme: DefaultLogTheme,
		},
		Watch: WatchConfig{
			DebounceMS: DefaultWatchDebounceMS,
		},
	}
}

// WriteFile writes cfg to path as TOML. An existing file is never
// overwritten.
func WriteFile(path string, cfg *Config) error {
	var buf bytes.Buffer
	buf.WriteString(fileHeader)
	buf.WriteString("# Environment variables (BDKFFI_BINDGEN_*) and flags override these values.\n\n")

	if err := toml.NewEncoder(&buf).Encode(cfg); err != nil {
		return errors.Wrap(err, "failed to encode config")
	}

	f, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0644)
	if err != nil {
		if errors.Is(err, os.ErrExist) {
			return errors.WithHint(errors.Wrapf(err, "refusing to overwrite %s", path),
				"remove the file first or pick another path")
		}
		return errors.Wrapf(err, "failed to create %s", path)
	}

	if _, err := f.Write(buf.Bytes()); err != nil {
		f.Close()
		return errors.Wrapf(err, "failed to write %s", path)
	}
	return errors.Wrapf(f.Close(), "failed to close %s", path)
}
