// Package config loads bdk-ffi-bindgen settings.
//
// Sources, lowest to highest precedence:
//  1. Built-in defaults (SetDefaults)
//  2. Project config: bindgen.toml, found by walking up from the working
//     directory, or the file given with --config
//  3. Environment variables (BDKFFI_BINDGEN_*)
//  4. Command line flags
package config

// Config is the resolved configuration for one invocation.
type Config struct {
	// UDLFile is the interface definition handed to the generator.
	UDLFile string `mapstructure:"udl_file" toml:"udl_file" json:"udl_file" yaml:"udl_file"`

	// Language is the binding target as typed by the operator; Validate
	// parses it.
	Language string `mapstructure:"language" toml:"language" json:"language" yaml:"language"`

	// OutDir receives the generated bindings.
	OutDir string `mapstructure:"out_dir" toml:"out_dir" json:"out_dir" yaml:"out_dir"`

	// PythonFixupPath is the native library base name used to patch the
	// Python loader (e.g. "bdkffi"). Empty leaves the loader as generated.
	PythonFixupPath string `mapstructure:"python_fixup_path" toml:"python_fixup_path" json:"python_fixup_path" yaml:"python_fixup_path"`

	Generator GeneratorConfig `mapstructure:"generator" toml:"generator" json:"generator" yaml:"generator"`
	Log       LogConfig       `mapstructure:"log" toml:"log" json:"log" yaml:"log"`
	Watch     WatchConfig     `mapstructure:"watch" toml:"watch" json:"watch" yaml:"watch"`
}

// GeneratorConfig configures the external uniffi-bindgen invocation
type GeneratorConfig struct {
	// Command is a shell-style command line, e.g. "cargo run --bin uniffi-bindgen --"
	Command string `mapstructure:"command" toml:"command" json:"command" yaml:"command"`

	// VersionConstraint is a semver constraint checked against
	// "<command> --version" before generating. Empty skips the check.
	VersionConstraint string `mapstructure:"version_constraint" toml:"version_constraint" json:"version_constraint" yaml:"version_constraint"`

	TimeoutSeconds int `mapstructure:"timeout_seconds" toml:"timeout_seconds" json:"timeout_seconds" yaml:"timeout_seconds"` // 0 = no timeout
}

// LogConfig configures log output
type LogConfig struct {
	JSON  bool   `mapstructure:"json" toml:"json" json:"json" yaml:"json"`
	Theme string `mapstructure:"theme" toml:"theme" json:"theme" yaml:"theme"` // everforest, gruvbox
}

// WatchConfig configures the watch command
type WatchConfig struct {
	DebounceMS int `mapstructure:"debounce_ms" toml:"debounce_ms" json:"debounce_ms" yaml:"debounce_ms"`
}

// FileName is the project config file looked up from the working directory.
const FileName = "bindgen.toml"

// EnvPrefix prefixes every environment variable the tool reads.
const EnvPrefix = "BDKFFI_BINDGEN"
