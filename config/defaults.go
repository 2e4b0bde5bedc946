package config

import (
	"github.com/spf13/viper"
)

// Default values
const (
	DefaultUDLFile          = "src/bdk.udl"
	DefaultGeneratorCommand = "uniffi-bindgen"
	DefaultLogTheme         = "everforest"
	DefaultWatchDebounceMS  = 500
)

// SetDefaults configures default values for all configuration options.
// Every key gets a default so that environment variables are seen by
// Unmarshal.
func SetDefaults(v *viper.Viper) {
	v.SetDefault("udl_file", DefaultUDLFile)
	v.SetDefault("language", "")
	v.SetDefault("out_dir", "")
	v.SetDefault("python_fixup_path", "")

	v.SetDefault("generator.command", DefaultGeneratorCommand)
	v.SetDefault("generator.version_constraint", "")
	v.SetDefault("generator.timeout_seconds", 0)

	v.SetDefault("log.json", false)
	v.SetDefault("log.theme", DefaultLogTheme)

	v.SetDefault("watch.debounce_ms", DefaultWatchDebounceMS)
}

// envNames maps config keys to their environment variables. Every key is
// bound explicitly: automatic env lookup would let a variable named after
// a section (BDKFFI_BINDGEN_GENERATOR) shadow the whole table.
var envNames = map[string][]string{
	"udl_file":                     {"UDL", "UDL_FILE"},
	"language":                     {"LANGUAGE"},
	"out_dir":                      {"OUTPUT_DIR", "OUT_DIR"},
	"python_fixup_path":            {"PYTHON_FIXUP_PATH"},
	"generator.command":            {"GENERATOR_COMMAND"},
	"generator.version_constraint": {"GENERATOR_VERSION_CONSTRAINT"},
	"generator.timeout_seconds":    {"GENERATOR_TIMEOUT_SECONDS"},
	"log.json":                     {"LOG_JSON"},
	"log.theme":                    {"LOG_THEME"},
	"watch.debounce_ms":            {"WATCH_DEBOUNCE_MS"},
}

// BindEnvVars binds each key to its BDKFFI_BINDGEN_* variables. The first
// name listed for a key wins when several are set.
func BindEnvVars(v *viper.Viper) {
	for key, names := range envNames {
		args := make([]string, 0, len(names)+1)
		args = append(args, key)
		for _, n := range names {
			args = append(args, EnvPrefix+"_"+n)
		}
		_ = v.BindEnv(args...)
	}
}
