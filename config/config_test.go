package config

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bitcoindevkit/bdk-ffi-bindgen/errors"
	"github.com/bitcoindevkit/bdk-ffi-bindgen/language"
)

func TestLoad_Defaults(t *testing.T) {
	// Isolated viper instance without env or files
	v := viper.New()
	SetDefaults(v)

	cfg, err := LoadWithViper(v)
	require.NoError(t, err)

	assert.Equal(t, "src/bdk.udl", cfg.UDLFile)
	assert.Equal(t, "uniffi-bindgen", cfg.Generator.Command)
	assert.Equal(t, 0, cfg.Generator.TimeoutSeconds)
	assert.Equal(t, "everforest", cfg.Log.Theme)
	assert.Equal(t, 500, cfg.Watch.DebounceMS)
	assert.Equal(t, Defaults(), cfg)
}

func TestLoad_EnvVars(t *testing.T) {
	t.Setenv("BDKFFI_BINDGEN_UDL", "api/bdk.udl")
	t.Setenv("BDKFFI_BINDGEN_LANGUAGE", "python")
	t.Setenv("BDKFFI_BINDGEN_OUTPUT_DIR", "bdk-python/src/bdkpython")
	t.Setenv("BDKFFI_BINDGEN_PYTHON_FIXUP_PATH", "bdkffi")
	t.Setenv("BDKFFI_BINDGEN_GENERATOR_COMMAND", "cargo run --bin uniffi-bindgen --")
	t.Setenv("BDKFFI_BINDGEN_LOG_JSON", "true")
	t.Setenv("BDKFFI_BINDGEN_WATCH_DEBOUNCE_MS", "250")

	cfg, err := LoadWithViper(NewViper())
	require.NoError(t, err)

	assert.Equal(t, "api/bdk.udl", cfg.UDLFile)
	assert.Equal(t, "python", cfg.Language)
	assert.Equal(t, "bdk-python/src/bdkpython", cfg.OutDir)
	assert.Equal(t, "bdkffi", cfg.PythonFixupPath)
	assert.Equal(t, "cargo run --bin uniffi-bindgen --", cfg.Generator.Command)
	assert.True(t, cfg.Log.JSON)
	assert.Equal(t, 250, cfg.Watch.DebounceMS)
}

func TestLoad_SectionNamedEnvDoesNotShadowTable(t *testing.T) {
	path := filepath.Join(t.TempDir(), FileName)
	require.NoError(t, os.WriteFile(path, []byte(`
[generator]
version_constraint = ">= 0.16"
timeout_seconds = 30
`), 0644))

	// Named after the [generator] section rather than one of its keys
	t.Setenv("BDKFFI_BINDGEN_GENERATOR", "/opt/uniffi/bin/uniffi-bindgen")

	cfg, _, err := Load(NewViper(), path)
	require.NoError(t, err)
	assert.Equal(t, "uniffi-bindgen", cfg.Generator.Command)
	assert.Equal(t, ">= 0.16", cfg.Generator.VersionConstraint)
	assert.Equal(t, 30, cfg.Generator.TimeoutSeconds)
	require.NoError(t, cfg.Generator.Validate())

	t.Setenv("BDKFFI_BINDGEN_GENERATOR_COMMAND", "cargo run --bin uniffi-bindgen --")
	cfg, _, err = Load(NewViper(), path)
	require.NoError(t, err)
	assert.Equal(t, "cargo run --bin uniffi-bindgen --", cfg.Generator.Command)
	assert.Equal(t, ">= 0.16", cfg.Generator.VersionConstraint)
}

func TestLoad_ProjectFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, FileName)
	require.NoError(t, os.WriteFile(path, []byte(`
language = "swift"
out_dir = "bdk-swift/Sources"

[generator]
version_constraint = ">= 0.16"
timeout_seconds = 120
`), 0644))

	cfg, used, err := Load(NewViper(), path)
	require.NoError(t, err)
	assert.Equal(t, path, used)

	assert.Equal(t, "swift", cfg.Language)
	assert.Equal(t, "bdk-swift/Sources", cfg.OutDir)
	assert.Equal(t, ">= 0.16", cfg.Generator.VersionConstraint)
	assert.Equal(t, 120, cfg.Generator.TimeoutSeconds)
	// Untouched keys keep their defaults
	assert.Equal(t, "src/bdk.udl", cfg.UDLFile)
	assert.Equal(t, "uniffi-bindgen", cfg.Generator.Command)
}

func TestLoad_EnvOverridesFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), FileName)
	require.NoError(t, os.WriteFile(path, []byte("language = \"swift\"\n"), 0644))
	t.Setenv("BDKFFI_BINDGEN_LANGUAGE", "kotlin")

	cfg, _, err := Load(NewViper(), path)
	require.NoError(t, err)
	assert.Equal(t, "kotlin", cfg.Language)
}

func TestLoad_MissingExplicitFile(t *testing.T) {
	_, _, err := Load(NewViper(), filepath.Join(t.TempDir(), "missing.toml"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "missing.toml")
}

func TestFindConfigFrom(t *testing.T) {
	root := t.TempDir()
	nested := filepath.Join(root, "bdk-python", "src")
	require.NoError(t, os.MkdirAll(nested, 0755))

	assert.Equal(t, "", findConfigFrom(nested))

	path := filepath.Join(root, FileName)
	require.NoError(t, os.WriteFile(path, []byte(""), 0644))
	assert.Equal(t, path, findConfigFrom(nested))
}

func TestValidate(t *testing.T) {
	valid := func() Config {
		cfg := *Defaults()
		cfg.Language = "python"
		cfg.OutDir = "out"
		return cfg
	}

	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr string
	}{
		{name: "valid", mutate: func(c *Config) {}},
		{name: "missing language", mutate: func(c *Config) { c.Language = "" }, wantErr: "language is required"},
		{name: "unsupported language", mutate: func(c *Config) { c.Language = "Python" }, wantErr: "unsupported language"},
		{name: "missing out dir", mutate: func(c *Config) { c.OutDir = "" }, wantErr: "out_dir is required"},
		{name: "missing udl", mutate: func(c *Config) { c.UDLFile = "" }, wantErr: "udl_file"},
		{name: "empty generator", mutate: func(c *Config) { c.Generator.Command = " " }, wantErr: "generator.command"},
		{name: "bad generator quoting", mutate: func(c *Config) { c.Generator.Command = `"oops` }, wantErr: "generator.command"},
		{name: "negative timeout", mutate: func(c *Config) { c.Generator.TimeoutSeconds = -1 }, wantErr: "timeout_seconds"},
		{name: "unknown theme", mutate: func(c *Config) { c.Log.Theme = "solarized" }, wantErr: "log.theme"},
		{name: "negative debounce", mutate: func(c *Config) { c.Watch.DebounceMS = -5 }, wantErr: "debounce_ms"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := valid()
			tt.mutate(&cfg)

			err := cfg.Validate()
			if tt.wantErr == "" {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestRunOptions(t *testing.T) {
	cfg := Defaults()
	cfg.Language = "python"
	cfg.OutDir = "out"
	cfg.PythonFixupPath = "bdkffi"

	opts, err := cfg.RunOptions()
	require.NoError(t, err)
	assert.Equal(t, language.Python, opts.Language)
	assert.Equal(t, "src/bdk.udl", opts.UDLFile)
	assert.Equal(t, "out", opts.OutDir)
	assert.Equal(t, "bdkffi", opts.PythonFixupPath)

	cfg.Language = "rust"
	_, err = cfg.RunOptions()
	assert.True(t, errors.Is(err, language.ErrUnsupportedLanguage))
}

func TestMarshal(t *testing.T) {
	cfg := Defaults()
	cfg.Language = "kotlin"

	data, err := Marshal(cfg, "toml")
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(string(data), "# bdk-ffi-bindgen configuration\n"))
	assert.Contains(t, string(data), "language = 'kotlin'")

	data, err = Marshal(cfg, "json")
	require.NoError(t, err)
	var decoded map[string]interface{}
	require.NoError(t, json.Unmarshal(data, &decoded))
	assert.Equal(t, "kotlin", decoded["language"])

	data, err = Marshal(cfg, "yaml")
	require.NoError(t, err)
	assert.Contains(t, string(data), "language: kotlin")

	_, err = Marshal(cfg, "xml")
	assert.Error(t, err)
}

func TestWriteFileRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), FileName)
	require.NoError(t, WriteFile(path, Defaults()))

	cfg, _, err := Load(NewViper(), path)
	require.NoError(t, err)
	assert.Equal(t, Defaults(), cfg)

	err = WriteFile(path, Defaults())
	require.Error(t, err)
	assert.True(t, errors.Is(err, os.ErrExist))
}
