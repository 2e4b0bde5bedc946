package config

import (
	"github.com/kballard/go-shellquote"

	"github.com/bitcoindevkit/bdk-ffi-bindgen/bindgen"
	"github.com/bitcoindevkit/bdk-ffi-bindgen/errors"
	"github.com/bitcoindevkit/bdk-ffi-bindgen/language"
)

// Validate checks that the configuration can drive a generation run
func (c *Config) Validate() error {
	if c.UDLFile == "" {
		return errors.New("udl_file cannot be empty")
	}

	if c.Language == "" {
		return errors.WithHint(errors.New("language is required"),
			"pass --language or set BDKFFI_BINDGEN_LANGUAGE")
	}
	if _, err := language.Parse(c.Language); err != nil {
		return err
	}

	if c.OutDir == "" {
		return errors.WithHint(errors.New("out_dir is required"),
			"pass --out-dir or set BDKFFI_BINDGEN_OUTPUT_DIR")
	}

	if err := c.Generator.Validate(); err != nil {
		return err
	}

	if c.Log.Theme != "" && c.Log.Theme != "everforest" && c.Log.Theme != "gruvbox" {
		return errors.Newf("log.theme must be everforest or gruvbox, got %q", c.Log.Theme)
	}

	if c.Watch.DebounceMS < 0 {
		return errors.Newf("watch.debounce_ms must be >= 0, got %d", c.Watch.DebounceMS)
	}

	return nil
}

// Validate checks the generator settings on their own; check and watch
// need them even before a language is known.
func (g GeneratorConfig) Validate() error {
	argv, err := shellquote.Split(g.Command)
	if err != nil {
		return errors.Wrapf(err, "generator.command %q is not a valid command line", g.Command)
	}
	if len(argv) == 0 {
		return errors.New("generator.command cannot be empty")
	}
	if g.TimeoutSeconds < 0 {
		return errors.Newf("generator.timeout_seconds must be >= 0, got %d", g.TimeoutSeconds)
	}
	return nil
}

// RunOptions validates c and turns it into bindgen options.
func (c *Config) RunOptions() (bindgen.Options, error) {
	if err := c.Validate(); err != nil {
		return bindgen.Options{}, err
	}

	lang, err := language.Parse(c.Language)
	if err != nil {
		return bindgen.Options{}, err
	}

	return bindgen.Options{
		UDLFile:         c.UDLFile,
		Language:        lang,
		OutDir:          c.OutDir,
		PythonFixupPath: c.PythonFixupPath,
	}, nil
}
