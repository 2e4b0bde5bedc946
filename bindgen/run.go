package bindgen

import (
	"context"
	"time"

	"github.com/bitcoindevkit/bdk-ffi-bindgen/errors"
	"github.com/bitcoindevkit/bdk-ffi-bindgen/language"
	"github.com/bitcoindevkit/bdk-ffi-bindgen/logger"
	"github.com/bitcoindevkit/bdk-ffi-bindgen/patch"
)

// Options describe one generation run.
type Options struct {
	UDLFile  string
	Language language.Language
	OutDir   string

	// PythonFixupPath is the native library base name used to patch the
	// Python loader. Empty skips the patch.
	PythonFixupPath string
}

// Result reports what a run did.
type Result struct {
	Language    language.Language
	OutDir      string
	Patched     bool
	PatchedFile string
	Duration    time.Duration
}

// Run generates bindings and, for Python with a library name, patches the
// loader. Steps run in order and the first failure ends the run.
func Run(ctx context.Context, gen Generator, opts Options) (*Result, error) {
	if opts.Language.IsZero() {
		return nil, errors.AssertionFailedf("bindgen.Run called without a language")
	}

	log := logger.Named("bindgen")
	start := time.Now()

	log.Infow("Generating bindings",
		logger.FieldUDLFile, opts.UDLFile,
		logger.FieldLanguage, opts.Language.String(),
		logger.FieldOutDir, opts.OutDir)

	if err := Generate(ctx, gen, opts.UDLFile, opts.Language, opts.OutDir); err != nil {
		return nil, err
	}

	result := &Result{Language: opts.Language, OutDir: opts.OutDir}

	if opts.Language == language.Python {
		if opts.PythonFixupPath == "" {
			log.Debugw("No library name given, leaving python loader as generated",
				logger.FieldOutDir, opts.OutDir)
		} else {
			log.Infow("Fixing up python lib path", logger.FieldLibName, opts.PythonFixupPath)
			path, err := patch.FixupPythonLibPath(opts.OutDir, opts.PythonFixupPath)
			if err != nil {
				return nil, err
			}
			result.Patched = true
			result.PatchedFile = path
		}
	}

	result.Duration = time.Since(start)
	log.Infow("Bindings generated",
		logger.FieldLanguage, opts.Language.String(),
		logger.FieldDurationMS, result.Duration.Milliseconds())

	return result, nil
}
