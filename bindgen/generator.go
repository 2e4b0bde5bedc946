// Package bindgen drives the external binding generator.
//
// The generator itself (UDL parsing and code emission) is a black box
// behind the Generator interface. CommandGenerator runs the uniffi-bindgen
// executable; tests substitute fakes.
package bindgen

import (
	"context"

	"github.com/bitcoindevkit/bdk-ffi-bindgen/errors"
	"github.com/bitcoindevkit/bdk-ffi-bindgen/language"
)

// ErrGenerationFailed marks errors raised by the external generator.
var ErrGenerationFailed = errors.New("binding generation failed")

// Request is everything the external generator needs for one call.
type Request struct {
	// UDLFile is the interface definition to compile.
	UDLFile string
	// Languages lists the requested targets by canonical name.
	Languages []string
	// OutDir is where the generator writes the bindings.
	OutDir string
	// ConfigOverride replaces the generator's default config file lookup
	// (uniffi.toml next to the UDL) when non-empty.
	ConfigOverride string
	// TryFormatCode asks the generator to run language formatters over its
	// output.
	TryFormatCode bool
}

// Generator emits bindings for a Request.
type Generator interface {
	GenerateBindings(ctx context.Context, req Request) error
}

// GeneratorFunc adapts a function to Generator.
type GeneratorFunc func(ctx context.Context, req Request) error

// GenerateBindings calls f.
func (f GeneratorFunc) GenerateBindings(ctx context.Context, req Request) error {
	return f(ctx, req)
}

// NewRequest builds the single-language request this tool always sends:
// no config override and no code formatting.
func NewRequest(udlFile string, lang language.Language, outDir string) Request {
	return Request{
		UDLFile:   udlFile,
		Languages: []string{lang.String()},
		OutDir:    outDir,
	}
}

// Generate asks gen for lang bindings of udlFile in outDir. Whatever error
// the generator returns is handed back unchanged.
func Generate(ctx context.Context, gen Generator, udlFile string, lang language.Language, outDir string) error {
	if lang.IsZero() {
		return errors.AssertionFailedf("bindgen.Generate called without a language")
	}
	return gen.GenerateBindings(ctx, NewRequest(udlFile, lang, outDir))
}
