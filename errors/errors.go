// Package errors provides error handling for bdk-ffi-bindgen.
//
// This package re-exports github.com/cockroachdb/errors, providing:
//   - Stack traces for debugging
//   - Error wrapping and context
//   - Hints and details for the operator
//
// Usage:
//
//	// Wrap with context
//	if err := bindgen.Generate(ctx, gen, udl, lang, out); err != nil {
//	    return errors.Wrapf(err, "failed to generate %s bindings", lang)
//	}
//
//	// Add hints for users
//	return errors.WithHint(err, "is uniffi-bindgen installed?")
//
// Domain sentinels live next to the code that returns them
// (language.ErrUnsupportedLanguage, bindgen.ErrGenerationFailed,
// patch.ErrAnchorNotFound). Check them with errors.Is.
package errors

import (
	"strings"

	crdb "github.com/cockroachdb/errors"
)

// Core error creation and wrapping
var (
	New   = crdb.New
	Newf  = crdb.Newf
	Wrap  = crdb.Wrap
	Wrapf = crdb.Wrapf
)

// User-facing messages and details
var (
	WithHint    = crdb.WithHint
	WithHintf   = crdb.WithHintf
	WithDetail  = crdb.WithDetail
	WithDetailf = crdb.WithDetailf
)

// Error inspection
var (
	Is             = crdb.Is
	As             = crdb.As
	GetAllHints    = crdb.GetAllHints
	GetAllDetails  = crdb.GetAllDetails
	FlattenDetails = crdb.FlattenDetails
)

// Assertions
var AssertionFailedf = crdb.AssertionFailedf

// Mark tags err so that errors.Is(result, reference) holds without changing
// the message. Used to classify third-party errors (exec, fs) into the
// tool's own taxonomy.
var Mark = crdb.Mark

// Report renders err for the operator: the message, then any hints and
// details on their own indented lines. Returns "" for a nil error.
func Report(err error) string {
	if err == nil {
		return ""
	}

	var sb strings.Builder
	sb.WriteString(err.Error())

	for _, detail := range GetAllDetails(err) {
		for _, line := range strings.Split(strings.TrimRight(detail, "\n"), "\n") {
			sb.WriteString("\n  ")
			sb.WriteString(line)
		}
	}

	for _, hint := range GetAllHints(err) {
		sb.WriteString("\n  hint: ")
		sb.WriteString(hint)
	}

	return sb.String()
}
