// Package language holds the closed set of binding targets the generator
// can be asked for.
//
// A Language value can only be obtained from Parse or from the exported
// Kotlin, Python and Swift values, so anything that holds a non-zero
// Language holds a supported one.
package language

import (
	"strings"

	"github.com/bitcoindevkit/bdk-ffi-bindgen/errors"
)

// ErrUnsupportedLanguage is returned by Parse for any string outside the
// supported set.
var ErrUnsupportedLanguage = errors.New("unsupported language")

// Language is a supported binding target. The zero value is not a language.
type Language struct {
	name string
}

var (
	Kotlin = Language{name: "kotlin"}
	Python = Language{name: "python"}
	Swift  = Language{name: "swift"}
)

// All returns the supported languages in display order.
func All() []Language {
	return []Language{Kotlin, Python, Swift}
}

// Names returns the canonical names of All.
func Names() []string {
	all := All()
	names := make([]string, len(all))
	for i, l := range all {
		names[i] = l.name
	}
	return names
}

// Parse matches s case-sensitively against the canonical names.
// No trimming, folding or prefix matching is done.
func Parse(s string) (Language, error) {
	switch s {
	case "kotlin":
		return Kotlin, nil
	case "python":
		return Python, nil
	case "swift":
		return Swift, nil
	default:
		err := errors.Wrapf(ErrUnsupportedLanguage, "language %q", s)
		return Language{}, errors.WithHintf(err, "supported languages: %s", strings.Join(Names(), ", "))
	}
}

// String returns the canonical lowercase name; "" for the zero value.
func (l Language) String() string {
	return l.name
}

// IsZero reports whether l is the zero value.
func (l Language) IsZero() bool {
	return l.name == ""
}
