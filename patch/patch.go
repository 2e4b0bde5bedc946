// Package patch rewrites the generated Python binding so the native library
// is found by globbing for "<libname>.*" next to the binding instead of by
// its exact file name.
//
// The patch is single-shot: it replaces the first "def loadIndirect():" it
// finds and the replacement does not contain that text, so running it again
// on a patched file fails with ErrAnchorNotFound.
package patch

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/natefinch/atomic"

	"github.com/bitcoindevkit/bdk-ffi-bindgen/errors"
	"github.com/bitcoindevkit/bdk-ffi-bindgen/logger"
)

const (
	// BindingFile is the Python binding uniffi-bindgen writes for bdk.udl.
	BindingFile = "bdk.py"

	// Anchor introduces the generated library loader.
	Anchor = "def loadIndirect():"

	// OldLoaderName is what the generated loader is renamed to.
	OldLoaderName = "_loadIndirectOld"
)

// ErrAnchorNotFound means the binding does not contain Anchor, either
// because it was already patched or because the generator's output format
// changed.
var ErrAnchorNotFound = errors.New("anchor not found")

// loaderTemplate replaces Anchor. The %s is the library base name.
// The new definition carries a return annotation so the replacement never
// contains Anchor itself.
const loaderTemplate = `
def loadIndirect() -> ctypes.CDLL:
    import glob
    return getattr(ctypes.cdll, glob.glob(os.path.join(os.path.dirname(os.path.abspath(__file__)), '%s.*'))[0])

def ` + OldLoaderName + `():`

// Target identifies the binding to patch.
type Target struct {
	// OutDir is the generator's output directory.
	OutDir string
	// LibName is the native library base name, e.g. "bdkffi". It is copied
	// into the loader as is.
	LibName string
}

// Path returns the binding file inside OutDir.
func (t Target) Path() string {
	return filepath.Join(t.OutDir, BindingFile)
}

// Span is a half-open byte range.
type Span struct {
	Start int
	End   int
}

// FindAnchor returns the span of the first occurrence of Anchor in src.
func FindAnchor(src string) (Span, bool) {
	pos := strings.Index(src, Anchor)
	if pos < 0 {
		return Span{}, false
	}
	return Span{Start: pos, End: pos + len(Anchor)}, true
}

// Replacement returns the loader block for libName.
func Replacement(libName string) string {
	return fmt.Sprintf(loaderTemplate, libName)
}

// Apply rewrites src, replacing the first Anchor with the glob loader.
// The original loader body stays in place and now belongs to OldLoaderName.
func Apply(src, libName string) (string, Span, error) {
	span, ok := FindAnchor(src)
	if !ok {
		return "", Span{}, ErrAnchorNotFound
	}

	var sb strings.Builder
	replacement := Replacement(libName)
	sb.Grow(len(src) - (span.End - span.Start) + len(replacement))
	sb.WriteString(src[:span.Start])
	sb.WriteString(replacement)
	sb.WriteString(src[span.End:])

	return sb.String(), span, nil
}

// FixupPythonLibPath patches <outDir>/bdk.py in place and returns its path.
//
// The whole file is read, rewritten in memory, and written back through a
// temporary file renamed over the original, so the binding holds either the
// old or the complete new contents. Nothing is written unless the anchor is
// found.
func FixupPythonLibPath(outDir, libName string) (string, error) {
	return Patch(Target{OutDir: outDir, LibName: libName})
}

// Patch is FixupPythonLibPath for a Target.
func Patch(t Target) (string, error) {
	path := t.Path()
	log := logger.Named("patch")

	data, err := os.ReadFile(path)
	if err != nil {
		return path, errors.Wrap(err, "failed to read python binding")
	}

	patched, span, err := Apply(string(data), t.LibName)
	if err != nil {
		err = errors.Wrapf(err, "%q not found in `%s`", Anchor, path)
		return path, errors.WithHint(err,
			"the binding may already be patched, or the generator output format changed")
	}

	log.Debugw("Found loader anchor",
		logger.FieldFile, path,
		logger.FieldAnchor, Anchor,
		logger.FieldOffset, span.Start)

	if err := atomic.WriteFile(path, strings.NewReader(patched)); err != nil {
		return path, errors.Wrapf(err, "failed to write python binding %s", path)
	}

	log.Infow("Patched python binding",
		logger.FieldFile, path,
		logger.FieldLibName, t.LibName,
		logger.FieldSize, len(patched))

	return path, nil
}
