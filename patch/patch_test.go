package patch

import (
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bitcoindevkit/bdk-ffi-bindgen/errors"
)

// =============================================================================
// Test helpers
// =============================================================================

const loaderBody = `
    # Look for the library next to this file
    libname = os.path.join(os.path.dirname(__file__), "libbdkffi.so")
    return getattr(ctypes.cdll, libname)
`

const generatedBinding = `# This file was autogenerated by some hot garbage in the ` + "`uniffi`" + ` crate.
import ctypes
import os

` + Anchor + loaderBody + `
_UniFFILib = loadIndirect()
`

func writeBinding(t *testing.T, contents string) string {
	t.Helper()
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, BindingFile), []byte(contents), 0644))
	return dir
}

func readBinding(t *testing.T, dir string) string {
	t.Helper()
	data, err := os.ReadFile(filepath.Join(dir, BindingFile))
	require.NoError(t, err)
	return string(data)
}

// =============================================================================
// Apply / FindAnchor
// =============================================================================

func TestFindAnchor(t *testing.T) {
	span, ok := FindAnchor("abc" + Anchor + "xyz" + Anchor)
	require.True(t, ok)
	assert.Equal(t, Span{Start: 3, End: 3 + len(Anchor)}, span)

	_, ok = FindAnchor("def loadIndirect ():")
	assert.False(t, ok)
}

func TestReplacementDoesNotContainAnchor(t *testing.T) {
	r := Replacement("bdkffi")
	assert.NotContains(t, r, Anchor)
	assert.Contains(t, r, "def loadIndirect() -> ctypes.CDLL:")
	assert.Contains(t, r, "glob.glob(")
	assert.Contains(t, r, "'bdkffi.*'")
	assert.True(t, strings.HasSuffix(r, "def "+OldLoaderName+"():"))
}

func TestApply(t *testing.T) {
	out, span, err := Apply(generatedBinding, "bdkffi")
	require.NoError(t, err)

	assert.Equal(t, strings.Index(generatedBinding, Anchor), span.Start)
	assert.NotContains(t, out, Anchor)
	assert.Contains(t, out, "'bdkffi.*'")

	// The old body now follows the renamed definition
	assert.Contains(t, out, "def "+OldLoaderName+"():"+loaderBody)

	// Text before and after the span is untouched
	assert.True(t, strings.HasPrefix(out, generatedBinding[:span.Start]))
	assert.True(t, strings.HasSuffix(out, generatedBinding[span.End:]))
}

func TestApplyOnlyFirstOccurrence(t *testing.T) {
	src := "# head\n" + Anchor + "\n    return 1\n# middle\n" + Anchor + "\n    return 2\n"

	out, span, err := Apply(src, "bdkffi")
	require.NoError(t, err)
	assert.Equal(t, len("# head\n"), span.Start)

	assert.Equal(t, 1, strings.Count(out, Anchor))
	tail := src[span.End:]
	assert.True(t, strings.HasSuffix(out, tail), "everything after the first anchor is kept verbatim")
	assert.Less(t, strings.Index(out, "def "+OldLoaderName+"():"), strings.Index(out, Anchor))
}

func TestApplyLibNameIsOpaque(t *testing.T) {
	out, _, err := Apply(Anchor, "../weird name%s")
	require.NoError(t, err)
	assert.Contains(t, out, "'../weird name%s.*'")
}

func TestApplyMissingAnchor(t *testing.T) {
	_, _, err := Apply("def load_indirect():\n    pass\n", "bdkffi")
	assert.True(t, errors.Is(err, ErrAnchorNotFound))
}

// =============================================================================
// FixupPythonLibPath
// =============================================================================

func TestFixupPythonLibPath(t *testing.T) {
	dir := writeBinding(t, generatedBinding)

	path, err := FixupPythonLibPath(dir, "bdkffi")
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, BindingFile), path)

	got := readBinding(t, dir)
	assert.NotContains(t, got, Anchor)
	assert.Contains(t, got, "glob.glob(")
	assert.Contains(t, got, "'bdkffi.*'")
	assert.Contains(t, got, "def "+OldLoaderName+"():"+loaderBody)
	assert.Contains(t, got, "_UniFFILib = loadIndirect()")
}

func TestFixupPythonLibPathTwiceFails(t *testing.T) {
	dir := writeBinding(t, generatedBinding)

	_, err := FixupPythonLibPath(dir, "bdkffi")
	require.NoError(t, err)
	once := readBinding(t, dir)

	_, err = FixupPythonLibPath(dir, "bdkffi")
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrAnchorNotFound))
	assert.Equal(t, once, readBinding(t, dir))
}

func TestFixupPythonLibPathMissingAnchor(t *testing.T) {
	original := "import ctypes\n\ndef somethingElse():\n    pass\n"
	dir := writeBinding(t, original)
	path := filepath.Join(dir, BindingFile)

	before, err := os.Stat(path)
	require.NoError(t, err)

	_, err = FixupPythonLibPath(dir, "bdkffi")
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrAnchorNotFound))
	assert.Contains(t, err.Error(), path)
	assert.Contains(t, err.Error(), Anchor)
	assert.NotEmpty(t, errors.GetAllHints(err))

	assert.Equal(t, original, readBinding(t, dir))
	after, err := os.Stat(path)
	require.NoError(t, err)
	assert.Equal(t, before.ModTime(), after.ModTime())

	// No temp files left behind
	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	assert.Len(t, entries, 1)
}

func TestFixupPythonLibPathMissingFile(t *testing.T) {
	dir := t.TempDir()

	_, err := FixupPythonLibPath(dir, "bdkffi")
	require.Error(t, err)
	assert.True(t, errors.Is(err, fs.ErrNotExist))
	assert.False(t, errors.Is(err, ErrAnchorNotFound))
}

func TestFixupPythonLibPathTwoAnchors(t *testing.T) {
	second := Anchor + "\n    return 'second'\n"
	dir := writeBinding(t, generatedBinding+"\n"+second)

	_, err := FixupPythonLibPath(dir, "bdkffi")
	require.NoError(t, err)

	got := readBinding(t, dir)
	assert.Equal(t, 1, strings.Count(got, Anchor))
	assert.True(t, strings.HasSuffix(got, second))
}
