package bindgen

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeFiles(t *testing.T, dir string, files map[string]string) {
	t.Helper()
	for name, contents := range files {
		path := filepath.Join(dir, name)
		require.NoError(t, os.MkdirAll(filepath.Dir(path), 0755))
		require.NoError(t, os.WriteFile(path, []byte(contents), 0644))
	}
}

func TestCompareDirectoriesUpToDate(t *testing.T) {
	fresh, existing := t.TempDir(), t.TempDir()
	writeFiles(t, fresh, map[string]string{"bdk.swift": "a\n", "bdkFFI.h": "b\n"})
	writeFiles(t, existing, map[string]string{"bdk.swift": "a\n", "bdkFFI.h": "b\n", "libbdkffi.a": "binary"})

	cmp, err := CompareDirectories(fresh, existing)
	require.NoError(t, err)
	assert.True(t, cmp.UpToDate)
	assert.Equal(t, 2, cmp.Checked)
	assert.Empty(t, cmp.Differences)
}

func TestCompareDirectoriesDifferences(t *testing.T) {
	fresh, existing := t.TempDir(), t.TempDir()
	writeFiles(t, fresh, map[string]string{
		"bdk.py":                   "line1\nline2 new\n",
		"org/bitcoindevkit/bdk.kt": "kotlin\n",
		"unchanged.txt":            "same\n",
	})
	writeFiles(t, existing, map[string]string{
		"bdk.py":        "line1\nline2 old\n",
		"unchanged.txt": "same\n",
	})

	cmp, err := CompareDirectories(fresh, existing)
	require.NoError(t, err)
	assert.False(t, cmp.UpToDate)
	assert.Equal(t, 3, cmp.Checked)
	require.Len(t, cmp.Differences, 2)

	assert.Equal(t, "bdk.py", cmp.Differences[0].Path)
	assert.Equal(t, StatusModified, cmp.Differences[0].Status)
	assert.Contains(t, cmp.Differences[0].Diff, "-line2 old")
	assert.Contains(t, cmp.Differences[0].Diff, "+line2 new")

	assert.Equal(t, filepath.Join("org", "bitcoindevkit", "bdk.kt"), cmp.Differences[1].Path)
	assert.Equal(t, StatusMissing, cmp.Differences[1].Status)
	assert.Empty(t, cmp.Differences[1].Diff)
}

func TestCompareDirectoriesMissingFreshDir(t *testing.T) {
	_, err := CompareDirectories(filepath.Join(t.TempDir(), "nope"), t.TempDir())
	assert.Error(t, err)
}
