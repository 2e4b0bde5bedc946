package bindgen

import (
	"io/fs"
	"os"
	"path/filepath"
	"sort"

	"github.com/pmezard/go-difflib/difflib"

	"github.com/bitcoindevkit/bdk-ffi-bindgen/errors"
)

// DiffStatus says how a generated file differs from the checked-in copy.
type DiffStatus string

const (
	StatusModified DiffStatus = "modified"
	StatusMissing  DiffStatus = "missing"
)

// FileDiff is one out-of-date file.
type FileDiff struct {
	// Path is relative to the compared directories.
	Path   string
	Status DiffStatus
	// Diff is a unified diff from the existing file to the fresh one;
	// empty for missing files.
	Diff string
}

// Comparison is the result of CompareDirectories.
type Comparison struct {
	UpToDate    bool
	Checked     int
	Differences []FileDiff
}

// CompareDirectories checks every file under freshDir against the file at
// the same relative path under existingDir. Files that only exist in
// existingDir (native libraries, hand-written glue) are ignored.
func CompareDirectories(freshDir, existingDir string) (*Comparison, error) {
	var paths []string
	err := filepath.WalkDir(freshDir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			return nil
		}
		rel, err := filepath.Rel(freshDir, path)
		if err != nil {
			return err
		}
		paths = append(paths, rel)
		return nil
	})
	if err != nil {
		return nil, errors.Wrapf(err, "failed to walk %s", freshDir)
	}
	sort.Strings(paths)

	result := &Comparison{Checked: len(paths)}
	for _, rel := range paths {
		fresh, err := os.ReadFile(filepath.Join(freshDir, rel))
		if err != nil {
			return nil, errors.Wrap(err, "failed to read generated file")
		}

		existing, err := os.ReadFile(filepath.Join(existingDir, rel))
		if errors.Is(err, fs.ErrNotExist) {
			result.Differences = append(result.Differences, FileDiff{Path: rel, Status: StatusMissing})
			continue
		}
		if err != nil {
			return nil, errors.Wrap(err, "failed to read existing file")
		}

		if string(fresh) == string(existing) {
			continue
		}

		diff, err := difflib.GetUnifiedDiffString(difflib.UnifiedDiff{
			A:        difflib.SplitLines(string(existing)),
			B:        difflib.SplitLines(string(fresh)),
			FromFile: filepath.ToSlash(filepath.Join("existing", rel)),
			ToFile:   filepath.ToSlash(filepath.Join("generated", rel)),
			Context:  3,
		})
		if err != nil {
			return nil, errors.Wrapf(err, "failed to diff %s", rel)
		}
		result.Differences = append(result.Differences, FileDiff{Path: rel, Status: StatusModified, Diff: diff})
	}

	result.UpToDate = len(result.Differences) == 0
	return result, nil
}
