package commands

import (
	"fmt"
	"os"

	"github.com/kballard/go-shellquote"
	"github.com/pterm/pterm"
	"github.com/spf13/cobra"

	"github.com/bitcoindevkit/bdk-ffi-bindgen/bindgen"
	"github.com/bitcoindevkit/bdk-ffi-bindgen/errors"
	"github.com/bitcoindevkit/bdk-ffi-bindgen/language"
	"github.com/bitcoindevkit/bdk-ffi-bindgen/logger"
)

// ErrBindingsOutOfDate is returned by check when the checked-in bindings
// differ from a fresh generation.
var ErrBindingsOutOfDate = errors.New("bindings are out of date")

func newCheckCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "check",
		Short: "Verify checked-in bindings match a fresh generation",
		Long: `Generate bindings into a temporary directory, apply the same python
fixup, and compare every generated file with the one under --out-dir.
Exits non-zero when anything differs. Files that only exist under
--out-dir are ignored.

Use -vv to print unified diffs.`,
		Args: cobra.NoArgs,
		RunE: a.runCheck,
	}
}

func (a *app) runCheck(cmd *cobra.Command, args []string) error {
	opts, err := a.cfg.RunOptions()
	if err != nil {
		return err
	}

	tmpDir, err := os.MkdirTemp("", "bdk-ffi-bindgen-check-")
	if err != nil {
		return errors.Wrap(err, "failed to create temporary directory")
	}
	defer os.RemoveAll(tmpDir)

	existing := opts.OutDir
	opts.OutDir = tmpDir

	logger.Debugw("Generating into scratch directory",
		logger.FieldOutDir, tmpDir,
		logger.FieldLanguage, opts.Language.String())

	if _, err := a.generate(cmd.Context(), cmd, opts); err != nil {
		return err
	}

	cmp, err := bindgen.CompareDirectories(tmpDir, existing)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	if cmp.UpToDate {
		pterm.Success.WithWriter(out).Printfln("%s bindings in %s are up to date (%d files)",
			opts.Language, existing, cmp.Checked)
		return nil
	}

	warn := pterm.Warning.WithWriter(out)
	for _, d := range cmp.Differences {
		warn.Printfln("%s: %s", d.Status, d.Path)
		if a.verbosity >= logger.VerbosityDebug && d.Diff != "" {
			fmt.Fprintln(out, d.Diff)
		}
	}

	opts.OutDir = existing
	return errors.WithHintf(
		errors.Wrapf(ErrBindingsOutOfDate, "%d of %d files differ in %s", len(cmp.Differences), cmp.Checked, existing),
		"run %s to regenerate", regenerateCommand(opts))
}

// regenerateCommand renders the invocation that rewrites the checked-in
// bindings with the same inputs check used.
func regenerateCommand(opts bindgen.Options) string {
	args := []string{"bdk-ffi-bindgen",
		"-u", opts.UDLFile,
		"-l", opts.Language.String(),
		"-o", opts.OutDir,
	}
	if opts.Language == language.Python && opts.PythonFixupPath != "" {
		args = append(args, "-p", opts.PythonFixupPath)
	}
	return shellquote.Join(args...)
}
