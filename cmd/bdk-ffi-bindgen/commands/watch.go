package commands

import (
	"context"
	"os/signal"
	"syscall"
	"time"

	"github.com/pterm/pterm"
	"github.com/spf13/cobra"

	"github.com/bitcoindevkit/bdk-ffi-bindgen/errors"
	"github.com/bitcoindevkit/bdk-ffi-bindgen/watch"
)

func newWatchCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "watch",
		Short: "Regenerate bindings whenever the UDL file changes",
		Long: `Generate once, then watch the UDL file and regenerate after each change.
Bursts of saves are collapsed (watch.debounce_ms, default 500). Failed runs
are reported and watching continues. Stop with Ctrl-C.`,
		Args: cobra.NoArgs,
		RunE: a.runWatch,
	}
	cmd.Flags().Int("debounce", 0, "Debounce in milliseconds (default from watch.debounce_ms)")
	_ = a.v.BindPFlag("watch.debounce_ms", cmd.Flags().Lookup("debounce"))
	return cmd
}

func (a *app) runWatch(cmd *cobra.Command, args []string) error {
	opts, err := a.cfg.RunOptions()
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	out := cmd.OutOrStdout()
	regenerate := func(ctx context.Context) error {
		result, err := a.generate(ctx, cmd, opts)
		if err != nil {
			pterm.Error.WithWriter(out).Println(errors.Report(err))
			return err
		}
		pterm.Success.WithWriter(out).Printfln("Regenerated %s bindings in %s", result.Language, result.OutDir)
		return nil
	}

	// A broken first run is reported like any later one
	_ = regenerate(ctx)

	debounce := time.Duration(a.cfg.Watch.DebounceMS) * time.Millisecond
	w, err := watch.New(opts.UDLFile, debounce, regenerate)
	if err != nil {
		return err
	}

	pterm.Info.WithWriter(out).Printfln("Watching %s (Ctrl-C to stop)", w.Path())
	return w.Run(ctx)
}
