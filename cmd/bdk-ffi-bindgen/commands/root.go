// Package commands implements the bdk-ffi-bindgen command line.
package commands

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/pterm/pterm"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/bitcoindevkit/bdk-ffi-bindgen/bindgen"
	"github.com/bitcoindevkit/bdk-ffi-bindgen/config"
	"github.com/bitcoindevkit/bdk-ffi-bindgen/errors"
	"github.com/bitcoindevkit/bdk-ffi-bindgen/language"
	"github.com/bitcoindevkit/bdk-ffi-bindgen/logger"
)

// skipConfig marks commands that run without loading bindgen.toml
const skipConfig = "skip-config"

// app is the state shared by every command of one invocation.
type app struct {
	v          *viper.Viper
	configPath string
	verbosity  int

	cfg     *config.Config
	cfgFile string
	runID   string
}

// NewRootCmd builds the command tree. Each call returns an independent tree
// with its own flags and configuration.
func NewRootCmd() *cobra.Command {
	a := &app{v: config.NewViper()}

	root := &cobra.Command{
		Use:   "bdk-ffi-bindgen",
		Short: "Generate BDK language bindings from the UDL interface definition",
		Long: `bdk-ffi-bindgen generates Kotlin, Python or Swift bindings for the
bdk-ffi library by running uniffi-bindgen, then fixes up the generated
Python module so it loads the bundled native library.

Settings come from (later overrides earlier):
  1. Built-in defaults
  2. bindgen.toml (searched upwards from the working directory, or --config)
  3. BDKFFI_BINDGEN_* environment variables
  4. Command line flags

Examples:
  bdk-ffi-bindgen -l kotlin -o bdk-android/lib/src/main/kotlin
  bdk-ffi-bindgen -l python -o bdk-python/src/bdkpython -p bdkffi
  bdk-ffi-bindgen check -l swift -o bdk-swift/Sources/BitcoinDevKit
  bdk-ffi-bindgen watch -l python -o out -p bdkffi`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return a.setup(cmd)
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			logger.Cleanup()
		},
		RunE: a.runGenerate,
	}

	flags := root.PersistentFlags()
	flags.StringVarP(&a.configPath, "config", "c", "", "Config file (default: bindgen.toml found upwards from the working directory)")
	flags.CountVarP(&a.verbosity, "verbose", "v", "Increase output verbosity (repeat for more detail: -v, -vv, -vvv)")
	flags.Bool("json-logs", false, "Emit logs as JSON")
	flags.StringP("udl-file", "u", config.DefaultUDLFile, "UDL interface definition")
	flags.StringP("language", "l", "", "Binding language: kotlin, python or swift")
	flags.StringP("out-dir", "o", "", "Directory that receives the bindings")
	flags.StringP("python-fixup-path", "p", "", "Native library base name for the python loader fixup (e.g. bdkffi)")
	flags.StringP("generator", "g", config.DefaultGeneratorCommand, "Generator command line")

	bindFlag(a.v, "udl_file", root, "udl-file")
	bindFlag(a.v, "language", root, "language")
	bindFlag(a.v, "out_dir", root, "out-dir")
	bindFlag(a.v, "python_fixup_path", root, "python-fixup-path")
	bindFlag(a.v, "generator.command", root, "generator")
	bindFlag(a.v, "log.json", root, "json-logs")

	_ = root.RegisterFlagCompletionFunc("language", func(cmd *cobra.Command, args []string, toComplete string) ([]string, cobra.ShellCompDirective) {
		return language.Names(), cobra.ShellCompDirectiveNoFileComp
	})

	root.AddCommand(newCheckCmd(a))
	root.AddCommand(newWatchCmd(a))
	root.AddCommand(newConfigCmd(a))
	root.AddCommand(newVersionCmd())

	return root
}

func bindFlag(v *viper.Viper, key string, cmd *cobra.Command, name string) {
	// Lookup cannot fail for flags registered above
	_ = v.BindPFlag(key, cmd.PersistentFlags().Lookup(name))
}

// setup loads configuration and initializes logging for the invocation.
func (a *app) setup(cmd *cobra.Command) error {
	if cmd.Annotations[skipConfig] == "true" {
		return nil
	}

	cfg, used, err := config.Load(a.v, a.configPath)
	if err != nil {
		return err
	}
	a.cfg = cfg
	a.cfgFile = used

	if cfg.Log.Theme != "" {
		logger.SetTheme(cfg.Log.Theme)
	}
	if err := logger.InitializeWithWriter(cmd.ErrOrStderr(), cfg.Log.JSON, a.verbosity); err != nil {
		return errors.Wrap(err, "failed to initialize logger")
	}

	a.runID = uuid.NewString()
	logger.Logger = logger.With(logger.FieldRunID, a.runID)
	logger.Debugw("Logger initialized", "verbosity", logger.LevelName(a.verbosity))

	if used != "" {
		logger.Debugw("Loaded config file", logger.FieldFile, used)
	}
	return nil
}

// newGenerator builds the generator from configuration. The child's stderr
// always reaches the command's stderr; its stdout only at -vvv.
func (a *app) newGenerator(cmd *cobra.Command) (*bindgen.CommandGenerator, error) {
	gen, err := bindgen.NewCommandGenerator(a.cfg.Generator.Command)
	if err != nil {
		return nil, err
	}
	if logger.ShouldLogTrace(a.verbosity) {
		gen.Stdout = cmd.OutOrStdout()
	}
	gen.Stderr = cmd.ErrOrStderr()
	return gen, nil
}

// generate runs one generation into opts.OutDir, honoring the version
// constraint and timeout from configuration.
func (a *app) generate(ctx context.Context, cmd *cobra.Command, opts bindgen.Options) (*bindgen.Result, error) {
	gen, err := a.newGenerator(cmd)
	if err != nil {
		return nil, err
	}

	if t := a.cfg.Generator.TimeoutSeconds; t > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, time.Duration(t)*time.Second)
		defer cancel()
	}

	if err := gen.CheckVersion(ctx, a.cfg.Generator.VersionConstraint); err != nil {
		return nil, err
	}

	return bindgen.Run(ctx, gen, opts)
}

func (a *app) runGenerate(cmd *cobra.Command, args []string) error {
	if len(args) > 0 {
		return errors.Newf("unexpected argument %q", args[0])
	}

	opts, err := a.cfg.RunOptions()
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	info := pterm.Info.WithWriter(out)
	info.Printfln("Input UDL file is %q", opts.UDLFile)
	info.Printfln("Chosen language is %s", opts.Language)
	info.Printfln("Output directory is %q", opts.OutDir)
	if opts.Language == language.Python && opts.PythonFixupPath != "" {
		info.Printfln("Fixing up python lib path, %q", opts.PythonFixupPath)
	}

	result, err := a.generate(cmd.Context(), cmd, opts)
	if err != nil {
		return err
	}

	msg := "Generated " + result.Language.String() + " bindings in " + result.OutDir
	if result.Patched {
		msg += " (patched " + result.PatchedFile + ")"
	}
	pterm.Success.WithWriter(out).Println(msg)
	return nil
}
