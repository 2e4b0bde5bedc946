package commands

import (
	"fmt"

	"github.com/pterm/pterm"
	"github.com/spf13/cobra"

	"github.com/bitcoindevkit/bdk-ffi-bindgen/config"
	"github.com/bitcoindevkit/bdk-ffi-bindgen/errors"
)

func newConfigCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Inspect and create bindgen.toml",
		Long: `Show, validate or create the bdk-ffi-bindgen configuration.

Examples:
  bdk-ffi-bindgen config show                 # Resolved configuration as TOML
  bdk-ffi-bindgen config show --format json   # ... as JSON
  bdk-ffi-bindgen config validate -l python   # Check a run would be accepted
  bdk-ffi-bindgen config init                 # Write bindgen.toml with defaults`,
	}

	var format string
	show := &cobra.Command{
		Use:   "show",
		Short: "Show the resolved configuration",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			data, err := config.Marshal(a.cfg, format)
			if err != nil {
				return err
			}
			if a.cfgFile != "" && format != "json" {
				fmt.Fprintf(cmd.OutOrStdout(), "# loaded from %s\n", a.cfgFile)
			}
			_, err = cmd.OutOrStdout().Write(data)
			return err
		},
	}
	show.Flags().StringVar(&format, "format", "toml", "Output format: toml, json, yaml")

	validate := &cobra.Command{
		Use:   "validate",
		Short: "Validate the resolved configuration",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := a.cfg.Validate(); err != nil {
				return errors.Wrap(err, "configuration validation failed")
			}
			pterm.Success.WithWriter(cmd.OutOrStdout()).Println("Configuration is valid")
			return nil
		},
	}

	initCmd := &cobra.Command{
		Use:   "init [path]",
		Short: "Write a bindgen.toml with default values",
		Args:  cobra.MaximumNArgs(1),
		Annotations: map[string]string{
			skipConfig: "true",
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			path := config.FileName
			if len(args) == 1 {
				path = args[0]
			}
			if err := config.WriteFile(path, config.Defaults()); err != nil {
				return err
			}
			pterm.Success.WithWriter(cmd.OutOrStdout()).Printfln("Wrote %s", path)
			return nil
		},
	}

	cmd.AddCommand(show, validate, initCmd)
	return cmd
}
