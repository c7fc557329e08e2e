package main

import (
	"github.com/danmuck/stsctl/internal/config"
	"github.com/spf13/cobra"
)

func newConfigCmd(opts *options) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Create, validate or show configuration",
	}

	var (
		kind  string
		force bool
	)
	initCmd := &cobra.Command{
		Use:   "init <path>",
		Short: "Write a config template",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := config.WriteTemplate(args[0], kind, force); err != nil {
				return err
			}
			cmd.Printf("wrote %s config template to %s\n", kind, args[0])
			return nil
		},
	}
	initCmd.Flags().StringVar(&kind, "kind", config.KindClient, "config kind: client|gateway")
	initCmd.Flags().BoolVar(&force, "force", false, "overwrite an existing file")

	var validateKind string
	validateCmd := &cobra.Command{
		Use:   "validate <path>",
		Short: "Load and validate a config file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := config.Validate(args[0], validateKind); err != nil {
				return err
			}
			cmd.Printf("validated %s config at %s\n", validateKind, args[0])
			return nil
		},
	}
	validateCmd.Flags().StringVar(&validateKind, "kind", config.KindClient, "config kind: client|gateway")

	showCmd := &cobra.Command{
		Use:   "show",
		Short: "Print the effective client config after file and flag overrides",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := opts.sessionConfig(cmd)
			if err != nil {
				return err
			}
			data, err := config.Encode(config.FromSession(cfg))
			if err != nil {
				return err
			}
			_, err = cmd.OutOrStdout().Write(data)
			return err
		},
	}

	cmd.AddCommand(initCmd, validateCmd, showCmd)
	return cmd
}
