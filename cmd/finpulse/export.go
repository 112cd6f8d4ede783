package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/iwvelando/finpulse/internal/config"
)

func newConfigCmd() *cobra.Command {
	var configPath string
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Print the effective configuration as YAML",
		Long: `Load the configuration file and FINPULSE_* environment overrides, fill in
defaults and print the result. The output is a complete config.yaml.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			conf, err := config.LoadConfiguration(configPath)
			if err != nil {
				return fmt.Errorf("failed to load configuration at %s: %w", configPath, err)
			}
			data, err := conf.Export()
			if err != nil {
				return err
			}
			_, err = cmd.OutOrStdout().Write(data)
			return err
		},
	}
	cmd.Flags().StringVar(&configPath, "config", "", "path to configuration file (defaults only when empty)")
	return cmd
}
