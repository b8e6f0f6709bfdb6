package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/jask/notefeed/internal/config"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Work with the config file",
}

var configInitCmd = &cobra.Command{
	Use:   "init",
	Short: "Write the effective configuration to the config file",
	RunE: func(cmd *cobra.Command, _ []string) error {
		cfg, err := config.LoadOrDefaults(configPath)
		if err != nil {
			return err
		}
		if err := config.Save(cfg, configPath); err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), "config written")
		return nil
	},
}

func init() {
	configCmd.AddCommand(configInitCmd)
}
