package main

import (
	"bufio"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/jask/notefeed/internal/secrets"
)

var keyCmd = &cobra.Command{
	Use:   "key",
	Short: "Manage stored provider API keys",
}

var keySetCmd = &cobra.Command{
	Use:   "set <provider>",
	Short: "Store an API key read from stdin",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		line, err := bufio.NewReader(cmd.InOrStdin()).ReadString('\n')
		if err != nil && strings.TrimSpace(line) == "" {
			return fmt.Errorf("read key: %w", err)
		}
		store, err := secrets.DefaultStore()
		if err != nil {
			return err
		}
		if err := store.Put(args[0], line); err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "stored key for %s\n", args[0])
		return nil
	},
}

var keyDeleteCmd = &cobra.Command{
	Use:   "delete <provider>",
	Short: "Remove a stored API key",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		store, err := secrets.DefaultStore()
		if err != nil {
			return err
		}
		return store.Delete(args[0])
	},
}

func init() {
	keyCmd.AddCommand(keySetCmd, keyDeleteCmd)
}
