package main

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/jask/notefeed/internal/config"
	"github.com/jask/notefeed/internal/database"
	"github.com/jask/notefeed/internal/service"
)

var cacheMaxAge time.Duration

var cacheCmd = &cobra.Command{
	Use:   "cache",
	Short: "Inspect or clear the generated artifact cache",
}

var cacheStatsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Show how many artifacts are cached",
	RunE: withMaintenance(func(cmd *cobra.Command, m *service.MaintenanceService) error {
		n, err := m.CacheSize(cmd.Context())
		if err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "%d cached artifacts\n", n)
		return nil
	}),
}

var cacheClearCmd = &cobra.Command{
	Use:   "clear",
	Short: "Remove every cached artifact",
	RunE: withMaintenance(func(cmd *cobra.Command, m *service.MaintenanceService) error {
		n, err := m.ClearCache(cmd.Context())
		if err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "removed %d artifacts\n", n)
		return nil
	}),
}

var cachePruneCmd = &cobra.Command{
	Use:   "prune",
	Short: "Remove cached artifacts older than --older-than",
	RunE: withMaintenance(func(cmd *cobra.Command, m *service.MaintenanceService) error {
		n, err := m.PruneCache(cmd.Context(), cacheMaxAge)
		if err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "removed %d artifacts\n", n)
		return nil
	}),
}

func init() {
	cachePruneCmd.Flags().DurationVar(&cacheMaxAge, "older-than", 30*24*time.Hour, "maximum artifact age to keep")
	cacheCmd.AddCommand(cacheStatsCmd, cacheClearCmd, cachePruneCmd)
}

func withMaintenance(fn func(*cobra.Command, *service.MaintenanceService) error) func(*cobra.Command, []string) error {
	return func(cmd *cobra.Command, _ []string) error {
		cfg, err := config.Load(configPath)
		if err != nil {
			return err
		}
		db, err := database.OpenMigrated(cfg.Cache.Path)
		if err != nil {
			return fmt.Errorf("open cache: %w", err)
		}
		defer db.Close()
		return fn(cmd, &service.MaintenanceService{DB: db})
	}
}
