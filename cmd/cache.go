package main

import (
	"fmt"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var cacheCmd = &cobra.Command{
	Use:   "cache",
	Short: "Inspect and maintain the response cache",
}

var cacheStatsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Show cache entry counts",
	RunE: func(cmd *cobra.Command, args []string) error {
		store, err := initCache(cmd.Context())
		if err != nil {
			return err
		}
		if store == nil {
			return eris.New("cache unavailable")
		}
		defer store.Close()

		stats, err := store.Stats(cmd.Context())
		if err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "total: %d\nexpired: %d\n", stats.Total, stats.Expired)
		return nil
	},
}

var cachePurgeCmd = &cobra.Command{
	Use:   "purge",
	Short: "Delete expired cache entries",
	RunE: func(cmd *cobra.Command, args []string) error {
		store, err := initCache(cmd.Context())
		if err != nil {
			return err
		}
		if store == nil {
			return eris.New("cache unavailable")
		}
		defer store.Close()

		n, err := store.DeleteExpired(cmd.Context())
		if err != nil {
			return err
		}
		zap.L().Info("purged expired cache entries", zap.Int64("count", n))
		fmt.Fprintf(cmd.OutOrStdout(), "purged: %d\n", n)
		return nil
	},
}

func init() {
	cacheCmd.AddCommand(cacheStatsCmd)
	cacheCmd.AddCommand(cachePurgeCmd)
	rootCmd.AddCommand(cacheCmd)
}
