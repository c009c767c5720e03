package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/jonathan/interview-prep/internal/db"
)

var prunePagesCmd = &cobra.Command{
	Use:   "prune-pages",
	Short: "Delete expired pages from the fetch cache",
	RunE:  runPrunePages,
}

func init() {
	rootCmd.AddCommand(prunePagesCmd)
}

func runPrunePages(cmd *cobra.Command, _ []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	if cfg.DatabaseURL == "" {
		return fmt.Errorf("DATABASE_URL environment variable is required")
	}
	logger, err := newLogger(cfg)
	if err != nil {
		return err
	}
	defer logger.Sync() //nolint:errcheck

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	database, err := db.New(cfg.DatabaseURL)
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}
	defer database.Close()

	n, err := database.DeleteExpiredPages(ctx)
	if err != nil {
		return err
	}
	logger.Info("pruned source page cache", zap.Int64("deleted", n))
	fmt.Fprintf(cmd.OutOrStdout(), "Deleted %d expired page(s)\n", n) //nolint:errcheck
	return nil
}
