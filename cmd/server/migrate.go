package main

import (
	"fmt"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/arturoeanton/codeoh-assistant/internal/adapter/store"
)

var migrateCmd = &cobra.Command{
	Use:       "migrate [up|down]",
	Short:     "Apply or roll back the database schema",
	Args:      cobra.MatchAll(cobra.MaximumNArgs(1), cobra.OnlyValidArgs),
	ValidArgs: []string{store.MigrateUp, store.MigrateDown},
	RunE:      runMigrate,
}

func init() {
	rootCmd.AddCommand(migrateCmd)
}

func runMigrate(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	direction := store.MigrateUp
	if len(args) == 1 {
		direction = args[0]
	}

	pgStore, err := store.NewPostgresStore(cfg.DatabaseURL, cfg.StoreTimeout)
	if err != nil {
		return fmt.Errorf("connect database: %w", err)
	}
	defer pgStore.Close()

	if err := store.Migrate(pgStore.DB().DB, direction); err != nil {
		return err
	}
	slog.Info("migrations applied", "direction", direction, "database", cfg.DSN())
	return nil
}
