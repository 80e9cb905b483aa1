package main

// Run database migrations:
//   go run ./cmd/migrate up
//   go run ./cmd/migrate down
//   go run ./cmd/migrate status

import (
	"context"
	"database/sql"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"coverletter-backend/internal/shared/config"
	"coverletter-backend/internal/shared/storage/db"
	"coverletter-backend/internal/shared/telemetry"
)

var rootCmd = &cobra.Command{
	Use:          "migrate",
	Short:        "Manage the cover letter database schema",
	SilenceUsage: true,
}

func init() {
	rootCmd.AddCommand(
		migrationCmd("up", "Apply all pending migrations", db.RunMigrations),
		migrationCmd("down", "Roll back the most recent migration", db.RollbackMigration),
		migrationCmd("status", "Show applied and pending migrations", db.MigrationStatus),
	)
}

func migrationCmd(use, short string, run func(context.Context, *sql.DB) error) *cobra.Command {
	return &cobra.Command{
		Use:   use,
		Short: short,
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := config.Load()
			telemetry.Init(cfg.LogLevel)
			if cfg.DatabaseURL == "" {
				return fmt.Errorf("DATABASE_URL is required")
			}

			ctx := cmd.Context()
			sqlDB, err := db.Connect(ctx, cfg.DatabaseURL, db.OptionsFromEnv(db.DefaultMigrateOptions()))
			if err != nil {
				return fmt.Errorf("connect database: %w", err)
			}
			defer sqlDB.Close()

			if err := run(ctx, sqlDB); err != nil {
				return fmt.Errorf("migrate %s: %w", use, err)
			}
			telemetry.Info("migrate.done", map[string]any{"command": use})
			return nil
		},
	}
}

func main() {
	if err := rootCmd.ExecuteContext(context.Background()); err != nil {
		os.Exit(1)
	}
}
