package main

import (
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"medsched/config"
	"medsched/pkg/database"
	"medsched/pkg/logger"
)

func migrateCmd() *cobra.Command {
	var dir string

	cmd := &cobra.Command{
		Use:   "migrate",
		Short: "Apply pending database migrations",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.NewConfig()
			if err != nil {
				return err
			}
			if dir == "" {
				dir = cfg.Postgres.MigrationsDir
			}

			log, err := logger.NewLogger(cfg)
			if err != nil {
				return fmt.Errorf("failed to init logger: %w", err)
			}
			defer log.Sync()

			ctx := cmd.Context()

			db, err := database.NewPostgresDB(ctx, cfg.Postgres)
			if err != nil {
				return err
			}
			defer db.Close()

			applied, err := database.RunMigrations(ctx, db, dir, log)
			if err != nil {
				return fmt.Errorf("migration failed: %w", err)
			}

			log.Info("migrations applied", zap.Int("count", applied), zap.String("dir", dir))
			return nil
		},
	}
	cmd.Flags().StringVar(&dir, "dir", "", "Path to the migrations directory (defaults to POSTGRES_MIGRATIONS_DIR)")

	return cmd
}
