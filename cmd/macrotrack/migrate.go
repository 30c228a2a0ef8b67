package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/macrotrack/api/internal/infrastructure/config"
	"github.com/macrotrack/api/internal/infrastructure/persistence/migrations"
	"github.com/macrotrack/api/internal/infrastructure/persistence/postgres"
	"github.com/macrotrack/api/pkg/logger"
)

var migrateSteps int

func init() {
	migrateDownCmd.Flags().IntVar(&migrateSteps, "steps", 1, "number of migrations to roll back")

	migrateCmd.AddCommand(migrateUpCmd)
	migrateCmd.AddCommand(migrateDownCmd)
	migrateCmd.AddCommand(migrateStatusCmd)
}

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Manage the PostgreSQL schema",
	Long:  "Apply or roll back the embedded SQL migrations. SQLite databases are migrated automatically on open.",
}

var migrateUpCmd = &cobra.Command{
	Use:   "up",
	Short: "Apply all pending migrations",
	RunE: func(cmd *cobra.Command, args []string) error {
		return withMigrator(func(m *migrations.Migrator) error {
			return m.Up()
		})
	},
}

var migrateDownCmd = &cobra.Command{
	Use:   "down",
	Short: "Roll back migrations",
	RunE: func(cmd *cobra.Command, args []string) error {
		if migrateSteps < 1 {
			return fmt.Errorf("--steps must be at least 1")
		}
		return withMigrator(func(m *migrations.Migrator) error {
			return m.Steps(-migrateSteps)
		})
	},
}

var migrateStatusCmd = &cobra.Command{
	Use:   "status",
	Short: "Print the current schema version",
	RunE: func(cmd *cobra.Command, args []string) error {
		return withMigrator(func(m *migrations.Migrator) error {
			version, dirty, err := m.Version()
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "version %d (dirty: %t)\n", version, dirty)
			return nil
		})
	},
}

func withMigrator(fn func(*migrations.Migrator) error) error {
	cfg, err := config.Load(configPath)
	if err != nil {
		return err
	}
	if cfg.Database.Driver != "postgres" {
		return fmt.Errorf("migrations need the postgres driver, configured driver is %q", cfg.Database.Driver)
	}

	log, err := logger.New(logger.Config{Level: cfg.App.LogLevel, Format: cfg.App.LogFormat})
	if err != nil {
		return err
	}
	defer func() { _ = log.Sync() }()

	m, err := postgres.NewMigrator(cfg, log.Logger)
	if err != nil {
		return err
	}
	defer m.Close()

	return fn(m)
}
