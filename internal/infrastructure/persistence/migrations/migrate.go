// Package migrations applies the embedded MacroTrack schema (users, goal
// profiles, vitals, food entries, daily intake) with golang-migrate
package migrations

import (
	"database/sql"
	"embed"
	"errors"
	"fmt"
	"time"

	"github.com/golang-migrate/migrate/v4"
	"github.com/golang-migrate/migrate/v4/database/postgres"
	"github.com/golang-migrate/migrate/v4/source/iofs"
	"go.uber.org/zap"
)

//go:embed sql/*.sql
var sqlFiles embed.FS

// Migrator wraps a golang-migrate instance bound to the embedded SQL
type Migrator struct {
	migrate *migrate.Migrate
	logger  *zap.Logger
}

// New binds the embedded migrations to db. Close releases db as well.
func New(db *sql.DB, databaseName string, logger *zap.Logger) (*Migrator, error) {
	source, err := iofs.New(sqlFiles, "sql")
	if err != nil {
		return nil, fmt.Errorf("migrations: open embedded source: %w", err)
	}

	driver, err := postgres.WithInstance(db, &postgres.Config{
		MigrationsTable: "schema_migrations",
		DatabaseName:    databaseName,
	})
	if err != nil {
		return nil, fmt.Errorf("migrations: postgres driver: %w", err)
	}

	m, err := migrate.NewWithInstance("iofs", source, "postgres", driver)
	if err != nil {
		return nil, fmt.Errorf("migrations: init: %w", err)
	}

	return &Migrator{
		migrate: m,
		logger:  logger.Named("migrations"),
	}, nil
}

// Up applies every pending migration. An up-to-date schema is not an error.
func (m *Migrator) Up() error {
	start := time.Now()
	from, _, err := m.Version()
	if err != nil {
		return fmt.Errorf("migrations: read version: %w", err)
	}

	err = m.migrate.Up()
	if errors.Is(err, migrate.ErrNoChange) {
		m.logger.Info("Schema is current", zap.Uint("version", from))
		return nil
	}
	if err != nil {
		return fmt.Errorf("migrations: up from %d: %w", from, err)
	}

	to, _, _ := m.Version()
	m.logger.Info("Schema migrated",
		zap.Uint("from", from),
		zap.Uint("to", to),
		zap.Duration("took", time.Since(start)),
	)
	return nil
}

// Steps moves n migrations forward, or back when n is negative
func (m *Migrator) Steps(n int) error {
	m.logger.Info("Stepping schema", zap.Int("steps", n))
	if err := m.migrate.Steps(n); err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return fmt.Errorf("migrations: step %d: %w", n, err)
	}
	return nil
}

// Version reports the applied version; an empty schema is version 0
func (m *Migrator) Version() (uint, bool, error) {
	version, dirty, err := m.migrate.Version()
	if errors.Is(err, migrate.ErrNilVersion) {
		return 0, false, nil
	}
	return version, dirty, err
}

// Close releases the migration source and the database handle passed to New
func (m *Migrator) Close() error {
	srcErr, dbErr := m.migrate.Close()
	return errors.Join(srcErr, dbErr)
}
