// Package postgres provides PostgreSQL database connection and management
package postgres

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/stdlib"
	"go.uber.org/zap"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
	"gorm.io/plugin/dbresolver"

	"github.com/macrotrack/api/internal/infrastructure/config"
	"github.com/macrotrack/api/internal/infrastructure/persistence/migrations"
)

// ConnectionManager owns the primary connection pool and any read replicas
type ConnectionManager struct {
	config *config.Config
	logger *zap.Logger
	db     *gorm.DB
}

// NewConnectionManager opens the primary database through pgx, registers read
// replicas and applies pending migrations
func NewConnectionManager(cfg *config.Config, gormLogger logger.Interface, log *zap.Logger) (*ConnectionManager, error) {
	cm := &ConnectionManager{
		config: cfg,
		logger: log.Named("postgres"),
	}

	primary, err := openPool(cfg.GetDSN(), cfg.Database)
	if err != nil {
		return nil, fmt.Errorf("failed to open primary: %w", err)
	}

	db, err := gorm.Open(postgres.New(postgres.Config{Conn: primary}), &gorm.Config{
		Logger:                 gormLogger,
		SkipDefaultTransaction: true,
		TranslateError:         true,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := primary.PingContext(ctx); err != nil {
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}
	cm.db = db

	if err := cm.initializeReadReplicas(); err != nil {
		cm.logger.Warn("Failed to initialize read replicas", zap.Error(err))
	}

	if cfg.Database.AutoMigrate {
		if err := cm.migrate(); err != nil {
			return nil, err
		}
	}

	cm.logger.Info("Database connection manager initialized",
		zap.Int("max_open_conns", cfg.Database.MaxOpenConns),
		zap.Int("read_replicas", len(cfg.Database.ReplicaDSNs)),
	)

	return cm, nil
}

// openPool parses the DSN with pgx and wraps it as a database/sql pool
func openPool(dsn string, dbCfg config.DatabaseConfig) (*sql.DB, error) {
	connConfig, err := pgx.ParseConfig(dsn)
	if err != nil {
		return nil, fmt.Errorf("parse dsn: %w", err)
	}

	sqlDB := stdlib.OpenDB(*connConfig)
	sqlDB.SetMaxOpenConns(dbCfg.MaxOpenConns)
	sqlDB.SetMaxIdleConns(dbCfg.MaxIdleConns)
	sqlDB.SetConnMaxLifetime(dbCfg.ConnMaxLifetime)
	sqlDB.SetConnMaxIdleTime(dbCfg.ConnMaxIdleTime)
	return sqlDB, nil
}

// initializeReadReplicas routes reads to replicas with dbresolver
func (cm *ConnectionManager) initializeReadReplicas() error {
	if len(cm.config.Database.ReplicaDSNs) == 0 {
		return nil
	}

	replicas := make([]gorm.Dialector, 0, len(cm.config.Database.ReplicaDSNs))
	for _, dsn := range cm.config.Database.ReplicaDSNs {
		pool, err := openPool(dsn, cm.config.Database)
		if err != nil {
			return fmt.Errorf("replica: %w", err)
		}
		replicas = append(replicas, postgres.New(postgres.Config{Conn: pool}))
	}

	return cm.db.Use(dbresolver.Register(dbresolver.Config{
		Replicas: replicas,
		Policy:   dbresolver.RoundRobinPolicy(),
	}).
		SetMaxOpenConns(cm.config.Database.MaxOpenConns).
		SetMaxIdleConns(cm.config.Database.MaxIdleConns).
		SetConnMaxLifetime(cm.config.Database.ConnMaxLifetime))
}

// migrate applies every pending migration
func (cm *ConnectionManager) migrate() error {
	m, err := NewMigrator(cm.config, cm.logger)
	if err != nil {
		return err
	}
	defer m.Close()

	return m.Up()
}

// NewMigrator opens the embedded SQL migrations over a dedicated connection so
// closing the migrator leaves the main pool untouched
func NewMigrator(cfg *config.Config, log *zap.Logger) (*migrations.Migrator, error) {
	migrationDB, err := openPool(cfg.GetDSN(), config.DatabaseConfig{MaxOpenConns: 1, MaxIdleConns: 1})
	if err != nil {
		return nil, err
	}

	m, err := migrations.New(migrationDB, cfg.Database.Database, log)
	if err != nil {
		_ = migrationDB.Close()
		return nil, err
	}
	return m, nil
}

// GetDB returns the GORM handle
func (cm *ConnectionManager) GetDB() *gorm.DB {
	return cm.db
}

// HealthCheck pings the primary
func (cm *ConnectionManager) HealthCheck(ctx context.Context) error {
	sqlDB, err := cm.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.PingContext(ctx)
}

// Close closes the primary pool
func (cm *ConnectionManager) Close() error {
	sqlDB, err := cm.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}
