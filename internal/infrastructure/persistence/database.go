// Package persistence selects and opens the configured database
package persistence

import (
	"context"
	"fmt"

	"go.uber.org/zap"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/macrotrack/api/internal/infrastructure/config"
	"github.com/macrotrack/api/internal/infrastructure/persistence/postgres"
	"github.com/macrotrack/api/internal/infrastructure/persistence/sqlite"
)

// Database is an open store plus its shutdown hook
type Database struct {
	DB    *gorm.DB
	close func() error
}

// Open connects to SQLite or PostgreSQL as configured
func Open(cfg *config.Config, log *zap.Logger) (*Database, error) {
	gormLogger := NewGormLogger(cfg, log)

	switch cfg.Database.Driver {
	case "sqlite":
		db, err := sqlite.SetupDatabase(cfg.Database.Path, gormLogger)
		if err != nil {
			return nil, err
		}
		log.Info("Connected to SQLite", zap.String("path", cfg.Database.Path))
		return &Database{DB: db, close: closer(db)}, nil

	case "postgres":
		cm, err := postgres.NewConnectionManager(cfg, gormLogger, log)
		if err != nil {
			return nil, err
		}
		log.Info("Connected to PostgreSQL",
			zap.String("host", cfg.Database.Host),
			zap.String("database", cfg.Database.Database),
		)
		return &Database{DB: cm.GetDB(), close: cm.Close}, nil

	default:
		return nil, fmt.Errorf("unsupported database driver %q", cfg.Database.Driver)
	}
}

// Ping checks the connection
func (d *Database) Ping(ctx context.Context) error {
	sqlDB, err := d.DB.DB()
	if err != nil {
		return err
	}
	return sqlDB.PingContext(ctx)
}

// Close releases the connection pool
func (d *Database) Close() error {
	if d.close == nil {
		return nil
	}
	return d.close()
}

func closer(db *gorm.DB) func() error {
	return func() error {
		sqlDB, err := db.DB()
		if err != nil {
			return err
		}
		return sqlDB.Close()
	}
}

// NewGormLogger routes GORM's slow-query and error output through zap
func NewGormLogger(cfg *config.Config, log *zap.Logger) logger.Interface {
	return logger.New(
		zap.NewStdLog(log.Named("gorm")),
		logger.Config{
			SlowThreshold:             cfg.Database.SlowQueryThreshold,
			LogLevel:                  gormLevel(cfg.Database.LogLevel),
			IgnoreRecordNotFoundError: true,
		},
	)
}

func gormLevel(name string) logger.LogLevel {
	switch name {
	case "silent":
		return logger.Silent
	case "error":
		return logger.Error
	case "info":
		return logger.Info
	default:
		return logger.Warn
	}
}
