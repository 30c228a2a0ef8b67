// Package sqlite provides SQLite database setup and configuration
package sqlite

import (
	"fmt"
	"strings"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	gormModels "github.com/macrotrack/api/internal/infrastructure/persistence/gorm"
)

// InMemory is the path that selects a private in-memory database
const InMemory = ":memory:"

// SetupDatabase creates and configures the SQLite database and migrates the
// schema with AutoMigrate
func SetupDatabase(dbPath string, gormLogger logger.Interface) (*gorm.DB, error) {
	if dbPath == "" {
		dbPath = InMemory
	}

	db, err := gorm.Open(sqlite.Open(dsn(dbPath)), &gorm.Config{
		Logger:         gormLogger,
		TranslateError: true,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get underlying sql.DB: %w", err)
	}
	// SQLite serialises writers; one connection also keeps :memory: a single database
	sqlDB.SetMaxOpenConns(1)

	if err := db.AutoMigrate(gormModels.AllModels()...); err != nil {
		return nil, fmt.Errorf("failed to migrate database: %w", err)
	}

	return db, nil
}

func dsn(path string) string {
	sep := "?"
	if strings.Contains(path, "?") {
		sep = "&"
	}
	return path + sep + "_foreign_keys=on&_busy_timeout=5000"
}
