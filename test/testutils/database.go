// Package testutils provides common testing utilities and infrastructure setup
package testutils

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"
	"go.uber.org/zap"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/macrotrack/api/internal/infrastructure/config"
	"github.com/macrotrack/api/internal/infrastructure/persistence/postgres"
	"github.com/macrotrack/api/internal/infrastructure/persistence/sqlite"
)

// NewSQLiteDB opens a private in-memory SQLite database with the schema
// migrated. It is closed when the test ends.
func NewSQLiteDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := sqlite.SetupDatabase(sqlite.InMemory, logger.Default.LogMode(logger.Silent))
	require.NoError(t, err, "Failed to open SQLite test database")

	t.Cleanup(func() {
		if sqlDB, err := db.DB(); err == nil {
			_ = sqlDB.Close()
		}
	})
	return db
}

// DatabaseConfig holds test database configuration
type DatabaseConfig struct {
	Image    string
	Database string
	Username string
	Password string
	Port     string
}

// DefaultDatabaseConfig returns the default test database configuration
func DefaultDatabaseConfig() DatabaseConfig {
	return DatabaseConfig{
		Image:    "postgres:16-alpine",
		Database: "macrotrack_test",
		Username: "test_user",
		Password: "test_password",
		Port:     "5432",
	}
}

// TestDatabase is a PostgreSQL container with the schema migrated
type TestDatabase struct {
	Container testcontainers.Container
	Manager   *postgres.ConnectionManager
	GormDB    *gorm.DB
	Config    *config.Config
}

// SetupTestDatabase starts PostgreSQL in a container and connects through the
// production connection manager, which applies the migrations
func SetupTestDatabase(t *testing.T) *TestDatabase {
	t.Helper()
	cfg := DefaultDatabaseConfig()
	ctx := context.Background()

	container, err := testcontainers.GenericContainer(ctx, testcontainers.GenericContainerRequest{
		ContainerRequest: testcontainers.ContainerRequest{
			Image:        cfg.Image,
			ExposedPorts: []string{cfg.Port + "/tcp"},
			Env: map[string]string{
				"POSTGRES_DB":       cfg.Database,
				"POSTGRES_USER":     cfg.Username,
				"POSTGRES_PASSWORD": cfg.Password,
			},
			WaitingFor: wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(60 * time.Second),
		},
		Started: true,
	})
	require.NoError(t, err, "Failed to start postgres container")

	t.Cleanup(func() {
		if err := container.Terminate(context.Background()); err != nil {
			t.Logf("Failed to terminate postgres container: %v", err)
		}
	})

	host, err := container.Host(ctx)
	require.NoError(t, err)

	port, err := container.MappedPort(ctx, "5432/tcp")
	require.NoError(t, err)

	appCfg := &config.Config{
		Database: config.DatabaseConfig{
			Driver:          "postgres",
			Host:            host,
			Port:            port.Int(),
			Database:        cfg.Database,
			Username:        cfg.Username,
			Password:        cfg.Password,
			SSLMode:         "disable",
			MaxOpenConns:    10,
			MaxIdleConns:    5,
			ConnMaxLifetime: time.Hour,
			ConnMaxIdleTime: 30 * time.Minute,
			AutoMigrate:     true,
		},
	}

	manager, err := postgres.NewConnectionManager(appCfg, logger.Default.LogMode(logger.Silent), zap.NewNop())
	require.NoError(t, err, "Failed to connect to test database")

	t.Cleanup(func() { _ = manager.Close() })

	return &TestDatabase{
		Container: container,
		Manager:   manager,
		GormDB:    manager.GetDB(),
		Config:    appCfg,
	}
}

// TruncateAllTables removes all rows while preserving the schema
func (td *TestDatabase) TruncateAllTables() error {
	tables := []string{"daily_intakes", "food_entries", "vitals_readings", "goal_profiles", "users"}
	for _, table := range tables {
		if err := td.GormDB.Exec(fmt.Sprintf("TRUNCATE TABLE %s CASCADE", table)).Error; err != nil {
			return fmt.Errorf("failed to truncate table %s: %w", table, err)
		}
	}
	return nil
}
