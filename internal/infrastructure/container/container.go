// Package container provides dependency injection using Uber FX
// This implements the Dependency Inversion Principle from SOLID
package container

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/gorm"

	appgoals "github.com/macrotrack/api/internal/application/goals"
	appintake "github.com/macrotrack/api/internal/application/intake"
	appnutrition "github.com/macrotrack/api/internal/application/nutrition"
	appuser "github.com/macrotrack/api/internal/application/user"
	"github.com/macrotrack/api/internal/domain/shared"
	"github.com/macrotrack/api/internal/infrastructure/ai"
	"github.com/macrotrack/api/internal/infrastructure/config"
	"github.com/macrotrack/api/internal/infrastructure/http/apiserver"
	"github.com/macrotrack/api/internal/infrastructure/http/handlers"
	"github.com/macrotrack/api/internal/infrastructure/http/middleware"
	"github.com/macrotrack/api/internal/infrastructure/monitoring"
	"github.com/macrotrack/api/internal/infrastructure/persistence"
	gormRepo "github.com/macrotrack/api/internal/infrastructure/persistence/gorm"
	"github.com/macrotrack/api/internal/infrastructure/persistence/memory"
	redisRepo "github.com/macrotrack/api/internal/infrastructure/persistence/redis"
	"github.com/macrotrack/api/internal/infrastructure/security"
	"github.com/macrotrack/api/internal/ports/outbound"
	"github.com/macrotrack/api/pkg/healthcheck"
	"github.com/macrotrack/api/pkg/logger"
)

// ConfigPath is the config file to load. Empty searches the default locations.
type ConfigPath string

// Module provides all dependency injection modules
var Module = fx.Options(
	// Infrastructure modules
	ConfigModule,
	LoggerModule,
	MonitoringModule,
	DatabaseModule,
	CacheModule,

	// Repository modules
	RepositoryModule,

	// Service modules
	SecurityModule,
	ServiceModule,

	// Event modules
	EventModule,

	// HTTP modules
	HTTPModule,

	// Lifecycle hooks
	LifecycleModule,
)

// ConfigModule provides configuration
var ConfigModule = fx.Provide(
	func(path ConfigPath) (*config.Config, error) {
		return config.Load(string(path))
	},
)

// LoggerModule provides logging
var LoggerModule = fx.Provide(
	func(cfg *config.Config) (*logger.Logger, error) {
		return logger.New(logger.Config{
			Level:       cfg.App.LogLevel,
			Format:      cfg.App.LogFormat,
			Development: cfg.App.Debug,
		})
	},
	func(l *logger.Logger) *zap.Logger {
		return l.Logger
	},
)

// MonitoringModule provides the Prometheus collector and the OpenTelemetry
// provider that exports into it
var MonitoringModule = fx.Provide(
	monitoring.NewMetricsCollector,
	func(cfg *config.Config, metrics *monitoring.MetricsCollector, log *zap.Logger) (*monitoring.OpenTelemetryProvider, error) {
		return monitoring.NewOpenTelemetryProvider(monitoring.OpenTelemetryConfig{
			ServiceName:    cfg.App.Name,
			ServiceVersion: cfg.App.Version,
			Environment:    cfg.App.Environment,
			TracingEnabled: cfg.Monitoring.EnableTracing,
			OTLPEndpoint:   cfg.Monitoring.OTLPEndpoint,
			OTLPInsecure:   cfg.Monitoring.OTLPInsecure,
			SamplingRate:   cfg.Monitoring.SamplingRate,
		}, metrics, log)
	},
	func(metrics *monitoring.MetricsCollector) outbound.LookupObserver {
		return metrics
	},
)

// DatabaseModule provides database connections
var DatabaseModule = fx.Provide(
	func(cfg *config.Config, log *zap.Logger, metrics *monitoring.MetricsCollector) (*persistence.Database, error) {
		db, err := persistence.Open(cfg, log)
		if err != nil {
			return nil, fmt.Errorf("failed to open database: %w", err)
		}
		if sqlDB, err := db.DB.DB(); err == nil {
			metrics.RegisterDB(sqlDB, cfg.Database.Driver)
		}
		return db, nil
	},
	func(db *persistence.Database) *gorm.DB {
		return db.DB
	},
)

type closableCache interface {
	outbound.CacheRepository
	Close() error
}

// CacheModule provides caching
var CacheModule = fx.Provide(
	func(cfg *config.Config, log *zap.Logger, lc fx.Lifecycle) outbound.CacheRepository {
		var cache closableCache
		switch cfg.Cache.Driver {
		case "redis":
			log.Info("Using Redis cache", zap.String("addr", cfg.RedisAddr()))
			cache = redisRepo.NewCacheRepository(redisRepo.NewClient(cfg), log)
		default:
			log.Info("Using in-memory cache")
			cache = memory.NewCacheRepository(time.Minute)
		}

		lc.Append(fx.Hook{
			OnStart: func(ctx context.Context) error {
				if err := cache.Ping(ctx); err != nil {
					log.Warn("Cache is not reachable yet", zap.Error(err))
				}
				return nil
			},
			OnStop: func(context.Context) error {
				return cache.Close()
			},
		})
		return cache
	},
)

// RepositoryModule provides repository implementations
var RepositoryModule = fx.Provide(
	fx.Annotate(gormRepo.NewUserRepository, fx.As(new(outbound.UserRepository))),
	fx.Annotate(gormRepo.NewGoalProfileRepository, fx.As(new(outbound.GoalProfileRepository))),
	fx.Annotate(gormRepo.NewVitalsRepository, fx.As(new(outbound.VitalsRepository))),
	fx.Annotate(gormRepo.NewFoodRepository, fx.As(new(outbound.FoodRepository))),
	fx.Annotate(gormRepo.NewDailyIntakeRepository, fx.As(new(outbound.DailyIntakeRepository))),
	fx.Annotate(gormRepo.NewUnitOfWork, fx.As(new(outbound.UnitOfWork))),
)

// SecurityModule provides token signing, validation and revocation
var SecurityModule = fx.Provide(
	fx.Annotate(security.NewCacheRevoker, fx.As(new(outbound.TokenRevoker))),
	security.NewAuthService,
	func(a *security.AuthService) outbound.TokenIssuer { return a },
	func(a *security.AuthService) middleware.TokenValidator { return a },
)

// ServiceModule provides application services
var ServiceModule = fx.Provide(
	func() outbound.Clock { return outbound.SystemClock{} },

	func(cfg *config.Config, log *zap.Logger) (outbound.NutritionProvider, error) {
		return ai.NewProvider(cfg.AI, log.Named("ai"))
	},

	func(
		users outbound.UserRepository,
		profiles outbound.GoalProfileRepository,
		tokens outbound.TokenIssuer,
		revoker outbound.TokenRevoker,
		dispatcher shared.EventDispatcher,
		cfg *config.Config,
		log *zap.Logger,
	) *appuser.UserService {
		return appuser.NewUserService(users, profiles, tokens, revoker, dispatcher, cfg.Auth.BCryptCost, log)
	},

	func(
		profiles outbound.GoalProfileRepository,
		vitals outbound.VitalsRepository,
		uow outbound.UnitOfWork,
		cache outbound.CacheRepository,
		dispatcher shared.EventDispatcher,
		clock outbound.Clock,
		cfg *config.Config,
		log *zap.Logger,
	) *appgoals.Service {
		return appgoals.NewService(profiles, vitals, uow, cache, dispatcher, clock, cfg.Cache.GoalsTTL, log)
	},

	func(
		foods outbound.FoodRepository,
		days outbound.DailyIntakeRepository,
		profiles outbound.GoalProfileRepository,
		clock outbound.Clock,
		cfg *config.Config,
		log *zap.Logger,
	) *appintake.Service {
		return appintake.NewService(foods, days, profiles, clock, cfg.Location(), log)
	},

	func(
		provider outbound.NutritionProvider,
		cache outbound.CacheRepository,
		observer outbound.LookupObserver,
		cfg *config.Config,
		log *zap.Logger,
	) *appnutrition.Service {
		return appnutrition.NewService(provider, cache, observer, cfg.Cache.NutritionTTL, log)
	},
)

// EventModule provides event handling
var EventModule = fx.Options(
	fx.Provide(
		NewEventDispatcher,
		func(d *EventDispatcher) shared.EventDispatcher { return d },
	),
	fx.Invoke(RegisterEventHandlers),
)

// HTTPModule provides HTTP server and handlers
var HTTPModule = fx.Provide(
	handlers.NewValidator,
	handlers.NewAuthAPIHandlers,
	handlers.NewGoalsAPIHandlers,
	handlers.NewIntakeAPIHandlers,
	handlers.NewNutritionAPIHandlers,

	func(cfg *config.Config, log *zap.Logger, db *persistence.Database, cache outbound.CacheRepository) *healthcheck.HealthCheck {
		hc := healthcheck.New(cfg.App.Version, log.Named("health"))
		hc.Register("database", healthcheck.NewPingChecker(db.Ping))
		hc.Register("cache", healthcheck.NewPingChecker(cache.Ping))
		return hc
	},

	func(cfg *config.Config, metrics *monitoring.MetricsCollector, log *zap.Logger) *middleware.RateLimiter {
		return middleware.NewRateLimiter(cfg.RateLimit, metrics, log.Named("ratelimit"))
	},

	func(
		cfg *config.Config,
		log *zap.Logger,
		auth *handlers.AuthAPIHandlers,
		goals *handlers.GoalsAPIHandlers,
		intake *handlers.IntakeAPIHandlers,
		nutrition *handlers.NutritionAPIHandlers,
		health *healthcheck.HealthCheck,
		tokens middleware.TokenValidator,
		limiter *middleware.RateLimiter,
		metrics *monitoring.MetricsCollector,
		telemetry *monitoring.OpenTelemetryProvider,
	) *apiserver.APIServer {
		return apiserver.NewAPIServer(cfg, log, apiserver.Dependencies{
			Auth:      auth,
			Goals:     goals,
			Intake:    intake,
			Nutrition: nutrition,
			Health:    health,
			Tokens:    tokens,
			Limiter:   limiter,
			Metrics:   metrics,
			Telemetry: telemetry,
		})
	},
)

// LifecycleModule provides lifecycle hooks
var LifecycleModule = fx.Invoke(
	RegisterLifecycleHooks,
)

// RegisterLifecycleHooks registers application lifecycle hooks
func RegisterLifecycleHooks(
	lc fx.Lifecycle,
	shutdowner fx.Shutdowner,
	cfg *config.Config,
	log *logger.Logger,
	db *persistence.Database,
	server *apiserver.APIServer,
	limiter *middleware.RateLimiter,
	telemetry *monitoring.OpenTelemetryProvider,
) {
	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			log.Info("Starting MacroTrack",
				zap.String("version", cfg.App.Version),
				zap.String("environment", cfg.App.Environment),
				zap.String("database", cfg.Database.Driver),
				zap.String("cache", cfg.Cache.Driver),
				zap.String("ai_provider", cfg.AI.Provider),
			)

			if cfg.Watch(func(next *config.Config) {
				log.SetLevel(next.App.LogLevel)
				log.Info("Configuration reloaded", zap.String("log_level", next.App.LogLevel))
			}, func(err error) {
				log.Warn("Ignoring invalid configuration change", zap.Error(err))
			}) {
				log.Info("Watching configuration file for log level changes")
			}

			limiter.Start()

			go func() {
				if err := server.Start(); err != nil {
					log.Error("HTTP server failed", zap.Error(err))
					_ = shutdowner.Shutdown()
				}
			}()

			return nil
		},
		OnStop: func(ctx context.Context) error {
			log.Info("Shutting down MacroTrack")

			if err := server.Shutdown(ctx); err != nil {
				log.Error("Failed to shutdown HTTP server", zap.Error(err))
			}
			limiter.Stop()

			if err := telemetry.Shutdown(ctx); err != nil {
				log.Error("Failed to shutdown telemetry", zap.Error(err))
			}

			if err := db.Close(); err != nil {
				log.Error("Failed to close database connection", zap.Error(err))
			}

			_ = log.Sync()
			return nil
		},
	})
}
