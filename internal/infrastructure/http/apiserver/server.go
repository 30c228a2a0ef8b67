// Package apiserver provides the JSON API HTTP server
package apiserver

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"
	"golang.org/x/net/http2"
	"golang.org/x/net/http2/h2c"

	"github.com/macrotrack/api/internal/infrastructure/config"
	"github.com/macrotrack/api/internal/infrastructure/http/handlers"
	"github.com/macrotrack/api/internal/infrastructure/http/middleware"
	"github.com/macrotrack/api/internal/infrastructure/monitoring"
	apperrors "github.com/macrotrack/api/pkg/errors"
	"github.com/macrotrack/api/pkg/healthcheck"
)

// Dependencies are the handlers and cross-cutting services the router mounts.
// Metrics and Telemetry may be nil.
type Dependencies struct {
	Auth      *handlers.AuthAPIHandlers
	Goals     *handlers.GoalsAPIHandlers
	Intake    *handlers.IntakeAPIHandlers
	Nutrition *handlers.NutritionAPIHandlers
	Health    *healthcheck.HealthCheck
	Tokens    middleware.TokenValidator
	Limiter   *middleware.RateLimiter
	Metrics   *monitoring.MetricsCollector
	Telemetry *monitoring.OpenTelemetryProvider
}

// APIServer represents the JSON API HTTP server
type APIServer struct {
	config *config.Config
	logger *zap.Logger
	deps   Dependencies
	server *http.Server
	router *chi.Mux
}

// NewAPIServer creates a new API server instance
func NewAPIServer(cfg *config.Config, log *zap.Logger, deps Dependencies) *APIServer {
	s := &APIServer{
		config: cfg,
		logger: log.Named("http"),
		deps:   deps,
	}

	s.router = s.setupRoutes()

	var handler http.Handler = s.router
	if deps.Telemetry != nil {
		handler = deps.Telemetry.InstrumentHTTPHandler(handler, "macrotrack-api")
	}
	if cfg.Server.EnableH2C {
		handler = h2c.NewHandler(handler, &http2.Server{IdleTimeout: cfg.Server.IdleTimeout})
	}

	s.server = &http.Server{
		Addr:           net.JoinHostPort(cfg.Server.Host, fmt.Sprint(cfg.Server.Port)),
		Handler:        handler,
		ReadTimeout:    cfg.Server.ReadTimeout,
		WriteTimeout:   cfg.Server.WriteTimeout,
		IdleTimeout:    cfg.Server.IdleTimeout,
		MaxHeaderBytes: cfg.Server.MaxHeaderBytes,
		ErrorLog:       zap.NewStdLog(s.logger),
	}

	return s
}

// setupRoutes configures the JSON API routes
func (s *APIServer) setupRoutes() *chi.Mux {
	r := chi.NewRouter()

	r.Use(chimiddleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(middleware.Logger(s.logger))
	r.Use(chimiddleware.Recoverer)
	if s.deps.Metrics != nil {
		r.Use(s.deps.Metrics.HTTPMiddleware)
	}
	r.Use(middleware.Security())
	if s.config.Server.EnableCORS {
		r.Use(middleware.CORS(s.config.Server.AllowedOrigins))
	}
	r.Use(chimiddleware.Compress(5))

	r.Get(s.config.Monitoring.HealthCheckPath, s.deps.Health.LivenessHandler())
	r.Get(s.config.Monitoring.ReadinessPath, s.deps.Health.ReadinessHandler())
	if s.deps.Metrics != nil && s.config.Monitoring.EnableMetrics {
		r.Method(http.MethodGet, s.config.Monitoring.MetricsPath, s.deps.Metrics.Handler())
	}

	r.Group(func(r chi.Router) {
		r.Use(chimiddleware.Timeout(s.requestTimeout()))
		r.Use(middleware.JSONOnly())
		r.Use(middleware.BodyLimit(s.config.Server.MaxBodyBytes))
		if s.deps.Limiter != nil {
			r.Use(s.deps.Limiter.Middleware)
		}

		// Public routes
		r.Post("/signup", s.deps.Auth.Signup)
		r.Post("/login", s.deps.Auth.Login)
		r.Post("/api/analyze", s.deps.Nutrition.Analyze)

		// Protected routes
		r.Group(func(r chi.Router) {
			r.Use(middleware.AuthenticateAPI(s.deps.Tokens, s.logger))

			r.Post("/logout", s.deps.Auth.Logout)
			r.Get("/profile", s.deps.Auth.GetProfile)
			r.Put("/profile", s.deps.Auth.UpdateProfile)

			r.Route("/api", func(r chi.Router) {
				r.Post("/calculate-goals", s.deps.Goals.CalculateGoals)
				r.Get("/fetchGoal", s.deps.Goals.FetchGoal)
				r.Post("/vitals", s.deps.Goals.RecordVitals)
				r.Get("/vitals", s.deps.Goals.ListVitals)

				r.Post("/add-food", s.deps.Intake.AddFood)
				r.Get("/selected-food", s.deps.Intake.SelectedFoods)
				r.Get("/latest-food", s.deps.Intake.LatestFood)
				r.Post("/add-food-to-dashboard", s.deps.Intake.AddToDashboard)
				r.Get("/dashboard-data", s.deps.Intake.Dashboard)
			})
		})
	})

	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		middleware.WriteError(w, r, apperrors.NewNotFoundError("Route"), 0)
	})

	return r
}

// requestTimeout leaves room under the write timeout for the response itself
func (s *APIServer) requestTimeout() time.Duration {
	if t := s.config.Server.WriteTimeout; t > time.Second {
		return t - time.Second
	}
	return 30 * time.Second
}

// Handler returns the fully wrapped HTTP handler
func (s *APIServer) Handler() http.Handler {
	return s.server.Handler
}

// Start serves until Shutdown is called
func (s *APIServer) Start() error {
	s.logger.Info("Starting API server",
		zap.String("addr", s.server.Addr),
		zap.Bool("h2c", s.config.Server.EnableH2C),
	)
	if err := s.server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

// Serve accepts connections on l until Shutdown is called
func (s *APIServer) Serve(l net.Listener) error {
	if err := s.server.Serve(l); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

// Shutdown gracefully shuts down the server
func (s *APIServer) Shutdown(ctx context.Context) error {
	s.logger.Info("Shutting down API server")
	return s.server.Shutdown(ctx)
}
