package main

import (
	"github.com/spf13/cobra"
	"go.uber.org/fx"
	"go.uber.org/fx/fxevent"
	"go.uber.org/zap"

	"github.com/macrotrack/api/internal/infrastructure/container"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the HTTP API server",
	RunE: func(cmd *cobra.Command, args []string) error {
		app := fx.New(
			container.Module,
			fx.Supply(container.ConfigPath(configPath)),
			fx.WithLogger(func(log *zap.Logger) fxevent.Logger {
				l := &fxevent.ZapLogger{Logger: log.Named("fx")}
				l.UseLogLevel(zap.DebugLevel)
				return l
			}),
		)
		if err := app.Err(); err != nil {
			return err
		}

		// Run blocks until SIGINT or SIGTERM, then stops the app
		app.Run()
		return nil
	},
}
