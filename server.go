package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"demandforecast/database"
	"demandforecast/handlers"
	"demandforecast/logger"
	"demandforecast/metrics"
	"demandforecast/routes"

	"github.com/gofiber/fiber/v2"
	"github.com/spf13/cobra"
)

func newServeCmd() *cobra.Command {
	var addr string

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the forecast HTTP API",
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, log, err := loadConfig(os.Stdout)
			if err != nil {
				return err
			}
			if cfg.DatabaseURL == "" {
				return errors.New("DATABASE_URL is not set")
			}
			if addr == "" {
				addr = fmt.Sprintf(":%d", cfg.Port)
			}

			ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			dbLog := logger.WithComponent(log, "database")
			pool, err := database.Connect(ctx, cfg.DatabaseURL, dbLog)
			if err != nil {
				return err
			}
			defer database.Close(pool, dbLog)

			m := metrics.New()
			svc, err := newForecastService(cfg, database.NewPostgresEventStore(pool), m, log, nil)
			if err != nil {
				return err
			}

			httpLog := logger.WithComponent(log, "http")
			app := fiber.New(fiber.Config{
				AppName:               "demandforecast",
				DisableStartupMessage: true,
				ReadTimeout:           30 * time.Second,
				WriteTimeout:          cfg.FitTimeout + 30*time.Second,
			})
			routes.SetupRoutes(app, routes.Deps{
				Forecasts:      handlers.NewForecastHandler(svc, cfg.MaxHorizonDays, httpLog),
				Health:         pool,
				Metrics:        m,
				Log:            httpLog,
				JWTSecret:      cfg.JWTSecret,
				RateLimitRPS:   cfg.RateLimitRPS,
				RateLimitBurst: cfg.RateLimitBurst,
			})

			errCh := make(chan error, 1)
			go func() {
				httpLog.WithField("addr", addr).Info("serving forecast API")
				errCh <- app.Listen(addr)
			}()

			select {
			case err := <-errCh:
				return err
			case <-ctx.Done():
				httpLog.Info("shutting down")
				shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
				defer cancel()
				return app.ShutdownWithContext(shutdownCtx)
			}
		},
	}

	cmd.Flags().StringVar(&addr, "addr", "", "address to serve (defaults to :$PORT)")
	return cmd
}
