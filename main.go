package main

import (
	"fmt"
	"io"
	"os"
	"time"

	"demandforecast/config"
	"demandforecast/forecast"
	"demandforecast/holidays"
	"demandforecast/logger"
	"demandforecast/metrics"
	"demandforecast/service"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:          "demandforecast",
		Short:        "Daily demand forecasts for sellers and retailers",
		SilenceUsage: true,
	}
	root.AddCommand(newServeCmd(), newPredictCmd())
	return root
}

// loadConfig loads the configuration and a logger writing to out.
func loadConfig(out io.Writer) (*config.Config, *logrus.Logger, error) {
	cfg, envLoaded, err := config.Load()
	if err != nil {
		return nil, nil, err
	}

	log, err := logger.New(logger.Options{
		Level:  cfg.LogLevel,
		Format: cfg.LogFormat,
		File:   cfg.LogFile,
		Output: out,
	})
	if err != nil {
		return nil, nil, err
	}
	if !envLoaded {
		log.Debug("No .env file found, using environment variables")
	}
	return cfg, log, nil
}

// newForecastService wires the holiday builder, engine and fit pool around store. A nil now
// uses the wall clock.
func newForecastService(cfg *config.Config, store service.EventStore, m *metrics.Metrics, log *logrus.Logger, now func() time.Time) (*service.Service, error) {
	sources, err := holidays.ParseSources(cfg.HolidayRegions)
	if err != nil {
		return nil, err
	}
	hb, err := holidays.NewBuilder(sources, cfg.HolidayCacheSize, logger.WithComponent(log, "holidays"))
	if err != nil {
		return nil, err
	}
	engine, err := forecast.NewEngine(cfg.Model, logger.WithComponent(log, "forecast"))
	if err != nil {
		return nil, fmt.Errorf("failed to create forecast engine: %w", err)
	}
	return service.New(service.Deps{
		Store:    store,
		Holidays: hb,
		Engine:   engine,
		Metrics:  m,
		Log:      logger.WithComponent(log, "service"),
	}, service.Options{
		MaxHorizonDays: cfg.MaxHorizonDays,
		FitTimeout:     cfg.FitTimeout,
		FitWorkers:     cfg.FitWorkers,
		Now:            now,
	})
}
