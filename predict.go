package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"time"

	"demandforecast/database"
	"demandforecast/handlers"
	"demandforecast/logger"
	"demandforecast/metrics"
	"demandforecast/models"
	"demandforecast/service"

	"github.com/spf13/cobra"
)

type predictOutput struct {
	IsSynthetic    bool                             `json:"isSynthetic"`
	FallbackReason string                           `json:"fallbackReason,omitempty"`
	Points         []handlers.ForecastPointResponse `json:"points"`
}

func newPredictCmd() *cobra.Command {
	var (
		input     string
		roleName  string
		entityID  string
		productID string
		days      int
		asOf      string
	)

	cmd := &cobra.Command{
		Use:   "predict",
		Short: "Forecast one entity and product and print the result as JSON",
		Long: "Forecast one entity and product. Events are read from --input (a JSON array of " +
			"{role, entityId, productId, date, quantity}, or - for stdin); without --input the " +
			"database named by DATABASE_URL is used.",
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, log, err := loadConfig(cmd.ErrOrStderr())
			if err != nil {
				return err
			}

			role, err := models.ParseEntityRole(roleName)
			if err != nil {
				return err
			}

			ctx := cmd.Context()
			if ctx == nil {
				ctx = context.Background()
			}

			var store service.EventStore
			if input != "" {
				store, err = loadEvents(cmd.InOrStdin(), input)
				if err != nil {
					return err
				}
			} else {
				if cfg.DatabaseURL == "" {
					return errors.New("either --input or DATABASE_URL is required")
				}
				dbLog := logger.WithComponent(log, "database")
				pool, err := database.Connect(ctx, cfg.DatabaseURL, dbLog)
				if err != nil {
					return err
				}
				defer database.Close(pool, dbLog)
				store = database.NewPostgresEventStore(pool)
			}

			var now func() time.Time
			if asOf != "" {
				t, err := time.Parse(time.DateOnly, asOf)
				if err != nil {
					return fmt.Errorf("invalid --as-of date: %w", err)
				}
				now = func() time.Time { return t }
			}

			svc, err := newForecastService(cfg, store, metrics.New(), log, now)
			if err != nil {
				return err
			}

			res, err := svc.Forecast(ctx, models.ForecastRequest{
				Role:        role,
				EntityID:    entityID,
				ProductID:   productID,
				HorizonDays: days,
			})
			if err != nil {
				return err
			}

			out := predictOutput{
				IsSynthetic:    res.IsSynthetic,
				FallbackReason: res.FallbackReason,
				Points:         make([]handlers.ForecastPointResponse, len(res.Points)),
			}
			for i, p := range res.Points {
				out.Points[i] = handlers.ForecastPointResponse{
					DS:        p.Date.Format(time.DateOnly),
					Yhat:      p.Yhat,
					YhatLower: p.YhatLower,
					YhatUpper: p.YhatUpper,
				}
			}
			enc := json.NewEncoder(cmd.OutOrStdout())
			enc.SetIndent("", "  ")
			return enc.Encode(out)
		},
	}

	flags := cmd.Flags()
	flags.StringVar(&input, "input", "", "events file (JSON array), - for stdin")
	flags.StringVar(&roleName, "role", "seller", "entity role: seller, retailer or buyer")
	flags.StringVar(&entityID, "entity", "", "seller or retailer id")
	flags.StringVar(&productID, "product", "", "product id")
	flags.IntVar(&days, "days", models.DefaultHorizonDays, "forecast horizon in days")
	flags.StringVar(&asOf, "as-of", "", "treat this date (YYYY-MM-DD) as today")
	return cmd
}

func loadEvents(stdin io.Reader, path string) (*database.MemoryStore, error) {
	if path == "-" {
		return database.LoadMemoryStore(stdin)
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open events file: %w", err)
	}
	defer f.Close()
	return database.LoadMemoryStore(f)
}
