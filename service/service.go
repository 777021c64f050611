// Package service turns a forecast request into a forecast: it loads the entity's sales
// history, aggregates it to days, falls back to a cold-start series when the history is too
// short, and fits the model on a bounded worker pool.
package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"demandforecast/forecast"
	"demandforecast/holidays"
	"demandforecast/metrics"
	"demandforecast/models"
	"demandforecast/series"

	"github.com/sirupsen/logrus"
)

var (
	ErrInvalidRequest = errors.New("invalid forecast request")
	ErrDataSource     = errors.New("sales history unavailable")
	ErrFitFailure     = errors.New("forecast failed")
)

const (
	ReasonInsufficientHistory = "insufficient_history"
	ReasonFitTimeout          = "fit_timeout"
)

// EventStore loads the raw sale events of one entity and product.
type EventStore interface {
	FetchEvents(ctx context.Context, role models.EntityRole, entityID, productID string) ([]models.RawEvent, error)
}

type Options struct {
	// MaxHorizonDays caps the requested horizon; 0 disables the cap.
	MaxHorizonDays int
	// FitTimeout is the budget for waiting on the pool plus fitting. Zero means no budget.
	FitTimeout time.Duration
	FitWorkers int
	Now        func() time.Time
}

type Deps struct {
	Store    EventStore
	Holidays *holidays.Builder
	Engine   *forecast.Engine
	Metrics  *metrics.Metrics
	Log      *logrus.Entry
}

// Service is safe for concurrent use; it keeps no per-request state.
type Service struct {
	store    EventStore
	holidays *holidays.Builder
	engine   *forecast.Engine
	metrics  *metrics.Metrics
	log      *logrus.Entry
	pool     *FitPool
	opts     Options
}

func New(deps Deps, opts Options) (*Service, error) {
	if deps.Store == nil || deps.Holidays == nil || deps.Engine == nil {
		return nil, errors.New("service requires an event store, a holiday builder and an engine")
	}
	if deps.Metrics == nil {
		deps.Metrics = metrics.New()
	}
	if deps.Log == nil {
		deps.Log = logrus.NewEntry(logrus.StandardLogger())
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}
	return &Service{
		store:    deps.Store,
		holidays: deps.Holidays,
		engine:   deps.Engine,
		metrics:  deps.Metrics,
		log:      deps.Log.WithField("component", "service"),
		pool:     NewFitPool(opts.FitWorkers),
		opts:     opts,
	}, nil
}

// Forecast validates req, loads and aggregates the history and returns exactly
// req.HorizonDays points starting the day after the last observation used for fitting.
func (s *Service) Forecast(ctx context.Context, req models.ForecastRequest) (models.ForecastResult, error) {
	role := string(req.Role)
	if err := req.Validate(s.opts.MaxHorizonDays); err != nil {
		s.metrics.Requests.WithLabelValues(role, "invalid").Inc()
		return models.ForecastResult{}, fmt.Errorf("%w: %w", ErrInvalidRequest, err)
	}

	log := s.log.WithFields(logrus.Fields{
		"role":       role,
		"entity_id":  req.EntityID,
		"product_id": req.ProductID,
		"horizon":    req.HorizonDays,
	})

	events, err := s.store.FetchEvents(ctx, req.Role, req.EntityID, req.ProductID)
	if err != nil {
		s.metrics.Requests.WithLabelValues(role, "data_error").Inc()
		log.WithError(err).Error("failed to load sales history")
		return models.ForecastResult{}, fmt.Errorf("%w: %w", ErrDataSource, err)
	}

	now := s.opts.Now()
	history := series.Aggregate(events)
	fitSeries, synthetic := series.EnsureFittable(history, now)

	result := models.ForecastResult{IsSynthetic: synthetic}
	if synthetic {
		result.FallbackReason = ReasonInsufficientHistory
		s.metrics.ColdStarts.WithLabelValues(ReasonInsufficientHistory).Inc()
		log.WithField("observations", len(history)).Info("history too short, using cold-start series")
	}

	res, err := s.fitBudgeted(ctx, req, fitSeries, now)
	if err != nil && !synthetic && errors.Is(err, context.DeadlineExceeded) && ctx.Err() == nil {
		log.WithField("budget", s.opts.FitTimeout).Warn("fit exceeded its time budget, falling back to cold-start forecast")
		s.metrics.FitFallbacks.Inc()
		s.metrics.ColdStarts.WithLabelValues(ReasonFitTimeout).Inc()
		result.IsSynthetic = true
		result.FallbackReason = ReasonFitTimeout
		res, err = s.fit(ctx, req, series.ColdStart(now), now)
	}
	if err != nil {
		if ctx.Err() != nil {
			s.metrics.Requests.WithLabelValues(role, "canceled").Inc()
			return models.ForecastResult{}, ctx.Err()
		}
		s.metrics.Requests.WithLabelValues(role, "fit_error").Inc()
		log.WithError(err).Error("forecast failed")
		return models.ForecastResult{}, fmt.Errorf("%w: %w", ErrFitFailure, err)
	}
	if res.Retried {
		s.metrics.FitRetries.Inc()
	}

	result.Points = res.Points
	s.metrics.Requests.WithLabelValues(role, "ok").Inc()
	log.WithFields(logrus.Fields{
		"observations": len(fitSeries),
		"synthetic":    result.IsSynthetic,
		"retried":      res.Retried,
	}).Debug("forecast complete")
	return result, nil
}

// fitBudgeted runs fit on the pool under the configured time budget.
func (s *Service) fitBudgeted(ctx context.Context, req models.ForecastRequest, fs models.Series, now time.Time) (forecast.Result, error) {
	fitCtx := ctx
	if s.opts.FitTimeout > 0 {
		var cancel context.CancelFunc
		fitCtx, cancel = context.WithTimeout(ctx, s.opts.FitTimeout)
		defer cancel()
	}

	var res forecast.Result
	err := s.pool.Run(fitCtx, func() error {
		var ferr error
		res, ferr = s.fit(fitCtx, req, fs, now)
		return ferr
	})
	return res, err
}

func (s *Service) fit(ctx context.Context, req models.ForecastRequest, fs models.Series, now time.Time) (forecast.Result, error) {
	start := time.Now()
	defer func() {
		s.metrics.FitDuration.WithLabelValues(string(req.Role)).Observe(time.Since(start).Seconds())
	}()

	lastForecastDay := fs.Last().Date.AddDate(0, 0, req.HorizonDays)
	from, to := holidays.YearRange(now, fs[0].Date, lastForecastDay)
	hols := s.holidays.Build(from, to)

	return s.engine.Forecast(ctx, fs, hols, req.HorizonDays)
}
