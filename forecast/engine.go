package forecast

import (
	"context"
	"errors"
	"fmt"

	"demandforecast/models"

	"github.com/sirupsen/logrus"
)

// ErrFitFailed is returned when both the regular and the relaxed fit fail numerically.
var ErrFitFailed = errors.New("forecast model could not be fitted")

// Result is the outcome of Engine.Forecast.
type Result struct {
	Points       []models.ForecastPoint
	Retried      bool
	Changepoints int
}

// Engine fits a fresh Model per call and retries once with Config.Relaxed on numerical
// failure. It holds no per-call state and is safe for concurrent use.
type Engine struct {
	cfg Config
	log *logrus.Entry
}

func NewEngine(cfg Config, log *logrus.Entry) (*Engine, error) {
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid model config: %w", err)
	}
	if log == nil {
		log = logrus.NewEntry(logrus.StandardLogger())
	}
	return &Engine{cfg: cfg, log: log.WithField("component", "forecast")}, nil
}

func (e *Engine) Config() Config {
	return e.cfg
}

// Forecast fits s with holiday regressors hols and predicts horizon days past its last date.
func (e *Engine) Forecast(ctx context.Context, s models.Series, hols []models.HolidayEntry, horizon int) (Result, error) {
	if horizon <= 0 {
		return Result{}, fmt.Errorf("%w: got %d", ErrInvalidHorizon, horizon)
	}

	res, err := e.fit(ctx, e.cfg, s, hols, horizon)
	if err == nil || !errors.Is(err, ErrNumerical) {
		return res, err
	}

	e.log.WithError(err).WithField("observations", len(s)).Warn("fit failed, retrying with relaxed configuration")
	res, retryErr := e.fit(ctx, e.cfg.Relaxed(), s, hols, horizon)
	res.Retried = true
	if retryErr != nil {
		if errors.Is(retryErr, ErrNumerical) {
			return res, fmt.Errorf("%w: %w", ErrFitFailed, retryErr)
		}
		return res, retryErr
	}
	return res, nil
}

func (e *Engine) fit(ctx context.Context, cfg Config, s models.Series, hols []models.HolidayEntry, horizon int) (Result, error) {
	m := New(cfg, hols)
	if err := m.Fit(ctx, s); err != nil {
		return Result{}, err
	}
	points, err := m.Predict(horizon)
	if err != nil {
		return Result{}, err
	}
	return Result{Points: points, Changepoints: m.Changepoints()}, nil
}
