// Package forecast fits an additive demand model to a daily series:
//
//	y(t) = trend(t) + yearly(t) + weekly(t) + holidays(t) + noise
//
// The trend is piecewise linear with automatically placed changepoints, both seasonalities
// are truncated Fourier series and every holiday name gets its own additive offset. All
// coefficients are estimated jointly as the MAP solution under Gaussian priors, which is a
// ridge-penalised least squares problem solved with a Cholesky factorisation.
package forecast

import (
	"context"
	"errors"
	"fmt"
	"math"
	"time"

	"demandforecast/models"

	"gonum.org/v1/gonum/mat"
)

var (
	ErrInsufficientData = errors.New("at least two observations are required")
	ErrUnorderedSeries  = errors.New("series dates must be strictly increasing")
	ErrNumerical        = errors.New("numerical failure while fitting")
	ErrNotFitted        = errors.New("model has not been fitted")
	ErrInvalidHorizon   = errors.New("horizon must be positive")
)

// Model is a single-use fitted model. It is not safe for concurrent Fit calls.
type Model struct {
	cfg  Config
	hols []models.HolidayEntry

	design  *design
	beta    []float64
	yScale  float64
	sigma   float64 // residual standard deviation, scaled units
	cpScale float64 // mean absolute changepoint delta, scaled units
	history []time.Time
}

// New returns an unfitted model. hols is read but never modified.
func New(cfg Config, hols []models.HolidayEntry) *Model {
	return &Model{cfg: cfg, hols: hols}
}

// Fit estimates every component from s. The context is checked between stages.
func (m *Model) Fit(ctx context.Context, s models.Series) error {
	if err := m.cfg.Validate(); err != nil {
		return err
	}
	if len(s) < 2 {
		return ErrInsufficientData
	}
	dates := s.Dates()
	y := s.Values()
	for i := range dates {
		if i > 0 && !dates[i].After(dates[i-1]) {
			return fmt.Errorf("%w: %s follows %s", ErrUnorderedSeries, dates[i].Format(time.DateOnly), dates[i-1].Format(time.DateOnly))
		}
		if math.IsNaN(y[i]) || math.IsInf(y[i], 0) {
			return fmt.Errorf("%w: non-finite quantity on %s", ErrNumerical, dates[i].Format(time.DateOnly))
		}
	}

	m.yScale = 0
	for _, v := range y {
		m.yScale = math.Max(m.yScale, math.Abs(v))
	}
	if m.yScale == 0 {
		m.yScale = 1
	}

	d := newDesign(m.cfg, dates, m.hols)
	n, p := len(dates), d.width()

	X := mat.NewDense(n, p, nil)
	for i, t := range dates {
		d.row(t, X.RawRowView(i))
	}
	yv := mat.NewVecDense(n, nil)
	for i, v := range y {
		yv.SetVec(i, v/m.yScale)
	}

	if err := ctx.Err(); err != nil {
		return err
	}

	beta, err := solve(X, yv, d.penalties(m.cfg))
	if err != nil {
		return err
	}

	if err := ctx.Err(); err != nil {
		return err
	}

	var fitted mat.VecDense
	fitted.MulVec(X, mat.NewVecDense(p, beta))
	var sse float64
	for i := 0; i < n; i++ {
		r := yv.AtVec(i) - fitted.AtVec(i)
		sse += r * r
	}

	var cpAbs float64
	for j := range d.changepoints {
		cpAbs += math.Abs(beta[d.cpOffset()+j])
	}
	if len(d.changepoints) > 0 {
		cpAbs /= float64(len(d.changepoints))
	}

	m.design = d
	m.beta = beta
	m.sigma = math.Sqrt(sse / float64(n))
	m.cpScale = cpAbs
	m.history = dates
	return nil
}

// solve is swapped in tests to simulate numerical failures.
var solve = solveRidge

// solveRidge solves (XᵀX + diag(lam))β = Xᵀy.
func solveRidge(X *mat.Dense, y *mat.VecDense, lam []float64) ([]float64, error) {
	_, p := X.Dims()

	var xtx mat.Dense
	xtx.Mul(X.T(), X)
	a := mat.NewSymDense(p, nil)
	for i := 0; i < p; i++ {
		for j := i; j < p; j++ {
			v := xtx.At(i, j)
			if i == j {
				v += lam[i]
			}
			a.SetSym(i, j, v)
		}
	}

	var xty mat.VecDense
	xty.MulVec(X.T(), y)

	var chol mat.Cholesky
	if ok := chol.Factorize(a); !ok {
		return nil, fmt.Errorf("%w: normal equations are not positive definite", ErrNumerical)
	}
	var beta mat.VecDense
	if err := chol.SolveVecTo(&beta, &xty); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrNumerical, err)
	}

	out := make([]float64, p)
	for i := range out {
		out[i] = beta.AtVec(i)
		if math.IsNaN(out[i]) || math.IsInf(out[i], 0) {
			return nil, fmt.Errorf("%w: non-finite coefficient", ErrNumerical)
		}
	}
	return out, nil
}

// Changepoints returns the number of trend changepoints used by the fit.
func (m *Model) Changepoints() int {
	if m.design == nil {
		return 0
	}
	return len(m.design.changepoints)
}

// Predict forecasts the horizon days following the last history date. Predictions are made for
// the whole history plus the future window and only the future window is returned.
func (m *Model) Predict(horizon int) ([]models.ForecastPoint, error) {
	if m.design == nil {
		return nil, ErrNotFitted
	}
	if horizon <= 0 {
		return nil, fmt.Errorf("%w: got %d", ErrInvalidHorizon, horizon)
	}

	dates := make([]time.Time, 0, len(m.history)+horizon)
	dates = append(dates, m.history...)
	last := m.history[len(m.history)-1]
	for i := 1; i <= horizon; i++ {
		dates = append(dates, last.AddDate(0, 0, i))
	}

	all := m.PredictDates(dates)
	return all[len(all)-horizon:], nil
}

// PredictDates evaluates the fitted model on arbitrary dates.
func (m *Model) PredictDates(dates []time.Time) []models.ForecastPoint {
	z := intervalZ(m.cfg.IntervalWidth)
	row := make([]float64, m.design.width())
	out := make([]models.ForecastPoint, len(dates))
	for i, t := range dates {
		m.design.row(t, row)
		var yhat float64
		for j, b := range m.beta {
			yhat += row[j] * b
		}
		sd := math.Sqrt(m.sigma*m.sigma + m.trendVariance(m.design.scaled(t)))
		yhat *= m.yScale
		half := z * sd * m.yScale
		out[i] = models.ForecastPoint{
			Date:      t,
			Yhat:      yhat,
			YhatLower: yhat - half,
			YhatUpper: yhat + half,
		}
	}
	return out
}
