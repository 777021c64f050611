package forecast

import (
	"errors"
	"fmt"
)

// Config holds the model's fixed feature set and its priors.
type Config struct {
	YearlyOrder int `yaml:"yearly_order"`
	WeeklyOrder int `yaml:"weekly_order"`

	// MinSeasonalCycles is how many full periods the history must span before a seasonality
	// is fit. Shorter histories get no terms for it.
	MinSeasonalCycles float64 `yaml:"min_seasonal_cycles"`

	NChangepoints    int     `yaml:"n_changepoints"`
	ChangepointRange float64 `yaml:"changepoint_range"`

	ChangepointPriorScale float64 `yaml:"changepoint_prior_scale"`
	SeasonalityPriorScale float64 `yaml:"seasonality_prior_scale"`
	HolidayPriorScale     float64 `yaml:"holiday_prior_scale"`

	// HolidayLowerWindow and HolidayUpperWindow extend each holiday to the days before and
	// after it.
	HolidayLowerWindow int `yaml:"holiday_lower_window"`
	HolidayUpperWindow int `yaml:"holiday_upper_window"`

	IntervalWidth float64 `yaml:"interval_width"`

	// Regularization scales every prior penalty: a coefficient with prior scale s is
	// penalised by Regularization/s².
	Regularization float64 `yaml:"regularization"`
	// Damping is added to the whole diagonal of the normal equations.
	Damping float64 `yaml:"damping"`
}

const (
	yearlyPeriod = 365.25
	weeklyPeriod = 7.0
)

func DefaultConfig() Config {
	return Config{
		YearlyOrder:           10,
		WeeklyOrder:           3,
		MinSeasonalCycles:     2,
		NChangepoints:         25,
		ChangepointRange:      0.8,
		ChangepointPriorScale: 0.05,
		SeasonalityPriorScale: 10,
		HolidayPriorScale:     10,
		IntervalWidth:         0.8,
		Regularization:        0.05,
		Damping:               1e-9,
	}
}

// Relaxed is the configuration used for the single retry after a numerical failure: a
// smaller trend and yearly basis and a heavier diagonal load.
func (c Config) Relaxed() Config {
	r := c
	r.NChangepoints = c.NChangepoints / 2
	r.YearlyOrder = c.YearlyOrder / 2
	r.Damping = c.Damping * 10
	if r.Damping < 1e-6 {
		r.Damping = 1e-6
	}
	return r
}

func (c Config) Validate() error {
	switch {
	case c.YearlyOrder < 0 || c.WeeklyOrder < 0:
		return fmt.Errorf("fourier orders must not be negative (yearly=%d, weekly=%d)", c.YearlyOrder, c.WeeklyOrder)
	case c.MinSeasonalCycles < 0:
		return fmt.Errorf("min_seasonal_cycles must not be negative, got %g", c.MinSeasonalCycles)
	case c.NChangepoints < 0:
		return fmt.Errorf("n_changepoints must not be negative, got %d", c.NChangepoints)
	case c.ChangepointRange <= 0 || c.ChangepointRange > 1:
		return fmt.Errorf("changepoint_range must be in (0, 1], got %g", c.ChangepointRange)
	case c.ChangepointPriorScale <= 0 || c.SeasonalityPriorScale <= 0 || c.HolidayPriorScale <= 0:
		return errors.New("prior scales must be positive")
	case c.HolidayLowerWindow < 0 || c.HolidayUpperWindow < 0:
		return errors.New("holiday windows must not be negative")
	case c.IntervalWidth <= 0 || c.IntervalWidth >= 1:
		return fmt.Errorf("interval_width must be in (0, 1), got %g", c.IntervalWidth)
	case c.Regularization <= 0:
		return fmt.Errorf("regularization must be positive, got %g", c.Regularization)
	case c.Damping < 0:
		return fmt.Errorf("damping must not be negative, got %g", c.Damping)
	}
	return nil
}
