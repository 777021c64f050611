package forecast

import (
	"math"
	"sort"
	"time"

	"demandforecast/models"
)

const day = 24 * time.Hour

// design maps dates to regressor rows. It is fixed at fit time so that history and future rows
// share the same time scaling, changepoints and holiday columns.
type design struct {
	start time.Time
	span  float64 // history length in days

	changepoints []float64 // in scaled time

	yearlyOrder, weeklyOrder int

	holidayNames []string
	holidayCols  map[time.Time][]int // date -> holiday column indexes (relative)
}

func newDesign(cfg Config, dates []time.Time, hols []models.HolidayEntry) *design {
	span := dates[len(dates)-1].Sub(dates[0]).Hours() / 24
	d := &design{
		start:       dates[0],
		span:        span,
		yearlyOrder: seasonalOrder(cfg.YearlyOrder, yearlyPeriod, span, cfg.MinSeasonalCycles),
		weeklyOrder: seasonalOrder(cfg.WeeklyOrder, weeklyPeriod, span, cfg.MinSeasonalCycles),
	}
	d.changepoints = d.placeChangepoints(cfg, dates)
	d.indexHolidays(cfg, dates, hols)
	return d
}

// seasonalOrder drops a seasonality whose period the history does not cover minCycles times.
// Shorter histories cannot tell the seasonality apart from the trend.
func seasonalOrder(order int, period, span, minCycles float64) int {
	if span < minCycles*period {
		return 0
	}
	return order
}

// placeChangepoints spreads candidate changepoints evenly over the observation indexes of the
// first ChangepointRange share of history.
func (d *design) placeChangepoints(cfg Config, dates []time.Time) []float64 {
	histSize := int(math.Floor(float64(len(dates)) * cfg.ChangepointRange))
	n := cfg.NChangepoints
	if n+1 > histSize {
		n = histSize - 1
	}
	if n <= 0 {
		return nil
	}
	out := make([]float64, 0, n)
	for i := 1; i <= n; i++ {
		idx := int(math.Round(float64(i) * float64(histSize-1) / float64(n)))
		out = append(out, d.scaled(dates[idx]))
	}
	return out
}

// indexHolidays keeps one column per holiday name that occurs at least once in history,
// after applying the configured window. Names with no history cannot be estimated.
func (d *design) indexHolidays(cfg Config, dates []time.Time, hols []models.HolidayEntry) {
	first, last := dates[0], dates[len(dates)-1]
	observed := make(map[time.Time]bool, len(dates))
	for _, t := range dates {
		observed[t] = true
	}

	byName := make(map[string][]time.Time)
	seen := make(map[string]bool)
	for _, h := range hols {
		base := models.Day(h.Date)
		for off := -cfg.HolidayLowerWindow; off <= cfg.HolidayUpperWindow; off++ {
			t := base.AddDate(0, 0, off)
			byName[h.Name] = append(byName[h.Name], t)
			if !t.Before(first) && !t.After(last) && observed[t] {
				seen[h.Name] = true
			}
		}
	}

	for name := range seen {
		d.holidayNames = append(d.holidayNames, name)
	}
	sort.Strings(d.holidayNames)

	d.holidayCols = make(map[time.Time][]int)
	for col, name := range d.holidayNames {
		for _, t := range byName[name] {
			if !containsInt(d.holidayCols[t], col) {
				d.holidayCols[t] = append(d.holidayCols[t], col)
			}
		}
	}
}

func containsInt(xs []int, x int) bool {
	for _, v := range xs {
		if v == x {
			return true
		}
	}
	return false
}

func (d *design) scaled(t time.Time) float64 {
	return t.Sub(d.start).Hours() / 24 / d.span
}

// Column layout: intercept, slope, changepoints, yearly sin/cos pairs, weekly sin/cos pairs,
// holidays.
func (d *design) cpOffset() int      { return 2 }
func (d *design) yearlyOffset() int  { return d.cpOffset() + len(d.changepoints) }
func (d *design) weeklyOffset() int  { return d.yearlyOffset() + 2*d.yearlyOrder }
func (d *design) holidayOffset() int { return d.weeklyOffset() + 2*d.weeklyOrder }
func (d *design) width() int         { return d.holidayOffset() + len(d.holidayNames) }

// row fills dst (length width()) with the regressors for date t.
func (d *design) row(t time.Time, dst []float64) {
	for i := range dst {
		dst[i] = 0
	}
	ts := d.scaled(t)
	dst[0] = 1
	dst[1] = ts
	for j, s := range d.changepoints {
		if ts > s {
			dst[d.cpOffset()+j] = ts - s
		}
	}

	// Seasonal terms use absolute days so the phase does not depend on the history window.
	days := float64(t.Unix()) / 86400
	fourier(days, yearlyPeriod, d.yearlyOrder, dst[d.yearlyOffset():d.weeklyOffset()])
	fourier(days, weeklyPeriod, d.weeklyOrder, dst[d.weeklyOffset():d.holidayOffset()])

	for _, col := range d.holidayCols[models.Day(t)] {
		dst[d.holidayOffset()+col] = 1
	}
}

func fourier(days, period float64, order int, dst []float64) {
	for k := 1; k <= order; k++ {
		x := 2 * math.Pi * float64(k) * days / period
		dst[2*(k-1)] = math.Sin(x)
		dst[2*(k-1)+1] = math.Cos(x)
	}
}

// penalties returns the ridge weight for every column.
func (d *design) penalties(cfg Config) []float64 {
	lam := make([]float64, d.width())
	for j := d.cpOffset(); j < d.yearlyOffset(); j++ {
		lam[j] = cfg.Regularization / (cfg.ChangepointPriorScale * cfg.ChangepointPriorScale)
	}
	for j := d.yearlyOffset(); j < d.holidayOffset(); j++ {
		lam[j] = cfg.Regularization / (cfg.SeasonalityPriorScale * cfg.SeasonalityPriorScale)
	}
	for j := d.holidayOffset(); j < d.width(); j++ {
		lam[j] = cfg.Regularization / (cfg.HolidayPriorScale * cfg.HolidayPriorScale)
	}
	for j := range lam {
		lam[j] += cfg.Damping
	}
	return lam
}
