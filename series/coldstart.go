package series

import (
	"time"

	"demandforecast/models"
)

const (
	// MinObservations is the smallest series the model is fit on directly.
	MinObservations = 2
	// ColdStartDays is the length of the synthetic zero-demand series.
	ColdStartDays = 60
)

// ColdStart returns ColdStartDays consecutive zero-quantity days ending on now's UTC day.
func ColdStart(now time.Time) models.Series {
	end := models.Day(now)
	out := make(models.Series, ColdStartDays)
	for i := range out {
		out[i] = models.DailyObservation{Date: end.AddDate(0, 0, i-ColdStartDays+1)}
	}
	return out
}

// EnsureFittable returns s unchanged when it has at least MinObservations entries, and the
// cold-start series otherwise. The boolean reports whether the series was synthesized.
func EnsureFittable(s models.Series, now time.Time) (models.Series, bool) {
	if len(s) >= MinObservations {
		return s, false
	}
	return ColdStart(now), true
}
