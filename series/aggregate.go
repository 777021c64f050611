// Package series turns raw sale events into the daily series the forecasting model is fit on.
package series

import (
	"sort"
	"time"

	"demandforecast/models"
)

// Aggregate sums event quantities per UTC calendar day and returns one observation per day in
// ascending date order. Days without events are left out. An empty input yields an empty series.
func Aggregate(events []models.RawEvent) models.Series {
	if len(events) == 0 {
		return models.Series{}
	}

	totals := make(map[time.Time]int64, len(events))
	for _, e := range events {
		totals[models.Day(e.Date)] += e.Quantity
	}

	out := make(models.Series, 0, len(totals))
	for day, qty := range totals {
		out = append(out, models.DailyObservation{Date: day, Quantity: float64(qty)})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Date.Before(out[j].Date) })
	return out
}
