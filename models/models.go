package models

import (
	"time"

	"github.com/golang-jwt/jwt/v4"
)

// --- JWT & Auth ---

type JwtClaims struct {
	UserID string `json:"userId"`
	Role   string `json:"role"`
	jwt.RegisteredClaims
}

// --- Sales history ---

// RawEvent is a single sale (or retailer purchase) of a product as stored by the sales system.
// Date may carry any time of day; Quantity is never negative.
type RawEvent struct {
	EntityID  string    `json:"entityId"`
	ProductID string    `json:"productId"`
	Date      time.Time `json:"date"`
	Quantity  int64     `json:"quantity"`
}

// DailyObservation is the total quantity sold on one calendar day. Date is always midnight UTC.
type DailyObservation struct {
	Date     time.Time `json:"ds"`
	Quantity float64   `json:"y"`
}

// Series is a date-ordered list of daily observations with at most one entry per day.
// Missing days are gaps, not zeros.
type Series []DailyObservation

// Dates returns the observation dates in order.
func (s Series) Dates() []time.Time {
	out := make([]time.Time, len(s))
	for i, o := range s {
		out[i] = o.Date
	}
	return out
}

// Values returns the observed quantities in order.
func (s Series) Values() []float64 {
	out := make([]float64, len(s))
	for i, o := range s {
		out[i] = o.Quantity
	}
	return out
}

// Last returns the final observation. It panics on an empty series.
func (s Series) Last() DailyObservation {
	return s[len(s)-1]
}

// --- Holidays ---

// HolidayEntry is one named holiday on one date. Source identifies the calendar it came from,
// so the same date can legitimately appear once per source.
type HolidayEntry struct {
	Date   time.Time `json:"ds"`
	Name   string    `json:"holiday"`
	Source string    `json:"source"`
}

// --- Forecast output ---

// ForecastPoint is the prediction for one future day. YhatLower <= Yhat <= YhatUpper is the
// expected shape under a normal fit; the bounds are not clipped.
type ForecastPoint struct {
	Date      time.Time `json:"ds"`
	Yhat      float64   `json:"yhat"`
	YhatLower float64   `json:"yhat_lower"`
	YhatUpper float64   `json:"yhat_upper"`
}

// ForecastResult holds exactly HorizonDays contiguous points starting the day after the last
// observation used for fitting.
type ForecastResult struct {
	Points []ForecastPoint `json:"points"`

	// IsSynthetic is set when the model was fit on the flat cold-start series instead of the
	// entity's own history.
	IsSynthetic    bool   `json:"isSynthetic"`
	FallbackReason string `json:"fallbackReason,omitempty"`
}

// Day truncates t to midnight UTC of its calendar day.
func Day(t time.Time) time.Time {
	y, m, d := t.UTC().Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}
