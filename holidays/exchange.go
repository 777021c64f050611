package holidays

import (
	"fmt"
	"strings"
	"time"

	"demandforecast/models"

	"github.com/scmhub/calendar"
)

// ExchangeCalendar derives holidays from a stock exchange calendar identified by its ISO 10383
// MIC (for example "xnys" or "xbom"). Weekdays the exchange is closed become holiday entries.
type ExchangeCalendar struct {
	MIC string
}

func (e ExchangeCalendar) Name() string {
	return strings.ToUpper(e.MIC)
}

func (e ExchangeCalendar) Holidays(fromYear, toYear int) ([]models.HolidayEntry, error) {
	if toYear < fromYear {
		return nil, fmt.Errorf("%w: %d-%d", ErrInvalidYearRange, fromYear, toYear)
	}
	cal := calendar.GetCalendar(strings.ToLower(e.MIC))
	if cal == nil {
		return nil, fmt.Errorf("%w: exchange %q", ErrUnsupportedRegion, e.MIC)
	}

	loc := cal.Loc
	if loc == nil {
		loc = time.UTC
	}

	name := e.Name() + " market holiday"
	var out []models.HolidayEntry
	for d := date(fromYear, time.January, 1); d.Year() <= toYear; d = d.AddDate(0, 0, 1) {
		if d.Weekday() == time.Saturday || d.Weekday() == time.Sunday {
			continue
		}
		// Noon local time keeps the check inside the intended calendar day.
		local := time.Date(d.Year(), d.Month(), d.Day(), 12, 0, 0, 0, loc)
		if !cal.IsBusinessDay(local) {
			out = append(out, models.HolidayEntry{Date: d, Name: name, Source: e.Name()})
		}
	}
	return out, nil
}
