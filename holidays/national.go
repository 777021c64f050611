package holidays

import (
	"fmt"
	"strings"
	"time"

	"demandforecast/models"

	"github.com/rickar/cal/v2"
	"github.com/rickar/cal/v2/aa"
	"github.com/rickar/cal/v2/us"
)

// NationalCalendar generates public holidays for one country. Gregorian rules come from
// rickar/cal; India's fixed national days and lunisolar festivals are listed here.
type NationalCalendar struct {
	Country string
}

type holidayRule struct {
	name  string
	since int // first year the holiday applies, 0 for always
	date  func(year int) (actual, observed time.Time, ok bool)
}

var nationalRules = map[string][]holidayRule{
	"US": {
		{name: "New Year's Day", date: library(us.NewYear)},
		{name: "Martin Luther King Jr. Day", since: 1986, date: library(us.MlkDay)},
		{name: "Washington's Birthday", date: library(us.PresidentsDay)},
		{name: "Memorial Day", date: library(us.MemorialDay)},
		{name: "Juneteenth National Independence Day", since: 2021, date: library(us.Juneteenth)},
		{name: "Independence Day", date: library(us.IndependenceDay)},
		{name: "Labor Day", date: library(us.LaborDay)},
		{name: "Columbus Day", date: library(us.ColumbusDay)},
		{name: "Veterans Day", date: library(us.VeteransDay)},
		{name: "Thanksgiving", date: library(us.ThanksgivingDay)},
		{name: "Christmas Day", date: library(us.ChristmasDay)},
	},
	"IN": {
		{name: "Republic Day", since: 1950, date: fixed(time.January, 26)},
		{name: "Holi", date: lookup(holiDates)},
		{name: "Good Friday", date: library(aa.GoodFriday)},
		{name: "Independence Day", since: 1947, date: fixed(time.August, 15)},
		{name: "Gandhi Jayanti", date: fixed(time.October, 2)},
		{name: "Diwali", date: lookup(diwaliDates)},
		{name: "Christmas Day", date: library(aa.ChristmasDay)},
	},
}

// Lunisolar festivals have no closed-form rule; years missing here have no entry.
var holiDates = map[int]string{
	2015: "03-06", 2016: "03-24", 2017: "03-13", 2018: "03-02", 2019: "03-21",
	2020: "03-10", 2021: "03-29", 2022: "03-18", 2023: "03-08", 2024: "03-25",
	2025: "03-14", 2026: "03-04", 2027: "03-22", 2028: "03-11", 2029: "03-01",
	2030: "03-20",
}

var diwaliDates = map[int]string{
	2015: "11-11", 2016: "10-30", 2017: "10-19", 2018: "11-07", 2019: "10-27",
	2020: "11-14", 2021: "11-04", 2022: "10-24", 2023: "11-12", 2024: "10-31",
	2025: "10-20", 2026: "11-08", 2027: "10-29", 2028: "10-17", 2029: "11-05",
	2030: "10-26",
}

// SupportedCountries lists the country codes NationalCalendar knows rules for.
func SupportedCountries() []string {
	out := make([]string, 0, len(nationalRules))
	for c := range nationalRules {
		out = append(out, c)
	}
	return out
}

func (n NationalCalendar) Name() string {
	return strings.ToUpper(n.Country)
}

// Holidays returns every holiday of the country between fromYear and toYear inclusive.
func (n NationalCalendar) Holidays(fromYear, toYear int) ([]models.HolidayEntry, error) {
	rules, ok := nationalRules[n.Name()]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnsupportedRegion, n.Country)
	}
	if toYear < fromYear {
		return nil, fmt.Errorf("%w: %d-%d", ErrInvalidYearRange, fromYear, toYear)
	}

	var out []models.HolidayEntry
	for year := fromYear; year <= toYear; year++ {
		for _, r := range rules {
			if r.since > 0 && year < r.since {
				continue
			}
			actual, observed, ok := r.date(year)
			if !ok {
				continue
			}
			out = append(out, models.HolidayEntry{Date: actual, Name: r.name, Source: n.Name()})
			if !observed.Equal(actual) {
				out = append(out, models.HolidayEntry{Date: observed, Name: r.name + " (observed)", Source: n.Name()})
			}
		}
	}
	return out, nil
}

func date(year int, month time.Month, day int) time.Time {
	return time.Date(year, month, day, 0, 0, 0, 0, time.UTC)
}

// civil drops the library's time of day and location, keeping the calendar date.
func civil(t time.Time) time.Time {
	return date(t.Year(), t.Month(), t.Day())
}

// library adapts a rickar/cal holiday, including its weekend observance rule.
func library(h *cal.Holiday) func(int) (time.Time, time.Time, bool) {
	return func(year int) (time.Time, time.Time, bool) {
		actual, observed := h.Calc(year)
		if actual.IsZero() {
			return time.Time{}, time.Time{}, false
		}
		if observed.IsZero() {
			observed = actual
		}
		return civil(actual), civil(observed), true
	}
}

func fixed(month time.Month, day int) func(int) (time.Time, time.Time, bool) {
	return func(year int) (time.Time, time.Time, bool) {
		d := date(year, month, day)
		return d, d, true
	}
}

func lookup(table map[int]string) func(int) (time.Time, time.Time, bool) {
	return func(year int) (time.Time, time.Time, bool) {
		md, ok := table[year]
		if !ok {
			return time.Time{}, time.Time{}, false
		}
		d, err := time.Parse("2006-01-02", fmt.Sprintf("%d-%s", year, md))
		if err != nil {
			return time.Time{}, time.Time{}, false
		}
		return d, d, true
	}
}
