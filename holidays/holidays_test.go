package holidays

import (
	"errors"
	"testing"
	"time"

	"demandforecast/models"

	"github.com/sirupsen/logrus"
	"github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func find(entries []models.HolidayEntry, name string, year int) (models.HolidayEntry, bool) {
	for _, e := range entries {
		if e.Name == name && e.Date.Year() == year {
			return e, true
		}
	}
	return models.HolidayEntry{}, false
}

func TestUSRules(t *testing.T) {
	entries, err := NationalCalendar{Country: "us"}.Holidays(2024, 2024)
	require.NoError(t, err)

	cases := map[string]time.Time{
		"New Year's Day":             date(2024, time.January, 1),
		"Martin Luther King Jr. Day": date(2024, time.January, 15),
		"Washington's Birthday":      date(2024, time.February, 19),
		"Memorial Day":               date(2024, time.May, 27),
		"Independence Day":           date(2024, time.July, 4),
		"Labor Day":                  date(2024, time.September, 2),
		"Columbus Day":               date(2024, time.October, 14),
		"Thanksgiving":               date(2024, time.November, 28),
		"Christmas Day":              date(2024, time.December, 25),
	}
	for name, want := range cases {
		e, ok := find(entries, name, 2024)
		require.True(t, ok, name)
		assert.Equal(t, want, e.Date, name)
		assert.Equal(t, "US", e.Source)
	}

	// Veterans Day 2024 is a Monday, so there is no observed entry.
	_, ok := find(entries, "Veterans Day (observed)", 2024)
	assert.False(t, ok)
}

func TestUSObservedDays(t *testing.T) {
	entries, err := NationalCalendar{Country: "US"}.Holidays(2021, 2021)
	require.NoError(t, err)

	// July 4th 2021 fell on a Sunday.
	e, ok := find(entries, "Independence Day (observed)", 2021)
	require.True(t, ok)
	assert.Equal(t, date(2021, time.July, 5), e.Date)

	// Christmas 2021 fell on a Saturday.
	e, ok = find(entries, "Christmas Day (observed)", 2021)
	require.True(t, ok)
	assert.Equal(t, date(2021, time.December, 24), e.Date)
}

func TestUSHolidaysRespectSince(t *testing.T) {
	entries, err := NationalCalendar{Country: "US"}.Holidays(2019, 2019)
	require.NoError(t, err)
	_, ok := find(entries, "Juneteenth National Independence Day", 2019)
	assert.False(t, ok)
}

func TestINRules(t *testing.T) {
	entries, err := NationalCalendar{Country: "IN"}.Holidays(2024, 2024)
	require.NoError(t, err)

	cases := map[string]time.Time{
		"Republic Day":     date(2024, time.January, 26),
		"Holi":             date(2024, time.March, 25),
		"Good Friday":      date(2024, time.March, 29),
		"Independence Day": date(2024, time.August, 15),
		"Gandhi Jayanti":   date(2024, time.October, 2),
		"Diwali":           date(2024, time.October, 31),
	}
	for name, want := range cases {
		e, ok := find(entries, name, 2024)
		require.True(t, ok, name)
		assert.Equal(t, want, e.Date, name)
	}

	// Years outside the lunar table only lose the lunar festivals.
	entries, err = NationalCalendar{Country: "IN"}.Holidays(2040, 2040)
	require.NoError(t, err)
	_, ok := find(entries, "Diwali", 2040)
	assert.False(t, ok)
	_, ok = find(entries, "Republic Day", 2040)
	assert.True(t, ok)
}

func TestGoodFridayFollowsEaster(t *testing.T) {
	entries, err := NationalCalendar{Country: "IN"}.Holidays(2019, 2025)
	require.NoError(t, err)

	cases := map[int]time.Time{
		2019: date(2019, time.April, 19),
		2024: date(2024, time.March, 29),
		2025: date(2025, time.April, 18),
	}
	for year, want := range cases {
		e, ok := find(entries, "Good Friday", year)
		require.True(t, ok, year)
		assert.Equal(t, want, e.Date, year)
	}

	// India has no observed-day shifts.
	for _, e := range entries {
		assert.NotContains(t, e.Name, "(observed)")
	}
}

func TestUSNewYearObservedInPriorYear(t *testing.T) {
	entries, err := NationalCalendar{Country: "US"}.Holidays(2022, 2022)
	require.NoError(t, err)

	// January 1st 2022 fell on a Saturday.
	e, ok := find(entries, "New Year's Day (observed)", 2021)
	require.True(t, ok)
	assert.Equal(t, date(2021, time.December, 31), e.Date)

	for _, e := range entries {
		assert.Equal(t, time.UTC, e.Date.Location())
		assert.Equal(t, models.Day(e.Date), e.Date)
	}
}

func TestUnsupportedRegion(t *testing.T) {
	_, err := NationalCalendar{Country: "ZZ"}.Holidays(2024, 2024)
	assert.ErrorIs(t, err, ErrUnsupportedRegion)

	_, err = NationalCalendar{Country: "US"}.Holidays(2025, 2024)
	assert.ErrorIs(t, err, ErrInvalidYearRange)
}

func TestUnknownExchangeIsAnError(t *testing.T) {
	_, err := ExchangeCalendar{MIC: "zzzz"}.Holidays(2024, 2024)
	assert.ErrorIs(t, err, ErrUnsupportedRegion)
}

func TestExchangeHolidaysAreWeekdays(t *testing.T) {
	entries, err := ExchangeCalendar{MIC: "xnys"}.Holidays(2024, 2024)
	if err != nil {
		t.Skipf("exchange calendar not available: %v", err)
	}
	for _, e := range entries {
		assert.NotEqual(t, time.Saturday, e.Date.Weekday())
		assert.NotEqual(t, time.Sunday, e.Date.Weekday())
		assert.Equal(t, "XNYS market holiday", e.Name)
	}
}

func TestParseSources(t *testing.T) {
	srcs, err := ParseSources("in, US ,mic:XNYS")
	require.NoError(t, err)
	require.Len(t, srcs, 3)
	assert.Equal(t, NationalCalendar{Country: "IN"}, srcs[0])
	assert.Equal(t, NationalCalendar{Country: "US"}, srcs[1])
	assert.Equal(t, ExchangeCalendar{MIC: "xnys"}, srcs[2])

	_, err = ParseSources(" , ")
	assert.ErrorIs(t, err, ErrUnsupportedRegion)

	_, err = ParseSources("mic:")
	assert.ErrorIs(t, err, ErrUnsupportedRegion)
}

func TestBuilderMergesOverlappingDates(t *testing.T) {
	b, err := NewBuilder(DefaultSources(), 0, nil)
	require.NoError(t, err)

	entries := b.Build(2024, 2024)
	byDate := ByDate(entries)

	// Christmas is in both calendars: one entry per source.
	xmas := date(2024, time.December, 25)
	assert.Equal(t, []string{"Christmas Day", "Christmas Day"}, byDate[xmas])

	var sources []string
	for _, e := range entries {
		if e.Date.Equal(xmas) {
			sources = append(sources, e.Source)
		}
	}
	assert.Equal(t, []string{"IN", "US"}, sources)

	// Independence Day exists in both countries on different dates.
	assert.Contains(t, byDate[date(2024, time.July, 4)], "Independence Day")
	assert.Contains(t, byDate[date(2024, time.August, 15)], "Independence Day")
}

func TestBuilderIsOrderIndependent(t *testing.T) {
	a, err := NewBuilder([]Source{NationalCalendar{Country: "IN"}, NationalCalendar{Country: "US"}}, 0, nil)
	require.NoError(t, err)
	b, err := NewBuilder([]Source{NationalCalendar{Country: "US"}, NationalCalendar{Country: "IN"}}, 0, nil)
	require.NoError(t, err)

	assert.Equal(t, a.Build(2016, 2028), b.Build(2016, 2028))
}

type failingSource struct{}

func (failingSource) Name() string { return "broken" }
func (failingSource) Holidays(int, int) ([]models.HolidayEntry, error) {
	return nil, errors.New("calendar backend down")
}

func TestBuilderDegradesFailingSource(t *testing.T) {
	logger, hook := test.NewNullLogger()
	b, err := NewBuilder([]Source{failingSource{}, NationalCalendar{Country: "US"}}, 0, logrus.NewEntry(logger))
	require.NoError(t, err)

	entries := b.Build(2024, 2024)
	assert.NotEmpty(t, entries)
	for _, e := range entries {
		assert.Equal(t, "US", e.Source)
	}
	require.NotNil(t, hook.LastEntry())
	assert.Equal(t, logrus.WarnLevel, hook.LastEntry().Level)
	assert.Equal(t, "broken", hook.LastEntry().Data["source"])
}

type countingSource struct {
	calls int
}

func (c *countingSource) Name() string { return "counting" }
func (c *countingSource) Holidays(from, to int) ([]models.HolidayEntry, error) {
	c.calls++
	return NationalCalendar{Country: "US"}.Holidays(from, to)
}

func TestBuilderCacheMatchesUncached(t *testing.T) {
	src := &countingSource{}
	cached, err := NewBuilder([]Source{src}, 4, nil)
	require.NoError(t, err)
	plain, err := NewBuilder([]Source{NationalCalendar{Country: "US"}}, 0, nil)
	require.NoError(t, err)

	first := cached.Build(2020, 2024)
	second := cached.Build(2020, 2024)
	assert.Equal(t, 1, src.calls)
	assert.Equal(t, first, second)

	assert.Equal(t, plain.Build(2020, 2024), first)

	cached.Build(2021, 2024)
	assert.Equal(t, 2, src.calls)
}

func TestYearRange(t *testing.T) {
	now := date(2026, time.October, 15)

	from, to := YearRange(now, date(2025, time.January, 1), date(2026, time.December, 1))
	assert.Equal(t, 2016, from)
	assert.Equal(t, 2028, to)

	from, to = YearRange(now, date(2010, time.March, 1), date(2030, time.January, 2))
	assert.Equal(t, 2010, from)
	assert.Equal(t, 2030, to)

	from, to = YearRange(now, time.Time{}, time.Time{})
	assert.Equal(t, 2016, from)
	assert.Equal(t, 2028, to)
}
