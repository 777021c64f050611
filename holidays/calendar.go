// Package holidays builds the holiday table used as regressors by the forecasting model. It
// merges independent calendar sources; a source that cannot serve a year range contributes
// nothing instead of failing the forecast.
package holidays

import (
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"

	"demandforecast/models"

	lru "github.com/hashicorp/golang-lru/v2"
	"github.com/sirupsen/logrus"
)

var (
	ErrUnsupportedRegion = errors.New("unsupported holiday region")
	ErrInvalidYearRange  = errors.New("invalid year range")
)

const (
	// YearsBack and YearsAhead bound the default calendar window around the current year.
	YearsBack  = 10
	YearsAhead = 2
)

// Source produces the holidays of one calendar for an inclusive year range.
type Source interface {
	Name() string
	Holidays(fromYear, toYear int) ([]models.HolidayEntry, error)
}

// DefaultSources are region A (India) and region B (United States).
func DefaultSources() []Source {
	return []Source{NationalCalendar{Country: "IN"}, NationalCalendar{Country: "US"}}
}

// ParseSources turns a comma separated list such as "IN,US" or "IN,mic:xnys" into sources.
// Plain tokens are country codes; "mic:" tokens select an exchange calendar.
func ParseSources(regions string) ([]Source, error) {
	var out []Source
	for _, tok := range strings.Split(regions, ",") {
		tok = strings.TrimSpace(tok)
		if tok == "" {
			continue
		}
		if mic, ok := strings.CutPrefix(strings.ToLower(tok), "mic:"); ok {
			if mic == "" {
				return nil, fmt.Errorf("%w: empty exchange code", ErrUnsupportedRegion)
			}
			out = append(out, ExchangeCalendar{MIC: mic})
			continue
		}
		out = append(out, NationalCalendar{Country: strings.ToUpper(tok)})
	}
	if len(out) == 0 {
		return nil, fmt.Errorf("%w: no holiday sources in %q", ErrUnsupportedRegion, regions)
	}
	return out, nil
}

type yearRange struct {
	from, to int
}

// Builder merges the configured sources. When a cache is attached, results are memoized per
// year range; because the range moves with the calendar year, entries go stale naturally.
type Builder struct {
	sources []Source
	cache   *lru.Cache[yearRange, []models.HolidayEntry]
	log     *logrus.Entry
}

// NewBuilder creates a builder over sources. cacheSize <= 0 disables memoization.
func NewBuilder(sources []Source, cacheSize int, log *logrus.Entry) (*Builder, error) {
	if log == nil {
		log = logrus.NewEntry(logrus.StandardLogger())
	}
	b := &Builder{sources: sources, log: log.WithField("component", "holidays")}
	if cacheSize > 0 {
		c, err := lru.New[yearRange, []models.HolidayEntry](cacheSize)
		if err != nil {
			return nil, fmt.Errorf("failed to create holiday cache: %w", err)
		}
		b.cache = c
	}
	return b, nil
}

// YearRange returns the calendar window for a forecast made at now whose history and forecast
// horizon span first..last. The window is never narrower than [now-YearsBack, now+YearsAhead].
func YearRange(now, first, last time.Time) (int, int) {
	from, to := now.Year()-YearsBack, now.Year()+YearsAhead
	if !first.IsZero() && first.Year() < from {
		from = first.Year()
	}
	if !last.IsZero() && last.Year() > to {
		to = last.Year()
	}
	return from, to
}

// Build returns every entry of every source for the inclusive year range, sorted by date,
// name and source. Entries sharing a date are all kept.
func (b *Builder) Build(fromYear, toYear int) []models.HolidayEntry {
	key := yearRange{fromYear, toYear}
	if b.cache != nil {
		if entries, ok := b.cache.Get(key); ok {
			return entries
		}
	}

	var all []models.HolidayEntry
	for _, src := range b.sources {
		entries, err := src.Holidays(fromYear, toYear)
		if err != nil {
			b.log.WithError(err).WithFields(logrus.Fields{
				"source": src.Name(),
				"from":   fromYear,
				"to":     toYear,
			}).Warn("holiday source unavailable, continuing without it")
			continue
		}
		all = append(all, entries...)
	}

	sort.Slice(all, func(i, j int) bool {
		if !all[i].Date.Equal(all[j].Date) {
			return all[i].Date.Before(all[j].Date)
		}
		if all[i].Name != all[j].Name {
			return all[i].Name < all[j].Name
		}
		return all[i].Source < all[j].Source
	})

	if b.cache != nil {
		b.cache.Add(key, all)
	}
	return all
}

// ByDate groups holiday names by date.
func ByDate(entries []models.HolidayEntry) map[time.Time][]string {
	out := make(map[time.Time][]string)
	for _, e := range entries {
		d := models.Day(e.Date)
		out[d] = append(out[d], e.Name)
	}
	return out
}
