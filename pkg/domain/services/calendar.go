package services

import (
	"fmt"
	"time"

	"github.com/planfab/prodsim/pkg/domain/entities"
)

// CalendarService builds per-country year calendars from a configured holiday
// list. A country is only known to the service if it was registered up front;
// asking for any other country fails fast rather than silently handing out a
// holiday-free calendar.
type CalendarService struct {
	countries map[entities.Country]bool
	holidays  map[entities.Country]map[time.Time]bool
}

// NewCalendarService registers the known countries and indexes their holidays.
// Holidays for unregistered countries are a configuration error.
func NewCalendarService(countries []entities.Country, holidays []entities.Holiday) (*CalendarService, error) {
	if len(countries) == 0 {
		return nil, fmt.Errorf("at least one country must be registered")
	}
	s := &CalendarService{
		countries: make(map[entities.Country]bool, len(countries)),
		holidays:  make(map[entities.Country]map[time.Time]bool),
	}
	for _, c := range countries {
		if c == "" {
			return nil, fmt.Errorf("country name cannot be empty")
		}
		s.countries[c] = true
		s.holidays[c] = make(map[time.Time]bool)
	}
	for _, h := range holidays {
		if !s.countries[h.Country] {
			return nil, fmt.Errorf("holiday %q references unknown country %q", h.Name, h.Country)
		}
		s.holidays[h.Country][entities.NormalizeDate(h.Date)] = true
	}
	return s, nil
}

// BuildYear generates the full Jan 1 - Dec 31 calendar for one country.
func (s *CalendarService) BuildYear(year int, country entities.Country) (*entities.YearCalendar, error) {
	if !s.countries[country] {
		return nil, fmt.Errorf("unknown country %q", country)
	}
	start := time.Date(year, time.January, 1, 0, 0, 0, 0, time.UTC)
	end := time.Date(year, time.December, 31, 0, 0, 0, 0, time.UTC)

	days := make([]entities.CalendarDay, 0, 366)
	for d := start; !d.After(end); d = d.AddDate(0, 0, 1) {
		_, week := d.ISOWeek()
		days = append(days, entities.CalendarDay{
			Date:         d,
			Weekday:      d.Weekday(),
			IsWorkingDay: s.isWorkingDay(country, d),
			PeriodIndex:  int(d.Month()),
			WeekIndex:    week,
		})
	}
	return &entities.YearCalendar{Year: year, Country: country, Days: days}, nil
}

func (s *CalendarService) isWorkingDay(country entities.Country, date time.Time) bool {
	if date.Weekday() == time.Saturday || date.Weekday() == time.Sunday {
		return false
	}
	return !s.holidays[country][date]
}

// AddWorkingDays walks forward from the given date by n working days of the
// given calendar. n == 0 returns the date unchanged; the walk skips straight
// over non-working days.
func AddWorkingDays(cal *entities.YearCalendar, from time.Time, n int) time.Time {
	d := entities.NormalizeDate(from)
	for remaining := n; remaining > 0; {
		d = d.AddDate(0, 0, 1)
		if cal.IsWorkingDay(d) {
			remaining--
		}
	}
	return d
}

// NextWeekdayOnOrAfter returns the first date on or after from that falls on
// the given weekday.
func NextWeekdayOnOrAfter(from time.Time, weekday time.Weekday) time.Time {
	d := entities.NormalizeDate(from)
	offset := (int(weekday) - int(d.Weekday()) + 7) % 7
	return d.AddDate(0, 0, offset)
}
