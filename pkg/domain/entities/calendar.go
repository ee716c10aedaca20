package entities

import (
	"fmt"
	"time"
)

// Country identifies a work calendar (production site or supplier site).
type Country string

// Quantity represents an integer quantity of discrete manufactured units.
type Quantity int64

// Holiday represents a single non-working date in one country's calendar.
type Holiday struct {
	Date     time.Time
	Name     string
	Category string
	Country  Country
}

// NewHoliday creates a validated Holiday. The date is normalized to midnight UTC.
func NewHoliday(date time.Time, name, category string, country Country) (*Holiday, error) {
	if country == "" {
		return nil, fmt.Errorf("holiday country cannot be empty")
	}
	if date.IsZero() {
		return nil, fmt.Errorf("holiday date cannot be zero")
	}
	return &Holiday{
		Date:     NormalizeDate(date),
		Name:     name,
		Category: category,
		Country:  country,
	}, nil
}

// CalendarDay is one annotated day of a country's year calendar. Immutable
// once generated for a given (year, country, holiday set).
type CalendarDay struct {
	Date         time.Time
	Weekday      time.Weekday
	IsWorkingDay bool
	PeriodIndex  int // 1..12, calendar month
	WeekIndex    int // ISO week number
}

// YearCalendar is the full Jan 1 - Dec 31 day sequence for one country.
type YearCalendar struct {
	Year    int
	Country Country
	Days    []CalendarDay
}

// DayOn returns the calendar day for the given date, or an error if the date
// falls outside the calendar year.
func (c *YearCalendar) DayOn(date time.Time) (CalendarDay, error) {
	d := NormalizeDate(date)
	if d.Year() != c.Year {
		return CalendarDay{}, fmt.Errorf("date %s outside calendar year %d", d.Format("2006-01-02"), c.Year)
	}
	idx := d.YearDay() - 1
	if idx < 0 || idx >= len(c.Days) {
		return CalendarDay{}, fmt.Errorf("date %s not covered by calendar", d.Format("2006-01-02"))
	}
	return c.Days[idx], nil
}

// IsWorkingDay reports whether the given date is a working day. Dates outside
// the calendar year fall back to the weekend-only rule, so working-day walks
// that run past December 31 stay well defined.
func (c *YearCalendar) IsWorkingDay(date time.Time) bool {
	d := NormalizeDate(date)
	if day, err := c.DayOn(d); err == nil {
		return day.IsWorkingDay
	}
	return d.Weekday() != time.Saturday && d.Weekday() != time.Sunday
}

// WorkingDaysInPeriod returns the working days of one calendar month.
func (c *YearCalendar) WorkingDaysInPeriod(period int) []CalendarDay {
	var days []CalendarDay
	for _, day := range c.Days {
		if day.PeriodIndex == period && day.IsWorkingDay {
			days = append(days, day)
		}
	}
	return days
}

// NormalizeDate truncates a timestamp to midnight UTC so date arithmetic and
// map keys never drift across time zones or DST transitions.
func NormalizeDate(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}
