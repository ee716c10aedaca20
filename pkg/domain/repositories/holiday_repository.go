package repositories

import (
	"github.com/planfab/prodsim/pkg/domain/entities"
)

// HolidayRepository supplies the configured holiday calendars.
type HolidayRepository interface {
	// Countries returns every country a calendar is configured for.
	Countries() []entities.Country
	// HolidaysFor returns the holidays of one country, in date order.
	HolidaysFor(country entities.Country) []entities.Holiday
	// All returns every configured holiday.
	All() []entities.Holiday
}

// OverrideRepository supplies the manual period-level production overrides.
type OverrideRepository interface {
	// All returns the overrides in declaration order, which is also their
	// application order.
	All() []entities.PeriodOverride
}
