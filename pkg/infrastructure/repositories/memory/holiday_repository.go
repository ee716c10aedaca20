package memory

import (
	"sort"

	"github.com/planfab/prodsim/pkg/domain/entities"
	"github.com/planfab/prodsim/pkg/domain/repositories"
)

// HolidayRepository provides in-memory holiday calendar storage.
type HolidayRepository struct {
	byCountry map[entities.Country][]entities.Holiday
	order     []entities.Country
}

// Verify interface compliance
var _ repositories.HolidayRepository = (*HolidayRepository)(nil)

// NewHolidayRepository creates an empty holiday repository.
func NewHolidayRepository() *HolidayRepository {
	return &HolidayRepository{byCountry: make(map[entities.Country][]entities.Holiday)}
}

// AddCountry registers a country, with or without holidays.
func (r *HolidayRepository) AddCountry(country entities.Country) {
	if _, ok := r.byCountry[country]; !ok {
		r.byCountry[country] = nil
		r.order = append(r.order, country)
	}
}

// AddHoliday stores one holiday, registering its country as needed.
func (r *HolidayRepository) AddHoliday(h entities.Holiday) {
	r.AddCountry(h.Country)
	r.byCountry[h.Country] = append(r.byCountry[h.Country], h)
}

// Countries returns the registered countries in registration order.
func (r *HolidayRepository) Countries() []entities.Country {
	out := make([]entities.Country, len(r.order))
	copy(out, r.order)
	return out
}

// HolidaysFor returns one country's holidays in date order.
func (r *HolidayRepository) HolidaysFor(country entities.Country) []entities.Holiday {
	hs := make([]entities.Holiday, len(r.byCountry[country]))
	copy(hs, r.byCountry[country])
	sort.Slice(hs, func(i, j int) bool { return hs[i].Date.Before(hs[j].Date) })
	return hs
}

// All returns every configured holiday, grouped by country in registration
// order.
func (r *HolidayRepository) All() []entities.Holiday {
	var out []entities.Holiday
	for _, c := range r.order {
		out = append(out, r.HolidaysFor(c)...)
	}
	return out
}

// OverrideRepository provides in-memory storage of manual period overrides in
// declaration order.
type OverrideRepository struct {
	overrides []entities.PeriodOverride
}

// Verify interface compliance
var _ repositories.OverrideRepository = (*OverrideRepository)(nil)

// NewOverrideRepository creates an empty override repository.
func NewOverrideRepository() *OverrideRepository {
	return &OverrideRepository{}
}

// Add appends an override. Declaration order is application order.
func (r *OverrideRepository) Add(o entities.PeriodOverride) {
	r.overrides = append(r.overrides, o)
}

// All returns the overrides in declaration order.
func (r *OverrideRepository) All() []entities.PeriodOverride {
	out := make([]entities.PeriodOverride, len(r.overrides))
	copy(out, r.overrides)
	return out
}
