package planning

import (
	"fmt"

	"github.com/planfab/prodsim/pkg/domain/entities"
	"github.com/planfab/prodsim/pkg/domain/services"
)

// SeasonalDistributor spreads an annual quantity across the year: monthly
// fractional targets from the seasonal profile, then one integer per working
// day via error diffusion. The diffusion carry threads continuously across
// month boundaries; resetting it per month would break the annual total.
type SeasonalDistributor struct{}

// NewSeasonalDistributor creates a new seasonal distributor.
func NewSeasonalDistributor() *SeasonalDistributor {
	return &SeasonalDistributor{}
}

// Distribute produces one DailyProductionEntry per calendar day. Non-working
// days carry a planned quantity of zero and do not touch the diffusion carry.
// A month with a non-zero target but zero working days is a configuration
// error, reported instead of dividing by zero.
func (d *SeasonalDistributor) Distribute(
	annualTarget float64,
	profile *entities.SeasonalProfile,
	cal *entities.YearCalendar,
) ([]entities.DailyProductionEntry, error) {
	if annualTarget < 0 {
		return nil, fmt.Errorf("annual target cannot be negative, got %f", annualTarget)
	}

	dailyTargets := make([]float64, len(cal.Days))
	for period := 1; period <= 12; period++ {
		weight, _ := profile.Weight(period).Float64()
		monthlyTarget := annualTarget * weight / 100.0

		working := cal.WorkingDaysInPeriod(period)
		if len(working) == 0 {
			if monthlyTarget > 0 {
				return nil, fmt.Errorf("period %d of %d has zero working days but a target of %f units", period, cal.Year, monthlyTarget)
			}
			continue
		}
		perDay := monthlyTarget / float64(len(working))
		for _, day := range working {
			dailyTargets[day.Date.YearDay()-1] = perDay
		}
	}

	state := &services.DiffusionState{}
	entries := make([]entities.DailyProductionEntry, len(cal.Days))
	for i, day := range cal.Days {
		entry := entities.DailyProductionEntry{
			Date:         day.Date,
			IsWorkingDay: day.IsWorkingDay,
		}
		if day.IsWorkingDay {
			target := dailyTargets[i]
			entry.TargetFractional = target
			entry.Planned = state.Step(target)
		}
		entry.Actual = entry.Planned
		entry.CarryAfter = state.Carry
		entries[i] = entry
	}
	return entries, nil
}

// Rediffuse recomputes planned quantities from the given day index onward,
// starting from the carry that entered that day, using the fractional targets
// already stored on the entries. Entries before startIdx are untouched.
func Rediffuse(entries []entities.DailyProductionEntry, startIdx int) {
	state := &services.DiffusionState{}
	if startIdx > 0 {
		state.Carry = entries[startIdx-1].CarryAfter
	}
	for i := startIdx; i < len(entries); i++ {
		if entries[i].IsWorkingDay {
			entries[i].Planned = state.Step(entries[i].TargetFractional)
		} else {
			entries[i].Planned = 0
		}
		entries[i].Actual = entries[i].Planned
		entries[i].CarryAfter = state.Carry
	}
}
