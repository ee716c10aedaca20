package orchestration

import (
	"fmt"
	"math"
	"sort"

	"github.com/shopspring/decimal"

	"github.com/planfab/prodsim/pkg/application/dto"
	"github.com/planfab/prodsim/pkg/application/services/logistics"
	"github.com/planfab/prodsim/pkg/application/services/planning"
	"github.com/planfab/prodsim/pkg/domain/entities"
)

type rollupKey struct {
	variant entities.VariantID
	year    int
	period  int
}

// buildRollups fills the weekly/monthly aggregates and run totals by summing
// the daily records. Nothing here recomputes from configuration, so the
// rollups cannot drift from the dailies.
func buildRollups(result *dto.RunResult, cal *entities.YearCalendar, shipments *logistics.Result) {
	weekly := make(map[rollupKey]*dto.PeriodRollup)
	monthly := make(map[rollupKey]*dto.PeriodRollup)
	accumulate := func(m map[rollupKey]*dto.PeriodRollup, k rollupKey, e entities.DailyProductionEntry) {
		r, ok := m[k]
		if !ok {
			r = &dto.PeriodRollup{VariantID: k.variant, Year: k.year, Period: k.period}
			m[k] = r
		}
		r.Planned += e.Planned
		r.Actual += e.Actual
		r.Shortfall += e.Planned - e.Actual
	}

	totals := dto.Totals{BacklogByVariant: make(map[entities.VariantID]entities.Quantity)}
	for _, e := range result.Production {
		day, err := cal.DayOn(e.Date)
		if err != nil {
			continue
		}
		// the bare ISO week number repeats across year boundaries (late
		// December can fall in week 1 of the next ISO year), so weekly
		// aggregation keys on the (ISO year, week) pair
		isoYear, _ := e.Date.ISOWeek()
		accumulate(weekly, rollupKey{e.VariantID, isoYear, day.WeekIndex}, e)
		accumulate(monthly, rollupKey{e.VariantID, cal.Year, day.PeriodIndex}, e)
		totals.Planned += e.Planned
		totals.Actual += e.Actual
		totals.Shortfall += e.Planned - e.Actual
		totals.BacklogByVariant[e.VariantID] += e.Planned - e.Actual
	}

	result.WeeklyRollups = flattenRollups(weekly)
	result.MonthlyRollups = flattenRollups(monthly)

	for _, b := range shipments.Batches {
		totals.Shipped += b.Quantity
	}
	if len(result.Ledger) > 0 {
		lastDay := result.Ledger[len(result.Ledger)-1].Date
		for _, e := range result.Ledger {
			if e.Date.Equal(lastDay) {
				totals.EndingInventory += e.ClosingStock
			}
		}
	}
	if totals.Planned > 0 {
		totals.FulfillmentPercent = decimal.NewFromInt(int64(totals.Actual)).
			Mul(decimal.NewFromInt(100)).
			Div(decimal.NewFromInt(int64(totals.Planned))).
			Round(4)
	} else {
		totals.FulfillmentPercent = decimal.NewFromInt(100)
	}
	result.Totals = totals
}

func flattenRollups(m map[rollupKey]*dto.PeriodRollup) []dto.PeriodRollup {
	out := make([]dto.PeriodRollup, 0, len(m))
	for _, r := range m {
		out = append(out, *r)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Year != out[j].Year {
			return out[i].Year < out[j].Year
		}
		if out[i].Period != out[j].Period {
			return out[i].Period < out[j].Period
		}
		return out[i].VariantID < out[j].VariantID
	})
	return out
}

// AuditError reports an engine invariant breach found after a run. It is a
// defect in the engine, distinct from user-facing configuration errors.
type AuditError struct {
	Findings []string
}

func (e *AuditError) Error() string {
	return fmt.Sprintf("run audit failed (%d findings): %v", len(e.Findings), e.Findings)
}

// auditRun re-checks the core invariants over the finished run: annual plan
// totals within one unit of target, balanced non-negative ledger entries,
// lot-multiple batches departing on the sailing weekday.
func auditRun(cfg *entities.RunConfig, plan *planning.Plan, result *dto.RunResult) error {
	audit := &AuditError{}

	for _, vp := range plan.Variants {
		var fractional float64
		for _, e := range vp.Entries {
			if e.IsWorkingDay {
				fractional += e.TargetFractional
			}
		}
		if drift := math.Abs(float64(vp.TotalPlanned()) - fractional); drift >= 1.0 {
			audit.Findings = append(audit.Findings,
				fmt.Sprintf("variant %s planned total %d drifts %.3f from target %.3f",
					vp.VariantID, vp.TotalPlanned(), drift, fractional))
		}
	}
	for _, e := range result.Ledger {
		if !e.Balanced() {
			audit.Findings = append(audit.Findings,
				fmt.Sprintf("ledger entry %s/%s does not balance", e.ComponentID, e.Date.Format("2006-01-02")))
		}
	}
	for _, b := range result.Batches {
		if b.Quantity%cfg.Logistics.LotSize != 0 {
			audit.Findings = append(audit.Findings,
				fmt.Sprintf("batch %s quantity %d is not a multiple of lot size %d", b.OrderID, b.Quantity, cfg.Logistics.LotSize))
		}
		if b.DepartureDate.Weekday() != cfg.Logistics.SailingWeekday {
			audit.Findings = append(audit.Findings,
				fmt.Sprintf("batch %s departed on %s instead of %s", b.OrderID, b.DepartureDate.Weekday(), cfg.Logistics.SailingWeekday))
		}
	}

	if len(audit.Findings) > 0 {
		return audit
	}
	return nil
}
