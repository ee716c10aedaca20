package dto

import (
	"github.com/shopspring/decimal"

	"github.com/planfab/prodsim/pkg/domain/entities"
)

// RunResult is the complete output of one simulation run, consumed as-is by
// the presentation layer.
type RunResult struct {
	RunID string
	Year  int

	// Production holds one entry per variant per day, in (day, variant)
	// order, with Actual already overwritten by the ATP check.
	Production []entities.DailyProductionEntry
	// Ledger holds one entry per component per simulated day.
	Ledger []entities.LedgerEntry
	// Batches are the harbor departures with computed dates and quantities.
	Batches []entities.ShipmentBatch
	// HarborQueues is the final pending state per component.
	HarborQueues map[entities.ComponentID]entities.HarborQueueState
	// ATP holds the per-day per-variant availability results.
	ATP []entities.ATPResult

	WeeklyRollups  []PeriodRollup
	MonthlyRollups []PeriodRollup
	Totals         Totals
}

// PeriodRollup aggregates one variant over one week or month. Rollups are
// computed by summing the daily records, never recomputed independently, so
// they reconcile to the dailies exactly.
type PeriodRollup struct {
	VariantID entities.VariantID
	Year      int // ISO year for weekly rollups, calendar year for monthly
	Period    int // ISO week or month, per the containing slice
	Planned   entities.Quantity
	Actual    entities.Quantity
	Shortfall entities.Quantity
}

// Totals are the run-level aggregates.
type Totals struct {
	Planned            entities.Quantity
	Actual             entities.Quantity
	Shortfall          entities.Quantity
	Shipped            entities.Quantity
	EndingInventory    entities.Quantity
	FulfillmentPercent decimal.Decimal
	// BacklogByVariant is the accumulated unmet planned quantity per variant.
	BacklogByVariant map[entities.VariantID]entities.Quantity
}

// MetricComparison is one tracked metric diffed between baseline and
// scenario runs.
type MetricComparison struct {
	Metric       string
	Baseline     entities.Quantity
	WithScenario entities.Quantity
	Delta        entities.Quantity
	DeltaPercent decimal.Decimal
}

//// ScenarioComparison is the scenario engine's output: both full runs plus the
// per-metric deltas.
type ScenarioComparison struct {
	ScenarioIDs   []string
	Baseline      *RunResult
	WithScenarios *RunResult
	Metrics       []MetricComparison
}

// MetricByName returns the comparison for one metric name.
func (c *ScenarioComparison) MetricByName(name string) (MetricComparison, bool) {
	for _, m := range c.Metrics {
		if m.Metric == name {
			return m, true
		}
	}
	return MetricComparison{}, false
}
