package entities

import (
	"time"
)

// DailyProductionEntry is one variant's production figure for one day.
// Planned is fixed by the planner; Actual starts equal to Planned and is
// later overwritten with the ATP grant.
type DailyProductionEntry struct {
	Date                    time.Time
	VariantID               VariantID
	TargetFractional        float64
	Planned                 Quantity
	Actual                  Quantity
	CarryAfter              float64
	IsWorkingDay            bool
	ManualAdjustmentApplied bool
}

// PeriodOverride is a manual delta applied to one variant's plan for one
// calendar month. The delta is re-diffused across the period's working days.
type PeriodOverride struct {
	VariantID VariantID
	Period    int // 1..12
	Delta     Quantity
}

// OverrideRejection explains why an override was refused. State is left
// unchanged when an override is rejected.
type OverrideRejection struct {
	Override PeriodOverride
	Reason   string
}

func (r *OverrideRejection) Error() string {
	return "override rejected: " + r.Reason
}
