package planning

import (
	"fmt"

	"github.com/planfab/prodsim/pkg/domain/entities"
)

// VariantPlan is the full-year daily schedule of one variant.
type VariantPlan struct {
	VariantID    entities.VariantID
	AnnualTarget float64
	Entries      []entities.DailyProductionEntry
}

// TotalPlanned sums the planned quantity over the year.
func (p *VariantPlan) TotalPlanned() entities.Quantity {
	var total entities.Quantity
	for _, e := range p.Entries {
		total += e.Planned
	}
	return total
}

// Clone returns a deep copy, so scenario runs never mutate the baseline plan.
func (p *VariantPlan) Clone() *VariantPlan {
	entries := make([]entities.DailyProductionEntry, len(p.Entries))
	copy(entries, p.Entries)
	return &VariantPlan{
		VariantID:    p.VariantID,
		AnnualTarget: p.AnnualTarget,
		Entries:      entries,
	}
}

// Plan holds every variant's schedule for one run, in config variant order.
type Plan struct {
	Year     int
	Variants []*VariantPlan
}

// VariantPlanFor returns the schedule of one variant, or nil.
func (p *Plan) VariantPlanFor(id entities.VariantID) *VariantPlan {
	for _, vp := range p.Variants {
		if vp.VariantID == id {
			return vp
		}
	}
	return nil
}

// Clone deep-copies the whole plan.
func (p *Plan) Clone() *Plan {
	variants := make([]*VariantPlan, len(p.Variants))
	for i, vp := range p.Variants {
		variants[i] = vp.Clone()
	}
	return &Plan{Year: p.Year, Variants: variants}
}

// Planner builds annual production plans: each variant's share of the annual
// target, distributed seasonally, with manual period overrides re-diffused so
// the annual total stays reconciled.
type Planner struct {
	distributor *SeasonalDistributor
}

// NewPlanner creates a new production planner.
func NewPlanner() *Planner {
	return &Planner{distributor: NewSeasonalDistributor()}
}

// BuildPlan produces the baseline plan for every variant and applies the
// configured overrides in declaration order. An override rejection aborts the
// build; a rejected override is a configuration the caller must resolve.
func (p *Planner) BuildPlan(cfg *entities.RunConfig, cal *entities.YearCalendar) (*Plan, error) {
	plan := &Plan{Year: cfg.Year, Variants: make([]*VariantPlan, 0, len(cfg.Variants))}

	for _, variant := range cfg.Variants {
		share, _ := variant.AnnualSharePercent.Float64()
		variantTarget := float64(cfg.AnnualTarget) * share / 100.0

		entries, err := p.distributor.Distribute(variantTarget, cfg.Seasonal, cal)
		if err != nil {
			return nil, fmt.Errorf("distributing variant %s: %w", variant.ID, err)
		}
		for i := range entries {
			entries[i].VariantID = variant.ID
		}
		plan.Variants = append(plan.Variants, &VariantPlan{
			VariantID:    variant.ID,
			AnnualTarget: variantTarget,
			Entries:      entries,
		})
	}

	for _, override := range cfg.Overrides {
		vp := plan.VariantPlanFor(override.VariantID)
		if vp == nil {
			return nil, fmt.Errorf("override references unknown variant %s", override.VariantID)
		}
		adjusted, err := p.ApplyOverride(vp, cal, override)
		if err != nil {
			return nil, fmt.Errorf("applying override for variant %s period %d: %w", override.VariantID, override.Period, err)
		}
		*vp = *adjusted
	}

	return plan, nil
}

// ApplyOverride redistributes an override delta evenly across the period's
// working days and re-runs diffusion from the carry entering the period, so
// downstream days stay consistent with the threaded carry. The input plan is
// never mutated. A delta that would drive any day's target negative is
// rejected with the state unchanged, never clamped.
func (p *Planner) ApplyOverride(
	vp *VariantPlan,
	cal *entities.YearCalendar,
	override entities.PeriodOverride,
) (*VariantPlan, error) {
	if override.Period < 1 || override.Period > 12 {
		return nil, &entities.OverrideRejection{
			Override: override,
			Reason:   fmt.Sprintf("period %d out of range 1..12", override.Period),
		}
	}
	working := cal.WorkingDaysInPeriod(override.Period)
	if len(working) == 0 {
		return nil, &entities.OverrideRejection{
			Override: override,
			Reason:   fmt.Sprintf("period %d has no working days", override.Period),
		}
	}

	perDay := float64(override.Delta) / float64(len(working))
	adjusted := vp.Clone()

	firstIdx := -1
	for i := range adjusted.Entries {
		e := &adjusted.Entries[i]
		if int(e.Date.Month()) != override.Period {
			continue
		}
		if firstIdx == -1 {
			firstIdx = i
		}
		if !e.IsWorkingDay {
			continue
		}
		next := e.TargetFractional + perDay
		if next < 0 {
			return nil, &entities.OverrideRejection{
				Override: override,
				Reason: fmt.Sprintf("delta %d would drive %s to a negative daily target (%f)",
					override.Delta, e.Date.Format("2006-01-02"), next),
			}
		}
		e.TargetFractional = next
		e.ManualAdjustmentApplied = true
	}

	Rediffuse(adjusted.Entries, firstIdx)
	adjusted.AnnualTarget += float64(override.Delta)
	return adjusted, nil
}
