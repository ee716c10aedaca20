package planning

import (
	"errors"
	"math"
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"github.com/planfab/prodsim/pkg/domain/entities"
	"github.com/planfab/prodsim/pkg/domain/services"
)

func testCalendar(t *testing.T) *entities.YearCalendar {
	t.Helper()
	holidays := []entities.Holiday{
		{Date: time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC), Name: "New Year", Country: "DE"},
		{Date: time.Date(2026, 12, 25, 0, 0, 0, 0, time.UTC), Name: "Christmas", Country: "DE"},
	}
	svc, err := services.NewCalendarService([]entities.Country{"DE"}, holidays)
	if err != nil {
		t.Fatalf("NewCalendarService failed: %v", err)
	}
	cal, err := svc.BuildYear(2026, "DE")
	if err != nil {
		t.Fatalf("BuildYear failed: %v", err)
	}
	return cal
}

func flatProfile(t *testing.T) *entities.SeasonalProfile {
	t.Helper()
	weights := make([]entities.PeriodWeight, 12)
	for i := range weights {
		weights[i] = entities.PeriodWeight{Period: i + 1, WeightPercent: decimal.RequireFromString("8.3333")}
	}
	profile, err := entities.NewSeasonalProfile(weights)
	if err != nil {
		t.Fatalf("NewSeasonalProfile failed: %v", err)
	}
	return profile
}

func skewedProfile(t *testing.T) *entities.SeasonalProfile {
	t.Helper()
	// strong summer peak, the kind a seasonal good actually has
	pcts := []string{"4", "4", "6", "8", "10", "14", "16", "14", "10", "6", "4", "4"}
	weights := make([]entities.PeriodWeight, 12)
	for i, pct := range pcts {
		weights[i] = entities.PeriodWeight{Period: i + 1, WeightPercent: decimal.RequireFromString(pct)}
	}
	profile, err := entities.NewSeasonalProfile(weights)
	if err != nil {
		t.Fatalf("NewSeasonalProfile failed: %v", err)
	}
	return profile
}

func TestDistribute_AnnualTotalReconciles(t *testing.T) {
	cal := testCalendar(t)
	tests := []struct {
		name    string
		target  float64
		profile *entities.SeasonalProfile
	}{
		{"flat_370k", 370000, flatProfile(t)},
		{"skewed_370k", 370000, skewedProfile(t)},
		{"flat_small", 997, flatProfile(t)},
		{"skewed_awkward", 123457, skewedProfile(t)},
		{"zero", 0, flatProfile(t)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d := NewSeasonalDistributor()
			entries, err := d.Distribute(tt.target, tt.profile, cal)
			if err != nil {
				t.Fatalf("Distribute failed: %v", err)
			}
			if len(entries) != len(cal.Days) {
				t.Fatalf("expected %d entries, got %d", len(cal.Days), len(entries))
			}

			var total entities.Quantity
			for _, e := range entries {
				total += e.Planned
				if !e.IsWorkingDay && e.Planned != 0 {
					t.Errorf("%s is non-working but planned %d", e.Date.Format("2006-01-02"), e.Planned)
				}
				if e.CarryAfter < 0 || e.CarryAfter >= 1 {
					t.Errorf("%s carry %f outside [0,1)", e.Date.Format("2006-01-02"), e.CarryAfter)
				}
			}

			// the profile sums to ~100% (within tolerance), so the planned
			// total must land within one unit of the effective target
			var effective float64
			for period := 1; period <= 12; period++ {
				w, _ := tt.profile.Weight(period).Float64()
				effective += tt.target * w / 100.0
			}
			if drift := math.Abs(float64(total) - effective); drift >= 1.0 {
				t.Errorf("total %d drifts %f from effective target %f", total, drift, effective)
			}
		})
	}
}

func TestDistribute_CarryContinuousAcrossMonths(t *testing.T) {
	cal := testCalendar(t)
	d := NewSeasonalDistributor()
	entries, err := d.Distribute(73211, skewedProfile(t), cal)
	if err != nil {
		t.Fatalf("Distribute failed: %v", err)
	}

	// cumulative planned never drifts a full unit from cumulative fractional
	// target at any point in the year, which only holds if the carry threads
	// across month boundaries instead of resetting
	var planned, fractional float64
	for _, e := range entries {
		if e.IsWorkingDay {
			planned += float64(e.Planned)
			fractional += e.TargetFractional
		}
		if drift := math.Abs(planned - fractional); drift >= 1.0 {
			t.Fatalf("cumulative drift %f >= 1 at %s", drift, e.Date.Format("2006-01-02"))
		}
	}
}

func TestDistribute_NegativeTarget(t *testing.T) {
	d := NewSeasonalDistributor()
	if _, err := d.Distribute(-1, flatProfile(t), testCalendar(t)); err == nil {
		t.Error("expected error for negative annual target")
	}
}

func buildTestPlan(t *testing.T, target entities.Quantity, overrides []entities.PeriodOverride) (*Plan, *entities.YearCalendar) {
	t.Helper()
	cal := testCalendar(t)
	cfg := &entities.RunConfig{
		Year:         2026,
		AnnualTarget: target,
		Variants: []entities.Variant{
			{ID: "V1", Name: "Standard", AnnualSharePercent: decimal.NewFromInt(60)},
			{ID: "V2", Name: "Premium", AnnualSharePercent: decimal.NewFromInt(40)},
		},
		Seasonal:  skewedProfile(t),
		Overrides: overrides,
	}
	plan, err := NewPlanner().BuildPlan(cfg, cal)
	if err != nil {
		t.Fatalf("BuildPlan failed: %v", err)
	}
	return plan, cal
}

func TestBuildPlan_PerVariantTotals(t *testing.T) {
	plan, _ := buildTestPlan(t, 370000, nil)

	if len(plan.Variants) != 2 {
		t.Fatalf("expected 2 variant plans, got %d", len(plan.Variants))
	}
	wantTargets := map[entities.VariantID]float64{"V1": 222000, "V2": 148000}
	for _, vp := range plan.Variants {
		want := wantTargets[vp.VariantID]
		if drift := math.Abs(float64(vp.TotalPlanned()) - want); drift >= 1.0 {
			t.Errorf("variant %s total %d drifts %f from %f", vp.VariantID, vp.TotalPlanned(), drift, want)
		}
		for _, e := range vp.Entries {
			if e.VariantID != vp.VariantID {
				t.Fatalf("entry on %s tagged %s, want %s", e.Date.Format("2006-01-02"), e.VariantID, vp.VariantID)
			}
			if e.Actual != e.Planned {
				t.Errorf("actual should equal planned before ATP, got %d vs %d", e.Actual, e.Planned)
			}
		}
	}
}

func TestBuildPlan_Deterministic(t *testing.T) {
	a, _ := buildTestPlan(t, 370000, nil)
	b, _ := buildTestPlan(t, 370000, nil)
	for i, vp := range a.Variants {
		for j, e := range vp.Entries {
			if e != b.Variants[i].Entries[j] {
				t.Fatalf("plans differ at variant %s day %d", vp.VariantID, j)
			}
		}
	}
}

func TestApplyOverride_AdjustsPeriodAndPreservesDiffusion(t *testing.T) {
	plan, cal := buildTestPlan(t, 120000, nil)
	vp := plan.VariantPlanFor("V1")
	before := vp.TotalPlanned()

	adjusted, err := NewPlanner().ApplyOverride(vp, cal, entities.PeriodOverride{
		VariantID: "V1", Period: 6, Delta: 900,
	})
	if err != nil {
		t.Fatalf("ApplyOverride failed: %v", err)
	}

	diff := adjusted.TotalPlanned() - before
	if diff < 899 || diff > 901 {
		t.Errorf("override changed total by %d, want 900 +-1", diff)
	}
	// days before the overridden period are untouched
	for i, e := range adjusted.Entries {
		if int(e.Date.Month()) < 6 && e != vp.Entries[i] {
			t.Fatalf("entry before period changed at %s", e.Date.Format("2006-01-02"))
		}
		if int(e.Date.Month()) == 6 && e.IsWorkingDay && !e.ManualAdjustmentApplied {
			t.Errorf("working day %s in overridden period not flagged", e.Date.Format("2006-01-02"))
		}
		if e.CarryAfter < 0 || e.CarryAfter >= 1 {
			t.Errorf("carry %f outside [0,1) at %s", e.CarryAfter, e.Date.Format("2006-01-02"))
		}
	}
	// original plan untouched
	if vp.TotalPlanned() != before {
		t.Error("ApplyOverride mutated its input plan")
	}
}

func TestApplyOverride_RoundTrip(t *testing.T) {
	plan, cal := buildTestPlan(t, 120000, nil)
	vp := plan.VariantPlanFor("V1")
	planner := NewPlanner()

	up, err := planner.ApplyOverride(vp, cal, entities.PeriodOverride{VariantID: "V1", Period: 4, Delta: 500})
	if err != nil {
		t.Fatalf("ApplyOverride(+500) failed: %v", err)
	}
	down, err := planner.ApplyOverride(up, cal, entities.PeriodOverride{VariantID: "V1", Period: 4, Delta: -500})
	if err != nil {
		t.Fatalf("ApplyOverride(-500) failed: %v", err)
	}

	if diff := down.TotalPlanned() - vp.TotalPlanned(); diff < -1 || diff > 1 {
		t.Errorf("round trip changed total by %d", diff)
	}
	for i := range vp.Entries {
		delta := down.Entries[i].Planned - vp.Entries[i].Planned
		if delta < -1 || delta > 1 {
			t.Errorf("round trip moved %s by %d units", vp.Entries[i].Date.Format("2006-01-02"), delta)
		}
	}
}

func TestApplyOverride_RejectsNegativeDays(t *testing.T) {
	plan, cal := buildTestPlan(t, 1200, nil)
	vp := plan.VariantPlanFor("V2")
	before := vp.TotalPlanned()

	// V2 gets 480 units/year; period 1 holds ~4% of that, so -10000 must reject
	_, err := NewPlanner().ApplyOverride(vp, cal, entities.PeriodOverride{
		VariantID: "V2", Period: 1, Delta: -10000,
	})
	if err == nil {
		t.Fatal("expected rejection for negative daily targets")
	}
	var rejection *entities.OverrideRejection
	if !errors.As(err, &rejection) {
		t.Fatalf("expected *entities.OverrideRejection, got %T", err)
	}
	if vp.TotalPlanned() != before {
		t.Error("rejected override must leave state unchanged")
	}
}

func TestBuildPlan_AppliesConfiguredOverrides(t *testing.T) {
	base, _ := buildTestPlan(t, 120000, nil)
	overridden, _ := buildTestPlan(t, 120000, []entities.PeriodOverride{
		{VariantID: "V1", Period: 2, Delta: 300},
	})
	diff := overridden.VariantPlanFor("V1").TotalPlanned() - base.VariantPlanFor("V1").TotalPlanned()
	if diff < 299 || diff > 301 {
		t.Errorf("configured override changed total by %d, want 300 +-1", diff)
	}
}
