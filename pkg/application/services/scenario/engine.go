package scenario

import (
	"context"
	"fmt"
	"math"

	"github.com/shopspring/decimal"

	"github.com/planfab/prodsim/pkg/application/dto"
	"github.com/planfab/prodsim/pkg/application/services/logistics"
	"github.com/planfab/prodsim/pkg/application/services/orchestration"
	"github.com/planfab/prodsim/pkg/application/services/planning"
	"github.com/planfab/prodsim/pkg/domain/entities"
)

// Engine runs the baseline and the perturbed simulation and diffs the
// tracked metrics. The baseline configuration is never mutated: every
// perturbation acts on the perturbed run's own freshly built plan, orders, or
// shipment schedule.
//
// Composed scenarios apply in a fixed, documented order: every capacity cut,
// stock loss, and shipment delay first, then the demand surges; within each
// class, declaration order. The order is deterministic by construction and
// pinned by tests.
type Engine struct {
	runner *orchestration.Runner
}

// NewEngine creates a scenario engine on top of the given runner.
func NewEngine(runner *orchestration.Runner) *Engine {
	return &Engine{runner: runner}
}

// Compare executes the baseline and the scenario run and returns both full
// results plus per-metric deltas. With no scenarios configured the deltas are
// all zero.
func (e *Engine) Compare(ctx context.Context, cfg *entities.RunConfig) (*dto.ScenarioComparison, error) {
	baseline, err := e.runner.Run(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("baseline run: %w", err)
	}

	opts, ids, err := buildRunOptions(cfg.Scenarios)
	if err != nil {
		return nil, err
	}
	perturbed, err := e.runner.Run(ctx, cfg, opts...)
	if err != nil {
		return nil, fmt.Errorf("scenario run: %w", err)
	}

	return &dto.ScenarioComparison{
		ScenarioIDs:   ids,
		Baseline:      baseline,
		WithScenarios: perturbed,
		Metrics:       diffMetrics(baseline, perturbed),
	}, nil
}

// buildRunOptions translates the scenarios into run transforms, reductions
// before surges.
func buildRunOptions(scenarios []*entities.Scenario) ([]orchestration.RunOption, []string, error) {
	var opts []orchestration.RunOption
	var ids []string

	ordered := make([]*entities.Scenario, 0, len(scenarios))
	for _, s := range scenarios {
		if s.Type != entities.DemandSurge {
			ordered = append(ordered, s)
		}
	}
	for _, s := range scenarios {
		if s.Type == entities.DemandSurge {
			ordered = append(ordered, s)
		}
	}

	for _, s := range ordered {
		ids = append(ids, s.ID)
		switch s.Type {
		case entities.DemandSurge:
			pct, _ := s.Surge.IncreasePercent.Float64()
			opts = append(opts, orchestration.WithPlanTransform(
				scalePlanTransform(s.Window, s.Surge.Variants, 1.0+pct/100.0)))
		case entities.CapacityLoss:
			pct, _ := s.Loss.LossPercent.Float64()
			factor := 1.0 - pct/100.0
			if s.Loss.Side == entities.SupplierSide {
				opts = append(opts, orchestration.WithOrderTransform(
					scaleOrdersTransform(s.Window, factor)))
			} else {
				opts = append(opts, orchestration.WithPlanTransform(
					scalePlanTransform(s.Window, nil, factor)))
			}
		case entities.StockLoss:
			opts = append(opts, orchestration.WithShipmentTransform(
				stockLossTransform(s.Stock)))
		case entities.ShipmentDelay:
			opts = append(opts, orchestration.WithShipmentTransform(
				shipmentDelayTransform(s.Delay)))
		default:
			return nil, nil, fmt.Errorf("scenario %s: unknown type %d", s.ID, s.Type)
		}
	}
	return opts, ids, nil
}

// scalePlanTransform multiplies the fractional daily targets inside the
// window (optionally for a variant subset) and re-runs diffusion over each
// touched variant's year, so the scaled plan keeps the one-unit reconciliation.
func scalePlanTransform(window entities.DateWindow, variants []entities.VariantID, factor float64) orchestration.PlanTransform {
	subset := make(map[entities.VariantID]bool, len(variants))
	for _, id := range variants {
		subset[id] = true
	}
	return func(plan *planning.Plan, cal *entities.YearCalendar) error {
		if factor < 0 {
			return fmt.Errorf("plan scale factor cannot be negative, got %f", factor)
		}
		for _, vp := range plan.Variants {
			if len(subset) > 0 && !subset[vp.VariantID] {
				continue
			}
			touched := false
			for i := range vp.Entries {
				e := &vp.Entries[i]
				if !e.IsWorkingDay || !window.Contains(e.Date) {
					continue
				}
				e.TargetFractional *= factor
				touched = true
			}
			if touched {
				planning.Rediffuse(vp.Entries, 0)
			}
		}
		return nil
	}
}

// scaleOrdersTransform cuts supplier order quantities inside the window.
// Orders scaled to zero are dropped.
func scaleOrdersTransform(window entities.DateWindow, factor float64) orchestration.OrderTransform {
	return func(orders []logistics.SupplierOrder) ([]logistics.SupplierOrder, error) {
		if factor < 0 {
			return nil, fmt.Errorf("order scale factor cannot be negative, got %f", factor)
		}
		out := make([]logistics.SupplierOrder, 0, len(orders))
		for _, o := range orders {
			if window.Contains(o.OrderDate) {
				o.Quantity = entities.Quantity(math.Floor(float64(o.Quantity) * factor))
				if o.Quantity == 0 {
					continue
				}
			}
			out = append(out, o)
		}
		return out, nil
	}
}

// stockLossTransform removes lost goods from the named batches' deliveries.
// The batch record keeps its shipped quantity (the goods did depart in whole
// lots); only the posted arrival shrinks.
func stockLossTransform(params *entities.StockLossParams) orchestration.ShipmentTransform {
	named := make(map[string]bool, len(params.OrderIDs))
	for _, id := range params.OrderIDs {
		named[id] = true
	}
	return func(result *logistics.Result) error {
		matched := make(map[string]bool)
		for i := range result.Arrivals {
			a := &result.Arrivals[i]
			if !named[a.OrderID] {
				continue
			}
			matched[a.OrderID] = true
			var loss entities.Quantity
			if params.LossPercent.IsPositive() {
				pct, _ := params.LossPercent.Float64()
				loss = entities.Quantity(math.Floor(float64(a.Quantity) * pct / 100.0))
			} else {
				loss = params.Quantity
			}
			if loss > a.Quantity {
				loss = a.Quantity
			}
			a.Quantity -= loss
		}
		for _, id := range params.OrderIDs {
			if !matched[id] {
				return fmt.Errorf("stock loss names unknown shipment batch %s", id)
			}
		}
		return nil
	}
}

// shipmentDelayTransform pushes the named batches' factory arrivals forward,
// re-threading downstream inventory through the later receipt date.
func shipmentDelayTransform(params *entities.ShipmentDelayParams) orchestration.ShipmentTransform {
	named := make(map[string]bool, len(params.OrderIDs))
	for _, id := range params.OrderIDs {
		named[id] = true
	}
	return func(result *logistics.Result) error {
		matched := make(map[string]bool)
		for i := range result.Batches {
			b := &result.Batches[i]
			if named[b.OrderID] {
				matched[b.OrderID] = true
				b.FactoryArrivalDate = b.FactoryArrivalDate.AddDate(0, 0, params.DelayDays)
			}
		}
		for i := range result.Arrivals {
			a := &result.Arrivals[i]
			if named[a.OrderID] {
				a.Date = a.Date.AddDate(0, 0, params.DelayDays)
			}
		}
		for _, id := range params.OrderIDs {
			if !matched[id] {
				return fmt.Errorf("shipment delay names unknown shipment batch %s", id)
			}
		}
		return nil
	}
}

// trackedMetrics are the quantities diffed between runs.
func diffMetrics(baseline, perturbed *dto.RunResult) []dto.MetricComparison {
	extract := func(r *dto.RunResult) map[string]entities.Quantity {
		return map[string]entities.Quantity{
			"planned_total":    r.Totals.Planned,
			"actual_total":     r.Totals.Actual,
			"shortfall_total":  r.Totals.Shortfall,
			"shipped_total":    r.Totals.Shipped,
			"ending_inventory": r.Totals.EndingInventory,
		}
	}
	names := []string{"planned_total", "actual_total", "shortfall_total", "shipped_total", "ending_inventory"}

	base := extract(baseline)
	with := extract(perturbed)
	out := make([]dto.MetricComparison, 0, len(names))
	for _, name := range names {
		delta := with[name] - base[name]
		var pct decimal.Decimal
		if base[name] != 0 {
			pct = decimal.NewFromInt(int64(delta)).
				Mul(decimal.NewFromInt(100)).
				Div(decimal.NewFromInt(int64(base[name]))).
				Round(4)
		}
		out = append(out, dto.MetricComparison{
			Metric:       name,
			Baseline:     base[name],
			WithScenario: with[name],
			Delta:        delta,
			DeltaPercent: pct,
		})
	}
	return out
}
