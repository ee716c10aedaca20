package orchestration

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/planfab/prodsim/pkg/application/dto"
	"github.com/planfab/prodsim/pkg/application/services/atp"
	"github.com/planfab/prodsim/pkg/application/services/logistics"
	"github.com/planfab/prodsim/pkg/application/services/planning"
	"github.com/planfab/prodsim/pkg/domain/entities"
	"github.com/planfab/prodsim/pkg/domain/repositories"
	"github.com/planfab/prodsim/pkg/domain/services"
	"github.com/planfab/prodsim/pkg/infrastructure/events"
)

// PlanTransform mutates the built plan before logistics and the day loop run.
// The scenario engine uses it to apply demand surges and production-side
// capacity cuts.
type PlanTransform func(plan *planning.Plan, cal *entities.YearCalendar) error

// OrderTransform rewrites the generated supplier orders, for supplier-side
// capacity cuts.
type OrderTransform func(orders []logistics.SupplierOrder) ([]logistics.SupplierOrder, error)

// ShipmentTransform mutates the simulated logistics result, for stock losses
// and shipment delays.
type ShipmentTransform func(result *logistics.Result) error

// RunOption configures one run without touching the shared configuration.
type RunOption func(*runOptions)

type runOptions struct {
	planTransforms     []PlanTransform
	orderTransforms    []OrderTransform
	shipmentTransforms []ShipmentTransform
	eventSink          events.Store
}

// WithPlanTransform registers a plan transform, applied in registration order.
func WithPlanTransform(f PlanTransform) RunOption {
	return func(o *runOptions) { o.planTransforms = append(o.planTransforms, f) }
}

// WithOrderTransform registers a supplier order transform.
func WithOrderTransform(f OrderTransform) RunOption {
	return func(o *runOptions) { o.orderTransforms = append(o.orderTransforms, f) }
}

// WithShipmentTransform registers a logistics result transform.
func WithShipmentTransform(f ShipmentTransform) RunOption {
	return func(o *runOptions) { o.shipmentTransforms = append(o.shipmentTransforms, f) }
}

// WithEventSink records the run's lifecycle events, one stream per run id.
func WithEventSink(sink events.Store) RunOption {
	return func(o *runOptions) { o.eventSink = sink }
}

// InventoryFactory builds the per-run inventory store. Every run gets its own
// store, so parallel baseline/scenario runs never share mutable state.
type InventoryFactory func(initial map[entities.ComponentID]entities.Quantity) repositories.InventoryStore

// Runner drives the whole pipeline for one configuration: validation,
// calendars, planning, logistics, and the chronological ATP day loop. A run
// is single-threaded and deterministic; parallelism is only safe across
// independent runs.
type Runner struct {
	log       *logrus.Logger
	inventory InventoryFactory
}

// NewRunner creates a runner logging to the given logger.
func NewRunner(log *logrus.Logger, inventory InventoryFactory) *Runner {
	if log == nil {
		log = logrus.StandardLogger()
	}
	return &Runner{log: log, inventory: inventory}
}

// Run executes one full simulation. Configuration errors surface before any
// simulation day is processed; scarcity shows up in the result records, never
// as an error. cfg is never mutated.
func (r *Runner) Run(ctx context.Context, cfg *entities.RunConfig, opts ...RunOption) (*dto.RunResult, error) {
	options := &runOptions{}
	for _, opt := range opts {
		opt(options)
	}

	if err := services.NewConfigValidator().Validate(cfg); err != nil {
		return nil, err
	}

	runID := uuid.NewString()
	started := time.Now()
	log := r.log.WithFields(logrus.Fields{
		"run_id":   runID,
		"year":     cfg.Year,
		"variants": len(cfg.Variants),
		"policy":   cfg.AllocationPolicy.String(),
	})
	log.Info("simulation run starting")
	r.emit(options, runID, events.RunStartedEvent, events.RunStarted{
		Year:         cfg.Year,
		VariantCount: len(cfg.Variants),
		Policy:       cfg.AllocationPolicy.String(),
	})

	calSvc, err := services.NewCalendarService(
		[]entities.Country{cfg.ProductionCountry, cfg.SupplierCountry}, cfg.Holidays)
	if err != nil {
		return nil, fmt.Errorf("building calendar service: %w", err)
	}
	prodCal, err := calSvc.BuildYear(cfg.Year, cfg.ProductionCountry)
	if err != nil {
		return nil, fmt.Errorf("building production calendar: %w", err)
	}
	supplierCal, err := calSvc.BuildYear(cfg.Year, cfg.SupplierCountry)
	if err != nil {
		return nil, fmt.Errorf("building supplier calendar: %w", err)
	}

	plan, err := planning.NewPlanner().BuildPlan(cfg, prodCal)
	if err != nil {
		return nil, fmt.Errorf("building production plan: %w", err)
	}
	for _, transform := range options.planTransforms {
		if err := transform(plan, prodCal); err != nil {
			return nil, fmt.Errorf("applying plan transform: %w", err)
		}
	}
	for _, vp := range plan.Variants {
		r.emit(options, runID, events.PlanBuiltEvent, events.PlanBuilt{
			VariantID: vp.VariantID,
			Planned:   vp.TotalPlanned(),
		})
	}

	shipments, err := r.runLogistics(cfg, plan, supplierCal, prodCal, options)
	if err != nil {
		return nil, err
	}
	for _, b := range shipments.Batches {
		r.emit(options, runID, events.BatchDepartedEvent, events.BatchDeparted{Batch: b})
	}

	result, err := r.runDayLoop(ctx, cfg, plan, prodCal, shipments, runID, options)
	if err != nil {
		return nil, err
	}

	if err := auditRun(cfg, plan, result); err != nil {
		return nil, err
	}

	r.emit(options, runID, events.RunCompletedEvent, events.RunCompleted{
		Planned: result.Totals.Planned,
		Actual:  result.Totals.Actual,
		Shipped: result.Totals.Shipped,
	})
	log.WithFields(logrus.Fields{
		"planned":  result.Totals.Planned,
		"actual":   result.Totals.Actual,
		"shipped":  result.Totals.Shipped,
		"duration": time.Since(started).Round(time.Millisecond).String(),
	}).Info("simulation run finished")
	return result, nil
}

// emit records one lifecycle event when a sink is configured. A failing sink
// is reported but never fails the run.
func (r *Runner) emit(options *runOptions, runID, eventType string, data interface{}) {
	if options.eventSink == nil {
		return
	}
	if err := options.eventSink.AppendEvent(runID, events.NewEvent(eventType, runID, data)); err != nil {
		r.log.WithError(err).WithField("event", eventType).Warn("event sink rejected event")
	}
}

// runLogistics derives the component demand from the plan, generates supplier
// orders, and simulates the supply pipeline through the extended horizon.
func (r *Runner) runLogistics(
	cfg *entities.RunConfig,
	plan *planning.Plan,
	supplierCal, prodCal *entities.YearCalendar,
	options *runOptions,
) (*logistics.Result, error) {
	componentDemand := make(map[entities.ComponentID]entities.Quantity)
	for _, vp := range plan.Variants {
		total := vp.TotalPlanned()
		for _, line := range cfg.BOM.LinesFor(vp.VariantID) {
			componentDemand[line.ComponentID] += total * line.UnitsPerVariant
		}
	}
	// production already covered by initial stock needs no resupply
	for id, onHand := range cfg.InitialStock {
		if demand, ok := componentDemand[id]; ok {
			if onHand >= demand {
				delete(componentDemand, id)
			} else {
				componentDemand[id] = demand - onHand
			}
		}
	}

	sim, err := logistics.NewSimulator(supplierCal, prodCal, cfg.Logistics)
	if err != nil {
		return nil, fmt.Errorf("building logistics simulator: %w", err)
	}
	yearStart := time.Date(cfg.Year, time.January, 1, 0, 0, 0, 0, time.UTC)
	orders, err := sim.GenerateOrders(componentDemand, yearStart)
	if err != nil {
		return nil, fmt.Errorf("generating supplier orders: %w", err)
	}
	for _, transform := range options.orderTransforms {
		if orders, err = transform(orders); err != nil {
			return nil, fmt.Errorf("applying order transform: %w", err)
		}
	}

	horizonEnd := time.Date(cfg.Year, time.December, 31, 0, 0, 0, 0, time.UTC).
		AddDate(0, 0, cfg.HorizonExtraDays)
	shipments, err := sim.Simulate(orders, horizonEnd)
	if err != nil {
		return nil, fmt.Errorf("simulating logistics: %w", err)
	}
	for _, transform := range options.shipmentTransforms {
		if err := transform(shipments); err != nil {
			return nil, fmt.Errorf("applying shipment transform: %w", err)
		}
	}
	return shipments, nil
}

// runDayLoop walks the horizon chronologically: post receipts, run the ATP
// check, write actuals back, close the ledger day. Order matters; the carry
// and inventory causality both depend on strictly ascending days.
func (r *Runner) runDayLoop(
	ctx context.Context,
	cfg *entities.RunConfig,
	plan *planning.Plan,
	prodCal *entities.YearCalendar,
	shipments *logistics.Result,
	runID string,
	options *runOptions,
) (*dto.RunResult, error) {
	store := r.inventory(cfg.InitialStock)
	for _, componentID := range cfg.BOM.Components() {
		store.Track(componentID)
	}

	policy, err := services.NewAllocationPolicy(cfg.AllocationPolicy)
	if err != nil {
		return nil, err
	}
	engine := atp.NewEngine(cfg.BOM, policy)

	arrivalsByDay := make(map[time.Time][]logistics.Arrival)
	for _, a := range shipments.Arrivals {
		arrivalsByDay[a.Date] = append(arrivalsByDay[a.Date], a)
	}

	result := &dto.RunResult{
		RunID:        runID,
		Year:         cfg.Year,
		Batches:      shipments.Batches,
		HarborQueues: shipments.Queues,
	}

	yearStart := time.Date(cfg.Year, time.January, 1, 0, 0, 0, 0, time.UTC)
	horizonEnd := time.Date(cfg.Year, time.December, 31, 0, 0, 0, 0, time.UTC).
		AddDate(0, 0, cfg.HorizonExtraDays)

	for day := yearStart; !day.After(horizonEnd); day = day.AddDate(0, 0, 1) {
		if err := ctx.Err(); err != nil {
			return nil, fmt.Errorf("run cancelled on %s: %w", day.Format("2006-01-02"), err)
		}
		store.BeginDay(day)
		for _, a := range arrivalsByDay[day] {
			store.Receive(a.ComponentID, a.Quantity)
		}

		if day.Year() == cfg.Year {
			dayIdx := day.YearDay() - 1
			demands := make([]atp.VariantDemand, 0, len(plan.Variants))
			for _, vp := range plan.Variants {
				demands = append(demands, atp.VariantDemand{
					VariantID: vp.VariantID,
					Planned:   vp.Entries[dayIdx].Planned,
				})
			}
			atpResults, err := engine.CheckDay(day, demands, store)
			if err != nil {
				return nil, fmt.Errorf("ATP check on %s: %w", day.Format("2006-01-02"), err)
			}
			for _, res := range atpResults {
				plan.VariantPlanFor(res.VariantID).Entries[dayIdx].Actual = res.GrantedQty
				if res.GrantedQty < res.RequestedQty {
					r.emit(options, runID, events.ShortageIdentifiedEvent, events.ShortageIdentified{Result: res})
				}
				result.ATP = append(result.ATP, res)
			}
		}

		result.Ledger = append(result.Ledger, store.EndDay()...)
	}

	for dayIdx := 0; dayIdx < len(prodCal.Days); dayIdx++ {
		for _, vp := range plan.Variants {
			result.Production = append(result.Production, vp.Entries[dayIdx])
		}
	}

	buildRollups(result, prodCal, shipments)
	return result, nil
}
