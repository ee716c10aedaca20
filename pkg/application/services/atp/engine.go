package atp

import (
	"fmt"
	"sort"
	"time"

	"github.com/planfab/prodsim/pkg/domain/entities"
	"github.com/planfab/prodsim/pkg/domain/repositories"
	"github.com/planfab/prodsim/pkg/domain/services"
)

// VariantDemand is one variant's planned output for the day under check.
type VariantDemand struct {
	VariantID entities.VariantID
	Planned   entities.Quantity
}

// Engine performs the available-to-promise check: given the day's planned
// output per variant and the component stock on hand, it decides how much can
// actually be produced, consumes the stock, and reports the limiting
// components. When variants compete for the same component on the same day
// the combined demand is rationed by the allocation policy first, so the
// outcome never depends on variant processing order.
type Engine struct {
	bom    *entities.BillOfMaterials
	policy services.AllocationPolicy
}

// NewEngine creates an ATP engine for one BOM and allocation policy.
func NewEngine(bom *entities.BillOfMaterials, policy services.AllocationPolicy) *Engine {
	return &Engine{bom: bom, policy: policy}
}

// CheckDay grants each variant's producible quantity for one day and consumes
// the granted component stock. Scarcity is reported in the results, never as
// an error; errors indicate engine defects (ledger underflow) or broken
// policy output.
func (e *Engine) CheckDay(
	date time.Time,
	demands []VariantDemand,
	stock repositories.InventoryStore,
) ([]entities.ATPResult, error) {
	ordered := make([]VariantDemand, len(demands))
	copy(ordered, demands)
	sort.Slice(ordered, func(i, j int) bool { return ordered[i].VariantID < ordered[j].VariantID })

	caps, err := e.componentCaps(ordered, stock)
	if err != nil {
		return nil, err
	}

	results := make([]entities.ATPResult, 0, len(ordered))
	for _, d := range ordered {
		if d.Planned < 0 {
			return nil, fmt.Errorf("variant %s planned quantity cannot be negative, got %d", d.VariantID, d.Planned)
		}
		granted := d.Planned
		var limiting []entities.ComponentID
		for _, line := range e.bom.LinesFor(d.VariantID) {
			producible := caps[capKey{d.VariantID, line.ComponentID}] / line.UnitsPerVariant
			if producible < granted {
				granted = producible
				limiting = limiting[:0]
				limiting = append(limiting, line.ComponentID)
			} else if producible == granted && granted < d.Planned {
				limiting = append(limiting, line.ComponentID)
			}
		}
		for _, line := range e.bom.LinesFor(d.VariantID) {
			if err := stock.Consume(line.ComponentID, granted*line.UnitsPerVariant); err != nil {
				return nil, fmt.Errorf("consuming stock for variant %s: %w", d.VariantID, err)
			}
		}
		result, err := entities.NewATPResult(d.VariantID, date, d.Planned, granted, limiting)
		if err != nil {
			return nil, err
		}
		results = append(results, *result)
	}
	return results, nil
}

type capKey struct {
	variant   entities.VariantID
	component entities.ComponentID
}

// componentCaps computes, per (variant, component), how many component units
// the variant may draw today. Components with enough stock for everyone cap
// at the variant's own requirement; scarce components are rationed through
// the allocation policy over the competing variants' unit requirements.
func (e *Engine) componentCaps(
	demands []VariantDemand,
	stock repositories.InventoryStore,
) (map[capKey]entities.Quantity, error) {
	required := make(map[entities.ComponentID][]entities.ConsumerDemand)
	perVariant := make(map[capKey]entities.Quantity)
	for _, d := range demands {
		for _, line := range e.bom.LinesFor(d.VariantID) {
			units := d.Planned * line.UnitsPerVariant
			perVariant[capKey{d.VariantID, line.ComponentID}] = units
			required[line.ComponentID] = append(required[line.ComponentID], entities.ConsumerDemand{
				ConsumerID: string(d.VariantID),
				Demand:     units,
			})
		}
	}

	caps := make(map[capKey]entities.Quantity, len(perVariant))
	for componentID, consumers := range required {
		var total entities.Quantity
		for _, c := range consumers {
			total += c.Demand
		}
		available := stock.Available(componentID)
		if available >= total {
			for _, c := range consumers {
				caps[capKey{entities.VariantID(c.ConsumerID), componentID}] = c.Demand
			}
			continue
		}
		grants, err := e.policy.Allocate(consumers, available)
		if err != nil {
			return nil, fmt.Errorf("rationing component %s: %w", componentID, err)
		}
		for _, g := range grants {
			caps[capKey{entities.VariantID(g.ConsumerID), componentID}] = g.Granted
		}
	}
	return caps, nil
}
