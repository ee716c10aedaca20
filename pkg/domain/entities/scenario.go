package entities

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"
)

// ScenarioType enumerates the supported disruption kinds.
type ScenarioType int

const (
	DemandSurge ScenarioType = iota
	CapacityLoss
	StockLoss
	ShipmentDelay
)

func (t ScenarioType) String() string {
	switch t {
	case DemandSurge:
		return "DemandSurge"
	case CapacityLoss:
		return "CapacityLoss"
	case StockLoss:
		return "StockLoss"
	case ShipmentDelay:
		return "ShipmentDelay"
	default:
		return "Unknown"
	}
}

// DateWindow is an inclusive activation window for a scenario.
type DateWindow struct {
	From time.Time
	To   time.Time
}

// Contains reports whether the given date falls inside the window.
func (w DateWindow) Contains(date time.Time) bool {
	d := NormalizeDate(date)
	return !d.Before(NormalizeDate(w.From)) && !d.After(NormalizeDate(w.To))
}

// DemandSurgeParams raises the daily planned target inside the window,
// optionally limited to a variant subset (empty = all variants).
type DemandSurgeParams struct {
	IncreasePercent decimal.Decimal
	Variants        []VariantID
}

// CapacityLossParams cuts planned output inside the window. Side selects
// whether the cut applies to production capacity or supplier capacity.
type CapacityLossParams struct {
	LossPercent decimal.Decimal
	Side        CapacitySide
}

// CapacitySide distinguishes production-site from supplier-side capacity.
type CapacitySide int

const (
	ProductionSide CapacitySide = iota
	SupplierSide
)

func (s CapacitySide) String() string {
	switch s {
	case ProductionSide:
		return "Production"
	case SupplierSide:
		return "Supplier"
	default:
		return "Unknown"
	}
}

// StockLossParams removes stock from named shipment batches: either a fixed
// quantity (complete when it covers the batch) or a partial-loss percentage.
type StockLossParams struct {
	OrderIDs    []string
	Quantity    Quantity        // fixed loss; ignored when LossPercent > 0
	LossPercent decimal.Decimal // partial loss applied per batch
}

// ShipmentDelayParams shifts named shipment batches' arrivals forward.
type ShipmentDelayParams struct {
	OrderIDs  []string
	DelayDays int
}

// Scenario is a named, parameterized disruption. Exactly one of the parameter
// records is set, matching Type; NewScenario enforces this at construction.
type Scenario struct {
	ID     string
	Name   string
	Type   ScenarioType
	Window DateWindow

	Surge *DemandSurgeParams
	Loss  *CapacityLossParams
	Stock *StockLossParams
	Delay *ShipmentDelayParams
}

// NewScenario validates that the parameter record matches the declared type
// and that its values are in range.
func NewScenario(id, name string, typ ScenarioType, window DateWindow, params any) (*Scenario, error) {
	if id == "" {
		return nil, fmt.Errorf("scenario id cannot be empty")
	}
	if window.From.IsZero() || window.To.IsZero() {
		return nil, fmt.Errorf("scenario %s: activation window cannot be zero", id)
	}
	if NormalizeDate(window.To).Before(NormalizeDate(window.From)) {
		return nil, fmt.Errorf("scenario %s: window end before start", id)
	}
	s := &Scenario{ID: id, Name: name, Type: typ, Window: window}
	switch typ {
	case DemandSurge:
		p, ok := params.(DemandSurgeParams)
		if !ok {
			return nil, fmt.Errorf("scenario %s: demand-surge requires DemandSurgeParams", id)
		}
		if p.IncreasePercent.IsNegative() {
			return nil, fmt.Errorf("scenario %s: surge percent cannot be negative", id)
		}
		s.Surge = &p
	case CapacityLoss:
		p, ok := params.(CapacityLossParams)
		if !ok {
			return nil, fmt.Errorf("scenario %s: capacity-loss requires CapacityLossParams", id)
		}
		if p.LossPercent.IsNegative() || p.LossPercent.GreaterThan(decimal.NewFromInt(100)) {
			return nil, fmt.Errorf("scenario %s: loss percent must be within 0..100, got %s", id, p.LossPercent)
		}
		s.Loss = &p
	case StockLoss:
		p, ok := params.(StockLossParams)
		if !ok {
			return nil, fmt.Errorf("scenario %s: stock-loss requires StockLossParams", id)
		}
		if len(p.OrderIDs) == 0 {
			return nil, fmt.Errorf("scenario %s: stock-loss requires at least one order id", id)
		}
		if p.Quantity < 0 {
			return nil, fmt.Errorf("scenario %s: stock-loss quantity cannot be negative", id)
		}
		if p.LossPercent.IsNegative() || p.LossPercent.GreaterThan(decimal.NewFromInt(100)) {
			return nil, fmt.Errorf("scenario %s: loss percent must be within 0..100, got %s", id, p.LossPercent)
		}
		s.Stock = &p
	case ShipmentDelay:
		p, ok := params.(ShipmentDelayParams)
		if !ok {
			return nil, fmt.Errorf("scenario %s: shipment-delay requires ShipmentDelayParams", id)
		}
		if len(p.OrderIDs) == 0 {
			return nil, fmt.Errorf("scenario %s: shipment-delay requires at least one order id", id)
		}
		if p.DelayDays <= 0 {
			return nil, fmt.Errorf("scenario %s: delay days must be positive, got %d", id, p.DelayDays)
		}
		s.Delay = &p
	default:
		return nil, fmt.Errorf("scenario %s: unknown scenario type %d", id, typ)
	}
	return s, nil
}
