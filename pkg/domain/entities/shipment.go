package entities

import (
	"fmt"
	"time"
)

// ShipmentBatch is one harbor departure of a component towards the factory.
// Quantity is always a whole multiple of the configured lot size and the
// departure always falls on the configured sailing weekday.
type ShipmentBatch struct {
	OrderID            string
	ComponentID        ComponentID
	HarborArrivalDate  time.Time
	DepartureDate      time.Time
	LotMultiple        int
	Quantity           Quantity
	FactoryArrivalDate time.Time
}

// HarborQueueState tracks the pending stock of one component waiting at the
// harbor for the next sailing.
type HarborQueueState struct {
	ComponentID       ComponentID
	PendingStock      Quantity
	LastDepartureDate time.Time
}

// LogisticsParams holds the supplier/transport configuration for one run.
// All durations are day counts; the working-day legs count days in the
// calendar named next to them.
type LogisticsParams struct {
	SupplierLeadDays    int          // supplier production, supplier-country working days
	InlandToPortDays    int          // supplier-country working days
	SeaTransitDays      int          // calendar days, no working-day restriction
	InlandToFactoryDays int          // destination-country working days
	LotSize             Quantity     // minimum shippable batch multiple
	SailingWeekday      time.Weekday // the only weekday harbor stock departs on
}

// Validate checks the parameter ranges. Violations are configuration errors.
func (p LogisticsParams) Validate() error {
	if p.SupplierLeadDays < 0 {
		return fmt.Errorf("supplier lead days cannot be negative, got %d", p.SupplierLeadDays)
	}
	if p.InlandToPortDays < 0 {
		return fmt.Errorf("inland-to-port days cannot be negative, got %d", p.InlandToPortDays)
	}
	if p.SeaTransitDays < 0 {
		return fmt.Errorf("sea transit days cannot be negative, got %d", p.SeaTransitDays)
	}
	if p.InlandToFactoryDays < 0 {
		return fmt.Errorf("inland-to-factory days cannot be negative, got %d", p.InlandToFactoryDays)
	}
	if p.LotSize <= 0 {
		return fmt.Errorf("lot size must be positive, got %d", p.LotSize)
	}
	if p.SailingWeekday < time.Sunday || p.SailingWeekday > time.Saturday {
		return fmt.Errorf("sailing weekday out of range: %d", p.SailingWeekday)
	}
	return nil
}
