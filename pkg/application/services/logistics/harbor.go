package logistics

import (
	"fmt"
	"sort"
	"time"

	"github.com/planfab/prodsim/pkg/domain/entities"
	"github.com/planfab/prodsim/pkg/domain/services"
)

// SupplierOrder is one component quantity the overseas supplier starts
// producing on OrderDate.
type SupplierOrder struct {
	OrderID     string
	ComponentID entities.ComponentID
	Quantity    entities.Quantity
	OrderDate   time.Time
}

// Arrival is one posted receipt at the factory, linked to the batch that
// delivered it.
type Arrival struct {
	OrderID     string
	ComponentID entities.ComponentID
	Date        time.Time
	Quantity    entities.Quantity
}

// Result is the full outcome of one logistics simulation.
type Result struct {
	Batches  []entities.ShipmentBatch
	Arrivals []Arrival
	// Queues holds the final harbor state per component; pending stock that
	// never filled a whole lot stays queued here.
	Queues map[entities.ComponentID]entities.HarborQueueState
}

// ArrivalsOn returns the receipts of one date, keyed by component.
func (r *Result) ArrivalsOn(date time.Time) map[entities.ComponentID]entities.Quantity {
	d := entities.NormalizeDate(date)
	out := make(map[entities.ComponentID]entities.Quantity)
	for _, a := range r.Arrivals {
		if a.Date.Equal(d) {
			out[a.ComponentID] += a.Quantity
		}
	}
	return out
}

// TotalShipped sums every departed batch of one component.
func (r *Result) TotalShipped(componentID entities.ComponentID) entities.Quantity {
	var total entities.Quantity
	for _, b := range r.Batches {
		if b.ComponentID == componentID {
			total += b.Quantity
		}
	}
	return total
}

// Simulator models the supply pipeline: supplier production and inland
// transport in supplier-country working days, harbor accumulation with
// fixed-weekday lot-multiple departures, sea transit in plain calendar days,
// and the destination inland leg in destination-country working days. Each
// leg counts days in its own country's calendar; mixing them up is the bug
// class the tests guard against.
type Simulator struct {
	supplierCal *entities.YearCalendar
	destCal     *entities.YearCalendar
	params      entities.LogisticsParams
}

// NewSimulator creates a logistics simulator over the two country calendars.
func NewSimulator(supplierCal, destCal *entities.YearCalendar, params entities.LogisticsParams) (*Simulator, error) {
	if err := params.Validate(); err != nil {
		return nil, err
	}
	if supplierCal == nil || destCal == nil {
		return nil, fmt.Errorf("both supplier and destination calendars are required")
	}
	return &Simulator{supplierCal: supplierCal, destCal: destCal, params: params}, nil
}

// Simulate runs every order through the pipeline up to horizonEnd. Orders
// whose goods reach the harbor too late for a departure before horizonEnd are
// not lost: their quantities remain in the returned queue states, and batches
// that depart before the horizon keep their computed factory arrival even
// when it lands past horizonEnd.
func (s *Simulator) Simulate(orders []SupplierOrder, horizonEnd time.Time) (*Result, error) {
	horizon := entities.NormalizeDate(horizonEnd)

	type harborArrival struct {
		date time.Time
		qty  entities.Quantity
	}
	arrivalsByComponent := make(map[entities.ComponentID][]harborArrival)
	var earliest time.Time
	for _, o := range orders {
		if o.Quantity <= 0 {
			return nil, fmt.Errorf("order %s quantity must be positive, got %d", o.OrderID, o.Quantity)
		}
		// supplier production, then inland haul to the port, both in
		// supplier-country working days
		ready := services.AddWorkingDays(s.supplierCal, o.OrderDate, s.params.SupplierLeadDays)
		atPort := services.AddWorkingDays(s.supplierCal, ready, s.params.InlandToPortDays)
		arrivalsByComponent[o.ComponentID] = append(arrivalsByComponent[o.ComponentID], harborArrival{date: atPort, qty: o.Quantity})
		if earliest.IsZero() || atPort.Before(earliest) {
			earliest = atPort
		}
	}

	result := &Result{Queues: make(map[entities.ComponentID]entities.HarborQueueState)}
	if earliest.IsZero() {
		return result, nil
	}

	components := make([]entities.ComponentID, 0, len(arrivalsByComponent))
	for id := range arrivalsByComponent {
		components = append(components, id)
		sort.Slice(arrivalsByComponent[id], func(i, j int) bool {
			return arrivalsByComponent[id][i].date.Before(arrivalsByComponent[id][j].date)
		})
	}
	sort.Slice(components, func(i, j int) bool { return components[i] < components[j] })

	batchSeq := make(map[entities.ComponentID]int)
	firstSailing := services.NextWeekdayOnOrAfter(earliest, s.params.SailingWeekday)
	for _, componentID := range components {
		queue := entities.HarborQueueState{ComponentID: componentID}
		pending := arrivalsByComponent[componentID]
		next := 0
		var lastAt time.Time
		for day := firstSailing; !day.After(horizon); day = day.AddDate(0, 0, 7) {
			// everything that reached the port up to and including the
			// sailing day is eligible for this departure
			for next < len(pending) && !pending[next].date.After(day) {
				queue.PendingStock += pending[next].qty
				lastAt = pending[next].date
				next++
			}

			lots := queue.PendingStock / s.params.LotSize
			if lots == 0 {
				continue
			}
			shipped := lots * s.params.LotSize
			queue.PendingStock -= shipped
			queue.LastDepartureDate = day

			// sea leg is 24/7 calendar days; the last inland leg counts
			// destination-country working days
			landed := day.AddDate(0, 0, s.params.SeaTransitDays)
			atFactory := services.AddWorkingDays(s.destCal, landed, s.params.InlandToFactoryDays)

			batchSeq[componentID]++
			batch := entities.ShipmentBatch{
				OrderID:            fmt.Sprintf("SHIP-%s-%03d", componentID, batchSeq[componentID]),
				ComponentID:        componentID,
				HarborArrivalDate:  lastAt,
				DepartureDate:      day,
				LotMultiple:        int(lots),
				Quantity:           shipped,
				FactoryArrivalDate: atFactory,
			}
			result.Batches = append(result.Batches, batch)
			result.Arrivals = append(result.Arrivals, Arrival{
				OrderID:     batch.OrderID,
				ComponentID: componentID,
				Date:        atFactory,
				Quantity:    shipped,
			})
		}
		// goods still inland past the horizon stay accounted for
		for ; next < len(pending); next++ {
			queue.PendingStock += pending[next].qty
		}
		result.Queues[componentID] = queue
	}

	sort.Slice(result.Batches, func(i, j int) bool {
		if !result.Batches[i].DepartureDate.Equal(result.Batches[j].DepartureDate) {
			return result.Batches[i].DepartureDate.Before(result.Batches[j].DepartureDate)
		}
		return result.Batches[i].ComponentID < result.Batches[j].ComponentID
	})
	sort.Slice(result.Arrivals, func(i, j int) bool {
		if !result.Arrivals[i].Date.Equal(result.Arrivals[j].Date) {
			return result.Arrivals[i].Date.Before(result.Arrivals[j].Date)
		}
		return result.Arrivals[i].ComponentID < result.Arrivals[j].ComponentID
	})
	return result, nil
}

// GenerateOrders spreads each component's annual requirement across the
// supplier's working days with the same error-diffusion rounding the planner
// uses, so supplier output reconciles to the requirement within one unit.
// Returned orders are in (component, date) order with deterministic ids.
func (s *Simulator) GenerateOrders(
	componentDemand map[entities.ComponentID]entities.Quantity,
	from time.Time,
) ([]SupplierOrder, error) {
	components := make([]entities.ComponentID, 0, len(componentDemand))
	for id := range componentDemand {
		components = append(components, id)
	}
	sort.Slice(components, func(i, j int) bool { return components[i] < components[j] })

	start := entities.NormalizeDate(from)
	var workdays []time.Time
	for _, day := range s.supplierCal.Days {
		if day.IsWorkingDay && !day.Date.Before(start) {
			workdays = append(workdays, day.Date)
		}
	}
	if len(workdays) == 0 {
		return nil, fmt.Errorf("supplier calendar has no working days from %s", start.Format("2006-01-02"))
	}

	var orders []SupplierOrder
	for _, componentID := range components {
		demand := componentDemand[componentID]
		if demand < 0 {
			return nil, fmt.Errorf("component %s demand cannot be negative, got %d", componentID, demand)
		}
		if demand == 0 {
			continue
		}
		perDay := float64(demand) / float64(len(workdays))
		state := &services.DiffusionState{}
		seq := 0
		for _, day := range workdays {
			qty := state.Step(perDay)
			if qty == 0 {
				continue
			}
			seq++
			orders = append(orders, SupplierOrder{
				OrderID:     fmt.Sprintf("ORD-%s-%03d", componentID, seq),
				ComponentID: componentID,
				Quantity:    qty,
				OrderDate:   day,
			})
		}
	}
	return orders, nil
}
