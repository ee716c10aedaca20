package logistics

import (
	"testing"
	"time"

	"github.com/planfab/prodsim/pkg/domain/entities"
	"github.com/planfab/prodsim/pkg/domain/services"
)

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func testCalendars(t *testing.T, supplierHolidays, destHolidays []time.Time) (*entities.YearCalendar, *entities.YearCalendar) {
	t.Helper()
	var holidays []entities.Holiday
	for _, d := range supplierHolidays {
		holidays = append(holidays, entities.Holiday{Date: d, Name: "supplier holiday", Country: "CN"})
	}
	for _, d := range destHolidays {
		holidays = append(holidays, entities.Holiday{Date: d, Name: "dest holiday", Country: "DE"})
	}
	svc, err := services.NewCalendarService([]entities.Country{"CN", "DE"}, holidays)
	if err != nil {
		t.Fatalf("NewCalendarService failed: %v", err)
	}
	cn, err := svc.BuildYear(2026, "CN")
	if err != nil {
		t.Fatalf("BuildYear CN failed: %v", err)
	}
	de, err := svc.BuildYear(2026, "DE")
	if err != nil {
		t.Fatalf("BuildYear DE failed: %v", err)
	}
	return cn, de
}

func defaultParams() entities.LogisticsParams {
	return entities.LogisticsParams{
		SupplierLeadDays:    2,
		InlandToPortDays:    1,
		SeaTransitDays:      10,
		InlandToFactoryDays: 2,
		LotSize:             500,
		SailingWeekday:      time.Wednesday,
	}
}

func TestSimulate_LotBatchingAndSailingDay(t *testing.T) {
	cn, de := testCalendars(t, nil, nil)
	sim, err := NewSimulator(cn, de, defaultParams())
	if err != nil {
		t.Fatalf("NewSimulator failed: %v", err)
	}

	orders := []SupplierOrder{
		{OrderID: "O1", ComponentID: "C1", Quantity: 600, OrderDate: date(2026, 1, 5)},
		{OrderID: "O2", ComponentID: "C1", Quantity: 400, OrderDate: date(2026, 1, 12)},
	}
	result, err := sim.Simulate(orders, date(2026, 12, 31))
	if err != nil {
		t.Fatalf("Simulate failed: %v", err)
	}

	if len(result.Batches) != 2 {
		t.Fatalf("expected 2 batches, got %d", len(result.Batches))
	}
	for _, b := range result.Batches {
		if b.DepartureDate.Weekday() != time.Wednesday {
			t.Errorf("batch %s departed on %s, want Wednesday", b.OrderID, b.DepartureDate.Weekday())
		}
		if b.Quantity%500 != 0 {
			t.Errorf("batch %s quantity %d not a lot multiple", b.OrderID, b.Quantity)
		}
		if entities.Quantity(b.LotMultiple)*500 != b.Quantity {
			t.Errorf("batch %s lot multiple %d inconsistent with quantity %d", b.OrderID, b.LotMultiple, b.Quantity)
		}
	}
	// 600 at port Jan 8 -> 500 sails Wed Jan 14, 100 stays queued;
	// 400 joins Jan 15 -> 500 sails Wed Jan 21
	if !result.Batches[0].DepartureDate.Equal(date(2026, 1, 14)) {
		t.Errorf("first departure %v, want Jan 14", result.Batches[0].DepartureDate)
	}
	if !result.Batches[1].DepartureDate.Equal(date(2026, 1, 21)) {
		t.Errorf("second departure %v, want Jan 21", result.Batches[1].DepartureDate)
	}

	queue := result.Queues["C1"]
	if queue.PendingStock != 0 {
		t.Errorf("queue remainder %d, want 0", queue.PendingStock)
	}
	if queue.PendingStock >= 500 {
		t.Errorf("queue remainder %d must stay below lot size", queue.PendingStock)
	}
	if got := result.TotalShipped("C1"); got != 1000 {
		t.Errorf("total shipped %d, want 1000", got)
	}
}

func TestSimulate_DeparturesAlignToSailingWeekday(t *testing.T) {
	cn, de := testCalendars(t, nil, nil)
	params := defaultParams()
	params.SailingWeekday = time.Friday
	sim, _ := NewSimulator(cn, de, params)

	// at port Thu Jan 8; the next Friday is the very next day, so a full lot
	// must catch the Jan 9 departure rather than wait a week
	result, err := sim.Simulate([]SupplierOrder{
		{OrderID: "O1", ComponentID: "C1", Quantity: 500, OrderDate: date(2026, 1, 5)},
	}, date(2026, 12, 31))
	if err != nil {
		t.Fatalf("Simulate failed: %v", err)
	}
	if len(result.Batches) != 1 {
		t.Fatalf("expected 1 batch, got %d", len(result.Batches))
	}
	b := result.Batches[0]
	if !b.DepartureDate.Equal(date(2026, 1, 9)) {
		t.Errorf("departure %v, want Fri Jan 9", b.DepartureDate)
	}
	if !b.HarborArrivalDate.Equal(date(2026, 1, 8)) {
		t.Errorf("harbor arrival %v, want Jan 8 port arrival", b.HarborArrivalDate)
	}
}

func TestSimulate_RemainderStaysQueued(t *testing.T) {
	cn, de := testCalendars(t, nil, nil)
	sim, _ := NewSimulator(cn, de, defaultParams())

	result, err := sim.Simulate([]SupplierOrder{
		{OrderID: "O1", ComponentID: "C1", Quantity: 499, OrderDate: date(2026, 1, 5)},
	}, date(2026, 12, 31))
	if err != nil {
		t.Fatalf("Simulate failed: %v", err)
	}
	if len(result.Batches) != 0 {
		t.Fatalf("sub-lot quantity must never sail, got %d batches", len(result.Batches))
	}
	if got := result.Queues["C1"].PendingStock; got != 499 {
		t.Errorf("queue remainder %d, want 499", got)
	}
}

func TestSimulate_SupplierLegUsesSupplierCalendar(t *testing.T) {
	// CN holiday on Tue Jan 6 pushes port arrival past the Wed Jan 7 sailing;
	// DE has no such holiday, so mixing calendars would sail a week early
	cn, de := testCalendars(t, []time.Time{date(2026, 1, 6)}, nil)
	params := defaultParams()
	params.SupplierLeadDays = 2
	params.InlandToPortDays = 0
	sim, _ := NewSimulator(cn, de, params)

	result, err := sim.Simulate([]SupplierOrder{
		{OrderID: "O1", ComponentID: "C1", Quantity: 500, OrderDate: date(2026, 1, 5)},
	}, date(2026, 12, 31))
	if err != nil {
		t.Fatalf("Simulate failed: %v", err)
	}
	if len(result.Batches) != 1 {
		t.Fatalf("expected 1 batch, got %d", len(result.Batches))
	}
	if !result.Batches[0].DepartureDate.Equal(date(2026, 1, 14)) {
		t.Errorf("departure %v, want Jan 14 (holiday pushed port arrival past Jan 7 sailing)",
			result.Batches[0].DepartureDate)
	}
}

func TestSimulate_FactoryLegUsesDestinationCalendar(t *testing.T) {
	// sea leg lands Sat Jan 24; DE holiday Mon Jan 26 defers the two inland
	// working days to Tue/Wed. CN does not observe Jan 26.
	cn, de := testCalendars(t, nil, []time.Time{date(2026, 1, 26)})
	sim, _ := NewSimulator(cn, de, defaultParams())

	result, err := sim.Simulate([]SupplierOrder{
		{OrderID: "O1", ComponentID: "C1", Quantity: 500, OrderDate: date(2026, 1, 5)},
	}, date(2026, 12, 31))
	if err != nil {
		t.Fatalf("Simulate failed: %v", err)
	}
	if len(result.Batches) != 1 {
		t.Fatalf("expected 1 batch, got %d", len(result.Batches))
	}
	b := result.Batches[0]
	if !b.DepartureDate.Equal(date(2026, 1, 14)) {
		t.Fatalf("departure %v, want Jan 14", b.DepartureDate)
	}
	if !b.FactoryArrivalDate.Equal(date(2026, 1, 28)) {
		t.Errorf("factory arrival %v, want Jan 28 (Sun + holiday skipped)", b.FactoryArrivalDate)
	}
}

func TestSimulate_SeaLegIgnoresWorkingDays(t *testing.T) {
	cn, de := testCalendars(t, nil, nil)
	params := defaultParams()
	params.InlandToFactoryDays = 0
	sim, _ := NewSimulator(cn, de, params)

	result, err := sim.Simulate([]SupplierOrder{
		{OrderID: "O1", ComponentID: "C1", Quantity: 500, OrderDate: date(2026, 1, 5)},
	}, date(2026, 12, 31))
	if err != nil {
		t.Fatalf("Simulate failed: %v", err)
	}
	// Wed Jan 14 + 10 plain calendar days = Sat Jan 24, weekend or not
	if got := result.Batches[0].FactoryArrivalDate; !got.Equal(date(2026, 1, 24)) {
		t.Errorf("factory arrival %v, want Jan 24", got)
	}
}

func TestSimulate_TrailingShipmentsSurviveHorizon(t *testing.T) {
	cn, de := testCalendars(t, nil, nil)
	sim, _ := NewSimulator(cn, de, defaultParams())

	// goods sail on the last December Wednesday; arrival lands past Dec 31
	result, err := sim.Simulate([]SupplierOrder{
		{OrderID: "O1", ComponentID: "C1", Quantity: 500, OrderDate: date(2026, 12, 14)},
	}, date(2026, 12, 31))
	if err != nil {
		t.Fatalf("Simulate failed: %v", err)
	}
	if len(result.Batches) != 1 {
		t.Fatalf("expected the late batch to sail, got %d batches", len(result.Batches))
	}
	b := result.Batches[0]
	if !b.DepartureDate.Equal(date(2026, 12, 23)) {
		t.Errorf("departure %v, want Dec 23", b.DepartureDate)
	}
	if !b.FactoryArrivalDate.After(date(2026, 12, 31)) {
		t.Errorf("arrival %v should land past the planning year, not be dropped", b.FactoryArrivalDate)
	}
	if len(result.Arrivals) != 1 {
		t.Errorf("trailing arrival must stay recorded, got %d arrivals", len(result.Arrivals))
	}
}

func TestSimulate_LateGoodsStayInQueue(t *testing.T) {
	cn, de := testCalendars(t, nil, nil)
	sim, _ := NewSimulator(cn, de, defaultParams())

	// port arrival lands after the simulation horizon: nothing sails, nothing
	// is silently lost
	result, err := sim.Simulate([]SupplierOrder{
		{OrderID: "O1", ComponentID: "C1", Quantity: 700, OrderDate: date(2026, 12, 28)},
	}, date(2026, 12, 31))
	if err != nil {
		t.Fatalf("Simulate failed: %v", err)
	}
	if len(result.Batches) != 0 {
		t.Fatalf("expected no batches, got %d", len(result.Batches))
	}
	if got := result.Queues["C1"].PendingStock; got != 700 {
		t.Errorf("pending stock %d, want 700 still tracked", got)
	}
}

func TestGenerateOrders_ReconcilesToDemand(t *testing.T) {
	cn, de := testCalendars(t, nil, nil)
	sim, _ := NewSimulator(cn, de, defaultParams())

	demand := map[entities.ComponentID]entities.Quantity{"C1": 123457, "C2": 37}
	orders, err := sim.GenerateOrders(demand, date(2026, 1, 1))
	if err != nil {
		t.Fatalf("GenerateOrders failed: %v", err)
	}

	totals := make(map[entities.ComponentID]entities.Quantity)
	for _, o := range orders {
		if o.Quantity <= 0 {
			t.Fatalf("order %s has non-positive quantity %d", o.OrderID, o.Quantity)
		}
		if !cn.IsWorkingDay(o.OrderDate) {
			t.Errorf("order %s placed on non-working supplier day %v", o.OrderID, o.OrderDate)
		}
		totals[o.ComponentID] += o.Quantity
	}
	for id, want := range demand {
		got := totals[id]
		if diff := got - want; diff < -1 || diff > 1 {
			t.Errorf("component %s ordered %d, want %d +-1", id, got, want)
		}
	}
}

func TestGenerateOrders_Deterministic(t *testing.T) {
	cn, de := testCalendars(t, nil, nil)
	sim, _ := NewSimulator(cn, de, defaultParams())
	demand := map[entities.ComponentID]entities.Quantity{"C1": 5000, "C2": 800}

	a, err := sim.GenerateOrders(demand, date(2026, 1, 1))
	if err != nil {
		t.Fatalf("GenerateOrders failed: %v", err)
	}
	b, err := sim.GenerateOrders(demand, date(2026, 1, 1))
	if err != nil {
		t.Fatalf("GenerateOrders failed: %v", err)
	}
	if len(a) != len(b) {
		t.Fatalf("order counts differ: %d vs %d", len(a), len(b))
	}
	for i := range a {
		if a[i] != b[i] {
			t.Fatalf("order %d differs between runs: %+v vs %+v", i, a[i], b[i])
		}
	}
}
