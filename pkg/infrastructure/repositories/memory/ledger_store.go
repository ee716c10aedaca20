package memory

import (
	"fmt"
	"sort"
	"time"

	"github.com/planfab/prodsim/pkg/domain/entities"
	"github.com/planfab/prodsim/pkg/domain/repositories"
)

// LedgerStore provides the in-memory inventory ledger for one simulation run.
// Every component seen in the initial stock or in any movement gets one
// ledger entry per closed day.
type LedgerStore struct {
	stock   map[entities.ComponentID]entities.Quantity
	tracked map[entities.ComponentID]bool
	entries []entities.LedgerEntry

	day      time.Time
	dayOpen  bool
	opening  map[entities.ComponentID]entities.Quantity
	received map[entities.ComponentID]entities.Quantity
	consumed map[entities.ComponentID]entities.Quantity
}

// Verify interface compliance
var _ repositories.InventoryStore = (*LedgerStore)(nil)

// NewLedgerStore creates a ledger seeded with the initial on-hand stock.
func NewLedgerStore(initial map[entities.ComponentID]entities.Quantity) *LedgerStore {
	s := &LedgerStore{
		stock:   make(map[entities.ComponentID]entities.Quantity, len(initial)),
		tracked: make(map[entities.ComponentID]bool, len(initial)),
	}
	for id, qty := range initial {
		s.stock[id] = qty
		s.tracked[id] = true
	}
	return s
}

// Track registers a component so it appears in the ledger even when it never
// moves.
func (s *LedgerStore) Track(componentID entities.ComponentID) {
	s.tracked[componentID] = true
}

// BeginDay opens a ledger day, snapshotting opening stock.
func (s *LedgerStore) BeginDay(date time.Time) {
	s.day = entities.NormalizeDate(date)
	s.dayOpen = true
	s.opening = make(map[entities.ComponentID]entities.Quantity, len(s.stock))
	for id, qty := range s.stock {
		s.opening[id] = qty
	}
	s.received = make(map[entities.ComponentID]entities.Quantity)
	s.consumed = make(map[entities.ComponentID]entities.Quantity)
}

// Receive posts an arrival into the open day.
func (s *LedgerStore) Receive(componentID entities.ComponentID, qty entities.Quantity) {
	s.tracked[componentID] = true
	s.stock[componentID] += qty
	s.received[componentID] += qty
}

// Available returns the stock on hand right now.
func (s *LedgerStore) Available(componentID entities.ComponentID) entities.Quantity {
	return s.stock[componentID]
}

// Consume draws down stock inside the open day. The ATP check caps every
// consumption beforehand, so an underflow here is an engine defect.
func (s *LedgerStore) Consume(componentID entities.ComponentID, qty entities.Quantity) error {
	if qty < 0 {
		return fmt.Errorf("cannot consume negative quantity %d of %s", qty, componentID)
	}
	if s.stock[componentID] < qty {
		return fmt.Errorf("consuming %d of %s would drive stock negative (on hand %d)",
			qty, componentID, s.stock[componentID])
	}
	s.tracked[componentID] = true
	s.stock[componentID] -= qty
	s.consumed[componentID] += qty
	return nil
}

// EndDay closes the open day and appends one entry per tracked component,
// ordered by component id.
func (s *LedgerStore) EndDay() []entities.LedgerEntry {
	if !s.dayOpen {
		return nil
	}
	ids := make([]entities.ComponentID, 0, len(s.tracked))
	for id := range s.tracked {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })

	dayEntries := make([]entities.LedgerEntry, 0, len(ids))
	for _, id := range ids {
		dayEntries = append(dayEntries, entities.LedgerEntry{
			ComponentID:  id,
			Date:         s.day,
			OpeningStock: s.opening[id],
			Received:     s.received[id],
			Consumed:     s.consumed[id],
			ClosingStock: s.stock[id],
		})
	}
	s.entries = append(s.entries, dayEntries...)
	s.dayOpen = false
	return dayEntries
}

// Entries returns every ledger entry posted so far, in day order.
func (s *LedgerStore) Entries() []entities.LedgerEntry {
	return s.entries
}
