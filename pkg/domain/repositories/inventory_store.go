package repositories

import (
	"time"

	"github.com/planfab/prodsim/pkg/domain/entities"
)

// InventoryStore is the per-run component stock ledger. It is owned by the
// single goroutine driving a simulation run; implementations need no locking.
type InventoryStore interface {
	// Track registers a component so it appears in the ledger even when it
	// never moves.
	Track(componentID entities.ComponentID)
	// BeginDay opens a ledger day, snapshotting opening stock.
	BeginDay(date time.Time)
	// Receive posts an arrival into the open day.
	Receive(componentID entities.ComponentID, qty entities.Quantity)
	// Available returns the stock on hand right now.
	Available(componentID entities.ComponentID) entities.Quantity
	// Consume draws down stock inside the open day. Drawing below zero is an
	// engine defect and returns an error rather than going negative.
	Consume(componentID entities.ComponentID, qty entities.Quantity) error
	// EndDay closes the open day and returns its ledger entries, one per
	// component that was tracked.
	EndDay() []entities.LedgerEntry
	// Entries returns every ledger entry posted so far, in day order.
	Entries() []entities.LedgerEntry
}
