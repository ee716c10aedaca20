package entities

import (
	"fmt"
	"time"
)

// LedgerEntry is one component's inventory movement for one day.
// ClosingStock = OpeningStock + Received - Consumed, and never negative:
// consumption is capped by the ATP check before it is posted.
type LedgerEntry struct {
	ComponentID  ComponentID
	Date         time.Time
	OpeningStock Quantity
	Received     Quantity
	Consumed     Quantity
	ClosingStock Quantity
}

// Balanced reports whether the entry's arithmetic holds. A false return is an
// engine defect, not a configuration problem.
func (e LedgerEntry) Balanced() bool {
	return e.ClosingStock == e.OpeningStock+e.Received-e.Consumed && e.ClosingStock >= 0
}

// ATPResult is the available-to-promise outcome for one variant on one day.
// GrantedQty never exceeds RequestedQty.
type ATPResult struct {
	VariantID           VariantID
	Date                time.Time
	RequestedQty        Quantity
	GrantedQty          Quantity
	ShortfallComponents []ComponentID
}

// Shortfall returns the ungranted remainder of the request.
func (r ATPResult) Shortfall() Quantity {
	return r.RequestedQty - r.GrantedQty
}

// NewATPResult creates a validated ATPResult.
func NewATPResult(variantID VariantID, date time.Time, requested, granted Quantity, shortfall []ComponentID) (*ATPResult, error) {
	if granted < 0 {
		return nil, fmt.Errorf("granted quantity cannot be negative, got %d", granted)
	}
	if granted > requested {
		return nil, fmt.Errorf("granted %d exceeds requested %d for variant %s", granted, requested, variantID)
	}
	return &ATPResult{
		VariantID:           variantID,
		Date:                NormalizeDate(date),
		RequestedQty:        requested,
		GrantedQty:          granted,
		ShortfallComponents: shortfall,
	}, nil
}
