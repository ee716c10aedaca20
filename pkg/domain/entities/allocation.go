package entities

import (
	"github.com/shopspring/decimal"
)

// AllocationPolicyKind selects how same-day competing demand for one
// component is rationed.
type AllocationPolicyKind int

const (
	// Proportional grants each consumer a largest-remainder pro-rata share.
	Proportional AllocationPolicyKind = iota
	// FCFS grants consumers in full, in consumer-id order, until stock runs out.
	FCFS
)

func (k AllocationPolicyKind) String() string {
	switch k {
	case Proportional:
		return "Proportional"
	case FCFS:
		return "FCFS"
	default:
		return "Unknown"
	}
}

// ConsumerDemand is one consumer's claim on a shared quantity.
type ConsumerDemand struct {
	ConsumerID string
	Demand     Quantity
}

// ConsumerGrant is the rationing outcome for one consumer. When supply is
// scarce, sum(Granted) across consumers equals the available quantity exactly.
type ConsumerGrant struct {
	ConsumerID         string
	Demand             Quantity
	Granted            Quantity
	Shortfall          Quantity
	FulfillmentPercent decimal.Decimal
}
