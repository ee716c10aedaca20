package services

import (
	"fmt"
	"math"
	"sort"

	"github.com/shopspring/decimal"

	"github.com/planfab/prodsim/pkg/domain/entities"
)

// AllocationPolicy rations a scarce quantity across same-day competing
// consumers. Implementations must be deterministic: re-running the same input
// yields the same grants regardless of input ordering.
type AllocationPolicy interface {
	Allocate(demands []entities.ConsumerDemand, available entities.Quantity) ([]entities.ConsumerGrant, error)
}

// NewAllocationPolicy returns the policy implementation for the configured kind.
func NewAllocationPolicy(kind entities.AllocationPolicyKind) (AllocationPolicy, error) {
	switch kind {
	case entities.Proportional:
		return &ProportionalAllocator{}, nil
	case entities.FCFS:
		return &FCFSAllocator{}, nil
	default:
		return nil, fmt.Errorf("unknown allocation policy %d", kind)
	}
}

// ProportionalAllocator grants each consumer a pro-rata share of the
// available quantity using the largest-remainder method, so that under
// scarcity the grants sum to the available quantity exactly.
type ProportionalAllocator struct{}

var _ AllocationPolicy = (*ProportionalAllocator)(nil)

// Allocate distributes available across demands. When supply covers demand it
// takes a fast path granting everyone in full, with no rounding arithmetic at
// all. Under scarcity, provisional grants are floor(demand * ratio) and the
// leftover units go to the largest fractional remainders, ties broken by
// consumer id so the outcome never depends on input order.
func (a *ProportionalAllocator) Allocate(demands []entities.ConsumerDemand, available entities.Quantity) ([]entities.ConsumerGrant, error) {
	if available < 0 {
		return nil, fmt.Errorf("available quantity cannot be negative, got %d", available)
	}
	var totalDemand entities.Quantity
	for _, d := range demands {
		if d.Demand < 0 {
			return nil, fmt.Errorf("consumer %s demand cannot be negative, got %d", d.ConsumerID, d.Demand)
		}
		totalDemand += d.Demand
	}

	ordered := make([]entities.ConsumerDemand, len(demands))
	copy(ordered, demands)
	sort.Slice(ordered, func(i, j int) bool { return ordered[i].ConsumerID < ordered[j].ConsumerID })

	if available >= totalDemand {
		grants := make([]entities.ConsumerGrant, len(ordered))
		for i, d := range ordered {
			grants[i] = fullGrant(d)
		}
		return grants, nil
	}

	ratio := float64(available) / float64(totalDemand)
	type provisional struct {
		idx       int
		remainder float64
	}
	grants := make([]entities.ConsumerGrant, len(ordered))
	fractions := make([]provisional, 0, len(ordered))
	var granted entities.Quantity
	for i, d := range ordered {
		raw := float64(d.Demand) * ratio
		grant := entities.Quantity(math.Floor(raw))
		grants[i] = entities.ConsumerGrant{
			ConsumerID: d.ConsumerID,
			Demand:     d.Demand,
			Granted:    grant,
		}
		granted += grant
		fractions = append(fractions, provisional{idx: i, remainder: raw - math.Floor(raw)})
	}

	// remainder units: at most len(demands)-1
	leftover := available - granted
	sort.SliceStable(fractions, func(i, j int) bool {
		if fractions[i].remainder != fractions[j].remainder {
			return fractions[i].remainder > fractions[j].remainder
		}
		return grants[fractions[i].idx].ConsumerID < grants[fractions[j].idx].ConsumerID
	})
	for i := entities.Quantity(0); i < leftover; i++ {
		grants[fractions[i].idx].Granted++
	}

	for i := range grants {
		grants[i].Shortfall = grants[i].Demand - grants[i].Granted
		grants[i].FulfillmentPercent = fulfillmentPercent(grants[i].Granted, grants[i].Demand)
	}
	return grants, nil
}

// FCFSAllocator grants consumers in full, in consumer-id order, until the
// available quantity runs out. The last consumer reached may receive a
// partial grant; everyone after it receives nothing.
type FCFSAllocator struct{}

var _ AllocationPolicy = (*FCFSAllocator)(nil)

// Allocate serves demands first-come-first-served by consumer id.
func (a *FCFSAllocator) Allocate(demands []entities.ConsumerDemand, available entities.Quantity) ([]entities.ConsumerGrant, error) {
	if available < 0 {
		return nil, fmt.Errorf("available quantity cannot be negative, got %d", available)
	}
	ordered := make([]entities.ConsumerDemand, len(demands))
	copy(ordered, demands)
	sort.Slice(ordered, func(i, j int) bool { return ordered[i].ConsumerID < ordered[j].ConsumerID })

	grants := make([]entities.ConsumerGrant, len(ordered))
	remaining := available
	for i, d := range ordered {
		if d.Demand < 0 {
			return nil, fmt.Errorf("consumer %s demand cannot be negative, got %d", d.ConsumerID, d.Demand)
		}
		grant := d.Demand
		if grant > remaining {
			grant = remaining
		}
		remaining -= grant
		grants[i] = entities.ConsumerGrant{
			ConsumerID:         d.ConsumerID,
			Demand:             d.Demand,
			Granted:            grant,
			Shortfall:          d.Demand - grant,
			FulfillmentPercent: fulfillmentPercent(grant, d.Demand),
		}
	}
	return grants, nil
}

func fullGrant(d entities.ConsumerDemand) entities.ConsumerGrant {
	return entities.ConsumerGrant{
		ConsumerID:         d.ConsumerID,
		Demand:             d.Demand,
		Granted:            d.Demand,
		FulfillmentPercent: decimal.NewFromInt(100),
	}
}

func fulfillmentPercent(granted, demand entities.Quantity) decimal.Decimal {
	if demand == 0 {
		return decimal.NewFromInt(100)
	}
	return decimal.NewFromInt(int64(granted)).
		Mul(decimal.NewFromInt(100)).
		Div(decimal.NewFromInt(int64(demand))).
		Round(4)
}
