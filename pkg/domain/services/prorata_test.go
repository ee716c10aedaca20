package services

import (
	"testing"

	"github.com/shopspring/decimal"

	"github.com/planfab/prodsim/pkg/domain/entities"
)

func demandsOf(pairs ...any) []entities.ConsumerDemand {
	var out []entities.ConsumerDemand
	for i := 0; i < len(pairs); i += 2 {
		out = append(out, entities.ConsumerDemand{
			ConsumerID: pairs[i].(string),
			Demand:     entities.Quantity(pairs[i+1].(int)),
		})
	}
	return out
}

func grantByID(grants []entities.ConsumerGrant, id string) entities.ConsumerGrant {
	for _, g := range grants {
		if g.ConsumerID == id {
			return g
		}
	}
	return entities.ConsumerGrant{}
}

func TestProportionalAllocator_FastPath(t *testing.T) {
	alloc := &ProportionalAllocator{}
	grants, err := alloc.Allocate(demandsOf("A", 100, "B", 250, "C", 0), 400)
	if err != nil {
		t.Fatalf("Allocate failed: %v", err)
	}
	for _, g := range grants {
		if g.Granted != g.Demand {
			t.Errorf("consumer %s granted %d, want full demand %d", g.ConsumerID, g.Granted, g.Demand)
		}
		if !g.FulfillmentPercent.Equal(decimal.NewFromInt(100)) {
			t.Errorf("consumer %s fulfillment %s, want 100", g.ConsumerID, g.FulfillmentPercent)
		}
	}
}

func TestProportionalAllocator_Scarcity(t *testing.T) {
	tests := []struct {
		name      string
		demands   []entities.ConsumerDemand
		available int
		want      map[string]int
	}{
		{
			name:      "uniform_four_way_split",
			demands:   demandsOf("V1", 500, "V2", 500, "V3", 500, "V4", 500),
			available: 1000,
			want:      map[string]int{"V1": 250, "V2": 250, "V3": 250, "V4": 250},
		},
		{
			name:      "largest_remainder_distribution",
			demands:   demandsOf("A", 100, "B", 100, "C", 100),
			available: 100,
			// raw grants 33.33 each; one leftover unit goes to the lowest id on tie
			want: map[string]int{"A": 34, "B": 33, "C": 33},
		},
		{
			name:      "proportional_shares",
			demands:   demandsOf("A", 300, "B", 100),
			available: 200,
			want:      map[string]int{"A": 150, "B": 50},
		},
		{
			name:      "zero_available",
			demands:   demandsOf("A", 10, "B", 20),
			available: 0,
			want:      map[string]int{"A": 0, "B": 0},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			alloc := &ProportionalAllocator{}
			grants, err := alloc.Allocate(tt.demands, entities.Quantity(tt.available))
			if err != nil {
				t.Fatalf("Allocate failed: %v", err)
			}
			var total entities.Quantity
			for _, g := range grants {
				total += g.Granted
				if g.Granted > g.Demand {
					t.Errorf("consumer %s granted %d above demand %d", g.ConsumerID, g.Granted, g.Demand)
				}
				if want := entities.Quantity(tt.want[g.ConsumerID]); g.Granted != want {
					t.Errorf("consumer %s granted %d, want %d", g.ConsumerID, g.Granted, want)
				}
			}
			if total != entities.Quantity(tt.available) {
				t.Errorf("sum of grants %d, want exactly available %d", total, tt.available)
			}
		})
	}
}

func TestProportionalAllocator_InputOrderIndependent(t *testing.T) {
	alloc := &ProportionalAllocator{}
	forward, err := alloc.Allocate(demandsOf("A", 151, "B", 149, "C", 77), 200)
	if err != nil {
		t.Fatalf("Allocate failed: %v", err)
	}
	reversed, err := alloc.Allocate(demandsOf("C", 77, "B", 149, "A", 151), 200)
	if err != nil {
		t.Fatalf("Allocate failed: %v", err)
	}
	for _, id := range []string{"A", "B", "C"} {
		if grantByID(forward, id).Granted != grantByID(reversed, id).Granted {
			t.Errorf("consumer %s grant differs with input order: %d vs %d",
				id, grantByID(forward, id).Granted, grantByID(reversed, id).Granted)
		}
	}
}

func TestProportionalAllocator_BoundaryAgreesWithFastPath(t *testing.T) {
	// available == sum(demand): the fast path and largest-remainder math must
	// both grant every demand in full.
	alloc := &ProportionalAllocator{}
	grants, err := alloc.Allocate(demandsOf("V1", 500, "V2", 500, "V3", 500, "V4", 500), 2000)
	if err != nil {
		t.Fatalf("Allocate failed: %v", err)
	}
	for _, g := range grants {
		if g.Granted != 500 {
			t.Errorf("consumer %s granted %d, want 500", g.ConsumerID, g.Granted)
		}
	}
}

func TestProportionalAllocator_NegativeInputs(t *testing.T) {
	alloc := &ProportionalAllocator{}
	if _, err := alloc.Allocate(demandsOf("A", 10), -1); err == nil {
		t.Error("expected error for negative available")
	}
	if _, err := alloc.Allocate([]entities.ConsumerDemand{{ConsumerID: "A", Demand: -5}}, 10); err == nil {
		t.Error("expected error for negative demand")
	}
}

func TestFCFSAllocator(t *testing.T) {
	alloc := &FCFSAllocator{}
	grants, err := alloc.Allocate(demandsOf("B", 400, "A", 400, "C", 400), 600)
	if err != nil {
		t.Fatalf("Allocate failed: %v", err)
	}
	// served in consumer-id order: A full, B partial, C nothing
	if g := grantByID(grants, "A"); g.Granted != 400 {
		t.Errorf("A granted %d, want 400", g.Granted)
	}
	if g := grantByID(grants, "B"); g.Granted != 200 {
		t.Errorf("B granted %d, want 200", g.Granted)
	}
	if g := grantByID(grants, "C"); g.Granted != 0 {
		t.Errorf("C granted %d, want 0", g.Granted)
	}
}

func TestNewAllocationPolicy(t *testing.T) {
	if _, err := NewAllocationPolicy(entities.Proportional); err != nil {
		t.Errorf("proportional policy: %v", err)
	}
	if _, err := NewAllocationPolicy(entities.FCFS); err != nil {
		t.Errorf("fcfs policy: %v", err)
	}
	if _, err := NewAllocationPolicy(entities.AllocationPolicyKind(99)); err == nil {
		t.Error("expected error for unknown policy kind")
	}
}
