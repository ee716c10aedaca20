package entities

import (
	"fmt"
	"strings"
)

// RunConfig is the complete immutable input of one simulation run. The engine
// holds no state beyond what is passed in here; two runs with equal configs
// produce identical results.
type RunConfig struct {
	Year              int
	ProductionCountry Country
	SupplierCountry   Country
	AnnualTarget      Quantity
	Variants          []Variant
	Seasonal          *SeasonalProfile
	Holidays          []Holiday
	BOM               *BillOfMaterials
	Logistics         LogisticsParams
	InitialStock      map[ComponentID]Quantity
	Overrides         []PeriodOverride
	Scenarios         []*Scenario
	AllocationPolicy  AllocationPolicyKind
	// HorizonExtraDays extends the simulation past December 31 so trailing
	// shipments keep posting arrivals and trailing stock stays consumable.
	HorizonExtraDays int
}

// ValidationError carries every configuration invariant violated by a run
// config, so a broken configuration can be fixed in a single pass.
type ValidationError struct {
	Violations []string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid configuration (%d violations): %s",
		len(e.Violations), strings.Join(e.Violations, "; "))
}

// Add appends a violation described printf-style.
func (e *ValidationError) Add(format string, args ...any) {
	e.Violations = append(e.Violations, fmt.Sprintf(format, args...))
}

// OrNil returns the error if any violation was recorded, nil otherwise.
func (e *ValidationError) OrNil() error {
	if len(e.Violations) == 0 {
		return nil
	}
	return e
}
