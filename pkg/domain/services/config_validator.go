package services

import (
	"github.com/shopspring/decimal"

	"github.com/planfab/prodsim/pkg/domain/entities"
)

// ConfigValidator checks every cross-field invariant of a run configuration
// and reports all violations at once, so a broken configuration can be fixed
// in a single pass instead of one error at a time.
type ConfigValidator struct{}

// NewConfigValidator creates a new config validator.
func NewConfigValidator() *ConfigValidator {
	return &ConfigValidator{}
}

// Validate returns a *entities.ValidationError listing every violated
// invariant, or nil when the configuration is sound. No simulation day may be
// processed before this passes.
func (v *ConfigValidator) Validate(cfg *entities.RunConfig) error {
	verr := &entities.ValidationError{}

	if cfg.Year < 1900 || cfg.Year > 2200 {
		verr.Add("year %d out of supported range 1900..2200", cfg.Year)
	}
	if cfg.ProductionCountry == "" {
		verr.Add("production country cannot be empty")
	}
	if cfg.SupplierCountry == "" {
		verr.Add("supplier country cannot be empty")
	}
	if cfg.AnnualTarget < 0 {
		verr.Add("annual target cannot be negative, got %d", cfg.AnnualTarget)
	}
	if cfg.HorizonExtraDays < 0 {
		verr.Add("horizon extension cannot be negative, got %d", cfg.HorizonExtraDays)
	}

	v.validateVariants(cfg, verr)
	v.validateSeasonal(cfg, verr)
	v.validateBOM(cfg, verr)
	v.validateLogistics(cfg, verr)
	v.validateOverrides(cfg, verr)

	for id, qty := range cfg.InitialStock {
		if qty < 0 {
			verr.Add("initial stock for component %s cannot be negative, got %d", id, qty)
		}
	}
	if cfg.AllocationPolicy != entities.Proportional && cfg.AllocationPolicy != entities.FCFS {
		verr.Add("unknown allocation policy %d", cfg.AllocationPolicy)
	}

	return verr.OrNil()
}

func (v *ConfigValidator) validateVariants(cfg *entities.RunConfig, verr *entities.ValidationError) {
	if len(cfg.Variants) == 0 {
		verr.Add("at least one variant is required")
		return
	}
	seen := make(map[entities.VariantID]bool)
	sum := decimal.Zero
	for _, variant := range cfg.Variants {
		if variant.ID == "" {
			verr.Add("variant id cannot be empty")
			continue
		}
		if seen[variant.ID] {
			verr.Add("duplicate variant id %s", variant.ID)
		}
		seen[variant.ID] = true
		if variant.AnnualSharePercent.IsNegative() {
			verr.Add("variant %s share cannot be negative, got %s", variant.ID, variant.AnnualSharePercent)
		}
		sum = sum.Add(variant.AnnualSharePercent)
	}
	if off := sum.Sub(decimal.NewFromInt(100)).Abs(); off.GreaterThan(entities.PercentTolerance) {
		verr.Add("variant shares must sum to 100, got %s", sum)
	}
}

func (v *ConfigValidator) validateSeasonal(cfg *entities.RunConfig, verr *entities.ValidationError) {
	if cfg.Seasonal == nil {
		verr.Add("seasonal profile is required")
		return
	}
	// Profile construction already enforced the 12-period / sum-to-100
	// invariants; re-check the sum here so a hand-built struct cannot slip
	// through the front door.
	sum := decimal.Zero
	for _, w := range cfg.Seasonal.Weights {
		sum = sum.Add(w.WeightPercent)
	}
	if off := sum.Sub(decimal.NewFromInt(100)).Abs(); off.GreaterThan(entities.PercentTolerance) {
		verr.Add("seasonal weights must sum to 100, got %s", sum)
	}
}

func (v *ConfigValidator) validateBOM(cfg *entities.RunConfig, verr *entities.ValidationError) {
	if cfg.BOM == nil {
		verr.Add("bill of materials is required")
		return
	}
	for _, variant := range cfg.Variants {
		if len(cfg.BOM.LinesFor(variant.ID)) == 0 {
			verr.Add("variant %s has no BOM lines", variant.ID)
		}
	}
}

func (v *ConfigValidator) validateLogistics(cfg *entities.RunConfig, verr *entities.ValidationError) {
	if err := cfg.Logistics.Validate(); err != nil {
		verr.Add("%v", err)
	}
}

func (v *ConfigValidator) validateOverrides(cfg *entities.RunConfig, verr *entities.ValidationError) {
	known := make(map[entities.VariantID]bool, len(cfg.Variants))
	for _, variant := range cfg.Variants {
		known[variant.ID] = true
	}
	for _, o := range cfg.Overrides {
		if o.Period < 1 || o.Period > 12 {
			verr.Add("override period must be 1..12, got %d", o.Period)
		}
		if !known[o.VariantID] {
			verr.Add("override references unknown variant %s", o.VariantID)
		}
	}
}
