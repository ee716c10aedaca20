package entities

import (
	"fmt"

	"github.com/shopspring/decimal"
)

// VariantID identifies one product variant of the manufactured good.
type VariantID string

// Variant represents one product variant with its share of the annual target.
type Variant struct {
	ID                 VariantID
	Name               string
	AnnualSharePercent decimal.Decimal
}

// NewVariant creates a validated Variant.
func NewVariant(id VariantID, name string, sharePercent decimal.Decimal) (*Variant, error) {
	if id == "" {
		return nil, fmt.Errorf("variant id cannot be empty")
	}
	if sharePercent.IsNegative() {
		return nil, fmt.Errorf("variant %s share cannot be negative, got %s", id, sharePercent)
	}
	return &Variant{
		ID:                 id,
		Name:               name,
		AnnualSharePercent: sharePercent,
	}, nil
}

// PeriodWeight is one entry of a seasonal profile: the percentage of the
// annual quantity planned for one calendar month.
type PeriodWeight struct {
	Period        int // 1..12
	WeightPercent decimal.Decimal
}

// SeasonalProfile distributes an annual quantity across the 12 periods.
// Weights must sum to 100 within PercentTolerance.
type SeasonalProfile struct {
	Weights []PeriodWeight
}

// PercentTolerance is the accepted deviation when a set of percentages must
// sum to exactly 100.
var PercentTolerance = decimal.RequireFromString("0.1")

// NewSeasonalProfile creates a validated 12-period profile. The weights are
// reordered by period; a missing or duplicated period is a configuration error.
func NewSeasonalProfile(weights []PeriodWeight) (*SeasonalProfile, error) {
	if len(weights) != 12 {
		return nil, fmt.Errorf("seasonal profile requires 12 period weights, got %d", len(weights))
	}
	ordered := make([]PeriodWeight, 12)
	seen := make(map[int]bool, 12)
	sum := decimal.Zero
	for _, w := range weights {
		if w.Period < 1 || w.Period > 12 {
			return nil, fmt.Errorf("seasonal period must be 1..12, got %d", w.Period)
		}
		if seen[w.Period] {
			return nil, fmt.Errorf("duplicate seasonal period %d", w.Period)
		}
		if w.WeightPercent.IsNegative() {
			return nil, fmt.Errorf("seasonal weight for period %d cannot be negative, got %s", w.Period, w.WeightPercent)
		}
		seen[w.Period] = true
		ordered[w.Period-1] = w
		sum = sum.Add(w.WeightPercent)
	}
	if off := sum.Sub(decimal.NewFromInt(100)).Abs(); off.GreaterThan(PercentTolerance) {
		return nil, fmt.Errorf("seasonal weights must sum to 100, got %s", sum)
	}
	return &SeasonalProfile{Weights: ordered}, nil
}

// Weight returns the configured percentage for a period (1..12).
func (p *SeasonalProfile) Weight(period int) decimal.Decimal {
	return p.Weights[period-1].WeightPercent
}
