package testing

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/planfab/prodsim/pkg/domain/entities"
)

// BuildFactoryConfig builds the canonical full-scale test configuration:
// 370k units over eight variants, a non-uniform seasonal curve, holidays on
// both calendars, one component per variant, weekly Wednesday sailings in
// lots of 500. Initial stock is left empty; callers size it to the case
// under test.
func BuildFactoryConfig() *entities.RunConfig {
	seasonalWeights := []int64{6, 7, 8, 9, 10, 9, 7, 6, 8, 10, 11, 9}
	weights := make([]entities.PeriodWeight, 12)
	for i, w := range seasonalWeights {
		weights[i] = entities.PeriodWeight{Period: i + 1, WeightPercent: decimal.NewFromInt(w)}
	}
	seasonal, err := entities.NewSeasonalProfile(weights)
	if err != nil {
		panic(err)
	}

	shares := []int64{20, 18, 15, 12, 10, 10, 8, 7}
	variants := make([]entities.Variant, len(shares))
	lines := make([]entities.BOMLine, len(shares))
	for i, share := range shares {
		suffix := string(rune('A' + i))
		variants[i] = entities.Variant{
			ID:                 entities.VariantID("V" + suffix),
			Name:               "Model " + suffix,
			AnnualSharePercent: decimal.NewFromInt(share),
		}
		lines[i] = entities.BOMLine{
			VariantID:       variants[i].ID,
			ComponentID:     entities.ComponentID("C" + suffix),
			UnitsPerVariant: 1,
		}
	}
	bom, err := entities.NewBillOfMaterials(lines)
	if err != nil {
		panic(err)
	}

	return &entities.RunConfig{
		Year:              2026,
		ProductionCountry: "DE",
		SupplierCountry:   "CN",
		AnnualTarget:      370000,
		Variants:          variants,
		Seasonal:          seasonal,
		Holidays: []entities.Holiday{
			mustHoliday(time.January, 1, "New Year", "DE"),
			mustHoliday(time.May, 1, "Labour Day", "DE"),
			mustHoliday(time.December, 25, "Christmas", "DE"),
			mustHoliday(time.February, 17, "Spring Festival", "CN"),
			mustHoliday(time.October, 1, "National Day", "CN"),
		},
		BOM: bom,
		Logistics: entities.LogisticsParams{
			SupplierLeadDays:    10,
			InlandToPortDays:    3,
			SeaTransitDays:      30,
			InlandToFactoryDays: 4,
			LotSize:             500,
			SailingWeekday:      time.Wednesday,
		},
		AllocationPolicy: entities.Proportional,
		HorizonExtraDays: 60,
	}
}

// BuildSmallConfig builds a two-variant flat-season year sharing one
// component, sized so hand-computed expectations stay readable.
func BuildSmallConfig() *entities.RunConfig {
	weights := make([]entities.PeriodWeight, 12)
	for i := range weights {
		weights[i] = entities.PeriodWeight{Period: i + 1, WeightPercent: decimal.RequireFromString("8.3333")}
	}
	seasonal, err := entities.NewSeasonalProfile(weights)
	if err != nil {
		panic(err)
	}
	bom, err := entities.NewBillOfMaterials([]entities.BOMLine{
		{VariantID: "V1", ComponentID: "C1", UnitsPerVariant: 1},
		{VariantID: "V2", ComponentID: "C1", UnitsPerVariant: 1},
	})
	if err != nil {
		panic(err)
	}

	return &entities.RunConfig{
		Year:              2026,
		ProductionCountry: "DE",
		SupplierCountry:   "CN",
		AnnualTarget:      12000,
		Variants: []entities.Variant{
			{ID: "V1", Name: "Standard", AnnualSharePercent: decimal.NewFromInt(60)},
			{ID: "V2", Name: "Premium", AnnualSharePercent: decimal.NewFromInt(40)},
		},
		Seasonal: seasonal,
		BOM:      bom,
		Logistics: entities.LogisticsParams{
			SupplierLeadDays:    10,
			InlandToPortDays:    3,
			SeaTransitDays:      30,
			InlandToFactoryDays: 4,
			LotSize:             500,
			SailingWeekday:      time.Wednesday,
		},
		InitialStock: map[entities.ComponentID]entities.Quantity{
			"C1": 40000,
		},
		AllocationPolicy: entities.Proportional,
		HorizonExtraDays: 60,
	}
}

// StockCovering returns initial stock holding the given fraction of each
// variant's annual component demand.
func StockCovering(cfg *entities.RunConfig, fraction float64) map[entities.ComponentID]entities.Quantity {
	stock := make(map[entities.ComponentID]entities.Quantity)
	for _, v := range cfg.Variants {
		share, _ := v.AnnualSharePercent.Float64()
		demand := float64(cfg.AnnualTarget) * share / 100.0
		for _, line := range cfg.BOM.LinesFor(v.ID) {
			stock[line.ComponentID] += entities.Quantity(demand*fraction) * line.UnitsPerVariant
		}
	}
	return stock
}

func mustHoliday(month time.Month, day int, name string, country entities.Country) entities.Holiday {
	h, err := entities.NewHoliday(time.Date(2026, month, day, 0, 0, 0, 0, time.UTC), name, "public", country)
	if err != nil {
		panic(err)
	}
	return *h
}
