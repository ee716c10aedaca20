package main

import (
	"context"
	"fmt"
	"time"

	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"

	"github.com/planfab/prodsim/pkg/application/services/orchestration"
	"github.com/planfab/prodsim/pkg/domain/entities"
	"github.com/planfab/prodsim/pkg/domain/repositories"
	"github.com/planfab/prodsim/pkg/infrastructure/repositories/memory"
)

func main() {
	ctx := context.Background()

	cfg, err := buildFactoryConfig()
	if err != nil {
		fmt.Printf("❌ Config failed: %v\n", err)
		return
	}

	fmt.Println("🏭 Running yearly production simulation...")
	fmt.Printf("Target: %d units across %d variants in %d\n", cfg.AnnualTarget, len(cfg.Variants), cfg.Year)
	fmt.Println()

	log := logrus.New()
	log.SetLevel(logrus.WarnLevel)
	runner := orchestration.NewRunner(log, func(initial map[entities.ComponentID]entities.Quantity) repositories.InventoryStore {
		return memory.NewLedgerStore(initial)
	})

	result, err := runner.Run(ctx, cfg)
	if err != nil {
		fmt.Printf("❌ Simulation failed: %v\n", err)
		return
	}

	// Display results
	fmt.Println("📊 Simulation Results:")
	fmt.Printf("  Planned: %d\n", result.Totals.Planned)
	fmt.Printf("  Actual: %d\n", result.Totals.Actual)
	fmt.Printf("  Shortfall: %d\n", result.Totals.Shortfall)
	fmt.Printf("  Shipped: %d\n", result.Totals.Shipped)
	fmt.Printf("  Fulfillment: %s%%\n", result.Totals.FulfillmentPercent)
	fmt.Println()

	if len(result.Batches) > 0 {
		fmt.Println("🚢 Shipment Batches:")
		for _, b := range result.Batches[:min(5, len(result.Batches))] {
			fmt.Printf("  %s: %d units of %s, at factory %s\n",
				b.OrderID, b.Quantity, b.ComponentID, b.FactoryArrivalDate.Format("2006-01-02"))
		}
		if len(result.Batches) > 5 {
			fmt.Printf("  ... and %d more\n", len(result.Batches)-5)
		}
		fmt.Println()
	}

	if result.Totals.Shortfall > 0 {
		fmt.Println("🚨 Backlog by Variant:")
		for id, backlog := range result.Totals.BacklogByVariant {
			if backlog > 0 {
				fmt.Printf("  %s: %d units\n", id, backlog)
			}
		}
		fmt.Println()
	}

	fmt.Println("✅ Simulation complete!")
}

// buildFactoryConfig assembles a two-variant factory year: a German plant
// consuming one shared component shipped from a Chinese supplier.
func buildFactoryConfig() (*entities.RunConfig, error) {
	weightValues := []int64{6, 7, 8, 9, 10, 9, 7, 6, 8, 10, 11, 9}
	weights := make([]entities.PeriodWeight, 0, len(weightValues))
	for i, w := range weightValues {
		weights = append(weights, entities.PeriodWeight{
			Period:        i + 1,
			WeightPercent: decimal.NewFromInt(w),
		})
	}
	seasonal, err := entities.NewSeasonalProfile(weights)
	if err != nil {
		return nil, err
	}

	bom, err := entities.NewBillOfMaterials([]entities.BOMLine{
		{VariantID: "V1", ComponentID: "C1", UnitsPerVariant: 1},
		{VariantID: "V2", ComponentID: "C1", UnitsPerVariant: 1},
	})
	if err != nil {
		return nil, err
	}

	holidays := make([]entities.Holiday, 0, 3)
	for _, h := range []struct {
		date    time.Time
		name    string
		country entities.Country
	}{
		{time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC), "New Year", "DE"},
		{time.Date(2026, 5, 1, 0, 0, 0, 0, time.UTC), "Labour Day", "DE"},
		{time.Date(2026, 2, 17, 0, 0, 0, 0, time.UTC), "Spring Festival", "CN"},
	} {
		holiday, err := entities.NewHoliday(h.date, h.name, "public", h.country)
		if err != nil {
			return nil, err
		}
		holidays = append(holidays, *holiday)
	}

	return &entities.RunConfig{
		Year:              2026,
		ProductionCountry: "DE",
		SupplierCountry:   "CN",
		AnnualTarget:      370000,
		Variants: []entities.Variant{
			{ID: "V1", Name: "Standard", AnnualSharePercent: decimal.NewFromInt(60)},
			{ID: "V2", Name: "Premium", AnnualSharePercent: decimal.NewFromInt(40)},
		},
		Seasonal: seasonal,
		Holidays: holidays,
		BOM:      bom,
		Logistics: entities.LogisticsParams{
			SupplierLeadDays:    10,
			InlandToPortDays:    3,
			SeaTransitDays:      30,
			InlandToFactoryDays: 4,
			LotSize:             500,
			SailingWeekday:      time.Wednesday,
		},
		InitialStock:     map[entities.ComponentID]entities.Quantity{"C1": 40000},
		AllocationPolicy: entities.Proportional,
		HorizonExtraDays: 60,
	}, nil
}
