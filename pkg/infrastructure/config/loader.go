// Package config loads a complete run configuration from one JSON document,
// with an optional .env overlay for deployment-specific overrides.
package config

import (
	"encoding/json"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"github.com/shopspring/decimal"

	"github.com/planfab/prodsim/pkg/domain/entities"
	loadercsv "github.com/planfab/prodsim/pkg/infrastructure/repositories/csv"
	"github.com/planfab/prodsim/pkg/infrastructure/repositories/memory"
)

const dateLayout = "2006-01-02"

// File mirrors the JSON document. Struct tags carry the shape checks; the
// domain validator re-checks the cross-field invariants after conversion.
type File struct {
	Year              int              `json:"year" validate:"required,min=1970,max=2100"`
	ProductionCountry string           `json:"production_country" validate:"required"`
	SupplierCountry   string           `json:"supplier_country" validate:"required"`
	AnnualTarget      int64            `json:"annual_target" validate:"required,min=1"`
	Variants          []VariantFile    `json:"variants" validate:"required,min=1,dive"`
	SeasonalWeights   []WeightFile     `json:"seasonal_weights" validate:"required,len=12,dive"`
	Holidays          []HolidayFile    `json:"holidays" validate:"dive"`
	HolidaysCSV       string           `json:"holidays_csv,omitempty"`
	BOM               []BOMLineFile    `json:"bom" validate:"required,min=1,dive"`
	Logistics         LogisticsFile    `json:"logistics" validate:"required"`
	InitialStock      map[string]int64 `json:"initial_stock,omitempty"`
	Overrides         []OverrideFile   `json:"overrides,omitempty" validate:"dive"`
	Scenarios         []ScenarioFile   `json:"scenarios,omitempty" validate:"dive"`
	AllocationPolicy  string           `json:"allocation_policy,omitempty" validate:"omitempty,oneof=proportional fcfs"`
	HorizonExtraDays  int              `json:"horizon_extra_days,omitempty" validate:"min=0"`
}

type VariantFile struct {
	ID           string `json:"id" validate:"required"`
	Name         string `json:"name"`
	SharePercent string `json:"share_percent" validate:"required"`
}

type WeightFile struct {
	Period        int    `json:"period" validate:"required,min=1,max=12"`
	WeightPercent string `json:"weight_percent" validate:"required"`
}

type HolidayFile struct {
	Date     string `json:"date" validate:"required"`
	Name     string `json:"name" validate:"required"`
	Category string `json:"category"`
	Country  string `json:"country" validate:"required"`
}

type BOMLineFile struct {
	VariantID   string `json:"variant_id" validate:"required"`
	ComponentID string `json:"component_id" validate:"required"`
	UnitsPer    int64  `json:"units_per_variant" validate:"required,min=1"`
}

type LogisticsFile struct {
	SupplierLeadDays    int    `json:"supplier_lead_days" validate:"min=0"`
	InlandToPortDays    int    `json:"inland_to_port_days" validate:"min=0"`
	SeaTransitDays      int    `json:"sea_transit_days" validate:"min=0"`
	InlandToFactoryDays int    `json:"inland_to_factory_days" validate:"min=0"`
	LotSize             int64  `json:"lot_size" validate:"required,min=1"`
	SailingWeekday      string `json:"sailing_weekday" validate:"required,oneof=Sunday Monday Tuesday Wednesday Thursday Friday Saturday"`
}

type OverrideFile struct {
	VariantID string `json:"variant_id" validate:"required"`
	Period    int    `json:"period" validate:"required,min=1,max=12"`
	Delta     int64  `json:"delta"`
}

type ScenarioFile struct {
	ID   string `json:"id" validate:"required"`
	Name string `json:"name"`
	Type string `json:"type" validate:"required,oneof=demand_surge capacity_loss stock_loss shipment_delay"`
	From string `json:"from" validate:"required"`
	To   string `json:"to" validate:"required"`

	IncreasePercent string   `json:"increase_percent,omitempty"`
	Variants        []string `json:"variants,omitempty"`
	LossPercent     string   `json:"loss_percent,omitempty"`
	Side            string   `json:"side,omitempty" validate:"omitempty,oneof=production supplier"`
	OrderIDs        []string `json:"order_ids,omitempty"`
	Quantity        int64    `json:"quantity,omitempty"`
	DelayDays       int      `json:"delay_days,omitempty"`
}

// Loader reads and validates run configurations.
type Loader struct {
	validate *validator.Validate
}

// NewLoader creates a configuration loader.
func NewLoader() *Loader {
	return &Loader{validate: validator.New()}
}

// Load reads the JSON document at path into a RunConfig. A .env file next to
// the working directory is applied first, then PRODSIM_* environment
// variables override the scalar document fields.
func (l *Loader) Load(path string) (*entities.RunConfig, error) {
	// missing .env is fine; a present but broken one is not
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		return nil, fmt.Errorf("loading .env: %w", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading config %s: %w", path, err)
	}
	var file File
	if err := json.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("parsing config %s: %w", path, err)
	}

	if err := applyEnvOverrides(&file); err != nil {
		return nil, err
	}
	if err := l.validate.Struct(&file); err != nil {
		return nil, fmt.Errorf("config %s: %w", path, err)
	}
	return file.toRunConfig()
}

// applyEnvOverrides patches scalar fields from PRODSIM_* variables.
func applyEnvOverrides(file *File) error {
	if v := os.Getenv("PRODSIM_YEAR"); v != "" {
		year, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("PRODSIM_YEAR: %w", err)
		}
		file.Year = year
	}
	if v := os.Getenv("PRODSIM_ANNUAL_TARGET"); v != "" {
		target, err := strconv.ParseInt(v, 10, 64)
		if err != nil {
			return fmt.Errorf("PRODSIM_ANNUAL_TARGET: %w", err)
		}
		file.AnnualTarget = target
	}
	if v := os.Getenv("PRODSIM_ALLOCATION_POLICY"); v != "" {
		file.AllocationPolicy = strings.ToLower(v)
	}
	if v := os.Getenv("PRODSIM_HORIZON_EXTRA_DAYS"); v != "" {
		days, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("PRODSIM_HORIZON_EXTRA_DAYS: %w", err)
		}
		file.HorizonExtraDays = days
	}
	return nil
}

func (f *File) toRunConfig() (*entities.RunConfig, error) {
	weights := make([]entities.PeriodWeight, 0, len(f.SeasonalWeights))
	for _, w := range f.SeasonalWeights {
		pct, err := decimal.NewFromString(w.WeightPercent)
		if err != nil {
			return nil, fmt.Errorf("seasonal weight for period %d: %w", w.Period, err)
		}
		weights = append(weights, entities.PeriodWeight{Period: w.Period, WeightPercent: pct})
	}
	seasonal, err := entities.NewSeasonalProfile(weights)
	if err != nil {
		return nil, err
	}

	variants := make([]entities.Variant, 0, len(f.Variants))
	for _, v := range f.Variants {
		share, err := decimal.NewFromString(v.SharePercent)
		if err != nil {
			return nil, fmt.Errorf("variant %s share: %w", v.ID, err)
		}
		variants = append(variants, entities.Variant{
			ID:                 entities.VariantID(v.ID),
			Name:               v.Name,
			AnnualSharePercent: share,
		})
	}

	lines := make([]entities.BOMLine, 0, len(f.BOM))
	for _, line := range f.BOM {
		lines = append(lines, entities.BOMLine{
			VariantID:       entities.VariantID(line.VariantID),
			ComponentID:     entities.ComponentID(line.ComponentID),
			UnitsPerVariant: entities.Quantity(line.UnitsPer),
		})
	}
	bom, err := entities.NewBillOfMaterials(lines)
	if err != nil {
		return nil, err
	}

	// Inline and CSV holidays merge through the repository, so the run
	// config carries them grouped by country in date order regardless of
	// which source they came from.
	holidayRepo := memory.NewHolidayRepository()
	holidayRepo.AddCountry(entities.Country(f.ProductionCountry))
	holidayRepo.AddCountry(entities.Country(f.SupplierCountry))
	for _, h := range f.Holidays {
		date, err := time.Parse(dateLayout, h.Date)
		if err != nil {
			return nil, fmt.Errorf("holiday %s date: %w", h.Name, err)
		}
		holiday, err := entities.NewHoliday(date, h.Name, h.Category, entities.Country(h.Country))
		if err != nil {
			return nil, err
		}
		holidayRepo.AddHoliday(*holiday)
	}
	if f.HolidaysCSV != "" {
		fromCSV, err := loadercsv.NewLoader().LoadHolidays(f.HolidaysCSV)
		if err != nil {
			return nil, err
		}
		for _, h := range fromCSV {
			holidayRepo.AddHoliday(h)
		}
	}
	holidays := holidayRepo.All()

	weekday, err := parseWeekday(f.Logistics.SailingWeekday)
	if err != nil {
		return nil, err
	}

	stock := make(map[entities.ComponentID]entities.Quantity, len(f.InitialStock))
	for id, qty := range f.InitialStock {
		stock[entities.ComponentID(id)] = entities.Quantity(qty)
	}

	// Declaration order is application order for overrides; the repository
	// carries that contract.
	overrideRepo := memory.NewOverrideRepository()
	for _, o := range f.Overrides {
		overrideRepo.Add(entities.PeriodOverride{
			VariantID: entities.VariantID(o.VariantID),
			Period:    o.Period,
			Delta:     entities.Quantity(o.Delta),
		})
	}
	overrides := overrideRepo.All()

	scenarios := make([]*entities.Scenario, 0, len(f.Scenarios))
	for _, s := range f.Scenarios {
		scenario, err := s.toScenario()
		if err != nil {
			return nil, err
		}
		scenarios = append(scenarios, scenario)
	}

	policy := entities.Proportional
	if f.AllocationPolicy == "fcfs" {
		policy = entities.FCFS
	}

	return &entities.RunConfig{
		Year:              f.Year,
		ProductionCountry: entities.Country(f.ProductionCountry),
		SupplierCountry:   entities.Country(f.SupplierCountry),
		AnnualTarget:      entities.Quantity(f.AnnualTarget),
		Variants:          variants,
		Seasonal:          seasonal,
		Holidays:          holidays,
		BOM:               bom,
		Logistics: entities.LogisticsParams{
			SupplierLeadDays:    f.Logistics.SupplierLeadDays,
			InlandToPortDays:    f.Logistics.InlandToPortDays,
			SeaTransitDays:      f.Logistics.SeaTransitDays,
			InlandToFactoryDays: f.Logistics.InlandToFactoryDays,
			LotSize:             entities.Quantity(f.Logistics.LotSize),
			SailingWeekday:      weekday,
		},
		InitialStock:     stock,
		Overrides:        overrides,
		Scenarios:        scenarios,
		AllocationPolicy: policy,
		HorizonExtraDays: f.HorizonExtraDays,
	}, nil
}

func (s ScenarioFile) toScenario() (*entities.Scenario, error) {
	from, err := time.Parse(dateLayout, s.From)
	if err != nil {
		return nil, fmt.Errorf("scenario %s from: %w", s.ID, err)
	}
	to, err := time.Parse(dateLayout, s.To)
	if err != nil {
		return nil, fmt.Errorf("scenario %s to: %w", s.ID, err)
	}
	window := entities.DateWindow{From: from, To: to}

	parsePercent := func(raw, field string) (decimal.Decimal, error) {
		if raw == "" {
			return decimal.Zero, nil
		}
		pct, err := decimal.NewFromString(raw)
		if err != nil {
			return decimal.Zero, fmt.Errorf("scenario %s %s: %w", s.ID, field, err)
		}
		return pct, nil
	}

	switch s.Type {
	case "demand_surge":
		pct, err := parsePercent(s.IncreasePercent, "increase_percent")
		if err != nil {
			return nil, err
		}
		variants := make([]entities.VariantID, 0, len(s.Variants))
		for _, id := range s.Variants {
			variants = append(variants, entities.VariantID(id))
		}
		return entities.NewScenario(s.ID, s.Name, entities.DemandSurge, window,
			entities.DemandSurgeParams{IncreasePercent: pct, Variants: variants})
	case "capacity_loss":
		pct, err := parsePercent(s.LossPercent, "loss_percent")
		if err != nil {
			return nil, err
		}
		side := entities.ProductionSide
		if s.Side == "supplier" {
			side = entities.SupplierSide
		}
		return entities.NewScenario(s.ID, s.Name, entities.CapacityLoss, window,
			entities.CapacityLossParams{LossPercent: pct, Side: side})
	case "stock_loss":
		pct, err := parsePercent(s.LossPercent, "loss_percent")
		if err != nil {
			return nil, err
		}
		return entities.NewScenario(s.ID, s.Name, entities.StockLoss, window,
			entities.StockLossParams{OrderIDs: s.OrderIDs, Quantity: entities.Quantity(s.Quantity), LossPercent: pct})
	case "shipment_delay":
		return entities.NewScenario(s.ID, s.Name, entities.ShipmentDelay, window,
			entities.ShipmentDelayParams{OrderIDs: s.OrderIDs, DelayDays: s.DelayDays})
	default:
		return nil, fmt.Errorf("scenario %s: unknown type %q", s.ID, s.Type)
	}
}

func parseWeekday(name string) (time.Weekday, error) {
	for d := time.Sunday; d <= time.Saturday; d++ {
		if d.String() == name {
			return d, nil
		}
	}
	return 0, fmt.Errorf("unknown weekday %q", name)
}
