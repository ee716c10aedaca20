package commands

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
)

// GenerateConfig holds configuration for sample config generation
type GenerateConfig struct {
	OutputFile string
	Verbose    bool
}

// GenerateCommand writes a sample run configuration to edit
type GenerateCommand struct {
	config GenerateConfig
}

// NewGenerateCommand creates a new generate command
func NewGenerateCommand(config GenerateConfig) *GenerateCommand {
	return &GenerateCommand{
		config: config,
	}
}

// Execute runs the generate command
func (cmd *GenerateCommand) Execute(ctx context.Context) error {
	if cmd.config.OutputFile == "" {
		return fmt.Errorf("validation error: must specify an output file")
	}

	if dir := filepath.Dir(cmd.config.OutputFile); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("failed to create output directory: %w", err)
		}
	}

	if err := os.WriteFile(cmd.config.OutputFile, []byte(sampleRunConfig), 0o644); err != nil {
		return fmt.Errorf("failed to write sample configuration: %w", err)
	}

	if cmd.config.Verbose {
		fmt.Printf("📄 Sample configuration written to: %s\n", cmd.config.OutputFile)
		fmt.Println("Edit the file and run: prodsim -config", cmd.config.OutputFile)
	}

	return nil
}

// sampleRunConfig is a complete two-variant year that runs as written. The
// seasonal weights sum to 100 and the variant shares sum to 100; the loader
// rejects anything else.
const sampleRunConfig = `{
  "year": 2026,
  "production_country": "DE",
  "supplier_country": "CN",
  "annual_target": 370000,
  "allocation_policy": "proportional",
  "horizon_extra_days": 60,
  "variants": [
    {"id": "V1", "name": "Standard", "share_percent": "60"},
    {"id": "V2", "name": "Premium", "share_percent": "40"}
  ],
  "seasonal_weights": [
    {"period": 1, "weight_percent": "6"},
    {"period": 2, "weight_percent": "7"},
    {"period": 3, "weight_percent": "8"},
    {"period": 4, "weight_percent": "9"},
    {"period": 5, "weight_percent": "10"},
    {"period": 6, "weight_percent": "9"},
    {"period": 7, "weight_percent": "7"},
    {"period": 8, "weight_percent": "6"},
    {"period": 9, "weight_percent": "8"},
    {"period": 10, "weight_percent": "10"},
    {"period": 11, "weight_percent": "11"},
    {"period": 12, "weight_percent": "9"}
  ],
  "holidays": [
    {"date": "2026-01-01", "name": "New Year", "category": "public", "country": "DE"},
    {"date": "2026-05-01", "name": "Labour Day", "category": "public", "country": "DE"},
    {"date": "2026-12-25", "name": "Christmas", "category": "public", "country": "DE"},
    {"date": "2026-02-17", "name": "Spring Festival", "category": "public", "country": "CN"},
    {"date": "2026-10-01", "name": "National Day", "category": "public", "country": "CN"}
  ],
  "bom": [
    {"variant_id": "V1", "component_id": "C1", "units_per_variant": 1},
    {"variant_id": "V2", "component_id": "C1", "units_per_variant": 1}
  ],
  "logistics": {
    "supplier_lead_days": 10,
    "inland_to_port_days": 3,
    "sea_transit_days": 30,
    "inland_to_factory_days": 4,
    "lot_size": 500,
    "sailing_weekday": "Wednesday"
  },
  "initial_stock": {"C1": 40000},
  "scenarios": [
    {
      "id": "surge-q3",
      "name": "Q3 demand surge",
      "type": "demand_surge",
      "from": "2026-07-01",
      "to": "2026-09-30",
      "increase_percent": "15",
      "variants": ["V1"]
    }
  ]
}
`
