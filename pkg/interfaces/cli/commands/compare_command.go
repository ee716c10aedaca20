package commands

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/planfab/prodsim/pkg/application/services/orchestration"
	"github.com/planfab/prodsim/pkg/application/services/scenario"
	"github.com/planfab/prodsim/pkg/domain/entities"
	"github.com/planfab/prodsim/pkg/infrastructure/config"
	"github.com/planfab/prodsim/pkg/interfaces/cli/output"
)

// CompareCommand runs the baseline and the scenario-perturbed simulation and
// reports the metric deltas between them
type CompareCommand struct {
	config Config
}

// NewCompareCommand creates a new compare command with the given configuration
func NewCompareCommand(config Config) *CompareCommand {
	return &CompareCommand{
		config: config,
	}
}

// Execute runs the compare command
func (c *CompareCommand) Execute(ctx context.Context) error {
	if c.config.ConfigFile == "" {
		return fmt.Errorf("validation error: must specify a -config file")
	}
	if _, err := os.Stat(c.config.ConfigFile); os.IsNotExist(err) {
		return fmt.Errorf("validation error: config file not found: %s", c.config.ConfigFile)
	}

	if c.config.Verbose {
		fmt.Printf("🏭 Production Simulation CLI - Scenario Comparison\n")
		fmt.Printf("Config file: %s\n\n", c.config.ConfigFile)
		fmt.Println("📂 Loading run configuration...")
	}

	runConfig, err := config.NewLoader().Load(c.config.ConfigFile)
	if err != nil {
		return fmt.Errorf("error loading configuration: %w", err)
	}

	if len(runConfig.Scenarios) == 0 {
		return fmt.Errorf("configuration %s defines no scenarios to compare", c.config.ConfigFile)
	}
	if len(c.config.ScenarioIDs) > 0 {
		filtered, err := filterScenarios(runConfig.Scenarios, c.config.ScenarioIDs)
		if err != nil {
			return err
		}
		runConfig.Scenarios = filtered
	}

	if c.config.Verbose {
		fmt.Printf("✅ Configuration loaded, %d scenario(s) defined\n\n", len(runConfig.Scenarios))
		fmt.Println("🔄 Running baseline and scenario simulations...")
	}

	runner := orchestration.NewRunner(newCommandLogger(c.config.Verbose), newInventoryStore)
	engine := scenario.NewEngine(runner)

	startTime := time.Now()
	comparison, err := engine.Compare(ctx, runConfig)
	runTime := time.Since(startTime)

	if err != nil {
		return fmt.Errorf("error running comparison: %w", err)
	}

	if c.config.Verbose {
		fmt.Printf("✅ Both runs completed in %v\n\n", runTime)
	}

	outputConfig := output.Config{
		Format:    c.config.Format,
		OutputDir: c.config.OutputDir,
		Verbose:   c.config.Verbose,
		RunTime:   runTime,
	}

	if err := output.GenerateComparison(comparison, outputConfig); err != nil {
		return fmt.Errorf("error generating output: %w", err)
	}

	if c.config.Verbose {
		fmt.Println("🏁 Comparison complete!")
	}

	return nil
}

// filterScenarios keeps the configured scenarios named by ids, in their
// declaration order. Naming an unconfigured scenario is an error, not a no-op.
func filterScenarios(scenarios []*entities.Scenario, ids []string) ([]*entities.Scenario, error) {
	wanted := make(map[string]bool, len(ids))
	for _, id := range ids {
		wanted[id] = true
	}
	kept := make([]*entities.Scenario, 0, len(ids))
	for _, s := range scenarios {
		if wanted[s.ID] {
			kept = append(kept, s)
			delete(wanted, s.ID)
		}
	}
	for _, id := range ids {
		if wanted[id] {
			return nil, fmt.Errorf("scenario %q is not defined in the configuration", id)
		}
	}
	return kept, nil
}
