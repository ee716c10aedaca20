package commands

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/planfab/prodsim/pkg/application/services/orchestration"
	"github.com/planfab/prodsim/pkg/domain/entities"
	"github.com/planfab/prodsim/pkg/domain/repositories"
	"github.com/planfab/prodsim/pkg/infrastructure/config"
	"github.com/planfab/prodsim/pkg/infrastructure/events"
	"github.com/planfab/prodsim/pkg/infrastructure/repositories/memory"
	"github.com/planfab/prodsim/pkg/interfaces/cli/output"
)

// Config holds configuration for the simulate command
type Config struct {
	ConfigFile  string
	ScenarioIDs []string
	OutputDir   string
	Format      string
	Verbose     bool
	Help        bool
}

// SimulateCommand runs one full simulation from a JSON configuration file
type SimulateCommand struct {
	config Config
}

// NewSimulateCommand creates a new simulate command with the given configuration
func NewSimulateCommand(config Config) *SimulateCommand {
	return &SimulateCommand{
		config: config,
	}
}

// Execute runs the simulate command
func (c *SimulateCommand) Execute(ctx context.Context) error {
	if c.config.Help {
		c.showHelp()
		return nil
	}

	if err := c.validateInputs(); err != nil {
		return fmt.Errorf("validation error: %w", err)
	}

	if c.config.Verbose {
		c.printHeader()
	}

	if c.config.Verbose {
		fmt.Println("📂 Loading run configuration...")
	}

	runConfig, err := config.NewLoader().Load(c.config.ConfigFile)
	if err != nil {
		return fmt.Errorf("error loading configuration: %w", err)
	}

	if c.config.Verbose {
		fmt.Printf("✅ Configuration loaded:\n")
		fmt.Printf("  Year: %d\n", runConfig.Year)
		fmt.Printf("  Variants: %d\n", len(runConfig.Variants))
		fmt.Printf("  Annual Target: %d\n", runConfig.AnnualTarget)
		fmt.Printf("  Allocation Policy: %s\n", runConfig.AllocationPolicy)
		fmt.Println()
	}

	runner := orchestration.NewRunner(newCommandLogger(c.config.Verbose), newInventoryStore)
	eventStore := events.NewInMemoryEventStore()

	if c.config.Verbose {
		fmt.Println("🔄 Running simulation...")
	}

	startTime := time.Now()
	result, err := runner.Run(ctx, runConfig, orchestration.WithEventSink(eventStore))
	runTime := time.Since(startTime)

	if err != nil {
		return fmt.Errorf("error running simulation: %w", err)
	}

	if c.config.Verbose {
		fmt.Printf("✅ Simulation completed in %v\n", runTime)
		stream, _ := eventStore.ReadEvents(result.RunID, 0)
		fmt.Printf("  Events recorded: %d\n\n", len(stream))
	}

	outputConfig := output.Config{
		Format:    c.config.Format,
		OutputDir: c.config.OutputDir,
		Verbose:   c.config.Verbose,
		RunTime:   runTime,
	}

	if err := output.Generate(result, outputConfig); err != nil {
		return fmt.Errorf("error generating output: %w", err)
	}

	if c.config.Verbose {
		fmt.Println("🏁 Simulation complete!")
	}

	return nil
}

// validateInputs validates the command configuration
func (c *SimulateCommand) validateInputs() error {
	if c.config.ConfigFile == "" {
		return fmt.Errorf("must specify a -config file")
	}
	if _, err := os.Stat(c.config.ConfigFile); os.IsNotExist(err) {
		return fmt.Errorf("config file not found: %s", c.config.ConfigFile)
	}
	return nil
}

// printHeader prints the command header information
func (c *SimulateCommand) printHeader() {
	fmt.Printf("🏭 Production Simulation CLI\n")
	fmt.Printf("Config file: %s\n", c.config.ConfigFile)
	fmt.Printf("Output format: %s\n", c.config.Format)
	if c.config.OutputDir != "" {
		fmt.Printf("Output directory: %s\n", c.config.OutputDir)
	}
	fmt.Println()
}

// showHelp displays the help message
func (c *SimulateCommand) showHelp() {
	fmt.Printf(`Production Simulation CLI - Calendar-Driven Production & Inventory Planning

USAGE:
    prodsim -config <file>                 # Run the simulation
    prodsim -config <file> -compare        # Run baseline vs. scenarios
    prodsim -generate <file>               # Write a sample configuration file

OPTIONS:
    -config <file>      Path to JSON run configuration
    -compare            Compare the baseline against the configured scenarios
    -scenario <ids>     Comma-separated scenario IDs to apply (default: all)
    -generate <file>    Write a sample configuration to the given path
    -output <dir>       Output directory for results (optional)
    -format <fmt>       Output format: text, json (default: text)
    -verbose            Enable verbose output
    -help               Show this help message

CONFIGURATION:
    The configuration file is JSON. A commented starting point can be
    produced with -generate. Settings can be overridden per environment
    with a .env file (PRODSIM_YEAR, PRODSIM_ANNUAL_TARGET,
    PRODSIM_ALLOCATION_POLICY, PRODSIM_HORIZON_EXTRA_DAYS).

EXAMPLES:
    # Run a yearly plan
    prodsim -config examples/factory_2026.json -verbose

    # Compare baseline against the scenarios in the config
    prodsim -config examples/factory_2026.json -compare

    # Compare against a single named scenario
    prodsim -config examples/factory_2026.json -compare -scenario surge-q3

    # Generate JSON output into a directory
    prodsim -config examples/factory_2026.json -format json -output results/

    # Write a sample configuration to edit
    prodsim -generate factory.json
`)
}

// newCommandLogger builds the runner logger. Progress reporting happens on
// stdout; the structured log only carries warnings unless -verbose is set.
func newCommandLogger(verbose bool) *logrus.Logger {
	log := logrus.New()
	log.SetOutput(os.Stderr)
	if verbose {
		log.SetLevel(logrus.InfoLevel)
	} else {
		log.SetLevel(logrus.WarnLevel)
	}
	return log
}

func newInventoryStore(initial map[entities.ComponentID]entities.Quantity) repositories.InventoryStore {
	return memory.NewLedgerStore(initial)
}
