package output

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"time"

	"github.com/planfab/prodsim/pkg/application/dto"
	"github.com/planfab/prodsim/pkg/domain/entities"
)

// Config holds configuration for output generation
type Config struct {
	Format    string
	OutputDir string
	Verbose   bool
	RunTime   time.Duration
}

// Generate renders one run result in the configured format.
func Generate(result *dto.RunResult, config Config) error {
	switch config.Format {
	case "text":
		return generateTextOutput(result, config)
	case "json":
		return generateJSONOutput(result, "run_result.json", config)
	default:
		return fmt.Errorf("unsupported output format: %s", config.Format)
	}
}

// GenerateComparison renders a baseline-versus-scenario comparison.
func GenerateComparison(cmp *dto.ScenarioComparison, config Config) error {
	switch config.Format {
	case "text":
		return generateComparisonText(cmp, config)
	case "json":
		return generateJSONOutput(cmp, "scenario_comparison.json", config)
	default:
		return fmt.Errorf("unsupported output format: %s", config.Format)
	}
}

func generateTextOutput(result *dto.RunResult, config Config) error {
	fmt.Printf("📊 Simulation Results %d\n", result.Year)
	fmt.Printf("========================\n\n")

	fmt.Printf("Run ID: %s\n", result.RunID)
	fmt.Printf("Planned: %d  Actual: %d  Shortfall: %d\n",
		result.Totals.Planned, result.Totals.Actual, result.Totals.Shortfall)
	fmt.Printf("Shipped: %d  Ending Inventory: %d\n",
		result.Totals.Shipped, result.Totals.EndingInventory)
	fmt.Printf("Fulfillment: %s%%\n", result.Totals.FulfillmentPercent)
	if config.RunTime > 0 {
		fmt.Printf("Run Time: %v\n", config.RunTime)
	}
	fmt.Println()

	if len(result.MonthlyRollups) > 0 {
		fmt.Printf("📅 Monthly Production:\n")
		fmt.Printf("%-6s %-10s %-10s %-10s %-10s\n", "Month", "Variant", "Planned", "Actual", "Shortfall")
		fmt.Printf("%-6s %-10s %-10s %-10s %-10s\n", "------", "----------", "----------", "----------", "----------")
		for _, r := range result.MonthlyRollups {
			fmt.Printf("%-6d %-10s %-10d %-10d %-10d\n", r.Period, r.VariantID, r.Planned, r.Actual, r.Shortfall)
		}
		fmt.Println()
	}

	if len(result.Batches) > 0 {
		fmt.Printf("🚢 Shipments:\n")
		fmt.Printf("%-16s %-10s %-12s %-12s %-8s %-10s\n",
			"Batch", "Component", "Departed", "At Factory", "Lots", "Quantity")
		fmt.Printf("%-16s %-10s %-12s %-12s %-8s %-10s\n",
			"----------------", "----------", "------------", "------------", "--------", "----------")
		for _, b := range result.Batches {
			fmt.Printf("%-16s %-10s %-12s %-12s %-8d %-10d\n",
				b.OrderID,
				b.ComponentID,
				b.DepartureDate.Format("2006-01-02"),
				b.FactoryArrivalDate.Format("2006-01-02"),
				b.LotMultiple,
				b.Quantity)
		}
		fmt.Println()
	}

	queued := pendingQueues(result.HarborQueues)
	if len(queued) > 0 {
		fmt.Printf("⚓ Harbor Backlog:\n")
		fmt.Printf("%-10s %-10s %-14s\n", "Component", "Pending", "Last Sailing")
		fmt.Printf("%-10s %-10s %-14s\n", "----------", "----------", "--------------")
		for _, q := range queued {
			last := "-"
			if !q.LastDepartureDate.IsZero() {
				last = q.LastDepartureDate.Format("2006-01-02")
			}
			fmt.Printf("%-10s %-10d %-14s\n", q.ComponentID, q.PendingStock, last)
		}
		fmt.Println()
	}

	if config.Verbose && result.Totals.Shortfall > 0 {
		fmt.Printf("⚠️  Backlog by Variant:\n")
		ids := make([]entities.VariantID, 0, len(result.Totals.BacklogByVariant))
		for id := range result.Totals.BacklogByVariant {
			ids = append(ids, id)
		}
		sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
		for _, id := range ids {
			if backlog := result.Totals.BacklogByVariant[id]; backlog > 0 {
				fmt.Printf("  %-10s %d\n", id, backlog)
			}
		}
		fmt.Println()
	}

	return nil
}

func generateComparisonText(cmp *dto.ScenarioComparison, config Config) error {
	fmt.Printf("🔀 Scenario Comparison\n")
	fmt.Printf("======================\n\n")
	if len(cmp.ScenarioIDs) > 0 {
		fmt.Printf("Scenarios applied: %v\n\n", cmp.ScenarioIDs)
	}

	fmt.Printf("%-18s %-12s %-12s %-10s %-10s\n", "Metric", "Baseline", "Scenario", "Delta", "Delta %")
	fmt.Printf("%-18s %-12s %-12s %-10s %-10s\n",
		"------------------", "------------", "------------", "----------", "----------")
	for _, m := range cmp.Metrics {
		fmt.Printf("%-18s %-12d %-12d %-10d %-10s\n",
			m.Metric, m.Baseline, m.WithScenario, m.Delta, m.DeltaPercent)
	}
	fmt.Println()

	if config.Verbose {
		fmt.Printf("Baseline run: %s\n", cmp.Baseline.RunID)
		fmt.Printf("Scenario run: %s\n", cmp.WithScenarios.RunID)
		fmt.Println()
	}
	return nil
}

func generateJSONOutput(payload any, filename string, config Config) error {
	data, err := json.MarshalIndent(payload, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal results: %w", err)
	}

	if config.OutputDir != "" {
		if err := os.MkdirAll(config.OutputDir, 0o755); err != nil {
			return fmt.Errorf("failed to create output directory: %w", err)
		}
		path := filepath.Join(config.OutputDir, filename)
		if err := os.WriteFile(path, data, 0o644); err != nil {
			return fmt.Errorf("failed to write %s: %w", path, err)
		}
		if config.Verbose {
			fmt.Printf("📄 Results written to: %s\n", path)
		}
		return nil
	}

	fmt.Println(string(data))
	return nil
}

func pendingQueues(queues map[entities.ComponentID]entities.HarborQueueState) []entities.HarborQueueState {
	out := make([]entities.HarborQueueState, 0, len(queues))
	for _, q := range queues {
		if q.PendingStock > 0 {
			out = append(out, q)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ComponentID < out[j].ComponentID })
	return out
}
