package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"strings"

	"github.com/planfab/prodsim/pkg/interfaces/cli/commands"
)

func main() {
	// Command line flags
	var (
		configFile  = flag.String("config", "", "Path to JSON run configuration")
		compare     = flag.Bool("compare", false, "Compare the baseline against the configured scenarios")
		scenarioIDs = flag.String("scenario", "", "Comma-separated scenario IDs to apply (default: all configured)")
		generate    = flag.String("generate", "", "Write a sample configuration to the given path")
		outputDir   = flag.String("output", "", "Output directory for results (optional)")
		format      = flag.String("format", "text", "Output format: text, json")
		verbose     = flag.Bool("verbose", false, "Enable verbose output")
		help        = flag.Bool("help", false, "Show help message")
	)

	flag.Parse()

	ctx := context.Background()

	if *generate != "" {
		cmd := commands.NewGenerateCommand(commands.GenerateConfig{
			OutputFile: *generate,
			Verbose:    *verbose,
		})
		if err := cmd.Execute(ctx); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
		return
	}

	var ids []string
	if *scenarioIDs != "" {
		for _, id := range strings.Split(*scenarioIDs, ",") {
			if id = strings.TrimSpace(id); id != "" {
				ids = append(ids, id)
			}
		}
	}

	// Create command configuration
	config := commands.Config{
		ConfigFile:  *configFile,
		ScenarioIDs: ids,
		OutputDir:   *outputDir,
		Format:      *format,
		Verbose:     *verbose,
		Help:        *help,
	}

	var err error
	if *compare && !*help {
		err = commands.NewCompareCommand(config).Execute(ctx)
	} else {
		err = commands.NewSimulateCommand(config).Execute(ctx)
	}
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
