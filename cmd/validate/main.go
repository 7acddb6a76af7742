// Package main provides the validate command: it filters the raw dataset
// into the final validated dataset and reports data-quality loss.
package main

import (
	"flag"
	"fmt"
	"os"
	"regexp"
	"strconv"

	"fosdata/internal/config"
	"fosdata/internal/dataset"
	"fosdata/internal/logger"
	"fosdata/internal/report"
)

func main() {
	configFile := flag.String("config", "", "Path to YAML configuration file")
	input := flag.String("input", "", "Raw dataset CSV (overrides config)")
	output := flag.String("output", "", "Validated dataset CSV (overrides config)")
	xlsx := flag.String("xlsx", "", "Also export the validated dataset to this XLSX file")
	flag.Parse()

	cfg := loadConfig(*configFile)
	log := logger.NewLogger(cfg.Logging.Level)

	inputPath := cfg.Ingest.DatasetFile
	if *input != "" {
		inputPath = *input
	}

	outputPath := cfg.Validation.OutputFile
	if *output != "" {
		outputPath = *output
	}

	var idPattern *regexp.Regexp

	if cfg.Validation.IDPattern != "" {
		compiled, err := regexp.Compile(cfg.Validation.IDPattern)
		if err != nil {
			log.Error("invalid id pattern", "error", err)
			os.Exit(1)
		}

		idPattern = compiled
	}

	result, err := dataset.Validate(inputPath, outputPath, idPattern)
	if err != nil {
		log.Error("validation failed", "error", err)
		os.Exit(1)
	}

	fmt.Println()
	fmt.Print(report.RenderTable(
		[]string{"metric", "value"},
		[][]string{
			{"rows seen", strconv.Itoa(result.RowsSeen)},
			{"rows retained", strconv.Itoa(result.RowsRetained)},
			{"unique ids retained", strconv.Itoa(result.UniqueRetained)},
		},
	))

	log.Info("validated dataset written", "path", outputPath)

	if *xlsx != "" {
		if err := dataset.ExportXLSX(outputPath, *xlsx); err != nil {
			log.Error("xlsx export failed", "error", err)
			os.Exit(1)
		}

		log.Info("xlsx export written", "path", *xlsx)
	}
}

func loadConfig(path string) *config.Config {
	if path == "" {
		return config.DefaultConfig()
	}

	cfg, err := config.LoadConfig(path)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load config: %v\n", err)
		os.Exit(1)
	}

	return cfg
}
