// Package main provides the metadata command: it pages through the ombudsman
// decision index and writes one metadata row per discovered decision.
package main

import (
	"context"
	"encoding/csv"
	"flag"
	"fmt"
	"os"
	"strings"
	"time"

	"fosdata/internal/config"
	"fosdata/internal/logger"
	"fosdata/internal/models"
	"fosdata/internal/nlp"
	"fosdata/internal/search"
)

// defaultLookbackDays is the search window when no start date is given.
const defaultLookbackDays = 50

func main() {
	configFile := flag.String("config", "", "Path to YAML configuration file")
	keyword := flag.String("keyword", "", "Keyword to search for")
	from := flag.String("from", "", "Start date for the search (YYYY-MM-DD)")
	to := flag.String("to", "", "End date for the search (YYYY-MM-DD)")
	upheld := flag.String("upheld", "", "Filter by outcome: true, false, or empty for both")
	sectors := flag.String("sectors", "", "Industry sectors, comma-separated; empty for all")
	output := flag.String("output", "", "Output CSV path (overrides config)")
	flag.Parse()

	cfg := loadConfig(*configFile)
	log := logger.NewLogger(cfg.Logging.Level)

	query, err := buildQuery(*keyword, *from, *to, *upheld, *sectors)
	if err != nil {
		log.Error("invalid search arguments", "error", err)
		os.Exit(1)
	}

	outputPath := cfg.Ingest.MetadataFile
	if *output != "" {
		outputPath = *output
	}

	file, err := os.Create(outputPath)
	if err != nil {
		log.Error("failed to create metadata file", "path", outputPath, "error", err)
		os.Exit(1)
	}

	writer := csv.NewWriter(file)
	if err := writer.Write(models.MetadataColumns); err != nil {
		log.Error("failed to write metadata header", "error", err)
		os.Exit(1)
	}

	client := search.NewClient(
		cfg.Search.BaseURL,
		search.NewParser(nlp.NewKeywordExtractor()),
		log,
		cfg.SearchRetryDelay(),
	)

	total, err := client.Search(context.Background(), query, func(record *models.DocumentRecord) error {
		return writer.Write(record.ToCSVRow())
	})

	writer.Flush()

	if closeErr := file.Close(); closeErr != nil && err == nil {
		err = closeErr
	}

	if err != nil {
		log.Error("search failed", "error", err)
		os.Exit(1)
	}

	if total == 0 {
		log.Warn("no results found")

		return
	}

	log.Info("wrote metadata entries", "count", total, "path", outputPath)
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

func buildQuery(keyword, from, to, upheld, sectors string) (search.Query, error) {
	query := search.Query{Keyword: keyword}

	now := time.Now()
	query.From = now.AddDate(0, 0, -defaultLookbackDays)
	query.To = now

	if from != "" {
		parsed, err := time.Parse("2006-01-02", from)
		if err != nil {
			return query, fmt.Errorf("invalid -from date: %w", err)
		}

		query.From = parsed
	}

	if to != "" {
		parsed, err := time.Parse("2006-01-02", to)
		if err != nil {
			return query, fmt.Errorf("invalid -to date: %w", err)
		}

		query.To = parsed
	}

	switch upheld {
	case "":
	case "true":
		v := true
		query.Upheld = &v
	case "false":
		v := false
		query.Upheld = &v
	default:
		return query, fmt.Errorf("invalid -upheld value %q", upheld)
	}

	if sectors != "" {
		for _, slug := range strings.Split(sectors, ",") {
			slug = strings.TrimSpace(slug)
			if _, ok := search.SectorIDs[slug]; !ok {
				return query, fmt.Errorf("unknown sector %q", slug)
			}

			query.Sectors = append(query.Sectors, slug)
		}
	}

	return query, nil
}
