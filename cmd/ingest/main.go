// Package main provides the ingest command: it drives the batch pipeline
// that turns the metadata table into the labeled dataset.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"strconv"

	"fosdata/internal/config"
	"fosdata/internal/dataset"
	"fosdata/internal/logger"
	"fosdata/internal/pipeline"
	"fosdata/internal/report"
)

func main() {
	configFile := flag.String("config", "", "Path to YAML configuration file")
	metadataFile := flag.String("metadata", "", "Metadata CSV to stream records from (overrides config)")
	joinFile := flag.String("join", "", "Metadata CSV used for the final join (defaults to -metadata)")
	downloadDir := flag.String("dir", "", "Directory for downloaded documents (overrides config)")
	outputFile := flag.String("output", "", "Output dataset CSV (overrides config)")
	batchSize := flag.Int("batch-size", 0, "Batch size (overrides config)")
	flag.Parse()

	cfg := loadConfig(*configFile)
	applyOverrides(cfg, *metadataFile, *downloadDir, *outputFile, *batchSize)

	log := logger.NewLogger(cfg.Logging.Level)

	if err := os.MkdirAll(cfg.Ingest.DownloadDir, 0755); err != nil {
		log.Error("failed to create download directory", "error", err)
		os.Exit(1)
	}

	joinPath := cfg.Ingest.MetadataFile
	if *joinFile != "" {
		joinPath = *joinFile
	}

	joinIndex, err := dataset.LoadJoinIndex(joinPath)
	if err != nil {
		log.Error("failed to load join table", "path", joinPath, "error", err)
		os.Exit(1)
	}

	stream, err := dataset.OpenMetadata(cfg.Ingest.MetadataFile)
	if err != nil {
		log.Error("failed to open metadata stream", "error", err)
		os.Exit(1)
	}

	defer func() {
		_ = stream.Close()
	}()

	writer, err := dataset.OpenWriter(cfg.Ingest.DatasetFile)
	if err != nil {
		log.Error("failed to open output table", "error", err)
		os.Exit(1)
	}

	fetcher := pipeline.NewFetcher(
		cfg.Search.DecisionsBaseURL,
		cfg.Ingest.DownloadDir,
		log,
		cfg.FetchRetryDelay(),
	)

	log.Info("starting ingestion", "batch_size", cfg.Ingest.BatchSize, "metadata", cfg.Ingest.MetadataFile)

	p := pipeline.NewPipeline(fetcher, writer, log, cfg.Ingest.BatchSize)

	summary, runErr := p.Run(context.Background(), stream, joinIndex)

	if closeErr := writer.Close(); closeErr != nil && runErr == nil {
		runErr = closeErr
	}

	printSummary(summary)

	if runErr != nil {
		log.Error("ingestion aborted", "error", runErr)
		os.Exit(1)
	}

	log.Info("ingestion complete", "rows_appended", summary.RowsAppended)
}

func printSummary(summary *pipeline.Summary) {
	fmt.Println()
	fmt.Print(report.RenderTable(
		[]string{"metric", "value"},
		[][]string{
			{"batches processed", strconv.Itoa(summary.BatchesProcessed)},
			{"records seen", strconv.Itoa(summary.RecordsSeen)},
			{"rows appended", strconv.Itoa(summary.RowsAppended)},
			{"fetch failures", strconv.Itoa(summary.FetchFailures)},
			{"extract failures", strconv.Itoa(summary.ExtractFailures)},
			{"join misses", strconv.Itoa(summary.JoinMisses)},
			{"text volume (MB)", fmt.Sprintf("%.2f", summary.TextMB())},
		},
	))
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

func applyOverrides(cfg *config.Config, metadataFile, downloadDir, outputFile string, batchSize int) {
	if metadataFile != "" {
		cfg.Ingest.MetadataFile = metadataFile
	}

	if downloadDir != "" {
		cfg.Ingest.DownloadDir = downloadDir
	}

	if outputFile != "" {
		cfg.Ingest.DatasetFile = outputFile
	}

	if batchSize > 0 {
		cfg.Ingest.BatchSize = batchSize
	}
}
