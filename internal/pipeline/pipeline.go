package pipeline

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"

	"fosdata/internal/dataset"
	"fosdata/internal/extract"
	"fosdata/internal/logger"
	"fosdata/internal/models"
)

// DocumentParser turns a downloaded document into raw text.
type DocumentParser func(path string) (string, error)

// Summary is the pipeline's accumulated result, returned from Run and
// threaded through each batch rather than held in shared state.
type Summary struct {
	BatchesProcessed int
	RecordsSeen      int
	RowsAppended     int
	FetchFailures    int
	ExtractFailures  int
	JoinMisses       int
	TextBytes        int64
}

// TextMB is the cumulative extracted-text volume in megabytes, a diagnostic
// only.
func (s *Summary) TextMB() float64 {
	return float64(s.TextBytes) / (1024 * 1024)
}

// Pipeline orchestrates batches: fetch, extract, join, append, clean up.
// Execution is single-threaded and sequential by design; the output table is
// the only resource that outlives a batch.
type Pipeline struct {
	fetcher   *Fetcher
	writer    *dataset.Writer
	extractor *extract.Extractor
	parser    DocumentParser
	log       *logger.Logger
	batchSize int
}

// NewPipeline creates a pipeline with the default extractor and PDF parser.
func NewPipeline(fetcher *Fetcher, writer *dataset.Writer, log *logger.Logger, batchSize int) *Pipeline {
	return NewPipelineWithDeps(fetcher, writer, extract.NewExtractor(), extract.PDFText, log, batchSize)
}

// NewPipelineWithDeps creates a pipeline with injected dependencies.
func NewPipelineWithDeps(fetcher *Fetcher, writer *dataset.Writer, extractor *extract.Extractor, parser DocumentParser, log *logger.Logger, batchSize int) *Pipeline {
	return &Pipeline{
		fetcher:   fetcher,
		writer:    writer,
		extractor: extractor,
		parser:    parser,
		log:       log,
		batchSize: batchSize,
	}
}

// Run consumes the metadata stream lazily, processing records in batches of
// the configured size; the final partial batch is still processed. Failures
// on individual documents are contained and counted; only output-table
// failures (and a broken stream) abort the run.
func (p *Pipeline) Run(ctx context.Context, stream *dataset.MetadataReader, joinIndex map[string]*models.DocumentRecord) (*Summary, error) {
	summary := &Summary{}
	batch := make([]*models.DocumentRecord, 0, p.batchSize)

	for {
		record, err := stream.Next()
		if errors.Is(err, io.EOF) {
			break
		}

		if err != nil {
			return summary, fmt.Errorf("metadata stream failed: %w", err)
		}

		batch = append(batch, record)
		summary.RecordsSeen++

		if len(batch) == p.batchSize {
			if err := p.processBatch(ctx, batch, joinIndex, summary); err != nil {
				return summary, err
			}

			batch = batch[:0]
		}
	}

	if len(batch) > 0 {
		if err := p.processBatch(ctx, batch, joinIndex, summary); err != nil {
			return summary, err
		}
	}

	return summary, nil
}

// processBatch runs one batch end to end. The batch's downloaded files are
// deleted before returning, whatever happened, so disk usage never exceeds
// one batch's worth of documents.
func (p *Pipeline) processBatch(ctx context.Context, batch []*models.DocumentRecord, joinIndex map[string]*models.DocumentRecord, summary *Summary) error {
	summary.BatchesProcessed++

	var files []string

	defer func() {
		for _, file := range files {
			if err := os.Remove(file); err != nil {
				p.log.Warn("failed to remove batch file", "path", file, "error", err)
			}
		}
	}()

	fetched := make(map[string]string, len(batch))

	for _, record := range batch {
		if err := ctx.Err(); err != nil {
			return err
		}

		path, err := p.fetcher.Fetch(ctx, record)
		if err != nil {
			summary.FetchFailures++
			p.log.Warn("fetch failed, skipping document", "decision_id", record.DecisionID, "error", err)

			continue
		}

		files = append(files, path)
		fetched[record.DecisionID] = path
	}

	results := make(map[string]*extract.Result, len(fetched))

	for _, record := range batch {
		path, ok := fetched[record.DecisionID]
		if !ok {
			continue
		}

		text, err := p.parser(path)
		if err != nil {
			summary.ExtractFailures++
			p.log.Warn("document parse failed, skipping", "decision_id", record.DecisionID, "error", err)

			continue
		}

		result, err := p.extractor.Extract(text)
		if err != nil {
			summary.ExtractFailures++
			p.log.Warn("section extraction failed, skipping", "decision_id", record.DecisionID, "error", err)

			continue
		}

		results[record.DecisionID] = result
	}

	rows := p.joinRows(batch, results, joinIndex, summary)

	appended, err := p.writer.Append(rows)
	if err != nil {
		return fmt.Errorf("output table append failed: %w", err)
	}

	summary.RowsAppended += appended

	p.log.Info("batch complete",
		"batch", summary.BatchesProcessed,
		"records", len(batch),
		"rows_appended", appended,
		"fetch_failures", summary.FetchFailures,
		"extract_failures", summary.ExtractFailures,
		"cumulative_text_mb", fmt.Sprintf("%.2f", summary.TextMB()),
	)

	return nil
}

// joinRows inner-joins extracted documents against the metadata index by
// decision ID. Documents without a matching metadata record are silently
// dropped, as are records whose document never made it through extraction.
func (p *Pipeline) joinRows(batch []*models.DocumentRecord, results map[string]*extract.Result, joinIndex map[string]*models.DocumentRecord, summary *Summary) []*models.DatasetRow {
	var rows []*models.DatasetRow

	for _, record := range batch {
		result, ok := results[record.DecisionID]
		if !ok {
			continue
		}

		meta, ok := joinIndex[record.DecisionID]
		if !ok {
			summary.JoinMisses++

			continue
		}

		decision := meta.Decision
		if result.PartiallyUpheld {
			decision = models.DecisionPartiallyUpheld
		}

		var label *int
		if code, ok := models.EncodeDecision(decision); ok {
			label = &code
		}

		rows = append(rows, &models.DatasetRow{
			DecisionID: meta.DecisionID,
			Date:       meta.Date,
			Company:    meta.Company,
			Product:    meta.Product,
			Label:      label,
			Sections:   result.Sections,
		})

		summary.TextBytes += sectionBytes(result.Sections)
	}

	return rows
}

func sectionBytes(sections *models.Sections) int64 {
	total := 0

	for _, span := range []*string{
		sections.Complaint,
		sections.WhatHappened,
		sections.ProvisionalDecision,
		sections.DecidedAndWhy,
		sections.FinalDecision,
	} {
		if span != nil {
			total += len(*span)
		}
	}

	return int64(total)
}
