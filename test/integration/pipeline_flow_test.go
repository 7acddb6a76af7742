package integration

import (
	"context"
	"encoding/csv"
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"fosdata/internal/dataset"
	"fosdata/internal/extract"
	"fosdata/internal/logger"
	"fosdata/internal/models"
	"fosdata/internal/nlp"
	"fosdata/internal/pipeline"
	"fosdata/internal/search"
)

// The fixture index holds three decisions: a straightforward upheld case, a
// case that skipped the provisional stage whose final wording partially
// upholds, and one whose metadata never made it into the join table.
var searchEntries = []struct {
	id       string
	title    string
	decision string
	desc     string
}{
	{"DRN-2001", "Declined claim", "Upheld", "Mr B complains that his travel insurance claim was declined."},
	{"DRN-2002", "Handling delays", "Not upheld", "Mrs C complains about how her home insurance claim was handled."},
	{"DRN-2003", "Mis-sold policy", "Upheld", "Mr D complains that a pet insurance policy was mis-sold."},
}

var fixtureDocuments = map[string]string{
	"/decision/DRN-2001.pdf": strings.Join([]string{
		"DRN-2001",
		"The complaint",
		"Mr B complains that his claim was declined.",
		"What happened",
		"Mr B took out a travel insurance policy.",
		"I issued a provisional decision in May.",
		"I explained why the claim should be paid.",
		"What Ive decided - and why",
		"My conclusions remain as set out provisionally.",
		"My final decision",
		"I uphold this complaint.",
		"Janet Smith",
		"Ombudsman",
	}, "\n"),
	"/decision/DRN-2002.pdf": strings.Join([]string{
		"DRN-2002",
		"The complaint",
		"Mrs C complains about delays.",
		"What happened",
		"Mrs C made a claim in January.",
		"What Ive decided - and why",
		"I find the delays were excessive.",
		"My final decision",
		"I partially uphold this complaint.",
		"Janet Smith",
		"Ombudsman",
	}, "\n"),
	"/decision/DRN-2003.pdf": strings.Join([]string{
		"DRN-2003",
		"The complaint",
		"Mr D complains about a mis-sold policy.",
		"What happened",
		"Mr D was sold pet insurance he did not need.",
		"What Ive decided - and why",
		"I agree the sale was flawed.",
		"My final decision",
		"I uphold this complaint.",
		"Janet Smith",
		"Ombudsman",
	}, "\n"),
}

// newFixtureServer serves the search index on /search and decision documents
// on their location paths, the way the live site lays them out.
func newFixtureServer(t *testing.T) *httptest.Server {
	t.Helper()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if strings.HasPrefix(r.URL.Path, "/decision/") {
			body, ok := fixtureDocuments[r.URL.Path]
			if !ok {
				w.WriteHeader(http.StatusNotFound)

				return
			}

			_, _ = w.Write([]byte(body))

			return
		}

		if r.URL.Query().Get("Start") != "0" {
			_, _ = fmt.Fprint(w, `<div class="search-results-holder"><ul class="search-results"></ul></div>`)

			return
		}

		var page strings.Builder
		page.WriteString(`<div class="search-results-holder"><ul class="search-results">`)

		for _, entry := range searchEntries {
			fmt.Fprintf(&page, `<li><a href="/decision/%s.pdf"><h4>%s</h4>`+
				`<div class="search-result__info-main">12 January 2023%sAcme Insurance Ltd%s%s</div>`+
				`<span class="search-result__tag">insurance</span>`+
				`<div class="search-result__desc">%s</div></a></li>`,
				entry.id, entry.title, "\n", "\n", entry.decision, entry.desc)
		}

		page.WriteString(`</ul></div>`)
		_, _ = w.Write([]byte(page.String()))
	}))
	t.Cleanup(server.Close)

	return server
}

func plainText(path string) (string, error) {
	content, err := os.ReadFile(path)
	if err != nil {
		return "", err
	}

	return string(content), nil
}

func writeMetadataCSV(t *testing.T, path string, records []*models.DocumentRecord) {
	t.Helper()

	file, err := os.Create(path)
	require.NoError(t, err)

	writer := csv.NewWriter(file)
	require.NoError(t, writer.Write(models.MetadataColumns))

	for _, record := range records {
		require.NoError(t, writer.Write(record.ToCSVRow()))
	}

	writer.Flush()
	require.NoError(t, writer.Error())
	require.NoError(t, file.Close())
}

func TestHarvestFlow(t *testing.T) {
	server := newFixtureServer(t)
	log := logger.NewLogger("error")
	dir := t.TempDir()

	// Stage 1: scrape the index into the metadata table.
	client := search.NewClient(server.URL+"/search", search.NewParser(nlp.NewKeywordExtractor()), log, time.Millisecond)

	var records []*models.DocumentRecord

	total, err := client.Search(context.Background(), search.Query{}, func(record *models.DocumentRecord) error {
		records = append(records, record)

		return nil
	})
	require.NoError(t, err)
	require.Equal(t, 3, total)

	assert.Equal(t, "travel", records[0].Product)
	assert.Equal(t, "home", records[1].Product)
	assert.Equal(t, "pet", records[2].Product)

	metadataPath := filepath.Join(dir, "metadata.csv")
	writeMetadataCSV(t, metadataPath, records)

	// The join table is missing the third decision, as happens when the merge
	// source lags the scrape.
	joinPath := filepath.Join(dir, "join.csv")
	writeMetadataCSV(t, joinPath, records[:2])

	// Stage 2: ingest in batches.
	downloadDir := filepath.Join(dir, "decisions")
	require.NoError(t, os.MkdirAll(downloadDir, 0755))

	joinIndex, err := dataset.LoadJoinIndex(joinPath)
	require.NoError(t, err)

	stream, err := dataset.OpenMetadata(metadataPath)
	require.NoError(t, err)

	datasetPath := filepath.Join(dir, "dataset.csv")
	writer, err := dataset.OpenWriter(datasetPath)
	require.NoError(t, err)

	fetcher := pipeline.NewFetcher(server.URL, downloadDir, log, time.Millisecond)
	pipe := pipeline.NewPipelineWithDeps(fetcher, writer, extract.NewExtractor(), plainText, log, 2)

	summary, err := pipe.Run(context.Background(), stream, joinIndex)
	require.NoError(t, err)
	require.NoError(t, stream.Close())
	require.NoError(t, writer.Close())

	assert.Equal(t, 2, summary.BatchesProcessed)
	assert.Equal(t, 3, summary.RecordsSeen)
	assert.Equal(t, 2, summary.RowsAppended)
	assert.Equal(t, 1, summary.JoinMisses)
	assert.Equal(t, 0, summary.FetchFailures)
	assert.Equal(t, 0, summary.ExtractFailures)

	rows := readCSV(t, datasetPath)
	require.Len(t, rows, 3)

	first := rows[1]
	assert.Equal(t, "DRN-2001", first[0])
	assert.Equal(t, "0", first[4])
	assert.NotEmpty(t, first[7]) // provisional stage present

	second := rows[2]
	assert.Equal(t, "DRN-2002", second[0])
	assert.Equal(t, "2", second[4]) // final wording overrides "Not upheld"
	assert.Empty(t, second[7])      // provisional stage skipped

	// Stage 3: a resumed ingest appends nothing new.
	stream, err = dataset.OpenMetadata(metadataPath)
	require.NoError(t, err)

	writer, err = dataset.OpenWriter(datasetPath)
	require.NoError(t, err)

	pipe = pipeline.NewPipelineWithDeps(fetcher, writer, extract.NewExtractor(), plainText, log, 2)

	summary, err = pipe.Run(context.Background(), stream, joinIndex)
	require.NoError(t, err)
	require.NoError(t, stream.Close())
	require.NoError(t, writer.Close())

	assert.Equal(t, 0, summary.RowsAppended)
	require.Len(t, readCSV(t, datasetPath), 3)

	// Stage 4: validate into the final dataset. Both rows survive; the null
	// provisional section is the allowed exception.
	finalPath := filepath.Join(dir, "final.csv")

	report, err := dataset.Validate(datasetPath, finalPath, nil)
	require.NoError(t, err)

	assert.Equal(t, 2, report.RowsSeen)
	assert.Equal(t, 2, report.RowsRetained)
	assert.Equal(t, 2, report.UniqueRetained)

	finalRows := readCSV(t, finalPath)
	require.Len(t, finalRows, 3)
	assert.Equal(t, models.DatasetColumns, finalRows[0])
}

func readCSV(t *testing.T, path string) [][]string {
	t.Helper()

	file, err := os.Open(path)
	require.NoError(t, err)

	defer func() {
		_ = file.Close()
	}()

	rows, err := csv.NewReader(file).ReadAll()
	require.NoError(t, err)

	return rows
}
