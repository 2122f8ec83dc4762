package audit

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/spherical-ai/racecard/internal/domain"
	"github.com/spherical-ai/racecard/internal/schema"
)

func summaryRow(dog, box string) domain.Record {
	return domain.Record{
		domain.FieldTrack:    "Wentworth Park",
		domain.FieldRaceDate: "2025-10-15",
		domain.FieldRaceNo:   "3",
		domain.FieldBox:      box,
		domain.FieldDogName:  dog,
	}
}

func TestReport_AddFile(t *testing.T) {
	r := NewReport(time.Date(2025, 10, 15, 9, 30, 0, 0, time.UTC))
	assert.NotEmpty(t, r.RunID)
	assert.Equal(t, "2025-10-15 09:30:00", r.Timestamp)

	r.AddFile(FileStats{File: "a.docx", Unmapped: []string{"Zed", "Xtra", "Zed"}})
	r.AddFile(FileStats{File: "b.docx", Error: "open zip: not a valid zip file"})
	r.AddFile(FileStats{File: "c.docx", DuplicateOf: "a.docx"})

	assert.Equal(t, 1, r.FilesProcessed)
	assert.Equal(t, 1, r.FilesFailed)
	assert.Equal(t, 1, r.FilesDuplicate)
	assert.Equal(t, []string{"Xtra", "Zed"}, r.UnmappedHeaders["a.docx"])
	assert.Equal(t, "open zip: not a valid zip file", r.ParseErrors["b.docx"])
	assert.Len(t, r.Files, 3)
}

func TestReport_Measure(t *testing.T) {
	fast := summaryRow("Fast Lane", "1").
		With(schema.FieldHistCount, "2").
		With(schema.FieldAvgSpeed, "64.8").
		With(schema.FieldHistDate, "2025-10-01")
	slow := summaryRow("Slow Boat", "2").With(schema.FieldHistCount, "")
	noBox := summaryRow("Lost Dog", "").With(domain.FieldRaceDate, "15/10/2025")

	history := []domain.Record{
		summaryRow("Fast Lane", "1").With(schema.FieldHistDate, "2025-10-01"),
		summaryRow("Fast Lane", "1").With(schema.FieldHistDate, "1st Oct"),
		summaryRow("Ghost", "9").With(schema.FieldHistDate, "2025-09-01"),
		summaryRow("", "").With(schema.FieldHistDate, "2025-09-02"),
	}

	r := NewReport(time.Now())
	r.Measure([]domain.Record{fast, slow, noBox}, history)

	assert.Equal(t, 3, r.DogsParsed)
	assert.Equal(t, 3, r.UniqueDogs)
	assert.Equal(t, 4, r.HistoryRows)
	assert.Equal(t, 33.33, r.PctWithHistory)
	assert.Equal(t, 33.33, r.PctWithSpeed)
	assert.Equal(t, 33.33, r.PctWithSnapshot)
	assert.Equal(t, 1, r.MissingFields[domain.FieldBox])
	assert.Equal(t, 0, r.MissingFields[domain.FieldTrack])
	assert.Equal(t, 2, r.MalformedDates)
	assert.Equal(t, 2, r.OrphanHistoryRows)
}

func TestReport_MeasureEmpty(t *testing.T) {
	r := NewReport(time.Now())
	r.Measure(nil, nil)
	assert.Zero(t, r.PctWithSpeed)
	assert.Zero(t, r.UniqueDogs)
}

func TestWrite(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "audit")
	r := NewReport(time.Now())
	r.AddFile(FileStats{File: "a.docx", Paragraphs: 4, Tables: 2, SummaryRows: 8})
	r.Measure([]domain.Record{summaryRow("Fast Lane", "1")}, nil)

	rejects := []string{RejectLine("a.docx", "entry", []string{"3", "  ", "J  Smith"})}
	paths, err := Write(dir, r, rejects)
	require.NoError(t, err)

	data, err := os.ReadFile(paths.JSON)
	require.NoError(t, err)
	var decoded map[string]interface{}
	require.NoError(t, json.Unmarshal(data, &decoded))
	assert.Equal(t, r.RunID, decoded["run_id"])
	assert.Equal(t, float64(1), decoded["dogs_parsed"])
	assert.Equal(t, paths.Rejects, decoded["rejects_file"])
	assert.Len(t, decoded["per_file_stats"], 1)

	text, err := os.ReadFile(paths.Text)
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(string(text), "GREYHOUND RACE PROGRAM AUDIT REPORT\n"))
	assert.Contains(t, string(text), "a.docx [ok] paragraphs=4 tables=2")

	rej, err := os.ReadFile(paths.Rejects)
	require.NoError(t, err)
	assert.Equal(t, "a.docx\tentry\t3 |  | J Smith\n", string(rej))
}
