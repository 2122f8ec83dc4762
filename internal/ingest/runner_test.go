package ingest

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"

	"github.com/spherical-ai/racecard/internal/audit"
	"github.com/spherical-ai/racecard/internal/document"
	"github.com/spherical-ai/racecard/internal/document/docxtest"
	"github.com/spherical-ai/racecard/internal/domain"
	"github.com/spherical-ai/racecard/internal/observability"
	"github.com/spherical-ai/racecard/internal/schema"
)

const meetingLine = "Race No. 3 15 Oct 25 WENTWORTH PARK Distance 450m Grade 5"

func fixedClock() time.Time {
	return time.Date(2025, 10, 16, 8, 0, 0, 0, time.UTC)
}

func raceProgram(meeting, dog string) *docxtest.Builder {
	return docxtest.New().
		Paragraph(meeting).
		Table([]string{"BOX", "DOG", "TRAINER"}, []string{"1", dog, "J SMITH"}).
		Paragraph(dog).
		Table([]string{"DATE", "DIST", "TIME"}, []string{"01/09/25", "450", "25.00"})
}

func newRunner(t *testing.T, cfg RunnerConfig, opts ...RunnerOption) (*Runner, RunnerConfig) {
	t.Helper()
	out := t.TempDir()
	cfg.OutputDir = out
	cfg.OutputPrefix = "racecard_summary"
	cfg.AuditDir = filepath.Join(out, "audit")
	opts = append([]RunnerOption{WithClock(fixedClock)}, opts...)
	return NewRunner(observability.Nop(), document.NewRegistry(), cfg, opts...), cfg
}

func assertFastLane(t *testing.T, row domain.Record) {
	t.Helper()
	assert.Equal(t, "WENTWORTH PARK", row[domain.FieldTrack])
	assert.Equal(t, "2025-10-15", row[domain.FieldRaceDate])
	assert.Equal(t, "3", row[domain.FieldRaceNo])
	assert.Equal(t, "Fast Lane", row[domain.FieldDogName])
	assert.Equal(t, "1", row[domain.FieldBox])
	assert.Equal(t, "1", row[schema.FieldHistCount])
	assert.Equal(t, "64.8", row[schema.FieldAvgSpeed])
	assert.Equal(t, "2025-09-01", row[schema.FieldHistDate])
}

func TestExtractor_InMemoryProgram(t *testing.T) {
	doc := &domain.Document{
		Name: "race3.docx",
		Blocks: []domain.Block{
			domain.Paragraph(meetingLine),
			domain.Table([]string{"BOX", "DOG", "TRAINER"}, []string{"1", "FAST LANE", "J SMITH"}),
			domain.Paragraph("FAST LANE"),
			domain.Table([]string{"DATE", "DIST", "TIME"}, []string{"01/09/25", "450", "25.00"}),
		},
	}

	res := NewExtractor().Extract(doc)
	require.Len(t, res.Entries, 1)
	require.Len(t, res.History, 1)
	assert.Equal(t, 1, res.EntryTables)
	assert.Equal(t, 1, res.HistoryTables)
	assert.Zero(t, res.Unattributed)

	summary := Combine(res.Entries, res.History)
	require.Len(t, summary, 1)
	assertFastLane(t, summary[0])
	assert.Equal(t, "race3.docx", summary[0][domain.FieldDataSourceFile])
}

func TestRunner_Run_EndToEnd(t *testing.T) {
	in := t.TempDir()
	path := filepath.Join(in, "race3.docx")
	raceProgram(meetingLine, "FAST LANE").Write(t, path)

	runner, cfg := newRunner(t, RunnerConfig{MaxConcurrentJobs: 1, WriteXLSX: true})
	result, err := runner.Run(context.Background(), []string{path})
	require.NoError(t, err)

	require.Len(t, result.Tables.Summary, 1)
	row := result.Tables.Summary[0]
	assertFastLane(t, row)
	assert.Equal(t, "2025-10-16 08:00:00", row[schema.FieldParseStamp])
	assert.Equal(t, schema.Summary().Len(), len(row))
	require.Len(t, result.Tables.History, 1)
	assert.Equal(t, "64.8", result.Tables.History[0][schema.FieldHistSpeed])

	assert.FileExists(t, filepath.Join(cfg.OutputDir, "racecard_summary.csv"))
	assert.FileExists(t, filepath.Join(cfg.OutputDir, "racecard_summary.xlsx"))
	assert.FileExists(t, filepath.Join(cfg.AuditDir, audit.JSONFile))
	assert.FileExists(t, filepath.Join(cfg.AuditDir, audit.TextFile))
	assert.FileExists(t, filepath.Join(cfg.AuditDir, audit.RejectsFile))

	report := result.Report
	assert.Equal(t, 1, report.FilesProcessed)
	assert.Equal(t, 1, report.DogsParsed)
	assert.Equal(t, 100.0, report.PctWithSpeed)
	assert.Zero(t, report.OrphanHistoryRows)
	require.Len(t, report.Files, 1)
	assert.Equal(t, 2, report.Files[0].Paragraphs)
	assert.Equal(t, 2, report.Files[0].Tables)
}

func TestRunner_Run_IsolatesFailures(t *testing.T) {
	in := t.TempDir()
	good := filepath.Join(in, "a_race3.docx")
	bad := filepath.Join(in, "b_broken.docx")
	raceProgram(meetingLine, "FAST LANE").Write(t, good)
	require.NoError(t, os.WriteFile(bad, []byte("not a zip archive"), 0o644))

	runner, _ := newRunner(t, RunnerConfig{MaxConcurrentJobs: 2})
	result, err := runner.Run(context.Background(), []string{good, bad})
	require.NoError(t, err)

	assert.Len(t, result.Tables.Summary, 1)
	require.Len(t, result.Errors, 1)
	assert.Equal(t, 1, result.Report.FilesFailed)
	assert.Contains(t, result.Report.ParseErrors, "b_broken.docx")
}

func TestRunner_Run_SkipsDuplicateDocuments(t *testing.T) {
	in := t.TempDir()
	a := filepath.Join(in, "a.docx")
	b := filepath.Join(in, "b.docx")
	raceProgram(meetingLine, "FAST LANE").Write(t, a)
	data, err := os.ReadFile(a)
	require.NoError(t, err)
	require.NoError(t, os.WriteFile(b, data, 0o644))

	runner, _ := newRunner(t, RunnerConfig{SkipDuplicateDocuments: true})
	result, err := runner.Run(context.Background(), []string{a, b})
	require.NoError(t, err)

	assert.Len(t, result.Tables.Summary, 1)
	assert.Len(t, result.Tables.History, 1)
	assert.Equal(t, 1, result.Report.FilesDuplicate)
	assert.Equal(t, "a.docx", result.Report.Files[1].DuplicateOf)
}

func TestRunner_Run_DuplicateRowsWithoutSkip(t *testing.T) {
	in := t.TempDir()
	a := filepath.Join(in, "a.docx")
	b := filepath.Join(in, "b.docx")
	raceProgram(meetingLine, "FAST LANE").Write(t, a)
	raceProgram(meetingLine, "FAST LANE").Write(t, b)

	runner, _ := newRunner(t, RunnerConfig{SkipDuplicateDocuments: false})
	result, err := runner.Run(context.Background(), []string{a, b})
	require.NoError(t, err)

	assert.Len(t, result.Tables.Summary, 1)
	assert.Equal(t, 1, result.Tables.Duplicates)
	assert.Equal(t, 1, result.Report.DuplicateRows)
}

func TestRunner_Run_ConcurrencyKeepsFileOrder(t *testing.T) {
	defer goleak.VerifyNone(t)

	in := t.TempDir()
	var paths []string
	for i := 1; i <= 6; i++ {
		path := filepath.Join(in, fmt.Sprintf("race%d.docx", i))
		meeting := fmt.Sprintf("Race No. %d 15 Oct 25 WENTWORTH PARK Distance 450m", i)
		raceProgram(meeting, fmt.Sprintf("DOG NUMBER %d", i)).Write(t, path)
		paths = append(paths, path)
	}

	sequential, _ := newRunner(t, RunnerConfig{MaxConcurrentJobs: 1})
	want, err := sequential.Run(context.Background(), paths)
	require.NoError(t, err)

	var calls int
	parallel, _ := newRunner(t, RunnerConfig{MaxConcurrentJobs: 4}, WithProgress(func(string) { calls++ }))
	got, err := parallel.Run(context.Background(), paths)
	require.NoError(t, err)

	assert.Equal(t, want.Tables.SummaryRows(), got.Tables.SummaryRows())
	assert.Equal(t, want.Tables.HistoryRows(), got.Tables.HistoryRows())
	assert.Equal(t, 6, calls)

	for i, row := range got.Tables.Summary {
		assert.Equal(t, fmt.Sprint(i+1), row[domain.FieldRaceNo])
	}
}

func TestRunner_Run_Sentinels(t *testing.T) {
	t.Run("no documents", func(t *testing.T) {
		runner, cfg := newRunner(t, RunnerConfig{})
		result, err := runner.Run(context.Background(), nil)
		assert.ErrorIs(t, err, domain.ErrNoDocuments)
		require.NotNil(t, result.Tables)
		assert.FileExists(t, filepath.Join(cfg.OutputDir, "racecard_summary.csv"))
	})

	t.Run("no records", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "notes.docx")
		docxtest.New().Paragraph("Nothing to see").Write(t, path)

		runner, _ := newRunner(t, RunnerConfig{})
		_, err := runner.Run(context.Background(), []string{path})
		assert.ErrorIs(t, err, domain.ErrNoRecords)
	})
}

type panicLoader struct{}

func (panicLoader) Load(context.Context, string) (*domain.Document, error) {
	panic("corrupt table grid")
}

func (panicLoader) Supports(string) bool { return true }

func TestRunner_Run_RecoversPanics(t *testing.T) {
	defer goleak.VerifyNone(t)

	out := t.TempDir()
	runner := NewRunner(observability.Nop(), panicLoader{}, RunnerConfig{
		OutputDir:    out,
		OutputPrefix: "summary",
		AuditDir:     filepath.Join(out, "audit"),
	})

	result, err := runner.Run(context.Background(), []string{"race.docx"})
	assert.ErrorIs(t, err, domain.ErrNoRecords)
	require.Len(t, result.Errors, 1)
	assert.Contains(t, result.Errors[0], "panic during extraction")
	assert.Equal(t, 1, result.Report.FilesFailed)
}

func TestRunner_Run_Cancelled(t *testing.T) {
	defer goleak.VerifyNone(t)

	path := filepath.Join(t.TempDir(), "race3.docx")
	raceProgram(meetingLine, "FAST LANE").Write(t, path)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	runner, _ := newRunner(t, RunnerConfig{})
	_, err := runner.Run(ctx, []string{path})
	assert.True(t, errors.Is(err, context.Canceled))
}
