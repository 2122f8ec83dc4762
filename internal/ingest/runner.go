package ingest

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"runtime/debug"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/spherical-ai/racecard/internal/audit"
	"github.com/spherical-ai/racecard/internal/domain"
	"github.com/spherical-ai/racecard/internal/export"
	"github.com/spherical-ai/racecard/internal/observability"
	"github.com/spherical-ai/racecard/internal/schema"
)

// RunnerConfig holds batch settings.
type RunnerConfig struct {
	MaxConcurrentJobs      int
	SkipDuplicateDocuments bool
	ExtraTracks            []string
	OutputDir              string
	OutputPrefix           string
	AuditDir               string
	WriteXLSX              bool
}

// Result is the outcome of a run.
type Result struct {
	RunID       string
	Tables      *export.Tables
	Report      *audit.Report
	Outputs     export.Paths
	AuditFiles  audit.Paths
	Errors      []string
	StartedAt   time.Time
	CompletedAt time.Time
	Duration    time.Duration
}

// Runner loads documents, extracts them concurrently and writes the exports.
type Runner struct {
	logger    *observability.Logger
	loader    domain.Loader
	extractor *Extractor
	config    RunnerConfig
	now       func() time.Time
	progress  func(file string)
}

// RunnerOption configures a Runner.
type RunnerOption func(*Runner)

// WithClock sets the clock for timestamps.
func WithClock(now func() time.Time) RunnerOption {
	return func(r *Runner) { r.now = now }
}

// WithProgress registers a callback invoked once per finished document. Calls are
// serialized but come from worker goroutines.
func WithProgress(fn func(file string)) RunnerOption {
	return func(r *Runner) { r.progress = fn }
}

// NewRunner creates a Runner.
func NewRunner(logger *observability.Logger, loader domain.Loader, cfg RunnerConfig, opts ...RunnerOption) *Runner {
	if cfg.MaxConcurrentJobs < 1 {
		cfg.MaxConcurrentJobs = 1
	}
	r := &Runner{
		logger:    logger.WithOperation("ingest"),
		loader:    loader,
		extractor: NewExtractor(cfg.ExtraTracks...),
		config:    cfg,
		now:       time.Now,
		progress:  func(string) {},
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// outcome is the per-document slot filled by a worker.
type outcome struct {
	result *DocumentResult
	err    error
}

// Run processes paths in order and writes the summary, workbook and audit files.
// A document that fails is recorded and skipped. Run still writes (empty) outputs
// when nothing was extracted, and then returns ErrNoDocuments or ErrNoRecords
// alongside the result.
func (r *Runner) Run(ctx context.Context, paths []string) (*Result, error) {
	started := r.now()
	report := audit.NewReport(started)
	log := r.logger.WithRun(report.RunID)

	result := &Result{RunID: report.RunID, Report: report, StartedAt: started}
	report.FilesFound = len(paths)

	log.Info().
		Int("files", len(paths)).
		Int("workers", r.config.MaxConcurrentJobs).
		Msg("Starting extraction run")

	// Step 1: load and extract every document
	outcomes, err := r.processAll(ctx, paths)
	if err != nil {
		return result, err
	}

	// Step 2: accumulate in file order
	var summary, history []domain.Record
	var rejects []string
	seen := make(map[string]string)

	for i, o := range outcomes {
		name := displayName(paths[i])
		if o.err != nil {
			log.Error().Err(o.err).Str("document", name).Msg("Document failed")
			result.Errors = append(result.Errors, o.err.Error())
			report.AddFile(audit.FileStats{File: name, Error: o.err.Error()})
			continue
		}

		res := o.result
		doc := res.Document
		stats := fileStats(res)

		if r.config.SkipDuplicateDocuments && doc.Checksum != "" {
			if first, dup := seen[doc.Checksum]; dup {
				log.Warn().Str("document", doc.Name).Str("duplicate_of", first).Msg("Skipping duplicate document")
				stats.DuplicateOf = first
				report.AddFile(stats)
				continue
			}
			seen[doc.Checksum] = doc.Name
		}

		summary = append(summary, res.Entries...)
		history = append(history, res.History...)
		for _, rej := range res.Rejected {
			rejects = append(rejects, audit.RejectLine(doc.Name, rej.Kind, rej.Cells))
		}
		report.AddFile(stats)
	}

	// Step 3: speeds and snapshots
	summary = Combine(summary, history)

	// Step 4: lock schemas, dedupe, sort
	finalizer := export.NewFinalizer(schema.Summary(), schema.History(), export.WithClock(r.now))
	tables := finalizer.Finalize(summary, history)
	result.Tables = tables
	report.DuplicateRows = tables.Duplicates
	report.DroppedFields = tables.DroppedFields
	report.Measure(tables.Summary, tables.History)

	// Step 5: export
	exporter := export.NewExporter(r.config.OutputDir, r.config.OutputPrefix, r.config.WriteXLSX)
	outputs, err := exporter.Export(tables)
	if err != nil {
		return result, err
	}
	result.Outputs = outputs
	report.CSVFile = outputs.CSV
	report.XLSXFile = outputs.XLSX

	// Step 6: audit
	auditFiles, err := audit.Write(r.config.AuditDir, report, rejects)
	if err != nil {
		return result, err
	}
	result.AuditFiles = auditFiles

	result.CompletedAt = r.now()
	result.Duration = result.CompletedAt.Sub(result.StartedAt)

	log.Info().
		Int("summary_rows", len(tables.Summary)).
		Int("history_rows", len(tables.History)).
		Int("duplicates", tables.Duplicates).
		Int("failed", report.FilesFailed).
		Float64("pct_with_speed", report.PctWithSpeed).
		Dur("duration", result.Duration).
		Msg("Extraction run completed")

	switch {
	case len(paths) == 0:
		return result, domain.ErrNoDocuments
	case len(tables.Summary) == 0 && len(tables.History) == 0:
		return result, domain.ErrNoRecords
	}
	return result, nil
}

// processAll runs one task per path on a bounded pool. Each slot holds that path's
// outcome, so the caller sees results in input order whatever the completion order.
// Only cancellation of ctx fails the whole batch.
func (r *Runner) processAll(ctx context.Context, paths []string) ([]outcome, error) {
	outcomes := make([]outcome, len(paths))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(r.config.MaxConcurrentJobs)

	var mu sync.Mutex
	for i, path := range paths {
		if gctx.Err() != nil {
			break
		}
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			res, err := r.processDocument(gctx, path)
			outcomes[i] = outcome{result: res, err: err}

			mu.Lock()
			r.progress(displayName(path))
			mu.Unlock()

			if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
				return err
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return outcomes, nil
}

// processDocument loads and extracts one document. Panics are turned into a
// parse failure for that document.
func (r *Runner) processDocument(ctx context.Context, path string) (res *DocumentResult, err error) {
	name := displayName(path)
	log := r.logger.WithDocument(name)

	defer func() {
		if p := recover(); p != nil {
			log.Error().Str("stack", string(debug.Stack())).Msgf("panic: %v", p)
			res = nil
			err = domain.DocumentParseFailure(name, "panic during extraction", fmt.Errorf("%v", p))
		}
	}()

	doc, err := r.loader.Load(ctx, path)
	if err != nil {
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		return nil, domain.DocumentParseFailure(name, "load document", err)
	}

	res = r.extractor.Extract(doc)

	log.Debug().
		Str("track", res.Meeting.Track).
		Str("race_date", res.Meeting.RaceDate).
		Str("race_no", res.Meeting.RaceNo).
		Int("entries", len(res.Entries)).
		Int("history", len(res.History)).
		Int("rejected", len(res.Rejected)).
		Msg("Document extracted")
	if res.Meeting.Track == "" || res.Meeting.RaceDate == "" || res.Meeting.RaceNo == "" {
		log.Warn().Msg("Meeting details incomplete")
	}
	return res, nil
}

func fileStats(res *DocumentResult) audit.FileStats {
	doc := res.Document
	paragraphs, tables := doc.CountBlocks()
	return audit.FileStats{
		File:          doc.Name,
		Checksum:      doc.Checksum,
		Paragraphs:    paragraphs,
		Tables:        tables,
		Headers:       len(doc.Headers),
		Footers:       len(doc.Footers),
		EntryTables:   res.EntryTables,
		HistoryTables: res.HistoryTables,
		SummaryRows:   len(res.Entries),
		HistoryRows:   len(res.History),
		RejectedRows:  len(res.Rejected),
		Unattributed:  res.Unattributed,
		Unmapped:      res.Unmapped,
	}
}

func displayName(path string) string {
	return filepath.Base(path)
}
