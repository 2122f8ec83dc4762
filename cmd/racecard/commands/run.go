package commands

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/spherical-ai/racecard/cmd/racecard/ui"
	"github.com/spherical-ai/racecard/internal/document"
	"github.com/spherical-ai/racecard/internal/domain"
	"github.com/spherical-ai/racecard/internal/ingest"
)

type runOptions struct {
	input     string
	output    string
	prefix    string
	workers   int
	recursive bool
	noXLSX    bool
}

func newRunCmd() *cobra.Command {
	var opts runOptions

	cmd := &cobra.Command{
		Use:   "run [input]",
		Short: "Process every race program in the input directory",
		Long: `Process every supported document under the input directory (or a single
file), then write the summary CSV, the workbook and the audit report.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) == 1 {
				opts.input = args[0]
			}
			return runBatch(cmd.Context(), opts)
		},
	}

	cmd.Flags().StringVarP(&opts.input, "input", "i", "", "input directory or file (overrides config)")
	cmd.Flags().StringVarP(&opts.output, "output", "o", "", "output directory (overrides config)")
	cmd.Flags().StringVar(&opts.prefix, "prefix", "", "output file name prefix (overrides config)")
	cmd.Flags().IntVarP(&opts.workers, "workers", "w", 0, "documents processed in parallel (overrides config)")
	cmd.Flags().BoolVarP(&opts.recursive, "recursive", "r", false, "descend into subdirectories")
	cmd.Flags().BoolVar(&opts.noXLSX, "no-xlsx", false, "skip the workbook export")

	return cmd
}

// runSummary is the --json output of the run command.
type runSummary struct {
	RunID          string   `json:"run_id"`
	FilesFound     int      `json:"files_found"`
	FilesProcessed int      `json:"files_processed"`
	FilesFailed    int      `json:"files_failed"`
	FilesDuplicate int      `json:"files_duplicate"`
	SummaryRows    int      `json:"summary_rows"`
	HistoryRows    int      `json:"history_rows"`
	PctWithSpeed   float64  `json:"pct_with_speed"`
	CSV            string   `json:"csv"`
	XLSX           string   `json:"xlsx,omitempty"`
	Audit          string   `json:"audit"`
	Warnings       []string `json:"warnings,omitempty"`
	Errors         []string `json:"errors,omitempty"`
}

func runBatch(ctx context.Context, opts runOptions) error {
	if ctx == nil {
		ctx = context.Background()
	}
	ctx, stop := signal.NotifyContext(ctx, os.Interrupt)
	defer stop()

	if opts.input != "" {
		cfg.Input.Dir = opts.input
	}
	if opts.output != "" {
		cfg.Output.Dir = opts.output
	}
	if opts.prefix != "" {
		cfg.Output.Prefix = opts.prefix
	}
	if opts.workers > 0 {
		cfg.Ingestion.MaxConcurrentJobs = opts.workers
	}
	if opts.recursive {
		cfg.Input.Recursive = true
	}
	if opts.noXLSX {
		cfg.Output.XLSX = false
	}
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid options: %w", err)
	}

	ui.Section("Race Program Extraction")

	registry := document.NewRegistry(document.WithMaxFileSize(cfg.Input.MaxFileSize))
	found, err := registry.Discover(cfg.Input.Dir, cfg.Input.Recursive)
	if err != nil {
		return err
	}
	var files []string
	for _, f := range found {
		if cfg.AcceptsExtension(filepath.Ext(f)) {
			files = append(files, f)
		}
	}
	ui.Info("Found %d document(s) in %s", len(files), cfg.Input.Dir)

	bar := ui.NewDocProgress(len(files), "Extracting")
	spin := ui.NewSpinner("Aggregating speeds and exporting...")
	var done int
	progress := func(file string) {
		bar.Done(file)
		if done++; done == len(files) {
			bar.Close()
			spin.Start()
		}
	}

	runner := ingest.NewRunner(logger, registry, ingest.RunnerConfig{
		MaxConcurrentJobs:      cfg.Ingestion.MaxConcurrentJobs,
		SkipDuplicateDocuments: cfg.Ingestion.SkipDuplicateDocument,
		ExtraTracks:            cfg.Extraction.ExtraTracks,
		OutputDir:              cfg.Output.Dir,
		OutputPrefix:           cfg.Output.Prefix,
		AuditDir:               cfg.AuditPath(),
		WriteXLSX:              cfg.Output.XLSX,
	}, ingest.WithProgress(progress))

	result, err := runner.Run(ctx, files)
	spin.Stop()

	var warnings []string
	switch {
	case errors.Is(err, domain.ErrNoDocuments):
		warnings = append(warnings, fmt.Sprintf("no documents found in %s", cfg.Input.Dir))
	case errors.Is(err, domain.ErrNoRecords):
		warnings = append(warnings, "no records extracted")
	case err != nil:
		return err
	}

	if outputJSON {
		report := result.Report
		return ui.JSON(runSummary{
			RunID:          result.RunID,
			FilesFound:     report.FilesFound,
			FilesProcessed: report.FilesProcessed,
			FilesFailed:    report.FilesFailed,
			FilesDuplicate: report.FilesDuplicate,
			SummaryRows:    len(result.Tables.Summary),
			HistoryRows:    len(result.Tables.History),
			PctWithSpeed:   report.PctWithSpeed,
			CSV:            result.Outputs.CSV,
			XLSX:           result.Outputs.XLSX,
			Audit:          result.AuditFiles.JSON,
			Warnings:       warnings,
			Errors:         result.Errors,
		})
	}

	for _, w := range warnings {
		ui.Warning("%s", w)
	}
	for _, e := range result.Errors {
		ui.Error("%s", e)
	}

	report := result.Report
	lines := []string{
		ui.KeyValue("Run ID", result.RunID),
		ui.KeyValue("Files processed", fmt.Sprintf("%d of %d", report.FilesProcessed, report.FilesFound)),
		ui.KeyValue("Files failed", report.FilesFailed),
		ui.KeyValue("Duplicate files", report.FilesDuplicate),
		ui.KeyValue("Summary rows", len(result.Tables.Summary)),
		ui.KeyValue("History rows", len(result.Tables.History)),
		ui.KeyValue("Dogs with speed", fmt.Sprintf("%.2f%%", report.PctWithSpeed)),
		ui.KeyValue("Duration", ui.FormatDuration(result.Duration)),
		"",
		ui.KeyValue("Summary CSV", result.Outputs.CSV),
	}
	if result.Outputs.XLSX != "" {
		lines = append(lines, ui.KeyValue("Workbook", result.Outputs.XLSX))
	}
	lines = append(lines, ui.KeyValue("Audit", result.AuditFiles.JSON))

	if len(warnings) > 0 || report.FilesFailed > 0 {
		ui.WarningBox("Run completed with warnings", lines)
	} else {
		ui.SuccessBox("Run completed", lines)
	}
	return nil
}
