package audit

import (
	"bufio"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"github.com/spherical-ai/racecard/internal/domain"
)

// Artifact file names inside the audit directory.
const (
	JSONFile    = "audit_summary.json"
	TextFile    = "audit_summary.txt"
	RejectsFile = "rejects_unparsed.txt"
)

// Paths lists the audit files written.
type Paths struct {
	JSON    string
	Text    string
	Rejects string
}

// Write saves the report as JSON and text plus the rejected lines under dir.
func Write(dir string, r *Report, rejects []string) (Paths, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return Paths{}, domain.IOError("create audit directory", err)
	}

	paths := Paths{
		JSON:    filepath.Join(dir, JSONFile),
		Text:    filepath.Join(dir, TextFile),
		Rejects: filepath.Join(dir, RejectsFile),
	}
	r.RejectsFile = paths.Rejects

	if err := writeLines(paths.Rejects, rejects); err != nil {
		return Paths{}, domain.IOError("write rejects", err)
	}

	data, err := json.MarshalIndent(r, "", "    ")
	if err != nil {
		return Paths{}, domain.IOError("encode audit json", err)
	}
	if err := os.WriteFile(paths.JSON, append(data, '\n'), 0o644); err != nil {
		return Paths{}, domain.IOError("write audit json", err)
	}

	if err := writeLines(paths.Text, TextLines(r)); err != nil {
		return Paths{}, domain.IOError("write audit text", err)
	}
	return paths, nil
}

// TextLines renders the human readable report.
func TextLines(r *Report) []string {
	lines := []string{
		"GREYHOUND RACE PROGRAM AUDIT REPORT",
		"===================================",
		"",
		"Run ID:    " + r.RunID,
		"Timestamp: " + r.Timestamp,
		"",
		fmt.Sprintf("Files found:      %d", r.FilesFound),
		fmt.Sprintf("Files processed:  %d", r.FilesProcessed),
		fmt.Sprintf("Files failed:     %d", r.FilesFailed),
		fmt.Sprintf("Files duplicated: %d", r.FilesDuplicate),
		"",
		fmt.Sprintf("Dogs parsed:    %d", r.DogsParsed),
		fmt.Sprintf("Unique dogs:    %d", r.UniqueDogs),
		fmt.Sprintf("Duplicate rows: %d", r.DuplicateRows),
		fmt.Sprintf("History rows:   %d", r.HistoryRows),
		fmt.Sprintf("Orphan history: %d", r.OrphanHistoryRows),
		"",
		fmt.Sprintf("%% dogs with at least one history row: %.2f%%", r.PctWithHistory),
		fmt.Sprintf("%% dogs with Avg_Speed_km/h:           %.2f%%", r.PctWithSpeed),
		fmt.Sprintf("%% dogs with snapshot fields:          %.2f%%", r.PctWithSnapshot),
		"",
		fmt.Sprintf("Malformed dates: %d", r.MalformedDates),
		"Missing critical identifiers:",
	}
	for _, f := range sortedKeys(r.MissingFields) {
		lines = append(lines, fmt.Sprintf("  %s: %d", f, r.MissingFields[f]))
	}

	if len(r.ParseErrors) > 0 {
		lines = append(lines, "", "Parse errors:")
		for _, f := range sortedKeys(r.ParseErrors) {
			lines = append(lines, fmt.Sprintf("  %s: %s", f, r.ParseErrors[f]))
		}
	}
	if len(r.UnmappedHeaders) > 0 {
		lines = append(lines, "", "Unmapped table headers:")
		for _, f := range sortedKeys(r.UnmappedHeaders) {
			lines = append(lines, fmt.Sprintf("  %s: %v", f, r.UnmappedHeaders[f]))
		}
	}

	lines = append(lines, "", "Per file:")
	for _, fs := range r.Files {
		status := "ok"
		switch {
		case fs.DuplicateOf != "":
			status = "duplicate of " + fs.DuplicateOf
		case fs.Error != "":
			status = "failed"
		}
		lines = append(lines, fmt.Sprintf(
			"  %s [%s] paragraphs=%d tables=%d headers=%d footers=%d summary=%d history=%d rejected=%d",
			fs.File, status, fs.Paragraphs, fs.Tables, fs.Headers, fs.Footers,
			fs.SummaryRows, fs.HistoryRows, fs.RejectedRows))
	}

	lines = append(lines, "", "Unparsed rows written to "+RejectsFile)
	return lines
}

func writeLines(path string, lines []string) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	w := bufio.NewWriter(f)
	for _, l := range lines {
		if _, err := w.WriteString(l + "\n"); err != nil {
			f.Close()
			return err
		}
	}
	if err := w.Flush(); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
