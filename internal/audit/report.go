// Package audit measures an extraction run and writes the audit artifacts.
package audit

import (
	"math"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/spherical-ai/racecard/internal/domain"
	"github.com/spherical-ai/racecard/internal/schema"
)

// TimestampLayout formats report timestamps.
const TimestampLayout = "2006-01-02 15:04:05"

// FileStats describes one source document.
type FileStats struct {
	File          string   `json:"file"`
	Checksum      string   `json:"checksum,omitempty"`
	Paragraphs    int      `json:"paragraphs"`
	Tables        int      `json:"tables"`
	Headers       int      `json:"headers"`
	Footers       int      `json:"footers"`
	EntryTables   int      `json:"entry_tables"`
	HistoryTables int      `json:"history_tables"`
	SummaryRows   int      `json:"summary_rows"`
	HistoryRows   int      `json:"history_rows"`
	RejectedRows  int      `json:"rejected_rows"`
	Unattributed  int      `json:"unattributed_history_rows"`
	Unmapped      []string `json:"unmapped_headers,omitempty"`
	Error         string   `json:"error,omitempty"`
	DuplicateOf   string   `json:"duplicate_of,omitempty"`
}

// Report is the audit of one run. It only observes records, never changes them.
type Report struct {
	RunID     string `json:"run_id"`
	Timestamp string `json:"timestamp"`

	FilesFound     int `json:"files_found"`
	FilesProcessed int `json:"files_processed"`
	FilesFailed    int `json:"files_failed"`
	FilesDuplicate int `json:"files_duplicate"`

	DogsParsed    int `json:"dogs_parsed"`
	UniqueDogs    int `json:"unique_dogs"`
	HistoryRows   int `json:"history_rows"`
	DuplicateRows int `json:"duplicate_rows"`

	PctWithHistory  float64 `json:"pct_with_history"`
	PctWithSpeed    float64 `json:"pct_with_speed"`
	PctWithSnapshot float64 `json:"pct_with_snapshot"`

	MissingFields     map[string]int      `json:"missing_fields"`
	MalformedDates    int                 `json:"malformed_dates"`
	OrphanHistoryRows int                 `json:"orphan_history_rows"`
	UnmappedHeaders   map[string][]string `json:"unmapped_headers"`
	ParseErrors       map[string]string   `json:"parse_errors"`
	DroppedFields     []string            `json:"dropped_fields,omitempty"`

	CSVFile     string `json:"csv_file,omitempty"`
	XLSXFile    string `json:"xlsx_file,omitempty"`
	RejectsFile string `json:"rejects_file,omitempty"`

	Files []FileStats `json:"per_file_stats"`
}

// NewReport starts a report with a fresh run id.
func NewReport(now time.Time) *Report {
	return &Report{
		RunID:           uuid.NewString(),
		Timestamp:       now.Format(TimestampLayout),
		MissingFields:   make(map[string]int),
		UnmappedHeaders: make(map[string][]string),
		ParseErrors:     make(map[string]string),
	}
}

// AddFile records the outcome of one document.
func (r *Report) AddFile(fs FileStats) {
	switch {
	case fs.DuplicateOf != "":
		r.FilesDuplicate++
	case fs.Error != "":
		r.FilesFailed++
		r.ParseErrors[fs.File] = fs.Error
	default:
		r.FilesProcessed++
	}
	if len(fs.Unmapped) > 0 {
		r.UnmappedHeaders[fs.File] = uniqueSorted(fs.Unmapped)
	}
	r.Files = append(r.Files, fs)
}

// Measure computes the coverage figures from the final tables.
func (r *Report) Measure(summary, history []domain.Record) {
	r.DogsParsed = len(summary)
	r.HistoryRows = len(history)

	keys := make(map[schema.Key]bool, len(summary))
	var withHistory, withSpeed, withSnapshot int
	snapshot := schema.SnapshotFields()

	for _, f := range schema.IdentityFields {
		r.MissingFields[f] = 0
	}

	for _, s := range summary {
		keys[schema.IdentityKey(s)] = true

		if c := s.Get(schema.FieldHistCount); c != "" && c != "0" {
			withHistory++
		}
		if s.Has(schema.FieldAvgSpeed) {
			withSpeed++
		}
		for _, f := range snapshot {
			if s.Has(f) {
				withSnapshot++
				break
			}
		}
		for _, f := range schema.IdentityFields {
			if !s.Has(f) {
				r.MissingFields[f]++
			}
		}
		if d := s.Get(domain.FieldRaceDate); d != "" && !schema.IsISODate(d) {
			r.MalformedDates++
		}
	}
	r.UniqueDogs = len(keys)

	for _, h := range history {
		if d := h.Get(schema.FieldHistDate); d != "" && !schema.IsISODate(d) {
			r.MalformedDates++
		}
		if key := schema.IdentityKey(h); !key.HasDog() || !keys[key] {
			r.OrphanHistoryRows++
		}
	}

	r.PctWithHistory = percent(withHistory, len(summary))
	r.PctWithSpeed = percent(withSpeed, len(summary))
	r.PctWithSnapshot = percent(withSnapshot, len(summary))
}

// RejectLine formats one rejected row for the rejects file.
func RejectLine(file, kind string, cells []string) string {
	trimmed := make([]string, len(cells))
	for i, c := range cells {
		trimmed[i] = strings.Join(strings.Fields(c), " ")
	}
	return file + "\t" + kind + "\t" + strings.Join(trimmed, " | ")
}

func percent(n, total int) float64 {
	if total == 0 {
		return 0
	}
	return math.Round(float64(n)/float64(total)*10000) / 100
}

func uniqueSorted(in []string) []string {
	seen := make(map[string]bool, len(in))
	var out []string
	for _, s := range in {
		if !seen[s] {
			seen[s] = true
			out = append(out, s)
		}
	}
	sort.Strings(out)
	return out
}
