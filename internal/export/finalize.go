// Package export locks records to the output schemas and writes the CSV and
// spreadsheet artifacts.
package export

import (
	"sort"
	"strings"
	"time"

	"github.com/spherical-ai/racecard/internal/domain"
	"github.com/spherical-ai/racecard/internal/schema"
)

// TimestampLayout is the format of the Parse_Timestamp column.
const TimestampLayout = "2006-01-02 15:04:05"

// SortKeys is the summary ordering: meeting first, then entrant.
var SortKeys = []string{
	domain.FieldRaceDate,
	domain.FieldTrack,
	domain.FieldRaceNo,
	domain.FieldDogName,
	domain.FieldBox,
}

// Tables is the finalized output handed to the writers.
type Tables struct {
	SummarySchema *schema.Schema
	HistorySchema *schema.Schema
	Summary       []domain.Record
	History       []domain.Record
	// Duplicates counts summary rows removed by the identity dedupe.
	Duplicates int
	// DroppedFields lists record keys outside the schemas, sorted.
	DroppedFields []string
	StampedAt     time.Time
}

// SummaryRows renders the summary table in column order.
func (t *Tables) SummaryRows() [][]string {
	return rows(t.SummarySchema, t.Summary)
}

// HistoryRows renders the history table in column order.
func (t *Tables) HistoryRows() [][]string {
	return rows(t.HistorySchema, t.History)
}

func rows(s *schema.Schema, records []domain.Record) [][]string {
	out := make([][]string, len(records))
	for i, r := range records {
		out[i] = s.Row(r)
	}
	return out
}

// Finalizer enforces the locked schemas.
type Finalizer struct {
	summary *schema.Schema
	history *schema.Schema
	now     func() time.Time
}

// Option configures a Finalizer.
type Option func(*Finalizer)

// WithClock sets the clock used for Parse_Timestamp.
func WithClock(now func() time.Time) Option {
	return func(f *Finalizer) { f.now = now }
}

// NewFinalizer creates a Finalizer for the given summary and history schemas.
func NewFinalizer(summary, history *schema.Schema, opts ...Option) *Finalizer {
	f := &Finalizer{summary: summary, history: history, now: time.Now}
	for _, opt := range opts {
		opt(f)
	}
	return f
}

// Finalize projects every record onto its schema, drops summary rows whose identity was
// already seen, sorts the summary rows and stamps Parse_Timestamp. History rows keep
// their input order.
func (f *Finalizer) Finalize(summary, history []domain.Record) *Tables {
	t := &Tables{
		SummarySchema: f.summary,
		HistorySchema: f.history,
		StampedAt:     f.now(),
	}
	dropped := make(map[string]bool)

	seen := make(map[schema.Key]bool, len(summary))
	for _, r := range summary {
		for _, k := range f.summary.Extra(r) {
			dropped[k] = true
		}
		key := schema.IdentityKey(r)
		if seen[key] {
			t.Duplicates++
			continue
		}
		seen[key] = true
		t.Summary = append(t.Summary, f.summary.Project(r))
	}

	sort.SliceStable(t.Summary, func(i, j int) bool {
		return compareRecords(t.Summary[i], t.Summary[j]) < 0
	})

	if f.summary.Has(schema.FieldParseStamp) {
		stamp := t.StampedAt.Format(TimestampLayout)
		for _, r := range t.Summary {
			r[schema.FieldParseStamp] = stamp
		}
	}

	for _, r := range history {
		for _, k := range f.history.Extra(r) {
			dropped[k] = true
		}
		t.History = append(t.History, f.history.Project(r))
	}

	for k := range dropped {
		t.DroppedFields = append(t.DroppedFields, k)
	}
	sort.Strings(t.DroppedFields)
	return t
}

func compareRecords(a, b domain.Record) int {
	for _, k := range SortKeys {
		if c := CompareValues(a[k], b[k]); c != 0 {
			return c
		}
	}
	return 0
}

// CompareValues orders two cells: numbers by value before any text, text
// lexically, blanks last.
func CompareValues(a, b string) int {
	a, b = strings.TrimSpace(a), strings.TrimSpace(b)
	switch {
	case a == b:
		return 0
	case a == "":
		return 1
	case b == "":
		return -1
	}

	av, aNum := schema.ParseNumber(a)
	bv, bNum := schema.ParseNumber(b)
	switch {
	case aNum && bNum:
		switch {
		case av < bv:
			return -1
		case av > bv:
			return 1
		}
		return 0
	case aNum:
		return -1
	case bNum:
		return 1
	}
	return strings.Compare(a, b)
}
