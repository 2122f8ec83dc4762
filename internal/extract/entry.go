package extract

import (
	"strings"

	"github.com/spherical-ai/racecard/internal/domain"
)

// EntryResult holds the dog-entry rows of one document.
type EntryResult struct {
	Records []domain.Record
	// Unmapped lists unrecognized headers of qualifying entry tables.
	Unmapped []string
	// Rejected holds the raw cells of rows dropped for lacking a dog name.
	Rejected [][]string
	// Tables counts qualifying entry tables.
	Tables int
}

// EntryExtractor reads dog-entry grids.
type EntryExtractor struct {
	classifier *Classifier
}

// NewEntryExtractor creates an EntryExtractor using classifier for header rows.
func NewEntryExtractor(classifier *Classifier) *EntryExtractor {
	return &EntryExtractor{classifier: classifier}
}

// IsEntryHeader reports whether a classified header row describes a dog-entry grid.
func IsEntryHeader(m HeaderMap) bool {
	return m.Contains(domain.FieldBox) && m.Contains(domain.FieldDogName)
}

// Extract turns every qualifying table into one record per data row, seeded with
// the meeting fields. Rows without a dog name are dropped.
func (e *EntryExtractor) Extract(blocks []domain.Block, meeting domain.MeetingInfo) EntryResult {
	var res EntryResult
	seed := meeting.Record()

	for _, b := range blocks {
		if !b.IsTable() || len(b.Rows) == 0 {
			continue
		}
		hm := e.classifier.ClassifyRow(b.Rows[0], ContextSummary)
		if !IsEntryHeader(hm) {
			continue
		}
		res.Tables++
		res.Unmapped = append(res.Unmapped, hm.Unmapped...)

		for _, row := range b.Rows[1:] {
			if blankRow(row) || sameRow(row, b.Rows[0]) {
				continue
			}
			rec := mapRow(seed, row, hm)
			if !rec.Has(domain.FieldDogName) {
				res.Rejected = append(res.Rejected, row)
				continue
			}
			res.Records = append(res.Records, rec)
		}
	}
	return res
}

// mapRow copies seed and writes each cell into its classified field. Cells past the
// header are ignored. A blank cell never clears a value, and a column that matched no
// rule never overwrites a field that is already set.
func mapRow(seed domain.Record, row []string, hm HeaderMap) domain.Record {
	rec := seed.Clone()
	for i, cell := range row {
		if i >= len(hm.Fields) {
			break
		}
		field := hm.Fields[i]
		if field == "" {
			continue
		}
		v := strings.TrimSpace(cell)
		if v == "" {
			if _, ok := rec[field]; !ok {
				rec[field] = ""
			}
			continue
		}
		if !hm.Mapped[i] && rec.Has(field) {
			continue
		}
		rec[field] = v
	}
	return rec
}

func blankRow(row []string) bool {
	for _, c := range row {
		if strings.TrimSpace(c) != "" {
			return false
		}
	}
	return true
}

// sameRow catches header rows repeated inside a table body.
func sameRow(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if !strings.EqualFold(strings.TrimSpace(a[i]), strings.TrimSpace(b[i])) {
			return false
		}
	}
	return true
}
