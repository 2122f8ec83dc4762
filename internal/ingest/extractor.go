// Package ingest runs the extraction pipeline over a batch of race programs.
package ingest

import (
	"github.com/spherical-ai/racecard/internal/aggregate"
	"github.com/spherical-ai/racecard/internal/domain"
	"github.com/spherical-ai/racecard/internal/extract"
	"github.com/spherical-ai/racecard/internal/normalize"
	"github.com/spherical-ai/racecard/internal/schema"
)

// Reject kinds written to the rejects file.
const (
	RejectEntry   = "entry"
	RejectHistory = "history"
)

// Rejected is a raw table row that produced no record.
type Rejected struct {
	Kind  string
	Cells []string
}

// DocumentResult is what one document contributed to the run.
type DocumentResult struct {
	Document      *domain.Document
	Meeting       domain.MeetingInfo
	Entries       []domain.Record
	History       []domain.Record
	Unmapped      []string
	Rejected      []Rejected
	EntryTables   int
	HistoryTables int
	Unattributed  int
}

// Extractor runs the per-document stages: meeting, entries, history and entry
// normalization. It holds no per-document state and is safe for concurrent use.
type Extractor struct {
	meeting    *extract.MeetingExtractor
	entries    *extract.EntryExtractor
	history    *extract.HistoryExtractor
	normalizer *normalize.Normalizer
}

// NewExtractor creates an Extractor. extraTracks extend the known track names.
func NewExtractor(extraTracks ...string) *Extractor {
	classifier := extract.NewClassifier()
	return &Extractor{
		meeting:    extract.NewMeetingExtractor(extraTracks...),
		entries:    extract.NewEntryExtractor(classifier),
		history:    extract.NewHistoryExtractor(classifier),
		normalizer: normalize.New(schema.Entry()),
	}
}

// Extract processes one loaded document.
func (e *Extractor) Extract(doc *domain.Document) *DocumentResult {
	res := &DocumentResult{Document: doc}
	res.Meeting = e.meeting.ExtractDocument(doc)

	entries := e.entries.Extract(doc.Blocks, res.Meeting)
	res.Entries = e.normalizer.NormalizeAll(entries.Records)
	res.EntryTables = entries.Tables
	res.Unmapped = append(res.Unmapped, entries.Unmapped...)
	for _, row := range entries.Rejected {
		res.Rejected = append(res.Rejected, Rejected{Kind: RejectEntry, Cells: row})
	}

	history := e.history.Extract(doc.Blocks, res.Meeting, res.Entries)
	res.History = history.Records
	res.HistoryTables = history.Tables
	res.Unattributed = history.Unattributed
	res.Unmapped = append(res.Unmapped, history.Unmapped...)
	for _, row := range history.Rejected {
		res.Rejected = append(res.Rejected, Rejected{Kind: RejectHistory, Cells: row})
	}
	return res
}

// Combine merges the history of a batch into its summary rows: speed aggregates
// first, then the latest-run snapshot.
func Combine(summary, history []domain.Record) []domain.Record {
	return aggregate.Snapshots(aggregate.Speeds(summary, history), history)
}
