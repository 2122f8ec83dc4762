package extract

import (
	"regexp"
	"sort"
	"strings"

	"github.com/spherical-ai/racecard/internal/domain"
	"github.com/spherical-ai/racecard/internal/normalize"
	"github.com/spherical-ai/racecard/internal/schema"
)

// HistoryResult holds the form-history rows of one document.
type HistoryResult struct {
	Records []domain.Record
	// Unmapped lists unrecognized headers of qualifying history tables.
	Unmapped []string
	// Rejected holds the raw cells of rows with no content.
	Rejected [][]string
	// Tables counts qualifying history tables.
	Tables int
	// Unattributed counts rows emitted while no dog was in context.
	Unattributed int
}

// HistoryExtractor reads form-history grids and attributes them to the dog named in
// the closest preceding paragraph.
type HistoryExtractor struct {
	classifier *Classifier
}

// NewHistoryExtractor creates a HistoryExtractor using classifier for header rows.
func NewHistoryExtractor(classifier *Classifier) *HistoryExtractor {
	return &HistoryExtractor{classifier: classifier}
}

// IsHistoryHeader reports whether a classified header row describes a history grid:
// a run date plus a distance, race time or margin.
func IsHistoryHeader(m HeaderMap) bool {
	return m.Contains(schema.FieldHistDate) &&
		m.ContainsAny(schema.FieldHistDistance, schema.FieldHistRaceTime, schema.FieldHistMargin)
}

// knownDog is a dog from the entry rows with its matcher.
type knownDog struct {
	name string
	box  string
	re   *regexp.Regexp
}

// Extract walks blocks in order. The dog in context starts empty for every call and
// changes only on paragraphs naming a known dog; tables never change it. Entry grids
// are skipped even when they carry date and distance columns.
func (h *HistoryExtractor) Extract(blocks []domain.Block, meeting domain.MeetingInfo, entries []domain.Record) HistoryResult {
	var res HistoryResult
	dogs := knownDogs(entries)
	seed := meeting.Record()

	var current *knownDog
	for _, b := range blocks {
		if b.IsParagraph() {
			if d := matchDog(dogs, b.Text); d != nil {
				current = d
			}
			continue
		}
		if len(b.Rows) == 0 {
			continue
		}
		hm := h.classifier.ClassifyRow(b.Rows[0], ContextHistory)
		if !IsHistoryHeader(hm) || IsEntryHeader(h.classifier.ClassifyRow(b.Rows[0], ContextSummary)) {
			continue
		}
		res.Tables++
		res.Unmapped = append(res.Unmapped, hm.Unmapped...)

		for _, row := range b.Rows[1:] {
			if sameRow(row, b.Rows[0]) {
				continue
			}
			if blankRow(row) {
				res.Rejected = append(res.Rejected, row)
				continue
			}
			rec := historyRecord(seed, current, row, hm)
			if current == nil {
				res.Unattributed++
			}
			res.Records = append(res.Records, rec)
		}
	}
	return res
}

func historyRecord(seed domain.Record, dog *knownDog, row []string, hm HeaderMap) domain.Record {
	rec := domain.Record{
		domain.FieldTrack:          seed[domain.FieldTrack],
		domain.FieldRaceDate:       seed[domain.FieldRaceDate],
		domain.FieldRaceNo:         seed[domain.FieldRaceNo],
		domain.FieldDogName:        "",
		domain.FieldBox:            "",
		domain.FieldDataSourceFile: seed[domain.FieldDataSourceFile],
	}
	if dog != nil {
		rec[domain.FieldDogName] = normalize.Name(dog.name)
		rec[domain.FieldBox] = schema.CoerceInteger(dog.box)
	}

	for i, cell := range row {
		if i >= len(hm.Fields) {
			break
		}
		field := hm.Fields[i]
		v := strings.TrimSpace(cell)
		if field == "" || v == "" {
			continue
		}
		rec[field] = v
	}

	if d := rec.Get(schema.FieldHistDate); d != "" {
		rec[schema.FieldHistDate] = schema.NormalizeDate(d)
	}
	rec[schema.FieldHistSpeed] = ""
	if v, ok := schema.Speed(rec.Get(schema.FieldHistDistance), rec.Get(schema.FieldHistRaceTime)); ok {
		rec[schema.FieldHistSpeed] = schema.FormatDecimal(v)
	}
	return rec
}

// knownDogs collects the distinct dog names of the entries, longest first, keeping
// the first box seen for each name.
func knownDogs(entries []domain.Record) []*knownDog {
	byName := make(map[string]*knownDog)
	var dogs []*knownDog
	for _, e := range entries {
		name := strings.Join(strings.Fields(e.Get(domain.FieldDogName)), " ")
		if name == "" {
			continue
		}
		key := schema.FoldName(name)
		if _, ok := byName[key]; ok {
			continue
		}
		d := &knownDog{name: name, box: e.Get(domain.FieldBox), re: wordPattern(name)}
		byName[key] = d
		dogs = append(dogs, d)
	}
	sort.SliceStable(dogs, func(i, j int) bool {
		return len(dogs[i].name) > len(dogs[j].name)
	})
	return dogs
}

func matchDog(dogs []*knownDog, text string) *knownDog {
	for _, d := range dogs {
		if d.re.MatchString(text) {
			return d
		}
	}
	return nil
}
