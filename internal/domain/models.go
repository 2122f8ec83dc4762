package domain

import (
	"sort"
	"strings"
)

// BlockKind distinguishes paragraph blocks from table blocks.
type BlockKind int

const (
	BlockParagraph BlockKind = iota
	BlockTable
)

func (k BlockKind) String() string {
	if k == BlockTable {
		return "table"
	}
	return "paragraph"
}

// Block is one unit of document content, in source order.
type Block struct {
	Kind BlockKind
	Text string     // paragraph text
	Rows [][]string // table cells, first row is the header
}

// Paragraph builds a paragraph block.
func Paragraph(text string) Block {
	return Block{Kind: BlockParagraph, Text: text}
}

// Table builds a table block.
func Table(rows ...[]string) Block {
	return Block{Kind: BlockTable, Rows: rows}
}

// IsParagraph reports whether the block carries paragraph text.
func (b Block) IsParagraph() bool { return b.Kind == BlockParagraph }

// IsTable reports whether the block carries a table grid.
func (b Block) IsTable() bool { return b.Kind == BlockTable }

// Document is a loaded race program.
type Document struct {
	Path     string
	Name     string
	Checksum string
	Blocks   []Block
	Headers  []string // page header paragraphs
	Footers  []string // page footer paragraphs
}

// CountBlocks returns the number of paragraph and table blocks.
func (d *Document) CountBlocks() (paragraphs, tables int) {
	for _, b := range d.Blocks {
		if b.IsTable() {
			tables++
		} else {
			paragraphs++
		}
	}
	return paragraphs, tables
}

// Record is a field bag keyed by column name. Absent keys read as blank.
// Stages return new Records instead of mutating the ones they receive.
type Record map[string]string

// Get returns the trimmed value of field, or "" when absent.
func (r Record) Get(field string) string {
	return strings.TrimSpace(r[field])
}

// Has reports whether field is present with a non-blank value.
func (r Record) Has(field string) bool {
	return r.Get(field) != ""
}

// Clone returns a shallow copy.
func (r Record) Clone() Record {
	out := make(Record, len(r))
	for k, v := range r {
		out[k] = v
	}
	return out
}

// With returns a copy with field set to value.
func (r Record) With(field, value string) Record {
	out := r.Clone()
	out[field] = value
	return out
}

// Keys returns the field names in sorted order.
func (r Record) Keys() []string {
	keys := make([]string, 0, len(r))
	for k := range r {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// Meeting-level field names.
const (
	FieldTrack          = "Track"
	FieldRaceDate       = "Race_Date"
	FieldRaceNo         = "Race_No"
	FieldDistance       = "Distance_m"
	FieldRaceName       = "Race_Name"
	FieldRaceGrade      = "Race_Grade"
	FieldRaceTime       = "Race_Time"
	FieldDataSourceFile = "Data_Source_File"
	FieldDogName        = "Dog_Name"
	FieldBox            = "Box"
)

// MeetingInfo holds the meeting-level metadata of one document.
// Every field is optional and blank when unknown.
type MeetingInfo struct {
	Track          string `json:"track"`
	RaceDate       string `json:"race_date"`
	RaceNo         string `json:"race_no"`
	Distance       string `json:"distance_m"`
	RaceName       string `json:"race_name"`
	RaceGrade      string `json:"race_grade"`
	RaceTime       string `json:"race_time"`
	DataSourceFile string `json:"data_source_file"`
}

// Record returns the meeting as a seed record for entry and history rows.
func (m MeetingInfo) Record() Record {
	return Record{
		FieldTrack:          m.Track,
		FieldRaceDate:       m.RaceDate,
		FieldRaceNo:         m.RaceNo,
		FieldDistance:       m.Distance,
		FieldRaceName:       m.RaceName,
		FieldRaceGrade:      m.RaceGrade,
		FieldRaceTime:       m.RaceTime,
		FieldDataSourceFile: m.DataSourceFile,
	}
}

// IsEmpty reports whether no meeting field was found.
func (m MeetingInfo) IsEmpty() bool {
	return m == MeetingInfo{} || m == MeetingInfo{DataSourceFile: m.DataSourceFile}
}

// KnownTracks lists the greyhound tracks recognized in meeting paragraphs.
var KnownTracks = []string{
	"ALBION PARK", "ANGLE PARK", "BALLARAT", "BATHURST", "BENDIGO", "BROKEN HILL",
	"BULLI", "BUNDABERG", "CANNINGTON", "CAPALABA", "CASINO", "CASTERTON", "COONAMBLE",
	"CRANBOURNE", "DAPTO", "DARWIN", "DEVONPORT", "DUBBO", "GAWLER", "GEELONG",
	"GOSFORD", "GOULBURN", "GRAFTON", "GUNNEDAH", "HEALESVILLE", "HOBART", "HORSHAM",
	"IPSWICH", "KEMPSEY", "LAUNCESTON", "LISMORE", "LITHGOW", "MAITLAND", "MANDURAH",
	"MOUNT GAMBIER", "MUDGEE", "MURRAY BRIDGE", "NORTHAM", "NOWRA", "PORT AUGUSTA",
	"RICHMOND", "RICHMOND STRAIGHT", "ROCKHAMPTON", "SALE", "SANDOWN PARK", "SHEPPARTON",
	"TAREE", "TEMORA", "THE GARDENS", "THE MEADOWS", "TOWNSVILLE", "TRARALGON",
	"WAGGA", "WARRAGUL", "WARRNAMBOOL", "WENTWORTH PARK",
}
