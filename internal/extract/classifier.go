// Package extract pulls meeting, entry and history records out of document blocks.
package extract

import (
	"strings"
	"unicode"

	"github.com/spherical-ai/racecard/internal/domain"
	"github.com/spherical-ai/racecard/internal/normalize"
	"github.com/spherical-ai/racecard/internal/schema"
)

// Context selects the rule table a header is classified against.
type Context int

const (
	// ContextSummary classifies dog-entry grids. Unknown headers keep a title-cased name.
	ContextSummary Context = iota
	// ContextHistory classifies form-history grids. Unknown headers are dropped.
	ContextHistory
)

func (c Context) String() string {
	if c == ContextHistory {
		return "history"
	}
	return "summary"
}

// Rule maps a header to a canonical field. A rule matches when any of Tokens
// (whole words), Phrases (substrings) or Exact (whole header) hits, and every
// entry of Require is also a substring. A rule with only Require matches on those.
type Rule struct {
	Field   string
	Tokens  []string
	Phrases []string
	Exact   []string
	Require []string
}

func (r Rule) matches(h header) bool {
	for _, req := range r.Require {
		if !strings.Contains(h.text, req) {
			return false
		}
	}
	if len(r.Tokens) == 0 && len(r.Phrases) == 0 && len(r.Exact) == 0 {
		return len(r.Require) > 0
	}
	for _, t := range r.Tokens {
		if h.tokens[t] {
			return true
		}
	}
	for _, p := range r.Phrases {
		if strings.Contains(h.text, p) {
			return true
		}
	}
	for _, e := range r.Exact {
		if h.text == e {
			return true
		}
	}
	return false
}

// header is the canonical form rules are evaluated against.
type header struct {
	text   string
	tokens map[string]bool
}

func canonicalHeader(raw string) header {
	s := strings.ToUpper(raw)
	s = strings.NewReplacer("_", " ", ".", " ", ":", " ", "\n", " ", "\t", " ").Replace(s)
	s = strings.Join(strings.Fields(s), " ")

	tokens := make(map[string]bool)
	for _, t := range strings.FieldsFunc(s, func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r) && r != '%'
	}) {
		tokens[t] = true
	}
	return header{text: s, tokens: tokens}
}

// summaryRules is evaluated top to bottom; specific phrases precede the generic words
// they contain.
var summaryRules = []Rule{
	{Field: schema.FieldTrainerWin, Require: []string{"TRAINER"}, Phrases: []string{"WIN"}},
	{Field: schema.FieldTrainerPlace, Require: []string{"TRAINER"}, Phrases: []string{"PLACE", "PLC"}},
	{Field: schema.FieldTrainer, Phrases: []string{"TRAINER"}, Tokens: []string{"TRN"}},
	{Field: schema.FieldOwner, Phrases: []string{"OWNER"}},
	{Field: schema.FieldSire, Tokens: []string{"SIRE"}},
	{Field: schema.FieldDam, Tokens: []string{"DAM"}},
	{Field: schema.FieldTabNo, Tokens: []string{"TAB"}},
	{Field: domain.FieldBox, Tokens: []string{"BOX", "BX"}},
	{Field: domain.FieldDogName, Tokens: []string{"DOG", "DOGS", "GREYHOUND", "RUNNER", "HOUND"}, Exact: []string{"NAME"}},
	{Field: schema.FieldBP, Tokens: []string{"BP"}, Phrases: []string{"BEST POS"}},
	{Field: schema.FieldAgeSex, Phrases: []string{"A/S", "AGE/SEX", "AGE SEX"}},
	{Field: schema.FieldAge, Tokens: []string{"AGE"}},
	{Field: schema.FieldSex, Tokens: []string{"SEX"}},
	{Field: schema.FieldColour, Tokens: []string{"COLOUR", "COLOR", "COL"}},
	{Field: schema.FieldWeight, Tokens: []string{"WEIGHT", "WT", "KG"}},
	{Field: schema.FieldForm, Phrases: []string{"FORM"}},
	{Field: schema.FieldRTCPerKm, Phrases: []string{"RTC/KM", "RTC PER KM"}},
	{Field: schema.FieldRTC, Tokens: []string{"RTC"}},
	{Field: schema.FieldDLR, Tokens: []string{"DLR"}},
	{Field: schema.FieldDLW, Tokens: []string{"DLW"}},
	{Field: schema.FieldCarPM, Tokens: []string{"G1"}, Phrases: []string{"CAR PM"}},
	{Field: schema.Field12mPM, Tokens: []string{"G2", "12M"}},
	{Field: schema.FieldAPI, Tokens: []string{"G3", "API"}},
	{Field: schema.FieldRacedDistWPS, Phrases: []string{"RACED DIST"}},
	{Field: schema.FieldCourseWPS, Tokens: []string{"CRS", "COURSE"}},
	{Field: schema.FieldDistWPS, Require: []string{"DIST"}, Phrases: []string{"W-P-S", "WPS", "W/P/S", "REC", "STAT"}},
	{Field: domain.FieldDistance, Tokens: []string{"DIST", "DISTANCE"}},
	{Field: domain.FieldRaceNo, Phrases: []string{"RACE NO", "RACE #", "RACE NUMBER"}},
	{Field: schema.FieldFirstUpWPS, Tokens: []string{"FU"}, Phrases: []string{"FIRST UP", "1ST UP"}},
	{Field: schema.FieldSecondUpWPS, Tokens: []string{"2U"}, Phrases: []string{"SECOND UP", "2ND UP"}},
	{Field: schema.FieldDOD, Tokens: []string{"DOD"}},
	{Field: schema.FieldCareer, Phrases: []string{"CAREER", "W-P-S", "WPS", "W/P/S", "RECORD"}},
	{Field: schema.FieldCareerWins, Tokens: []string{"WINS", "W"}},
	{Field: schema.FieldCareerPlaces, Tokens: []string{"PLACES", "PLC", "P"}},
	{Field: schema.FieldCareerStarts, Tokens: []string{"STARTS", "STS", "S"}},
	{Field: schema.FieldPrizeMoney, Phrases: []string{"PRIZE", "STAKE", "EARN"}},
	{Field: schema.FieldEntryOdds, Tokens: []string{"ODDS", "PRICE", "SP"}},
	{Field: domain.FieldRaceGrade, Tokens: []string{"GRADE", "GR"}},
}

// historyRules is evaluated top to bottom. Speed headers are absent: run speed is
// always derived from distance and time. A rule with an empty Field drops the column.
var historyRules = []Rule{
	{Phrases: []string{"WIN TIME", "WINNER TIME", "WINNERS TIME", "WINNER'S TIME", "WINNING TIME", "WIN/2ND", "1ST/2ND"}},
	{Field: schema.FieldHistDate, Phrases: []string{"DATE"}, Tokens: []string{"DT"}},
	{Field: schema.FieldHistTrackDirection, Phrases: []string{"DIRECTION"}, Tokens: []string{"DIR"}},
	{Field: schema.FieldHistTrack, Phrases: []string{"TRACK", "VENUE"}, Tokens: []string{"TRK"}},
	{Field: schema.FieldHistDistance, Phrases: []string{"DIST"}},
	{Field: schema.FieldHistOngoingWins, Phrases: []string{"ONGOING"}},
	{Field: schema.FieldHistSecond, Phrases: []string{"2ND", "SECOND PLACE"}, Tokens: []string{"SECOND"}},
	{Field: schema.FieldHistThird, Phrases: []string{"3RD", "THIRD"}},
	{Field: schema.FieldHistMargin, Phrases: []string{"MARGIN"}, Tokens: []string{"MGN", "MAR", "MRGN"}},
	{Field: schema.FieldHistRaceTime, Phrases: []string{"RUN TIME", "RACE TIME"}},
	{Field: schema.FieldHistSecTimeAdj, Require: []string{"ADJ"}, Tokens: sectionalTokens},
	{Field: schema.FieldHistSecTime, Tokens: sectionalTokens},
	{Field: schema.FieldHistWinner, Phrases: []string{"WINNER"}, Tokens: []string{"1ST"}},
	{Field: schema.FieldHistRaceTime, Phrases: []string{"TIME"}, Tokens: []string{"RT"}},
	{Field: schema.FieldHistSOT, Tokens: []string{"SOT"}},
	{Field: schema.FieldHistRST, Tokens: []string{"RST"}},
	{Field: schema.FieldHistBP, Tokens: []string{"BP", "BOX", "BX"}},
	{Field: schema.FieldHistOdds, Tokens: []string{"ODDS", "SP", "PRICE"}},
	{Field: schema.FieldHistAPI, Tokens: []string{"API"}},
	{Field: schema.FieldHistPrizeWon, Phrases: []string{"PRIZE", "STAKE"}},
	{Field: schema.FieldHistSettledTurn, Phrases: []string{"SETTLED"}, Tokens: []string{"TURN", "ST"}},
	{Field: schema.FieldHistFinishPos, Phrases: []string{"POSITION", "FINISH"}, Tokens: []string{"PLC", "POS", "FIN", "PLACE", "PL"}},
}

// sectionalTokens name split times. "SECS" is a unit, not a sectional.
var sectionalTokens = []string{"SEC", "SECT", "SECTIONAL", "SPLIT", "SPLITS"}

// Classifier maps raw table headers to canonical field names.
// It is stateless and safe for concurrent use.
type Classifier struct {
	summary []Rule
	history []Rule
}

// NewClassifier returns a classifier over the built-in rule tables.
func NewClassifier() *Classifier {
	return &Classifier{summary: summaryRules, history: historyRules}
}

// Classify returns the canonical field for raw. mapped is false when no rule matched;
// the field is then the title-cased header in summary context and "" in history context.
func (c *Classifier) Classify(raw string, ctx Context) (field string, mapped bool) {
	h := canonicalHeader(raw)
	if h.text == "" {
		return "", false
	}
	rules := c.summary
	if ctx == ContextHistory {
		rules = c.history
	}
	for _, r := range rules {
		if r.matches(h) {
			if r.Field == "" {
				break
			}
			return r.Field, true
		}
	}
	if ctx == ContextHistory {
		return "", false
	}
	return normalize.TitleCase(strings.Join(strings.Fields(raw), " ")), false
}

// HeaderMap is a classified header row.
type HeaderMap struct {
	// Fields holds the target field per column; "" means the column is not captured.
	Fields []string
	// Mapped reports per column whether a rule matched.
	Mapped []bool
	// Unmapped lists the non-blank raw headers no rule matched, in column order.
	Unmapped []string
}

// Contains reports whether some column was mapped to field by a rule.
func (m HeaderMap) Contains(field string) bool {
	for i, f := range m.Fields {
		if f == field && m.Mapped[i] {
			return true
		}
	}
	return false
}

// ContainsAny reports whether any of fields was mapped.
func (m HeaderMap) ContainsAny(fields ...string) bool {
	for _, f := range fields {
		if m.Contains(f) {
			return true
		}
	}
	return false
}

// ClassifyRow classifies every cell of a header row.
func (c *Classifier) ClassifyRow(row []string, ctx Context) HeaderMap {
	m := HeaderMap{
		Fields: make([]string, len(row)),
		Mapped: make([]bool, len(row)),
	}
	for i, cell := range row {
		field, ok := c.Classify(cell, ctx)
		m.Fields[i] = field
		m.Mapped[i] = ok
		if !ok && strings.TrimSpace(cell) != "" {
			m.Unmapped = append(m.Unmapped, strings.TrimSpace(cell))
		}
	}
	return m
}
