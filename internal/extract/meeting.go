package extract

import (
	"regexp"
	"sort"
	"strings"

	"github.com/spherical-ai/racecard/internal/domain"
	"github.com/spherical-ai/racecard/internal/schema"
)

var (
	raceNoPatterns = []*regexp.Regexp{
		regexp.MustCompile(`(?i)\brace\s*(?:no\.?|number|num\.?|#)\s*:?\s*(\d{1,2})\b`),
		regexp.MustCompile(`(?i)^\s*race\s+(\d{1,2})\b`),
		regexp.MustCompile(`^\s*R(\d{1,2})\b`),
	}
	datePatterns = []*regexp.Regexp{
		regexp.MustCompile(`\b(\d{4}-\d{1,2}-\d{1,2})\b`),
		regexp.MustCompile(`\b(\d{1,2}[/.\-]\d{1,2}[/.\-](?:\d{4}|\d{2}))\b`),
		regexp.MustCompile(`(?i)\b((?:mon|tue|wed|thu|fri|sat|sun)[a-z]*,?\s+)?(\d{1,2}(?:st|nd|rd|th)?\s+(?:jan|feb|mar|apr|may|jun|jul|aug|sep|oct|nov|dec)[a-z]*\.?,?\s+(?:\d{4}|\d{2}))\b`),
		regexp.MustCompile(`(?i)\b((?:jan|feb|mar|apr|may|jun|jul|aug|sep|oct|nov|dec)[a-z]*\.?\s+\d{1,2}(?:st|nd|rd|th)?,?\s+\d{4})\b`),
	}
	distancePatterns = []*regexp.Regexp{
		regexp.MustCompile(`(?i)\bdist(?:ance)?\s*:?\s*(\d{3,4})\s*(?:m|metres)?\b`),
		regexp.MustCompile(`(?i)\b(\d{3,4})\s?m(?:etres)?\b`),
	}
	gradePatterns = []*regexp.Regexp{
		regexp.MustCompile(`(?i)\bgrade\b\s*:?\s*([A-Za-z0-9/+]+)`),
		regexp.MustCompile(`(?i)\bGR\s*\.?\s*(\d[\d/]*)`),
		regexp.MustCompile(`(?i)\b(\d)(?:st|nd|rd|th)\s+grade\b`),
	}
	raceTimePattern  = regexp.MustCompile(`(?i)\brace\s*time\s*:?\s*(\d{1,2}[:.]\d{2}\s*(?:[ap]m)?)`)
	raceNamePattern  = regexp.MustCompile(`(?i)\brace\s*name\s*:\s*(.+)$`)
	minRaceNameWords = 3
)

// MeetingExtractor finds meeting-level metadata in paragraph text.
type MeetingExtractor struct {
	tracks []trackPattern
}

type trackPattern struct {
	name string
	re   *regexp.Regexp
}

// NewMeetingExtractor builds an extractor over domain.KnownTracks plus extra track names.
// Longer names are tried first so "RICHMOND STRAIGHT" wins over "RICHMOND".
func NewMeetingExtractor(extraTracks ...string) *MeetingExtractor {
	seen := make(map[string]bool)
	var names []string
	for _, t := range append(append([]string{}, domain.KnownTracks...), extraTracks...) {
		t = strings.ToUpper(strings.Join(strings.Fields(t), " "))
		if t == "" || seen[t] {
			continue
		}
		seen[t] = true
		names = append(names, t)
	}
	sort.SliceStable(names, func(i, j int) bool {
		if len(names[i]) != len(names[j]) {
			return len(names[i]) > len(names[j])
		}
		return names[i] < names[j]
	})

	tracks := make([]trackPattern, len(names))
	for i, n := range names {
		tracks[i] = trackPattern{name: n, re: trackWordPattern(n)}
	}
	return &MeetingExtractor{tracks: tracks}
}

// Extract scans paragraph blocks in order; the first match wins per field.
// Tables are ignored. No match anywhere yields a blank MeetingInfo.
func (e *MeetingExtractor) Extract(blocks []domain.Block) domain.MeetingInfo {
	var paragraphs []string
	for _, b := range blocks {
		if b.IsParagraph() {
			paragraphs = append(paragraphs, b.Text)
		}
	}
	return e.scan(paragraphs)
}

// ExtractDocument extracts from the body and fills fields still blank from the page
// headers and footers. Data_Source_File is set to the document name.
func (e *MeetingExtractor) ExtractDocument(doc *domain.Document) domain.MeetingInfo {
	m := e.Extract(doc.Blocks)
	if len(doc.Headers)+len(doc.Footers) > 0 {
		extra := e.scan(append(append([]string{}, doc.Headers...), doc.Footers...))
		m = fillBlank(m, extra)
	}
	m.DataSourceFile = doc.Name
	return m
}

func (e *MeetingExtractor) scan(paragraphs []string) domain.MeetingInfo {
	var m domain.MeetingInfo
	var firstLong string

	for _, raw := range paragraphs {
		text := strings.Join(strings.Fields(raw), " ")
		if text == "" {
			continue
		}
		if m.Track == "" {
			m.Track = e.matchTrack(text)
		}
		if m.RaceNo == "" {
			m.RaceNo = firstGroup(raceNoPatterns, text)
		}
		if m.RaceDate == "" {
			if d := matchDate(text); d != "" {
				m.RaceDate = schema.NormalizeDate(d)
			}
		}
		if m.Distance == "" {
			m.Distance = firstGroup(distancePatterns, text)
		}
		if m.RaceGrade == "" {
			m.RaceGrade = firstGroup(gradePatterns, text)
		}
		if m.RaceTime == "" {
			if t := raceTimePattern.FindStringSubmatch(text); t != nil {
				m.RaceTime = schema.NormalizeClock(t[1])
			}
		}
		if m.RaceName == "" {
			if n := raceNamePattern.FindStringSubmatch(text); n != nil {
				m.RaceName = strings.TrimSpace(n[1])
			}
		}
		if firstLong == "" && len(strings.Fields(text)) >= minRaceNameWords {
			firstLong = text
		}
	}

	if m.RaceName == "" {
		m.RaceName = firstLong
	}
	return m
}

func (e *MeetingExtractor) matchTrack(text string) string {
	for _, t := range e.tracks {
		if t.re.MatchString(text) {
			return t.name
		}
	}
	return ""
}

func matchDate(text string) string {
	for _, re := range datePatterns {
		if m := re.FindStringSubmatch(text); m != nil {
			return m[len(m)-1]
		}
	}
	return ""
}

func firstGroup(patterns []*regexp.Regexp, text string) string {
	for _, re := range patterns {
		if m := re.FindStringSubmatch(text); m != nil {
			return strings.TrimSpace(m[1])
		}
	}
	return ""
}

func fillBlank(m, from domain.MeetingInfo) domain.MeetingInfo {
	pick := func(cur, alt string) string {
		if cur != "" {
			return cur
		}
		return alt
	}
	m.Track = pick(m.Track, from.Track)
	m.RaceDate = pick(m.RaceDate, from.RaceDate)
	m.RaceNo = pick(m.RaceNo, from.RaceNo)
	m.Distance = pick(m.Distance, from.Distance)
	m.RaceName = pick(m.RaceName, from.RaceName)
	m.RaceGrade = pick(m.RaceGrade, from.RaceGrade)
	m.RaceTime = pick(m.RaceTime, from.RaceTime)
	return m
}

// trackWordPattern matches name as whole words printed in upper or title case, so
// "SALE" and "Sale" match but "for sale" does not.
func trackWordPattern(name string) *regexp.Regexp {
	words := strings.Fields(name)
	for i, w := range words {
		upper := []rune(strings.ToUpper(w))
		title := string(upper[:1]) + strings.ToLower(string(upper[1:]))
		words[i] = "(?:" + regexp.QuoteMeta(string(upper)) + "|" + regexp.QuoteMeta(title) + ")"
	}
	return regexp.MustCompile(`(?:^|[^\pL\pN])` + strings.Join(words, `\s+`) + `(?:$|[^\pL\pN])`)
}

// wordPattern matches phrase as whole words, case-insensitively, with any run of
// whitespace between its words.
func wordPattern(phrase string) *regexp.Regexp {
	words := strings.Fields(phrase)
	for i, w := range words {
		words[i] = regexp.QuoteMeta(w)
	}
	return regexp.MustCompile(`(?i)(?:^|[^\pL\pN])` + strings.Join(words, `\s+`) + `(?:$|[^\pL\pN])`)
}
