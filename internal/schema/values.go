package schema

import (
	"math"
	"regexp"
	"strconv"
	"strings"
	"time"
)

// ISODate is the layout of normalized dates.
const ISODate = "2006-01-02"

var (
	nonDigitRe   = regexp.MustCompile(`\D`)
	nonDecimalRe = regexp.MustCompile(`[^0-9.\-]`)
	ordinalRe    = regexp.MustCompile(`(?i)\b(\d{1,2})(?:st|nd|rd|th)\b`)
	spaceRe      = regexp.MustCompile(`\s+`)
	septRe       = regexp.MustCompile(`(?i)\bsept\b`)
)

// dateLayouts are tried in order; day-first wins for ambiguous numeric dates.
var dateLayouts = []string{
	ISODate,
	"2006/1/2",
	"2/1/2006",
	"2/1/06",
	"2-1-2006",
	"2-1-06",
	"2.1.2006",
	"2.1.06",
	"2 Jan 2006",
	"2 Jan 06",
	"2 January 2006",
	"2 January 06",
	"Monday 2 January 2006",
	"Mon 2 Jan 2006",
	"Monday 2 Jan 2006",
	"Jan 2 2006",
	"January 2 2006",
}

// ParseDate parses the date formats found in race programs.
func ParseDate(raw string) (time.Time, bool) {
	s := cleanDate(raw)
	if s == "" {
		return time.Time{}, false
	}
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

// NormalizeDate returns raw as yyyy-mm-dd, or trimmed raw unchanged when it is not a date.
func NormalizeDate(raw string) string {
	if t, ok := ParseDate(raw); ok {
		return t.Format(ISODate)
	}
	return strings.TrimSpace(raw)
}

// IsISODate reports whether s is already a valid yyyy-mm-dd date.
func IsISODate(s string) bool {
	_, err := time.Parse(ISODate, s)
	return err == nil
}

func cleanDate(raw string) string {
	s := strings.TrimSpace(raw)
	s = ordinalRe.ReplaceAllString(s, "$1")
	s = strings.ReplaceAll(s, ",", " ")
	s = septRe.ReplaceAllString(s, "Sep")
	s = strings.TrimSuffix(s, ".")
	// "15 Oct. 25" style abbreviations
	s = strings.ReplaceAll(s, ". ", " ")
	return spaceRe.ReplaceAllString(strings.TrimSpace(s), " ")
}

// NormalizeClock returns a time of day as HH:MM, or trimmed raw when it does not parse.
func NormalizeClock(raw string) string {
	s := strings.ToUpper(strings.ReplaceAll(strings.TrimSpace(raw), " ", ""))
	for _, layout := range []string{"15:04", "3:04PM", "3:04", "15.04"} {
		if t, err := time.Parse(layout, s); err == nil {
			return t.Format("15:04")
		}
	}
	return strings.TrimSpace(raw)
}

// ParseNumber parses a plain numeric string, tolerating thousands separators.
// Values with units or letters are not numbers.
func ParseNumber(s string) (float64, bool) {
	s = strings.ReplaceAll(strings.TrimSpace(s), ",", "")
	if s == "" {
		return 0, false
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, false
	}
	return v, true
}

// CoerceInteger strips non-digit characters and returns the integer, or "" when
// nothing numeric remains.
func CoerceInteger(raw string) string {
	s := strings.TrimSpace(raw)
	if s == "" {
		return ""
	}
	// keep a decimal part so "3.0" reads as 3, not 30
	if v, ok := ParseNumber(nonDecimalRe.ReplaceAllString(s, "")); ok && strings.Count(s, ".") == 1 {
		return strconv.FormatInt(int64(v), 10)
	}
	digits := nonDigitRe.ReplaceAllString(s, "")
	if digits == "" {
		return ""
	}
	n, err := strconv.ParseInt(digits, 10, 64)
	if err != nil {
		return ""
	}
	return strconv.FormatInt(n, 10)
}

// CoerceDecimal strips currency, percent and unit characters and returns the number
// in its shortest form, or "" when the value does not parse.
func CoerceDecimal(raw string) string {
	s := nonDecimalRe.ReplaceAllString(strings.TrimSpace(raw), "")
	v, ok := ParseNumber(s)
	if !ok {
		return ""
	}
	return strconv.FormatFloat(v, 'f', -1, 64)
}

// CoerceOdds drops the favourite marker before coercing the price.
func CoerceOdds(raw string) string {
	s := strings.TrimSpace(raw)
	s = strings.TrimSuffix(strings.TrimSuffix(s, "F"), "f")
	s = strings.TrimPrefix(s, "$")
	return CoerceDecimal(s)
}

// ParseDistance reads a distance in metres such as "450", "450m" or "450 m".
func ParseDistance(raw string) (float64, bool) {
	s := strings.TrimSpace(strings.ToLower(raw))
	s = strings.TrimSuffix(strings.TrimSuffix(s, "metres"), "m")
	return ParseNumber(strings.TrimSpace(s))
}

// ParseSeconds reads a race time as "25.00", "25.00s" or "1:02.35".
func ParseSeconds(raw string) (float64, bool) {
	s := strings.TrimSpace(strings.ToLower(raw))
	s = strings.TrimSuffix(strings.TrimSuffix(s, "sec"), "s")
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, false
	}
	if minutes, seconds, found := strings.Cut(s, ":"); found {
		m, okM := ParseNumber(minutes)
		sec, okS := ParseNumber(seconds)
		if !okM || !okS {
			return 0, false
		}
		return m*60 + sec, true
	}
	return ParseNumber(s)
}

// Round3 rounds half away from zero to three decimals.
func Round3(v float64) float64 {
	return math.Round(v*1000) / 1000
}

// FormatDecimal renders v with at least one decimal place, e.g. 60 -> "60.0".
func FormatDecimal(v float64) string {
	s := strconv.FormatFloat(v, 'f', -1, 64)
	if !strings.ContainsAny(s, ".eE") {
		s += ".0"
	}
	return s
}

// Speed derives km/h from a distance in metres and a time in seconds.
// It returns false when either input is missing, unparsable or zero.
func Speed(distance, raceTime string) (float64, bool) {
	d, ok := ParseDistance(distance)
	if !ok || d <= 0 {
		return 0, false
	}
	t, ok := ParseSeconds(raceTime)
	if !ok || t <= 0 {
		return 0, false
	}
	return Round3(d * 3.6 / t), true
}
