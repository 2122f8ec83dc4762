package normalize

import (
	"strings"
	"unicode"
	"unicode/utf8"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// colourCodes maps lower-case colour codes to labels.
var colourCodes = map[string]string{
	"bl":   "Blue",
	"rd":   "Red",
	"bk":   "Black",
	"w":    "White",
	"w/bl": "White/Blue",
	"bb":   "Blue/Black",
	"fawn": "Fawn",
	"fwn":  "Fawn",
	"brn":  "Brown",
	"bdl":  "Brindle",
}

// sexCodes maps upper-case sex codes to labels.
var sexCodes = map[string]string{
	"D": "Dog",
	"B": "Bitch",
}

var (
	colourLabels = labelIndex(colourCodes)
	sexLabels    = labelIndex(sexCodes)
)

func labelIndex(codes map[string]string) map[string]string {
	idx := make(map[string]string, len(codes))
	for _, label := range codes {
		idx[strings.ToLower(label)] = label
	}
	return idx
}

// Colour maps a colour code to its label. Labels map to themselves and unknown
// codes pass through capitalized.
func Colour(raw string) string {
	v := strings.TrimSpace(raw)
	if v == "" {
		return ""
	}
	key := strings.ToLower(v)
	if label, ok := colourCodes[key]; ok {
		return label
	}
	if label, ok := colourLabels[key]; ok {
		return label
	}
	return Capitalize(v)
}

// Sex maps a sex code to its label, with the same pass-through rules as Colour.
func Sex(raw string) string {
	v := strings.TrimSpace(raw)
	if v == "" {
		return ""
	}
	if label, ok := sexCodes[strings.ToUpper(v)]; ok {
		return label
	}
	if label, ok := sexLabels[strings.ToLower(v)]; ok {
		return label
	}
	return Capitalize(v)
}

// SexCode returns the one-letter code for a code or label, "" when unknown.
func SexCode(raw string) string {
	v := strings.TrimSpace(raw)
	if _, ok := sexCodes[strings.ToUpper(v)]; ok {
		return strings.ToUpper(v)
	}
	for code, label := range sexCodes {
		if strings.EqualFold(label, v) {
			return code
		}
	}
	return ""
}

// Capitalize upper-cases the first letter and lower-cases the rest.
func Capitalize(s string) string {
	r, size := utf8.DecodeRuneInString(s)
	if r == utf8.RuneError {
		return s
	}
	return string(unicode.ToUpper(r)) + strings.ToLower(s[size:])
}

// TitleCase upper-cases the first letter of every word and lower-cases the rest.
func TitleCase(s string) string {
	// Casers carry state, so each call gets its own.
	return cases.Title(language.Und).String(s)
}

// Name returns the display form of a person or dog name: single-spaced and title-cased.
func Name(raw string) string {
	return TitleCase(strings.Join(strings.Fields(raw), " "))
}
