package schema

import (
	"strings"

	"github.com/spherical-ai/racecard/internal/domain"
)

// IdentityFields is the dedupe and join tuple of a summary row.
var IdentityFields = []string{
	domain.FieldTrack,
	domain.FieldRaceDate,
	domain.FieldRaceNo,
	domain.FieldBox,
	domain.FieldDogName,
}

// Key is the canonical identity of a dog in one race of one meeting.
// Two records refer to the same entrant exactly when their keys are equal.
type Key struct {
	Track    string
	RaceDate string
	RaceNo   string
	Box      string
	DogName  string
}

// IdentityKey canonicalizes the identity tuple of r: names compare case-insensitively,
// dates compare by calendar day and numbers by value ("01" equals "1").
func IdentityKey(r domain.Record) Key {
	return Key{
		Track:    foldText(r.Get(domain.FieldTrack)),
		RaceDate: NormalizeDate(r.Get(domain.FieldRaceDate)),
		RaceNo:   canonicalNumber(r.Get(domain.FieldRaceNo)),
		Box:      canonicalNumber(r.Get(domain.FieldBox)),
		DogName:  foldText(r.Get(domain.FieldDogName)),
	}
}

// HasDog reports whether the key names a dog. History keys without one are unattributable.
func (k Key) HasDog() bool {
	return k.DogName != ""
}

func (k Key) String() string {
	return strings.Join([]string{k.Track, k.RaceDate, k.RaceNo, k.Box, k.DogName}, "|")
}

// FoldName canonicalizes a dog name for matching.
func FoldName(name string) string {
	return foldText(name)
}

func foldText(s string) string {
	return strings.ToUpper(strings.Join(strings.Fields(s), " "))
}

func canonicalNumber(s string) string {
	if s == "" {
		return ""
	}
	if n := CoerceInteger(s); n != "" {
		return n
	}
	return foldText(s)
}
