package extract

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/spherical-ai/racecard/internal/domain"
	"github.com/spherical-ai/racecard/internal/schema"
)

func TestClassifier_SummaryContext(t *testing.T) {
	c := NewClassifier()

	tests := []struct {
		header string
		field  string
		mapped bool
	}{
		{"Dog Name", domain.FieldDogName, true},
		{"DOG", domain.FieldDogName, true},
		{"dog_name", domain.FieldDogName, true},
		{"Greyhound", domain.FieldDogName, true},
		{"Box", domain.FieldBox, true},
		{"Trainer Win %", schema.FieldTrainerWin, true},
		{"Trainer Plc %", schema.FieldTrainerPlace, true},
		{"Trainer", schema.FieldTrainer, true},
		{"Wt", schema.FieldWeight, true},
		{"A/S", schema.FieldAgeSex, true},
		{"Career", schema.FieldCareer, true},
		{"Dist W-P-S", schema.FieldDistWPS, true},
		{"Distance", domain.FieldDistance, true},
		{"RTC/km", schema.FieldRTCPerKm, true},
		{"RTC", schema.FieldRTC, true},
		{"Car PM/s (G1)", schema.FieldCarPM, true},
		{"Comments", "Comments", false},
		{"best   BETS", "Best Bets", false},
		{"   ", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.header, func(t *testing.T) {
			field, mapped := c.Classify(tt.header, ContextSummary)
			assert.Equal(t, tt.field, field)
			assert.Equal(t, tt.mapped, mapped)
		})
	}
}

func TestClassifier_HistoryContext(t *testing.T) {
	c := NewClassifier()

	tests := []struct {
		header string
		field  string
	}{
		{"Date", schema.FieldHistDate},
		{"Track", schema.FieldHistTrack},
		{"Track Dir", schema.FieldHistTrackDirection},
		{"Dist", schema.FieldHistDistance},
		{"Time", schema.FieldHistRaceTime},
		{"1ST SEC", schema.FieldHistSecTime},
		{"Split Adj", schema.FieldHistSecTimeAdj},
		{"Sectional", schema.FieldHistSecTime},
		{"TIME (SECS)", schema.FieldHistRaceTime},
		{"Time Secs", schema.FieldHistRaceTime},
		{"Run Time Sec", schema.FieldHistRaceTime},
		{"WIN TIME", ""},
		{"Winner's Time", ""},
		{"Win/2nd", ""},
		{"Ongoing Winners", schema.FieldHistOngoingWins},
		{"Winner", schema.FieldHistWinner},
		{"1st", schema.FieldHistWinner},
		{"2nd", schema.FieldHistSecond},
		{"3rd", schema.FieldHistThird},
		{"Mgn", schema.FieldHistMargin},
		{"Plc", schema.FieldHistFinishPos},
		{"Speed km/h", ""},
		{"Unknown", ""},
	}

	for _, tt := range tests {
		t.Run(tt.header, func(t *testing.T) {
			field, mapped := c.Classify(tt.header, ContextHistory)
			assert.Equal(t, tt.field, field)
			assert.Equal(t, tt.field != "", mapped)
		})
	}
}

func TestClassifier_ClassifyRow(t *testing.T) {
	hm := NewClassifier().ClassifyRow([]string{"Box", "Dog", "Mystery", ""}, ContextSummary)

	assert.Equal(t, []string{domain.FieldBox, domain.FieldDogName, "Mystery", ""}, hm.Fields)
	assert.Equal(t, []bool{true, true, false, false}, hm.Mapped)
	assert.Equal(t, []string{"Mystery"}, hm.Unmapped)
	assert.True(t, IsEntryHeader(hm))
	assert.False(t, hm.Contains("Mystery"))
	assert.True(t, hm.ContainsAny("Nope", domain.FieldBox))
}
