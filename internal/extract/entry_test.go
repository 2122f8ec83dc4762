package extract

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/spherical-ai/racecard/internal/domain"
)

func TestEntryExtractor_Extract(t *testing.T) {
	header := []string{"Box", "Dog Name", "Trainer", "Comments"}
	blocks := []domain.Block{
		domain.Paragraph("DAPTO"),
		domain.Table(
			header,
			[]string{"1", "Fast Lane", "J Smith", "Good"},
			header,
			[]string{"", " ", "", ""},
			[]string{"2", "", "K Jones", "scratched"},
			[]string{"3", "Slow Poke", "", "late", "overflow"},
		),
		domain.Table([]string{"Date", "Track"}, []string{"01/09/25", "Dapto"}),
	}
	meeting := domain.MeetingInfo{Track: "DAPTO", RaceDate: "2025-09-01", RaceNo: "1", DataSourceFile: "a.docx"}

	res := NewEntryExtractor(NewClassifier()).Extract(blocks, meeting)

	assert.Equal(t, 1, res.Tables)
	assert.Equal(t, []string{"Comments"}, res.Unmapped)
	assert.Equal(t, [][]string{{"2", "", "K Jones", "scratched"}}, res.Rejected)
	require.Len(t, res.Records, 2)

	first := res.Records[0]
	assert.Equal(t, "Fast Lane", first[domain.FieldDogName])
	assert.Equal(t, "1", first[domain.FieldBox])
	assert.Equal(t, "J Smith", first["Trainer"])
	assert.Equal(t, "Good", first["Comments"])
	assert.Equal(t, "DAPTO", first[domain.FieldTrack])
	assert.Equal(t, "a.docx", first[domain.FieldDataSourceFile])

	second := res.Records[1]
	assert.Equal(t, "Slow Poke", second[domain.FieldDogName])
	trainer, ok := second["Trainer"]
	assert.True(t, ok)
	assert.Empty(t, trainer)
	assert.NotContains(t, second, "overflow")
}

func TestEntryExtractor_UnmappedDoesNotOverwrite(t *testing.T) {
	table := domain.Table(
		[]string{"Box", "Dog", "Track"},
		[]string{"1", "Dog A", "Dapto Park"},
	)
	e := NewEntryExtractor(NewClassifier())

	res := e.Extract([]domain.Block{table}, domain.MeetingInfo{Track: "WENTWORTH PARK"})
	require.Len(t, res.Records, 1)
	assert.Equal(t, "WENTWORTH PARK", res.Records[0][domain.FieldTrack])

	res = e.Extract([]domain.Block{table}, domain.MeetingInfo{})
	require.Len(t, res.Records, 1)
	assert.Equal(t, "Dapto Park", res.Records[0][domain.FieldTrack])
}

func TestEntryExtractor_MappedColumnOverridesMeeting(t *testing.T) {
	table := domain.Table(
		[]string{"Race No", "Box", "Dog"},
		[]string{"5", "2", "Dog B"},
	)
	res := NewEntryExtractor(NewClassifier()).Extract([]domain.Block{table}, domain.MeetingInfo{RaceNo: "3"})

	require.Len(t, res.Records, 1)
	assert.Equal(t, "5", res.Records[0][domain.FieldRaceNo])
}

func TestEntryExtractor_RequiresBoxAndDog(t *testing.T) {
	blocks := []domain.Block{
		domain.Table([]string{"Dog", "Trainer"}, []string{"Dog A", "X"}),
		domain.Table(),
	}
	res := NewEntryExtractor(NewClassifier()).Extract(blocks, domain.MeetingInfo{})

	assert.Zero(t, res.Tables)
	assert.Empty(t, res.Records)
}
