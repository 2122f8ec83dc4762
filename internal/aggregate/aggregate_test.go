package aggregate

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/spherical-ai/racecard/internal/domain"
	"github.com/spherical-ai/racecard/internal/schema"
)

func identity(dog, box string) domain.Record {
	return domain.Record{
		domain.FieldTrack:    "WENTWORTH PARK",
		domain.FieldRaceDate: "2025-10-15",
		domain.FieldRaceNo:   "3",
		domain.FieldBox:      box,
		domain.FieldDogName:  dog,
	}
}

func run(base domain.Record, fields map[string]string) domain.Record {
	rec := base.Clone()
	for k, v := range fields {
		rec[k] = v
	}
	return rec
}

func TestSpeeds(t *testing.T) {
	dog := identity("Fast Lane", "1")
	history := []domain.Record{
		run(dog, map[string]string{schema.FieldHistSpeed: "60"}),
		run(dog, map[string]string{schema.FieldHistSpeed: "65"}),
		run(dog, map[string]string{schema.FieldHistRaceTime: "DNF"}),
		run(identity("Other", "2"), map[string]string{schema.FieldHistSpeed: "70"}),
		run(identity("", ""), map[string]string{schema.FieldHistSpeed: "99"}),
	}
	summary := []domain.Record{dog, identity("No Form", "4")}

	out := Speeds(summary, history)
	require.Len(t, out, 2)

	assert.Equal(t, "3", out[0][schema.FieldHistCount])
	assert.Equal(t, "62.5", out[0][schema.FieldAvgSpeed])
	assert.Equal(t, "60.0", out[0][schema.FieldMinSpeed])
	assert.Equal(t, "65.0", out[0][schema.FieldMaxSpeed])

	for _, f := range []string{schema.FieldHistCount, schema.FieldAvgSpeed, schema.FieldMinSpeed, schema.FieldMaxSpeed} {
		v, ok := out[1][f]
		assert.True(t, ok, f)
		assert.Empty(t, v, f)
	}

	assert.NotContains(t, summary[0], schema.FieldHistCount)
}

func TestSpeeds_DerivedFromDistanceAndTime(t *testing.T) {
	dog := identity("Fast Lane", "1")
	history := []domain.Record{
		run(dog, map[string]string{schema.FieldHistDistance: "520", schema.FieldHistRaceTime: "30.00"}),
		run(dog, map[string]string{schema.FieldHistDistance: "450m", schema.FieldHistRaceTime: "25.00"}),
	}

	out := Speeds([]domain.Record{dog}, history)

	assert.Equal(t, "2", out[0][schema.FieldHistCount])
	assert.Equal(t, "63.6", out[0][schema.FieldAvgSpeed])
	assert.Equal(t, "62.4", out[0][schema.FieldMinSpeed])
	assert.Equal(t, "64.8", out[0][schema.FieldMaxSpeed])
}

func TestSpeeds_CountWithoutValidSpeeds(t *testing.T) {
	dog := identity("Fast Lane", "1")
	out := Speeds([]domain.Record{dog}, []domain.Record{run(dog, nil)})

	assert.Equal(t, "1", out[0][schema.FieldHistCount])
	assert.Empty(t, out[0][schema.FieldAvgSpeed])
}

func TestSpeeds_CanonicalIdentity(t *testing.T) {
	summary := []domain.Record{identity("Fast Lane", "1")}
	history := []domain.Record{run(domain.Record{
		domain.FieldTrack:    "Wentworth Park",
		domain.FieldRaceDate: "15/10/2025",
		domain.FieldRaceNo:   "03",
		domain.FieldBox:      "1",
		domain.FieldDogName:  "FAST LANE",
	}, map[string]string{schema.FieldHistSpeed: "61.2"})}

	out := Speeds(summary, history)
	assert.Equal(t, "1", out[0][schema.FieldHistCount])
	assert.Equal(t, "61.2", out[0][schema.FieldAvgSpeed])
}

func TestSnapshots_MostRecentRun(t *testing.T) {
	dog := identity("Fast Lane", "1")
	history := []domain.Record{
		run(dog, map[string]string{schema.FieldHistDate: "2025-08-01", schema.FieldHistTrack: "Dapto"}),
		run(dog, map[string]string{schema.FieldHistDate: "2025-09-20", schema.FieldHistTrack: "Bulli", schema.FieldHistWinner: "Rival"}),
		run(dog, map[string]string{schema.FieldHistDate: "2025-09-20", schema.FieldHistTrack: "Later Tie"}),
		run(dog, map[string]string{schema.FieldHistDate: "garbage", schema.FieldHistTrack: "Unknown"}),
		run(dog, map[string]string{schema.FieldHistDate: "2025-09-01", schema.FieldHistTrack: "Gosford"}),
	}

	out := Snapshots([]domain.Record{dog}, history)
	require.Len(t, out, 1)

	assert.Equal(t, "2025-09-20", out[0][schema.FieldHistDate])
	assert.Equal(t, "Bulli", out[0][schema.FieldHistTrack])
	assert.Equal(t, "Rival", out[0][schema.FieldHistWinner])
	for _, f := range schema.SnapshotFields() {
		assert.Contains(t, out[0], f)
	}
}

func TestSnapshots_LaterDateWinsRegardlessOfOrder(t *testing.T) {
	dog := identity("Fast Lane", "1")
	history := []domain.Record{
		run(dog, map[string]string{schema.FieldHistDate: "2024-03-15", schema.FieldHistFinishPos: "1"}),
		run(dog, map[string]string{schema.FieldHistDate: "2024-01-01", schema.FieldHistFinishPos: "6"}),
	}

	out := Snapshots([]domain.Record{dog}, history)
	assert.Equal(t, "2024-03-15", out[0][schema.FieldHistDate])
	assert.Equal(t, "1", out[0][schema.FieldHistFinishPos])
}

func TestSnapshots_UndatedRunsOnly(t *testing.T) {
	dog := identity("Fast Lane", "1")
	history := []domain.Record{
		run(dog, map[string]string{schema.FieldHistTrack: "First"}),
		run(dog, map[string]string{schema.FieldHistTrack: "Second"}),
	}

	out := Snapshots([]domain.Record{dog}, history)
	assert.Equal(t, "First", out[0][schema.FieldHistTrack])
}

func TestSnapshots_NoHistoryKeepsExistingValues(t *testing.T) {
	dog := run(identity("Fast Lane", "1"), map[string]string{schema.FieldHistTrack: "Printed"})

	out := Snapshots([]domain.Record{dog}, nil)

	assert.Equal(t, "Printed", out[0][schema.FieldHistTrack])
	v, ok := out[0][schema.FieldHistDate]
	assert.True(t, ok)
	assert.Empty(t, v)
}

func TestSnapshots_OtherRaceIsNotJoined(t *testing.T) {
	dog := identity("Fast Lane", "1")
	other := dog.With(domain.FieldRaceNo, "4")
	history := []domain.Record{run(other, map[string]string{schema.FieldHistDate: "2025-09-20"})}

	out := Snapshots([]domain.Record{dog}, history)
	assert.Empty(t, out[0][schema.FieldHistDate])
}
