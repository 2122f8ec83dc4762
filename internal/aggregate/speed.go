// Package aggregate merges history runs into summary rows.
//
// Both the speed aggregates and the snapshot join group history by the full
// identity tuple (Track, Race_Date, Race_No, Box, Dog_Name), so a dog's statistics
// only ever come from the form printed for that race. History rows without a dog
// name are never attributed.
package aggregate

import (
	"strconv"

	"github.com/spherical-ai/racecard/internal/domain"
	"github.com/spherical-ai/racecard/internal/schema"
)

// SpeedStats summarizes the runs of one identity.
type SpeedStats struct {
	Count  int
	Speeds []float64
}

// Avg returns the mean of the valid speeds.
func (s SpeedStats) Avg() (float64, bool) {
	if len(s.Speeds) == 0 {
		return 0, false
	}
	var sum float64
	for _, v := range s.Speeds {
		sum += v
	}
	return schema.Round3(sum / float64(len(s.Speeds))), true
}

// Min returns the lowest valid speed.
func (s SpeedStats) Min() (float64, bool) {
	if len(s.Speeds) == 0 {
		return 0, false
	}
	m := s.Speeds[0]
	for _, v := range s.Speeds[1:] {
		if v < m {
			m = v
		}
	}
	return schema.Round3(m), true
}

// Max returns the highest valid speed.
func (s SpeedStats) Max() (float64, bool) {
	if len(s.Speeds) == 0 {
		return 0, false
	}
	m := s.Speeds[0]
	for _, v := range s.Speeds[1:] {
		if v > m {
			m = v
		}
	}
	return schema.Round3(m), true
}

// GroupSpeeds counts every history row per identity and collects the valid run speeds.
func GroupSpeeds(history []domain.Record) map[schema.Key]*SpeedStats {
	groups := make(map[schema.Key]*SpeedStats)
	for _, h := range history {
		key := schema.IdentityKey(h)
		if !key.HasDog() {
			continue
		}
		g, ok := groups[key]
		if !ok {
			g = &SpeedStats{}
			groups[key] = g
		}
		g.Count++
		if v, ok := RunSpeed(h); ok {
			g.Speeds = append(g.Speeds, v)
		}
	}
	return groups
}

// RunSpeed returns the speed of a history row: its Hist_Speed_km/h when set, otherwise
// derived from Hist_Distance and Hist_Race_Time.
func RunSpeed(h domain.Record) (float64, bool) {
	if v, ok := schema.ParseNumber(h.Get(schema.FieldHistSpeed)); ok && v > 0 {
		return v, true
	}
	return schema.Speed(h.Get(schema.FieldHistDistance), h.Get(schema.FieldHistRaceTime))
}

// Speeds returns copies of summary with Hist_Count and the average, minimum and
// maximum run speed filled in. Rows without matching history get blank values.
func Speeds(summary, history []domain.Record) []domain.Record {
	groups := GroupSpeeds(history)
	out := make([]domain.Record, len(summary))
	for i, s := range summary {
		rec := s.Clone()
		rec[schema.FieldHistCount] = ""
		rec[schema.FieldAvgSpeed] = ""
		rec[schema.FieldMinSpeed] = ""
		rec[schema.FieldMaxSpeed] = ""

		if g, ok := groups[schema.IdentityKey(s)]; ok {
			rec[schema.FieldHistCount] = strconv.Itoa(g.Count)
			if v, ok := g.Avg(); ok {
				rec[schema.FieldAvgSpeed] = schema.FormatDecimal(v)
			}
			if v, ok := g.Min(); ok {
				rec[schema.FieldMinSpeed] = schema.FormatDecimal(v)
			}
			if v, ok := g.Max(); ok {
				rec[schema.FieldMaxSpeed] = schema.FormatDecimal(v)
			}
		}
		out[i] = rec
	}
	return out
}
