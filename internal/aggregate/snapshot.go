package aggregate

import (
	"time"

	"github.com/spherical-ai/racecard/internal/domain"
	"github.com/spherical-ai/racecard/internal/schema"
)

// LatestRuns picks, per identity, the history row with the latest Hist_Date.
// A missing or unparsable date ranks as the oldest possible date, and on equal
// dates the row seen first is kept.
func LatestRuns(history []domain.Record) map[schema.Key]domain.Record {
	type pick struct {
		rec  domain.Record
		date time.Time
	}
	best := make(map[schema.Key]pick)
	for _, h := range history {
		key := schema.IdentityKey(h)
		if !key.HasDog() {
			continue
		}
		d, ok := schema.ParseDate(h.Get(schema.FieldHistDate))
		if !ok {
			d = time.Time{}
		}
		cur, seen := best[key]
		if !seen || d.After(cur.date) {
			best[key] = pick{rec: h, date: d}
		}
	}

	out := make(map[schema.Key]domain.Record, len(best))
	for k, p := range best {
		out[k] = p.rec
	}
	return out
}

// Snapshots returns copies of summary carrying the snapshot fields of each dog's most
// recent run. Rows without history keep any snapshot values they already have and get
// blanks for the rest.
func Snapshots(summary, history []domain.Record) []domain.Record {
	latest := LatestRuns(history)
	fields := schema.SnapshotFields()

	out := make([]domain.Record, len(summary))
	for i, s := range summary {
		rec := s.Clone()
		if run, ok := latest[schema.IdentityKey(s)]; ok {
			for _, f := range fields {
				rec[f] = run[f]
			}
		} else {
			for _, f := range fields {
				if _, present := rec[f]; !present {
					rec[f] = ""
				}
			}
		}
		out[i] = rec
	}
	return out
}
