// Package normalize turns raw entry records into canonical field values.
package normalize

import (
	"strings"

	"github.com/spherical-ai/racecard/internal/domain"
	"github.com/spherical-ai/racecard/internal/schema"
)

// weightSources are raw columns that may carry the weight when WT (kg) is blank.
var weightSources = []string{schema.FieldRawWeight, schema.FieldRawWeightKg, schema.FieldRawWeightWt}

// Normalizer coerces record fields according to the column kinds of a schema.
// Normalize is pure and idempotent.
type Normalizer struct {
	schema *schema.Schema
}

// New creates a Normalizer for the given schema, usually schema.Entry().
func New(s *schema.Schema) *Normalizer {
	return &Normalizer{schema: s}
}

// Normalize returns a normalized copy of r.
func (n *Normalizer) Normalize(r domain.Record) domain.Record {
	out := make(domain.Record, len(r)+3)
	for k, v := range r {
		out[k] = collapse(v)
	}

	if !out.Has(schema.FieldWeight) {
		for _, src := range weightSources {
			if out.Has(src) {
				out[schema.FieldWeight] = out[src]
				break
			}
		}
	}

	for k, v := range out {
		out[k] = n.coerce(k, v)
	}

	if !out.Has(schema.FieldAgeSex) {
		if code := out.Get(schema.FieldAge) + SexCode(out.Get(schema.FieldSex)); code != "" {
			out[schema.FieldAgeSex] = code
		}
	}

	if !out.Has(schema.FieldCareer) {
		w, p, s := out.Get(schema.FieldCareerWins), out.Get(schema.FieldCareerPlaces), out.Get(schema.FieldCareerStarts)
		if w != "" || p != "" || s != "" {
			out[schema.FieldCareer] = strings.Trim(w+"-"+p+"-"+s, "-")
		}
	}

	return out
}

// NormalizeAll normalizes every record in order.
func (n *Normalizer) NormalizeAll(records []domain.Record) []domain.Record {
	out := make([]domain.Record, len(records))
	for i, r := range records {
		out[i] = n.Normalize(r)
	}
	return out
}

func (n *Normalizer) coerce(field, v string) string {
	if v == "" {
		return ""
	}
	switch field {
	case schema.FieldColour:
		return Colour(v)
	case schema.FieldSex:
		return Sex(v)
	}

	switch n.schema.KindOf(field) {
	case schema.KindInteger:
		return schema.CoerceInteger(v)
	case schema.KindDecimal:
		return schema.CoerceDecimal(v)
	case schema.KindOdds:
		return schema.CoerceOdds(v)
	case schema.KindDate:
		return schema.NormalizeDate(v)
	case schema.KindClock:
		return schema.NormalizeClock(v)
	case schema.KindName:
		return Name(v)
	default:
		return v
	}
}

func collapse(s string) string {
	return strings.Join(strings.Fields(s), " ")
}
