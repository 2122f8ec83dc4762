// Package schema defines the locked output columns and the identity key
// shared by the aggregation, snapshot and export stages.
package schema

import (
	"github.com/spherical-ai/racecard/internal/domain"
)

// Kind tells the normalizer how to coerce a column's values.
type Kind int

const (
	KindText Kind = iota
	KindName
	KindInteger
	KindDecimal
	KindOdds
	KindDate
	KindClock
)

var kindNames = [...]string{"text", "name", "integer", "decimal", "odds", "date", "clock"}

func (k Kind) String() string {
	if int(k) < len(kindNames) {
		return kindNames[k]
	}
	return "unknown"
}

// Column is one named, typed output column.
type Column struct {
	Name string
	Kind Kind
}

// Schema is an ordered, immutable column list.
type Schema struct {
	name    string
	columns []Column
	index   map[string]int
}

// New builds a schema from columns in output order. Duplicate names keep their first position.
func New(name string, columns ...Column) *Schema {
	s := &Schema{
		name:    name,
		columns: make([]Column, 0, len(columns)),
		index:   make(map[string]int, len(columns)),
	}
	for _, c := range columns {
		if _, dup := s.index[c.Name]; dup {
			continue
		}
		s.index[c.Name] = len(s.columns)
		s.columns = append(s.columns, c)
	}
	return s
}

// Name returns the schema's label, e.g. "summary".
func (s *Schema) Name() string { return s.name }

// Len returns the number of columns.
func (s *Schema) Len() int { return len(s.columns) }

// Columns returns the column names in output order.
func (s *Schema) Columns() []string {
	names := make([]string, len(s.columns))
	for i, c := range s.columns {
		names[i] = c.Name
	}
	return names
}

// Column looks up a column by name.
func (s *Schema) Column(name string) (Column, bool) {
	i, ok := s.index[name]
	if !ok {
		return Column{}, false
	}
	return s.columns[i], true
}

// Has reports whether name is a column of the schema.
func (s *Schema) Has(name string) bool {
	_, ok := s.index[name]
	return ok
}

// KindOf returns the column kind, KindText for unknown names.
func (s *Schema) KindOf(name string) Kind {
	if c, ok := s.Column(name); ok {
		return c.Kind
	}
	return KindText
}

// Project returns a record holding exactly the schema's columns.
// Missing columns become blank and extra keys are dropped.
func (s *Schema) Project(r domain.Record) domain.Record {
	out := make(domain.Record, len(s.columns))
	for _, c := range s.columns {
		out[c.Name] = r[c.Name]
	}
	return out
}

// Row renders a record as cells in column order.
func (s *Schema) Row(r domain.Record) []string {
	row := make([]string, len(s.columns))
	for i, c := range s.columns {
		row[i] = r[c.Name]
	}
	return row
}

// Extra returns the record keys that are not schema columns, sorted.
func (s *Schema) Extra(r domain.Record) []string {
	var extra []string
	for _, k := range r.Keys() {
		if !s.Has(k) {
			extra = append(extra, k)
		}
	}
	return extra
}
