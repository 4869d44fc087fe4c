// SPDX-License-Identifier: MIT

// Package metadata holds the sample metadata model: an opaque lookup from
// sample identifier to string attributes (case/control, specimen site, …),
// matched by exact string equality.
//
// Identifier formats rarely agree between the sequencing table and the
// metadata sheet. Normalizers (PrefixStripper, RemoveChars, Chain) let the
// caller bring both sides to one form before matching.
package metadata

import (
	"errors"
	"fmt"
)

var (
	// ErrMissingColumn indicates that a requested column does not exist.
	ErrMissingColumn = errors.New("metadata: missing column")

	// ErrDuplicateSample indicates a repeated sample identifier.
	ErrDuplicateSample = errors.New("metadata: duplicate sample identifier")

	// ErrRaggedRecord indicates a record whose width differs from the header.
	ErrRaggedRecord = errors.New("metadata: record width differs from header")
)

// Metadata is an immutable sample ID → attributes table.
type Metadata struct {
	idColumn string
	columns  []string
	colIdx   map[string]int
	ids      []string
	rowIdx   map[string]int
	values   [][]string
}

// New builds Metadata from a header and records. idColumn names the header
// entry carrying the sample identifier.
//
// Errors: ErrMissingColumn, ErrDuplicateSample, ErrRaggedRecord.
func New(idColumn string, columns []string, records [][]string) (*Metadata, error) {
	colIdx := make(map[string]int, len(columns))
	for k, c := range columns {
		colIdx[c] = k
	}
	idAt, ok := colIdx[idColumn]
	if !ok {
		return nil, fmt.Errorf("metadata.New(%q): %w", idColumn, ErrMissingColumn)
	}

	m := &Metadata{
		idColumn: idColumn,
		columns:  append([]string(nil), columns...),
		colIdx:   colIdx,
		ids:      make([]string, 0, len(records)),
		rowIdx:   make(map[string]int, len(records)),
		values:   make([][]string, 0, len(records)),
	}
	for n, rec := range records {
		if len(rec) != len(columns) {
			return nil, fmt.Errorf("metadata.New: record %d has %d fields, header %d: %w", n, len(rec), len(columns), ErrRaggedRecord)
		}
		id := rec[idAt]
		if _, dup := m.rowIdx[id]; dup {
			return nil, fmt.Errorf("metadata.New: %q: %w", id, ErrDuplicateSample)
		}
		m.rowIdx[id] = len(m.ids)
		m.ids = append(m.ids, id)
		m.values = append(m.values, append([]string(nil), rec...))
	}

	return m, nil
}

// Len returns the number of samples.
func (m *Metadata) Len() int { return len(m.ids) }

// IDColumn returns the name of the identifier column.
func (m *Metadata) IDColumn() string { return m.idColumn }

// Columns returns a copy of the header.
func (m *Metadata) Columns() []string { return append([]string(nil), m.columns...) }

// SampleIDs returns sample identifiers in file order.
func (m *Metadata) SampleIDs() []string { return append([]string(nil), m.ids...) }

// Get returns all attributes of a sample.
func (m *Metadata) Get(id string) (map[string]string, bool) {
	i, ok := m.rowIdx[id]
	if !ok {
		return nil, false
	}
	out := make(map[string]string, len(m.columns))
	for k, c := range m.columns {
		out[c] = m.values[i][k]
	}

	return out, true
}

// Value returns one attribute; ok is false for an unknown sample or column.
func (m *Metadata) Value(id, column string) (string, bool) {
	i, ok := m.rowIdx[id]
	if !ok {
		return "", false
	}
	k, ok := m.colIdx[column]
	if !ok {
		return "", false
	}

	return m.values[i][k], true
}

// Select lists samples whose column equals value, in file order.
// Errors: ErrMissingColumn.
func (m *Metadata) Select(column, value string) ([]string, error) {
	k, ok := m.colIdx[column]
	if !ok {
		return nil, fmt.Errorf("metadata.Select(%q): %w", column, ErrMissingColumn)
	}
	var out []string
	for i, row := range m.values {
		if row[k] == value {
			out = append(out, m.ids[i])
		}
	}

	return out, nil
}

// Groups maps each distinct value of column to its samples (file order).
// Errors: ErrMissingColumn.
func (m *Metadata) Groups(column string) (map[string][]string, error) {
	k, ok := m.colIdx[column]
	if !ok {
		return nil, fmt.Errorf("metadata.Groups(%q): %w", column, ErrMissingColumn)
	}
	out := make(map[string][]string)
	for i, row := range m.values {
		out[row[k]] = append(out[row[k]], m.ids[i])
	}

	return out, nil
}

// NormalizeIDs returns a copy whose identifiers were passed through fn.
// Errors: ErrDuplicateSample when two identifiers normalize to the same text.
func (m *Metadata) NormalizeIDs(fn Normalizer) (*Metadata, error) {
	idAt := m.colIdx[m.idColumn]
	records := make([][]string, len(m.values))
	for i, row := range m.values {
		rec := append([]string(nil), row...)
		rec[idAt] = fn(rec[idAt])
		records[i] = rec
	}

	return New(m.idColumn, m.columns, records)
}
