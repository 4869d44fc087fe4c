// SPDX-License-Identifier: MIT

// Package table - FeatureTable: immutable samples × features abundance matrix.
//
// Purpose:
//   - Pair a row-major matrix.Dense with ordered, unique sample and feature
//     identifiers and id→index maps built once per table.
//   - Keep every operation pure: each call returns a new *FeatureTable, the
//     receiver is never mutated and accessors hand out copies.
//
// Complexity quicksheet:
//   - New/FromDense: O(r*c) copy + O(r+c) index build.
//   - Value/At/SampleIndex/FeatureIndex: O(1).
//   - SampleSums/FeatureSums/Total: O(r*c).

package table

import (
	"github.com/katalvlaran/taxatab/matrix"
)

// Operation tags used for uniform error wrapping.
const (
	opNew       = "table.New"
	opFromDense = "table.FromDense"
	opCounts    = "table.ValidateCounts"
	opRename    = "table.Rename"
)

// Axis names used in duplicate-identifier errors.
const (
	axisSample  = "sample"
	axisFeature = "feature"
)

// FeatureTable is an immutable abundance table.
//   - samples define row order, features define column order.
//   - values has shape len(samples) × len(features).
//   - sampleIdx / featureIdx map identifiers to positions.
type FeatureTable struct {
	samples    []string
	features   []string
	sampleIdx  map[string]int
	featureIdx map[string]int
	values     *matrix.Dense
}

// New builds a table from identifier lists and a rectangular [][]float64
// (one inner slice per sample, in feature order). Inputs are copied.
//
// Errors:
//   - ErrShapeMismatch when len(values) != len(samples), a row length differs
//     from len(features), or an identifier repeats (also ErrDuplicateID).
//   - matrix.ErrNaNInf when a value is not finite.
//
// Complexity: Time O(r*c), Space O(r*c).
func New(samples, features []string, values [][]float64) (*FeatureTable, error) {
	if len(values) != len(samples) {
		return nil, tableErrorf(opNew, ErrShapeMismatch)
	}
	for _, row := range values {
		if len(row) != len(features) {
			return nil, tableErrorf(opNew, ErrShapeMismatch)
		}
	}
	m, err := matrix.FromRows(values, len(features))
	if err != nil {
		return nil, tableErrorf(opNew, err)
	}

	return build(opNew, samples, features, m)
}

// FromDense builds a table around a copy of m.
// Errors: same classes as New; matrix.ErrNilMatrix for nil m.
func FromDense(samples, features []string, m *matrix.Dense) (*FeatureTable, error) {
	if err := matrix.ValidateNotNil(m); err != nil {
		return nil, tableErrorf(opFromDense, err)
	}
	if m.Rows() != len(samples) || m.Cols() != len(features) {
		return nil, tableErrorf(opFromDense, ErrShapeMismatch)
	}

	return build(opFromDense, samples, features, m.Clone())
}

// build validates identifiers and takes ownership of m.
func build(op string, samples, features []string, m *matrix.Dense) (*FeatureTable, error) {
	sIdx, err := indexIDs(op, axisSample, samples)
	if err != nil {
		return nil, err
	}
	fIdx, err := indexIDs(op, axisFeature, features)
	if err != nil {
		return nil, err
	}

	return &FeatureTable{
		samples:    append([]string(nil), samples...),
		features:   append([]string(nil), features...),
		sampleIdx:  sIdx,
		featureIdx: fIdx,
		values:     m,
	}, nil
}

// indexIDs builds the id→position map, rejecting duplicates.
func indexIDs(op, axis string, ids []string) (map[string]int, error) {
	idx := make(map[string]int, len(ids))
	for i, id := range ids {
		if _, dup := idx[id]; dup {
			return nil, duplicateErr(op, axis, id)
		}
		idx[id] = i
	}

	return idx, nil
}

// wrap assembles a table from already-validated parts (internal fast path).
// ids must be unique and m owned by the caller.
func wrap(samples, features []string, m *matrix.Dense) *FeatureTable {
	sIdx := make(map[string]int, len(samples))
	for i, id := range samples {
		sIdx[id] = i
	}
	fIdx := make(map[string]int, len(features))
	for j, id := range features {
		fIdx[id] = j
	}

	return &FeatureTable{samples: samples, features: features, sampleIdx: sIdx, featureIdx: fIdx, values: m}
}

// Empty returns a 0×0 table.
func Empty() *FeatureTable {
	m, _ := matrix.NewDense(0, 0)

	return wrap(nil, nil, m)
}

// Samples returns a copy of the ordered sample identifiers.
func (t *FeatureTable) Samples() []string { return append([]string(nil), t.samples...) }

// Features returns a copy of the ordered feature identifiers.
func (t *FeatureTable) Features() []string { return append([]string(nil), t.features...) }

// NumSamples returns the number of rows.
func (t *FeatureTable) NumSamples() int { return len(t.samples) }

// NumFeatures returns the number of columns.
func (t *FeatureTable) NumFeatures() int { return len(t.features) }

// IsEmpty reports whether the table has no samples or no features.
func (t *FeatureTable) IsEmpty() bool { return len(t.samples) == 0 || len(t.features) == 0 }

// SampleIndex returns the row position of a sample ID.
func (t *FeatureTable) SampleIndex(id string) (int, bool) {
	i, ok := t.sampleIdx[id]

	return i, ok
}

// FeatureIndex returns the column position of a feature ID.
func (t *FeatureTable) FeatureIndex(id string) (int, bool) {
	j, ok := t.featureIdx[id]

	return j, ok
}

// Value returns the cell at (i, j) or a wrapped matrix.ErrOutOfRange.
func (t *FeatureTable) Value(i, j int) (float64, error) {
	return t.values.At(i, j)
}

// At returns the cell addressed by identifiers; ok is false if either is unknown.
func (t *FeatureTable) At(sample, feature string) (float64, bool) {
	i, ok := t.sampleIdx[sample]
	if !ok {
		return 0, false
	}
	j, ok := t.featureIdx[feature]
	if !ok {
		return 0, false
	}
	v, _ := t.values.At(i, j)

	return v, true
}

// Row returns a copy of sample row i (nil when out of range).
func (t *FeatureTable) Row(i int) []float64 { return t.values.Row(i) }

// Dense returns a copy of the value matrix.
func (t *FeatureTable) Dense() *matrix.Dense { return t.values.Clone() }

// SampleSums returns per-sample totals (sequencing depth for count tables).
func (t *FeatureTable) SampleSums() []float64 { return matrix.RowSums(t.values) }

// FeatureSums returns per-feature totals across all samples.
func (t *FeatureTable) FeatureSums() []float64 { return matrix.ColSums(t.values) }

// Total returns the sum over every cell.
func (t *FeatureTable) Total() float64 { return matrix.Total(t.values) }

// ValidateCounts checks that every value is a non-negative whole number.
// The returned error wraps ErrNotCounts and the underlying matrix sentinel.
func (t *FeatureTable) ValidateCounts() error {
	if err := matrix.ValidateCounts(t.values); err != nil {
		return tableErrorf(opCounts, joinErr(ErrNotCounts, err))
	}

	return nil
}

// Equal reports identical identifiers (same order) and identical values.
func (t *FeatureTable) Equal(o *FeatureTable) bool {
	if t == nil || o == nil {
		return t == o
	}
	if !equalStrings(t.samples, o.samples) || !equalStrings(t.features, o.features) {
		return false
	}

	return t.values.Equal(o.values)
}

func equalStrings(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}

	return true
}

// WithValues returns a table carrying the same identifiers and a copy of m.
// Stages that keep the shape (rarefaction) use it to build their output.
// Errors: ErrShapeMismatch when m's shape differs; matrix.ErrNilMatrix.
func (t *FeatureTable) WithValues(m *matrix.Dense) (*FeatureTable, error) {
	return FromDense(t.samples, t.features, m)
}
