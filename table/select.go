// SPDX-License-Identifier: MIT
// Package: taxatab/table
//
// select.go - row/column selection, transpose and relabeling.
//
// Selection semantics:
//   • Set intersection: unknown IDs are silently excluded, never an error.
//   • Output preserves the table's own order, not the request order.
//   • Selection reports Requested (distinct IDs asked for), Retained and
//     Excluded = Requested − Retained for observability.

package table

// Selection describes the outcome of an ID-based selection.
type Selection struct {
	Requested int // distinct identifiers requested
	Retained  int // identifiers present in the table
	Excluded  int // Requested - Retained
}

// SelectSamples keeps the rows whose IDs appear in ids.
// Complexity: O(len(ids) + r*c).
func (t *FeatureTable) SelectSamples(ids []string) (*FeatureTable, Selection) {
	keep, sel := t.pick(ids, t.sampleIdx, len(t.samples))

	return t.FilterSamples(func(i int, _ string) bool { return keep[i] }), sel
}

// SelectFeatures keeps the columns whose IDs appear in ids.
// Complexity: O(len(ids) + r*c).
func (t *FeatureTable) SelectFeatures(ids []string) (*FeatureTable, Selection) {
	keep, sel := t.pick(ids, t.featureIdx, len(t.features))

	return t.FilterFeatures(func(j int, _ string) bool { return keep[j] }), sel
}

// pick marks requested positions and counts distinct requests.
func (t *FeatureTable) pick(ids []string, index map[string]int, n int) ([]bool, Selection) {
	keep := make([]bool, n)
	seen := make(map[string]struct{}, len(ids))
	var sel Selection
	for _, id := range ids {
		if _, dup := seen[id]; dup {
			continue
		}
		seen[id] = struct{}{}
		sel.Requested++
		if k, ok := index[id]; ok {
			keep[k] = true
			sel.Retained++
		}
	}
	sel.Excluded = sel.Requested - sel.Retained

	return keep, sel
}

// FilterSamples keeps the rows for which keep(i, id) is true, in order.
func (t *FeatureTable) FilterSamples(keep func(i int, id string) bool) *FeatureTable {
	rows := make([]int, 0, len(t.samples))
	ids := make([]string, 0, len(t.samples))
	for i, id := range t.samples {
		if keep(i, id) {
			rows = append(rows, i)
			ids = append(ids, id)
		}
	}

	return t.induce(rows, ids, allIndices(len(t.features)), t.Features())
}

// FilterFeatures keeps the columns for which keep(j, id) is true, in order.
func (t *FeatureTable) FilterFeatures(keep func(j int, id string) bool) *FeatureTable {
	cols := make([]int, 0, len(t.features))
	ids := make([]string, 0, len(t.features))
	for j, id := range t.features {
		if keep(j, id) {
			cols = append(cols, j)
			ids = append(ids, id)
		}
	}

	return t.induce(allIndices(len(t.samples)), t.Samples(), cols, ids)
}

// DropEmptyFeatures removes features whose total across samples is zero
// and returns how many were removed.
func (t *FeatureTable) DropEmptyFeatures() (*FeatureTable, int) {
	sums := t.FeatureSums()
	out := t.FilterFeatures(func(j int, _ string) bool { return sums[j] != 0 })

	return out, t.NumFeatures() - out.NumFeatures()
}

// Transpose swaps the axes: features become rows and samples columns.
// Useful for orientation-agnostic callers (e.g. feature-major exports).
func (t *FeatureTable) Transpose() *FeatureTable {
	return wrap(t.Features(), t.Samples(), t.values.T())
}

// RenameSamples applies fn to every sample ID.
// Errors: ErrDuplicateID (wrapping ErrShapeMismatch) when two IDs collide.
func (t *FeatureTable) RenameSamples(fn func(id string) string) (*FeatureTable, error) {
	ids := make([]string, len(t.samples))
	for i, id := range t.samples {
		ids[i] = fn(id)
	}

	return build(opRename, ids, t.features, t.values.Clone())
}

// RenameFeatures replaces feature IDs present in mapping; others are kept.
// Errors: ErrDuplicateID (wrapping ErrShapeMismatch) when two IDs collide.
func (t *FeatureTable) RenameFeatures(mapping map[string]string) (*FeatureTable, error) {
	ids := make([]string, len(t.features))
	for j, id := range t.features {
		if to, ok := mapping[id]; ok {
			ids[j] = to
			continue
		}
		ids[j] = id
	}

	return build(opRename, t.samples, ids, t.values.Clone())
}

// induce materializes a sub-table; indices are always in range here.
func (t *FeatureTable) induce(rows []int, rowIDs []string, cols []int, colIDs []string) *FeatureTable {
	m, err := t.values.Induced(rows, cols)
	if err != nil {
		// Indices come from enumerating this table; reaching here is a bug.
		panic(err)
	}

	return wrap(rowIDs, colIDs, m)
}

func allIndices(n int) []int {
	out := make([]int, n)
	for i := range out {
		out[i] = i
	}

	return out
}
