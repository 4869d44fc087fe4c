// SPDX-License-Identifier: MIT

// Package table defines FeatureTable, the samples × features abundance
// matrix every pipeline stage consumes and produces.
//
// A FeatureTable is an immutable value:
//
//   - samples (rows) and features (columns) are ordered, unique identifiers;
//   - values live in a row-major matrix.Dense of matching shape;
//   - id→index maps are built once at construction.
//
// Construction validates identifier uniqueness and shape consistency and
// fails with ErrShapeMismatch otherwise. Every transform returns a new
// table, so stages are independently testable and replayable.
//
// Selection by identifier uses set-intersection semantics: unknown IDs are
// dropped silently and counted in the returned Selection.
//
// Errors:
//
//	ErrShapeMismatch - identifier lists and values disagree in size.
//	ErrDuplicateID   - repeated identifier (always also ErrShapeMismatch).
//	ErrNotCounts     - a count-only stage received non-count values.
//	ErrNilTable      - nil table passed to a stage.
package table
