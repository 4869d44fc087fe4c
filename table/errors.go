// SPDX-License-Identifier: MIT
// Package: taxatab/table
//
// errors.go - sentinel errors for the table package.
//
// Error policy:
//   • Only sentinel variables are exposed; callers branch with errors.Is.
//   • Implementations attach context with %w (tableErrorf), never by
//     formatting parameters into the sentinel itself.
//   • Selection by unknown IDs is NOT an error (set-intersection semantics);
//     it is reported through Selection counts.

package table

import (
	"errors"
	"fmt"
)

// ErrShapeMismatch indicates that identifier sequences and the value matrix
// disagree in size, or that identifiers are not unique.
// Classification: fatal construction error; the caller must not proceed.
var ErrShapeMismatch = errors.New("table: shape mismatch")

// ErrDuplicateID indicates a repeated sample or feature identifier. It is
// always returned wrapped together with ErrShapeMismatch, so
// errors.Is(err, ErrShapeMismatch) holds for duplicates as well.
var ErrDuplicateID = errors.New("table: duplicate identifier")

// ErrNotCounts indicates that a stage requiring raw counts (non-negative
// whole numbers) received transformed or fractional values.
var ErrNotCounts = errors.New("table: values are not counts")

// ErrNilTable indicates that a nil *FeatureTable was passed to an operation.
var ErrNilTable = errors.New("table: nil table")

// tableErrorf wraps err with an operation tag.
func tableErrorf(op string, err error) error {
	return fmt.Errorf("%s: %w", op, err)
}

// duplicateErr builds the doubly-wrapped duplicate identifier error.
func duplicateErr(op, axis, id string) error {
	return fmt.Errorf("%s: %s %q: %w (%w)", op, axis, id, ErrDuplicateID, ErrShapeMismatch)
}

// joinErr keeps both sentinels matchable: "<outer>: <inner>".
func joinErr(outer, inner error) error {
	return fmt.Errorf("%w: %w", outer, inner)
}
