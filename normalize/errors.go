// SPDX-License-Identifier: MIT

package normalize

import "errors"

var (
	// ErrEmptyTable indicates a table with zero samples or zero features,
	// for which totals and geometric means are undefined.
	ErrEmptyTable = errors.New("normalize: empty table")

	// ErrNegativeValue indicates a negative input cell, or a CLR cell whose
	// shifted value x+pseudocount is not strictly positive.
	ErrNegativeValue = errors.New("normalize: negative or non-positive value")
)
