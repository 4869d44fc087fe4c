// SPDX-License-Identifier: MIT
// Package: matrix
//
// Purpose:
//  - Provide a single, canonical source of truth for value-domain checks.
//  - Return plain sentinel errors wrapped with the validator tag so call
//    sites can match them with errors.Is.
//
// Note:
//  - Each composite validator follows a fixed sequence (NotNil → domain).

package matrix

import (
	"errors"
	"math"
)

// ErrNegative indicates that a strictly non-negative matrix held a negative value.
var ErrNegative = errors.New("matrix: negative value")

// ErrNonIntegral indicates that a matrix expected to hold whole numbers did not.
var ErrNonIntegral = errors.New("matrix: non-integral value")

// ValidateNotNil ensures the matrix reference is non-nil.
// Complexity: O(1).
func ValidateNotNil(m *Dense) error {
	if m == nil {
		return matrixErrorf("ValidateNotNil", ErrNilMatrix)
	}

	return nil
}

// ValidateNonNegative ensures every element is >= 0.
// The returned error carries the first offending coordinates.
// Complexity: O(r*c).
func ValidateNonNegative(m *Dense) error {
	if err := ValidateNotNil(m); err != nil {
		return err
	}
	for k, v := range m.data {
		if v < 0 {
			return denseErrorf("ValidateNonNegative", k/m.c, k%m.c, ErrNegative)
		}
	}

	return nil
}

// ValidateCounts ensures every element is a non-negative whole number
// representable exactly in float64 (|v| <= 2^53).
// Complexity: O(r*c).
func ValidateCounts(m *Dense) error {
	if err := ValidateNonNegative(m); err != nil {
		return err
	}
	for k, v := range m.data {
		if v != math.Trunc(v) || v > maxExactInt {
			return denseErrorf("ValidateCounts", k/m.c, k%m.c, ErrNonIntegral)
		}
	}

	return nil
}

// maxExactInt is the largest integer n such that all integers in [0, n]
// are exactly representable in float64.
const maxExactInt = 1 << 53
