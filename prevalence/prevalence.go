// SPDX-License-Identifier: MIT

// Package prevalence drops features that occur (count > 0) in fewer than a
// threshold percentage of samples.
//
// Prevalence of feature j is
//
//	|{i : count[i,j] > 0}| / |samples| × 100
//
// and Filter keeps features with prevalence >= threshold. The boundary is
// inclusive: threshold 0 keeps every feature, threshold 100 keeps only
// features present in every sample.
package prevalence

import (
	"errors"
	"fmt"
	"math"

	"github.com/katalvlaran/taxatab/matrix"
	"github.com/katalvlaran/taxatab/table"
)

// ErrInvalidThreshold indicates a threshold outside [0, 100] or NaN.
var ErrInvalidThreshold = errors.New("prevalence: threshold must be within [0, 100]")

// Report summarizes one Filter call.
type Report struct {
	Threshold float64
	Before    int // features in the input
	After     int // features retained
	Removed   int // Before - After
}

// Prevalence returns the percentage of samples in which each feature is
// non-zero, in feature order. A table without samples yields all zeros.
// Complexity: Time O(r*c), Space O(c).
func Prevalence(t *table.FeatureTable) []float64 {
	n := t.NumSamples()
	out := make([]float64, t.NumFeatures())
	if n == 0 {
		return out
	}
	nz := matrix.ColNonZero(t.Dense())
	for j, k := range nz {
		out[j] = float64(k) / float64(n) * 100
	}

	return out
}

// Filter keeps features whose prevalence is >= threshold, in original order.
//
// Errors: ErrInvalidThreshold; table.ErrNilTable.
// Complexity: Time O(r*c), Space O(r*c) for the output table.
func Filter(t *table.FeatureTable, threshold float64) (*table.FeatureTable, Report, error) {
	if t == nil {
		return nil, Report{}, fmt.Errorf("prevalence.Filter: %w", table.ErrNilTable)
	}
	if math.IsNaN(threshold) || threshold < 0 || threshold > 100 {
		return nil, Report{}, fmt.Errorf("prevalence.Filter(%v): %w", threshold, ErrInvalidThreshold)
	}

	prev := Prevalence(t)
	out := t.FilterFeatures(func(j int, _ string) bool { return prev[j] >= threshold })

	rep := Report{
		Threshold: threshold,
		Before:    t.NumFeatures(),
		After:     out.NumFeatures(),
	}
	rep.Removed = rep.Before - rep.After

	return out, rep, nil
}
