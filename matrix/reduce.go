// SPDX-License-Identifier: MIT
// Package: matrix
//
// Purpose:
//   - Provide the axis reductions every table stage needs (row sums, column
//     sums, non-zero counts) as deterministic kernels over the flat buffer.
//   - Accumulate with Neumaier-compensated summation so large count tables
//     keep full precision before CLR / relative-abundance transforms.
//
// Determinism & Performance:
//   - Fixed i→j traversal for all loops; results are bit-stable across runs.
//   - Zero-size matrices reduce to zero-length or all-zero results.

package matrix

import "math"

// Accumulator is a Neumaier (improved Kahan–Babuška) compensated sum.
// The zero value is ready to use.
type Accumulator struct {
	sum  float64
	comp float64
}

// Add folds v into the running sum.
func (a *Accumulator) Add(v float64) {
	t := a.sum + v
	if math.Abs(a.sum) >= math.Abs(v) {
		a.comp += (a.sum - t) + v
	} else {
		a.comp += (v - t) + a.sum
	}
	a.sum = t
}

// Sum returns the compensated total.
func (a *Accumulator) Sum() float64 { return a.sum + a.comp }

// Sum returns the compensated sum of xs.
// Complexity: O(n).
func Sum(xs []float64) float64 {
	var acc Accumulator
	for _, v := range xs {
		acc.Add(v)
	}

	return acc.Sum()
}

// RowSums returns Σ_j m[i,j] for every row i (len == Rows()).
// Complexity: Time O(r*c), Space O(r).
func RowSums(m *Dense) []float64 {
	out := make([]float64, m.r)
	var i int
	for i = 0; i < m.r; i++ {
		out[i] = Sum(m.data[i*m.c : (i+1)*m.c])
	}

	return out
}

// ColSums returns Σ_i m[i,j] for every column j (len == Cols()).
// Implementation:
//   - Stage 1: one accumulator per column.
//   - Stage 2: single row-major sweep (cache friendly), then finalize.
//
// Complexity: Time O(r*c), Space O(c).
func ColSums(m *Dense) []float64 {
	accs := make([]Accumulator, m.c)
	var i, j int
	for i = 0; i < m.r; i++ {
		base := i * m.c
		for j = 0; j < m.c; j++ {
			accs[j].Add(m.data[base+j])
		}
	}
	out := make([]float64, m.c)
	for j = 0; j < m.c; j++ {
		out[j] = accs[j].Sum()
	}

	return out
}

// ColNonZero counts, for every column, the rows holding a strictly positive value.
// Complexity: Time O(r*c), Space O(c).
func ColNonZero(m *Dense) []int {
	out := make([]int, m.c)
	var i, j int
	for i = 0; i < m.r; i++ {
		base := i * m.c
		for j = 0; j < m.c; j++ {
			if m.data[base+j] > 0 {
				out[j]++
			}
		}
	}

	return out
}

// Total returns the compensated sum over every element.
func Total(m *Dense) float64 {
	return Sum(m.data)
}
