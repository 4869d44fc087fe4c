// SPDX-License-Identifier: MIT

package rarefy

import (
	"sort"

	"github.com/katalvlaran/taxatab/table"
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"
)

// DepthSummary describes the distribution of per-sample totals. It is what
// callers look at before choosing a rarefaction depth.
type DepthSummary struct {
	Samples int
	Min     float64
	Max     float64
	Mean    float64
	Median  float64
}

// Summarize computes DepthSummary over t's sample totals. A table without
// samples yields the zero value.
func Summarize(t *table.FeatureTable) DepthSummary {
	sums := t.SampleSums()
	if len(sums) == 0 {
		return DepthSummary{}
	}
	// sorted is only needed for the median.
	sorted := append([]float64(nil), sums...)
	sort.Float64s(sorted)

	n := len(sorted)
	med := sorted[n/2]
	if n%2 == 0 {
		med = (sorted[n/2-1] + sorted[n/2]) / 2
	}

	return DepthSummary{
		Samples: n,
		Min:     floats.Min(sums),
		Max:     floats.Max(sums),
		Mean:    stat.Mean(sums, nil),
		Median:  med,
	}
}
