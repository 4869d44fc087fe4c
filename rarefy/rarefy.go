// SPDX-License-Identifier: MIT
// Package: taxatab/rarefy
//
// rarefy.go - subsampling every sample row to a common depth.
//
// Algorithm (per row i with integer counts c[i,·] and total T):
//   - T < depth: row is zeroed (default) or dropped (WithDropBelowDepth).
//   - otherwise: draw depth feature indices with replacement, P(j) = c[i,j]/T,
//     and emit the bin counts. Draws use exact integer cumulative weights:
//     u ~ U{0..T-1}, j = min{k : cum[k] > u}.
//
// This is multinomial resampling, not hypergeometric rarefaction: output
// rows follow the input proportions in expectation and may contain a
// feature more often than its input count.
//
// Determinism:
//   - Identical (table, depth, seed, mode) ⇒ identical output.
//   - RowStreams output is identical for any worker count.

package rarefy

import (
	"errors"
	"fmt"
	"math/rand"
	"sort"

	"github.com/katalvlaran/taxatab/matrix"
	"github.com/katalvlaran/taxatab/table"
	"golang.org/x/sync/errgroup"
)

// ErrInvalidDepth indicates a target depth <= 0.
var ErrInvalidDepth = errors.New("rarefy: depth must be > 0")

// Report describes one Rarefy call.
type Report struct {
	Depth      int
	Mode       StreamMode
	Rarefied   int      // rows resampled to depth
	BelowDepth []string // sample IDs whose total was < depth, in row order
	Dropped    bool     // BelowDepth rows were removed rather than zeroed
}

// Rarefy resamples every row of t to exactly depth counts.
//
// Implementation:
//   - Stage 1: validate depth, nil and count inputs; empty tables are a no-op.
//   - Stage 2: classify rows against depth using exact integer totals.
//   - Stage 3: resample eligible rows (serial or errgroup-parallel).
//   - Stage 4: zero or drop the below-depth rows and assemble the output.
//
// Errors: ErrInvalidDepth, table.ErrNotCounts, table.ErrNilTable.
// Complexity: Time O(r*c + r*depth*log c), Space O(r*c).
func Rarefy(t *table.FeatureTable, depth int, seed int64, opts ...Option) (*table.FeatureTable, Report, error) {
	cfg := defaultConfig()
	for _, o := range opts {
		o(&cfg)
	}
	rep := Report{Depth: depth, Mode: cfg.mode, Dropped: cfg.dropBelow}

	if depth <= 0 {
		return nil, rep, fmt.Errorf("rarefy.Rarefy(depth=%d): %w", depth, ErrInvalidDepth)
	}
	if t == nil {
		return nil, rep, fmt.Errorf("rarefy.Rarefy: %w", table.ErrNilTable)
	}
	if t.IsEmpty() {
		return t.FilterSamples(func(int, string) bool { return true }), rep, nil
	}
	if err := t.ValidateCounts(); err != nil {
		return nil, rep, fmt.Errorf("rarefy.Rarefy: %w", err)
	}

	src := t.Dense()
	r, c := src.Shape()
	counts := make([][]int64, r)
	eligible := make([]bool, r)
	samples := t.Samples()
	var i int
	for i = 0; i < r; i++ {
		counts[i] = toInts(src.RowView(i))
		if rowTotal(counts[i]) >= int64(depth) {
			eligible[i] = true
			rep.Rarefied++
			continue
		}
		rep.BelowDepth = append(rep.BelowDepth, samples[i])
	}

	out, err := matrix.NewDense(r, c)
	if err != nil {
		return nil, rep, fmt.Errorf("rarefy.Rarefy: %w", err)
	}
	if err = resample(out, counts, eligible, depth, seed, cfg); err != nil {
		return nil, rep, fmt.Errorf("rarefy.Rarefy: %w", err)
	}

	res, err := t.WithValues(out)
	if err != nil {
		return nil, rep, fmt.Errorf("rarefy.Rarefy: %w", err)
	}
	if cfg.dropBelow && len(rep.BelowDepth) > 0 {
		res = res.FilterSamples(func(i int, _ string) bool { return eligible[i] })
	}

	return res, rep, nil
}

// RarefyToMinimum rarefies to the smallest per-sample total of t, computed
// before any row is dropped. An empty table is a no-op; a minimum
// of zero is reported as ErrInvalidDepth.
func RarefyToMinimum(t *table.FeatureTable, seed int64, opts ...Option) (*table.FeatureTable, Report, error) {
	if t == nil {
		return nil, Report{}, fmt.Errorf("rarefy.RarefyToMinimum: %w", table.ErrNilTable)
	}
	if t.IsEmpty() {
		return Rarefy(t, 1, seed, opts...)
	}

	return Rarefy(t, int(Summarize(t).Min), seed, opts...)
}

// BelowDepth lists samples whose total is strictly below depth, in row
// order, so callers can pre-filter before rarefying.
func BelowDepth(t *table.FeatureTable, depth int) []string {
	var out []string
	sums := t.SampleSums()
	samples := t.Samples()
	for i, s := range sums {
		if s < float64(depth) {
			out = append(out, samples[i])
		}
	}

	return out
}

// resample fills eligible rows of out. Ineligible rows stay zero.
func resample(out *matrix.Dense, counts [][]int64, eligible []bool, depth int, seed int64, cfg config) error {
	if cfg.mode == SharedStream {
		rng := rand.New(rand.NewSource(seed))
		for i, row := range counts {
			if eligible[i] {
				writeRow(out, i, draw(rng, row, depth))
			}
		}

		return nil
	}

	if cfg.workers <= 1 {
		for i, row := range counts {
			if eligible[i] {
				writeRow(out, i, draw(rowRand(seed, i), row, depth))
			}
		}

		return nil
	}

	// Parallel RowStreams: each goroutine owns one output row.
	rows := make([][]int64, len(counts))
	var g errgroup.Group
	g.SetLimit(cfg.workers)
	for i := range counts {
		if !eligible[i] {
			continue
		}
		i := i
		g.Go(func() error {
			rows[i] = draw(rowRand(seed, i), counts[i], depth)

			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return err
	}
	for i, bins := range rows {
		if bins != nil {
			writeRow(out, i, bins)
		}
	}

	return nil
}

// draw performs depth weighted draws with replacement over row.
func draw(rng *rand.Rand, row []int64, depth int) []int64 {
	cum := make([]int64, len(row))
	var acc int64
	for j, v := range row {
		acc += v
		cum[j] = acc
	}
	bins := make([]int64, len(row))
	for d := 0; d < depth; d++ {
		u := rng.Int63n(acc)
		j := sort.Search(len(cum), func(k int) bool { return cum[k] > u })
		bins[j]++
	}

	return bins
}

// rowRand derives the generator for row i from (seed, i) with a
// splitmix64 finalizer so neighbouring rows get unrelated streams.
func rowRand(seed int64, i int) *rand.Rand {
	z := uint64(seed) + uint64(i+1)*0x9E3779B97F4A7C15
	z = (z ^ (z >> 30)) * 0xBF58476D1CE4E5B9
	z = (z ^ (z >> 27)) * 0x94D049BB133111EB
	z ^= z >> 31

	return rand.New(rand.NewSource(int64(z)))
}

func writeRow(out *matrix.Dense, i int, bins []int64) {
	row := out.RowView(i)
	for j, b := range bins {
		row[j] = float64(b)
	}
}

// toInts converts a validated count row.
func toInts(row []float64) []int64 {
	out := make([]int64, len(row))
	for j, v := range row {
		out[j] = int64(v)
	}

	return out
}

func rowTotal(row []int64) int64 {
	var s int64
	for _, v := range row {
		s += v
	}

	return s
}
