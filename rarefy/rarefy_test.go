// SPDX-License-Identifier: MIT

package rarefy_test

import (
	"testing"

	"github.com/katalvlaran/taxatab/rarefy"
	"github.com/katalvlaran/taxatab/table"
	"github.com/stretchr/testify/require"
)

func mustTable(t *testing.T, samples, features []string, values [][]float64) *table.FeatureTable {
	t.Helper()
	tb, err := table.New(samples, features, values)
	require.NoError(t, err)

	return tb
}

// mixed has one shallow sample (s2) and two deep ones.
func mixed(t *testing.T) *table.FeatureTable {
	return mustTable(t,
		[]string{"s1", "s2", "s3"},
		[]string{"f1", "f2", "f3", "f4"},
		[][]float64{
			{40, 25, 20, 15},
			{1, 0, 2, 0},
			{0, 90, 5, 5},
		})
}

func rowSum(row []float64) float64 {
	var s float64
	for _, v := range row {
		s += v
	}

	return s
}

func TestRarefy_Scenario(t *testing.T) {
	t.Parallel()

	tb := mustTable(t, []string{"A"}, []string{"f1", "f2"}, [][]float64{{10, 2}})
	a, rep, err := rarefy.Rarefy(tb, 6, 42)
	require.NoError(t, err)
	require.Equal(t, 6.0, rowSum(a.Row(0)))
	require.Equal(t, 1, rep.Rarefied)
	require.Empty(t, rep.BelowDepth)

	b, _, err := rarefy.Rarefy(tb, 6, 42)
	require.NoError(t, err)
	require.True(t, a.Equal(b))
}

func TestRarefy_RowsSumToDepthOrZero(t *testing.T) {
	t.Parallel()

	tb := mixed(t)
	for _, mode := range []rarefy.StreamMode{rarefy.SharedStream, rarefy.RowStreams} {
		out, rep, err := rarefy.Rarefy(tb, 50, 7, rarefy.WithStreams(mode))
		require.NoError(t, err)
		require.Equal(t, tb.Samples(), out.Samples(), "shape kept by default")
		require.Equal(t, []string{"s2"}, rep.BelowDepth)
		require.Equal(t, 50.0, rowSum(out.Row(0)))
		require.Equal(t, 0.0, rowSum(out.Row(1)))
		require.Equal(t, 50.0, rowSum(out.Row(2)))
		// Features with zero input count can never be drawn.
		require.Equal(t, 0.0, out.Row(2)[0])
		require.NoError(t, out.ValidateCounts())
	}
}

func TestRarefy_DropBelowDepth(t *testing.T) {
	t.Parallel()

	out, rep, err := rarefy.Rarefy(mixed(t), 50, 7, rarefy.WithDropBelowDepth())
	require.NoError(t, err)
	require.Equal(t, []string{"s1", "s3"}, out.Samples())
	require.True(t, rep.Dropped)
	require.Equal(t, []string{"s2"}, rep.BelowDepth)
}

func TestRarefy_SeedsDiffer(t *testing.T) {
	t.Parallel()

	tb := mustTable(t, []string{"s"}, []string{"a", "b", "c", "d"}, [][]float64{{50, 50, 50, 50}})
	a, _, err := rarefy.Rarefy(tb, 100, 1)
	require.NoError(t, err)
	b, _, err := rarefy.Rarefy(tb, 100, 2)
	require.NoError(t, err)
	require.False(t, a.Equal(b))
}

func TestRarefy_ParallelMatchesSerial(t *testing.T) {
	t.Parallel()

	rows := make([][]float64, 32)
	ids := make([]string, 32)
	for i := range rows {
		rows[i] = []float64{float64(10 + i), 5, float64(i % 7), 30}
		ids[i] = string(rune('A'+i%26)) + string(rune('a'+i/26))
	}
	tb := mustTable(t, ids, []string{"w", "x", "y", "z"}, rows)

	serial, _, err := rarefy.Rarefy(tb, 20, 99, rarefy.WithStreams(rarefy.RowStreams))
	require.NoError(t, err)
	parallel, _, err := rarefy.Rarefy(tb, 20, 99, rarefy.WithStreams(rarefy.RowStreams), rarefy.WithWorkers(8))
	require.NoError(t, err)
	require.True(t, serial.Equal(parallel))
}

func TestRarefy_Errors(t *testing.T) {
	t.Parallel()

	tb := mixed(t)
	for _, d := range []int{0, -3} {
		_, _, err := rarefy.Rarefy(tb, d, 1)
		require.ErrorIs(t, err, rarefy.ErrInvalidDepth)
	}

	frac := mustTable(t, []string{"s"}, []string{"a"}, [][]float64{{0.5}})
	_, _, err := rarefy.Rarefy(frac, 1, 1)
	require.ErrorIs(t, err, table.ErrNotCounts)

	_, _, err = rarefy.Rarefy(nil, 1, 1)
	require.ErrorIs(t, err, table.ErrNilTable)
}

func TestRarefy_EmptyIsNoop(t *testing.T) {
	t.Parallel()

	out, rep, err := rarefy.Rarefy(table.Empty(), 10, 1)
	require.NoError(t, err)
	require.True(t, out.IsEmpty())
	require.Zero(t, rep.Rarefied)

	out, _, err = rarefy.RarefyToMinimum(table.Empty(), 1)
	require.NoError(t, err)
	require.True(t, out.IsEmpty())
}

func TestRarefyToMinimum(t *testing.T) {
	t.Parallel()

	out, rep, err := rarefy.RarefyToMinimum(mixed(t), 3)
	require.NoError(t, err)
	require.Equal(t, 3, rep.Depth)
	for i := 0; i < out.NumSamples(); i++ {
		require.Equal(t, 3.0, rowSum(out.Row(i)))
	}

	zero := mustTable(t, []string{"a", "b"}, []string{"x"}, [][]float64{{4}, {0}})
	_, _, err = rarefy.RarefyToMinimum(zero, 3)
	require.ErrorIs(t, err, rarefy.ErrInvalidDepth)
}

func TestBelowDepthAndSummarize(t *testing.T) {
	t.Parallel()

	tb := mixed(t)
	require.Equal(t, []string{"s2"}, rarefy.BelowDepth(tb, 4))
	require.Empty(t, rarefy.BelowDepth(tb, 3))

	s := rarefy.Summarize(tb)
	require.Equal(t, rarefy.DepthSummary{Samples: 3, Min: 3, Max: 100, Mean: 203.0 / 3, Median: 100}, s)
	require.Equal(t, rarefy.DepthSummary{}, rarefy.Summarize(table.Empty()))

	unsorted := mustTable(t,
		[]string{"a", "b", "c", "d"},
		[]string{"f"},
		[][]float64{{7}, {2}, {9}, {6}})
	require.Equal(t, rarefy.DepthSummary{Samples: 4, Min: 2, Max: 9, Mean: 6, Median: 6.5}, rarefy.Summarize(unsorted))
}

func TestOptionsPanic(t *testing.T) {
	t.Parallel()

	require.Panics(t, func() { rarefy.WithWorkers(0) })
	require.Panics(t, func() { rarefy.WithStreams(rarefy.StreamMode(9)) })

	m, err := rarefy.ParseStreamMode("rows")
	require.NoError(t, err)
	require.Equal(t, rarefy.RowStreams, m)
	_, err = rarefy.ParseStreamMode("bogus")
	require.Error(t, err)
}
