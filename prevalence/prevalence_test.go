// SPDX-License-Identifier: MIT

package prevalence_test

import (
	"math"
	"testing"

	"github.com/katalvlaran/taxatab/prevalence"
	"github.com/katalvlaran/taxatab/table"
	"github.com/stretchr/testify/require"
)

// threeSamples: x present in s1,s2; y in all; z nowhere.
func threeSamples(t *testing.T) *table.FeatureTable {
	t.Helper()
	tb, err := table.New(
		[]string{"s1", "s2", "s3"},
		[]string{"x", "y", "z"},
		[][]float64{{3, 1, 0}, {1, 4, 0}, {0, 2, 0}},
	)
	require.NoError(t, err)

	return tb
}

func TestPrevalence(t *testing.T) {
	t.Parallel()

	p := prevalence.Prevalence(threeSamples(t))
	require.InDelta(t, 66.7, p[0], 0.05)
	require.Equal(t, 100.0, p[1])
	require.Equal(t, 0.0, p[2])
}

func TestFilter_Scenario(t *testing.T) {
	t.Parallel()

	tb := threeSamples(t)

	out, rep, err := prevalence.Filter(tb, 70)
	require.NoError(t, err)
	require.Equal(t, []string{"y"}, out.Features())
	require.Equal(t, prevalence.Report{Threshold: 70, Before: 3, After: 1, Removed: 2}, rep)

	out, _, err = prevalence.Filter(tb, 50)
	require.NoError(t, err)
	require.Equal(t, []string{"x", "y"}, out.Features())
}

func TestFilter_Boundaries(t *testing.T) {
	t.Parallel()

	tb := threeSamples(t)

	all, _, err := prevalence.Filter(tb, 0)
	require.NoError(t, err)
	require.Equal(t, tb.Features(), all.Features())

	full, _, err := prevalence.Filter(tb, 100)
	require.NoError(t, err)
	require.Equal(t, []string{"y"}, full.Features())
}

func TestFilter_Monotone(t *testing.T) {
	t.Parallel()

	tb := threeSamples(t)
	prev := tb.NumFeatures()
	for th := 0.0; th <= 100; th += 5 {
		out, _, err := prevalence.Filter(tb, th)
		require.NoError(t, err)
		require.LessOrEqual(t, out.NumFeatures(), prev)
		prev = out.NumFeatures()
	}
}

func TestFilter_InvalidThreshold(t *testing.T) {
	t.Parallel()

	tb := threeSamples(t)
	for _, th := range []float64{-1, 100.5, math.NaN()} {
		_, _, err := prevalence.Filter(tb, th)
		require.ErrorIs(t, err, prevalence.ErrInvalidThreshold)
	}
	_, _, err := prevalence.Filter(nil, 10)
	require.ErrorIs(t, err, table.ErrNilTable)
}

func TestFilter_NoSamples(t *testing.T) {
	t.Parallel()

	tb, err := table.New(nil, []string{"a"}, nil)
	require.NoError(t, err)
	require.Equal(t, []float64{0}, prevalence.Prevalence(tb))
	out, _, err := prevalence.Filter(tb, 0)
	require.NoError(t, err)
	require.Equal(t, 1, out.NumFeatures())
}
