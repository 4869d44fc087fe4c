// SPDX-License-Identifier: MIT

package table_test

import (
	"testing"

	"github.com/katalvlaran/taxatab/table"
	"github.com/stretchr/testify/require"
)

func TestSelectSamples_IntersectionSemantics(t *testing.T) {
	t.Parallel()

	tb := sampleTable(t)
	out, sel := tb.SelectSamples([]string{"s3", "nope", "s1", "s1"})

	// Table order is preserved, unknown IDs are dropped and counted.
	require.Equal(t, []string{"s1", "s3"}, out.Samples())
	require.Equal(t, table.Selection{Requested: 3, Retained: 2, Excluded: 1}, sel)
	require.Equal(t, []float64{4, 0, 0}, out.Row(1))
	// Receiver untouched.
	require.Equal(t, 3, tb.NumSamples())
}

func TestSelectFeatures(t *testing.T) {
	t.Parallel()

	tb := sampleTable(t)
	out, sel := tb.SelectFeatures([]string{"f3", "f1"})
	require.Equal(t, []string{"f1", "f3"}, out.Features())
	require.Equal(t, 0, sel.Excluded)
	require.Equal(t, []float64{0, 1}, out.Row(1))

	none, sel := tb.SelectFeatures([]string{"zz"})
	require.Equal(t, 0, none.NumFeatures())
	require.Equal(t, 3, none.NumSamples())
	require.True(t, none.IsEmpty())
	require.Equal(t, 1, sel.Excluded)
}

func TestDropEmptyFeatures(t *testing.T) {
	t.Parallel()

	tb := sampleTable(t)
	sub, _ := tb.SelectSamples([]string{"s1", "s3"})
	out, dropped := sub.DropEmptyFeatures()
	require.Equal(t, 1, dropped)
	require.Equal(t, []string{"f1", "f2"}, out.Features())
}

func TestTranspose(t *testing.T) {
	t.Parallel()

	tb := sampleTable(t)
	tr := tb.Transpose()
	require.Equal(t, tb.Features(), tr.Samples())
	require.Equal(t, tb.Samples(), tr.Features())
	v, ok := tr.At("f2", "s2")
	require.True(t, ok)
	require.Equal(t, 5.0, v)
	require.True(t, tr.Transpose().Equal(tb))
}

func TestRename(t *testing.T) {
	t.Parallel()

	tb := sampleTable(t)
	out, err := tb.RenameFeatures(map[string]string{"f1": "Strep_ASV-1"})
	require.NoError(t, err)
	require.Equal(t, []string{"Strep_ASV-1", "f2", "f3"}, out.Features())

	_, err = tb.RenameFeatures(map[string]string{"f1": "f2"})
	require.ErrorIs(t, err, table.ErrDuplicateID)
	require.ErrorIs(t, err, table.ErrShapeMismatch)

	renamed, err := tb.RenameSamples(func(id string) string { return "15564." + id })
	require.NoError(t, err)
	_, ok := renamed.SampleIndex("15564.s2")
	require.True(t, ok)
}
