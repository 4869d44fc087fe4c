// SPDX-License-Identifier: MIT

package collapse_test

import (
	"testing"

	"github.com/katalvlaran/taxatab/collapse"
	"github.com/katalvlaran/taxatab/labeler"
	"github.com/katalvlaran/taxatab/table"
	"github.com/katalvlaran/taxatab/taxonomy"
	"github.com/stretchr/testify/require"
)

func fixture(t *testing.T) (*table.FeatureTable, *taxonomy.Resolver) {
	t.Helper()
	tb, err := table.New(
		[]string{"s1", "s2"},
		[]string{"a", "b", "c", "d", "e"},
		[][]float64{
			{1, 2, 30, 4, 100},
			{5, 6, 0, 8, 100},
		},
	)
	require.NoError(t, err)
	res := taxonomy.NewResolver(map[string]string{
		"a": "k__Bacteria;p__Firmicutes;c__Bacilli;o__L;f__S;g__Strep",
		"b": "k__Bacteria;p__Firmicutes;c__Bacilli;o__L;f__S;g__Strep",
		"c": "k__Bacteria;p__Actinobacteria;c__A;o__M;f__M;g__Rothia",
		"d": "k__Bacteria;p__Proteobacteria",
		// e: no lineage
	})

	return tb, res
}

func TestCollapse_Genus(t *testing.T) {
	t.Parallel()

	tb, res := fixture(t)
	out, rep, err := collapse.Collapse(tb, res, taxonomy.Genus)
	require.NoError(t, err)

	// Rothia total 30, Strep total 14.
	require.Equal(t, []string{"g__Rothia", "g__Strep"}, out.Features())
	require.Equal(t, []float64{30, 3}, out.Row(0))
	require.Equal(t, []float64{0, 11}, out.Row(1))
	require.Equal(t, []string{"d", "e"}, rep.Excluded)
	require.Equal(t, 1, rep.Missing)
	require.Equal(t, 2, rep.Groups)
}

func TestCollapse_MassConservation(t *testing.T) {
	t.Parallel()

	tb, res := fixture(t)
	for _, rank := range taxonomy.Ranks() {
		out, rep, err := collapse.Collapse(tb, res, rank)
		require.NoError(t, err)

		excluded := map[string]bool{}
		for _, id := range rep.Excluded {
			excluded[id] = true
		}
		kept := tb.FilterFeatures(func(_ int, id string) bool { return !excluded[id] })
		require.InDelta(t, kept.Total(), out.Total(), 1e-9, rank.String())
	}
}

func TestCollapse_TieBreakByToken(t *testing.T) {
	t.Parallel()

	tb, err := table.New([]string{"s"}, []string{"x", "y"}, [][]float64{{5, 5}})
	require.NoError(t, err)
	res := taxonomy.NewResolver(map[string]string{"x": "k__Zeta", "y": "k__Alpha"})

	out, _, err := collapse.Collapse(tb, res, taxonomy.Kingdom)
	require.NoError(t, err)
	require.Equal(t, []string{"k__Alpha", "k__Zeta"}, out.Features())
}

func TestCollapse_UnknownLineageGroupsAtKingdom(t *testing.T) {
	t.Parallel()

	tb, res := fixture(t)
	out, rep, err := collapse.Collapse(tb, res, taxonomy.Kingdom)
	require.NoError(t, err)
	require.Empty(t, rep.Excluded)
	require.Equal(t, []string{taxonomy.Unknown, "k__Bacteria"}, out.Features())
}

func TestCollapseAll(t *testing.T) {
	t.Parallel()

	tb, res := fixture(t)
	tables, reports, err := collapse.CollapseAll(tb, res)
	require.NoError(t, err)
	require.Len(t, tables, taxonomy.NumRanks)
	require.Equal(t, 3, tables[taxonomy.Phylum].NumFeatures())
	require.Equal(t, 0, tables[taxonomy.Species].NumFeatures())
	require.Len(t, reports[taxonomy.Species].Excluded, 5)
}

func TestCollapse_Errors(t *testing.T) {
	t.Parallel()

	tb, res := fixture(t)
	_, _, err := collapse.Collapse(tb, res, taxonomy.Rank(-1))
	require.ErrorIs(t, err, collapse.ErrInvalidRank)
	_, _, err = collapse.Collapse(tb, nil, taxonomy.Genus)
	require.ErrorIs(t, err, collapse.ErrNilResolver)
	_, _, err = collapse.Collapse(nil, res, taxonomy.Genus)
	require.ErrorIs(t, err, table.ErrNilTable)
}

func TestCollapse_TokensDifferFromLabels(t *testing.T) {
	t.Parallel()

	tb, res := fixture(t)
	out, _, err := collapse.Collapse(tb, res, taxonomy.Genus)
	require.NoError(t, err)
	a, err := labeler.Assign(tb, res, taxonomy.Genus)
	require.NoError(t, err)
	relabeled, err := labeler.Relabel(tb, a)
	require.NoError(t, err)

	require.Contains(t, out.Features(), "g__Strep")
	require.NotContains(t, out.Features(), "Strep")
	for _, l := range relabeled.Features() {
		require.NotContains(t, l, "g__")
	}
	require.Contains(t, relabeled.Features(), "Strep_ASV-1")
}
