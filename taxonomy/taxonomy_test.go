// SPDX-License-Identifier: MIT

package taxonomy_test

import (
	"testing"

	"github.com/katalvlaran/taxatab/taxonomy"
	"github.com/stretchr/testify/require"
)

const fullLineage = "k__Bacteria; p__Firmicutes; c__Bacilli; o__Lactobacillales; f__Streptococcaceae; g__Streptococcus; s__mitis"

func TestParseRank(t *testing.T) {
	t.Parallel()

	r, err := taxonomy.ParseRank(" genus ")
	require.NoError(t, err)
	require.Equal(t, taxonomy.Genus, r)
	require.Equal(t, "Genus", r.String())

	_, err = taxonomy.ParseRank("strain")
	require.ErrorIs(t, err, taxonomy.ErrUnknownRank)

	var u taxonomy.Rank
	require.NoError(t, u.UnmarshalText([]byte("Phylum")))
	require.Equal(t, taxonomy.Phylum, u)
	require.Len(t, taxonomy.Ranks(), taxonomy.NumRanks)
}

func TestParseLineage_Full(t *testing.T) {
	t.Parallel()

	l := taxonomy.ParseLineage(fullLineage)
	require.True(t, l.Complete())
	require.Equal(t, "g__Streptococcus", l.At(taxonomy.Genus))
	require.Equal(t, "k__Bacteria", l.At(taxonomy.Kingdom))
}

func TestParseLineage_Partial(t *testing.T) {
	t.Parallel()

	l := taxonomy.ParseLineage("k__Bacteria;p__Firmicutes;;o__X")
	require.True(t, l.Has(taxonomy.Phylum))
	require.False(t, l.Has(taxonomy.Class), "empty segment is absent")
	require.True(t, l.Has(taxonomy.Order))
	require.False(t, l.Has(taxonomy.Genus))
	require.Equal(t, taxonomy.Unknown, l.At(taxonomy.Genus))
	require.False(t, l.Complete())
}

func TestParseLineage_ExtraSegmentsIgnored(t *testing.T) {
	t.Parallel()

	l := taxonomy.ParseLineage(fullLineage + "; t__strain")
	require.True(t, l.Complete())
	require.Equal(t, "s__mitis", l.At(taxonomy.Species))
}

func TestUnknownLineage(t *testing.T) {
	t.Parallel()

	for _, s := range []string{"", "   "} {
		l := taxonomy.ParseLineage(s)
		require.True(t, l.IsUnknown())
		require.True(t, l.Has(taxonomy.Kingdom))
		require.Equal(t, taxonomy.Unknown, l.At(taxonomy.Kingdom))
		require.False(t, l.Has(taxonomy.Genus))
		require.Equal(t, taxonomy.Unknown, l.String())
	}
}

func TestStripRankPrefix(t *testing.T) {
	t.Parallel()

	cases := map[string]string{
		"g__Strep":    "Strep",
		" s__mitis ":  "mitis",
		"D_5__Rothia": "Rothia",
		"Strep":       "Strep",
		"g__":         "",
		"__odd":       "__odd",
		"long__name":  "long__name",
	}
	for in, want := range cases {
		require.Equal(t, want, taxonomy.StripRankPrefix(in), in)
	}
}

func TestResolver(t *testing.T) {
	t.Parallel()

	r := taxonomy.NewResolver(map[string]string{
		"f1": fullLineage,
		"f2": "k__Bacteria;p__Actinobacteria",
	})
	require.Equal(t, 2, r.Len())

	l, ok := r.Lookup("f9")
	require.False(t, ok)
	require.True(t, l.IsUnknown())

	ls, rep := r.ResolveAll([]string{"f1", "f2", "f9"})
	require.Len(t, ls, 3)
	require.Equal(t, taxonomy.Report{Missing: 1, Partial: 2}, rep)
	require.Equal(t, "p__Actinobacteria", ls[1].At(taxonomy.Phylum))
}
